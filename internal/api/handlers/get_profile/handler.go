package get_profile

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-SmartQueue/internal/api/handlers"
	"github.com/m04kA/SMC-SmartQueue/internal/api/middleware"
	"github.com/m04kA/SMC-SmartQueue/internal/service/profiles"
)

const (
	msgMissingUserID = "отсутствует ID пользователя"
	msgNotFound      = "профиль не найден"
)

type Handler struct {
	service ProfileService
	logger  Logger
}

func NewHandler(service ProfileService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/users/me/profile
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("GET /users/me/profile - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	profile, err := h.service.Get(r.Context(), userID)
	if err != nil {
		if errors.Is(err, profiles.ErrProfileNotFound) {
			h.logger.Warn("GET /users/me/profile - Profile not found: user_id=%d", userID)
			handlers.RespondNotFound(w, msgNotFound)
			return
		}

		h.logger.Error("GET /users/me/profile - Failed to get profile: user_id=%d, error=%v", userID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /users/me/profile - Profile retrieved successfully: user_id=%d", userID)
	handlers.RespondJSON(w, http.StatusOK, profile)
}
