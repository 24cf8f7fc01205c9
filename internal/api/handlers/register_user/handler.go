package register_user

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-SmartQueue/internal/api/handlers"
	"github.com/m04kA/SMC-SmartQueue/internal/service/profiles"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgAlreadyRegistered  = "пользователь уже зарегистрирован"
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

// Handle POST /api/v1/internal/users/registered
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req UserRegisteredRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /internal/users/registered - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	profile, err := h.service.Register(r.Context(), req.ToServiceRequest())
	if err != nil {
		switch {
		case errors.Is(err, profiles.ErrAlreadyRegistered):
			h.logger.Warn("POST /internal/users/registered - Already registered: user_id=%d", req.UserID)
			handlers.RespondConflict(w, msgAlreadyRegistered)

		case errors.Is(err, profiles.ErrInvalidInput):
			h.logger.Warn("POST /internal/users/registered - Invalid data: user_id=%d, error=%v", req.UserID, err)
			handlers.RespondBadRequest(w, msgInvalidRequestBody)

		default:
			h.logger.Error("POST /internal/users/registered - Failed to register: user_id=%d, error=%v", req.UserID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /internal/users/registered - Profile created: user_id=%d", profile.UserID)
	handlers.RespondJSON(w, http.StatusCreated, profile)
}
