package get_recommended_slots

import (
	"net/http"
	"strconv"

	"github.com/m04kA/SMC-SmartQueue/internal/api/handlers"
	"github.com/m04kA/SMC-SmartQueue/internal/service/catalog/models"
)

const (
	msgInvalidLimit = "некорректный limit, ожидается число от 1 до 50"
	maxLimit        = 50
)

// RecommendedSlotsResponse HTTP response model
type RecommendedSlotsResponse struct {
	Slots []models.SlotResponse `json:"slots"`
}

type Handler struct {
	recommender Recommender
	logger      Logger
}

func NewHandler(recommender Recommender, logger Logger) *Handler {
	return &Handler{
		recommender: recommender,
		logger:      logger,
	}
}

// Handle GET /api/v1/recommended-slots
// Query params: limit (опционально, по умолчанию из конфигурации)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > maxLimit {
			h.logger.Warn("GET /recommended-slots - Invalid limit: %q", raw)
			handlers.RespondBadRequest(w, msgInvalidLimit)
			return
		}
		limit = n
	}

	slots, err := h.recommender.RecommendedSlots(r.Context(), limit)
	if err != nil {
		h.logger.Error("GET /recommended-slots - Failed to get recommendations: error=%v", err)
		handlers.RespondInternalError(w)
		return
	}

	resp := RecommendedSlotsResponse{Slots: make([]models.SlotResponse, 0, len(slots))}
	for _, occ := range slots {
		resp.Slots = append(resp.Slots, models.FromSlotOccupancy(occ))
	}

	h.logger.Info("GET /recommended-slots - Recommendations retrieved: count=%d", len(resp.Slots))
	handlers.RespondJSON(w, http.StatusOK, resp)
}
