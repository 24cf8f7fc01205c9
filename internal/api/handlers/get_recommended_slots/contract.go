package get_recommended_slots

import (
	"context"

	"github.com/m04kA/SMC-SmartQueue/internal/domain"
)

type Recommender interface {
	RecommendedSlots(ctx context.Context, limit int) ([]domain.SlotOccupancy, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
