package get_available_slots

import (
	"time"

	"github.com/m04kA/SMC-SmartQueue/internal/domain"
	getAvailableSlots "github.com/m04kA/SMC-SmartQueue/internal/usecase/get_available_slots"
)

// AvailableSlotsResponse HTTP response model
type AvailableSlotsResponse struct {
	Date    string          `json:"date"`
	Blocked bool            `json:"blocked"`
	Slots   []AvailableSlot `json:"slots"`
}

// AvailableSlot модель временного слота
type AvailableSlot struct {
	ID             int64  `json:"id"`
	StartTime      string `json:"startTime"`
	EndTime        string `json:"endTime"`
	Label          string `json:"label"`
	Status         string `json:"status"`
	Capacity       int    `json:"capacity"`
	AvailableSpots int    `json:"availableSpots"`
	IsRecommended  bool   `json:"isRecommended"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getAvailableSlots.Response) *AvailableSlotsResponse {
	slots := make([]AvailableSlot, len(resp.Slots))
	for i, slot := range resp.Slots {
		slots[i] = AvailableSlot{
			ID:             slot.ID,
			StartTime:      slot.StartTime.String(),
			EndTime:        slot.EndTime.String(),
			Label:          slot.Label,
			Status:         slot.Status,
			Capacity:       slot.Capacity,
			AvailableSpots: slot.AvailableSpots,
			IsRecommended:  slot.IsRecommended,
		}
	}

	return &AvailableSlotsResponse{
		Date:    resp.Date.Format(domain.DateFormat),
		Blocked: resp.Blocked,
		Slots:   slots,
	}
}

// ToUseCaseRequest создает запрос use case из query параметра date
func ToUseCaseRequest(dateStr string) (*getAvailableSlots.Request, error) {
	date, err := time.Parse(domain.DateFormat, dateStr)
	if err != nil {
		return nil, err
	}
	return &getAvailableSlots.Request{Date: date}, nil
}
