package get_available_slots

import (
	"time"

	"github.com/m04kA/SMC-SmartQueue/pkg/types"
)

// Request модель запроса на получение доступных слотов
type Request struct {
	Date time.Time // Дата (без времени)
}

// Response модель ответа со списком доступных слотов
type Response struct {
	Date    time.Time
	Blocked bool   // Дата заблокирована, слотов нет
	Slots   []Slot // Слоты с хотя бы одним свободным местом
}

// Slot модель временного слота
type Slot struct {
	ID             int64
	StartTime      types.TimeString
	EndTime        types.TimeString
	Label          string // "09:00 AM - 09:30 AM"
	Status         string // available / almost_full
	Capacity       int
	AvailableSpots int
	IsRecommended  bool
}
