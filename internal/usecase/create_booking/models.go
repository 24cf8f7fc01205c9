package create_booking

import (
	"time"

	"github.com/m04kA/SMC-SmartQueue/pkg/types"
)

// Request модель запроса на создание бронирования
type Request struct {
	UserID    int64   // ID пользователя
	ServiceID int64   // ID услуги
	SlotID    int64   // ID временного слота
	Notes     *string // Заметки (опционально)
}

// Response модель ответа с созданным бронированием
type Response struct {
	ID        int64  // ID созданного бронирования
	UserID    int64  // ID пользователя
	ServiceID int64  // ID услуги
	SlotID    int64  // ID слота
	Status    string // Статус бронирования (pending)
	QRToken   string // Токен для регистрации по QR

	// Денормализованные данные
	ServiceName string
	Date        time.Time
	StartTime   types.TimeString
	EndTime     types.TimeString
	TimeSlot    string // "09:00 AM - 09:30 AM"
	Notes       *string

	EstimatedWaitMinutes int // Оценка ожидания в очереди

	CreatedAt time.Time
	UpdatedAt time.Time
}
