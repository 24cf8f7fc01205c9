package register_user

import "github.com/m04kA/SMC-SmartQueue/internal/service/profiles/models"

// UserRegisteredRequest событие регистрации от сервиса аутентификации
type UserRegisteredRequest struct {
	UserID    int64  `json:"userId" validate:"required,gt=0"`
	Username  string `json:"username" validate:"required,max=150"`
	Email     string `json:"email" validate:"omitempty,email"`
	FirstName string `json:"firstName" validate:"max=100"`
	LastName  string `json:"lastName" validate:"max=100"`
}

// ToServiceRequest конвертирует HTTP запрос в модель сервиса
func (r *UserRegisteredRequest) ToServiceRequest() *models.RegisterRequest {
	return &models.RegisterRequest{
		UserID:    r.UserID,
		Username:  r.Username,
		Email:     r.Email,
		FirstName: r.FirstName,
		LastName:  r.LastName,
	}
}
