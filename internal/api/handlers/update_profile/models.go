package update_profile

import "github.com/m04kA/SMC-SmartQueue/internal/service/profiles/models"

// UpdateProfileRequest HTTP request model
type UpdateProfileRequest struct {
	Email     *string `json:"email,omitempty" validate:"omitempty,email"`
	FirstName *string `json:"firstName,omitempty" validate:"omitempty,max=100"`
	LastName  *string `json:"lastName,omitempty" validate:"omitempty,max=100"`
	Phone     *string `json:"phone,omitempty" validate:"omitempty,max=32"`
	Address   *string `json:"address,omitempty" validate:"omitempty,max=255"`
}

// ToServiceRequest конвертирует HTTP запрос в модель сервиса
func (r *UpdateProfileRequest) ToServiceRequest() *models.UpdateProfileRequest {
	return &models.UpdateProfileRequest{
		Email:     r.Email,
		FirstName: r.FirstName,
		LastName:  r.LastName,
		Phone:     r.Phone,
		Address:   r.Address,
	}
}
