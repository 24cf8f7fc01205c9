package list_bookings

import (
	"fmt"
	"strconv"

	"github.com/m04kA/SMC-SmartQueue/internal/service/bookings/models"
)

const maxLimit = 500

// ToServiceRequest формирует запрос к сервису из query параметров
func ToServiceRequest(statusStr, limitStr, offsetStr string) (*models.ListBookingsRequest, error) {
	req := &models.ListBookingsRequest{}

	if statusStr != "" {
		req.Status = &statusStr
	}

	if limitStr != "" {
		limit, err := strconv.ParseUint(limitStr, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid limit value: %w", err)
		}
		if limit > maxLimit {
			limit = maxLimit
		}
		req.Limit = limit
	}

	if offsetStr != "" {
		offset, err := strconv.ParseUint(offsetStr, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid offset value: %w", err)
		}
		req.Offset = offset
	}

	return req, nil
}
