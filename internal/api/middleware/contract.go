package middleware

import (
	"context"

	"github.com/m04kA/SMC-SmartQueue/internal/domain"
)

// RoleResolver возвращает роль пользователя (реализуется сервисом профилей)
type RoleResolver interface {
	RoleOf(ctx context.Context, userID int64) (domain.Role, error)
}

// HTTPMetrics метрики HTTP запросов
type HTTPMetrics interface {
	ObserveHTTP(method, route string, status int, seconds float64)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
