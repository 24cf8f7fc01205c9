package analytics

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-SmartQueue/internal/domain"
	"github.com/m04kA/SMC-SmartQueue/pkg/dbmetrics"
	"github.com/m04kA/SMC-SmartQueue/pkg/psqlbuilder"
)

// Repository агрегирующие запросы по бронированиям для дашбордов
type Repository struct {
	db dbmetrics.DBExecutor
}

// NewRepository создает новый экземпляр репозитория аналитики
func NewRepository(db dbmetrics.DBExecutor) *Repository {
	return &Repository{db: db}
}

// CountByStatus возвращает количество бронирований по статусам
func (r *Repository) CountByStatus(ctx context.Context) (domain.StatusCounts, error) {
	b := psqlbuilder.Select("status", "COUNT(*)").
		From("bookings").
		GroupBy("status")

	counts := make(domain.StatusCounts, len(domain.AllStatuses))
	for _, s := range domain.AllStatuses {
		counts[s] = 0
	}

	err := r.query(ctx, "CountByStatus", b, func(rows *sql.Rows) error {
		var status domain.BookingStatus
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return err
		}
		counts[status] = n
		return nil
	})
	if err != nil {
		return nil, err
	}
	return counts, nil
}

// DailyCreated возвращает количество созданных бронирований по дням начиная с from.
// Дни без бронирований в результат не попадают
func (r *Repository) DailyCreated(ctx context.Context, from time.Time) ([]domain.DayCount, error) {
	b := psqlbuilder.Select("DATE(created_at) AS day", "COUNT(*)").
		From("bookings").
		Where(squirrel.GtOrEq{"created_at": from}).
		GroupBy("day").
		OrderBy("day")

	result := make([]domain.DayCount, 0)
	err := r.query(ctx, "DailyCreated", b, func(rows *sql.Rows) error {
		var dc domain.DayCount
		if err := rows.Scan(&dc.Date, &dc.Count); err != nil {
			return err
		}
		result = append(result, dc)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// MonthlyCreated возвращает количество созданных бронирований по месяцам начиная с from
func (r *Repository) MonthlyCreated(ctx context.Context, from time.Time) ([]domain.MonthCount, error) {
	b := psqlbuilder.Select("DATE_TRUNC('month', created_at) AS month", "COUNT(*)").
		From("bookings").
		Where(squirrel.GtOrEq{"created_at": from}).
		GroupBy("month").
		OrderBy("month")

	result := make([]domain.MonthCount, 0)
	err := r.query(ctx, "MonthlyCreated", b, func(rows *sql.Rows) error {
		var mc domain.MonthCount
		if err := rows.Scan(&mc.Month, &mc.Count); err != nil {
			return err
		}
		result = append(result, mc)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// HourDistribution возвращает количество всех бронирований по часу начала слота
func (r *Repository) HourDistribution(ctx context.Context) ([]domain.HourCount, error) {
	b := psqlbuilder.Select("EXTRACT(HOUR FROM t.start_time)::int AS hour", "COUNT(*)").
		From("bookings b").
		Join("time_slots t ON t.id = b.slot_id").
		GroupBy("hour").
		OrderBy("hour")

	result := make([]domain.HourCount, 0)
	err := r.query(ctx, "HourDistribution", b, func(rows *sql.Rows) error {
		var hc domain.HourCount
		if err := rows.Scan(&hc.Hour, &hc.Count); err != nil {
			return err
		}
		result = append(result, hc)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// TopServices возвращает самые востребованные услуги
func (r *Repository) TopServices(ctx context.Context, limit uint64) ([]domain.ServiceCount, error) {
	b := psqlbuilder.Select("s.id", "s.name", "COUNT(b.id) AS cnt").
		From("bookings b").
		Join("services s ON s.id = b.service_id").
		GroupBy("s.id", "s.name").
		OrderBy("cnt DESC", "s.name ASC").
		Limit(limit)

	result := make([]domain.ServiceCount, 0)
	err := r.query(ctx, "TopServices", b, func(rows *sql.Rows) error {
		var sc domain.ServiceCount
		if err := rows.Scan(&sc.ServiceID, &sc.ServiceName, &sc.Count); err != nil {
			return err
		}
		result = append(result, sc)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (r *Repository) query(ctx context.Context, op string, b squirrel.SelectBuilder, scan func(rows *sql.Rows) error) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := b.ToSql()
	if err != nil {
		return fmt.Errorf("%w: %s - build select query: %v", ErrBuildQuery, op, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: %s - execute query: %w", ErrExecQuery, op, err)
	}
	defer rows.Close()

	for rows.Next() {
		if err := scan(rows); err != nil {
			return fmt.Errorf("%w: %s - scan row: %v", ErrScanRow, op, err)
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("%w: %s - rows error: %v", ErrScanRow, op, err)
	}

	return nil
}
