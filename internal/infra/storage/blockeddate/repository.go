package blockeddate

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-SmartQueue/internal/domain"
	"github.com/m04kA/SMC-SmartQueue/pkg/dbmetrics"
	"github.com/m04kA/SMC-SmartQueue/pkg/pgerrors"
	"github.com/m04kA/SMC-SmartQueue/pkg/psqlbuilder"
)

// Repository репозиторий заблокированных дат
type Repository struct {
	db dbmetrics.DBExecutor
}

// NewRepository создает новый экземпляр репозитория
func NewRepository(db dbmetrics.DBExecutor) *Repository {
	return &Repository{db: db}
}

// IsBlocked проверяет, заблокирована ли дата
func (r *Repository) IsBlocked(ctx context.Context, date time.Time) (bool, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("1").
		From("blocked_dates").
		Where(squirrel.Eq{"date": date.Format(domain.DateFormat)}).
		Prefix("SELECT EXISTS (").
		Suffix(")").
		ToSql()
	if err != nil {
		return false, fmt.Errorf("%w: IsBlocked - build select query: %v", ErrBuildQuery, err)
	}

	var blocked bool
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&blocked); err != nil {
		return false, fmt.Errorf("%w: IsBlocked - scan: %w", ErrScanRow, err)
	}

	return blocked, nil
}

// Create блокирует дату
func (r *Repository) Create(ctx context.Context, bd *domain.BlockedDate) (*domain.BlockedDate, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("blocked_dates").
		Columns("date", "reason").
		Values(bd.Date.Format(domain.DateFormat), bd.Reason).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	if err := executor.QueryRowContext(ctx, query, args...).Scan(&bd.ID); err != nil {
		if pgerrors.IsUniqueViolation(err, "") {
			return nil, ErrAlreadyBlocked
		}
		return nil, fmt.Errorf("%w: Create - execute insert: %w", ErrExecQuery, err)
	}

	return bd, nil
}

// List возвращает заблокированные даты начиная с from, по возрастанию
func (r *Repository) List(ctx context.Context, from time.Time) ([]*domain.BlockedDate, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("id", "date", "reason").
		From("blocked_dates").
		Where(squirrel.GtOrEq{"date": from.Format(domain.DateFormat)}).
		OrderBy("date ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: List - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: List - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	dates := make([]*domain.BlockedDate, 0)
	for rows.Next() {
		var bd domain.BlockedDate
		if err := rows.Scan(&bd.ID, &bd.Date, &bd.Reason); err != nil {
			return nil, fmt.Errorf("%w: List - scan row: %v", ErrScanRow, err)
		}
		dates = append(dates, &bd)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: List - rows error: %v", ErrScanRow, err)
	}

	return dates, nil
}

// Delete снимает блокировку
func (r *Repository) Delete(ctx context.Context, id int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("blocked_dates").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: Delete - build delete query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Delete - execute delete: %w", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Delete - get rows affected: %v", ErrExecQuery, err)
	}
	if rowsAffected == 0 {
		return ErrBlockedDateNotFound
	}

	return nil
}
