package booking

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-SmartQueue/internal/domain"
	"github.com/m04kA/SMC-SmartQueue/pkg/dbmetrics"
	"github.com/m04kA/SMC-SmartQueue/pkg/pgerrors"
	"github.com/m04kA/SMC-SmartQueue/pkg/psqlbuilder"
	"github.com/m04kA/SMC-SmartQueue/pkg/types"
)

// activeUserSlotIndex частичный уникальный индекс: одна активная бронь пользователя на слот
const activeUserSlotIndex = "uq_bookings_active_user_slot"

// bookingColumns колонки бронирования с данными услуги и слота
var bookingColumns = []string{
	"b.id",
	"b.user_id",
	"b.service_id",
	"b.slot_id",
	"b.status",
	"b.notes",
	"b.qr_token",
	"b.created_at",
	"b.updated_at",
	"s.name",
	"s.duration_minutes",
	"t.date",
	"t.start_time",
	"t.end_time",
}

// Repository репозиторий для работы с бронированиями
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория бронирований
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает новое бронирование.
// Нарушение индекса uq_bookings_active_user_slot возвращается как ErrDuplicateBooking
func (r *Repository) Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("bookings").
		Columns("user_id", "service_id", "slot_id", "status", "notes", "qr_token").
		Values(booking.UserID, booking.ServiceID, booking.SlotID, booking.Status, booking.Notes, booking.QRToken).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	err = executor.QueryRowContext(ctx, query, args...).Scan(&booking.ID, &booking.CreatedAt, &booking.UpdatedAt)
	if err != nil {
		switch {
		case pgerrors.IsUniqueViolation(err, activeUserSlotIndex):
			return nil, ErrDuplicateBooking
		case pgerrors.IsForeignKeyViolation(err):
			return nil, ErrInvalidReference
		}
		return nil, fmt.Errorf("%w: Create - execute insert: %w", ErrExecQuery, err)
	}

	return booking, nil
}

// GetByID получает бронирование по ID.
// Внутри транзакции строка бронирования блокируется (FOR UPDATE OF b)
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	return r.getOne(ctx, "GetByID", squirrel.Eq{"b.id": id})
}

// GetByToken получает бронирование по токену check-in
func (r *Repository) GetByToken(ctx context.Context, token string) (*domain.Booking, error) {
	return r.getOne(ctx, "GetByToken", squirrel.Eq{"b.qr_token": token})
}

func (r *Repository) getOne(ctx context.Context, op string, where squirrel.Sqlizer) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := baseSelect().Where(where)
	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE OF b")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %s - build select query: %v", ErrBuildQuery, op, err)
	}

	booking, err := scanBooking(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s - scan booking: %w", ErrScanRow, op, err)
	}

	return booking, nil
}

// CountActiveBySlot считает бронирования слота, занимающие место (не cancelled/rejected)
func (r *Repository) CountActiveBySlot(ctx context.Context, slotID int64) (int, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("COUNT(*)").
		From("bookings").
		Where(squirrel.Eq{"slot_id": slotID}).
		Where(squirrel.NotEq{"status": statusStrings(domain.InactiveStatuses)}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("%w: CountActiveBySlot - build select query: %v", ErrBuildQuery, err)
	}

	var count int
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("%w: CountActiveBySlot - scan count: %w", ErrScanRow, err)
	}

	return count, nil
}

// CountActiveBySlots считает активные бронирования для набора слотов
func (r *Repository) CountActiveBySlots(ctx context.Context, slotIDs []int64) (map[int64]int, error) {
	counts := make(map[int64]int, len(slotIDs))
	if len(slotIDs) == 0 {
		return counts, nil
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("slot_id", "COUNT(*)").
		From("bookings").
		Where(squirrel.Eq{"slot_id": slotIDs}).
		Where(squirrel.NotEq{"status": statusStrings(domain.InactiveStatuses)}).
		GroupBy("slot_id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: CountActiveBySlots - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: CountActiveBySlots - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	for rows.Next() {
		var slotID int64
		var count int
		if err := rows.Scan(&slotID, &count); err != nil {
			return nil, fmt.Errorf("%w: CountActiveBySlots - scan row: %v", ErrScanRow, err)
		}
		counts[slotID] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: CountActiveBySlots - rows error: %v", ErrScanRow, err)
	}

	return counts, nil
}

// HasActiveBooking проверяет, есть ли у пользователя активная бронь на слот
func (r *Repository) HasActiveBooking(ctx context.Context, userID, slotID int64) (bool, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("1").
		From("bookings").
		Where(squirrel.Eq{"user_id": userID, "slot_id": slotID}).
		Where(squirrel.NotEq{"status": statusStrings(domain.InactiveStatuses)}).
		Prefix("SELECT EXISTS (").
		Suffix(")").
		ToSql()
	if err != nil {
		return false, fmt.Errorf("%w: HasActiveBooking - build select query: %v", ErrBuildQuery, err)
	}

	var exists bool
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&exists); err != nil {
		return false, fmt.Errorf("%w: HasActiveBooking - scan: %w", ErrScanRow, err)
	}

	return exists, nil
}

// CountQueueAhead считает бронирования в очереди (pending/approved/checked_in)
// на ту же дату со слотом, начинающимся строго раньше startTime
func (r *Repository) CountQueueAhead(ctx context.Context, date time.Time, startTime types.TimeString) (int, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("COUNT(*)").
		From("bookings b").
		Join("time_slots t ON t.id = b.slot_id").
		Where(squirrel.Eq{"t.date": date.Format(domain.DateFormat)}).
		Where(squirrel.Lt{"t.start_time": startTime.String()}).
		Where(squirrel.Eq{"b.status": statusStrings(domain.QueueStatuses)}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("%w: CountQueueAhead - build select query: %v", ErrBuildQuery, err)
	}

	var count int
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("%w: CountQueueAhead - scan count: %w", ErrScanRow, err)
	}

	return count, nil
}

// UpdateStatus обновляет статус бронирования
func (r *Repository) UpdateStatus(ctx context.Context, id int64, status domain.BookingStatus) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("bookings").
		Set("status", status).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - execute update: %w", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - get rows affected: %v", ErrExecQuery, err)
	}
	if rowsAffected == 0 {
		return ErrBookingNotFound
	}

	return nil
}

// ListByUser получает бронирования пользователя, новые первыми
func (r *Repository) ListByUser(ctx context.Context, userID int64) ([]*domain.Booking, error) {
	return r.List(ctx, domain.BookingFilter{UserID: &userID})
}

// List получает бронирования с фильтрацией по статусу и пользователю
func (r *Repository) List(ctx context.Context, filter domain.BookingFilter) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := baseSelect().OrderBy("b.created_at DESC", "b.id DESC")

	if filter.Status != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"b.status": *filter.Status})
	}
	if filter.UserID != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"b.user_id": *filter.UserID})
	}
	if filter.Limit > 0 {
		selectBuilder = selectBuilder.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		selectBuilder = selectBuilder.Offset(filter.Offset)
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: List - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: List - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	bookings := make([]*domain.Booking, 0)
	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: List - scan row: %v", ErrScanRow, err)
		}
		bookings = append(bookings, booking)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: List - rows error: %v", ErrScanRow, err)
	}

	return bookings, nil
}

// HourlyTraffic возвращает количество активных бронирований по часу начала слота
// для слотов с датой в диапазоне [from, to]
func (r *Repository) HourlyTraffic(ctx context.Context, from, to time.Time) ([]domain.HourCount, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("EXTRACT(HOUR FROM t.start_time)::int AS hour", "COUNT(*)").
		From("bookings b").
		Join("time_slots t ON t.id = b.slot_id").
		Where(squirrel.GtOrEq{"t.date": from.Format(domain.DateFormat)}).
		Where(squirrel.LtOrEq{"t.date": to.Format(domain.DateFormat)}).
		Where(squirrel.NotEq{"b.status": statusStrings(domain.InactiveStatuses)}).
		GroupBy("hour").
		OrderBy("hour").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: HourlyTraffic - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: HourlyTraffic - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	traffic := make([]domain.HourCount, 0)
	for rows.Next() {
		var hc domain.HourCount
		if err := rows.Scan(&hc.Hour, &hc.Count); err != nil {
			return nil, fmt.Errorf("%w: HourlyTraffic - scan row: %v", ErrScanRow, err)
		}
		traffic = append(traffic, hc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: HourlyTraffic - rows error: %v", ErrScanRow, err)
	}

	return traffic, nil
}

func baseSelect() squirrel.SelectBuilder {
	return psqlbuilder.Select(bookingColumns...).
		From("bookings b").
		Join("services s ON s.id = b.service_id").
		Join("time_slots t ON t.id = b.slot_id")
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBooking(row rowScanner) (*domain.Booking, error) {
	var (
		booking  domain.Booking
		notes    sql.NullString
		duration sql.NullInt64
	)

	err := row.Scan(
		&booking.ID,
		&booking.UserID,
		&booking.ServiceID,
		&booking.SlotID,
		&booking.Status,
		&notes,
		&booking.QRToken,
		&booking.CreatedAt,
		&booking.UpdatedAt,
		&booking.ServiceName,
		&duration,
		&booking.SlotDate,
		&booking.SlotStart,
		&booking.SlotEnd,
	)
	if err != nil {
		return nil, err
	}

	if notes.Valid {
		booking.Notes = &notes.String
	}
	if duration.Valid {
		d := int(duration.Int64)
		booking.ServiceDuration = &d
	}

	return &booking, nil
}

func statusStrings(statuses []domain.BookingStatus) []string {
	out := make([]string, len(statuses))
	for i, s := range statuses {
		out[i] = string(s)
	}
	return out
}
