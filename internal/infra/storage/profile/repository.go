package profile

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-SmartQueue/internal/domain"
	"github.com/m04kA/SMC-SmartQueue/pkg/dbmetrics"
	"github.com/m04kA/SMC-SmartQueue/pkg/pgerrors"
	"github.com/m04kA/SMC-SmartQueue/pkg/psqlbuilder"
)

var profileColumns = []string{
	"user_id", "username", "email", "first_name", "last_name", "phone", "address", "role", "created_at",
}

// Repository репозиторий профилей пользователей
type Repository struct {
	db dbmetrics.DBExecutor
}

// NewRepository создает новый экземпляр репозитория профилей
func NewRepository(db dbmetrics.DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает профиль. Повторное создание возвращает ErrProfileExists
func (r *Repository) Create(ctx context.Context, p *domain.Profile) (*domain.Profile, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("profiles").
		Columns("user_id", "username", "email", "first_name", "last_name", "phone", "address", "role").
		Values(p.UserID, p.Username, p.Email, p.FirstName, p.LastName, p.Phone, p.Address, p.Role).
		Suffix("RETURNING created_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	if err := executor.QueryRowContext(ctx, query, args...).Scan(&p.CreatedAt); err != nil {
		if pgerrors.IsUniqueViolation(err, "") {
			return nil, ErrProfileExists
		}
		return nil, fmt.Errorf("%w: Create - execute insert: %w", ErrExecQuery, err)
	}

	return p, nil
}

// GetByUserID получает профиль пользователя
func (r *Repository) GetByUserID(ctx context.Context, userID int64) (*domain.Profile, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(profileColumns...).
		From("profiles").
		Where(squirrel.Eq{"user_id": userID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByUserID - build select query: %v", ErrBuildQuery, err)
	}

	p, err := scanProfile(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrProfileNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByUserID - scan profile: %w", ErrScanRow, err)
	}

	return p, nil
}

// Update обновляет контактные данные профиля
func (r *Repository) Update(ctx context.Context, userID int64, upd domain.ProfileUpdate) (*domain.Profile, error) {
	updateBuilder := psqlbuilder.Update("profiles").Where(squirrel.Eq{"user_id": userID})
	changed := false

	set := func(column string, v *string) {
		if v != nil {
			updateBuilder = updateBuilder.Set(column, *v)
			changed = true
		}
	}
	set("email", upd.Email)
	set("first_name", upd.FirstName)
	set("last_name", upd.LastName)
	set("phone", upd.Phone)
	set("address", upd.Address)

	if !changed {
		return r.GetByUserID(ctx, userID)
	}

	return r.updateReturning(ctx, "Update", updateBuilder)
}

// SetRole меняет роль пользователя
func (r *Repository) SetRole(ctx context.Context, userID int64, role domain.Role) (*domain.Profile, error) {
	updateBuilder := psqlbuilder.Update("profiles").
		Set("role", role).
		Where(squirrel.Eq{"user_id": userID})

	return r.updateReturning(ctx, "SetRole", updateBuilder)
}

func (r *Repository) updateReturning(ctx context.Context, op string, b squirrel.UpdateBuilder) (*domain.Profile, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := b.Suffix("RETURNING " + strings.Join(profileColumns, ", ")).ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %s - build update query: %v", ErrBuildQuery, op, err)
	}

	p, err := scanProfile(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrProfileNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s - execute update: %w", ErrExecQuery, op, err)
	}

	return p, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProfile(row rowScanner) (*domain.Profile, error) {
	var p domain.Profile
	err := row.Scan(
		&p.UserID,
		&p.Username,
		&p.Email,
		&p.FirstName,
		&p.LastName,
		&p.Phone,
		&p.Address,
		&p.Role,
		&p.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}
