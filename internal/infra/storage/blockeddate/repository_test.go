package blockeddate

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SmartQueue/internal/domain"
	"github.com/m04kA/SMC-SmartQueue/pkg/dbmetrics"
)

func newRepo(t *testing.T) (*Repository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewRepository(dbmetrics.Wrap(db, nil)), mock
}

func TestIsBlocked(t *testing.T) {
	repo, mock := newRepo(t)
	date := time.Date(2026, 12, 25, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`SELECT EXISTS \( SELECT 1 FROM blocked_dates WHERE date = \$1 \)`).
		WithArgs("2026-12-25").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	blocked, err := repo.IsBlocked(context.Background(), date)

	require.NoError(t, err)
	assert.True(t, blocked)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreate_AlreadyBlocked(t *testing.T) {
	repo, mock := newRepo(t)
	mock.ExpectQuery(`INSERT INTO blocked_dates`).WillReturnError(&pq.Error{Code: "23505"})

	_, err := repo.Create(context.Background(), &domain.BlockedDate{Date: time.Now(), Reason: "Holiday"})
	assert.ErrorIs(t, err, ErrAlreadyBlocked)
}

func TestDelete_NotFound(t *testing.T) {
	repo, mock := newRepo(t)
	mock.ExpectExec(`DELETE FROM blocked_dates WHERE id = \$1`).WillReturnResult(sqlmock.NewResult(0, 0))

	assert.ErrorIs(t, repo.Delete(context.Background(), 1), ErrBlockedDateNotFound)
}
