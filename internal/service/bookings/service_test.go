package bookings

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SmartQueue/internal/domain"
	bookingRepo "github.com/m04kA/SMC-SmartQueue/internal/infra/storage/booking"
	profileRepo "github.com/m04kA/SMC-SmartQueue/internal/infra/storage/profile"
	"github.com/m04kA/SMC-SmartQueue/internal/service/bookings/models"
	"github.com/m04kA/SMC-SmartQueue/pkg/logger"
	"github.com/m04kA/SMC-SmartQueue/pkg/ptr"
	"github.com/m04kA/SMC-SmartQueue/pkg/types"
)

type memBookings struct {
	byID         map[int64]*domain.Booking
	queue        int
	updateErr    error
	tokenLookups int
	getErr       error
}

func (m *memBookings) GetByID(_ context.Context, id int64) (*domain.Booking, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	b, ok := m.byID[id]
	if !ok {
		return nil, bookingRepo.ErrBookingNotFound
	}
	cp := *b
	return &cp, nil
}

func (m *memBookings) GetByToken(_ context.Context, token string) (*domain.Booking, error) {
	m.tokenLookups++
	for _, b := range m.byID {
		if b.QRToken == token {
			cp := *b
			return &cp, nil
		}
	}
	return nil, bookingRepo.ErrBookingNotFound
}

func (m *memBookings) ListByUser(_ context.Context, userID int64) ([]*domain.Booking, error) {
	var res []*domain.Booking
	for _, b := range m.byID {
		if b.UserID == userID {
			res = append(res, b)
		}
	}
	return res, nil
}

func (m *memBookings) List(_ context.Context, filter domain.BookingFilter) ([]*domain.Booking, error) {
	var res []*domain.Booking
	for _, b := range m.byID {
		if filter.Status == nil || b.Status == *filter.Status {
			res = append(res, b)
		}
	}
	return res, nil
}

func (m *memBookings) CountQueueAhead(context.Context, time.Time, types.TimeString) (int, error) {
	return m.queue, nil
}

func (m *memBookings) UpdateStatus(_ context.Context, id int64, status domain.BookingStatus) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	b, ok := m.byID[id]
	if !ok {
		return bookingRepo.ErrBookingNotFound
	}
	b.Status = status
	return nil
}

type fakeProfiles map[int64]*domain.Profile

func (f fakeProfiles) GetByUserID(_ context.Context, userID int64) (*domain.Profile, error) {
	p, ok := f[userID]
	if !ok {
		return nil, profileRepo.ErrProfileNotFound
	}
	return p, nil
}

type fakeTracker struct {
	synced []int64
}

func (f *fakeTracker) SyncAvailability(_ context.Context, slotID int64) (domain.SlotOccupancy, error) {
	f.synced = append(f.synced, slotID)
	return domain.SlotOccupancy{}, nil
}

type notification struct {
	bookingID int64
	action    domain.Action
}

type fakeNotifier struct {
	mu   sync.Mutex
	sent []notification
}

func (f *fakeNotifier) BookingTransitioned(_ context.Context, b *domain.Booking, action domain.Action) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, notification{bookingID: b.ID, action: action})
}

type fakeMetrics struct {
	results map[string]int
}

func (f *fakeMetrics) ObserveTransition(action, result string) {
	if f.results == nil {
		f.results = make(map[string]int)
	}
	f.results[action+":"+result]++
}

// passTx выполняет функцию без реальной транзакции
type passTx struct{}

func (passTx) Do(ctx context.Context, fn func(ctx context.Context) error) error { return fn(ctx) }
func (passTx) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}
func (passTx) DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error { return fn(ctx) }

type fixture struct {
	svc      *Service
	repo     *memBookings
	tracker  *fakeTracker
	notifier *fakeNotifier
	metrics  *fakeMetrics
}

const (
	ownerID = int64(7)
	otherID = int64(8)
	staffID = int64(100)

	checkInToken = "5f0c2a7e-8d1b-4c39-9a4e-2b6f1d3c7e90"
)

func newFixture(status domain.BookingStatus) *fixture {
	repo := &memBookings{byID: map[int64]*domain.Booking{
		1: {
			ID:              1,
			UserID:          ownerID,
			ServiceID:       1,
			SlotID:          5,
			Status:          status,
			QRToken:         checkInToken,
			ServiceDuration: ptr.Ptr(20),
			SlotDate:        time.Date(2026, 5, 4, 0, 0, 0, 0, time.UTC),
			SlotStart:       "10:00",
			SlotEnd:         "10:30",
		},
	}}
	profiles := fakeProfiles{
		ownerID: {UserID: ownerID, Username: "owner", Role: domain.RoleUser},
		otherID: {UserID: otherID, Username: "other", Role: domain.RoleUser},
		staffID: {UserID: staffID, Username: "staff", Role: domain.RoleStaff},
	}
	f := &fixture{
		repo:     repo,
		tracker:  &fakeTracker{},
		notifier: &fakeNotifier{},
		metrics:  &fakeMetrics{},
	}
	f.svc = NewService(repo, profiles, f.tracker, passTx{}, f.notifier, f.metrics, logger.NewNop())
	return f
}

func TestGetByID_AccessAndWaitTime(t *testing.T) {
	f := newFixture(domain.StatusPending)
	f.repo.queue = 3

	resp, err := f.svc.GetByID(context.Background(), 1, ownerID)
	require.NoError(t, err)
	require.NotNil(t, resp.EstimatedWaitMinutes)
	assert.Equal(t, 60, *resp.EstimatedWaitMinutes)
	assert.Equal(t, "10:00 AM - 10:30 AM", resp.TimeSlot)

	_, err = f.svc.GetByID(context.Background(), 1, staffID)
	assert.NoError(t, err)

	_, err = f.svc.GetByID(context.Background(), 1, otherID)
	assert.ErrorIs(t, err, ErrAccessDenied)

	_, err = f.svc.GetByID(context.Background(), 1, 555)
	assert.ErrorIs(t, err, ErrAccessDenied)

	_, err = f.svc.GetByID(context.Background(), 404, ownerID)
	assert.ErrorIs(t, err, ErrBookingNotFound)
}

func TestGetByID_DefaultDuration(t *testing.T) {
	f := newFixture(domain.StatusPending)
	f.repo.byID[1].ServiceDuration = nil
	f.repo.queue = 2

	resp, err := f.svc.GetByID(context.Background(), 1, ownerID)
	require.NoError(t, err)
	assert.Equal(t, 60, *resp.EstimatedWaitMinutes)
}

func TestCancel(t *testing.T) {
	f := newFixture(domain.StatusApproved)

	resp, err := f.svc.Cancel(context.Background(), 1, ownerID)
	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusCancelled), resp.Status)
	assert.Equal(t, domain.StatusCancelled, f.repo.byID[1].Status)
	assert.Equal(t, []int64{5}, f.tracker.synced)
	assert.Equal(t, []notification{{bookingID: 1, action: domain.ActionCancel}}, f.notifier.sent)
	assert.Equal(t, 1, f.metrics.results["cancel:ok"])
}

func TestCancel_NotOwner(t *testing.T) {
	f := newFixture(domain.StatusPending)

	_, err := f.svc.Cancel(context.Background(), 1, staffID)
	assert.ErrorIs(t, err, ErrAccessDenied)
	assert.Equal(t, domain.StatusPending, f.repo.byID[1].Status)
	assert.Empty(t, f.notifier.sent)
	assert.Equal(t, 1, f.metrics.results["cancel:denied"])
}

func TestCancel_InvalidStatus(t *testing.T) {
	for _, st := range []domain.BookingStatus{domain.StatusCheckedIn, domain.StatusCompleted, domain.StatusCancelled, domain.StatusRejected} {
		t.Run(string(st), func(t *testing.T) {
			f := newFixture(st)

			_, err := f.svc.Cancel(context.Background(), 1, ownerID)
			assert.ErrorIs(t, err, ErrInvalidTransition)
			assert.Equal(t, st, f.repo.byID[1].Status)
			assert.Empty(t, f.tracker.synced)
			assert.Empty(t, f.notifier.sent)
		})
	}
}

func TestApplyAction(t *testing.T) {
	tests := []struct {
		name     string
		from     domain.BookingStatus
		action   string
		want     domain.BookingStatus
		wantErr  error
		syncSlot bool
	}{
		{name: "approve pending", from: domain.StatusPending, action: "approve", want: domain.StatusApproved},
		{name: "reject pending", from: domain.StatusPending, action: "reject", want: domain.StatusRejected, syncSlot: true},
		{name: "reject approved", from: domain.StatusApproved, action: "reject", want: domain.StatusRejected, syncSlot: true},
		{name: "complete checked in", from: domain.StatusCheckedIn, action: "complete", want: domain.StatusCompleted},
		{name: "approve approved", from: domain.StatusApproved, action: "approve", want: domain.StatusApproved, wantErr: ErrInvalidTransition},
		{name: "complete pending", from: domain.StatusPending, action: "complete", want: domain.StatusPending, wantErr: ErrInvalidTransition},
		{name: "cancel is not a staff action", from: domain.StatusPending, action: "cancel", want: domain.StatusPending, wantErr: ErrInvalidAction},
		{name: "unknown action", from: domain.StatusPending, action: "archive", want: domain.StatusPending, wantErr: ErrInvalidAction},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(tt.from)

			resp, err := f.svc.ApplyAction(context.Background(), 1, tt.action, staffID)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Empty(t, f.notifier.sent)
			} else {
				require.NoError(t, err)
				assert.Equal(t, string(tt.want), resp.Status)
				assert.Len(t, f.notifier.sent, 1)
			}
			assert.Equal(t, tt.want, f.repo.byID[1].Status)
			assert.Equal(t, tt.syncSlot, len(f.tracker.synced) == 1)
		})
	}
}

func TestRejectThenApproveFails(t *testing.T) {
	f := newFixture(domain.StatusPending)

	_, err := f.svc.ApplyAction(context.Background(), 1, "reject", staffID)
	require.NoError(t, err)

	_, err = f.svc.ApplyAction(context.Background(), 1, "approve", staffID)
	assert.ErrorIs(t, err, ErrInvalidTransition)
	assert.Equal(t, domain.StatusRejected, f.repo.byID[1].Status)
}

func TestCheckIn(t *testing.T) {
	f := newFixture(domain.StatusApproved)

	resp, err := f.svc.CheckIn(context.Background(), checkInToken)
	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusCheckedIn), resp.Booking.Status)

	// повторная регистрация недопустима
	_, err = f.svc.CheckIn(context.Background(), checkInToken)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	_, err = f.svc.CheckIn(context.Background(), "0b7d1f34-6a2e-4f1c-8b5d-9e3a2c4f6d10")
	assert.ErrorIs(t, err, ErrBookingNotFound)
}

func TestCheckIn_UppercaseToken(t *testing.T) {
	f := newFixture(domain.StatusApproved)

	resp, err := f.svc.CheckIn(context.Background(), " "+strings.ToUpper(checkInToken)+" ")
	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusCheckedIn), resp.Booking.Status)
}

func TestCheckIn_MalformedToken(t *testing.T) {
	for _, token := range []string{"unknown", "abc", "5f0c2a7e-8d1b-4c39-9a4e", "' OR 1=1 --"} {
		t.Run(token, func(t *testing.T) {
			f := newFixture(domain.StatusApproved)

			_, err := f.svc.CheckIn(context.Background(), token)
			require.ErrorIs(t, err, ErrBookingNotFound)
			assert.Zero(t, f.repo.tokenLookups, "malformed token must not reach the store")
			assert.Equal(t, domain.StatusApproved, f.repo.byID[1].Status)
			assert.Equal(t, 1, f.metrics.results["check_in:not_found"])
		})
	}
}

func TestCheckInToken(t *testing.T) {
	f := newFixture(domain.StatusApproved)

	token, err := f.svc.CheckInToken(context.Background(), 1, ownerID)
	require.NoError(t, err)
	assert.Equal(t, checkInToken, token)

	token, err = f.svc.CheckInToken(context.Background(), 1, staffID)
	require.NoError(t, err)
	assert.Equal(t, checkInToken, token)

	_, err = f.svc.CheckInToken(context.Background(), 1, otherID)
	assert.ErrorIs(t, err, ErrAccessDenied)

	_, err = f.svc.CheckInToken(context.Background(), 42, ownerID)
	assert.ErrorIs(t, err, ErrBookingNotFound)
}

func TestCheckInToken_StoreFailure(t *testing.T) {
	f := newFixture(domain.StatusApproved)
	f.repo.getErr = errors.New("connection reset")

	_, err := f.svc.CheckInToken(context.Background(), 1, ownerID)
	assert.ErrorIs(t, err, ErrInternal)
}

func TestCheckIn_PendingFails(t *testing.T) {
	f := newFixture(domain.StatusPending)

	_, err := f.svc.CheckIn(context.Background(), checkInToken)
	assert.ErrorIs(t, err, ErrInvalidTransition)
	assert.Equal(t, domain.StatusPending, f.repo.byID[1].Status)
}

func TestTransition_StoreFailure(t *testing.T) {
	f := newFixture(domain.StatusPending)
	f.repo.updateErr = errors.New("connection reset")

	_, err := f.svc.ApplyAction(context.Background(), 1, "approve", staffID)
	assert.ErrorIs(t, err, ErrInternal)
	assert.Empty(t, f.notifier.sent)
	assert.Equal(t, 1, f.metrics.results["approve:error"])
}

func TestList_StatusFilter(t *testing.T) {
	f := newFixture(domain.StatusPending)

	resp, err := f.svc.List(context.Background(), &models.ListBookingsRequest{Status: ptr.Ptr("pending")})
	require.NoError(t, err)
	assert.Len(t, resp.Bookings, 1)

	resp, err = f.svc.List(context.Background(), &models.ListBookingsRequest{Status: ptr.Ptr("approved")})
	require.NoError(t, err)
	assert.Empty(t, resp.Bookings)

	_, err = f.svc.List(context.Background(), &models.ListBookingsRequest{Status: ptr.Ptr("bogus")})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestGetUserBookings(t *testing.T) {
	f := newFixture(domain.StatusPending)

	resp, err := f.svc.GetUserBookings(context.Background(), ownerID)
	require.NoError(t, err)
	assert.Len(t, resp.Bookings, 1)

	resp, err = f.svc.GetUserBookings(context.Background(), otherID)
	require.NoError(t, err)
	assert.NotNil(t, resp.Bookings)
	assert.Empty(t, resp.Bookings)
}
