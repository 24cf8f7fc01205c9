package create_booking

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SmartQueue/internal/domain"
	serviceRepo "github.com/m04kA/SMC-SmartQueue/internal/infra/storage/service"
	slotRepo "github.com/m04kA/SMC-SmartQueue/internal/infra/storage/slot"
	"github.com/m04kA/SMC-SmartQueue/internal/service/capacity"
	"github.com/m04kA/SMC-SmartQueue/pkg/logger"
	"github.com/m04kA/SMC-SmartQueue/pkg/ptr"
	"github.com/m04kA/SMC-SmartQueue/pkg/types"
)

// store общее in-memory хранилище для слотов, броней, услуг и заблокированных дат
type store struct {
	mu       sync.Mutex
	slots    map[int64]*domain.TimeSlot
	services map[int64]*domain.Service
	blocked  map[string]bool
	bookings []*domain.Booking
	nextID   int64
}

func newStore() *store {
	return &store{
		slots:    map[int64]*domain.TimeSlot{},
		services: map[int64]*domain.Service{},
		blocked:  map[string]bool{},
	}
}

type slotStore struct{ *store }

func (s slotStore) GetByID(_ context.Context, id int64) (*domain.TimeSlot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	slot, ok := s.slots[id]
	if !ok {
		return nil, slotRepo.ErrSlotNotFound
	}
	cp := *slot
	return &cp, nil
}

func (s slotStore) SetAvailable(_ context.Context, id int64, available bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	slot, ok := s.slots[id]
	if !ok {
		return slotRepo.ErrSlotNotFound
	}
	slot.IsAvailable = available
	return nil
}

type bookingStore struct{ *store }

func (s bookingStore) Create(_ context.Context, b *domain.Booking) (*domain.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	cp := *b
	cp.ID = s.nextID
	cp.CreatedAt = time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC)
	cp.UpdatedAt = cp.CreatedAt
	s.bookings = append(s.bookings, &cp)
	out := cp
	return &out, nil
}

func (s bookingStore) HasActiveBooking(_ context.Context, userID, slotID int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, b := range s.bookings {
		if b.UserID == userID && b.SlotID == slotID && b.IsActive() {
			return true, nil
		}
	}
	return false, nil
}

func (s bookingStore) CountQueueAhead(_ context.Context, date time.Time, start types.TimeString) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, b := range s.bookings {
		slot := s.slots[b.SlotID]
		if b.IsActive() && slot.Date.Equal(date) && slot.StartTime.Minutes() < start.Minutes() {
			n++
		}
	}
	return n, nil
}

func (s bookingStore) CountActiveBySlot(_ context.Context, slotID int64) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, b := range s.bookings {
		if b.SlotID == slotID && b.IsActive() {
			n++
		}
	}
	return n, nil
}

func (s bookingStore) CountActiveBySlots(ctx context.Context, ids []int64) (map[int64]int, error) {
	res := make(map[int64]int, len(ids))
	for _, id := range ids {
		n, _ := s.CountActiveBySlot(ctx, id)
		res[id] = n
	}
	return res, nil
}

func (s *store) setStatus(id int64, status domain.BookingStatus) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, b := range s.bookings {
		if b.ID == id {
			b.Status = status
		}
	}
}

func (s *store) active(slotID int64) int {
	n, _ := bookingStore{s}.CountActiveBySlot(context.Background(), slotID)
	return n
}

type blockedStore struct{ *store }

func (s blockedStore) IsBlocked(_ context.Context, date time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.blocked[date.Format(domain.DateFormat)], nil
}

type serviceStore struct{ *store }

func (s serviceStore) GetByID(_ context.Context, id int64) (*domain.Service, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	svc, ok := s.services[id]
	if !ok {
		return nil, serviceRepo.ErrServiceNotFound
	}
	cp := *svc
	return &cp, nil
}

// serialTx выполняет транзакции строго по одной, как сериализуемая изоляция с блокировкой слота
type serialTx struct {
	mu sync.Mutex
}

func (t *serialTx) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return fn(ctx)
}

type recordingNotifier struct {
	mu    sync.Mutex
	calls []int64
	waits []int
}

func (n *recordingNotifier) BookingCreated(_ context.Context, b *domain.Booking, wait int) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.calls = append(n.calls, b.ID)
	n.waits = append(n.waits, wait)
}

type countingMetrics struct {
	mu       sync.Mutex
	outcomes map[string]int
}

func (m *countingMetrics) ObserveBooking(outcome string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.outcomes == nil {
		m.outcomes = map[string]int{}
	}
	m.outcomes[outcome]++
}

type fixture struct {
	store    *store
	notifier *recordingNotifier
	metrics  *countingMetrics
	uc       *UseCase
}

var slotDate = time.Date(2026, 10, 20, 0, 0, 0, 0, time.UTC)

func newFixture(capacityPerSlot int) *fixture {
	st := newStore()
	st.slots[1] = &domain.TimeSlot{
		ID: 1, Date: slotDate, StartTime: "09:00", EndTime: "09:30",
		Capacity: capacityPerSlot, IsAvailable: true,
	}
	st.slots[2] = &domain.TimeSlot{
		ID: 2, Date: slotDate, StartTime: "10:00", EndTime: "10:30",
		Capacity: capacityPerSlot, IsAvailable: true,
	}
	st.services[1] = &domain.Service{ID: 1, Name: "Consultation", DurationMinutes: ptr.Ptr(20), IsActive: true}
	st.services[2] = &domain.Service{ID: 2, Name: "Retired", IsActive: false}

	notifier := &recordingNotifier{}
	metrics := &countingMetrics{}
	tracker := capacity.NewTracker(slotStore{st}, bookingStore{st})

	var seq atomic.Int64
	uc := NewUseCase(
		bookingStore{st}, slotStore{st}, blockedStore{st}, serviceStore{st},
		tracker, &serialTx{}, notifier, metrics, logger.NewNop(),
	).WithTokenGenerator(func() string {
		return fmt.Sprintf("token-%d", seq.Add(1))
	})

	return &fixture{store: st, notifier: notifier, metrics: metrics, uc: uc}
}

func request(userID, slotID int64) *Request {
	return &Request{UserID: userID, ServiceID: 1, SlotID: slotID}
}

func TestExecute_Success(t *testing.T) {
	f := newFixture(3)

	resp, err := f.uc.Execute(context.Background(), &Request{
		UserID: 7, ServiceID: 1, SlotID: 1, Notes: ptr.Ptr("  first visit  "),
	})
	require.NoError(t, err)

	assert.Equal(t, int64(1), resp.ID)
	assert.Equal(t, string(domain.StatusPending), resp.Status)
	assert.Equal(t, "token-1", resp.QRToken)
	assert.Equal(t, "Consultation", resp.ServiceName)
	assert.Equal(t, "09:00 AM - 09:30 AM", resp.TimeSlot)
	assert.Equal(t, "first visit", *resp.Notes)
	assert.Equal(t, 0, resp.EstimatedWaitMinutes)
	assert.Equal(t, []int64{1}, f.notifier.calls)
	assert.Equal(t, 1, f.metrics.outcomes[outcomeCreated])
}

func TestExecute_EstimatedWait(t *testing.T) {
	f := newFixture(3)
	ctx := context.Background()

	_, err := f.uc.Execute(ctx, request(1, 1))
	require.NoError(t, err)
	_, err = f.uc.Execute(ctx, request(2, 1))
	require.NoError(t, err)

	// Две брони в 09:00 стоят в очереди перед слотом 10:00, услуга 20 минут
	resp, err := f.uc.Execute(ctx, request(3, 2))
	require.NoError(t, err)
	assert.Equal(t, 40, resp.EstimatedWaitMinutes)
}

func TestExecute_CapacityLifecycle(t *testing.T) {
	f := newFixture(3)
	ctx := context.Background()

	var ids []int64
	for user := int64(1); user <= 3; user++ {
		resp, err := f.uc.Execute(ctx, request(user, 1))
		require.NoError(t, err)
		ids = append(ids, resp.ID)
	}
	assert.False(t, f.store.slots[1].IsAvailable)

	_, err := f.uc.Execute(ctx, request(4, 1))
	assert.ErrorIs(t, err, ErrCapacityExceeded)
	assert.Equal(t, 1, f.metrics.outcomes[outcomeFull])

	// Отмена освобождает место
	f.store.setStatus(ids[0], domain.StatusCancelled)

	_, err = f.uc.Execute(ctx, request(4, 1))
	require.NoError(t, err)
	assert.Equal(t, 3, f.store.active(1))

	_, err = f.uc.Execute(ctx, request(5, 1))
	assert.ErrorIs(t, err, ErrCapacityExceeded)
}

func TestExecute_ConcurrentRequestsNeverOverbook(t *testing.T) {
	const (
		slotCapacity = 3
		requests     = 20
	)
	f := newFixture(slotCapacity)

	var (
		wg        sync.WaitGroup
		succeeded atomic.Int64
		full      atomic.Int64
	)
	for i := 0; i < requests; i++ {
		wg.Add(1)
		go func(user int64) {
			defer wg.Done()
			_, err := f.uc.Execute(context.Background(), request(user, 1))
			switch {
			case err == nil:
				succeeded.Add(1)
			case errors.Is(err, ErrCapacityExceeded):
				full.Add(1)
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}(int64(i + 1))
	}
	wg.Wait()

	assert.Equal(t, int64(slotCapacity), succeeded.Load())
	assert.Equal(t, int64(requests-slotCapacity), full.Load())
	assert.Equal(t, slotCapacity, f.store.active(1))
}

func TestExecute_DuplicateBooking(t *testing.T) {
	f := newFixture(3)
	ctx := context.Background()

	resp, err := f.uc.Execute(ctx, request(7, 1))
	require.NoError(t, err)

	_, err = f.uc.Execute(ctx, request(7, 1))
	assert.ErrorIs(t, err, ErrDuplicateBooking)

	// После отмены тот же пользователь может забронировать слот снова
	f.store.setStatus(resp.ID, domain.StatusCancelled)
	_, err = f.uc.Execute(ctx, request(7, 1))
	assert.NoError(t, err)
}

func TestExecute_BlockedDateWinsOverCapacity(t *testing.T) {
	f := newFixture(3)
	f.store.blocked[slotDate.Format(domain.DateFormat)] = true

	_, err := f.uc.Execute(context.Background(), request(7, 1))
	assert.ErrorIs(t, err, ErrDateBlocked)
	assert.Equal(t, 0, f.store.active(1))
	assert.Empty(t, f.notifier.calls)
}

func TestExecute_ZeroCapacityIsFull(t *testing.T) {
	f := newFixture(0)

	_, err := f.uc.Execute(context.Background(), request(7, 1))
	assert.ErrorIs(t, err, ErrCapacityExceeded)
}

func TestExecute_NotesLimitCountsCharacters(t *testing.T) {
	f := newFixture(3)

	// 600 кириллических символов занимают 1200 байт, но укладываются в лимит
	cyrillic := strings.Repeat("ж", 600)
	req := request(7, 1)
	req.Notes = &cyrillic

	resp, err := f.uc.Execute(context.Background(), req)
	require.NoError(t, err)
	require.NotNil(t, resp.Notes)
	assert.Equal(t, cyrillic, *resp.Notes)

	tooLong := strings.Repeat("ж", domain.MaxNotesLength+1)
	req = request(8, 1)
	req.Notes = &tooLong

	_, err = f.uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestExecute_Errors(t *testing.T) {
	tests := []struct {
		name    string
		req     *Request
		wantErr error
	}{
		{"slot not found", &Request{UserID: 1, ServiceID: 1, SlotID: 99}, ErrSlotNotFound},
		{"service not found", &Request{UserID: 1, ServiceID: 99, SlotID: 1}, ErrInvalidService},
		{"inactive service", &Request{UserID: 1, ServiceID: 2, SlotID: 1}, ErrInvalidService},
		{"missing user", &Request{ServiceID: 1, SlotID: 1}, ErrInvalidInput},
		{"notes too long", &Request{UserID: 1, ServiceID: 1, SlotID: 1, Notes: ptr.Ptr(string(make([]byte, domain.MaxNotesLength+1)))}, ErrInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(3)

			_, err := f.uc.Execute(context.Background(), tt.req)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Empty(t, f.notifier.calls)
		})
	}
}
