package catalog

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SmartQueue/internal/domain"
	blockedDateRepo "github.com/m04kA/SMC-SmartQueue/internal/infra/storage/blockeddate"
	serviceRepo "github.com/m04kA/SMC-SmartQueue/internal/infra/storage/service"
	slotRepo "github.com/m04kA/SMC-SmartQueue/internal/infra/storage/slot"
	"github.com/m04kA/SMC-SmartQueue/internal/service/catalog/models"
	"github.com/m04kA/SMC-SmartQueue/pkg/logger"
	"github.com/m04kA/SMC-SmartQueue/pkg/ptr"
)

type fixedTime struct{ now time.Time }

func (f fixedTime) Now() time.Time { return f.now }

type fakeServices struct {
	created *domain.Service
	items   map[int64]*domain.Service
}

func (f *fakeServices) Create(_ context.Context, s *domain.Service) (*domain.Service, error) {
	s.ID = 10
	f.created = s
	return s, nil
}

func (f *fakeServices) GetByID(_ context.Context, id int64) (*domain.Service, error) {
	s, ok := f.items[id]
	if !ok {
		return nil, serviceRepo.ErrServiceNotFound
	}
	return s, nil
}

func (f *fakeServices) List(_ context.Context, onlyActive bool) ([]*domain.Service, error) {
	var res []*domain.Service
	for _, s := range f.items {
		if !onlyActive || s.IsActive {
			res = append(res, s)
		}
	}
	return res, nil
}

func (f *fakeServices) Update(_ context.Context, id int64, upd domain.ServiceUpdate) (*domain.Service, error) {
	s, ok := f.items[id]
	if !ok {
		return nil, serviceRepo.ErrServiceNotFound
	}
	if upd.Name != nil {
		s.Name = *upd.Name
	}
	if upd.IsActive != nil {
		s.IsActive = *upd.IsActive
	}
	return s, nil
}

type fakeSlots struct {
	existing  bool
	inUse     map[int64]bool
	slots     []*domain.TimeSlot
	byID      map[int64]*domain.TimeSlot
	updated   *domain.TimeSlot
	available map[int64]bool
}

func (f *fakeSlots) GetByID(_ context.Context, id int64) (*domain.TimeSlot, error) {
	slot, ok := f.byID[id]
	if !ok {
		return nil, slotRepo.ErrSlotNotFound
	}
	cp := *slot
	return &cp, nil
}

func (f *fakeSlots) Update(_ context.Context, slot *domain.TimeSlot) (*domain.TimeSlot, error) {
	if f.existing {
		return nil, slotRepo.ErrSlotExists
	}
	cp := *slot
	f.byID[slot.ID] = &cp
	f.updated = &cp
	return slot, nil
}

func (f *fakeSlots) Create(_ context.Context, slot *domain.TimeSlot) (*domain.TimeSlot, error) {
	if f.existing {
		return nil, slotRepo.ErrSlotExists
	}
	slot.ID = 1
	return slot, nil
}

func (f *fakeSlots) ListFrom(context.Context, time.Time) ([]*domain.TimeSlot, error) {
	return f.slots, nil
}

func (f *fakeSlots) Delete(_ context.Context, id int64) error {
	if f.inUse[id] {
		return slotRepo.ErrSlotInUse
	}
	if id != 1 {
		return slotRepo.ErrSlotNotFound
	}
	return nil
}

type fakeBlocked struct {
	blocked map[string]bool
}

func (f *fakeBlocked) Create(_ context.Context, bd *domain.BlockedDate) (*domain.BlockedDate, error) {
	key := bd.Date.Format(domain.DateFormat)
	if f.blocked[key] {
		return nil, blockedDateRepo.ErrAlreadyBlocked
	}
	f.blocked[key] = true
	bd.ID = 3
	return bd, nil
}

func (f *fakeBlocked) List(context.Context, time.Time) ([]*domain.BlockedDate, error) {
	return nil, nil
}

func (f *fakeBlocked) Delete(_ context.Context, id int64) error {
	if id != 3 {
		return blockedDateRepo.ErrBlockedDateNotFound
	}
	return nil
}

type fakeTracker struct {
	occupied map[int64]int
	slots    *fakeSlots
	inTx     bool
	synced   []int64
}

func (f *fakeTracker) OccupancyOf(_ context.Context, slot *domain.TimeSlot) (domain.SlotOccupancy, error) {
	return domain.SlotOccupancy{Slot: *slot, Occupied: f.occupied[slot.ID]}, nil
}

func (f *fakeTracker) SyncAvailability(ctx context.Context, slotID int64) (domain.SlotOccupancy, error) {
	f.inTx = txFromContext(ctx)
	f.synced = append(f.synced, slotID)
	slot, err := f.slots.GetByID(ctx, slotID)
	if err != nil {
		return domain.SlotOccupancy{}, err
	}
	occ := domain.SlotOccupancy{Slot: *slot, Occupied: f.occupied[slotID]}
	occ.Slot.IsAvailable = !occ.IsFull()
	return occ, nil
}

type txKey struct{}

func txFromContext(ctx context.Context) bool {
	v, _ := ctx.Value(txKey{}).(bool)
	return v
}

type fakeTx struct {
	calls int
}

func (f *fakeTx) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	f.calls++
	return fn(context.WithValue(ctx, txKey{}, true))
}

func (f *fakeTracker) ForSlots(_ context.Context, slots []*domain.TimeSlot) ([]domain.SlotOccupancy, error) {
	res := make([]domain.SlotOccupancy, 0, len(slots))
	for _, s := range slots {
		res = append(res, domain.SlotOccupancy{Slot: *s, Occupied: f.occupied[s.ID]})
	}
	return res, nil
}

var now = time.Date(2026, 6, 1, 9, 0, 0, 0, time.UTC)

type fixture struct {
	svc      *Service
	services *fakeServices
	slots    *fakeSlots
	blocked  *fakeBlocked
	tracker  *fakeTracker
	tx       *fakeTx
}

func newFixture() *fixture {
	f := &fixture{
		services: &fakeServices{items: map[int64]*domain.Service{
			1: {ID: 1, Name: "Consultation", IsActive: true},
			2: {ID: 2, Name: "Retired", IsActive: false},
		}},
		slots:   &fakeSlots{inUse: map[int64]bool{}, byID: map[int64]*domain.TimeSlot{}},
		blocked: &fakeBlocked{blocked: map[string]bool{}},
		tx:      &fakeTx{},
	}
	f.tracker = &fakeTracker{occupied: map[int64]int{}, slots: f.slots}
	f.svc = NewService(f.services, f.slots, f.blocked, f.tracker, f.tx, logger.NewNop()).
		WithTimeProvider(fixedTime{now: now})
	return f
}

func TestCreateService(t *testing.T) {
	f := newFixture()
	price := decimal.RequireFromString("25.50")

	resp, err := f.svc.CreateService(context.Background(), &models.CreateServiceRequest{
		Name:            "Document review",
		DurationMinutes: ptr.Ptr(45),
		Price:           &price,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(10), resp.ID)
	assert.Equal(t, 45, resp.DurationMinutes)
	assert.True(t, resp.IsActive)
	require.NotNil(t, resp.Price)
	assert.True(t, price.Equal(*resp.Price))
}

func TestCreateService_Validation(t *testing.T) {
	f := newFixture()

	_, err := f.svc.CreateService(context.Background(), &models.CreateServiceRequest{Name: "  "})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = f.svc.CreateService(context.Background(), &models.CreateServiceRequest{Name: "X", DurationMinutes: ptr.Ptr(0)})
	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.Nil(t, f.services.created)
}

func TestServiceNameLimitCountsCharacters(t *testing.T) {
	f := newFixture()

	// 100 кириллических символов: 200 байт, но в пределах лимита
	name := strings.Repeat("у", domain.MaxServiceNameLength)
	resp, err := f.svc.CreateService(context.Background(), &models.CreateServiceRequest{Name: name})
	require.NoError(t, err)
	assert.Equal(t, name, resp.Name)

	_, err = f.svc.UpdateService(context.Background(), 1, &models.UpdateServiceRequest{Name: ptr.Ptr(name)})
	require.NoError(t, err)

	_, err = f.svc.UpdateService(context.Background(), 1, &models.UpdateServiceRequest{Name: ptr.Ptr(name + "у")})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestUpdateService(t *testing.T) {
	f := newFixture()

	resp, err := f.svc.UpdateService(context.Background(), 1, &models.UpdateServiceRequest{IsActive: ptr.Ptr(false)})
	require.NoError(t, err)
	assert.False(t, resp.IsActive)

	_, err = f.svc.UpdateService(context.Background(), 99, &models.UpdateServiceRequest{Name: ptr.Ptr("New")})
	assert.ErrorIs(t, err, ErrServiceNotFound)

	_, err = f.svc.UpdateService(context.Background(), 1, &models.UpdateServiceRequest{DurationMinutes: ptr.Ptr(-5)})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestListServices_OnlyActive(t *testing.T) {
	f := newFixture()

	resp, err := f.svc.ListServices(context.Background(), true)
	require.NoError(t, err)
	require.Len(t, resp.Services, 1)
	assert.Equal(t, "Consultation", resp.Services[0].Name)
	assert.Equal(t, domain.DefaultServiceDurationMinutes, resp.Services[0].DurationMinutes)
}

func TestCreateSlot(t *testing.T) {
	f := newFixture()

	resp, err := f.svc.CreateSlot(context.Background(), &models.CreateSlotRequest{
		Date:      now.AddDate(0, 0, 1),
		StartTime: "09:00",
		EndTime:   "09:30",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultSlotCapacity, resp.Capacity)
	assert.Equal(t, domain.DefaultSlotCapacity, resp.AvailableSpots)
	assert.Equal(t, string(domain.SlotAvailable), resp.Status)
}

func TestCreateSlot_Validation(t *testing.T) {
	f := newFixture()
	tomorrow := now.AddDate(0, 0, 1)

	tests := []struct {
		name string
		req  models.CreateSlotRequest
	}{
		{"past date", models.CreateSlotRequest{Date: now.AddDate(0, 0, -1), StartTime: "09:00", EndTime: "09:30"}},
		{"end before start", models.CreateSlotRequest{Date: tomorrow, StartTime: "10:00", EndTime: "09:30"}},
		{"zero capacity", models.CreateSlotRequest{Date: tomorrow, StartTime: "09:00", EndTime: "09:30", Capacity: ptr.Ptr(0)}},
		{"capacity too large", models.CreateSlotRequest{Date: tomorrow, StartTime: "09:00", EndTime: "09:30", Capacity: ptr.Ptr(domain.MaxSlotCapacity + 1)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.CreateSlot(context.Background(), &tt.req)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestCreateSlot_Duplicate(t *testing.T) {
	f := newFixture()
	f.slots.existing = true

	_, err := f.svc.CreateSlot(context.Background(), &models.CreateSlotRequest{
		Date: now, StartTime: "15:00", EndTime: "15:30",
	})
	assert.ErrorIs(t, err, ErrSlotExists)
}

func TestListUpcomingSlots(t *testing.T) {
	f := newFixture()
	f.slots.slots = []*domain.TimeSlot{
		{ID: 1, Date: now, StartTime: "09:00", EndTime: "09:30", Capacity: 3},
		{ID: 2, Date: now, StartTime: "10:00", EndTime: "10:30", Capacity: 2},
	}
	f.tracker.occupied[2] = 2

	resp, err := f.svc.ListUpcomingSlots(context.Background())
	require.NoError(t, err)
	require.Len(t, resp.Slots, 2)
	assert.Equal(t, "09:00 AM - 09:30 AM", resp.Slots[0].Label)
	assert.Equal(t, string(domain.SlotFull), resp.Slots[1].Status)
	assert.Equal(t, 0, resp.Slots[1].AvailableSpots)
}

func TestDeleteSlot(t *testing.T) {
	f := newFixture()
	f.slots.inUse[5] = true

	assert.NoError(t, f.svc.DeleteSlot(context.Background(), 1))
	assert.ErrorIs(t, f.svc.DeleteSlot(context.Background(), 5), ErrSlotInUse)
	assert.ErrorIs(t, f.svc.DeleteSlot(context.Background(), 9), ErrSlotNotFound)
}

func TestUpdateSlot(t *testing.T) {
	f := newFixture()
	tomorrow := now.AddDate(0, 0, 1)
	f.slots.byID[4] = &domain.TimeSlot{ID: 4, Date: tomorrow, StartTime: "09:00", EndTime: "09:30", Capacity: 3, IsAvailable: false}
	f.tracker.occupied[4] = 3

	resp, err := f.svc.UpdateSlot(context.Background(), 4, &models.UpdateSlotRequest{
		Date: tomorrow, StartTime: "10:00", EndTime: "10:30", Capacity: ptr.Ptr(5),
	})
	require.NoError(t, err)

	assert.Equal(t, 1, f.tx.calls)
	assert.Equal(t, []int64{4}, f.tracker.synced)
	assert.True(t, f.tracker.inTx)
	assert.Equal(t, "10:00", resp.StartTime)
	assert.Equal(t, 5, resp.Capacity)
	assert.Equal(t, 2, resp.AvailableSpots)
	assert.True(t, resp.IsAvailable)
}

func TestUpdateSlot_KeepsCapacityWhenOmitted(t *testing.T) {
	f := newFixture()
	tomorrow := now.AddDate(0, 0, 1)
	f.slots.byID[4] = &domain.TimeSlot{ID: 4, Date: tomorrow, StartTime: "09:00", EndTime: "09:30", Capacity: 4}

	resp, err := f.svc.UpdateSlot(context.Background(), 4, &models.UpdateSlotRequest{
		Date: tomorrow, StartTime: "11:00", EndTime: "11:45",
	})
	require.NoError(t, err)
	assert.Equal(t, 4, resp.Capacity)
	assert.Equal(t, 4, f.slots.updated.Capacity)
}

func TestUpdateSlot_Errors(t *testing.T) {
	tomorrow := now.AddDate(0, 0, 1)

	tests := []struct {
		name    string
		id      int64
		req     models.UpdateSlotRequest
		setup   func(f *fixture)
		wantErr error
	}{
		{
			name:    "unknown slot",
			id:      9,
			req:     models.UpdateSlotRequest{Date: tomorrow, StartTime: "09:00", EndTime: "09:30"},
			wantErr: ErrSlotNotFound,
		},
		{
			name:    "past date",
			id:      4,
			req:     models.UpdateSlotRequest{Date: now.AddDate(0, 0, -1), StartTime: "09:00", EndTime: "09:30"},
			wantErr: ErrInvalidInput,
		},
		{
			name:    "end before start",
			id:      4,
			req:     models.UpdateSlotRequest{Date: tomorrow, StartTime: "10:00", EndTime: "09:00"},
			wantErr: ErrInvalidInput,
		},
		{
			name:    "capacity below bookings",
			id:      4,
			req:     models.UpdateSlotRequest{Date: tomorrow, StartTime: "09:00", EndTime: "09:30", Capacity: ptr.Ptr(1)},
			setup:   func(f *fixture) { f.tracker.occupied[4] = 2 },
			wantErr: ErrCapacityBelowOccupancy,
		},
		{
			name:    "window taken",
			id:      4,
			req:     models.UpdateSlotRequest{Date: tomorrow, StartTime: "12:00", EndTime: "12:30"},
			setup:   func(f *fixture) { f.slots.existing = true },
			wantErr: ErrSlotExists,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			f.slots.byID[4] = &domain.TimeSlot{ID: 4, Date: tomorrow, StartTime: "09:00", EndTime: "09:30", Capacity: 3}
			if tt.setup != nil {
				tt.setup(f)
			}

			_, err := f.svc.UpdateSlot(context.Background(), tt.id, &tt.req)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Nil(t, f.slots.updated)
			assert.Empty(t, f.tracker.synced)
		})
	}
}

func TestBlockDate(t *testing.T) {
	f := newFixture()
	date := now.AddDate(0, 0, 3)

	resp, err := f.svc.BlockDate(context.Background(), &models.CreateBlockedDateRequest{Date: date, Reason: " holiday "})
	require.NoError(t, err)
	assert.Equal(t, "holiday", resp.Reason)
	assert.Equal(t, date.Format(domain.DateFormat), resp.Date)

	_, err = f.svc.BlockDate(context.Background(), &models.CreateBlockedDateRequest{Date: date})
	assert.ErrorIs(t, err, ErrAlreadyBlocked)

	_, err = f.svc.BlockDate(context.Background(), &models.CreateBlockedDateRequest{Date: now.AddDate(0, 0, -2)})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestUnblockDate(t *testing.T) {
	f := newFixture()

	assert.NoError(t, f.svc.UnblockDate(context.Background(), 3))
	assert.ErrorIs(t, f.svc.UnblockDate(context.Background(), 4), ErrBlockedDateNotFound)
}
