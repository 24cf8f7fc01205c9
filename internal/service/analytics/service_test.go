package analytics

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SmartQueue/internal/domain"
	"github.com/m04kA/SMC-SmartQueue/pkg/logger"
)

type fixedTime struct{ now time.Time }

func (f fixedTime) Now() time.Time { return f.now }

type fakeStats struct {
	statusErr error
	daily     []domain.DayCount
	monthly   []domain.MonthCount
	hours     []domain.HourCount
	top       []domain.ServiceCount
	dailyFrom time.Time
	monthFrom time.Time
	topLimits []uint64
}

func (f *fakeStats) CountByStatus(context.Context) (domain.StatusCounts, error) {
	if f.statusErr != nil {
		return nil, f.statusErr
	}
	return domain.StatusCounts{
		domain.StatusPending:   2,
		domain.StatusApproved:  1,
		domain.StatusCheckedIn: 0,
		domain.StatusCompleted: 4,
		domain.StatusCancelled: 1,
		domain.StatusRejected:  0,
	}, nil
}

func (f *fakeStats) DailyCreated(_ context.Context, from time.Time) ([]domain.DayCount, error) {
	f.dailyFrom = from
	return f.daily, nil
}

func (f *fakeStats) MonthlyCreated(_ context.Context, from time.Time) ([]domain.MonthCount, error) {
	f.monthFrom = from
	return f.monthly, nil
}

func (f *fakeStats) HourDistribution(context.Context) ([]domain.HourCount, error) {
	return f.hours, nil
}

func (f *fakeStats) TopServices(_ context.Context, limit uint64) ([]domain.ServiceCount, error) {
	f.topLimits = append(f.topLimits, limit)
	return f.top, nil
}

type fakeBookings struct {
	filter domain.BookingFilter
}

func (f *fakeBookings) List(_ context.Context, filter domain.BookingFilter) ([]*domain.Booking, error) {
	f.filter = filter
	return []*domain.Booking{{ID: 1, Status: domain.StatusPending, SlotStart: "09:00", SlotEnd: "09:30"}}, nil
}

type fakeServices struct{}

func (fakeServices) CountActive(context.Context) (int, error) { return 4, nil }

type readOnlyTx struct{ calls int }

func (r *readOnlyTx) DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error {
	r.calls++
	return fn(ctx)
}

var now = time.Date(2026, 3, 15, 14, 0, 0, 0, time.UTC)

func TestDashboard(t *testing.T) {
	stats := &fakeStats{
		daily: []domain.DayCount{
			{Date: time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC), Count: 3},
			{Date: time.Date(2026, 2, 14, 0, 0, 0, 0, time.UTC), Count: 1},
		},
		hours: []domain.HourCount{{Hour: 6, Count: 9}, {Hour: 9, Count: 2}},
		top:   []domain.ServiceCount{{ServiceID: 1, ServiceName: "Consultation", Count: 5}},
	}
	bookings := &fakeBookings{}
	tx := &readOnlyTx{}
	s := NewService(stats, bookings, fakeServices{}, tx, logger.NewNop()).WithTimeProvider(fixedTime{now: now})

	resp, err := s.Dashboard(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, tx.calls)
	assert.Equal(t, 8, resp.Totals.Total)
	assert.Equal(t, 2, resp.Totals.Pending)

	require.Len(t, resp.Daily, domain.DashboardDays)
	assert.Equal(t, "Feb 14", resp.Daily[0].Label)
	assert.Equal(t, 1, resp.Daily[0].Count)
	assert.Equal(t, "Mar 15", resp.Daily[29].Label)
	assert.Equal(t, 3, resp.Daily[29].Count)
	assert.Equal(t, "2026-02-14", stats.dailyFrom.Format(domain.DateFormat))

	require.Len(t, resp.PeakHours, 13)
	assert.Equal(t, "7:00", resp.PeakHours[0].Label)
	assert.Equal(t, 2, resp.PeakHours[2].Count)
	assert.Equal(t, "19:00", resp.PeakHours[12].Label)

	assert.Equal(t, []uint64{domain.DashboardTopServices}, stats.topLimits)
	assert.Equal(t, uint64(domain.DashboardRecent), bookings.filter.Limit)
	assert.Len(t, resp.Recent, 1)
}

func TestAnalytics(t *testing.T) {
	stats := &fakeStats{
		monthly: []domain.MonthCount{
			{Month: time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC), Count: 7},
			{Month: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), Count: 2},
		},
	}
	s := NewService(stats, &fakeBookings{}, fakeServices{}, &readOnlyTx{}, logger.NewNop()).
		WithTimeProvider(fixedTime{now: now})

	resp, err := s.Analytics(context.Background())
	require.NoError(t, err)

	require.Len(t, resp.Monthly, domain.AnalyticsMonths)
	assert.Equal(t, "Apr 2025", resp.Monthly[0].Label)
	assert.Equal(t, 7, resp.Monthly[0].Count)
	assert.Equal(t, "Mar 2026", resp.Monthly[11].Label)
	assert.Equal(t, 2, resp.Monthly[11].Count)
	assert.Equal(t, "2025-04-01", stats.monthFrom.Format(domain.DateFormat))

	assert.Equal(t, 4, resp.ActiveServices)
	assert.Equal(t, 8, resp.Totals.Total)
	assert.Equal(t, []uint64{domain.AnalyticsTopServices}, stats.topLimits)
	assert.NotNil(t, resp.TopServices)
}

func TestDashboard_StoreError(t *testing.T) {
	stats := &fakeStats{statusErr: errors.New("connection refused")}
	s := NewService(stats, &fakeBookings{}, fakeServices{}, &readOnlyTx{}, logger.NewNop())

	_, err := s.Dashboard(context.Background())
	assert.ErrorIs(t, err, ErrInternal)
}
