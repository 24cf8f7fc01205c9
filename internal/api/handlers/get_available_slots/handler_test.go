package get_available_slots

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	getAvailableSlots "github.com/m04kA/SMC-SmartQueue/internal/usecase/get_available_slots"
	"github.com/m04kA/SMC-SmartQueue/pkg/logger"
)

type fakeUseCase struct {
	resp *getAvailableSlots.Response
	err  error
}

func (f *fakeUseCase) Execute(_ context.Context, req *getAvailableSlots.Request) (*getAvailableSlots.Response, error) {
	if f.resp != nil {
		f.resp.Date = req.Date
	}
	return f.resp, f.err
}

func TestHandle_ReturnsSlots(t *testing.T) {
	uc := &fakeUseCase{resp: &getAvailableSlots.Response{
		Slots: []getAvailableSlots.Slot{{
			ID: 1, StartTime: "14:00", EndTime: "14:30", Label: "02:00 PM - 02:30 PM",
			Status: "available", Capacity: 3, AvailableSpots: 3, IsRecommended: true,
		}},
	}}
	h := NewHandler(uc, logger.NewNop())

	w := httptest.NewRecorder()
	h.Handle(w, httptest.NewRequest(http.MethodGet, "/api/v1/available-slots?date=2026-10-20", nil))

	require.Equal(t, http.StatusOK, w.Code)

	var body AvailableSlotsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "2026-10-20", body.Date)
	assert.False(t, body.Blocked)
	require.Len(t, body.Slots, 1)
	assert.True(t, body.Slots[0].IsRecommended)
	assert.Equal(t, "14:00", body.Slots[0].StartTime)
}

func TestHandle_BlockedDateHasEmptySlotList(t *testing.T) {
	uc := &fakeUseCase{resp: &getAvailableSlots.Response{Blocked: true, Slots: []getAvailableSlots.Slot{}}}
	h := NewHandler(uc, logger.NewNop())

	w := httptest.NewRecorder()
	h.Handle(w, httptest.NewRequest(http.MethodGet, "/api/v1/available-slots?date=2026-12-25", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"date":"2026-12-25","blocked":true,"slots":[]}`, w.Body.String())
}

func TestHandle_Errors(t *testing.T) {
	tests := []struct {
		name     string
		query    string
		err      error
		wantCode int
	}{
		{"missing date", "", nil, http.StatusBadRequest},
		{"bad date", "?date=20-10-2026", nil, http.StatusBadRequest},
		{"use case failure", "?date=2026-10-20", errors.New("db"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHandler(&fakeUseCase{err: tt.err}, logger.NewNop())
			w := httptest.NewRecorder()
			h.Handle(w, httptest.NewRequest(http.MethodGet, "/api/v1/available-slots"+tt.query, nil))
			assert.Equal(t, tt.wantCode, w.Code)
		})
	}
}
