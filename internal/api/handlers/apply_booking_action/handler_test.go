package apply_booking_action

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"

	"github.com/m04kA/SMC-SmartQueue/internal/api/middleware"
	"github.com/m04kA/SMC-SmartQueue/internal/service/bookings"
	"github.com/m04kA/SMC-SmartQueue/internal/service/bookings/models"
	"github.com/m04kA/SMC-SmartQueue/pkg/logger"
)

type fakeService struct {
	action  string
	staffID int64
	err     error
}

func (f *fakeService) ApplyAction(_ context.Context, id int64, action string, staffID int64) (*models.BookingResponse, error) {
	f.action, f.staffID = action, staffID
	if f.err != nil {
		return nil, f.err
	}
	return &models.BookingResponse{ID: id, Status: "approved"}, nil
}

func TestHandle(t *testing.T) {
	tests := []struct {
		name     string
		id       string
		err      error
		wantCode int
	}{
		{"approve", "5", nil, http.StatusOK},
		{"invalid action", "5", fmt.Errorf("%w: %q", bookings.ErrInvalidAction, "approve"), http.StatusBadRequest},
		{"not found", "5", bookings.ErrBookingNotFound, http.StatusNotFound},
		{"invalid transition", "5", bookings.ErrInvalidTransition, http.StatusConflict},
		{"internal", "5", bookings.ErrInternal, http.StatusInternalServerError},
		{"bad id", "abc", nil, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &fakeService{err: tt.err}
			h := NewHandler(svc, logger.NewNop())

			r := httptest.NewRequest(http.MethodPost, "/", nil)
			r = mux.SetURLVars(r, map[string]string{"bookingId": tt.id, "action": "approve"})
			r = r.WithContext(middleware.WithUserID(r.Context(), 99))
			w := httptest.NewRecorder()
			h.Handle(w, r)

			assert.Equal(t, tt.wantCode, w.Code)
			if tt.id != "abc" {
				assert.Equal(t, "approve", svc.action)
				assert.Equal(t, int64(99), svc.staffID)
			}
		})
	}
}
