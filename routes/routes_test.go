package routes

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"barberqueue-backend/controllers"
	"barberqueue-backend/models"
	"barberqueue-backend/services"

	"github.com/gin-gonic/gin"
)

type stubQueue struct{ advanced int }

func (s *stubQueue) Advance(ctx context.Context, nowServing int) (services.DispatchResult, error) {
	s.advanced++
	return services.DispatchResult{NowServing: nowServing}, nil
}

func (s *stubQueue) CurrentServing(ctx context.Context) (models.ServingState, error) {
	return models.ServingState{}, nil
}

type stubReminders struct{}

func (stubReminders) SendDailyReminders(ctx context.Context) (services.ReminderResult, error) {
	return services.ReminderResult{}, nil
}

func newTestRouter(q *stubQueue) *gin.Engine {
	gin.SetMode(gin.TestMode)
	return SetupRouter(Handlers{
		Queue:        &controllers.QueueController{Queue: q},
		Reminders:    &controllers.ReminderController{Reminders: stubReminders{}},
		Waitlist:     &controllers.WaitlistController{},
		Appointments: &controllers.AppointmentController{},
	})
}

func TestRouterMethods(t *testing.T) {
	q := &stubQueue{}
	r := newTestRouter(q)

	tests := []struct {
		method     string
		path       string
		body       string
		wantStatus int
	}{
		{http.MethodGet, "/healthz", "", http.StatusOK},
		{http.MethodGet, "/api/queue/advance", "", http.StatusMethodNotAllowed},
		{http.MethodPut, "/api/queue/advance", `{"nowServing":3}`, http.StatusMethodNotAllowed},
		{http.MethodPost, "/api/queue/advance", `{"nowServing":3}`, http.StatusOK},
		{http.MethodGet, "/api/reminders/send", "", http.StatusOK},
		{http.MethodPost, "/api/reminders/send", "", http.StatusOK},
		{http.MethodDelete, "/api/reminders/send", "", http.StatusMethodNotAllowed},
		{http.MethodGet, "/api/unknown", "", http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, req)
			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d (body %s)", rec.Code, tt.wantStatus, rec.Body.String())
			}
			if !strings.Contains(rec.Body.String(), `"success"`) {
				t.Errorf("body %s lacks the summary shape", rec.Body.String())
			}
		})
	}

	if q.advanced != 1 {
		t.Errorf("Advance called %d times, want 1", q.advanced)
	}
}
