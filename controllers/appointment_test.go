package controllers

import (
	"context"
	"net/http"
	"testing"
	"time"

	"barberqueue-backend/models"
	"barberqueue-backend/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type fakeAppointmentStore struct {
	created   []models.Appointment
	listStart time.Time
	listEnd   time.Time
	confirmFn func(ctx context.Context, id uuid.UUID, status string) (models.Appointment, error)
}

func (f *fakeAppointmentStore) ListPendingReminders(ctx context.Context, start, end time.Time) ([]models.Appointment, error) {
	return nil, nil
}

func (f *fakeAppointmentStore) ClaimReminder(ctx context.Context, id uuid.UUID, at time.Time) (bool, error) {
	return false, nil
}

func (f *fakeAppointmentStore) CreateAppointment(ctx context.Context, appt *models.Appointment) error {
	appt.ID = uuid.New()
	f.created = append(f.created, *appt)
	return nil
}

func (f *fakeAppointmentStore) ListAppointments(ctx context.Context, start, end time.Time) ([]models.Appointment, error) {
	f.listStart, f.listEnd = start, end
	return []models.Appointment{}, nil
}

func (f *fakeAppointmentStore) SetConfirmation(ctx context.Context, id uuid.UUID, status string) (models.Appointment, error) {
	if f.confirmFn == nil {
		return models.Appointment{ID: id, ConfirmationStatus: status}, nil
	}
	return f.confirmFn(ctx, id, status)
}

func appointmentRouter(store services.AppointmentStore, now time.Time) *gin.Engine {
	ctrl := &AppointmentController{Store: store, Location: time.UTC, Now: func() time.Time { return now }}
	r := gin.New()
	r.POST("/api/appointments", ctrl.CreateAppointment)
	r.GET("/api/appointments", ctrl.ListAppointments)
	r.PUT("/api/appointments/:id/confirmation", ctrl.UpdateConfirmation)
	return r
}

func TestCreateAppointment(t *testing.T) {
	store := &fakeAppointmentStore{}
	r := appointmentRouter(store, time.Now())

	rec, _ := doJSON(t, r, http.MethodPost, "/api/appointments",
		`{"customerName":"Ana","whatsapp":"+5511987654321","providerName":"Carlos","scheduledAt":"2026-10-19T14:30:00-03:00"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	if len(store.created) != 1 || store.created[0].ConfirmationStatus != models.ConfirmationPending {
		t.Fatalf("created = %+v", store.created)
	}

	rec, _ = doJSON(t, r, http.MethodPost, "/api/appointments", `{"customerName":"Ana","whatsapp":"+5511987654321"}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("missing scheduledAt status = %d, want 400", rec.Code)
	}
}

func TestListAppointmentsDefaultsToTomorrow(t *testing.T) {
	store := &fakeAppointmentStore{}
	now := time.Date(2026, time.October, 18, 20, 0, 0, 0, time.UTC)
	r := appointmentRouter(store, now)

	rec, _ := doJSON(t, r, http.MethodGet, "/api/appointments", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	wantStart := time.Date(2026, time.October, 19, 0, 0, 0, 0, time.UTC)
	if !store.listStart.Equal(wantStart) || !store.listEnd.Equal(wantStart.AddDate(0, 0, 1)) {
		t.Errorf("range = [%v, %v)", store.listStart, store.listEnd)
	}

	rec, _ = doJSON(t, r, http.MethodGet, "/api/appointments?date=2026-12-24", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !store.listStart.Equal(time.Date(2026, time.December, 24, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("start = %v", store.listStart)
	}

	rec, _ = doJSON(t, r, http.MethodGet, "/api/appointments?date=24/12/2026", "")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("bad date status = %d, want 400", rec.Code)
	}
}

func TestUpdateConfirmation(t *testing.T) {
	missing := uuid.New()
	store := &fakeAppointmentStore{
		confirmFn: func(ctx context.Context, id uuid.UUID, status string) (models.Appointment, error) {
			if id == missing {
				return models.Appointment{}, services.ErrAppointmentNotFound
			}
			return models.Appointment{ID: id, ConfirmationStatus: status}, nil
		},
	}
	r := appointmentRouter(store, time.Now())

	tests := []struct {
		name       string
		id         string
		body       string
		wantStatus int
	}{
		{"confirm", uuid.New().String(), `{"status":"confirmed"}`, http.StatusOK},
		{"decline", uuid.New().String(), `{"status":"declined"}`, http.StatusOK},
		{"unknown status", uuid.New().String(), `{"status":"maybe"}`, http.StatusBadRequest},
		{"missing", missing.String(), `{"status":"confirmed"}`, http.StatusNotFound},
		{"bad id", "42", `{"status":"confirmed"}`, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, _ := doJSON(t, r, http.MethodPut, "/api/appointments/"+tt.id+"/confirmation", tt.body)
			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
		})
	}
}
