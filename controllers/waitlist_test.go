package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"barberqueue-backend/models"
	"barberqueue-backend/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type fakeWaitlistStore struct {
	issueFn  func(ctx context.Context, customerName, whatsApp string) (models.WaitlistEntry, error)
	listFn   func(ctx context.Context) ([]models.WaitlistEntry, error)
	statusFn func(ctx context.Context, id uuid.UUID, status string) (models.WaitlistEntry, error)
}

func (f fakeWaitlistStore) IssueTicket(ctx context.Context, customerName, whatsApp string) (models.WaitlistEntry, error) {
	if f.issueFn == nil {
		return models.WaitlistEntry{}, nil
	}
	return f.issueFn(ctx, customerName, whatsApp)
}

func (f fakeWaitlistStore) ListActive(ctx context.Context) ([]models.WaitlistEntry, error) {
	if f.listFn == nil {
		return nil, nil
	}
	return f.listFn(ctx)
}

func (f fakeWaitlistStore) SetEntryStatus(ctx context.Context, id uuid.UUID, status string) (models.WaitlistEntry, error) {
	if f.statusFn == nil {
		return models.WaitlistEntry{}, nil
	}
	return f.statusFn(ctx, id, status)
}

func waitlistRouter(store services.WaitlistStore) *gin.Engine {
	ctrl := &WaitlistController{Store: store}
	r := gin.New()
	r.POST("/api/waitlist", ctrl.JoinWaitlist)
	r.GET("/api/waitlist", ctrl.ListWaitlist)
	r.PATCH("/api/waitlist/:id", ctrl.UpdateWaitlistStatus)
	return r
}

func TestJoinWaitlist(t *testing.T) {
	var gotPhone string
	store := fakeWaitlistStore{
		issueFn: func(ctx context.Context, customerName, whatsApp string) (models.WaitlistEntry, error) {
			gotPhone = whatsApp
			return models.WaitlistEntry{ID: uuid.New(), TicketNumber: 12, CustomerName: customerName, WhatsApp: whatsApp, Status: models.WaitlistWaiting}, nil
		},
	}
	r := waitlistRouter(store)

	rec, _ := doJSON(t, r, http.MethodPost, "/api/waitlist", `{"customerName":"Ana","whatsapp":"+55 11 98765-4321"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	var entry models.WaitlistEntry
	if err := json.Unmarshal(rec.Body.Bytes(), &entry); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if entry.TicketNumber != 12 {
		t.Errorf("ticket = %d, want 12", entry.TicketNumber)
	}
	if gotPhone != "+5511987654321" {
		t.Errorf("stored phone = %q, want normalized", gotPhone)
	}

	rec, _ = doJSON(t, r, http.MethodPost, "/api/waitlist", `{"customerName":"Ana","whatsapp":"call me"}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("invalid phone status = %d, want 400", rec.Code)
	}
	rec, _ = doJSON(t, r, http.MethodPost, "/api/waitlist", `{"customerName":"Ana"}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("missing phone status = %d, want 400", rec.Code)
	}
}

func TestUpdateWaitlistStatus(t *testing.T) {
	known := uuid.New()
	store := fakeWaitlistStore{
		statusFn: func(ctx context.Context, id uuid.UUID, status string) (models.WaitlistEntry, error) {
			if id != known {
				return models.WaitlistEntry{}, services.ErrEntryNotFound
			}
			return models.WaitlistEntry{ID: id, Status: status}, nil
		},
	}
	r := waitlistRouter(store)

	tests := []struct {
		name       string
		id         string
		body       string
		wantStatus int
	}{
		{"served", known.String(), `{"status":"served"}`, http.StatusOK},
		{"removed", known.String(), `{"status":"removed"}`, http.StatusOK},
		{"cannot reset to waiting", known.String(), `{"status":"waiting"}`, http.StatusBadRequest},
		{"bad id", "not-a-uuid", `{"status":"served"}`, http.StatusBadRequest},
		{"unknown entry", uuid.New().String(), `{"status":"served"}`, http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, _ := doJSON(t, r, http.MethodPatch, "/api/waitlist/"+tt.id, tt.body)
			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
		})
	}
}
