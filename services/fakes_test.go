package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"barberqueue-backend/models"

	"github.com/google/uuid"
)

type fakeQueueStore struct {
	currentFn  func(ctx context.Context) (models.ServingState, error)
	advanceFn  func(ctx context.Context, nowServing int) (models.ServingState, error)
	eligibleFn func(ctx context.Context, after int, limit int) ([]models.WaitlistEntry, error)
	alertedFn  func(ctx context.Context, id uuid.UUID) error

	mu      sync.Mutex
	alerted []uuid.UUID
}

func (f *fakeQueueStore) CurrentServing(ctx context.Context) (models.ServingState, error) {
	if f.currentFn == nil {
		return models.ServingState{}, nil
	}
	return f.currentFn(ctx)
}

func (f *fakeQueueStore) AdvanceServing(ctx context.Context, nowServing int) (models.ServingState, error) {
	if f.advanceFn == nil {
		return models.ServingState{NowServing: nowServing}, nil
	}
	return f.advanceFn(ctx, nowServing)
}

func (f *fakeQueueStore) ListEligible(ctx context.Context, after int, limit int) ([]models.WaitlistEntry, error) {
	if f.eligibleFn == nil {
		return nil, nil
	}
	return f.eligibleFn(ctx, after, limit)
}

func (f *fakeQueueStore) MarkAlerted(ctx context.Context, id uuid.UUID) error {
	f.mu.Lock()
	f.alerted = append(f.alerted, id)
	f.mu.Unlock()
	if f.alertedFn == nil {
		return nil
	}
	return f.alertedFn(ctx, id)
}

type fakeAppointmentStore struct {
	pendingFn func(ctx context.Context, start, end time.Time) ([]models.Appointment, error)
	claimFn   func(ctx context.Context, id uuid.UUID, at time.Time) (bool, error)
}

func (f *fakeAppointmentStore) ListPendingReminders(ctx context.Context, start, end time.Time) ([]models.Appointment, error) {
	if f.pendingFn == nil {
		return nil, nil
	}
	return f.pendingFn(ctx, start, end)
}

func (f *fakeAppointmentStore) ClaimReminder(ctx context.Context, id uuid.UUID, at time.Time) (bool, error) {
	if f.claimFn == nil {
		return true, nil
	}
	return f.claimFn(ctx, id, at)
}

func (f *fakeAppointmentStore) CreateAppointment(ctx context.Context, appt *models.Appointment) error {
	return nil
}

func (f *fakeAppointmentStore) ListAppointments(ctx context.Context, start, end time.Time) ([]models.Appointment, error) {
	return nil, nil
}

func (f *fakeAppointmentStore) SetConfirmation(ctx context.Context, id uuid.UUID, status string) (models.Appointment, error) {
	return models.Appointment{}, nil
}

// recordingSender stores every message and fails for recipients listed in failFor.
type recordingSender struct {
	mu      sync.Mutex
	sent    []Message
	failFor map[string]bool
}

func (r *recordingSender) Send(ctx context.Context, msg Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, msg)
	if r.failFor[msg.To] {
		return errors.New("provider failure")
	}
	return nil
}

func (r *recordingSender) recipients() map[string]Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make(map[string]Message, len(r.sent))
	for _, m := range r.sent {
		out[m.To] = m
	}
	return out
}

type memoryRecorder struct {
	mu      sync.Mutex
	entries []models.NotificationLog
}

func (m *memoryRecorder) RecordNotification(ctx context.Context, entry *models.NotificationLog) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, *entry)
	return nil
}

type fakeBoard struct {
	published []models.ServingState
}

func (f *fakeBoard) PublishServing(state models.ServingState) {
	f.published = append(f.published, state)
}

func waitlist(tickets ...int) []models.WaitlistEntry {
	base := time.Date(2026, time.October, 18, 9, 0, 0, 0, time.UTC)
	entries := make([]models.WaitlistEntry, 0, len(tickets))
	for i, n := range tickets {
		entries = append(entries, models.WaitlistEntry{
			ID:           uuid.New(),
			TicketNumber: n,
			WhatsApp:     phoneFor(n),
			Status:       models.WaitlistWaiting,
			ArrivalTime:  base.Add(time.Duration(i) * time.Minute),
		})
	}
	return entries
}

func phoneFor(ticket int) string {
	return fmt.Sprintf("+5511900000%03d", ticket)
}
