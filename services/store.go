package services

import (
	"context"
	"errors"
	"time"

	"barberqueue-backend/models"

	"github.com/google/uuid"
)

var (
	ErrServingRegressed    = errors.New("now serving cannot move backward")
	ErrEntryNotFound       = errors.New("waitlist entry not found")
	ErrAppointmentNotFound = errors.New("appointment not found")
	ErrInvalidStatus       = errors.New("invalid status")
)

// QueueStore reads the ranking pool and writes serving and alert state.
type QueueStore interface {
	CurrentServing(ctx context.Context) (models.ServingState, error)
	// AdvanceServing stores nowServing and stamps AnnouncedAt. It returns
	// ErrServingRegressed, without writing, when nowServing is below the stored value.
	AdvanceServing(ctx context.Context, nowServing int) (models.ServingState, error)
	// ListEligible returns today's waiting/alerted entries with a ticket above
	// after, ordered by arrival, at most limit of them.
	ListEligible(ctx context.Context, after int, limit int) ([]models.WaitlistEntry, error)
	MarkAlerted(ctx context.Context, id uuid.UUID) error
}

// WaitlistStore manages check-ins.
type WaitlistStore interface {
	IssueTicket(ctx context.Context, customerName, whatsApp string) (models.WaitlistEntry, error)
	ListActive(ctx context.Context) ([]models.WaitlistEntry, error)
	SetEntryStatus(ctx context.Context, id uuid.UUID, status string) (models.WaitlistEntry, error)
}

// AppointmentStore reads reminder candidates and guards the reminder flag.
type AppointmentStore interface {
	ListPendingReminders(ctx context.Context, start, end time.Time) ([]models.Appointment, error)
	// ClaimReminder flips reminder_sent from false to true. Only the caller that
	// gets true may send the reminder.
	ClaimReminder(ctx context.Context, id uuid.UUID, at time.Time) (bool, error)
	CreateAppointment(ctx context.Context, appt *models.Appointment) error
	ListAppointments(ctx context.Context, start, end time.Time) ([]models.Appointment, error)
	SetConfirmation(ctx context.Context, id uuid.UUID, status string) (models.Appointment, error)
}

// NotificationRecorder keeps the per-recipient delivery log.
type NotificationRecorder interface {
	RecordNotification(ctx context.Context, entry *models.NotificationLog) error
}
