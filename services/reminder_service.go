// services/reminder_service.go
package services

import (
	"context"
	"fmt"
	"log"
	"sync/atomic"
	"time"

	"barberqueue-backend/models"

	"github.com/robfig/cron/v3"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/sync/errgroup"
)

// DryRunReminderTemplate names the reminder template when no content id is
// configured. Only the log provider runs without one.
const DryRunReminderTemplate = "appointment_reminder"

type ReminderConfig struct {
	Location         *time.Location
	TemplateID       string
	FallbackProvider string
	Concurrency      int
}

// ReminderResult summarises one reminder scan.
type ReminderResult struct {
	Window  ReminderWindow
	Matched int
	Sent    int
	Failed  int
	Skipped int
}

type ReminderService struct {
	store    AppointmentStore
	sender   MessageSender
	recorder NotificationRecorder

	loc              *time.Location
	templateID       string
	fallbackProvider string
	concurrency      int
	now              func() time.Time

	cron *cron.Cron
}

func NewReminderService(store AppointmentStore, sender MessageSender, recorder NotificationRecorder, cfg ReminderConfig) *ReminderService {
	loc := cfg.Location
	if loc == nil {
		loc = time.UTC
	}
	concurrency := cfg.Concurrency
	if concurrency <= 0 {
		concurrency = defaultSendConcurrency
	}
	templateID := cfg.TemplateID
	if templateID == "" {
		templateID = DryRunReminderTemplate
	}
	return &ReminderService{
		store:            store,
		sender:           sender,
		recorder:         recorder,
		loc:              loc,
		templateID:       templateID,
		fallbackProvider: cfg.FallbackProvider,
		concurrency:      concurrency,
		now:              time.Now,
	}
}

// StartScheduler runs SendDailyReminders on the cron schedule, evaluated in the reminder timezone.
func (s *ReminderService) StartScheduler(schedule string) error {
	c := cron.New(cron.WithLocation(s.loc))
	if _, err := c.AddFunc(schedule, func() {
		if _, err := s.SendDailyReminders(context.Background()); err != nil {
			log.Printf("[reminder] scheduled run failed: %v", err)
		}
	}); err != nil {
		return fmt.Errorf("invalid reminder schedule %q: %w", schedule, err)
	}

	c.Start()
	s.cron = c
	log.Printf("Reminder scheduler started (%s, %s)", schedule, s.loc)
	return nil
}

// StopScheduler stops the cron and returns a context done once running jobs finish.
func (s *ReminderService) StopScheduler() context.Context {
	if s.cron == nil {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		return ctx
	}
	return s.cron.Stop()
}

// SendDailyReminders sends one confirmation request per pending appointment
// scheduled tomorrow. Only a failing appointment query fails the run.
func (s *ReminderService) SendDailyReminders(ctx context.Context) (ReminderResult, error) {
	ctx, span := tracer.Start(ctx, "ReminderService.SendDailyReminders")
	defer span.End()

	log.Println("Starting daily reminder processing...")
	window := TomorrowWindow(s.now(), s.loc)
	result := ReminderResult{Window: window}

	appts, err := s.store.ListPendingReminders(ctx, window.Start, window.End)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "list pending appointments")
		return result, fmt.Errorf("list pending appointments: %w", err)
	}

	decisions := PlanReminders(appts, window, s.loc, s.fallbackProvider)
	result.Matched = len(decisions)

	var sent, failed, skipped atomic.Int64
	var g errgroup.Group
	g.SetLimit(s.concurrency)
	for _, d := range decisions {
		d := d // per-iteration copy (go 1.21 loop semantics)
		g.Go(func() error {
			switch s.remind(ctx, d) {
			case reminderSent:
				sent.Add(1)
			case reminderSkipped:
				skipped.Add(1)
			default:
				failed.Add(1)
			}
			return nil
		})
	}
	_ = g.Wait()

	result.Sent = int(sent.Load())
	result.Failed = int(failed.Load())
	result.Skipped = int(skipped.Load())
	span.SetAttributes(
		attribute.Int("reminder.matched", result.Matched),
		attribute.Int("reminder.sent", result.Sent),
		attribute.Int("reminder.failed", result.Failed),
		attribute.Int("reminder.skipped", result.Skipped),
	)
	log.Printf("Daily reminder processing completed: %d matched, %d sent, %d failed, %d skipped",
		result.Matched, result.Sent, result.Failed, result.Skipped)
	return result, nil
}

type reminderOutcome int

const (
	reminderFailed reminderOutcome = iota
	reminderSent
	reminderSkipped
)

func (s *ReminderService) remind(ctx context.Context, d ReminderDecision) reminderOutcome {
	appt := d.Appointment

	claimed, err := s.store.ClaimReminder(ctx, appt.ID, s.now())
	if err != nil {
		log.Printf("[reminder] failed to claim appointment %s: %v", appt.ID, err)
		return reminderFailed
	}
	if !claimed {
		// another run already owns this reminder
		return reminderSkipped
	}

	// reminders are always template sends; Body is kept for the delivery log
	msg := Message{
		To:         appt.WhatsApp,
		Body:       d.Message,
		TemplateID: s.templateID,
		Variables:  d.Variables,
	}
	err = s.sender.Send(ctx, msg)
	if err != nil {
		log.Printf("Failed to send reminder to %s: %v", appt.WhatsApp, err)
	}
	record(ctx, s.recorder, models.NotificationReminder, appt.ID, appt.WhatsApp, d.Message, err)
	if err != nil {
		return reminderFailed
	}
	return reminderSent
}
