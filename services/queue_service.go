package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync/atomic"
	"time"

	"barberqueue-backend/models"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/sync/errgroup"
)

var tracer = otel.Tracer("barberqueue-backend/services")

var ErrInvalidTicket = errors.New("ticket number must be positive")

const defaultSendConcurrency = 5

// Broadcaster receives every accepted serving update, e.g. for a display board.
type Broadcaster interface {
	PublishServing(state models.ServingState)
}

type QueueConfig struct {
	AlertCap    int
	Concurrency int
	// DispatchOnAdvance sends alerts inside Advance. When false the caller only
	// stores the new value and a database listener performs the dispatch.
	DispatchOnAdvance bool
}

// DispatchResult summarises one queue alert batch.
type DispatchResult struct {
	NowServing int
	Planned    int
	Sent       int
	Failed     int
	Deferred   bool
}

type QueueService struct {
	store    QueueStore
	sender   MessageSender
	recorder NotificationRecorder
	board    Broadcaster

	alertCap          int
	concurrency       int
	dispatchOnAdvance bool
}

func NewQueueService(store QueueStore, sender MessageSender, recorder NotificationRecorder, board Broadcaster, cfg QueueConfig) *QueueService {
	alertCap := cfg.AlertCap
	if alertCap <= 0 {
		alertCap = DefaultAlertCap
	}
	concurrency := cfg.Concurrency
	if concurrency <= 0 {
		concurrency = defaultSendConcurrency
	}
	return &QueueService{
		store:             store,
		sender:            sender,
		recorder:          recorder,
		board:             board,
		alertCap:          alertCap,
		concurrency:       concurrency,
		dispatchOnAdvance: cfg.DispatchOnAdvance,
	}
}

// Advance moves the serving pointer to nowServing and, unless dispatch is
// deferred to the database listener, alerts the customers next in line.
func (s *QueueService) Advance(ctx context.Context, nowServing int) (DispatchResult, error) {
	if nowServing < 1 {
		return DispatchResult{}, ErrInvalidTicket
	}

	state, err := s.store.AdvanceServing(ctx, nowServing)
	if err != nil {
		if errors.Is(err, ErrServingRegressed) {
			return DispatchResult{}, err
		}
		return DispatchResult{}, fmt.Errorf("advance serving: %w", err)
	}
	if s.board != nil {
		s.board.PublishServing(state)
	}

	if !s.dispatchOnAdvance {
		return DispatchResult{NowServing: nowServing, Deferred: true}, nil
	}
	return s.Dispatch(ctx, nowServing)
}

// Dispatch alerts the first customers above nowServing. Sends and status writes
// run concurrently; a failed send is logged and counted but never stops the batch.
func (s *QueueService) Dispatch(ctx context.Context, nowServing int) (DispatchResult, error) {
	ctx, span := tracer.Start(ctx, "QueueService.Dispatch")
	defer span.End()
	span.SetAttributes(attribute.Int("queue.now_serving", nowServing))

	result := DispatchResult{NowServing: nowServing}

	pool, err := s.store.ListEligible(ctx, nowServing, s.alertCap)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "list eligible entries")
		return result, fmt.Errorf("list eligible entries: %w", err)
	}

	decisions := PlanQueueAlerts(nowServing, pool, s.alertCap)
	result.Planned = len(decisions)

	var sent, failed atomic.Int64
	var g errgroup.Group
	g.SetLimit(s.concurrency)

	for _, d := range decisions {
		d := d // per-iteration copy (go 1.21 loop semantics)
		if d.MarkAlerted {
			g.Go(func() error {
				if err := s.store.MarkAlerted(ctx, d.Entry.ID); err != nil {
					log.Printf("[queue] failed to mark ticket %d alerted: %v", d.Entry.TicketNumber, err)
				}
				return nil
			})
		}
		g.Go(func() error {
			if s.deliver(ctx, d) {
				sent.Add(1)
			} else {
				failed.Add(1)
			}
			return nil
		})
	}
	_ = g.Wait()

	result.Sent = int(sent.Load())
	result.Failed = int(failed.Load())
	span.SetAttributes(
		attribute.Int("queue.planned", result.Planned),
		attribute.Int("queue.sent", result.Sent),
		attribute.Int("queue.failed", result.Failed),
	)
	log.Printf("[queue] now serving %d: %d alerts planned, %d sent, %d failed", nowServing, result.Planned, result.Sent, result.Failed)
	return result, nil
}

func (s *QueueService) deliver(ctx context.Context, d QueueDecision) bool {
	err := s.sender.Send(ctx, Message{To: d.Entry.WhatsApp, Body: d.Message})
	if err != nil {
		log.Printf("[queue] failed to alert ticket %d (rank %d): %v", d.Entry.TicketNumber, d.Rank, err)
	}
	record(ctx, s.recorder, models.NotificationQueueAlert, d.Entry.ID, d.Entry.WhatsApp, d.Message, err)
	return err == nil
}

func (s *QueueService) CurrentServing(ctx context.Context) (models.ServingState, error) {
	return s.store.CurrentServing(ctx)
}

// record writes a delivery log row; a logging failure never affects the send outcome.
func record(ctx context.Context, recorder NotificationRecorder, kind string, ref uuid.UUID, to, message string, sendErr error) {
	if recorder == nil {
		return
	}
	entry := &models.NotificationLog{
		Kind:        kind,
		ReferenceID: ref,
		Recipient:   to,
		Message:     message,
		Status:      models.NotificationSent,
		Channel:     ChannelWhatsApp,
		SentAt:      time.Now(),
	}
	if sendErr != nil {
		entry.Status = models.NotificationFailed
		entry.ErrorMessage = sendErr.Error()
	}
	if err := recorder.RecordNotification(ctx, entry); err != nil {
		log.Printf("Failed to log %s for %s: %v", kind, to, err)
	}
}
