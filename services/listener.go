package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// QueueDispatcher is the part of QueueService the listener drives.
type QueueDispatcher interface {
	Dispatch(ctx context.Context, nowServing int) (DispatchResult, error)
}

// ServingListener dispatches queue alerts for serving-state changes published
// by the database trigger, the event-driven alternative to the HTTP trigger.
type ServingListener struct {
	pool    *pgxpool.Pool
	channel string
	queue   QueueDispatcher
	retry   time.Duration
}

func NewServingListener(pool *pgxpool.Pool, channel string, queue QueueDispatcher) *ServingListener {
	return &ServingListener{pool: pool, channel: channel, queue: queue, retry: 5 * time.Second}
}

// Run listens until ctx is cancelled, reconnecting after connection loss.
// Notifications raised while disconnected are lost.
func (l *ServingListener) Run(ctx context.Context) error {
	for {
		err := l.listen(ctx)
		if ctx.Err() != nil {
			return ctx.Err()
		}
		log.Printf("[listener] connection lost: %v; reconnecting in %s", err, l.retry)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(l.retry):
		}
	}
}

func (l *ServingListener) listen(ctx context.Context) error {
	conn, err := l.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	if _, err := conn.Exec(ctx, "LISTEN "+pgx.Identifier{l.channel}.Sanitize()); err != nil {
		return fmt.Errorf("listen %s: %w", l.channel, err)
	}
	log.Printf("[listener] listening on %s", l.channel)

	for {
		n, err := conn.Conn().WaitForNotification(ctx)
		if err != nil {
			return err
		}
		l.handle(ctx, n.Payload)
	}
}

func (l *ServingListener) handle(ctx context.Context, payload string) {
	nowServing, err := ParseServingPayload(payload)
	if err != nil {
		log.Printf("[listener] ignoring notification %q: %v", payload, err)
		return
	}
	if _, err := l.queue.Dispatch(ctx, nowServing); err != nil {
		log.Printf("[listener] dispatch for %d failed: %v", nowServing, err)
	}
}

type servingPayload struct {
	NowServing *int `json:"now_serving"`
}

// ParseServingPayload reads the trigger payload {"now_serving": N}.
func ParseServingPayload(payload string) (int, error) {
	var p servingPayload
	if err := json.Unmarshal([]byte(payload), &p); err != nil {
		return 0, fmt.Errorf("decode payload: %w", err)
	}
	if p.NowServing == nil || *p.NowServing < 1 {
		return 0, ErrInvalidTicket
	}
	return *p.NowServing, nil
}
