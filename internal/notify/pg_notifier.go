package notify

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/badgerspace/backend/internal/model"
	"github.com/jackc/pgx/v5/pgxpool"
)

// pgChannel is the single NOTIFY channel all events ride on; the envelope
// carries the logical topic.
const pgChannel = "badgerspace_events"

// PgNotifier bridges the in-process Hub through Postgres LISTEN/NOTIFY so
// every server process observes every committed message insert, not just
// the one that handled the send.
type PgNotifier struct {
	pool *pgxpool.Pool
	hub  *Hub
}

// NewPgNotifier creates a PgNotifier over an existing pool and hub.
func NewPgNotifier(pool *pgxpool.Pool, hub *Hub) *PgNotifier {
	return &PgNotifier{pool: pool, hub: hub}
}

type envelope struct {
	Topic   string         `json:"topic"`
	Message *model.Message `json:"message"`
}

// Publish sends the event through Postgres. Local subscribers receive it
// when the listening connection is notified, never inline with this call.
func (n *PgNotifier) Publish(ctx context.Context, topic string, message *model.Message) error {
	payload, err := json.Marshal(envelope{Topic: topic, Message: message})
	if err != nil {
		return err
	}
	_, err = n.pool.Exec(ctx, `SELECT pg_notify($1, $2)`, pgChannel, string(payload))
	return err
}

// Subscribe registers a local listener; events published by any process
// reach it via the Listen loop.
func (n *PgNotifier) Subscribe(topic string, fn func(Event)) *Subscription {
	return n.hub.Subscribe(topic, fn)
}

// Listen holds a dedicated connection on the NOTIFY channel and feeds
// incoming envelopes into the hub. Runs until ctx is cancelled, reconnecting
// after transient failures. Intended to run in its own goroutine.
func (n *PgNotifier) Listen(ctx context.Context) {
	for {
		if err := n.listenOnce(ctx); err != nil {
			if ctx.Err() != nil {
				return
			}
			slog.Warn("notify listener disconnected", "error", err)
		}
		select {
		case <-ctx.Done():
			return
		case <-time.After(time.Second):
		}
	}
}

func (n *PgNotifier) listenOnce(ctx context.Context) error {
	conn, err := n.pool.Acquire(ctx)
	if err != nil {
		return err
	}
	defer conn.Release()

	if _, err := conn.Exec(ctx, `LISTEN `+pgChannel); err != nil {
		return err
	}
	for {
		notification, err := conn.Conn().WaitForNotification(ctx)
		if err != nil {
			return err
		}
		var env envelope
		if err := json.Unmarshal([]byte(notification.Payload), &env); err != nil {
			slog.Warn("notify payload unmarshal failed", "error", err)
			continue
		}
		if env.Topic == "" {
			continue
		}
		if err := n.hub.Publish(ctx, env.Topic, env.Message); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
	}
}
