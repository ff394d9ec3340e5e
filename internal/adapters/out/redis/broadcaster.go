// Package redis provides the live-tracking adapters backed by Redis: the
// pub/sub event broadcaster and the geospatial driver location index.
package redis

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// Broadcaster publishes order events over Redis pub/sub. Each order has its
// own channel, so subscribers receive every event kind for the orders they
// watch. Delivery is best effort: failures are logged, never returned, and
// never roll back the state that triggered the event.
type Broadcaster struct {
	client *redis.Client
	logger *slog.Logger
}

// NewBroadcaster creates a Redis-backed event broadcaster.
func NewBroadcaster(client *redis.Client, logger *slog.Logger) *Broadcaster {
	return &Broadcaster{client: client, logger: logger}
}

// eventEnvelope is the wire format of one published event.
type eventEnvelope struct {
	Event      string    `json:"event"`
	Payload    any       `json:"payload"`
	OccurredAt time.Time `json:"occurredAt"`
}

// Publish sends one event to the topic's channel as a JSON envelope.
func (b *Broadcaster) Publish(ctx context.Context, topic string, event string, payload any) {
	envelope, err := json.Marshal(eventEnvelope{
		Event:      event,
		Payload:    payload,
		OccurredAt: time.Now().UTC(),
	})
	if err != nil {
		b.logger.Error("failed to serialize event",
			"topic", topic, "event", event, "error", err)
		return
	}

	if err := b.client.Publish(ctx, topic, envelope).Err(); err != nil {
		b.logger.Error("failed to publish event",
			"topic", topic, "event", event, "error", err)
	}
}
