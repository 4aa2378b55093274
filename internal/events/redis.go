package events

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"
)

// RedisClient is the subset of *redis.Client the publisher needs.
type RedisClient interface {
	Publish(ctx context.Context, channel string, message interface{}) *redis.IntCmd
}

// RedisPublisher broadcasts events with PUBLISH on the event's topic.
type RedisPublisher struct {
	client  RedisClient
	channel string
	logger  *slog.Logger
}

var _ Publisher = (*RedisPublisher)(nil)

// NewRedisPublisher creates a RedisPublisher over client.
func NewRedisPublisher(client RedisClient, logger *slog.Logger) *RedisPublisher {
	if logger == nil {
		logger = slog.Default()
	}
	return &RedisPublisher{
		client: client,
		logger: logger.With("component", "redis_publisher"),
	}
}

// WithChannel sends every event to channel instead of the event's topic.
// An empty channel restores per-topic publishing.
func (p *RedisPublisher) WithChannel(channel string) *RedisPublisher {
	p.channel = channel
	return p
}

// Publish sends the event envelope to the event's topic. Zero receivers is
// not an error; nobody may be listening.
func (p *RedisPublisher) Publish(ctx context.Context, event *Event) error {
	message, err := event.Envelope()
	if err != nil {
		return fmt.Errorf("failed to encode %s event: %w", event.Name, err)
	}

	channel := event.Topic
	if p.channel != "" {
		channel = p.channel
	}

	receivers, err := p.client.Publish(ctx, channel, message).Result()
	if err != nil {
		return fmt.Errorf("failed to publish %s event on %q: %w", event.Name, channel, err)
	}

	p.logger.Debug("event broadcast",
		"event_id", event.ID,
		"channel", channel,
		"event", event.Name,
		"receivers", receivers)
	return nil
}
