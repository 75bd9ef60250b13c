package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisForwarder republishes events as JSON on a Redis pub/sub channel.
type RedisForwarder struct {
	client  *redis.Client
	channel string
}

// NewRedisForwarder builds a forwarder for channel.
func NewRedisForwarder(client *redis.Client, channel string) *RedisForwarder {
	return &RedisForwarder{client: client, channel: channel}
}

// Handle is an EventHandler.
func (f *RedisForwarder) Handle(ctx context.Context, event Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode event %s: %w", event.Type, err)
	}
	if err := f.client.Publish(ctx, f.channel, payload).Err(); err != nil {
		return fmt.Errorf("publish event %s: %w", event.Type, err)
	}
	return nil
}

// Register subscribes the forwarder to every event type.
func (f *RedisForwarder) Register(dispatcher Dispatcher) {
	for _, eventType := range AllEventTypes() {
		dispatcher.Subscribe(eventType, f.Handle)
	}
}
