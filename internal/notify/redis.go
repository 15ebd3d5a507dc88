package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RebuildChannel is the Redis pub/sub channel rebuild events are published
// on.
const RebuildChannel = "roadline:rebuilt"

// RedisPublisher publishes rebuild events to a Redis pub/sub channel.
type RedisPublisher struct {
	client *redis.Client
}

// NewRedisPublisher constructs a RedisPublisher.
func NewRedisPublisher(client *redis.Client) *RedisPublisher {
	return &RedisPublisher{client: client}
}

// Publish publishes event to RebuildChannel.
func (p *RedisPublisher) Publish(event Event) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("notify: marshal event: %w", err)
	}

	if err := p.client.Publish(ctx, RebuildChannel, data).Err(); err != nil {
		return fmt.Errorf("notify: publish to redis: %w", err)
	}
	return nil
}

// Subscribe listens for rebuild events on RebuildChannel until ctx is
// canceled, invoking handler for each one.
func (p *RedisPublisher) Subscribe(ctx context.Context, handler func(Event) error) error {
	pubsub := p.client.Subscribe(ctx, RebuildChannel)
	defer pubsub.Close()

	if _, err := pubsub.Receive(ctx); err != nil {
		return fmt.Errorf("notify: subscribe to redis: %w", err)
	}

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg := <-ch:
			var event Event
			if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
				continue
			}
			if err := handler(event); err != nil {
				continue
			}
		}
	}
}
