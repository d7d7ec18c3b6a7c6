package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/erain9/ordercache/pkg/messaging"
	"github.com/redis/go-redis/v9"
)

// RedisOptions represents configuration options for Redis connection
type RedisOptions struct {
	Addr     string
	Password string
	DB       int
}

// NewRedisClient creates a new Redis client from options
func NewRedisClient(options RedisOptions) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     options.Addr,
		Password: options.Password,
		DB:       options.DB,
	})
}

// RedisMessageSender publishes order events on a Redis pub/sub channel
type RedisMessageSender struct {
	client  *redis.Client
	channel string
}

// NewRedisMessageSender creates a sender publishing to channel
func NewRedisMessageSender(client *redis.Client, channel string) (*RedisMessageSender, error) {
	if channel == "" {
		return nil, messaging.ErrEmptyChannel
	}
	return &RedisMessageSender{
		client:  client,
		channel: channel,
	}, nil
}

// SendOrderEvent publishes the JSON encoded event
func (r *RedisMessageSender) SendOrderEvent(ctx context.Context, event *messaging.OrderEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal order event: %w", err)
	}

	if err := r.client.Publish(ctx, r.channel, data).Err(); err != nil {
		return fmt.Errorf("failed to publish order event to Redis: %w", err)
	}

	return nil
}

// Subscribe returns a channel of decoded events published on the sender's
// channel. The returned channel is closed when ctx is done.
func (r *RedisMessageSender) Subscribe(ctx context.Context) (<-chan *messaging.OrderEvent, error) {
	pubsub := r.client.Subscribe(ctx, r.channel)
	if _, err := pubsub.Receive(ctx); err != nil {
		_ = pubsub.Close()
		return nil, fmt.Errorf("failed to subscribe to %s: %w", r.channel, err)
	}

	out := make(chan *messaging.OrderEvent)
	go func() {
		defer close(out)
		defer pubsub.Close()

		msgs := pubsub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-msgs:
				if !ok {
					return
				}
				var event messaging.OrderEvent
				if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
					continue
				}
				select {
				case out <- &event:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return out, nil
}

// Close closes the Redis client
func (r *RedisMessageSender) Close() error {
	return r.client.Close()
}

var _ messaging.EventSender = (*RedisMessageSender)(nil)
