package main

import (
	"fmt"

	"github.com/erain9/ordercache/config"
	"github.com/erain9/ordercache/pkg/db/queue"
	"github.com/erain9/ordercache/pkg/messaging"
	"github.com/erain9/ordercache/pkg/messaging/kafka"
	"github.com/erain9/ordercache/pkg/messaging/redis"
	"github.com/rs/zerolog/log"
)

// newEventSender builds the sender selected by events.backend, wrapped in a
// Dispatcher so cache callers never wait on the broker. It returns nil for
// the none backend.
func newEventSender(cfg *config.Config) (*queue.Dispatcher, error) {
	var (
		sender messaging.EventSender
		err    error
	)

	switch cfg.Events.Backend {
	case config.EventsNone:
		return nil, nil
	case config.EventsKafka:
		sender, err = kafka.NewKafkaMessageSender(cfg.Kafka.BrokerAddr, cfg.Kafka.Topic)
	case config.EventsSarama:
		sender, err = queue.NewQueueMessageSender([]string{cfg.Kafka.BrokerAddr}, cfg.Kafka.Topic)
	case config.EventsRedis:
		client := redis.NewRedisClient(redis.RedisOptions{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		sender, err = redis.NewRedisMessageSender(client, cfg.Redis.Channel)
	default:
		return nil, fmt.Errorf("%w: %q", config.ErrUnknownEventBackend, cfg.Events.Backend)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create %s event sender: %w", cfg.Events.Backend, err)
	}

	log.Info().
		Str("backend", cfg.Events.Backend).
		Int("workers", cfg.Events.Workers).
		Msg("Publishing order events")

	return queue.NewDispatcher(sender, cfg.Events.Workers, cfg.Events.BufferSize), nil
}
