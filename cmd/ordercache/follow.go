package main

import (
	"context"
	"errors"
	"strconv"

	"github.com/erain9/ordercache/config"
	"github.com/erain9/ordercache/pkg/core"
	"github.com/erain9/ordercache/pkg/db/queue"
	"github.com/erain9/ordercache/pkg/logging"
	"github.com/erain9/ordercache/pkg/messaging"
	"github.com/erain9/ordercache/pkg/messaging/kafka"
	"github.com/erain9/ordercache/pkg/messaging/redis"
)

var errFollowUnsupported = errors.New("follow needs an event backend")

// follower applies order events from the configured bus to a replica cache
type follower struct {
	replica *core.Replica
	cache   *core.Cache
}

func newFollower(cache *core.Cache) *follower {
	return &follower{
		replica: core.NewReplica(cache),
		cache:   cache,
	}
}

// apply feeds event to the replica and logs the matching size of its
// security. Events that fail to apply are logged and skipped.
func (f *follower) apply(ctx context.Context, event *messaging.OrderEvent) error {
	ctx = logging.WithRequestID(ctx, string(event.Type)+"-"+strconv.FormatUint(event.Sequence, 10))
	logger := logging.FromContext(ctx)

	if err := f.replica.Apply(event); err != nil {
		logger.Warn().Err(err).Str("order_id", event.OrderID).Msg("Ignoring order event")
	}

	logger.Info().
		Str("order_id", event.OrderID).
		Str("security_id", event.SecurityID).
		Uint64("matching_size", f.cache.GetMatchingSizeForSecurity(event.SecurityID)).
		Int("orders", f.cache.Len()).
		Int("pending", f.replica.Pending()).
		Msg("Applied order event")
	return nil
}

// start subscribes to the bus before returning, so that events published
// afterwards reach the replica, and consumes in the background. The
// returned channel yields the consumer's result once ctx is done.
func (f *follower) start(ctx context.Context, cfg *config.Config) (<-chan error, error) {
	logger := logging.Component("follower")
	handle := func(event *messaging.OrderEvent) error {
		return f.apply(ctx, event)
	}

	var consume func() error

	switch cfg.Events.Backend {
	case config.EventsKafka:
		consumer, err := kafka.NewConsumer(cfg.Kafka.BrokerAddr, cfg.Kafka.Topic, cfg.Kafka.GroupID, logger)
		if err != nil {
			return nil, err
		}
		logger.Info().Str("topic", cfg.Kafka.Topic).Msg("Following Kafka order events")
		consume = func() error {
			defer consumer.Close()
			return consumer.Consume(ctx, handle)
		}

	case config.EventsSarama:
		consumer, err := queue.NewQueueMessageConsumer([]string{cfg.Kafka.BrokerAddr}, cfg.Kafka.Topic, logger)
		if err != nil {
			return nil, err
		}
		logger.Info().Str("topic", cfg.Kafka.Topic).Msg("Following Kafka order events")
		consume = func() error {
			defer consumer.Close()
			return consumer.ConsumeOrderEvents(ctx, handle)
		}

	case config.EventsRedis:
		client := redis.NewRedisClient(redis.RedisOptions{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		subscriber, err := redis.NewRedisMessageSender(client, cfg.Redis.Channel)
		if err != nil {
			_ = client.Close()
			return nil, err
		}
		// Pub/sub keeps no backlog: only events published after this call
		// are seen.
		events, err := subscriber.Subscribe(ctx)
		if err != nil {
			_ = subscriber.Close()
			return nil, err
		}
		logger.Info().Str("channel", cfg.Redis.Channel).Msg("Following Redis order events")
		consume = func() error {
			defer subscriber.Close()
			for event := range events {
				_ = handle(event)
			}
			return nil
		}

	default:
		return nil, errFollowUnsupported
	}

	done := make(chan error, 1)
	go func() {
		done <- consume()
	}()
	return done, nil
}
