package queue

import (
	"context"
	"fmt"

	"github.com/IBM/sarama"
	"github.com/erain9/ordercache/pkg/messaging"
	"github.com/rs/zerolog"
)

// newConsumer is swapped out in tests
var newConsumer = sarama.NewConsumer

// QueueMessageConsumer reads protobuf encoded order events written by
// QueueMessageSender from every partition of a topic
type QueueMessageConsumer struct {
	consumer sarama.Consumer
	topic    string
	logger   zerolog.Logger
}

// NewQueueMessageConsumer connects a consumer to brokers
func NewQueueMessageConsumer(brokers []string, topic string, logger zerolog.Logger) (*QueueMessageConsumer, error) {
	if len(brokers) == 0 || brokers[0] == "" {
		return nil, messaging.ErrEmptyBrokerAddr
	}
	if topic == "" {
		return nil, messaging.ErrEmptyTopic
	}

	cfg := sarama.NewConfig()
	cfg.Consumer.Return.Errors = true

	consumer, err := newConsumer(brokers, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create Kafka consumer: %w", err)
	}

	return &QueueMessageConsumer{consumer: consumer, topic: topic, logger: logger}, nil
}

// ConsumeOrderEvents calls handle for every event of the topic, oldest
// first, until ctx is done. Partitions are merged into one stream, so
// events of different partitions may interleave in any order. Messages that
// do not decode are logged and skipped. An error from handle stops
// consumption.
func (q *QueueMessageConsumer) ConsumeOrderEvents(ctx context.Context, handle func(*messaging.OrderEvent) error) error {
	partitions, err := q.consumer.Partitions(q.topic)
	if err != nil {
		return fmt.Errorf("failed to list partitions of %s: %w", q.topic, err)
	}

	messages := make(chan *sarama.ConsumerMessage)
	for _, partition := range partitions {
		pc, err := q.consumer.ConsumePartition(q.topic, partition, sarama.OffsetOldest)
		if err != nil {
			return fmt.Errorf("failed to consume partition %d: %w", partition, err)
		}
		defer pc.AsyncClose()

		go func(pc sarama.PartitionConsumer) {
			for {
				select {
				case msg, ok := <-pc.Messages():
					if !ok {
						return
					}
					select {
					case messages <- msg:
					case <-ctx.Done():
						return
					}
				case cerr, ok := <-pc.Errors():
					if !ok {
						return
					}
					q.logger.Warn().Err(cerr).Msg("Kafka partition consumer error")
				case <-ctx.Done():
					return
				}
			}
		}(pc)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case msg := <-messages:
			event, err := DecodeOrderEvent(msg.Value)
			if err != nil {
				q.logger.Warn().Err(err).
					Int64("offset", msg.Offset).
					Int32("partition", msg.Partition).
					Msg("Skipping undecodable order event")
				continue
			}
			if err := handle(event); err != nil {
				return err
			}
		}
	}
}

// Close closes the consumer
func (q *QueueMessageConsumer) Close() error {
	return q.consumer.Close()
}
