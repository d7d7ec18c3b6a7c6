package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/erain9/ordercache/pkg/messaging"
	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"
)

// Consumer reads order events published by KafkaMessageSender
type Consumer struct {
	reader *kafka.Reader
	logger zerolog.Logger
}

// NewConsumer creates a consumer for topic that joins groupID
func NewConsumer(brokerAddr, topic, groupID string, logger zerolog.Logger) (*Consumer, error) {
	if brokerAddr == "" {
		return nil, messaging.ErrEmptyBrokerAddr
	}
	if topic == "" {
		return nil, messaging.ErrEmptyTopic
	}

	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  []string{brokerAddr},
		Topic:    topic,
		GroupID:  groupID,
		MinBytes: 1,
		MaxBytes: 10e6,
		MaxWait:  500 * time.Millisecond,
	})

	return &Consumer{reader: reader, logger: logger}, nil
}

// Consume calls handle for every event until ctx is done. Messages that do
// not decode are logged and skipped. An error from handle stops consumption.
func (c *Consumer) Consume(ctx context.Context, handle func(*messaging.OrderEvent) error) error {
	for {
		msg, err := c.reader.ReadMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return nil
			}
			return fmt.Errorf("failed to read message from Kafka: %w", err)
		}

		var event messaging.OrderEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			c.logger.Warn().Err(err).
				Int64("offset", msg.Offset).
				Int("partition", msg.Partition).
				Msg("Skipping undecodable order event")
			continue
		}

		c.logger.Debug().
			Str("type", string(event.Type)).
			Str("order_id", event.OrderID).
			Str("security_id", event.SecurityID).
			Msg("Received order event")

		if err := handle(&event); err != nil {
			return err
		}
	}
}

// Close closes the underlying reader
func (c *Consumer) Close() error {
	return c.reader.Close()
}
