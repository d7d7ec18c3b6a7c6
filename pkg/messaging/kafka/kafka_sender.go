package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/erain9/ordercache/pkg/messaging"
	"github.com/segmentio/kafka-go"
)

const sendTimeout = 5 * time.Second

// KafkaMessageSender implements EventSender using Kafka
type KafkaMessageSender struct {
	writer *kafka.Writer
	topic  string
}

// NewKafkaMessageSender creates a new Kafka message sender
func NewKafkaMessageSender(brokerAddr, topic string) (*KafkaMessageSender, error) {
	if brokerAddr == "" {
		return nil, messaging.ErrEmptyBrokerAddr
	}
	if topic == "" {
		return nil, messaging.ErrEmptyTopic
	}

	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokerAddr),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		BatchTimeout: 10 * time.Millisecond,
	}

	return &KafkaMessageSender{
		writer: writer,
		topic:  topic,
	}, nil
}

// SendOrderEvent sends an order event to Kafka
func (k *KafkaMessageSender) SendOrderEvent(ctx context.Context, event *messaging.OrderEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal order event: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(event.Key()),
		Value: data,
		Time:  event.Timestamp,
	}

	ctx, cancel := context.WithTimeout(ctx, sendTimeout)
	defer cancel()

	if err := k.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("failed to send message to Kafka: %w", err)
	}

	return nil
}

// Topic returns the topic events are written to
func (k *KafkaMessageSender) Topic() string {
	return k.topic
}

// Close closes the Kafka writer
func (k *KafkaMessageSender) Close() error {
	return k.writer.Close()
}

var _ messaging.EventSender = (*KafkaMessageSender)(nil)
