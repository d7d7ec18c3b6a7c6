package queue

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/IBM/sarama"
	"github.com/erain9/ordercache/pkg/messaging"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"
)

const maxRetry = 5

// newSyncProducer is swapped out in tests
var newSyncProducer = sarama.NewSyncProducer

// QueueMessageSender implements the EventSender interface
// for sending protobuf encoded order events to Kafka through sarama
type QueueMessageSender struct {
	producer sarama.SyncProducer
	topic    string
}

// NewQueueMessageSender connects a synchronous producer to brokers
func NewQueueMessageSender(brokers []string, topic string) (*QueueMessageSender, error) {
	if len(brokers) == 0 || brokers[0] == "" {
		return nil, messaging.ErrEmptyBrokerAddr
	}
	if topic == "" {
		return nil, messaging.ErrEmptyTopic
	}

	cfg := sarama.NewConfig()
	cfg.Producer.Return.Successes = true
	cfg.Producer.RequiredAcks = sarama.WaitForAll
	cfg.Producer.Retry.Max = maxRetry
	cfg.Producer.Partitioner = sarama.NewHashPartitioner

	producer, err := newSyncProducer(brokers, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create Kafka producer: %w", err)
	}

	return &QueueMessageSender{producer: producer, topic: topic}, nil
}

// SendOrderEvent sends the event to the Kafka queue. The producer call is
// synchronous; ctx is only checked before sending.
func (q *QueueMessageSender) SendOrderEvent(ctx context.Context, event *messaging.OrderEvent) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	messageBytes, err := EncodeOrderEvent(event)
	if err != nil {
		return err
	}

	msg := &sarama.ProducerMessage{
		Topic:     q.topic,
		Key:       sarama.StringEncoder(event.Key()),
		Value:     sarama.ByteEncoder(messageBytes),
		Timestamp: event.Timestamp,
	}

	if _, _, err := q.producer.SendMessage(msg); err != nil {
		return fmt.Errorf("failed to send message to Kafka: %w", err)
	}

	return nil
}

// Close closes the producer
func (q *QueueMessageSender) Close() error {
	return q.producer.Close()
}

var _ messaging.EventSender = (*QueueMessageSender)(nil)

// EncodeOrderEvent serializes an event as a protobuf Struct. Sequence and
// quantity are carried as decimal strings because Struct numbers are doubles.
func EncodeOrderEvent(event *messaging.OrderEvent) ([]byte, error) {
	msg, err := structpb.NewStruct(map[string]any{
		"sequence":   strconv.FormatUint(event.Sequence, 10),
		"type":       string(event.Type),
		"reason":     event.Reason,
		"orderId":    event.OrderID,
		"securityId": event.SecurityID,
		"side":       event.Side,
		"quantity":   strconv.FormatUint(event.Quantity, 10),
		"user":       event.User,
		"company":    event.Company,
		"timestamp":  event.Timestamp.UTC().Format(time.RFC3339Nano),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build order event: %w", err)
	}

	data, err := proto.Marshal(msg)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal order event: %w", err)
	}
	return data, nil
}

// DecodeOrderEvent parses bytes produced by EncodeOrderEvent
func DecodeOrderEvent(data []byte) (*messaging.OrderEvent, error) {
	var msg structpb.Struct
	if err := proto.Unmarshal(data, &msg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal order event: %w", err)
	}

	fields := msg.GetFields()
	str := func(key string) string {
		return fields[key].GetStringValue()
	}

	seq, err := strconv.ParseUint(str("sequence"), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid sequence in order event: %w", err)
	}

	qty, err := strconv.ParseUint(str("quantity"), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid quantity in order event: %w", err)
	}

	ts, err := time.Parse(time.RFC3339Nano, str("timestamp"))
	if err != nil {
		return nil, fmt.Errorf("invalid timestamp in order event: %w", err)
	}

	return &messaging.OrderEvent{
		Sequence:   seq,
		Type:       messaging.EventType(str("type")),
		Reason:     str("reason"),
		OrderID:    str("orderId"),
		SecurityID: str("securityId"),
		Side:       str("side"),
		Quantity:   qty,
		User:       str("user"),
		Company:    str("company"),
		Timestamp:  ts,
	}, nil
}
