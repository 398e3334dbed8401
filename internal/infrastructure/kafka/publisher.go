package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"phonestore/internal/dto"
)

const (
	producerName = "phonestore"
	eventVersion = 1
)

type Envelope struct {
	EventID      string          `json:"eventId"`
	EventType    string          `json:"eventType"`
	EventVersion int             `json:"eventVersion"`
	OccurredAt   time.Time       `json:"occurredAt"`
	Producer     string          `json:"producer"`
	Payload      json.RawMessage `json:"payload"`
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// OrderPublisher writes order events keyed by order id so every event of one
// order lands on the same partition.
type OrderPublisher struct {
	w      messageWriter
	logger *zap.Logger
}

func NewOrderPublisher(brokers []string, topic string, logger *zap.Logger) *OrderPublisher {
	w := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireAll,
		BatchTimeout: 50 * time.Millisecond,
		Async:        true,
		Completion: func(messages []kafka.Message, err error) {
			if err != nil {
				logger.Error("order events not delivered", zap.Int("count", len(messages)), zap.Error(err))
			}
		},
	}
	return &OrderPublisher{w: w, logger: logger}
}

// PublishOrderEvent never fails the caller: the order store is the source of
// truth and events are a best-effort notification.
func (p *OrderPublisher) PublishOrderEvent(ctx context.Context, event dto.OrderEvent) {
	msg, err := newMessage(event)
	if err != nil {
		p.logger.Error("encoding order event", zap.String("orderId", event.OrderID), zap.Error(err))
		return
	}

	if err := p.w.WriteMessages(ctx, msg); err != nil {
		p.logger.Error("publishing order event", zap.String("orderId", event.OrderID), zap.Error(err))
		return
	}
	p.logger.Debug("order event published", zap.String("orderId", event.OrderID), zap.String("to", event.To))
}

func (p *OrderPublisher) Close() error {
	return p.w.Close()
}

func newMessage(event dto.OrderEvent) (kafka.Message, error) {
	payload, err := json.Marshal(event)
	if err != nil {
		return kafka.Message{}, fmt.Errorf("marshal payload: %w", err)
	}

	env := Envelope{
		EventID:      uuid.NewString(),
		EventType:    dto.OrderEventStatusChanged,
		EventVersion: eventVersion,
		OccurredAt:   event.OccurredAt,
		Producer:     producerName,
		Payload:      payload,
	}
	value, err := json.Marshal(env)
	if err != nil {
		return kafka.Message{}, fmt.Errorf("marshal envelope: %w", err)
	}

	return kafka.Message{
		Key:   []byte(event.OrderID),
		Value: value,
		Time:  event.OccurredAt,
		Headers: []kafka.Header{
			{Key: "x-event-type", Value: []byte(dto.OrderEventStatusChanged)},
			{Key: "x-event-version", Value: []byte("1")},
		},
	}, nil
}

// NopPublisher is used when no brokers are configured.
type NopPublisher struct{}

func (NopPublisher) PublishOrderEvent(context.Context, dto.OrderEvent) {}

func (NopPublisher) Close() error { return nil }
