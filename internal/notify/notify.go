// Package notify publishes order lifecycle events to an external broker.
//
// When no broker is configured events are only logged.
package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// Exchange is the topic exchange all order events go to.
const Exchange = "order_events"

// Routing keys.
const (
	KeyOrderPlaced = "order.placed"
	keyStagePrefix = "order.stage."
)

// StageKey is the routing key for a stage change.
func StageKey(stageID string) string {
	return keyStagePrefix + stageID
}

// Message is the envelope published for every event.
type Message struct {
	Type       string          `json:"type"`
	OrderID    string          `json:"order_id"`
	OccurredAt time.Time       `json:"occurred_at"`
	Payload    json.RawMessage `json:"payload"`
}

// NewMessage marshals payload into a Message.
func NewMessage(eventType, orderID string, payload any) (Message, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return Message{}, fmt.Errorf("marshal %s payload: %w", eventType, err)
	}
	return Message{
		Type:       eventType,
		OrderID:    orderID,
		OccurredAt: time.Now().UTC(),
		Payload:    raw,
	}, nil
}

// Publisher sends messages under a routing key.
type Publisher interface {
	Publish(ctx context.Context, key string, msg Message) error
	Close() error
}

// LogPublisher writes events to the logger instead of a broker.
type LogPublisher struct {
	logger *zap.Logger
}

// NewLogPublisher creates a LogPublisher.
func NewLogPublisher(logger *zap.Logger) *LogPublisher {
	return &LogPublisher{logger: logger}
}

func (p *LogPublisher) Publish(_ context.Context, key string, msg Message) error {
	p.logger.Info("order event",
		zap.String("routing_key", key),
		zap.String("type", msg.Type),
		zap.String("order_id", msg.OrderID),
	)
	return nil
}

func (p *LogPublisher) Close() error { return nil }
