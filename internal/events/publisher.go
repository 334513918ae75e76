package events

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"github.com/tm-acme-shop/acme-shop-storefront-service/internal/config"
	"github.com/tm-acme-shop/acme-shop-storefront-service/internal/logging"
	"github.com/tm-acme-shop/acme-shop-storefront-service/internal/models"
	"github.com/tm-acme-shop/acme-shop-storefront-service/internal/service"
)

// Ensure KafkaPublisher implements service.OrderEventPublisher.
var _ service.OrderEventPublisher = (*KafkaPublisher)(nil)

// EventType represents the type of order event.
type EventType string

const (
	EventTypeOrderPlaced EventType = "order.placed"
)

// OrderEvent is the envelope published for order lifecycle events.
type OrderEvent struct {
	ID        string          `json:"id"`
	Type      EventType       `json:"type"`
	OrderID   int64           `json:"order_id"`
	UserID    int64           `json:"user_id"`
	Data      json.RawMessage `json:"data"`
	Timestamp time.Time       `json:"timestamp"`
}

// KafkaPublisher publishes order events to Kafka.
type KafkaPublisher struct {
	writer *kafka.Writer
	logger *logging.Logger
}

// NewKafkaPublisher creates a new Kafka-based event publisher.
func NewKafkaPublisher(cfg config.KafkaConfig, logger *logging.Logger) *KafkaPublisher {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.OrdersTopic,
		Balancer:     &kafka.LeastBytes{},
		WriteTimeout: 10 * time.Second,
		RequiredAcks: kafka.RequireOne,
	}

	return &KafkaPublisher{
		writer: writer,
		logger: logger,
	}
}

// PublishOrderPlaced publishes an order placed event. Failures are the
// caller's to log; the order itself is already committed.
func (p *KafkaPublisher) PublishOrderPlaced(ctx context.Context, order *models.Order) error {
	data, err := json.Marshal(order)
	if err != nil {
		return err
	}

	event := OrderEvent{
		ID:        uuid.NewString(),
		Type:      EventTypeOrderPlaced,
		OrderID:   order.ID,
		UserID:    order.UserID,
		Data:      data,
		Timestamp: time.Now().UTC(),
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	err = p.writer.WriteMessages(ctx, kafka.Message{
		// Key by user so one user's order events stay ordered.
		Key:   []byte(strconv.FormatInt(order.UserID, 10)),
		Value: payload,
	})
	if err != nil {
		return err
	}

	p.logger.Debug("Order event published", logging.Fields{
		"event_id": event.ID,
		"order_id": order.ID,
		"type":     string(event.Type),
	})
	return nil
}

// Close flushes and closes the underlying writer.
func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}
