package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"academy-api/config"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	BookingCreated   = "booking.created"
	BookingConfirmed = "booking.confirmed"
	BookingRejected  = "booking.rejected"
	SessionUpdated   = "booking.session.updated"
)

// Envelope is the JSON body of every published message.
type Envelope struct {
	ID         string    `json:"id"`
	Type       string    `json:"type"`
	OccurredAt time.Time `json:"occurred_at"`
	Data       any       `json:"data"`
}

func NewEnvelope(key string, data any) Envelope {
	return Envelope{ID: uuid.NewString(), Type: key, OccurredAt: time.Now().UTC(), Data: data}
}

type Publisher interface {
	Publish(ctx context.Context, key string, data any) error
}

// Noop drops every event. It is used when RabbitMQ is not configured.
type Noop struct{}

func (Noop) Publish(ctx context.Context, key string, data any) error { return nil }

// AMQPPublisher publishes persistent JSON messages to a topic exchange.
type AMQPPublisher struct {
	mu       sync.Mutex
	conn     *amqp.Connection
	ch       *amqp.Channel
	exchange string
}

func NewAMQPPublisher(url, exchange string) (*AMQPPublisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial rabbitmq: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}
	if err := ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("declare exchange: %w", err)
	}
	return &AMQPPublisher{conn: conn, ch: ch, exchange: exchange}, nil
}

func (p *AMQPPublisher) Publish(ctx context.Context, key string, data any) error {
	env := NewEnvelope(key, data)
	body, err := json.Marshal(env)
	if err != nil {
		return err
	}

	// channels are not safe for concurrent publishing
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.ch.PublishWithContext(ctx, p.exchange, key, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    env.ID,
		Timestamp:    env.OccurredAt,
		Type:         key,
		Body:         body,
	})
}

func (p *AMQPPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.ch != nil {
		_ = p.ch.Close()
	}
	if p.conn != nil {
		return p.conn.Close()
	}
	return nil
}

// NewPublisher returns an AMQP publisher, or Noop when RABBITMQ_URL is unset
// or the broker cannot be reached. The returned func closes the connection.
func NewPublisher(cfg config.Config) (Publisher, func()) {
	if cfg.RabbitMQURL == "" {
		return Noop{}, func() {}
	}
	p, err := NewAMQPPublisher(cfg.RabbitMQURL, cfg.EventsExchange)
	if err != nil {
		log.Printf("events: %v; publishing disabled", err)
		return Noop{}, func() {}
	}
	return p, func() { _ = p.Close() }
}

// Emit publishes and logs a failure instead of returning it.
func Emit(ctx context.Context, p Publisher, key string, data any) {
	if p == nil {
		return
	}
	if err := p.Publish(ctx, key, data); err != nil {
		log.Printf("events: publish %s failed: %v", key, err)
	}
}
