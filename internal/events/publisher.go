// Package events publishes booking and wallet domain events to a RabbitMQ
// topic exchange. Publishing is best effort: callers log failures and carry on.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/shopspring/decimal"
)

const (
	BookingConfirmed       = "booking.confirmed"
	BookingCancelled       = "booking.cancelled"
	BookingRescheduled     = "booking.rescheduled"
	CancellationRequested  = "booking.cancellation.requested"
	CancellationVerified   = "booking.cancellation.verified"
	CancellationRejected   = "booking.cancellation.rejected"
	ParticipantInvited     = "booking.participant.invited"
	WalletTransactionAdded = "wallet.transaction.added"
)

type Publisher interface {
	Publish(ctx context.Context, key string, payload any) error
	Close() error
}

type BookingEvent struct {
	BookingID  int64           `json:"booking_id"`
	UserID     int64           `json:"user_id"`
	CourtID    int64           `json:"court_id"`
	Status     string          `json:"status"`
	StartTime  time.Time       `json:"start_time"`
	EndTime    time.Time       `json:"end_time"`
	TotalPrice decimal.Decimal `json:"total_price"`
	// RefundAmount is set on verified cancellations.
	RefundAmount *decimal.Decimal `json:"refund_amount,omitempty"`
	OccurredAt   time.Time        `json:"occurred_at"`
}

type WalletEvent struct {
	WalletID   int64           `json:"wallet_id"`
	UserID     int64           `json:"user_id"`
	BookingID  *int64          `json:"booking_id,omitempty"`
	Type       string          `json:"type"`
	Amount     decimal.Decimal `json:"amount"`
	Balance    decimal.Decimal `json:"balance"`
	OccurredAt time.Time       `json:"occurred_at"`
}

// AMQPPublisher publishes JSON messages to a durable topic exchange.
type AMQPPublisher struct {
	conn     *amqp.Connection
	ch       *amqp.Channel
	exchange string
	mu       sync.Mutex
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

func (p *AMQPPublisher) Publish(ctx context.Context, key string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal %s event: %w", key, err)
	}
	// amqp channels are not safe for concurrent publishes.
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.ch.PublishWithContext(ctx, p.exchange, key, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	})
}

func (p *AMQPPublisher) Close() error {
	if p.ch != nil {
		_ = p.ch.Close()
	}
	if p.conn != nil {
		return p.conn.Close()
	}
	return nil
}

// Nop discards every event.
type Nop struct{}

func (Nop) Publish(context.Context, string, any) error { return nil }
func (Nop) Close() error                               { return nil }

// Recorder keeps published events in memory.
type Recorder struct {
	mu     sync.Mutex
	Events []Recorded
}

type Recorded struct {
	Key     string
	Payload any
}

func (r *Recorder) Publish(_ context.Context, key string, payload any) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Events = append(r.Events, Recorded{Key: key, Payload: payload})
	return nil
}

func (r *Recorder) Close() error { return nil }

// Keys returns the routing keys published so far, in order.
func (r *Recorder) Keys() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	keys := make([]string, 0, len(r.Events))
	for _, e := range r.Events {
		keys = append(keys, e.Key)
	}
	return keys
}
