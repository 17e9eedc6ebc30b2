package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/journal_engine/internal/core/domain"
	"github.com/SscSPs/journal_engine/internal/middleware"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sony/gobreaker"
)

// Publisher is the subset of *amqp.Channel the notifier needs.
type Publisher interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

// BreakerOptions tunes the circuit breaker wrapped around the broker.
type BreakerOptions struct {
	ConsecutiveFailures uint32
	OpenTimeout         time.Duration
	PublishTimeout      time.Duration
}

// DefaultBreakerOptions trips after five straight failures and probes again after 30s.
func DefaultBreakerOptions() BreakerOptions {
	return BreakerOptions{
		ConsecutiveFailures: 5,
		OpenTimeout:         30 * time.Second,
		PublishTimeout:      3 * time.Second,
	}
}

// RabbitMQNotifier publishes entry events as JSON to a topic exchange, routed by event type.
type RabbitMQNotifier struct {
	publisher Publisher
	exchange  string
	breaker   *gobreaker.CircuitBreaker
	timeout   time.Duration
}

// NewRabbitMQNotifier wraps publisher with a circuit breaker. Once open, Notify fails
// fast with gobreaker.ErrOpenState instead of waiting on an unhealthy broker.
func NewRabbitMQNotifier(publisher Publisher, exchange string, opts BreakerOptions) *RabbitMQNotifier {
	def := DefaultBreakerOptions()
	if opts.ConsecutiveFailures == 0 {
		opts.ConsecutiveFailures = def.ConsecutiveFailures
	}
	if opts.OpenTimeout <= 0 {
		opts.OpenTimeout = def.OpenTimeout
	}
	if opts.PublishTimeout <= 0 {
		opts.PublishTimeout = def.PublishTimeout
	}

	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    "rabbitmq-" + exchange,
		Timeout: opts.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= opts.ConsecutiveFailures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			slog.Warn("event notifier circuit changed state",
				slog.String("breaker", name),
				slog.String("from", from.String()),
				slog.String("to", to.String()))
		},
	})

	return &RabbitMQNotifier{
		publisher: publisher,
		exchange:  exchange,
		breaker:   breaker,
		timeout:   opts.PublishTimeout,
	}
}

// Notify publishes one event. The routing key is the event type, e.g. journal.entry.posted.
func (n *RabbitMQNotifier) Notify(ctx context.Context, event domain.EntryEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to encode %s event: %w", event.Type, err)
	}

	msg := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    fmt.Sprintf("%s:%s", event.EntryID, event.Type),
		Timestamp:    event.OccurredAt,
		Type:         string(event.Type),
		Headers: amqp.Table{
			"workplace_id": event.WorkplaceID,
		},
		Body: body,
	}

	_, err = n.breaker.Execute(func() (any, error) {
		pubCtx, cancel := context.WithTimeout(ctx, n.timeout)
		defer cancel()
		return nil, n.publisher.PublishWithContext(pubCtx, n.exchange, string(event.Type), false, false, msg)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			middleware.GetLoggerFromCtx(ctx).Warn("event dropped, broker circuit open",
				slog.String("event", string(event.Type)), slog.String("entry_id", event.EntryID))
		}
		return fmt.Errorf("failed to publish %s event for entry %s: %w", event.Type, event.EntryID, err)
	}
	return nil
}

// State reports the breaker state, used by the health endpoint.
func (n *RabbitMQNotifier) State() string {
	return n.breaker.State().String()
}

// Connection owns the AMQP connection and the channel the notifier publishes on.
type Connection struct {
	conn    *amqp.Connection
	Channel *amqp.Channel
}

// Dial connects to the broker and declares the durable topic exchange.
func Dial(url, exchange string) (*Connection, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to rabbitmq: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("unable to open rabbitmq channel: %w", err)
	}
	if err := ch.ExchangeDeclare(exchange, amqp.ExchangeTopic, true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("unable to declare exchange %s: %w", exchange, err)
	}
	slog.Info("RabbitMQ connection established", "exchange", exchange)
	return &Connection{conn: conn, Channel: ch}, nil
}

// Close releases the channel and the connection.
func (c *Connection) Close() error {
	if c == nil {
		return nil
	}
	return errors.Join(c.Channel.Close(), c.conn.Close())
}
