// Package notify publishes threshold alerts to an AMQP broker so external
// systems can react without polling the dashboard API.
package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"

	"resource-tracker/internal/model"
)

// Publisher delivers alert batches to a durable AMQP queue.
type Publisher struct {
	url    string
	queue  string
	logger zerolog.Logger

	mu       sync.Mutex
	conn     *amqp.Connection
	channel  *amqp.Channel
	isClosed bool
}

// NewPublisher creates a Publisher for the given broker URL and queue.
// Connect must be called before publishing.
func NewPublisher(url, queue string, logger zerolog.Logger) *Publisher {
	if queue == "" {
		queue = "resource.alerts"
	}
	return &Publisher{
		url:    url,
		queue:  queue,
		logger: logger.With().Str("component", "notify").Logger(),
	}
}

// Connect establishes the broker connection and declares the queue.
// Calling Connect on an already-connected publisher is a no-op.
func (p *Publisher) Connect(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.isClosed {
		return fmt.Errorf("publisher is closed")
	}

	if p.conn != nil {
		return nil // Already connected
	}

	conn, err := amqp.Dial(p.url)
	if err != nil {
		return fmt.Errorf("failed to connect to broker: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return fmt.Errorf("failed to open channel: %w", err)
	}

	_, err = ch.QueueDeclare(
		p.queue, // name
		true,    // durable
		false,   // auto-delete
		false,   // exclusive
		false,   // no-wait
		nil,     // arguments
	)
	if err != nil {
		ch.Close()
		conn.Close()
		return fmt.Errorf("failed to declare queue: %w", err)
	}

	p.conn = conn
	p.channel = ch
	p.logger.Info().Str("queue", p.queue).Msg("connected to alert broker")
	return nil
}

// alertBatch is the wire format for one published evaluation round.
type alertBatch struct {
	GeneratedAt time.Time          `json:"generated_at"`
	Summary     *model.AlertSummary `json:"summary"`
	Alerts      []model.Alert      `json:"alerts"`
}

// PublishAlerts sends one evaluation round as a single JSON message.
// Empty rounds are skipped.
func (p *Publisher) PublishAlerts(ctx context.Context, alerts []model.Alert) error {
	if len(alerts) == 0 {
		return nil
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.isClosed {
		return fmt.Errorf("publisher is closed")
	}

	if p.channel == nil {
		return fmt.Errorf("not connected: call Connect() first")
	}

	body, err := json.Marshal(alertBatch{
		GeneratedAt: time.Now(),
		Summary:     model.NewAlertSummary(alerts),
		Alerts:      alerts,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal alert batch: %w", err)
	}

	err = p.channel.PublishWithContext(
		ctx,
		"",      // exchange (default)
		p.queue, // routing key
		false,   // mandatory
		false,   // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Body:         body,
		},
	)
	if err != nil {
		return fmt.Errorf("failed to publish alert batch: %w", err)
	}

	p.logger.Info().Int("alerts", len(alerts)).Msg("alert batch published")
	return nil
}

// Close closes the broker connection and channel.
func (p *Publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.isClosed {
		return nil
	}

	var errs []error

	if p.channel != nil {
		if err := p.channel.Close(); err != nil {
			errs = append(errs, err)
		}
	}

	if p.conn != nil {
		if err := p.conn.Close(); err != nil {
			errs = append(errs, err)
		}
	}

	p.isClosed = true

	if len(errs) > 0 {
		return fmt.Errorf("errors during close: %v", errs)
	}

	return nil
}
