package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/Rozana-IM/Focusbubble-FrontBackend/internal/config"
	"github.com/Rozana-IM/Focusbubble-FrontBackend/internal/models"
	"github.com/Rozana-IM/Focusbubble-FrontBackend/pkg/logger"
)

// BlockedAppBindingKey matches every blocked app routing key.
const BlockedAppBindingKey = "blocked_app.#"

var (
	ErrPublisherClosed = errors.New("publisher channel is not open")
	ErrPublishNacked   = errors.New("message was not acknowledged by broker")
	ErrConfirmTimeout  = errors.New("timeout waiting for publish confirmation")
)

// ChangePublisher notifies downstream consumers about blocked app changes.
type ChangePublisher interface {
	Publish(ctx context.Context, event *models.BlockedAppEvent) error
	IsHealthy() bool
	Close() error
}

// RabbitMQPublisher publishes change events to a topic exchange with
// publisher confirms. Each publish waits on the confirmation for its own
// delivery tag, so a late ack never answers a later message.
type RabbitMQPublisher struct {
	conn    *amqp.Connection
	channel *amqp.Channel
	config  config.RabbitMQConfig
	mu      sync.RWMutex
}

// NewRabbitMQPublisher dials the broker and declares the exchange, plus the
// queue when one is configured.
func NewRabbitMQPublisher(cfg config.RabbitMQConfig) (*RabbitMQPublisher, error) {
	if cfg.ConfirmTimeout <= 0 {
		cfg.ConfirmTimeout = 5 * time.Second
	}

	p := &RabbitMQPublisher{config: cfg}
	if err := p.connect(); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *RabbitMQPublisher) connect() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	conn, err := amqp.Dial(p.config.URL)
	if err != nil {
		return fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		return multierr.Append(fmt.Errorf("failed to open channel: %w", err), conn.Close())
	}

	fail := func(err error) error {
		return multierr.Combine(err, ch.Close(), conn.Close())
	}

	if err := ch.Confirm(false); err != nil {
		return fail(fmt.Errorf("failed to enable publisher confirms: %w", err))
	}

	if err := ch.ExchangeDeclare(
		p.config.Exchange, // name
		"topic",           // type
		true,              // durable
		false,             // auto-deleted
		false,             // internal
		false,             // no-wait
		nil,               // arguments
	); err != nil {
		return fail(fmt.Errorf("failed to declare exchange: %w", err))
	}

	if p.config.Queue != "" {
		if _, err := ch.QueueDeclare(
			p.config.Queue, // name
			true,           // durable
			false,          // delete when unused
			false,          // exclusive
			false,          // no-wait
			nil,            // arguments
		); err != nil {
			return fail(fmt.Errorf("failed to declare queue: %w", err))
		}

		if err := ch.QueueBind(p.config.Queue, BlockedAppBindingKey, p.config.Exchange, false, nil); err != nil {
			return fail(fmt.Errorf("failed to bind queue: %w", err))
		}
	}

	p.conn = conn
	p.channel = ch

	logger.Log.Info("Connected to RabbitMQ",
		zap.String("exchange", p.config.Exchange),
		zap.String("queue", p.config.Queue),
	)

	return nil
}

// Publish sends event with the event type as routing key and waits for the
// broker to confirm it.
func (p *RabbitMQPublisher) Publish(ctx context.Context, event *models.BlockedAppEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.channel == nil || p.channel.IsClosed() {
		return ErrPublisherClosed
	}

	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	confirmation, err := p.channel.PublishWithDeferredConfirmWithContext(
		ctx,
		p.config.Exchange, // exchange
		event.Type,        // routing key
		false,             // mandatory
		false,             // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
			Timestamp:    event.OccurredAt,
			MessageId:    event.EventID.String(),
			Type:         event.Type,
		},
	)
	if err != nil {
		return fmt.Errorf("failed to publish message: %w", err)
	}

	if confirmation == nil {
		return ErrPublisherClosed
	}

	waitCtx, cancel := context.WithTimeout(ctx, p.config.ConfirmTimeout)
	defer cancel()

	acked, err := confirmation.WaitContext(waitCtx)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil {
			return ErrConfirmTimeout
		}
		return err
	}
	if !acked {
		return ErrPublishNacked
	}

	logger.Log.Debug("Published event to RabbitMQ",
		zap.String("eventId", event.EventID.String()),
		zap.String("routingKey", event.Type),
	)

	return nil
}

// IsHealthy reports whether the connection and channel are open.
func (p *RabbitMQPublisher) IsHealthy() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()

	return p.conn != nil && !p.conn.IsClosed() && p.channel != nil && !p.channel.IsClosed()
}

// Close closes the channel and the connection.
func (p *RabbitMQPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	var err error
	if p.channel != nil && !p.channel.IsClosed() {
		err = multierr.Append(err, p.channel.Close())
	}
	if p.conn != nil && !p.conn.IsClosed() {
		err = multierr.Append(err, p.conn.Close())
	}
	p.channel = nil

	if err != nil {
		return fmt.Errorf("errors closing publisher: %w", err)
	}

	logger.Log.Info("RabbitMQ publisher closed")
	return nil
}

// NoopPublisher drops every event. It is used when RabbitMQ is disabled.
type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, *models.BlockedAppEvent) error { return nil }
func (NoopPublisher) IsHealthy() bool                                       { return true }
func (NoopPublisher) Close() error                                          { return nil }
