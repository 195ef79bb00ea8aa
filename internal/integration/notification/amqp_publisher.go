package notification

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/rabbitmq/amqp091-go"

	"github.com/rendiconti/backend/internal/application/adapter"
	"github.com/rendiconti/backend/internal/domain/entity"
	domainerror "github.com/rendiconti/backend/internal/domain/error"
)

const publishTimeout = 5 * time.Second

// channel is the subset of *amqp091.Channel used for publishing.
type channel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp091.Publishing) error
	Close() error
}

// AMQPPublisher publishes disposition events on a durable topic exchange.
type AMQPPublisher struct {
	conn     *amqp091.Connection
	channel  channel
	exchange string
	logger   *slog.Logger
}

// NewAMQPPublisher dials the broker and declares the topic exchange.
func NewAMQPPublisher(url, exchange string) (*AMQPPublisher, error) {
	conn, err := amqp091.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial AMQP: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	err = ch.ExchangeDeclare(
		exchange, // name
		"topic",  // type
		true,     // durable
		false,    // auto-deleted
		false,    // internal
		false,    // no-wait
		nil,      // arguments
	)
	if err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("declare exchange: %w", err)
	}

	publisher := newAMQPPublisher(ch, exchange)
	publisher.conn = conn
	return publisher, nil
}

func newAMQPPublisher(ch channel, exchange string) *AMQPPublisher {
	return &AMQPPublisher{
		channel:  ch,
		exchange: exchange,
		logger:   slog.With("component", "amqp_publisher", "exchange", exchange),
	}
}

// NotifyDisposition publishes the event as a persistent JSON message.
func (p *AMQPPublisher) NotifyDisposition(ctx context.Context, event entity.DispositionEvent) error {
	key, err := RoutingKey(event.State)
	if err != nil {
		return domainerror.NewEmailError(domainerror.ErrCodeEventPublishFailed, "unsupported disposition state", err)
	}

	body, err := NewDispositionMessage(event).ToJSON()
	if err != nil {
		return domainerror.NewEmailError(domainerror.ErrCodeEventPublishFailed, "failed to marshal disposition event", err)
	}

	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	err = p.channel.PublishWithContext(
		ctx,
		p.exchange, // exchange
		key,        // routing key
		false,      // mandatory
		false,      // immediate
		amqp091.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp091.Persistent,
			MessageId:    event.StatementID.String() + "." + string(event.State),
			Timestamp:    event.OccurredAt,
			Body:         body,
		},
	)
	if err != nil {
		return domainerror.NewEmailError(domainerror.ErrCodeEventPublishFailed, "failed to publish disposition event", err)
	}

	p.logger.InfoContext(ctx, "Published disposition event",
		"statement_id", event.StatementID,
		"routing_key", key,
	)
	return nil
}

// Close releases the channel and the connection.
func (p *AMQPPublisher) Close() error {
	if p.channel != nil {
		p.channel.Close()
	}
	if p.conn != nil {
		return p.conn.Close()
	}
	return nil
}

var _ adapter.DispositionNotifier = (*AMQPPublisher)(nil)
