// Package notifier доставляет события об изменении ответов во внешнюю
// шину сообщений.
package notifier

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/rabbitmq/amqp091-go"

	"telegram-reply-tracker/internal/domain"
	"telegram-reply-tracker/internal/ports"
)

const (
	// RoutingKeyReplyChanged — ключ маршрутизации события об изменении ответа.
	RoutingKeyReplyChanged = "reply.changed"
	// EventTypeReplyChanged — имя и версия события.
	EventTypeReplyChanged = "reply.changed.v1"

	producer = "telegram-reply-tracker"
)

// Meta — служебные поля события.
type Meta struct {
	CorrelationID *string   `json:"correlation_id,omitempty"`
	ID            string    `json:"id"`
	Producer      *string   `json:"producer,omitempty"`
	Time          time.Time `json:"time"`
	Type          string    `json:"type"`
}

// Envelope — конверт события в шине.
type Envelope struct {
	Meta Meta `json:"meta"`
	Data any  `json:"data"`
}

// AMQPNotifier публикует события в topic-обменник RabbitMQ.
type AMQPNotifier struct {
	conn     *amqp091.Connection
	exchange string
	log      *slog.Logger
}

// NewAMQPNotifier подключается к брокеру и объявляет обменник.
func NewAMQPNotifier(url, exchange string, logger *slog.Logger) (*AMQPNotifier, error) {
	if logger == nil {
		logger = slog.Default()
	}
	conn, err := amqp091.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to broker: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}
	defer ch.Close()
	if err := ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to declare exchange %q: %w", exchange, err)
	}

	return &AMQPNotifier{
		conn:     conn,
		exchange: exchange,
		log:      logger,
	}, nil
}

// NewEnvelope заворачивает событие в конверт с уникальным идентификатором.
func NewEnvelope(event domain.ReplyChangedEvent) Envelope {
	name := producer
	meta := Meta{
		ID:       uuid.NewString(),
		Producer: &name,
		Time:     event.DetectedAt,
		Type:     EventTypeReplyChanged,
	}
	if event.TraceID != "" {
		traceID := event.TraceID
		meta.CorrelationID = &traceID
	}
	return Envelope{Meta: meta, Data: event}
}

// NewPublishing сериализует конверт в сообщение AMQP.
func NewPublishing(env Envelope) (amqp091.Publishing, error) {
	body, err := json.Marshal(env)
	if err != nil {
		return amqp091.Publishing{}, fmt.Errorf("failed to marshal envelope: %w", err)
	}
	correlationID := env.Meta.ID
	if env.Meta.CorrelationID != nil {
		correlationID = *env.Meta.CorrelationID
	}
	return amqp091.Publishing{
		ContentType:   "application/json",
		DeliveryMode:  amqp091.Persistent,
		MessageId:     env.Meta.ID,
		CorrelationId: correlationID,
		Timestamp:     env.Meta.Time,
		Type:          env.Meta.Type,
		Body:          body,
	}, nil
}

// NotifyReplyChanged реализует ports.ChangeNotifier.
func (n *AMQPNotifier) NotifyReplyChanged(ctx context.Context, event domain.ReplyChangedEvent) error {
	env := NewEnvelope(event)
	msg, err := NewPublishing(env)
	if err != nil {
		return err
	}

	ch, err := n.conn.Channel()
	if err != nil {
		return fmt.Errorf("failed to open channel: %w", err)
	}
	defer ch.Close()

	if err := ch.PublishWithContext(ctx, n.exchange, RoutingKeyReplyChanged, false, false, msg); err != nil {
		return fmt.Errorf("failed to publish %s: %w", env.Meta.ID, err)
	}
	n.log.Info("Published reply change", "id", env.Meta.ID, "owner", event.Owner.String(), "exchange", n.exchange)
	return nil
}

// Close закрывает соединение с брокером.
func (n *AMQPNotifier) Close() error {
	return n.conn.Close()
}

var _ ports.ChangeNotifier = (*AMQPNotifier)(nil)
