package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"

	"flavorfi/internal/interfaces"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Exchange and routing keys for the order events feed.
const (
	EventsExchange       = "order_events"
	RoutingOrderCreated  = "order.created"
	RoutingStatusChanged = "order.status_changed"
)

type publisher struct {
	conn Connection
}

func NewPublisher(conn Connection) interfaces.EventPublisher {
	return &publisher{conn: conn}
}

func (p *publisher) PublishOrderCreated(ctx context.Context, event interfaces.OrderCreatedEvent) error {
	return p.publish(RoutingOrderCreated, event)
}

func (p *publisher) PublishStatusChanged(ctx context.Context, event interfaces.StatusChangedEvent) error {
	return p.publish(RoutingStatusChanged, event)
}

func (p *publisher) publish(routingKey string, event any) error {
	ch, err := p.conn.Channel()
	if err != nil {
		return fmt.Errorf("failed to open channel: %w", err)
	}
	defer ch.Close()

	if err := ch.ExchangeDeclare(EventsExchange, "topic", true, false, false, false, nil); err != nil {
		return fmt.Errorf("failed to declare exchange: %w", err)
	}

	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	err = ch.Publish(EventsExchange, routingKey, false, false, amqp.Publishing{
		DeliveryMode: amqp.Persistent,
		ContentType:  "application/json",
		Type:         routingKey,
		Body:         body,
	})
	if err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}

	return nil
}
