// Package amqp contains handlers for messages arriving from RabbitMQ.
package amqp

import (
	"context"
	"encoding/json"

	"flavorfi/internal/adapter/logger"
)

// EventHandler consumes the order events feed and writes each event to the
// structured log, giving back-office tooling a tail of order activity.
type EventHandler struct {
	logger logger.Logger
}

func NewEventHandler(logger logger.Logger) *EventHandler {
	return &EventHandler{logger: logger}
}

func (h *EventHandler) HandleEvent(ctx context.Context, body []byte) error {
	var event map[string]interface{}
	if err := json.Unmarshal(body, &event); err != nil {
		h.logger.Error("event_malformed", "Failed to decode order event", "", nil, err)
		return err
	}

	h.logger.Info("order_event", "Order event received", "", event)
	return nil
}
