package interfaces

import (
	"context"
	"time"

	"flavorfi/internal/domain"
)

// Events published to the order_events exchange. The feed is a back-office
// integration point; publishing is best-effort and never fails a request.

type OrderCreatedEvent struct {
	OrderID      int           `json:"order_id"`
	UserID       int           `json:"user_id"`
	RestaurantID int           `json:"restaurant_id"`
	TotalPrice   float64       `json:"total_price"`
	ItemCount    int           `json:"item_count"`
	Status       domain.Status `json:"status"`
	Timestamp    time.Time     `json:"timestamp"`
}

type StatusChangedEvent struct {
	OrderID      int           `json:"order_id"`
	RestaurantID int           `json:"restaurant_id"`
	OldStatus    domain.Status `json:"old_status"`
	NewStatus    domain.Status `json:"new_status"`
	ChangedBy    int           `json:"changed_by"`
	Timestamp    time.Time     `json:"timestamp"`
}

type EventPublisher interface {
	PublishOrderCreated(ctx context.Context, event OrderCreatedEvent) error
	PublishStatusChanged(ctx context.Context, event StatusChangedEvent) error
}

type EventConsumer interface {
	ConsumeEvents(ctx context.Context, handler EventHandler) error
}

type EventHandler func(ctx context.Context, body []byte) error
