package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Status is the closed set of order statuses. Any status may be set from any
// other by the restaurant owner; delivered and cancelled are terminal only by
// convention.
type Status string

const (
	StatusReceived  Status = "received"
	StatusPreparing Status = "preparing"
	StatusReady     Status = "ready"
	StatusDelivered Status = "delivered"
	StatusCancelled Status = "cancelled"
)

// AllStatuses lists the allowed values in lifecycle order.
var AllStatuses = []Status{StatusReceived, StatusPreparing, StatusReady, StatusDelivered, StatusCancelled}

// ParseStatus validates a status string against the closed set.
func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusReceived, StatusPreparing, StatusReady, StatusDelivered, StatusCancelled:
		return Status(s), nil
	default:
		return "", Validationf("Status must be one of %s", statusList())
	}
}

func statusList() string {
	names := make([]string, len(AllStatuses))
	for i, s := range AllStatuses {
		names[i] = string(s)
	}
	return strings.Join(names, ", ")
}

// Order represents a placed order. Status is the only field that changes
// after creation; orders are never deleted.
type Order struct {
	ID           int
	UserID       int
	RestaurantID int
	Status       Status
	TotalPrice   decimal.Decimal
	Items        []OrderItem
	CreatedAt    time.Time
}

// OrderItem is a line of an order. UnitPrice is a snapshot of the menu price
// at the moment the order was placed and never changes afterwards.
type OrderItem struct {
	ID        int
	OrderID   int
	MenuID    int
	Quantity  int
	UnitPrice decimal.Decimal
}

// LinePrice returns unit price times quantity.
func (i OrderItem) LinePrice() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// ComputeTotal sums the line prices of the given items.
func ComputeTotal(items []OrderItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.LinePrice())
	}
	return total
}

// StatusLog is an append-only record of an order status change.
type StatusLog struct {
	ID        int
	OrderID   int
	Status    Status
	ChangedBy int
	ChangedAt time.Time
}
