package order

import (
	"context"
	"errors"
	"fmt"
	"time"

	"flavorfi/internal/adapter/logger"
	"flavorfi/internal/domain"
	"flavorfi/internal/interfaces"
	"flavorfi/internal/metrics"
)

// Service implements the order engine: validation against the catalog,
// server-side pricing, atomic persistence and ownership-gated transitions.
type Service struct {
	orders    interfaces.OrderRepository
	catalog   interfaces.CatalogRepository
	publisher interfaces.EventPublisher
	metrics   *metrics.Metrics
	logger    logger.Logger
}

func NewService(
	orders interfaces.OrderRepository,
	catalog interfaces.CatalogRepository,
	publisher interfaces.EventPublisher,
	m *metrics.Metrics,
	logger logger.Logger,
) *Service {
	return &Service{
		orders:    orders,
		catalog:   catalog,
		publisher: publisher,
		metrics:   m,
		logger:    logger,
	}
}

// CreateOrder validates the request against the current catalog state, prices
// it from menu data only, and persists the order with all of its line items
// atomically. Validation is fail-fast; nothing is written on any failure.
//
// Duplicate menu ids in the request stay separate lines, quantities are never
// merged. The catalog is re-read on every call so price and availability
// always reflect the latest value the owner has set.
func (s *Service) CreateOrder(ctx context.Context, caller interfaces.Identity, cmd interfaces.CreateOrderCommand) (*domain.Order, error) {
	if cmd.RestaurantID == 0 || len(cmd.Items) == 0 {
		return nil, domain.Validationf("restaurant_id and items are required")
	}

	restaurant, err := s.catalog.FindRestaurantByID(ctx, cmd.RestaurantID)
	if err != nil {
		return nil, err
	}

	// One batch lookup scoped to the restaurant. Items deleted between
	// per-item checks can't slip through, and cross-restaurant ids are
	// simply absent from the result.
	ids := make([]int, 0, len(cmd.Items))
	for _, line := range cmd.Items {
		ids = append(ids, line.MenuID)
	}
	menus, err := s.catalog.FindMenuItemsByIDsForRestaurant(ctx, ids, restaurant.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve menu items: %w", err)
	}

	items := make([]domain.OrderItem, 0, len(cmd.Items))
	for _, line := range cmd.Items {
		if line.MenuID <= 0 || line.Quantity == 0 {
			return nil, domain.Validationf("Each item must have menu_id and quantity")
		}
		if line.Quantity < 0 {
			return nil, domain.Validationf("Quantity must be a positive integer")
		}

		menu, ok := menus[line.MenuID]
		if !ok {
			return nil, domain.NotFoundf("Menu item %d not found in this restaurant", line.MenuID)
		}
		if !menu.Available {
			return nil, domain.Validationf("Menu item %s is not available", menu.Name)
		}

		items = append(items, domain.OrderItem{
			MenuID:    line.MenuID,
			Quantity:  line.Quantity,
			UnitPrice: menu.Price,
		})
	}

	order := &domain.Order{
		UserID:       caller.UserID,
		RestaurantID: restaurant.ID,
		Status:       domain.StatusReceived,
		TotalPrice:   domain.ComputeTotal(items),
		Items:        items,
	}

	if err := s.orders.Create(ctx, order); err != nil {
		s.logger.Error("order_create_failed", "Failed to persist order", "", nil, err)
		return nil, err
	}
	s.metrics.OrdersCreated.Inc()

	s.logger.Debug("order_created", "Order created", "", map[string]interface{}{
		"order_id":      order.ID,
		"restaurant_id": order.RestaurantID,
	})

	totalPrice, _ := order.TotalPrice.Float64()
	s.publishEvent(ctx, func() error {
		return s.publisher.PublishOrderCreated(ctx, interfaces.OrderCreatedEvent{
			OrderID:      order.ID,
			UserID:       order.UserID,
			RestaurantID: order.RestaurantID,
			TotalPrice:   totalPrice,
			ItemCount:    len(order.Items),
			Status:       order.Status,
			Timestamp:    time.Now().UTC(),
		})
	})

	return order, nil
}

func (s *Service) ListUserOrders(ctx context.Context, caller interfaces.Identity) ([]*domain.Order, error) {
	return s.orders.ListByUser(ctx, caller.UserID)
}

// OrderDetails resolves each line's menu name with a best-effort lookup. A
// menu deleted after the order was placed degrades the name to "unknown"
// instead of failing the request.
func (s *Service) OrderDetails(ctx context.Context, caller interfaces.Identity, orderID int) (*interfaces.OrderDetails, error) {
	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if err := s.authorizeView(ctx, caller, order); err != nil {
		return nil, err
	}

	lines, err := s.orders.ListItemsByOrder(ctx, order.ID)
	if err != nil {
		return nil, err
	}

	details := &interfaces.OrderDetails{Order: order}
	for _, line := range lines {
		name := "unknown"
		menu, err := s.catalog.FindMenuItemByID(ctx, line.MenuID)
		switch {
		case err == nil:
			name = menu.Name
		case !errors.Is(err, domain.ErrNotFound):
			return nil, err
		}

		unitPrice, _ := line.UnitPrice.Float64()
		details.Items = append(details.Items, interfaces.OrderDetailsItem{
			MenuID:    line.MenuID,
			MenuName:  name,
			Quantity:  line.Quantity,
			UnitPrice: unitPrice,
		})
	}
	return details, nil
}

func (s *Service) StatusHistory(ctx context.Context, caller interfaces.Identity, orderID int) ([]*domain.StatusLog, error) {
	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if err := s.authorizeView(ctx, caller, order); err != nil {
		return nil, err
	}
	return s.orders.StatusHistory(ctx, order.ID)
}

// UpdateStatus is a flat set-transition: any of the five statuses may be set
// regardless of the current one. Only the owner of the order's restaurant may
// call it.
func (s *Service) UpdateStatus(ctx context.Context, caller interfaces.Identity, orderID int, status string) (domain.Status, error) {
	if caller.Role != domain.RoleOwner {
		return "", domain.Authorizationf("Only owners can update order status")
	}

	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return "", err
	}

	restaurant, err := s.catalog.FindRestaurantByID(ctx, order.RestaurantID)
	if err != nil {
		return "", err
	}
	if restaurant.OwnerID != caller.UserID {
		return "", domain.Authorizationf("Not authorized to update this order")
	}

	newStatus, err := domain.ParseStatus(status)
	if err != nil {
		return "", err
	}

	if err := s.orders.UpdateStatus(ctx, order.ID, newStatus, caller.UserID); err != nil {
		s.logger.Error("status_update_failed", "Failed to update order status", "", nil, err)
		return "", err
	}
	s.metrics.OrderStatusUpdates.WithLabelValues(string(newStatus)).Inc()

	s.publishEvent(ctx, func() error {
		return s.publisher.PublishStatusChanged(ctx, interfaces.StatusChangedEvent{
			OrderID:      order.ID,
			RestaurantID: order.RestaurantID,
			OldStatus:    order.Status,
			NewStatus:    newStatus,
			ChangedBy:    caller.UserID,
			Timestamp:    time.Now().UTC(),
		})
	})

	return newStatus, nil
}

// authorizeView permits exactly two parties: the placing user and the owner
// of the order's restaurant.
func (s *Service) authorizeView(ctx context.Context, caller interfaces.Identity, order *domain.Order) error {
	if order.UserID == caller.UserID {
		return nil
	}

	restaurant, err := s.catalog.FindRestaurantByID(ctx, order.RestaurantID)
	if err == nil && restaurant.OwnerID == caller.UserID {
		return nil
	}
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return err
	}
	return domain.Authorizationf("Not authorized to view this order")
}

// publishEvent sends to the events feed best-effort; a broker failure is
// logged and never surfaces to the caller.
func (s *Service) publishEvent(_ context.Context, publish func() error) {
	if err := publish(); err != nil {
		s.logger.Error("event_publish_failed", "Failed to publish order event", "", nil, err)
	}
}

var _ interfaces.OrderService = (*Service)(nil)
