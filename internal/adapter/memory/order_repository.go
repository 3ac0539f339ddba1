package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"flavorfi/internal/domain"
	"flavorfi/internal/interfaces"
)

type orderRepository struct {
	mu         sync.RWMutex
	nextID     int
	nextItemID int
	nextLogID  int
	orders     map[int]domain.Order
	items      map[int][]domain.OrderItem
	logs       map[int][]domain.StatusLog
}

func NewOrderRepository() interfaces.OrderRepository {
	return &orderRepository{
		nextID:     1,
		nextItemID: 1,
		nextLogID:  1,
		orders:     make(map[int]domain.Order),
		items:      make(map[int][]domain.OrderItem),
		logs:       make(map[int][]domain.StatusLog),
	}
}

func (r *orderRepository) Create(_ context.Context, order *domain.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	order.ID = r.nextID
	r.nextID++
	order.CreatedAt = time.Now().UTC()

	for i := range order.Items {
		order.Items[i].ID = r.nextItemID
		r.nextItemID++
		order.Items[i].OrderID = order.ID
	}

	stored := *order
	stored.Items = nil
	r.orders[order.ID] = stored
	r.items[order.ID] = append([]domain.OrderItem(nil), order.Items...)
	r.appendLog(order.ID, order.Status, order.UserID)
	return nil
}

func (r *orderRepository) FindByID(_ context.Context, id int) (*domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	order, ok := r.orders[id]
	if !ok {
		return nil, domain.NotFoundf("Order not found")
	}
	o := order
	return &o, nil
}

func (r *orderRepository) ListByUser(_ context.Context, userID int) ([]*domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []*domain.Order
	for _, order := range r.orders {
		if order.UserID != userID {
			continue
		}
		o := order
		result = append(result, &o)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (r *orderRepository) ListItemsByOrder(_ context.Context, orderID int) ([]domain.OrderItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return append([]domain.OrderItem(nil), r.items[orderID]...), nil
}

func (r *orderRepository) UpdateStatus(_ context.Context, orderID int, status domain.Status, changedBy int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	order, ok := r.orders[orderID]
	if !ok {
		return domain.NotFoundf("Order not found")
	}
	order.Status = status
	r.orders[orderID] = order
	r.appendLog(orderID, status, changedBy)
	return nil
}

func (r *orderRepository) StatusHistory(_ context.Context, orderID int) ([]*domain.StatusLog, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	logs := r.logs[orderID]
	result := make([]*domain.StatusLog, len(logs))
	for i := range logs {
		log := logs[i]
		result[i] = &log
	}
	return result, nil
}

// appendLog requires r.mu to be held.
func (r *orderRepository) appendLog(orderID int, status domain.Status, changedBy int) {
	r.logs[orderID] = append(r.logs[orderID], domain.StatusLog{
		ID:        r.nextLogID,
		OrderID:   orderID,
		Status:    status,
		ChangedBy: changedBy,
		ChangedAt: time.Now().UTC(),
	})
	r.nextLogID++
}
