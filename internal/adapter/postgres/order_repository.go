package postgres

import (
	"context"
	"errors"
	"fmt"

	"flavorfi/internal/domain"
	"flavorfi/internal/interfaces"

	"github.com/jackc/pgx/v5"
)

type orderRepository struct {
	db DB
}

func NewOrderRepository(db DB) interfaces.OrderRepository {
	return &orderRepository{db: db}
}

// Create inserts the order, its line items and the initial status log row in
// one transaction. An order must never exist with zero or partial line items.
func (r *orderRepository) Create(ctx context.Context, order *domain.Order) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO orders (user_id, restaurant_id, status, total_price)
		VALUES ($1, $2, $3, $4)
		RETURNING order_id, created_at
	`
	err = tx.QueryRow(ctx, query,
		order.UserID, order.RestaurantID, order.Status, order.TotalPrice,
	).Scan(&order.ID, &order.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert order: %w", err)
	}

	itemQuery := `
		INSERT INTO order_items (order_id, menu_id, quantity, unit_price)
		VALUES ($1, $2, $3, $4)
		RETURNING order_item_id
	`
	for i := range order.Items {
		err = tx.QueryRow(ctx, itemQuery,
			order.ID, order.Items[i].MenuID, order.Items[i].Quantity, order.Items[i].UnitPrice,
		).Scan(&order.Items[i].ID)
		if err != nil {
			return fmt.Errorf("failed to insert order item: %w", err)
		}
		order.Items[i].OrderID = order.ID
	}

	logQuery := `
		INSERT INTO order_status_log (order_id, status, changed_by)
		VALUES ($1, $2, $3)
	`
	if _, err := tx.Exec(ctx, logQuery, order.ID, order.Status, order.UserID); err != nil {
		return fmt.Errorf("failed to log status: %w", err)
	}

	return tx.Commit(ctx)
}

func (r *orderRepository) FindByID(ctx context.Context, id int) (*domain.Order, error) {
	query := `
		SELECT order_id, user_id, restaurant_id, status, total_price, created_at
		FROM orders
		WHERE order_id = $1
	`

	var order domain.Order
	err := r.db.QueryRow(ctx, query, id).Scan(
		&order.ID, &order.UserID, &order.RestaurantID, &order.Status, &order.TotalPrice, &order.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.NotFoundf("Order not found")
		}
		return nil, fmt.Errorf("failed to scan order: %w", err)
	}
	return &order, nil
}

func (r *orderRepository) ListByUser(ctx context.Context, userID int) ([]*domain.Order, error) {
	query := `
		SELECT order_id, user_id, restaurant_id, status, total_price, created_at
		FROM orders
		WHERE user_id = $1
		ORDER BY order_id
	`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}
	defer rows.Close()

	var orders []*domain.Order
	for rows.Next() {
		var order domain.Order
		err := rows.Scan(&order.ID, &order.UserID, &order.RestaurantID, &order.Status, &order.TotalPrice, &order.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		orders = append(orders, &order)
	}
	return orders, rows.Err()
}

func (r *orderRepository) ListItemsByOrder(ctx context.Context, orderID int) ([]domain.OrderItem, error) {
	query := `
		SELECT order_item_id, order_id, menu_id, quantity, unit_price
		FROM order_items
		WHERE order_id = $1
		ORDER BY order_item_id
	`

	rows, err := r.db.Query(ctx, query, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to query order items: %w", err)
	}
	defer rows.Close()

	var items []domain.OrderItem
	for rows.Next() {
		var item domain.OrderItem
		if err := rows.Scan(&item.ID, &item.OrderID, &item.MenuID, &item.Quantity, &item.UnitPrice); err != nil {
			return nil, fmt.Errorf("failed to scan order item: %w", err)
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// UpdateStatus sets the new status and appends a status log row in one
// transaction.
func (r *orderRepository) UpdateStatus(ctx context.Context, orderID int, status domain.Status, changedBy int) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, `UPDATE orders SET status = $1 WHERE order_id = $2`, status, orderID)
	if err != nil {
		return fmt.Errorf("failed to update order: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.NotFoundf("Order not found")
	}

	logQuery := `
		INSERT INTO order_status_log (order_id, status, changed_by)
		VALUES ($1, $2, $3)
	`
	if _, err := tx.Exec(ctx, logQuery, orderID, status, changedBy); err != nil {
		return fmt.Errorf("failed to log status: %w", err)
	}

	return tx.Commit(ctx)
}

func (r *orderRepository) StatusHistory(ctx context.Context, orderID int) ([]*domain.StatusLog, error) {
	query := `
		SELECT log_id, order_id, status, changed_by, changed_at
		FROM order_status_log
		WHERE order_id = $1
		ORDER BY changed_at ASC
	`

	rows, err := r.db.Query(ctx, query, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to query status history: %w", err)
	}
	defer rows.Close()

	var logs []*domain.StatusLog
	for rows.Next() {
		var log domain.StatusLog
		if err := rows.Scan(&log.ID, &log.OrderID, &log.Status, &log.ChangedBy, &log.ChangedAt); err != nil {
			return nil, fmt.Errorf("failed to scan status log: %w", err)
		}
		logs = append(logs, &log)
	}
	return logs, rows.Err()
}
