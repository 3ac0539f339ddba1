package postgres

import (
	"context"
	"fmt"
)

// Schema bootstrap. Statements are idempotent so startup can run them every
// time.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		user_id SERIAL PRIMARY KEY,
		name VARCHAR(100) NOT NULL,
		email VARCHAR(100) NOT NULL UNIQUE,
		password_hash VARCHAR(255) NOT NULL,
		role VARCHAR(20) NOT NULL DEFAULT 'customer'
	)`,
	`CREATE TABLE IF NOT EXISTS restaurants (
		restaurant_id SERIAL PRIMARY KEY,
		owner_id INT NOT NULL REFERENCES users(user_id),
		name VARCHAR(100) NOT NULL,
		address VARCHAR(255) NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS menu_items (
		menu_id SERIAL PRIMARY KEY,
		restaurant_id INT NOT NULL REFERENCES restaurants(restaurant_id),
		name VARCHAR(100) NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		price NUMERIC(10,2) NOT NULL,
		available BOOLEAN NOT NULL DEFAULT TRUE
	)`,
	`CREATE TABLE IF NOT EXISTS orders (
		order_id SERIAL PRIMARY KEY,
		user_id INT NOT NULL REFERENCES users(user_id),
		restaurant_id INT NOT NULL REFERENCES restaurants(restaurant_id),
		status VARCHAR(20) NOT NULL DEFAULT 'received',
		total_price NUMERIC(10,2) NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS order_items (
		order_item_id SERIAL PRIMARY KEY,
		order_id INT NOT NULL REFERENCES orders(order_id),
		menu_id INT NOT NULL,
		quantity INT NOT NULL,
		unit_price NUMERIC(10,2) NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS order_status_log (
		log_id SERIAL PRIMARY KEY,
		order_id INT NOT NULL REFERENCES orders(order_id),
		status VARCHAR(20) NOT NULL,
		changed_by INT NOT NULL,
		changed_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_menu_items_restaurant ON menu_items(restaurant_id)`,
	`CREATE INDEX IF NOT EXISTS idx_orders_user ON orders(user_id)`,
	`CREATE INDEX IF NOT EXISTS idx_order_items_order ON order_items(order_id)`,
	`CREATE INDEX IF NOT EXISTS idx_order_status_log_order ON order_status_log(order_id)`,
}

// Migrate creates the schema if it does not exist yet.
func Migrate(ctx context.Context, db DB) error {
	for _, stmt := range schema {
		if _, err := db.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema statement: %w", err)
		}
	}
	return nil
}
