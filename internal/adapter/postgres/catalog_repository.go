package postgres

import (
	"context"
	"errors"
	"fmt"

	"flavorfi/internal/domain"
	"flavorfi/internal/interfaces"

	"github.com/jackc/pgx/v5"
)

type catalogRepository struct {
	db DB
}

func NewCatalogRepository(db DB) interfaces.CatalogRepository {
	return &catalogRepository{db: db}
}

func (r *catalogRepository) CreateRestaurant(ctx context.Context, restaurant *domain.Restaurant) error {
	query := `
		INSERT INTO restaurants (owner_id, name, address)
		VALUES ($1, $2, $3)
		RETURNING restaurant_id
	`
	err := r.db.QueryRow(ctx, query, restaurant.OwnerID, restaurant.Name, restaurant.Address).Scan(&restaurant.ID)
	if err != nil {
		return fmt.Errorf("failed to insert restaurant: %w", err)
	}
	return nil
}

func (r *catalogRepository) FindRestaurantByID(ctx context.Context, id int) (*domain.Restaurant, error) {
	query := `SELECT restaurant_id, owner_id, name, address FROM restaurants WHERE restaurant_id = $1`

	var restaurant domain.Restaurant
	err := r.db.QueryRow(ctx, query, id).Scan(
		&restaurant.ID, &restaurant.OwnerID, &restaurant.Name, &restaurant.Address,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.NotFoundf("Restaurant not found")
		}
		return nil, fmt.Errorf("failed to scan restaurant: %w", err)
	}
	return &restaurant, nil
}

func (r *catalogRepository) ListRestaurants(ctx context.Context) ([]*domain.Restaurant, error) {
	query := `SELECT restaurant_id, owner_id, name, address FROM restaurants ORDER BY restaurant_id`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query restaurants: %w", err)
	}
	defer rows.Close()

	var restaurants []*domain.Restaurant
	for rows.Next() {
		var restaurant domain.Restaurant
		if err := rows.Scan(&restaurant.ID, &restaurant.OwnerID, &restaurant.Name, &restaurant.Address); err != nil {
			return nil, fmt.Errorf("failed to scan restaurant: %w", err)
		}
		restaurants = append(restaurants, &restaurant)
	}
	return restaurants, rows.Err()
}

func (r *catalogRepository) CreateMenuItem(ctx context.Context, item *domain.MenuItem) error {
	query := `
		INSERT INTO menu_items (restaurant_id, name, description, price, available)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING menu_id
	`
	err := r.db.QueryRow(ctx, query,
		item.RestaurantID, item.Name, item.Description, item.Price, item.Available,
	).Scan(&item.ID)
	if err != nil {
		return fmt.Errorf("failed to insert menu item: %w", err)
	}
	return nil
}

func (r *catalogRepository) FindMenuItemByID(ctx context.Context, id int) (*domain.MenuItem, error) {
	query := `
		SELECT menu_id, restaurant_id, name, description, price, available
		FROM menu_items
		WHERE menu_id = $1
	`

	var item domain.MenuItem
	err := r.db.QueryRow(ctx, query, id).Scan(
		&item.ID, &item.RestaurantID, &item.Name, &item.Description, &item.Price, &item.Available,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.NotFoundf("Menu item not found")
		}
		return nil, fmt.Errorf("failed to scan menu item: %w", err)
	}
	return &item, nil
}

func (r *catalogRepository) ListMenuItemsByRestaurant(ctx context.Context, restaurantID int) ([]*domain.MenuItem, error) {
	query := `
		SELECT menu_id, restaurant_id, name, description, price, available
		FROM menu_items
		WHERE restaurant_id = $1
		ORDER BY menu_id
	`

	rows, err := r.db.Query(ctx, query, restaurantID)
	if err != nil {
		return nil, fmt.Errorf("failed to query menu items: %w", err)
	}
	defer rows.Close()

	var items []*domain.MenuItem
	for rows.Next() {
		var item domain.MenuItem
		if err := rows.Scan(&item.ID, &item.RestaurantID, &item.Name, &item.Description, &item.Price, &item.Available); err != nil {
			return nil, fmt.Errorf("failed to scan menu item: %w", err)
		}
		items = append(items, &item)
	}
	return items, rows.Err()
}

func (r *catalogRepository) FindMenuItemsByIDsForRestaurant(ctx context.Context, ids []int, restaurantID int) (map[int]domain.MenuItem, error) {
	query := `
		SELECT menu_id, restaurant_id, name, description, price, available
		FROM menu_items
		WHERE menu_id = ANY($1) AND restaurant_id = $2
	`

	rows, err := r.db.Query(ctx, query, ids, restaurantID)
	if err != nil {
		return nil, fmt.Errorf("failed to query menu items: %w", err)
	}
	defer rows.Close()

	result := make(map[int]domain.MenuItem, len(ids))
	for rows.Next() {
		var item domain.MenuItem
		if err := rows.Scan(&item.ID, &item.RestaurantID, &item.Name, &item.Description, &item.Price, &item.Available); err != nil {
			return nil, fmt.Errorf("failed to scan menu item: %w", err)
		}
		result[item.ID] = item
	}
	return result, rows.Err()
}

func (r *catalogRepository) UpdateMenuItem(ctx context.Context, item *domain.MenuItem) error {
	query := `
		UPDATE menu_items
		SET name = $1, description = $2, price = $3, available = $4
		WHERE menu_id = $5
	`
	tag, err := r.db.Exec(ctx, query, item.Name, item.Description, item.Price, item.Available, item.ID)
	if err != nil {
		return fmt.Errorf("failed to update menu item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.NotFoundf("Menu item not found")
	}
	return nil
}

func (r *catalogRepository) DeleteMenuItem(ctx context.Context, id int) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM menu_items WHERE menu_id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete menu item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.NotFoundf("Menu item not found")
	}
	return nil
}
