package interfaces

import (
	"context"

	"flavorfi/internal/domain"
)

// Repository ports implemented by the postgres and memory adapters. All
// lookups return a domain.ErrNotFound error when the entity is absent, and
// UserRepository.Create returns a domain.ErrConflict error on a duplicate
// email.

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id int) (*domain.User, error)
}

type CatalogRepository interface {
	CreateRestaurant(ctx context.Context, restaurant *domain.Restaurant) error
	FindRestaurantByID(ctx context.Context, id int) (*domain.Restaurant, error)
	ListRestaurants(ctx context.Context) ([]*domain.Restaurant, error)

	CreateMenuItem(ctx context.Context, item *domain.MenuItem) error
	FindMenuItemByID(ctx context.Context, id int) (*domain.MenuItem, error)
	ListMenuItemsByRestaurant(ctx context.Context, restaurantID int) ([]*domain.MenuItem, error)
	// FindMenuItemsByIDsForRestaurant resolves the requested ids scoped to one
	// restaurant in a single query. Ids that do not exist, or belong to another
	// restaurant, are simply absent from the result.
	FindMenuItemsByIDsForRestaurant(ctx context.Context, ids []int, restaurantID int) (map[int]domain.MenuItem, error)
	UpdateMenuItem(ctx context.Context, item *domain.MenuItem) error
	DeleteMenuItem(ctx context.Context, id int) error
}

type OrderRepository interface {
	// Create persists the order, all of its line items and the initial status
	// log row in one transaction. Either all rows commit or none do.
	Create(ctx context.Context, order *domain.Order) error
	FindByID(ctx context.Context, id int) (*domain.Order, error)
	ListByUser(ctx context.Context, userID int) ([]*domain.Order, error)
	ListItemsByOrder(ctx context.Context, orderID int) ([]domain.OrderItem, error)
	// UpdateStatus sets the status in place and appends a status log row.
	UpdateStatus(ctx context.Context, orderID int, status domain.Status, changedBy int) error
	StatusHistory(ctx context.Context, orderID int) ([]*domain.StatusLog, error)
}
