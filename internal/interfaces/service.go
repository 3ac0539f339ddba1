package interfaces

import (
	"context"

	"flavorfi/internal/domain"
)

// Identity is the authenticated caller, resolved by the auth middleware.
type Identity struct {
	UserID int
	Role   domain.Role
}

// Commands carried from the HTTP layer into the services.

type RegisterCommand struct {
	Name     string
	Email    string
	Password string
	Role     string
}

type LoginCommand struct {
	Email    string
	Password string
}

type LoginResult struct {
	User  *domain.User
	Token string
}

type CreateRestaurantCommand struct {
	Name    string
	Address string
}

type CreateMenuItemCommand struct {
	Name        string
	Description string
	Price       *float64
	Available   *bool
}

// UpdateMenuItemCommand carries a partial update; nil fields keep their
// current value.
type UpdateMenuItemCommand struct {
	Name        *string
	Description *string
	Price       *float64
	Available   *bool
}

type CreateOrderCommand struct {
	RestaurantID int
	Items        []CreateOrderItemCommand
}

type CreateOrderItemCommand struct {
	MenuID   int
	Quantity int
}

// RestaurantMenu is a restaurant together with its full menu.
type RestaurantMenu struct {
	Restaurant *domain.Restaurant
	Menu       []*domain.MenuItem
}

// OrderDetails is an order with its lines resolved to menu names. MenuName
// degrades to "unknown" when the menu row was deleted after the order was
// placed.
type OrderDetails struct {
	Order *domain.Order
	Items []OrderDetailsItem
}

type OrderDetailsItem struct {
	MenuID    int
	MenuName  string
	Quantity  int
	UnitPrice float64
}

// Service ports consumed by the HTTP adapter.

type AuthService interface {
	Register(ctx context.Context, cmd RegisterCommand) (*domain.User, error)
	Login(ctx context.Context, cmd LoginCommand) (*LoginResult, error)
	Profile(ctx context.Context, userID int) (*domain.User, error)
}

type CatalogService interface {
	CreateRestaurant(ctx context.Context, caller Identity, cmd CreateRestaurantCommand) (*domain.Restaurant, error)
	ListRestaurants(ctx context.Context) ([]*domain.Restaurant, error)
	RestaurantMenu(ctx context.Context, restaurantID int) (*RestaurantMenu, error)
	CreateMenuItem(ctx context.Context, caller Identity, restaurantID int, cmd CreateMenuItemCommand) (*domain.MenuItem, error)
	UpdateMenuItem(ctx context.Context, caller Identity, menuID int, cmd UpdateMenuItemCommand) error
	DeleteMenuItem(ctx context.Context, caller Identity, menuID int) error
}

type OrderService interface {
	CreateOrder(ctx context.Context, caller Identity, cmd CreateOrderCommand) (*domain.Order, error)
	ListUserOrders(ctx context.Context, caller Identity) ([]*domain.Order, error)
	OrderDetails(ctx context.Context, caller Identity, orderID int) (*OrderDetails, error)
	StatusHistory(ctx context.Context, caller Identity, orderID int) ([]*domain.StatusLog, error)
	UpdateStatus(ctx context.Context, caller Identity, orderID int, status string) (domain.Status, error)
}
