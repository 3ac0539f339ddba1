package catalog

import (
	"context"

	"github.com/shopspring/decimal"

	"flavorfi/internal/adapter/logger"
	"flavorfi/internal/domain"
	"flavorfi/internal/interfaces"
)

// Service handles restaurant and menu management. Writes are restricted to
// the owning user; reads are public.
type Service struct {
	catalog interfaces.CatalogRepository
	logger  logger.Logger
}

func NewService(catalog interfaces.CatalogRepository, logger logger.Logger) *Service {
	return &Service{
		catalog: catalog,
		logger:  logger,
	}
}

func (s *Service) CreateRestaurant(ctx context.Context, caller interfaces.Identity, cmd interfaces.CreateRestaurantCommand) (*domain.Restaurant, error) {
	if caller.Role != domain.RoleOwner {
		return nil, domain.Authorizationf("Only owners can create restaurants")
	}
	if cmd.Name == "" || cmd.Address == "" {
		return nil, domain.Validationf("Name and address are required")
	}

	restaurant := &domain.Restaurant{
		OwnerID: caller.UserID,
		Name:    cmd.Name,
		Address: cmd.Address,
	}
	if err := s.catalog.CreateRestaurant(ctx, restaurant); err != nil {
		return nil, err
	}

	s.logger.Debug("restaurant_created", "Restaurant created", "", map[string]interface{}{
		"restaurant_id": restaurant.ID,
		"owner_id":      restaurant.OwnerID,
	})
	return restaurant, nil
}

func (s *Service) ListRestaurants(ctx context.Context) ([]*domain.Restaurant, error) {
	return s.catalog.ListRestaurants(ctx)
}

func (s *Service) RestaurantMenu(ctx context.Context, restaurantID int) (*interfaces.RestaurantMenu, error) {
	restaurant, err := s.catalog.FindRestaurantByID(ctx, restaurantID)
	if err != nil {
		return nil, err
	}

	menu, err := s.catalog.ListMenuItemsByRestaurant(ctx, restaurant.ID)
	if err != nil {
		return nil, err
	}
	return &interfaces.RestaurantMenu{Restaurant: restaurant, Menu: menu}, nil
}

func (s *Service) CreateMenuItem(ctx context.Context, caller interfaces.Identity, restaurantID int, cmd interfaces.CreateMenuItemCommand) (*domain.MenuItem, error) {
	restaurant, err := s.catalog.FindRestaurantByID(ctx, restaurantID)
	if err != nil {
		return nil, err
	}
	if restaurant.OwnerID != caller.UserID {
		return nil, domain.Authorizationf("Not authorized to add menu to this restaurant")
	}

	if cmd.Price == nil || *cmd.Price < 0 {
		return nil, domain.Validationf("Price must be a positive number")
	}

	available := true
	if cmd.Available != nil {
		available = *cmd.Available
	}

	item := &domain.MenuItem{
		RestaurantID: restaurant.ID,
		Name:         cmd.Name,
		Description:  cmd.Description,
		Price:        decimal.NewFromFloat(*cmd.Price),
		Available:    available,
	}
	if err := s.catalog.CreateMenuItem(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

// UpdateMenuItem applies a partial update; absent fields keep their current
// value. Existing orders keep their snapshotted unit prices regardless.
func (s *Service) UpdateMenuItem(ctx context.Context, caller interfaces.Identity, menuID int, cmd interfaces.UpdateMenuItemCommand) error {
	item, err := s.catalog.FindMenuItemByID(ctx, menuID)
	if err != nil {
		return err
	}

	if err := s.authorizeMenuWrite(ctx, caller, item, "Not authorized to update this menu item"); err != nil {
		return err
	}

	if cmd.Name != nil {
		item.Name = *cmd.Name
	}
	if cmd.Description != nil {
		item.Description = *cmd.Description
	}
	if cmd.Price != nil {
		if *cmd.Price < 0 {
			return domain.Validationf("Price must be a positive number")
		}
		item.Price = decimal.NewFromFloat(*cmd.Price)
	}
	if cmd.Available != nil {
		item.Available = *cmd.Available
	}

	return s.catalog.UpdateMenuItem(ctx, item)
}

func (s *Service) DeleteMenuItem(ctx context.Context, caller interfaces.Identity, menuID int) error {
	item, err := s.catalog.FindMenuItemByID(ctx, menuID)
	if err != nil {
		return err
	}

	if err := s.authorizeMenuWrite(ctx, caller, item, "Not authorized to delete this menu item"); err != nil {
		return err
	}
	return s.catalog.DeleteMenuItem(ctx, item.ID)
}

func (s *Service) authorizeMenuWrite(ctx context.Context, caller interfaces.Identity, item *domain.MenuItem, denied string) error {
	restaurant, err := s.catalog.FindRestaurantByID(ctx, item.RestaurantID)
	if err != nil {
		return err
	}
	if restaurant.OwnerID != caller.UserID {
		return domain.Authorizationf("%s", denied)
	}
	return nil
}

var _ interfaces.CatalogService = (*Service)(nil)
