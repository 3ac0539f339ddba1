package memory

import (
	"context"
	"sort"
	"sync"

	"flavorfi/internal/domain"
	"flavorfi/internal/interfaces"
)

type catalogRepository struct {
	mu          sync.RWMutex
	nextRestID  int
	nextMenuID  int
	restaurants map[int]domain.Restaurant
	menuItems   map[int]domain.MenuItem
}

func NewCatalogRepository() interfaces.CatalogRepository {
	return &catalogRepository{
		nextRestID:  1,
		nextMenuID:  1,
		restaurants: make(map[int]domain.Restaurant),
		menuItems:   make(map[int]domain.MenuItem),
	}
}

func (r *catalogRepository) CreateRestaurant(_ context.Context, restaurant *domain.Restaurant) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	restaurant.ID = r.nextRestID
	r.nextRestID++
	r.restaurants[restaurant.ID] = *restaurant
	return nil
}

func (r *catalogRepository) FindRestaurantByID(_ context.Context, id int) (*domain.Restaurant, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	restaurant, ok := r.restaurants[id]
	if !ok {
		return nil, domain.NotFoundf("Restaurant not found")
	}
	res := restaurant
	return &res, nil
}

func (r *catalogRepository) ListRestaurants(_ context.Context) ([]*domain.Restaurant, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*domain.Restaurant, 0, len(r.restaurants))
	for _, restaurant := range r.restaurants {
		res := restaurant
		result = append(result, &res)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (r *catalogRepository) CreateMenuItem(_ context.Context, item *domain.MenuItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	item.ID = r.nextMenuID
	r.nextMenuID++
	r.menuItems[item.ID] = *item
	return nil
}

func (r *catalogRepository) FindMenuItemByID(_ context.Context, id int) (*domain.MenuItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.menuItems[id]
	if !ok {
		return nil, domain.NotFoundf("Menu item not found")
	}
	it := item
	return &it, nil
}

func (r *catalogRepository) ListMenuItemsByRestaurant(_ context.Context, restaurantID int) ([]*domain.MenuItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []*domain.MenuItem
	for _, item := range r.menuItems {
		if item.RestaurantID != restaurantID {
			continue
		}
		it := item
		result = append(result, &it)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (r *catalogRepository) FindMenuItemsByIDsForRestaurant(_ context.Context, ids []int, restaurantID int) (map[int]domain.MenuItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make(map[int]domain.MenuItem, len(ids))
	for _, id := range ids {
		item, ok := r.menuItems[id]
		if !ok || item.RestaurantID != restaurantID {
			continue
		}
		result[id] = item
	}
	return result, nil
}

func (r *catalogRepository) UpdateMenuItem(_ context.Context, item *domain.MenuItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.menuItems[item.ID]; !ok {
		return domain.NotFoundf("Menu item not found")
	}
	r.menuItems[item.ID] = *item
	return nil
}

func (r *catalogRepository) DeleteMenuItem(_ context.Context, id int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.menuItems[id]; !ok {
		return domain.NotFoundf("Menu item not found")
	}
	delete(r.menuItems, id)
	return nil
}
