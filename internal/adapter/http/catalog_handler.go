package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"flavorfi/internal/adapter/logger"
	"flavorfi/internal/domain"
	"flavorfi/internal/interfaces"
)

type CatalogHandler struct {
	service interfaces.CatalogService
	logger  logger.Logger
}

func NewCatalogHandler(service interfaces.CatalogService, logger logger.Logger) *CatalogHandler {
	return &CatalogHandler{
		service: service,
		logger:  logger,
	}
}

type createRestaurantRequest struct {
	Name    string `json:"name"`
	Address string `json:"address"`
}

type restaurantResponse struct {
	RestaurantID int    `json:"restaurant_id"`
	Name         string `json:"name"`
	Address      string `json:"address"`
}

type menuItemRequest struct {
	Name        *string  `json:"name"`
	Description *string  `json:"description"`
	Price       *float64 `json:"price"`
	Available   *bool    `json:"available"`
}

type menuItemResponse struct {
	MenuID      int     `json:"menu_id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Available   bool    `json:"available"`
}

type restaurantMenuResponse struct {
	RestaurantID int                `json:"restaurant_id"`
	Name         string             `json:"name"`
	Address      string             `json:"address"`
	Menus        []menuItemResponse `json:"menus"`
}

func (h *CatalogHandler) CreateRestaurant(w http.ResponseWriter, r *http.Request) {
	caller, ok := CallerFromContext(r.Context())
	if !ok {
		respondMessage(w, http.StatusUnauthorized, "Missing or invalid authorization header")
		return
	}

	var req createRestaurantRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	restaurant, err := h.service.CreateRestaurant(r.Context(), caller, interfaces.CreateRestaurantCommand{
		Name:    req.Name,
		Address: req.Address,
	})
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, map[string]any{
		"msg":           "Restaurant created",
		"restaurant_id": restaurant.ID,
	})
}

func (h *CatalogHandler) ListRestaurants(w http.ResponseWriter, r *http.Request) {
	restaurants, err := h.service.ListRestaurants(r.Context())
	if err != nil {
		respondDomainError(w, err)
		return
	}

	resp := make([]restaurantResponse, 0, len(restaurants))
	for _, restaurant := range restaurants {
		resp = append(resp, restaurantResponse{
			RestaurantID: restaurant.ID,
			Name:         restaurant.Name,
			Address:      restaurant.Address,
		})
	}
	respondJSON(w, http.StatusOK, resp)
}

func (h *CatalogHandler) RestaurantMenu(w http.ResponseWriter, r *http.Request) {
	restaurantID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	result, err := h.service.RestaurantMenu(r.Context(), restaurantID)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	resp := restaurantMenuResponse{
		RestaurantID: result.Restaurant.ID,
		Name:         result.Restaurant.Name,
		Address:      result.Restaurant.Address,
		Menus:        make([]menuItemResponse, 0, len(result.Menu)),
	}
	for _, item := range result.Menu {
		resp.Menus = append(resp.Menus, menuItemView(item))
	}
	respondJSON(w, http.StatusOK, resp)
}

func (h *CatalogHandler) CreateMenuItem(w http.ResponseWriter, r *http.Request) {
	caller, ok := CallerFromContext(r.Context())
	if !ok {
		respondMessage(w, http.StatusUnauthorized, "Missing or invalid authorization header")
		return
	}

	restaurantID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var req menuItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	cmd := interfaces.CreateMenuItemCommand{
		Price:     req.Price,
		Available: req.Available,
	}
	if req.Name != nil {
		cmd.Name = *req.Name
	}
	if req.Description != nil {
		cmd.Description = *req.Description
	}

	item, err := h.service.CreateMenuItem(r.Context(), caller, restaurantID, cmd)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, map[string]any{
		"msg":     "Menu item created",
		"menu_id": item.ID,
	})
}

func (h *CatalogHandler) UpdateMenuItem(w http.ResponseWriter, r *http.Request) {
	caller, ok := CallerFromContext(r.Context())
	if !ok {
		respondMessage(w, http.StatusUnauthorized, "Missing or invalid authorization header")
		return
	}

	menuID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var req menuItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	err := h.service.UpdateMenuItem(r.Context(), caller, menuID, interfaces.UpdateMenuItemCommand{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Available:   req.Available,
	})
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondMessage(w, http.StatusOK, "Menu item updated")
}

func (h *CatalogHandler) DeleteMenuItem(w http.ResponseWriter, r *http.Request) {
	caller, ok := CallerFromContext(r.Context())
	if !ok {
		respondMessage(w, http.StatusUnauthorized, "Missing or invalid authorization header")
		return
	}

	menuID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	if err := h.service.DeleteMenuItem(r.Context(), caller, menuID); err != nil {
		respondDomainError(w, err)
		return
	}

	respondMessage(w, http.StatusOK, "Menu item deleted")
}

func menuItemView(item *domain.MenuItem) menuItemResponse {
	price, _ := item.Price.Float64()
	return menuItemResponse{
		MenuID:      item.ID,
		Name:        item.Name,
		Description: item.Description,
		Price:       price,
		Available:   item.Available,
	}
}

// pathID parses a numeric path segment. Non-numeric ids behave like an
// unmatched route.
func pathID(w http.ResponseWriter, r *http.Request, name string) (int, bool) {
	id, err := strconv.Atoi(r.PathValue(name))
	if err != nil || id <= 0 {
		respondMessage(w, http.StatusNotFound, "Resource not found")
		return 0, false
	}
	return id, true
}
