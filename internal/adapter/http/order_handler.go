package http

import (
	"encoding/json"
	"net/http"
	"time"

	"flavorfi/internal/adapter/logger"
	"flavorfi/internal/domain"
	"flavorfi/internal/interfaces"
)

type OrderHandler struct {
	service interfaces.OrderService
	logger  logger.Logger
}

func NewOrderHandler(service interfaces.OrderService, logger logger.Logger) *OrderHandler {
	return &OrderHandler{
		service: service,
		logger:  logger,
	}
}

type createOrderRequest struct {
	RestaurantID int                      `json:"restaurant_id"`
	Items        []createOrderItemRequest `json:"items"`
}

type createOrderItemRequest struct {
	MenuID   int `json:"menu_id"`
	Quantity int `json:"quantity"`
}

type orderSummaryResponse struct {
	OrderID      int     `json:"order_id"`
	RestaurantID int     `json:"restaurant_id"`
	Status       string  `json:"status"`
	TotalPrice   float64 `json:"total_price"`
	OrderDate    string  `json:"order_date"`
}

type orderDetailsResponse struct {
	OrderID      int                 `json:"order_id"`
	RestaurantID int                 `json:"restaurant_id"`
	Status       string              `json:"status"`
	TotalPrice   float64             `json:"total_price"`
	OrderDate    string              `json:"order_date"`
	Items        []orderItemResponse `json:"items"`
}

type orderItemResponse struct {
	MenuID       int     `json:"menu_id"`
	MenuName     string  `json:"menu_name"`
	Quantity     int     `json:"quantity"`
	PricePerItem float64 `json:"price_per_item"`
}

type statusLogResponse struct {
	Status    string    `json:"status"`
	ChangedBy int       `json:"changed_by"`
	ChangedAt time.Time `json:"changed_at"`
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

func (h *OrderHandler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	caller, ok := CallerFromContext(r.Context())
	if !ok {
		respondMessage(w, http.StatusUnauthorized, "Missing or invalid authorization header")
		return
	}

	var req createOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	items := make([]interfaces.CreateOrderItemCommand, 0, len(req.Items))
	for _, item := range req.Items {
		items = append(items, interfaces.CreateOrderItemCommand{
			MenuID:   item.MenuID,
			Quantity: item.Quantity,
		})
	}

	order, err := h.service.CreateOrder(r.Context(), caller, interfaces.CreateOrderCommand{
		RestaurantID: req.RestaurantID,
		Items:        items,
	})
	if err != nil {
		respondDomainError(w, err)
		return
	}

	totalPrice, _ := order.TotalPrice.Float64()
	respondJSON(w, http.StatusCreated, map[string]any{
		"msg":         "Order created",
		"order_id":    order.ID,
		"total_price": totalPrice,
		"status":      string(order.Status),
	})
}

func (h *OrderHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	caller, ok := CallerFromContext(r.Context())
	if !ok {
		respondMessage(w, http.StatusUnauthorized, "Missing or invalid authorization header")
		return
	}

	orders, err := h.service.ListUserOrders(r.Context(), caller)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	resp := make([]orderSummaryResponse, 0, len(orders))
	for _, order := range orders {
		resp = append(resp, orderSummary(order))
	}
	respondJSON(w, http.StatusOK, resp)
}

func (h *OrderHandler) OrderDetails(w http.ResponseWriter, r *http.Request) {
	caller, ok := CallerFromContext(r.Context())
	if !ok {
		respondMessage(w, http.StatusUnauthorized, "Missing or invalid authorization header")
		return
	}

	orderID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	details, err := h.service.OrderDetails(r.Context(), caller, orderID)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	totalPrice, _ := details.Order.TotalPrice.Float64()
	resp := orderDetailsResponse{
		OrderID:      details.Order.ID,
		RestaurantID: details.Order.RestaurantID,
		Status:       string(details.Order.Status),
		TotalPrice:   totalPrice,
		OrderDate:    details.Order.CreatedAt.Format(time.RFC3339),
		Items:        make([]orderItemResponse, 0, len(details.Items)),
	}
	for _, item := range details.Items {
		resp.Items = append(resp.Items, orderItemResponse{
			MenuID:       item.MenuID,
			MenuName:     item.MenuName,
			Quantity:     item.Quantity,
			PricePerItem: item.UnitPrice,
		})
	}
	respondJSON(w, http.StatusOK, resp)
}

func (h *OrderHandler) StatusHistory(w http.ResponseWriter, r *http.Request) {
	caller, ok := CallerFromContext(r.Context())
	if !ok {
		respondMessage(w, http.StatusUnauthorized, "Missing or invalid authorization header")
		return
	}

	orderID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	history, err := h.service.StatusHistory(r.Context(), caller, orderID)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	resp := make([]statusLogResponse, 0, len(history))
	for _, log := range history {
		resp = append(resp, statusLogResponse{
			Status:    string(log.Status),
			ChangedBy: log.ChangedBy,
			ChangedAt: log.ChangedAt,
		})
	}
	respondJSON(w, http.StatusOK, resp)
}

func (h *OrderHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	caller, ok := CallerFromContext(r.Context())
	if !ok {
		respondMessage(w, http.StatusUnauthorized, "Missing or invalid authorization header")
		return
	}

	orderID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var req updateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	status, err := h.service.UpdateStatus(r.Context(), caller, orderID, req.Status)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"msg":    "Order status updated",
		"status": string(status),
	})
}

func orderSummary(order *domain.Order) orderSummaryResponse {
	totalPrice, _ := order.TotalPrice.Float64()
	return orderSummaryResponse{
		OrderID:      order.ID,
		RestaurantID: order.RestaurantID,
		Status:       string(order.Status),
		TotalPrice:   totalPrice,
		OrderDate:    order.CreatedAt.Format(time.RFC3339),
	}
}
