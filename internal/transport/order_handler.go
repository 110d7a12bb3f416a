package transport

import (
	"errors"
	"net/http"
	"strconv"

	"voltkart/internal/domain"
	"voltkart/internal/middleware"
	"voltkart/internal/repository"
	"voltkart/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// OrderItemRequest is one requested line of a new order
type OrderItemRequest struct {
	ProductID *int64  `json:"productId"`
	Quantity  int     `json:"quantity" validate:"required,gte=1"`
	Price     float64 `json:"price" validate:"gte=0"`
}

// CreateOrderRequest represents the order creation payload. Checkout does
// not require an account, so userId is optional.
type CreateOrderRequest struct {
	UserID          *int64             `json:"userId"`
	OrderNumber     string             `json:"orderNumber"`
	TotalAmount     float64            `json:"totalAmount" validate:"gte=0"`
	PaymentMethod   string             `json:"paymentMethod"`
	ShippingAddress string             `json:"shippingAddress"`
	Phone           string             `json:"phone"`
	Notes           string             `json:"notes"`
	Items           []OrderItemRequest `json:"items" validate:"required,min=1,dive"`
}

// UpdateOrderStatusRequest represents the status transition payload
type UpdateOrderStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// OrderWithItems is an order together with its line items
type OrderWithItems struct {
	domain.Order
	Items []domain.OrderItem `json:"items"`
}

// OrderHandler handles HTTP requests for order operations
type OrderHandler struct {
	orders service.OrderService
	logger *zap.Logger
}

// NewOrderHandler creates a new OrderHandler
func NewOrderHandler(orders service.OrderService, logger *zap.Logger) *OrderHandler {
	return &OrderHandler{
		orders: orders,
		logger: logger,
	}
}

// RegisterRoutes registers the order routes. Placing an order is public so
// guests can check out; reading requires auth, transitions require admin.
func (h *OrderHandler) RegisterRoutes(r chi.Router, authMiddleware, adminMiddleware func(http.Handler) http.Handler) {
	r.Route("/api/orders", func(r chi.Router) {
		r.Post("/", h.PlaceOrder)

		r.Group(func(r chi.Router) {
			r.Use(authMiddleware)
			r.Get("/", h.ListOrders)
			r.Get("/{id}", h.GetOrder)
		})

		r.Group(func(r chi.Router) {
			r.Use(authMiddleware, adminMiddleware)
			r.Put("/{id}/status", h.UpdateStatus)
		})
	})
}

// PlaceOrder handles order creation with its line items
func (h *OrderHandler) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	var req CreateOrderRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	in := service.OrderInput{
		UserID:          req.UserID,
		OrderNumber:     req.OrderNumber,
		TotalAmount:     req.TotalAmount,
		PaymentMethod:   req.PaymentMethod,
		ShippingAddress: req.ShippingAddress,
		Phone:           req.Phone,
		Notes:           req.Notes,
		Items:           make([]service.OrderItemInput, len(req.Items)),
	}
	for i, item := range req.Items {
		in.Items[i] = service.OrderItemInput{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Price:     item.Price,
		}
	}

	order, items, err := h.orders.PlaceOrder(r.Context(), in)
	if err != nil {
		switch {
		case err == service.ErrOrderWithoutItems || err == service.ErrInvalidQuantity:
			middleware.RespondWithError(w, http.StatusBadRequest, err.Error())
		case err == repository.ErrOrderNumberExists:
			middleware.RespondWithError(w, http.StatusConflict, "order with this order number already exists")
		default:
			h.logger.Error("Failed to place order", zap.Error(err))
			middleware.RespondWithError(w, http.StatusInternalServerError, "failed to place order")
		}
		return
	}

	h.logger.Info("Order placed",
		zap.Int64("order_id", order.ID),
		zap.String("order_number", order.OrderNumber),
		zap.Int("items", len(items)),
	)
	middleware.RespondWithJSON(w, http.StatusCreated, OrderWithItems{Order: *order, Items: items})
}

// ListOrders returns the caller's orders, or every order for admins.
// Admins may narrow to one user with ?userId.
func (h *OrderHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		middleware.RespondWithError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	filterUser := &userID
	if isAdmin, _ := middleware.GetIsAdmin(r.Context()); isAdmin {
		filterUser = nil
		if v := r.URL.Query().Get("userId"); v != "" {
			id, err := strconv.ParseInt(v, 10, 64)
			if err != nil {
				middleware.RespondWithError(w, http.StatusBadRequest, "invalid userId")
				return
			}
			filterUser = &id
		}
	}

	orders, err := h.orders.ListOrders(r.Context(), filterUser)
	if err != nil {
		h.logger.Error("Failed to list orders", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to list orders")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, orders)
}

// GetOrder returns one order with its items. Non-admins only see their own.
func (h *OrderHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r)
	if !ok {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid order id")
		return
	}

	order, items, err := h.orders.GetOrder(r.Context(), id)
	if err != nil {
		if err == repository.ErrOrderNotFound {
			middleware.RespondWithError(w, http.StatusNotFound, "order not found")
			return
		}
		h.logger.Error("Failed to get order", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to get order")
		return
	}

	if isAdmin, _ := middleware.GetIsAdmin(r.Context()); !isAdmin {
		userID, _ := middleware.GetUserID(r.Context())
		if order.UserID == nil || *order.UserID != userID {
			middleware.RespondWithError(w, http.StatusNotFound, "order not found")
			return
		}
	}

	middleware.RespondWithJSON(w, http.StatusOK, OrderWithItems{Order: *order, Items: items})
}

// UpdateStatus advances an order through its lifecycle
func (h *OrderHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r)
	if !ok {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid order id")
		return
	}

	var req UpdateOrderStatusRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	order, err := h.orders.UpdateStatus(r.Context(), id, domain.OrderStatus(req.Status))
	if err != nil {
		switch {
		case err == repository.ErrOrderNotFound:
			middleware.RespondWithError(w, http.StatusNotFound, "order not found")
		case err == service.ErrUnknownStatus:
			middleware.RespondWithError(w, http.StatusBadRequest, "unknown status")
		case errors.Is(err, service.ErrInvalidTransition):
			middleware.RespondWithError(w, http.StatusConflict, err.Error())
		default:
			h.logger.Error("Failed to update order status", zap.Error(err))
			middleware.RespondWithError(w, http.StatusInternalServerError, "failed to update order status")
		}
		return
	}

	h.logger.Info("Order status updated",
		zap.Int64("order_id", order.ID),
		zap.String("status", string(order.Status)),
	)
	middleware.RespondWithJSON(w, http.StatusOK, order)
}
