package service

import (
	"context"
	"errors"
	"fmt"

	"voltkart/internal/domain"
	"voltkart/internal/repository"
)

var (
	ErrOrderWithoutItems = errors.New("order must contain at least one item")
	ErrInvalidQuantity   = errors.New("order item quantity must be positive")
	ErrUnknownStatus     = errors.New("unknown status")
	ErrInvalidTransition = errors.New("illegal status transition")
)

// OrderItemInput is one requested line of a new order. Price is the unit
// price the storefront showed at checkout; it is persisted as-is.
type OrderItemInput struct {
	ProductID *int64
	Quantity  int
	Price     float64
}

// OrderInput carries the fields of a new order. An empty OrderNumber asks
// the service to generate one.
type OrderInput struct {
	UserID          *int64
	OrderNumber     string
	TotalAmount     float64
	PaymentMethod   string
	ShippingAddress string
	Phone           string
	Notes           string
	Items           []OrderItemInput
}

// OrderService defines the interface for order business logic
type OrderService interface {
	// PlaceOrder persists the order with its line items and returns both.
	PlaceOrder(ctx context.Context, in OrderInput) (*domain.Order, []domain.OrderItem, error)
	ListOrders(ctx context.Context, userID *int64) ([]domain.Order, error)
	GetOrder(ctx context.Context, id int64) (*domain.Order, []domain.OrderItem, error)
	UpdateStatus(ctx context.Context, id int64, status domain.OrderStatus) (*domain.Order, error)
}

type orderService struct {
	orders repository.OrderRepository
}

// NewOrderService creates a new instance of OrderService
func NewOrderService(orders repository.OrderRepository) OrderService {
	return &orderService{orders: orders}
}

// PlaceOrder validates and persists a new order. It always starts in the
// pending status with a pending payment; TotalAmount and the item prices are
// taken from the request verbatim, never recomputed from the catalog.
func (s *orderService) PlaceOrder(ctx context.Context, in OrderInput) (*domain.Order, []domain.OrderItem, error) {
	if len(in.Items) == 0 {
		return nil, nil, ErrOrderWithoutItems
	}

	items := make([]domain.OrderItem, len(in.Items))
	for i, item := range in.Items {
		if item.Quantity <= 0 {
			return nil, nil, ErrInvalidQuantity
		}
		items[i] = domain.OrderItem{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Price:     item.Price,
		}
	}

	order := &domain.Order{
		UserID:          in.UserID,
		OrderNumber:     in.OrderNumber,
		Status:          domain.OrderStatusPending,
		TotalAmount:     in.TotalAmount,
		PaymentMethod:   in.PaymentMethod,
		PaymentStatus:   "pending",
		ShippingAddress: in.ShippingAddress,
		Phone:           in.Phone,
		Notes:           in.Notes,
	}

	generated := order.OrderNumber == ""
	for attempt := 0; ; attempt++ {
		if generated {
			order.OrderNumber = generateNumber("ORD")
		}

		err := s.orders.Create(ctx, order, items)
		if err == nil {
			break
		}
		if err == repository.ErrOrderNumberExists {
			if generated && attempt < numberAttempts-1 {
				continue
			}
			return nil, nil, err
		}
		return nil, nil, fmt.Errorf("failed to place order: %w", err)
	}

	created, err := s.orders.ListItems(ctx, order.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load order items: %w", err)
	}

	return order, created, nil
}

func (s *orderService) ListOrders(ctx context.Context, userID *int64) ([]domain.Order, error) {
	return s.orders.List(ctx, userID)
}

// GetOrder retrieves an order together with its line items
func (s *orderService) GetOrder(ctx context.Context, id int64) (*domain.Order, []domain.OrderItem, error) {
	order, err := s.orders.FindByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	items, err := s.orders.ListItems(ctx, id)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load order items: %w", err)
	}

	return order, items, nil
}

// UpdateStatus advances an order through its lifecycle, rejecting unknown
// statuses and transitions the lifecycle does not allow
func (s *orderService) UpdateStatus(ctx context.Context, id int64, status domain.OrderStatus) (*domain.Order, error) {
	if !status.Valid() {
		return nil, ErrUnknownStatus
	}

	order, err := s.orders.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !order.Status.CanTransitionTo(status) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, order.Status, status)
	}

	return s.orders.UpdateStatus(ctx, id, status)
}
