package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"voltkart/internal/domain"
	"voltkart/internal/repository"
)

func i64(v int64) *int64 { return &v }

func TestPlaceOrderPersistsOrderWithItems(t *testing.T) {
	ctx := context.Background()
	svc := NewOrderService(repository.NewMemoryStore().Orders())

	order, items, err := svc.PlaceOrder(ctx, OrderInput{
		UserID:          i64(7),
		TotalAmount:     539.00,
		PaymentMethod:   "cod",
		ShippingAddress: "12 Main Street",
		Phone:           "9876543210",
		Items: []OrderItemInput{
			{ProductID: i64(1), Quantity: 2, Price: 145.00},
			{ProductID: i64(4), Quantity: 1, Price: 249.00},
		},
	})
	if err != nil {
		t.Fatalf("PlaceOrder failed: %v", err)
	}

	if order.ID == 0 {
		t.Error("order has no ID")
	}
	if order.Status != domain.OrderStatusPending {
		t.Errorf("new order should be pending, got %s", order.Status)
	}
	if order.PaymentStatus != "pending" {
		t.Errorf("new order payment should be pending, got %s", order.PaymentStatus)
	}
	if order.TotalAmount != 539.00 {
		t.Errorf("total amount should be stored verbatim, got %f", order.TotalAmount)
	}
	if !strings.HasPrefix(order.OrderNumber, "ORD-") {
		t.Errorf("generated order number should carry the ORD prefix, got %s", order.OrderNumber)
	}

	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}
	for _, item := range items {
		if item.ID == 0 || item.OrderID != order.ID {
			t.Errorf("item not persisted with the order: %+v", item)
		}
	}
	if items[0].Quantity != 2 || items[0].Price != 145.00 {
		t.Errorf("first item not preserved: %+v", items[0])
	}
}

func TestPlaceOrderRejectsBadInput(t *testing.T) {
	ctx := context.Background()
	svc := NewOrderService(repository.NewMemoryStore().Orders())

	_, _, err := svc.PlaceOrder(ctx, OrderInput{TotalAmount: 10})
	if err != ErrOrderWithoutItems {
		t.Errorf("expected ErrOrderWithoutItems, got %v", err)
	}

	_, _, err = svc.PlaceOrder(ctx, OrderInput{
		Items: []OrderItemInput{{Quantity: 0, Price: 10}},
	})
	if err != ErrInvalidQuantity {
		t.Errorf("expected ErrInvalidQuantity for zero quantity, got %v", err)
	}

	_, _, err = svc.PlaceOrder(ctx, OrderInput{
		Items: []OrderItemInput{{Quantity: -1, Price: 10}},
	})
	if err != ErrInvalidQuantity {
		t.Errorf("expected ErrInvalidQuantity for negative quantity, got %v", err)
	}
}

func TestPlaceOrderKeepsSuppliedOrderNumber(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewMemoryStore().Orders()
	svc := NewOrderService(repo)

	order, _, err := svc.PlaceOrder(ctx, OrderInput{
		OrderNumber: "ORD-CUSTOM-1",
		Items:       []OrderItemInput{{Quantity: 1, Price: 10}},
	})
	if err != nil {
		t.Fatalf("PlaceOrder failed: %v", err)
	}
	if order.OrderNumber != "ORD-CUSTOM-1" {
		t.Errorf("supplied order number was replaced: got %s", order.OrderNumber)
	}

	// A colliding supplied number is the caller's problem, no retry
	_, _, err = svc.PlaceOrder(ctx, OrderInput{
		OrderNumber: "ORD-CUSTOM-1",
		Items:       []OrderItemInput{{Quantity: 1, Price: 10}},
	})
	if err != repository.ErrOrderNumberExists {
		t.Errorf("expected ErrOrderNumberExists, got %v", err)
	}
}

// collidingOrderRepository rejects the first create attempts with a number
// collision, then delegates to the wrapped repository.
type collidingOrderRepository struct {
	repository.OrderRepository
	collisions int
}

func (r *collidingOrderRepository) Create(ctx context.Context, order *domain.Order, items []domain.OrderItem) error {
	if r.collisions > 0 {
		r.collisions--
		return repository.ErrOrderNumberExists
	}
	return r.OrderRepository.Create(ctx, order, items)
}

func TestPlaceOrderRetriesGeneratedNumberCollisions(t *testing.T) {
	ctx := context.Background()
	repo := &collidingOrderRepository{
		OrderRepository: repository.NewMemoryStore().Orders(),
		collisions:      numberAttempts - 1,
	}
	svc := NewOrderService(repo)

	order, _, err := svc.PlaceOrder(ctx, OrderInput{
		Items: []OrderItemInput{{Quantity: 1, Price: 10}},
	})
	if err != nil {
		t.Fatalf("PlaceOrder should survive %d collisions: %v", numberAttempts-1, err)
	}
	if order.OrderNumber == "" {
		t.Error("order number was not generated")
	}

	// One collision more than the retry budget and the order fails
	repo.collisions = numberAttempts
	_, _, err = svc.PlaceOrder(ctx, OrderInput{
		Items: []OrderItemInput{{Quantity: 1, Price: 10}},
	})
	if err != repository.ErrOrderNumberExists {
		t.Errorf("expected ErrOrderNumberExists after exhausting retries, got %v", err)
	}
}

func TestGetOrderReturnsItems(t *testing.T) {
	ctx := context.Background()
	svc := NewOrderService(repository.NewMemoryStore().Orders())

	placed, _, err := svc.PlaceOrder(ctx, OrderInput{
		Items: []OrderItemInput{{Quantity: 3, Price: 99}},
	})
	if err != nil {
		t.Fatalf("PlaceOrder failed: %v", err)
	}

	order, items, err := svc.GetOrder(ctx, placed.ID)
	if err != nil {
		t.Fatalf("GetOrder failed: %v", err)
	}
	if order.ID != placed.ID {
		t.Errorf("wrong order: got id %d", order.ID)
	}
	if len(items) != 1 || items[0].Quantity != 3 {
		t.Errorf("items not returned: %+v", items)
	}

	if _, _, err := svc.GetOrder(ctx, 9999); err != repository.ErrOrderNotFound {
		t.Errorf("expected ErrOrderNotFound, got %v", err)
	}
}

func TestOrderUpdateStatusEnforcesLifecycle(t *testing.T) {
	ctx := context.Background()
	svc := NewOrderService(repository.NewMemoryStore().Orders())

	placed, _, err := svc.PlaceOrder(ctx, OrderInput{
		Items: []OrderItemInput{{Quantity: 1, Price: 10}},
	})
	if err != nil {
		t.Fatalf("PlaceOrder failed: %v", err)
	}

	// pending -> confirmed -> shipped -> delivered
	for _, status := range []domain.OrderStatus{
		domain.OrderStatusConfirmed,
		domain.OrderStatusShipped,
		domain.OrderStatusDelivered,
	} {
		updated, err := svc.UpdateStatus(ctx, placed.ID, status)
		if err != nil {
			t.Fatalf("UpdateStatus to %s failed: %v", status, err)
		}
		if updated.Status != status {
			t.Errorf("expected status %s, got %s", status, updated.Status)
		}
	}

	// Delivered is terminal
	if _, err := svc.UpdateStatus(ctx, placed.ID, domain.OrderStatusCancelled); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("expected ErrInvalidTransition from delivered, got %v", err)
	}

	if _, err := svc.UpdateStatus(ctx, placed.ID, domain.OrderStatus("lost")); err != ErrUnknownStatus {
		t.Errorf("expected ErrUnknownStatus, got %v", err)
	}
}

func TestOrderCancellationWindow(t *testing.T) {
	ctx := context.Background()
	svc := NewOrderService(repository.NewMemoryStore().Orders())

	// Cancelling is allowed until the order ships
	placed, _, err := svc.PlaceOrder(ctx, OrderInput{
		Items: []OrderItemInput{{Quantity: 1, Price: 10}},
	})
	if err != nil {
		t.Fatalf("PlaceOrder failed: %v", err)
	}
	if _, err := svc.UpdateStatus(ctx, placed.ID, domain.OrderStatusCancelled); err != nil {
		t.Errorf("pending order should be cancellable: %v", err)
	}

	shipped, _, err := svc.PlaceOrder(ctx, OrderInput{
		Items: []OrderItemInput{{Quantity: 1, Price: 10}},
	})
	if err != nil {
		t.Fatalf("PlaceOrder failed: %v", err)
	}
	if _, err := svc.UpdateStatus(ctx, shipped.ID, domain.OrderStatusConfirmed); err != nil {
		t.Fatalf("UpdateStatus failed: %v", err)
	}
	if _, err := svc.UpdateStatus(ctx, shipped.ID, domain.OrderStatusShipped); err != nil {
		t.Fatalf("UpdateStatus failed: %v", err)
	}
	if _, err := svc.UpdateStatus(ctx, shipped.ID, domain.OrderStatusCancelled); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("shipped order should not be cancellable, got %v", err)
	}
}
