package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	cartsvc "github.com/juicejoy/juicejoy-backend/internal/cart"
	ordersvc "github.com/juicejoy/juicejoy-backend/internal/orders"
	"github.com/juicejoy/juicejoy-backend/pkg/enums"
)

type stubOrderService struct {
	created []ordersvc.CreateOrderInput
}

func (s *stubOrderService) CreateOrder(_ context.Context, input ordersvc.CreateOrderInput) (*ordersvc.OrderDTO, error) {
	s.created = append(s.created, input)
	return &ordersvc.OrderDTO{ID: uuid.New(), UserID: input.UserID, Status: enums.OrderStatusPending}, nil
}

func (s *stubOrderService) GetOrder(_ context.Context, _ uuid.UUID, _ enums.UserRole, orderID uuid.UUID) (*ordersvc.OrderDTO, error) {
	return &ordersvc.OrderDTO{ID: orderID}, nil
}

func (s *stubOrderService) ListForUser(_ context.Context, userID uuid.UUID) ([]ordersvc.OrderDTO, error) {
	return []ordersvc.OrderDTO{}, nil
}

func (s *stubOrderService) ListAll(_ context.Context) ([]ordersvc.OrderDTO, error) {
	return []ordersvc.OrderDTO{}, nil
}

func (s *stubOrderService) SetStatus(_ context.Context, orderID uuid.UUID, next enums.OrderStatus) (*ordersvc.OrderDTO, error) {
	return &ordersvc.OrderDTO{ID: orderID, Status: next}, nil
}

func checkoutBody(t *testing.T) *bytes.Reader {
	t.Helper()
	body, err := json.Marshal(map[string]any{
		"recipient_name":  "Dana",
		"phone":           "+15550100",
		"delivery_method": "pickup",
		"payment_method":  "cash",
	})
	if err != nil {
		t.Fatalf("marshal body: %v", err)
	}
	return bytes.NewReader(body)
}

func TestOrderCreatePlacesOrderAndClearsCart(t *testing.T) {
	userID := uuid.New()
	productID := uuid.New()

	carts := &stubCartService{}
	carts.cart.AddItem(cartsvc.ProductSnapshot{ProductID: productID, Name: "Green Machine", UnitPriceCents: 799})
	carts.cart.AddItem(cartsvc.ProductSnapshot{ProductID: productID, Name: "Green Machine", UnitPriceCents: 799})
	orders := &stubOrderService{}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/orders", checkoutBody(t))
	req.Header.Set("Content-Type", "application/json")
	req = req.WithContext(authedContext(userID, enums.UserRoleCustomer))
	rec := httptest.NewRecorder()

	OrderCreate(orders, carts, testControllerLogger()).ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if len(orders.created) != 1 {
		t.Fatalf("expected one order, got %d", len(orders.created))
	}
	placed := orders.created[0]
	if placed.UserID != userID {
		t.Fatalf("order placed for wrong user")
	}
	if len(placed.Lines) != 1 || placed.Lines[0].Quantity != 2 {
		t.Fatalf("expected one line with quantity 2, got %+v", placed.Lines)
	}
	if !carts.cleared {
		t.Fatalf("cart must be cleared after checkout")
	}
}

func TestOrderCreateRejectsEmptyCart(t *testing.T) {
	orders := &stubOrderService{}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/orders", checkoutBody(t))
	req.Header.Set("Content-Type", "application/json")
	req = req.WithContext(authedContext(uuid.New(), enums.UserRoleCustomer))
	rec := httptest.NewRecorder()

	OrderCreate(orders, &stubCartService{}, testControllerLogger()).ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for empty cart, got %d", rec.Code)
	}
	if len(orders.created) != 0 {
		t.Fatalf("no order should be placed from an empty cart")
	}
}

func TestOrderCreateRejectsUnknownPaymentMethod(t *testing.T) {
	body, _ := json.Marshal(map[string]any{
		"recipient_name":  "Dana",
		"phone":           "+15550100",
		"delivery_method": "pickup",
		"payment_method":  "barter",
	})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/orders", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req = req.WithContext(authedContext(uuid.New(), enums.UserRoleCustomer))
	rec := httptest.NewRecorder()

	OrderCreate(&stubOrderService{}, &stubCartService{}, testControllerLogger()).ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown payment method, got %d", rec.Code)
	}
}
