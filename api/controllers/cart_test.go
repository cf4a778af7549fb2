package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/carlosmendieta/modique-backend/api/middleware"
	cartsvc "github.com/carlosmendieta/modique-backend/internal/cart"
	pkgerrors "github.com/carlosmendieta/modique-backend/pkg/errors"
)

type stubCartService struct {
	view *cartsvc.View
	err  error

	lastAdd    *cartsvc.AddItemInput
	lastUpdate *cartsvc.UpdateQuantityInput
}

func (s *stubCartService) Get(ctx context.Context, userID uuid.UUID) (*cartsvc.View, error) {
	return s.view, s.err
}

func (s *stubCartService) AddItem(ctx context.Context, userID uuid.UUID, input cartsvc.AddItemInput) (*cartsvc.View, error) {
	s.lastAdd = &input
	return s.view, s.err
}

func (s *stubCartService) UpdateQuantity(ctx context.Context, userID uuid.UUID, input cartsvc.UpdateQuantityInput) (*cartsvc.View, error) {
	s.lastUpdate = &input
	return s.view, s.err
}

func (s *stubCartService) RemoveItem(ctx context.Context, userID uuid.UUID, input cartsvc.RemoveItemInput) (*cartsvc.View, error) {
	return s.view, s.err
}

func (s *stubCartService) Clear(ctx context.Context, userID uuid.UUID) (*cartsvc.View, error) {
	return s.view, s.err
}

func authedRequest(method, target string, body string) *http.Request {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	}
	return req.WithContext(middleware.WithUserID(req.Context(), uuid.NewString()))
}

func TestCartGetSuccess(t *testing.T) {
	userID := uuid.New()
	svc := &stubCartService{view: cartsvc.EmptyView(userID)}
	handler := CartGet(svc, nil)

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, authedRequest(http.MethodGet, "/api/cart", ""))

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}

	var body cartResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body.Message != "Cart retrieved successfully" {
		t.Fatalf("unexpected message %q", body.Message)
	}
	if body.Cart == nil || body.Cart.UserID != userID {
		t.Fatalf("unexpected cart payload %+v", body.Cart)
	}
}

func TestCartGetRequiresAuth(t *testing.T) {
	handler := CartGet(&stubCartService{}, nil)

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/cart", nil))

	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}

func TestCartAddSuccess(t *testing.T) {
	svc := &stubCartService{view: cartsvc.EmptyView(uuid.New())}
	handler := CartAdd(svc, nil)

	productID := uuid.New()
	payload := `{"productId":"` + productID.String() + `","size":"M","quantity":2}`
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, authedRequest(http.MethodPost, "/api/cart/add", payload))

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if svc.lastAdd == nil {
		t.Fatal("expected service call")
	}
	if svc.lastAdd.ProductID != productID || svc.lastAdd.Size != "M" || svc.lastAdd.Quantity != 2 {
		t.Fatalf("unexpected input %+v", svc.lastAdd)
	}
}

func TestCartAddRejectsMissingFields(t *testing.T) {
	svc := &stubCartService{}
	handler := CartAdd(svc, nil)

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, authedRequest(http.MethodPost, "/api/cart/add", `{"size":"M"}`))

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
	if !strings.Contains(resp.Body.String(), "productId, size, and quantity are required") {
		t.Fatalf("unexpected body %s", resp.Body.String())
	}
	if svc.lastAdd != nil {
		t.Fatal("service should not be called")
	}
}

func TestCartAddPropagatesStockError(t *testing.T) {
	svc := &stubCartService{err: pkgerrors.Validationf("Only %d items available for size '%s'", 1, "M")}
	handler := CartAdd(svc, nil)

	payload := `{"productId":"` + uuid.NewString() + `","size":"M","quantity":5}`
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, authedRequest(http.MethodPost, "/api/cart/add", payload))

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
	if !strings.Contains(resp.Body.String(), "Only 1 items available for size 'M'") {
		t.Fatalf("unexpected body %s", resp.Body.String())
	}
}

func TestCartUpdateQuantityRejectsMissingAction(t *testing.T) {
	handler := CartUpdateQuantity(&stubCartService{}, nil)

	payload := `{"productId":"` + uuid.NewString() + `","size":"M"}`
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, authedRequest(http.MethodPost, "/api/cart/update-quantity", payload))

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
	if !strings.Contains(resp.Body.String(), "productId, size, and action are required") {
		t.Fatalf("unexpected body %s", resp.Body.String())
	}
}

func TestCartRemoveRejectsMissingFields(t *testing.T) {
	handler := CartRemove(&stubCartService{}, nil)

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, authedRequest(http.MethodPost, "/api/cart/remove", `{}`))

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
	if !strings.Contains(resp.Body.String(), "productId and size are required") {
		t.Fatalf("unexpected body %s", resp.Body.String())
	}
}

func TestCartClearSuccess(t *testing.T) {
	svc := &stubCartService{view: cartsvc.EmptyView(uuid.New())}
	handler := CartClear(svc, nil)

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, authedRequest(http.MethodPost, "/api/cart/clear", ""))

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if !strings.Contains(resp.Body.String(), "Cart cleared successfully") {
		t.Fatalf("unexpected body %s", resp.Body.String())
	}
}
