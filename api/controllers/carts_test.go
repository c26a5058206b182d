package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	cartsvc "github.com/mercatto/cart-service/internal/carts"
	"github.com/mercatto/cart-service/pkg/db/models"
	pkgerrors "github.com/mercatto/cart-service/pkg/errors"
	"github.com/mercatto/cart-service/pkg/types"
)

type stubCartService struct {
	cart     *models.Cart
	resolved *cartsvc.ResolvedCart
	err      error

	gotDelta    int
	gotQuantity int
	gotItems    []cartsvc.ItemInput
}

func (s *stubCartService) CreateCart(ctx context.Context) (*models.Cart, error) {
	return s.cart, s.err
}

func (s *stubCartService) GetCart(ctx context.Context, cartID uuid.UUID) (*cartsvc.ResolvedCart, error) {
	return s.resolved, s.err
}

func (s *stubCartService) AddItem(ctx context.Context, cartID, productID uuid.UUID, delta int) (*models.Cart, error) {
	s.gotDelta = delta
	return s.cart, s.err
}

func (s *stubCartService) RemoveItem(ctx context.Context, cartID, productID uuid.UUID) (*models.Cart, error) {
	return s.cart, s.err
}

func (s *stubCartService) ReplaceItems(ctx context.Context, cartID uuid.UUID, items []cartsvc.ItemInput) (*models.Cart, error) {
	s.gotItems = items
	return s.cart, s.err
}

func (s *stubCartService) SetItemQuantity(ctx context.Context, cartID, productID uuid.UUID, quantity int) (*models.Cart, error) {
	s.gotQuantity = quantity
	return s.cart, s.err
}

func (s *stubCartService) ClearCart(ctx context.Context, cartID uuid.UUID) (*models.Cart, error) {
	return s.cart, s.err
}

func TestCartCreateReturns201(t *testing.T) {
	cart := &models.Cart{ID: uuid.New(), Items: types.CartItems{}}
	handler := CartCreate(&stubCartService{cart: cart}, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/carts", nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d", resp.Code)
	}
	var body cartResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body.ID != cart.ID {
		t.Fatalf("unexpected cart id %s", body.ID)
	}
	if len(body.Items) != 0 {
		t.Fatalf("expected empty items, got %+v", body.Items)
	}
}

func TestCartFetchNotFound(t *testing.T) {
	handler := CartFetch(&stubCartService{err: pkgerrors.New(pkgerrors.CodeNotFound, "cart not found")}, nil)

	resp := serveWithParams(t, handler, http.MethodGet, "/"+uuid.NewString(), nil, map[string]string{"cartId": uuid.NewString()})

	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", resp.Code)
	}
	var body struct {
		Error string `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body.Error != "cart not found" {
		t.Fatalf("unexpected error %q", body.Error)
	}
}

func TestCartFetchRejectsMalformedID(t *testing.T) {
	handler := CartFetch(&stubCartService{}, nil)

	resp := serveWithParams(t, handler, http.MethodGet, "/not-a-uuid", nil, map[string]string{"cartId": "not-a-uuid"})

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestCartAddProductAddsOneUnit(t *testing.T) {
	cart := &models.Cart{ID: uuid.New(), Items: types.CartItems{{ProductID: uuid.New(), Quantity: 1}}}
	svc := &stubCartService{cart: cart}
	handler := CartAddProduct(svc, nil)

	resp := serveWithParams(t, handler, http.MethodPost, "/x", nil, map[string]string{
		"cartId":    uuid.NewString(),
		"productId": uuid.NewString(),
	})

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if svc.gotDelta != 1 {
		t.Fatalf("route must always add a single unit, got %d", svc.gotDelta)
	}
	var body struct {
		Message string       `json:"message"`
		Cart    cartResponse `json:"cart"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body.Message == "" || body.Cart.ID != cart.ID {
		t.Fatalf("unexpected envelope %+v", body)
	}
}

func TestCartAddProductInsufficientStock(t *testing.T) {
	svc := &stubCartService{err: pkgerrors.New(pkgerrors.CodeInsufficientStock, "not enough stock for this product")}
	handler := CartAddProduct(svc, nil)

	resp := serveWithParams(t, handler, http.MethodPost, "/x", nil, map[string]string{
		"cartId":    uuid.NewString(),
		"productId": uuid.NewString(),
	})

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestCartReplaceProductsDecodesPayload(t *testing.T) {
	productID := uuid.New()
	cart := &models.Cart{ID: uuid.New(), Items: types.CartItems{{ProductID: productID, Quantity: 4}}}
	svc := &stubCartService{cart: cart}
	handler := CartReplaceProducts(svc, nil)

	payload := `{"products":[{"product":"` + productID.String() + `","quantity":4}]}`
	resp := serveWithParams(t, handler, http.MethodPut, "/x", strings.NewReader(payload), map[string]string{
		"cartId": uuid.NewString(),
	})

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}
	if len(svc.gotItems) != 1 || svc.gotItems[0].ProductID != productID || svc.gotItems[0].Quantity != 4 {
		t.Fatalf("unexpected inputs %+v", svc.gotItems)
	}
}

func TestCartReplaceProductsRejectsMissingProducts(t *testing.T) {
	handler := CartReplaceProducts(&stubCartService{}, nil)

	resp := serveWithParams(t, handler, http.MethodPut, "/x", strings.NewReader(`{}`), map[string]string{
		"cartId": uuid.NewString(),
	})

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestCartSetQuantityAcceptsZero(t *testing.T) {
	cart := &models.Cart{ID: uuid.New(), Items: types.CartItems{{ProductID: uuid.New(), Quantity: 0}}}
	svc := &stubCartService{cart: cart}
	handler := CartSetQuantity(svc, nil)

	resp := serveWithParams(t, handler, http.MethodPut, "/x", strings.NewReader(`{"quantity":0}`), map[string]string{
		"cartId":    uuid.NewString(),
		"productId": uuid.NewString(),
	})

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}
	if svc.gotQuantity != 0 {
		t.Fatalf("expected quantity 0 forwarded, got %d", svc.gotQuantity)
	}
}

func TestCartSetQuantityRequiresBody(t *testing.T) {
	handler := CartSetQuantity(&stubCartService{}, nil)

	resp := serveWithParams(t, handler, http.MethodPut, "/x", strings.NewReader(`{}`), map[string]string{
		"cartId":    uuid.NewString(),
		"productId": uuid.NewString(),
	})

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestCartClearReturnsEmptiedCart(t *testing.T) {
	cart := &models.Cart{ID: uuid.New(), Items: types.CartItems{}}
	handler := CartClear(&stubCartService{cart: cart}, nil)

	resp := serveWithParams(t, handler, http.MethodDelete, "/x", nil, map[string]string{
		"cartId": uuid.NewString(),
	})

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	var body struct {
		Message string       `json:"message"`
		Cart    cartResponse `json:"cart"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(body.Cart.Items) != 0 {
		t.Fatalf("expected empty cart, got %+v", body.Cart.Items)
	}
}

func serveWithParams(t *testing.T, handler http.HandlerFunc, method, target string, body *strings.Reader, params map[string]string) *httptest.ResponseRecorder {
	t.Helper()

	var req *http.Request
	if body == nil {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, body)
	}

	rctx := chi.NewRouteContext()
	for k, v := range params {
		rctx.URLParams.Add(k, v)
	}
	req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	return resp
}
