package controllers

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/mercatto/cart-service/api/responses"
	"github.com/mercatto/cart-service/api/validators"
	cartsvc "github.com/mercatto/cart-service/internal/carts"
	"github.com/mercatto/cart-service/pkg/db/models"
	pkgerrors "github.com/mercatto/cart-service/pkg/errors"
	"github.com/mercatto/cart-service/pkg/logger"
)

// CartCreate handles POST /api/carts.
func CartCreate(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		cart, err := svc.CreateCart(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, newCartResponse(cart))
	}
}

// CartFetch handles GET /api/carts/{cartId}, returning the cart with each
// item's product record resolved.
func CartFetch(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		cartID, err := validators.ParseUUIDParam(r, "cartId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		resolved, err := svc.GetCart(r.Context(), cartID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, resolved)
	}
}

// CartAddProduct handles POST /api/carts/{cartId}/product/{productId}: one
// unit is moved from stock into the cart.
func CartAddProduct(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		cartID, productID, err := cartProductParams(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		cart, err := svc.AddItem(r.Context(), cartID, productID, 1)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteMessage(w, "product added to cart and stock updated", newCartResponse(cart))
	}
}

// CartRemoveProduct handles DELETE /api/carts/{cartId}/products/{productId}.
func CartRemoveProduct(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		cartID, productID, err := cartProductParams(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		cart, err := svc.RemoveItem(r.Context(), cartID, productID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteMessage(w, "product removed from cart and stock restored", newCartResponse(cart))
	}
}

// CartReplaceProducts handles PUT /api/carts/{cartId}: the whole item array is
// swapped for the request payload, without touching stock.
func CartReplaceProducts(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		cartID, err := validators.ParseUUIDParam(r, "cartId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload replaceProductsRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		cart, err := svc.ReplaceItems(r.Context(), cartID, payload.toInputs())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteMessage(w, "cart updated", newCartResponse(cart))
	}
}

// CartSetQuantity handles PUT /api/carts/{cartId}/products/{productId}.
func CartSetQuantity(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		cartID, productID, err := cartProductParams(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload setQuantityRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		cart, err := svc.SetItemQuantity(r.Context(), cartID, productID, *payload.Quantity)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteMessage(w, "quantity updated and stock adjusted", newCartResponse(cart))
	}
}

// CartClear handles DELETE /api/carts/{cartId}.
func CartClear(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		cartID, err := validators.ParseUUIDParam(r, "cartId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		cart, err := svc.ClearCart(r.Context(), cartID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteMessage(w, "cart emptied and stock restored", newCartResponse(cart))
	}
}

func cartProductParams(r *http.Request) (uuid.UUID, uuid.UUID, error) {
	cartID, err := validators.ParseUUIDParam(r, "cartId")
	if err != nil {
		return uuid.Nil, uuid.Nil, err
	}
	productID, err := validators.ParseUUIDParam(r, "productId")
	if err != nil {
		return uuid.Nil, uuid.Nil, err
	}
	return cartID, productID, nil
}

type replaceProductsRequest struct {
	Products []replaceProductPayload `json:"products" validate:"required,dive"`
}

// Quantity carries no bounds on purpose: wholesale replacement stores the
// payload as given.
type replaceProductPayload struct {
	Product  uuid.UUID `json:"product" validate:"required"`
	Quantity int       `json:"quantity"`
}

func (r replaceProductsRequest) toInputs() []cartsvc.ItemInput {
	inputs := make([]cartsvc.ItemInput, len(r.Products))
	for i, p := range r.Products {
		inputs[i] = cartsvc.ItemInput{ProductID: p.Product, Quantity: p.Quantity}
	}
	return inputs
}

// Quantity is a pointer so that an explicit 0 passes the required check.
type setQuantityRequest struct {
	Quantity *int `json:"quantity" validate:"required"`
}

type cartResponse struct {
	ID        uuid.UUID          `json:"id"`
	Items     []cartItemResponse `json:"items"`
	CreatedAt time.Time          `json:"created_at"`
	UpdatedAt time.Time          `json:"updated_at"`
}

type cartItemResponse struct {
	ProductID uuid.UUID `json:"product_id"`
	Quantity  int       `json:"quantity"`
}

func newCartResponse(cart *models.Cart) cartResponse {
	items := make([]cartItemResponse, 0, len(cart.Items))
	for _, item := range cart.Items {
		items = append(items, cartItemResponse{ProductID: item.ProductID, Quantity: item.Quantity})
	}
	return cartResponse{
		ID:        cart.ID,
		Items:     items,
		CreatedAt: cart.CreatedAt,
		UpdatedAt: cart.UpdatedAt,
	}
}
