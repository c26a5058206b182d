package carts

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/multierr"
	"gorm.io/gorm"

	"github.com/mercatto/cart-service/internal/products"
	"github.com/mercatto/cart-service/pkg/db/models"
	pkgerrors "github.com/mercatto/cart-service/pkg/errors"
	"github.com/mercatto/cart-service/pkg/types"
)

// Service exposes cart operations with their inventory side effects. Cart and
// product writes are two independent saves with no transaction between them:
// stock is always persisted before the cart, and a failure in between leaves
// the stock adjustment committed without a matching cart entry.
type Service interface {
	CreateCart(ctx context.Context) (*models.Cart, error)
	GetCart(ctx context.Context, cartID uuid.UUID) (*ResolvedCart, error)
	AddItem(ctx context.Context, cartID, productID uuid.UUID, delta int) (*models.Cart, error)
	RemoveItem(ctx context.Context, cartID, productID uuid.UUID) (*models.Cart, error)
	ReplaceItems(ctx context.Context, cartID uuid.UUID, items []ItemInput) (*models.Cart, error)
	SetItemQuantity(ctx context.Context, cartID, productID uuid.UUID, quantity int) (*models.Cart, error)
	ClearCart(ctx context.Context, cartID uuid.UUID) (*models.Cart, error)
}

type service struct {
	repo     Repository
	products products.Repository
}

// NewService builds a cart service backed by the provided repositories.
func NewService(repo Repository, productRepo products.Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	if productRepo == nil {
		return nil, fmt.Errorf("product repository required")
	}
	return &service{repo: repo, products: productRepo}, nil
}

// CreateCart persists a new cart with an empty item array.
func (s *service) CreateCart(ctx context.Context) (*models.Cart, error) {
	cart, err := s.repo.Create(ctx, &models.Cart{Items: types.CartItems{}})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create cart")
	}
	return cart, nil
}

// GetCart returns the cart with each item's product resolved. An item whose
// product has been deleted keeps its entry with a nil product.
func (s *service) GetCart(ctx context.Context, cartID uuid.UUID) (*ResolvedCart, error) {
	cart, err := s.loadCart(ctx, cartID)
	if err != nil {
		return nil, err
	}

	resolved := &ResolvedCart{
		ID:        cart.ID,
		Items:     make([]ResolvedItem, 0, len(cart.Items)),
		CreatedAt: cart.CreatedAt,
		UpdatedAt: cart.UpdatedAt,
	}
	for _, item := range cart.Items {
		product, err := s.products.FindByID(ctx, item.ProductID)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
		}
		resolved.Items = append(resolved.Items, ResolvedItem{Product: product, Quantity: item.Quantity})
	}
	return resolved, nil
}

// AddItem reserves delta units of stock and then adds them to the cart,
// merging into an existing entry for the same product.
func (s *service) AddItem(ctx context.Context, cartID, productID uuid.UUID, delta int) (*models.Cart, error) {
	if delta < 1 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive")
	}

	cart, err := s.loadCart(ctx, cartID)
	if err != nil {
		return nil, err
	}
	product, err := s.loadProduct(ctx, productID)
	if err != nil {
		return nil, err
	}

	if product.Stock < delta {
		return nil, pkgerrors.New(pkgerrors.CodeInsufficientStock, "not enough stock for this product")
	}

	// stock first, cart second
	product.Stock -= delta
	if err := s.products.Save(ctx, product); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save product")
	}

	if idx := cart.Items.IndexOf(productID); idx >= 0 {
		cart.Items[idx].Quantity += delta
	} else {
		cart.Items = append(cart.Items, types.CartItem{ProductID: productID, Quantity: delta})
	}

	if err := s.repo.Save(ctx, cart); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save cart")
	}
	return cart, nil
}

// RemoveItem drops the whole entry for the product and restores its quantity
// to stock. A product that no longer exists is skipped without error.
func (s *service) RemoveItem(ctx context.Context, cartID, productID uuid.UUID) (*models.Cart, error) {
	cart, err := s.loadCart(ctx, cartID)
	if err != nil {
		return nil, err
	}

	idx := cart.Items.IndexOf(productID)
	if idx < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not in cart")
	}
	removedQty := cart.Items[idx].Quantity

	product, err := s.products.FindByID(ctx, productID)
	switch {
	case err == nil:
		product.Stock += removedQty
		if err := s.products.Save(ctx, product); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save product")
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
		// product gone, nothing to restore
	default:
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}

	cart.Items = cart.Items.Without(productID)
	if err := s.repo.Save(ctx, cart); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save cart")
	}
	return cart, nil
}

// ReplaceItems swaps the item array wholesale. Stock is not reconciled here;
// the caller owns any inventory consequences.
func (s *service) ReplaceItems(ctx context.Context, cartID uuid.UUID, items []ItemInput) (*models.Cart, error) {
	cart, err := s.loadCart(ctx, cartID)
	if err != nil {
		return nil, err
	}

	next := make(types.CartItems, 0, len(items))
	for _, item := range items {
		next = append(next, types.CartItem{ProductID: item.ProductID, Quantity: item.Quantity})
	}
	cart.Items = next

	if err := s.repo.Save(ctx, cart); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save cart")
	}
	return cart, nil
}

// SetItemQuantity moves the entry to an absolute quantity, adjusting stock by
// the difference. The quantity itself is stored as given, zero and negative
// included.
func (s *service) SetItemQuantity(ctx context.Context, cartID, productID uuid.UUID, quantity int) (*models.Cart, error) {
	cart, err := s.loadCart(ctx, cartID)
	if err != nil {
		return nil, err
	}

	idx := cart.Items.IndexOf(productID)
	if idx < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not in cart")
	}

	product, err := s.loadProduct(ctx, productID)
	if err != nil {
		return nil, err
	}

	diff := quantity - cart.Items[idx].Quantity
	switch {
	case diff > 0:
		if product.Stock < diff {
			return nil, pkgerrors.New(pkgerrors.CodeInsufficientStock, "not enough stock to increase the quantity")
		}
		product.Stock -= diff
	case diff < 0:
		product.Stock += -diff
	}

	// saved even when diff == 0
	if err := s.products.Save(ctx, product); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save product")
	}

	cart.Items[idx].Quantity = quantity
	if err := s.repo.Save(ctx, cart); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save cart")
	}
	return cart, nil
}

// ClearCart restores stock for every item whose product still exists, then
// empties the item array. Restoration is per-item independent: a missing or
// failing product does not block the others. Failures are aggregated and, if
// any occurred, reported without emptying the cart.
func (s *service) ClearCart(ctx context.Context, cartID uuid.UUID) (*models.Cart, error) {
	cart, err := s.loadCart(ctx, cartID)
	if err != nil {
		return nil, err
	}

	var restoreErr error
	for _, item := range cart.Items {
		product, err := s.products.FindByID(ctx, item.ProductID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				continue
			}
			restoreErr = multierr.Append(restoreErr, fmt.Errorf("load product %s: %w", item.ProductID, err))
			continue
		}
		product.Stock += item.Quantity
		if err := s.products.Save(ctx, product); err != nil {
			restoreErr = multierr.Append(restoreErr, fmt.Errorf("restore stock for %s: %w", item.ProductID, err))
		}
	}
	if restoreErr != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, restoreErr, "restore stock")
	}

	cart.Items = types.CartItems{}
	if err := s.repo.Save(ctx, cart); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save cart")
	}
	return cart, nil
}

func (s *service) loadCart(ctx context.Context, cartID uuid.UUID) (*models.Cart, error) {
	cart, err := s.repo.FindByID(ctx, cartID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "cart not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}
	return cart, nil
}

func (s *service) loadProduct(ctx context.Context, productID uuid.UUID) (*models.Product, error) {
	product, err := s.products.FindByID(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	return product, nil
}
