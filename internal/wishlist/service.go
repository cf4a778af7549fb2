package wishlist

import (
	"context"
	"errors"

	product "github.com/carlosmendieta/modique-backend/internal/products"
	pkgerrors "github.com/carlosmendieta/modique-backend/pkg/errors"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ServiceParams groups dependencies for the wishlist service.
type ServiceParams struct {
	WishlistRepo *Repository
	ProductRepo  product.Repository
}

// Service exposes business rules for wishlist management.
type Service interface {
	GetWishlist(ctx context.Context, userID uuid.UUID) (*View, error)
	AddItem(ctx context.Context, userID, productID uuid.UUID) (*View, error)
	RemoveItem(ctx context.Context, userID, productID uuid.UUID) (*View, error)
}

type service struct {
	wishlistRepo *Repository
	productRepo  product.Repository
}

// NewService builds a wishlist service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.WishlistRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "wishlist repo is required")
	}
	if params.ProductRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product repo is required")
	}
	return &service{
		wishlistRepo: params.WishlistRepo,
		productRepo:  params.ProductRepo,
	}, nil
}

// GetWishlist returns the user's saved products, newest first.
func (s *service) GetWishlist(ctx context.Context, userID uuid.UUID) (*View, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	view, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(view.Products) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "Wishlist not found")
	}
	return view, nil
}

// AddItem ensures the product exists and saves it, ignoring duplicates.
func (s *service) AddItem(ctx context.Context, userID, productID uuid.UUID) (*View, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	if productID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	if _, err := s.productRepo.FindByID(ctx, productID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "Product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load product")
	}
	if err := s.wishlistRepo.AddItem(ctx, userID, productID); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "add wishlist item")
	}
	return s.load(ctx, userID)
}

// RemoveItem drops the entry regardless of prior state. Unknown products
// are a no-op, but a user without any saved products gets a not-found.
func (s *service) RemoveItem(ctx context.Context, userID, productID uuid.UUID) (*View, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	if productID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	count, err := s.wishlistRepo.CountItems(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "count wishlist items")
	}
	if count == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "Wishlist not found")
	}
	if err := s.wishlistRepo.RemoveItem(ctx, userID, productID); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "remove wishlist item")
	}
	return s.load(ctx, userID)
}

func (s *service) load(ctx context.Context, userID uuid.UUID) (*View, error) {
	items, err := s.wishlistRepo.ListItems(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list wishlist items")
	}
	view := &View{UserID: userID, Products: make([]ProductView, 0, len(items))}
	for _, item := range items {
		prod, err := s.productRepo.FindByID(ctx, item.ProductID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			continue
		}
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "resolve wishlist product")
		}
		view.Products = append(view.Products, NewProductView(prod, item.CreatedAt))
	}
	return view, nil
}
