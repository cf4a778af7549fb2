package cart

import (
	"context"
	"errors"

	product "github.com/carlosmendieta/modique-backend/internal/products"
	"github.com/carlosmendieta/modique-backend/pkg/db/models"
	"github.com/carlosmendieta/modique-backend/pkg/enums"
	pkgerrors "github.com/carlosmendieta/modique-backend/pkg/errors"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service defines the cart operations exposed to the API layer.
type Service interface {
	Get(ctx context.Context, userID uuid.UUID) (*View, error)
	AddItem(ctx context.Context, userID uuid.UUID, input AddItemInput) (*View, error)
	UpdateQuantity(ctx context.Context, userID uuid.UUID, input UpdateQuantityInput) (*View, error)
	RemoveItem(ctx context.Context, userID uuid.UUID, input RemoveItemInput) (*View, error)
	Clear(ctx context.Context, userID uuid.UUID) (*View, error)
}

type service struct {
	repo     Repository
	products product.Repository
	tx       txRunner
}

// NewService builds a cart service with the required dependencies.
func NewService(repo Repository, products product.Repository, tx txRunner) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart repository is required")
	}
	if products == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product repository is required")
	}
	if tx == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "transaction runner is required")
	}
	return &service{repo: repo, products: products, tx: tx}, nil
}

func (s *service) Get(ctx context.Context, userID uuid.UUID) (*View, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	cart, err := s.repo.FindByUser(ctx, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return EmptyView(userID), nil
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load cart")
	}
	return NewView(cart), nil
}

func (s *service) AddItem(ctx context.Context, userID uuid.UUID, input AddItemInput) (*View, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	if input.ProductID == uuid.Nil || input.Size == "" || input.Quantity == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "productId, size, and quantity are required")
	}
	if input.Quantity < 1 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1")
	}

	var view *View
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		products := s.products.WithTx(tx)

		prod, err := products.FindByID(ctx, input.ProductID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "Product not found")
		}
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load product")
		}

		sizeRow := prod.SizeStock(input.Size)
		if sizeRow == nil {
			return pkgerrors.Validationf("Size '%s' not available", input.Size)
		}
		if input.Quantity > sizeRow.Stock {
			return pkgerrors.Validationf("Only %d items available for size '%s'", sizeRow.Stock, input.Size)
		}

		cart, err := repo.FindByUser(ctx, userID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			cart, err = repo.Create(ctx, &models.Cart{ID: userID, UserID: userID, IsActive: true})
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create cart")
			}
		} else if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load cart")
		}

		item := findItem(cart, input.ProductID)
		switch {
		case item != nil && item.VariantFor(input.Size) != nil:
			variant := item.VariantFor(input.Size)
			if variant.Quantity+input.Quantity > sizeRow.Stock {
				return pkgerrors.Validationf("Only %d items available for size '%s'",
					sizeRow.Stock-variant.Quantity, input.Size)
			}
			if err := repo.UpdateVariantQuantity(ctx, variant.ID, variant.Quantity+input.Quantity); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update variant quantity")
			}
		case item != nil:
			_, err := repo.CreateVariant(ctx, &models.CartVariant{
				ItemID:   item.ID,
				Size:     input.Size,
				Quantity: input.Quantity,
			})
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create variant")
			}
		default:
			created, err := repo.CreateItem(ctx, &models.CartItem{
				CartID:    cart.ID,
				ProductID: input.ProductID,
			})
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create item")
			}
			_, err = repo.CreateVariant(ctx, &models.CartVariant{
				ItemID:   created.ID,
				Size:     input.Size,
				Quantity: input.Quantity,
			})
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create variant")
			}
		}

		view, err = s.reload(ctx, repo, userID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return view, nil
}

func (s *service) UpdateQuantity(ctx context.Context, userID uuid.UUID, input UpdateQuantityInput) (*View, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	if input.ProductID == uuid.Nil || input.Size == "" || input.Action == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "productId, size, and action are required")
	}

	var view *View
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		products := s.products.WithTx(tx)

		cart, err := repo.FindByUser(ctx, userID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "Cart not found")
		}
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load cart")
		}

		item := findItem(cart, input.ProductID)
		if item == nil {
			return pkgerrors.New(pkgerrors.CodeNotFound, "Product not in cart")
		}
		variant := item.VariantFor(input.Size)
		if variant == nil {
			return pkgerrors.New(pkgerrors.CodeNotFound, "Product size not in cart")
		}

		action, err := enums.ParseQuantityAction(input.Action)
		if err != nil {
			return pkgerrors.New(pkgerrors.CodeValidation, "Invalid action, must be 'increment' or 'decrement'")
		}

		switch action {
		case enums.QuantityActionIncrement:
			prod, err := products.FindByID(ctx, input.ProductID)
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "Product not found")
			}
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load product")
			}
			sizeRow := prod.SizeStock(input.Size)
			if sizeRow == nil {
				return pkgerrors.Validationf("Size '%s' not available", input.Size)
			}
			if variant.Quantity+1 > sizeRow.Stock {
				return pkgerrors.Validationf("Only %d items available for size '%s'", sizeRow.Stock, input.Size)
			}
			if err := repo.UpdateVariantQuantity(ctx, variant.ID, variant.Quantity+1); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update variant quantity")
			}
		case enums.QuantityActionDecrement:
			if variant.Quantity-1 <= 0 {
				if err := repo.DeleteVariant(ctx, variant.ID); err != nil {
					return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete variant")
				}
				if len(item.Variants) == 1 {
					if err := repo.DeleteItem(ctx, item.ID); err != nil {
						return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete item")
					}
				}
			} else if err := repo.UpdateVariantQuantity(ctx, variant.ID, variant.Quantity-1); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update variant quantity")
			}
		}

		view, err = s.reload(ctx, repo, userID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return view, nil
}

func (s *service) RemoveItem(ctx context.Context, userID uuid.UUID, input RemoveItemInput) (*View, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	if input.ProductID == uuid.Nil || input.Size == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "productId and size are required")
	}

	var view *View
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		cart, err := repo.FindByUser(ctx, userID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "Cart not found")
		}
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load cart")
		}

		item := findItem(cart, input.ProductID)
		if item == nil {
			return pkgerrors.New(pkgerrors.CodeNotFound, "Product not in cart")
		}

		// A size that is not in the cart is a no-op removal, not an error.
		if variant := item.VariantFor(input.Size); variant != nil {
			if err := repo.DeleteVariant(ctx, variant.ID); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete variant")
			}
			if len(item.Variants) == 1 {
				if err := repo.DeleteItem(ctx, item.ID); err != nil {
					return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete item")
				}
			}
		}

		view, err = s.reload(ctx, repo, userID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return view, nil
}

func (s *service) Clear(ctx context.Context, userID uuid.UUID) (*View, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}

	var view *View
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		cart, err := repo.FindByUser(ctx, userID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "Cart not found")
		}
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load cart")
		}

		if err := repo.DeleteItemsByCart(ctx, cart.ID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "clear cart items")
		}

		view, err = s.reload(ctx, repo, userID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return view, nil
}

func (s *service) reload(ctx context.Context, repo Repository, userID uuid.UUID) (*View, error) {
	cart, err := repo.FindByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "reload cart")
	}
	return NewView(cart), nil
}

func findItem(cart *models.Cart, productID uuid.UUID) *models.CartItem {
	for i := range cart.Items {
		if cart.Items[i].ProductID == productID {
			return &cart.Items[i]
		}
	}
	return nil
}
