package cart

import (
	"context"

	"github.com/carlosmendieta/modique-backend/pkg/db/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository exposes persistence operations for carts and their items.
type Repository interface {
	FindByUser(ctx context.Context, userID uuid.UUID) (*models.Cart, error)
	Create(ctx context.Context, cart *models.Cart) (*models.Cart, error)
	CreateItem(ctx context.Context, item *models.CartItem) (*models.CartItem, error)
	CreateVariant(ctx context.Context, variant *models.CartVariant) (*models.CartVariant, error)
	UpdateVariantQuantity(ctx context.Context, variantID uuid.UUID, quantity int) error
	DeleteVariant(ctx context.Context, variantID uuid.UUID) error
	DeleteItem(ctx context.Context, itemID uuid.UUID) error
	DeleteItemsByCart(ctx context.Context, cartID uuid.UUID) error
	WithTx(tx *gorm.DB) Repository
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a cart repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) FindByUser(ctx context.Context, userID uuid.UUID) (*models.Cart, error) {
	var cart models.Cart
	err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("cart_items.created_at ASC")
		}).
		Preload("Items.Product.Sizes").
		Preload("Items.Variants", func(db *gorm.DB) *gorm.DB {
			return db.Order("cart_variants.created_at ASC")
		}).
		Where("user_id = ?", userID).
		First(&cart).Error
	if err != nil {
		return nil, err
	}
	return &cart, nil
}

func (r *repository) Create(ctx context.Context, cart *models.Cart) (*models.Cart, error) {
	if err := r.db.WithContext(ctx).Create(cart).Error; err != nil {
		return nil, err
	}
	return cart, nil
}

func (r *repository) CreateItem(ctx context.Context, item *models.CartItem) (*models.CartItem, error) {
	if err := r.db.WithContext(ctx).Create(item).Error; err != nil {
		return nil, err
	}
	return item, nil
}

func (r *repository) CreateVariant(ctx context.Context, variant *models.CartVariant) (*models.CartVariant, error) {
	if err := r.db.WithContext(ctx).Create(variant).Error; err != nil {
		return nil, err
	}
	return variant, nil
}

func (r *repository) UpdateVariantQuantity(ctx context.Context, variantID uuid.UUID, quantity int) error {
	return r.db.WithContext(ctx).
		Model(&models.CartVariant{}).
		Where("id = ?", variantID).
		Update("quantity", quantity).Error
}

func (r *repository) DeleteVariant(ctx context.Context, variantID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("id = ?", variantID).
		Delete(&models.CartVariant{}).Error
}

func (r *repository) DeleteItem(ctx context.Context, itemID uuid.UUID) error {
	err := r.db.WithContext(ctx).
		Where("item_id = ?", itemID).
		Delete(&models.CartVariant{}).Error
	if err != nil {
		return err
	}
	return r.db.WithContext(ctx).
		Where("id = ?", itemID).
		Delete(&models.CartItem{}).Error
}

func (r *repository) DeleteItemsByCart(ctx context.Context, cartID uuid.UUID) error {
	err := r.db.WithContext(ctx).
		Where("item_id IN (?)", r.db.Model(&models.CartItem{}).Select("id").Where("cart_id = ?", cartID)).
		Delete(&models.CartVariant{}).Error
	if err != nil {
		return err
	}
	return r.db.WithContext(ctx).
		Where("cart_id = ?", cartID).
		Delete(&models.CartItem{}).Error
}
