package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Cart is the single mutable cart owned by a user. The row id equals
// the owning user's id, which keeps cart lookups key-addressable.
type Cart struct {
	ID        uuid.UUID  `gorm:"column:id;type:uuid;primaryKey"`
	UserID    uuid.UUID  `gorm:"column:user_id;type:uuid;not null;uniqueIndex"`
	IsActive  bool       `gorm:"column:is_active;not null;default:true"`
	Items     []CartItem `gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}

// CartItem groups one product's size variants inside a cart. A cart
// holds at most one item row per product.
type CartItem struct {
	ID        uuid.UUID     `gorm:"column:id;type:uuid;primaryKey"`
	CartID    uuid.UUID     `gorm:"column:cart_id;type:uuid;not null;uniqueIndex:cart_items_cart_product_key"`
	ProductID uuid.UUID     `gorm:"column:product_id;type:uuid;not null;uniqueIndex:cart_items_cart_product_key"`
	Product   *Product      `gorm:"foreignKey:ProductID"`
	Variants  []CartVariant `gorm:"foreignKey:ItemID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time     `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time     `gorm:"column:updated_at;autoUpdateTime"`
}

func (i *CartItem) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

// VariantFor returns the size entry for an item, or nil when the size
// is not in the cart.
func (i *CartItem) VariantFor(size string) *CartVariant {
	for v := range i.Variants {
		if i.Variants[v].Size == size {
			return &i.Variants[v]
		}
	}
	return nil
}

// CartVariant is a single (size, quantity) entry under a cart item.
type CartVariant struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	ItemID    uuid.UUID `gorm:"column:item_id;type:uuid;not null;uniqueIndex:cart_variants_item_size_key"`
	Size      string    `gorm:"column:size;not null;uniqueIndex:cart_variants_item_size_key"`
	Quantity  int       `gorm:"column:quantity;not null"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (v *CartVariant) BeforeCreate(tx *gorm.DB) error {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	return nil
}
