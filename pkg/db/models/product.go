package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Product represents a storefront listing. Stock is tracked per size
// on the associated ProductSize rows.
type Product struct {
	ID         uuid.UUID     `gorm:"column:id;type:uuid;primaryKey"`
	SKU        string        `gorm:"column:sku;not null;uniqueIndex"`
	Title      string        `gorm:"column:title;not null"`
	Subtitle   *string       `gorm:"column:subtitle"`
	BodyHTML   *string       `gorm:"column:body_html"`
	PriceCents int64         `gorm:"column:price_cents;not null"`
	IsActive   bool          `gorm:"column:is_active;not null;default:true"`
	Sizes      []ProductSize `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	CreatedAt  time.Time     `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time     `gorm:"column:updated_at;autoUpdateTime"`
}

func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// SizeStock returns the stock ledger entry for a size label, or nil
// when the product is not offered in that size.
func (p *Product) SizeStock(size string) *ProductSize {
	for i := range p.Sizes {
		if p.Sizes[i].Size == size {
			return &p.Sizes[i]
		}
	}
	return nil
}

// ProductSize is the per-size stock ledger for a product.
type ProductSize struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	ProductID uuid.UUID `gorm:"column:product_id;type:uuid;not null;uniqueIndex:product_sizes_product_size_key"`
	Size      string    `gorm:"column:size;not null;uniqueIndex:product_sizes_product_size_key"`
	Stock     int       `gorm:"column:stock;not null;default:0"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (s *ProductSize) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}
