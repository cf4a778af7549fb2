package wishlist

import (
	"time"

	"github.com/carlosmendieta/modique-backend/pkg/db/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SizeView is the per-size stock entry on a resolved wishlist product.
type SizeView struct {
	Size  string `json:"size"`
	Stock int    `json:"stock"`
}

// ProductView is one saved product with the time it was added.
type ProductView struct {
	ID         uuid.UUID  `json:"id"`
	SKU        string     `json:"sku"`
	Title      string     `json:"title"`
	Subtitle   *string    `json:"subtitle,omitempty"`
	Price      string     `json:"price"`
	PriceCents int64      `json:"price_cents"`
	IsActive   bool       `json:"is_active"`
	Sizes      []SizeView `json:"sizes"`
	AddedAt    time.Time  `json:"added_at"`
}

// View is the wishlist payload returned by every wishlist operation.
type View struct {
	UserID   uuid.UUID     `json:"user_id"`
	Products []ProductView `json:"products"`
}

// NewProductView maps a product row into the wishlist read shape.
func NewProductView(product *models.Product, addedAt time.Time) ProductView {
	view := ProductView{
		ID:         product.ID,
		SKU:        product.SKU,
		Title:      product.Title,
		Subtitle:   product.Subtitle,
		Price:      decimal.NewFromInt(product.PriceCents).Shift(-2).StringFixed(2),
		PriceCents: product.PriceCents,
		IsActive:   product.IsActive,
		Sizes:      make([]SizeView, 0, len(product.Sizes)),
		AddedAt:    addedAt,
	}
	for _, size := range product.Sizes {
		view.Sizes = append(view.Sizes, SizeView{Size: size.Size, Stock: size.Stock})
	}
	return view
}
