package cart

import (
	"github.com/carlosmendieta/modique-backend/pkg/db/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AddItemInput carries the payload for adding a sized product to a cart.
type AddItemInput struct {
	ProductID uuid.UUID
	Size      string
	Quantity  int
}

// UpdateQuantityInput carries a single-step quantity adjustment.
type UpdateQuantityInput struct {
	ProductID uuid.UUID
	Size      string
	Action    string
}

// RemoveItemInput identifies the variant to drop from the cart.
type RemoveItemInput struct {
	ProductID uuid.UUID
	Size      string
}

// VariantView is one size/quantity pair on a cart item.
type VariantView struct {
	Size     string `json:"size"`
	Quantity int    `json:"quantity"`
}

// ProductSizeView exposes the live per-size stock on a resolved product.
type ProductSizeView struct {
	Size  string `json:"size"`
	Stock int    `json:"stock"`
}

// ProductView is the resolved product payload embedded in cart reads.
type ProductView struct {
	ID         uuid.UUID         `json:"id"`
	SKU        string            `json:"sku"`
	Title      string            `json:"title"`
	Subtitle   *string           `json:"subtitle,omitempty"`
	Price      string            `json:"price"`
	PriceCents int64             `json:"price_cents"`
	IsActive   bool              `json:"is_active"`
	Sizes      []ProductSizeView `json:"sizes"`
}

// ItemView groups a resolved product with its size variants.
type ItemView struct {
	ProductID uuid.UUID     `json:"product_id"`
	Product   *ProductView  `json:"product,omitempty"`
	Variants  []VariantView `json:"variants"`
}

// View is the cart payload returned by every cart operation.
type View struct {
	UserID uuid.UUID  `json:"user_id"`
	Items  []ItemView `json:"items"`
}

// EmptyView is the placeholder returned when a user has no cart yet.
func EmptyView(userID uuid.UUID) *View {
	return &View{UserID: userID, Items: []ItemView{}}
}

// NewView maps a persisted cart into its API shape.
func NewView(cart *models.Cart) *View {
	view := &View{
		UserID: cart.UserID,
		Items:  make([]ItemView, 0, len(cart.Items)),
	}
	for _, item := range cart.Items {
		itemView := ItemView{
			ProductID: item.ProductID,
			Variants:  make([]VariantView, 0, len(item.Variants)),
		}
		if item.Product != nil {
			itemView.Product = NewProductView(item.Product)
		}
		for _, variant := range item.Variants {
			itemView.Variants = append(itemView.Variants, VariantView{
				Size:     variant.Size,
				Quantity: variant.Quantity,
			})
		}
		view.Items = append(view.Items, itemView)
	}
	return view
}

// NewProductView maps a product row with its size rows into the read shape.
func NewProductView(product *models.Product) *ProductView {
	view := &ProductView{
		ID:         product.ID,
		SKU:        product.SKU,
		Title:      product.Title,
		Subtitle:   product.Subtitle,
		Price:      decimal.NewFromInt(product.PriceCents).Shift(-2).StringFixed(2),
		PriceCents: product.PriceCents,
		IsActive:   product.IsActive,
		Sizes:      make([]ProductSizeView, 0, len(product.Sizes)),
	}
	for _, size := range product.Sizes {
		view.Sizes = append(view.Sizes, ProductSizeView{Size: size.Size, Stock: size.Stock})
	}
	return view
}
