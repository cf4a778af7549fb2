package orders

import (
	"time"

	"github.com/carlosmendieta/modique-backend/pkg/db/models"
	"github.com/carlosmendieta/modique-backend/pkg/types"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ItemInput is one (product, size, quantity) line in a checkout request.
type ItemInput struct {
	ProductID uuid.UUID
	Size      string
	Quantity  int
}

// CreateInput carries the checkout payload. Amounts are recomputed from
// the catalog, only the shipping fee is taken from the client.
type CreateInput struct {
	Items            []ItemInput
	ShippingAddress  types.Address
	ShippingFeeCents int64
}

// PaymentInput carries the payment-confirmation payload.
type PaymentInput struct {
	Method        string
	TransactionID *string
}

// ProductView is the resolved product summary embedded in order reads.
type ProductView struct {
	ID         uuid.UUID `json:"id"`
	SKU        string    `json:"sku"`
	Title      string    `json:"title"`
	Price      string    `json:"price"`
	PriceCents int64     `json:"price_cents"`
}

// ItemView is one order line with its product resolved.
type ItemView struct {
	ProductID uuid.UUID    `json:"product_id"`
	Product   *ProductView `json:"product,omitempty"`
	Size      string       `json:"size"`
	Quantity  int          `json:"quantity"`
}

// PaymentView reports the order's payment state.
type PaymentView struct {
	Method        string  `json:"method"`
	Status        string  `json:"status"`
	TransactionID *string `json:"transaction_id,omitempty"`
}

// View is the order payload returned by every order operation.
type View struct {
	OrderNumber      string         `json:"order_number"`
	UserID           uuid.UUID      `json:"user_id"`
	Items            []ItemView     `json:"items"`
	ShippingAddress  *types.Address `json:"shipping_address,omitempty"`
	Payment          PaymentView    `json:"payment"`
	Subtotal         string         `json:"subtotal"`
	SubtotalCents    int64          `json:"subtotal_cents"`
	ShippingFee      string         `json:"shipping_fee"`
	ShippingFeeCents int64          `json:"shipping_fee_cents"`
	Total            string         `json:"total"`
	TotalCents       int64          `json:"total_cents"`
	Status           string         `json:"status"`
	PaidAt           *time.Time     `json:"paid_at,omitempty"`
	CreatedAt        time.Time      `json:"created_at"`
}

// NewView maps a persisted order into its API shape.
func NewView(order *models.Order) *View {
	view := &View{
		OrderNumber:      order.OrderNumber,
		UserID:           order.UserID,
		Items:            make([]ItemView, 0, len(order.Items)),
		ShippingAddress:  order.ShippingAddress,
		Payment:          PaymentView{Method: order.PaymentMethod.String(), Status: order.PaymentStatus.String(), TransactionID: order.PaymentTransactionID},
		Subtotal:         formatCents(order.SubtotalCents),
		SubtotalCents:    order.SubtotalCents,
		ShippingFee:      formatCents(order.ShippingFeeCents),
		ShippingFeeCents: order.ShippingFeeCents,
		Total:            formatCents(order.TotalCents),
		TotalCents:       order.TotalCents,
		Status:           order.Status.String(),
		PaidAt:           order.PaidAt,
		CreatedAt:        order.CreatedAt,
	}
	for _, item := range order.Items {
		itemView := ItemView{
			ProductID: item.ProductID,
			Size:      item.Size,
			Quantity:  item.Quantity,
		}
		if item.Product != nil {
			itemView.Product = &ProductView{
				ID:         item.Product.ID,
				SKU:        item.Product.SKU,
				Title:      item.Product.Title,
				Price:      formatCents(item.Product.PriceCents),
				PriceCents: item.Product.PriceCents,
			}
		}
		view.Items = append(view.Items, itemView)
	}
	return view
}

// Page is one cursor-delimited slice of orders. NextCursor is empty on
// the last page.
type Page struct {
	Orders     []View `json:"orders"`
	NextCursor string `json:"nextCursor,omitempty"`
}

// NewViews maps a result set keeping its order.
func NewViews(orders []models.Order) []View {
	views := make([]View, 0, len(orders))
	for i := range orders {
		views = append(views, *NewView(&orders[i]))
	}
	return views
}

func formatCents(cents int64) string {
	return decimal.NewFromInt(cents).Shift(-2).StringFixed(2)
}
