package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/carlosmendieta/modique-backend/pkg/enums"
	"github.com/carlosmendieta/modique-backend/pkg/types"
)

// Order is an immutable purchase snapshot. OrderNumber is the
// human-readable public identifier issued by the counter, e.g. "Order_07".
type Order struct {
	ID                   uuid.UUID           `gorm:"column:id;type:uuid;primaryKey"`
	OrderNumber          string              `gorm:"column:order_number;not null;uniqueIndex"`
	UserID               uuid.UUID           `gorm:"column:user_id;type:uuid;not null;index"`
	Items                []OrderItem         `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	ShippingAddress      *types.Address      `gorm:"column:shipping_address;type:jsonb;serializer:json"`
	PaymentMethod        enums.PaymentMethod `gorm:"column:payment_method;not null;default:'COD'"`
	PaymentStatus        enums.PaymentStatus `gorm:"column:payment_status;not null;default:'Pending'"`
	PaymentTransactionID *string             `gorm:"column:payment_transaction_id"`
	SubtotalCents        int64               `gorm:"column:subtotal_cents;not null"`
	ShippingFeeCents     int64               `gorm:"column:shipping_fee_cents;not null;default:0"`
	TotalCents           int64               `gorm:"column:total_cents;not null"`
	Status               enums.OrderStatus   `gorm:"column:status;not null;default:'Pending'"`
	PaidAt               *time.Time          `gorm:"column:paid_at"`
	CreatedAt            time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt            time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}

func (o *Order) BeforeCreate(tx *gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}

// OrderItem is one (product, size, quantity) line captured at creation.
type OrderItem struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	OrderID   uuid.UUID `gorm:"column:order_id;type:uuid;not null;index"`
	ProductID uuid.UUID `gorm:"column:product_id;type:uuid;not null"`
	Product   *Product  `gorm:"foreignKey:ProductID"`
	Size      string    `gorm:"column:size;not null"`
	Quantity  int       `gorm:"column:quantity;not null"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (i *OrderItem) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}
