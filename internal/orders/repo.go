package orders

import (
	"context"
	"time"

	"github.com/carlosmendieta/modique-backend/pkg/db/models"
	"github.com/carlosmendieta/modique-backend/pkg/enums"
	"github.com/carlosmendieta/modique-backend/pkg/pagination"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository exposes persistence operations for orders.
type Repository interface {
	Create(ctx context.Context, order *models.Order) (*models.Order, error)
	FindByOrderNumber(ctx context.Context, orderNumber string) (*models.Order, error)
	ListAll(ctx context.Context, cursor *pagination.Cursor, limit int) ([]models.Order, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Order, error)
	UpdatePayment(ctx context.Context, orderID uuid.UUID, update PaymentUpdate) error
	UpdateStatus(ctx context.Context, orderID uuid.UUID, status enums.OrderStatus) error
	WithTx(tx *gorm.DB) Repository
}

// PaymentUpdate carries the columns flipped when a payment lands.
type PaymentUpdate struct {
	Method        enums.PaymentMethod
	Status        enums.PaymentStatus
	TransactionID *string
	OrderStatus   enums.OrderStatus
	PaidAt        time.Time
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds an orders repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, order *models.Order) (*models.Order, error) {
	if err := r.db.WithContext(ctx).Create(order).Error; err != nil {
		return nil, err
	}
	return order, nil
}

func (r *repository) FindByOrderNumber(ctx context.Context, orderNumber string) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("order_items.created_at ASC")
		}).
		Preload("Items.Product.Sizes").
		Where("order_number = ?", orderNumber).
		First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *repository) ListAll(ctx context.Context, cursor *pagination.Cursor, limit int) ([]models.Order, error) {
	query := r.db.WithContext(ctx).
		Preload("Items.Product.Sizes").
		Order("created_at DESC, id DESC")
	if cursor != nil {
		query = query.Where(
			"created_at < ? OR (created_at = ? AND id < ?)",
			cursor.CreatedAt, cursor.CreatedAt, cursor.ID,
		)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}

	var orders []models.Order
	if err := query.Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *repository) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Order, error) {
	var orders []models.Order
	err := r.db.WithContext(ctx).
		Preload("Items.Product.Sizes").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&orders).Error
	if err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *repository) UpdatePayment(ctx context.Context, orderID uuid.UUID, update PaymentUpdate) error {
	return r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ?", orderID).
		Updates(map[string]any{
			"payment_method":         update.Method,
			"payment_status":         update.Status,
			"payment_transaction_id": update.TransactionID,
			"status":                 update.OrderStatus,
			"paid_at":                update.PaidAt,
		}).Error
}

func (r *repository) UpdateStatus(ctx context.Context, orderID uuid.UUID, status enums.OrderStatus) error {
	return r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ?", orderID).
		Update("status", status).Error
}
