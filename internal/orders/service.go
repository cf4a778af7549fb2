package orders

import (
	"context"
	"errors"
	"time"

	"github.com/carlosmendieta/modique-backend/internal/orders/numbering"
	"github.com/carlosmendieta/modique-backend/internal/payments"
	product "github.com/carlosmendieta/modique-backend/internal/products"
	"github.com/carlosmendieta/modique-backend/pkg/db/models"
	"github.com/carlosmendieta/modique-backend/pkg/enums"
	pkgerrors "github.com/carlosmendieta/modique-backend/pkg/errors"
	"github.com/carlosmendieta/modique-backend/pkg/outbox"
	"github.com/carlosmendieta/modique-backend/pkg/pagination"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type outboxPublisher interface {
	Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
}

// Service defines the order lifecycle operations exposed to the API layer.
type Service interface {
	Create(ctx context.Context, userID uuid.UUID, input CreateInput) (*View, error)
	AddPayment(ctx context.Context, orderNumber string, input PaymentInput) (*View, error)
	UpdateStatus(ctx context.Context, orderNumber string, status string) (*View, error)
	GetByOrderNumber(ctx context.Context, orderNumber string) (*View, error)
	ListAll(ctx context.Context, params pagination.Params) (*Page, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]View, error)
}

type service struct {
	repo           Repository
	products       product.Repository
	numbers        numbering.Source
	tx             txRunner
	outbox         outboxPublisher
	gateway        payments.Gateway
	maxShippingFee int64
}

// NewService builds an orders service with the required dependencies.
func NewService(repo Repository, products product.Repository, numbers numbering.Source, tx txRunner, publisher outboxPublisher, gateway payments.Gateway, maxShippingFeeCents int64) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "orders repository is required")
	}
	if products == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product repository is required")
	}
	if numbers == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "number source is required")
	}
	if tx == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "transaction runner is required")
	}
	if publisher == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "outbox publisher is required")
	}
	if gateway == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "payment gateway is required")
	}
	if maxShippingFeeCents <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "max shipping fee must be positive")
	}
	return &service{
		repo:           repo,
		products:       products,
		numbers:        numbers,
		tx:             tx,
		outbox:         publisher,
		gateway:        gateway,
		maxShippingFee: maxShippingFeeCents,
	}, nil
}

func (s *service) Create(ctx context.Context, userID uuid.UUID, input CreateInput) (*View, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	if len(input.Items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "Order items are required")
	}
	if missing := input.ShippingAddress.Validate(); missing != "" {
		return nil, pkgerrors.Validationf("shipping address field '%s' is required", missing)
	}
	if input.ShippingFeeCents < 0 || input.ShippingFeeCents > s.maxShippingFee {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "Invalid shipping fee")
	}

	var view *View
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		products := s.products.WithTx(tx)

		var subtotal int64
		lines := make([]models.OrderItem, 0, len(input.Items))
		for _, line := range input.Items {
			if line.ProductID == uuid.Nil || line.Size == "" || line.Quantity < 1 {
				return pkgerrors.New(pkgerrors.CodeValidation, "each item requires productId, size, and a positive quantity")
			}
			prod, err := products.FindByID(ctx, line.ProductID)
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "Product not found")
			}
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load product")
			}
			sizeRow := prod.SizeStock(line.Size)
			if sizeRow == nil {
				return pkgerrors.Validationf("Size '%s' not available", line.Size)
			}
			if line.Quantity > sizeRow.Stock {
				return pkgerrors.Validationf("Only %d items available for size '%s'", sizeRow.Stock, line.Size)
			}
			subtotal += prod.PriceCents * int64(line.Quantity)
			lines = append(lines, models.OrderItem{
				ProductID: line.ProductID,
				Size:      line.Size,
				Quantity:  line.Quantity,
			})
		}

		orderNumber, err := s.numbers.NextOrderNumber(ctx, tx)
		if err != nil {
			return err
		}

		address := input.ShippingAddress
		order := &models.Order{
			OrderNumber:      orderNumber,
			UserID:           userID,
			Items:            lines,
			ShippingAddress:  &address,
			PaymentMethod:    enums.PaymentMethodCOD,
			PaymentStatus:    enums.PaymentStatusPending,
			SubtotalCents:    subtotal,
			ShippingFeeCents: input.ShippingFeeCents,
			TotalCents:       subtotal + input.ShippingFeeCents,
			Status:           enums.OrderStatusPending,
		}
		if _, err := repo.Create(ctx, order); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create order")
		}

		event := outbox.DomainEvent{
			EventType:     enums.EventOrderCreated,
			AggregateType: enums.AggregateOrder,
			AggregateID:   order.ID,
			Actor:         &outbox.ActorRef{UserID: userID},
			Data: outbox.OrderEventData{
				OrderNumber: order.OrderNumber,
				UserID:      userID.String(),
				Status:      order.Status.String(),
				TotalCents:  order.TotalCents,
			},
			Version: 1,
		}
		if err := s.outbox.Emit(ctx, tx, event); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "emit order created event")
		}

		view, err = s.reload(ctx, repo, orderNumber)
		return err
	})
	if err != nil {
		return nil, err
	}
	return view, nil
}

func (s *service) AddPayment(ctx context.Context, orderNumber string, input PaymentInput) (*View, error) {
	if orderNumber == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id is required")
	}
	method, err := enums.ParsePaymentMethod(input.Method)
	if err != nil {
		return nil, pkgerrors.Validationf("Invalid payment method '%s'", input.Method)
	}

	var view *View
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		order, err := repo.FindByOrderNumber(ctx, orderNumber)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "Order not found")
		}
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load order")
		}

		receipt, err := s.gateway.Charge(ctx, payments.ChargeInput{
			OrderNumber:   order.OrderNumber,
			Method:        method,
			AmountCents:   order.TotalCents,
			TransactionID: input.TransactionID,
		})
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "charge payment")
		}

		update := PaymentUpdate{
			Method:        method,
			Status:        receipt.Status,
			TransactionID: &receipt.TransactionID,
			OrderStatus:   enums.OrderStatusProcessing,
			PaidAt:        time.Now().UTC(),
		}
		if err := repo.UpdatePayment(ctx, order.ID, update); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "record payment")
		}

		event := outbox.DomainEvent{
			EventType:     enums.EventOrderPaid,
			AggregateType: enums.AggregateOrder,
			AggregateID:   order.ID,
			Actor:         &outbox.ActorRef{UserID: order.UserID},
			Data: outbox.OrderEventData{
				OrderNumber:   order.OrderNumber,
				UserID:        order.UserID.String(),
				Status:        enums.OrderStatusProcessing.String(),
				PaymentStatus: receipt.Status.String(),
				PaymentMethod: method.String(),
				TotalCents:    order.TotalCents,
			},
			Version: 1,
		}
		if err := s.outbox.Emit(ctx, tx, event); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "emit order paid event")
		}

		view, err = s.reload(ctx, repo, orderNumber)
		return err
	})
	if err != nil {
		return nil, err
	}
	return view, nil
}

func (s *service) UpdateStatus(ctx context.Context, orderNumber string, status string) (*View, error) {
	if orderNumber == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id is required")
	}
	parsed, err := enums.ParseOrderStatus(status)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "Invalid status")
	}

	var view *View
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		order, err := repo.FindByOrderNumber(ctx, orderNumber)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "Order not found")
		}
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load order")
		}

		// Any status may follow any other. There is no transition graph.
		if err := repo.UpdateStatus(ctx, order.ID, parsed); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update status")
		}

		event := outbox.DomainEvent{
			EventType:     enums.EventOrderStatusChanged,
			AggregateType: enums.AggregateOrder,
			AggregateID:   order.ID,
			Data: outbox.OrderEventData{
				OrderNumber: order.OrderNumber,
				UserID:      order.UserID.String(),
				Status:      parsed.String(),
			},
			Version: 1,
		}
		if err := s.outbox.Emit(ctx, tx, event); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "emit status changed event")
		}

		view, err = s.reload(ctx, repo, orderNumber)
		return err
	})
	if err != nil {
		return nil, err
	}
	return view, nil
}

func (s *service) GetByOrderNumber(ctx context.Context, orderNumber string) (*View, error) {
	if orderNumber == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id is required")
	}
	order, err := s.repo.FindByOrderNumber(ctx, orderNumber)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "Order not found")
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load order")
	}
	return NewView(order), nil
}

func (s *service) ListAll(ctx context.Context, params pagination.Params) (*Page, error) {
	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}

	limit := pagination.NormalizeLimit(params.Limit)
	orders, err := s.repo.ListAll(ctx, cursor, pagination.LimitWithBuffer(params.Limit))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list orders")
	}

	page := &Page{}
	if len(orders) > limit {
		orders = orders[:limit]
		last := orders[len(orders)-1]
		page.NextCursor = pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
	}
	page.Orders = NewViews(orders)
	return page, nil
}

func (s *service) ListByUser(ctx context.Context, userID uuid.UUID) ([]View, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	orders, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list user orders")
	}
	return NewViews(orders), nil
}

func (s *service) reload(ctx context.Context, repo Repository, orderNumber string) (*View, error) {
	order, err := repo.FindByOrderNumber(ctx, orderNumber)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "reload order")
	}
	return NewView(order), nil
}
