package payments

import (
	"context"
	"fmt"

	"github.com/carlosmendieta/modique-backend/pkg/enums"
	pkgerrors "github.com/carlosmendieta/modique-backend/pkg/errors"
	"github.com/google/uuid"
)

// ChargeInput carries what the processor needs to settle an order.
type ChargeInput struct {
	OrderNumber   string
	Method        enums.PaymentMethod
	AmountCents   int64
	TransactionID *string
}

// ChargeResult reports the processor's settlement outcome.
type ChargeResult struct {
	TransactionID string
	Status        enums.PaymentStatus
}

// Gateway settles a charge against a payment processor.
type Gateway interface {
	Charge(ctx context.Context, input ChargeInput) (*ChargeResult, error)
}

// StubGateway approves every charge. It echoes the client-provided
// transaction id when present and mints one otherwise.
type StubGateway struct{}

// NewStubGateway builds the always-approving gateway.
func NewStubGateway() *StubGateway {
	return &StubGateway{}
}

func (g *StubGateway) Charge(_ context.Context, input ChargeInput) (*ChargeResult, error) {
	if input.OrderNumber == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order number is required")
	}
	if !input.Method.IsValid() {
		return nil, pkgerrors.Validationf("invalid payment method %q", input.Method)
	}
	txnID := fmt.Sprintf("txn_%s", uuid.NewString())
	if input.TransactionID != nil && *input.TransactionID != "" {
		txnID = *input.TransactionID
	}
	return &ChargeResult{
		TransactionID: txnID,
		Status:        enums.PaymentStatusPaid,
	}, nil
}
