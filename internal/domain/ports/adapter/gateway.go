package adapter

import (
	"context"
	"encoding/json"

	"interkassa-merchant/internal/domain/model"
)

// WithdrawalGateway is the port the withdrawal flow talks to.
type WithdrawalGateway interface {
	// Purses is always fetched live.
	Purses(ctx context.Context) ([]model.Purse, error)
	// OutputPayways may be served from cache.
	OutputPayways(ctx context.Context) ([]model.Payway, error)
	// CreateWithdraw submits the request; a non-zero result code is returned in the result, not as an error.
	CreateWithdraw(ctx context.Context, req model.WithdrawalRequest) (model.WithdrawalResult, error)
}

// ResourceGateway exposes the gateway's listings as raw payloads.
type ResourceGateway interface {
	Accounts(ctx context.Context) (json.RawMessage, error)
	Checkouts(ctx context.Context) (json.RawMessage, error)
	PursesRaw(ctx context.Context) (json.RawMessage, error)
	CoInvoices(ctx context.Context) (json.RawMessage, error)
	Withdraws(ctx context.Context) (json.RawMessage, error)
	WithdrawByID(ctx context.Context, id string) (json.RawMessage, error)
	Currencies(ctx context.Context) (json.RawMessage, error)
	InputPayways(ctx context.Context) (json.RawMessage, error)
	OutputPaywaysRaw(ctx context.Context) (json.RawMessage, error)
}

// PaymentSigner signs outbound ik_ parameter sets and checks inbound ones.
type PaymentSigner interface {
	Sign(params map[string]string) string
	Verify(params map[string]string) bool
}
