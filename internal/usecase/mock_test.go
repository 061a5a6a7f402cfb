//go:build !integration

package usecase_test

import (
	"context"
	"io"

	"interkassa-merchant/internal/domain/model"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/mock"
)

func newTestLogger() *zerolog.Logger {
	logger := zerolog.New(io.Discard)
	return &logger
}

// --- Mock WithdrawalGateway

type MockWithdrawalGateway struct {
	mock.Mock
}

func (m *MockWithdrawalGateway) Purses(ctx context.Context) ([]model.Purse, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Purse), args.Error(1)
}

func (m *MockWithdrawalGateway) OutputPayways(ctx context.Context) ([]model.Payway, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Payway), args.Error(1)
}

func (m *MockWithdrawalGateway) CreateWithdraw(ctx context.Context, req model.WithdrawalRequest) (model.WithdrawalResult, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(model.WithdrawalResult), args.Error(1)
}

// --- Mock PaymentSigner

// MockSigner signs with a fixed value and verifies by comparing against it.
type MockSigner struct {
	Sig    string
	Signed []map[string]string
}

func (m *MockSigner) Sign(params map[string]string) string {
	cp := make(map[string]string, len(params))
	for k, v := range params {
		cp[k] = v
	}
	m.Signed = append(m.Signed, cp)
	return m.Sig
}

func (m *MockSigner) Verify(params map[string]string) bool {
	return params["ik_sign"] == m.Sig
}
