//go:build !integration

package domain

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
)

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{"nil", nil, KindUnknown},
		{"plain", errors.New("x"), KindUnknown},
		{"business account", ErrBusinessAccountNotFound, KindConfiguration},
		{"purse", ErrPurseNotFound, KindNotFound},
		{"payway wrapped", fmt.Errorf("withdraw: %w", ErrPaywayNotFound), KindNotFound},
		{"balance", &InsufficientBalanceError{Balance: decimal.NewFromInt(1), Amount: decimal.NewFromInt(2)}, KindInsufficientBalance},
		{"gateway", &GatewayError{StatusCode: 500}, KindGateway},
		{"invalid input", InvalidInput("bad %s", "thing"), KindInvalidInput},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := KindOf(tc.err); got != tc.want {
				t.Fatalf("want %v, got %v", tc.want, got)
			}
		})
	}
}

func TestGatewayError_Message(t *testing.T) {
	if got := (&GatewayError{StatusCode: 503}).Error(); got != "gateway: http status 503" {
		t.Errorf("status only: %q", got)
	}
	if got := (&GatewayError{Code: 4, Message: "access denied"}).Error(); got != "gateway: access denied" {
		t.Errorf("message: %q", got)
	}
	inner := errors.New("connection reset")
	ge := &GatewayError{Message: "transport failure", Err: inner}
	if !errors.Is(ge, inner) || !strings.Contains(ge.Error(), "connection reset") {
		t.Errorf("wrapped: %q", ge.Error())
	}
}

func TestInsufficientBalanceError_Message(t *testing.T) {
	err := &InsufficientBalanceError{Balance: decimal.RequireFromString("10.5"), Amount: decimal.NewFromInt(50)}
	if got := err.Error(); got != "balance in purse (10.5) less than withdraw amount (50)" {
		t.Fatalf("got %q", got)
	}
	if !errors.Is(err, ErrInsufficientBalance) {
		t.Fatal("must match sentinel")
	}
}

func TestKind_String(t *testing.T) {
	if KindInsufficientBalance.String() != "insufficient_balance" || Kind(99).String() != "unknown" {
		t.Fatal("unexpected kind names")
	}
}
