package domain

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/shopspring/decimal"
)

var (
	// Common domain errors
	ErrConfiguration       = errors.New("configuration error")
	ErrNotFound            = errors.New("entity not found")
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrGateway             = errors.New("gateway error")
	ErrInvalidInput        = errors.New("invalid input")

	ErrBusinessAccountNotFound = fmt.Errorf("%w: business account not found", ErrConfiguration)
	ErrPurseNotFound           = fmt.Errorf("%w: purse not found", ErrNotFound)
	ErrPaywayNotFound          = fmt.Errorf("%w: payway not found", ErrNotFound)
)

// Kind classifies an error so callers can branch without type switches.
type Kind int

const (
	KindUnknown Kind = iota
	KindConfiguration
	KindNotFound
	KindInsufficientBalance
	KindGateway
	KindInvalidInput
)

func (k Kind) String() string {
	switch k {
	case KindConfiguration:
		return "configuration"
	case KindNotFound:
		return "not_found"
	case KindInsufficientBalance:
		return "insufficient_balance"
	case KindGateway:
		return "gateway"
	case KindInvalidInput:
		return "invalid_input"
	default:
		return "unknown"
	}
}

// KindOf reports the kind of err, looking through wrapped errors.
func KindOf(err error) Kind {
	switch {
	case err == nil:
		return KindUnknown
	case errors.Is(err, ErrConfiguration):
		return KindConfiguration
	case errors.Is(err, ErrNotFound):
		return KindNotFound
	case errors.Is(err, ErrInsufficientBalance):
		return KindInsufficientBalance
	case errors.Is(err, ErrGateway):
		return KindGateway
	case errors.Is(err, ErrInvalidInput):
		return KindInvalidInput
	default:
		return KindUnknown
	}
}

// GatewayError is returned when the remote API refuses a call or cannot be reached.
// StatusCode is the HTTP status (0 when no response arrived), Code the envelope or
// result code reported by the gateway.
type GatewayError struct {
	StatusCode int
	Code       int
	Message    string
	Err        error
}

func (e *GatewayError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = "http status " + strconv.Itoa(e.StatusCode)
	}
	var inner *GatewayError
	if e.Err != nil && !errors.As(e.Err, &inner) {
		return "gateway: " + msg + ": " + e.Err.Error()
	}
	return "gateway: " + msg
}

func (e *GatewayError) Unwrap() error { return e.Err }

func (e *GatewayError) Is(target error) bool { return target == ErrGateway }

// InsufficientBalanceError carries both sides of a failed balance check.
type InsufficientBalanceError struct {
	Balance decimal.Decimal
	Amount  decimal.Decimal
}

func (e *InsufficientBalanceError) Error() string {
	return fmt.Sprintf("balance in purse (%s) less than withdraw amount (%s)", e.Balance.String(), e.Amount.String())
}

func (e *InsufficientBalanceError) Is(target error) bool { return target == ErrInsufficientBalance }

// InvalidInput wraps ErrInvalidInput with a caller-facing reason.
func InvalidInput(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}
