package model

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

const (
	DefaultCalcKey = "ikPayerPrice" // the payer covers the fee
	DefaultAction  = "calc"         // calculate only; "process" executes
)

// WithdrawalOrder is what a caller asks for: names and aliases, not gateway ids.
type WithdrawalOrder struct {
	PaymentNo   string
	PurseName   string
	PaywayAlias string
	Details     map[string]string
	Amount      decimal.Decimal
	CalcKey     string
	Action      string
}

// WithDefaults fills CalcKey and Action when they are empty.
func (o WithdrawalOrder) WithDefaults() WithdrawalOrder {
	if o.CalcKey == "" {
		o.CalcKey = DefaultCalcKey
	}
	if o.Action == "" {
		o.Action = DefaultAction
	}
	return o
}

// WithdrawalRequest is the resolved submission sent to the gateway.
type WithdrawalRequest struct {
	Amount    decimal.Decimal
	PaywayID  string
	Details   map[string]string
	PurseID   string
	CalcKey   string
	Action    string
	PaymentNo string
}

// WithdrawalResult is the gateway's answer to a withdrawal submission.
type WithdrawalResult struct {
	ResultCode    int
	ResultMessage string
	Transaction   json.RawMessage
}

func (r WithdrawalResult) Succeeded() bool { return r.ResultCode == 0 }

// WithdrawalStage names the steps of the withdrawal flow.
type WithdrawalStage string

const (
	StageStart          WithdrawalStage = "start"
	StagePurseResolved  WithdrawalStage = "purse_resolved"
	StageBalanceChecked WithdrawalStage = "balance_checked"
	StagePaywayResolved WithdrawalStage = "payway_resolved"
	StageSubmitted      WithdrawalStage = "submitted"
	StageSucceeded      WithdrawalStage = "succeeded"
	StageFailed         WithdrawalStage = "failed"
)
