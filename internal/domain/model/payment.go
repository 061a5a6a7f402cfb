package model

import "github.com/shopspring/decimal"

// Invoice states reported in ik_inv_st.
const (
	InvoiceStateSuccess = "success"
	InvoiceStateFail    = "fail"
	InvoiceStateWaiting = "waitAccept"
)

// PaymentNotification is the gateway's server-to-server call about a checkout payment.
type PaymentNotification struct {
	CheckoutID  string          `json:"checkout_id"`
	PaymentNo   string          `json:"payment_no"`
	InvoiceID   string          `json:"invoice_id,omitempty"`
	State       string          `json:"state"`
	Amount      decimal.Decimal `json:"amount"`
	Currency    string          `json:"currency,omitempty"`
	PaywayAlias string          `json:"payway,omitempty"`
}

func (n PaymentNotification) Paid() bool { return n.State == InvoiceStateSuccess }
