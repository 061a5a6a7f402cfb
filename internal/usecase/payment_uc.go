// File: internal/usecase/payment_uc.go
package usecase

import (
	"context"
	"strings"

	"interkassa-merchant/internal/domain"
	"interkassa-merchant/internal/domain/model"
	"interkassa-merchant/internal/domain/ports/adapter"
	"interkassa-merchant/internal/infra/interkassa"
	"interkassa-merchant/internal/infra/logging"
	"interkassa-merchant/internal/infra/metrics"
	"interkassa-merchant/internal/infra/signature"

	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// Checkout and notification fields the flow reads or fills in.
const (
	FieldAmount    = "ik_am"
	FieldPaymentNo = "ik_pm_no"
	FieldCurrency  = "ik_cur"
	FieldInvoiceID = "ik_inv_id"
	FieldState     = "ik_inv_st"
	FieldPayway    = "ik_pw_via"
)

// Compile-time check
var _ PaymentUseCase = (*paymentUC)(nil)

type PaymentUseCase interface {
	// CheckoutURL signs the ik_ parameters for the configured checkout and returns the redirect URL.
	CheckoutURL(ctx context.Context, params map[string]string) (string, error)
	// VerifyNotification checks a gateway interaction call and returns its decoded fields.
	VerifyNotification(ctx context.Context, params map[string]string) (model.PaymentNotification, error)
}

type paymentUC struct {
	signer adapter.PaymentSigner
	coID   string
	sciURL string
	log    *zerolog.Logger
}

func NewPaymentUseCase(signer adapter.PaymentSigner, coID, sciURL string, logger *zerolog.Logger) *paymentUC {
	return &paymentUC{signer: signer, coID: coID, sciURL: sciURL, log: logger}
}

func (u *paymentUC) CheckoutURL(ctx context.Context, params map[string]string) (string, error) {
	defer logging.TraceDuration(u.log, "PaymentUC.CheckoutURL")()

	if len(params) == 0 {
		return "", domain.InvalidInput("payment params are empty")
	}
	out := make(map[string]string, len(params)+3)
	for k, v := range params {
		if !strings.HasPrefix(k, signature.Prefix) {
			return "", domain.InvalidInput("param %q is not an %s parameter", k, signature.Prefix)
		}
		if k == signature.SignField {
			continue
		}
		out[k] = v
	}
	amount, err := decimal.NewFromString(out[FieldAmount])
	if err != nil || !amount.IsPositive() {
		return "", domain.InvalidInput("%s must be a positive amount, got %q", FieldAmount, out[FieldAmount])
	}
	if strings.TrimSpace(out[FieldPaymentNo]) == "" {
		out[FieldPaymentNo] = ulid.Make().String()
	}
	out[interkassa.FieldCheckoutID] = u.coID
	out[signature.SignField] = u.signer.Sign(out)
	metrics.IncSignature("sign", "ok")

	link, err := interkassa.PaymentURL(u.sciURL, u.coID, out)
	if err != nil {
		return "", err
	}
	metrics.IncCheckoutLink(out[FieldCurrency])
	logging.With(logging.WithPaymentNo(ctx, out[FieldPaymentNo]), u.log).Info().
		Str("amount", amount.String()).
		Str("currency", out[FieldCurrency]).
		Msg("checkout link issued")
	return link, nil
}

func (u *paymentUC) VerifyNotification(ctx context.Context, params map[string]string) (model.PaymentNotification, error) {
	defer logging.TraceDuration(u.log, "PaymentUC.VerifyNotification")()

	ctx = logging.WithPaymentNo(ctx, params[FieldPaymentNo])
	l := logging.With(ctx, u.log)

	if co := params[interkassa.FieldCheckoutID]; co != u.coID {
		metrics.IncSignature("verify", "invalid")
		l.Warn().Str("co_id", co).Msg("notification for a foreign checkout")
		return model.PaymentNotification{}, domain.InvalidInput("notification checkout %q does not match", co)
	}
	if params[signature.SignField] == "" || !u.signer.Verify(params) {
		metrics.IncSignature("verify", "invalid")
		l.Warn().Msg("notification signature mismatch")
		return model.PaymentNotification{}, domain.InvalidInput("notification signature mismatch")
	}
	metrics.IncSignature("verify", "ok")

	n := model.PaymentNotification{
		CheckoutID:  params[interkassa.FieldCheckoutID],
		PaymentNo:   params[FieldPaymentNo],
		InvoiceID:   params[FieldInvoiceID],
		State:       params[FieldState],
		Currency:    params[FieldCurrency],
		PaywayAlias: params[FieldPayway],
	}
	if v := params[FieldAmount]; v != "" {
		amount, err := decimal.NewFromString(v)
		if err != nil {
			return model.PaymentNotification{}, domain.InvalidInput("%s %q is not a number", FieldAmount, v)
		}
		n.Amount = amount
	}
	metrics.IncNotification(n.State)
	if n.Paid() {
		metrics.AddPaidAmount(n.Currency, n.Amount)
	}
	l.Info().Str("state", n.State).Str("invoice_id", n.InvoiceID).Msg("notification verified")
	return n, nil
}
