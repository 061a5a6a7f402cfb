//go:build !integration

package usecase_test

import (
	"context"
	"net/url"
	"testing"

	"interkassa-merchant/internal/domain"
	"interkassa-merchant/internal/infra/signature"
	"interkassa-merchant/internal/usecase"

	"github.com/oklog/ulid/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testCoID   = "64b4d7a1e3f1"
	testSCIURL = "https://sci.example.test/"
)

func TestPaymentUseCase_CheckoutURL(t *testing.T) {
	ctx := context.Background()

	t.Run("signs the params with the checkout id and builds the redirect", func(t *testing.T) {
		signer := &MockSigner{Sig: "SIG=="}
		uc := usecase.NewPaymentUseCase(signer, testCoID, testSCIURL, newTestLogger())

		link, err := uc.CheckoutURL(ctx, map[string]string{
			"ik_am":    "100.00",
			"ik_cur":   "UAH",
			"ik_pm_no": "ORD-1",
			"ik_sign":  "forged",
		})
		require.NoError(t, err)

		u, err := url.Parse(link)
		require.NoError(t, err)
		assert.Equal(t, "sci.example.test", u.Host)
		q := u.Query()
		assert.Equal(t, testCoID, q.Get("ik_co_id"))
		assert.Equal(t, "ORD-1", q.Get("ik_pm_no"))
		assert.Equal(t, "SIG==", q.Get("ik_sign"))

		require.Len(t, signer.Signed, 1)
		signed := signer.Signed[0]
		assert.Equal(t, testCoID, signed["ik_co_id"])
		_, hasSign := signed["ik_sign"]
		assert.False(t, hasSign, "caller ik_sign must not take part in signing")
	})

	t.Run("overwrites a caller checkout id", func(t *testing.T) {
		signer := &MockSigner{Sig: "x"}
		uc := usecase.NewPaymentUseCase(signer, testCoID, testSCIURL, newTestLogger())

		link, err := uc.CheckoutURL(ctx, map[string]string{"ik_am": "1", "ik_co_id": "other"})
		require.NoError(t, err)

		u, _ := url.Parse(link)
		assert.Equal(t, testCoID, u.Query().Get("ik_co_id"))
		assert.Equal(t, testCoID, signer.Signed[0]["ik_co_id"])
	})

	t.Run("generates a payment number when absent", func(t *testing.T) {
		signer := &MockSigner{Sig: "x"}
		uc := usecase.NewPaymentUseCase(signer, testCoID, testSCIURL, newTestLogger())

		link, err := uc.CheckoutURL(ctx, map[string]string{"ik_am": "10"})
		require.NoError(t, err)

		u, _ := url.Parse(link)
		no := u.Query().Get("ik_pm_no")
		_, err = ulid.ParseStrict(no)
		assert.NoError(t, err, "payment number %q", no)
	})

	t.Run("real signer output verifies", func(t *testing.T) {
		signer, err := signature.NewSigner("secret", "", "md5", false)
		require.NoError(t, err)
		uc := usecase.NewPaymentUseCase(signer, testCoID, testSCIURL, newTestLogger())

		link, err := uc.CheckoutURL(ctx, map[string]string{"ik_am": "5.50", "ik_desc": "Order #2"})
		require.NoError(t, err)

		u, _ := url.Parse(link)
		params := map[string]string{}
		for k := range u.Query() {
			params[k] = u.Query().Get(k)
		}
		assert.True(t, signer.Verify(params))
	})

	invalid := []struct {
		name   string
		params map[string]string
	}{
		{"empty", map[string]string{}},
		{"foreign key", map[string]string{"ik_am": "1", "amount": "1"}},
		{"missing amount", map[string]string{"ik_cur": "UAH"}},
		{"non-numeric amount", map[string]string{"ik_am": "ten"}},
		{"zero amount", map[string]string{"ik_am": "0"}},
	}
	for _, tc := range invalid {
		t.Run("rejects "+tc.name, func(t *testing.T) {
			signer := &MockSigner{Sig: "x"}
			uc := usecase.NewPaymentUseCase(signer, testCoID, testSCIURL, newTestLogger())

			_, err := uc.CheckoutURL(ctx, tc.params)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
			assert.Empty(t, signer.Signed)
		})
	}
}

func TestPaymentUseCase_VerifyNotification(t *testing.T) {
	ctx := context.Background()
	signer, err := signature.NewSigner("secret", "test-secret", "md5", false)
	require.NoError(t, err)
	uc := usecase.NewPaymentUseCase(signer, testCoID, testSCIURL, newTestLogger())

	notification := func() map[string]string {
		p := map[string]string{
			"ik_co_id":  testCoID,
			"ik_pm_no":  "ORD-7",
			"ik_inv_id": "31415",
			"ik_inv_st": "success",
			"ik_am":     "12.34",
			"ik_cur":    "USD",
			"ik_pw_via": "visa_cpaytrz_merchant_usd",
		}
		p["ik_sign"] = signer.Sign(p)
		return p
	}

	t.Run("accepts a correctly signed notification", func(t *testing.T) {
		n, err := uc.VerifyNotification(ctx, notification())
		require.NoError(t, err)
		assert.Equal(t, "ORD-7", n.PaymentNo)
		assert.Equal(t, "31415", n.InvoiceID)
		assert.True(t, n.Paid())
		assert.True(t, n.Amount.Equal(decimal.RequireFromString("12.34")))
		assert.Equal(t, "visa_cpaytrz_merchant_usd", n.PaywayAlias)
	})

	t.Run("rejects a tampered amount", func(t *testing.T) {
		p := notification()
		p["ik_am"] = "1234.00"
		_, err := uc.VerifyNotification(ctx, p)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("rejects a missing signature", func(t *testing.T) {
		p := notification()
		delete(p, "ik_sign")
		_, err := uc.VerifyNotification(ctx, p)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("rejects a foreign checkout", func(t *testing.T) {
		other := &MockSigner{Sig: "x"}
		uc := usecase.NewPaymentUseCase(other, "another-checkout", testSCIURL, newTestLogger())
		p := notification()
		p["ik_sign"] = "x"
		_, err := uc.VerifyNotification(ctx, p)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})
}
