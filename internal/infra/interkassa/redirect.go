package interkassa

import (
	"net/url"
	"strings"

	"interkassa-merchant/internal/domain"
	"interkassa-merchant/internal/infra/signature"
)

// FieldCheckoutID carries the checkout id in redirect and notification parameters.
const FieldCheckoutID = "ik_co_id"

// PaymentURL builds the checkout redirect: base plus ik_co_id and the caller's
// ik_ parameters as a query string. It does not sign; callers add ik_sign first.
func PaymentURL(base, coID string, params map[string]string) (string, error) {
	if len(params) == 0 {
		return "", domain.InvalidInput("payment params are empty")
	}
	u, err := url.Parse(base)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return "", domain.InvalidInput("checkout url %q is invalid", base)
	}

	q := url.Values{}
	for k, v := range params {
		if !strings.HasPrefix(k, signature.Prefix) || len(k) == len(signature.Prefix) {
			return "", domain.InvalidInput("param %q is not an %s parameter", k, signature.Prefix)
		}
		q.Set(k, v)
	}
	q.Set(FieldCheckoutID, coID)

	u.RawQuery = q.Encode()
	return u.String(), nil
}
