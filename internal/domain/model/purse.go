package model

import "github.com/shopspring/decimal"

// Purse is a balance-holding account inside the business account.
// Snapshots are fetched per call and never mutated.
type Purse struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Balance  decimal.Decimal `json:"balance"`
	Currency string          `json:"currency,omitempty"`
}

// Covers reports whether the purse can fund amount.
func (p Purse) Covers(amount decimal.Decimal) bool {
	return p.Balance.GreaterThanOrEqual(amount)
}

// FindPurse returns the first purse named name.
func FindPurse(purses []Purse, name string) (Purse, bool) {
	for _, p := range purses {
		if p.Name == name {
			return p, true
		}
	}
	return Purse{}, false
}
