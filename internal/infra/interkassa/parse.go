package interkassa

import (
	"encoding/json"
	"strconv"
	"strings"

	"interkassa-merchant/internal/domain"
	"interkassa-merchant/internal/domain/model"

	"github.com/shopspring/decimal"
	"github.com/tidwall/gjson"
)

// eachObject walks a list payload in document order. The gateway returns lists
// either as arrays or as objects keyed by id; order matters for first-match lookups.
func eachObject(data json.RawMessage, fn func(v gjson.Result) bool) {
	if len(data) == 0 {
		return
	}
	root := gjson.ParseBytes(data)
	if !root.IsObject() && !root.IsArray() {
		return
	}
	root.ForEach(func(_, v gjson.Result) bool {
		if !v.IsObject() {
			return true
		}
		return fn(v)
	})
}

func parseAccounts(data json.RawMessage) []model.Account {
	var out []model.Account
	eachObject(data, func(v gjson.Result) bool {
		out = append(out, model.Account{
			ID:   v.Get("_id").String(),
			Type: v.Get("tp").String(),
			Name: v.Get("name").String(),
		})
		return true
	})
	return out
}

func parsePurses(data json.RawMessage) ([]model.Purse, error) {
	var (
		out  []model.Purse
		perr error
	)
	eachObject(data, func(v gjson.Result) bool {
		balance := decimal.Zero
		if b := v.Get("balance"); b.Exists() && b.Type != gjson.Null {
			d, err := decimal.NewFromString(strings.TrimSpace(b.String()))
			if err != nil {
				perr = &domain.GatewayError{Message: "decode purse balance", Err: err}
				return false
			}
			balance = d
		}
		out = append(out, model.Purse{
			ID:       v.Get("id").String(),
			Name:     v.Get("name").String(),
			Balance:  balance,
			Currency: v.Get("cur").String(),
		})
		return true
	})
	if perr != nil {
		return nil, perr
	}
	return out, nil
}

func parsePayways(data json.RawMessage) []model.Payway {
	var out []model.Payway
	eachObject(data, func(v gjson.Result) bool {
		out = append(out, model.Payway{
			ID:              v.Get("id").String(),
			Alias:           v.Get("als").String(),
			RequiredDetails: detailKeys(v.Get("prm")),
		})
		return true
	})
	return out
}

// detailKeys reads prm, which is either an object keyed by detail name or a list of names.
func detailKeys(prm gjson.Result) []string {
	var keys []string
	switch {
	case prm.IsObject():
		prm.ForEach(func(k, _ gjson.Result) bool {
			keys = append(keys, k.String())
			return true
		})
	case prm.IsArray():
		prm.ForEach(func(_, v gjson.Result) bool {
			if v.Type == gjson.String {
				keys = append(keys, v.String())
			}
			return true
		})
	}
	return keys
}

// parseWithdrawResult reads {"@resultCode","@resultMessage","transaction"}.
// An absent result code counts as 0.
func parseWithdrawResult(data json.RawMessage) (model.WithdrawalResult, error) {
	if len(data) == 0 {
		return model.WithdrawalResult{}, nil
	}
	var out struct {
		ResultCode    json.Number     `json:"@resultCode"`
		ResultMessage string          `json:"@resultMessage"`
		Transaction   json.RawMessage `json:"transaction"`
	}
	if err := json.Unmarshal(data, &out); err != nil {
		return model.WithdrawalResult{}, &domain.GatewayError{Message: "decode withdraw result", Err: err}
	}
	code := 0
	if out.ResultCode != "" {
		n, err := strconv.Atoi(out.ResultCode.String())
		if err != nil {
			return model.WithdrawalResult{}, &domain.GatewayError{Message: "decode withdraw result code", Err: err}
		}
		code = n
	}
	return model.WithdrawalResult{
		ResultCode:    code,
		ResultMessage: out.ResultMessage,
		Transaction:   out.Transaction,
	}, nil
}
