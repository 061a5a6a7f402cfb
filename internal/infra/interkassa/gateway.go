package interkassa

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"

	"interkassa-merchant/internal/domain"
	"interkassa-merchant/internal/domain/model"
	"interkassa-merchant/internal/domain/ports/adapter"

	"github.com/rs/zerolog"
)

var (
	_ adapter.WithdrawalGateway = (*Gateway)(nil)
	_ adapter.ResourceGateway   = (*Gateway)(nil)
)

// Gateway exposes the gateway's resources. Account-scoped calls resolve the
// business account first; reference lists (currency, payways) are cached.
type Gateway struct {
	client   *Client
	accounts *AccountResolver
	cache    adapter.Cache
	log      *zerolog.Logger
}

func NewGateway(client *Client, accounts *AccountResolver, cache adapter.Cache, logger *zerolog.Logger) *Gateway {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return &Gateway{client: client, accounts: accounts, cache: cache, log: logger}
}

func (g *Gateway) scoped(ctx context.Context, method, path string, body map[string]any) (json.RawMessage, error) {
	accountID, err := g.accounts.BusinessAccountID(ctx)
	if err != nil {
		return nil, err
	}
	return g.client.Request(ctx, method, path, accountID, body)
}

func (g *Gateway) get(path string) func(context.Context) (json.RawMessage, error) {
	return func(ctx context.Context) (json.RawMessage, error) {
		return g.client.Request(ctx, http.MethodGet, path, "", nil)
	}
}

// Accounts lists the accounts available to the API user.
func (g *Gateway) Accounts(ctx context.Context) (json.RawMessage, error) {
	return g.client.Request(ctx, http.MethodGet, "account", "", nil)
}

// Checkouts lists the cash registers of the business account.
func (g *Gateway) Checkouts(ctx context.Context) (json.RawMessage, error) {
	return g.scoped(ctx, http.MethodGet, "checkout", nil)
}

func (g *Gateway) PursesRaw(ctx context.Context) (json.RawMessage, error) {
	return g.scoped(ctx, http.MethodGet, "purse", nil)
}

// Purses is never cached: balances must be live.
func (g *Gateway) Purses(ctx context.Context) ([]model.Purse, error) {
	data, err := g.PursesRaw(ctx)
	if err != nil {
		return nil, err
	}
	return parsePurses(data)
}

// CoInvoices lists checkout payments with their state.
func (g *Gateway) CoInvoices(ctx context.Context) (json.RawMessage, error) {
	return g.scoped(ctx, http.MethodGet, "co-invoice", nil)
}

func (g *Gateway) Withdraws(ctx context.Context) (json.RawMessage, error) {
	return g.scoped(ctx, http.MethodGet, "withdraw/", nil)
}

func (g *Gateway) WithdrawByID(ctx context.Context, id string) (json.RawMessage, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, domain.InvalidInput("withdraw id is empty")
	}
	return g.scoped(ctx, http.MethodGet, "withdraw/"+url.PathEscape(id), nil)
}

// CreateWithdraw submits a withdrawal. The gateway's result code is returned in the result.
func (g *Gateway) CreateWithdraw(ctx context.Context, req model.WithdrawalRequest) (model.WithdrawalResult, error) {
	details := req.Details
	if details == nil {
		details = map[string]string{}
	}
	data, err := g.scoped(ctx, http.MethodPost, "withdraw", map[string]any{
		"amount":    req.Amount,
		"paywayId":  req.PaywayID,
		"details":   details,
		"purseId":   req.PurseID,
		"calcKey":   req.CalcKey,
		"action":    req.Action,
		"paymentNo": req.PaymentNo,
	})
	if err != nil {
		return model.WithdrawalResult{}, err
	}
	return parseWithdrawResult(data)
}

func (g *Gateway) Currencies(ctx context.Context) (json.RawMessage, error) {
	return readThrough(ctx, g.cache, g.log, CacheKeyCurrency, g.get("currency"))
}

// InputPayways lists the payment directions for deposits.
func (g *Gateway) InputPayways(ctx context.Context) (json.RawMessage, error) {
	return readThrough(ctx, g.cache, g.log, CacheKeyInputPayways, g.get("paysystem-input-payway"))
}

// OutputPaywaysRaw lists withdrawal directions with their id, alias and required detail keys.
func (g *Gateway) OutputPaywaysRaw(ctx context.Context) (json.RawMessage, error) {
	return readThrough(ctx, g.cache, g.log, CacheKeyOutputPayways, g.get("paysystem-output-payway"))
}

func (g *Gateway) OutputPayways(ctx context.Context) ([]model.Payway, error) {
	data, err := g.OutputPaywaysRaw(ctx)
	if err != nil {
		return nil, err
	}
	return parsePayways(data), nil
}
