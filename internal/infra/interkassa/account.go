package interkassa

import (
	"context"
	"encoding/json"
	"net/http"

	"interkassa-merchant/internal/domain"
	"interkassa-merchant/internal/domain/ports/adapter"
	"interkassa-merchant/internal/infra/logging"

	"github.com/rs/zerolog"
)

// AccountResolver finds the business account id that scopes most API calls
// and keeps it in the cache for CacheTTL.
type AccountResolver struct {
	client *Client
	cache  adapter.Cache
	log    *zerolog.Logger
	dev    bool
}

func NewAccountResolver(client *Client, cache adapter.Cache, logger *zerolog.Logger, dev bool) *AccountResolver {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return &AccountResolver{client: client, cache: cache, log: logger, dev: dev}
}

// BusinessAccountID returns the id of the first account typed "business".
// With no such account it fails with domain.ErrBusinessAccountNotFound.
func (r *AccountResolver) BusinessAccountID(ctx context.Context) (string, error) {
	raw, err := readThrough(ctx, r.cache, r.log, CacheKeyAccountID, r.fetch)
	if err != nil {
		return "", err
	}
	var id string
	if err := json.Unmarshal(raw, &id); err != nil || id == "" {
		// unreadable cache entry: resolve again without trusting it
		raw, err = r.fetch(ctx)
		if err != nil {
			return "", err
		}
		if err := json.Unmarshal(raw, &id); err != nil {
			return "", err
		}
		if err := r.cache.Set(ctx, CacheKeyAccountID, raw, CacheTTL); err != nil {
			logging.With(ctx, r.log).Warn().Err(err).Msg("cache set failed")
		}
	}
	return id, nil
}

func (r *AccountResolver) fetch(ctx context.Context) (json.RawMessage, error) {
	data, err := r.client.Request(ctx, http.MethodGet, "account", "", nil)
	if err != nil {
		return nil, err
	}
	for _, acc := range parseAccounts(data) {
		if acc.IsBusiness() && acc.ID != "" {
			logging.With(ctx, r.log).Info().
				Str("account_id", logging.Redact(acc.ID, r.dev)).
				Msg("business account resolved")
			return json.Marshal(acc.ID)
		}
	}
	return nil, domain.ErrBusinessAccountNotFound
}
