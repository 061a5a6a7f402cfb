package interkassa

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"interkassa-merchant/internal/domain/ports/adapter"
	"interkassa-merchant/internal/infra/logging"
	"interkassa-merchant/internal/infra/metrics"

	"github.com/rs/zerolog"
)

const (
	CacheKeyCurrency      = "interkassa.currency"
	CacheKeyInputPayways  = "interkassa.input_payways"
	CacheKeyOutputPayways = "interkassa.output_payways"
	CacheKeyAccountID     = "interkassa.lk_api_account_id"

	CacheTTL = 86400 * time.Second
)

// readThrough returns the cached payload for key or, on a miss, fetches it,
// stores it for CacheTTL and returns it. Hits are returned as-is.
// A failing cache backend degrades to a plain fetch. Get and Set are not atomic.
func readThrough(ctx context.Context, cache adapter.Cache, log *zerolog.Logger, key string, fetch func(context.Context) (json.RawMessage, error)) (json.RawMessage, error) {
	name := strings.TrimPrefix(key, "interkassa.")
	l := logging.With(ctx, log)

	val, ok, err := cache.Get(ctx, key)
	switch {
	case err != nil:
		metrics.IncCacheError(name, "get")
		l.Warn().Err(err).Str("key", key).Msg("cache get failed; falling back to gateway")
	case ok:
		metrics.IncCacheRequest(name, "hit")
		return val, nil
	}

	metrics.IncCacheRequest(name, "miss")
	data, err := fetch(ctx)
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return data, nil
	}
	if err := cache.Set(ctx, key, data, CacheTTL); err != nil {
		metrics.IncCacheError(name, "set")
		l.Warn().Err(err).Str("key", key).Msg("cache set failed")
	}
	return data, nil
}
