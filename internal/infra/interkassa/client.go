package interkassa

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"interkassa-merchant/internal/domain"
	"interkassa-merchant/internal/infra/logging"
	"interkassa-merchant/internal/infra/metrics"

	"github.com/rs/zerolog"
)

// HeaderAccountID scopes a call to one gateway account.
const HeaderAccountID = "Ik-Api-Account-Id"

const maxResponseBytes = 8 << 20

// HTTPDoer is the transport; *http.Client satisfies it.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client sends authenticated calls to the gateway REST API and unwraps the
// {"status","code","data","message"} envelope. One attempt per call.
type Client struct {
	baseURL string
	userID  string
	userKey string
	http    HTTPDoer
	log     *zerolog.Logger
}

// NewClient builds a client for baseURL (e.g. https://api.interkassa.com/v1/).
// A nil doer gets an *http.Client with timeout.
func NewClient(baseURL, userID, userKey string, doer HTTPDoer, timeout time.Duration, logger *zerolog.Logger) (*Client, error) {
	if userID == "" || userKey == "" {
		return nil, fmt.Errorf("%w: api user id and key are required", domain.ErrConfiguration)
	}
	u, err := url.Parse(baseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("%w: invalid api url %q", domain.ErrConfiguration, baseURL)
	}
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}
	if doer == nil {
		if timeout <= 0 {
			timeout = 15 * time.Second
		}
		doer = &http.Client{Timeout: timeout}
	}
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return &Client{baseURL: baseURL, userID: userID, userKey: userKey, http: doer, log: logger}, nil
}

type envelope struct {
	Status  string          `json:"status"`
	Code    int             `json:"code"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
}

// Request calls <base><path>. accountID, when non-empty, is sent as Ik-Api-Account-Id.
// body is form-encoded and attached only when non-empty; for GET it goes into the query string.
// It returns the envelope's data (nil when absent) if the HTTP status is 2xx and the
// envelope code is 0; anything else is a *domain.GatewayError.
func (c *Client) Request(ctx context.Context, method, path, accountID string, body map[string]any) (json.RawMessage, error) {
	start := time.Now()
	l := logging.With(ctx, c.log)

	target := c.baseURL + strings.TrimPrefix(path, "/")
	var payload io.Reader
	form := encodeForm(body)
	if len(form) > 0 {
		if method == http.MethodGet {
			sep := "?"
			if strings.Contains(target, "?") {
				sep = "&"
			}
			target += sep + form.Encode()
		} else {
			payload = strings.NewReader(form.Encode())
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, target, payload)
	if err != nil {
		return nil, &domain.GatewayError{Message: "build request", Err: err}
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	req.Header.Set("Accept", "application/json")
	if accountID != "" {
		req.Header.Set(HeaderAccountID, accountID)
	}
	req.SetBasicAuth(c.userID, c.userKey)

	resp, err := c.http.Do(req)
	if err != nil {
		metrics.ObserveGatewayCall(method, path, "transport_error", time.Since(start))
		l.Error().Err(err).Str("method", method).Str("path", path).Msg("gateway transport failure")
		return nil, &domain.GatewayError{Message: "transport failure", Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		metrics.ObserveGatewayCall(method, path, "transport_error", time.Since(start))
		return nil, &domain.GatewayError{StatusCode: resp.StatusCode, Message: "read response", Err: err}
	}

	httpOK := resp.StatusCode >= 200 && resp.StatusCode < 300

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		if !httpOK {
			metrics.ObserveGatewayCall(method, path, "http_error", time.Since(start))
			l.Warn().Str("method", method).Str("path", path).Int("status", resp.StatusCode).Msg("gateway call failed")
			return nil, &domain.GatewayError{StatusCode: resp.StatusCode}
		}
		metrics.ObserveGatewayCall(method, path, "decode_error", time.Since(start))
		return nil, &domain.GatewayError{StatusCode: resp.StatusCode, Message: "decode response", Err: err}
	}

	if httpOK && env.Code == 0 {
		metrics.ObserveGatewayCall(method, path, "ok", time.Since(start))
		l.Debug().Str("method", method).Str("path", path).Dur("duration", time.Since(start)).Msg("gateway call ok")
		if len(env.Data) == 0 || bytes.Equal(env.Data, []byte("null")) {
			return nil, nil
		}
		return env.Data, nil
	}

	result := "code_error"
	if !httpOK {
		result = "http_error"
	}
	metrics.ObserveGatewayCall(method, path, result, time.Since(start))
	l.Warn().
		Str("method", method).
		Str("path", path).
		Int("status", resp.StatusCode).
		Int("code", env.Code).
		Str("message", env.Message).
		Msg("gateway call failed")
	return nil, &domain.GatewayError{StatusCode: resp.StatusCode, Code: env.Code, Message: env.Message}
}
