//go:build !integration

package interkassa

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"interkassa-merchant/internal/infra/memstore"

	"github.com/rs/zerolog"
)

const (
	testUserID  = "5a1b2c"
	testUserKey = "user-key"
)

// fakeGateway serves canned envelopes per "METHOD path" and counts calls.
type fakeGateway struct {
	mu       sync.Mutex
	calls    map[string]int
	routes   map[string]http.HandlerFunc
	requests []*http.Request
}

func newFakeGateway(t *testing.T) (*fakeGateway, *httptest.Server) {
	t.Helper()
	fg := &fakeGateway{calls: map[string]int{}, routes: map[string]http.HandlerFunc{}}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := r.Method + " " + strings.TrimPrefix(r.URL.Path, "/v1/")
		fg.mu.Lock()
		fg.calls[key]++
		fg.requests = append(fg.requests, r.Clone(context.Background()))
		h, ok := fg.routes[key]
		fg.mu.Unlock()
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"status":"error","code":404,"message":"no route"}`))
			return
		}
		h(w, r)
	}))
	t.Cleanup(srv.Close)
	return fg, srv
}

func (f *fakeGateway) handle(method, path string, h http.HandlerFunc) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.routes[method+" "+path] = h
}

// ok registers a 200 envelope with code 0 and the given raw data.
func (f *fakeGateway) ok(method, path, data string) {
	f.handle(method, path, func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, http.StatusOK, 0, data, "")
	})
}

func (f *fakeGateway) count(method, path string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[method+" "+path]
}

func (f *fakeGateway) last() *http.Request {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.requests) == 0 {
		return nil
	}
	return f.requests[len(f.requests)-1]
}

func writeEnvelope(w http.ResponseWriter, status, code int, data, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	body := fmt.Sprintf(`{"status":"ok","code":%d,"message":%q`, code, message)
	if data != "" {
		body += `,"data":` + data
	}
	body += "}"
	_, _ = w.Write([]byte(body))
}

func nopLogger() *zerolog.Logger { l := zerolog.Nop(); return &l }

func newTestClient(t *testing.T, srv *httptest.Server) *Client {
	t.Helper()
	c, err := NewClient(srv.URL+"/v1", testUserID, testUserKey, srv.Client(), time.Second, nopLogger())
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	return c
}

// recordingCache wraps memstore and remembers TTLs and failures to inject.
type recordingCache struct {
	*memstore.Store
	mu     sync.Mutex
	ttls   map[string]time.Duration
	getErr error
	setErr error
}

func newRecordingCache() *recordingCache {
	return &recordingCache{Store: memstore.New(), ttls: map[string]time.Duration{}}
}

func (c *recordingCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if c.getErr != nil {
		return nil, false, c.getErr
	}
	return c.Store.Get(ctx, key)
}

func (c *recordingCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	c.mu.Lock()
	c.ttls[key] = ttl
	c.mu.Unlock()
	if c.setErr != nil {
		return c.setErr
	}
	return c.Store.Set(ctx, key, value, ttl)
}

func (c *recordingCache) ttl(key string) time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ttls[key]
}

const accountsPayload = `{
	"1001": {"_id": "1001", "tp": "p", "name": "personal"},
	"2002": {"_id": "2002", "tp": "b", "name": "shop"},
	"3003": {"_id": "3003", "tp": "b", "name": "second shop"}
}`
