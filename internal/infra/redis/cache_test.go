//go:build !integration

package redis

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-redis/redis/v8"
)

type mockRedisClient struct {
	GetFunc    func(ctx context.Context, key string) (string, error)
	SetFunc    func(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	IncrFunc   func(ctx context.Context, key string) (int64, error)
	ExpireFunc func(ctx context.Context, key string, expiration time.Duration) error
}

func (m *mockRedisClient) Ping(ctx context.Context) error { return nil }
func (m *mockRedisClient) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	return m.SetFunc(ctx, key, value, expiration)
}
func (m *mockRedisClient) Get(ctx context.Context, key string) (string, error) {
	return m.GetFunc(ctx, key)
}
func (m *mockRedisClient) Incr(ctx context.Context, key string) (int64, error) {
	return m.IncrFunc(ctx, key)
}
func (m *mockRedisClient) Expire(ctx context.Context, key string, expiration time.Duration) error {
	return m.ExpireFunc(ctx, key, expiration)
}
func (m *mockRedisClient) Close() error { return nil }

func TestCache_Get(t *testing.T) {
	ctx := context.Background()

	t.Run("miss maps redis.Nil to ok=false", func(t *testing.T) {
		c := NewCache(&mockRedisClient{GetFunc: func(ctx context.Context, key string) (string, error) {
			return "", redis.Nil
		}})
		v, ok, err := c.Get(ctx, "interkassa.currency")
		if err != nil || ok || v != nil {
			t.Fatalf("want clean miss, got v=%q ok=%t err=%v", v, ok, err)
		}
	})

	t.Run("hit returns bytes", func(t *testing.T) {
		c := NewCache(&mockRedisClient{GetFunc: func(ctx context.Context, key string) (string, error) {
			return `{"a":1}`, nil
		}})
		v, ok, err := c.Get(ctx, "interkassa.currency")
		if err != nil || !ok || string(v) != `{"a":1}` {
			t.Fatalf("want hit, got v=%q ok=%t err=%v", v, ok, err)
		}
	})

	t.Run("backend failure is an error", func(t *testing.T) {
		boom := errors.New("connection refused")
		c := NewCache(&mockRedisClient{GetFunc: func(ctx context.Context, key string) (string, error) {
			return "", boom
		}})
		if _, _, err := c.Get(ctx, "k"); !errors.Is(err, boom) {
			t.Fatalf("want backend error, got %v", err)
		}
	})
}

func TestCache_SetPassesTTL(t *testing.T) {
	var gotKey string
	var gotTTL time.Duration
	c := NewCache(&mockRedisClient{SetFunc: func(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
		gotKey, gotTTL = key, expiration
		return nil
	}})
	if err := c.Set(context.Background(), "interkassa.lk_api_account_id", []byte(`"5a1b"`), 24*time.Hour); err != nil {
		t.Fatalf("set: %v", err)
	}
	if gotKey != "interkassa.lk_api_account_id" || gotTTL != 24*time.Hour {
		t.Fatalf("got key=%s ttl=%v", gotKey, gotTTL)
	}
}

func TestRateLimiter_Allow(t *testing.T) {
	counts := map[string]int64{}
	expires := 0
	client := &mockRedisClient{
		IncrFunc: func(ctx context.Context, key string) (int64, error) {
			counts[key]++
			return counts[key], nil
		},
		ExpireFunc: func(ctx context.Context, key string, expiration time.Duration) error {
			expires++
			return nil
		},
	}
	rl := NewRateLimiter(client, 2, time.Minute)
	key := WithdrawalKey("10.0.0.1")

	for i, want := range []bool{true, true, false} {
		ok, err := rl.Allow(context.Background(), key)
		if err != nil {
			t.Fatalf("allow %d: %v", i, err)
		}
		if ok != want {
			t.Fatalf("call %d: want %t, got %t", i, want, ok)
		}
	}
	if expires != 1 {
		t.Fatalf("expire should be set once per window, got %d", expires)
	}
}
