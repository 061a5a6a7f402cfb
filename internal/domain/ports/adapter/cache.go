package adapter

import (
	"context"
	"time"
)

// Cache is the key-value store backing read-through lookups.
// Get reports a miss with ok=false and a nil error; err is reserved for backend failures.
// Reads and writes are independent steps: concurrent callers may both miss and both write.
type Cache interface {
	Get(ctx context.Context, key string) (value []byte, ok bool, err error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}
