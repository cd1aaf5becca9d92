package cachemanager

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// OwnWrites remembers the digest of content this process wrote to each
// path, so a watcher can tell its own writes from the user's.
type OwnWrites struct {
	cache CacheManager[string, string]
	ttl   time.Duration
}

// NewOwnWrites returns an OwnWrites that forgets entries after ttl.
func NewOwnWrites(ttl time.Duration) *OwnWrites {
	return &OwnWrites{
		cache: NewInMemoryCacheManager[string]("own-writes", ttl, DefaultCleanupInterval),
		ttl:   ttl,
	}
}

// Record notes that content was written to path.
func (o *OwnWrites) Record(ctx context.Context, path, content string) {
	o.cache.Set(ctx, path, digest(content), o.ttl)
}

// IsOwn reports whether content is exactly what this process last wrote
// to path. A match is consumed so the next identical write by someone
// else is not swallowed.
func (o *OwnWrites) IsOwn(ctx context.Context, path, content string) bool {
	d, ok := o.cache.Get(ctx, path)
	if !ok || d != digest(content) {
		return false
	}
	_ = o.cache.Delete(ctx, path)
	return true
}

func digest(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}
