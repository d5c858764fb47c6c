// Package memo provides bounded, process-wide memoization for expensive pure calls.
package memo

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sync/atomic"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/singleflight"
)

// DefaultSize is the per-cache capacity used when none is configured.
const DefaultSize = 256

// Memo caches successful results by key in an LRU. Concurrent misses on the same
// key share a single call. Errors are returned to every waiter and never cached.
type Memo[V any] struct {
	cache   *lru.Cache[string, V]
	group   singleflight.Group
	timeout time.Duration
	hits    atomic.Int64
	misses  atomic.Int64
}

// Option configures a Memo.
type Option func(*settings)

type settings struct {
	timeout time.Duration
}

// WithTimeout bounds each shared call. Zero leaves it unbounded.
func WithTimeout(d time.Duration) Option {
	return func(s *settings) { s.timeout = d }
}

// New creates a Memo holding at most size entries.
func New[V any](size int, opts ...Option) (*Memo[V], error) {
	if size <= 0 {
		size = DefaultSize
	}
	var s settings
	for _, opt := range opts {
		opt(&s)
	}
	cache, err := lru.New[string, V](size)
	if err != nil {
		return nil, fmt.Errorf("failed to create LRU cache: %w", err)
	}
	return &Memo[V]{cache: cache, timeout: s.timeout}, nil
}

// Do returns the cached value for key, or calls fn and caches its result.
// The boolean reports whether the value came from the cache.
//
// fn runs on a context that keeps ctx's values but not its cancellation, so
// one caller giving up never fails the others waiting on the same key; the
// Memo timeout bounds it instead. A caller whose ctx ends stops waiting and
// gets ctx.Err() while the shared call carries on and fills the cache.
func (m *Memo[V]) Do(ctx context.Context, key string, fn func(ctx context.Context) (V, error)) (V, bool, error) {
	var zero V
	if v, ok := m.cache.Get(key); ok {
		m.hits.Add(1)
		return v, true, nil
	}
	if err := ctx.Err(); err != nil {
		return zero, false, err
	}

	detached := context.WithoutCancel(ctx)
	ch := m.group.DoChan(key, func() (any, error) {
		// Another flight may have filled the entry between Get and DoChan.
		if v, ok := m.cache.Get(key); ok {
			m.hits.Add(1)
			return v, nil
		}
		m.misses.Add(1)

		callCtx := detached
		if m.timeout > 0 {
			var cancel context.CancelFunc
			callCtx, cancel = context.WithTimeout(detached, m.timeout)
			defer cancel()
		}
		v, err := fn(callCtx)
		if err != nil {
			return v, err
		}
		m.cache.Add(key, v)
		return v, nil
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return zero, false, res.Err
		}
		return res.Val.(V), false, nil
	case <-ctx.Done():
		return zero, false, ctx.Err()
	}
}

// Len returns the number of cached entries.
func (m *Memo[V]) Len() int {
	return m.cache.Len()
}

// Stats returns the number of cache hits and misses so far.
func (m *Memo[V]) Stats() (hits, misses int64) {
	return m.hits.Load(), m.misses.Load()
}

// Fingerprint returns a deterministic digest of parts. Each part is encoded as
// JSON, where map keys are sorted and struct fields keep declaration order, so
// equal inputs always produce the same key.
func Fingerprint(parts ...any) (string, error) {
	data, err := json.Marshal(parts)
	if err != nil {
		return "", fmt.Errorf("failed to encode fingerprint: %w", err)
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}
