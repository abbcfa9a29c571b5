// Package cache holds upstream documents for the length of one run so that
// stages reading the same game share a single HTTP round trip.
package cache

import (
	"context"
	"sync"
	"time"

	"nhlstats/ingestion/internal/metrics"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

// FetchFunc loads the document for a key on a cache miss
type FetchFunc func(ctx context.Context) ([]byte, error)

// KeyFetchFunc loads the document for the given key
type KeyFetchFunc func(ctx context.Context, key string) ([]byte, error)

// Documents is a run-scoped, in-memory document cache keyed by URL.
// It has no TTL; create one per run and drop it afterwards.
type Documents struct {
	mu    sync.RWMutex
	docs  map[string][]byte
	group singleflight.Group
}

// NewDocuments creates an empty cache
func NewDocuments() *Documents {
	return &Documents{docs: make(map[string][]byte)}
}

// Get returns the cached document for key, calling fetch on a miss.
// Concurrent misses for one key share a single fetch. Errors are not cached.
func (d *Documents) Get(ctx context.Context, key string, fetch FetchFunc) ([]byte, error) {
	start := time.Now()
	if body, ok := d.lookup(key); ok {
		metrics.RecordCacheHit()
		metrics.RecordCacheOperation("get", time.Since(start).Seconds())
		return body, nil
	}
	metrics.RecordCacheMiss()

	v, err, shared := d.group.Do(key, func() (interface{}, error) {
		// another caller may have stored it between lookup and Do
		if body, ok := d.lookup(key); ok {
			return body, nil
		}
		body, err := fetch(ctx)
		if err != nil {
			return nil, err
		}
		d.store(key, body)
		return body, nil
	})
	if err != nil {
		return nil, err
	}

	if shared {
		log.Debug().Str("key", key).Msg("Shared in-flight fetch")
	}
	metrics.RecordCacheOperation("fetch", time.Since(start).Seconds())
	return v.([]byte), nil
}

// Prewarm fetches all keys with at most limit requests in flight and
// returns how many documents are cached afterwards. A failed key is logged
// and left for the stage that needs it.
func (d *Documents) Prewarm(ctx context.Context, keys []string, fetch KeyFetchFunc, limit int) int {
	if limit < 1 {
		limit = 1
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	for _, key := range keys {
		key := key
		g.Go(func() error {
			_, err := d.Get(gctx, key, func(ctx context.Context) ([]byte, error) {
				return fetch(ctx, key)
			})
			if err != nil {
				log.Warn().Err(err).Str("key", key).Msg("Prewarm fetch failed")
			}
			// individual failures must not cancel the others
			return nil
		})
	}
	_ = g.Wait()

	warmed := 0
	for _, key := range keys {
		if _, ok := d.lookup(key); ok {
			warmed++
		}
	}

	log.Info().
		Int("requested", len(keys)).
		Int("cached", warmed).
		Msg("Document cache prewarmed")

	return warmed
}

// Len returns the number of cached documents
func (d *Documents) Len() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.docs)
}

func (d *Documents) lookup(key string) ([]byte, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	body, ok := d.docs[key]
	return body, ok
}

func (d *Documents) store(key string, body []byte) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.docs[key] = body
}
