// Package cache provides the per-symbol candle cache the screener
// uses to avoid refetching candles within one scan interval (spec
// §4.5 "cache candles per symbol/granularity for 30s"). It falls back
// to an in-memory map when REDIS_ADDR is unset, adapted from the
// teacher's byte-oriented cache but typed directly on domain.Candle
// rather than exposing a generic []byte store no other caller needs.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/sawpanic/perpscreener/internal/domain"
)

// store is the narrow byte-oriented capability CandleCache's two
// backends implement. Neither backend is exported; callers only ever
// see the typed CandleCache.
type store interface {
	getRaw(key string) ([]byte, bool)
	setRaw(key string, val []byte, ttl time.Duration)
}

type memoryEntry struct {
	b   []byte
	exp time.Time
}

type memoryStore struct {
	mu sync.Mutex
	m  map[string]memoryEntry
}

func newMemoryStore() *memoryStore {
	return &memoryStore{m: make(map[string]memoryEntry)}
}

func (s *memoryStore) getRaw(key string) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.m[key]
	if !ok || (!e.exp.IsZero() && time.Now().After(e.exp)) {
		return nil, false
	}
	return e.b, true
}

func (s *memoryStore) setRaw(key string, val []byte, ttl time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e := memoryEntry{b: append([]byte(nil), val...)}
	if ttl > 0 {
		e.exp = time.Now().Add(ttl)
	}
	s.m[key] = e
}

type redisStore struct {
	r *redis.Client
}

func (s *redisStore) getRaw(key string) ([]byte, bool) {
	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()
	v, err := s.r.Get(ctx, key).Bytes()
	if err != nil {
		return nil, false
	}
	return v, true
}

func (s *redisStore) setRaw(key string, val []byte, ttl time.Duration) {
	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()
	_ = s.r.Set(ctx, key, val, ttl).Err()
}

// CandleCache is the screener's per-symbol, per-granularity candle
// cache (spec §4.5). Values are JSON-encoded []domain.Candle under
// the hood, but Get and Set never expose that encoding to callers.
type CandleCache struct {
	s   store
	ttl time.Duration
}

// NewMemory returns a CandleCache backed by an in-memory map, entries
// expiring ttl after they're written.
func NewMemory(ttl time.Duration) *CandleCache {
	return &CandleCache{s: newMemoryStore(), ttl: ttl}
}

// NewAuto returns a Redis-backed CandleCache when REDIS_ADDR is set,
// falling back to NewMemory otherwise.
func NewAuto(ttl time.Duration) *CandleCache {
	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		return &CandleCache{s: &redisStore{r: redis.NewClient(&redis.Options{Addr: addr})}, ttl: ttl}
	}
	return NewMemory(ttl)
}

func candleKey(symbol string, granularityMinutes int) string {
	return fmt.Sprintf("candles:%s:%d", symbol, granularityMinutes)
}

// Get returns the cached candle sequence for symbol at the given
// granularity, if one is present and not yet expired.
func (cc *CandleCache) Get(symbol string, granularityMinutes int) ([]domain.Candle, bool) {
	raw, ok := cc.s.getRaw(candleKey(symbol, granularityMinutes))
	if !ok {
		return nil, false
	}
	var candles []domain.Candle
	if err := json.Unmarshal(raw, &candles); err != nil {
		return nil, false
	}
	return candles, true
}

// Set stores candles for symbol/granularity under the cache's
// configured TTL.
func (cc *CandleCache) Set(symbol string, granularityMinutes int, candles []domain.Candle) {
	raw, err := json.Marshal(candles)
	if err != nil {
		return
	}
	cc.s.setRaw(candleKey(symbol, granularityMinutes), raw, cc.ttl)
}
