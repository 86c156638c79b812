package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"

	"github.com/ndewijer/finance-dashboard/internal/model"
)

// DefaultQuoteCacheTTL matches how long a dashboard refresh may reuse prices.
const DefaultQuoteCacheTTL = 300 * time.Second

// CachedQuoteResolver memoizes resolutions keyed by the requested symbol set and
// exchange-rate chain. Entries expire unconditionally after the TTL; nothing
// invalidates them early. Concurrent misses for one key share a single resolution.
type CachedQuoteResolver struct {
	next   QuoteResolver
	ttl    time.Duration
	now    func() time.Time
	logger logrus.FieldLogger

	mu      sync.Mutex
	entries map[string]cacheEntry
	group   singleflight.Group
}

type cacheEntry struct {
	resolution Resolution
	expiresAt  time.Time
}

// NewCachedQuoteResolver wraps next with a TTL cache. A nil now uses time.Now.
func NewCachedQuoteResolver(next QuoteResolver, ttl time.Duration, now func() time.Time, logger logrus.FieldLogger) *CachedQuoteResolver {
	if ttl <= 0 {
		ttl = DefaultQuoteCacheTTL
	}
	if now == nil {
		now = time.Now
	}
	return &CachedQuoteResolver{
		next:    next,
		ttl:     ttl,
		now:     now,
		logger:  logger,
		entries: make(map[string]cacheEntry),
	}
}

// Resolve returns a cached resolution when one is still valid, otherwise resolves
// through the wrapped resolver and stores the result. A caller that gives up while
// the resolution is in flight does not abort it; the result is still cached.
func (c *CachedQuoteResolver) Resolve(ctx context.Context, instruments []model.Instrument, pair model.CurrencyPair) Resolution {
	key := cacheKey(instruments, pair)

	if res, ok := c.lookup(key); ok {
		c.logger.WithField("key", key).Debug("quote cache hit")
		return res
	}

	// Detached from the cancellation of the caller that started it.
	v, _, _ := c.group.Do(key, func() (interface{}, error) {
		if res, ok := c.lookup(key); ok {
			return res, nil
		}
		res := c.next.Resolve(context.WithoutCancel(ctx), instruments, pair)
		c.store(key, res)
		return res, nil
	})

	return v.(Resolution).Clone()
}

func (c *CachedQuoteResolver) lookup(key string) (Resolution, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[key]
	if !ok || !c.now().Before(entry.expiresAt) {
		return Resolution{}, false
	}
	return entry.resolution.Clone(), true
}

func (c *CachedQuoteResolver) store(key string, res Resolution) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	for k, e := range c.entries {
		if !now.Before(e.expiresAt) {
			delete(c.entries, k)
		}
	}
	c.entries[key] = cacheEntry{resolution: res.Clone(), expiresAt: now.Add(c.ttl)}
}

// Len returns the number of stored entries, expired ones included until the next store.
func (c *CachedQuoteResolver) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// cacheKey is independent of instrument order.
func cacheKey(instruments []model.Instrument, pair model.CurrencyPair) string {
	symbols := make([]string, len(instruments))
	for i, inst := range instruments {
		symbols[i] = inst.Symbol
	}
	sort.Strings(symbols)
	return fmt.Sprintf("%s|%s|%s|%v", strings.Join(symbols, ","), pair.PrimarySymbol, pair.SecondarySymbol, pair.FallbackRate)
}
