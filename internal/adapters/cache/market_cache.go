package cache

import (
	"fmt"
	"maps"
	"time"

	"github.com/dgraph-io/ristretto"
)

// RistrettoMarketCache holds per-base market rate tables, warmed by the
// background refresh job and read through by the comparator.
type RistrettoMarketCache struct {
	cache *ristretto.Cache
	ttl   time.Duration
}

func NewMarketCache(maxItems int64, ttl time.Duration) (*RistrettoMarketCache, error) {
	c, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: 10 * maxItems,
		MaxCost:     maxItems,
		BufferItems: 64,
	})
	if err != nil {
		return nil, fmt.Errorf("create market cache failed: %w", err)
	}
	return &RistrettoMarketCache{cache: c, ttl: ttl}, nil
}

func (c *RistrettoMarketCache) Get(base string) (map[string]float64, bool) {
	if v, ok := c.cache.Get(base); ok {
		rates, ok := v.(map[string]float64)
		return rates, ok
	}
	return nil, false
}

func (c *RistrettoMarketCache) Set(base string, rates map[string]float64) {
	// clone so later mutation by the producer can't leak into readers
	c.cache.SetWithTTL(base, maps.Clone(rates), 1, c.ttl)
}

func (c *RistrettoMarketCache) Close() { c.cache.Close() }
