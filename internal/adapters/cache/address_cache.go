package cache

import (
	"fmt"
	"time"

	"crossrates/internal/domain"

	"github.com/dgraph-io/ristretto"
)

// RistrettoAddressCache caches resolved wallet-address metadata so repeated
// matrix cells don't re-fetch the same endpoint. Asset code and scale change
// rarely, a short TTL keeps the cache honest.
type RistrettoAddressCache struct {
	cache *ristretto.Cache
	ttl   time.Duration
}

func NewAddressCache(maxItems int64, ttl time.Duration) (*RistrettoAddressCache, error) {
	c, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: 10 * maxItems,
		MaxCost:     maxItems,
		BufferItems: 64,
	})
	if err != nil {
		return nil, fmt.Errorf("create address cache failed: %w", err)
	}
	return &RistrettoAddressCache{cache: c, ttl: ttl}, nil
}

func (c *RistrettoAddressCache) Get(walletURL string) (domain.WalletAddress, bool) {
	if v, ok := c.cache.Get(walletURL); ok {
		addr, ok := v.(domain.WalletAddress)
		return addr, ok
	}
	return domain.WalletAddress{}, false
}

func (c *RistrettoAddressCache) Set(walletURL string, addr domain.WalletAddress) {
	c.cache.SetWithTTL(walletURL, addr, 1, c.ttl)
}

func (c *RistrettoAddressCache) Close() { c.cache.Close() }
