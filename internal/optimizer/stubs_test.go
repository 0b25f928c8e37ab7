package optimizer

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"

	"crossrates/internal/domain"
)

// stubResolver serves wallet-address metadata from a fixed map.
type stubResolver struct {
	mu    sync.Mutex
	addrs map[string]domain.WalletAddress
	errs  map[string]error
	calls int
}

func (s *stubResolver) ResolveWalletAddress(_ context.Context, walletURL string) (domain.WalletAddress, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	key := domain.NormalizeWalletURL(walletURL)
	if err, ok := s.errs[key]; ok {
		return domain.WalletAddress{}, err
	}
	addr, ok := s.addrs[key]
	if !ok {
		return domain.WalletAddress{}, fmt.Errorf("unknown wallet %s", walletURL)
	}
	return addr, nil
}

// stubProvider returns canned quotes keyed by senderID→receiver address id.
type stubProvider struct {
	mu     sync.Mutex
	quotes map[string]domain.Quote
	errs   map[string]error
	calls  int
}

func pairKey(senderID, receiverID string) string { return senderID + "→" + receiverID }

func (s *stubProvider) RequestQuote(_ context.Context, sender *domain.SenderWallet, _, receiverAddr domain.WalletAddress, _ int64) (domain.Quote, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	key := pairKey(sender.ID, receiverAddr.ID)
	if err, ok := s.errs[key]; ok {
		return domain.Quote{}, err
	}
	q, ok := s.quotes[key]
	if !ok {
		return domain.Quote{}, errors.New("no quote configured")
	}
	return q, nil
}

func (s *stubProvider) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

// mapAddressCache is a synchronous AddressCache for tests.
type mapAddressCache struct {
	mu sync.Mutex
	m  map[string]domain.WalletAddress
}

func newMapAddressCache() *mapAddressCache {
	return &mapAddressCache{m: make(map[string]domain.WalletAddress)}
}

func (c *mapAddressCache) Get(walletURL string) (domain.WalletAddress, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	addr, ok := c.m[walletURL]
	return addr, ok
}

func (c *mapAddressCache) Set(walletURL string, addr domain.WalletAddress) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.m[walletURL] = addr
}

// stubMarketClient serves per-base rate tables.
type stubMarketClient struct {
	mu     sync.Mutex
	tables map[string]map[string]float64
	errs   map[string]error
	calls  map[string]int
}

func newStubMarketClient(tables map[string]map[string]float64) *stubMarketClient {
	return &stubMarketClient{tables: tables, errs: map[string]error{}, calls: map[string]int{}}
}

func (s *stubMarketClient) GetMarketRates(_ context.Context, base string) (map[string]float64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls[base]++
	if err, ok := s.errs[base]; ok {
		return nil, err
	}
	table, ok := s.tables[base]
	if !ok {
		return nil, errors.New("no table configured")
	}
	return table, nil
}

// mapMarketCache is a synchronous MarketRateCache for tests.
type mapMarketCache struct {
	mu sync.Mutex
	m  map[string]map[string]float64
}

func newMapMarketCache() *mapMarketCache {
	return &mapMarketCache{m: make(map[string]map[string]float64)}
}

func (c *mapMarketCache) Get(base string) (map[string]float64, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	rates, ok := c.m[base]
	return rates, ok
}

func (c *mapMarketCache) Set(base string, rates map[string]float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.m[base] = rates
}

// quoteFixture builds a quote from human-readable values at scale 2.
func quoteFixture(debit float64, debitAsset string, receive float64, receiveAsset string) domain.Quote {
	return domain.Quote{
		DebitAmount: domain.Amount{
			Value:      strconv.FormatInt(int64(debit*100), 10),
			AssetCode:  debitAsset,
			AssetScale: 2,
		},
		ReceiveAmount: domain.Amount{
			Value:      strconv.FormatInt(int64(receive*100), 10),
			AssetCode:  receiveAsset,
			AssetScale: 2,
		},
	}
}

func senderFixture(id, url string) *domain.SenderWallet {
	return &domain.SenderWallet{WalletConfig: domain.WalletConfig{ID: id, Name: id, URL: url}}
}
