package adapters

import (
	"context"
	"crossrates/internal/domain"
)

// AddressResolver fetches the public metadata of a wallet endpoint.
type AddressResolver interface {
	ResolveWalletAddress(ctx context.Context, walletURL string) (domain.WalletAddress, error)
}

// QuoteProvider is the payment-quote capability: one call per (sender,
// receiver) pair, returning the provider's debit/receive amounts.
type QuoteProvider interface {
	RequestQuote(ctx context.Context, sender *domain.SenderWallet, senderAddr, receiverAddr domain.WalletAddress, debitMinorUnits int64) (domain.Quote, error)
}

// MarketRateClient fetches the external spot-rate table for a base currency.
type MarketRateClient interface {
	GetMarketRates(ctx context.Context, base string) (map[string]float64, error)
}

// AddressCache caches resolved wallet-address metadata.
type AddressCache interface {
	Get(walletURL string) (domain.WalletAddress, bool)
	Set(walletURL string, addr domain.WalletAddress)
}

// MarketRateCache caches per-base market-rate tables.
type MarketRateCache interface {
	Get(base string) (map[string]float64, bool)
	Set(base string, rates map[string]float64)
}

// WalletDirectory stores public-name → wallet-URL aliases.
type WalletDirectory interface {
	List(ctx context.Context) ([]domain.DirectoryEntry, error)
	Resolve(ctx context.Context, publicName string) (domain.DirectoryEntry, error)
	ListByOwner(ctx context.Context, owner string) ([]domain.DirectoryEntry, error)
	Add(ctx context.Context, publicName, walletURL string, isDummy bool, owner *string) (domain.DirectoryEntry, error)
	Update(ctx context.Context, publicName, newWalletURL string) error
	Delete(ctx context.Context, publicName string) error
}
