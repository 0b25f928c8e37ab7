package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrSenderNotFound is returned when a requested sender wallet id is not
	// among the configured wallets. Fatal for the whole request.
	ErrSenderNotFound = errors.New("sender wallet not found")

	// ErrMarketDataUnavailable means the external market-rate fetch failed.
	// Market comparison degrades silently, the optimization still succeeds.
	ErrMarketDataUnavailable = errors.New("market data unavailable")

	// ErrUnsupportedCurrency means a currency is outside the market whitelist.
	ErrUnsupportedCurrency = errors.New("currency not supported by market provider")

	// ErrDirectoryDisabled means the wallet directory store is not configured.
	ErrDirectoryDisabled = errors.New("wallet directory is disabled")

	// ErrEntryNotFound means a directory entry does not exist.
	ErrEntryNotFound = errors.New("directory entry not found")

	// ErrEntryExists means a directory public name is already taken.
	ErrEntryExists = errors.New("directory entry already exists")
)

// ProviderError is a quote/grant/network failure for a single (sender,
// receiver) pair. It is recorded on the failed route and never aborts
// sibling pairs.
type ProviderError struct {
	Stage string // "wallet-address", "grant", "incoming-payment", "quote"
	URL   string
	Err   error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("%s failed for %s: %v", e.Stage, e.URL, e.Err)
}

func (e *ProviderError) Unwrap() error { return e.Err }
