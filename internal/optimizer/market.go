package optimizer

import (
	"context"
	"fmt"
	"sort"
	"time"

	"crossrates/internal/adapters"
	"crossrates/internal/domain"

	"github.com/sirupsen/logrus"
)

// MarketComparator reconciles internally observed rates against an external
// market-rate feed for a fixed currency whitelist.
type MarketComparator struct {
	client       adapters.MarketRateClient
	cache        adapters.MarketRateCache
	supported    []string
	supportedSet map[string]struct{}
	paceDelay    time.Duration
}

func NewMarketComparator(client adapters.MarketRateClient, cache adapters.MarketRateCache, supported []string, paceDelay time.Duration) *MarketComparator {
	set := make(map[string]struct{}, len(supported))
	for _, c := range supported {
		set[c] = struct{}{}
	}
	return &MarketComparator{
		client:       client,
		cache:        cache,
		supported:    supported,
		supportedSet: set,
		paceDelay:    paceDelay,
	}
}

// SupportedCurrencies returns the whitelist in configuration order.
func (m *MarketComparator) SupportedCurrencies() []string {
	return append([]string(nil), m.supported...)
}

// Supports reports whether the market feed covers a currency.
func (m *MarketComparator) Supports(currency string) bool {
	_, ok := m.supportedSet[currency]
	return ok
}

// RatesFor returns the market rate table for one base currency, reading
// through the cache.
func (m *MarketComparator) RatesFor(ctx context.Context, base string) (map[string]float64, error) {
	if !m.Supports(base) {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnsupportedCurrency, base)
	}
	if rates, ok := m.cache.Get(base); ok {
		return rates, nil
	}
	rates, err := m.client.GetMarketRates(ctx, base)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrMarketDataUnavailable, base, err)
	}
	m.cache.Set(base, rates)
	return rates, nil
}

// FetchAllRates collects the rate table of every whitelisted base currency.
// Live fetches are paced to avoid provider throttling; a failed base is
// skipped, never fatal.
func (m *MarketComparator) FetchAllRates(ctx context.Context) map[string]map[string]float64 {
	all := make(map[string]map[string]float64, len(m.supported))

	for _, base := range m.supported {
		if rates, ok := m.cache.Get(base); ok {
			all[base] = rates
			continue
		}

		rates, err := m.client.GetMarketRates(ctx, base)
		if err != nil {
			logrus.WithError(err).Warnf("Market rates for %s unavailable, skipping", base)
		} else {
			m.cache.Set(base, rates)
			all[base] = rates
		}

		select {
		case <-ctx.Done():
			return all
		case <-time.After(m.paceDelay):
		}
	}

	return all
}

// CompareGraph flags every internal graph pair whose spread against the
// market rate exceeds thresholdPct (absolute). Both currencies must be
// whitelisted and the external rate present. Sorted descending by |spread|.
func (m *MarketComparator) CompareGraph(graph *RateGraph, market map[string]map[string]float64, thresholdPct float64) []domain.MarketSpread {
	var spreads []domain.MarketSpread

	assets := graph.Assets()
	for _, from := range assets {
		if !m.Supports(from) {
			continue
		}
		marketFrom := market[from]
		if marketFrom == nil {
			continue
		}
		for _, to := range assets {
			if to == from || !m.Supports(to) {
				continue
			}
			obs, ok := graph.Get(from, to)
			if !ok {
				continue
			}
			marketRate, ok := marketFrom[to]
			if !ok || marketRate == 0 {
				continue
			}

			if s, flagged := makeSpread(from, to, "", obs.Rate, marketRate, thresholdPct); flagged {
				spreads = append(spreads, s)
			}
		}
	}

	sortSpreads(spreads)
	return spreads
}

// CompareQuotes flags per-endpoint quote rates against the market table of a
// single base currency. Used by the quote preview, which runs a tighter
// threshold than the matrix scope.
func (m *MarketComparator) CompareQuotes(base string, quotes []PreviewQuote, market map[string]float64, thresholdPct float64) []domain.MarketSpread {
	var spreads []domain.MarketSpread

	for _, q := range quotes {
		if !q.Success || q.Quote == nil {
			continue
		}
		to := q.Quote.ReceiveAmount.AssetCode
		if to == base || !m.Supports(to) {
			continue
		}
		marketRate, ok := market[to]
		if !ok || marketRate == 0 {
			continue
		}

		if s, flagged := makeSpread(base, to, q.WalletURL, q.Quote.Rate, marketRate, thresholdPct); flagged {
			spreads = append(spreads, s)
		}
	}

	sortSpreads(spreads)
	return spreads
}

func makeSpread(from, to, walletURL string, internalRate, marketRate, thresholdPct float64) (domain.MarketSpread, bool) {
	spreadPct := (internalRate - marketRate) / marketRate * 100

	abs := spreadPct
	if abs < 0 {
		abs = -abs
	}
	if abs <= thresholdPct {
		return domain.MarketSpread{}, false
	}

	classification := domain.SpreadMarketBetter
	if spreadPct > 0 {
		classification = domain.SpreadInternalBetter
	}
	return domain.MarketSpread{
		Pair:            from + "→" + to,
		FromCurrency:    from,
		ToCurrency:      to,
		WalletURL:       walletURL,
		InternalRate:    internalRate,
		MarketRate:      marketRate,
		SpreadPct:       spreadPct,
		Classification:  classification,
		ProfitPotential: abs,
	}, true
}

func sortSpreads(spreads []domain.MarketSpread) {
	sort.SliceStable(spreads, func(i, j int) bool {
		return spreads[i].ProfitPotential > spreads[j].ProfitPotential
	})
}
