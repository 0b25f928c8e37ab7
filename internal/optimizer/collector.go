package optimizer

import (
	"context"
	"errors"

	"crossrates/internal/adapters"
	"crossrates/internal/domain"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

var errEmptyQuote = errors.New("quote returned non-positive amounts")

// Collector requests one quote per (sender, receiver) pair and feeds the
// observed rates into the rate graph.
//
// Senders are processed in order; receivers within one sender fan out through
// a bounded worker pool. Every result lands in its fixed index slot, so the
// matrix order equals the enumeration order no matter how workers are
// scheduled, and the graph's max-merge makes the stored rates
// order-independent too. Failures are isolated per pair: a broken receiver
// degrades only its own cell.
type Collector struct {
	resolver    adapters.AddressResolver
	cache       adapters.AddressCache
	provider    adapters.QuoteProvider
	workerLimit int
}

func NewCollector(resolver adapters.AddressResolver, cache adapters.AddressCache, provider adapters.QuoteProvider, workerLimit int) *Collector {
	if workerLimit < 1 {
		workerLimit = 1
	}
	return &Collector{resolver: resolver, cache: cache, provider: provider, workerLimit: workerLimit}
}

// Collect evaluates the full sender×receiver matrix for the given nominal
// amount. The returned rows follow the sender order, routes follow the
// receiver order.
func (c *Collector) Collect(ctx context.Context, senders []*domain.SenderWallet, receiverURLs []string, amount float64, graph *RateGraph) []domain.SenderRow {
	matrix := make([]domain.SenderRow, 0, len(senders))

	for _, sender := range senders {
		row := domain.SenderRow{SenderID: sender.ID, SenderName: sender.Name}

		senderAddr, err := c.resolveCached(ctx, sender.URL)
		if err != nil {
			logrus.WithError(err).Warnf("✗ sender %s: wallet address resolution failed", sender.Name)
			row.Error = err.Error()
			matrix = append(matrix, row)
			continue
		}
		row.SenderAsset = senderAddr.AssetCode
		row.SenderScale = senderAddr.AssetScale

		debitMinorUnits := domain.MinorUnits(amount, senderAddr.AssetScale)

		routes := make([]domain.Route, len(receiverURLs))
		g, gCtx := errgroup.WithContext(ctx)
		g.SetLimit(c.workerLimit)
		for i, receiverURL := range receiverURLs {
			g.Go(func() error {
				routes[i] = c.evaluatePair(gCtx, sender, senderAddr, receiverURL, amount, debitMinorUnits, graph)
				return nil
			})
		}
		_ = g.Wait() // workers record failures on their own route

		row.Routes = routes
		matrix = append(matrix, row)
	}

	return matrix
}

func (c *Collector) evaluatePair(ctx context.Context, sender *domain.SenderWallet, senderAddr domain.WalletAddress, receiverURL string, amount float64, debitMinorUnits int64, graph *RateGraph) domain.Route {
	route := domain.Route{
		ReceiverURL:   receiverURL,
		ReceiverShort: domain.ShortName(receiverURL),
	}

	// Same endpoint: identity rate, no provider call, no graph entry.
	if domain.NormalizeWalletURL(receiverURL) == domain.NormalizeWalletURL(sender.URL) {
		route.Success = true
		route.IsDiagonal = true
		route.SenderAsset = senderAddr.AssetCode
		route.ReceiverAsset = senderAddr.AssetCode
		route.SameCurrency = true
		route.Rate = 1.0
		route.InverseRate = 1.0
		route.CostPerDestUnit = 1.0
		route.DebitValue = amount
		route.ReceiveValue = amount
		return route
	}

	receiverAddr, err := c.resolveCached(ctx, receiverURL)
	if err != nil {
		return failRoute(route, sender, err)
	}
	route.ReceiverAsset = receiverAddr.AssetCode

	quote, err := c.provider.RequestQuote(ctx, sender, senderAddr, receiverAddr, debitMinorUnits)
	if err != nil {
		return failRoute(route, sender, err)
	}

	debitValue, err := quote.DebitAmount.HumanValue()
	if err != nil {
		return failRoute(route, sender, err)
	}
	receiveValue, err := quote.ReceiveAmount.HumanValue()
	if err != nil {
		return failRoute(route, sender, err)
	}
	if debitValue <= 0 || receiveValue <= 0 {
		return failRoute(route, sender, &domain.ProviderError{Stage: "quote", URL: receiverURL, Err: errEmptyQuote})
	}

	route.SenderAsset = quote.DebitAmount.AssetCode
	route.ReceiverAsset = quote.ReceiveAmount.AssetCode
	route.SameCurrency = route.SenderAsset == route.ReceiverAsset
	route.DebitValue = debitValue
	route.ReceiveValue = receiveValue
	// Canonical derivations, both from the raw quote values
	route.Rate = receiveValue / debitValue
	route.CostPerDestUnit = debitValue / receiveValue
	route.InverseRate = 1 / route.Rate
	route.Success = true

	graph.Upsert(route.SenderAsset, route.ReceiverAsset, route.Rate, route.CostPerDestUnit, domain.RatePath{
		SenderID:      sender.ID,
		SenderName:    sender.Name,
		ReceiverURL:   receiverURL,
		ReceiverShort: route.ReceiverShort,
	})

	logrus.Debugf("✓ %s → %s: %.4f %s/%s", sender.Name, route.ReceiverShort, route.Rate, route.ReceiverAsset, route.SenderAsset)
	return route
}

// PreviewQuote fetches a single quote for the preview endpoint, keeping the
// raw minor-unit amounts and the implicit-fee breakdown.
func (c *Collector) PreviewQuote(ctx context.Context, sender *domain.SenderWallet, senderAddr domain.WalletAddress, receiverURL string, amount float64, debitMinorUnits int64) PreviewQuote {
	result := PreviewQuote{WalletURL: receiverURL}

	receiverAddr, err := c.resolveCached(ctx, receiverURL)
	if err != nil {
		result.Error = err.Error()
		return result
	}

	quote, err := c.provider.RequestQuote(ctx, sender, senderAddr, receiverAddr, debitMinorUnits)
	if err != nil {
		result.Error = err.Error()
		return result
	}

	debitValue, err := quote.DebitAmount.HumanValue()
	if err != nil {
		result.Error = err.Error()
		return result
	}
	receiveValue, err := quote.ReceiveAmount.HumanValue()
	if err != nil {
		result.Error = err.Error()
		return result
	}
	if debitValue <= 0 || receiveValue <= 0 {
		result.Error = errEmptyQuote.Error()
		return result
	}

	rate := receiveValue / debitValue
	implicitFee := debitValue - amount

	result.Success = true
	result.Quote = &PreviewQuoteDetail{
		DebitAmount: PreviewAmount{
			Value:            debitValue,
			ValueInBaseUnits: quote.DebitAmount.Value,
			AssetCode:        quote.DebitAmount.AssetCode,
			AssetScale:       quote.DebitAmount.AssetScale,
		},
		ReceiveAmount: PreviewAmount{
			Value:            receiveValue,
			ValueInBaseUnits: quote.ReceiveAmount.Value,
			AssetCode:        quote.ReceiveAmount.AssetCode,
			AssetScale:       quote.ReceiveAmount.AssetScale,
		},
		Rate:           rate,
		InverseRate:    1 / rate,
		ImplicitFee:    implicitFee,
		ImplicitFeePct: implicitFee / amount * 100,
		SameCurrency:   quote.DebitAmount.AssetCode == quote.ReceiveAmount.AssetCode,
	}
	return result
}

// ResolveAddress resolves a wallet endpoint through the metadata cache.
func (c *Collector) ResolveAddress(ctx context.Context, walletURL string) (domain.WalletAddress, error) {
	return c.resolveCached(ctx, walletURL)
}

func (c *Collector) resolveCached(ctx context.Context, walletURL string) (domain.WalletAddress, error) {
	key := domain.NormalizeWalletURL(walletURL)
	if addr, ok := c.cache.Get(key); ok {
		return addr, nil
	}
	addr, err := c.resolver.ResolveWalletAddress(ctx, walletURL)
	if err != nil {
		return domain.WalletAddress{}, err
	}
	c.cache.Set(key, addr)
	return addr, nil
}

func failRoute(route domain.Route, sender *domain.SenderWallet, err error) domain.Route {
	logrus.Warnf("✗ %s → %s: %v", sender.Name, route.ReceiverShort, err)
	route.Success = false
	route.Error = err.Error()
	return route
}
