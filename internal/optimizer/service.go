package optimizer

import (
	"context"
	"fmt"

	"crossrates/internal/domain"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// Tolerances carries the configurable thresholds of one service instance.
// Matrix and preview spread thresholds are intentionally independent knobs.
type Tolerances struct {
	EpsilonBps          int
	MatrixSpreadPct     float64
	PreviewSpreadPct    float64
	MaxReceivers        int
	MaxPreviewReceivers int
}

const (
	maxReportedCycles  = 10
	maxReportedSpreads = 20
)

// Service runs the full optimization pipeline: quote collection, round-trip
// enrichment, route selection, triangular arbitrage detection and market
// comparison. All per-run state (graph, matrix, accumulators) is constructed
// fresh for every call; the wallet list is read-only.
type Service struct {
	wallets     []*domain.SenderWallet
	collector   *Collector
	market      *MarketComparator
	tolerances  Tolerances
	workerLimit int
}

func NewService(wallets []*domain.SenderWallet, collector *Collector, market *MarketComparator, tolerances Tolerances, workerLimit int) *Service {
	if workerLimit < 1 {
		workerLimit = 1
	}
	return &Service{
		wallets:     wallets,
		collector:   collector,
		market:      market,
		tolerances:  tolerances,
		workerLimit: workerLimit,
	}
}

// Optimize evaluates the sender×receiver matrix and scores every route under
// the requested objective. Provider failures degrade single cells only; the
// result always carries whatever partial data could be computed.
func (s *Service) Optimize(ctx context.Context, req OptimizeRequest) (*OptimizeResult, error) {
	senders, err := s.selectSenders(req.SenderWalletID)
	if err != nil {
		return nil, err
	}

	receivers := s.buildReceiverList(req.ReceivingWalletURLs)
	objective := NormalizeObjective(req.Objective)
	epsilon := float64(s.tolerances.EpsilonBps) / 10000

	execID := uuid.NewString()
	logrus.WithFields(logrus.Fields{
		"execID":    execID,
		"senders":   len(senders),
		"receivers": len(receivers),
		"objective": objective,
	}).Infof("📊 Building cross-rate matrix (%d×%d)", len(senders), len(receivers))

	graph := NewRateGraph()
	matrix := s.collector.Collect(ctx, senders, receivers, req.Amount, graph)

	// Graph is stable from here on: enrichment and scoring are read-only.
	EnrichRoundTrips(matrix, graph)
	best := SelectBestRoute(matrix, objective)
	cycles := FindTriangularArbitrage(graph, epsilon)

	marketRates := s.market.FetchAllRates(ctx)
	spreads := s.market.CompareGraph(graph, marketRates, s.tolerances.MatrixSpreadPct)

	if best != nil {
		logrus.Infof("⭐ Best route (%s): %s (%s) → %s (%s), score %.4f",
			objective, best.SenderName, best.SenderAsset, best.ReceiverShort, best.ReceiverAsset, best.Score)
	}
	if len(cycles) > 0 {
		logrus.Infof("🔄 Triangular arbitrage: %d opportunities, top %s %s", len(cycles), cycles[0].Description, cycles[0].Profit)
	}

	return &OptimizeResult{
		Success:    true,
		Matrix:     matrix,
		BestRoute:  best,
		AssetRates: graph.Snapshot(),
		Arbitrage: ArbitrageSummary{
			Count:         len(cycles),
			Opportunities: capCycles(cycles, maxReportedCycles),
			Top:           firstCycle(cycles),
		},
		MarketComparison: MarketComparison{
			MarketRates:         marketRates,
			Opportunities:       capSpreads(spreads, maxReportedSpreads),
			Count:               len(spreads),
			Top:                 firstSpread(spreads),
			SupportedCurrencies: s.market.SupportedCurrencies(),
		},
		Config: ResultConfig{
			Objective:  objective,
			EpsilonBps: s.tolerances.EpsilonBps,
			Epsilon:    epsilon,
		},
		Summary: Summary{
			TotalRoutes:     len(senders) * len(receivers),
			SenderWallets:   len(senders),
			ReceiverWallets: len(receivers),
			Amount:          req.Amount,
		},
	}, nil
}

// Preview fetches per-endpoint quotes from a single sender and, when the
// sender's currency is market-supported, compares them against the market
// under the preview threshold.
func (s *Service) Preview(ctx context.Context, req PreviewRequest) (*PreviewResult, error) {
	sender, err := s.selectPreviewSender(req.SenderWalletID)
	if err != nil {
		return nil, err
	}

	receivers := req.ReceivingWalletURLs
	if len(receivers) > s.tolerances.MaxPreviewReceivers {
		receivers = receivers[:s.tolerances.MaxPreviewReceivers]
	}

	senderAddr, err := s.collector.ResolveAddress(ctx, sender.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve sender wallet %s: %w", sender.Name, err)
	}
	debitMinorUnits := domain.MinorUnits(req.Amount, senderAddr.AssetScale)

	quotes := make([]PreviewQuote, len(receivers))
	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(s.workerLimit)
	for i, receiverURL := range receivers {
		g.Go(func() error {
			quotes[i] = s.collector.PreviewQuote(gCtx, sender, senderAddr, receiverURL, req.Amount, debitMinorUnits)
			return nil
		})
	}
	_ = g.Wait()

	result := &PreviewResult{Success: true, Quotes: quotes}

	if s.market.Supports(senderAddr.AssetCode) {
		marketRates, mErr := s.market.RatesFor(ctx, senderAddr.AssetCode)
		if mErr != nil {
			logrus.WithError(mErr).Warn("Market comparison skipped for preview")
		} else {
			spreads := s.market.CompareQuotes(senderAddr.AssetCode, quotes, marketRates, s.tolerances.PreviewSpreadPct)
			result.MarketComparison = &PreviewMarketComparison{
				BaseCurrency:  senderAddr.AssetCode,
				MarketRates:   marketRates,
				Opportunities: spreads,
				Count:         len(spreads),
				Top:           firstSpread(spreads),
			}
		}
	} else {
		logrus.Infof("Currency %s not covered by the market feed, preview comparison skipped", senderAddr.AssetCode)
	}

	return result, nil
}

// Wallets returns the configured sender wallets.
func (s *Service) Wallets() []*domain.SenderWallet {
	return s.wallets
}

// selectSenders filters the configured wallets by an optional single-sender
// id. An unknown id is a configuration error, fatal for the request.
func (s *Service) selectSenders(senderWalletID string) ([]*domain.SenderWallet, error) {
	if senderWalletID == "" {
		return s.wallets, nil
	}
	for _, w := range s.wallets {
		if w.ID == senderWalletID {
			return []*domain.SenderWallet{w}, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", domain.ErrSenderNotFound, senderWalletID)
}

func (s *Service) selectPreviewSender(senderWalletID string) (*domain.SenderWallet, error) {
	if senderWalletID == "" {
		if len(s.wallets) == 0 {
			return nil, domain.ErrSenderNotFound
		}
		return s.wallets[0], nil
	}
	for _, w := range s.wallets {
		if w.ID == senderWalletID {
			return w, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", domain.ErrSenderNotFound, senderWalletID)
}

// buildReceiverList merges caller-supplied URLs with every configured
// wallet's own endpoint (so round trips and cycles are observable),
// deduplicated on the normalized URL and capped.
func (s *Service) buildReceiverList(callerURLs []string) []string {
	seen := make(map[string]struct{})
	receivers := make([]string, 0, len(callerURLs)+len(s.wallets))

	add := func(url string) {
		normalized := domain.NormalizeWalletURL(url)
		if normalized == "" {
			return
		}
		if _, ok := seen[normalized]; ok {
			return
		}
		seen[normalized] = struct{}{}
		receivers = append(receivers, url)
	}

	for _, url := range callerURLs {
		add(url)
	}
	for _, w := range s.wallets {
		add(w.URL)
	}

	if len(receivers) > s.tolerances.MaxReceivers {
		receivers = receivers[:s.tolerances.MaxReceivers]
	}
	return receivers
}

func capCycles(cycles []domain.ArbitrageCycle, n int) []domain.ArbitrageCycle {
	if len(cycles) > n {
		return cycles[:n]
	}
	return cycles
}

func firstCycle(cycles []domain.ArbitrageCycle) *domain.ArbitrageCycle {
	if len(cycles) == 0 {
		return nil
	}
	return &cycles[0]
}

func capSpreads(spreads []domain.MarketSpread, n int) []domain.MarketSpread {
	if len(spreads) > n {
		return spreads[:n]
	}
	return spreads
}

func firstSpread(spreads []domain.MarketSpread) *domain.MarketSpread {
	if len(spreads) == 0 {
		return nil
	}
	return &spreads[0]
}
