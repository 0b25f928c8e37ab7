package optimizer

import (
	"crossrates/internal/domain"
)

type OptimizeRequest struct {
	ReceivingWalletURLs []string `json:"receivingWalletUrls"`
	Amount              float64  `json:"amount"`
	SenderWalletID      string   `json:"senderWalletId,omitempty"`
	Objective           string   `json:"objective,omitempty"`
}

type PreviewRequest struct {
	ReceivingWalletURLs []string `json:"receivingWalletUrls"`
	Amount              float64  `json:"amount"`
	SenderWalletID      string   `json:"senderWalletId,omitempty"`
}

type ArbitrageSummary struct {
	Count         int                     `json:"count"`
	Opportunities []domain.ArbitrageCycle `json:"opportunities"`
	Top           *domain.ArbitrageCycle  `json:"top"`
}

type MarketComparison struct {
	MarketRates         map[string]map[string]float64 `json:"marketRates"`
	Opportunities       []domain.MarketSpread         `json:"arbitrageOpportunities"`
	Count               int                           `json:"count"`
	Top                 *domain.MarketSpread          `json:"top"`
	SupportedCurrencies []string                      `json:"supportedCurrencies"`
}

type ResultConfig struct {
	Objective  string  `json:"objective"`
	EpsilonBps int     `json:"epsilonBps"`
	Epsilon    float64 `json:"epsilon"`
}

type Summary struct {
	TotalRoutes     int     `json:"totalRoutes"`
	SenderWallets   int     `json:"senderWallets"`
	ReceiverWallets int     `json:"receiverWallets"`
	Amount          float64 `json:"amount"`
}

type OptimizeResult struct {
	Success          bool                                         `json:"success"`
	Matrix           []domain.SenderRow                           `json:"matrix"`
	BestRoute        *domain.BestRoute                            `json:"bestRoute"`
	AssetRates       map[string]map[string]domain.RateObservation `json:"assetRates"`
	Arbitrage        ArbitrageSummary                             `json:"arbitrage"`
	MarketComparison MarketComparison                             `json:"marketComparison"`
	Config           ResultConfig                                 `json:"config"`
	Summary          Summary                                      `json:"summary"`
}

// PreviewAmount mirrors a protocol amount with its human value alongside the
// raw minor-unit value.
type PreviewAmount struct {
	Value            float64 `json:"value"`
	ValueInBaseUnits string  `json:"valueInBaseUnits"`
	AssetCode        string  `json:"assetCode"`
	AssetScale       int     `json:"assetScale"`
}

type PreviewQuoteDetail struct {
	DebitAmount    PreviewAmount `json:"debitAmount"`
	ReceiveAmount  PreviewAmount `json:"receiveAmount"`
	Rate           float64       `json:"rate"`
	InverseRate    float64       `json:"inverseRate"`
	ImplicitFee    float64       `json:"implicitFee"`
	ImplicitFeePct float64       `json:"implicitFeePct"`
	SameCurrency   bool          `json:"sameCurrency"`
}

type PreviewQuote struct {
	Success   bool                `json:"success"`
	WalletURL string              `json:"walletUrl"`
	Quote     *PreviewQuoteDetail `json:"quote,omitempty"`
	Error     string              `json:"error,omitempty"`
}

type PreviewMarketComparison struct {
	BaseCurrency  string                `json:"baseCurrency"`
	MarketRates   map[string]float64    `json:"marketRates"`
	Opportunities []domain.MarketSpread `json:"opportunities"`
	Count         int                   `json:"count"`
	Top           *domain.MarketSpread  `json:"top"`
}

type PreviewResult struct {
	Success          bool                     `json:"success"`
	Quotes           []PreviewQuote           `json:"quotes"`
	MarketComparison *PreviewMarketComparison `json:"marketComparison"`
}
