package domain

// Route is one sender×receiver cell of the optimization matrix.
//
// Monetary values are in human units, reconstructed from integer minor-unit
// amounts and the asset scale. Round-trip fields are filled in a second pass
// once the rate graph is stable.
type Route struct {
	ReceiverURL   string `json:"receiverUrl"`
	ReceiverShort string `json:"receiverShort"`
	ReceiverAsset string `json:"receiverAsset,omitempty"`
	SenderAsset   string `json:"senderAsset,omitempty"`

	DebitValue      float64 `json:"debitValue,omitempty"`
	ReceiveValue    float64 `json:"receiveValue,omitempty"`
	Rate            float64 `json:"rate,omitempty"`
	CostPerDestUnit float64 `json:"costPerDestUnit,omitempty"`
	InverseRate     float64 `json:"inverseRate,omitempty"`
	SameCurrency    bool    `json:"sameCurrency"`

	Success    bool   `json:"success"`
	IsDiagonal bool   `json:"isDiagonal,omitempty"`
	Error      string `json:"error,omitempty"`

	HasRoundTrip     bool     `json:"hasRoundTrip"`
	RoundTripProduct *float64 `json:"roundTripProduct,omitempty"`
	ROIToSenderPct   *float64 `json:"roiToSenderPct,omitempty"`
}

// SenderRow groups every route evaluated for one sender wallet.
type SenderRow struct {
	SenderID    string  `json:"senderId"`
	SenderName  string  `json:"senderName"`
	SenderAsset string  `json:"senderAsset,omitempty"`
	SenderScale int     `json:"senderScale,omitempty"`
	Routes      []Route `json:"routes"`
	Error       string  `json:"error,omitempty"`
}

// BestRoute is the winning route under the requested objective.
type BestRoute struct {
	Route
	SenderID   string  `json:"senderId"`
	SenderName string  `json:"senderName"`
	Score      float64 `json:"score"`
	Objective  string  `json:"objective"`
}

// CycleLeg is one directed edge of an arbitrage cycle.
type CycleLeg struct {
	Rate float64  `json:"rate"`
	Path RatePath `json:"path"`
}

// ArbitrageCycle is a directed 3-asset cycle whose compounded rate product
// exceeds one by more than the configured tolerance. Cycle repeats the start
// asset at the end, e.g. [EUR USD MXN EUR].
type ArbitrageCycle struct {
	Cycle       []string            `json:"cycle"`
	Product     float64             `json:"product"`
	GainPct     float64             `json:"gainPct"`
	Legs        map[string]CycleLeg `json:"legs"`
	Description string              `json:"description"`
	Profit      string              `json:"profit"`
}

// Spread classifications for internal-vs-market comparison.
const (
	SpreadInternalBetter = "internal-better"
	SpreadMarketBetter   = "market-better"
)

// MarketSpread flags a divergence between an internally observed rate and the
// external market rate for the same pair.
type MarketSpread struct {
	Pair            string  `json:"pair"`
	FromCurrency    string  `json:"fromCurrency"`
	ToCurrency      string  `json:"toCurrency"`
	WalletURL       string  `json:"walletUrl,omitempty"`
	InternalRate    float64 `json:"internalRate"`
	MarketRate      float64 `json:"marketRate"`
	SpreadPct       float64 `json:"spreadPct"`
	Classification  string  `json:"classification"`
	ProfitPotential float64 `json:"profitPotential"`
}
