package domain

// Exchange is the listing exchange of a holding.
type Exchange string

const (
	ExchangeNSE Exchange = "NSE"
	ExchangeBSE Exchange = "BSE"
)

// Valid reports whether the exchange is one of the supported values.
func (e Exchange) Valid() bool {
	return e == ExchangeNSE || e == ExchangeBSE
}

// Holding is one owned position in a tradable instrument.
// Investment, PresentValue, GainLoss and PortfolioPercentage are derived
// fields owned by the derive package; everything else comes from the holdings
// backend or the quote gateway.
type Holding struct {
	ID       string   `json:"id"`
	Symbol   string   `json:"symbol"`
	Exchange Exchange `json:"exchange"`
	Name     string   `json:"name"`
	Sector   string   `json:"sector"`

	PurchasePrice float64 `json:"purchasePrice"`
	Quantity      int64   `json:"quantity"`

	Investment          float64 `json:"investment"`
	CurrentPrice        float64 `json:"cmp"`
	PresentValue        float64 `json:"presentValue"`
	GainLoss            float64 `json:"gainLoss"`
	PortfolioPercentage float64 `json:"portfolioPercentage"`

	PERatio        *float64 `json:"peRatio,omitempty"`
	LatestEarnings *string  `json:"latestEarnings,omitempty"`
}

// HoldingInput is the user-supplied part of a holding, used for create and
// update calls to the holdings backend. Validation happens at the HTTP
// boundary (pkg/validation); the engine assumes validated input.
type HoldingInput struct {
	Symbol   string   `json:"symbol"`
	Exchange Exchange `json:"exchange"`
	Quantity int64    `json:"quantity"`
	Price    float64  `json:"price"`
	Name     string   `json:"name,omitempty"`
	Sector   string   `json:"sector,omitempty"`
}

// Quote is one symbol's live market data from the quote gateway. PERatio and
// LatestEarnings are nil when the gateway has no fundamentals for the symbol.
type Quote struct {
	Symbol         string   `json:"symbol"`
	CurrentPrice   float64  `json:"currentPrice"`
	PERatio        *float64 `json:"peRatio,omitempty"`
	LatestEarnings *string  `json:"latestEarnings,omitempty"`
}

// PortfolioSummary is the fold over the whole holdings set.
type PortfolioSummary struct {
	TotalInvestment         float64 `json:"totalInvestment"`
	TotalPresentValue       float64 `json:"totalPresentValue"`
	TotalGainLoss           float64 `json:"totalGainLoss"`
	TotalGainLossPercentage float64 `json:"totalGainLossPercentage"`
}

// SectorSummary aggregates the holdings sharing one sector label. Holdings
// keeps the members in input order.
type SectorSummary struct {
	Sector            string    `json:"sector"`
	TotalInvestment   float64   `json:"totalInvestment"`
	TotalPresentValue float64   `json:"totalPresentValue"`
	TotalGainLoss     float64   `json:"totalGainLoss"`
	Holdings          []Holding `json:"holdings"`
}

// SectorStock is the reduced holding shape returned by the backend's
// stocks-by-sector listing.
type SectorStock struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Symbol string `json:"symbol"`
}
