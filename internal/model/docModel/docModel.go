package docModel

// StockDocument is the row-store document shape the first prototypes cached:
// a quote card plus a chart section. The chart arrives newest-first.
type StockDocument struct {
	Symbol          string          `json:"symbol"`
	Price           PriceSection    `json:"price"`
	SummaryDetail   SummarySection  `json:"summaryDetail"`
	Chart           ChartSection    `json:"chart"`
	DividendHistory []DividendEvent `json:"dividendHistory"`
}

type PriceSection struct {
	RegularMarketPrice float64 `json:"regularMarketPrice"`
	LongName           string  `json:"longName"`
	ShortName          string  `json:"shortName"`
}

type SummarySection struct {
	DividendRate     float64 `json:"dividendRate"`
	DividendYield    float64 `json:"dividendYield"`
	FiftyTwoWeekHigh float64 `json:"fiftyTwoWeekHigh"`
	FiftyTwoWeekLow  float64 `json:"fiftyTwoWeekLow"`
}

type ChartSection struct {
	Result []ChartResult `json:"result"`
}

type ChartResult struct {
	Timestamp  []int64         `json:"timestamp"`
	Indicators ChartIndicators `json:"indicators"`
}

type ChartIndicators struct {
	Quote []ChartQuote `json:"quote"`
}

type ChartQuote struct {
	Close []float64 `json:"close"`
}

// DividendEvent is one past payment: ISO date plus per-share amount.
type DividendEvent struct {
	Date   string  `json:"date"`
	Amount float64 `json:"amount"`
}
