package finnhubModel

// Quote mirrors the /quote response. Finnhub uses single-letter keys.
type Quote struct {
	Current       float64 `json:"c"`
	Change        float64 `json:"d"`
	ChangePercent float64 `json:"dp"`
	High          float64 `json:"h"`
	Low           float64 `json:"l"`
	Open          float64 `json:"o"`
	PrevClose     float64 `json:"pc"`
}

// CompanyProfile mirrors /stock/profile2. Finnhub returns an empty object
// for unknown symbols, so all fields may be zero.
type CompanyProfile struct {
	Name                 string  `json:"name"`
	Ticker               string  `json:"ticker"`
	Exchange             string  `json:"exchange"`
	Currency             string  `json:"currency"`
	Country              string  `json:"country"`
	FinnhubIndustry      string  `json:"finnhubIndustry"`
	MarketCapitalization float64 `json:"marketCapitalization"`
}

// Candles mirrors /stock/candle: parallel arrays indexed by bar, plus a
// status field ("ok" or "no_data").
type Candles struct {
	Open       []float64 `json:"o"`
	High       []float64 `json:"h"`
	Low        []float64 `json:"l"`
	Close      []float64 `json:"c"`
	Volume     []int64   `json:"v"`
	Timestamps []int64   `json:"t"`
	Status     string    `json:"s"`
}

// Dividend mirrors one element of the /stock/dividend array. Dates are
// ISO (YYYY-MM-DD), newest first.
type Dividend struct {
	Symbol  string  `json:"symbol"`
	Date    string  `json:"date"`
	Amount  float64 `json:"amount"`
	PayDate string  `json:"payDate"`
}

type SearchResult struct {
	Count  int          `json:"count"`
	Result []SearchItem `json:"result"`
}

type SearchItem struct {
	Symbol      string `json:"symbol"`
	Description string `json:"description"`
	Type        string `json:"type"`
}
