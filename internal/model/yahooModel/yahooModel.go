package yahooModel

// ChartResponse mirrors the Yahoo v8 chart envelope, trimmed to the fields we read.
type ChartResponse struct {
	Chart Chart `json:"chart"`
}

type Chart struct {
	Result []Result `json:"result"`
	Error  any      `json:"error"`
}

type Result struct {
	Meta       Meta       `json:"meta"`
	Timestamp  []int64    `json:"timestamp"`
	Indicators Indicators `json:"indicators"`
}

type Meta struct {
	Symbol             string  `json:"symbol"`
	LongName           string  `json:"longName"`
	Currency           string  `json:"currency"`
	RegularMarketPrice float64 `json:"regularMarketPrice"`
}

type Indicators struct {
	Quote []Quote `json:"quote"`
}

type Quote struct {
	Close []float64 `json:"close"`
}
