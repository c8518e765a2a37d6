package dbModel

import (
	"time"

	"github.com/shopspring/decimal"
)

type Holding struct {
	UserID            string          `db:"user_id"`
	Symbol            string          `db:"symbol"`
	Shares            decimal.Decimal `db:"shares"`
	ReferencePrice    decimal.Decimal `db:"reference_price"`
	DividendPerShare  decimal.Decimal `db:"dividend_per_share"`
	NextDividendDate  string          `db:"next_dividend_date"`
	DividendFrequency string          `db:"dividend_frequency"`
	UpdatedAt         time.Time       `db:"dt_update"`
}
