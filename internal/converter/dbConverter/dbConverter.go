package dbConverter

import (
	"github.com/hellix17/cosmic-tracker/internal/model"
	"github.com/hellix17/cosmic-tracker/internal/model/dbModel"
)

func ConvertHolding(dbHolding dbModel.Holding) model.PortfolioHolding {
	return model.PortfolioHolding{
		Symbol:            dbHolding.Symbol,
		Shares:            dbHolding.Shares,
		ReferencePrice:    dbHolding.ReferencePrice,
		DividendPerShare:  dbHolding.DividendPerShare,
		NextDividendDate:  dbHolding.NextDividendDate,
		DividendFrequency: model.DividendFrequency(dbHolding.DividendFrequency),
	}
}
