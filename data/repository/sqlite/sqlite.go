// Package sqlite is the local single-user portfolio store, the server-side
// stand-in for the browser local storage the early prototypes used. The
// user ID is accepted for interface compatibility and ignored.
package sqlite

import (
	"context"
	"log/slog"

	"github.com/hellix17/cosmic-tracker/internal/converter/dbConverter"
	"github.com/hellix17/cosmic-tracker/internal/model"
	"github.com/hellix17/cosmic-tracker/internal/model/dbModel"
	"github.com/jmoiron/sqlx"
)

const schema = `
CREATE TABLE IF NOT EXISTS holdings (
	symbol TEXT PRIMARY KEY,
	shares TEXT NOT NULL,
	reference_price TEXT NOT NULL,
	dividend_per_share TEXT NOT NULL DEFAULT '0',
	next_dividend_date TEXT NOT NULL DEFAULT 'unknown',
	dividend_frequency TEXT NOT NULL DEFAULT 'unknown',
	dt_update TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
)`

type Sqlite struct {
	db *sqlx.DB
}

func NewSqlite(db *sqlx.DB) *Sqlite {
	if _, err := db.Exec(schema); err != nil {
		slog.Error("sqlite schema init failed", slog.String("err", err.Error()))
		panic(err)
	}
	return &Sqlite{db: db}
}

func (r *Sqlite) Load(ctx context.Context, _ string) (holdings []model.PortfolioHolding, err error) {
	query := `
		SELECT symbol, shares, reference_price, dividend_per_share, next_dividend_date, dividend_frequency, dt_update
		FROM holdings
		ORDER BY symbol
		`

	rows, err := r.db.QueryxContext(ctx, query)
	if err != nil {
		return nil, err
	}

	defer rows.Close()

	for rows.Next() {
		var dbHolding dbModel.Holding
		if err = rows.StructScan(&dbHolding); err != nil {
			return nil, err
		}
		holdings = append(holdings, dbConverter.ConvertHolding(dbHolding))
	}

	return holdings, rows.Err()
}

func (r *Sqlite) Upsert(ctx context.Context, _ string, holding model.PortfolioHolding) error {
	query := `
		INSERT INTO holdings (symbol, shares, reference_price, dividend_per_share, next_dividend_date, dividend_frequency, dt_update)
		VALUES (?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT (symbol) DO UPDATE SET
			shares = excluded.shares,
			reference_price = excluded.reference_price,
			dividend_per_share = excluded.dividend_per_share,
			next_dividend_date = excluded.next_dividend_date,
			dividend_frequency = excluded.dividend_frequency,
			dt_update = CURRENT_TIMESTAMP
	`

	_, err := r.db.ExecContext(ctx, query,
		holding.Symbol,
		holding.Shares.String(),
		holding.ReferencePrice.String(),
		holding.DividendPerShare.String(),
		holding.NextDividendDate,
		string(holding.DividendFrequency),
	)

	return err
}

func (r *Sqlite) Delete(ctx context.Context, _ string, symbol string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM holdings WHERE symbol = ?`, symbol)
	return err
}
