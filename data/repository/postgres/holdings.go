package postgres

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/hellix17/cosmic-tracker/data/repository"
	"github.com/hellix17/cosmic-tracker/internal/converter/dbConverter"
	"github.com/hellix17/cosmic-tracker/internal/model"
	"github.com/hellix17/cosmic-tracker/internal/model/dbModel"
	"github.com/hellix17/cosmic-tracker/utils"
)

func (r *Postgres) Load(ctx context.Context, userID string) (holdings []model.PortfolioHolding, err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	query := `
		SELECT user_id, symbol, shares, reference_price, dividend_per_share, next_dividend_date, dividend_frequency, dt_update
		FROM holdings
		WHERE user_id = $1
		ORDER BY symbol
		`

	slog.Debug("Load start", slog.String("rqID", rqID), slog.String("query", query))
	defer func() {
		if err != nil {
			slog.Error("Load failed", slog.String("rqID", rqID), slog.String("err", err.Error()))
		} else {
			slog.Debug("Load completed", slog.String("rqID", rqID))
		}
	}()

	rows, err := r.txOrDb(ctx).QueryxContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}

	defer rows.Close()

	for rows.Next() {
		var dbHolding dbModel.Holding
		err = rows.StructScan(&dbHolding)
		if err != nil {
			return nil, err
		}
		holdings = append(holdings, dbConverter.ConvertHolding(dbHolding))
	}

	return holdings, rows.Err()
}

func (r *Postgres) GetHolding(ctx context.Context, userID, symbol string) (holding model.PortfolioHolding, err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	query := `
		SELECT user_id, symbol, shares, reference_price, dividend_per_share, next_dividend_date, dividend_frequency, dt_update
		FROM holdings
		WHERE user_id = $1
		AND symbol = $2
		`

	slog.Debug("GetHolding start", slog.String("rqID", rqID), slog.String("query", query))
	defer func() {
		if err != nil {
			slog.Error("GetHolding failed", slog.String("rqID", rqID), slog.String("err", err.Error()))
		} else {
			slog.Debug("GetHolding completed", slog.String("rqID", rqID))
		}
	}()

	dbHolding := dbModel.Holding{}
	err = r.txOrDb(ctx).QueryRowxContext(ctx, query, userID, symbol).StructScan(&dbHolding)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.PortfolioHolding{}, repository.ErrNotFound
		}
		return model.PortfolioHolding{}, err
	}

	return dbConverter.ConvertHolding(dbHolding), nil
}

func (r *Postgres) Upsert(ctx context.Context, userID string, holding model.PortfolioHolding) (err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	query := `
		INSERT INTO holdings (user_id, symbol, shares, reference_price, dividend_per_share, next_dividend_date, dividend_frequency, dt_update)
		VALUES ($1, $2, $3, $4, $5, $6, $7, now())
		ON CONFLICT (user_id, symbol) DO UPDATE SET
			shares = EXCLUDED.shares,
			reference_price = EXCLUDED.reference_price,
			dividend_per_share = EXCLUDED.dividend_per_share,
			next_dividend_date = EXCLUDED.next_dividend_date,
			dividend_frequency = EXCLUDED.dividend_frequency,
			dt_update = now()
	`

	slog.Debug("Upsert start", slog.String("rqID", rqID), slog.String("query", query))
	defer func() {
		if err != nil {
			slog.Error("Upsert failed", slog.String("rqID", rqID), slog.String("err", err.Error()))
		} else {
			slog.Debug("Upsert completed", slog.String("rqID", rqID))
		}
	}()

	_, err = r.txOrDb(ctx).ExecContext(ctx, query,
		userID,
		holding.Symbol,
		holding.Shares,
		holding.ReferencePrice,
		holding.DividendPerShare,
		holding.NextDividendDate,
		string(holding.DividendFrequency),
	)

	return err
}

func (r *Postgres) Delete(ctx context.Context, userID, symbol string) (err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	query := `DELETE FROM holdings WHERE user_id = $1 AND symbol = $2`

	slog.Debug("Delete start", slog.String("rqID", rqID), slog.String("query", query))
	defer func() {
		if err != nil {
			slog.Error("Delete failed", slog.String("rqID", rqID), slog.String("err", err.Error()))
		} else {
			slog.Debug("Delete completed", slog.String("rqID", rqID))
		}
	}()

	_, err = r.txOrDb(ctx).ExecContext(ctx, query, userID, symbol)

	return err
}
