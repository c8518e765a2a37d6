package data

import (
	"log/slog"

	"github.com/hellix17/cosmic-tracker/config"
	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3" // sqlite3 driver
)

// NewSqliteClient opens the local single-user store. It fills the same role
// browser local storage did in the first prototypes.
func NewSqliteClient(cfg *config.Config) *sqlx.DB {
	db, err := sqlx.Connect("sqlite3", cfg.Sqlite.Path)
	if err != nil {
		slog.Error("Sqlite connect error", slog.String("err", err.Error()))
		panic(err)
	}

	slog.Info("Sqlite connected", slog.String("path", cfg.Sqlite.Path))

	return db
}
