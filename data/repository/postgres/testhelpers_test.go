package postgres

import (
	"context"
	"fmt"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/golang-migrate/migrate/v4"
	migratepg "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/hellix17/cosmic-tracker/config"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// testStore wraps a store backed by a throwaway postgres container.
type testStore struct {
	*Postgres
	db        *sqlx.DB
	container testcontainers.Container
}

func setupTestStore(t *testing.T) *testStore {
	t.Helper()
	ctx := context.Background()

	pgContainer, err := tcpostgres.Run(ctx,
		"postgres:15-alpine",
		tcpostgres.WithDatabase("testdb"),
		tcpostgres.WithUsername("testuser"),
		tcpostgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	if err != nil {
		t.Fatalf("failed to start postgres container: %v", err)
	}

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("failed to get connection string: %v", err)
	}

	db, err := sqlx.Connect("pgx", connStr)
	if err != nil {
		t.Fatalf("failed to connect to test database: %v", err)
	}

	store := &testStore{
		Postgres:  NewPostgres(&config.Config{}, db),
		db:        db,
		container: pgContainer,
	}

	if err := store.runMigrations(); err != nil {
		store.cleanup(t)
		t.Fatalf("failed to run migrations: %v", err)
	}

	return store
}

func (s *testStore) runMigrations() error {
	driver, err := migratepg.WithInstance(s.db.DB, &migratepg.Config{})
	if err != nil {
		return fmt.Errorf("failed to create migration driver: %w", err)
	}

	_, filename, _, _ := runtime.Caller(0)
	migrationsPath := filepath.Join(filepath.Dir(filename), "..", "..", "..", "migrations")

	m, err := migrate.NewWithDatabaseInstance(
		"file://"+migrationsPath,
		"postgres",
		driver,
	)
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	return nil
}

func (s *testStore) truncateAll(t *testing.T) {
	t.Helper()
	if _, err := s.db.Exec("TRUNCATE TABLE holdings"); err != nil {
		t.Fatalf("failed to truncate: %v", err)
	}
}

func (s *testStore) cleanup(t *testing.T) {
	t.Helper()

	if s.db != nil {
		s.db.Close()
	}
	if s.container != nil {
		if err := s.container.Terminate(context.Background()); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	}
}
