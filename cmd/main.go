package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/hellix17/cosmic-tracker/config"
	"github.com/hellix17/cosmic-tracker/data"
	"github.com/hellix17/cosmic-tracker/data/cache"
	"github.com/hellix17/cosmic-tracker/data/repository/postgres"
	"github.com/hellix17/cosmic-tracker/data/repository/sqlite"
	"github.com/hellix17/cosmic-tracker/data/session"
	"github.com/hellix17/cosmic-tracker/internal/externalApi/cloudStorageApi/googleDriveApi"
	"github.com/hellix17/cosmic-tracker/internal/externalApi/finnhubApi"
	"github.com/hellix17/cosmic-tracker/internal/externalApi/yahooApi"
	"github.com/hellix17/cosmic-tracker/internal/ledger"
	"github.com/hellix17/cosmic-tracker/internal/reportGenerator/xlsxGenerator"
	"github.com/hellix17/cosmic-tracker/internal/scheduler"
	"github.com/hellix17/cosmic-tracker/internal/service/trackerService"
	"github.com/hellix17/cosmic-tracker/internal/transport/httpapi"
)

func main() {
	cfg := config.MustLoad()

	setupLogger(cfg)

	slog.Debug("config", slog.Any("cfg", cfg))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store, closeStore := setupStore(cfg)
	defer closeStore()

	redisClient := data.NewRedisClient(cfg)
	defer redisClient.Close()

	redisCache := cache.NewRedisCache(redisClient, cfg)
	redisSession := session.NewRedisSession(redisClient)

	finnhubApiClient := finnhubApi.New(cfg)
	yahooApiClient := yahooApi.New(cfg)

	reportGenerator := xlsxGenerator.New()

	var cloudStorage trackerService.CloudStorage
	if cfg.GoogleDrive.Enabled {
		cloudStorage = googleDriveApi.New(ctx, cfg)
	}

	trackerSrv := trackerService.New(
		store,
		redisCache,
		redisSession,
		finnhubApiClient,
		yahooApiClient,
		reportGenerator,
		cloudStorage,
	)

	sched := scheduler.New()
	sched.NewIntervalJob("refresh held quotes", trackerSrv.RefreshHeldQuotes, cfg.Jobs.RefreshQuotesInterval, false)
	if cfg.GoogleDrive.Enabled {
		driveApi := cloudStorage.(*googleDriveApi.GoogleDriveApi)
		sched.NewCrontabJob("delete old drive files", driveApi.DeleteOldFiles, "0 3 * * *", false)
	}
	sched.Start()
	defer sched.Stop()

	handler := httpapi.NewHandler(trackerSrv)
	router := httpapi.SetupRoutes(handler)

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler:      router,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
	}

	go func() {
		slog.Info("http server starting", slog.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("http server error", slog.String("err", err.Error()))
			cancel()
		}
	}()

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)

	select {
	case <-interrupt:
	case <-ctx.Done():
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("http server shutdown error", slog.String("err", err.Error()))
	}
}

// setupStore picks the holdings store backend. Postgres serves multi-user
// deployments, sqlite a local single-user install.
func setupStore(cfg *config.Config) (store ledger.Store, closeFn func()) {
	switch cfg.StoreBackend {
	case "postgres":
		pgClient := data.NewPostgresClient(cfg)
		return postgres.NewPostgres(cfg, pgClient), func() { pgClient.Close() }
	case "sqlite":
		sqliteClient := data.NewSqliteClient(cfg)
		return sqlite.NewSqlite(sqliteClient), func() { sqliteClient.Close() }
	default:
		panic(fmt.Sprintf("unknown store backend: %s", cfg.StoreBackend))
	}
}

func setupLogger(cfg *config.Config) {
	var logLevel slog.Level

	switch cfg.LogLevel {
	case "debug":
		logLevel = slog.LevelDebug
	case "info":
		logLevel = slog.LevelInfo
	case "warning":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	log := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel}))
	slog.SetDefault(log)
}
