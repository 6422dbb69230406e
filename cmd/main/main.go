package main

import (
	"context"
	"errors"
	"io/fs"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Houeta/price-tracker/internal/cli"
	"github.com/Houeta/price-tracker/internal/config"
	"github.com/Houeta/price-tracker/internal/fetcher"
	"github.com/Houeta/price-tracker/internal/parser"
	"github.com/Houeta/price-tracker/internal/repository/sqlite"
	"github.com/Houeta/price-tracker/internal/results"
	"github.com/Houeta/price-tracker/internal/services/checker"
	"github.com/Houeta/price-tracker/internal/services/notifier"
	"github.com/Houeta/price-tracker/internal/services/scheduler"
	"github.com/Houeta/price-tracker/internal/services/tracker"
	"github.com/Houeta/price-tracker/internal/store"
	"github.com/joho/godotenv"
	"github.com/spf13/afero"
)

// Constants for different environment types.
const (
	envLocal = "local"
	envDev   = "development"
	envProd  = "production"
)

// shutdownTimeout bounds the wait for an in-flight check after a signal.
const shutdownTimeout = 30 * time.Second

// main is the entry point of the application.
func main() {
	// Create a context that will be canceled when an interrupt signal is received.
	// This allows for graceful shutdown.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Fatalf("Failed to load .env file: %v", err)
	}

	cfg := config.MustLoad()

	// Set up the logger based on the environment.
	logger := setupLogger(cfg.Env)

	fsys := afero.NewOsFs()

	productStore := store.NewStore(logger, fsys, cfg.URLsFile)
	if _, err := productStore.Load(); err != nil {
		log.Fatalf("Failed to load tracked products: %v", err)
	}

	settings, err := config.LoadSettings(fsys, cfg.SettingsFile, cfg.CheckInterval)
	if err != nil {
		logger.ErrorContext(ctx, "Failed to load settings, using defaults", "error", err)
		settings = config.DefaultSettings(cfg.CheckInterval)
	}

	var repo sqlite.SampleRepository
	if cfg.StoragePath != "" {
		sqliteRepo, repoErr := sqlite.NewRepository(ctx, logger, cfg.StoragePath)
		if repoErr != nil {
			logger.ErrorContext(ctx, "Failed to open price storage, last prices will not survive a restart",
				"error", repoErr)
		} else {
			defer sqliteRepo.Close()
			repo = sqliteRepo
		}
	}

	var resultsLog tracker.ResultsLog
	if cfg.ResultsFile != "" {
		resultsLog = results.NewLog(logger, fsys, cfg.ResultsFile)
	}

	pageFetcher := fetcher.NewFetcher(logger, cfg.Fetch.Timeout, cfg.Fetch.UserAgent)
	priceChecker := checker.NewChecker(logger, pageFetcher, parser.NewParser(logger), cfg.Fetch.Delay)
	priceTracker := tracker.NewTracker(logger, priceChecker, notifier.NewNotifier(logger, nil), repo, resultsLog)

	if err = priceTracker.Restore(ctx); err != nil {
		logger.ErrorContext(ctx, "Failed to restore last known prices", "error", err)
	}

	app := cli.NewApp(logger, os.Stdin, os.Stdout, cli.Deps{
		Store:   productStore,
		Checker: priceChecker,
		Tracker: priceTracker,
		NewScheduler: func(tick scheduler.TickFunc) cli.Scheduler {
			return scheduler.New(logger, tick)
		},
		Settings: settings,
		SaveSettings: func(s config.Settings) error {
			return config.SaveSettings(fsys, cfg.SettingsFile, s)
		},
		ReadPassword: cli.TerminalPassword(int(os.Stdin.Fd())),
	})

	// Log that the application has started.
	logger.InfoContext(ctx, "Application started", "products", productStore.Len())

	// Run the menu in a goroutine to allow main to listen for signals.
	done := make(chan error, 1)
	go func() {
		done <- app.Run(ctx)
	}()

	select {
	case err = <-done:
		if err != nil {
			logger.ErrorContext(ctx, "Menu failed", "error", err)
		}
	case <-ctx.Done():
		// Log that a shutdown signal has been received.
		logger.InfoContext(ctx, "Shutdown signal received. Stopping application...")
		select {
		case <-done:
		case <-time.After(shutdownTimeout):
			logger.WarnContext(ctx, "Menu did not stop in time, exiting anyway")
		}
	}

	// Log graceful shutdown completion.
	logger.InfoContext(ctx, "Application stopped gracefully.")
}

// setupLogger initializes and returns a logger based on the environment provided.
// Logs go to stderr so they never interleave with the menu on stdout.
func setupLogger(env string) *slog.Logger {
	var log *slog.Logger

	switch env {
	case envLocal:
		log = slog.New(
			slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
				Level:     slog.LevelDebug,
				AddSource: true,
			}),
		)
	case envDev:
		log = slog.New(
			slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
				Level:     slog.LevelInfo,
				AddSource: false,
			}),
		)
	case envProd:
		log = slog.New(
			slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
				Level:     slog.LevelWarn,
				AddSource: false,
				ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
					if a.Key == slog.TimeKey {
						return slog.Attr{}
					}
					return a
				},
			}),
		)
	default:
		log = slog.New(
			slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
				Level:     slog.LevelError,
				AddSource: false,
				ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
					if a.Key == slog.TimeKey {
						return slog.Attr{}
					}
					return a
				},
			}),
		)

		log.Error(
			"The env parameter was not specified or was invalid. Logging will be minimal, by default.",
			slog.String("available_envs", "local, development, production"))
	}

	return log
}
