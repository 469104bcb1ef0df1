package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/efreitasn/lobsim/internal/config"
	"github.com/efreitasn/lobsim/internal/engine"
	"github.com/efreitasn/lobsim/internal/handler"
	"github.com/efreitasn/lobsim/internal/lobster"
	"github.com/efreitasn/lobsim/internal/position"
	"github.com/efreitasn/lobsim/internal/replay"
	"github.com/efreitasn/lobsim/internal/service"
	"github.com/efreitasn/lobsim/internal/strategy"
)

func main() {
	runAll := flag.Bool("run", false, "Replay the full event feed before serving")
	flag.Parse()

	// Load configuration.
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Set up slog logger with configured level.
	var logLevel slog.Level
	switch cfg.LogLevel {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	// Load the event feed.
	events, err := lobster.ParseFile(cfg.DataPath)
	if err != nil {
		logger.Error("failed to load event feed", slog.String("error", err.Error()))
		os.Exit(1)
	}
	if cfg.MaxEvents > 0 && len(events) > cfg.MaxEvents {
		events = events[:cfg.MaxEvents]
	}
	logger.Info("event feed loaded",
		slog.String("path", cfg.DataPath),
		slog.Int("events", len(events)),
	)

	// Strategy.
	var strat strategy.Strategy
	if cfg.Strategy != "none" {
		strat, err = strategy.New(cfg.Strategy, cfg.StrategyQty, cfg.SpreadThreshold, cfg.RandomSeed)
		if err != nil {
			logger.Error("failed to build strategy", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}

	// Session state: one tracker and one book per replay, no globals.
	tracker := position.NewTracker()
	book := engine.NewOrderBook(tracker)
	replayer := replay.NewReplayer(book, strat, events)

	// Service and router.
	svc := service.NewReplayService(replayer, book, tracker)
	hub := handler.NewHub(logger)
	router := handler.NewRouter(svc, hub, logger)

	if *runAll {
		if err := replayer.Run(context.Background()); err != nil {
			logger.Error("replay failed", slog.String("error", err.Error()))
			os.Exit(1)
		}
		snap := tracker.Snapshot()
		logger.Info("replay complete",
			slog.Int("processed", replayer.Processed()),
			slog.Int("skipped", replayer.Skipped()),
			slog.Int("trades", book.TradeCount()),
			slog.Int64("position", snap.Position),
			slog.Int64("realized_pnl", snap.RealizedPnL),
		)
	}

	// Configure HTTP server.
	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	// Start HTTP server in a goroutine.
	go func() {
		logger.Info("server starting", slog.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}()

	// Wait for SIGINT/SIGTERM.
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh
	logger.Info("shutdown signal received", slog.String("signal", sig.String()))

	// Graceful shutdown.
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", slog.String("error", err.Error()))
	}

	logger.Info("server stopped")
}
