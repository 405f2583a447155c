package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"promo_bot/internal/config"
	"promo_bot/internal/dashboard"
	"promo_bot/internal/promo"
	"promo_bot/internal/scheduler"
	"promo_bot/internal/scraper"
	"promo_bot/internal/storage"
	"promo_bot/internal/telegram"
	"promo_bot/pkg/logger"
	"promo_bot/pkg/metrics"
)

// backupRetentionDays is how long the daily maintenance job keeps snapshots.
const backupRetentionDays = 30

func main() {
	// 1. Load configuration
	cfg := config.MustLoad()

	// 2. Init structured logger (zap based)
	log := logger.New(cfg.LogLevel, cfg.DataDir)
	defer logger.Sync(log)

	log.Infow("starting promo-bot", "version", cfg.Version)

	// 3. Root context with graceful shutdown on SIGINT/SIGTERM
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 4. Durable record store for user state and aggregate statistics
	store, err := storage.New(storage.Options{
		DataDir:     cfg.DataDir,
		MaxProducts: cfg.MaxProducts,
	}, log)
	if err != nil {
		log.Fatalw("init storage failed", "err", err)
	}
	defer store.Close()

	// 5. Expose Prometheus metrics (and optionally the stats dashboard)
	mux := metrics.NewMux()
	if cfg.DashboardEnabled {
		dashboard.New(store, cfg.Version, log).Mount(mux)
	}
	srv := metrics.MustServe(cfg.DashboardAddr, mux, log)

	// 6. External collaborators: product scraper and promo text generator
	sc := scraper.New(log)
	gen := promo.New(cfg.OpenAIKey, log)

	// 7. Telegram bot (main interface)
	bot, err := telegram.New(cfg.TelegramToken, store, sc, gen,
		cfg.MaxProducts, cfg.RateLimitReqs, cfg.RateLimitWindow, log)
	if err != nil {
		log.Fatalw("failed to initialize telegram bot", "err", err)
	}
	go bot.Run(ctx)

	// 8. Daily maintenance: prune old backups, refresh the users gauge
	maint := scheduler.New(24*time.Hour, func(ctx context.Context) {
		store.ClearOldBackups(backupRetentionDays)
		metrics.UpdateActiveUsers(store.UserCount())
	}, log)
	go maint.Run(ctx)

	// 9. Wait for termination signal
	<-ctx.Done()
	log.Info("shutdown signal received, shutting down ...")

	// 10. Graceful shutdown
	maint.Shutdown()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Warnw("http server shutdown error", "err", err)
	}

	log.Info("bye")
}
