package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"homework-bot/api/internal/config"
	"homework-bot/api/internal/httpserver"
	"homework-bot/api/internal/logging"
	"homework-bot/api/internal/metrics"
	"homework-bot/api/internal/poller"
	"homework-bot/api/internal/practicum"
	"homework-bot/api/internal/store"
	"homework-bot/api/internal/telegram"
)

const journalRetention = 30 * 24 * time.Hour

func main() {
	if err := run(); err != nil {
		log.Fatalf("homework-bot: %v", err)
	}
}

// run поднимает все зависимости и крутит опрос до сигнала. Ошибки старта
// возвращаются наверх, чтобы отработали defer с закрытием лога и БД.
func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	logger, closeLog, err := logging.New(logging.Options{Path: cfg.LogFile, Level: cfg.LogLevel})
	if err != nil {
		return fmt.Errorf("logging: %w", err)
	}
	defer closeLog.Close()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// --- Telegram bot ---
	bot, err := tgbotapi.NewBotAPI(cfg.TelegramToken)
	if err != nil {
		logging.Critical(ctx, logger, "telegram bot init failed", "error", err)
		return fmt.Errorf("telegram: %w", err)
	}
	bot.Debug = false
	logger.Info("telegram bot ready", "bot", bot.Self.UserName, "chat_id", cfg.ChatID)

	// --- Postgres (необязательный журнал) ---
	var (
		journal poller.Journal
		dbPing  httpserver.Pinger
	)
	if cfg.DatabaseURL != "" {
		db, err := store.Open(ctx, cfg.DatabaseURL)
		if err != nil {
			logging.Critical(ctx, logger, "db connect failed", "error", err)
			return fmt.Errorf("db: %w", err)
		}
		defer db.Close()
		repo := store.NewJournalRepo(db)
		if err := repo.EnsureSchema(ctx); err != nil {
			logging.Critical(ctx, logger, "journal schema failed", "error", err)
			return fmt.Errorf("journal schema: %w", err)
		}
		journal, dbPing = repo, repo
		logger.Info("db connected", "dsn", store.SafeDSNSummary(cfg.DatabaseURL))

		if n, err := repo.PurgeOlderThan(ctx, journalRetention); err != nil {
			logger.Warn("journal purge failed", "error", err)
		} else if n > 0 {
			logger.Info("journal purged", "rows", n)
		}
		if n, err := repo.CountSince(ctx, cfg.ChatID, time.Now().Add(-24*time.Hour)); err == nil {
			logger.Info("notifications sent in last 24h", "count", n)
		}
	}

	m := metrics.New(prometheus.DefaultRegisterer)

	p := poller.New(poller.Config{
		Fetcher:  practicum.New(cfg.Endpoint, cfg.PracticumToken, logger),
		Notifier: telegram.NewNotifier(bot, cfg.ChatID, logger),
		Journal:  journal,
		Metrics:  m,
		Logger:   logger,
		ChatID:   cfg.ChatID,
		Interval: cfg.PollInterval,
	})

	// --- HTTP: /healthz + /metrics ---
	health := httpserver.PollHealth(p, 3*cfg.PollInterval, nil, dbPing)
	srv := httpserver.New(":"+cfg.Port, httpserver.NewMux(health, promhttp.Handler()))
	go func() {
		logger.Info("health server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("health server failed", "error", err)
		}
	}()

	if err := p.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("polling finished with error", "error", err)
	}

	shutdownCtx, stop := context.WithTimeout(context.Background(), 5*time.Second)
	defer stop()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("health server shutdown", "error", err)
	}
	return nil
}
