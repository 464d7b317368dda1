package main

import (
	"context"
	"log/slog"

	"github.com/alejandrodnm/bacbot/config"
	"github.com/alejandrodnm/bacbot/internal/adapters/bacbo"
	"github.com/alejandrodnm/bacbot/internal/adapters/notify"
	"github.com/alejandrodnm/bacbot/internal/adapters/storage"
	"github.com/alejandrodnm/bacbot/internal/adapters/telegram"
	"github.com/alejandrodnm/bacbot/internal/monitor"
)

func runMonitor(ctx context.Context, cfg *config.Config, console *notify.Console, once bool) error {
	store, err := storage.NewSQLiteStorage(cfg.Storage.DSN)
	if err != nil {
		return err
	}
	defer store.Close()

	notifiers := notify.Multi{console}
	if cfg.Telegram.Enabled() {
		notifiers = append(notifiers, telegram.NewClient(cfg.Telegram.BaseURL, cfg.Telegram.BotToken, cfg.Telegram.ChatID))
		slog.Info("telegram alerts enabled", "chat_id", cfg.Telegram.ChatID)
	} else {
		slog.Warn("telegram not configured, alerts go to console only")
	}

	tracker := monitor.NewTracker(store)
	if err := tracker.Load(ctx); err != nil {
		return err
	}
	stats := tracker.Snapshot()
	slog.Info("stats loaded",
		"signals", stats.TotalSignals,
		"wins", stats.Wins,
		"losses", stats.Losses,
		"accuracy", stats.Accuracy(),
	)

	monCfg := monitor.DefaultConfig()
	monCfg.Interval = cfg.PollInterval()
	monCfg.Mode = monitorMode(cfg.Monitor.Mode)
	monCfg.MaxErrors = cfg.Monitor.MaxErrors
	monCfg.Analysis = analysisConfig(cfg.Analysis)

	mon := monitor.New(monCfg, bacbo.NewClient(cfg.API.BacBoURL), store, notifiers, tracker)
	if once {
		return mon.RunOnce(ctx)
	}
	return mon.Run(ctx)
}
