package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/alejandrodnm/bacbot/config"
	"github.com/alejandrodnm/bacbot/internal/adapters/export"
	"github.com/alejandrodnm/bacbot/internal/adapters/notify"
	"github.com/alejandrodnm/bacbot/internal/adapters/storage"
	"github.com/alejandrodnm/bacbot/internal/backtest"
)

func runBacktest(ctx context.Context, cfg *config.Config, console *notify.Console) error {
	slog.Info("=== BACKTEST MODE: replay stored recommendations ===")

	store, err := storage.NewSQLiteStorage(cfg.Storage.DSN)
	if err != nil {
		return err
	}
	defer store.Close()

	report, err := backtest.NewRunner(store).Backtest(ctx, backtestParams(cfg.Backtest), cfg.Backtest.Stakes)
	if err != nil {
		return err
	}

	console.PrintBacktest(backtestSummary(report))
	return nil
}

func runSweep(ctx context.Context, cfg *config.Config, console *notify.Console) error {
	slog.Info("=== SWEEP MODE: thresholds × stakes over stored history ===")

	metric, err := backtest.ParseMetric(cfg.Sweep.Metric)
	if err != nil {
		return err
	}

	store, err := storage.NewSQLiteStorage(cfg.Storage.DSN)
	if err != nil {
		return err
	}
	defer store.Close()

	report, err := backtest.NewRunner(store).Sweep(ctx, sweepGrid(cfg))
	if err != nil {
		return err
	}

	if cfg.Sweep.CSVPath != "" {
		if err := export.WriteSweepFile(cfg.Sweep.CSVPath, report.Rows); err != nil {
			return fmt.Errorf("export sweep: %w", err)
		}
		slog.Info("sweep exported", "path", cfg.Sweep.CSVPath, "rows", len(report.Rows))
	}

	ranked := backtest.Rank(report.Rows, metric, cfg.Sweep.Top)
	console.PrintSweep(ranked, string(metric), len(report.Rows))
	return nil
}

func backtestSummary(r backtest.Report) notify.BacktestSummary {
	s := notify.BacktestSummary{
		Records:  r.Records,
		Timeline: r.Timeline,
		Settled:  r.Settled,
	}
	for _, res := range r.Results {
		s.Runs = append(s.Runs, notify.BacktestRun{
			InitialBank:   res.Params.InitialBank,
			StakeFraction: res.Params.StakeFraction,
			Thresholds:    res.Params.Thresholds,
			Aggressive:    res.Aggressive,
			Conservative:  res.Conservative,
		})
	}
	return s
}
