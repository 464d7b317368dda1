package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/alejandrodnm/bacbot/config"
	"github.com/alejandrodnm/bacbot/internal/adapters/notify"
	"github.com/alejandrodnm/bacbot/internal/analysis"
	"github.com/alejandrodnm/bacbot/internal/backtest"
	"github.com/alejandrodnm/bacbot/internal/domain"
)

func main() {
	configPath := flag.String("config", "config/config.yaml", "path to config file")
	recommend := flag.String("recommend", "", `recommend the next round for a sequence, e.g. "B P P T B"`)
	runBT := flag.Bool("backtest", false, "replay stored history and print per-mode metrics")
	runSW := flag.Bool("sweep", false, "sweep thresholds × stakes over stored history")
	csvPath := flag.String("csv", "", "write sweep rows to this CSV file (overrides config)")
	metric := flag.String("metric", "", "sweep ranking metric (overrides config)")
	top := flag.Int("top", 0, "rows to print from the sweep (overrides config)")
	once := flag.Bool("once", false, "run one monitor cycle and exit")
	verbose := flag.Bool("verbose", false, "set log level to debug")
	logFormat := flag.String("format", "", "log format: text|json (overrides config)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "err", err, "path", *configPath)
		os.Exit(1)
	}

	if *verbose {
		cfg.Log.Level = "debug"
	}
	if *logFormat != "" {
		cfg.Log.Format = *logFormat
	}
	if *csvPath != "" {
		cfg.Sweep.CSVPath = *csvPath
	}
	if *metric != "" {
		cfg.Sweep.Metric = *metric
	}
	if *top > 0 {
		cfg.Sweep.Top = *top
	}
	setupLogger(cfg.Log)

	console := notify.NewConsole()

	// -recommend no necesita storage ni red
	if *recommend != "" {
		seq := analysis.NormalizeString(*recommend)
		res := analysis.NewEngine(analysisConfig(cfg.Analysis)).Recommend(seq)
		console.PrintRecommendation(seq, res)
		return
	}

	slog.Info("bacbot starting",
		"config", *configPath,
		"dsn", cfg.Storage.DSN,
		"backtest", *runBT,
		"sweep", *runSW,
		"once", *once,
	)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	switch {
	case *runBT:
		err = runBacktest(ctx, cfg, console)
	case *runSW:
		err = runSweep(ctx, cfg, console)
	default:
		err = runMonitor(ctx, cfg, console, *once)
	}
	if err != nil {
		slog.Error("bacbot exited with error", "err", err)
		os.Exit(1)
	}

	slog.Info("bacbot stopped cleanly")
}

// analysisConfig traduce la sección analysis del YAML a la config del motor.
func analysisConfig(c config.AnalysisConfig) analysis.Config {
	return analysis.Config{
		Window:              c.Window,
		ManipulationPenalty: c.ManipulationPenalty,
		Manipulation: analysis.ManipulationPolicy{
			MinRun:              c.MinRun,
			RunFraction:         c.RunFraction,
			MinAlternations:     c.MinAlternations,
			AlternationFraction: c.AlternationFraction,
			Rounding:            analysis.Rounding(c.ThresholdRounding),
		},
		Aggressive:   modePolicy(c.Aggressive),
		Conservative: modePolicy(c.Conservative),
	}
}

func modePolicy(m config.ModeConfig) analysis.ModePolicy {
	return analysis.ModePolicy{
		PenaltyMultiplier: m.PenaltyMultiplier,
		BonusDivisor:      m.BonusDivisor,
		Offset:            m.Offset,
		Threshold:         m.Threshold,
	}
}

func backtestParams(c config.BacktestConfig) backtest.Params {
	return backtest.Params{
		InitialBank:   c.InitialBank,
		StakeFraction: c.StakeFraction,
		Payouts:       c.Payouts,
		Thresholds:    c.Thresholds,
	}
}

func sweepGrid(cfg *config.Config) backtest.Grid {
	return backtest.Grid{
		AggressiveThresholds:   cfg.Sweep.AggressiveThresholds,
		ConservativeThresholds: cfg.Sweep.ConservativeThresholds,
		Stakes:                 cfg.Sweep.Stakes,
		InitialBank:            cfg.Backtest.InitialBank,
		Payouts:                cfg.Backtest.Payouts,
		Workers:                cfg.Sweep.Workers,
	}
}

func monitorMode(s string) domain.Mode {
	if domain.Mode(s) == domain.Aggressive {
		return domain.Aggressive
	}
	return domain.Conservative
}

func setupLogger(cfg config.LogConfig) {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}
	slog.SetDefault(slog.New(handler))
}
