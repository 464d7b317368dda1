package backtest

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/alejandrodnm/bacbot/internal/domain"
	"github.com/alejandrodnm/bacbot/internal/ports"
)

// Report es el resultado de un backtest sobre el histórico guardado.
type Report struct {
	Records  int
	Timeline int // largo de la timeline reconstruida
	Settled  int // registros con resultado siguiente conocido
	Results  []Result
}

// SweepReport es el resultado de un barrido sobre el histórico guardado.
type SweepReport struct {
	Records int
	Settled int
	Rows    []domain.SweepRow
}

// Runner carga el histórico desde storage y ejecuta simulaciones sobre él.
type Runner struct {
	history ports.HistoryStorage
}

// NewRunner crea un Runner.
func NewRunner(history ports.HistoryStorage) *Runner {
	return &Runner{history: history}
}

// Backtest simula cada stake fraction con los mismos params base.
// Si stakes está vacío usa params.StakeFraction.
func (r *Runner) Backtest(ctx context.Context, params Params, stakes []float64) (Report, error) {
	start := time.Now()

	entries, timeline, err := r.load(ctx)
	if err != nil {
		return Report{}, err
	}

	if len(stakes) == 0 {
		stakes = []float64{params.StakeFraction}
	}

	report := Report{
		Records:  len(entries),
		Timeline: len(timeline),
		Settled:  countSettled(entries),
	}
	for _, stake := range stakes {
		p := params
		p.StakeFraction = stake
		report.Results = append(report.Results, Simulate(entries, p))
	}

	slog.Info("backtest complete",
		"records", report.Records,
		"settled", report.Settled,
		"timeline", report.Timeline,
		"stakes", len(stakes),
		"duration", time.Since(start).Round(time.Millisecond),
	)
	return report, nil
}

// Sweep ejecuta el barrido del grid sobre el histórico guardado.
func (r *Runner) Sweep(ctx context.Context, grid Grid) (SweepReport, error) {
	start := time.Now()

	entries, _, err := r.load(ctx)
	if err != nil {
		return SweepReport{}, err
	}

	slog.Info("running sweep",
		"combinations", grid.Size(),
		"aggressive", grid.AggressiveThresholds,
		"conservative", grid.ConservativeThresholds,
		"stakes", grid.Stakes,
		"workers", max(grid.Workers, 1),
	)

	rows := Sweep(entries, grid)

	slog.Info("sweep complete",
		"rows", len(rows),
		"duration", time.Since(start).Round(time.Millisecond),
	)
	return SweepReport{
		Records: len(entries),
		Settled: countSettled(entries),
		Rows:    rows,
	}, nil
}

// load lee el histórico y lo reconstruye una sola vez.
func (r *Runner) load(ctx context.Context) ([]domain.InferredEntry, domain.Sequence, error) {
	records, err := r.history.LoadHistory(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("backtest.Runner: load history: %w", err)
	}
	if len(records) == 0 {
		slog.Warn("history is empty — nothing to replay")
	}

	entries, timeline := Reconstruct(records)
	slog.Debug("timeline reconstructed", "records", len(records), "timeline", len(timeline))
	return entries, timeline, nil
}

func countSettled(entries []domain.InferredEntry) int {
	n := 0
	for _, e := range entries {
		if e.HasNext() {
			n++
		}
	}
	return n
}
