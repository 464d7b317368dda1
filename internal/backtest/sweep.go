package backtest

import (
	"fmt"
	"sort"

	"github.com/alejandrodnm/bacbot/internal/domain"
)

// Grid define el producto cartesiano que recorre el barrido.
type Grid struct {
	AggressiveThresholds   []float64
	ConservativeThresholds []float64
	Stakes                 []float64
	InitialBank            float64
	Payouts                domain.Payouts
	Workers                int // ≤1 = secuencial; >1 reparte las combinaciones en un worker pool
}

// DefaultGrid devuelve los rangos del barrido de referencia.
func DefaultGrid() Grid {
	return Grid{
		AggressiveThresholds:   []float64{0.15, 0.20, 0.25, 0.30, 0.35},
		ConservativeThresholds: []float64{0.30, 0.35, 0.40, 0.45, 0.50},
		Stakes:                 []float64{0.01, 0.02, 0.05},
		InitialBank:            defaultInitialBank,
		Payouts:                domain.DefaultPayouts(),
	}
}

// Size devuelve el número de combinaciones del grid.
func (g Grid) Size() int {
	return len(g.AggressiveThresholds) * len(g.ConservativeThresholds) * len(g.Stakes)
}

// Sweep simula cada combinación (aggr × cons × stake) y devuelve una fila por
// combinación y modo, en orden aggr → cons → stake → modo sin importar cuántos
// workers se usen. Las entradas se reconstruyen una sola vez, fuera de aquí.
func Sweep(entries []domain.InferredEntry, g Grid) []domain.SweepRow {
	combos := g.combinations()
	rows := make([]domain.SweepRow, len(combos)*len(domain.Modes))
	if g.Workers <= 1 || len(combos) < 2 {
		for i, c := range combos {
			simulateCombo(entries, g, c, rows[i*len(domain.Modes):])
		}
		return rows
	}
	sweepConcurrent(entries, g, combos, rows)
	return rows
}

// combo es un punto del grid.
type combo struct {
	aggr, cons, stake float64
}

func (g Grid) combinations() []combo {
	out := make([]combo, 0, g.Size())
	for _, aggr := range g.AggressiveThresholds {
		for _, cons := range g.ConservativeThresholds {
			for _, stake := range g.Stakes {
				out = append(out, combo{aggr: aggr, cons: cons, stake: stake})
			}
		}
	}
	return out
}

// simulateCombo escribe una fila por modo en dst.
func simulateCombo(entries []domain.InferredEntry, g Grid, c combo, dst []domain.SweepRow) {
	res := Simulate(entries, Params{
		InitialBank:   g.InitialBank,
		StakeFraction: c.stake,
		Payouts:       g.Payouts,
		Thresholds:    domain.Thresholds{Aggressive: c.aggr, Conservative: c.cons},
	})
	for j, mode := range domain.Modes {
		o := res.Outcome(mode)
		dst[j] = domain.SweepRow{
			AggressiveThreshold:   c.aggr,
			ConservativeThreshold: c.cons,
			Stake:                 c.stake,
			Mode:                  mode,
			Bets:                  o.Bets,
			Wins:                  o.Wins,
			WinRate:               o.WinRate,
			Net:                   o.Net,
			ROI:                   o.ROI,
			FinalBank:             o.FinalBank,
			MaxDrawdown:           o.MaxDrawdown,
		}
	}
}

// Metric es la columna por la que se ordena el barrido.
type Metric string

const (
	MetricROI         Metric = "roi"
	MetricNet         Metric = "net"
	MetricWinRate     Metric = "win_rate"
	MetricFinalBank   Metric = "final_bank"
	MetricBets        Metric = "bets"
	MetricWins        Metric = "wins"
	MetricMaxDrawdown Metric = "max_drawdown"
)

// ParseMetric valida el nombre de una métrica.
func ParseMetric(s string) (Metric, error) {
	switch m := Metric(s); m {
	case MetricROI, MetricNet, MetricWinRate, MetricFinalBank, MetricBets, MetricWins, MetricMaxDrawdown:
		return m, nil
	}
	return "", fmt.Errorf("backtest.ParseMetric: unknown metric %q", s)
}

func (m Metric) value(r domain.SweepRow) float64 {
	switch m {
	case MetricNet:
		return r.Net
	case MetricWinRate:
		return r.WinRate
	case MetricFinalBank:
		return r.FinalBank
	case MetricBets:
		return float64(r.Bets)
	case MetricWins:
		return float64(r.Wins)
	case MetricMaxDrawdown:
		return r.MaxDrawdown
	default:
		return r.ROI
	}
}

// Rank devuelve una copia ordenada por la métrica: descendente, salvo max_drawdown
// (menor es mejor). top ≤ 0 devuelve todas las filas.
func Rank(rows []domain.SweepRow, m Metric, top int) []domain.SweepRow {
	ranked := make([]domain.SweepRow, len(rows))
	copy(ranked, rows)

	sort.SliceStable(ranked, func(i, j int) bool {
		if m == MetricMaxDrawdown {
			return m.value(ranked[i]) < m.value(ranked[j])
		}
		return m.value(ranked[i]) > m.value(ranked[j])
	})

	if top > 0 && top < len(ranked) {
		ranked = ranked[:top]
	}
	return ranked
}
