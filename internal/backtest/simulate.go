package backtest

// simulate.go — replay de recomendaciones contra los resultados inferidos.
//
// Cada apuesta arriesga InitialBank·StakeFraction (no compone: el stake no crece
// con la banca). La banca puede quedar negativa; no se recorta.

import (
	"github.com/alejandrodnm/bacbot/internal/domain"
)

const (
	defaultInitialBank   = 1000.0
	defaultStakeFraction = 0.01
)

// Params son los parámetros de una simulación.
type Params struct {
	InitialBank   float64
	StakeFraction float64
	Payouts       domain.Payouts
	Thresholds    domain.Thresholds
}

// DefaultParams devuelve los parámetros del backtest de referencia.
func DefaultParams() Params {
	return Params{
		InitialBank:   defaultInitialBank,
		StakeFraction: defaultStakeFraction,
		Payouts:       domain.DefaultPayouts(),
		Thresholds:    domain.Thresholds{Aggressive: 0.25, Conservative: 0.40},
	}
}

// Result agrupa el resultado de ambos modos para un mismo set de parámetros.
type Result struct {
	Params       Params
	Aggressive   domain.BacktestOutcome
	Conservative domain.BacktestOutcome
}

// Outcome devuelve el resultado del modo m.
func (r Result) Outcome(m domain.Mode) domain.BacktestOutcome {
	if m == domain.Conservative {
		return r.Conservative
	}
	return r.Aggressive
}

// Simulate ejecuta el backtest de ambos modos. Función pura: mismos inputs, mismas métricas.
func Simulate(entries []domain.InferredEntry, p Params) Result {
	return Result{
		Params:       p,
		Aggressive:   simulateMode(entries, p, domain.Aggressive),
		Conservative: simulateMode(entries, p, domain.Conservative),
	}
}

func simulateMode(entries []domain.InferredEntry, p Params, mode domain.Mode) domain.BacktestOutcome {
	threshold := p.Thresholds.For(mode)
	stake := p.InitialBank * p.StakeFraction

	out := domain.BacktestOutcome{Mode: mode, Trades: []domain.Trade{}}
	bank := p.InitialBank
	peak := bank

	for _, e := range entries {
		if !e.HasNext() {
			continue
		}
		rec := e.Result.Mode(mode)
		if rec.Abstained() || rec.Confidence < threshold {
			continue
		}

		profit := settle(rec.Side, e.Next, stake, p.Payouts)
		bank += profit
		out.Net += profit
		out.Bets++
		if profit > 0 {
			out.Wins++
		}

		peak = max(peak, bank)
		out.MaxDrawdown = max(out.MaxDrawdown, peak-bank)

		out.Trades = append(out.Trades, domain.Trade{
			Timestamp:  e.Timestamp,
			Bet:        rec.Side,
			Next:       e.Next,
			Confidence: rec.Confidence,
			Stake:      stake,
			Profit:     profit,
			Bank:       bank,
		})
	}

	out.FinalBank = bank
	if out.Bets > 0 {
		out.WinRate = float64(out.Wins) / float64(out.Bets)
	}
	if p.InitialBank != 0 {
		out.ROI = (bank - p.InitialBank) / p.InitialBank
	}
	return out
}

// settle resuelve una apuesta: acierto paga stake·payout, Tie contra un lado es push.
func settle(bet, next domain.Outcome, stake float64, payouts domain.Payouts) float64 {
	switch {
	case bet == next:
		return stake * payouts.Of(bet)
	case next == domain.Tie:
		return 0
	default:
		return -stake
	}
}
