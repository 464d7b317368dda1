package domain

import "time"

// HistoryRecord es una recomendación registrada junto con la secuencia que la originó.
type HistoryRecord struct {
	ID        int64
	Timestamp time.Time
	Sequence  Sequence
	Result    RecommendationResult
}

// InferredEntry es un HistoryRecord con el resultado que realmente le siguió.
// Next vacío = la timeline no llega más allá de este registro.
type InferredEntry struct {
	Timestamp time.Time
	Sequence  Sequence
	Result    RecommendationResult
	Next      Outcome
}

// HasNext devuelve true si se conoce el resultado siguiente.
func (e InferredEntry) HasNext() bool {
	return e.Next.Valid()
}

// Payouts es el retorno neto por unidad apostada en caso de acierto.
type Payouts struct {
	Banker float64 `yaml:"banker"`
	Player float64 `yaml:"player"`
	Tie    float64 `yaml:"tie"`
}

// DefaultPayouts devuelve la tabla de pagos estándar de Bac Bo.
func DefaultPayouts() Payouts {
	return Payouts{Banker: 0.95, Player: 1.0, Tie: 8.0}
}

// Of devuelve el pago neto para una apuesta ganadora en o.
func (p Payouts) Of(o Outcome) float64 {
	switch o {
	case Banker:
		return p.Banker
	case Player:
		return p.Player
	case Tie:
		return p.Tie
	}
	return 0
}

// Thresholds son los umbrales mínimos de confianza por modo.
type Thresholds struct {
	Aggressive   float64 `yaml:"aggressive"`
	Conservative float64 `yaml:"conservative"`
}

// For devuelve el umbral del modo m.
func (t Thresholds) For(m Mode) float64 {
	if m == Conservative {
		return t.Conservative
	}
	return t.Aggressive
}

// Trade es una apuesta simulada durante el backtest.
type Trade struct {
	Timestamp  time.Time
	Bet        Outcome
	Next       Outcome
	Confidence float64
	Stake      float64
	Profit     float64
	Bank       float64
}

// BacktestOutcome resume la simulación de un modo con un set de parámetros.
type BacktestOutcome struct {
	Mode        Mode
	Bets        int
	Wins        int
	WinRate     float64
	Net         float64
	ROI         float64
	MaxDrawdown float64
	FinalBank   float64
	Trades      []Trade
}

// SweepRow es una fila plana del barrido: parámetros + métricas de un modo.
type SweepRow struct {
	AggressiveThreshold   float64
	ConservativeThreshold float64
	Stake                 float64
	Mode                  Mode
	Bets                  int
	Wins                  int
	WinRate               float64
	Net                   float64
	ROI                   float64
	FinalBank             float64
	MaxDrawdown           float64
}
