package analysis

// engine.go — motor de recomendación con dos posturas de riesgo.
//
// Para cada postura:
//
//	conf = clamp01(raw − PenaltyMultiplier·penalty + log1p(total)/BonusDivisor + Offset)
//	raw  = max(0, p(best) − p(second))
//
// donde penalty = ManipulationPenalty si el detector marca la secuencia completa.
// La postura recomienda el símbolo más frecuente si conf ≥ Threshold, si no se abstiene.

import (
	"math"
	"sort"

	"github.com/alejandrodnm/bacbot/internal/domain"
)

const (
	defaultWindow              = 20
	defaultManipulationPenalty = 0.2
	confidenceDecimals         = 1000 // 3 decimales, como el histórico registrado
)

// ModePolicy parametriza una postura de riesgo.
type ModePolicy struct {
	PenaltyMultiplier float64
	BonusDivisor      float64
	Offset            float64
	Threshold         float64
}

// Config es la superficie de configuración del motor.
type Config struct {
	Window              int
	ManipulationPenalty float64
	Manipulation        ManipulationPolicy
	Aggressive          ModePolicy
	Conservative        ModePolicy
}

// DefaultConfig devuelve la política de scoring de producción.
func DefaultConfig() Config {
	return Config{
		Window:              defaultWindow,
		ManipulationPenalty: defaultManipulationPenalty,
		Manipulation:        DefaultManipulationPolicy(),
		Aggressive: ModePolicy{
			PenaltyMultiplier: 0.5,
			BonusDivisor:      10,
			Offset:            0.05,
			Threshold:         0.05,
		},
		Conservative: ModePolicy{
			PenaltyMultiplier: 1.5,
			BonusDivisor:      12,
			Offset:            -0.05,
			Threshold:         0.25,
		},
	}
}

// Policy devuelve la política de la postura m.
func (c Config) Policy(m domain.Mode) ModePolicy {
	if m == domain.Conservative {
		return c.Conservative
	}
	return c.Aggressive
}

// Engine calcula recomendaciones. Es inmutable y seguro para uso concurrente.
type Engine struct {
	cfg Config
}

// NewEngine crea un Engine. Una ventana ≤0 se reemplaza por la de defecto.
func NewEngine(cfg Config) *Engine {
	if cfg.Window <= 0 {
		cfg.Window = defaultWindow
	}
	return &Engine{cfg: cfg}
}

// Config devuelve la configuración efectiva.
func (e *Engine) Config() Config {
	return e.cfg
}

// Recommend normaliza los tokens y devuelve la recomendación para la próxima ronda.
func Recommend(tokens []string, cfg Config) domain.RecommendationResult {
	return NewEngine(cfg).Recommend(Normalize(tokens))
}

// Recommend devuelve la recomendación para la ronda que sigue a seq.
// Una ventana vacía produce el resultado centinela "sin datos", nunca un error.
func (e *Engine) Recommend(seq domain.Sequence) domain.RecommendationResult {
	manipulation := DetectManipulation(seq, e.cfg.Manipulation)

	recent := seq.Tail(e.cfg.Window)
	total := len(recent)
	if total == 0 {
		return domain.RecommendationResult{
			Manipulation: manipulation,
			Notes:        []string{noDataReason},
		}
	}

	probs := frequencies(recent)

	penalty := 0.0
	if manipulation.Flagged {
		penalty = e.cfg.ManipulationPenalty
	}

	ranked := rank(probs)
	best, second := ranked[0], ranked[1]
	raw := math.Max(0, probs.Of(best)-probs.Of(second))

	return domain.RecommendationResult{
		Samples:       total,
		Probabilities: probs,
		Modes: domain.ModeSet{
			Aggressive:   decide(e.cfg.Aggressive, best, raw, penalty, total),
			Conservative: decide(e.cfg.Conservative, best, raw, penalty, total),
		},
		Manipulation: manipulation,
		Notes:        []string{manipulationNote(manipulation)},
	}
}

// decide aplica la transformación de confianza de una postura.
func decide(p ModePolicy, best domain.Outcome, raw, penalty float64, total int) domain.ModeRecommendation {
	conf := raw - p.PenaltyMultiplier*penalty + sampleBonus(total, p.BonusDivisor) + p.Offset
	conf = clamp01(conf)

	rec := domain.ModeRecommendation{Confidence: roundConfidence(conf)}
	if conf >= p.Threshold {
		rec.Side = best
	}
	return rec
}

// sampleBonus premia ventanas más grandes: log1p(total)/divisor.
func sampleBonus(total int, divisor float64) float64 {
	if divisor <= 0 {
		return 0
	}
	return math.Log1p(float64(total)) / divisor
}

// frequencies calcula count/total por símbolo. La suma es 1 si seq no está vacía.
func frequencies(seq domain.Sequence) domain.Probabilities {
	var b, p, t int
	for _, o := range seq {
		switch o {
		case domain.Banker:
			b++
		case domain.Player:
			p++
		case domain.Tie:
			t++
		}
	}
	n := float64(len(seq))
	return domain.Probabilities{
		Banker: float64(b) / n,
		Player: float64(p) / n,
		Tie:    float64(t) / n,
	}
}

// rank ordena el alfabeto por probabilidad descendente; empates en orden Banker, Player, Tie.
func rank(p domain.Probabilities) []domain.Outcome {
	out := domain.Outcomes[:]
	ranked := make([]domain.Outcome, len(out))
	copy(ranked, out)
	sort.SliceStable(ranked, func(i, j int) bool {
		return p.Of(ranked[i]) > p.Of(ranked[j])
	})
	return ranked
}

func clamp01(x float64) float64 {
	return math.Max(0, math.Min(1, x))
}

func roundConfidence(x float64) float64 {
	return math.Round(x*confidenceDecimals) / confidenceDecimals
}
