package domain

import (
	"encoding/json"
	"fmt"
)

// Mode es una postura de riesgo del motor de recomendación.
type Mode string

const (
	Aggressive   Mode = "aggressive"
	Conservative Mode = "conservative"
)

// Modes lista ambas posturas en el orden en que se simulan y exportan.
var Modes = [2]Mode{Aggressive, Conservative}

// ManipulationReport es el resultado del detector de patrones anómalos.
// Los tags JSON coinciden con el payload que ya existe en el histórico.
type ManipulationReport struct {
	Flagged          bool     `json:"manipulated"`
	Reasons          []string `json:"reasons"`
	LongestRun       int      `json:"max_run"`
	AlternationCount int      `json:"alt_count"`
}

// ModeRecommendation es la decisión de un modo. Side vacío = abstención.
type ModeRecommendation struct {
	Side       Outcome
	Confidence float64
}

// Abstained devuelve true si el modo no recomienda apostar.
func (m ModeRecommendation) Abstained() bool {
	return !m.Side.Valid()
}

type modeRecommendationJSON struct {
	Recommendation string  `json:"recommendation"`
	Confidence     float64 `json:"confidence"`
}

// MarshalJSON escribe {"recommendation": "BANKER"|...|"N/A", "confidence": x}.
func (m ModeRecommendation) MarshalJSON() ([]byte, error) {
	return json.Marshal(modeRecommendationJSON{
		Recommendation: m.Side.Label(),
		Confidence:     m.Confidence,
	})
}

// UnmarshalJSON acepta etiquetas largas o símbolos; cualquier otra cosa es abstención.
func (m *ModeRecommendation) UnmarshalJSON(data []byte) error {
	var raw modeRecommendationJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("mode recommendation: %w", err)
	}
	side, _ := ParseOutcome(raw.Recommendation)
	m.Side = side
	m.Confidence = raw.Confidence
	return nil
}

// ModeSet agrupa las recomendaciones de ambas posturas.
type ModeSet struct {
	Aggressive   ModeRecommendation `json:"aggressive"`
	Conservative ModeRecommendation `json:"conservative"`
}

// Probabilities son las frecuencias de cada símbolo en la ventana reciente.
type Probabilities struct {
	Banker float64 `json:"BANKER"`
	Player float64 `json:"PLAYER"`
	Tie    float64 `json:"TIE"`
}

// Of devuelve la probabilidad de o (0 si o no es válido).
func (p Probabilities) Of(o Outcome) float64 {
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

// Sum devuelve la suma de las tres probabilidades.
func (p Probabilities) Sum() float64 {
	return p.Banker + p.Player + p.Tie
}

// RecommendationResult es la salida completa del motor para una secuencia.
//
// Samples es el tamaño de la ventana usada; 0 marca el resultado "sin datos".
type RecommendationResult struct {
	Samples       int                `json:"samples"`
	Probabilities Probabilities      `json:"probabilities"`
	Modes         ModeSet            `json:"modes"`
	Manipulation  ManipulationReport `json:"analysis"`
	Notes         []string           `json:"notes"`
}

// HasData devuelve false para el resultado centinela "sin datos".
func (r RecommendationResult) HasData() bool {
	return r.Samples > 0
}

// Mode devuelve la recomendación de la postura m.
func (r RecommendationResult) Mode(m Mode) ModeRecommendation {
	if m == Conservative {
		return r.Modes.Conservative
	}
	return r.Modes.Aggressive
}
