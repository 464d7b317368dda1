package analysis

// manipulation.go — screening heurístico de secuencias "demasiado ordenadas".
//
// Dos chequeos independientes, cualquiera basta para marcar la secuencia:
//   - racha larga:   longestRun ≥ max(MinRun, round(RunFraction·n))
//   - alternancia:   altCount   ≥ max(MinAlternations, round(AlternationFraction·n))
//
// round depende de Policy.Rounding. El default trunca, igual que los históricos ya grabados.
//
// No es un test estadístico: no hay p-values, solo umbrales.

import (
	"fmt"
	"math"
	"strings"

	"github.com/alejandrodnm/bacbot/internal/domain"
)

const noDataReason = "no data"

// Rounding es cómo se lleva fracción·n a un umbral entero.
type Rounding string

const (
	RoundDown     Rounding = "down"      // trunca (default)
	RoundHalfEven Rounding = "half_even" // .5 al par más cercano
)

func (r Rounding) apply(x float64) int {
	if r == RoundHalfEven {
		return int(math.RoundToEven(x))
	}
	return int(math.Floor(x))
}

// ManipulationPolicy contiene los umbrales del detector.
type ManipulationPolicy struct {
	MinRun              int
	RunFraction         float64
	MinAlternations     int
	AlternationFraction float64
	Rounding            Rounding
}

// DefaultManipulationPolicy devuelve los umbrales usados en producción.
func DefaultManipulationPolicy() ManipulationPolicy {
	return ManipulationPolicy{
		MinRun:              4,
		RunFraction:         0.25,
		MinAlternations:     3,
		AlternationFraction: 0.20,
		Rounding:            RoundDown,
	}
}

// RunThreshold devuelve la racha mínima que marca una secuencia de longitud n.
func (p ManipulationPolicy) RunThreshold(n int) int {
	return max(p.MinRun, p.Rounding.apply(p.RunFraction*float64(n)))
}

// AlternationThreshold devuelve el número mínimo de patrones A-B-A para marcar.
func (p ManipulationPolicy) AlternationThreshold(n int) int {
	return max(p.MinAlternations, p.Rounding.apply(p.AlternationFraction*float64(n)))
}

// DetectManipulation analiza la secuencia completa y devuelve un reporte nuevo.
func DetectManipulation(seq domain.Sequence, policy ManipulationPolicy) domain.ManipulationReport {
	n := len(seq)
	if n == 0 {
		return domain.ManipulationReport{Reasons: []string{noDataReason}}
	}

	longest := longestRun(seq)
	alt := alternations(seq)

	report := domain.ManipulationReport{
		Reasons:          []string{},
		LongestRun:       longest,
		AlternationCount: alt,
	}
	if longest >= policy.RunThreshold(n) {
		report.Flagged = true
		report.Reasons = append(report.Reasons, fmt.Sprintf("long run of %d identical outcomes", longest))
	}
	if alt >= policy.AlternationThreshold(n) {
		report.Flagged = true
		report.Reasons = append(report.Reasons, fmt.Sprintf("alternation detected (%d patterns)", alt))
	}
	return report
}

// longestRun devuelve la racha más larga de símbolos iguales consecutivos (≥1 si n>0).
func longestRun(seq domain.Sequence) int {
	if len(seq) == 0 {
		return 0
	}
	best, cur := 1, 1
	for i := 1; i < len(seq); i++ {
		if seq[i] == seq[i-1] {
			cur++
			best = max(best, cur)
		} else {
			cur = 1
		}
	}
	return best
}

// alternations cuenta los índices i≥2 con seq[i]==seq[i-2] y seq[i]!=seq[i-1].
func alternations(seq domain.Sequence) int {
	n := 0
	for i := 2; i < len(seq); i++ {
		if seq[i] == seq[i-2] && seq[i] != seq[i-1] {
			n++
		}
	}
	return n
}

// manipulationNote resume el reporte en una línea para las notas del resultado.
func manipulationNote(r domain.ManipulationReport) string {
	if r.Flagged {
		return "possible manipulation: " + strings.Join(r.Reasons, "; ")
	}
	return "no strong manipulation signals"
}
