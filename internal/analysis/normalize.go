package analysis

import (
	"strings"

	"github.com/alejandrodnm/bacbot/internal/domain"
)

// Normalize convierte tokens arbitrarios en una secuencia del alfabeto B/P/T.
// Los tokens que no son exactamente uno de los tres símbolos se descartan en silencio.
func Normalize(tokens []string) domain.Sequence {
	seq := make(domain.Sequence, 0, len(tokens))
	for _, t := range tokens {
		o := domain.Outcome(strings.ToUpper(strings.TrimSpace(t)))
		if o.Valid() {
			seq = append(seq, o)
		}
	}
	return seq
}

// NormalizeString parte s por espacios y normaliza los tokens ("B P t x" → B P T).
func NormalizeString(s string) domain.Sequence {
	return Normalize(strings.Fields(s))
}
