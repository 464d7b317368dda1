package backtest

// timeline.go — reconstruye la timeline real a partir de snapshots solapados.
//
// Cada HistoryRecord guarda la secuencia que se vio al emitir la recomendación.
// Los snapshots se solapan: el registro i+1 suele empezar con el final del i.
// Se cose cada snapshot a la timeline por el mayor k tal que
//
//	timeline[len-k:] == tokens[:k]
//
// (greedy, k de mayor a menor, primer match gana) y se agrega tokens[k:].
// Si k=0 el snapshot entero se agrega al final; con fragmentos disjuntos esto
// duplica resultados, es una aproximación conocida.

import (
	"slices"

	"github.com/alejandrodnm/bacbot/internal/domain"
)

// Reconstruct cose los registros (en orden cronológico) y devuelve, para cada uno,
// el resultado que le siguió en la timeline. También devuelve la timeline completa.
func Reconstruct(records []domain.HistoryRecord) ([]domain.InferredEntry, domain.Sequence) {
	timeline := domain.Sequence{}
	lastIdx := make([]int, len(records))

	for i, rec := range records {
		tokens := rec.Sequence
		if i == 0 {
			timeline = append(timeline, tokens...)
		} else {
			k := overlap(timeline, tokens)
			timeline = append(timeline, tokens[k:]...)
		}
		lastIdx[i] = len(timeline) - 1
	}

	entries := make([]domain.InferredEntry, len(records))
	for i, rec := range records {
		entry := domain.InferredEntry{
			Timestamp: rec.Timestamp,
			Sequence:  rec.Sequence,
			Result:    rec.Result,
		}
		if next := lastIdx[i] + 1; next < len(timeline) {
			entry.Next = timeline[next]
		}
		entries[i] = entry
	}
	return entries, timeline
}

// overlap devuelve el mayor k tal que el sufijo de largo k de timeline
// es igual al prefijo de largo k de tokens (0 si no hay solapamiento).
func overlap(timeline, tokens domain.Sequence) int {
	for k := min(len(timeline), len(tokens)); k > 0; k-- {
		if slices.Equal(timeline[len(timeline)-k:], tokens[:k]) {
			return k
		}
	}
	return 0
}
