package backtest

// concurrent.go — worker pool para el barrido de parámetros.
//
// Cada combinación del grid es independiente y solo lee las entradas
// reconstruidas, así que se reparten entre workers. Cada resultado se escribe
// en su propio slot de rows: el orden de salida no depende del scheduling.

import (
	"sync"

	"github.com/alejandrodnm/bacbot/internal/domain"
)

func sweepConcurrent(entries []domain.InferredEntry, g Grid, combos []combo, rows []domain.SweepRow) {
	workers := min(g.Workers, len(combos))

	workCh := make(chan int, len(combos))

	var wg sync.WaitGroup
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range workCh {
				simulateCombo(entries, g, combos[i], rows[i*len(domain.Modes):])
			}
		}()
	}

	for i := range combos {
		workCh <- i
	}
	close(workCh)
	wg.Wait()
}
