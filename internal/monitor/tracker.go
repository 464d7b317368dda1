package monitor

import (
	"context"
	"fmt"
	"sync"

	"github.com/alejandrodnm/bacbot/internal/domain"
	"github.com/alejandrodnm/bacbot/internal/ports"
)

// Tracker mantiene las estadísticas de señales en vivo. Cada mutación se
// persiste inmediatamente en el StatsStore.
type Tracker struct {
	mu    sync.Mutex
	store ports.StatsStore
	stats domain.BotStats
}

// NewTracker crea un Tracker vacío. Llamar Load para recuperar el estado guardado.
func NewTracker(store ports.StatsStore) *Tracker {
	return &Tracker{store: store}
}

// Load reemplaza el estado en memoria por el guardado.
func (t *Tracker) Load(ctx context.Context) error {
	stats, err := t.store.LoadStats(ctx)
	if err != nil {
		return fmt.Errorf("monitor.Tracker.Load: %w", err)
	}
	t.mu.Lock()
	t.stats = stats
	t.mu.Unlock()
	return nil
}

// Snapshot devuelve una copia del estado actual.
func (t *Tracker) Snapshot() domain.BotStats {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.stats
}

// Pending devuelve la señal abierta, si la hay.
func (t *Tracker) Pending() (id string, side domain.Outcome, ok bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.stats.LastSignalID == "" || t.stats.LastResult != "" {
		return "", "", false
	}
	return t.stats.LastSignalID, t.stats.LastSignal, true
}

// RegisterSignal abre una nueva señal.
func (t *Tracker) RegisterSignal(ctx context.Context, id string, side domain.Outcome) (domain.BotStats, error) {
	return t.mutate(ctx, func(s *domain.BotStats) {
		s.TotalSignals++
		s.LastSignalID = id
		s.LastSignal = side
		s.LastResult = ""
		s.ProtectionActive = false
	})
}

// Win cierra la señal abierta como acierto. outcome es Tie cuando ganó por la cobertura del empate.
func (t *Tracker) Win(ctx context.Context, outcome domain.Outcome) (domain.BotStats, error) {
	return t.mutate(ctx, func(s *domain.BotStats) {
		s.Wins++
		s.CurrentStreak++
		s.BestStreak = max(s.BestStreak, s.CurrentStreak)
		s.LastResult = outcome
		s.ProtectionActive = false
	})
}

// Loss cierra la señal abierta como fallo y corta la racha.
func (t *Tracker) Loss(ctx context.Context, outcome domain.Outcome) (domain.BotStats, error) {
	return t.mutate(ctx, func(s *domain.BotStats) {
		s.Losses++
		s.CurrentStreak = 0
		s.LastResult = outcome
		s.ProtectionActive = false
	})
}

// SetProtection marca (o limpia) el reintento de protección de la señal abierta.
func (t *Tracker) SetProtection(ctx context.Context, active bool) (domain.BotStats, error) {
	return t.mutate(ctx, func(s *domain.BotStats) {
		s.ProtectionActive = active
	})
}

func (t *Tracker) mutate(ctx context.Context, fn func(*domain.BotStats)) (domain.BotStats, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	fn(&t.stats)
	if err := t.store.SaveStats(ctx, t.stats); err != nil {
		return t.stats, fmt.Errorf("monitor.Tracker: save stats: %w", err)
	}
	return t.stats, nil
}
