package monitor

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/alejandrodnm/bacbot/internal/analysis"
	"github.com/alejandrodnm/bacbot/internal/domain"
	"github.com/alejandrodnm/bacbot/internal/ports"
	"github.com/google/uuid"
)

const (
	defaultInterval  = 6 * time.Second
	defaultMaxErrors = 5
)

// Config controla el loop de polling.
type Config struct {
	Interval  time.Duration
	Mode      domain.Mode // modo cuyas recomendaciones se convierten en señales
	MaxErrors int         // ciclos fallidos consecutivos antes de abortar
	Analysis  analysis.Config
}

// DefaultConfig devuelve la configuración por defecto.
func DefaultConfig() Config {
	return Config{
		Interval:  defaultInterval,
		Mode:      domain.Conservative,
		MaxErrors: defaultMaxErrors,
		Analysis:  analysis.DefaultConfig(),
	}
}

// Monitor consulta la API de rondas, liquida la señal abierta y emite señales nuevas.
type Monitor struct {
	cfg      Config
	rounds   ports.RoundProvider
	history  ports.HistoryStorage
	notifier ports.Notifier
	tracker  *Tracker
	engine   *analysis.Engine

	lastHash string // hash de la ronda más reciente ya procesada
	now      func() time.Time
}

// New crea un Monitor. El tracker debe estar cargado (Tracker.Load).
func New(
	cfg Config,
	rounds ports.RoundProvider,
	history ports.HistoryStorage,
	notifier ports.Notifier,
	tracker *Tracker,
) *Monitor {
	if cfg.Interval <= 0 {
		cfg.Interval = defaultInterval
	}
	if cfg.MaxErrors <= 0 {
		cfg.MaxErrors = defaultMaxErrors
	}
	if cfg.Mode == "" {
		cfg.Mode = domain.Conservative
	}
	return &Monitor{
		cfg:      cfg,
		rounds:   rounds,
		history:  history,
		notifier: notifier,
		tracker:  tracker,
		engine:   analysis.NewEngine(cfg.Analysis),
		now:      time.Now,
	}
}

// Run ejecuta ciclos cada Interval hasta que ctx se cancele o se agote el presupuesto de errores.
func (m *Monitor) Run(ctx context.Context) error {
	slog.Info("monitor starting",
		"interval", m.cfg.Interval,
		"mode", m.cfg.Mode,
		"max_errors", m.cfg.MaxErrors,
	)

	failures := 0
	check := func() error {
		if err := m.RunOnce(ctx); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			failures++
			slog.Error("monitor cycle failed", "err", err, "consecutive", failures)
			if failures >= m.cfg.MaxErrors {
				return fmt.Errorf("monitor: %d consecutive failures, last: %w", failures, err)
			}
			return nil
		}
		failures = 0
		return nil
	}

	if err := check(); err != nil {
		return err
	}

	ticker := time.NewTicker(m.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("monitor stopped")
			return nil
		case <-ticker.C:
			if err := check(); err != nil {
				return err
			}
		}
	}
}

// RunOnce ejecuta un ciclo: fetch → liquidación → análisis.
func (m *Monitor) RunOnce(ctx context.Context) error {
	rounds, err := m.rounds.FetchRounds(ctx)
	if err != nil {
		return fmt.Errorf("fetch rounds: %w", err)
	}
	if len(rounds) == 0 {
		slog.Debug("no rounds available")
		return nil
	}

	latest := rounds[0]
	if latest.Hash == m.lastHash {
		return nil
	}
	first := m.lastHash == ""
	m.lastHash = latest.Hash
	slog.Debug("new round", "id", latest.ID, "outcome", latest.Outcome, "played_at", latest.PlayedAt)

	if _, _, pending := m.tracker.Pending(); pending {
		// una señal heredada de una ejecución anterior se liquida con la próxima ronda, no con la ya vista
		if first {
			return nil
		}
		if err := m.settle(ctx, latest.Outcome); err != nil {
			return err
		}
	}

	if _, _, pending := m.tracker.Pending(); pending {
		return nil
	}
	return m.analyze(ctx, rounds)
}

// settle resuelve la señal abierta contra outcome.
// Empate gana siempre (cobertura); el primer fallo activa la protección; el segundo pierde.
func (m *Monitor) settle(ctx context.Context, outcome domain.Outcome) error {
	id, side, _ := m.tracker.Pending()
	before := m.tracker.Snapshot()

	var (
		kind  domain.AlertKind
		stats domain.BotStats
		err   error
	)
	switch {
	case outcome == domain.Tie:
		kind = domain.AlertTieWin
		stats, err = m.tracker.Win(ctx, outcome)
	case outcome == side:
		kind = domain.AlertWin
		stats, err = m.tracker.Win(ctx, outcome)
	case !before.ProtectionActive:
		kind = domain.AlertProtection
		stats, err = m.tracker.SetProtection(ctx, true)
	default:
		kind = domain.AlertLoss
		stats, err = m.tracker.Loss(ctx, outcome)
	}
	if err != nil {
		return err
	}

	slog.Info("signal settled", "id", id, "kind", kind, "bet", side, "outcome", outcome,
		"wins", stats.Wins, "losses", stats.Losses)

	m.notify(ctx, domain.Alert{
		Kind:     kind,
		SignalID: id,
		Side:     side,
		Mode:     m.cfg.Mode,
		Outcome:  outcome,
		Stats:    stats,
	})
	return nil
}

// analyze corre el motor sobre las rondas recientes, guarda el resultado y emite señal si corresponde.
func (m *Monitor) analyze(ctx context.Context, rounds []domain.Round) error {
	seq := sequenceOf(rounds)
	res := m.engine.Recommend(seq)

	if _, err := m.history.SaveRecord(ctx, domain.HistoryRecord{
		Timestamp: m.now(),
		Sequence:  seq,
		Result:    res,
	}); err != nil {
		return fmt.Errorf("save history: %w", err)
	}

	rec := res.Mode(m.cfg.Mode)
	if rec.Abstained() {
		slog.Debug("no signal", "mode", m.cfg.Mode, "confidence", rec.Confidence, "notes", res.Notes)
		return nil
	}

	id := uuid.NewString()
	stats, err := m.tracker.RegisterSignal(ctx, id, rec.Side)
	if err != nil {
		return err
	}
	slog.Info("signal", "id", id, "side", rec.Side, "mode", m.cfg.Mode, "confidence", rec.Confidence)

	m.notify(ctx, domain.Alert{
		Kind:       domain.AlertSignal,
		SignalID:   id,
		Side:       rec.Side,
		Mode:       m.cfg.Mode,
		Confidence: rec.Confidence,
		Notes:      res.Notes,
		Stats:      stats,
	})
	return nil
}

// notify no corta el ciclo: un fallo del canal no debe perder la liquidación.
func (m *Monitor) notify(ctx context.Context, alert domain.Alert) {
	if err := m.notifier.Notify(ctx, alert); err != nil {
		slog.Warn("notifier error", "kind", alert.Kind, "err", err)
	}
}

// sequenceOf convierte rondas (más reciente primero) en una secuencia cronológica.
func sequenceOf(rounds []domain.Round) domain.Sequence {
	seq := make(domain.Sequence, 0, len(rounds))
	for _, r := range rounds {
		if r.Outcome.Valid() {
			seq = append(seq, r.Outcome)
		}
	}
	slices.Reverse(seq)
	return seq
}
