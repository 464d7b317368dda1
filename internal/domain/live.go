package domain

import "time"

// Round es una ronda publicada por la API de resultados.
type Round struct {
	ID       string
	Hash     string
	PlayedAt string // "data_hora" tal como llega de la API
	Outcome  Outcome
}

// BotStats son las estadísticas acumuladas de las señales enviadas en vivo.
type BotStats struct {
	TotalSignals     int       `json:"total_signals"`
	Wins             int       `json:"wins"`
	Losses           int       `json:"losses"`
	CurrentStreak    int       `json:"current_streak"`
	BestStreak       int       `json:"best_streak"`
	LastSignalID     string    `json:"last_signal_id,omitempty"`
	LastSignal       Outcome   `json:"last_signal,omitempty"`
	LastResult       Outcome   `json:"last_result,omitempty"`
	ProtectionActive bool      `json:"protection_active"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// Accuracy devuelve el porcentaje de acierto (0–100).
func (s BotStats) Accuracy() float64 {
	total := s.Wins + s.Losses
	if total == 0 {
		return 0
	}
	return float64(s.Wins) / float64(total) * 100
}

// AlertKind clasifica los mensajes que el monitor envía al notificador.
type AlertKind string

const (
	AlertSignal     AlertKind = "SIGNAL"
	AlertProtection AlertKind = "PROTECTION"
	AlertWin        AlertKind = "WIN"
	AlertTieWin     AlertKind = "TIE_WIN"
	AlertLoss       AlertKind = "LOSS"
)

// Alert es un evento del monitor en vivo listo para notificar.
type Alert struct {
	Kind       AlertKind
	SignalID   string
	Side       Outcome
	Mode       Mode
	Confidence float64
	Outcome    Outcome // resultado que resolvió la señal (vacío en SIGNAL)
	Notes      []string
	Stats      BotStats
}
