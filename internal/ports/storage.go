package ports

import (
	"context"

	"github.com/alejandrodnm/bacbot/internal/domain"
)

// HistoryStorage persiste las recomendaciones emitidas junto con su secuencia.
type HistoryStorage interface {
	// SaveRecord guarda una recomendación y devuelve su ID.
	SaveRecord(ctx context.Context, rec domain.HistoryRecord) (int64, error)

	// LoadHistory devuelve todos los registros en orden cronológico (por ID ascendente).
	// Un resultado JSON ilegible se sustituye por un RecommendationResult vacío.
	LoadHistory(ctx context.Context) ([]domain.HistoryRecord, error)
}

// StatsStore persiste las estadísticas acumuladas del monitor en vivo.
type StatsStore interface {
	// LoadStats devuelve las estadísticas guardadas, o un BotStats vacío si no hay.
	LoadStats(ctx context.Context) (domain.BotStats, error)

	// SaveStats sobreescribe las estadísticas guardadas.
	SaveStats(ctx context.Context, stats domain.BotStats) error
}
