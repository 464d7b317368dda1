package ports

import (
	"context"

	"github.com/alejandrodnm/bacbot/internal/domain"
)

// RoundProvider obtiene las últimas rondas publicadas, la más reciente primero.
type RoundProvider interface {
	FetchRounds(ctx context.Context) ([]domain.Round, error)
}
