package ports

import (
	"context"

	"github.com/alejandrodnm/bacbot/internal/domain"
)

// Notifier entrega los eventos del monitor (señales, protección, win/loss) al usuario.
type Notifier interface {
	// Notify formatea y envía la alerta. En Telegram es un mensaje HTML,
	// en consola una línea.
	Notify(ctx context.Context, alert domain.Alert) error
}
