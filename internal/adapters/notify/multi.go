package notify

import (
	"context"
	"errors"

	"github.com/alejandrodnm/bacbot/internal/domain"
	"github.com/alejandrodnm/bacbot/internal/ports"
)

// Multi reenvía cada alerta a todos sus notificadores; un fallo no corta a los demás.
type Multi []ports.Notifier

// Notify implementa ports.Notifier.
func (m Multi) Notify(ctx context.Context, alert domain.Alert) error {
	var errs []error
	for _, n := range m {
		if err := n.Notify(ctx, alert); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
