package notify_test

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/alejandrodnm/bacbot/internal/adapters/notify"
	"github.com/alejandrodnm/bacbot/internal/domain"
	"github.com/stretchr/testify/assert"
)

type failingNotifier struct{ calls int }

func (f *failingNotifier) Notify(_ context.Context, _ domain.Alert) error {
	f.calls++
	return errors.New("boom")
}

func TestMulti_FansOutAndJoinsErrors(t *testing.T) {
	var buf bytes.Buffer
	bad := &failingNotifier{}
	m := notify.Multi{bad, notify.NewConsoleWriter(&buf)}

	err := m.Notify(context.Background(), domain.Alert{Kind: domain.AlertWin, Side: domain.Banker, Outcome: domain.Banker})
	assert.ErrorContains(t, err, "boom")
	assert.Equal(t, 1, bad.calls)
	assert.Contains(t, buf.String(), "[WIN]")
}

func TestMulti_Empty(t *testing.T) {
	assert.NoError(t, notify.Multi{}.Notify(context.Background(), domain.Alert{}))
}
