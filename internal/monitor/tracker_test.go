package monitor_test

import (
	"context"
	"testing"

	"github.com/alejandrodnm/bacbot/internal/domain"
	"github.com/alejandrodnm/bacbot/internal/monitor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTracker_PersistsEveryMutation(t *testing.T) {
	store := &mockStats{}
	tr := monitor.NewTracker(store)
	ctx := context.Background()
	require.NoError(t, tr.Load(ctx))

	_, err := tr.RegisterSignal(ctx, "a", domain.Banker)
	require.NoError(t, err)
	_, err = tr.Win(ctx, domain.Banker)
	require.NoError(t, err)
	_, err = tr.RegisterSignal(ctx, "b", domain.Player)
	require.NoError(t, err)
	_, err = tr.Win(ctx, domain.Tie)
	require.NoError(t, err)
	_, err = tr.RegisterSignal(ctx, "c", domain.Player)
	require.NoError(t, err)
	_, err = tr.SetProtection(ctx, true)
	require.NoError(t, err)
	stats, err := tr.Loss(ctx, domain.Banker)
	require.NoError(t, err)

	assert.Equal(t, 7, store.saves)
	assert.Equal(t, stats, store.stats)
	assert.Equal(t, 3, stats.TotalSignals)
	assert.Equal(t, 2, stats.Wins)
	assert.Equal(t, 1, stats.Losses)
	assert.Equal(t, 0, stats.CurrentStreak)
	assert.Equal(t, 2, stats.BestStreak)
	assert.InDelta(t, 66.67, stats.Accuracy(), 0.01)

	_, _, pending := tr.Pending()
	assert.False(t, pending)
}

func TestTracker_LoadRestoresPending(t *testing.T) {
	store := &mockStats{stats: domain.BotStats{LastSignalID: "x", LastSignal: domain.Tie, ProtectionActive: true}}
	tr := monitor.NewTracker(store)
	require.NoError(t, tr.Load(context.Background()))

	id, side, ok := tr.Pending()
	assert.True(t, ok)
	assert.Equal(t, "x", id)
	assert.Equal(t, domain.Tie, side)
	assert.True(t, tr.Snapshot().ProtectionActive)
}
