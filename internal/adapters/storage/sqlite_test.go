package storage_test

import (
	"context"
	"testing"
	"time"

	"github.com/alejandrodnm/bacbot/internal/adapters/storage"
	"github.com/alejandrodnm/bacbot/internal/analysis"
	"github.com/alejandrodnm/bacbot/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openMemory(t *testing.T) *storage.SQLiteStorage {
	t.Helper()
	db, err := storage.NewSQLiteStorage(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func makeRecord(seq string, at time.Time) domain.HistoryRecord {
	s := analysis.NormalizeString(seq)
	return domain.HistoryRecord{
		Timestamp: at,
		Sequence:  s,
		Result:    analysis.NewEngine(analysis.DefaultConfig()).Recommend(s),
	}
}

func TestSQLiteStorage_SaveAndLoadHistory(t *testing.T) {
	db := openMemory(t)
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Second)

	id1, err := db.SaveRecord(ctx, makeRecord("B P P P B P", now))
	require.NoError(t, err)
	id2, err := db.SaveRecord(ctx, makeRecord("P P B P T", now.Add(time.Minute)))
	require.NoError(t, err)
	assert.Greater(t, id2, id1)

	history, err := db.LoadHistory(ctx)
	require.NoError(t, err)
	require.Len(t, history, 2)

	// Orden cronológico de inserción
	assert.Equal(t, id1, history[0].ID)
	assert.Equal(t, "B P P P B P", history[0].Sequence.String())
	assert.True(t, now.Equal(history[0].Timestamp))

	want := makeRecord("B P P P B P", now).Result
	got := history[0].Result
	assert.Equal(t, want.Modes, got.Modes)
	assert.Equal(t, want.Probabilities, got.Probabilities)
	assert.Equal(t, want.Manipulation.LongestRun, got.Manipulation.LongestRun)
	assert.Equal(t, want.Notes, got.Notes)
}

func TestSQLiteStorage_LoadHistory_Empty(t *testing.T) {
	db := openMemory(t)
	history, err := db.LoadHistory(context.Background())
	require.NoError(t, err)
	assert.Empty(t, history)
}

func TestSQLiteStorage_SaveRecord_ZeroTimestamp(t *testing.T) {
	db := openMemory(t)
	ctx := context.Background()

	_, err := db.SaveRecord(ctx, domain.HistoryRecord{Sequence: domain.Sequence{domain.Tie}})
	require.NoError(t, err)

	history, err := db.LoadHistory(ctx)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.WithinDuration(t, time.Now(), history[0].Timestamp, time.Minute)
}

func TestSQLiteStorage_StatsRoundTrip(t *testing.T) {
	db := openMemory(t)
	ctx := context.Background()

	empty, err := db.LoadStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, empty.TotalSignals)

	stats := domain.BotStats{
		TotalSignals:     7,
		Wins:             4,
		Losses:           2,
		CurrentStreak:    1,
		BestStreak:       3,
		LastSignalID:     "sig-1",
		LastSignal:       domain.Player,
		ProtectionActive: true,
	}
	require.NoError(t, db.SaveStats(ctx, stats))

	stats.Wins = 5
	require.NoError(t, db.SaveStats(ctx, stats))

	got, err := db.LoadStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 5, got.Wins)
	assert.Equal(t, 7, got.TotalSignals)
	assert.Equal(t, domain.Player, got.LastSignal)
	assert.True(t, got.ProtectionActive)
	assert.False(t, got.UpdatedAt.IsZero())
}
