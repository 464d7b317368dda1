package storage

import (
	"context"
	"testing"
	"time"

	"github.com/alejandrodnm/bacbot/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Payload tal como lo graba la app de recomendaciones.
const legacyResult = `{
	"modes": {
		"aggressive":   {"recommendation": "BANKER", "confidence": 0.412},
		"conservative": {"recommendation": "N/A", "confidence": 0.07}
	},
	"probabilities": {"BANKER": 0.5, "PLAYER": 0.4, "TIE": 0.1},
	"notes": ["Sem sinais fortes de manipulação"],
	"analysis": {"manipulated": false, "reasons": [], "max_run": 3, "alt_count": 1}
}`

func TestDecodeResult_LegacyPayload(t *testing.T) {
	res := decodeResult(1, legacyResult)
	assert.Equal(t, domain.Banker, res.Modes.Aggressive.Side)
	assert.InDelta(t, 0.412, res.Modes.Aggressive.Confidence, 1e-12)
	assert.True(t, res.Modes.Conservative.Abstained())
	assert.InDelta(t, 0.4, res.Probabilities.Player, 1e-12)
	assert.Equal(t, 3, res.Manipulation.LongestRun)
}

func TestDecodeResult_MalformedBecomesEmpty(t *testing.T) {
	for _, payload := range []string{"{not json", `{"notes": "Sem dados"}`, "", "   "} {
		res := decodeResult(9, payload)
		assert.True(t, res.Modes.Aggressive.Abstained(), payload)
		assert.True(t, res.Modes.Conservative.Abstained(), payload)
		assert.False(t, res.HasData(), payload)
	}
}

func TestParseTimestamp(t *testing.T) {
	ts := parseTimestamp("2025-03-01T12:30:15.123456")
	assert.Equal(t, 2025, ts.Year())
	assert.Equal(t, 30, ts.Minute())

	ts = parseTimestamp("2025-03-01 12:30:15")
	assert.Equal(t, 15, ts.Second())

	ts = parseTimestamp(time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC).Format(time.RFC3339Nano))
	assert.Equal(t, time.January, ts.Month())

	assert.True(t, parseTimestamp("yesterday").IsZero())
}

func TestLoadHistory_MalformedRowDoesNotFail(t *testing.T) {
	db, err := NewSQLiteStorage(":memory:")
	require.NoError(t, err)
	defer db.Close()

	ctx := context.Background()
	_, err = db.db.ExecContext(ctx,
		`INSERT INTO history (timestamp, sequence, result_json) VALUES (?, ?, ?), (?, ?, ?)`,
		"2025-03-01T12:00:00", "B P x T", legacyResult,
		"garbage", "P P", "{{{",
	)
	require.NoError(t, err)

	history, err := db.LoadHistory(ctx)
	require.NoError(t, err)
	require.Len(t, history, 2)

	assert.Equal(t, "B P T", history[0].Sequence.String())
	assert.Equal(t, domain.Banker, history[0].Result.Modes.Aggressive.Side)

	assert.True(t, history[1].Timestamp.IsZero())
	assert.True(t, history[1].Result.Modes.Aggressive.Abstained())
}
