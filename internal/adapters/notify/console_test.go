package notify_test

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/alejandrodnm/bacbot/internal/adapters/notify"
	"github.com/alejandrodnm/bacbot/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConsole_Notify_Signal(t *testing.T) {
	var buf bytes.Buffer
	n := notify.NewConsoleWriter(&buf)

	err := n.Notify(context.Background(), domain.Alert{
		Kind:       domain.AlertSignal,
		SignalID:   "abc",
		Side:       domain.Player,
		Mode:       domain.Conservative,
		Confidence: 0.31,
		Notes:      []string{"no strong manipulation signals"},
	})
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "[SIGNAL]")
	assert.Contains(t, out, "PLAYER")
	assert.Contains(t, out, "conservative 0.310")
	assert.Contains(t, out, "id abc")
	assert.Equal(t, 1, strings.Count(out, "\n"))
}

func TestConsole_Notify_Settlement(t *testing.T) {
	var buf bytes.Buffer
	n := notify.NewConsoleWriter(&buf)

	err := n.Notify(context.Background(), domain.Alert{
		Kind:    domain.AlertLoss,
		Side:    domain.Banker,
		Outcome: domain.Player,
		Stats:   domain.BotStats{Wins: 1, Losses: 1, BestStreak: 1},
	})
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "BANKER on PLAYER")
	assert.Contains(t, buf.String(), "1W/1L 50.0%")
}

func TestConsole_PrintRecommendation(t *testing.T) {
	var buf bytes.Buffer
	n := notify.NewConsoleWriter(&buf)

	n.PrintRecommendation(domain.Sequence{domain.Banker, domain.Banker, domain.Player}, domain.RecommendationResult{
		Samples:       3,
		Probabilities: domain.Probabilities{Banker: 2.0 / 3, Player: 1.0 / 3},
		Modes: domain.ModeSet{
			Aggressive: domain.ModeRecommendation{Side: domain.Banker, Confidence: 0.4},
		},
		Notes: []string{"no strong manipulation signals"},
	})

	out := buf.String()
	assert.Contains(t, out, "B B P")
	assert.Contains(t, out, "BANKER")
	assert.Contains(t, out, "N/A")
	assert.Contains(t, out, "0.400")
	assert.Contains(t, out, "no strong manipulation signals")
}

func TestConsole_PrintRecommendation_NoData(t *testing.T) {
	var buf bytes.Buffer
	notify.NewConsoleWriter(&buf).PrintRecommendation(nil, domain.RecommendationResult{})
	assert.Contains(t, buf.String(), "both modes abstain")
}

func TestConsole_PrintBacktest(t *testing.T) {
	var buf bytes.Buffer
	n := notify.NewConsoleWriter(&buf)

	n.PrintBacktest(notify.BacktestSummary{
		Records:  10,
		Timeline: 40,
		Settled:  9,
		Runs: []notify.BacktestRun{{
			InitialBank:   1000,
			StakeFraction: 0.02,
			Thresholds:    domain.Thresholds{Aggressive: 0.25, Conservative: 0.4},
			Aggressive:    domain.BacktestOutcome{Mode: domain.Aggressive, Bets: 4, Wins: 3, WinRate: 0.75, Net: 37, ROI: 0.037, FinalBank: 1037},
			Conservative:  domain.BacktestOutcome{Mode: domain.Conservative},
		}},
	})

	out := buf.String()
	assert.Contains(t, out, "10 records")
	assert.Contains(t, out, "aggressive")
	assert.Contains(t, out, "conservative")
	assert.Contains(t, out, "75.00%")
	assert.Contains(t, out, "+37.00")
	assert.Contains(t, out, "1037.00")
}

func TestConsole_PrintSweep(t *testing.T) {
	var buf bytes.Buffer
	n := notify.NewConsoleWriter(&buf)

	n.PrintSweep([]domain.SweepRow{
		{AggressiveThreshold: 0.2, ConservativeThreshold: 0.35, Stake: 0.05, Mode: domain.Aggressive, Bets: 3, Wins: 2, ROI: 0.04},
	}, "roi", 66)

	out := buf.String()
	assert.Contains(t, out, "top 1 of 66 by roi")
	assert.Contains(t, out, "0.35")
	assert.Contains(t, out, "+4.00%")

	buf.Reset()
	n.PrintSweep(nil, "net", 0)
	assert.Contains(t, buf.String(), "No rows.")
}
