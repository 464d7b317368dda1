package main

import (
	"testing"

	"github.com/alejandrodnm/bacbot/config"
	"github.com/alejandrodnm/bacbot/internal/analysis"
	"github.com/alejandrodnm/bacbot/internal/backtest"
	"github.com/alejandrodnm/bacbot/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestAnalysisConfig_DefaultsMatchEngine(t *testing.T) {
	assert.Equal(t, analysis.DefaultConfig(), analysisConfig(config.Default().Analysis))
}

func TestBacktestParams_DefaultsMatchSimulator(t *testing.T) {
	assert.Equal(t, backtest.DefaultParams(), backtestParams(config.Default().Backtest))
}

func TestSweepGrid_DefaultsMatchSweep(t *testing.T) {
	cfg := config.Default()
	assert.Equal(t, backtest.DefaultGrid(), sweepGrid(&cfg))
}

func TestMonitorMode(t *testing.T) {
	assert.Equal(t, domain.Aggressive, monitorMode("aggressive"))
	assert.Equal(t, domain.Conservative, monitorMode("conservative"))
	assert.Equal(t, domain.Conservative, monitorMode(""))
}
