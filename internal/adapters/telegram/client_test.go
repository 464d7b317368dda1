package telegram_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alejandrodnm/bacbot/internal/adapters/telegram"
	"github.com/alejandrodnm/bacbot/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotify_SendsHTMLMessage(t *testing.T) {
	var got map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/botTOKEN/sendMessage", r.URL.Path)
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Write([]byte(`{"ok": true}`))
	}))
	defer srv.Close()

	client := telegram.NewClient(srv.URL, "TOKEN", "-100123")
	err := client.Notify(context.Background(), domain.Alert{
		Kind:       domain.AlertSignal,
		SignalID:   "0f8fad5b-d9cb-469f-a165-70867728950e",
		Side:       domain.Banker,
		Mode:       domain.Aggressive,
		Confidence: 0.412,
		Notes:      []string{"long run <4>"},
	})
	require.NoError(t, err)

	assert.Equal(t, "-100123", got["chat_id"])
	assert.Equal(t, "HTML", got["parse_mode"])
	assert.Contains(t, got["text"], "BANKER")
	assert.Contains(t, got["text"], "0.412")
	assert.Contains(t, got["text"], "long run &lt;4&gt;")
	assert.Contains(t, got["text"], "0f8fad5b")
}

func TestNotify_Rejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"ok": false, "description": "chat not found"}`))
	}))
	defer srv.Close()

	err := telegram.NewClient(srv.URL, "T", "x").Notify(context.Background(), domain.Alert{Kind: domain.AlertWin})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "chat not found")
}

func TestNotify_ClientError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"ok":false}`, http.StatusUnauthorized)
	}))
	defer srv.Close()

	err := telegram.NewClient(srv.URL, "T", "x").Notify(context.Background(), domain.Alert{Kind: domain.AlertLoss})
	assert.ErrorContains(t, err, "401")
}

func TestSend_TransportErrorHidesToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	const token = "123456:SECRET-TOKEN"
	err := telegram.NewClient(url, token, "42").Send(context.Background(), "hi")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "request failed")
	assert.Contains(t, err.Error(), "sendMessage")
	assert.NotContains(t, err.Error(), token)
	assert.NotContains(t, err.Error(), url)
}

func TestFormatAlert(t *testing.T) {
	stats := domain.BotStats{Wins: 3, Losses: 1, CurrentStreak: 2, BestStreak: 3}

	win := telegram.FormatAlert(domain.Alert{Kind: domain.AlertWin, Outcome: domain.Player, Stats: stats})
	assert.Contains(t, win, "WIN")
	assert.Contains(t, win, "3W / 1L")
	assert.Contains(t, win, "75.0%")

	tie := telegram.FormatAlert(domain.Alert{Kind: domain.AlertTieWin, Outcome: domain.Tie, Stats: stats})
	assert.Contains(t, tie, "WIN ON TIE")

	prot := telegram.FormatAlert(domain.Alert{Kind: domain.AlertProtection, Side: domain.Player, Outcome: domain.Banker})
	assert.Contains(t, prot, "PROTECTION")
	assert.Contains(t, prot, "repeat PLAYER")
	assert.NotContains(t, prot, "streak")

	loss := telegram.FormatAlert(domain.Alert{Kind: domain.AlertLoss, Outcome: domain.Banker, Stats: stats})
	assert.Contains(t, loss, "LOSS")
}
