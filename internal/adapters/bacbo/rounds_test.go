package bacbo_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"sync/atomic"
	"testing"

	"github.com/alejandrodnm/bacbot/internal/adapters/bacbo"
	"github.com/alejandrodnm/bacbot/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func serve(t *testing.T, body []byte) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		w.Header().Set("Content-Type", "application/json")
		w.Write(body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestFetchRounds_Envelope(t *testing.T) {
	data, err := os.ReadFile("../../../testdata/fixtures/bacbo_rounds.json")
	require.NoError(t, err)

	client := bacbo.NewClient(serve(t, data).URL)
	rounds, err := client.FetchRounds(context.Background())
	require.NoError(t, err)

	// "Dragon" no es un resultado válido → se descarta
	require.Len(t, rounds, 3)

	assert.Equal(t, "90412", rounds[0].ID)
	assert.Equal(t, "a1f3c9", rounds[0].Hash)
	assert.Equal(t, domain.Banker, rounds[0].Outcome)
	assert.Equal(t, "2025-03-01 12:30:45", rounds[0].PlayedAt)

	assert.Equal(t, "90411", rounds[1].ID, "string ids lose their quotes")
	assert.Equal(t, domain.Tie, rounds[1].Outcome)
	assert.Equal(t, domain.Player, rounds[2].Outcome)
}

func TestFetchRounds_BareList(t *testing.T) {
	body, err := json.Marshal([]map[string]any{
		{"id": 1, "hash": "h1", "data_hora": "x", "resultado": "player"},
		{"id": 2, "hash": "h2", "data_hora": "y", "resultado": "BANKER"},
	})
	require.NoError(t, err)

	client := bacbo.NewClient(serve(t, body).URL)
	rounds, err := client.FetchRounds(context.Background())
	require.NoError(t, err)
	require.Len(t, rounds, 2)
	assert.Equal(t, domain.Player, rounds[0].Outcome)
	assert.Equal(t, domain.Banker, rounds[1].Outcome)
}

func TestFetchRounds_StatusNotSuccess(t *testing.T) {
	client := bacbo.NewClient(serve(t, []byte(`{"status":"error","data":[]}`)).URL)
	_, err := client.FetchRounds(context.Background())
	assert.ErrorContains(t, err, "unexpected API status")
}

func TestFetchRounds_ClientErrorNoRetry(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, "forbidden", http.StatusForbidden)
	}))
	defer srv.Close()

	_, err := bacbo.NewClient(srv.URL).FetchRounds(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "403")
	assert.Equal(t, int32(1), calls.Load())
}

func TestFetchRounds_RetriesServerError(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Write([]byte(`[{"id": 7, "hash": "h7", "data_hora": "z", "resultado": "Tie"}]`))
	}))
	defer srv.Close()

	rounds, err := bacbo.NewClient(srv.URL).FetchRounds(context.Background())
	require.NoError(t, err)
	require.Len(t, rounds, 1)
	assert.Equal(t, domain.Tie, rounds[0].Outcome)
	assert.Equal(t, int32(2), calls.Load())
}

func TestFetchRounds_ContextCancelled(t *testing.T) {
	srv := serve(t, []byte(`[]`))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := bacbo.NewClient(srv.URL).FetchRounds(ctx)
	assert.Error(t, err)
}

func TestFetchRounds_TransportErrorRetriesThenFails(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	_, err := bacbo.NewClient(url).FetchRounds(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "request failed after 3 retries")
}
