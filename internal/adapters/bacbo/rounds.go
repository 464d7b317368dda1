package bacbo

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/alejandrodnm/bacbot/internal/domain"
)

// envelope es la respuesta "envuelta" de la API: {"status": "success", "data": [...]}.
type envelope struct {
	Status string     `json:"status"`
	Data   []rawRound `json:"data"`
}

// rawRound es una ronda tal como la publica la API.
type rawRound struct {
	ID        json.RawMessage `json:"id"` // a veces número, a veces string
	Hash      string          `json:"hash"`
	DataHora  string          `json:"data_hora"`
	Resultado string          `json:"resultado"`
}

// FetchRounds devuelve las últimas rondas publicadas, la más reciente primero.
// Acepta tanto el formato envuelto como una lista plana.
func (c *Client) FetchRounds(ctx context.Context) ([]domain.Round, error) {
	var raw json.RawMessage
	if err := c.get(ctx, c.url, &raw); err != nil {
		return nil, fmt.Errorf("bacbo.FetchRounds: %w", err)
	}

	items, err := decodeRounds(raw)
	if err != nil {
		return nil, fmt.Errorf("bacbo.FetchRounds: %w", err)
	}

	rounds := make([]domain.Round, 0, len(items))
	for _, it := range items {
		outcome, ok := domain.OutcomeFromResult(it.Resultado)
		if !ok {
			slog.Debug("skipping round with unknown result", "hash", it.Hash, "resultado", it.Resultado)
			continue
		}
		rounds = append(rounds, domain.Round{
			ID:       rawID(it.ID),
			Hash:     it.Hash,
			PlayedAt: it.DataHora,
			Outcome:  outcome,
		})
	}
	slog.Debug("rounds fetched", "count", len(rounds))
	return rounds, nil
}

// decodeRounds distingue entre lista plana y envelope.
func decodeRounds(raw json.RawMessage) ([]rawRound, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return nil, nil
	}

	if trimmed[0] == '[' {
		var items []rawRound
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return nil, fmt.Errorf("decode list: %w", err)
		}
		return items, nil
	}

	var env envelope
	if err := json.Unmarshal(trimmed, &env); err != nil {
		return nil, fmt.Errorf("decode envelope: %w", err)
	}
	if env.Status != "success" {
		return nil, fmt.Errorf("unexpected API status %q", env.Status)
	}
	return env.Data, nil
}

func rawID(id json.RawMessage) string {
	return strings.Trim(string(bytes.TrimSpace(id)), `"`)
}
