package storage

// sqlite.go — histórico de recomendaciones y estadísticas del monitor.
//
// Tablas:
//   - `history`: una fila por recomendación emitida. Mismo layout que las bases
//     ya grabadas (timestamp, sequence "B P T ...", result_json), así el backtest
//     puede reproducir históricos existentes sin migración.
//   - `bot_stats`: una sola fila (id=1) con el JSON de domain.BotStats.
//
// Un result_json ilegible no es fatal: se sustituye por un resultado vacío
// (ambos modos se abstienen) y se loguea un warning.

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/alejandrodnm/bacbot/internal/analysis"
	"github.com/alejandrodnm/bacbot/internal/domain"
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS history (
    id          INTEGER PRIMARY KEY AUTOINCREMENT,
    timestamp   TEXT NOT NULL,
    sequence    TEXT NOT NULL,
    result_json TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS bot_stats (
    id         INTEGER PRIMARY KEY CHECK (id = 1),
    stats_json TEXT     NOT NULL,
    updated_at DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_history_ts ON history(timestamp);
`

// timestampLayouts son los formatos aceptados al leer `history.timestamp`.
// Las bases que graba la app de recomendaciones usan ISO sin zona.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999",
	"2006-01-02 15:04:05.999999",
	"2006-01-02 15:04:05",
}

// SQLiteStorage implementa ports.HistoryStorage y ports.StatsStore usando SQLite (pure Go, sin CGo).
type SQLiteStorage struct {
	db *sql.DB
	mu sync.Mutex // serializa read-modify-write de bot_stats
}

// NewSQLiteStorage abre (o crea) la base de datos en la ruta dada y aplica el schema.
func NewSQLiteStorage(path string) (*SQLiteStorage, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("storage.NewSQLiteStorage: open %q: %w", path, err)
	}
	db.SetMaxOpenConns(1) // SQLite es single-writer
	db.SetMaxIdleConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage.NewSQLiteStorage: apply schema: %w", err)
	}
	return &SQLiteStorage{db: db}, nil
}

// SaveRecord inserta una recomendación. Si el timestamp es cero usa la hora actual.
func (s *SQLiteStorage) SaveRecord(ctx context.Context, rec domain.HistoryRecord) (int64, error) {
	ts := rec.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}

	payload, err := json.Marshal(rec.Result)
	if err != nil {
		return 0, fmt.Errorf("storage.SaveRecord: marshal result: %w", err)
	}

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO history (timestamp, sequence, result_json) VALUES (?, ?, ?)`,
		ts.UTC().Format(time.RFC3339Nano), rec.Sequence.String(), string(payload),
	)
	if err != nil {
		return 0, fmt.Errorf("storage.SaveRecord: insert: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage.SaveRecord: last insert id: %w", err)
	}
	return id, nil
}

// LoadHistory devuelve todo el histórico en orden de inserción (id ASC).
func (s *SQLiteStorage) LoadHistory(ctx context.Context) ([]domain.HistoryRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, timestamp, sequence, result_json FROM history ORDER BY id ASC`,
	)
	if err != nil {
		return nil, fmt.Errorf("storage.LoadHistory: query: %w", err)
	}
	defer rows.Close()

	var records []domain.HistoryRecord
	for rows.Next() {
		var (
			rec        domain.HistoryRecord
			ts, seq    string
			resultJSON sql.NullString
		)
		if err := rows.Scan(&rec.ID, &ts, &seq, &resultJSON); err != nil {
			return nil, fmt.Errorf("storage.LoadHistory: scan row: %w", err)
		}

		rec.Timestamp = parseTimestamp(ts)
		rec.Sequence = analysis.NormalizeString(seq)
		rec.Result = decodeResult(rec.ID, resultJSON.String)
		records = append(records, rec)
	}
	return records, rows.Err()
}

// LoadStats devuelve las estadísticas guardadas o un BotStats vacío.
func (s *SQLiteStorage) LoadStats(ctx context.Context) (domain.BotStats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var payload string
	err := s.db.QueryRowContext(ctx, `SELECT stats_json FROM bot_stats WHERE id = 1`).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.BotStats{}, nil
	}
	if err != nil {
		return domain.BotStats{}, fmt.Errorf("storage.LoadStats: query: %w", err)
	}

	var stats domain.BotStats
	if err := json.Unmarshal([]byte(payload), &stats); err != nil {
		return domain.BotStats{}, fmt.Errorf("storage.LoadStats: decode: %w", err)
	}
	return stats, nil
}

// SaveStats hace upsert de la fila única de estadísticas.
func (s *SQLiteStorage) SaveStats(ctx context.Context, stats domain.BotStats) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	stats.UpdatedAt = now
	payload, err := json.Marshal(stats)
	if err != nil {
		return fmt.Errorf("storage.SaveStats: marshal: %w", err)
	}

	if _, err := s.db.ExecContext(ctx, `
		INSERT INTO bot_stats (id, stats_json, updated_at) VALUES (1, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			stats_json = excluded.stats_json,
			updated_at = excluded.updated_at
	`, string(payload), now); err != nil {
		return fmt.Errorf("storage.SaveStats: upsert: %w", err)
	}
	return nil
}

// Close cierra la conexión a la base de datos.
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

// --- helpers internos ---

// decodeResult parsea result_json; un payload ilegible se reemplaza por un resultado vacío.
func decodeResult(id int64, payload string) domain.RecommendationResult {
	var res domain.RecommendationResult
	if strings.TrimSpace(payload) == "" {
		return res
	}
	if err := json.Unmarshal([]byte(payload), &res); err != nil {
		slog.Warn("malformed history result, using empty result", "id", id, "err", err)
		return domain.RecommendationResult{}
	}
	return res
}

// parseTimestamp acepta RFC3339 y los formatos ISO sin zona; si falla devuelve cero.
func parseTimestamp(s string) time.Time {
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
