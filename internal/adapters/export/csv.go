package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/alejandrodnm/bacbot/internal/domain"
)

// sweepHeader es el orden de columnas que ya consumen las planillas existentes.
var sweepHeader = []string{
	"aggressive_thr", "conservative_thr", "stake", "mode",
	"bets", "wins", "win_rate", "net", "roi", "final_bank", "max_drawdown",
}

// WriteSweepCSV escribe las filas del barrido en w, una por combinación y modo.
func WriteSweepCSV(w io.Writer, rows []domain.SweepRow) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(sweepHeader); err != nil {
		return fmt.Errorf("export.WriteSweepCSV: header: %w", err)
	}
	for _, r := range rows {
		if err := cw.Write(sweepRecord(r)); err != nil {
			return fmt.Errorf("export.WriteSweepCSV: row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteSweepFile crea (o sobreescribe) path con el CSV del barrido.
func WriteSweepFile(path string, rows []domain.SweepRow) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("export.WriteSweepFile: mkdir: %w", err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("export.WriteSweepFile: %w", err)
	}
	if err := WriteSweepCSV(f, rows); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func sweepRecord(r domain.SweepRow) []string {
	return []string{
		ftoa(r.AggressiveThreshold),
		ftoa(r.ConservativeThreshold),
		ftoa(r.Stake),
		string(r.Mode),
		strconv.Itoa(r.Bets),
		strconv.Itoa(r.Wins),
		ftoa(r.WinRate),
		ftoa(r.Net),
		ftoa(r.ROI),
		ftoa(r.FinalBank),
		ftoa(r.MaxDrawdown),
	}
}

func ftoa(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
