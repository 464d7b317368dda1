package notify

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/alejandrodnm/bacbot/internal/domain"
	"github.com/olekukonko/tablewriter"
)

// Console implementa ports.Notifier escribiendo a un io.Writer.
// También imprime los reportes de recomendación, backtest y sweep.
type Console struct {
	out io.Writer
}

// NewConsole crea un notificador que escribe a stdout.
func NewConsole() *Console {
	return &Console{out: os.Stdout}
}

// NewConsoleWriter crea un notificador para tests.
func NewConsoleWriter(w io.Writer) *Console {
	return &Console{out: w}
}

// Notify imprime la alerta en una línea.
func (c *Console) Notify(_ context.Context, a domain.Alert) error {
	now := time.Now().Format("15:04:05")

	var sb strings.Builder
	fmt.Fprintf(&sb, "[%s][%s]", now, a.Kind)
	switch a.Kind {
	case domain.AlertSignal:
		fmt.Fprintf(&sb, " bet %s (%s %.3f)", a.Side.Label(), a.Mode, a.Confidence)
		if len(a.Notes) > 0 {
			fmt.Fprintf(&sb, " | %s", strings.Join(a.Notes, "; "))
		}
	case domain.AlertProtection:
		fmt.Fprintf(&sb, " got %s, repeat %s", a.Outcome.Label(), a.Side.Label())
	default:
		s := a.Stats
		fmt.Fprintf(&sb, " %s on %s | %dW/%dL %.1f%% | streak %d (best %d)",
			a.Side.Label(), a.Outcome.Label(), s.Wins, s.Losses, s.Accuracy(), s.CurrentStreak, s.BestStreak)
	}
	if a.SignalID != "" {
		fmt.Fprintf(&sb, " | id %s", a.SignalID)
	}
	fmt.Fprintln(c.out, sb.String())
	return nil
}

// PrintRecommendation imprime la recomendación de ambos modos para una secuencia.
func (c *Console) PrintRecommendation(seq domain.Sequence, res domain.RecommendationResult) {
	fmt.Fprintf(c.out, "Sequence (%d): %s\n", len(seq), seq.String())
	if !res.HasData() {
		fmt.Fprintln(c.out, "No data: both modes abstain.")
		return
	}

	fmt.Fprintf(c.out, "Window: %d  |  B %.1f%%  P %.1f%%  T %.1f%%\n",
		res.Samples, res.Probabilities.Banker*100, res.Probabilities.Player*100, res.Probabilities.Tie*100)

	table := tablewriter.NewWriter(c.out)
	table.Header("Mode", "Recommendation", "Confidence")
	for _, m := range domain.Modes {
		rec := res.Mode(m)
		table.Append(string(m), rec.Side.Label(), fmt.Sprintf("%.3f", rec.Confidence))
	}
	table.Render()

	an := res.Manipulation
	fmt.Fprintf(c.out, "Longest run: %d  |  Alternations: %d  |  Flagged: %v\n",
		an.LongestRun, an.AlternationCount, an.Flagged)
	for _, n := range res.Notes {
		fmt.Fprintf(c.out, "  - %s\n", n)
	}
}
