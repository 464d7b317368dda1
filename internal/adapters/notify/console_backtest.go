package notify

import (
	"fmt"

	"github.com/alejandrodnm/bacbot/internal/domain"
	"github.com/olekukonko/tablewriter"
)

// BacktestRun es una simulación (ambos modos) para un stake dado.
type BacktestRun struct {
	InitialBank   float64
	StakeFraction float64
	Thresholds    domain.Thresholds
	Aggressive    domain.BacktestOutcome
	Conservative  domain.BacktestOutcome
}

// BacktestSummary agrupa todo lo que PrintBacktest necesita.
type BacktestSummary struct {
	Records  int
	Timeline int
	Settled  int
	Runs     []BacktestRun
}

// PrintBacktest imprime una tabla por stake con las métricas de cada modo.
func (c *Console) PrintBacktest(s BacktestSummary) {
	fmt.Fprintf(c.out, "\n=== BACKTEST: %d records | %d settled | timeline %d ===\n",
		s.Records, s.Settled, s.Timeline)
	if s.Settled == 0 {
		fmt.Fprintln(c.out, "Nothing to replay: no record has a known next outcome.")
	}

	table := tablewriter.NewWriter(c.out)
	table.Header("Stake", "Mode", "Thr", "Bets", "Wins", "WinRate", "Net", "ROI", "Final bank", "Max DD")
	for _, run := range s.Runs {
		for _, out := range []domain.BacktestOutcome{run.Aggressive, run.Conservative} {
			table.Append(
				fmt.Sprintf("%.2f%%", run.StakeFraction*100),
				string(out.Mode),
				fmt.Sprintf("%.2f", run.Thresholds.For(out.Mode)),
				fmt.Sprintf("%d", out.Bets),
				fmt.Sprintf("%d", out.Wins),
				fmt.Sprintf("%.2f%%", out.WinRate*100),
				fmt.Sprintf("%+.2f", out.Net),
				fmt.Sprintf("%+.2f%%", out.ROI*100),
				fmt.Sprintf("%.2f", out.FinalBank),
				fmt.Sprintf("%.2f", out.MaxDrawdown),
			)
		}
	}
	table.Render()
}

// PrintSweep imprime las filas del barrido ya ordenadas.
func (c *Console) PrintSweep(rows []domain.SweepRow, metric string, total int) {
	fmt.Fprintf(c.out, "\n=== SWEEP: top %d of %d by %s ===\n", len(rows), total, metric)
	if len(rows) == 0 {
		fmt.Fprintln(c.out, "No rows.")
		return
	}

	table := tablewriter.NewWriter(c.out)
	table.Header("#", "Aggr thr", "Cons thr", "Stake", "Mode", "Bets", "Wins", "WinRate", "Net", "ROI", "Final bank", "Max DD")
	for i, r := range rows {
		table.Append(
			fmt.Sprintf("%d", i+1),
			fmt.Sprintf("%.2f", r.AggressiveThreshold),
			fmt.Sprintf("%.2f", r.ConservativeThreshold),
			fmt.Sprintf("%.2f", r.Stake),
			string(r.Mode),
			fmt.Sprintf("%d", r.Bets),
			fmt.Sprintf("%d", r.Wins),
			fmt.Sprintf("%.2f%%", r.WinRate*100),
			fmt.Sprintf("%+.2f", r.Net),
			fmt.Sprintf("%+.2f%%", r.ROI*100),
			fmt.Sprintf("%.2f", r.FinalBank),
			fmt.Sprintf("%.2f", r.MaxDrawdown),
		)
	}
	table.Render()
}
