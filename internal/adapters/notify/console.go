package notify

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/alejandrodnm/tradersim/internal/domain"
	"github.com/olekukonko/tablewriter"
)

// Console implementa ports.Reporter.
type Console struct {
	out   io.Writer
	quiet bool
}

// NewConsole crea un reporter que escribe a stdout. En modo quiet solo
// imprime los totales finales.
func NewConsole(quiet bool) *Console {
	return &Console{out: os.Stdout, quiet: quiet}
}

// NewConsoleWriter crea un reporter para tests.
func NewConsoleWriter(w io.Writer, quiet bool) *Console {
	return &Console{out: w, quiet: quiet}
}

// ReportCurves imprime una fila por curva de equity sintetizada.
func (c *Console) ReportCurves(_ context.Context, curves []domain.CurveSummary) error {
	if c.quiet {
		return nil
	}
	if len(curves) == 0 {
		fmt.Fprintln(c.out, "no traders configured")
		return nil
	}

	fmt.Fprintf(c.out, "\n=== EQUITY CURVES (%d points) ===\n", curves[0].Points)

	table := tablewriter.NewWriter(c.out)
	table.Header("Trader", "Archetype", "Start", "End", "Return", "Min", "Max", "Target")
	for _, s := range curves {
		table.Append(
			s.Label,
			s.Archetype,
			fmt.Sprintf("%.2f", s.Start),
			fmt.Sprintf("%.2f", s.End),
			fmt.Sprintf("%+.1f%%", s.ReturnPct()),
			fmt.Sprintf("%.2f", s.Min),
			fmt.Sprintf("%.2f", s.Max),
			fmt.Sprintf("%.2f", s.Target),
		)
	}
	table.Render()
	return nil
}

// ReportRun imprime lo escrito por cada trader y los totales del run.
func (c *Console) ReportRun(_ context.Context, run domain.RunSummary) error {
	if !c.quiet {
		fmt.Fprintln(c.out)
		for _, t := range run.Traders {
			if t.Cleared > 0 {
				fmt.Fprintf(c.out, "  cleared %d old records from %s\n", t.Cleared, t.Dir)
			}
			fmt.Fprintf(c.out, "  Wrote %d records for %s  (final %.2f, max dd %.1f%%, %s)\n",
				t.Records, t.Label, t.FinalBalance, t.MaxDrawdown, actionMix(t.Actions))
		}
	}

	fmt.Fprintf(c.out, "\n  ─────────────────────────────────────────────\n")
	fmt.Fprintf(c.out, "  Run %s (seed %d): %d traders × %d points = %d records\n",
		run.RunID, run.Seed, len(run.Traders), run.Points, run.Records())
	return nil
}

// PrintTraderStats imprime los agregados por trader del dataset guardado.
func (c *Console) PrintTraderStats(stats []domain.TraderStats) {
	if len(stats) == 0 {
		fmt.Fprintln(c.out, "\n  No snapshots stored yet. Run a generation first.")
		return
	}

	fmt.Fprintf(c.out, "\n=== STORED SNAPSHOTS ===\n")

	table := tablewriter.NewWriter(c.out)
	table.Header("Trader", "Records", "Min bal", "Max bal", "Avg margin", "Avg pos", "Opens", "Closes")
	for _, st := range stats {
		table.Append(
			st.TraderID,
			fmt.Sprintf("%d", st.Records),
			fmt.Sprintf("%.2f", st.MinBalance),
			fmt.Sprintf("%.2f", st.MaxBalance),
			fmt.Sprintf("%.1f%%", st.AvgMarginPct),
			fmt.Sprintf("%.2f", st.AvgPositions),
			fmt.Sprintf("%d", st.Opens),
			fmt.Sprintf("%d", st.Closes),
		)
	}
	table.Render()
	fmt.Fprintln(c.out)
}

// actionMix muestra los conteos por acción en orden estable, p. ej. "open_long:12 wait:300".
func actionMix(actions map[domain.Action]int) string {
	if len(actions) == 0 {
		return "no decisions"
	}
	keys := make([]string, 0, len(actions))
	for a := range actions {
		keys = append(keys, string(a))
	}
	sort.Strings(keys)

	out := ""
	for i, k := range keys {
		if i > 0 {
			out += " "
		}
		out += fmt.Sprintf("%s:%d", k, actions[domain.Action(k)])
	}
	return out
}
