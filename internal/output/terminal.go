package output

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/rodaine/table"

	"github.com/dmagro/soldev/internal/programlog"
	"github.com/dmagro/soldev/internal/report"
)

// Colors for status indicators
var (
	green  = color.New(color.FgGreen).SprintFunc()
	yellow = color.New(color.FgYellow).SprintFunc()
	red    = color.New(color.FgRed).SprintFunc()
	cyan   = color.New(color.FgCyan).SprintFunc()
	faint  = color.New(color.Faint).SprintFunc()
	bold   = color.New(color.Bold).SprintFunc()
)

func headerFmt() table.Formatter {
	return color.New(color.FgCyan, color.Underline).SprintfFunc()
}

func styled(s report.Style, v string) string {
	switch s {
	case report.Muted:
		return faint(v)
	case report.Warning:
		return yellow(v)
	case report.Success:
		return green(v)
	case report.Failure:
		return red(v)
	default:
		return v
	}
}

func logStyled(s programlog.Style, v string) string {
	switch s {
	case programlog.Info:
		return cyan(v)
	case programlog.Success:
		return green(v)
	case programlog.Error:
		return red(v)
	default:
		return faint(v)
	}
}

// RenderTable prints a titled label/value table. Notes go on their own row
// beneath the value they belong to.
func RenderTable(w io.Writer, t report.Table) {
	title := bold(t.Title)
	if t.Status != "" {
		title += "  " + styled(t.StatusStyle, t.Status)
	}
	fmt.Fprintln(w, title)

	tbl := table.New("Field", "Value").
		WithHeaderFormatter(headerFmt()).
		WithWriter(w)
	for _, row := range t.Rows {
		tbl.AddRow(row.Label, styled(row.Style, row.Value))
		if row.Note != "" {
			tbl.AddRow("", faint(row.Note))
		}
	}
	tbl.Print()
	fmt.Fprintln(w)
}

// RenderAccounts prints the account list of a transaction with its roles.
func RenderAccounts(w io.Writer, accounts []report.AccountRole) {
	fmt.Fprintln(w, bold("Account Input(s)"))

	tbl := table.New("#", "Address", "Details").
		WithHeaderFormatter(headerFmt()).
		WithWriter(w)
	for _, a := range accounts {
		details := a.Details
		if a.Roles.Has(report.LookupTable) {
			details = faint(details)
		}
		tbl.AddRow(a.Index, a.Address.String(), details)
	}
	tbl.Print()
	fmt.Fprintln(w)
}

// RenderLogs prints one block per top-level instruction.
func RenderLogs(w io.Writer, groups []programlog.InstructionLogs) {
	fmt.Fprintln(w, bold("Program Instruction Logs"))
	if len(groups) == 0 {
		fmt.Fprintln(w, faint("No logs"))
		fmt.Fprintln(w)
		return
	}

	for i, g := range groups {
		name := g.InvokedProgram
		if name == "" {
			name = "Unknown Program"
		}
		header := fmt.Sprintf("#%d %s", i+1, name)
		if g.Failed {
			header += "  " + red("FAILED")
		}
		fmt.Fprintln(w, header)

		for _, line := range g.Lines {
			fmt.Fprintf(w, "  %s%s\n", faint(line.Prefix), logStyled(line.Style, line.Text))
		}
		if g.ComputeUnits > 0 {
			fmt.Fprintf(w, "  %s\n", faint(fmt.Sprintf("%d compute units", g.ComputeUnits)))
		}
		fmt.Fprintln(w)
	}
}

// RenderLink prints a labelled URL, e.g. an explorer link.
func RenderLink(w io.Writer, label, link string) {
	fmt.Fprintf(w, "%s %s\n\n", bold(label+":"), cyan(link))
}

// RenderBalances prints one row per cluster. Clusters that failed show their
// error instead of a balance.
func RenderBalances(w io.Writer, doc BalanceDocument) {
	fmt.Fprintf(w, "%s %s\n", bold("Balance of"), doc.Address)

	tbl := table.New("Cluster", "Endpoint", "Balance (SOL)", "Latency", "Status").
		WithHeaderFormatter(headerFmt()).
		WithWriter(w)
	for _, b := range doc.Balances {
		if b.Error != "" {
			tbl.AddRow(b.Cluster, b.Endpoint, "—", "—", red(b.Error))
			continue
		}
		tbl.AddRow(b.Cluster, b.Endpoint, b.SOL, colorLatency(b.LatencyMs), green("✓"))
	}
	tbl.Print()
	fmt.Fprintln(w)
}

func colorLatency(ms int64) string {
	switch {
	case ms < 100:
		return green(fmt.Sprintf("%dms", ms))
	case ms < 300:
		return yellow(fmt.Sprintf("%dms", ms))
	default:
		return red(fmt.Sprintf("%dms", ms))
	}
}

// RenderInspect prints every section present in doc, in display order.
func RenderInspect(w io.Writer, doc InspectDocument) {
	fmt.Fprintln(w)
	fmt.Fprintf(w, "%s %s\n", faint("Cluster:"), doc.Cluster)
	if doc.Explorer != "" {
		RenderLink(w, "Explorer", doc.Explorer)
	}

	RenderTable(w, doc.Overview)
	if len(doc.Accounts) > 0 {
		RenderAccounts(w, doc.Accounts)
	}
	if doc.Logs != nil {
		RenderLogs(w, doc.Logs)
	}
}

// DisableColors turns off color output (for non-TTY or JSON mode)
func DisableColors() {
	color.NoColor = true
}

// IsTerminal returns true if stdout is a terminal
func IsTerminal() bool {
	fi, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return (fi.Mode() & os.ModeCharDevice) != 0
}
