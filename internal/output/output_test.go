package output

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/fatih/color"
	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmagro/soldev/internal/programlog"
	"github.com/dmagro/soldev/internal/report"
)

func init() {
	color.NoColor = true
}

func TestRenderTable(t *testing.T) {
	var buf bytes.Buffer
	RenderTable(&buf, report.Table{
		Title:       "Overview",
		Status:      "FAILED",
		StatusStyle: report.Failure,
		Rows: []report.Row{
			{Label: "Slot", Value: "42"},
			{Label: "Timestamp", Value: "Jan 2, 2024 10:00:00 UTC", Note: "3 hours ago"},
		},
	})

	out := buf.String()
	assert.Contains(t, out, "Overview  FAILED")
	assert.Contains(t, out, "Field")
	assert.Contains(t, out, "Slot")
	assert.Contains(t, out, "42")
	assert.Contains(t, out, "3 hours ago")
	assert.Less(t, bytes.Index(buf.Bytes(), []byte("Jan 2")), bytes.Index(buf.Bytes(), []byte("3 hours ago")))
}

func TestRenderLogs(t *testing.T) {
	var buf bytes.Buffer
	RenderLogs(&buf, []programlog.InstructionLogs{
		{
			InvokedProgram: "11111111111111111111111111111111",
			Lines:          []programlog.Line{{Prefix: "> ", Text: "Program returned success", Style: programlog.Success}},
		},
		{
			Lines:  []programlog.Line{{Prefix: "> ", Text: "Runtime error: boom", Style: programlog.Error}},
			Failed: true,
		},
	})

	out := buf.String()
	assert.Contains(t, out, "#1 11111111111111111111111111111111")
	assert.Contains(t, out, "> Program returned success")
	assert.Contains(t, out, "#2 Unknown Program  FAILED")
}

func TestRenderLogsEmpty(t *testing.T) {
	var buf bytes.Buffer
	RenderLogs(&buf, nil)
	assert.Contains(t, buf.String(), "No logs")
}

func TestRenderAccounts(t *testing.T) {
	key := solana.SystemProgramID
	var buf bytes.Buffer
	RenderAccounts(&buf, []report.AccountRole{
		{Index: 0, Address: key, Roles: report.Program, Details: "Program"},
	})

	out := buf.String()
	assert.Contains(t, out, key.String())
	assert.Contains(t, out, "Program")
}

func TestRenderBalances(t *testing.T) {
	lamports := uint64(1_500_000_000)
	var buf bytes.Buffer
	RenderBalances(&buf, BalanceDocument{
		Address: "addr",
		Balances: []ClusterBalance{
			{Cluster: "devnet", Endpoint: "https://api.devnet.solana.com", Lamports: &lamports, SOL: "1.500000000", LatencyMs: 250},
			{Cluster: "localhost", Endpoint: "http://localhost:8899", Error: "not running"},
		},
	})

	out := buf.String()
	assert.Contains(t, out, "1.500000000")
	assert.Contains(t, out, "250ms")
	assert.Contains(t, out, "not running")
}

func TestWriteJSONInspectDocument(t *testing.T) {
	var buf bytes.Buffer
	err := WriteJSON(&buf, InspectDocument{
		Kind:    "transaction",
		Cluster: "devnet",
		Overview: report.Table{
			Title: "Overview",
			Rows:  []report.Row{{Label: "Slot", Value: "1", Style: report.Warning}},
		},
		Logs: []programlog.InstructionLogs{{InvokedProgram: "p", Lines: []programlog.Line{{Text: "x", Style: programlog.Info}}}},
	})
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, "transaction", got["kind"])
	assert.NotContains(t, got, "accounts")
	assert.NotContains(t, got, "counts")

	rows := got["overview"].(map[string]any)["rows"].([]any)
	assert.Equal(t, "warning", rows[0].(map[string]any)["style"])

	logs := got["logs"].([]any)
	line := logs[0].(map[string]any)["lines"].([]any)[0].(map[string]any)
	assert.Equal(t, "info", line["style"])
}
