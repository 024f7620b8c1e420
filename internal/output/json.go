package output

import (
	"encoding/json"
	"io"

	"github.com/dmagro/soldev/internal/programlog"
	"github.com/dmagro/soldev/internal/report"
)

// InspectDocument is the machine-readable result of inspecting an address,
// transaction or block. Sections that do not apply to Kind are omitted.
type InspectDocument struct {
	Kind     string `json:"kind"`
	Cluster  string `json:"cluster"`
	Endpoint string `json:"endpoint"`
	Explorer string `json:"explorer,omitempty"`

	Overview      report.Table                 `json:"overview"`
	ComputeBudget *report.ComputeBudgetSummary `json:"compute_budget,omitempty"`
	Accounts      []report.AccountRole         `json:"accounts,omitempty"`
	Logs          []programlog.InstructionLogs `json:"logs,omitempty"`
	Counts        *report.BlockCounts          `json:"counts,omitempty"`
}

// BalanceDocument holds the balance of one address on several clusters.
type BalanceDocument struct {
	Address  string           `json:"address"`
	Balances []ClusterBalance `json:"balances"`
}

type ClusterBalance struct {
	Cluster   string  `json:"cluster"`
	Endpoint  string  `json:"endpoint"`
	Lamports  *uint64 `json:"lamports,omitempty"`
	SOL       string  `json:"sol,omitempty"`
	LatencyMs int64   `json:"latency_ms"`
	Error     string  `json:"error,omitempty"`
}

// ClusterDocument describes the resolved cluster and, when detected, what the
// node itself reports.
type ClusterDocument struct {
	Cluster     string `json:"cluster"`
	Endpoint    string `json:"endpoint"`
	Custom      bool   `json:"custom"`
	GenesisHash string `json:"genesis_hash,omitempty"`
	Detected    string `json:"detected,omitempty"`
}

// WriteJSON encodes v as indented JSON to w.
func WriteJSON(w io.Writer, v any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}
