package report

import "github.com/dmagro/soldev/internal/chain"

// AccountOverview builds the rows for a fetched account. Absent accounts are
// the caller's concern.
func AccountOverview(info chain.AccountInfo, opts Options) Table {
	loc := opts.Locale

	executable := "No"
	if info.Executable {
		executable = "Yes"
	}

	t := Table{Title: "Account Overview"}
	t.add("Address", info.Address.String())
	t.add("Owner", info.Owner.String())
	t.add("Executable", executable)
	t.add("Balance (lamports)", loc.Uint(info.Lamports))
	t.add("Balance (SOL)", loc.Lamports(info.Lamports))
	t.add("Space (bytes)", loc.Uint(info.Space()))
	return t
}
