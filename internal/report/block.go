package report

import (
	"github.com/dmagro/soldev/internal/chain"
)

// Percent returns part as a percentage of total, or 0 when total is 0.
func Percent(part, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(part) / float64(total) * 100
}

// BlockCounts aggregates the transactions of a block.
type BlockCounts struct {
	Total         int `json:"total"`
	Successful    int `json:"successful"`
	Failed        int `json:"failed"`
	Vote          int `json:"vote"`
	NonVote       int `json:"non_vote"`
	ComputeBudget int `json:"compute_budget"`
}

// CountTransactions classifies every transaction of b. A transaction without
// status metadata is counted as failed since it cannot be shown to have succeeded.
func CountTransactions(b chain.Block) BlockCounts {
	c := BlockCounts{Total: len(b.Transactions)}
	for _, tx := range b.Transactions {
		if tx.Meta != nil && tx.Meta.Err == nil {
			c.Successful++
		}
		if tx.Message.HasKey(chain.VoteProgramID) {
			c.Vote++
		}
		if tx.Message.HasKey(chain.ComputeBudgetProgramID) {
			c.ComputeBudget++
		}
	}
	c.Failed = c.Total - c.Successful
	c.NonVote = c.Total - c.Vote
	return c
}

// BlockOverview builds the overview rows of a block produced by leader.
func BlockOverview(b chain.Block, leader string, opts Options) Table {
	loc := opts.Locale
	c := CountTransactions(b)

	share := func(n int) string {
		return loc.Int(int64(n)) + " (" + loc.Percent(Percent(n, c.Total)) + ")"
	}

	t := Table{Title: "Block Overview"}
	t.Rows = append(t.Rows, opts.timestampRow(b.BlockTime))
	t.add("Leader", leader)
	t.add("Blockhash", b.Blockhash)
	t.add("Previous blockhash", b.PreviousBlockhash)
	if b.BlockHeight != nil {
		t.add("Block height", loc.Uint(*b.BlockHeight))
	} else {
		t.addStyled("Block height", "unavailable", Warning)
	}
	t.add("Parent slot", loc.Uint(b.ParentSlot))
	t.add("Total transactions", loc.Int(int64(c.Total)))
	t.add("Successful transactions", share(c.Successful))
	t.add("Failed transactions", share(c.Failed))
	t.add("Vote transactions", share(c.Vote))
	t.add("Non-vote transactions", share(c.NonVote))
	t.add("Compute budget transactions", share(c.ComputeBudget))
	return t
}
