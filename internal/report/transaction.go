package report

import (
	"fmt"

	bin "github.com/gagliardetto/binary"

	"github.com/dmagro/soldev/internal/chain"
)

// defaultUnitsPerInstruction is the compute limit the runtime assumes per
// instruction when a transaction sets none.
const defaultUnitsPerInstruction = 200_000

// Compute budget program instruction discriminators.
const (
	ixRequestUnits                   = 0
	ixRequestHeapFrame               = 1
	ixSetComputeUnitLimit            = 2
	ixSetComputeUnitPrice            = 3
	ixSetLoadedAccountsDataSizeLimit = 4
)

// ComputeBudgetSummary is what a transaction asked of the compute budget
// program. Nil fields were not set by any instruction.
type ComputeBudgetSummary struct {
	UnitsConsumed        uint64  `json:"units_consumed"`
	UnitsRequested       *uint64 `json:"units_requested,omitempty"`
	UnitLimit            *uint64 `json:"unit_limit,omitempty"`
	UnitPrice            *uint64 `json:"unit_price,omitempty"`
	AccountDataSizeLimit *uint64 `json:"account_data_size_limit,omitempty"`
	HeapFrameSize        *uint64 `json:"heap_frame_size,omitempty"`
}

// RequestedUnits is the effective requested limit: SetComputeUnitLimit when
// present, else the deprecated RequestUnits value.
func (s ComputeBudgetSummary) RequestedUnits() (uint64, bool) {
	if s.UnitLimit != nil {
		return *s.UnitLimit, true
	}
	if s.UnitsRequested != nil {
		return *s.UnitsRequested, true
	}
	return 0, false
}

// ComputeBudget scans tx for compute budget instructions. When the same
// instruction appears more than once the last one wins, as on chain.
func ComputeBudget(tx chain.Transaction) (ComputeBudgetSummary, error) {
	if tx.Meta == nil {
		return ComputeBudgetSummary{}, fmt.Errorf("%w: transaction has no meta", ErrMalformedUpstreamData)
	}

	var s ComputeBudgetSummary
	if tx.Meta.ComputeUnitsConsumed != nil {
		s.UnitsConsumed = *tx.Meta.ComputeUnitsConsumed
	}

	for i, ix := range tx.Message.Instructions {
		program, ok := tx.Message.ProgramID(ix)
		if !ok {
			return ComputeBudgetSummary{}, fmt.Errorf("%w: instruction %d program index %d out of range",
				ErrMalformedUpstreamData, i, ix.ProgramIDIndex)
		}
		if !program.Equals(chain.ComputeBudgetProgramID) {
			continue
		}
		if err := decodeBudgetInstruction(ix.Data, &s); err != nil {
			return ComputeBudgetSummary{}, fmt.Errorf("%w: compute budget instruction %d: %v",
				ErrMalformedUpstreamData, i, err)
		}
	}

	return s, nil
}

func decodeBudgetInstruction(data []byte, s *ComputeBudgetSummary) error {
	dec := bin.NewBinDecoder(data)
	kind, err := dec.ReadUint8()
	if err != nil {
		return err
	}

	u32 := func() (*uint64, error) {
		v, err := dec.ReadUint32(bin.LE)
		if err != nil {
			return nil, err
		}
		n := uint64(v)
		return &n, nil
	}

	switch kind {
	case ixRequestUnits:
		s.UnitsRequested, err = u32()
		if err == nil {
			// additional fee, superseded by SetComputeUnitPrice
			_, err = dec.ReadUint32(bin.LE)
		}
	case ixRequestHeapFrame:
		s.HeapFrameSize, err = u32()
	case ixSetComputeUnitLimit:
		s.UnitLimit, err = u32()
	case ixSetComputeUnitPrice:
		var price uint64
		price, err = dec.ReadUint64(bin.LE)
		if err == nil {
			s.UnitPrice = &price
		}
	case ixSetLoadedAccountsDataSizeLimit:
		s.AccountDataSizeLimit, err = u32()
	}
	return err
}

// TransactionOverview builds the overview rows of a fetched transaction.
func TransactionOverview(tx chain.Transaction, opts Options) (Table, error) {
	budget, err := ComputeBudget(tx)
	if err != nil {
		return Table{}, err
	}
	loc := opts.Locale

	t := Table{Title: "Transaction Overview", Status: "SUCCESS", StatusStyle: Success}
	if tx.Failed() {
		t.Status, t.StatusStyle = "FAILED", Failure
	}

	t.Rows = append(t.Rows, opts.timestampRow(tx.BlockTime))
	t.add("Version", tx.Version.String())
	t.add("Slot", loc.Uint(tx.Slot))
	t.add("Fee (SOL)", "~"+loc.Lamports(tx.Meta.Fee))
	t.add("Compute units consumed", loc.Uint(budget.UnitsConsumed))

	if units, ok := budget.RequestedUnits(); ok {
		t.add("Compute units requested", loc.Uint(units))
	} else {
		fallback := uint64(defaultUnitsPerInstruction * len(tx.Message.Instructions))
		t.addStyled("Compute units requested", "NONE SET - fallback to "+loc.Uint(fallback), Warning)
	}

	if budget.UnitPrice != nil {
		t.add("Compute unit price (in microLamports)", loc.Uint(*budget.UnitPrice))
	} else {
		t.addStyled("Compute unit price (in microLamports)", "NONE", Warning)
	}

	if tx.Failed() {
		t.addStyled("Error", tx.Meta.Err.String(), Failure)
	}

	return t, nil
}
