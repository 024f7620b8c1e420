package report

import (
	"fmt"
	"strings"

	"github.com/gagliardetto/solana-go"

	"github.com/dmagro/soldev/internal/chain"
)

// Role is a set of account roles within a transaction.
type Role uint8

const (
	FeePayer Role = 1 << iota
	Signer
	Writable
	Program
	// LookupTable marks accounts loaded from an address lookup table.
	LookupTable
)

func (r Role) Has(o Role) bool { return r&o == o }

// Details renders r the way the accounts table shows it,
// e.g. "Fee Payer, Signer, Writable".
func (r Role) Details() string {
	var parts []string
	if r.Has(LookupTable) {
		parts = append(parts, "Address Lookup Table")
	}
	if r.Has(FeePayer) {
		parts = append(parts, "Fee Payer")
	}
	if r.Has(Signer) {
		parts = append(parts, "Signer")
	}
	if r.Has(Writable) {
		parts = append(parts, "Writable")
	}
	if r.Has(Program) {
		parts = append(parts, "Program")
	}
	return strings.Join(parts, ", ")
}

type AccountRole struct {
	Index   int              `json:"index"`
	Address solana.PublicKey `json:"address"`
	Roles   Role             `json:"-"`
	Details string           `json:"details"`
}

// AccountRoles classifies every account a transaction references: the static
// keys, then the lookup table writable keys, then the lookup table readonly
// keys, with Index running across all three lists.
func AccountRoles(msg chain.Message, loaded chain.LoadedAddresses) ([]AccountRole, error) {
	h := msg.Header
	static := len(msg.AccountKeys)
	numReq := int(h.NumRequiredSignatures)
	roSigned := int(h.NumReadonlySignedAccounts)
	roUnsigned := int(h.NumReadonlyUnsignedAccounts)

	if static < numReq {
		return nil, fmt.Errorf("%w: %d account keys but %d required signatures", ErrMalformedUpstreamData, static, numReq)
	}
	if roSigned > numReq || roUnsigned > static-numReq {
		return nil, fmt.Errorf("%w: readonly counts exceed account keys", ErrMalformedUpstreamData)
	}

	programs := make(map[int]bool, len(msg.Instructions))
	for i, ix := range msg.Instructions {
		if int(ix.ProgramIDIndex) >= static {
			return nil, fmt.Errorf("%w: instruction %d program index %d out of range",
				ErrMalformedUpstreamData, i, ix.ProgramIDIndex)
		}
		programs[int(ix.ProgramIDIndex)] = true
	}

	out := make([]AccountRole, 0, static+len(loaded.Writable)+len(loaded.Readonly))

	for idx, key := range msg.AccountKeys {
		var r Role
		if idx == 0 {
			r |= FeePayer
		}
		if idx < numReq {
			r |= Signer
		}
		if (idx >= numReq && idx-numReq < static-numReq-roUnsigned) || idx < numReq-roSigned {
			r |= Writable
		}
		if programs[idx] {
			r |= Program
		}
		out = append(out, AccountRole{Index: idx, Address: key, Roles: r, Details: r.Details()})
	}

	for _, key := range loaded.Writable {
		r := LookupTable | Writable
		out = append(out, AccountRole{Index: len(out), Address: key, Roles: r, Details: r.Details()})
	}
	for _, key := range loaded.Readonly {
		r := LookupTable
		out = append(out, AccountRole{Index: len(out), Address: key, Roles: r, Details: r.Details()})
	}

	return out, nil
}

// AccountsTable is AccountRoles for a fetched transaction, including the
// addresses it loaded from lookup tables.
func AccountsTable(tx chain.Transaction) ([]AccountRole, error) {
	if tx.Meta == nil {
		return nil, fmt.Errorf("%w: transaction has no meta", ErrMalformedUpstreamData)
	}
	return AccountRoles(tx.Message, tx.Meta.LoadedAddresses)
}
