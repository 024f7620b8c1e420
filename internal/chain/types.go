// Package chain holds the decoded on-chain data the inspector works with.
//
// Values here are snapshots produced by the rpc package (or by tests) and are
// never mutated after construction.
package chain

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/gagliardetto/solana-go"
)

var (
	ComputeBudgetProgramID = solana.MustPublicKeyFromBase58("ComputeBudget111111111111111111111111111111")
	VoteProgramID          = solana.MustPublicKeyFromBase58("Vote111111111111111111111111111111111111111")
)

type AccountInfo struct {
	Address    solana.PublicKey
	Owner      solana.PublicKey
	Executable bool
	Lamports   uint64
	Data       []byte
}

// Space is the size of the account data in bytes.
func (a AccountInfo) Space() uint64 {
	return uint64(len(a.Data))
}

type Header struct {
	NumRequiredSignatures       uint8
	NumReadonlySignedAccounts   uint8
	NumReadonlyUnsignedAccounts uint8
}

type Instruction struct {
	ProgramIDIndex uint16
	Accounts       []uint16
	Data           []byte
}

type Message struct {
	Header       Header
	AccountKeys  []solana.PublicKey
	Instructions []Instruction
}

// ProgramID returns the static account key addressed by ix.ProgramIDIndex.
func (m Message) ProgramID(ix Instruction) (solana.PublicKey, bool) {
	if int(ix.ProgramIDIndex) >= len(m.AccountKeys) {
		return solana.PublicKey{}, false
	}
	return m.AccountKeys[ix.ProgramIDIndex], true
}

// HasKey reports whether key is one of the static account keys.
func (m Message) HasKey(key solana.PublicKey) bool {
	for _, k := range m.AccountKeys {
		if k.Equals(key) {
			return true
		}
	}
	return false
}

type LoadedAddresses struct {
	Writable []solana.PublicKey
	Readonly []solana.PublicKey
}

// TransactionError is the structured error attached to a failed transaction,
// kept in its decoded JSON form, e.g. "AccountInUse" or
// {"InstructionError": [0, {"Custom": 6001}]}.
type TransactionError struct {
	Raw any
}

// InstructionError extracts the failing instruction index and the raw
// instruction error kind. ok is false for transaction-level errors that are not
// tied to an instruction.
func (e *TransactionError) InstructionError() (index int, kind any, ok bool) {
	if e == nil {
		return 0, nil, false
	}
	obj, isMap := e.Raw.(map[string]any)
	if !isMap {
		return 0, nil, false
	}
	pair, isSlice := obj["InstructionError"].([]any)
	if !isSlice || len(pair) != 2 {
		return 0, nil, false
	}
	n, isNum := AsInt64(pair[0])
	if !isNum {
		return 0, nil, false
	}
	return int(n), pair[1], true
}

func (e *TransactionError) String() string {
	if e == nil {
		return ""
	}
	if s, ok := e.Raw.(string); ok {
		return s
	}
	b, err := json.Marshal(e.Raw)
	if err != nil {
		return fmt.Sprint(e.Raw)
	}
	return string(b)
}

// AsInt64 converts the numeric representations produced by JSON decoders.
func AsInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int64:
		return n, true
	case uint64:
		return int64(n), true
	case uint32:
		return int64(n), true
	case float64:
		return int64(n), true
	case json.Number:
		i, err := n.Int64()
		return i, err == nil
	}
	return 0, false
}

type Meta struct {
	Err                  *TransactionError
	Fee                  uint64
	ComputeUnitsConsumed *uint64
	LogMessages          []string
	LoadedAddresses      LoadedAddresses
}

// Version is the transaction message version. Legacy messages use LegacyVersion.
type Version int

const LegacyVersion Version = -1

func (v Version) String() string {
	if v == LegacyVersion {
		return "legacy"
	}
	return fmt.Sprintf("%d", int(v))
}

type Transaction struct {
	Signature solana.Signature
	Slot      uint64
	BlockTime *time.Time
	Version   Version
	Message   Message
	// Meta is nil when the upstream node returned no status metadata.
	Meta *Meta
}

// Failed reports whether the transaction carries an execution error.
func (t Transaction) Failed() bool {
	return t.Meta != nil && t.Meta.Err != nil
}

type Block struct {
	Slot              uint64
	Blockhash         string
	PreviousBlockhash string
	ParentSlot        uint64
	BlockHeight       *uint64
	BlockTime         *time.Time
	Transactions      []Transaction
}
