package rpc

import (
	"fmt"
	"time"

	"github.com/gagliardetto/solana-go"
	solanarpc "github.com/gagliardetto/solana-go/rpc"

	"github.com/dmagro/soldev/internal/chain"
)

func convertAccount(address solana.PublicKey, acc *solanarpc.Account) chain.AccountInfo {
	info := chain.AccountInfo{
		Address:    address,
		Owner:      acc.Owner,
		Executable: acc.Executable,
		Lamports:   acc.Lamports,
	}
	if acc.Data != nil {
		info.Data = acc.Data.GetBinary()
	}
	return info
}

func convertTime(t *solana.UnixTimeSeconds) *time.Time {
	if t == nil {
		return nil
	}
	v := t.Time().UTC()
	return &v
}

func convertVersion(v solanarpc.TransactionVersion) chain.Version {
	if v == solanarpc.LegacyTransactionVersion {
		return chain.LegacyVersion
	}
	return chain.Version(v)
}

func convertMessage(msg solana.Message) chain.Message {
	out := chain.Message{
		Header: chain.Header{
			NumRequiredSignatures:       msg.Header.NumRequiredSignatures,
			NumReadonlySignedAccounts:   msg.Header.NumReadonlySignedAccounts,
			NumReadonlyUnsignedAccounts: msg.Header.NumReadonlyUnsignedAccounts,
		},
		AccountKeys:  append([]solana.PublicKey(nil), msg.AccountKeys...),
		Instructions: make([]chain.Instruction, 0, len(msg.Instructions)),
	}
	for _, ix := range msg.Instructions {
		out.Instructions = append(out.Instructions, chain.Instruction{
			ProgramIDIndex: ix.ProgramIDIndex,
			Accounts:       append([]uint16(nil), ix.Accounts...),
			Data:           []byte(ix.Data),
		})
	}
	return out
}

func convertMeta(meta *solanarpc.TransactionMeta) *chain.Meta {
	if meta == nil {
		return nil
	}
	out := &chain.Meta{
		Fee:                  meta.Fee,
		ComputeUnitsConsumed: meta.ComputeUnitsConsumed,
		LogMessages:          meta.LogMessages,
		LoadedAddresses: chain.LoadedAddresses{
			Writable: meta.LoadedAddresses.Writable,
			Readonly: meta.LoadedAddresses.ReadOnly,
		},
	}
	if meta.Err != nil {
		out.Err = &chain.TransactionError{Raw: meta.Err}
	}
	return out
}

func convertTransaction(
	signature solana.Signature,
	slot uint64,
	blockTime *solana.UnixTimeSeconds,
	version solanarpc.TransactionVersion,
	tx *solana.Transaction,
	meta *solanarpc.TransactionMeta,
) chain.Transaction {
	if signature == (solana.Signature{}) && len(tx.Signatures) > 0 {
		signature = tx.Signatures[0]
	}
	return chain.Transaction{
		Signature: signature,
		Slot:      slot,
		BlockTime: convertTime(blockTime),
		Version:   convertVersion(version),
		Message:   convertMessage(tx.Message),
		Meta:      convertMeta(meta),
	}
}

func convertBlock(slot uint64, res *solanarpc.GetBlockResult) (chain.Block, error) {
	b := chain.Block{
		Slot:              slot,
		Blockhash:         res.Blockhash.String(),
		PreviousBlockhash: res.PreviousBlockhash.String(),
		ParentSlot:        res.ParentSlot,
		BlockHeight:       res.BlockHeight,
		BlockTime:         convertTime(res.BlockTime),
		Transactions:      make([]chain.Transaction, 0, len(res.Transactions)),
	}
	for i, twm := range res.Transactions {
		tx, err := twm.GetTransaction()
		if err != nil {
			return chain.Block{}, fmt.Errorf("decode transaction %d of block %d: %w", i, slot, err)
		}
		b.Transactions = append(b.Transactions, convertTransaction(solana.Signature{}, slot, res.BlockTime, twm.Version, tx, twm.Meta))
	}
	return b, nil
}
