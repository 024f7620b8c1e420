package rpc

import (
	"context"
	"fmt"

	"github.com/gagliardetto/solana-go"
	solanarpc "github.com/gagliardetto/solana-go/rpc"
	"golang.org/x/sync/errgroup"

	"github.com/dmagro/soldev/internal/chain"
)

// maxSupportedTransactionVersion lets the node return v0 transactions.
var maxSupportedTransactionVersion uint64 = 0

// historyCommitment is the commitment used for transactions and blocks, which
// the node does not serve at processed.
func (c *Client) historyCommitment() solanarpc.CommitmentType {
	if c.commitment == solanarpc.CommitmentProcessed {
		return solanarpc.CommitmentConfirmed
	}
	return c.commitment
}

func (c *Client) GetAccountInfo(ctx context.Context, address solana.PublicKey) (chain.AccountInfo, error) {
	var res *solanarpc.GetAccountInfoResult
	err := c.call(ctx, "getAccountInfo", func(ctx context.Context, cl *solanarpc.Client) error {
		var err error
		res, err = cl.GetAccountInfoWithOpts(ctx, address, &solanarpc.GetAccountInfoOpts{
			Encoding:   solana.EncodingBase64,
			Commitment: c.commitment,
		})
		return err
	})
	if err != nil {
		return chain.AccountInfo{}, err
	}
	if res == nil || res.Value == nil {
		return chain.AccountInfo{}, ErrNotFound
	}
	return convertAccount(address, res.Value), nil
}

func (c *Client) GetBalance(ctx context.Context, address solana.PublicKey) (uint64, error) {
	var res *solanarpc.GetBalanceResult
	err := c.call(ctx, "getBalance", func(ctx context.Context, cl *solanarpc.Client) error {
		var err error
		res, err = cl.GetBalance(ctx, address, c.commitment)
		return err
	})
	if err != nil {
		return 0, err
	}
	return res.Value, nil
}

// GetTransaction fetches a confirmed transaction. Meta is left nil when the
// node returned none.
func (c *Client) GetTransaction(ctx context.Context, signature solana.Signature) (chain.Transaction, error) {
	var res *solanarpc.GetTransactionResult
	err := c.call(ctx, "getTransaction", func(ctx context.Context, cl *solanarpc.Client) error {
		var err error
		res, err = cl.GetTransaction(ctx, signature, &solanarpc.GetTransactionOpts{
			Encoding:                       solana.EncodingBase64,
			Commitment:                     c.historyCommitment(),
			MaxSupportedTransactionVersion: &maxSupportedTransactionVersion,
		})
		return err
	})
	if err != nil {
		return chain.Transaction{}, err
	}
	if res == nil || res.Transaction == nil {
		return chain.Transaction{}, ErrNotFound
	}

	tx, err := res.Transaction.GetTransaction()
	if err != nil {
		return chain.Transaction{}, fmt.Errorf("decode transaction %s: %w", signature, err)
	}
	return convertTransaction(signature, res.Slot, res.BlockTime, res.Version, tx, res.Meta), nil
}

func (c *Client) GetBlock(ctx context.Context, slot uint64) (chain.Block, error) {
	rewards := false
	var res *solanarpc.GetBlockResult
	err := c.call(ctx, "getBlock", func(ctx context.Context, cl *solanarpc.Client) error {
		var err error
		res, err = cl.GetBlockWithOpts(ctx, slot, &solanarpc.GetBlockOpts{
			Encoding:                       solana.EncodingBase64,
			TransactionDetails:             solanarpc.TransactionDetailsFull,
			Rewards:                        &rewards,
			Commitment:                     c.historyCommitment(),
			MaxSupportedTransactionVersion: &maxSupportedTransactionVersion,
		})
		return err
	})
	if err != nil {
		return chain.Block{}, err
	}
	if res == nil {
		return chain.Block{}, ErrNotFound
	}
	return convertBlock(slot, res)
}

// GetSlotLeader returns the leader scheduled for slot.
func (c *Client) GetSlotLeader(ctx context.Context, slot uint64) (solana.PublicKey, error) {
	var leaders []solana.PublicKey
	err := c.call(ctx, "getSlotLeaders", func(ctx context.Context, cl *solanarpc.Client) error {
		var err error
		leaders, err = cl.GetSlotLeaders(ctx, slot, 1)
		return err
	})
	if err != nil {
		return solana.PublicKey{}, err
	}
	if len(leaders) == 0 {
		return solana.PublicKey{}, ErrNotFound
	}
	return leaders[0], nil
}

// GetBlockWithLeader fetches the block and its leader concurrently.
func (c *Client) GetBlockWithLeader(ctx context.Context, slot uint64) (chain.Block, solana.PublicKey, error) {
	var (
		block  chain.Block
		leader solana.PublicKey
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		block, err = c.GetBlock(gctx, slot)
		return err
	})
	g.Go(func() error {
		var err error
		leader, err = c.GetSlotLeader(gctx, slot)
		return err
	})
	if err := g.Wait(); err != nil {
		return chain.Block{}, solana.PublicKey{}, err
	}

	return block, leader, nil
}

func (c *Client) GetGenesisHash(ctx context.Context) (string, error) {
	var hash solana.Hash
	err := c.call(ctx, "getGenesisHash", func(ctx context.Context, cl *solanarpc.Client) error {
		var err error
		hash, err = cl.GetGenesisHash(ctx)
		return err
	})
	if err != nil {
		return "", err
	}
	return hash.String(), nil
}
