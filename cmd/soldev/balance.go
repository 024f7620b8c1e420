package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/gagliardetto/solana-go"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/dmagro/soldev/internal/cluster"
	"github.com/dmagro/soldev/internal/output"
	"github.com/dmagro/soldev/internal/provider"
	"github.com/dmagro/soldev/internal/rpc"
)

func balanceCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "balance [address]",
		Short: "Show an address balance on every cluster",
		Long: `Query the balance of one address on mainnet-beta, devnet, testnet and
localhost in parallel. A custom --url endpoint is queried as well.

Without an address the Solana CLI keypair is used.

Examples:
  soldev balance
  soldev balance 83astBRguLMdt2h5U1Tpdq5tjFoJ6noeGwaY3mDLVcri
  soldev balance --format json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBalance(cmd.Context(), cmd, args)
		},
	}

	return cmd
}

func runBalance(ctx context.Context, cmd *cobra.Command, args []string) error {
	e, err := setup(cmd)
	if err != nil {
		return err
	}

	address, err := balanceAddress(e, args)
	if err != nil {
		return err
	}

	refs, err := balanceRefs(e.urlFlag)
	if err != nil {
		return err
	}

	pool := rpc.NewClientPool(e.clientConfig())
	results := provider.ExecuteAll(ctx, refs, func(ctx context.Context, ref cluster.Ref) (uint64, error) {
		return pool.GetOrCreate(ref).GetBalance(ctx, address)
	})
	e.logger.Debug("balances queried", zap.Int("clusters", len(refs)), zap.Int("clients", pool.Len()))

	doc := output.BalanceDocument{Address: address.String()}
	for _, r := range results {
		b := output.ClusterBalance{
			Cluster:   clusterName(r.Ref),
			Endpoint:  r.Ref.URL(),
			LatencyMs: r.Latency.Milliseconds(),
		}
		switch {
		case r.Err == nil:
			lamports := r.Value
			b.Lamports = &lamports
			b.SOL = e.locale.Lamports(lamports)
		case r.Ref.Cluster == cluster.Localhost && !errors.Is(r.Err, context.Canceled):
			b.Error = "not running"
		default:
			b.Error = r.Err.Error()
		}
		if r.Err != nil {
			e.logger.Debug("balance failed", zap.String("cluster", r.Ref.String()), zap.Error(r.Err))
		}
		doc.Balances = append(doc.Balances, b)
	}

	return e.render(cmd.OutOrStdout(), doc, func(w io.Writer) {
		output.RenderBalances(w, doc)
	})
}

// balanceRefs lists the clusters to query. A --url on a known cluster's
// non-default endpoint takes that cluster's place; a custom one is appended.
func balanceRefs(urlFlag string) ([]cluster.Ref, error) {
	refs := provider.PublicClusters()
	if urlFlag == "" {
		return refs, nil
	}

	ref, err := cluster.ParseFlag(urlFlag, "")
	if err != nil {
		return nil, err
	}
	if ref.IsCustom() {
		return append(refs, ref), nil
	}
	if strings.TrimSuffix(ref.URL(), "/") == cluster.DefaultEndpoint(ref.Cluster).String() {
		return refs, nil
	}
	for i, r := range refs {
		if r.Cluster == ref.Cluster {
			refs[i] = ref
		}
	}
	return refs, nil
}

// balanceAddress is the address argument or, without one, the public key of
// the Solana CLI keypair.
func balanceAddress(e *env, args []string) (solana.PublicKey, error) {
	if len(args) == 1 {
		address, err := solana.PublicKeyFromBase58(args[0])
		if err != nil {
			return solana.PublicKey{}, fmt.Errorf("invalid address %q: %w", args[0], err)
		}
		return address, nil
	}

	path := e.cfg.KeypairPath()
	if path == "" {
		return solana.PublicKey{}, errors.New("no address given and no Solana CLI keypair configured")
	}
	key, err := solana.PrivateKeyFromSolanaKeygenFile(path)
	if err != nil {
		return solana.PublicKey{}, fmt.Errorf("failed to read keypair %s: %w", path, err)
	}
	return key.PublicKey(), nil
}
