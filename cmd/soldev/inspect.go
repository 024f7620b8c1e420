package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/gagliardetto/solana-go"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/dmagro/soldev/internal/cluster"
	"github.com/dmagro/soldev/internal/explorer"
	"github.com/dmagro/soldev/internal/input"
	"github.com/dmagro/soldev/internal/output"
	"github.com/dmagro/soldev/internal/programlog"
	"github.com/dmagro/soldev/internal/report"
	"github.com/dmagro/soldev/internal/reports"
	"github.com/dmagro/soldev/internal/rpc"
)

func inspectCmd() *cobra.Command {
	var save bool

	cmd := &cobra.Command{
		Use:   "inspect <address|signature|block|explorer-url>",
		Short: "Show an account, transaction or block",
		Long: `Fetch an account, transaction or block and show its overview.

Transactions also list their accounts and per-instruction program logs.
Explorer links are accepted and carry their own cluster.

Examples:
  soldev inspect 11111111111111111111111111111111
  soldev inspect 5VERv8NMvzbJMEkV8xnrLkEaWRtSz9CosKDYjCJjBRnbJLgp8uirBgmQpjKhoR4tjF3ZpRzrFmBV6UjKdiSZkQUW
  soldev inspect 250000000 -u devnet
  soldev inspect "https://explorer.solana.com/block/1000?cluster=testnet"
  soldev inspect <signature> --save --format json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInspect(cmd.Context(), cmd, args[0], save)
		},
	}

	cmd.Flags().BoolVar(&save, "save", false, "Also write the result as JSON under reports/")

	return cmd
}

func runInspect(ctx context.Context, cmd *cobra.Command, raw string, save bool) error {
	e, err := setup(cmd)
	if err != nil {
		return err
	}

	cls, err := input.Classify(raw, e.locale)
	if err != nil {
		return err
	}

	ref, err := e.resolve(cls.ClusterOverride)
	if err != nil {
		return err
	}

	client := rpc.NewClient(ref, e.clientConfig())
	opts := e.reportOptions()
	target := cls.Target

	var doc output.InspectDocument
	switch target.Kind {
	case input.Address:
		doc, err = inspectAccount(ctx, client, target.Value, opts)
	case input.Signature:
		doc, err = inspectTransaction(ctx, client, target.Value, opts)
	case input.Block:
		doc, err = inspectBlock(ctx, client, target.Block, opts)
	}
	if errors.Is(err, rpc.ErrNotFound) {
		return notFound(target, ref, err)
	}
	if err != nil {
		return err
	}

	doc.Cluster = clusterName(ref)
	doc.Endpoint = ref.URL()
	doc.Explorer = explorer.BuildLink(entityFor(target), ref).String()

	if save {
		path, err := reports.WriteJSON(doc, reports.Prefix(doc.Kind, target.Value))
		if err != nil {
			return err
		}
		e.logger.Debug("saved report", zap.String("path", path))
		fmt.Fprintf(cmd.ErrOrStderr(), "Report saved to %s\n", path)
	}

	return e.render(cmd.OutOrStdout(), doc, func(w io.Writer) {
		output.RenderInspect(w, doc)
	})
}

func inspectAccount(ctx context.Context, client *rpc.Client, value string, opts report.Options) (output.InspectDocument, error) {
	address, err := solana.PublicKeyFromBase58(value)
	if err != nil {
		return output.InspectDocument{}, fmt.Errorf("%w: %v", input.ErrUnrecognized, err)
	}

	info, err := client.GetAccountInfo(ctx, address)
	if err != nil {
		return output.InspectDocument{}, err
	}

	return output.InspectDocument{
		Kind:     "account",
		Overview: report.AccountOverview(info, opts),
	}, nil
}

func inspectTransaction(ctx context.Context, client *rpc.Client, value string, opts report.Options) (output.InspectDocument, error) {
	signature, err := solana.SignatureFromBase58(value)
	if err != nil {
		return output.InspectDocument{}, fmt.Errorf("%w: %v", input.ErrUnrecognized, err)
	}

	tx, err := client.GetTransaction(ctx, signature)
	if err != nil {
		return output.InspectDocument{}, err
	}

	overview, err := report.TransactionOverview(tx, opts)
	if err != nil {
		return output.InspectDocument{}, err
	}
	budget, err := report.ComputeBudget(tx)
	if err != nil {
		return output.InspectDocument{}, err
	}
	accounts, err := report.AccountsTable(tx)
	if err != nil {
		return output.InspectDocument{}, err
	}

	logs := programlog.Parse(tx.Meta.LogMessages, tx.Meta.Err)
	if logs == nil {
		logs = []programlog.InstructionLogs{}
	}

	return output.InspectDocument{
		Kind:          "transaction",
		Overview:      overview,
		ComputeBudget: &budget,
		Accounts:      accounts,
		Logs:          logs,
	}, nil
}

func inspectBlock(ctx context.Context, client *rpc.Client, slot uint64, opts report.Options) (output.InspectDocument, error) {
	block, leader, err := client.GetBlockWithLeader(ctx, slot)
	if err != nil {
		return output.InspectDocument{}, err
	}

	counts := report.CountTransactions(block)
	return output.InspectDocument{
		Kind:     "block",
		Overview: report.BlockOverview(block, leader.String(), opts),
		Counts:   &counts,
	}, nil
}

// notFound explains a missing entity and points at the explorer, which may
// know it on another cluster or with a longer history.
func notFound(target input.Target, ref cluster.Ref, err error) error {
	link := explorer.BuildLink(entityFor(target), ref)
	return fmt.Errorf("%s %s on %s: %w\nTry the explorer: %s",
		target.Kind, target.Value, ref, err, link)
}
