package main

import (
	"context"
	"io"

	"github.com/spf13/cobra"

	"github.com/dmagro/soldev/internal/cluster"
	"github.com/dmagro/soldev/internal/output"
	"github.com/dmagro/soldev/internal/report"
	"github.com/dmagro/soldev/internal/rpc"
)

func clusterCmd() *cobra.Command {
	var detect bool

	cmd := &cobra.Command{
		Use:   "cluster [moniker|url]",
		Short: "Resolve a moniker or RPC url to a cluster",
		Long: `Show which cluster a moniker or RPC url refers to. Without an argument
the --url flag or the configured url is resolved.

--detect asks the node for its genesis hash instead of trusting the hostname.

Examples:
  soldev cluster d
  soldev cluster https://api.testnet.solana.com
  soldev cluster http://127.0.0.1:8899 --detect`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCluster(cmd.Context(), cmd, args, detect)
		},
	}

	cmd.Flags().BoolVar(&detect, "detect", false, "Identify the cluster by its genesis hash")

	return cmd
}

func runCluster(ctx context.Context, cmd *cobra.Command, args []string, detect bool) error {
	e, err := setup(cmd)
	if err != nil {
		return err
	}

	var ref cluster.Ref
	if len(args) == 1 {
		ref, err = cluster.ParseFlag(args[0], "")
	} else {
		ref, err = e.resolve("")
	}
	if err != nil {
		return err
	}

	doc := output.ClusterDocument{
		Cluster:  clusterName(ref),
		Endpoint: ref.URL(),
		Custom:   ref.IsCustom(),
	}

	if detect {
		hash, err := rpc.NewClient(ref, e.clientConfig()).GetGenesisHash(ctx)
		if err != nil {
			return err
		}
		doc.GenesisHash = hash
		doc.Detected = cluster.FromGenesisHash(hash).String()
	}

	return e.render(cmd.OutOrStdout(), doc, func(w io.Writer) {
		output.RenderTable(w, clusterTable(doc))
	})
}

func clusterTable(doc output.ClusterDocument) report.Table {
	t := report.Table{Title: "Cluster"}
	t.Rows = append(t.Rows,
		report.Row{Label: "Cluster", Value: doc.Cluster},
		report.Row{Label: "Endpoint", Value: doc.Endpoint},
	)
	if doc.GenesisHash == "" {
		return t
	}

	t.Rows = append(t.Rows, report.Row{Label: "Genesis hash", Value: doc.GenesisHash})
	detected := report.Row{Label: "Detected", Value: doc.Detected, Style: report.Success}
	switch {
	case !cluster.IsKnownGenesisHash(doc.GenesisHash):
		detected.Note = "unknown genesis hash, assuming a local validator"
		detected.Style = report.Warning
	case !doc.Custom && doc.Detected != doc.Cluster:
		detected.Note = "does not match the url hostname"
		detected.Style = report.Warning
	}
	t.Rows = append(t.Rows, detected)
	return t
}
