package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/dmagro/soldev/internal/explorer"
	"github.com/dmagro/soldev/internal/input"
)

func explorerCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "explorer <address|signature|block|explorer-url>",
		Short: "Print the explorer link for an address, transaction or block",
		Long: `Print the explorer link for the input on the selected cluster. No request
is made to the cluster.

Examples:
  soldev explorer 11111111111111111111111111111111 -u devnet
  soldev explorer 1000 -u http://localhost:8899`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExplorer(cmd, args[0])
		},
	}
}

type explorerDocument struct {
	Kind    string `json:"kind"`
	Cluster string `json:"cluster"`
	URL     string `json:"url"`
}

func runExplorer(cmd *cobra.Command, raw string) error {
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

	entity := entityFor(cls.Target)
	doc := explorerDocument{
		Kind:    entity.Kind.String(),
		Cluster: clusterName(ref),
		URL:     explorer.BuildLink(entity, ref).String(),
	}

	return e.render(cmd.OutOrStdout(), doc, func(w io.Writer) {
		fmt.Fprintln(w, doc.URL)
	})
}
