// Command soldev inspects Solana accounts, transactions and blocks and resolves
// which cluster an RPC endpoint belongs to.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var version = "dev"

func rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "soldev",
		Short: "Solana developer tooling",
		Long: `Inspect accounts, transactions and blocks on any Solana cluster.

The target cluster comes from --url, then the url in the config file, then
json_rpc_url from the Solana CLI config, and finally mainnet-beta.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := cmd.PersistentFlags()
	flags.String("config", "", "Config file path (default ~/.config/soldev/config.yaml)")
	flags.StringP("url", "u", "", "RPC url or moniker: [mainnet-beta, devnet, testnet, localhost]")
	flags.String("commitment", "", "Commitment level: processed|confirmed|finalized")
	flags.String("format", formatTerminal, "Output format: terminal|json")
	flags.BoolP("verbose", "v", false, "Log requests and retries to stderr")

	cmd.AddCommand(
		inspectCmd(),
		balanceCmd(),
		clusterCmd(),
		explorerCmd(),
		versionCmd(),
	)
	return cmd
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd().ExecuteContext(ctx)
	stop()

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
