// Command blockscan shows the latest Ethereum blocks and the transactions of a
// selected block, in the browser (serve) or the terminal (watch).
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

const autoProvider = "auto"

type globalFlags struct {
	configPath string
	provider   string
	logLevel   string
}

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	flags := &globalFlags{}

	root := &cobra.Command{
		Use:   "blockscan",
		Short: "Browse the latest Ethereum blocks and their transactions",
		Long: `BlockScan lists the most recent blocks from an Ethereum JSON-RPC provider
and the transactions of the block you select.

Examples:
  blockscan serve
  blockscan watch --block 0x...
  blockscan blocks --count 10
  blockscan txs latest --limit 10
  blockscan providers`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := root.PersistentFlags()
	pf.StringVar(&flags.configPath, "config", "config/blockscan.yaml", "Path to the YAML config file")
	pf.StringVar(&flags.provider, "provider", "", `Provider name from config, or "auto" to pick the healthiest (default: first configured)`)
	pf.StringVar(&flags.logLevel, "log-level", "", "Log level override: debug|info|warn|error")

	root.AddCommand(
		serveCmd(flags),
		watchCmd(flags),
		blocksCmd(flags),
		txsCmd(flags),
		providersCmd(flags),
	)
	return root
}
