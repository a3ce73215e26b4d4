// Command indexer builds and queries the keyword index.
//
// Usage:
//
//	indexer run [--root docs] [--persister append|replace|postgres]
//	indexer listen
//	indexer lookup <keyword>
//	indexer analyze <file>
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Adithya-Monish-Kumar-K/eddy/pkg/config"
	"github.com/Adithya-Monish-Kumar-K/eddy/pkg/logger"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// app carries the loaded configuration to the subcommands.
type app struct {
	configPath string
	cfg        *config.Config
}

func newRootCmd() *cobra.Command {
	a := &app{}
	cmd := &cobra.Command{
		Use:   "indexer",
		Short: "Build and query the document keyword index",
		Long: `Walk a documentation tree, extract each document's key phrases and
commit the keyword -> documents index to the shared store.

Configuration comes from built-in defaults, the optional --config YAML file
and EDDY_* environment variables, in that order.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(a.configPath)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			a.cfg = cfg
			logger.Setup(cfg.Logging.Level, cfg.Logging.Format)
			return nil
		},
	}
	cmd.PersistentFlags().StringVarP(&a.configPath, "config", "c", "", "path to config file")

	cmd.AddCommand(
		newRunCmd(a),
		newListenCmd(a),
		newLookupCmd(a),
		newAnalyzeCmd(a),
	)
	return cmd
}
