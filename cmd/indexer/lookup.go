package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Adithya-Monish-Kumar-K/eddy/internal/indexer/persist"
)

func newLookupCmd(a *app) *cobra.Command {
	var persister string
	cmd := &cobra.Command{
		Use:   "lookup <keyword>",
		Short: "Print the documents indexed under a keyword",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if persister == "" {
				persister = a.cfg.Indexer.Persister
			}
			backend, err := persist.Open(cmd.Context(), a.cfg, persister)
			if err != nil {
				return err
			}
			defer backend.Close()

			docs, err := backend.Lookup.Lookup(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			for _, d := range docs {
				fmt.Fprintln(cmd.OutOrStdout(), d)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&persister, "persister", "", "store to read (default from config)")
	return cmd
}
