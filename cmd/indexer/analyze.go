package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func newAnalyzeCmd(a *app) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "analyze <file>",
		Short: "Print the keywords of one document without writing the index",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("reading %s: %w", args[0], err)
			}
			res, err := newExtractor(a.cfg.Extraction).Analyze(cmd.Context(), string(data))
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if asJSON {
				return json.NewEncoder(out).Encode(res.Keywords)
			}
			for _, kw := range res.Keywords {
				fmt.Fprintln(out, kw)
			}
			if res.Truncated {
				fmt.Fprintf(cmd.ErrOrStderr(), "note: document truncated to %d chunks\n", res.Chunks)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the keyword list as JSON")
	return cmd
}
