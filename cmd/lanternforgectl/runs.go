package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"lanternforge/pkg/lanternforge"
)

func newRunsCommand(opts *rootOptions) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "runs",
		Short: "List persisted optimization runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			client, err := opts.newClient(cfg)
			if err != nil {
				return err
			}
			defer client.Close()

			runs, err := client.Runs(cmd.Context(), lanternforge.RunsRequest{Limit: limit})
			if err != nil {
				return err
			}
			if len(runs) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "no runs recorded")
				return nil
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "RUN\tCREATED\tMODE\tSEED\tPOP\tGENS\tBEST")
			for _, run := range runs {
				fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%d\t%.6f\n",
					run.RunID, run.CreatedAtUTC, run.HighestMode,
					run.Seed, run.Population, run.Generations, run.BestFitness)
			}
			return w.Flush()
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "maximum runs to list, newest last")
	return cmd
}
