package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/savantlab/gbif-records/pkg/occurrence"
)

func newFetchCmd(a *app) *cobra.Command {
	var (
		taxon    string
		start    int
		end      int
		maxPages int
		out      string
		filters  filterFlags
	)

	cmd := &cobra.Command{
		Use:   "fetch",
		Short: "Fetch all occurrence records for one taxon and year interval",
		RunE: func(cmd *cobra.Command, _ []string) error {
			fetcher, err := occurrence.NewFetcher(occurrence.Config{
				Client:    a.client,
				Query:     taxon,
				YearStart: start,
				YearEnd:   end,
				Overrides: filters.overrides(cmd),
				MaxPages:  maxPages,
			})
			if err != nil {
				return err
			}

			tbl, err := fetcher.FetchAll(cmd.Context())
			if err != nil {
				return err
			}

			if err := tbl.SaveCSV(out); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d records to %s\n", tbl.Len(), out)
			return nil
		},
	}

	cmd.Flags().StringVar(&taxon, "taxon", "", "Taxon name query (empty matches all)")
	cmd.Flags().IntVar(&start, "start", 0, "First year of the queried interval")
	cmd.Flags().IntVar(&end, "end", 0, "Last year of the queried interval")
	cmd.Flags().IntVar(&maxPages, "max-pages", 0, "Safety cap on pages per fetch (0 = unlimited)")
	cmd.Flags().StringVar(&out, "out", "records.csv", "Output CSV path")
	filters.register(cmd)

	cmd.MarkFlagRequired("start")
	cmd.MarkFlagRequired("end")

	return cmd
}
