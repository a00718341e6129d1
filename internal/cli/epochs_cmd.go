package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/savantlab/gbif-records/pkg/epochs"
)

func newEpochsCmd(a *app) *cobra.Command {
	var (
		taxon    string
		start    int
		end      int
		width    int
		workers  int
		maxPages int
		out      string
		filters  filterFlags
	)

	cmd := &cobra.Command{
		Use:   "epochs",
		Short: "Fetch occurrence records bucketed into fixed-width year epochs",
		RunE: func(cmd *cobra.Command, _ []string) error {
			agg, err := epochs.New(epochs.Config{
				Client:    a.client,
				Query:     taxon,
				Start:     start,
				End:       end,
				Width:     width,
				Overrides: filters.overrides(cmd),
				Workers:   workers,
				MaxPages:  maxPages,
			})
			if err != nil {
				return err
			}

			res, err := agg.Aggregate(cmd.Context())
			if err != nil {
				return err
			}

			if err := res.SaveCSV(out); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d records to %s\n", res.Len(), out)
			return nil
		},
	}

	cmd.Flags().StringVar(&taxon, "taxon", "", "Taxon name query (empty matches all)")
	cmd.Flags().IntVar(&start, "start", 0, "First epoch start year")
	cmd.Flags().IntVar(&end, "end", 0, "Exclusive upper bound of epoch start years")
	cmd.Flags().IntVar(&width, "width", 0, "Epoch width in years")
	cmd.Flags().IntVar(&workers, "workers", 1, "Concurrent epoch fetches (1 = sequential)")
	cmd.Flags().IntVar(&maxPages, "max-pages", 0, "Safety cap on pages per fetch (0 = unlimited)")
	cmd.Flags().StringVar(&out, "out", "epochs.csv", "Output CSV path")
	filters.register(cmd)

	cmd.MarkFlagRequired("start")
	cmd.MarkFlagRequired("end")
	cmd.MarkFlagRequired("width")

	return cmd
}
