package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/savantlab/gbif-records/pkg/epochs"
)

func newDiversityCmd() *cobra.Command {
	var (
		in string
		by []string
	)

	cmd := &cobra.Command{
		Use:   "diversity",
		Short: "Compute per-group Simpson's diversity from a saved aggregation",
		RunE: func(cmd *cobra.Command, _ []string) error {
			res, err := epochs.LoadFromCSV(in)
			if err != nil {
				return err
			}

			scores, err := res.SimpsonDiversity(by...)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			for _, s := range scores {
				if s.Defined {
					fmt.Fprintf(w, "%s\t%.4f\n", s.Group, s.Index)
				} else {
					fmt.Fprintf(w, "%s\tNA\n", s.Group)
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&in, "in", "", "Saved aggregation CSV to load")
	cmd.Flags().StringSliceVar(&by, "by", nil, "Grouping column(s)")

	cmd.MarkFlagRequired("in")
	cmd.MarkFlagRequired("by")

	return cmd
}
