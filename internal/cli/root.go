// Package cli implements the gbif command-line interface.
package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/savantlab/gbif-records/pkg/client"
	"github.com/savantlab/gbif-records/pkg/logging"
)

// Execute runs the CLI and returns the process exit code.
func Execute() int {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

// app carries the state shared by subcommands after root setup.
type app struct {
	settings *Settings
	client   *client.Client
}

func newRootCmd() *cobra.Command {
	var (
		configPath string
		logLevel   string
		pretty     bool
	)
	a := &app{}

	rootCmd := &cobra.Command{
		Use:           "gbif",
		Short:         "Fetch and aggregate GBIF occurrence records",
		Long:          "Query the GBIF occurrence search API, bucket records into year epochs, and compute per-group Simpson's diversity.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			settings, err := LoadSettings(configPath)
			if err != nil {
				return err
			}

			// Flags win over env and config file.
			if cmd.Flags().Changed("log-level") {
				settings.LogLevel = logLevel
			}
			if cmd.Flags().Changed("pretty") {
				settings.Pretty = pretty
			}

			logging.Setup(logging.Config{
				Level:  logging.LogLevel(settings.LogLevel),
				Pretty: settings.Pretty,
				Output: cmd.ErrOrStderr(),
			})

			c, err := client.New(client.Config{
				BaseURL:   settings.BaseURL,
				UserAgent: settings.UserAgent,
				Timeout:   time.Duration(settings.TimeoutSeconds) * time.Second,
			})
			if err != nil {
				return err
			}

			a.settings = settings
			a.client = c
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to a config file (optional)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVar(&pretty, "pretty", false, "Human-readable log output")

	rootCmd.AddCommand(newFetchCmd(a))
	rootCmd.AddCommand(newEpochsCmd(a))
	rootCmd.AddCommand(newDiversityCmd())

	return rootCmd
}

// filterFlags are the occurrence filter overrides shared by fetch and epochs.
type filterFlags struct {
	country  string
	basis    string
	pageSize int
}

func (f *filterFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.country, "country", "", "ISO country code filter override")
	cmd.Flags().StringVar(&f.basis, "basis", "", "basisOfRecord filter override")
	cmd.Flags().IntVar(&f.pageSize, "page-size", 0, "Records per page override (default 300)")
}

func (f *filterFlags) overrides(cmd *cobra.Command) map[string]string {
	out := map[string]string{}
	if cmd.Flags().Changed("country") {
		out["country"] = f.country
	}
	if cmd.Flags().Changed("basis") {
		out["basisOfRecord"] = f.basis
	}
	if cmd.Flags().Changed("page-size") {
		out["limit"] = fmt.Sprintf("%d", f.pageSize)
	}
	return out
}
