// Package cmd contains all CLI commands for the ttreport binary.
package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/deeemdeeem/tt-report-automation/cmd/batch"
	"github.com/deeemdeeem/tt-report-automation/cmd/completion"
	cmdconfig "github.com/deeemdeeem/tt-report-automation/cmd/config"
	"github.com/deeemdeeem/tt-report-automation/cmd/doctor"
	"github.com/deeemdeeem/tt-report-automation/cmd/excel"
	cmdhistory "github.com/deeemdeeem/tt-report-automation/cmd/history"
	"github.com/deeemdeeem/tt-report-automation/cmd/pptx"
	"github.com/deeemdeeem/tt-report-automation/cmd/report"
	"github.com/deeemdeeem/tt-report-automation/cmd/serve"
	cmdtemplate "github.com/deeemdeeem/tt-report-automation/cmd/template"
	"github.com/deeemdeeem/tt-report-automation/cmd/version"
	cmdwatch "github.com/deeemdeeem/tt-report-automation/cmd/watch"
	"github.com/deeemdeeem/tt-report-automation/internal/config"
)

var (
	jsonOutput bool
	verbose    bool
	noColor    bool
	configFile string
)

// NewRootCommand creates and returns the root cobra command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "ttreport",
		Short: "Build TT report decks from the TT worksheet",
		Long: `TT Report Automation

Fills a PowerPoint template with the values of a TT worksheet (.xlsm/.xlsx):
tokens in slide text become formatted numbers and bound sheets become
slide tables. Run it once, over a batch, from a watched folder, or as a
small upload server.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if noColor {
				color.NoColor = true
			}
			if configFile != "" {
				config.UseFile(configFile)
			}
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if !cfg.Output.Color {
				color.NoColor = true
			}
			return nil
		},
	}

	// Global persistent flags
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output as machine-readable JSON")
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "Print input and output paths")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable ANSI color output")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Config file (default ~/.ttreport/config.yaml)")

	// Register subcommands
	rootCmd.AddCommand(report.NewCommand())
	rootCmd.AddCommand(batch.NewCommand())
	rootCmd.AddCommand(serve.NewCommand())
	rootCmd.AddCommand(cmdwatch.NewCommand())
	rootCmd.AddCommand(cmdtemplate.NewCommand())
	rootCmd.AddCommand(pptx.NewCommand())
	rootCmd.AddCommand(excel.NewCommand())
	rootCmd.AddCommand(cmdhistory.NewCommand())
	rootCmd.AddCommand(cmdconfig.NewCommand())
	rootCmd.AddCommand(doctor.NewCommand())
	rootCmd.AddCommand(completion.NewCommand(rootCmd))
	rootCmd.AddCommand(version.NewCommand())

	return rootCmd
}

// Execute runs the root command and handles any returned errors. SIGINT and
// SIGTERM cancel the command context so servers and watchers shut down cleanly.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rootCmd := NewRootCommand()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}
