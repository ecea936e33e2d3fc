// Package history provides the "ttreport history" commands.
package history

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/deeemdeeem/tt-report-automation/internal/config"
	hist "github.com/deeemdeeem/tt-report-automation/internal/history"
	"github.com/deeemdeeem/tt-report-automation/internal/output"
)

// NewCommand returns the history subcommand group.
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show decks generated on this machine",
		Long:  "Every deck built by report, batch, serve, or watch is logged to ~/.ttreport/history.jsonl (file names only). Set 'history: false' to turn it off.",
	}

	cmd.AddCommand(newListCmd())
	cmd.AddCommand(newStatsCmd())
	cmd.AddCommand(newClearCmd())

	return cmd
}

func store() (*hist.Store, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	s := cfg.HistoryStore()
	if s == nil {
		return nil, fmt.Errorf("history is turned off — run 'ttreport config set history true'")
	}
	return s, nil
}

func newListCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recent builds, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := store()
			if err != nil {
				return err
			}
			entries, err := s.List(limit)
			if err != nil {
				return err
			}

			jsonOut, _ := cmd.Flags().GetBool("json")
			if jsonOut {
				return output.PrintJSON("history.list", entries)
			}
			if len(entries) == 0 {
				fmt.Println("No builds recorded yet.")
				return nil
			}

			red := color.New(color.FgRed).SprintFunc()
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "TIME\tSOURCE\tWORKBOOK\tRESULT\tTOOK")
			for _, e := range entries {
				result := e.Output
				if !e.OK() {
					result = red("error: " + e.Error)
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
					e.Time.Local().Format("2006-01-02 15:04"), e.Source, e.Workbook, result,
					(time.Duration(e.DurationMs) * time.Millisecond).String())
			}
			return w.Flush()
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Number of entries to show (0 for all)")
	return cmd
}

func newStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Summarize recorded builds",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := store()
			if err != nil {
				return err
			}
			stats, err := s.Summary()
			if err != nil {
				return err
			}

			jsonOut, _ := cmd.Flags().GetBool("json")
			if jsonOut {
				return output.PrintJSON("history.stats", stats)
			}

			output.Heading(os.Stdout, "Build history")
			fmt.Printf("  Builds:   %d (%d failed)\n", stats.Total, stats.Failed)
			if stats.Total == 0 {
				return nil
			}
			fmt.Printf("  Average:  %.0f ms\n", stats.AvgDuration)
			fmt.Printf("  Period:   %s → %s\n", stats.First.Local().Format("2006-01-02"), stats.Last.Local().Format("2006-01-02"))
			for _, src := range []string{hist.SourceCLI, hist.SourceBatch, hist.SourceServe, hist.SourceWatch} {
				if n := stats.BySource[src]; n > 0 {
					fmt.Printf("  %-8s  %d\n", src+":", n)
				}
			}
			return nil
		},
	}
}

func newClearCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Delete all recorded builds",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := store()
			if err != nil {
				return err
			}
			if err := s.Clear(); err != nil {
				return fmt.Errorf("could not clear history: %w", err)
			}
			output.Success(os.Stdout, "History cleared")
			return nil
		},
	}
}
