// Package batch provides the command that builds decks for many worksheets.
package batch

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/deeemdeeem/tt-report-automation/internal/config"
	"github.com/deeemdeeem/tt-report-automation/internal/history"
	"github.com/deeemdeeem/tt-report-automation/internal/output"
	"github.com/deeemdeeem/tt-report-automation/internal/progress"
	"github.com/deeemdeeem/tt-report-automation/internal/report"
)

// NewCommand returns the batch subcommand.
func NewCommand() *cobra.Command {
	var (
		templatePath string
		layoutPath   string
		outDir       string
		concurrency  int
	)

	cmd := &cobra.Command{
		Use:   "batch <workbook|glob>...",
		Short: "Generate one deck per worksheet",
		Long: `Builds a deck for every worksheet given, in parallel.

Arguments may be file paths or glob patterns ('inbox/*.xlsm'). Each deck is
written as <worksheet name>_report.pptx in --out-dir. On error, the batch
logs the failure and continues with the next worksheet.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			jsonFlag, _ := cmd.Flags().GetBool("json")

			files, err := expand(args)
			if err != nil {
				return err
			}

			cfg, err := config.Load()
			if err != nil {
				return err
			}
			l, err := cfg.LoadLayout(layoutPath)
			if err != nil {
				return err
			}
			if concurrency <= 0 {
				concurrency = cfg.Batch.Concurrency
			}

			bar := progress.New("Building decks", len(files), jsonFlag)
			store := cfg.HistoryStore()

			results, err := report.Batch(cmd.Context(), files, report.BatchOptions{
				TemplatePath: config.Pick(templatePath, cfg.Template),
				OutDir:       config.Pick(outDir, cfg.Output.Dir),
				Layout:       l,
				Concurrency:  concurrency,
				Progress: func(done, total int, item report.BatchItem) {
					entry := history.Entry{
						Time:       time.Now().Add(-item.Took),
						Source:     history.SourceBatch,
						Workbook:   item.Workbook,
						Output:     item.Output,
						DurationMs: item.Took.Milliseconds(),
						Error:      item.Error,
					}
					if item.Summary != nil {
						entry.Slides = item.Summary.Slides
					}
					_ = store.Record(entry)

					if item.Status != "ok" {
						bar.Fail()
					}
					bar.Set(done, filepath.Base(item.Workbook))
				},
			})
			if err != nil {
				return err
			}
			bar.Finish(fmt.Sprintf("Built %d of %d deck(s)", len(files)-bar.Failed, len(files)))

			if jsonFlag {
				return output.PrintJSON("batch", results)
			}

			failed := 0
			fmt.Println()
			for _, r := range results {
				if r.Status == "ok" {
					output.Success(os.Stdout, "%s → %s", r.Workbook, r.Output)
				} else {
					failed++
					output.Fail(os.Stdout, "%s: %s", r.Workbook, r.Error)
				}
			}
			fmt.Printf("\nProcessed %d files. %d succeeded, %d failed.\n", len(results), len(results)-failed, failed)
			if failed > 0 {
				return fmt.Errorf("%d of %d worksheet(s) failed", failed, len(results))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&templatePath, "template", "t", "", "Report template .pptx (default: config 'template')")
	cmd.Flags().StringVar(&layoutPath, "layout", "", "Layout YAML overriding the built-in bindings and rules")
	cmd.Flags().StringVar(&outDir, "out-dir", "", "Output directory for decks (default: config 'output.dir')")
	cmd.Flags().IntVar(&concurrency, "concurrency", 0, "Number of parallel workers (default: config 'batch.concurrency')")

	return cmd
}

// expand resolves globs and drops duplicates, keeping first-seen order.
func expand(args []string) ([]string, error) {
	var files []string
	seen := make(map[string]bool)

	for _, arg := range args {
		matches, err := filepath.Glob(arg)
		if err != nil {
			return nil, fmt.Errorf("invalid glob pattern %q: %w", arg, err)
		}
		if matches == nil {
			matches = []string{arg}
		}
		for _, m := range matches {
			if !seen[m] {
				seen[m] = true
				files = append(files, m)
			}
		}
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no worksheets matched %v", args)
	}
	return files, nil
}
