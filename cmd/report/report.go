// Package report provides the "ttreport report" commands for building decks.
package report

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/deeemdeeem/tt-report-automation/internal/config"
	"github.com/deeemdeeem/tt-report-automation/internal/history"
	"github.com/deeemdeeem/tt-report-automation/internal/output"
	"github.com/deeemdeeem/tt-report-automation/internal/progress"
	rpt "github.com/deeemdeeem/tt-report-automation/internal/report"
	"github.com/deeemdeeem/tt-report-automation/internal/tokens"
)

// NewCommand creates the "report" command.
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Generate TT report decks from filled worksheets",
		Long: `Generate a TT report deck by combining a filled TT worksheet (.xlsm or
.xlsx) with the report template (.pptx).

Tokens such as VL10 or MA121 in the template are replaced with formatted
worksheet values, and the bound slides' tables are filled from whole sheets.

Example:
  ttreport report generate -w filled.xlsm
  ttreport report generate -w filled.xlsm -t TT_report.pptx -o march.pptx
  ttreport report tokens -w filled.xlsm`,
	}

	cmd.AddCommand(newGenerateCmd())
	cmd.AddCommand(newTokensCmd())

	return cmd
}

func workbookArg(flag string, args []string) (string, error) {
	if flag == "" && len(args) > 0 {
		flag = args[0]
	}
	if flag == "" {
		return "", fmt.Errorf("--workbook is required — pass the filled TT worksheet (.xlsm or .xlsx)")
	}
	return flag, nil
}

func newGenerateCmd() *cobra.Command {
	var (
		workbookPath string
		templatePath string
		outputPath   string
		layoutPath   string
	)

	cmd := &cobra.Command{
		Use:   "generate [workbook]",
		Short: "Generate a deck from a filled worksheet",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			workbook, err := workbookArg(workbookPath, args)
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

			out := outputPath
			if out == "" {
				out = filepath.Join(cfg.Output.Dir, rpt.DefaultOutputName(time.Now()))
			}
			tmpl := config.Pick(templatePath, cfg.Template)

			verbose, _ := cmd.Flags().GetBool("verbose")
			if verbose {
				fmt.Fprintf(os.Stderr, "workbook: %s\ntemplate: %s\nlayout:   %s\n", workbook, tmpl, config.Pick(config.Pick(layoutPath, cfg.Layout), "(built-in)"))
			}

			jsonOut, _ := cmd.Flags().GetBool("json")
			spinner := progress.NewSpinner("Building "+filepath.Base(out), jsonOut)
			spinner.Start()
			started := time.Now()
			result, err := rpt.Generate(cmd.Context(), rpt.GenerateOptions{
				WorkbookPath: workbook,
				TemplatePath: tmpl,
				OutputPath:   out,
				Layout:       l,
			})
			spinner.Stop()
			slides := 0
			if result != nil {
				slides = result.Slides
			}
			cfg.HistoryStore().Track(history.SourceCLI, workbook, out, slides, started, err)
			if err != nil {
				return err
			}

			if jsonOut {
				return output.PrintJSON("report.generate", result)
			}

			output.Success(os.Stdout, "Report generated → %s", result.OutputPath)
			fmt.Printf("    Slides:   %d\n", result.Slides)
			fmt.Printf("    Tokens:   %d (%d run(s), %d table cell(s) replaced)\n", result.Tokens, result.RunsReplaced, result.CellsReplaced)
			fmt.Printf("    Tables:   %d rendered, %d cell(s) written\n", result.TablesRendered, result.CellsWritten)
			if len(result.SkippedSlides) > 0 {
				skipped := make([]string, len(result.SkippedSlides))
				for i, s := range result.SkippedSlides {
					skipped[i] = fmt.Sprint(s + 1)
				}
				output.Warn(os.Stdout, "Slides without a table (skipped): %s", strings.Join(skipped, ", "))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&workbookPath, "workbook", "w", "", "Filled worksheet (.xlsm or .xlsx)")
	cmd.Flags().StringVarP(&templatePath, "template", "t", "", "Report template .pptx (default: config 'template')")
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Output .pptx path (default: TT_report_<timestamp>.pptx in output.dir)")
	cmd.Flags().StringVar(&layoutPath, "layout", "", "Layout YAML overriding the built-in bindings and rules")

	return cmd
}

// selectTokens returns the entries for names in the order given, or every
// entry when names is empty.
func selectTokens(table *tokens.Table, names []string) ([]tokens.Entry, error) {
	if len(names) == 0 {
		return table.Entries(), nil
	}
	entries := make([]tokens.Entry, 0, len(names))
	for _, name := range names {
		name = strings.ToUpper(strings.TrimSpace(name))
		v, ok := table.Lookup(name)
		if !ok {
			return nil, fmt.Errorf("unknown token %q", name)
		}
		entries = append(entries, tokens.Entry{Token: name, Value: v})
	}
	return entries, nil
}

// truncate shortens s to at most n runes, ending in "..." when cut.
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 3 {
		return string(r[:n])
	}
	return string(r[:n-3]) + "..."
}

func newTokensCmd() *cobra.Command {
	var (
		workbookPath string
		only         []string
	)

	cmd := &cobra.Command{
		Use:   "tokens [workbook]",
		Short: "Preview the token values a worksheet produces",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			workbook, err := workbookArg(workbookPath, args)
			if err != nil {
				return err
			}

			table, err := rpt.PreviewTokens(workbook)
			if err != nil {
				return err
			}
			entries, err := selectTokens(table, only)
			if err != nil {
				return err
			}

			jsonOut, _ := cmd.Flags().GetBool("json")
			if jsonOut {
				return output.PrintJSON("report.tokens", entries)
			}

			dim := color.New(color.FgHiBlack)
			tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintf(tw, "TOKEN\tVALUE\n")
			for _, e := range entries {
				fmt.Fprintf(tw, "%s\t%s\n", e.Token, truncate(strings.ReplaceAll(e.Value, "\n", " "), 60))
			}
			tw.Flush()
			dim.Printf("(%d tokens)\n", len(entries))
			return nil
		},
	}

	cmd.Flags().StringVarP(&workbookPath, "workbook", "w", "", "Filled worksheet (.xlsm or .xlsx)")
	cmd.Flags().StringSliceVarP(&only, "token", "t", nil, "Show only these tokens (repeatable, e.g. -t VL10 -t MA121)")
	return cmd
}
