package excel

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/deeemdeeem/tt-report-automation/internal/config"
	"github.com/deeemdeeem/tt-report-automation/internal/formats/xlsx"
	"github.com/deeemdeeem/tt-report-automation/internal/output"
	"github.com/deeemdeeem/tt-report-automation/internal/report"
)

func newInitCommand() *cobra.Command {
	var (
		layoutPath string
		force      bool
	)

	cmd := &cobra.Command{
		Use:   "init <file.xlsx>",
		Short: "Write a skeleton TT worksheet",
		Long: `Writes a workbook with every sheet a deck build reads, sized so that every
token cell exists. Numeric token cells hold 0 and text token cells hold the
token name. The skeleton has no macros; use it to test a template or as a
starting point for a new worksheet.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			if strings.ToLower(filepath.Ext(path)) != ".xlsx" {
				return fmt.Errorf("skeleton worksheets are written as .xlsx, got %q", path)
			}
			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("%s already exists — pass --force to overwrite", path)
			}

			cfg, err := config.Load()
			if err != nil {
				return err
			}
			l, err := cfg.LoadLayout(layoutPath)
			if err != nil {
				return err
			}

			wb := report.Skeleton(l)
			if err := xlsx.WriteFile(wb, path); err != nil {
				return err
			}

			jsonOut, _ := cmd.Flags().GetBool("json")
			if jsonOut {
				return output.PrintJSON("excel.init", map[string]any{"file": path, "sheets": wb.SheetNames()})
			}
			output.Success(os.Stdout, "Wrote %s (%d sheets)", path, len(wb.Sheets))
			for _, name := range wb.SheetNames() {
				fmt.Printf("    %s\n", name)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&layoutPath, "layout", "", "Layout YAML whose bound sheets are included")
	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing file")
	return cmd
}
