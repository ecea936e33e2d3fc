package excel

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/deeemdeeem/tt-report-automation/internal/formats/xlsx"
	"github.com/deeemdeeem/tt-report-automation/internal/output"
)

func newReadCommand() *cobra.Command {
	var sheetName string
	var csvOutput bool

	cmd := &cobra.Command{
		Use:   "read <file.xlsm|file.xlsx>",
		Short: "Show the data of a worksheet",
		Long:  "Reads an .xlsm or .xlsx file and outputs its cell values as read for deck generation (unformatted). Supports JSON, CSV, and table output. Pass '-' to read from stdin.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			jsonFlag, _ := cmd.Flags().GetBool("json")

			var names []string
			if sheetName != "" {
				names = []string{sheetName}
			}

			var wb *xlsx.Workbook
			var err error

			if len(args) == 0 || args[0] == "-" {
				data, readErr := io.ReadAll(os.Stdin)
				if readErr != nil {
					return fmt.Errorf("could not read from stdin: %w", readErr)
				}
				if len(data) == 0 {
					return fmt.Errorf("no input provided — pass a worksheet path or pipe data to stdin")
				}
				wb, err = xlsx.ReadBytes(data, names...)
			} else {
				filePath := args[0]
				switch strings.ToLower(filepath.Ext(filePath)) {
				case ".xlsx", ".xlsm":
				default:
					return fmt.Errorf("expected an .xlsm or .xlsx file, got %q — use 'ttreport excel read <file.xlsm>'", filePath)
				}
				wb, err = xlsx.ReadFile(filePath, names...)
			}
			if err != nil {
				return err
			}

			if jsonFlag {
				return output.PrintJSON("excel.read", wb.Sheets)
			}
			if csvOutput {
				for _, sheet := range wb.Sheets {
					if len(wb.Sheets) > 1 {
						fmt.Fprintf(os.Stderr, "--- %s ---\n", sheet.Name)
					}
					fmt.Print(sheet.ToCSV())
				}
				return nil
			}

			output.Show(formatPretty(wb))
			return nil
		},
	}

	cmd.Flags().StringVar(&sheetName, "sheet", "", "Read only the named sheet")
	cmd.Flags().BoolVar(&csvOutput, "csv", false, "Output as CSV")

	return cmd
}

func formatPretty(wb *xlsx.Workbook) string {
	headerStyle := color.New(color.Bold, color.FgCyan)
	bold := color.New(color.Bold)
	dim := color.New(color.FgHiBlack)

	var b strings.Builder
	for _, sheet := range wb.Sheets {
		b.WriteString(headerStyle.Sprintf("Sheet: %s", sheet.Name) + "\n")

		if len(sheet.Columns) == 0 && len(sheet.Rows) == 0 {
			b.WriteString(dim.Sprint("  (empty)") + "\n\n")
			continue
		}

		rows := make([][]string, len(sheet.Rows))
		for i, row := range sheet.Rows {
			rows[i] = make([]string, len(row))
			for j, cell := range row {
				rows[i][j] = cell.String()
			}
		}

		widths := make([]int, sheet.Width())
		measure := func(row []string) {
			for j, cell := range row {
				if len(cell) > widths[j] {
					widths[j] = len(cell)
				}
			}
		}
		measure(sheet.Columns)
		for _, row := range rows {
			measure(row)
		}
		for i := range widths {
			widths[i] = min(max(widths[i], 3), 40)
		}

		writeRow(&b, sheet.Columns, widths, bold)
		b.WriteString(dim.Sprint("  "))
		for j, w := range widths {
			if j > 0 {
				b.WriteString(dim.Sprint("+-"))
			}
			b.WriteString(dim.Sprint(strings.Repeat("-", w+1)))
		}
		b.WriteString("\n")
		for _, row := range rows {
			writeRow(&b, row, widths, nil)
		}
		b.WriteString(dim.Sprintf("  (%d rows)", len(sheet.Rows)) + "\n\n")
	}
	return b.String()
}

func writeRow(b *strings.Builder, row []string, widths []int, style *color.Color) {
	b.WriteString("  ")
	for j := range widths {
		if j > 0 {
			b.WriteString("| ")
		}
		cell := ""
		if j < len(row) {
			cell = row[j]
		}
		if len(cell) > widths[j] {
			cell = cell[:widths[j]-1] + "~"
		}
		padded := cell + strings.Repeat(" ", widths[j]-len(cell)+1)
		if style != nil {
			padded = style.Sprint(padded)
		}
		b.WriteString(padded)
	}
	b.WriteString("\n")
}
