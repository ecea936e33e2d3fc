//go:build ignore

// This program writes a sample TT worksheet and template into testdata/ for
// the benchmarks and for trying the CLI by hand.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/deeemdeeem/tt-report-automation/internal/fixture"
	"github.com/deeemdeeem/tt-report-automation/internal/formats/xlsx"
)

func main() {
	dir := "testdata"
	if len(os.Args) > 1 {
		dir = os.Args[1]
	}

	worksheet := filepath.Join(dir, "TT_worksheet.xlsx")
	if err := xlsx.WriteFile(fixture.Workbook(), worksheet); err != nil {
		fmt.Fprintf(os.Stderr, "Error generating %s: %v\n", worksheet, err)
		os.Exit(1)
	}

	template := filepath.Join(dir, "TT_report.pptx")
	if err := os.WriteFile(template, fixture.Template(), 0644); err != nil {
		fmt.Fprintf(os.Stderr, "Error generating %s: %v\n", template, err)
		os.Exit(1)
	}

	fmt.Println("Test fixtures generated successfully.")
}
