package pptx

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	pptxformat "github.com/deeemdeeem/tt-report-automation/internal/formats/pptx"
	"github.com/deeemdeeem/tt-report-automation/internal/output"
)

func newReadCommand() *cobra.Command {
	var (
		slideNum int
		plain    bool
	)

	cmd := &cobra.Command{
		Use:   "read <file.pptx>",
		Short: "Extract slide text and tables from a PowerPoint file",
		Long:  "Reads a .pptx file in slide order and outputs its text and table cells. Long output is paged on a terminal.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			jsonFlag, _ := cmd.Flags().GetBool("json")

			filePath := args[0]
			if !strings.HasSuffix(strings.ToLower(filePath), ".pptx") {
				return fmt.Errorf("expected a .pptx file, got %q", filePath)
			}

			pres, err := pptxformat.ReadFile(filePath)
			if err != nil {
				return err
			}

			if slideNum > 0 {
				if slideNum > len(pres.Slides) {
					return fmt.Errorf("slide %d out of range — %s has %d slides", slideNum, filePath, len(pres.Slides))
				}
				pres = &pptxformat.Presentation{Slides: pres.Slides[slideNum-1 : slideNum]}
			}

			if jsonFlag {
				return output.PrintJSON("pptx.read", pres)
			}
			if plain {
				output.Show(pres.PlainText())
				return nil
			}

			output.Show(formatPretty(pres))
			return nil
		},
	}

	cmd.Flags().IntVar(&slideNum, "slide", 0, "Show only this slide (1-based)")
	cmd.Flags().BoolVar(&plain, "plain", false, "Plain text without colors")

	return cmd
}

func formatPretty(pres *pptxformat.Presentation) string {
	heading := color.New(color.Bold, color.FgCyan)
	dim := color.New(color.FgHiBlack)

	var b strings.Builder
	for _, slide := range pres.Slides {
		title := fmt.Sprintf("Slide %d", slide.Number)
		if slide.Title != "" {
			title += ": " + slide.Title
		}
		b.WriteString(heading.Sprint(title) + "\n")

		for _, text := range slide.TextContent {
			if text == slide.Title {
				continue
			}
			fmt.Fprintf(&b, "  %s\n", text)
		}

		for i, table := range slide.Tables {
			b.WriteString(dim.Sprintf("  Table %d (%d rows)", i+1, len(table)) + "\n")
			for _, row := range table {
				fmt.Fprintf(&b, "    %s\n", strings.Join(row, dim.Sprint(" | ")))
			}
		}
		b.WriteString("\n")
	}

	b.WriteString(dim.Sprintf("--- %d slides ---", len(pres.Slides)) + "\n")
	return b.String()
}
