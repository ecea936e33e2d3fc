// Package excel provides CLI commands for working with worksheets.
package excel

import "github.com/spf13/cobra"

// NewCommand returns the excel subcommand group.
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "excel",
		Short: "Inspect worksheets and create a blank TT worksheet",
		Long:  "Commands for working with .xlsx and .xlsm workbooks: view the values a deck is built from, or write a skeleton worksheet.",
	}

	cmd.AddCommand(newReadCommand())
	cmd.AddCommand(newInitCommand())

	return cmd
}
