// Package pptx provides CLI commands for working with .pptx files.
package pptx

import "github.com/spf13/cobra"

// NewCommand returns the pptx subcommand group.
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pptx",
		Short: "Inspect PowerPoint presentations (.pptx)",
		Long:  "Commands for working with .pptx files, such as checking the text and tables of a generated deck.",
	}

	cmd.AddCommand(newReadCommand())

	return cmd
}
