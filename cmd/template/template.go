// Package template provides the "ttreport template" commands for inspecting
// the report template and the slide layout.
package template

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/deeemdeeem/tt-report-automation/internal/config"
	"github.com/deeemdeeem/tt-report-automation/internal/output"
	tmpl "github.com/deeemdeeem/tt-report-automation/internal/template"
)

// NewCommand creates the "template" command with all subcommands.
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "template",
		Aliases: []string{"tmpl"},
		Short:   "Inspect the report template and slide layout",
		Long:    "Check that a report template carries the expected tokens and tables, and print the layout that binds sheets to slides.",
	}

	cmd.AddCommand(newCheckCmd())
	cmd.AddCommand(newLayoutCmd())

	return cmd
}

func newCheckCmd() *cobra.Command {
	var (
		templatePath string
		layoutPath   string
		showMissing  bool
	)

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Check a template for tokens and bound tables",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			l, err := cfg.LoadLayout(layoutPath)
			if err != nil {
				return err
			}

			path := config.Pick(templatePath, cfg.Template)
			rep, err := tmpl.CheckFile(path, l)
			if err != nil {
				return err
			}

			jsonOut, _ := cmd.Flags().GetBool("json")
			if jsonOut {
				return output.PrintJSON("template.check", rep)
			}

			output.Heading(os.Stdout, fmt.Sprintf("Template %s (%d slides)", path, rep.Slides))
			fmt.Println()
			output.Success(os.Stdout, "%d token(s) found", len(rep.Found))
			if len(rep.Missing) > 0 {
				output.Warn(os.Stdout, "%d token(s) not used by this template", len(rep.Missing))
				if showMissing {
					fmt.Printf("      %s\n", strings.Join(rep.Missing, " "))
				}
			}
			for _, u := range rep.Split {
				slides := make([]string, len(u.Locations))
				for i, loc := range u.Locations {
					slides[i] = fmt.Sprintf("%d (%s)", loc.Slide, loc.Shape)
				}
				output.Fail(os.Stdout, "%s is split across text runs on slide %s — retype it in one go", u.Token, strings.Join(slides, ", "))
			}

			fmt.Println()
			tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintf(tw, "  SLIDE\tSHEET\tTABLE\tSTATUS\n")
			red := color.New(color.FgRed).SprintFunc()
			green := color.New(color.FgGreen).SprintFunc()
			for _, b := range rep.Bindings {
				size, status := "-", green("ok")
				if b.Rows > 0 {
					size = fmt.Sprintf("%dx%d", b.Rows, b.Cols)
				}
				if b.Problem != "" {
					status = red(b.Problem)
				}
				fmt.Fprintf(tw, "  %d\t%s\t%s\t%s\n", b.Slide+1, b.Sheet, size, status)
			}
			tw.Flush()

			if !rep.OK() {
				return fmt.Errorf("template check failed")
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&templatePath, "template", "t", "", "Report template .pptx (default: config 'template')")
	cmd.Flags().StringVar(&layoutPath, "layout", "", "Layout YAML overriding the built-in bindings and rules")
	cmd.Flags().BoolVar(&showMissing, "missing", false, "List tokens the template does not use")

	return cmd
}

func newLayoutCmd() *cobra.Command {
	var layoutPath string

	cmd := &cobra.Command{
		Use:   "layout",
		Short: "Print the effective layout as YAML",
		Long: `Prints the layout in effect: the built-in one, or the file named by
--layout or the 'layout' config key. Redirect it to a file to start a
custom layout:

  ttreport template layout > layout.yaml
  ttreport config set layout layout.yaml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			l, err := cfg.LoadLayout(layoutPath)
			if err != nil {
				return err
			}

			jsonOut, _ := cmd.Flags().GetBool("json")
			if jsonOut {
				return output.PrintJSON("template.layout", l)
			}

			data, err := l.Marshal()
			if err != nil {
				return err
			}
			_, err = os.Stdout.Write(data)
			return err
		},
	}

	cmd.Flags().StringVar(&layoutPath, "layout", "", "Layout YAML to print instead of the configured one")
	return cmd
}
