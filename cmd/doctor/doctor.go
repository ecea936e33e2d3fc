// Package doctor provides the "ttreport doctor" command for checking that a
// deck can be built with the current configuration.
package doctor

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/deeemdeeem/tt-report-automation/internal/config"
	"github.com/deeemdeeem/tt-report-automation/internal/formats/pptx"
	"github.com/deeemdeeem/tt-report-automation/internal/layout"
	"github.com/deeemdeeem/tt-report-automation/internal/output"
	"github.com/deeemdeeem/tt-report-automation/internal/template"
	"github.com/deeemdeeem/tt-report-automation/internal/tokens"
)

// Check represents a single health check result.
type Check struct {
	Name    string `json:"name"`
	Status  string `json:"status"` // "ok", "warning", "error"
	Message string `json:"message"`
}

// NewCommand creates the "doctor" command.
func NewCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check configuration, template, and worksheet",
		Long:  "Run diagnostic checks to verify a TT deck can be generated with the current configuration.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			checks := runChecks(cfg)

			jsonOut, _ := cmd.Flags().GetBool("json")
			if jsonOut {
				return output.PrintJSON("doctor", checks)
			}

			green := color.New(color.FgGreen).SprintFunc()
			yellow := color.New(color.FgYellow).SprintFunc()
			red := color.New(color.FgRed).SprintFunc()

			fmt.Println("TT Report Doctor")
			fmt.Println("================")
			fmt.Println()

			okCount, warnCount, errCount := 0, 0, 0
			for _, c := range checks {
				var icon string
				switch c.Status {
				case "ok":
					icon = green("✓")
					okCount++
				case "warning":
					icon = yellow("!")
					warnCount++
				case "error":
					icon = red("✗")
					errCount++
				}
				fmt.Printf("  %s %s: %s\n", icon, c.Name, c.Message)
			}

			fmt.Println()
			fmt.Printf("  %d passed, %d warnings, %d errors\n", okCount, warnCount, errCount)

			if errCount > 0 {
				return fmt.Errorf("%d check(s) failed", errCount)
			}
			return nil
		},
	}
}

func runChecks(cfg *config.Config) []Check {
	var checks []Check

	checks = append(checks, Check{
		Name:    "Go Runtime",
		Status:  "ok",
		Message: fmt.Sprintf("%s %s/%s", runtime.Version(), runtime.GOOS, runtime.GOARCH),
	})

	path := config.ConfigPath()
	if _, err := os.Stat(path); err == nil {
		checks = append(checks, Check{Name: "Config File", Status: "ok", Message: path})
	} else {
		checks = append(checks, Check{
			Name:    "Config File",
			Status:  "warning",
			Message: "Not found — run 'ttreport config init' (defaults are in use)",
		})
	}

	l, err := cfg.LoadLayout("")
	if err != nil {
		checks = append(checks, Check{Name: "Layout", Status: "error", Message: err.Error()})
		l = nil
	} else {
		source := "built-in"
		if cfg.Layout != "" {
			source = cfg.Layout
		}
		checks = append(checks, Check{
			Name:    "Layout",
			Status:  "ok",
			Message: fmt.Sprintf("%s (%d table bindings)", source, len(l.Bindings)),
		})
	}

	checks = append(checks, templateChecks(cfg.Template, l)...)

	if info, err := os.Stat(cfg.Worksheet); err == nil && !info.IsDir() {
		checks = append(checks, Check{Name: "Worksheet", Status: "ok", Message: cfg.Worksheet})
	} else {
		checks = append(checks, Check{
			Name:    "Worksheet",
			Status:  "warning",
			Message: fmt.Sprintf("%s not found — the server's download link will return 404", cfg.Worksheet),
		})
	}

	if info, err := os.Stat(cfg.Output.Dir); err == nil && info.IsDir() {
		checks = append(checks, Check{Name: "Output Directory", Status: "ok", Message: cfg.Output.Dir})
	} else {
		checks = append(checks, Check{
			Name:    "Output Directory",
			Status:  "error",
			Message: fmt.Sprintf("%s does not exist", cfg.Output.Dir),
		})
	}

	if l != nil {
		checks = append(checks, fontCheck(l.Font.Face))
	}

	return checks
}

func templateChecks(path string, l *layout.Layout) []Check {
	d, err := pptx.OpenFile(path)
	if err != nil {
		return []Check{{
			Name:    "Template",
			Status:  "error",
			Message: fmt.Sprintf("%v — set 'template' with 'ttreport config set template <file.pptx>'", err),
		}}
	}
	checks := []Check{{
		Name:    "Template",
		Status:  "ok",
		Message: fmt.Sprintf("%s (%d slides)", filepath.Base(path), d.Len()),
	}}
	if l == nil {
		return checks
	}

	rep := template.Check(d, tokens.Vocabulary(), l)
	switch {
	case rep.OK() && len(rep.Missing) == 0:
		checks = append(checks, Check{
			Name:    "Template Tokens",
			Status:  "ok",
			Message: fmt.Sprintf("%d tokens found, all table bindings resolve", len(rep.Found)),
		})
	case rep.OK():
		checks = append(checks, Check{
			Name:    "Template Tokens",
			Status:  "warning",
			Message: fmt.Sprintf("%d tokens not used by the template — see 'ttreport template check --missing'", len(rep.Missing)),
		})
	default:
		checks = append(checks, Check{
			Name:    "Template Tokens",
			Status:  "error",
			Message: "split tokens or broken table bindings — run 'ttreport template check'",
		})
	}
	return checks
}

func fontCheck(face string) Check {
	if face == "" {
		return Check{Name: "Font", Status: "ok", Message: "layout keeps template fonts"}
	}
	fcList, err := exec.LookPath("fc-list")
	if err != nil {
		return Check{Name: "Font", Status: "ok", Message: fmt.Sprintf("%s (not verified, fc-list not in PATH)", face)}
	}
	out, err := exec.Command(fcList, ":", "family").Output()
	if err == nil && strings.Contains(strings.ToLower(string(out)), strings.ToLower(face)) {
		return Check{Name: "Font", Status: "ok", Message: face + " installed"}
	}
	return Check{
		Name:    "Font",
		Status:  "warning",
		Message: fmt.Sprintf("%s not installed locally — decks still open, viewers substitute the face", face),
	}
}
