package doctor

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/deeemdeeem/tt-report-automation/internal/config"
	"github.com/deeemdeeem/tt-report-automation/internal/fixture"
)

func statusOf(checks []Check, name string) string {
	for _, c := range checks {
		if c.Name == name {
			return c.Status
		}
	}
	return ""
}

func TestRunChecksWithFixture(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("HOME", dir)

	templatePath := filepath.Join(dir, "TT_report.pptx")
	if err := os.WriteFile(templatePath, fixture.Template(), 0644); err != nil {
		t.Fatal(err)
	}

	cfg := &config.Config{Template: templatePath, Worksheet: filepath.Join(dir, "TT_worksheet.xlsm")}
	cfg.Output.Dir = dir

	checks := runChecks(cfg)

	for name, want := range map[string]string{
		"Go Runtime":       "ok",
		"Config File":      "warning",
		"Layout":           "ok",
		"Template":         "ok",
		"Worksheet":        "warning",
		"Output Directory": "ok",
	} {
		if got := statusOf(checks, name); got != want {
			t.Errorf("%s: status %q, want %q", name, got, want)
		}
	}
	if got := statusOf(checks, "Template Tokens"); got == "error" || got == "" {
		t.Errorf("Template Tokens: status %q", got)
	}
}

func TestRunChecksMissingTemplate(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("HOME", dir)

	cfg := &config.Config{Template: filepath.Join(dir, "nope.pptx")}
	cfg.Output.Dir = filepath.Join(dir, "missing")

	checks := runChecks(cfg)
	if got := statusOf(checks, "Template"); got != "error" {
		t.Errorf("Template: status %q, want error", got)
	}
	if got := statusOf(checks, "Template Tokens"); got != "" {
		t.Errorf("token check should be skipped without a template, got %q", got)
	}
	if got := statusOf(checks, "Output Directory"); got != "error" {
		t.Errorf("Output Directory: status %q, want error", got)
	}
}

func TestRunChecksBadLayout(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("HOME", dir)

	layoutPath := filepath.Join(dir, "layout.yaml")
	if err := os.WriteFile(layoutPath, []byte("bindings: [\n"), 0644); err != nil {
		t.Fatal(err)
	}
	cfg := &config.Config{Layout: layoutPath}
	cfg.Output.Dir = dir

	checks := runChecks(cfg)
	if got := statusOf(checks, "Layout"); got != "error" {
		t.Errorf("Layout: status %q, want error", got)
	}
	if got := statusOf(checks, "Font"); got != "" {
		t.Errorf("font check should be skipped without a layout, got %q", got)
	}
}
