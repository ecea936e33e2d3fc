// Package tests provides smoke tests that validate every ttreport command
// exists, runs, and exits cleanly without panicking.
// These tests run the compiled binary, so they are integration tests.
package tests

import (
	"encoding/json"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/deeemdeeem/tt-report-automation/internal/fixture"
)

// ttreportBin returns the path to the compiled ttreport binary.
func ttreportBin(t *testing.T) string {
	t.Helper()
	_, filename, _, _ := runtime.Caller(0)
	root := filepath.Join(filepath.Dir(filename), "..")
	bin := filepath.Join(root, "bin", "ttreport")
	if runtime.GOOS == "windows" {
		bin += ".exe"
	}
	if _, err := os.Stat(bin); os.IsNotExist(err) {
		t.Fatalf("ttreport binary not found at %s — run 'make build' first", bin)
	}
	return bin
}

// run executes ttreport with args under a throwaway HOME and returns
// stdout, stderr, and exit code.
func run(t *testing.T, args ...string) (string, string, int) {
	t.Helper()
	cmd := exec.Command(ttreportBin(t), args...)
	cmd.Env = append(os.Environ(), "HOME="+t.TempDir())
	var stdout, stderr strings.Builder
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()
	code := 0
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			code = exitErr.ExitCode()
		}
	}
	return stdout.String(), stderr.String(), code
}

func writeTemplate(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "TT_report.pptx")
	if err := os.WriteFile(path, fixture.Template(), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

// TestAllCommandsExist validates that every command appears in --help.
func TestAllCommandsExist(t *testing.T) {
	commands := []string{
		"report", "batch", "serve", "watch", "template",
		"pptx", "excel", "history", "config", "completion", "doctor", "version",
	}

	stdout, _, code := run(t, "--help")
	if code != 0 {
		t.Fatalf("ttreport --help exited with code %d", code)
	}
	for _, cmd := range commands {
		if !strings.Contains(stdout, cmd) {
			t.Errorf("command %q not found in ttreport --help output", cmd)
		}
	}
}

// TestSkeletonThenGenerate validates the excel init + report generate flow.
func TestSkeletonThenGenerate(t *testing.T) {
	tmp := t.TempDir()
	tmpl := writeTemplate(t, tmp)
	worksheet := filepath.Join(tmp, "TT_worksheet.xlsx")
	out := filepath.Join(tmp, "deck.pptx")

	if _, stderr, code := run(t, "excel", "init", worksheet); code != 0 {
		t.Fatalf("excel init failed (code %d): %s", code, stderr)
	}

	stdout, stderr, code := run(t, "report", "generate", "-w", worksheet, "-t", tmpl, "-o", out, "--json")
	if code != 0 {
		t.Fatalf("report generate failed (code %d): %s", code, stderr)
	}

	var result struct {
		OK   bool `json:"ok"`
		Data struct {
			OutputPath string `json:"outputPath"`
			Slides     int    `json:"slides"`
			Tokens     int    `json:"tokens"`
		} `json:"data"`
	}
	if err := json.Unmarshal([]byte(stdout), &result); err != nil {
		t.Fatalf("report generate --json output is not valid JSON: %v\n%s", err, stdout)
	}
	if !result.OK || result.Data.OutputPath != out {
		t.Errorf("unexpected result: %+v", result)
	}
	if result.Data.Slides != fixture.TemplateSlides {
		t.Errorf("expected %d slides, got %d", fixture.TemplateSlides, result.Data.Slides)
	}

	stdout, _, code = run(t, "pptx", "read", out, "--slide", "1", "--plain")
	if code != 0 {
		t.Fatal("pptx read of the generated deck should exit 0")
	}
	if strings.Contains(stdout, "VL10") {
		t.Errorf("token VL10 left in generated deck:\n%s", stdout)
	}
}

// TestGenerateMissingSheet validates that a workbook without the required
// sheets fails with a non-zero exit and a message naming the sheet.
func TestGenerateMissingSheet(t *testing.T) {
	tmp := t.TempDir()
	tmpl := writeTemplate(t, tmp)
	_, stderr, code := run(t, "report", "generate", "-w", tmpl, "-t", tmpl, "-o", filepath.Join(tmp, "x.pptx"))
	if code == 0 {
		t.Fatal("generating from a non-workbook should fail")
	}
	if !strings.Contains(stderr, "Error:") {
		t.Errorf("expected an error message, got: %s", stderr)
	}
}

// TestTemplateCheck validates template check on the sample template.
func TestTemplateCheck(t *testing.T) {
	tmpl := writeTemplate(t, t.TempDir())
	stdout, stderr, code := run(t, "template", "check", "-t", tmpl, "--json")
	if code != 0 {
		t.Fatalf("template check failed (code %d): %s", code, stderr)
	}
	if !json.Valid([]byte(stdout)) {
		t.Errorf("template check --json output is not valid JSON: %s", stdout)
	}
}

// TestVersionOutput validates version command format.
func TestVersionOutput(t *testing.T) {
	stdout, _, code := run(t, "version")
	if code != 0 {
		t.Fatal("ttreport version should exit 0")
	}
	if !strings.Contains(stdout, "ttreport") {
		t.Errorf("version output should contain 'ttreport', got: %s", stdout)
	}
}

// TestDoctorRuns validates doctor command runs without panic.
func TestDoctorRuns(t *testing.T) {
	_, _, code := run(t, "doctor")
	if code > 2 {
		t.Errorf("doctor should exit 0, 1, or 2, got: %d", code)
	}
}

// TestWatchStatusNotRunning validates watch status when no watcher is running.
func TestWatchStatusNotRunning(t *testing.T) {
	stdout, _, _ := run(t, "watch", "status")
	if strings.Contains(stdout, "panic") {
		t.Error("watch status should not panic")
	}
}

// TestConfigShowRuns validates config show does not panic.
func TestConfigShowRuns(t *testing.T) {
	_, _, code := run(t, "config", "show")
	if code > 1 {
		t.Errorf("config show should exit 0 or 1, got %d", code)
	}
}

// TestAllCommandsHaveHelp validates every command accepts --help.
func TestAllCommandsHaveHelp(t *testing.T) {
	commandPaths := [][]string{
		{"report", "generate"}, {"report", "tokens"},
		{"batch"}, {"serve"},
		{"watch", "start"}, {"watch", "status"}, {"watch", "stop"},
		{"template", "check"}, {"template", "layout"},
		{"pptx", "read"},
		{"excel", "read"}, {"excel", "init"},
		{"history", "list"}, {"history", "stats"}, {"history", "clear"},
		{"config", "init"}, {"config", "show"}, {"config", "set"}, {"config", "get"},
		{"config", "reset"}, {"config", "path"}, {"config", "validate"}, {"config", "env"},
		{"completion", "bash"}, {"completion", "zsh"},
		{"doctor"}, {"version"},
	}

	for _, path := range commandPaths {
		args := append(path, "--help")
		t.Run(strings.Join(path, "_"), func(t *testing.T) {
			_, _, code := run(t, args...)
			if code != 0 {
				t.Errorf("ttreport %s --help should exit 0", strings.Join(path, " "))
			}
		})
	}
}
