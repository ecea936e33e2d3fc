package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/viper"
)

func setupTestConfig(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	viper.Reset()
	explicitFile = ""
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(dir)
	setDefaults()

	// Override configDir for tests
	t.Setenv("HOME", dir)
	t.Cleanup(func() {
		viper.Reset()
		explicitFile = ""
	})
	return dir
}

func hasIssue(issues []ConfigIssue, key, severity string) bool {
	for _, issue := range issues {
		if issue.Key == key && issue.Severity == severity {
			return true
		}
	}
	return false
}

func TestLoadDefaults(t *testing.T) {
	setupTestConfig(t)
	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Template != "TT_report.pptx" {
		t.Errorf("default template = %q", cfg.Template)
	}
	if cfg.Server.Addr != ":5000" {
		t.Errorf("default server.addr = %q", cfg.Server.Addr)
	}
	if cfg.Batch.Concurrency != 4 {
		t.Errorf("default batch.concurrency = %d", cfg.Batch.Concurrency)
	}
	if !cfg.Output.Color {
		t.Error("output.color should default to true")
	}
	if cfg.HistoryStore() == nil {
		t.Error("history should default to on")
	}
}

func TestHistoryOff(t *testing.T) {
	dir := setupTestConfig(t)
	t.Setenv("TTREPORT_HISTORY", "false")
	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.HistoryStore() != nil {
		t.Error("TTREPORT_HISTORY=false should disable the history store")
	}

	cfg.History = true
	if got := cfg.HistoryStore().Path; got != filepath.Join(dir, ".ttreport", "history.jsonl") {
		t.Errorf("history path = %q", got)
	}
}

func TestLoadEnvOverride(t *testing.T) {
	setupTestConfig(t)
	t.Setenv("TTREPORT_SERVER_ADDR", ":8080")
	t.Setenv("TTREPORT_TEMPLATE", "/srv/decks/base.pptx")

	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Server.Addr != ":8080" {
		t.Errorf("server.addr = %q, want :8080", cfg.Server.Addr)
	}
	if cfg.Template != "/srv/decks/base.pptx" {
		t.Errorf("template = %q", cfg.Template)
	}
}

func TestLoadExplicitFile(t *testing.T) {
	dir := setupTestConfig(t)
	path := filepath.Join(dir, "custom.yaml")
	if err := os.WriteFile(path, []byte("template: team.pptx\nwatch:\n  debounce_ms: 250\n"), 0600); err != nil {
		t.Fatal(err)
	}
	UseFile(path)

	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Template != "team.pptx" {
		t.Errorf("template = %q", cfg.Template)
	}
	if cfg.Watch.DebounceMS != 250 {
		t.Errorf("watch.debounce_ms = %d", cfg.Watch.DebounceMS)
	}
	if ConfigPath() != path {
		t.Errorf("ConfigPath() = %q, want %q", ConfigPath(), path)
	}
}

func TestLoadExplicitFileMissing(t *testing.T) {
	dir := setupTestConfig(t)
	UseFile(filepath.Join(dir, "nope.yaml"))

	if _, err := Load(); err == nil {
		t.Fatal("expected error for missing explicit config file")
	}
}

func TestValidateMissingTemplate(t *testing.T) {
	dir := setupTestConfig(t)
	viper.Set("template", filepath.Join(dir, "missing.pptx"))

	issues := Validate()
	if !hasIssue(issues, "template", "error") {
		t.Error("expected error about missing template")
	}
	if !hasIssue(issues, "worksheet", "warning") {
		t.Error("expected warning about missing worksheet")
	}
}

func TestValidateTemplateFound(t *testing.T) {
	dir := setupTestConfig(t)
	tmpl := filepath.Join(dir, "TT_report.pptx")
	os.WriteFile(tmpl, []byte("pk"), 0600)
	viper.Set("template", tmpl)

	issues := Validate()
	if hasIssue(issues, "template", "error") {
		t.Error("unexpected template error")
	}
	if !hasIssue(issues, "template", "info") {
		t.Error("expected info about template")
	}
}

func TestValidateBadLayout(t *testing.T) {
	dir := setupTestConfig(t)
	path := filepath.Join(dir, "layout.yaml")
	os.WriteFile(path, []byte("bindings: [not: valid: yaml"), 0600)
	viper.Set("layout", path)

	if !hasIssue(Validate(), "layout", "error") {
		t.Error("expected layout error")
	}
}

func TestValidateConcurrency(t *testing.T) {
	setupTestConfig(t)
	viper.Set("batch.concurrency", 0)

	if !hasIssue(Validate(), "batch.concurrency", "warning") {
		t.Error("expected concurrency warning")
	}
}

func TestToEnv(t *testing.T) {
	setupTestConfig(t)
	viper.Set("template", "deck.pptx")
	viper.Set("server.addr", ":9000")

	env := ToEnv()
	if env["TTREPORT_TEMPLATE"] != "deck.pptx" {
		t.Errorf("TTREPORT_TEMPLATE = %q", env["TTREPORT_TEMPLATE"])
	}
	if env["TTREPORT_SERVER_ADDR"] != ":9000" {
		t.Errorf("TTREPORT_SERVER_ADDR = %q", env["TTREPORT_SERVER_ADDR"])
	}
	if env["TTREPORT_BATCH_CONCURRENCY"] != "4" {
		t.Errorf("TTREPORT_BATCH_CONCURRENCY = %q", env["TTREPORT_BATCH_CONCURRENCY"])
	}
	if _, ok := env["TTREPORT_LAYOUT"]; ok {
		t.Error("empty layout should not be exported")
	}
}

func TestSetAndGet(t *testing.T) {
	dir := setupTestConfig(t)

	if err := Set("output.dir", "/tmp/decks"); err != nil {
		t.Fatal(err)
	}
	if got, err := Get("output.dir"); err != nil || got != "/tmp/decks" {
		t.Errorf("Get(output.dir) = %q, %v; want %q", got, err, "/tmp/decks")
	}
	if _, err := os.Stat(filepath.Join(dir, ".ttreport", "config.yaml")); err != nil {
		t.Errorf("config file not written: %v", err)
	}
}

func TestSetParsesTypes(t *testing.T) {
	dir := setupTestConfig(t)

	if err := Set("batch.concurrency", "8"); err != nil {
		t.Fatal(err)
	}
	if err := Set("output.color", "false"); err != nil {
		t.Fatal(err)
	}
	if err := Set("template", "~/decks/TT_report.pptx"); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Batch.Concurrency != 8 || cfg.Output.Color {
		t.Errorf("typed values not applied: %+v", cfg)
	}
	if want := filepath.Join(dir, "decks", "TT_report.pptx"); cfg.Template != want {
		t.Errorf("template = %q, want %q", cfg.Template, want)
	}
}

func TestSetRejectsBadInput(t *testing.T) {
	setupTestConfig(t)

	tests := []struct {
		key, value, want string
	}{
		{"templte", "x.pptx", "unknown config key"},
		{"batch.concurrency", "zero", "positive whole number"},
		{"batch.concurrency", "0", "positive whole number"},
		{"history", "maybe", "true or false"},
	}
	for _, tt := range tests {
		err := Set(tt.key, tt.value)
		if err == nil || !strings.Contains(err.Error(), tt.want) {
			t.Errorf("Set(%q, %q) = %v, want error containing %q", tt.key, tt.value, err, tt.want)
		}
	}
	if _, err := Get("nope"); err == nil {
		t.Error("Get of an unknown key should fail")
	}
}

func TestSaveConfigExplicitFile(t *testing.T) {
	dir := setupTestConfig(t)
	path := filepath.Join(dir, "custom", "ttreport.yaml")
	UseFile(path)

	if err := Set("server.addr", ":9100"); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("explicit config file not written: %v", err)
	}
	if !strings.Contains(string(data), ":9100") {
		t.Errorf("config file missing server.addr:\n%s", data)
	}
}

func TestShowConfig(t *testing.T) {
	setupTestConfig(t)
	viper.Set("template", "quarterly.pptx")

	output := ShowConfig()
	if !strings.Contains(output, "quarterly.pptx") {
		t.Error("ShowConfig should contain template")
	}
	if !strings.Contains(output, "(built-in)") {
		t.Error("ShowConfig should mark the built-in layout")
	}
}

func TestWizardNonInteractive(t *testing.T) {
	dir := setupTestConfig(t)

	if err := WizardNonInteractive(); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(filepath.Join(dir, ".ttreport", "config.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "TT_report.pptx") {
		t.Errorf("config missing template default:\n%s", data)
	}
}

func TestWizardInteractive(t *testing.T) {
	setupTestConfig(t)

	// template, keep worksheet, output dir, keep addr
	input := strings.NewReader("deck.pptx\n\nout\n\n")
	if err := Wizard(input); err != nil {
		t.Fatal(err)
	}
	if viper.GetString("template") != "deck.pptx" {
		t.Errorf("template = %q", viper.GetString("template"))
	}
	if viper.GetString("worksheet") != "TT_worksheet.xlsm" {
		t.Errorf("worksheet = %q", viper.GetString("worksheet"))
	}
	if viper.GetString("output.dir") != "out" {
		t.Errorf("output.dir = %q", viper.GetString("output.dir"))
	}
}

func TestConfigPath(t *testing.T) {
	setupTestConfig(t)
	path := ConfigPath()
	if !strings.Contains(path, ".ttreport") || !strings.Contains(path, "config.yaml") {
		t.Errorf("unexpected path: %q", path)
	}
}

func TestResetConfig(t *testing.T) {
	setupTestConfig(t)

	viper.Set("server.addr", ":7000")
	if err := SaveConfig(); err != nil {
		t.Fatal(err)
	}

	if err := ResetConfig(); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(ConfigPath()); !os.IsNotExist(err) {
		t.Error("config file should be removed")
	}
	if viper.GetString("server.addr") != ":5000" {
		t.Errorf("server.addr should reset to default, got %q", viper.GetString("server.addr"))
	}
}
