package config

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/viper"

	"github.com/deeemdeeem/tt-report-automation/internal/layout"
)

// ConfigIssue represents a validation finding.
type ConfigIssue struct {
	Key      string `json:"key"`
	Severity string `json:"severity"` // "error", "warning", "info"
	Message  string `json:"message"`
	Fix      string `json:"fix,omitempty"`
}

// Wizard runs the interactive setup. Blank answers keep the current value.
// If reader is nil, reads from os.Stdin.
func Wizard(reader io.Reader) error {
	if reader == nil {
		reader = os.Stdin
	}
	scanner := bufio.NewScanner(reader)
	setDefaults()

	fmt.Println("ttreport setup")
	fmt.Println(strings.Repeat("-", 48))
	fmt.Println()

	steps := []struct {
		key    string
		prompt string
	}{
		{"template", "Report template (.pptx)"},
		{"worksheet", "Blank worksheet served for download (.xlsm)"},
		{"output.dir", "Directory for generated decks"},
		{"server.addr", "HTTP listen address"},
	}
	for i, step := range steps {
		fmt.Printf("Step %d/%d: %s [%s]: ", i+1, len(steps), step.prompt, viper.GetString(step.key))
		if !scanner.Scan() {
			fmt.Println()
			break
		}
		if answer := strings.TrimSpace(scanner.Text()); answer != "" {
			viper.Set(step.key, answer)
		}
	}
	fmt.Println()

	if err := SaveConfig(); err != nil {
		return fmt.Errorf("could not save config: %w", err)
	}

	fmt.Println("ttreport is ready!")
	fmt.Println()
	fmt.Println("Quick start:")
	fmt.Println("  ttreport report generate -w filled.xlsm")
	fmt.Println("  ttreport serve")
	fmt.Println()
	fmt.Printf("Config file: %s\n", ConfigPath())
	return nil
}

// WizardNonInteractive writes the defaults without prompting.
func WizardNonInteractive() error {
	setDefaults()
	for _, k := range []string{"template", "worksheet", "output.dir", "server.addr"} {
		viper.Set(k, viper.Get(k))
	}
	return SaveConfig()
}

// Validate checks config values and returns a list of issues.
func Validate() []ConfigIssue {
	var issues []ConfigIssue

	tmpl := viper.GetString("template")
	if _, err := os.Stat(tmpl); err != nil {
		issues = append(issues, ConfigIssue{
			Key:      "template",
			Severity: "error",
			Message:  fmt.Sprintf("report template %q not found — decks cannot be generated", tmpl),
			Fix:      "ttreport config set template /path/to/TT_report.pptx",
		})
	} else {
		issues = append(issues, ConfigIssue{Key: "template", Severity: "info", Message: "report template found"})
	}

	ws := viper.GetString("worksheet")
	if _, err := os.Stat(ws); err != nil {
		issues = append(issues, ConfigIssue{
			Key:      "worksheet",
			Severity: "warning",
			Message:  fmt.Sprintf("worksheet %q not found — /download-template will return 404", ws),
			Fix:      "ttreport excel init TT_worksheet.xlsx  or  ttreport config set worksheet <path>",
		})
	}

	if path := viper.GetString("layout"); path != "" {
		if _, err := layout.Load(path); err != nil {
			issues = append(issues, ConfigIssue{
				Key:      "layout",
				Severity: "error",
				Message:  err.Error(),
				Fix:      "ttreport template layout > layout.yaml  (start from the built-in layout)",
			})
		}
	}

	if dir := viper.GetString("output.dir"); dir != "" {
		if info, err := os.Stat(dir); err != nil || !info.IsDir() {
			issues = append(issues, ConfigIssue{
				Key:      "output.dir",
				Severity: "warning",
				Message:  fmt.Sprintf("output directory %q does not exist — report generate will create it", dir),
				Fix:      "mkdir -p " + dir,
			})
		}
	}

	if viper.GetString("server.addr") == "" {
		issues = append(issues, ConfigIssue{
			Key:      "server.addr",
			Severity: "error",
			Message:  "server address is empty",
			Fix:      "ttreport config set server.addr :5000",
		})
	}

	if n := viper.GetInt("batch.concurrency"); n < 1 {
		issues = append(issues, ConfigIssue{
			Key:      "batch.concurrency",
			Severity: "warning",
			Message:  fmt.Sprintf("batch.concurrency is %d; batches will run one file at a time", n),
			Fix:      "ttreport config set batch.concurrency 4",
		})
	}

	return issues
}

// keyKinds lists every settable key and how its value is parsed.
var keyKinds = map[string]string{
	"template":             "path",
	"worksheet":            "path",
	"layout":               "path",
	"output.dir":           "path",
	"output.color":         "bool",
	"server.addr":          "string",
	"server.max_upload_mb": "int",
	"watch.debounce_ms":    "int",
	"batch.concurrency":    "int",
	"history":              "bool",
}

// Keys returns the settable keys in sorted order.
func Keys() []string {
	keys := make([]string, 0, len(keyKinds))
	for k := range keyKinds {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// ToEnv returns all config values as a map of env var name -> value.
func ToEnv() map[string]string {
	env := make(map[string]string)
	for _, key := range Keys() {
		if v := viper.GetString(key); v != "" {
			env["TTREPORT_"+strings.ToUpper(strings.ReplaceAll(key, ".", "_"))] = v
		}
	}
	return env
}

// Set parses value for key and saves the config to disk. Unknown keys and
// values of the wrong type are rejected.
func Set(key, value string) error {
	kind, ok := keyKinds[key]
	if !ok {
		return fmt.Errorf("unknown config key %q — valid keys: %s", key, strings.Join(Keys(), ", "))
	}

	var v any = value
	switch kind {
	case "bool":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("%s expects true or false, got %q", key, value)
		}
		v = b
	case "int":
		n, err := strconv.Atoi(value)
		if err != nil || n < 1 {
			return fmt.Errorf("%s expects a positive whole number, got %q", key, value)
		}
		v = n
	case "path":
		if value != "" && strings.HasPrefix(value, "~/") {
			if home, err := os.UserHomeDir(); err == nil {
				v = filepath.Join(home, value[2:])
			}
		}
	}

	viper.Set(key, v)
	return SaveConfig()
}

// Get retrieves a config value. Unknown keys are an error.
func Get(key string) (string, error) {
	if _, ok := keyKinds[key]; !ok {
		return "", fmt.Errorf("unknown config key %q — valid keys: %s", key, strings.Join(Keys(), ", "))
	}
	return viper.GetString(key), nil
}

// ResetConfig deletes the config file and restores defaults.
func ResetConfig() error {
	path := ConfigPath()
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("could not delete config: %w", err)
	}
	viper.Reset()
	setDefaults()
	return nil
}

// SaveConfig writes the current config to ConfigPath.
func SaveConfig() error {
	path := ConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("could not create config directory: %w", err)
	}

	if err := viper.WriteConfigAs(path); err != nil {
		return fmt.Errorf("could not write config: %w", err)
	}
	return nil
}

// ConfigPath returns the path to the config file.
func ConfigPath() string {
	if explicitFile != "" {
		return explicitFile
	}
	return filepath.Join(configDir(), "config.yaml")
}

// ShowConfig returns a formatted string of the current configuration.
func ShowConfig() string {
	var sb strings.Builder

	layoutPath := viper.GetString("layout")
	if layoutPath == "" {
		layoutPath = "(built-in)"
	}

	fmt.Fprintf(&sb, "Config: %s\n\n", ConfigPath())

	sb.WriteString("Report\n")
	fmt.Fprintf(&sb, "  template:   %s\n", viper.GetString("template"))
	fmt.Fprintf(&sb, "  worksheet:  %s\n", viper.GetString("worksheet"))
	fmt.Fprintf(&sb, "  layout:     %s\n", layoutPath)
	sb.WriteString("\n")

	sb.WriteString("Output\n")
	fmt.Fprintf(&sb, "  dir:        %s\n", viper.GetString("output.dir"))
	fmt.Fprintf(&sb, "  color:      %v\n", viper.GetBool("output.color"))
	sb.WriteString("\n")

	sb.WriteString("Server\n")
	fmt.Fprintf(&sb, "  addr:       %s\n", viper.GetString("server.addr"))
	fmt.Fprintf(&sb, "  max upload: %d MB\n", viper.GetInt64("server.max_upload_mb"))
	sb.WriteString("\n")

	sb.WriteString("Automation\n")
	fmt.Fprintf(&sb, "  debounce:   %d ms\n", viper.GetInt("watch.debounce_ms"))
	fmt.Fprintf(&sb, "  batch:      %d workers\n", viper.GetInt("batch.concurrency"))
	fmt.Fprintf(&sb, "  history:    %v\n", viper.GetBool("history"))

	return sb.String()
}
