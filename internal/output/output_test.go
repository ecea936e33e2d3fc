package output

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/fatih/color"
)

func captureJSON(t *testing.T, fn func() error) JSONResult {
	t.Helper()
	var buf bytes.Buffer
	old := Stdout
	Stdout = &buf
	t.Cleanup(func() { Stdout = old })

	if err := fn(); err != nil {
		t.Fatal(err)
	}
	var res JSONResult
	if err := json.Unmarshal(buf.Bytes(), &res); err != nil {
		t.Fatalf("invalid JSON %q: %v", buf.String(), err)
	}
	return res
}

func TestPrintJSON(t *testing.T) {
	res := captureJSON(t, func() error {
		return PrintJSON("report.generate", map[string]int{"slides": 39})
	})
	if !res.OK || res.Command != "report.generate" {
		t.Errorf("unexpected envelope: %+v", res)
	}
	data, ok := res.Data.(map[string]interface{})
	if !ok || data["slides"] != float64(39) {
		t.Errorf("data = %#v", res.Data)
	}
}

func TestPrintJSONError(t *testing.T) {
	res := captureJSON(t, func() error {
		return PrintJSONError("serve", errors.New("address in use"), ExitSystemError)
	})
	if res.OK {
		t.Error("ok should be false")
	}
	if res.Error != "address in use" || res.Code != ExitSystemError {
		t.Errorf("unexpected envelope: %+v", res)
	}
}

func TestStatusLines(t *testing.T) {
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = false })

	var buf bytes.Buffer
	Success(&buf, "template has %d slides", 39)
	Warn(&buf, "worksheet missing")
	Fail(&buf, "sheet %q not found", "CMP")

	out := buf.String()
	for _, want := range []string{"template has 39 slides", "worksheet missing", `sheet "CMP" not found`} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Count(out, "\n") != 3 {
		t.Errorf("expected 3 lines, got %q", out)
	}
}

func TestShouldPageNotTerminal(t *testing.T) {
	if ShouldPage(strings.Repeat("x\n", 500), 10) {
		t.Error("should not page when stdout is not a terminal")
	}
}
