package batch

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestExpand(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"a.xlsm", "b.xlsm", "c.xlsx"} {
		os.WriteFile(filepath.Join(dir, name), nil, 0644)
	}

	files, err := expand([]string{
		filepath.Join(dir, "*.xlsm"),
		filepath.Join(dir, "a.xlsm"),
		filepath.Join(dir, "c.xlsx"),
	})
	if err != nil {
		t.Fatal(err)
	}
	var names []string
	for _, f := range files {
		names = append(names, filepath.Base(f))
	}
	if got := strings.Join(names, ","); got != "a.xlsm,b.xlsm,c.xlsx" {
		t.Errorf("expand = %s", got)
	}
}

func TestExpandKeepsLiteralPaths(t *testing.T) {
	files, err := expand([]string{"missing.xlsm"})
	if err != nil {
		t.Fatal(err)
	}
	if len(files) != 1 || files[0] != "missing.xlsm" {
		t.Errorf("expand = %v", files)
	}
}

func TestExpandBadPattern(t *testing.T) {
	if _, err := expand([]string{"[bad"}); err == nil {
		t.Error("expected error for malformed pattern")
	}
}
