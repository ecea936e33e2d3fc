package report

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/deeemdeeem/tt-report-automation/internal/tokens"
)

func TestTruncate(t *testing.T) {
	tests := []struct {
		name string
		in   string
		n    int
		want string
	}{
		{"short", "42%", 60, "42%"},
		{"exact", strings.Repeat("a", 60), 60, strings.Repeat("a", 60)},
		{"ascii cut", strings.Repeat("a", 61), 60, strings.Repeat("a", 57) + "..."},
		{"multibyte cut", strings.Repeat("é", 70), 60, strings.Repeat("é", 57) + "..."},
		{"euro cut", "Spend " + strings.Repeat("€", 70), 10, "Spend €..."},
		{"tiny limit", "abcdef", 2, "ab"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := truncate(tt.in, tt.n)
			if got != tt.want {
				t.Errorf("truncate = %q, want %q", got, tt.want)
			}
			if !utf8.ValidString(got) {
				t.Errorf("truncate produced invalid UTF-8: %q", got)
			}
		})
	}
}

func TestSelectTokens(t *testing.T) {
	table := tokens.NewTable([]tokens.Entry{
		{Token: "VL10", Value: "42%"},
		{Token: "MA12", Value: "$1,235"},
		{Token: "MA121", Value: "12.3%"},
	})

	all, err := selectTokens(table, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 3 {
		t.Errorf("expected every entry, got %d", len(all))
	}

	got, err := selectTokens(table, []string{"ma121", " VL10 "})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 || got[0] != (tokens.Entry{Token: "MA121", Value: "12.3%"}) ||
		got[1] != (tokens.Entry{Token: "VL10", Value: "42%"}) {
		t.Errorf("selectTokens = %+v", got)
	}

	if _, err := selectTokens(table, []string{"VL99"}); err == nil || !strings.Contains(err.Error(), "VL99") {
		t.Errorf("expected unknown token error, got %v", err)
	}
}
