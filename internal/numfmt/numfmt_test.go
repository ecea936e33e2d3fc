package numfmt

import "testing"

func TestFormats(t *testing.T) {
	tests := []struct {
		name string
		fn   func(float64) string
		in   float64
		want string
	}{
		{"currency half up", Currency, 1234.5, "$1,235"},
		{"currency zero", Currency, 0, "$0"},
		{"currency grouping", Currency, 52000, "$52,000"},
		{"currency millions", Currency, 1234567.4, "$1,234,567"},
		{"currency negative", Currency, -1500, "$-1,500"},
		{"currency negative zero", Currency, -0.4, "$0"},
		{"currency huge", Currency, 1e19, "$10,000,000,000,000,000,000"},
		{"grouped", Grouped, 98765.4, "98,765"},
		{"grouped small", Grouped, 999, "999"},
		{"grouped huge", Grouped, 1e19, "10,000,000,000,000,000,000"},
		{"grouped negative huge", Grouped, -2e19, "-20,000,000,000,000,000,000"},
		{"percent one decimal", Percent, 0.1234, "12.3%"},
		{"percent third", Percent, 0.333, "33.3%"},
		{"percent whole", Percent, 0.5, "50.0%"},
		{"percent int", PercentInt, 0.4, "40%"},
		{"percent int rounds", PercentInt, 0.426, "43%"},
		{"percent int over", PercentInt, 1.25, "125%"},
		{"percent int huge", PercentInt, 1e17, "10000000000000000000%"},
		{"percent int negative zero", PercentInt, -0.001, "0%"},
		{"decimal", Decimal, 3.14159, "3.1"},
		{"decimal integral", Decimal, 7, "7.0"},
		{"decimal negative zero", Decimal, -0.01, "0.0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.fn(tt.in); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}
