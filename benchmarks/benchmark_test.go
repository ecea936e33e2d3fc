package benchmarks

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/deeemdeeem/tt-report-automation/internal/fixture"
	"github.com/deeemdeeem/tt-report-automation/internal/formats/pptx"
	"github.com/deeemdeeem/tt-report-automation/internal/formats/xlsx"
	"github.com/deeemdeeem/tt-report-automation/internal/layout"
	"github.com/deeemdeeem/tt-report-automation/internal/numfmt"
	"github.com/deeemdeeem/tt-report-automation/internal/report"
	"github.com/deeemdeeem/tt-report-automation/internal/tokens"
)

var sampleWorksheet = filepath.Join("..", "testdata", "TT_worksheet.xlsx")
var sampleTemplate = filepath.Join("..", "testdata", "TT_report.pptx")

// --- End-to-end ---

func BenchmarkBuildFixture(b *testing.B) {
	wb := fixture.Workbook()
	tmpl := fixture.Template()
	l := layout.Default()
	ctx := context.Background()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, _, err := report.Build(ctx, wb, tmpl, l); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkBuildFile(b *testing.B) {
	for _, p := range []string{sampleWorksheet, sampleTemplate} {
		if _, err := os.Stat(p); os.IsNotExist(err) {
			b.Skip("fixtures not found — run 'go run testdata/generate_fixtures.go'")
		}
	}
	ctx := context.Background()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, _, err := report.BuildFile(ctx, sampleWorksheet, sampleTemplate, nil); err != nil {
			b.Fatal(err)
		}
	}
}

// --- Worksheet ---

func BenchmarkXlsxReadRequired(b *testing.B) {
	data, err := fixture.WorkbookBytes()
	if err != nil {
		b.Fatal(err)
	}
	sheets := report.RequiredSheets(layout.Default())
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := xlsx.ReadBytes(data, sheets...); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkXlsxWrite(b *testing.B) {
	wb := fixture.Workbook()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := xlsx.Bytes(wb); err != nil {
			b.Fatal(err)
		}
	}
}

// --- Template ---

func BenchmarkDeckRoundTrip(b *testing.B) {
	tmpl := fixture.Template()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		d, err := pptx.Open(tmpl)
		if err != nil {
			b.Fatal(err)
		}
		if _, err := d.Bytes(); err != nil {
			b.Fatal(err)
		}
	}
}

// --- Tokens ---

func BenchmarkTokenTable(b *testing.B) {
	wb := fixture.Workbook()
	vocab := tokens.Vocabulary()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := tokens.Build(wb, vocab); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkTokenReplace(b *testing.B) {
	table, err := tokens.Build(fixture.Workbook(), tokens.Vocabulary())
	if err != nil {
		b.Fatal(err)
	}
	text := "Share VL10 of households, income HHI08 vs HHI09, mileage MA123 and MA129 across ZIP1 ZIP2 ZIP3."
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		table.Replace(text)
	}
}

func BenchmarkNumfmt(b *testing.B) {
	for i := 0; i < b.N; i++ {
		numfmt.Grouped(1234567.891)
		numfmt.Currency(84250.4)
		numfmt.PercentInt(0.426)
		numfmt.Percent(0.1234)
		numfmt.Decimal(12.345)
	}
}
