// Package fixture provides a populated TT worksheet and a matching report
// template for tests, benchmarks and the testdata generator.
package fixture

import (
	"fmt"

	"github.com/deeemdeeem/tt-report-automation/internal/formats/pptx/pptxtest"
	"github.com/deeemdeeem/tt-report-automation/internal/formats/xlsx"
)

// TemplateSlides is the slide count of Template.
const TemplateSlides = 39

var (
	num  = xlsx.NumberCell
	text = xlsx.TextCell
)

func columns(prefix string, n int) []string {
	cols := make([]string, n)
	for i := range cols {
		cols[i] = fmt.Sprintf("%s%d", prefix, i)
	}
	return cols
}

func grid(rows, cols int) [][]xlsx.Cell {
	g := make([][]xlsx.Cell, rows)
	for i := range g {
		g[i] = make([]xlsx.Cell, cols)
	}
	return g
}

// Workbook returns a workbook holding all eight report sheets.
func Workbook() *xlsx.Workbook {
	leasing := grid(12, 9)
	leasing[0][0] = num(0.42)
	leasing[0][3] = num(12345.6)
	leasing[3][3] = num(0.18)
	leasing[6][3] = num(0.07)
	leasing[11][3] = text("Weekday")
	leasing[0][7] = num(0.65)
	leasing[3][7] = num(84250)
	leasing[3][8] = num(79100.4)
	leasing[6][7] = num(0.3)
	leasing[9][7] = num(0.12)
	leasing[11][7] = text("Evening")
	for i := 0; i < 5; i++ {
		leasing[3+i][0] = num(float64(10001 + i))
	}

	cmp := [][]xlsx.Cell{
		{text("Our Center"), num(125000), num(61000), num(0.25), text("A"), num(0.5), num(0.333), {}, {}, text("We lead the trade area.")},
		{text("Rival Mall"), num(98000.4), num(57000), num(0.2), text("B"), num(0.3), num(0.25)},
		{text("Outlet Park"), num(45000), num(49999.5), num(0.1), text("C"), num(0.2), num(0.125)},
	}

	zips := grid(3, 15)
	for r, z := range []float64{10001, 10002, 10003} {
		zips[r][0] = num(z)
		zips[r][4] = num(0.1 * float64(r+1))
		zips[r][5] = num(0.05)
		zips[r][6] = num(15000 + float64(r))
		zips[r][7] = num(2500)
		zips[r][8] = num(0.2)
		zips[r][9] = num(71000)
	}
	zips[0][14] = text("Most visitors live within three zip codes.")

	draw := grid(5, 19)
	for r, label := range []string{"18-24", "25-34", "HOUSEHOLD INCOME", "Average HH Income", "Total visits"} {
		draw[r][0] = text(label)
	}
	draw[0][1] = num(0.125)
	draw[1][1] = num(0.333)
	draw[2][1] = num(0.4)
	draw[3][1] = num(52000)
	draw[4][1] = num(1200)
	draw[0][18] = text("Visitors skew young.")

	mileage := grid(27, 6)
	mileage[0][3] = text("Most trips are under ten miles.")
	for r := 2; r <= 26; r++ {
		for c := 2; c <= 5; c++ {
			switch {
			case r <= 3:
				mileage[r][c] = num(1000*float64(r) + float64(c) + 0.4)
			case r == 16:
				mileage[r][c] = num(60000 + float64(c))
			default:
				mileage[r][c] = num(0.01 * float64(r+c))
			}
		}
	}

	distance := [][]xlsx.Cell{
		{text("All"), num(0.2), num(0.2), num(0.2), num(0.2), num(0.2), num(7.25), num(12)},
		{text("Weekday"), num(0.1), num(0.3), num(0.2), num(0.25), num(0.15), num(6.5), num(11.04)},
	}
	frequency := [][]xlsx.Cell{
		{text("All"), num(0.5), num(0.3), num(0.2), num(3.21)},
		{text("Weekend"), num(0.4), num(0.4), num(0.2), num(2.5)},
	}
	duration := [][]xlsx.Cell{
		{text("All"), num(0.25), num(0.25), num(0.25), num(0.25), num(42.5)},
		{text("Evening"), num(0.1), num(0.2), num(0.3), num(0.4), num(55)},
	}

	return &xlsx.Workbook{Sheets: []xlsx.Sheet{
		{Name: "LeasingInfographic", Columns: columns("L", 9), Rows: leasing},
		{Name: "CompetitiveMarketPosition", Columns: []string{"Center", "Visits", "HH Income", "Share", "Grade", "Overlap", "Loyalty", "", "", "Analysis"}, Rows: cmp},
		{Name: "ZipCodes", Columns: columns("Z", 15), Rows: zips},
		{Name: "DrawDemo", Columns: columns("D", 19), Rows: draw},
		{Name: "DistanceTravelled", Columns: []string{"Segment", "0-3", "3-5", "5-10", "10-15", "15+", "Avg", "Median"}, Rows: distance},
		{Name: "Frequency", Columns: []string{"Segment", "1x", "2-3x", "4x+", "Avg"}, Rows: frequency},
		{Name: "Duration", Columns: []string{"Segment", "<15m", "15-30m", "30-60m", "60m+", "Avg"}, Rows: duration},
		{Name: "MileageDemo", Columns: columns("M", 6), Rows: mileage},
	}}
}

// WorkbookBytes serializes Workbook as .xlsx bytes.
func WorkbookBytes() ([]byte, error) {
	return xlsx.Bytes(Workbook())
}

// Without returns Workbook minus the named sheet.
func Without(sheet string) *xlsx.Workbook {
	wb := Workbook()
	kept := wb.Sheets[:0]
	for _, s := range wb.Sheets {
		if s.Name != sheet {
			kept = append(kept, s)
		}
	}
	wb.Sheets = kept
	return wb
}

// Template returns a 39-slide deck with token text on slide 0, a token table
// on slide 1, and empty tables on the bound slides 9, 11, 14, 36, 37 and 38.
// Slide 9's table has fewer data rows than its sheet.
func Template() []byte {
	slides := make([]pptxtest.Slide, TemplateSlides)
	slides[0] = pptxtest.Slide{Shapes: []pptxtest.Shape{
		pptxtest.TextBox{Name: "Title", Title: true, Paragraphs: [][]string{{"Trade Area Report"}}},
		pptxtest.TextBox{Name: "Leasing", Paragraphs: [][]string{
			{"VL10"},
			{"Households earn HHI08 vs HHIMSA08 in the MSA"},
			{"Top zip: ", "ZIP1"},
		}},
		pptxtest.Group{Shapes: []pptxtest.Shape{
			pptxtest.TextBox{Name: "Analysis", Paragraphs: [][]string{{"CMPANALYSIS10"}}},
		}},
	}}
	slides[1] = pptxtest.Slide{Shapes: []pptxtest.Shape{
		pptxtest.Table{Name: "Mileage", Rows: [][]string{
			{"Trips", "A", "B"},
			{"Visitors", "MA121", "MB121"},
			{"Income", "MA135", "MB135"},
			{"Note", "static", ""},
		}},
	}}
	slides[9] = tableSlide(3, 10)
	slides[11] = tableSlide(8, 19)
	slides[14] = tableSlide(6, 15)
	slides[36] = tableSlide(4, 8)
	slides[37] = tableSlide(4, 5)
	slides[38] = tableSlide(4, 6)
	return pptxtest.Build(slides...)
}

func tableSlide(rows, cols int) pptxtest.Slide {
	return pptxtest.Slide{Shapes: []pptxtest.Shape{
		pptxtest.TextBox{Name: "Caption", Paragraphs: [][]string{{"Data"}}},
		pptxtest.Table{Name: "Data", Cols: cols, Rows: pptxtest.EmptyRows(rows, cols)},
	}}
}
