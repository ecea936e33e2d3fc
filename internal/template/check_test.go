package template

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/deeemdeeem/tt-report-automation/internal/fixture"
	"github.com/deeemdeeem/tt-report-automation/internal/formats/pptx"
	"github.com/deeemdeeem/tt-report-automation/internal/formats/pptx/pptxtest"
	"github.com/deeemdeeem/tt-report-automation/internal/layout"
	"github.com/deeemdeeem/tt-report-automation/internal/tokens"
)

func open(t *testing.T, data []byte) *pptx.Deck {
	t.Helper()
	d, err := pptx.Open(data)
	if err != nil {
		t.Fatal(err)
	}
	return d
}

func tokenNames(uses []TokenUse) []string {
	out := make([]string, len(uses))
	for i, u := range uses {
		out[i] = u.Token
	}
	return out
}

func TestCheckFixtureTemplate(t *testing.T) {
	rep := Check(open(t, fixture.Template()), tokens.Vocabulary(), layout.Default())

	if rep.Slides != fixture.TemplateSlides {
		t.Errorf("slides = %d", rep.Slides)
	}
	if !rep.OK() {
		t.Errorf("fixture template should pass: split=%v bindings=%+v", rep.Split, rep.Bindings)
	}

	found := strings.Join(tokenNames(rep.Found), ",")
	for _, tok := range []string{"VL10", "HHI08", "HHIMSA08", "ZIP1", "CMPANALYSIS10", "MA121", "MB135"} {
		if !strings.Contains(","+found+",", ","+tok+",") {
			t.Errorf("token %s not reported as found (found: %s)", tok, found)
		}
	}
	if len(rep.Found)+len(rep.Missing) != len(tokens.Vocabulary()) {
		t.Errorf("found %d + missing %d != vocabulary %d", len(rep.Found), len(rep.Missing), len(tokens.Vocabulary()))
	}
	if len(rep.Bindings) != 6 {
		t.Fatalf("expected 6 bindings, got %d", len(rep.Bindings))
	}
	if b := rep.Bindings[0]; b.Slide != 9 || b.Rows != 3 || b.Cols != 10 {
		t.Errorf("unexpected first binding: %+v", b)
	}
}

func TestCheckLocations(t *testing.T) {
	rep := Check(open(t, fixture.Template()), tokens.Vocabulary(), layout.Default())

	for _, u := range rep.Found {
		switch u.Token {
		case "CMPANALYSIS10":
			if u.Locations[0].Slide != 1 || u.Locations[0].Shape != "Analysis" {
				t.Errorf("CMPANALYSIS10 at %+v, want slide 1 shape Analysis", u.Locations[0])
			}
		case "MA121":
			if !u.Locations[0].Table || u.Locations[0].Slide != 2 {
				t.Errorf("MA121 at %+v, want table on slide 2", u.Locations[0])
			}
		}
	}
}

func TestCheckSplitToken(t *testing.T) {
	data := pptxtest.Build(pptxtest.Slide{Shapes: []pptxtest.Shape{
		pptxtest.TextBox{Name: "Visitors", Paragraphs: [][]string{{"Visits: VO", "P08"}}},
	}})
	rep := Check(open(t, data), tokens.Vocabulary(), &layout.Layout{Font: layout.Default().Font})

	if len(rep.Split) != 1 || rep.Split[0].Token != "VOP08" {
		t.Fatalf("expected VOP08 split, got %v", tokenNames(rep.Split))
	}
	for _, m := range rep.Missing {
		if m == "VOP08" {
			t.Error("split token should not also be reported missing")
		}
	}
	if rep.OK() {
		t.Error("split token should fail the check")
	}
}

func TestCheckBindingProblems(t *testing.T) {
	slides := make([]pptxtest.Slide, 3)
	slides[1] = pptxtest.Text("no table here")
	slides[2] = pptxtest.Slide{Shapes: []pptxtest.Shape{
		pptxtest.Table{Name: "Header only", Rows: [][]string{{"a", "b"}}},
	}}
	l := &layout.Layout{
		Font: layout.Default().Font,
		Bindings: []layout.Binding{
			{Slide: 1, Sheet: "Frequency"},
			{Slide: 2, Sheet: "Duration"},
			{Slide: 7, Sheet: "DistanceTravelled"},
		},
	}

	rep := Check(open(t, pptxtest.Build(slides...)), nil, l)
	if rep.OK() {
		t.Fatal("expected binding problems")
	}
	for i, want := range []string{"has no table", "no data rows", "does not exist"} {
		if !strings.Contains(rep.Bindings[i].Problem, want) {
			t.Errorf("binding %d problem = %q, want %q", i, rep.Bindings[i].Problem, want)
		}
	}
}

func TestCheckFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "TT_report.pptx")
	if err := os.WriteFile(path, fixture.Template(), 0644); err != nil {
		t.Fatal(err)
	}
	rep, err := CheckFile(path, nil)
	if err != nil {
		t.Fatal(err)
	}
	if !rep.OK() {
		t.Error("fixture template should pass")
	}

	if _, err := CheckFile(filepath.Join(t.TempDir(), "missing.pptx"), nil); err == nil {
		t.Error("expected error for missing template")
	}
}
