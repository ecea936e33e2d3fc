// Package report builds a TT report deck from a filled worksheet and the
// report template. Every call loads its own copy of the template; nothing is
// shared between calls.
package report

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/deeemdeeem/tt-report-automation/internal/formats/pptx"
	"github.com/deeemdeeem/tt-report-automation/internal/formats/xlsx"
	"github.com/deeemdeeem/tt-report-automation/internal/layout"
	"github.com/deeemdeeem/tt-report-automation/internal/render"
	"github.com/deeemdeeem/tt-report-automation/internal/tokens"
)

// OutputName is the download name pattern for generated decks.
const OutputName = "TT_report_2006-01-02_15-04.pptx"

// GenerateOptions configures report generation.
type GenerateOptions struct {
	WorkbookPath string         `json:"workbookPath"`
	TemplatePath string         `json:"templatePath"`
	OutputPath   string         `json:"outputPath"`
	Layout       *layout.Layout `json:"-"`
}

// Summary describes what a build did.
type Summary struct {
	Slides         int   `json:"slides"`
	Tokens         int   `json:"tokens"`
	RunsReplaced   int   `json:"runsReplaced"`
	CellsReplaced  int   `json:"cellsReplaced"`
	TablesRendered int   `json:"tablesRendered"`
	CellsWritten   int   `json:"cellsWritten"`
	SkippedSlides  []int `json:"skippedSlides,omitempty"`
}

// GenerateResult holds the outcome of report generation.
type GenerateResult struct {
	OutputPath string `json:"outputPath"`
	Bytes      int    `json:"bytes"`
	Summary
}

// RequiredSheets lists every sheet a build reads: token sources first, then
// bound sheets not already listed.
func RequiredSheets(l *layout.Layout) []string {
	names := tokens.Sheets(tokens.Vocabulary())
	seen := make(map[string]bool, len(names))
	for _, n := range names {
		seen[n] = true
	}
	for _, n := range l.BoundSheets() {
		if !seen[n] {
			seen[n] = true
			names = append(names, n)
		}
	}
	return names
}

// DefaultOutputName returns the timestamped deck file name for t.
func DefaultOutputName(t time.Time) string {
	return t.Format(OutputName)
}

// Generate builds the deck from files and writes it to opts.OutputPath.
func Generate(ctx context.Context, opts GenerateOptions) (*GenerateResult, error) {
	if opts.OutputPath == "" {
		opts.OutputPath = DefaultOutputName(time.Now())
	}

	out, summary, err := BuildFile(ctx, opts.WorkbookPath, opts.TemplatePath, opts.Layout)
	if err != nil {
		return nil, err
	}

	if dir := filepath.Dir(opts.OutputPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("could not create output directory: %w", err)
		}
	}
	if err := os.WriteFile(opts.OutputPath, out, 0644); err != nil {
		return nil, fmt.Errorf("could not write %s: %w", opts.OutputPath, err)
	}

	return &GenerateResult{OutputPath: opts.OutputPath, Bytes: len(out), Summary: *summary}, nil
}

// BuildFile reads the workbook and template from disk and returns the deck bytes.
func BuildFile(ctx context.Context, workbookPath, templatePath string, l *layout.Layout) ([]byte, *Summary, error) {
	if l == nil {
		l = layout.Default()
	}
	wb, err := xlsx.ReadFile(workbookPath, RequiredSheets(l)...)
	if err != nil {
		return nil, nil, fmt.Errorf("could not read workbook: %w", err)
	}
	tmpl, err := os.ReadFile(templatePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil, fmt.Errorf("template not found: %s — set it with --template or 'ttreport config set template <path>'", templatePath)
		}
		return nil, nil, fmt.Errorf("could not read template: %w", err)
	}
	return Build(ctx, wb, tmpl, l)
}

// BuildBytes is BuildFile for in-memory inputs.
func BuildBytes(ctx context.Context, workbook, template []byte, l *layout.Layout) ([]byte, *Summary, error) {
	if l == nil {
		l = layout.Default()
	}
	wb, err := xlsx.ReadBytes(workbook, RequiredSheets(l)...)
	if err != nil {
		return nil, nil, fmt.Errorf("could not read workbook: %w", err)
	}
	return Build(ctx, wb, template, l)
}

// Build renders a loaded workbook into a copy of the template. It either
// returns the complete deck or an error; ctx is checked between phases.
func Build(ctx context.Context, wb *xlsx.Workbook, template []byte, l *layout.Layout) ([]byte, *Summary, error) {
	if l == nil {
		l = layout.Default()
	}

	table, err := tokens.Build(wb, tokens.Vocabulary())
	if err != nil {
		return nil, nil, fmt.Errorf("could not map tokens: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	deck, err := pptx.Open(template)
	if err != nil {
		return nil, nil, fmt.Errorf("could not open template: %w", err)
	}

	sub := render.Substitute(deck, table, l.Font)
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	tbl, err := render.Tables(deck, wb, l)
	if err != nil {
		return nil, nil, fmt.Errorf("could not render tables: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	out, err := deck.Bytes()
	if err != nil {
		return nil, nil, fmt.Errorf("could not serialize deck: %w", err)
	}

	return out, &Summary{
		Slides:         deck.Len(),
		Tokens:         table.Len(),
		RunsReplaced:   sub.RunsReplaced,
		CellsReplaced:  sub.CellsReplaced,
		TablesRendered: tbl.TablesRendered,
		CellsWritten:   tbl.CellsWritten,
		SkippedSlides:  tbl.SkippedSlides,
	}, nil
}

// PreviewTokens reads a workbook and returns its token table without
// touching a template.
func PreviewTokens(workbookPath string) (*tokens.Table, error) {
	vocab := tokens.Vocabulary()
	wb, err := xlsx.ReadFile(workbookPath, tokens.Sheets(vocab)...)
	if err != nil {
		return nil, fmt.Errorf("could not read workbook: %w", err)
	}
	return tokens.Build(wb, vocab)
}
