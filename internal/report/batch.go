package report

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/deeemdeeem/tt-report-automation/internal/formats/xlsx"
	"github.com/deeemdeeem/tt-report-automation/internal/layout"
)

// BatchOptions configures a multi-workbook run.
type BatchOptions struct {
	TemplatePath string
	OutDir       string
	Layout       *layout.Layout
	Concurrency  int
	// Progress, when set, is called once per workbook after it is built.
	// Calls are serialized.
	Progress func(done, total int, item BatchItem)
}

// BatchItem is the outcome for one workbook.
type BatchItem struct {
	Workbook string   `json:"workbook"`
	Output   string   `json:"output,omitempty"`
	Status   string   `json:"status"`
	Error    string   `json:"error,omitempty"`
	Summary  *Summary `json:"summary,omitempty"`
	// Took is the wall time spent on this workbook.
	Took time.Duration `json:"took"`
}

// BatchOutputPath names the deck for workbook inside dir.
func BatchOutputPath(dir, workbook string) string {
	base := filepath.Base(workbook)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	return filepath.Join(dir, stem+"_report.pptx")
}

// batchOutputPaths assigns each workbook a distinct deck path. Later
// workbooks whose stem repeats an earlier one get a _2, _3, ... suffix.
// Names are compared case-insensitively.
func batchOutputPaths(dir string, workbooks []string) []string {
	taken := make(map[string]bool, len(workbooks))
	out := make([]string, len(workbooks))
	for i, wb := range workbooks {
		p := BatchOutputPath(dir, wb)
		if taken[strings.ToLower(p)] {
			base := strings.TrimSuffix(p, ".pptx")
			for n := 2; ; n++ {
				p = fmt.Sprintf("%s_%d.pptx", base, n)
				if !taken[strings.ToLower(p)] {
					break
				}
			}
		}
		taken[strings.ToLower(p)] = true
		out[i] = p
	}
	return out
}

// Batch builds one deck per workbook. A failing workbook is recorded and the
// rest continue; results keep the input order.
func Batch(ctx context.Context, workbooks []string, opts BatchOptions) ([]BatchItem, error) {
	if opts.Layout == nil {
		opts.Layout = layout.Default()
	}
	if opts.Concurrency < 1 {
		opts.Concurrency = 1
	}
	if opts.OutDir == "" {
		opts.OutDir = "."
	}

	tmpl, err := os.ReadFile(opts.TemplatePath)
	if err != nil {
		return nil, fmt.Errorf("could not read template: %w", err)
	}
	if err := os.MkdirAll(opts.OutDir, 0755); err != nil {
		return nil, fmt.Errorf("could not create output directory %s: %w", opts.OutDir, err)
	}

	results := make([]BatchItem, len(workbooks))
	sheets := RequiredSheets(opts.Layout)
	outputs := batchOutputPaths(opts.OutDir, workbooks)

	var (
		mu   sync.Mutex
		wg   sync.WaitGroup
		done int
	)
	sem := make(chan struct{}, opts.Concurrency)

	for i, wbPath := range workbooks {
		wg.Add(1)
		go func(idx int, path string) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			results[idx] = buildOne(ctx, path, outputs[idx], tmpl, sheets, opts)

			if opts.Progress != nil {
				mu.Lock()
				done++
				opts.Progress(done, len(workbooks), results[idx])
				mu.Unlock()
			}
		}(i, wbPath)
	}
	wg.Wait()

	return results, nil
}

func buildOne(ctx context.Context, path, output string, tmpl []byte, sheets []string, opts BatchOptions) BatchItem {
	started := time.Now()
	item := BatchItem{Workbook: path, Status: "ok"}
	fail := func(err error) BatchItem {
		item.Status = "error"
		item.Error = err.Error()
		item.Took = time.Since(started)
		return item
	}

	if err := ctx.Err(); err != nil {
		return fail(err)
	}
	wb, err := xlsx.ReadFile(path, sheets...)
	if err != nil {
		return fail(fmt.Errorf("could not read workbook: %w", err))
	}
	out, summary, err := Build(ctx, wb, tmpl, opts.Layout)
	if err != nil {
		return fail(err)
	}

	item.Output = output
	if err := os.WriteFile(item.Output, out, 0644); err != nil {
		item.Output = ""
		return fail(fmt.Errorf("could not write deck: %w", err))
	}
	item.Summary = summary
	item.Took = time.Since(started)
	return item
}
