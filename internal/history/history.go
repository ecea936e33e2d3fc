// Package history keeps a local log of generated decks (~/.ttreport/history.jsonl).
// Only base file names are stored, never workbook contents.
package history

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"
)

// Sources of a build.
const (
	SourceCLI   = "cli"
	SourceBatch = "batch"
	SourceServe = "serve"
	SourceWatch = "watch"
)

// Entry records one deck build.
type Entry struct {
	Time       time.Time `json:"ts"`
	Source     string    `json:"source"`
	Workbook   string    `json:"workbook"`
	Output     string    `json:"output,omitempty"`
	Slides     int       `json:"slides,omitempty"`
	DurationMs int64     `json:"ms"`
	Error      string    `json:"error,omitempty"`
}

// OK reports whether the build succeeded.
func (e Entry) OK() bool { return e.Error == "" }

// Stats aggregates the log.
type Stats struct {
	Total       int            `json:"total"`
	Failed      int            `json:"failed"`
	BySource    map[string]int `json:"by_source"`
	AvgDuration float64        `json:"avg_duration_ms"`
	First       time.Time      `json:"first,omitempty"`
	Last        time.Time      `json:"last,omitempty"`
}

// Store is an append-only JSON-lines file. It is safe for concurrent use
// within one process.
type Store struct {
	Path    string
	MaxSize int64 // default 10MB

	mu sync.Mutex
}

// DefaultStore returns a Store at the default location.
func DefaultStore() *Store {
	home, _ := os.UserHomeDir()
	return &Store{
		Path:    filepath.Join(home, ".ttreport", "history.jsonl"),
		MaxSize: 10 * 1024 * 1024,
	}
}

// Record appends e, trimming the file first when it exceeds MaxSize.
// A nil Store records nothing.
func (s *Store) Record(e Entry) error {
	if s == nil {
		return nil
	}
	if e.Time.IsZero() {
		e.Time = time.Now()
	}
	e.Workbook = filepath.Base(e.Workbook)
	if e.Output != "" {
		e.Output = filepath.Base(e.Output)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(s.Path), 0755); err != nil {
		return fmt.Errorf("could not create history directory: %w", err)
	}
	if err := s.rotate(); err != nil {
		return err
	}

	f, err := os.OpenFile(s.Path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("could not open history: %w", err)
	}
	defer f.Close()

	data, err := json.Marshal(e)
	if err != nil {
		return err
	}
	_, err = f.Write(append(data, '\n'))
	return err
}

// Track records a build that began at started. Write failures are dropped so
// the log never fails a build.
func (s *Store) Track(source, workbook, output string, slides int, started time.Time, buildErr error) {
	e := Entry{
		Time:       started,
		Source:     source,
		Workbook:   workbook,
		Output:     output,
		Slides:     slides,
		DurationMs: time.Since(started).Milliseconds(),
	}
	if buildErr != nil {
		e.Output = ""
		e.Slides = 0
		e.Error = buildErr.Error()
	}
	_ = s.Record(e)
}

// List returns up to limit entries, newest first. limit <= 0 returns all.
func (s *Store) List(limit int) ([]Entry, error) {
	entries, err := s.read()
	if err != nil {
		return nil, err
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Time.After(entries[j].Time)
	})
	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}

// Summary returns aggregated stats from the log.
func (s *Store) Summary() (*Stats, error) {
	entries, err := s.read()
	if err != nil {
		return nil, err
	}

	stats := &Stats{BySource: make(map[string]int)}
	var totalDuration int64
	for _, e := range entries {
		stats.Total++
		stats.BySource[e.Source]++
		totalDuration += e.DurationMs
		if !e.OK() {
			stats.Failed++
		}
		if stats.First.IsZero() || e.Time.Before(stats.First) {
			stats.First = e.Time
		}
		if e.Time.After(stats.Last) {
			stats.Last = e.Time
		}
	}
	if stats.Total > 0 {
		stats.AvgDuration = float64(totalDuration) / float64(stats.Total)
	}
	return stats, nil
}

// Clear removes all entries.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := os.Stat(s.Path); os.IsNotExist(err) {
		return nil
	}
	return os.Truncate(s.Path, 0)
}

// read skips lines that do not parse.
func (s *Store) read() ([]Entry, error) {
	s.mu.Lock()
	data, err := os.ReadFile(s.Path)
	s.mu.Unlock()
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("could not read history: %w", err)
	}

	var entries []Entry
	for _, line := range strings.Split(strings.TrimSpace(string(data)), "\n") {
		if line == "" {
			continue
		}
		var e Entry
		if err := json.Unmarshal([]byte(line), &e); err != nil {
			continue
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// rotate keeps the newer half of the file once it exceeds MaxSize.
func (s *Store) rotate() error {
	if s.MaxSize <= 0 {
		return nil
	}
	info, err := os.Stat(s.Path)
	if err != nil || info.Size() <= s.MaxSize {
		return nil
	}
	data, err := os.ReadFile(s.Path)
	if err != nil {
		return fmt.Errorf("could not read history: %w", err)
	}
	keep := data[len(data)/2:]
	if i := strings.IndexByte(string(keep), '\n'); i >= 0 {
		keep = keep[i+1:]
	}
	return os.WriteFile(s.Path, keep, 0644)
}
