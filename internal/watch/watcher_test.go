package watch

import (
	"context"
	"errors"
	"io"
	"log"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"
)

func newQuiet(t *testing.T, cfg Config) *Watcher {
	t.Helper()
	w, err := New(cfg)
	if err != nil {
		t.Fatal(err)
	}
	w.Logger = log.New(io.Discard, "", 0)
	return w
}

func start(t *testing.T, w *Watcher) context.CancelFunc {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		w.Start(ctx)
		close(done)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})
	// Give the watcher time to register directories.
	time.Sleep(100 * time.Millisecond)
	return cancel
}

func TestIsWorkbook(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"/in/TT_worksheet.xlsm", true},
		{"/in/filled.XLSX", true},
		{"/in/~$filled.xlsm", false},
		{"/in/.~lock.filled.xlsx#", false},
		{"/in/TT_report.pptx", false},
		{"/in/notes.csv", false},
	}
	for _, tt := range tests {
		if got := IsWorkbook(tt.path); got != tt.want {
			t.Errorf("IsWorkbook(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}

func TestWatcherProcessesWorkbook(t *testing.T) {
	dir := t.TempDir()
	w := newQuiet(t, Config{Directories: []string{dir}, Debounce: 50})

	called := make(chan string, 1)
	w.Handler = func(path string) (string, error) {
		called <- path
		return path + ".pptx", nil
	}
	start(t, w)

	testFile := filepath.Join(dir, "filled.xlsm")
	os.WriteFile(testFile, []byte("test"), 0644)

	select {
	case path := <-called:
		if path != testFile {
			t.Errorf("expected %q, got %q", testFile, path)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timeout waiting for handler call")
	}

	// The event is recorded after the handler returns.
	deadline := time.Now().Add(time.Second)
	for len(w.GetEvents()) == 0 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	events := w.GetEvents()
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	if events[0].Status != "processed" || events[0].Output != testFile+".pptx" {
		t.Errorf("unexpected event: %+v", events[0])
	}
}

func TestWatcherDebouncesBursts(t *testing.T) {
	dir := t.TempDir()
	w := newQuiet(t, Config{Directories: []string{dir}, Debounce: 150})

	var calls int32
	w.Handler = func(path string) (string, error) {
		atomic.AddInt32(&calls, 1)
		return "", nil
	}
	start(t, w)

	path := filepath.Join(dir, "filled.xlsx")
	for i := 0; i < 5; i++ {
		os.WriteFile(path, []byte{byte(i)}, 0644)
		time.Sleep(20 * time.Millisecond)
	}
	time.Sleep(500 * time.Millisecond)

	if n := atomic.LoadInt32(&calls); n != 1 {
		t.Errorf("handler called %d times, want 1", n)
	}
}

func TestWatcherSkipsLockAndOtherFiles(t *testing.T) {
	dir := t.TempDir()
	w := newQuiet(t, Config{Directories: []string{dir}, Debounce: 50})

	var calls int32
	w.Handler = func(path string) (string, error) {
		atomic.AddInt32(&calls, 1)
		return "", nil
	}
	start(t, w)

	os.WriteFile(filepath.Join(dir, "readme.txt"), []byte("test"), 0644)
	os.WriteFile(filepath.Join(dir, "~$filled.xlsm"), []byte("lock"), 0644)
	os.WriteFile(filepath.Join(dir, "TT_report.pptx"), []byte("deck"), 0644)
	time.Sleep(300 * time.Millisecond)

	if n := atomic.LoadInt32(&calls); n != 0 {
		t.Errorf("handler called %d times for non-workbook files", n)
	}
}

func TestWatcherRecordsHandlerError(t *testing.T) {
	dir := t.TempDir()
	w := newQuiet(t, Config{Directories: []string{dir}, Debounce: 50})
	w.Handler = func(path string) (string, error) {
		return "", errors.New("sheet \"CMP\" not found")
	}
	start(t, w)

	os.WriteFile(filepath.Join(dir, "broken.xlsm"), []byte("x"), 0644)

	deadline := time.Now().Add(2 * time.Second)
	for len(w.GetEvents()) == 0 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	events := w.GetEvents()
	if len(events) != 1 || events[0].Status != "error" {
		t.Fatalf("expected one error event, got %+v", events)
	}
}

func TestWatcherRecursiveNewDirectory(t *testing.T) {
	dir := t.TempDir()
	w := newQuiet(t, Config{Directories: []string{dir}, Recursive: true, Debounce: 50})

	called := make(chan string, 1)
	w.Handler = func(path string) (string, error) {
		called <- path
		return "", nil
	}
	start(t, w)

	sub := filepath.Join(dir, "march")
	os.Mkdir(sub, 0755)
	time.Sleep(100 * time.Millisecond)
	os.WriteFile(filepath.Join(sub, "filled.xlsm"), []byte("x"), 0644)

	select {
	case <-called:
	case <-time.After(2 * time.Second):
		t.Fatal("workbook in new subdirectory was not processed")
	}
}

func TestPIDFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "state")

	if err := WritePIDFile(dir); err != nil {
		t.Fatal(err)
	}
	pid, err := ReadPIDFile(dir)
	if err != nil {
		t.Fatal(err)
	}
	if pid != os.Getpid() {
		t.Errorf("expected PID %d, got %d", os.Getpid(), pid)
	}
	if err := RemovePIDFile(dir); err != nil {
		t.Fatal(err)
	}
	if _, err := ReadPIDFile(dir); err == nil {
		t.Error("expected error after removing PID file")
	}
}

func TestSaveAndLoadConfig(t *testing.T) {
	dir := t.TempDir()

	config := Config{
		Directories: []string{"/srv/inbox"},
		OutDir:      "/srv/decks",
		Template:    "TT_report.pptx",
		Recursive:   true,
		Debounce:    500,
	}
	if err := SaveConfig(dir, config); err != nil {
		t.Fatal(err)
	}

	loaded, err := LoadConfig(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(loaded.Directories) != 1 || loaded.Directories[0] != "/srv/inbox" {
		t.Errorf("directories mismatch: %v", loaded.Directories)
	}
	if loaded.OutDir != "/srv/decks" || !loaded.Recursive {
		t.Errorf("unexpected config: %+v", loaded)
	}
}

func TestGetStatus(t *testing.T) {
	w := newQuiet(t, Config{Directories: []string{"/tmp/a", "/tmp/b"}, OutDir: "/tmp/out"})
	defer w.fsw.Close()

	status := w.GetStatus()
	if status.Running {
		t.Error("watcher has not been started")
	}
	if len(status.Directories) != 2 || status.OutDir != "/tmp/out" {
		t.Errorf("unexpected status: %+v", status)
	}
}

func TestDefaultDebounce(t *testing.T) {
	w := newQuiet(t, Config{})
	defer w.fsw.Close()

	if w.Config.Debounce != 500 {
		t.Errorf("expected default debounce 500, got %d", w.Config.Debounce)
	}
}
