// Package server exposes deck generation over HTTP: an upload page, the blank
// worksheet download and the generate endpoint.
package server

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"html/template"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/deeemdeeem/tt-report-automation/internal/history"
	"github.com/deeemdeeem/tt-report-automation/internal/layout"
	"github.com/deeemdeeem/tt-report-automation/internal/report"
)

const (
	pptxMIME     = "application/vnd.openxmlformats-officedocument.presentationml.presentation"
	xlsmMIME     = "application/vnd.ms-excel.sheet.macroEnabled.12"
	worksheetDL  = "TT_worksheet.xlsm"
	uploadField  = "xlsm"
	defaultMaxMB = 32
)

var allowedExts = map[string]bool{".xlsm": true, ".xlsx": true}

//go:embed page.html
var pageHTML string

var pageTmpl = template.Must(template.New("page").Parse(pageHTML))

// Options configures a Server.
type Options struct {
	Addr          string
	TemplatePath  string
	WorksheetPath string
	Layout        *layout.Layout
	MaxUploadMB   int64
	// StageDir is where uploads are staged; empty means the system temp dir.
	StageDir string
	Logger   *log.Logger
	Now      func() time.Time
	// History, when set, records every generate request.
	History *history.Store
}

// Server serves the upload workflow.
type Server struct {
	opts Options
	mux  *http.ServeMux
}

// New creates a Server with its routes registered.
func New(opts Options) *Server {
	if opts.Layout == nil {
		opts.Layout = layout.Default()
	}
	if opts.MaxUploadMB <= 0 {
		opts.MaxUploadMB = defaultMaxMB
	}
	if opts.Logger == nil {
		opts.Logger = log.New(os.Stderr, "[serve] ", log.LstdFlags)
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	s := &Server{opts: opts, mux: http.NewServeMux()}
	s.mux.HandleFunc("GET /{$}", s.handleIndex)
	s.mux.HandleFunc("GET /download-template", s.handleDownloadTemplate)
	s.mux.HandleFunc("POST /generate", s.handleGenerate)
	s.mux.HandleFunc("GET /healthz", s.handleHealth)
	return s
}

// Handler returns the routed handler wrapped in request logging.
func (s *Server) Handler() http.Handler {
	return s.logRequests(s.mux)
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.opts.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.opts.Logger.Printf("Listening on %s (template: %s)", s.opts.Addr, s.opts.TemplatePath)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("could not serve on %s: %w", s.opts.Addr, err)
	case <-ctx.Done():
		s.opts.Logger.Println("Shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

type pageData struct {
	TemplateName string
	Notices      []string
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	data := pageData{TemplateName: filepath.Base(s.opts.TemplatePath)}
	if _, err := os.Stat(s.opts.TemplatePath); err != nil {
		data.Notices = append(data.Notices, fmt.Sprintf("Template not found: put %s beside the server or set 'template' in the config.", data.TemplateName))
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := pageTmpl.Execute(w, data); err != nil {
		s.opts.Logger.Printf("handleIndex: template execute error: %v", err)
	}
}

func (s *Server) handleDownloadTemplate(w http.ResponseWriter, r *http.Request) {
	f, err := os.Open(s.opts.WorksheetPath)
	if err != nil {
		s.opts.Logger.Printf("handleDownloadTemplate: %v", err)
		http.Error(w, "Worksheet template is not available.", http.StatusNotFound)
		return
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		http.Error(w, "Worksheet template is not available.", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", xlsmMIME)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", worksheetDL))
	http.ServeContent(w, r, worksheetDL, info.ModTime(), f)
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.opts.MaxUploadMB<<20)
	if err := r.ParseMultipartForm(s.opts.MaxUploadMB << 20); err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			http.Error(w, fmt.Sprintf("Upload exceeds %d MB.", s.opts.MaxUploadMB), http.StatusRequestEntityTooLarge)
			return
		}
		http.Error(w, "Please choose an .xlsm or .xlsx file.", http.StatusBadRequest)
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile(uploadField)
	if err != nil || header.Filename == "" {
		http.Error(w, "Please choose an .xlsm or .xlsx file.", http.StatusBadRequest)
		return
	}
	defer file.Close()

	name := filepath.Base(strings.ReplaceAll(header.Filename, "\\", "/"))
	if !allowedExts[strings.ToLower(filepath.Ext(name))] {
		http.Error(w, "Unsupported file type. Upload .xlsm or .xlsx.", http.StatusBadRequest)
		return
	}

	if _, err := os.Stat(s.opts.TemplatePath); err != nil {
		s.opts.Logger.Printf("handleGenerate: template missing: %v", err)
		http.Error(w, "Template not found on the server.", http.StatusInternalServerError)
		return
	}

	started := time.Now()
	out, summary, err := s.generate(r.Context(), name, file)
	download := report.DefaultOutputName(s.opts.Now())
	slides := 0
	if summary != nil {
		slides = summary.Slides
	}
	s.opts.History.Track(history.SourceServe, name, download, slides, started, err)
	if err != nil {
		s.opts.Logger.Printf("handleGenerate: %s: %v", name, err)
		http.Error(w, "Error generating PPT: "+err.Error(), http.StatusUnprocessableEntity)
		return
	}
	s.opts.Logger.Printf("Generated deck for %s: %d runs, %d tables", name, summary.RunsReplaced+summary.CellsReplaced, summary.TablesRendered)

	w.Header().Set("Content-Type", pptxMIME)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", download))
	w.Header().Set("Content-Length", fmt.Sprint(len(out)))
	w.Write(out)
}

// generate stages the upload in its own temp directory, removed on return.
func (s *Server) generate(ctx context.Context, name string, src io.Reader) ([]byte, *report.Summary, error) {
	dir, err := os.MkdirTemp(s.opts.StageDir, "ttreport-upload-*")
	if err != nil {
		return nil, nil, fmt.Errorf("could not stage upload: %w", err)
	}
	defer os.RemoveAll(dir)

	path := filepath.Join(dir, name)
	dst, err := os.Create(path)
	if err != nil {
		return nil, nil, fmt.Errorf("could not stage upload: %w", err)
	}
	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		return nil, nil, fmt.Errorf("could not stage upload: %w", err)
	}
	if err := dst.Close(); err != nil {
		return nil, nil, fmt.Errorf("could not stage upload: %w", err)
	}

	return report.BuildFile(ctx, path, s.opts.TemplatePath, s.opts.Layout)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	io.WriteString(w, "ok\n")
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.opts.Logger.Printf("%s %s %d %s", r.Method, r.URL.Path, rec.status, time.Since(start).Round(time.Millisecond))
	})
}
