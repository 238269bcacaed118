package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log"
	"net"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"dot5/internal/checker"
	"dot5/internal/model"
	"dot5/internal/report"
)

const (
	DefaultAddress = "127.0.0.1:8000"
	CSVFilename    = "dot5_results.csv"
	maxBodyBytes   = 10 << 20
)

// BulkChecker is the verification core. *checker.Checker implements it.
type BulkChecker interface {
	CheckBulk(ctx context.Context, rawInputs []string, opts checker.Options) []model.Report
}

// ServerOptions configures the HTTP server.
type ServerOptions struct {
	Addr              string
	ReadTimeout       time.Duration
	ReadHeaderTimeout time.Duration
	// WriteTimeout must outlast the slowest batch; zero leaves it unbounded.
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
	Logger          *logrus.Logger
}

// Server hosts the HTTP API.
type Server struct {
	http    *http.Server
	checker BulkChecker
	logger  *logrus.Logger
	opts    ServerOptions
}

// NewServer constructs a server around c. It does not listen until Start.
func NewServer(c BulkChecker, opts ServerOptions) *Server {
	if c == nil {
		panic("api.NewServer: checker is nil")
	}
	if opts.Addr == "" {
		opts.Addr = DefaultAddress
	}
	if opts.ReadTimeout == 0 {
		opts.ReadTimeout = 30 * time.Second
	}
	if opts.ReadHeaderTimeout == 0 {
		opts.ReadHeaderTimeout = 5 * time.Second
	}
	if opts.IdleTimeout == 0 {
		opts.IdleTimeout = 60 * time.Second
	}
	if opts.ShutdownTimeout == 0 {
		opts.ShutdownTimeout = 5 * time.Second
	}
	if opts.Logger == nil {
		opts.Logger = logrus.StandardLogger()
	}

	mux := http.NewServeMux()
	s := &Server{
		checker: c,
		logger:  opts.Logger,
		opts:    opts,
	}
	s.http = &http.Server{
		Addr:              opts.Addr,
		Handler:           withLogging(mux, opts.Logger),
		ReadTimeout:       opts.ReadTimeout,
		ReadHeaderTimeout: opts.ReadHeaderTimeout,
		WriteTimeout:      opts.WriteTimeout,
		IdleTimeout:       opts.IdleTimeout,
		ErrorLog:          log.New(opts.Logger.WriterLevel(logrus.ErrorLevel), "", 0),
		BaseContext: func(net.Listener) context.Context {
			return context.Background()
		},
	}

	mux.HandleFunc("/api/healthz", s.handleHealthz)
	mux.HandleFunc("/api/check-bulk", s.handleCheckBulk)
	mux.HandleFunc("/api/export-csv", s.handleExportCSV)

	return s
}

// Handler returns the routed handler, for tests and embedding.
func (s *Server) Handler() http.Handler { return s.http.Handler }

// Start begins serving in a background goroutine.
func (s *Server) Start() {
	go func() {
		s.logger.Infof("api: listening on %s", s.http.Addr)
		if err := s.http.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			s.logger.Errorf("api: ListenAndServe error: %v", err)
		}
	}()
}

// Stop gracefully shuts down the server, waiting up to ShutdownTimeout.
func (s *Server) Stop(ctx context.Context) error {
	if timeout := s.opts.ShutdownTimeout; timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	return s.http.Shutdown(ctx)
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, newAPIError("method not allowed"))
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"status":    "ok",
		"timestamp": TimeNow().UTC().Format(time.RFC3339),
	})
}

// handleCheckBulk runs one verification batch.
// Method: POST
// Request: CheckBulkRequest JSON
// Response (200): []model.Report JSON
func (s *Server) handleCheckBulk(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, newAPIError("method not allowed"))
		return
	}

	var req CheckBulkRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, newAPIError("invalid JSON: "+err.Error()))
		return
	}

	reports := s.checker.CheckBulk(r.Context(), req.IPs, checker.Options{
		TargetURLs: req.TargetURLs,
		Timeout:    time.Duration(req.Timeout * float64(time.Second)),
		MaxWorkers: req.MaxWorkers,
		TryPorts:   req.TryPorts,
	})
	writeJSON(w, http.StatusOK, reports)
}

// handleExportCSV renders caller-supplied results as CSV.
// Method: POST
// Request: ExportCSVRequest JSON
// Response (200): text/csv attachment
func (s *Server) handleExportCSV(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, newAPIError("method not allowed"))
		return
	}

	var req ExportCSVRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, newAPIError("invalid JSON: "+err.Error()))
		return
	}

	var buf bytes.Buffer
	if err := report.WriteRecordsCSV(&buf, req.Results); err != nil {
		writeJSON(w, http.StatusInternalServerError, newAPIError(err.Error()))
		return
	}
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", "attachment; filename="+CSVFilename)
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.UseNumber()
	return dec.Decode(v)
}

// withLogging logs method, path and duration of every request.
func withLogging(next http.Handler, logger *logrus.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := TimeNow()
		next.ServeHTTP(w, r)
		logger.WithFields(logrus.Fields{
			"method": r.Method,
			"path":   r.URL.Path,
			"ms":     time.Since(start).Milliseconds(),
			"ua":     r.UserAgent(),
		}).Info("request")
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(true)
	_ = enc.Encode(v)
}
