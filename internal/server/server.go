// Package server renders charts over HTTP for dashboards and scripts.
package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"github.com/akasprzok/pulse/internal/charts"
	"github.com/akasprzok/pulse/internal/render"
	"github.com/akasprzok/pulse/internal/samples"
)

const (
	DefaultWidth  = 800
	DefaultHeight = 400
	minDimension  = 100
	maxDimension  = 4000

	shutdownTimeout = 5 * time.Second
)

// Config configures a Server.
type Config struct {
	Source samples.Source
	Mode   charts.Mode
	Title  string
	Logger *slog.Logger
}

// Server holds the latest samples and renders a fresh chart for every
// request.
type Server struct {
	source  samples.Source
	mode    charts.Mode
	title   string
	logger  *slog.Logger
	metrics *Metrics

	mu      sync.RWMutex
	samples []charts.Sample
}

func New(cfg Config) *Server {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	title := cfg.Title
	if title == "" {
		title = "Heart rate"
	}
	return &Server{
		source:  cfg.Source,
		mode:    cfg.Mode,
		title:   title,
		logger:  logger,
		metrics: NewMetrics(),
	}
}

// SetSource replaces the source used by later loads, e.g. to move a
// Prometheus range forward in time.
func (s *Server) SetSource(src samples.Source) {
	s.mu.Lock()
	s.source = src
	s.mu.Unlock()
}

// Load replaces the held samples, live ones included, with a fresh read of
// the source.
func (s *Server) Load(ctx context.Context) error {
	s.mu.RLock()
	src := s.source
	s.mu.RUnlock()
	if src == nil {
		return errors.New("no sample source configured")
	}
	loaded, err := src.Load(ctx)
	if err != nil {
		s.metrics.LoadFailed()
		return fmt.Errorf("loading %s: %w", src.Name(), err)
	}
	s.mu.Lock()
	s.samples = loaded
	s.mu.Unlock()
	s.metrics.SetSamples(len(loaded))
	s.logger.Info("samples loaded", "source", src.Name(), "count", len(loaded))
	return nil
}

// Append adds a batch of live samples.
func (s *Server) Append(batch []charts.Sample) {
	s.mu.Lock()
	s.samples = append(s.samples, batch...)
	n := len(s.samples)
	s.mu.Unlock()
	s.metrics.SetSamples(n)
}

// Follow appends batches from ch until it closes or ctx is done.
func (s *Server) Follow(ctx context.Context, ch <-chan []charts.Sample) {
	for {
		select {
		case <-ctx.Done():
			return
		case batch, ok := <-ch:
			if !ok {
				return
			}
			s.Append(batch)
		}
	}
}

func (s *Server) snapshot() []charts.Sample {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.samples
}

// Router returns the routes without middleware.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.Handle("/healthz", s.metrics.WrapHandler("healthz", http.HandlerFunc(s.healthHandler))).Methods(http.MethodGet)
	r.Handle("/subjects", s.metrics.WrapHandler("subjects", http.HandlerFunc(s.subjectsHandler))).Methods(http.MethodGet)
	r.Handle("/chart.{format:svg|png|html}", s.metrics.WrapHandler("chart", http.HandlerFunc(s.chartHandler))).Methods(http.MethodGet)
	r.Handle("/metrics", s.metrics.Handler()).Methods(http.MethodGet)
	return r
}

// Handler returns the routes wrapped with panic recovery and request
// logging.
func (s *Server) Handler() http.Handler {
	logged := handlers.CustomLoggingHandler(io.Discard, s.Router(), func(_ io.Writer, p handlers.LogFormatterParams) {
		s.logger.Info("http request",
			"method", p.Request.Method,
			"path", p.URL.Path,
			"status", p.StatusCode,
			"size", p.Size,
			"duration", time.Since(p.TimeStamp))
	})
	return handlers.RecoveryHandler(handlers.PrintRecoveryStack(false))(logged)
}

// Run serves on addr until ctx is done.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("serving: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down: %w", err)
	}
	return nil
}

func (s *Server) healthHandler(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprintln(w, "ok")
}

func (s *Server) subjectsHandler(w http.ResponseWriter, _ *http.Request) {
	subjects := charts.Subjects(s.snapshot())
	if subjects == nil {
		subjects = []string{}
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(subjects); err != nil {
		s.logger.Error("encoding subjects failed", "error", err)
	}
}

// chartRequest holds the parsed query parameters of a chart request.
type chartRequest struct {
	format        render.Format
	subjects      []string
	window        charts.TimeWindow
	hasWindow     bool
	showAverage   bool
	width, height int
}

func parseChartRequest(r *http.Request) (chartRequest, error) {
	q := r.URL.Query()
	req := chartRequest{
		format: render.Format(mux.Vars(r)["format"]),
		width:  DefaultWidth,
		height: DefaultHeight,
	}

	if v := q.Get("subjects"); v != "" {
		for _, id := range strings.Split(v, ",") {
			if id = strings.TrimSpace(id); id != "" {
				req.subjects = append(req.subjects, id)
			}
		}
	}

	start, end := q.Get("start"), q.Get("end")
	if start != "" || end != "" {
		if start == "" || end == "" {
			return req, errors.New("start and end must be given together")
		}
		lo, err := strconv.ParseFloat(start, 64)
		if err != nil {
			return req, fmt.Errorf("invalid start: %w", err)
		}
		hi, err := strconv.ParseFloat(end, 64)
		if err != nil {
			return req, fmt.Errorf("invalid end: %w", err)
		}
		req.window = charts.NewTimeWindow(lo, hi)
		req.hasWindow = true
	}

	if v := q.Get("avg"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return req, fmt.Errorf("invalid avg: %w", err)
		}
		req.showAverage = b
	}

	var err error
	if req.width, err = dimension(q.Get("width"), DefaultWidth); err != nil {
		return req, fmt.Errorf("invalid width: %w", err)
	}
	if req.height, err = dimension(q.Get("height"), DefaultHeight); err != nil {
		return req, fmt.Errorf("invalid height: %w", err)
	}
	return req, nil
}

func dimension(v string, def int) (int, error) {
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, err
	}
	if n < minDimension || n > maxDimension {
		return 0, fmt.Errorf("%d outside [%d, %d]", n, minDimension, maxDimension)
	}
	return n, nil
}

func (s *Server) chartHandler(w http.ResponseWriter, r *http.Request) {
	req, err := parseChartRequest(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	e := charts.NewEngine(charts.Config{
		Mode:        s.mode,
		Surface:     charts.DefaultSurface(s.mode, float64(req.width), float64(req.height)),
		Selection:   req.subjects,
		ShowAverage: req.showAverage,
	})
	e.Dispatch(charts.LoadSamples{Samples: s.snapshot()})
	if req.hasWindow {
		e.Dispatch(charts.SetWindow{Window: req.window})
	}

	var buf bytes.Buffer
	if err := render.Export(&buf, req.format, s.title, e); err != nil {
		s.logger.Error("rendering chart failed", "format", req.format, "error", err)
		http.Error(w, "rendering failed", http.StatusInternalServerError)
		return
	}
	s.metrics.Rendered(string(req.format))

	w.Header().Set("Content-Type", req.format.ContentType())
	w.Header().Set("Cache-Control", "no-store")
	_, _ = w.Write(buf.Bytes())
}
