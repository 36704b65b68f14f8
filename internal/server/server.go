// Package server exposes the render pipeline over HTTP.
//
// Routes:
//
//	GET  /health   build information and liveness
//	POST /render   render a posted scene (JSON, or TOML by Content-Type)
//
// POST /render accepts the query parameters format (one of the pipeline
// formats, default svg), elements, labels, detailed, scale and scroll (x,y).
// The response body is the artifact; X-Relline-Drawn and X-Relline-Skipped
// report the draw pass and X-Cache tells whether the artifact was cached.
// Failures are JSON objects {"error": CODE, "message": text}.
package server

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"net/http"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/relline/pkg/buildinfo"
	"github.com/matzehuels/relline/pkg/errors"
	"github.com/matzehuels/relline/pkg/geom"
	pkgio "github.com/matzehuels/relline/pkg/io"
	"github.com/matzehuels/relline/pkg/pipeline"
)

const (
	serviceName = "relline"

	// DefaultMaxBodyBytes limits posted scenes when no limit is set.
	DefaultMaxBodyBytes = 1 << 20

	shutdownTimeout = 10 * time.Second
)

// Response headers set by POST /render.
const (
	HeaderRequestID = "X-Request-ID"
	HeaderDrawn     = "X-Relline-Drawn"
	HeaderSkipped   = "X-Relline-Skipped"
	HeaderCache     = "X-Cache"
)

// Option configures a Server.
type Option func(*Server)

// WithMaxBodyBytes limits the size of posted scenes.
func WithMaxBodyBytes(n int64) Option { return func(s *Server) { s.maxBody = n } }

// WithDefaults sets the pipeline options requests start from. Query
// parameters override them.
func WithDefaults(o pipeline.Options) Option { return func(s *Server) { s.defaults = o } }

// Server renders scenes posted over HTTP.
type Server struct {
	runner   *pipeline.Runner
	logger   *log.Logger
	maxBody  int64
	defaults pipeline.Options
}

// New returns a server rendering through runner.
func New(runner *pipeline.Runner, logger *log.Logger, opts ...Option) *Server {
	if logger == nil {
		logger = log.Default()
	}
	s := &Server{runner: runner, logger: logger, maxBody: DefaultMaxBodyBytes}
	for _, opt := range opts {
		opt(s)
	}
	if s.maxBody <= 0 {
		s.maxBody = DefaultMaxBodyBytes
	}
	return s
}

// Handler returns the router with middleware installed.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)

	r.Get("/health", s.handleHealth)
	r.Post("/render", s.handleRender)
	return r
}

// Serve listens on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Serve(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Infof("Listening on %s", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if stderrors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.logger.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !stderrors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

type healthResp struct {
	OK      bool           `json:"ok"`
	Service string         `json:"service"`
	Build   buildinfo.Info `json:"build"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, healthResp{OK: true, Service: serviceName, Build: buildinfo.Get()})
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	opts, err := s.renderOptions(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	body := http.MaxBytesReader(w, r.Body, s.maxBody)
	sc, err := pkgio.ReadScene(body, sceneFormat(r.Header.Get("Content-Type")))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	result, err := s.runner.Render(r.Context(), sc, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	format := opts.Formats[0]
	cacheStatus := "MISS"
	if slices.Contains(result.Cached, format) {
		cacheStatus = "HIT"
	}
	h := w.Header()
	h.Set("Content-Type", pipeline.ContentType(format))
	h.Set(HeaderDrawn, strconv.Itoa(result.Stats.Drawn))
	h.Set(HeaderSkipped, strconv.Itoa(result.Stats.Skipped))
	h.Set(HeaderCache, cacheStatus)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(result.Artifacts[format]); err != nil {
		s.logger.Debugf("Write response: %v", err)
	}
}

// renderOptions applies the query parameters to the server defaults.
func (s *Server) renderOptions(r *http.Request) (pipeline.Options, error) {
	q := r.URL.Query()
	opts := s.defaults
	opts.Logger = s.logger

	format := strings.ToLower(strings.TrimSpace(q.Get("format")))
	if format == "" {
		format = pipeline.FormatSVG
	}
	if err := pipeline.ValidateFormats([]string{format}); err != nil {
		return opts, err
	}
	opts.Formats = []string{format}

	for name, dst := range map[string]*bool{
		"elements": &opts.Elements,
		"labels":   &opts.Labels,
		"detailed": &opts.Detailed,
	} {
		if v := q.Get(name); v != "" {
			b, err := strconv.ParseBool(v)
			if err != nil {
				return opts, errors.New(errors.ErrCodeInvalidInput, "%s must be a boolean, got %q", name, v)
			}
			*dst = b
		}
	}
	if v := q.Get("scale"); v != "" {
		scale, err := strconv.ParseFloat(v, 64)
		if err != nil || scale <= 0 {
			return opts, errors.New(errors.ErrCodeInvalidInput, "scale must be a positive number, got %q", v)
		}
		opts.Scale = scale
	}
	if v := q.Get("scroll"); v != "" {
		pt, err := geom.ParsePoint(v)
		if err != nil {
			return opts, errors.Wrap(errors.ErrCodeInvalidInput, err, "scroll")
		}
		opts.Scroll = &pt
	}
	return opts, nil
}

// sceneFormat picks the scene decoder from the request content type.
func sceneFormat(contentType string) pkgio.Format {
	if strings.Contains(strings.ToLower(contentType), "toml") {
		return pkgio.FormatTOML
	}
	return pkgio.FormatJSON
}

type errorResp struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, code := statusOf(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("Render failed", "path", r.URL.Path, "request_id", r.Header.Get(HeaderRequestID), "err", err)
	}
	writeJSON(w, status, errorResp{Error: code, Message: errors.UserMessage(err)})
}

// statusOf maps an error to its HTTP status and error code.
func statusOf(err error) (int, string) {
	var tooLarge *http.MaxBytesError
	if stderrors.As(err, &tooLarge) {
		return http.StatusRequestEntityTooLarge, "BODY_TOO_LARGE"
	}
	code := errors.GetCode(err)
	switch code {
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidScene, errors.ErrCodeInvalidFormat,
		errors.ErrCodeInvalidConfig, errors.ErrCodeInvalidPath:
		return http.StatusBadRequest, string(code)
	case errors.ErrCodeBoundNotFound:
		return http.StatusUnprocessableEntity, string(code)
	case errors.ErrCodeFileNotFound:
		return http.StatusNotFound, string(code)
	case "":
		if stderrors.Is(err, context.Canceled) || stderrors.Is(err, context.DeadlineExceeded) {
			return http.StatusServiceUnavailable, "CANCELED"
		}
		return http.StatusInternalServerError, string(errors.ErrCodeInternal)
	}
	return http.StatusInternalServerError, string(code)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
