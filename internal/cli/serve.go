package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/cobra"

	"github.com/tmengistu/stratum/pkg/buildinfo"
	"github.com/tmengistu/stratum/pkg/cache"
	stratumerrors "github.com/tmengistu/stratum/pkg/errors"
	"github.com/tmengistu/stratum/pkg/pipeline"
	"github.com/tmengistu/stratum/pkg/render"
	"github.com/tmengistu/stratum/pkg/source"
	"github.com/tmengistu/stratum/pkg/takeoff"
)

// serveOpts holds the command-line flags for the serve command.
type serveOpts struct {
	sourceOpts

	addr      string // listen address
	redisAddr string // redis cache address
	noCache   bool   // disable caching
	scope     string // cache key prefix for shared backends
}

// newServeCmd creates the serve command: the takeoff pipeline exposed
// as a small HTTP API.
func newServeCmd() *cobra.Command {
	opts := serveOpts{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the takeoff pipeline over HTTP",
		Long: `Serve starts an HTTP API around the takeoff pipeline:

  POST /api/takeoff          run a takeoff and return the records
  GET  /api/models           list stored models (mongo source)
  GET  /api/models/{name}    fetch a model snapshot
  GET  /healthz              liveness check

Requests run independently against the shared cache; use --scope to
keep deployments apart when several instances share one Redis.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), &opts)
		},
	}

	cmd.Flags().StringVar(&opts.addr, "addr", ":8080", "listen address")
	addSourceFlags(cmd, &opts.sourceOpts)
	cmd.Flags().StringVar(&opts.redisAddr, "redis", os.Getenv("STRATUM_REDIS_ADDR"), "redis address for a shared cache")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")
	cmd.Flags().StringVar(&opts.scope, "scope", "", "cache key prefix for shared backends")

	return cmd
}

// runServe wires the server and blocks until the context is cancelled.
func runServe(ctx context.Context, opts *serveOpts) error {
	logger := loggerFromContext(ctx)

	src, closeSrc, err := opts.sourceOpts.open(ctx)
	if err != nil {
		return err
	}
	defer closeSrc()

	c, err := openServeCache(ctx, opts)
	if err != nil {
		return err
	}

	var keyer cache.Keyer
	if opts.scope != "" {
		keyer = cache.NewScopedKeyer(nil, opts.scope+":")
	}

	srv := &server{
		runner:     pipeline.NewRunner(c, keyer, logger),
		source:     src,
		sourceName: opts.sourceName,
		logger:     logger,
	}
	defer srv.runner.Close()

	httpSrv := &http.Server{
		Addr:              opts.addr,
		Handler:           srv.routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", opts.addr, "source", opts.sourceName)
		errCh <- httpSrv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return httpSrv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

// openServeCache builds the server's cache backend: redis when --redis
// is set, a file cache by default, and a null cache with --no-cache.
func openServeCache(ctx context.Context, opts *serveOpts) (cache.Cache, error) {
	if opts.noCache {
		return cache.NewNullCache(), nil
	}
	if opts.redisAddr != "" {
		return cache.NewRedisCache(ctx, cache.RedisConfig{Addr: opts.redisAddr})
	}
	dir, err := cacheDir()
	if err != nil {
		return nil, fmt.Errorf("get cache dir: %w", err)
	}
	return cache.NewFileCache(dir)
}

// server holds the API's shared state. The runner is safe for
// concurrent use, so handlers share one instance.
type server struct {
	runner     *pipeline.Runner
	source     source.Source
	sourceName string
	logger     *log.Logger
}

// routes builds the chi router.
func (s *server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealthz)
	r.Route("/api", func(r chi.Router) {
		r.Post("/takeoff", s.handleTakeoff)
		r.Get("/models", s.handleListModels)
		r.Get("/models/{name}", s.handleGetModel)
	})

	return r
}

// requestLogger logs each request with the structured logger.
func (s *server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()))
	})
}

// takeoffRequest is the POST /api/takeoff body.
type takeoffRequest struct {
	Model    string   `json:"model"`
	Elements []int64  `json:"elements,omitempty"`
	All      bool     `json:"all,omitempty"`
	Formats  []string `json:"formats,omitempty"`
	Refresh  bool     `json:"refresh,omitempty"`
}

// takeoffResponse is the POST /api/takeoff reply. Artifacts carry the
// non-JSON renderings base64-encoded.
type takeoffResponse struct {
	RunID     string             `json:"run_id"`
	Model     string             `json:"model"`
	Records   []takeoff.Record   `json:"records"`
	Stats     pipeline.Stats     `json:"stats"`
	Cache     pipeline.CacheInfo `json:"cache"`
	Artifacts map[string][]byte  `json:"artifacts,omitempty"`
}

func (s *server) handleTakeoff(w http.ResponseWriter, r *http.Request) {
	var req takeoffRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, r, stratumerrors.Wrap(stratumerrors.ErrCodeInvalidModel, err, "decoding request body"))
		return
	}

	formats := req.Formats
	if len(formats) == 0 {
		formats = []string{render.FormatJSON}
	}

	result, err := s.runner.Execute(r.Context(), pipeline.Options{
		Model:      req.Model,
		SourceName: s.sourceName,
		Refresh:    req.Refresh,
		Elements:   req.Elements,
		All:        req.All,
		Formats:    formats,
		Source:     s.source,
		Logger:     s.logger,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	resp := takeoffResponse{
		RunID:   result.RunID,
		Model:   result.Model,
		Records: result.Records,
		Stats:   result.Stats,
		Cache:   result.CacheInfo,
	}
	for format, data := range result.Artifacts {
		if format == render.FormatJSON {
			continue // records are already in the response
		}
		if resp.Artifacts == nil {
			resp.Artifacts = make(map[string][]byte)
		}
		resp.Artifacts[format] = data
	}

	s.writeJSON(w, http.StatusOK, resp)
}

func (s *server) handleGetModel(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	snap, err := s.source.Load(r.Context(), name)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, snap)
}

// lister is satisfied by sources that can enumerate stored models.
type lister interface {
	List(ctx context.Context) ([]string, error)
}

func (s *server) handleListModels(w http.ResponseWriter, r *http.Request) {
	ls, ok := s.source.(lister)
	if !ok {
		s.writeError(w, r, stratumerrors.New(stratumerrors.ErrCodeUnsupported,
			"source %q does not support listing models", s.sourceName))
		return
	}
	names, err := ls.List(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if names == nil {
		names = []string{}
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"models": names})
}

func (s *server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": buildinfo.Version,
	})
}

// errorResponse is the JSON error envelope.
type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func (s *server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	code := stratumerrors.GetCode(err)
	status := statusForCode(code)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "path", r.URL.Path, "err", err)
	}
	s.writeJSON(w, status, errorResponse{
		Error: stratumerrors.UserMessage(err),
		Code:  string(code),
	})
}

// statusForCode maps takeoff error codes to HTTP statuses.
func statusForCode(code stratumerrors.Code) int {
	switch code {
	case stratumerrors.ErrCodeInvalidSelection,
		stratumerrors.ErrCodeInvalidFormat,
		stratumerrors.ErrCodeInvalidModel,
		stratumerrors.ErrCodeInvalidSource:
		return http.StatusBadRequest
	case stratumerrors.ErrCodeNotFound,
		stratumerrors.ErrCodeModelNotFound,
		stratumerrors.ErrCodeFileNotFound:
		return http.StatusNotFound
	case stratumerrors.ErrCodeUnsupported:
		return http.StatusNotImplemented
	default:
		return http.StatusInternalServerError
	}
}

func (s *server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("writing response", "err", err)
	}
}
