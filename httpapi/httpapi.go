// Package httpapi exposes the extraction core over a small read-only REST
// facade.
//
// Three operations are served, mirroring the extraction entry points: load a
// FAISS-family store, load a collection store, and auto-detect-then-load.
// Responses carry the canonical dataset payload; failures carry a structured
// error payload with an HTTP status derived from the error kind. Request
// bounds (max_records range, concurrent extractions, request rate) live here,
// at the boundary - never inside the core.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/klauspost/compress/gzhttp"
	"golang.org/x/sync/semaphore"
	"golang.org/x/time/rate"

	vexplore "github.com/hupe1980/vexplore"
	"github.com/hupe1980/vexplore/codec"
	"github.com/hupe1980/vexplore/metadata"
	"github.com/hupe1980/vexplore/model"
)

// Bounds enforced on the max_records query parameter.
const (
	MinMaxRecords     = 1
	MaxMaxRecords     = 10000
	DefaultMaxRecords = vexplore.DefaultMaxRecords
)

// Config tunes the facade. The zero value is not usable; start from
// DefaultConfig.
type Config struct {
	// MaxInflight bounds concurrently running extractions. Each extraction
	// owns its store handle, so this is purely a resource bound.
	MaxInflight int64
	// RequestsPerSecond limits the accepted request rate; zero disables
	// rate limiting.
	RequestsPerSecond float64
	// Burst is the rate limiter burst size.
	Burst int
	// Logger receives request and extraction logs. Nil disables logging.
	Logger *vexplore.Logger
	// Codec encodes response payloads. Nil selects codec.Default.
	Codec codec.Codec
}

// DefaultConfig returns the production defaults.
func DefaultConfig() Config {
	return Config{
		MaxInflight:       4,
		RequestsPerSecond: 50,
		Burst:             100,
	}
}

// API serves the extraction endpoints.
type API struct {
	logger  *vexplore.Logger
	codec   codec.Codec
	sem     *semaphore.Weighted
	limiter *rate.Limiter
}

// New creates an API from cfg.
func New(cfg Config) *API {
	if cfg.Logger == nil {
		cfg.Logger = vexplore.NoopLogger()
	}
	if cfg.Codec == nil {
		cfg.Codec = codec.Default
	}
	if cfg.MaxInflight <= 0 {
		cfg.MaxInflight = 1
	}

	a := &API{
		logger: cfg.Logger,
		codec:  cfg.Codec,
		sem:    semaphore.NewWeighted(cfg.MaxInflight),
	}
	if cfg.RequestsPerSecond > 0 {
		burst := cfg.Burst
		if burst < 1 {
			burst = 1
		}
		a.limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), burst)
	}
	return a
}

// Handler returns the facade's HTTP handler, gzip-encoding responses for
// clients that accept it.
func (a *API) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /", a.handleRoot)
	mux.HandleFunc("GET /healthz", a.handleHealth)
	mux.HandleFunc("GET /api/faiss", a.extractionHandler(vexplore.ExtractFAISS))
	mux.HandleFunc("GET /api/chroma", a.extractionHandler(vexplore.ExtractChroma))
	mux.HandleFunc("GET /api/detect", a.extractionHandler(vexplore.Extract))
	return gzhttp.GzipHandler(mux)
}

// ErrorResponse is the error payload.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

func (a *API) handleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		a.writeError(w, http.StatusNotFound, "not found", "")
		return
	}
	a.writeJSON(w, http.StatusOK, map[string]any{
		"name": "vexplore",
		"endpoints": map[string]string{
			"/":           "this help message",
			"/healthz":    "health check",
			"/api/faiss":  "load FAISS vector store at ?path=",
			"/api/chroma": "load collection store at ?path=",
			"/api/detect": "auto-detect store kind at ?path= and load",
		},
	})
}

func (a *API) handleHealth(w http.ResponseWriter, _ *http.Request) {
	a.writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

// extractFunc is the shared shape of the core's extraction entry points.
type extractFunc func(ctx context.Context, path string, opts ...vexplore.Option) (*model.Dataset, error)

func (a *API) extractionHandler(extract extractFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if a.limiter != nil && !a.limiter.Allow() {
			a.writeError(w, http.StatusTooManyRequests, "rate limit exceeded", "")
			return
		}

		path := r.URL.Query().Get("path")
		if path == "" {
			a.writeError(w, http.StatusBadRequest, "missing required query parameter: path", "")
			return
		}

		maxRecords, err := parseMaxRecords(r.URL.Query().Get("max_records"))
		if err != nil {
			a.writeError(w, http.StatusBadRequest, err.Error(), "")
			return
		}

		if err := a.sem.Acquire(r.Context(), 1); err != nil {
			a.writeError(w, http.StatusServiceUnavailable, "server busy", "")
			return
		}
		defer a.sem.Release(1)

		ds, err := extract(r.Context(), path,
			vexplore.WithMaxRecords(maxRecords),
			vexplore.WithLogger(a.logger),
			vexplore.WithCodec(a.codec),
		)
		if err != nil {
			a.writeExtractionError(w, err)
			return
		}
		a.writeJSON(w, http.StatusOK, ds)
	}
}

func parseMaxRecords(raw string) (int, error) {
	if raw == "" {
		return DefaultMaxRecords, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errors.New("max_records must be an integer")
	}
	if n < MinMaxRecords || n > MaxMaxRecords {
		return 0, errors.New("max_records must be between 1 and 10000")
	}
	return n, nil
}

// writeExtractionError maps the core's error kinds onto HTTP statuses:
// missing paths are 404, a missing engine dependency is 500, everything else
// (unsupported layout, corrupt store, undecodable companion, empty
// collection store) is a 400.
func (a *API) writeExtractionError(w http.ResponseWriter, err error) {
	status := http.StatusBadRequest
	switch {
	case errors.Is(err, vexplore.ErrPathNotFound):
		status = http.StatusNotFound
	case errors.Is(err, vexplore.ErrDependencyMissing):
		status = http.StatusInternalServerError
	}

	var details string
	var parseErr *metadata.ParseError
	if errors.As(err, &parseErr) {
		details = parseErr.Path
	}

	a.writeError(w, status, err.Error(), details)
}

func (a *API) writeError(w http.ResponseWriter, status int, msg, details string) {
	a.writeJSON(w, status, ErrorResponse{Error: msg, Details: details})
}

func (a *API) writeJSON(w http.ResponseWriter, status int, v any) {
	body, err := a.codec.Marshal(v)
	if err != nil {
		a.logger.Error("response encoding failed", "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(body); err != nil {
		a.logger.Debug("response write failed", "error", err)
	}
}
