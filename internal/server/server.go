// Package server exposes the etymology fetch over HTTP.
package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/raphaelgruber/etymon/internal/metrics"
	"github.com/raphaelgruber/etymon/internal/models"
	"github.com/raphaelgruber/etymon/internal/schema"
	"github.com/raphaelgruber/etymon/internal/service"
)

// Options configures a Server.
type Options struct {
	Logger *slog.Logger

	// DefaultLanguage is used when a request omits the language.
	DefaultLanguage string

	// AllowedOrigins for CORS. Empty allows any origin.
	AllowedOrigins []string

	// Registry receives HTTP metrics and is served at /metrics.
	// Nil disables /metrics.
	Registry *prometheus.Registry

	// Stats reports runtime statistics at /api/stats. Nil disables the route.
	Stats *metrics.Collector
}

// Server routes HTTP requests to a Fetcher.
type Server struct {
	fetcher  service.Fetcher
	opts     Options
	logger   *slog.Logger
	validate *validator.Validate
	router   chi.Router
}

// ErrorResponse is the body of every non-2xx API response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// New creates a server backed by fetcher.
func New(fetcher service.Fetcher, opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if opts.DefaultLanguage == "" {
		opts.DefaultLanguage = models.Languages[0]
	}

	s := &Server{
		fetcher:  fetcher,
		opts:     opts,
		logger:   logger,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
	s.router = s.routes()
	return s
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(LoggingMiddleware(s.logger))
	if s.opts.Registry != nil {
		r.Use(newHTTPMetrics("etymon", s.opts.Registry).middleware)
	}

	origins := s.opts.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID"},
		MaxAge:         300,
	}))

	r.Get("/health", s.health)
	if s.opts.Registry != nil {
		r.Handle("/metrics", promhttp.HandlerFor(s.opts.Registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api", func(r chi.Router) {
		r.Get("/etymology", s.etymology)
		r.Get("/schema", s.schema)
		r.Get("/languages", s.languages)
		if s.opts.Stats != nil {
			r.Get("/stats", s.stats)
		}
	})

	return r
}

func (s *Server) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) etymology(w http.ResponseWriter, r *http.Request) {
	language := r.URL.Query().Get("language")
	if strings.TrimSpace(language) == "" {
		language = s.opts.DefaultLanguage
	}
	q := models.NewQuery(r.URL.Query().Get("word"), language)
	if err := s.validate.Struct(q); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: validationMessage(err)})
		return
	}

	data, err := s.fetcher.Fetch(r.Context(), q.Word, q.Language)
	if err != nil {
		s.logger.Error("etymology lookup failed",
			"word", q.Word,
			"language", q.Language,
			"request_id", chimiddleware.GetReqID(r.Context()),
			"error", err,
		)
		writeJSON(w, http.StatusBadGateway, ErrorResponse{Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, data)
}

func (s *Server) schema(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/schema+json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(schema.JSON())
}

func (s *Server) languages(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, models.Languages)
}

func (s *Server) stats(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.opts.Stats.Snapshot())
}

// validationMessage turns validator errors into a short client message.
func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err.Error()
	}
	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, strings.ToLower(fe.Field()))
	}
	return "missing required parameter: " + strings.Join(fields, ", ")
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
