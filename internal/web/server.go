// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package web serves the single-page UI and its small JSON API.
package web

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"html/template"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/pdiddy/rejected-theories/internal/metrics"
	"github.com/pdiddy/rejected-theories/internal/view"
	"github.com/pdiddy/rejected-theories/pkg/types"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

// Options wires a Server.
type Options struct {
	Config   types.Config
	Fetcher  view.Fetcher
	Logger   *zap.Logger
	Registry *prometheus.Registry
	Metrics  *metrics.Metrics
	// Now overrides the clock used for year validation.
	Now func() time.Time
}

// Server renders the view state of each browser session.
type Server struct {
	cfg      types.Config
	fetcher  view.Fetcher
	logger   *zap.Logger
	registry *prometheus.Registry
	metrics  *metrics.Metrics
	now      func() time.Time
	tmpl     *template.Template
	sessions *Sessions

	// fetchCtx bounds background fetches started by form submits; it
	// outlives the request that started them.
	fetchCtx context.Context
}

// NewServer parses the templates and builds the session table.
func NewServer(opts Options) (*Server, error) {
	tmpl, err := template.New("").Funcs(templateFuncs).ParseFS(templateFS, "templates/*.tmpl")
	if err != nil {
		return nil, err
	}

	s := &Server{
		cfg:      opts.Config,
		fetcher:  opts.Fetcher,
		logger:   opts.Logger,
		registry: opts.Registry,
		metrics:  opts.Metrics,
		now:      opts.Now,
		tmpl:     tmpl,
		fetchCtx: context.Background(),
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.registry == nil {
		s.registry = prometheus.NewRegistry()
	}
	s.sessions = NewSessions(s.cfg.Server.MaxSessions, s.cfg.Server.SessionTTL, s.newController)
	return s, nil
}

func (s *Server) newController() *view.Controller {
	return view.NewController(s.fetcher,
		view.WithLogger(s.logger),
		view.WithMetrics(s.metrics),
		view.WithClock(s.now),
	)
}

// Handler returns the routed handler.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(requestLogger(s.logger))
	r.Use(chimiddleware.Recoverer)

	r.Get("/", s.handleIndex)
	r.Post("/", s.handleSubmit)
	r.Get("/healthz", s.handleHealth)
	r.Handle("/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))

	r.Route("/api", func(r chi.Router) {
		r.Use(cors.New(cors.Options{
			AllowedOrigins: s.cfg.Server.AllowedOrigins,
			AllowedMethods: []string{http.MethodGet},
		}).Handler)
		r.Get("/state", s.handleState)
		r.Get("/theories", s.handleTheories)
	})

	return r
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	s.fetchCtx = ctx

	srv := &http.Server{
		Addr:         s.cfg.Server.Addr,
		Handler:      s.Handler(),
		ReadTimeout:  s.cfg.Server.ReadTimeout,
		WriteTimeout: s.cfg.Server.WriteTimeout,
	}

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.logger.Info("listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		s.logger.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

type pageData struct {
	State     view.ViewState
	Animation types.AnimationConfig
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	ctrl := s.sessions.Controller(w, r)
	if year := r.URL.Query().Get("year"); year != "" && !ctrl.Snapshot().Loading {
		ctrl.Prefill(year)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	data := pageData{State: ctrl.Snapshot(), Animation: s.cfg.Animation}
	if err := s.tmpl.ExecuteTemplate(w, "index.html.tmpl", data); err != nil {
		s.logger.Error("rendering page", zap.Error(err))
	}
}

func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}
	ctrl := s.sessions.Controller(w, r)
	// Invalid input is reported through the view state.
	_ = ctrl.OnSubmit(s.fetchCtx, r.PostFormValue("year"))
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	ctrl := s.sessions.Controller(w, r)
	writeJSON(w, http.StatusOK, ctrl.Snapshot())
}

type theoriesResponse struct {
	Year    int                   `json:"year"`
	Results []types.DisplayRecord `json:"results"`
	Message string                `json:"message,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// handleTheories runs one lookup synchronously, outside any session.
func (s *Server) handleTheories(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	year, err := view.ParseYear(r.URL.Query().Get("year"), s.now())
	if err != nil {
		s.metrics.ObserveFetch(metrics.OutcomeInvalid, 0)
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: view.MsgInvalidYear})
		return
	}

	records, err := s.fetcher.FetchTheories(r.Context(), year)
	if err != nil {
		s.metrics.ObserveFetch(metrics.OutcomeFailure, time.Since(start))
		writeJSON(w, http.StatusBadGateway, errorResponse{Error: view.MsgRetrieval})
		return
	}

	resp := theoriesResponse{Year: year, Results: records}
	if len(records) == 0 {
		resp.Results = []types.DisplayRecord{}
		resp.Message = view.MsgNoResults
		s.metrics.ObserveFetch(metrics.OutcomeEmpty, time.Since(start))
	} else {
		s.metrics.ObserveFetch(metrics.OutcomeSuccess, time.Since(start))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte("ok\n"))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
