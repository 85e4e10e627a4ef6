package server

import (
	"context"
	"errors"
	"fmt"
	"francoggm/donations-go-redis/internal/app/server/handlers"
	"francoggm/donations-go-redis/internal/config"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Server struct {
	cfg      *config.Config
	router   *chi.Mux
	handlers *handlers.Handlers
	http     *http.Server
}

func NewServer(cfg *config.Config, h *handlers.Handlers) *Server {
	srv := &Server{
		cfg:      cfg,
		router:   chi.NewRouter(),
		handlers: h,
	}

	srv.registerRoutes()
	srv.http = &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:           srv.router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	return srv
}

func (s *Server) registerRoutes() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.Recoverer)

	s.router.Get("/healthz", s.handlers.Health)
	s.router.Handle("/metrics", promhttp.Handler())

	s.router.Post("/donations", s.handlers.ProcessDonation)
	s.router.Get("/frequencies", s.handlers.ListFrequencies)
	s.router.Get("/frequencies/{frequencyID}/providers", s.handlers.ListProviders)
	s.router.Get("/forms/{webformID}", s.handlers.BuildForm)
	s.router.Get("/reports", s.handlers.ListReports)
	s.router.Get("/reports/*", s.handlers.GetReport)
}

func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) Run() error {
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}
