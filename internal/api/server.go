// Package api exposes the advertisement service over HTTP.
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/kkkkikiki/advert/internal/model"
	"github.com/kkkkikiki/advert/internal/service"
)

// ParticipationService is the coordinator surface the API consumes.
type ParticipationService interface {
	Participate(ctx context.Context, advertisementID, userID uuid.UUID) (*service.ParticipationResult, error)
	History(ctx context.Context, userID uuid.UUID, from, to time.Time, page, size int) ([]model.Participation, error)
}

// AdvertisementService manages advertisement creation and listing.
type AdvertisementService interface {
	Create(ctx context.Context, in service.CreateAdvertisementInput) (*model.Advertisement, error)
	ListActive(ctx context.Context, page, size int) ([]model.Advertisement, error)
}

// UserService is the user directory surface the API consumes.
type UserService interface {
	Create(ctx context.Context, name string) (*model.User, error)
}

// HealthChecker reports whether the backing stores are reachable.
type HealthChecker interface {
	Ping(ctx context.Context) error
}

// Server is the HTTP API server
type Server struct {
	router         *chi.Mux
	participations ParticipationService
	advertisements AdvertisementService
	users          UserService
	health         HealthChecker
}

// NewServer creates a new API server
func NewServer(participations ParticipationService, advertisements AdvertisementService, users UserService, health HealthChecker) *Server {
	s := &Server{
		router:         chi.NewRouter(),
		participations: participations,
		advertisements: advertisements,
		users:          users,
		health:         health,
	}

	s.setupRoutes()
	return s
}

// setupRoutes configures the HTTP routes
func (s *Server) setupRoutes() {
	// Middleware
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(middleware.Recoverer)

	// Health checks
	s.router.Get("/health", s.handleHealth)
	s.router.Get("/health/db", s.handleHealthDB)

	// Prometheus metrics
	s.router.Handle("/metrics", promhttp.Handler())

	// API v1 routes
	s.router.Route("/api/v1", func(r chi.Router) {
		r.Post("/advertisements", s.handleCreateAdvertisement)
		r.Get("/advertisements", s.handleListAdvertisements)
		r.Post("/participations", s.handleParticipate)
		r.Post("/users", s.handleCreateUser)
		r.Get("/users/{id}/participations", s.handleHistory)
	})
}

// Handler returns the root HTTP handler
func (s *Server) Handler() http.Handler {
	return s.router
}
