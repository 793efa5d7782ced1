// Package api provides the HTTP API server and handlers for the Leitura application.
package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/leituraapp/leitura-server/internal/config"
	"github.com/leituraapp/leitura-server/internal/store"
	"github.com/leituraapp/leitura-server/internal/validation"
)

// apiVersion is the OpenAPI document version, not the URL version.
const apiVersion = "1.0.0"

// Server holds dependencies for HTTP handlers.
type Server struct {
	store           *store.Store
	services        *Services
	router          *chi.Mux
	api             huma.API
	logger          *slog.Logger
	validate        *validation.Validator
	authRateLimiter *RateLimiter
}

// NewServer creates a new HTTP server with all routes configured.
func NewServer(store *store.Store, services *Services, cfg *config.Config, logger *slog.Logger) *Server {
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(middleware.Compress(5))
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.Server.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	router.Use(authMiddleware(services.Auth))

	humaConfig := huma.DefaultConfig(cfg.Server.Name+" API", apiVersion)
	humaConfig.Components.SecuritySchemes = map[string]*huma.SecurityScheme{
		"bearer": {
			Type:         "http",
			Scheme:       "bearer",
			BearerFormat: "PASETO",
		},
	}
	humaConfig.Transformers = append(humaConfig.Transformers, EnvelopeTransformer)

	api := humachi.New(router, humaConfig)
	RegisterErrorHandler()

	s := &Server{
		store:           store,
		services:        services,
		router:          router,
		api:             api,
		logger:          logger,
		validate:        validation.New(),
		authRateLimiter: NewRateLimiter(20, time.Minute, 10),
	}

	s.registerHealthRoutes()
	s.registerAuthRoutes()
	s.registerCatalogRoutes()
	s.registerShelfRoutes()
	s.registerProgressRoutes()
	s.registerGoalRoutes()
	s.registerChallengeRoutes()
	s.registerClubRoutes()
	s.registerAnnotationRoutes()
	s.registerImportRoutes()

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}
