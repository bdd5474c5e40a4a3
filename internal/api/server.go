// Package api provides the HTTP API for paletteview.
package api

import (
	"log/slog"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/paletteview/paletteview-server/internal/export"
	"github.com/paletteview/paletteview-server/internal/ratelimit"
	"github.com/paletteview/paletteview-server/internal/sse"
	"github.com/paletteview/paletteview-server/internal/validation"
)

// Version is reported in the OpenAPI document.
var Version = "dev"

// Options configures a Server.
type Options struct {
	// AllowedOrigins for CORS. Empty allows any origin.
	AllowedOrigins []string
	// ExportLimiter throttles export and render requests per client IP.
	// Nil disables throttling.
	ExportLimiter *ratelimit.KeyedRateLimiter
	// Exporter renders stateless share links.
	Exporter *export.Exporter
}

// Server holds dependencies for HTTP handlers.
type Server struct {
	services      *Services
	router        *chi.Mux
	api           huma.API
	sseManager    *sse.Manager
	sseHandler    *sse.Handler
	exportLimiter *ratelimit.KeyedRateLimiter
	exporter      *export.Exporter
	validator     *validation.Validator
	logger        *slog.Logger
}

// NewServer creates a server with every route registered.
func NewServer(services *Services, sseManager *sse.Manager, opts Options, logger *slog.Logger) *Server {
	router := chi.NewRouter()

	s := &Server{
		services:      services,
		router:        router,
		sseManager:    sseManager,
		exportLimiter: opts.ExportLimiter,
		exporter:      opts.Exporter,
		validator:     validation.New(),
		logger:        logger,
	}
	if sseManager != nil {
		s.sseHandler = sse.NewHandler(sseManager, logger)
	}
	if s.exporter == nil {
		s.exporter = export.New(export.Config{}, logger)
	}

	s.setupMiddleware(opts.AllowedOrigins)

	humaConfig := huma.DefaultConfig("PaletteView API", Version)
	humaConfig.Info.Description = "Palette browsing, view sessions and PNG export"
	humaConfig.Transformers = append(humaConfig.Transformers, EnvelopeTransformer)
	s.api = humachi.New(router, humaConfig)
	RegisterErrorHandler()

	s.registerHealthRoutes()
	s.registerPaletteRoutes()
	s.registerStyleRoutes()
	s.registerExportRoutes()
	s.registerViewRoutes()
	s.registerDraftRoutes()
	s.registerEventRoutes()

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// API returns the huma API, for tests and OpenAPI export.
func (s *Server) API() huma.API {
	return s.api
}

func (s *Server) setupMiddleware(origins []string) {
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(requestLogger(s.logger))
	s.router.Use(middleware.Recoverer)
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"Content-Disposition", "Retry-After", "X-Blurhash"},
		AllowCredentials: false,
		MaxAge:           300,
	}))
	s.router.Use(middleware.Compress(5))
}
