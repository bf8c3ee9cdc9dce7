package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"mamoritalk-ai/internal/api/handlers"
	apimiddleware "mamoritalk-ai/internal/api/middleware"
	"mamoritalk-ai/internal/config"
	"mamoritalk-ai/internal/infrastructure/cache"
	"mamoritalk-ai/pkg/logger"
)

// Router holds dependencies for the API router
type Router struct {
	config   config.Config
	handlers *handlers.Handlers
	cache    *cache.RedisCache
	logger   *logger.Logger
}

// NewRouter creates a new Router instance
func NewRouter(cfg config.Config, h *handlers.Handlers, c *cache.RedisCache, log *logger.Logger) *Router {
	return &Router{
		config:   cfg,
		handlers: h,
		cache:    c,
		logger:   log.WithComponent("router"),
	}
}

// Setup sets up the Chi router with all routes and middleware
func (r *Router) Setup() http.Handler {
	router := chi.NewRouter()

	// Core middleware
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(apimiddleware.Logger(r.logger))
	router.Use(middleware.Recoverer)
	router.Use(middleware.Timeout(30 * time.Second))

	// CORS
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   r.config.CORS.AllowedOrigins,
		AllowedMethods:   r.config.CORS.AllowedMethods,
		AllowedHeaders:   r.config.CORS.AllowedHeaders,
		AllowCredentials: r.config.CORS.AllowCredentials,
		MaxAge:           r.config.CORS.MaxAge,
	}))

	// Rate limiting needs Redis
	if r.config.RateLimit.Enabled && r.cache != nil {
		router.Use(apimiddleware.RateLimiter(r.cache, r.config.RateLimit))
	}

	// Public routes
	router.Group(func(pub chi.Router) {
		pub.Get("/health", r.handlers.Health.Check)
		pub.Get("/ready", r.handlers.Health.Ready)
	})

	// API v1 routes
	router.Route("/api/v1", func(api chi.Router) {
		if r.config.Auth.Enabled {
			api.Use(apimiddleware.APIKeyAuth(r.config.Auth.APIKey))
		}

		// Conversation analysis
		api.Route("/analyze", func(analyze chi.Router) {
			analyze.Post("/conversation", r.handlers.Conversation.Analyze)
			analyze.Post("/quick-check", r.handlers.Conversation.QuickCheck)
			analyze.Post("/conversation-summary", r.handlers.Summary.Summarize)
			analyze.Post("/call-metadata", r.handlers.Metadata.Analyze)
		})

		// Dark job checking
		api.Route("/check", func(check chi.Router) {
			check.Post("/dark-job", r.handlers.DarkJob.Check)
			check.Post("/dark-job-image", r.handlers.DarkJob.CheckImage)
		})

		// Regional advice
		api.Post("/advice/regional", r.handlers.Advice.Generate)

		// Pattern tables
		api.Get("/patterns", r.handlers.Patterns.Get)

		// Real-time alert stream
		api.Get("/alerts/stream", r.handlers.Alerts.Stream)
		api.Get("/alerts/stats", r.handlers.Alerts.Stats)
	})

	return router
}
