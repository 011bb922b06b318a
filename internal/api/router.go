package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog/log"

	"github.com/promptcanvas/promptcanvas/internal/api/handler"
	customMiddleware "github.com/promptcanvas/promptcanvas/internal/api/middleware"
	"github.com/promptcanvas/promptcanvas/internal/config"
	"github.com/promptcanvas/promptcanvas/internal/domain"
	"github.com/promptcanvas/promptcanvas/internal/genai/gemini"
	"github.com/promptcanvas/promptcanvas/internal/repository/memory"
	redisrepo "github.com/promptcanvas/promptcanvas/internal/repository/redis"
	"github.com/promptcanvas/promptcanvas/internal/service"
	"github.com/promptcanvas/promptcanvas/internal/theme"
)

// NewRouter creates and configures the HTTP router. redisClient may be nil,
// in which case artifacts are served from process memory.
func NewRouter(cfg *config.Config, redisClient *redisrepo.Client) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(customMiddleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(cfg.Server.MiddlewareTimeout))

	// CORS
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Stores
	threadStore := memory.NewThreadRegistry()

	var artifactStore domain.ArtifactStore = memory.NewArtifactStore()
	if redisClient != nil {
		log.Info().Dur("ttl", cfg.Redis.ArtifactTTL).Msg("Serving artifacts from Redis")
		artifactStore = redisrepo.NewArtifactStore(redisClient, cfg.Redis.ArtifactTTL)
	}

	themeStore := theme.NewStore(cfg.Themes.Dir)

	// Generation backend
	if cfg.Gemini.APIKey == "" {
		log.Warn().Msg("GEMINI_API_KEY is empty; generation calls will fail until it is set")
	}
	generator := gemini.NewClient(cfg.Gemini)

	// Core service
	studio := service.NewStudioService(threadStore, artifactStore, themeStore, generator)

	// Handlers
	generateHandler := handler.NewGenerateHandler(studio)
	threadHandler := handler.NewThreadHandler(studio)
	themeHandler := handler.NewThemeHandler(themeStore)
	artifactHandler := handler.NewArtifactHandler(artifactStore)

	sessionMiddleware := customMiddleware.NewSessionMiddleware(cfg.Session)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", handler.HealthCheck)

		// Artifact locators embed the session namespace, so serving them
		// needs no cookie.
		r.Get("/artifacts/{sessionID}/{artifactID}", artifactHandler.Get)

		r.Get("/themes", themeHandler.List)
		r.Get("/themes/{name}", themeHandler.Get)

		// Session-scoped routes
		r.Group(func(r chi.Router) {
			r.Use(sessionMiddleware.Identify)

			r.Post("/generate", generateHandler.Generate)

			r.Route("/threads", func(r chi.Router) {
				r.Get("/", threadHandler.List)
				r.Route("/{threadID}", func(r chi.Router) {
					r.Get("/messages", threadHandler.Messages)
					r.Post("/fork", threadHandler.Fork)
					r.Delete("/", threadHandler.Delete)
				})
			})
		})
	})

	return r
}
