package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/rpupo63/research-project-pages/auth"
	"github.com/rpupo63/research-project-pages/config"
	"github.com/rpupo63/research-project-pages/database"
	"github.com/rpupo63/research-project-pages/storage"
	"github.com/rs/zerolog/log"
)

type Server struct {
	*http.Server
	startupTime time.Time
}

func NewServer(cfg *config.Config, database database.Database, sessions *auth.Manager, uploader storage.Uploader) (Server, error) {
	address := fmt.Sprintf("0.0.0.0:%s", cfg.Port) // Bind to 0.0.0.0 for external access

	// Capture startup time
	startupTime := time.Now()

	router, err := newRouter(database, sessions,
		withConfig(cfg),
		withUploader(uploader),
		withStartupTime(startupTime),
	)
	if err != nil {
		return Server{}, err
	}

	server := &http.Server{
		Addr:         address,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout(),  // Timeout for reading the entire request
		WriteTimeout: cfg.WriteTimeout(), // Timeout for writing the response
		IdleTimeout:  cfg.IdleTimeout(),  // Timeout for idle connections
	}

	return Server{server, startupTime}, nil
}

type router struct {
	config      *config.Config
	uploader    storage.Uploader
	startupTime time.Time
}

func withConfig(c *config.Config) func(*router) {
	return func(r *router) {
		r.config = c
	}
}

func withUploader(u storage.Uploader) func(*router) {
	return func(r *router) {
		r.uploader = u
	}
}

func withStartupTime(startupTime time.Time) func(*router) {
	return func(r *router) {
		r.startupTime = startupTime
	}
}

func newRouter(database database.Database, sessions *auth.Manager, opts ...func(*router)) (*chi.Mux, error) {
	router := router{config: &config.Config{}}
	for _, opt := range opts {
		opt(&router)
	}

	views, err := loadViews()
	if err != nil {
		return nil, err
	}

	chiRouter := chi.NewRouter()
	chiRouter.Use(LogInternalServerErrors)
	chiRouter.Use(requestID)

	if origins := router.config.Origins(); len(origins) > 0 {
		chiRouter.Use(cors.Handler(cors.Options{
			AllowedOrigins:   origins,
			AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
			AllowedHeaders:   []string{"Content-Type", "X-Request-ID", csrfHeader},
			ExposedHeaders:   []string{csrfHeader},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}

	metrics := newMetrics(database)
	chiRouter.Use(metrics.instrument)
	chiRouter.Method(http.MethodGet, "/metrics", metrics.handler())

	// Initialize all handlers
	handlers := initializeHandlers(database, sessions, views, router.uploader, router.startupTime)

	authMiddleware := newAuthMiddleware(sessions, database.UserRepo(), views)

	setupRoutes(chiRouter, handlers, authMiddleware, newCSRFGuard(sessions, views))

	return chiRouter, nil
}

func (s Server) Start(errChannel chan<- error) {
	log.Info().Msgf("Server started on: %s", s.Addr)
	errChannel <- s.ListenAndServe()
}

func (s Server) ShutdownGracefully(timeout time.Duration) error {
	log.Info().Msg("Gracefully shutting down...")

	gracefullCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := s.Shutdown(gracefullCtx); err != nil {
		log.Error().Msgf("Error shutting down the server: %v", err)
		return err
	}
	log.Info().Msg("HttpServer gracefully shut down")
	return nil
}
