// Package server wires the router, middleware, and handlers, and owns the
// process lifecycle: it connects the store at startup and disconnects it
// after a graceful shutdown.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/sakif/mesto-api/internal/auth"
	"github.com/sakif/mesto-api/internal/handler"
	"github.com/sakif/mesto-api/internal/middleware"
	"github.com/sakif/mesto-api/internal/repository"
	mongorepo "github.com/sakif/mesto-api/internal/repository/mongo"
	"github.com/sakif/mesto-api/internal/service"
)

// Config holds everything the server needs from the environment: the
// listening port, the store address, and the token signing secret. It is
// built once in main and injected — no ambient globals.
type Config struct {
	Port           int
	MongoURI       string
	MongoDB        string
	JWTSecret      string
	AllowedOrigins []string
}

// Server owns the router and the store connection.
type Server struct {
	router *chi.Mux
	config Config
	logger *slog.Logger
	db     *mongorepo.DB
}

// New connects the store and assembles the full dependency chain:
// store → services → handlers → routes.
func New(ctx context.Context, cfg Config, logger *slog.Logger) (*Server, error) {
	db, err := mongorepo.New(ctx, cfg.MongoURI, cfg.MongoDB)
	if err != nil {
		return nil, fmt.Errorf("opening store: %w", err)
	}

	router, err := NewRouter(cfg, db.Users, db.Cards, logger)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("setting up routes: %w", err)
	}

	return &Server{
		router: router,
		config: cfg,
		logger: logger,
		db:     db,
	}, nil
}

// NewRouter wires middleware, services, handlers, and routes onto a fresh
// chi mux. Split from New so tests can drive the full HTTP surface
// against fake stores.
func NewRouter(cfg Config, users repository.UserRepository, cards repository.CardRepository, logger *slog.Logger) (*chi.Mux, error) {
	tokens, err := auth.NewTokenService(cfg.JWTSecret)
	if err != nil {
		return nil, err
	}
	passwords := auth.NewPasswordService()

	authService := service.NewAuthService(users, tokens, passwords, logger)
	userService := service.NewUserService(users, logger)
	cardService := service.NewCardService(cards, logger)

	authHandler := handler.NewAuthHandler(authService, logger)
	userHandler := handler.NewUserHandler(userService, logger)
	cardHandler := handler.NewCardHandler(cardService, logger)

	router := chi.NewRouter()
	router.Use(chimiddleware.RequestID)
	router.Use(chimiddleware.RealIP)
	router.Use(chimiddleware.Recoverer)
	router.Use(middleware.Logger(logger))
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	// Public routes.
	router.Post("/signup", authHandler.HandleSignup)
	router.Post("/signin", authHandler.HandleSignin)

	// Protected routes: the auth gate runs before any resource logic.
	requireAuth := auth.RequireAuth(tokens)

	router.Route("/users", func(r chi.Router) {
		r.Use(requireAuth)
		r.Get("/", userHandler.HandleList)
		r.Get("/me", userHandler.HandleMe)
		r.Get("/{userId}", userHandler.HandleGetByID)
		r.Patch("/me", userHandler.HandleUpdateProfile)
		r.Patch("/me/avatar", userHandler.HandleUpdateAvatar)
	})

	router.Route("/cards", func(r chi.Router) {
		r.Use(requireAuth)
		r.Get("/", cardHandler.HandleList)
		r.Post("/", cardHandler.HandleCreate)
		r.Delete("/{cardId}", cardHandler.HandleDelete)
		r.Put("/{cardId}/likes", cardHandler.HandleLike)
		r.Delete("/{cardId}/likes", cardHandler.HandleDislike)
	})

	// Unmatched routes get the fixed 404 body rather than chi's plain-text
	// default, for both unknown paths and wrong methods on known paths.
	notFound := func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"message":"path does not exist"}`))
	}
	router.NotFound(notFound)
	router.MethodNotAllowed(notFound)

	return router, nil
}

// Handler exposes the router for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start runs the HTTP server until SIGINT/SIGTERM, then shuts down
// gracefully: stop accepting connections, give in-flight requests 30
// seconds, and finally disconnect the store.
func (s *Server) Start() error {
	defer func() {
		if err := s.db.Close(); err != nil {
			s.logger.Error("closing store", slog.String("error", err.Error()))
		}
	}()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.config.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	serverErrors := make(chan error, 1)

	go func() {
		s.logger.Info("server starting", slog.Int("port", s.config.Port))
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}

	case sig := <-quit:
		s.logger.Info("shutdown signal received", slog.String("signal", sig.String()))

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		s.logger.Info("server stopped gracefully")
	}

	return nil
}
