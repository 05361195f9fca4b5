// Package main is the entry point for the Mesto API server. It reads
// configuration from the environment, builds the logger, and starts the
// server; everything else lives in internal packages.
package main

import (
	"context"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/sakif/mesto-api/internal/server"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	port := 3000
	if portStr := os.Getenv("PORT"); portStr != "" {
		p, err := strconv.Atoi(portStr)
		if err != nil {
			logger.Error("invalid PORT value", slog.String("value", portStr))
			os.Exit(1)
		}
		port = p
	}

	// JWT_SECRET is required: tokens cannot be signed or verified
	// without it, and defaulting it would make every deployment share
	// a guessable key.
	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		logger.Error("JWT_SECRET is not set")
		os.Exit(1)
	}

	cfg := server.Config{
		Port:           port,
		MongoURI:       getenv("MONGO_URI", "mongodb://127.0.0.1:27017"),
		MongoDB:        getenv("MONGO_DB", "mestodb"),
		JWTSecret:      jwtSecret,
		AllowedOrigins: strings.Split(getenv("CORS_ORIGINS", "*"), ","),
	}

	// Bound the time spent connecting to the store so a bad address
	// fails fast instead of hanging startup.
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	srv, err := server.New(ctx, cfg, logger)
	cancel()
	if err != nil {
		logger.Error("failed to create server", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if err := srv.Start(); err != nil {
		logger.Error("server error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
