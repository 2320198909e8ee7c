// Package main implements the personagen HTTP server, exposing persona
// generation over a small JSON API.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/Divyaprakash17/persona-generator/pkg/config"
	"github.com/Divyaprakash17/persona-generator/pkg/gemini"
	"github.com/Divyaprakash17/persona-generator/pkg/persona"
	"github.com/Divyaprakash17/persona-generator/pkg/reddit"
)

var (
	envFile = flag.String("env", ".env", "Path to .env file with credentials")
	port    = flag.Int("port", 0, "Listen port (overrides SERVER_PORT)")
	verbose = flag.Bool("verbose", false, "Enable verbose logging")
)

type personaRequest struct {
	Username string `json:"username"`
}

type errorResponse struct {
	Error string `json:"error"`
}

type server struct {
	logger    *slog.Logger
	generator *persona.Generator
}

func main() {
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	cfg, err := config.Load(*envFile, logger)
	if err != nil {
		logger.Error("configuration error", "error", err)
		os.Exit(1)
	}
	if *port != 0 {
		cfg.Server.Port = *port
	}

	generator := persona.NewWithLogger(logger,
		persona.WithRedditCredentials(cfg.Reddit.ClientID, cfg.Reddit.ClientSecret, cfg.Reddit.UserAgent),
		persona.WithGeminiAPIKey(cfg.Gemini.APIKey),
		persona.WithGeminiModel(cfg.Gemini.Model),
		persona.WithFallbackModels(cfg.Gemini.FallbackModels),
		persona.WithMaxRetries(cfg.Gemini.MaxRetries),
		persona.WithCommentLimit(cfg.Fetch.CommentLimit),
		persona.WithPostLimit(cfg.Fetch.PostLimit),
		persona.WithMemoryCache(),
	)
	defer func() {
		if err := generator.Close(); err != nil {
			logger.Error("failed to close generator", "error", err)
		}
	}()

	s := &server{logger: logger, generator: generator}

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.RateLimiter(middleware.NewRateLimiterMemoryStore(2)))

	e.GET("/healthz", s.handleHealth)
	e.POST("/v1/persona", s.handlePersona)

	go func() {
		addr := fmt.Sprintf(":%d", cfg.Server.Port)
		logger.Info("starting server", "addr", addr)
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		logger.Error("shutdown error", "error", err)
	}
}

func (s *server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

func (s *server) handlePersona(c echo.Context) error {
	var req personaRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid request body"})
	}
	if req.Username == "" {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "username is required"})
	}

	result, err := s.generator.Generate(c.Request().Context(), req.Username)
	if err != nil {
		return s.mapError(c, req.Username, err)
	}
	return c.JSON(http.StatusOK, result)
}

// mapError translates pipeline failures into HTTP statuses without leaking
// internal detail for unexpected errors.
func (s *server) mapError(c echo.Context, username string, err error) error {
	var rateLimited *gemini.RateLimitError
	switch {
	case errors.Is(err, reddit.ErrAccountNotFound):
		return c.JSON(http.StatusNotFound, errorResponse{Error: err.Error()})
	case errors.Is(err, reddit.ErrAccountForbidden):
		return c.JSON(http.StatusForbidden, errorResponse{Error: err.Error()})
	case errors.As(err, &rateLimited):
		return c.JSON(http.StatusTooManyRequests, errorResponse{Error: rateLimited.Error()})
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return c.JSON(http.StatusRequestTimeout, errorResponse{Error: "request canceled"})
	default:
		s.logger.Error("persona generation failed", "username", username, "error", err)
		return c.JSON(http.StatusInternalServerError, errorResponse{Error: "persona generation failed"})
	}
}
