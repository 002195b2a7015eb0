package httpapi

import (
	"context"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v3/middleware/logger"
	"github.com/gofiber/fiber/v3/middleware/recover"

	"github.com/custodia-labs/conahgpt/internal/logger"
)

// AppName is reported by fiber and the health endpoint.
const AppName = "ConahGPT"

// Config holds the adapter settings.
type Config struct {
	// SigningSecret verifies Slack requests. Empty disables verification.
	SigningSecret string

	// ReplyInThread posts Slack answers as thread replies.
	ReplyInThread bool

	// RequestTimeout bounds a synchronous /ask pipeline run.
	RequestTimeout time.Duration

	// DedupSize is the number of recent Slack event keys remembered.
	DedupSize int

	// AllowOrigins lists CORS origins for /ask. Empty allows any.
	AllowOrigins []string
}

// Server is the fiber app serving the HTTP channel.
type Server struct {
	app   *fiber.App
	ports *Ports
	cfg   Config
	seen  *eventSet
}

// NewServer builds the app and mounts its routes.
func NewServer(ports *Ports, cfg Config) (*Server, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("validating ports: %w", err)
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = 90 * time.Second
	}

	seen, err := newEventSet(cfg.DedupSize)
	if err != nil {
		return nil, err
	}

	s := &Server{
		app: fiber.New(fiber.Config{
			AppName:      AppName,
			ReadTimeout:  30 * time.Second,
			WriteTimeout: cfg.RequestTimeout + 10*time.Second,
		}),
		ports: ports,
		cfg:   cfg,
		seen:  seen,
	}

	s.app.Use(recover.New())
	s.app.Use(fiberlogger.New(fiberlogger.Config{Stream: logger.Writer()}))

	s.app.Get("/", s.handleIndex)
	s.app.Get("/healthz", s.handleHealth)

	origins := cfg.AllowOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	s.app.Use("/ask", cors.New(cors.Config{
		AllowOrigins: origins,
		AllowHeaders: []string{"Origin", "Content-Type", "Accept"},
		AllowMethods: []string{"POST", "OPTIONS"},
	}))
	s.app.Post("/ask", s.handleAsk)

	if ports.Messenger != nil {
		s.app.Post("/slack/events", s.handleSlackEvents)
	}

	return s, nil
}

// App exposes the fiber app, mainly for tests.
func (s *Server) App() *fiber.App {
	return s.app
}

// Listen serves on addr until ctx is cancelled.
func (s *Server) Listen(ctx context.Context, addr string) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- s.app.Listen(addr, fiber.ListenConfig{DisableStartupMessage: true})
	}()

	logger.Info("[http] listening on %s", addr)

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := s.app.ShutdownWithContext(shutdownCtx); err != nil {
			return fmt.Errorf("shutting down: %w", err)
		}
		return nil
	}
}
