package http

import (
	"context"
	"net/http"
	"time"

	"github.com/cogni-dao/cogni-git-admin/pkg/domain/interfaces"
	sentryhttp "github.com/getsentry/sentry-go/http"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// WebhookPath receives chain-data provider deliveries
const WebhookPath = "/api/v1/webhooks/onchain/cogni-signal"

// config holds internal HTTP server configuration
type config struct {
	addr        string
	sentry      bool
	maxBodySize int64
	now         func() time.Time
}

// Option is a functional option for Server configuration
type Option func(*config)

// WithAddr sets the server address
func WithAddr(addr string) Option {
	return func(c *config) {
		c.addr = addr
	}
}

// WithSentry reports panics and unhandled errors to Sentry
func WithSentry(enabled bool) Option {
	return func(c *config) {
		c.sentry = enabled
	}
}

// WithMaxBodySize limits webhook payloads
func WithMaxBodySize(n int64) Option {
	return func(c *config) {
		c.maxBodySize = n
	}
}

// WithClock overrides the clock used by the health endpoint
func WithClock(now func() time.Time) Option {
	return func(c *config) {
		c.now = now
	}
}

// Server represents the HTTP server
type Server struct {
	*http.Server
}

// NewServer creates a new HTTP server
func NewServer(
	ctx context.Context,
	providers interfaces.ChainProviderRegistry,
	signalUC interfaces.SignalUseCase,
	opts ...Option,
) (*Server, error) {
	// Default configuration
	cfg := &config{
		addr:        "localhost:3000",
		maxBodySize: DefaultMaxBodySize,
		now:         time.Now,
	}

	// Apply options
	for _, opt := range opts {
		opt(cfg)
	}

	router := chi.NewRouter()

	// Global middleware
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(LoggingMiddleware(ctx))
	router.Use(middleware.Recoverer)
	if cfg.sentry {
		router.Use(sentryhttp.New(sentryhttp.Options{Repanic: true}).Handle)
	}

	// Health check
	health := healthHandler(cfg.now)
	router.Get("/health", health)
	router.Get("/api/v1/health", health)

	// Webhook endpoint
	webhookHandler := NewWebhookHandler(providers, signalUC, cfg.maxBodySize)
	router.Post(WebhookPath, webhookHandler.Handle)

	server := &Server{
		Server: &http.Server{
			Addr:              cfg.addr,
			Handler:           router,
			ReadHeaderTimeout: 15 * time.Second,
		},
	}

	return server, nil
}
