package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/redis/go-redis/v9"

	"github.com/nathantheresa/portfolio/internal/api/handlers"
	"github.com/nathantheresa/portfolio/internal/api/middleware"
	"github.com/nathantheresa/portfolio/internal/api/validation"
	"github.com/nathantheresa/portfolio/internal/config"
	"github.com/nathantheresa/portfolio/internal/config/firebase"
	"github.com/nathantheresa/portfolio/internal/db"
	"github.com/nathantheresa/portfolio/internal/logging"
	"github.com/nathantheresa/portfolio/internal/metrics"
	"github.com/nathantheresa/portfolio/internal/repository"
	"github.com/nathantheresa/portfolio/internal/server/routes"
	"github.com/nathantheresa/portfolio/internal/service"
	"github.com/nathantheresa/portfolio/internal/tasks"
	"github.com/nathantheresa/portfolio/internal/telemetry"
)

const (
	serviceName     = "portfolio-api"
	maxArticleSize  = 1 << 20
	shutdownTimeout = 15 * time.Second
)

// NewServer wires every dependency the configuration enables. Postgres,
// Redis, Firebase and YouTube are optional; the contact endpoint always runs.
func NewServer(ctx context.Context, cfg *config.Config, logger *logging.Logger) (*Server, error) {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	// Disable Gin's default logger entirely because we're using our custom logger
	gin.DisableConsoleColor()
	gin.DefaultWriter = io.Discard
	binding.Validator = validation.NewGinValidator()

	s := &Server{
		router:  gin.New(),
		cfg:     cfg,
		logger:  logger,
		metrics: metrics.New(),
	}

	shutdown, err := telemetry.Setup(ctx, cfg.OTLPEndpoint, serviceName)
	if err != nil {
		return nil, err
	}
	s.tracing = shutdown

	checks := map[string]handlers.HealthCheck{}

	ledger, err := s.buildLedger(ctx, checks)
	if err != nil {
		s.Close()
		return nil, err
	}

	contactService := s.buildContactService(ledger)

	h := &routes.Handlers{
		Contact: handlers.NewContactHandler(contactService, logger),
	}

	m := &routes.Middleware{
		MaxBodySize:    middleware.DefaultMaxBodySize,
		MaxArticleSize: maxArticleSize,
	}

	if cfg.DatabaseURL != "" {
		conn, err := db.Open(ctx, cfg.DatabaseURL)
		if err != nil {
			s.Close()
			return nil, err
		}
		s.db = conn
		checks["postgres"] = conn.PingContext
		h.Article = handlers.NewArticleHandler(service.NewArticleService(repository.NewArticleRepository(conn)))

		authClient, err := firebase.NewAuthClient(ctx, cfg.FirebaseCredentialsFile)
		if err != nil {
			logger.Warn("Firebase auth unavailable, article dashboard disabled: %v", err)
		} else {
			m.Auth = middleware.RequireAuth(authClient, logger)
		}
	}

	videoService, err := service.NewVideoService(ctx, cfg.YouTubeAPIKey, cfg.YouTubeChannelHandle, cfg.YouTubeMaxResults, logger)
	if err != nil {
		s.Close()
		return nil, err
	}
	videoService.SetRecorder(s.metrics)
	h.Video = handlers.NewVideoHandler(videoService, logger)

	h.Health = handlers.NewHealthHandler(checks, logger)

	limiter := middleware.NewLimiterStore(middleware.RateLimitConfig{
		RPS:   cfg.APIRateRPS,
		Burst: cfg.APIRateBurst,
	})
	s.startBackground(ctx, limiter)

	routes.SetupGlobalMiddleware(s.router, &routes.GlobalMiddleware{
		CORS:      middleware.CORSConfig{AllowedOrigins: cfg.AllowedOrigins},
		RateLimit: limiter,
		Observer:  s.metrics,
	}, logger)
	routes.Setup(s.router, h, m, s.metrics.Handler(), logger)

	s.httpServer = &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	return s, nil
}

// buildLedger picks the shared Redis ledger when REDIS_URL is set and the
// in-process one otherwise.
func (s *Server) buildLedger(ctx context.Context, checks map[string]handlers.HealthCheck) (service.RateLedger, error) {
	if s.cfg.RedisURL == "" {
		s.memoryLedger = service.NewMemoryLedger(
			service.WithLimit(s.cfg.ContactRateLimit),
			service.WithWindow(s.cfg.ContactRateWindow),
			service.WithCapacity(s.cfg.ContactLedgerCapacity),
		)
		s.metrics.RegisterLedgerSize(s.memoryLedger.Len)
		s.logger.Info("Contact rate ledger: in-memory (%d per %s, capacity %d)",
			s.cfg.ContactRateLimit, s.cfg.ContactRateWindow, s.cfg.ContactLedgerCapacity)
		return s.memoryLedger, nil
	}

	opts, err := redis.ParseURL(s.cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_URL: %w", err)
	}
	rdb := redis.NewClient(opts)
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	s.closers = append(s.closers, rdb)
	checks["redis"] = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }

	s.logger.Info("Contact rate ledger: redis at %s (%d per %s)", opts.Addr, s.cfg.ContactRateLimit, s.cfg.ContactRateWindow)
	return service.NewRedisLedger(rdb, service.WithRedisLimit(s.cfg.ContactRateLimit, s.cfg.ContactRateWindow)), nil
}

func (s *Server) buildContactService(ledger service.RateLedger) *service.ContactService {
	if s.cfg.ResendAPIKey == "" {
		s.logger.Warn("RESEND_API_KEY is not set; contact submissions will fail to dispatch")
	}

	opts := []service.ContactOption{service.WithContactRecorder(s.metrics)}

	telegram := service.NewTelegramService(s.cfg.TelegramBotToken, s.cfg.TelegramChatID)
	if telegram.Configured() {
		opts = append(opts, service.WithOwnerNotifier(telegram))
		s.logger.Info("Telegram owner alerts enabled")
	}

	return service.NewContactService(
		ledger,
		service.NewResendMailer(s.cfg.ResendAPIKey),
		service.MailTemplate{
			From:      s.cfg.MailFrom,
			Subject:   s.cfg.MailSubject,
			Signature: s.cfg.MailSignature,
		},
		s.logger,
		opts...,
	)
}

func (s *Server) startBackground(ctx context.Context, limiter *middleware.LimiterStore) {
	limiter.StartJanitor(ctx)

	if s.memoryLedger != nil {
		tasks.NewLedgerSweep(s.memoryLedger, s.cfg.ContactLedgerSweep, s.metrics, s.logger).Start(ctx)
		s.logger.Info("Started contact ledger sweep (every %s)", s.cfg.ContactLedgerSweep)
	}
}

// Handler exposes the router, mainly for tests
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start serves HTTP until ctx is cancelled, then shuts down gracefully
func (s *Server) Start(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("Starting server on %s", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	s.logger.Info("Server exited gracefully")
	return nil
}

// Close releases the connections opened by NewServer
func (s *Server) Close() {
	if s.db != nil {
		if err := s.db.Close(); err != nil {
			s.logger.Warn("Failed to close database: %v", err)
		}
	}
	for _, c := range s.closers {
		if err := c.Close(); err != nil {
			s.logger.Warn("Failed to close connection: %v", err)
		}
	}
	if s.tracing != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.tracing(ctx); err != nil {
			s.logger.Warn("Failed to flush traces: %v", err)
		}
	}
}
