package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"reviewhub/database"
	"reviewhub/internal/config"
	"reviewhub/internal/logging"
	"reviewhub/internal/mail"
	"reviewhub/internal/microservices/http-api/handler"
	"reviewhub/internal/microservices/http-api/repository"
	"reviewhub/internal/microservices/http-api/service"
	"reviewhub/internal/ratelimit"

	"github.com/gin-gonic/gin"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("could not load config: %v", err)
	}

	logger := logging.New(cfg.LogLevel, cfg.LogFormat)
	slog.SetDefault(logger)
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.OpenGorm(cfg, logger)
	if err != nil {
		logger.Error("database_unavailable", "error", err)
		os.Exit(1)
	}
	sqlDB, err := db.DB()
	if err != nil {
		logger.Error("database_handle", "error", err)
		os.Exit(1)
	}
	defer sqlDB.Close()

	// Repositories
	users := repository.NewUserRepository(db)
	genres := repository.NewGenreRepository(db)
	categories := repository.NewCategoryRepository(db)
	titles := repository.NewTitleRepository(db)
	reviews := repository.NewReviewRepository(db)
	comments := repository.NewCommentRepository(db)

	mailer := newMailer(cfg, logger)

	limiter, closeLimiter := newLimiter(cfg, logger)
	defer closeLimiter()

	// Services
	svc := handler.Services{
		Auth:     service.NewAuthService(users, mailer, cfg, logger),
		Users:    service.NewUserService(users, logger),
		Catalog:  service.NewCatalogService(genres, categories, logger),
		Titles:   service.NewTitleService(titles, genres, categories, logger),
		Reviews:  service.NewReviewService(reviews, titles, logger),
		Comments: service.NewCommentService(comments, reviews, titles, logger),
	}

	router := handler.NewRouter(svc, handler.RouterOptions{
		Logger:         logger,
		AuthLimiter:    limiter,
		DB:             sqlDB,
		CORSOrigins:    cfg.CORSOrigins,
		TrustedProxies: cfg.TrustedProxies,
		Metrics:        cfg.PrometheusEnabled,
	})

	srv := &http.Server{
		Addr:              cfg.HTTPAddr(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       2 * time.Minute,
	}

	errChan := make(chan error, 1)
	go func() {
		logger.Info("starting_http_server", "addr", srv.Addr, "tls", cfg.TLSEnabled)
		var err error
		if cfg.TLSEnabled {
			err = srv.ListenAndServeTLS(cfg.TLSCertPath, cfg.TLSKeyPath)
		} else {
			err = srv.ListenAndServe()
		}
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
	}()

	// Handle graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case <-sigChan:
		logger.Info("received_shutdown_signal")
	case err := <-errChan:
		logger.Error("server_error", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server_shutdown", "error", err)
		return
	}
	logger.Info("server_stopped_gracefully")
}

// newMailer sends over SMTP when a host is configured and logs codes otherwise.
func newMailer(cfg *config.Config, logger *slog.Logger) mail.Mailer {
	if cfg.SMTPHost == "" {
		logger.Warn("smtp_not_configured", "hint", "confirmation codes are written to the log")
		return mail.NewLogMailer(logger)
	}
	return mail.NewSMTPMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword, cfg.MailFrom)
}

// newLimiter shares quotas through Redis when REDIS_URL is set and falls
// back to a per-process limiter if Redis is absent or unreachable.
func newLimiter(cfg *config.Config, logger *slog.Logger) (ratelimit.Limiter, func()) {
	local := func() (ratelimit.Limiter, func()) {
		return ratelimit.NewLocalLimiter(cfg.RateLimitRequests, cfg.RateLimitWindow), func() {}
	}
	if cfg.RedisURL == "" {
		return local()
	}

	rl, err := ratelimit.NewRedisFixedWindowLimiter(cfg.RedisURL, cfg.RedisPassword, "reviewhub:ratelimit", cfg.RateLimitRequests, cfg.RateLimitWindow)
	if err != nil {
		logger.Warn("redis_limiter_unavailable", "error", err)
		return local()
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := rl.Ping(ctx); err != nil {
		logger.Warn("redis_unreachable", "error", err)
		_ = rl.Close()
		return local()
	}
	return rl, func() { _ = rl.Close() }
}
