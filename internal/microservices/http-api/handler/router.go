package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"reviewhub/internal/metrics"
	"reviewhub/internal/microservices/http-api/middleware"
	"reviewhub/internal/microservices/http-api/service"
	"reviewhub/internal/ratelimit"

	"github.com/gin-gonic/gin"
)

// Services bundles the domain services behind the HTTP API.
type Services struct {
	Auth     service.AuthService
	Users    service.UserService
	Catalog  service.CatalogService
	Titles   service.TitleService
	Reviews  service.ReviewService
	Comments service.CommentService
}

// Pinger reports store health for /healthz.
type Pinger interface {
	PingContext(ctx context.Context) error
}

type RouterOptions struct {
	Logger         *slog.Logger
	AuthLimiter    ratelimit.Limiter // nil disables rate limiting on /auth
	DB             Pinger
	CORSOrigins    []string
	TrustedProxies []string
	Metrics        bool
}

// NewRouter builds the gin engine with every /api/v1 route.
func NewRouter(svc Services, opts RouterOptions) *gin.Engine {
	RegisterValidators()
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	r := gin.New()
	_ = r.SetTrustedProxies(opts.TrustedProxies)
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID(opts.Logger))
	r.Use(middleware.RequestLog())
	if len(opts.CORSOrigins) > 0 {
		r.Use(middleware.CORS(opts.CORSOrigins))
	}
	if opts.Metrics {
		r.Use(metrics.Middleware())
		r.GET("/metrics", metrics.Handler())
	}

	r.GET("/healthz", func(c *gin.Context) {
		if opts.DB != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()
			if err := opts.DB.PingContext(ctx); err != nil {
				middleware.LoggerFrom(c).Error("health check failed", "error", err)
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api/v1")
	api.Use(middleware.AuthMiddleware(svc.Auth))

	authGroup := api.Group("/auth")
	if opts.AuthLimiter != nil {
		authGroup.Use(middleware.RateLimit(opts.AuthLimiter, "auth"))
	}
	NewAuthHandler(svc.Auth).RegisterRoutes(authGroup)

	NewUserHandler(svc.Users).RegisterRoutes(api)
	NewCatalogHandler(svc.Catalog).RegisterRoutes(api)

	title := NewTitleHandler(svc.Titles).RegisterRoutes(api)
	review := NewReviewHandler(svc.Reviews).RegisterRoutes(title)
	NewCommentHandler(svc.Comments).RegisterRoutes(review)

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	})
	return r
}
