package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/nathantheresa/portfolio/internal/api/middleware"
	"github.com/nathantheresa/portfolio/internal/logging"
)

const serviceName = "portfolio-api"

// Setup configures all route groups
func Setup(router *gin.Engine, h *Handlers, m *Middleware, metrics http.Handler, logger *logging.Logger) {
	v1 := router.Group("/api/v1")

	SetupHealthRoutes(router, h.Health, metrics)

	// Contact routes (public)
	SetupContactRoutes(router, v1, h.Contact, m)

	switch {
	case h.Article == nil:
		logger.Warn("Article routes disabled: DATABASE_URL not configured")
	case m.Auth == nil:
		SetupPublicArticleRoutes(v1, h.Article)
		logger.Warn("Article dashboard disabled: Firebase auth not configured")
	default:
		SetupPublicArticleRoutes(v1, h.Article)
		SetupArticleRoutes(v1, h.Article, m)
	}

	if h.Video != nil {
		SetupVideoRoutes(v1, h.Video)
	}

	logger.Info("All routes have been set up successfully")
}

// SetupGlobalMiddleware configures middleware that applies to all routes
func SetupGlobalMiddleware(router *gin.Engine, g *GlobalMiddleware, logger *logging.Logger) {
	router.Use(middleware.Recovery(logger))
	router.Use(middleware.RequestID())
	router.Use(otelgin.Middleware(serviceName))
	router.Use(middleware.RequestLogger(logger, g.Observer))
	router.Use(middleware.CORS(g.CORS))
	router.Use(middleware.SecurityHeaders())
	if g.RateLimit != nil {
		router.Use(middleware.RateLimitMiddleware(g.RateLimit, contactRejection))
	}
}
