package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/nathantheresa/portfolio/internal/api/handlers"
	"github.com/nathantheresa/portfolio/internal/api/middleware"
)

// Handlers contains all the route handlers. Article and Video are nil when
// their backing store or API is not configured.
type Handlers struct {
	Contact *handlers.ContactHandler
	Article *handlers.ArticleHandler
	Video   *handlers.VideoHandler
	Health  *handlers.HealthHandler
}

// Middleware contains the middleware that is not applied globally
type Middleware struct {
	Auth           gin.HandlerFunc
	MaxBodySize    int64
	MaxArticleSize int64
}

// GlobalMiddleware configures middleware that applies to all routes
type GlobalMiddleware struct {
	CORS      middleware.CORSConfig
	RateLimit *middleware.LimiterStore
	Observer  middleware.RequestObserver
}
