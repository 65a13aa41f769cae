package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/nathantheresa/portfolio/internal/logging"
	"github.com/nathantheresa/portfolio/internal/utils"
)

// RequestObserver receives the timing of every handled request
type RequestObserver interface {
	ObserveRequest(method, route, status string, seconds float64)
}

// RequestLogger logs each request through the logger (which drops them
// unless request logging is enabled) and reports its duration.
func RequestLogger(logger *logging.Logger, observer RequestObserver) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		latency := time.Since(start)
		status := c.Writer.Status()

		logger.LogHTTPRequest(c.Request.Method, path, utils.GetRealIP(c), status, c.Writer.Size(), latency.String())

		if observer != nil {
			route := c.FullPath()
			if route == "" {
				route = "unmatched"
			}
			observer.ObserveRequest(c.Request.Method, route, strconv.Itoa(status), latency.Seconds())
		}
	}
}
