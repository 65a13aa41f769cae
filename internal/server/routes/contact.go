package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/nathantheresa/portfolio/internal/api/dto/v1/contact"
	"github.com/nathantheresa/portfolio/internal/api/handlers"
	"github.com/nathantheresa/portfolio/internal/api/middleware"
)

// SetupContactRoutes configures the contact form endpoint and the legacy
// path the deployed site still posts to.
func SetupContactRoutes(router *gin.Engine, v1 *gin.RouterGroup, h *handlers.ContactHandler, m *Middleware) {
	limit := middleware.LimitBody(m.MaxBodySize)

	v1.POST("/contact", limit, h.Submit)
	router.POST(legacyContactPath, limit, h.Submit)
}

const (
	contactPath       = "/api/v1/contact"
	legacyContactPath = "/functions/v1/send-confirmation"
)

// contactRejection keeps the form's flat error body when the global
// limiter turns a contact submission away.
func contactRejection(c *gin.Context) interface{} {
	switch c.FullPath() {
	case contactPath, legacyContactPath:
		return contact.ErrorResponse{Error: contact.MessageRateLimited}
	}
	return nil
}
