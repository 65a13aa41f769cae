package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/nathantheresa/portfolio/internal/api/constants"
	"github.com/nathantheresa/portfolio/internal/api/dto/common"
	"github.com/nathantheresa/portfolio/internal/config/firebase"
	"github.com/nathantheresa/portfolio/internal/logging"
)

// RequireAuth verifies the Firebase ID token in the Authorization header
// and stores its uid under ContextKeyUserID.
func RequireAuth(verifier firebase.TokenVerifier, logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				common.NewErrorResponse(common.ErrCodeUnauthorized, "Authentication required", nil))
			return
		}

		// Extract token from Bearer header
		scheme, token, ok := strings.Cut(authHeader, " ")
		if !ok || scheme != "Bearer" || strings.TrimSpace(token) == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				common.NewErrorResponse(common.ErrCodeUnauthorized, "Invalid authorization header format", nil))
			return
		}

		uid, err := firebase.VerifyToken(c.Request.Context(), verifier, strings.TrimSpace(token))
		if err != nil {
			logger.Debug("Rejected token: %v", err)
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				common.NewErrorResponse(common.ErrCodeUnauthorized, "Invalid or expired token", nil))
			return
		}

		c.Set(constants.ContextKeyUserID, uid)
		c.Next()
	}
}
