package utils

import (
	"strings"

	"github.com/gin-gonic/gin"
)

// UnknownSource is the id shared by every request that carries no proxy header
const UnknownSource = "unknown"

// SourceID derives the rate-limit key of a request: the leftmost
// X-Forwarded-For entry, then X-Real-IP, then UnknownSource.
// The value is used verbatim and is spoofable by clients that reach the
// server without a trusted proxy in front.
func SourceID(c *gin.Context) string {
	if forwardedFor := c.GetHeader("X-Forwarded-For"); forwardedFor != "" {
		// Format: client, proxy1, proxy2, ...
		first, _, _ := strings.Cut(forwardedFor, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}

	if ip := strings.TrimSpace(c.GetHeader("X-Real-IP")); ip != "" {
		return ip
	}

	return UnknownSource
}

// GetRealIP is SourceID with gin's peer address as the last fallback. Used
// for logging and the coarse API limiter, never for the contact ledger.
func GetRealIP(c *gin.Context) string {
	if id := SourceID(c); id != UnknownSource {
		return id
	}
	return c.ClientIP()
}
