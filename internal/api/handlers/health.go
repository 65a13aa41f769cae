package handlers

import (
	"context"
	"net/http"
	"sort"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/nathantheresa/portfolio/internal/logging"
	"github.com/nathantheresa/portfolio/internal/version"
)

// HealthCheck probes one dependency
type HealthCheck func(ctx context.Context) error

type healthResponse struct {
	Status  string            `json:"status"`
	Version version.BuildInfo `json:"version"`
	Checks  map[string]string `json:"checks,omitempty"`
}

type HealthHandler struct {
	checks map[string]HealthCheck
	logger *logging.Logger
}

// NewHealthHandler takes the optional dependencies to probe, keyed by name
func NewHealthHandler(checks map[string]HealthCheck, logger *logging.Logger) *HealthHandler {
	return &HealthHandler{checks: checks, logger: logger}
}

func (h *HealthHandler) Check(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	names := make([]string, 0, len(h.checks))
	for name := range h.checks {
		names = append(names, name)
	}
	sort.Strings(names)

	resp := healthResponse{Status: "ok", Version: version.GetBuildInfo()}
	status := http.StatusOK
	for _, name := range names {
		if resp.Checks == nil {
			resp.Checks = make(map[string]string, len(names))
		}
		if err := h.checks[name](ctx); err != nil {
			h.logger.Warn("Health check %s failed: %v", name, err)
			resp.Checks[name] = "unavailable"
			resp.Status = "degraded"
			status = http.StatusServiceUnavailable
			continue
		}
		resp.Checks[name] = "ok"
	}

	c.JSON(status, resp)
}
