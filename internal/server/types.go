package server

import (
	"database/sql"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nathantheresa/portfolio/internal/config"
	"github.com/nathantheresa/portfolio/internal/logging"
	"github.com/nathantheresa/portfolio/internal/metrics"
	"github.com/nathantheresa/portfolio/internal/service"
	"github.com/nathantheresa/portfolio/internal/telemetry"
)

// Server represents the HTTP server
type Server struct {
	router     *gin.Engine
	httpServer *http.Server
	cfg        *config.Config
	logger     *logging.Logger
	metrics    *metrics.Metrics

	db      *sql.DB
	closers []io.Closer
	tracing telemetry.ShutdownFunc

	// memoryLedger is nil when the contact ledger lives in Redis
	memoryLedger *service.MemoryLedger
}
