package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/yigit/coursewish/internal/app/models/dto"
)

// Pinger is satisfied by *db.PostgresDB
type Pinger interface {
	Ping(ctx context.Context) error
}

// SchemaVersioner is satisfied by *migrations.Migrator
type SchemaVersioner interface {
	AppliedVersions(ctx context.Context) ([]string, error)
}

// HealthController serves the liveness and readiness probes
type HealthController struct {
	db       Pinger
	versions SchemaVersioner
	timeout  time.Duration
	logger   zerolog.Logger
}

// NewHealthController creates a new HealthController
func NewHealthController(db Pinger, versions SchemaVersioner, logger zerolog.Logger) *HealthController {
	return &HealthController{
		db:       db,
		versions: versions,
		timeout:  2 * time.Second,
		logger:   logger,
	}
}

// Ping reports that the process is up
func (c *HealthController) Ping(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, dto.PingResponse{Message: "pong", Status: "success"})
}

// Health pings the database and lists the applied schema versions
func (c *HealthController) Health(ctx *gin.Context) {
	reqCtx, cancel := context.WithTimeout(ctx.Request.Context(), c.timeout)
	defer cancel()

	start := time.Now()
	if err := c.db.Ping(reqCtx); err != nil {
		c.logger.Warn().Err(err).Msg("Health check: database ping failed")
		ctx.JSON(http.StatusServiceUnavailable, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeDatabaseError, "Database is unreachable")))
		return
	}
	latency := time.Since(start)

	versions, err := c.versions.AppliedVersions(reqCtx)
	if err != nil {
		c.logger.Warn().Err(err).Msg("Health check: reading schema versions failed")
		ctx.JSON(http.StatusServiceUnavailable, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeDatabaseError, "Schema versions unavailable")))
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(dto.HealthResponse{
		Status:         "ok",
		Database:       "up",
		SchemaVersions: versions,
		Latency:        latency.String(),
	}))
}
