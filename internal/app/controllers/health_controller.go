package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/studentapi/internal/app/models/dto"
	"github.com/yigit/studentapi/internal/app/services"
	"github.com/yigit/studentapi/internal/middleware"
	"github.com/yigit/studentapi/internal/pkg/logger"
)

// Banner is the plain-text body of the root route
const Banner = "University API is running. Use /api/students endpoints."

// HealthController serves liveness endpoints
type HealthController struct {
	healthService services.HealthService
}

// NewHealthController creates a new HealthController
func NewHealthController(healthService services.HealthService) *HealthController {
	return &HealthController{healthService: healthService}
}

// Check reports whether the database answers
// @Summary Health check
// @Description Runs SELECT 1 against the database
// @Tags health
// @Produce json
// @Success 200 {object} dto.HealthResponse "Database connected"
// @Failure 500 {object} dto.HealthResponse "Database disconnected"
// @Router /health [get]
func (c *HealthController) Check(ctx *gin.Context) {
	if err := c.healthService.CheckDatabase(ctx.Request.Context()); err != nil {
		logger.Warn().Err(err).Str("requestID", middleware.GetRequestID(ctx)).Msg("Health check failed")
		ctx.JSON(http.StatusInternalServerError, dto.HealthResponse{
			Status:   "error",
			Database: "disconnected",
			Error:    err.Error(),
		})
		return
	}

	ctx.JSON(http.StatusOK, dto.HealthResponse{Status: "ok", Database: "connected"})
}

// Root answers with the service banner
// @Summary Service banner
// @Tags health
// @Produce plain
// @Success 200 {string} string "University API is running. Use /api/students endpoints."
// @Router / [get]
func (c *HealthController) Root(ctx *gin.Context) {
	ctx.String(http.StatusOK, Banner)
}
