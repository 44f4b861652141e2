// Package handlers provides HTTP handlers for the API.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/unifiedui/admin-console/internal/api/dto"
	"github.com/unifiedui/admin-console/internal/core/store"
	"github.com/unifiedui/admin-console/internal/core/vault"
)

// HealthHandler handles health check endpoints.
type HealthHandler struct {
	storeClient store.Client
	vault       vault.Vault
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(storeClient store.Client, v vault.Vault) *HealthHandler {
	return &HealthHandler{
		storeClient: storeClient,
		vault:       v,
	}
}

// Health handles the /health endpoint.
// @Summary Health check
// @Description Returns the overall health status and component statuses
// @Tags Health
// @Produce json
// @Success 200 {object} dto.HealthResponse "Service healthy"
// @Failure 503 {object} dto.HealthResponse "Service unhealthy"
// @Router /api/v1/admin-console/health [get]
func (h *HealthHandler) Health(c *gin.Context) {
	components := make(map[string]string)
	healthy := true

	if err := h.storeClient.Ping(c.Request.Context()); err != nil {
		components["store"] = "unhealthy"
		healthy = false
	} else {
		components["store"] = "healthy"
	}

	if err := h.vault.Ping(c.Request.Context()); err != nil {
		components["vault"] = "unhealthy"
		healthy = false
	} else {
		components["vault"] = "healthy"
	}

	status := "healthy"
	statusCode := http.StatusOK
	if !healthy {
		status = "unhealthy"
		statusCode = http.StatusServiceUnavailable
	}

	c.JSON(statusCode, dto.HealthResponse{
		Status:     status,
		Components: components,
	})
}

// Ready handles the /ready endpoint.
// @Summary Readiness check
// @Description Returns 200 if the persisted state backend is reachable
// @Tags Health
// @Produce json
// @Success 200 {object} map[string]string "Service ready"
// @Failure 503 {object} map[string]string "Service not ready"
// @Router /api/v1/admin-console/ready [get]
func (h *HealthHandler) Ready(c *gin.Context) {
	if err := h.storeClient.Ping(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "not ready",
			"reason": "store unavailable",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "ready",
	})
}

// Live handles the /live endpoint.
// @Summary Liveness check
// @Description Returns 200 if the service is alive
// @Tags Health
// @Produce json
// @Success 200 {object} map[string]string "Service alive"
// @Router /api/v1/admin-console/live [get]
func (h *HealthHandler) Live(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "alive",
	})
}
