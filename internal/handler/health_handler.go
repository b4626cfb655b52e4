package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ServiceName and ServiceVersion are reported by the root endpoint.
const (
	ServiceName    = "NDIS Fraud Detection API"
	ServiceVersion = "1.0.0"
)

// HealthHandler handles health check endpoints.
type HealthHandler struct{}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler() *HealthHandler {
	return &HealthHandler{}
}

// Root handles GET /
// @Summary Service banner
// @Description Service name and version
// @Tags health
// @Produce json
// @Success 200 {object} RootResponse
// @Router / [get]
func (h *HealthHandler) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy", "service": ServiceName, "version": ServiceVersion})
}

// Health handles GET /health
// @Summary Health check
// @Description Liveness check
// @Tags health
// @Produce json
// @Success 200 {object} HealthResponse
// @Router /health [get]
func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "message": "Service is running"})
}
