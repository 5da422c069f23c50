package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"example.com/furnish/services/serial/internal/metrics"
)

// HealthCheck reports service liveness
func HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"service": "serial",
	})
}

// Metrics returns a snapshot of the in-process counters
func Metrics(c *gin.Context) {
	c.JSON(http.StatusOK, metrics.GetCollector().GetSnapshot())
}
