package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (s *Server) handlePing(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"service": "protanki",
	})
}

func (s *Server) handleGetVersion(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"version": s.version,
		"name":    "protanki-server",
	})
}

// handleGetHealth answers 503 while any check is failing, for load balancer
// probes.
func (s *Server) handleGetHealth(c *gin.Context) {
	if s.health == nil {
		c.JSON(http.StatusOK, gin.H{"healthy": true, "checks": []any{}})
		return
	}

	code := http.StatusOK
	healthy := s.health.Healthy()
	if !healthy {
		code = http.StatusServiceUnavailable
	}
	c.JSON(code, gin.H{
		"healthy": healthy,
		"checks":  s.health.Results(),
	})
}
