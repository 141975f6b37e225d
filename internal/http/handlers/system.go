package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"studio/internal/config"
)

// GET /api/health
func (h *Handlers) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// GET /api/db-check
func (h *Handlers) DBCheck(c *gin.Context) {
	if err := config.EnsureDB(h.Env.DBDSN); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "db unreachable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
