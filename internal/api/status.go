package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// GetHealth 健康检查
// GET /api/health
func (h *Handler) GetHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "OK",
		"message": "reviewdesk is running",
	})
}
