package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// GetPaginationLimit reads the preview page size.
// GET /api/settings/pagination
func (h *Handler) GetPaginationLimit(c *gin.Context) {
	limit, err := h.store.PaginationLimit()
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"limit": limit})
}

// SetPaginationLimitRequest updates the preview page size.
type SetPaginationLimitRequest struct {
	Limit int `json:"limit" binding:"required"`
}

// SetPaginationLimit stores the preview page size.
// PUT /api/settings/pagination
func (h *Handler) SetPaginationLimit(c *gin.Context) {
	var req SetPaginationLimitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "limit is required"})
		return
	}
	if err := h.store.SetPaginationLimit(req.Limit); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"limit": req.Limit})
}
