package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ListFields returns the whole field registry in creation order.
// GET /api/fields
func (h *Handler) ListFields(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"fields": h.fields.List()})
}

// AddFieldRequest creates a custom field. Key is optional and derived
// from the label when empty.
type AddFieldRequest struct {
	Label    string `json:"label" binding:"required"`
	Key      string `json:"key"`
	Required bool   `json:"required"`
}

// AddField inserts a user-defined field.
// POST /api/fields
func (h *Handler) AddField(c *gin.Context) {
	var req AddFieldRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "label is required"})
		return
	}

	field, err := h.fields.Add(req.Label, req.Key, req.Required)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, field)
}

// ToggleFieldRequest sets a field's active state.
type ToggleFieldRequest struct {
	IsActive *bool `json:"isActive" binding:"required"`
}

// ToggleField activates or deactivates a user-defined field.
// PATCH /api/fields/:id
func (h *Handler) ToggleField(c *gin.Context) {
	var req ToggleFieldRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.IsActive == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "isActive is required"})
		return
	}

	if err := h.fields.SetActive(c.Param("id"), *req.IsActive); err != nil {
		fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// DeleteField removes a user-defined field.
// DELETE /api/fields/:id
func (h *Handler) DeleteField(c *gin.Context) {
	if err := h.fields.Delete(c.Param("id")); err != nil {
		fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
