package api

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// LoginRequest identifies the warehouse user opening a session.
type LoginRequest struct {
	User string `json:"user" binding:"required"`
}

// Login issues a bearer token for subsequent requests.
// POST /api/auth/login
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.User) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "user is required"})
		return
	}
	session := h.sessions.Login(strings.TrimSpace(req.User))
	c.JSON(http.StatusOK, session)
}

// Logout ends the current session and records the explicit logout, so
// clients can skip the silent re-login prompt.
// POST /api/auth/logout
func (h *Handler) Logout(c *gin.Context) {
	header := c.GetHeader("Authorization")
	if token, ok := strings.CutPrefix(header, "Bearer "); ok {
		h.sessions.Logout(token)
	}
	c.JSON(http.StatusOK, gin.H{"manualLogout": h.sessions.ManualLogout()})
}
