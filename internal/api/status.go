package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// StatusResponse summarizes the running service.
type StatusResponse struct {
	ActiveFields int `json:"activeFields"`
	LiveIntakes  int `json:"liveIntakes"`
	AuthSessions int `json:"authSessions"`
	PreviewLimit int `json:"previewLimit"`
}

// GetStatus reports service counters.
// GET /api/status
func (h *Handler) GetStatus(c *gin.Context) {
	limit, err := h.store.PaginationLimit()
	if err != nil {
		limit = 0
	}
	c.JSON(http.StatusOK, StatusResponse{
		ActiveFields: h.fields.ActiveCount(),
		LiveIntakes:  h.manager.Count(),
		AuthSessions: h.sessions.Count(),
		PreviewLimit: limit,
	})
}
