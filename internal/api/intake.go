package api

import (
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/peterkacmarik/dockify/internal/exporter"
)

// Upload receives a CSV/XLSX file, runs the analysis pipeline and
// returns the new session with its suggested mapping.
// POST /api/intake/upload
func (h *Handler) Upload(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing uploaded file"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cannot open uploaded file"})
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cannot read uploaded file"})
		return
	}

	session, err := h.manager.Upload(c.Request.Context(), fileHeader.Filename, fileHeader.Header.Get("Content-Type"), data)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusCreated, session.Snapshot())
}

// GetSession returns the current wizard state.
// GET /api/intake/:id
func (h *Handler) GetSession(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, session.Snapshot())
}

// SetMappingFieldRequest is one chip selection: assign a field key to a
// column, or clear the column with an empty field.
type SetMappingFieldRequest struct {
	Column int    `json:"column"`
	Field  string `json:"field"`
}

// SetMappingField edits the column mapping.
// POST /api/intake/:id/mapping
func (h *Handler) SetMappingField(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}

	var req SetMappingFieldRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if req.Column < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "column must be non-negative"})
		return
	}

	if err := session.SetField(req.Column, req.Field); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, session.Snapshot())
}

// ApplyMapping transforms the rows and advances to Preview.
// POST /api/intake/:id/apply
func (h *Handler) ApplyMapping(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}
	if err := session.Apply(); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, session.Snapshot())
}

// CancelSession discards the parse result and returns to Upload.
// POST /api/intake/:id/cancel
func (h *Handler) CancelSession(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}
	if err := session.Cancel(); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, session.Snapshot())
}

// BackToMapping returns from Preview to Mapping for further edits.
// POST /api/intake/:id/back
func (h *Handler) BackToMapping(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}
	if err := session.Back(); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, session.Snapshot())
}

// ConfirmItems runs batch validation and reports the outcome.
// POST /api/intake/:id/confirm
func (h *Handler) ConfirmItems(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}
	result, err := session.Confirm()
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"validCount":   len(result.ValidItems),
		"invalidItems": result.InvalidItems,
		"duplicates":   result.Duplicates,
		"exportReady":  len(result.InvalidItems) == 0,
	})
}

// PreviewItems returns one page of transformed items.
// GET /api/intake/:id/preview?page=1&limit=25
func (h *Handler) PreviewItems(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}

	limit, err := h.manager.PaginationLimit()
	if err != nil {
		fail(c, err)
		return
	}
	if v := c.Query("limit"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			limit = parsed
		}
	}
	page := 1
	if v := c.Query("page"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			page = parsed
		}
	}

	view, err := session.PreviewPage(page, limit)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// ExportToDisk writes the confirmed order into the export directory.
// POST /api/intake/:id/export
func (h *Handler) ExportToDisk(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}
	path, err := session.Export(time.Now())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"path": path})
}

// DownloadExport streams the confirmed order as an XLSX attachment.
// GET /api/intake/:id/export/download
func (h *Handler) DownloadExport(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}

	filename := exporter.Filename(time.Now())
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Header("Content-Type", exporter.ContentType)
	if err := session.WriteWorkbook(c.Writer); err != nil {
		fail(c, err)
		return
	}
}

// ResetSession returns to Upload from any step.
// POST /api/intake/:id/reset
func (h *Handler) ResetSession(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}
	session.Reset()
	c.JSON(http.StatusOK, session.Snapshot())
}

// DropSession removes the session entirely.
// DELETE /api/intake/:id
func (h *Handler) DropSession(c *gin.Context) {
	if _, ok := h.session(c); !ok {
		return
	}
	h.manager.Drop(c.Param("id"))
	c.Status(http.StatusNoContent)
}

// SaveTemplateRequest names the saved mapping and its customer.
type SaveTemplateRequest struct {
	CustomerID string `json:"customerId" binding:"required"`
	Name       string `json:"name" binding:"required"`
}

// SaveTemplate persists the session's current mapping for reuse.
// POST /api/intake/:id/template
func (h *Handler) SaveTemplate(c *gin.Context) {
	var req SaveTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "customerId and name are required"})
		return
	}

	tmpl, err := h.manager.SaveTemplate(c.Param("id"), req.CustomerID, req.Name)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, tmpl)
}

// ListTemplates returns a customer's saved mappings, newest first.
// GET /api/templates?customerId=...
func (h *Handler) ListTemplates(c *gin.Context) {
	customerID := c.Query("customerId")
	if customerID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "customerId is required"})
		return
	}
	templates, err := h.store.ListTemplates(customerID)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"templates": templates})
}
