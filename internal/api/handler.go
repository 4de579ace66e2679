package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/peterkacmarik/dockify/internal/auth"
	"github.com/peterkacmarik/dockify/internal/fields"
	"github.com/peterkacmarik/dockify/internal/reader"
	"github.com/peterkacmarik/dockify/internal/store"
	"github.com/peterkacmarik/dockify/internal/wizard"
)

// Handler exposes the intake wizard, field registry, settings and
// export operations as a JSON API.
type Handler struct {
	manager  *wizard.Manager
	fields   *fields.Service
	store    *store.Store
	sessions *auth.Coordinator
}

func NewHandler(manager *wizard.Manager, fieldSvc *fields.Service, st *store.Store, sessions *auth.Coordinator) *Handler {
	return &Handler{
		manager:  manager,
		fields:   fieldSvc,
		store:    st,
		sessions: sessions,
	}
}

// RegisterRoutes wires all endpoints under the given group. Everything
// except login and status requires a bearer token.
func (h *Handler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/status", h.GetStatus)
	router.POST("/auth/login", h.Login)

	protected := router.Group("", h.sessions.Middleware())

	protected.POST("/auth/logout", h.Logout)

	protected.POST("/intake/upload", h.Upload)
	protected.GET("/intake/:id", h.GetSession)
	protected.POST("/intake/:id/mapping", h.SetMappingField)
	protected.POST("/intake/:id/apply", h.ApplyMapping)
	protected.POST("/intake/:id/cancel", h.CancelSession)
	protected.POST("/intake/:id/back", h.BackToMapping)
	protected.POST("/intake/:id/confirm", h.ConfirmItems)
	protected.GET("/intake/:id/preview", h.PreviewItems)
	protected.POST("/intake/:id/export", h.ExportToDisk)
	protected.GET("/intake/:id/export/download", h.DownloadExport)
	protected.POST("/intake/:id/reset", h.ResetSession)
	protected.DELETE("/intake/:id", h.DropSession)
	protected.POST("/intake/:id/template", h.SaveTemplate)
	protected.GET("/templates", h.ListTemplates)

	protected.GET("/fields", h.ListFields)
	protected.POST("/fields", h.AddField)
	protected.PATCH("/fields/:id", h.ToggleField)
	protected.DELETE("/fields/:id", h.DeleteField)

	protected.GET("/settings/pagination", h.GetPaginationLimit)
	protected.PUT("/settings/pagination", h.SetPaginationLimit)
}

// fail translates domain errors into HTTP status codes.
func fail(c *gin.Context, err error) {
	var unreadable *reader.UnreadableFileError
	switch {
	case errors.Is(err, wizard.ErrSessionNotFound), errors.Is(err, store.ErrFieldNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, wizard.ErrMappingIncomplete):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	case errors.Is(err, wizard.ErrBusy), errors.Is(err, wizard.ErrWrongStep),
		errors.Is(err, wizard.ErrNotConfirmed), errors.Is(err, store.ErrDuplicateKey):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, store.ErrFieldProtected):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, reader.ErrEmptyFile), errors.As(err, &unreadable):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

func (h *Handler) session(c *gin.Context) (*wizard.Session, bool) {
	session, err := h.manager.Get(c.Param("id"))
	if err != nil {
		fail(c, err)
		return nil, false
	}
	return session, true
}
