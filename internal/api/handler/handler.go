package handler

import (
	"errors"
	"net/http"
	"strings"

	"childguard/backend/internal/apperr"
	"childguard/backend/internal/audit"
	"childguard/backend/internal/cases"
	"childguard/backend/internal/localization"
	"childguard/backend/internal/models"
	"childguard/backend/internal/storage"
	"childguard/backend/internal/uploads"
	"childguard/backend/internal/workflow"

	"github.com/gin-gonic/gin"
)

// Handler holds the services behind the HTTP surface.
type Handler struct {
	Cases     *cases.Service
	Workflows *workflow.Service
	Trail     *audit.Trail
	Store     *storage.Service
	Saver     *uploads.Saver
	Localizer *localization.Localizer
	JWTSecret []byte
}

func NewHandler(caseSvc *cases.Service, wfSvc *workflow.Service, trail *audit.Trail, store *storage.Service, saver *uploads.Saver, loc *localization.Localizer, jwtSecret []byte) *Handler {
	return &Handler{
		Cases:     caseSvc,
		Workflows: wfSvc,
		Trail:     trail,
		Store:     store,
		Saver:     saver,
		Localizer: loc,
		JWTSecret: jwtSecret,
	}
}

// meta snapshots the request for the audit details payload.
func (h *Handler) meta(c *gin.Context) audit.RequestMeta {
	query := make(map[string]string)
	for k, v := range c.Request.URL.Query() {
		if len(v) > 0 {
			query[k] = v[0]
		}
	}
	return audit.RequestMeta{
		Method:    c.Request.Method,
		Path:      c.Request.URL.Path,
		Query:     query,
		IPAddress: c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
	}
}

func (h *Handler) lang(c *gin.Context) string {
	lang := c.GetHeader("Accept-Language")
	if i := strings.IndexAny(lang, ",-;"); i > 0 {
		lang = lang[:i]
	}
	if lang == "" {
		return "fr"
	}
	return strings.ToLower(lang)
}

// renderError maps a typed business error to its HTTP response. Forbidden
// is deliberately rendered with the NotFound shape so callers cannot probe
// for cases outside their scope.
func (h *Handler) renderError(c *gin.Context, err error) {
	var appErr *apperr.Error
	if !errors.As(err, &appErr) {
		c.JSON(http.StatusInternalServerError, gin.H{
			"code":    "INTERNAL_ERROR",
			"message": h.Localizer.GetString(h.lang(c), "INTERNAL_ERROR"),
		})
		return
	}

	code := string(appErr.Kind)
	status := http.StatusBadRequest
	switch appErr.Kind {
	case apperr.KindNotFound:
		status = http.StatusNotFound
	case apperr.KindForbidden:
		status = http.StatusNotFound
		code = string(apperr.KindNotFound)
	case apperr.KindAlreadyExists:
		status = http.StatusConflict
	}

	c.JSON(status, gin.H{
		"code":    code,
		"message": h.Localizer.GetString(h.lang(c), code),
	})
}

// actor returns the authenticated actor placed in the context by the auth
// middleware.
func (h *Handler) actor(c *gin.Context) *models.Actor {
	v, ok := c.Get("actor")
	if !ok {
		return nil
	}
	a, _ := v.(*models.Actor)
	return a
}
