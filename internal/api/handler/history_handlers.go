package handler

import (
	"net/http"
	"strconv"
	"time"

	"childguard/backend/internal/audit"
	"childguard/backend/internal/models"

	"github.com/gin-gonic/gin"
)

// History serves the paginated activity log, scoped to the caller's
// peers. Dates are accepted as YYYY-MM-DD; the end date is pushed to the
// end of its day so a single-day range covers the whole day.
func (h *Handler) History(c *gin.Context) {
	q := audit.HistoryQuery{
		Action: models.AuditAction(c.Query("action")),
	}

	if v := c.Query("page"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			q.Page = n
		}
	}
	if v := c.Query("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			q.Limit = n
		}
	}
	if v := c.Query("startDate"); v != "" {
		if t, err := time.Parse("2006-01-02", v); err == nil {
			q.From = &t
		}
	}
	if v := c.Query("endDate"); v != "" {
		if t, err := time.Parse("2006-01-02", v); err == nil {
			end := t.Add(24*time.Hour - time.Nanosecond)
			q.To = &end
		}
	}

	page, err := h.Trail.History(h.actor(c), q)
	if err != nil {
		h.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}
