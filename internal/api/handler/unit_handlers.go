package handler

import (
	"net/http"

	"childguard/backend/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/lib/pq"
)

// ListUnits returns all active units. Every authenticated actor may read
// the unit directory; it carries no case data.
func (h *Handler) ListUnits(c *gin.Context) {
	units, err := h.Store.ListUnits()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"code": "INTERNAL_ERROR", "message": h.Localizer.GetString(h.lang(c), "INTERNAL_ERROR")})
		return
	}
	c.JSON(http.StatusOK, units)
}

// GetUnit returns one unit by ID.
func (h *Handler) GetUnit(c *gin.Context) {
	u, err := h.Store.GetUnitByID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"code": "INTERNAL_ERROR", "message": h.Localizer.GetString(h.lang(c), "INTERNAL_ERROR")})
		return
	}
	if u == nil {
		c.JSON(http.StatusNotFound, gin.H{"code": "NOT_FOUND", "message": h.Localizer.GetString(h.lang(c), "NOT_FOUND")})
		return
	}
	c.JSON(http.StatusOK, u)
}

// UnitStatistics returns the live counter snapshot for one unit.
func (h *Handler) UnitStatistics(c *gin.Context) {
	stats, err := h.Store.UnitStatistics(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"code": "INTERNAL_ERROR", "message": h.Localizer.GetString(h.lang(c), "INTERNAL_ERROR")})
		return
	}
	if stats == nil {
		c.JSON(http.StatusNotFound, gin.H{"code": "NOT_FOUND", "message": h.Localizer.GetString(h.lang(c), "NOT_FOUND")})
		return
	}
	c.JSON(http.StatusOK, stats)
}

type unitRequest struct {
	Name      string   `json:"name" binding:"required"`
	Location  string   `json:"location" binding:"required"`
	Region    string   `json:"region" binding:"required"`
	Programs  []string `json:"programs"`
	Latitude  float64  `json:"latitude"`
	Longitude float64  `json:"longitude"`
}

// CreateUnit registers a new unit. Restricted to LEVEL3 and above by the
// route middleware.
func (h *Handler) CreateUnit(c *gin.Context) {
	var req unitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": "VALIDATION_ERROR", "message": h.Localizer.GetString(h.lang(c), "VALIDATION_ERROR")})
		return
	}

	u := &models.Unit{
		Name:      req.Name,
		Location:  req.Location,
		Region:    req.Region,
		Programs:  pq.StringArray(req.Programs),
		Latitude:  req.Latitude,
		Longitude: req.Longitude,
		IsActive:  true,
	}
	if err := h.Store.CreateUnit(u); err != nil {
		c.JSON(http.StatusConflict, gin.H{"code": "ALREADY_EXISTS", "message": h.Localizer.GetString(h.lang(c), "ALREADY_EXISTS")})
		return
	}

	actor := h.actor(c)
	h.Trail.Record(actor.ID, models.ActionCreateUnit, models.TargetUnit, u.ID, h.meta(c))

	c.JSON(http.StatusCreated, u)
}

// UpdateUnit changes the descriptive fields of a unit. Counters are not
// writable through this endpoint.
func (h *Handler) UpdateUnit(c *gin.Context) {
	u, err := h.Store.GetUnitByID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"code": "INTERNAL_ERROR", "message": h.Localizer.GetString(h.lang(c), "INTERNAL_ERROR")})
		return
	}
	if u == nil {
		c.JSON(http.StatusNotFound, gin.H{"code": "NOT_FOUND", "message": h.Localizer.GetString(h.lang(c), "NOT_FOUND")})
		return
	}

	var req struct {
		Name      *string  `json:"name"`
		Location  *string  `json:"location"`
		Region    *string  `json:"region"`
		Programs  []string `json:"programs"`
		Latitude  *float64 `json:"latitude"`
		Longitude *float64 `json:"longitude"`
		IsActive  *bool    `json:"isActive"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": "VALIDATION_ERROR", "message": h.Localizer.GetString(h.lang(c), "VALIDATION_ERROR")})
		return
	}

	if req.Name != nil {
		u.Name = *req.Name
	}
	if req.Location != nil {
		u.Location = *req.Location
	}
	if req.Region != nil {
		u.Region = *req.Region
	}
	if req.Programs != nil {
		u.Programs = pq.StringArray(req.Programs)
	}
	if req.Latitude != nil {
		u.Latitude = *req.Latitude
	}
	if req.Longitude != nil {
		u.Longitude = *req.Longitude
	}
	if req.IsActive != nil {
		u.IsActive = *req.IsActive
	}

	if err := h.Store.SaveUnit(u); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"code": "INTERNAL_ERROR", "message": h.Localizer.GetString(h.lang(c), "INTERNAL_ERROR")})
		return
	}

	actor := h.actor(c)
	h.Trail.Record(actor.ID, models.ActionUpdateUnit, models.TargetUnit, u.ID, h.meta(c))

	c.JSON(http.StatusOK, u)
}
