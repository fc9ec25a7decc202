package handler

import (
	"net/http"

	"childguard/backend/internal/cases"
	"childguard/backend/internal/models"

	"github.com/gin-gonic/gin"
)

// CreateCase accepts a multipart form with the report fields plus up to
// five attachment files.
func (h *Handler) CreateCase(c *gin.Context) {
	actor := h.actor(c)

	attachments, err := h.Saver.SaveAll(c, "attachments")
	if err != nil {
		h.renderError(c, err)
		return
	}

	in := cases.CreateInput{
		Title:        c.PostForm("title"),
		Description:  c.PostForm("description"),
		ChildName:    c.PostForm("childName"),
		AbuserName:   c.PostForm("abuserName"),
		UnitID:       c.PostForm("unit"),
		Program:      c.PostForm("program"),
		IncidentType: models.IncidentType(c.PostForm("incidentType")),
		UrgencyLevel: models.UrgencyLevel(c.PostForm("urgencyLevel")),
		IsAnonymous:  c.PostForm("isAnonymous") == "true",
		Attachments:  attachments,
	}

	meta := h.meta(c)
	meta.Body = map[string]interface{}{
		"title":        in.Title,
		"unit":         in.UnitID,
		"incidentType": string(in.IncidentType),
		"urgencyLevel": string(in.UrgencyLevel),
		"isAnonymous":  in.IsAnonymous,
	}

	created, err := h.Cases.Create(actor, in, meta)
	if err != nil {
		h.renderError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

// ListCases returns the cases visible to the caller, with optional
// filters.
func (h *Handler) ListCases(c *gin.Context) {
	q := cases.ListQuery{
		Status:       models.CaseStatus(c.Query("status")),
		UnitID:       c.Query("unit"),
		UrgencyLevel: models.UrgencyLevel(c.Query("urgencyLevel")),
		IncidentType: models.IncidentType(c.Query("incidentType")),
	}
	if v := c.Query("archived"); v != "" {
		archived := v == "true"
		q.Archived = &archived
	}

	out, err := h.Cases.List(h.actor(c), q, h.meta(c))
	if err != nil {
		h.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

// GetCase returns one case by ID.
func (h *Handler) GetCase(c *gin.Context) {
	out, err := h.Cases.Get(h.actor(c), c.Param("id"), h.meta(c))
	if err != nil {
		h.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

type updateCaseRequest struct {
	Title            *string                  `json:"title"`
	Description      *string                  `json:"description"`
	ChildName        *string                  `json:"childName"`
	AbuserName       *string                  `json:"abuserName"`
	Program          *string                  `json:"program"`
	IncidentType     *models.IncidentType     `json:"incidentType"`
	UrgencyLevel     *models.UrgencyLevel     `json:"urgencyLevel"`
	Status           *models.CaseStatus       `json:"status"`
	Classification   *models.Classification   `json:"classification"`
	EscalationStatus *models.EscalationStatus `json:"escalationStatus"`
	EscalatedTo      *models.EscalationTarget `json:"escalatedTo"`
	AssignedToID     *string                  `json:"assignedTo"`
	ClosureReason    *string                  `json:"closureReason"`
	IsArchived       *bool                    `json:"isArchived"`
}

// UpdateCase merges a typed patch into the case.
func (h *Handler) UpdateCase(c *gin.Context) {
	var req updateCaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": "VALIDATION_ERROR", "message": h.Localizer.GetString(h.lang(c), "VALIDATION_ERROR")})
		return
	}

	patch := cases.Patch{
		Title:            req.Title,
		Description:      req.Description,
		ChildName:        req.ChildName,
		AbuserName:       req.AbuserName,
		Program:          req.Program,
		IncidentType:     req.IncidentType,
		UrgencyLevel:     req.UrgencyLevel,
		Status:           req.Status,
		Classification:   req.Classification,
		EscalationStatus: req.EscalationStatus,
		EscalatedTo:      req.EscalatedTo,
		AssignedToID:     req.AssignedToID,
		ClosureReason:    req.ClosureReason,
		IsArchived:       req.IsArchived,
	}

	out, err := h.Cases.Update(h.actor(c), c.Param("id"), patch, h.meta(c))
	if err != nil {
		h.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

// AssignCase hands a case to a level-2 actor.
func (h *Handler) AssignCase(c *gin.Context) {
	var req struct {
		UserID string `json:"userId" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": "VALIDATION_ERROR", "message": h.Localizer.GetString(h.lang(c), "VALIDATION_ERROR")})
		return
	}

	meta := h.meta(c)
	meta.Body = map[string]interface{}{"userId": req.UserID}

	out, err := h.Cases.Assign(h.actor(c), c.Param("id"), req.UserID, meta)
	if err != nil {
		h.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

// ClassifyCase sets the handling track.
func (h *Handler) ClassifyCase(c *gin.Context) {
	var req struct {
		Classification models.Classification `json:"classification" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": "VALIDATION_ERROR", "message": h.Localizer.GetString(h.lang(c), "VALIDATION_ERROR")})
		return
	}

	meta := h.meta(c)
	meta.Body = map[string]interface{}{"classification": string(req.Classification)}

	out, err := h.Cases.Classify(h.actor(c), c.Param("id"), req.Classification, meta)
	if err != nil {
		h.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

// EscalateCase raises the case up the hierarchy.
func (h *Handler) EscalateCase(c *gin.Context) {
	var req struct {
		Target models.EscalationTarget `json:"target" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": "VALIDATION_ERROR", "message": h.Localizer.GetString(h.lang(c), "VALIDATION_ERROR")})
		return
	}

	meta := h.meta(c)
	meta.Body = map[string]interface{}{"target": string(req.Target)}

	out, err := h.Cases.Escalate(h.actor(c), c.Param("id"), req.Target, meta)
	if err != nil {
		h.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

// SafeguardCase has the caller take safeguard ownership of the case.
func (h *Handler) SafeguardCase(c *gin.Context) {
	out, err := h.Cases.Safeguard(h.actor(c), c.Param("id"), h.meta(c))
	if err != nil {
		h.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

// MarkFalseReport classifies the case as a false report.
func (h *Handler) MarkFalseReport(c *gin.Context) {
	out, err := h.Cases.MarkFalseReport(h.actor(c), c.Param("id"), h.meta(c))
	if err != nil {
		h.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

// CloseCase moves the case to CLOSED.
func (h *Handler) CloseCase(c *gin.Context) {
	var req struct {
		ClosureReason string `json:"closureReason"`
	}
	_ = c.ShouldBindJSON(&req)

	meta := h.meta(c)
	meta.Body = map[string]interface{}{"closureReason": req.ClosureReason}

	out, err := h.Cases.Close(h.actor(c), c.Param("id"), req.ClosureReason, meta)
	if err != nil {
		h.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

// ArchiveCase flags a closed case as archived.
func (h *Handler) ArchiveCase(c *gin.Context) {
	out, err := h.Cases.Archive(h.actor(c), c.Param("id"), h.meta(c))
	if err != nil {
		h.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

// DeleteCase hard-removes a case.
func (h *Handler) DeleteCase(c *gin.Context) {
	if err := h.Cases.Delete(h.actor(c), c.Param("id"), h.meta(c)); err != nil {
		h.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "case deleted"})
}
