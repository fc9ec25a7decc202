package handler

import (
	"net/http"

	"childguard/backend/internal/models"

	"github.com/gin-gonic/gin"
)

// CreateWorkflow opens the handling workflow for a case and assigns it.
func (h *Handler) CreateWorkflow(c *gin.Context) {
	var req struct {
		CaseID     string `json:"caseId" binding:"required"`
		AssignedTo string `json:"assignedTo" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": "VALIDATION_ERROR", "message": h.Localizer.GetString(h.lang(c), "VALIDATION_ERROR")})
		return
	}

	meta := h.meta(c)
	meta.Body = map[string]interface{}{"caseId": req.CaseID, "assignedTo": req.AssignedTo}

	out, err := h.Workflows.Create(h.actor(c), req.CaseID, req.AssignedTo, meta)
	if err != nil {
		h.renderError(c, err)
		return
	}
	c.JSON(http.StatusCreated, out)
}

// CompleteStage marks the named stage of a workflow as done.
func (h *Handler) CompleteStage(c *gin.Context) {
	var req struct {
		Content string `json:"content"`
	}
	_ = c.ShouldBindJSON(&req)

	stage := models.StageName(c.Param("stage"))
	meta := h.meta(c)
	meta.Body = map[string]interface{}{"stage": string(stage)}

	out, err := h.Workflows.CompleteStage(h.actor(c), c.Param("id"), stage, req.Content, meta)
	if err != nil {
		h.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

// GenerateDPE returns a generated draft for the DPE report stage.
func (h *Handler) GenerateDPE(c *gin.Context) {
	draft, err := h.Workflows.GenerateDPE(h.actor(c), c.Param("id"), h.meta(c))
	if err != nil {
		h.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"content": draft, "aiGenerated": true})
}

// AddWorkflowNote appends a note to the workflow.
func (h *Handler) AddWorkflowNote(c *gin.Context) {
	var req struct {
		Content string `json:"content" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": "VALIDATION_ERROR", "message": h.Localizer.GetString(h.lang(c), "VALIDATION_ERROR")})
		return
	}

	note, err := h.Workflows.AddNote(h.actor(c), c.Param("id"), req.Content, h.meta(c))
	if err != nil {
		h.renderError(c, err)
		return
	}
	c.JSON(http.StatusCreated, note)
}

// ClassifyWorkflow records the handling track on the workflow.
func (h *Handler) ClassifyWorkflow(c *gin.Context) {
	var req struct {
		Classification models.Classification `json:"classification" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": "VALIDATION_ERROR", "message": h.Localizer.GetString(h.lang(c), "VALIDATION_ERROR")})
		return
	}

	meta := h.meta(c)
	meta.Body = map[string]interface{}{"classification": string(req.Classification)}

	out, err := h.Workflows.Classify(h.actor(c), c.Param("id"), req.Classification, meta)
	if err != nil {
		h.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

// GetWorkflowByCase returns the workflow of one case.
func (h *Handler) GetWorkflowByCase(c *gin.Context) {
	out, err := h.Workflows.GetByCase(h.actor(c), c.Param("caseId"), h.meta(c))
	if err != nil {
		h.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

// MyWorkflows lists the workflows assigned to the caller.
func (h *Handler) MyWorkflows(c *gin.Context) {
	out, err := h.Workflows.ListMine(h.actor(c), h.meta(c))
	if err != nil {
		h.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}
