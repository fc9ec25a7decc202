// Package workflow tracks the fixed ordered handling stages of each case.
// Stage completion is strictly ordered and race-safe: the storage update
// is guarded by the expected current stage, so two concurrent completions
// resolve with one InvalidTransition instead of a corrupted order.
package workflow

import (
	"errors"
	"time"

	"childguard/backend/internal/access"
	"childguard/backend/internal/apperr"
	"childguard/backend/internal/audit"
	"childguard/backend/internal/models"
	"childguard/backend/internal/reportgen"

	"gorm.io/gorm"
)

// Store is the slice of the storage layer the workflow service needs.
type Store interface {
	CreateWorkflow(w *models.Workflow) error
	SaveWorkflow(w *models.Workflow) error
	GetWorkflowByID(id string) (*models.Workflow, error)
	GetWorkflowByCaseID(caseID string) (*models.Workflow, error)
	ListWorkflowsByAssignee(actorID string) ([]models.Workflow, error)
	AdvanceWorkflowStage(id string, expected models.WorkflowStagePointer, updates map[string]interface{}) (bool, error)
	AddWorkflowNote(note *models.WorkflowNote) error
	GetCaseByID(id string) (*models.Case, error)
	SaveCase(c *models.Case) error
	GetActorByID(id string) (*models.Actor, error)
}

// Recorder is the audit hook; satisfied by audit.Trail.
type Recorder interface {
	Record(actorID string, action models.AuditAction, targetType models.TargetType, targetID string, meta audit.RequestMeta)
}

// Service handles the business logic for workflows.
type Service struct {
	store     Store
	trail     Recorder
	generator reportgen.Generator
}

// NewService creates a new workflow service.
func NewService(store Store, trail Recorder, generator reportgen.Generator) *Service {
	return &Service{store: store, trail: trail, generator: generator}
}

// loadVisible fetches a workflow and checks its case against the actor's
// scope. Workflows of cases outside the scope come back as NotFound so a
// leaked workflow ID grants nothing across units.
func (s *Service) loadVisible(actor *models.Actor, workflowID string) (*models.Workflow, *models.Case, error) {
	w, err := s.store.GetWorkflowByID(workflowID)
	if err != nil {
		return nil, nil, err
	}
	if w == nil {
		return nil, nil, apperr.NotFound("workflow")
	}
	c, err := s.store.GetCaseByID(w.CaseID)
	if err != nil {
		return nil, nil, err
	}
	if c == nil || !access.CaseVisible(actor, c) {
		return nil, nil, apperr.NotFound("workflow")
	}
	return w, c, nil
}

// stagePrefix maps a stage name to its embedded column prefix.
var stagePrefix = map[models.StageName]string{
	models.StageInitialReport:  "initial_report_",
	models.StageDPEReport:      "dpe_report_",
	models.StageEvaluation:     "evaluation_",
	models.StageActionPlan:     "action_plan_",
	models.StageFollowUpReport: "follow_up_report_",
	models.StageFinalReport:    "final_report_",
	models.StageClosureNotice:  "closure_notice_",
}

// Create opens the workflow for a case and assigns it. A case has at most
// one workflow; a second create fails with AlreadyExists. The case moves
// to IN_PROGRESS under the assignee.
func (s *Service) Create(actor *models.Actor, caseID, assigneeID string, meta audit.RequestMeta) (*models.Workflow, error) {
	if err := access.CanPerform(actor, access.OpCreateWorkflow); err != nil {
		return nil, err
	}

	c, err := s.store.GetCaseByID(caseID)
	if err != nil {
		return nil, err
	}
	if c == nil || !access.CaseVisible(actor, c) {
		return nil, apperr.NotFound("case")
	}

	assignee, err := s.store.GetActorByID(assigneeID)
	if err != nil {
		return nil, err
	}
	if assignee == nil {
		return nil, apperr.NotFound("actor")
	}

	existing, err := s.store.GetWorkflowByCaseID(caseID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperr.AlreadyExists("case already has a workflow")
	}

	w := &models.Workflow{
		CaseID:       caseID,
		AssignedToID: assignee.ID,
		CurrentStage: models.PointerInitial,
		Status:       models.WorkflowActive,
	}
	if err := s.store.CreateWorkflow(w); err != nil {
		// The unique index wins a create race the pre-check missed.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperr.AlreadyExists("case already has a workflow")
		}
		return nil, err
	}

	now := time.Now()
	c.AssignedToID = assignee.ID
	c.AssignedAt = &now
	c.Status = models.StatusInProgress
	if err := s.store.SaveCase(c); err != nil {
		return nil, err
	}

	s.trail.Record(actor.ID, models.ActionCreateWorkflow, models.TargetWorkflow, w.ID, meta)
	return w, nil
}

// CompleteStage marks the named stage done and advances the current-stage
// pointer. The stage must be exactly the next one due; anything else is an
// InvalidTransition that leaves the workflow unchanged. The persisted
// update re-validates the current stage at commit time, so a racing
// completion loses cleanly.
func (s *Service) CompleteStage(actor *models.Actor, workflowID string, stage models.StageName, content string, meta audit.RequestMeta) (*models.Workflow, error) {
	if err := access.CanPerform(actor, access.OpCompleteStage); err != nil {
		return nil, err
	}

	expected, next, known := models.PointerFor(stage)
	if !known {
		return nil, apperr.Validationf("unknown stage %q", stage)
	}

	w, _, err := s.loadVisible(actor, workflowID)
	if err != nil {
		return nil, err
	}
	if w.Status != models.WorkflowActive {
		return nil, apperr.InvalidState("workflow is not active")
	}
	if w.CurrentStage != expected {
		return nil, apperr.InvalidTransition("stage " + string(stage) + " is not the next stage due")
	}

	prefix := stagePrefix[stage]
	now := time.Now()
	updates := map[string]interface{}{
		prefix + "completed":       true,
		prefix + "completed_at":    now,
		prefix + "completed_by_id": actor.ID,
		"current_stage":            next,
	}
	if content != "" {
		updates[prefix+"content"] = content
	}
	if stage == models.StageDPEReport && w.DPEReport.AIGenerated && content != "" && content != w.DPEReport.Content {
		// A human reworked the generated draft before submitting.
		updates[prefix+"edited"] = true
	}
	if next == models.PointerCompleted {
		updates["status"] = models.WorkflowCompleted
	}

	advanced, err := s.store.AdvanceWorkflowStage(workflowID, expected, updates)
	if err != nil {
		return nil, err
	}
	if !advanced {
		// Someone completed a stage between our read and the commit.
		return nil, apperr.InvalidTransition("stage order changed concurrently")
	}

	s.trail.Record(actor.ID, models.ActionCompleteStage, models.TargetWorkflow, workflowID, meta)
	return s.store.GetWorkflowByID(workflowID)
}

// GenerateDPE produces a draft for the DPE report stage via the generation
// collaborator. The draft is stored on the stage with aiGenerated set but
// does not complete it; a human must still call CompleteStage.
func (s *Service) GenerateDPE(actor *models.Actor, workflowID string, meta audit.RequestMeta) (string, error) {
	if err := access.CanPerform(actor, access.OpGenerateDPE); err != nil {
		return "", err
	}

	w, c, err := s.loadVisible(actor, workflowID)
	if err != nil {
		return "", err
	}

	draft, err := s.generator.GenerateDPE(reportgen.Context{Case: c, Workflow: w})
	if err != nil {
		return "", err
	}

	w.DPEReport.Content = draft
	w.DPEReport.AIGenerated = true
	w.DPEReport.Edited = false
	if err := s.store.SaveWorkflow(w); err != nil {
		return "", err
	}

	s.trail.Record(actor.ID, models.ActionGenerateDPE, models.TargetWorkflow, workflowID, meta)
	return draft, nil
}

// AddNote appends a timestamped note. Notes are append-only and carry no
// ordering constraint beyond insertion order.
func (s *Service) AddNote(actor *models.Actor, workflowID, content string, meta audit.RequestMeta) (*models.WorkflowNote, error) {
	if err := access.CanPerform(actor, access.OpAddWorkflowNote); err != nil {
		return nil, err
	}
	if content == "" {
		return nil, apperr.Validation("note content is required")
	}

	w, _, err := s.loadVisible(actor, workflowID)
	if err != nil {
		return nil, err
	}

	note := &models.WorkflowNote{
		WorkflowID:  w.ID,
		Content:     content,
		CreatedByID: actor.ID,
		CreatedAt:   time.Now(),
	}
	if err := s.store.AddWorkflowNote(note); err != nil {
		return nil, err
	}

	s.trail.Record(actor.ID, models.ActionUpdateWorkflow, models.TargetWorkflow, w.ID, meta)
	return note, nil
}

// Classify records the handling track on the workflow and mirrors it to
// the case when the case has left PENDING; otherwise the workflow
// classification simply precedes the case's.
func (s *Service) Classify(actor *models.Actor, workflowID string, classification models.Classification, meta audit.RequestMeta) (*models.Workflow, error) {
	if err := access.CanPerform(actor, access.OpClassifyWorkflow); err != nil {
		return nil, err
	}
	if !classification.Valid() {
		return nil, apperr.Validationf("invalid classification %q", classification)
	}

	w, c, err := s.loadVisible(actor, workflowID)
	if err != nil {
		return nil, err
	}

	w.Classification = classification
	if err := s.store.SaveWorkflow(w); err != nil {
		return nil, err
	}

	if c.Status != models.StatusPending {
		now := time.Now()
		c.Classification = classification
		c.ClassifiedByID = actor.ID
		c.ClassifiedAt = &now
		if err := s.store.SaveCase(c); err != nil {
			return nil, err
		}
	}

	s.trail.Record(actor.ID, models.ActionClassifyCase, models.TargetWorkflow, w.ID, meta)
	return w, nil
}

// GetByCase returns the workflow of a case the actor can see.
func (s *Service) GetByCase(actor *models.Actor, caseID string, meta audit.RequestMeta) (*models.Workflow, error) {
	if err := access.CanPerform(actor, access.OpCreateWorkflow); err != nil {
		return nil, err
	}

	c, err := s.store.GetCaseByID(caseID)
	if err != nil {
		return nil, err
	}
	if c == nil || !access.CaseVisible(actor, c) {
		return nil, apperr.NotFound("case")
	}

	w, err := s.store.GetWorkflowByCaseID(caseID)
	if err != nil {
		return nil, err
	}
	if w == nil {
		return nil, apperr.NotFound("workflow")
	}

	s.trail.Record(actor.ID, models.ActionViewCase, models.TargetWorkflow, w.ID, meta)
	return w, nil
}

// ListMine returns the workflows assigned to the calling actor, for the
// handling dashboard.
func (s *Service) ListMine(actor *models.Actor, meta audit.RequestMeta) ([]models.Workflow, error) {
	if err := access.CanPerform(actor, access.OpCreateWorkflow); err != nil {
		return nil, err
	}

	out, err := s.store.ListWorkflowsByAssignee(actor.ID)
	if err != nil {
		return nil, err
	}
	s.trail.Record(actor.ID, models.ActionViewCases, models.TargetWorkflow, "", meta)
	return out, nil
}
