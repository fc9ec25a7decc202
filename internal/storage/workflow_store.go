package storage

import (
	"errors"
	"log"

	"childguard/backend/internal/models"

	"gorm.io/gorm"
)

// CreateWorkflow inserts a new workflow. The unique index on case_id
// guarantees at most one workflow per case; a duplicate insert surfaces as
// gorm.ErrDuplicatedKey for the service to translate.
func (s *Service) CreateWorkflow(w *models.Workflow) error {
	if err := s.DB.Create(w).Error; err != nil {
		if !errors.Is(err, gorm.ErrDuplicatedKey) {
			log.Printf("ERROR: Failed to create workflow for case %s: %v", w.CaseID, err)
		}
		return err
	}
	return nil
}

// SaveWorkflow persists the full workflow state.
func (s *Service) SaveWorkflow(w *models.Workflow) error {
	return s.DB.Save(w).Error
}

// GetWorkflowByID returns the workflow with its notes, or nil when absent.
func (s *Service) GetWorkflowByID(id string) (*models.Workflow, error) {
	var w models.Workflow
	err := s.DB.Preload("Notes").First(&w, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &w, nil
}

// GetWorkflowByCaseID returns the case's workflow, or nil when absent.
func (s *Service) GetWorkflowByCaseID(caseID string) (*models.Workflow, error) {
	var w models.Workflow
	err := s.DB.Preload("Notes").First(&w, "case_id = ?", caseID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &w, nil
}

// ListWorkflowsByAssignee returns the workflows assigned to one actor,
// newest first.
func (s *Service) ListWorkflowsByAssignee(actorID string) ([]models.Workflow, error) {
	var workflows []models.Workflow
	err := s.DB.Preload("Notes").
		Where("assigned_to_id = ?", actorID).
		Order("created_at desc").
		Find(&workflows).Error
	if err != nil {
		log.Printf("ERROR: Failed to list workflows for %s: %v", actorID, err)
		return nil, err
	}
	return workflows, nil
}

// AdvanceWorkflowStage applies the stage-completion column updates only if
// the workflow's current stage still matches expected. The guard makes two
// racing completions resolve at commit time: the loser affects zero rows.
func (s *Service) AdvanceWorkflowStage(id string, expected models.WorkflowStagePointer, updates map[string]interface{}) (bool, error) {
	res := s.DB.Model(&models.Workflow{}).
		Where("id = ? AND current_stage = ?", id, expected).
		Updates(updates)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// AddWorkflowNote appends a note. Notes are append-only.
func (s *Service) AddWorkflowNote(note *models.WorkflowNote) error {
	return s.DB.Create(note).Error
}
