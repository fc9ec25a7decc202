// Package storage is the persistence layer: PostgreSQL through GORM for
// documents, Redis for the atomic unit statistics counters.
package storage

import (
	"context"
	"errors"
	"log"

	"childguard/backend/internal/access"
	"childguard/backend/internal/models"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Service struct {
	DB    *gorm.DB
	Redis *redis.Client
	Ctx   context.Context
}

// NewStorageService Constructor
func NewStorageService(db *gorm.DB, rdb *redis.Client) *Service {
	return &Service{
		DB:    db,
		Redis: rdb,
		Ctx:   context.Background(),
	}
}

// CaseFilter combines the access scope with the optional list filters.
type CaseFilter struct {
	Scope        access.CaseScope
	Status       models.CaseStatus
	UnitID       string
	UrgencyLevel models.UrgencyLevel
	IncidentType models.IncidentType
	Archived     *bool
}

// CreateCase inserts a new case with its flags and attachments.
func (s *Service) CreateCase(c *models.Case) error {
	if err := s.DB.Create(c).Error; err != nil {
		log.Printf("ERROR: Failed to create case: %v", err)
		return err
	}
	return nil
}

// SaveCase persists the full case state.
func (s *Service) SaveCase(c *models.Case) error {
	return s.DB.Save(c).Error
}

// GetCaseByID returns the case with flags and attachments loaded, or nil
// when no such case exists.
func (s *Service) GetCaseByID(id string) (*models.Case, error) {
	var c models.Case
	err := s.DB.Preload("AIFlags").Preload("Attachments").First(&c, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// ListCases returns the cases matching the filter, newest first. The scope
// predicate is always applied; an empty scope matches nothing.
func (s *Service) ListCases(f CaseFilter) ([]models.Case, error) {
	q := s.DB.Model(&models.Case{}).Preload("AIFlags").Preload("Attachments")

	if !f.Scope.AllUnits {
		if f.Scope.UnitID == "" && f.Scope.AssignedToID == "" {
			return []models.Case{}, nil
		}
		if f.Scope.AssignedToID != "" {
			q = q.Where("unit_id = ? OR assigned_to_id = ?", f.Scope.UnitID, f.Scope.AssignedToID)
		} else {
			q = q.Where("unit_id = ?", f.Scope.UnitID)
		}
	}

	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.UnitID != "" {
		q = q.Where("unit_id = ?", f.UnitID)
	}
	if f.UrgencyLevel != "" {
		q = q.Where("urgency_level = ?", f.UrgencyLevel)
	}
	if f.IncidentType != "" {
		q = q.Where("incident_type = ?", f.IncidentType)
	}
	if f.Archived != nil {
		q = q.Where("is_archived = ?", *f.Archived)
	}

	var cases []models.Case
	if err := q.Order("created_at desc").Find(&cases).Error; err != nil {
		log.Printf("ERROR: Failed to list cases: %v", err)
		return nil, err
	}
	return cases, nil
}

// DeleteCase hard-removes a case together with its flags and attachments.
// Audit entries pointing at the case are left untouched.
func (s *Service) DeleteCase(id string) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("case_id = ?", id).Delete(&models.AIFlag{}).Error; err != nil {
			return err
		}
		if err := tx.Where("case_id = ?", id).Delete(&models.Attachment{}).Error; err != nil {
			return err
		}
		var wf models.Workflow
		err := tx.Select("id").First(&wf, "case_id = ?", id).Error
		if err == nil {
			if err := tx.Where("workflow_id = ?", wf.ID).Delete(&models.WorkflowNote{}).Error; err != nil {
				return err
			}
			if err := tx.Delete(&models.Workflow{}, "id = ?", wf.ID).Error; err != nil {
				return err
			}
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		return tx.Delete(&models.Case{}, "id = ?", id).Error
	})
}
