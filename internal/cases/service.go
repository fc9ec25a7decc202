// Package cases implements the case lifecycle: creation, the permissive
// but invariant-checked update, assignment, classification, escalation,
// safeguard, closure, archival and hard deletion. Every operation
// authorizes through the access package before mutating, and records an
// audit entry after the mutation commits.
package cases

import (
	"time"

	"childguard/backend/internal/access"
	"childguard/backend/internal/analysis"
	"childguard/backend/internal/apperr"
	"childguard/backend/internal/audit"
	"childguard/backend/internal/config"
	"childguard/backend/internal/models"
	"childguard/backend/internal/storage"
)

// Store is the slice of the storage layer the case service needs.
type Store interface {
	CreateCase(c *models.Case) error
	SaveCase(c *models.Case) error
	GetCaseByID(id string) (*models.Case, error)
	ListCases(f storage.CaseFilter) ([]models.Case, error)
	DeleteCase(id string) error
	IncrementUnitCounter(unitID, counter string, delta int) error
	GetUnitByID(id string) (*models.Unit, error)
	GetActorByID(id string) (*models.Actor, error)
}

// Recorder is the audit hook; satisfied by audit.Trail.
type Recorder interface {
	Record(actorID string, action models.AuditAction, targetType models.TargetType, targetID string, meta audit.RequestMeta)
}

// Service handles the business logic for cases.
type Service struct {
	store Store
	trail Recorder
}

// NewService creates a new case service.
func NewService(store Store, trail Recorder) *Service {
	return &Service{store: store, trail: trail}
}

// CreateInput carries the caller-supplied fields for a new case.
type CreateInput struct {
	Title        string
	Description  string
	ChildName    string
	AbuserName   string
	UnitID       string
	Program      string
	IncidentType models.IncidentType
	UrgencyLevel models.UrgencyLevel
	IsAnonymous  bool
	Attachments  []models.Attachment
}

// Create registers a new report: scores it, attaches AI flags, persists it
// and bumps the unit's total-case counter.
func (s *Service) Create(actor *models.Actor, in CreateInput, meta audit.RequestMeta) (*models.Case, error) {
	if err := access.CanPerform(actor, access.OpCreateCase); err != nil {
		return nil, err
	}
	if in.Description == "" {
		return nil, apperr.Validation("description is required")
	}
	if in.IncidentType != "" && !in.IncidentType.Valid() {
		return nil, apperr.Validationf("invalid incidentType %q", in.IncidentType)
	}
	if in.UrgencyLevel == "" {
		in.UrgencyLevel = models.UrgencyMoyen
	}
	if !in.UrgencyLevel.Valid() {
		return nil, apperr.Validationf("invalid urgencyLevel %q", in.UrgencyLevel)
	}

	unitID := in.UnitID
	if unitID == "" {
		unitID = actor.UnitID
	}
	if unitID == "" {
		return nil, apperr.Validation("unit is required")
	}
	unit, err := s.store.GetUnitByID(unitID)
	if err != nil {
		return nil, err
	}
	if unit == nil {
		return nil, apperr.NotFound("unit")
	}

	score := analysis.SuspicionScore(in.Description, string(in.IncidentType))
	now := time.Now()

	var flags []models.AIFlag
	if score > 0 {
		flags = append(flags, models.AIFlag{
			Flag:       config.FlagLowQuality,
			Confidence: score,
			Timestamp:  now,
		})
	}
	if score > config.HighSuspicionThreshold {
		flags = append(flags, models.AIFlag{
			Flag:       config.FlagHighSuspicion,
			Confidence: score,
			Timestamp:  now,
		})
	}

	c := &models.Case{
		Title:            in.Title,
		Description:      in.Description,
		ChildName:        in.ChildName,
		AbuserName:       in.AbuserName,
		IsAnonymous:      in.IsAnonymous,
		CreatedByID:      actor.ID,
		UnitID:           unitID,
		Program:          in.Program,
		IncidentType:     in.IncidentType,
		UrgencyLevel:     in.UrgencyLevel,
		Status:           models.StatusPending,
		EscalationStatus: models.EscalationNone,
		SuspicionScore:   score,
		AIFlags:          flags,
		Attachments:      in.Attachments,
	}
	if err := s.store.CreateCase(c); err != nil {
		return nil, err
	}

	if err := s.store.IncrementUnitCounter(unitID, storage.CounterTotalCases, 1); err != nil {
		return nil, err
	}
	if in.UrgencyLevel == models.UrgencyEleve || in.UrgencyLevel == models.UrgencyCritique {
		if err := s.store.IncrementUnitCounter(unitID, storage.CounterUrgentCases, 1); err != nil {
			return nil, err
		}
	}

	s.trail.Record(actor.ID, models.ActionCreateCase, models.TargetCase, c.ID, meta)
	return c, nil
}

// loadVisible fetches a case and checks it against the actor's scope.
// Cases outside the scope come back as NotFound so callers cannot probe
// for the existence of reports in other units.
func (s *Service) loadVisible(actor *models.Actor, id string) (*models.Case, error) {
	c, err := s.store.GetCaseByID(id)
	if err != nil {
		return nil, err
	}
	if c == nil || !access.CaseVisible(actor, c) {
		return nil, apperr.NotFound("case")
	}
	return c, nil
}

// Get returns one case within the actor's scope.
func (s *Service) Get(actor *models.Actor, id string, meta audit.RequestMeta) (*models.Case, error) {
	if err := access.CanPerform(actor, access.OpViewCases); err != nil {
		return nil, err
	}
	c, err := s.loadVisible(actor, id)
	if err != nil {
		return nil, err
	}
	s.trail.Record(actor.ID, models.ActionViewCase, models.TargetCase, c.ID, meta)
	return c, nil
}

// ListQuery carries the optional list filters.
type ListQuery struct {
	Status       models.CaseStatus
	UnitID       string
	UrgencyLevel models.UrgencyLevel
	IncidentType models.IncidentType
	Archived     *bool
}

// List returns the cases visible to the actor, newest first.
func (s *Service) List(actor *models.Actor, q ListQuery, meta audit.RequestMeta) ([]models.Case, error) {
	if err := access.CanPerform(actor, access.OpViewCases); err != nil {
		return nil, err
	}
	scope, err := access.CasesScope(actor)
	if err != nil {
		return nil, err
	}

	out, err := s.store.ListCases(storage.CaseFilter{
		Scope:        scope,
		Status:       q.Status,
		UnitID:       q.UnitID,
		UrgencyLevel: q.UrgencyLevel,
		IncidentType: q.IncidentType,
		Archived:     q.Archived,
	})
	if err != nil {
		return nil, err
	}
	s.trail.Record(actor.ID, models.ActionViewCases, models.TargetCase, "", meta)
	return out, nil
}

// Patch is the typed update object. Only non-nil fields are merged; the
// merged case must still satisfy every invariant, so the permissive update
// cannot smuggle in an illegal state.
type Patch struct {
	Title            *string
	Description      *string
	ChildName        *string
	AbuserName       *string
	Program          *string
	IncidentType     *models.IncidentType
	UrgencyLevel     *models.UrgencyLevel
	Status           *models.CaseStatus
	Classification   *models.Classification
	EscalationStatus *models.EscalationStatus
	EscalatedTo      *models.EscalationTarget
	AssignedToID     *string
	ClosureReason    *string
	IsArchived       *bool
}

func (p Patch) apply(c *models.Case) {
	if p.Title != nil {
		c.Title = *p.Title
	}
	if p.Description != nil {
		c.Description = *p.Description
	}
	if p.ChildName != nil {
		c.ChildName = *p.ChildName
	}
	if p.AbuserName != nil {
		c.AbuserName = *p.AbuserName
	}
	if p.Program != nil {
		c.Program = *p.Program
	}
	if p.IncidentType != nil {
		c.IncidentType = *p.IncidentType
	}
	if p.UrgencyLevel != nil {
		c.UrgencyLevel = *p.UrgencyLevel
	}
	if p.Status != nil {
		c.Status = *p.Status
	}
	if p.Classification != nil {
		c.Classification = *p.Classification
	}
	if p.EscalationStatus != nil {
		c.EscalationStatus = *p.EscalationStatus
	}
	if p.EscalatedTo != nil {
		c.EscalatedTo = *p.EscalatedTo
	}
	if p.AssignedToID != nil {
		c.AssignedToID = *p.AssignedToID
	}
	if p.ClosureReason != nil {
		c.ClosureReason = *p.ClosureReason
	}
	if p.IsArchived != nil {
		c.IsArchived = *p.IsArchived
	}
}

// Update merges a typed patch into the case. Requires LEVEL2. The patch is
// validated against the case invariants after the merge and rejected as a
// whole if any of them would break.
func (s *Service) Update(actor *models.Actor, id string, patch Patch, meta audit.RequestMeta) (*models.Case, error) {
	if err := access.CanPerform(actor, access.OpUpdateCase); err != nil {
		return nil, err
	}
	c, err := s.loadVisible(actor, id)
	if err != nil {
		return nil, err
	}

	if patch.Description != nil && *patch.Description == "" {
		return nil, apperr.Validation("description cannot be cleared")
	}

	patch.apply(c)
	if err := c.Validate(); err != nil {
		return nil, err
	}
	if err := s.store.SaveCase(c); err != nil {
		return nil, err
	}

	s.trail.Record(actor.ID, models.ActionUpdateCase, models.TargetCase, c.ID, meta)
	return c, nil
}

// Assign hands the case to a level-2 actor and moves it to IN_PROGRESS.
func (s *Service) Assign(actor *models.Actor, id, assigneeID string, meta audit.RequestMeta) (*models.Case, error) {
	if err := access.CanPerform(actor, access.OpAssignCase); err != nil {
		return nil, err
	}
	c, err := s.loadVisible(actor, id)
	if err != nil {
		return nil, err
	}
	assignee, err := s.store.GetActorByID(assigneeID)
	if err != nil {
		return nil, err
	}
	if assignee == nil {
		return nil, apperr.NotFound("actor")
	}

	now := time.Now()
	c.AssignedToID = assignee.ID
	c.AssignedAt = &now
	c.Status = models.StatusInProgress
	if err := s.store.SaveCase(c); err != nil {
		return nil, err
	}

	s.trail.Record(actor.ID, models.ActionAssignCase, models.TargetCase, c.ID, meta)
	return c, nil
}

// Classify sets the handling track. A pending case cannot carry a
// classification, so classification implies the case has been picked up.
func (s *Service) Classify(actor *models.Actor, id string, classification models.Classification, meta audit.RequestMeta) (*models.Case, error) {
	if err := access.CanPerform(actor, access.OpClassifyCase); err != nil {
		return nil, err
	}
	if !classification.Valid() {
		return nil, apperr.Validationf("invalid classification %q", classification)
	}
	c, err := s.loadVisible(actor, id)
	if err != nil {
		return nil, err
	}
	if c.Status == models.StatusPending {
		return nil, apperr.InvalidState("cannot classify a pending case")
	}

	now := time.Now()
	c.Classification = classification
	c.ClassifiedByID = actor.ID
	c.ClassifiedAt = &now
	if err := s.store.SaveCase(c); err != nil {
		return nil, err
	}

	s.trail.Record(actor.ID, models.ActionClassifyCase, models.TargetCase, c.ID, meta)
	return c, nil
}

// Escalate raises the case to the unit director or the national office.
func (s *Service) Escalate(actor *models.Actor, id string, target models.EscalationTarget, meta audit.RequestMeta) (*models.Case, error) {
	if err := access.CanPerform(actor, access.OpEscalateCase); err != nil {
		return nil, err
	}
	if !target.Valid() {
		return nil, apperr.Validationf("invalid escalation target %q", target)
	}
	c, err := s.loadVisible(actor, id)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	c.EscalationStatus = models.EscalationEscalated
	c.EscalatedTo = target
	c.EscalatedByID = actor.ID
	c.EscalatedAt = &now
	if err := s.store.SaveCase(c); err != nil {
		return nil, err
	}

	s.trail.Record(actor.ID, models.ActionEscalateCase, models.TargetCase, c.ID, meta)
	return c, nil
}

// Safeguard has a level-2 actor take ownership of the case on the
// safeguard track, starting the handling deadline.
func (s *Service) Safeguard(actor *models.Actor, id string, meta audit.RequestMeta) (*models.Case, error) {
	if err := access.CanPerform(actor, access.OpSafeguardCase); err != nil {
		return nil, err
	}
	c, err := s.loadVisible(actor, id)
	if err != nil {
		return nil, err
	}
	if c.Status == models.StatusClosed || c.Status == models.StatusFalseReport {
		return nil, apperr.InvalidState("cannot safeguard a terminal case")
	}

	now := time.Now()
	deadline := now.Add(config.SafeguardDeadline)
	if c.Status == models.StatusPending {
		c.Status = models.StatusInProgress
	}
	c.Classification = models.ClassificationSafeguard
	c.ClassifiedByID = actor.ID
	c.ClassifiedAt = &now
	c.SauvegardedAt = &now
	c.DeadlineAt = &deadline
	if err := s.store.SaveCase(c); err != nil {
		return nil, err
	}

	s.trail.Record(actor.ID, models.ActionSafeguardCase, models.TargetCase, c.ID, meta)
	return c, nil
}

// MarkFalseReport classifies the case as a false report and bumps the
// unit's false-report counter.
func (s *Service) MarkFalseReport(actor *models.Actor, id string, meta audit.RequestMeta) (*models.Case, error) {
	if err := access.CanPerform(actor, access.OpMarkFalseReport); err != nil {
		return nil, err
	}
	c, err := s.loadVisible(actor, id)
	if err != nil {
		return nil, err
	}
	if c.IsArchived {
		return nil, apperr.InvalidState("cannot reclassify an archived case")
	}

	now := time.Now()
	c.Status = models.StatusFalseReport
	c.Classification = models.ClassificationFalseReport
	c.ClassifiedByID = actor.ID
	c.ClassifiedAt = &now
	if err := s.store.SaveCase(c); err != nil {
		return nil, err
	}

	if err := s.store.IncrementUnitCounter(c.UnitID, storage.CounterFalseCases, 1); err != nil {
		return nil, err
	}

	s.trail.Record(actor.ID, models.ActionMarkFalseReport, models.TargetCase, c.ID, meta)
	return c, nil
}

// Close moves the case to its terminal CLOSED state. Requires LEVEL3.
func (s *Service) Close(actor *models.Actor, id, reason string, meta audit.RequestMeta) (*models.Case, error) {
	if err := access.CanPerform(actor, access.OpCloseCase); err != nil {
		return nil, err
	}
	c, err := s.loadVisible(actor, id)
	if err != nil {
		return nil, err
	}
	if c.IsArchived {
		return nil, apperr.InvalidState("case is archived")
	}

	now := time.Now()
	c.Status = models.StatusClosed
	c.ClosedByID = actor.ID
	c.ClosedAt = &now
	c.ClosureReason = reason
	if err := s.store.SaveCase(c); err != nil {
		return nil, err
	}

	s.trail.Record(actor.ID, models.ActionCloseCase, models.TargetCase, c.ID, meta)
	return c, nil
}

// Archive flags a closed case as archived. Requires LEVEL3. Archiving a
// case that is not closed, or archiving twice, is an InvalidState error
// and leaves the case untouched.
func (s *Service) Archive(actor *models.Actor, id string, meta audit.RequestMeta) (*models.Case, error) {
	if err := access.CanPerform(actor, access.OpArchiveCase); err != nil {
		return nil, err
	}
	c, err := s.loadVisible(actor, id)
	if err != nil {
		return nil, err
	}
	if c.IsArchived {
		return nil, apperr.InvalidState("case is already archived")
	}
	if c.Status != models.StatusClosed {
		return nil, apperr.InvalidState("only closed cases can be archived")
	}

	now := time.Now()
	c.IsArchived = true
	c.ArchivedByID = actor.ID
	c.ArchivedAt = &now
	if err := s.store.SaveCase(c); err != nil {
		return nil, err
	}

	s.trail.Record(actor.ID, models.ActionArchiveCase, models.TargetCase, c.ID, meta)
	return c, nil
}

// Delete hard-removes the case and decrements the unit's total-case
// counter (floored at zero). Requires LEVEL3. Audit entries pointing at
// the case survive.
func (s *Service) Delete(actor *models.Actor, id string, meta audit.RequestMeta) error {
	if err := access.CanPerform(actor, access.OpDeleteCase); err != nil {
		return err
	}
	c, err := s.loadVisible(actor, id)
	if err != nil {
		return err
	}

	if err := s.store.DeleteCase(c.ID); err != nil {
		return err
	}
	if err := s.store.IncrementUnitCounter(c.UnitID, storage.CounterTotalCases, -1); err != nil {
		return err
	}

	s.trail.Record(actor.ID, models.ActionDeleteCase, models.TargetCase, c.ID, meta)
	return nil
}
