package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// StageName identifies one of the seven fixed handling stages.
type StageName string

const (
	StageInitialReport  StageName = "initialReport"
	StageDPEReport      StageName = "dpeReport"
	StageEvaluation     StageName = "evaluation"
	StageActionPlan     StageName = "actionPlan"
	StageFollowUpReport StageName = "followUpReport"
	StageFinalReport    StageName = "finalReport"
	StageClosureNotice  StageName = "closureNotice"
)

// StageOrder is the fixed completion order. Stage n+1 may only be completed
// once stage n is complete.
var StageOrder = []StageName{
	StageInitialReport,
	StageDPEReport,
	StageEvaluation,
	StageActionPlan,
	StageFollowUpReport,
	StageFinalReport,
	StageClosureNotice,
}

// WorkflowStagePointer is the aggregate current-stage value: the stage that
// is next to be completed, or COMPLETED once the closure notice is done.
type WorkflowStagePointer string

const (
	PointerInitial     WorkflowStagePointer = "INITIAL"
	PointerDPE         WorkflowStagePointer = "DPE"
	PointerEvaluation  WorkflowStagePointer = "EVALUATION"
	PointerActionPlan  WorkflowStagePointer = "ACTION_PLAN"
	PointerFollowUp    WorkflowStagePointer = "FOLLOW_UP"
	PointerFinalReport WorkflowStagePointer = "FINAL_REPORT"
	PointerClosure     WorkflowStagePointer = "CLOSURE"
	PointerCompleted   WorkflowStagePointer = "COMPLETED"
)

var stagePointers = map[StageName]struct {
	Expected WorkflowStagePointer // pointer value while the stage is the next one due
	Next     WorkflowStagePointer // pointer value once the stage completes
}{
	StageInitialReport:  {PointerInitial, PointerDPE},
	StageDPEReport:      {PointerDPE, PointerEvaluation},
	StageEvaluation:     {PointerEvaluation, PointerActionPlan},
	StageActionPlan:     {PointerActionPlan, PointerFollowUp},
	StageFollowUpReport: {PointerFollowUp, PointerFinalReport},
	StageFinalReport:    {PointerFinalReport, PointerClosure},
	StageClosureNotice:  {PointerClosure, PointerCompleted},
}

// PointerFor returns the pointer value under which stage is the next stage
// due, the pointer value reached after completing it, and whether stage is
// a known stage name.
func PointerFor(stage StageName) (expected, next WorkflowStagePointer, ok bool) {
	p, ok := stagePointers[stage]
	return p.Expected, p.Next, ok
}

// WorkflowStatus is the overall workflow state.
type WorkflowStatus string

const (
	WorkflowActive    WorkflowStatus = "ACTIVE"
	WorkflowSuspended WorkflowStatus = "SUSPENDED"
	WorkflowCompleted WorkflowStatus = "COMPLETED"
	WorkflowArchived  WorkflowStatus = "ARCHIVED"
)

// StageState is the completion record of a single stage. Content is unused
// for the initial report; AIGenerated/Edited are only meaningful for the
// DPE report.
type StageState struct {
	Completed     bool       `json:"completed"`
	CompletedAt   *time.Time `json:"completedAt,omitempty"`
	CompletedByID string     `gorm:"type:uuid" json:"completedBy,omitempty"`
	Content       string     `json:"content,omitempty"`
	AIGenerated   bool       `json:"aiGenerated,omitempty"`
	Edited        bool       `json:"edited,omitempty"`
}

// Workflow tracks the fixed ordered handling stages for one case. Exactly
// one workflow exists per case (unique index on CaseID).
type Workflow struct {
	ID             string         `gorm:"primaryKey" json:"id"`
	CaseID         string         `gorm:"type:uuid;uniqueIndex;not null" json:"caseId"`
	AssignedToID   string         `gorm:"type:uuid;not null;index" json:"assignedTo"`
	Classification Classification `gorm:"type:text" json:"classification,omitempty"`

	InitialReport  StageState `gorm:"embedded;embeddedPrefix:initial_report_" json:"initialReport"`
	DPEReport      StageState `gorm:"embedded;embeddedPrefix:dpe_report_" json:"dpeReport"`
	Evaluation     StageState `gorm:"embedded;embeddedPrefix:evaluation_" json:"evaluation"`
	ActionPlan     StageState `gorm:"embedded;embeddedPrefix:action_plan_" json:"actionPlan"`
	FollowUpReport StageState `gorm:"embedded;embeddedPrefix:follow_up_report_" json:"followUpReport"`
	FinalReport    StageState `gorm:"embedded;embeddedPrefix:final_report_" json:"finalReport"`
	ClosureNotice  StageState `gorm:"embedded;embeddedPrefix:closure_notice_" json:"closureNotice"`

	CurrentStage WorkflowStagePointer `gorm:"type:text;default:'INITIAL'" json:"currentStage"`
	Status       WorkflowStatus       `gorm:"type:text;default:'ACTIVE'" json:"status"`

	Notes []WorkflowNote `gorm:"foreignKey:WorkflowID" json:"notes,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// WorkflowNote is one append-only timestamped note.
type WorkflowNote struct {
	ID          uint      `gorm:"primaryKey" json:"-"`
	WorkflowID  string    `gorm:"type:uuid;not null;index" json:"-"`
	Content     string    `gorm:"not null" json:"content"`
	CreatedByID string    `gorm:"type:uuid;not null" json:"createdBy"`
	CreatedAt   time.Time `json:"createdAt"`
}

// BeforeCreate generates a new UUID for the workflow if the ID is not set.
func (w *Workflow) BeforeCreate(tx *gorm.DB) (err error) {
	if w.ID == "" {
		w.ID = uuid.New().String()
	}
	return
}

// Stage returns a pointer to the named stage's state, or nil for an
// unknown name.
func (w *Workflow) Stage(name StageName) *StageState {
	switch name {
	case StageInitialReport:
		return &w.InitialReport
	case StageDPEReport:
		return &w.DPEReport
	case StageEvaluation:
		return &w.Evaluation
	case StageActionPlan:
		return &w.ActionPlan
	case StageFollowUpReport:
		return &w.FollowUpReport
	case StageFinalReport:
		return &w.FinalReport
	case StageClosureNotice:
		return &w.ClosureNotice
	}
	return nil
}
