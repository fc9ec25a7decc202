package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AuditAction is one entry of the closed action vocabulary. Unknown actions
// are rejected at recording time so free-form strings never pollute the
// trail.
type AuditAction string

const (
	ActionViewActors      AuditAction = "VIEW_ACTORS"
	ActionCreateActor     AuditAction = "CREATE_ACTOR"
	ActionUpdateActor     AuditAction = "UPDATE_ACTOR"
	ActionUpdateActorRole AuditAction = "UPDATE_ACTOR_ROLE"
	ActionResetPassword   AuditAction = "RESET_PASSWORD"
	ActionDeleteActor     AuditAction = "DELETE_ACTOR"

	ActionCreateCase      AuditAction = "CREATE_CASE"
	ActionUpdateCase      AuditAction = "UPDATE_CASE"
	ActionDeleteCase      AuditAction = "DELETE_CASE"
	ActionClassifyCase    AuditAction = "CLASSIFY_CASE"
	ActionEscalateCase    AuditAction = "ESCALATE_CASE"
	ActionCloseCase       AuditAction = "CLOSE_CASE"
	ActionViewCase        AuditAction = "VIEW_CASE"
	ActionViewCases       AuditAction = "VIEW_CASES"
	ActionViewAllCases    AuditAction = "VIEW_ALL_CASES"
	ActionArchiveCase     AuditAction = "ARCHIVE_CASE"
	ActionAssignCase      AuditAction = "ASSIGN_CASE"
	ActionSafeguardCase   AuditAction = "SAFEGUARD_CASE"
	ActionMarkFalseReport AuditAction = "MARK_FALSE_REPORT"

	ActionDirectorSign       AuditAction = "DIRECTOR_SIGN"
	ActionDirectorForward    AuditAction = "DIRECTOR_FORWARD"
	ActionPredictFalseAlarm  AuditAction = "PREDICT_FALSE_ALARM"
	ActionDownloadAttachment AuditAction = "DOWNLOAD_ATTACHMENT"

	ActionCreateWorkflow AuditAction = "CREATE_WORKFLOW"
	ActionUpdateWorkflow AuditAction = "UPDATE_WORKFLOW"
	ActionCloseWorkflow  AuditAction = "CLOSE_WORKFLOW"
	ActionCompleteStage  AuditAction = "COMPLETE_STAGE"
	ActionGenerateDPE    AuditAction = "GENERATE_DPE"
	ActionViewDPE        AuditAction = "VIEW_DPE"
	ActionUpdateDPE      AuditAction = "UPDATE_DPE"
	ActionSubmitDPE      AuditAction = "SUBMIT_DPE"

	ActionGenerateReport   AuditAction = "GENERATE_REPORT"
	ActionDownloadTemplate AuditAction = "DOWNLOAD_TEMPLATE"

	ActionLogin  AuditAction = "LOGIN"
	ActionLogout AuditAction = "LOGOUT"

	ActionCreateUnit AuditAction = "CREATE_UNIT"
	ActionUpdateUnit AuditAction = "UPDATE_UNIT"

	ActionViewAuditLogs   AuditAction = "VIEW_AUDIT_LOGS"
	ActionAccessAnalytics AuditAction = "ACCESS_ANALYTICS"
	ActionExportData      AuditAction = "EXPORT_DATA"
)

var knownActions = map[AuditAction]bool{
	ActionViewActors: true, ActionCreateActor: true, ActionUpdateActor: true,
	ActionUpdateActorRole: true, ActionResetPassword: true, ActionDeleteActor: true,
	ActionCreateCase: true, ActionUpdateCase: true, ActionDeleteCase: true,
	ActionClassifyCase: true, ActionEscalateCase: true, ActionCloseCase: true,
	ActionViewCase: true, ActionViewCases: true, ActionViewAllCases: true,
	ActionArchiveCase: true, ActionAssignCase: true, ActionSafeguardCase: true,
	ActionMarkFalseReport: true, ActionDirectorSign: true, ActionDirectorForward: true,
	ActionPredictFalseAlarm: true, ActionDownloadAttachment: true,
	ActionCreateWorkflow: true, ActionUpdateWorkflow: true, ActionCloseWorkflow: true,
	ActionCompleteStage: true, ActionGenerateDPE: true, ActionViewDPE: true,
	ActionUpdateDPE: true, ActionSubmitDPE: true, ActionGenerateReport: true,
	ActionDownloadTemplate: true, ActionLogin: true, ActionLogout: true,
	ActionCreateUnit: true, ActionUpdateUnit: true, ActionViewAuditLogs: true,
	ActionAccessAnalytics: true, ActionExportData: true,
}

func (a AuditAction) Valid() bool { return knownActions[a] }

// RelevantActions is the subset served to human-facing history views; the
// noisy read-only VIEW_* actions are excluded by default.
var RelevantActions = []AuditAction{
	ActionCreateCase, ActionUpdateCase, ActionDeleteCase, ActionClassifyCase,
	ActionEscalateCase, ActionCloseCase, ActionArchiveCase, ActionAssignCase,
	ActionSafeguardCase, ActionMarkFalseReport, ActionDirectorSign,
	ActionDirectorForward, ActionCreateWorkflow, ActionUpdateWorkflow,
	ActionCloseWorkflow, ActionCompleteStage, ActionGenerateDPE, ActionUpdateDPE,
	ActionSubmitDPE, ActionDownloadTemplate, ActionDownloadAttachment,
	ActionPredictFalseAlarm,
}

// IsRelevant reports whether a belongs to the human-facing history subset.
func IsRelevant(a AuditAction) bool {
	for _, r := range RelevantActions {
		if r == a {
			return true
		}
	}
	return false
}

// TargetType names the entity kind an audit entry points at.
type TargetType string

const (
	TargetActor    TargetType = "Actor"
	TargetCase     TargetType = "Case"
	TargetWorkflow TargetType = "Workflow"
	TargetUnit     TargetType = "Unit"
)

// JSONMap stores an arbitrary details payload in a jsonb column.
type JSONMap map[string]interface{}

func (m JSONMap) Value() (driver.Value, error) {
	if m == nil {
		return nil, nil
	}
	return json.Marshal(m)
}

func (m *JSONMap) Scan(value interface{}) error {
	if value == nil {
		*m = nil
		return nil
	}
	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return errors.New("jsonmap: unsupported scan type")
	}
	return json.Unmarshal(data, m)
}

// AuditEntry is one immutable record of a sensitive or state-changing
// action. Entries are created exactly once and never mutated or deleted;
// they outlive the entities they point at.
type AuditEntry struct {
	ID         string      `gorm:"primaryKey" json:"id"`
	ActorID    string      `gorm:"type:uuid;not null;index:idx_audit_actor_time,priority:1" json:"actorId"`
	Action     AuditAction `gorm:"type:text;not null;index:idx_audit_action_time,priority:1" json:"action"`
	TargetType TargetType  `gorm:"type:text" json:"targetType,omitempty"`
	TargetID   string      `json:"targetId,omitempty"`
	Details    JSONMap     `gorm:"type:jsonb" json:"details,omitempty"`
	IPAddress  string      `json:"ipAddress,omitempty"`
	UserAgent  string      `json:"userAgent,omitempty"`
	CreatedAt  time.Time   `gorm:"index:idx_audit_actor_time,priority:2;index:idx_audit_action_time,priority:2" json:"createdAt"`
}

// BeforeCreate generates a new UUID for the entry if the ID is not set.
func (e *AuditEntry) BeforeCreate(tx *gorm.DB) (err error) {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	return
}
