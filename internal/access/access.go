// Package access computes authorization decisions and visibility scopes
// from an actor's role level, role detail and unit membership. Every
// decision is a pure function of its inputs; ambiguous or missing context
// always resolves to a denial, never to an unscoped query.
package access

import (
	"childguard/backend/internal/apperr"
	"childguard/backend/internal/models"
)

// Operation names an action subject to a minimum-role check.
type Operation string

const (
	OpCreateCase       Operation = "case.create"
	OpViewCases        Operation = "case.view"
	OpUpdateCase       Operation = "case.update"
	OpAssignCase       Operation = "case.assign"
	OpClassifyCase     Operation = "case.classify"
	OpEscalateCase     Operation = "case.escalate"
	OpSafeguardCase    Operation = "case.safeguard"
	OpMarkFalseReport  Operation = "case.markFalseReport"
	OpCloseCase        Operation = "case.close"
	OpArchiveCase      Operation = "case.archive"
	OpDeleteCase       Operation = "case.delete"
	OpCreateWorkflow   Operation = "workflow.create"
	OpCompleteStage    Operation = "workflow.completeStage"
	OpGenerateDPE      Operation = "workflow.generateDPE"
	OpAddWorkflowNote  Operation = "workflow.addNote"
	OpClassifyWorkflow Operation = "workflow.classify"
	OpViewHistory      Operation = "history.view"
	OpManageUnits      Operation = "unit.manage"
)

// opFloor declares the minimum role for each operation.
var opFloor = map[Operation]models.Role{
	OpCreateCase:       models.RoleLevel1,
	OpViewCases:        models.RoleLevel1,
	OpUpdateCase:       models.RoleLevel2,
	OpAssignCase:       models.RoleLevel2,
	OpClassifyCase:     models.RoleLevel2,
	OpEscalateCase:     models.RoleLevel2,
	OpSafeguardCase:    models.RoleLevel2,
	OpMarkFalseReport:  models.RoleLevel2,
	OpCloseCase:        models.RoleLevel3,
	OpArchiveCase:      models.RoleLevel3,
	OpDeleteCase:       models.RoleLevel3,
	OpCreateWorkflow:   models.RoleLevel2,
	OpCompleteStage:    models.RoleLevel2,
	OpGenerateDPE:      models.RoleLevel2,
	OpAddWorkflowNote:  models.RoleLevel2,
	OpClassifyWorkflow: models.RoleLevel2,
	OpViewHistory:      models.RoleLevel1,
	OpManageUnits:      models.RoleLevel3,
}

// CanPerform checks the actor against the operation's role floor. Unknown
// operations and unknown roles are denied.
func CanPerform(actor *models.Actor, op Operation) error {
	if actor == nil || !actor.Role.Valid() {
		return apperr.Forbidden("missing or invalid role context")
	}
	floor, ok := opFloor[op]
	if !ok {
		return apperr.Forbidden("unknown operation")
	}
	if !actor.Role.AtLeast(floor) {
		return apperr.Forbidden("insufficient role level")
	}
	return nil
}

// CaseScope is the filter predicate restricting which cases an actor may
// see. Zero-value means nothing is visible.
type CaseScope struct {
	// AllUnits grants unrestricted visibility across units.
	AllUnits bool
	// UnitID limits visibility to one unit when AllUnits is false.
	UnitID string
	// AssignedToID, when set, additionally admits cases assigned to this
	// actor regardless of unit.
	AssignedToID string
}

// CasesScope resolves the case-visibility predicate for an actor.
//   - LEVEL1 sees only its own unit.
//   - LEVEL2 sees its unit's cases plus cases assigned to it.
//   - LEVEL3 sees all units only when tagged NATIONAL_OFFICE; otherwise it
//     is a unit-scoped director view.
//   - LEVEL4 sees everything.
func CasesScope(actor *models.Actor) (CaseScope, error) {
	if actor == nil || !actor.Role.Valid() {
		return CaseScope{}, apperr.Forbidden("missing or invalid role context")
	}

	if actor.Global() {
		return CaseScope{AllUnits: true}, nil
	}

	if actor.UnitID == "" {
		// Unit-scoped role without a unit: fail closed.
		return CaseScope{}, apperr.Forbidden("actor has no unit membership")
	}

	scope := CaseScope{UnitID: actor.UnitID}
	if actor.Role == models.RoleLevel2 {
		scope.AssignedToID = actor.ID
	}
	return scope, nil
}

// Covers reports whether a case falls inside the scope.
func (s CaseScope) Covers(c *models.Case) bool {
	if c == nil {
		return false
	}
	if s.AllUnits {
		return true
	}
	if s.UnitID != "" && c.UnitID == s.UnitID {
		return true
	}
	return s.AssignedToID != "" && c.AssignedToID == s.AssignedToID
}

// CaseVisible resolves the actor's scope and checks one case against it.
func CaseVisible(actor *models.Actor, c *models.Case) bool {
	scope, err := CasesScope(actor)
	if err != nil {
		return false
	}
	return scope.Covers(c)
}

// AuditScope is the filter restricting whose audit entries an actor may
// read. History is strictly peer-scoped: only entries by actors at the
// same role level, and, for non-global roles, in the same unit. This is
// deliberately stricter than case visibility so operational history never
// flows across the hierarchy.
type AuditScope struct {
	Role   models.Role
	UnitID string // empty means all units (global roles only)
}

// HistoryScope resolves the audit-visibility predicate for an actor.
func HistoryScope(actor *models.Actor) (AuditScope, error) {
	if actor == nil || !actor.Role.Valid() {
		return AuditScope{}, apperr.Forbidden("missing or invalid role context")
	}

	if actor.Global() {
		return AuditScope{Role: actor.Role}, nil
	}

	if actor.UnitID == "" {
		return AuditScope{}, apperr.Forbidden("actor has no unit membership")
	}
	return AuditScope{Role: actor.Role, UnitID: actor.UnitID}, nil
}
