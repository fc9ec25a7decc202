package access

import (
	"testing"

	"childguard/backend/internal/apperr"
	"childguard/backend/internal/models"

	"github.com/stretchr/testify/assert"
)

func actor(role models.Role, detail models.RoleDetail, unitID string) *models.Actor {
	return &models.Actor{ID: "actor-1", Role: role, RoleDetail: detail, UnitID: unitID, IsActive: true}
}

func TestCanPerformRoleFloors(t *testing.T) {
	l1 := actor(models.RoleLevel1, "", "unit-a")
	l2 := actor(models.RoleLevel2, "", "unit-a")
	l3 := actor(models.RoleLevel3, "", "unit-a")

	assert.NoError(t, CanPerform(l1, OpCreateCase))
	assert.NoError(t, CanPerform(l1, OpViewCases))
	assert.Error(t, CanPerform(l1, OpClassifyCase))
	assert.Error(t, CanPerform(l1, OpCloseCase))

	assert.NoError(t, CanPerform(l2, OpClassifyCase))
	assert.NoError(t, CanPerform(l2, OpCompleteStage))
	assert.Error(t, CanPerform(l2, OpCloseCase))
	assert.Error(t, CanPerform(l2, OpArchiveCase))
	assert.Error(t, CanPerform(l2, OpDeleteCase))

	assert.NoError(t, CanPerform(l3, OpCloseCase))
	assert.NoError(t, CanPerform(l3, OpArchiveCase))
	assert.NoError(t, CanPerform(l3, OpManageUnits))
}

func TestCanPerformFailsClosed(t *testing.T) {
	assert.Error(t, CanPerform(nil, OpViewCases))
	assert.Error(t, CanPerform(&models.Actor{Role: "SUPERADMIN"}, OpViewCases))
	assert.Error(t, CanPerform(actor(models.RoleLevel4, "", ""), Operation("unknown.op")))

	err := CanPerform(nil, OpViewCases)
	assert.True(t, apperr.IsKind(err, apperr.KindForbidden))
}

func TestCasesScopeLevel1IsUnitBound(t *testing.T) {
	scope, err := CasesScope(actor(models.RoleLevel1, "", "unit-a"))
	assert.NoError(t, err)
	assert.False(t, scope.AllUnits)
	assert.Equal(t, "unit-a", scope.UnitID)
	assert.Empty(t, scope.AssignedToID)
}

func TestCasesScopeLevel2AdmitsAssignments(t *testing.T) {
	a := actor(models.RoleLevel2, "", "unit-a")
	scope, err := CasesScope(a)
	assert.NoError(t, err)
	assert.Equal(t, "unit-a", scope.UnitID)
	assert.Equal(t, a.ID, scope.AssignedToID)

	// Assigned case from another unit is visible.
	assert.True(t, scope.Covers(&models.Case{UnitID: "unit-b", AssignedToID: a.ID}))
	// Unassigned case from another unit is not.
	assert.False(t, scope.Covers(&models.Case{UnitID: "unit-b", AssignedToID: "someone-else"}))
}

func TestCasesScopeLevel3DependsOnDetail(t *testing.T) {
	director, err := CasesScope(actor(models.RoleLevel3, models.DetailUnitDirector, "unit-a"))
	assert.NoError(t, err)
	assert.False(t, director.AllUnits)
	assert.Equal(t, "unit-a", director.UnitID)

	national, err := CasesScope(actor(models.RoleLevel3, models.DetailNationalOffice, ""))
	assert.NoError(t, err)
	assert.True(t, national.AllUnits)
}

func TestCasesScopeLevel4IsGlobal(t *testing.T) {
	scope, err := CasesScope(actor(models.RoleLevel4, "", ""))
	assert.NoError(t, err)
	assert.True(t, scope.AllUnits)
	assert.True(t, scope.Covers(&models.Case{UnitID: "anything"}))
}

func TestCasesScopeRequiresUnitForScopedRoles(t *testing.T) {
	_, err := CasesScope(actor(models.RoleLevel1, "", ""))
	assert.True(t, apperr.IsKind(err, apperr.KindForbidden))
}

func TestCaseVisible(t *testing.T) {
	a := actor(models.RoleLevel1, "", "unit-a")
	assert.True(t, CaseVisible(a, &models.Case{UnitID: "unit-a"}))
	assert.False(t, CaseVisible(a, &models.Case{UnitID: "unit-b"}))
	assert.False(t, CaseVisible(a, nil))
	assert.False(t, CaseVisible(nil, &models.Case{UnitID: "unit-a"}))
}

func TestHistoryScopeIsPeerScoped(t *testing.T) {
	scope, err := HistoryScope(actor(models.RoleLevel2, "", "unit-a"))
	assert.NoError(t, err)
	assert.Equal(t, models.RoleLevel2, scope.Role)
	assert.Equal(t, "unit-a", scope.UnitID)
}

func TestHistoryScopeGlobalRoles(t *testing.T) {
	l4, err := HistoryScope(actor(models.RoleLevel4, "", ""))
	assert.NoError(t, err)
	assert.Equal(t, models.RoleLevel4, l4.Role)
	assert.Empty(t, l4.UnitID)

	national, err := HistoryScope(actor(models.RoleLevel3, models.DetailNationalOffice, "unit-a"))
	assert.NoError(t, err)
	assert.Equal(t, models.RoleLevel3, national.Role)
	assert.Empty(t, national.UnitID)

	// A plain LEVEL3 director stays unit-scoped.
	director, err := HistoryScope(actor(models.RoleLevel3, models.DetailUnitDirector, "unit-a"))
	assert.NoError(t, err)
	assert.Equal(t, "unit-a", director.UnitID)
}

func TestHistoryScopeFailsClosed(t *testing.T) {
	_, err := HistoryScope(nil)
	assert.True(t, apperr.IsKind(err, apperr.KindForbidden))

	_, err = HistoryScope(actor(models.RoleLevel2, "", ""))
	assert.True(t, apperr.IsKind(err, apperr.KindForbidden))
}
