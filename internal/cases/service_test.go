package cases

import (
	"testing"

	"childguard/backend/internal/apperr"
	"childguard/backend/internal/audit"
	"childguard/backend/internal/config"
	"childguard/backend/internal/models"
	"childguard/backend/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

var noMeta = audit.RequestMeta{}

func reporter(role models.Role, unitID string) *models.Actor {
	return &models.Actor{ID: "actor-1", Role: role, UnitID: unitID, IsActive: true}
}

func TestCreateScoresAndFlagsLowQuality(t *testing.T) {
	store := new(mockStore)
	rec := &recorderStub{}
	svc := NewService(store, rec)

	store.On("GetUnitByID", "unit-a").Return(&models.Unit{ID: "unit-a"}, nil)
	store.On("CreateCase", mock.AnythingOfType("*models.Case")).Return(nil)
	store.On("IncrementUnitCounter", "unit-a", storage.CounterTotalCases, 1).Return(nil)

	c, err := svc.Create(reporter(models.RoleLevel1, "unit-a"), CreateInput{
		Description: "ok",
	}, noMeta)

	assert.NoError(t, err)
	assert.Equal(t, 40, c.SuspicionScore)
	assert.Len(t, c.AIFlags, 1)
	assert.Equal(t, config.FlagLowQuality, c.AIFlags[0].Flag)
	assert.Equal(t, models.StatusPending, c.Status)
	assert.Equal(t, models.UrgencyMoyen, c.UrgencyLevel)
	assert.Equal(t, []models.AuditAction{models.ActionCreateCase}, rec.actions)
	store.AssertExpectations(t)
}

func TestCreateFlagsHighSuspicion(t *testing.T) {
	store := new(mockStore)
	svc := NewService(store, &recorderStub{})

	store.On("GetUnitByID", "unit-a").Return(&models.Unit{ID: "unit-a"}, nil)
	store.On("CreateCase", mock.AnythingOfType("*models.Case")).Return(nil)
	store.On("IncrementUnitCounter", "unit-a", storage.CounterTotalCases, 1).Return(nil)
	store.On("IncrementUnitCounter", "unit-a", storage.CounterUrgentCases, 1).Return(nil)

	c, err := svc.Create(reporter(models.RoleLevel1, "unit-a"), CreateInput{
		Description:  "test fake essai blague",
		UrgencyLevel: models.UrgencyCritique,
	}, noMeta)

	assert.NoError(t, err)
	assert.Equal(t, 100, c.SuspicionScore)
	flags := make([]string, 0, len(c.AIFlags))
	for _, f := range c.AIFlags {
		flags = append(flags, f.Flag)
	}
	assert.Contains(t, flags, config.FlagLowQuality)
	assert.Contains(t, flags, config.FlagHighSuspicion)
	store.AssertExpectations(t)
}

func TestCreateDefaultsToReporterUnit(t *testing.T) {
	store := new(mockStore)
	svc := NewService(store, &recorderStub{})

	store.On("GetUnitByID", "unit-home").Return(&models.Unit{ID: "unit-home"}, nil)
	store.On("CreateCase", mock.AnythingOfType("*models.Case")).Return(nil)
	store.On("IncrementUnitCounter", "unit-home", storage.CounterTotalCases, 1).Return(nil)

	c, err := svc.Create(reporter(models.RoleLevel1, "unit-home"), CreateInput{
		Description: "Un signalement suffisamment détaillé pour passer sans aucun indicateur",
	}, noMeta)

	assert.NoError(t, err)
	assert.Equal(t, "unit-home", c.UnitID)
	assert.Equal(t, 0, c.SuspicionScore)
	assert.Empty(t, c.AIFlags)
}

func TestCreateRejectsEmptyDescription(t *testing.T) {
	svc := NewService(new(mockStore), &recorderStub{})

	_, err := svc.Create(reporter(models.RoleLevel1, "unit-a"), CreateInput{}, noMeta)
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))
}

func TestGetOutsideScopeIsNotFound(t *testing.T) {
	store := new(mockStore)
	svc := NewService(store, &recorderStub{})

	store.On("GetCaseByID", "case-1").Return(&models.Case{ID: "case-1", UnitID: "unit-b"}, nil)

	_, err := svc.Get(reporter(models.RoleLevel1, "unit-a"), "case-1", noMeta)
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
}

func TestUpdateRejectsInvariantBreakingPatch(t *testing.T) {
	store := new(mockStore)
	svc := NewService(store, &recorderStub{})

	store.On("GetCaseByID", "case-1").Return(&models.Case{
		ID:     "case-1",
		UnitID: "unit-a",
		Status: models.StatusInProgress,
	}, nil)

	archived := true
	_, err := svc.Update(reporter(models.RoleLevel2, "unit-a"), "case-1", Patch{IsArchived: &archived}, noMeta)

	assert.True(t, apperr.IsKind(err, apperr.KindValidation))
	store.AssertNotCalled(t, "SaveCase", mock.Anything)
}

func TestUpdateRejectsUnknownEscalationStatus(t *testing.T) {
	store := new(mockStore)
	svc := NewService(store, &recorderStub{})

	store.On("GetCaseByID", "case-1").Return(&models.Case{
		ID:     "case-1",
		UnitID: "unit-a",
		Status: models.StatusInProgress,
	}, nil)

	bogus := models.EscalationStatus("BOGUS")
	_, err := svc.Update(reporter(models.RoleLevel2, "unit-a"), "case-1", Patch{EscalationStatus: &bogus}, noMeta)

	assert.True(t, apperr.IsKind(err, apperr.KindValidation))
	store.AssertNotCalled(t, "SaveCase", mock.Anything)
}

func TestCloseRequiresLevel3(t *testing.T) {
	svc := NewService(new(mockStore), &recorderStub{})

	_, err := svc.Close(reporter(models.RoleLevel2, "unit-a"), "case-1", "resolved", noMeta)
	assert.True(t, apperr.IsKind(err, apperr.KindForbidden))
}

func TestArchiveRequiresClosedStatus(t *testing.T) {
	store := new(mockStore)
	svc := NewService(store, &recorderStub{})

	store.On("GetCaseByID", "case-1").Return(&models.Case{
		ID:     "case-1",
		UnitID: "unit-a",
		Status: models.StatusInProgress,
	}, nil)

	_, err := svc.Archive(reporter(models.RoleLevel3, "unit-a"), "case-1", noMeta)

	assert.True(t, apperr.IsKind(err, apperr.KindInvalidState))
	store.AssertNotCalled(t, "SaveCase", mock.Anything)
}

func TestArchiveTwiceIsInvalidState(t *testing.T) {
	store := new(mockStore)
	svc := NewService(store, &recorderStub{})

	store.On("GetCaseByID", "case-1").Return(&models.Case{
		ID:         "case-1",
		UnitID:     "unit-a",
		Status:     models.StatusClosed,
		IsArchived: true,
	}, nil)

	_, err := svc.Archive(reporter(models.RoleLevel3, "unit-a"), "case-1", noMeta)

	assert.True(t, apperr.IsKind(err, apperr.KindInvalidState))
	store.AssertNotCalled(t, "SaveCase", mock.Anything)
}

func TestArchiveClosedCase(t *testing.T) {
	store := new(mockStore)
	rec := &recorderStub{}
	svc := NewService(store, rec)

	store.On("GetCaseByID", "case-1").Return(&models.Case{
		ID:     "case-1",
		UnitID: "unit-a",
		Status: models.StatusClosed,
	}, nil)
	store.On("SaveCase", mock.AnythingOfType("*models.Case")).Return(nil)

	c, err := svc.Archive(reporter(models.RoleLevel3, "unit-a"), "case-1", noMeta)

	assert.NoError(t, err)
	assert.True(t, c.IsArchived)
	assert.NotNil(t, c.ArchivedAt)
	assert.Equal(t, []models.AuditAction{models.ActionArchiveCase}, rec.actions)
}

func TestSafeguardStartsDeadline(t *testing.T) {
	store := new(mockStore)
	svc := NewService(store, &recorderStub{})

	store.On("GetCaseByID", "case-1").Return(&models.Case{
		ID:     "case-1",
		UnitID: "unit-a",
		Status: models.StatusPending,
	}, nil)
	store.On("SaveCase", mock.AnythingOfType("*models.Case")).Return(nil)

	c, err := svc.Safeguard(reporter(models.RoleLevel2, "unit-a"), "case-1", noMeta)

	assert.NoError(t, err)
	assert.Equal(t, models.StatusInProgress, c.Status)
	assert.Equal(t, models.ClassificationSafeguard, c.Classification)
	assert.NotNil(t, c.DeadlineAt)
	assert.NotNil(t, c.SauvegardedAt)
	assert.Equal(t, config.SafeguardDeadline, c.DeadlineAt.Sub(*c.SauvegardedAt))
}

func TestSafeguardTerminalCaseIsInvalidState(t *testing.T) {
	store := new(mockStore)
	svc := NewService(store, &recorderStub{})

	store.On("GetCaseByID", "case-1").Return(&models.Case{
		ID:     "case-1",
		UnitID: "unit-a",
		Status: models.StatusFalseReport,
	}, nil)

	_, err := svc.Safeguard(reporter(models.RoleLevel2, "unit-a"), "case-1", noMeta)
	assert.True(t, apperr.IsKind(err, apperr.KindInvalidState))
}

func TestMarkFalseReportBumpsCounter(t *testing.T) {
	store := new(mockStore)
	svc := NewService(store, &recorderStub{})

	store.On("GetCaseByID", "case-1").Return(&models.Case{
		ID:     "case-1",
		UnitID: "unit-a",
		Status: models.StatusInProgress,
	}, nil)
	store.On("SaveCase", mock.AnythingOfType("*models.Case")).Return(nil)
	store.On("IncrementUnitCounter", "unit-a", storage.CounterFalseCases, 1).Return(nil)

	c, err := svc.MarkFalseReport(reporter(models.RoleLevel2, "unit-a"), "case-1", noMeta)

	assert.NoError(t, err)
	assert.Equal(t, models.StatusFalseReport, c.Status)
	assert.Equal(t, models.ClassificationFalseReport, c.Classification)
	store.AssertExpectations(t)
}

func TestClassifyPendingCaseIsInvalidState(t *testing.T) {
	store := new(mockStore)
	svc := NewService(store, &recorderStub{})

	store.On("GetCaseByID", "case-1").Return(&models.Case{
		ID:     "case-1",
		UnitID: "unit-a",
		Status: models.StatusPending,
	}, nil)

	_, err := svc.Classify(reporter(models.RoleLevel2, "unit-a"), "case-1", models.ClassificationCaseManagement, noMeta)
	assert.True(t, apperr.IsKind(err, apperr.KindInvalidState))
}

func TestDeleteDecrementsCounter(t *testing.T) {
	store := new(mockStore)
	rec := &recorderStub{}
	svc := NewService(store, rec)

	store.On("GetCaseByID", "case-1").Return(&models.Case{
		ID:     "case-1",
		UnitID: "unit-a",
		Status: models.StatusClosed,
	}, nil)
	store.On("DeleteCase", "case-1").Return(nil)
	store.On("IncrementUnitCounter", "unit-a", storage.CounterTotalCases, -1).Return(nil)

	err := svc.Delete(reporter(models.RoleLevel3, "unit-a"), "case-1", noMeta)

	assert.NoError(t, err)
	assert.Equal(t, []models.AuditAction{models.ActionDeleteCase}, rec.actions)
	store.AssertExpectations(t)
}
