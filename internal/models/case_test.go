package models

import (
	"testing"

	"childguard/backend/internal/apperr"

	"github.com/stretchr/testify/assert"
)

func validCase() *Case {
	return &Case{
		Description:      "Description détaillée d'un incident observé hier soir",
		CreatedByID:      "actor-1",
		UnitID:           "unit-a",
		Status:           StatusPending,
		UrgencyLevel:     UrgencyMoyen,
		EscalationStatus: EscalationNone,
	}
}

func TestValidateAcceptsWellFormedCase(t *testing.T) {
	assert.NoError(t, validCase().Validate())
}

func TestValidateRejectsUnknownEnums(t *testing.T) {
	c := validCase()
	c.Status = "SOMETHING"
	assert.True(t, apperr.IsKind(c.Validate(), apperr.KindValidation))

	c = validCase()
	c.UrgencyLevel = "URGENT"
	assert.True(t, apperr.IsKind(c.Validate(), apperr.KindValidation))

	c = validCase()
	c.IncidentType = "UNKNOWN"
	assert.True(t, apperr.IsKind(c.Validate(), apperr.KindValidation))

	c = validCase()
	c.EscalationStatus = "BOGUS"
	assert.True(t, apperr.IsKind(c.Validate(), apperr.KindValidation))
}

func TestValidateArchivedRequiresClosed(t *testing.T) {
	c := validCase()
	c.Status = StatusInProgress
	c.IsArchived = true
	assert.Error(t, c.Validate())

	c.Status = StatusClosed
	assert.NoError(t, c.Validate())
}

func TestValidateClassificationRequiresProgress(t *testing.T) {
	c := validCase()
	c.Classification = ClassificationSafeguard
	assert.Error(t, c.Validate())

	c.Status = StatusInProgress
	assert.NoError(t, c.Validate())
}

func TestValidateEscalationTargetRequiresEscalatedStatus(t *testing.T) {
	c := validCase()
	c.EscalatedTo = EscalatedToNationalOffice
	assert.Error(t, c.Validate())

	c.EscalationStatus = EscalationEscalated
	assert.NoError(t, c.Validate())
}
