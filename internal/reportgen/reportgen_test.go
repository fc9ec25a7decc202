package reportgen

import (
	"testing"

	"childguard/backend/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestGenerateDPEIncludesCaseMaterial(t *testing.T) {
	g := NewTemplateGenerator()

	draft, err := g.GenerateDPE(Context{Case: &models.Case{
		ID:           "case-1",
		Title:        "Incident au dortoir",
		Description:  "Description des faits observés",
		IncidentType: models.IncidentViolencePhysique,
		UrgencyLevel: models.UrgencyEleve,
	}})

	assert.NoError(t, err)
	assert.Contains(t, draft, "case-1")
	assert.Contains(t, draft, "Incident au dortoir")
	assert.Contains(t, draft, "Description des faits observés")
	assert.Contains(t, draft, "VIOLENCE_PHYSIQUE")
	assert.Contains(t, draft, "ELEVE")
}

func TestGenerateDPERequiresCase(t *testing.T) {
	g := NewTemplateGenerator()
	_, err := g.GenerateDPE(Context{})
	assert.Error(t, err)
}
