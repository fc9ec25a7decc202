// Package reportgen produces draft textual content for workflow stages.
// The core only consumes the resulting string; the real generator is an
// external service and this template-based implementation stands in for
// it.
package reportgen

import (
	"fmt"
	"strings"
	"time"

	"childguard/backend/internal/models"
)

// Context is the case material a generator works from.
type Context struct {
	Case     *models.Case
	Workflow *models.Workflow
}

// Generator produces a draft for the DPE report stage.
type Generator interface {
	GenerateDPE(ctx Context) (string, error)
}

// TemplateGenerator is the deterministic built-in generator.
type TemplateGenerator struct{}

func NewTemplateGenerator() *TemplateGenerator {
	return &TemplateGenerator{}
}

// GenerateDPE assembles a structured draft from the case fields. The
// output is a starting point a human is expected to edit before the stage
// is completed.
func (g *TemplateGenerator) GenerateDPE(ctx Context) (string, error) {
	if ctx.Case == nil {
		return "", fmt.Errorf("reportgen: case context is required")
	}

	c := ctx.Case
	var b strings.Builder

	fmt.Fprintf(&b, "RAPPORT DPE — dossier %s\n", c.ID)
	fmt.Fprintf(&b, "Date: %s\n\n", time.Now().Format("02/01/2006"))
	if c.Title != "" {
		fmt.Fprintf(&b, "Objet: %s\n", c.Title)
	}
	if c.IncidentType != "" {
		fmt.Fprintf(&b, "Type d'incident: %s\n", c.IncidentType)
	}
	fmt.Fprintf(&b, "Niveau d'urgence: %s\n\n", c.UrgencyLevel)
	fmt.Fprintf(&b, "Description des faits:\n%s\n\n", c.Description)
	b.WriteString("Évaluation préliminaire:\n[À compléter par le responsable]\n\n")
	b.WriteString("Mesures recommandées:\n[À compléter par le responsable]\n")

	return b.String(), nil
}
