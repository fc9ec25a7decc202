package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPointerForCoversEveryStage(t *testing.T) {
	prev := PointerInitial
	for _, stage := range StageOrder {
		expected, next, ok := PointerFor(stage)
		assert.True(t, ok, "stage %s", stage)
		assert.Equal(t, prev, expected, "stage %s", stage)
		prev = next
	}
	assert.Equal(t, PointerCompleted, prev)
}

func TestPointerForUnknownStage(t *testing.T) {
	_, _, ok := PointerFor("somethingElse")
	assert.False(t, ok)
}

func TestStageAccessor(t *testing.T) {
	w := &Workflow{}
	for _, stage := range StageOrder {
		assert.NotNil(t, w.Stage(stage), "stage %s", stage)
	}
	assert.Nil(t, w.Stage("somethingElse"))

	w.DPEReport.Content = "draft"
	assert.Equal(t, "draft", w.Stage(StageDPEReport).Content)
}

func TestAuditActionVocabularyIsClosed(t *testing.T) {
	assert.True(t, ActionCreateCase.Valid())
	assert.True(t, ActionLogin.Valid())
	assert.False(t, AuditAction("MADE_UP_ACTION").Valid())
	assert.False(t, AuditAction("").Valid())
}

func TestRelevantActionsExcludeReads(t *testing.T) {
	assert.True(t, IsRelevant(ActionCreateCase))
	assert.True(t, IsRelevant(ActionCompleteStage))
	assert.False(t, IsRelevant(ActionViewCase))
	assert.False(t, IsRelevant(ActionViewCases))
	assert.False(t, IsRelevant(ActionLogin))
}
