package workflow

import (
	"childguard/backend/internal/audit"
	"childguard/backend/internal/models"

	"github.com/stretchr/testify/mock"
)

type mockStore struct {
	mock.Mock
}

func (m *mockStore) CreateWorkflow(w *models.Workflow) error {
	return m.Called(w).Error(0)
}

func (m *mockStore) SaveWorkflow(w *models.Workflow) error {
	return m.Called(w).Error(0)
}

func (m *mockStore) GetWorkflowByID(id string) (*models.Workflow, error) {
	args := m.Called(id)
	w, _ := args.Get(0).(*models.Workflow)
	return w, args.Error(1)
}

func (m *mockStore) GetWorkflowByCaseID(caseID string) (*models.Workflow, error) {
	args := m.Called(caseID)
	w, _ := args.Get(0).(*models.Workflow)
	return w, args.Error(1)
}

func (m *mockStore) ListWorkflowsByAssignee(actorID string) ([]models.Workflow, error) {
	args := m.Called(actorID)
	ws, _ := args.Get(0).([]models.Workflow)
	return ws, args.Error(1)
}

func (m *mockStore) AdvanceWorkflowStage(id string, expected models.WorkflowStagePointer, updates map[string]interface{}) (bool, error) {
	args := m.Called(id, expected, updates)
	return args.Bool(0), args.Error(1)
}

func (m *mockStore) AddWorkflowNote(note *models.WorkflowNote) error {
	return m.Called(note).Error(0)
}

func (m *mockStore) GetCaseByID(id string) (*models.Case, error) {
	args := m.Called(id)
	c, _ := args.Get(0).(*models.Case)
	return c, args.Error(1)
}

func (m *mockStore) SaveCase(c *models.Case) error {
	return m.Called(c).Error(0)
}

func (m *mockStore) GetActorByID(id string) (*models.Actor, error) {
	args := m.Called(id)
	a, _ := args.Get(0).(*models.Actor)
	return a, args.Error(1)
}

// recorderStub collects recorded actions synchronously.
type recorderStub struct {
	actions []models.AuditAction
}

func (r *recorderStub) Record(_ string, action models.AuditAction, _ models.TargetType, _ string, _ audit.RequestMeta) {
	r.actions = append(r.actions, action)
}
