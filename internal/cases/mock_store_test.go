package cases

import (
	"childguard/backend/internal/audit"
	"childguard/backend/internal/models"
	"childguard/backend/internal/storage"

	"github.com/stretchr/testify/mock"
)

type mockStore struct {
	mock.Mock
}

func (m *mockStore) CreateCase(c *models.Case) error {
	return m.Called(c).Error(0)
}

func (m *mockStore) SaveCase(c *models.Case) error {
	return m.Called(c).Error(0)
}

func (m *mockStore) GetCaseByID(id string) (*models.Case, error) {
	args := m.Called(id)
	c, _ := args.Get(0).(*models.Case)
	return c, args.Error(1)
}

func (m *mockStore) ListCases(f storage.CaseFilter) ([]models.Case, error) {
	args := m.Called(f)
	cs, _ := args.Get(0).([]models.Case)
	return cs, args.Error(1)
}

func (m *mockStore) DeleteCase(id string) error {
	return m.Called(id).Error(0)
}

func (m *mockStore) IncrementUnitCounter(unitID, counter string, delta int) error {
	return m.Called(unitID, counter, delta).Error(0)
}

func (m *mockStore) GetUnitByID(id string) (*models.Unit, error) {
	args := m.Called(id)
	u, _ := args.Get(0).(*models.Unit)
	return u, args.Error(1)
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
