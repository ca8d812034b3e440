package services

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/DavidNavarroSaiz/Elevator-data-generator/pkg/models"
)

// MockStateStore is a testify mock of repository.StateStore.
type MockStateStore struct {
	mock.Mock
}

func (m *MockStateStore) EnsureSchema(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockStateStore) Insert(ctx context.Context, state *models.ElevatorState) error {
	args := m.Called(ctx, state)
	return args.Error(0)
}

func (m *MockStateStore) Last(ctx context.Context) (*models.ElevatorState, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ElevatorState), args.Error(1)
}

func (m *MockStateStore) List(ctx context.Context, query models.StateQuery) ([]*models.ElevatorState, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.ElevatorState), args.Error(1)
}

func (m *MockStateStore) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockStateStore) DemandCounts(ctx context.Context) ([]models.FloorCount, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.FloorCount), args.Error(1)
}

func (m *MockStateStore) CallTimes(ctx context.Context, limit int) ([]time.Time, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]time.Time), args.Error(1)
}

func (m *MockStateStore) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
