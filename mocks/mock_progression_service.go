package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/osse101/CommentGarden_Go/internal/domain"
	"github.com/osse101/CommentGarden_Go/internal/progression"
)

// MockProgressionService is a mock type for the ProgressionService type
type MockProgressionService struct {
	mock.Mock
}

// GetState provides a mock function with given fields: ctx
func (_m *MockProgressionService) GetState(ctx context.Context) (domain.ProgressionState, error) {
	ret := _m.Called(ctx)
	return ret.Get(0).(domain.ProgressionState), ret.Error(1)
}

// PlantTree provides a mock function with given fields: ctx, species
func (_m *MockProgressionService) PlantTree(ctx context.Context, species string) (domain.TreeState, error) {
	ret := _m.Called(ctx, species)
	return ret.Get(0).(domain.TreeState), ret.Error(1)
}

// SelectTree provides a mock function with given fields: ctx, id
func (_m *MockProgressionService) SelectTree(ctx context.Context, id string) error {
	ret := _m.Called(ctx, id)
	return ret.Error(0)
}

// ReviveTree provides a mock function with given fields: ctx, id
func (_m *MockProgressionService) ReviveTree(ctx context.Context, id string) (domain.TreeState, error) {
	ret := _m.Called(ctx, id)
	return ret.Get(0).(domain.TreeState), ret.Error(1)
}

// EnterLottery provides a mock function with given fields: ctx
func (_m *MockProgressionService) EnterLottery(ctx context.Context) (progression.LotteryResult, error) {
	ret := _m.Called(ctx)
	return ret.Get(0).(progression.LotteryResult), ret.Error(1)
}

// NewMockProgressionService creates a new instance of MockProgressionService and
// registers a cleanup function to assert the mocks expectations.
func NewMockProgressionService(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockProgressionService {
	m := &MockProgressionService{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}
