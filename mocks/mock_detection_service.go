package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/osse101/CommentGarden_Go/internal/detection"
	"github.com/osse101/CommentGarden_Go/internal/domain"
)

// MockDetectionService is a mock type for the DetectionService type
type MockDetectionService struct {
	mock.Mock
}

// Analyze provides a mock function with given fields: ctx, text
func (_m *MockDetectionService) Analyze(ctx context.Context, text string) domain.ClassificationResult {
	ret := _m.Called(ctx, text)
	return ret.Get(0).(domain.ClassificationResult)
}

// Config provides a mock function with no fields
func (_m *MockDetectionService) Config() detection.Config {
	ret := _m.Called()
	return ret.Get(0).(detection.Config)
}

// UpdateConfig provides a mock function with given fields: ctx, cfg
func (_m *MockDetectionService) UpdateConfig(ctx context.Context, cfg detection.Config) error {
	ret := _m.Called(ctx, cfg)
	return ret.Error(0)
}

// TestConnection provides a mock function with given fields: ctx
func (_m *MockDetectionService) TestConnection(ctx context.Context) domain.ClassificationResult {
	ret := _m.Called(ctx)
	return ret.Get(0).(domain.ClassificationResult)
}

// NewMockDetectionService creates a new instance of MockDetectionService and
// registers a cleanup function to assert the mocks expectations.
func NewMockDetectionService(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockDetectionService {
	m := &MockDetectionService{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}
