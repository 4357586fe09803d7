package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/osse101/CommentGarden_Go/internal/detection"
)

// MockDetectionSettingsStore is a mock type for the DetectionSettingsStore type
type MockDetectionSettingsStore struct {
	mock.Mock
}

// Save provides a mock function with given fields: ctx, cfg
func (_m *MockDetectionSettingsStore) Save(ctx context.Context, cfg detection.Config) error {
	ret := _m.Called(ctx, cfg)
	return ret.Error(0)
}

// NewMockDetectionSettingsStore creates a new instance of MockDetectionSettingsStore and
// registers a cleanup function to assert the mocks expectations.
func NewMockDetectionSettingsStore(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockDetectionSettingsStore {
	m := &MockDetectionSettingsStore{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}
