package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockPinger is a mock type for the Pinger type
type MockPinger struct {
	mock.Mock
}

// Ping provides a mock function with given fields: ctx
func (_m *MockPinger) Ping(ctx context.Context) error {
	ret := _m.Called(ctx)
	return ret.Error(0)
}

// NewMockPinger creates a new instance of MockPinger and registers a cleanup
// function to assert the mocks expectations.
func NewMockPinger(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockPinger {
	m := &MockPinger{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}
