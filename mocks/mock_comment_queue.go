package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/osse101/CommentGarden_Go/internal/domain"
	"github.com/osse101/CommentGarden_Go/internal/queue"
)

// MockCommentQueue is a mock type for the CommentQueue type
type MockCommentQueue struct {
	mock.Mock
}

// Enqueue provides a mock function with given fields: ctx, c
func (_m *MockCommentQueue) Enqueue(ctx context.Context, c domain.Comment) (domain.Comment, error) {
	ret := _m.Called(ctx, c)

	var r0 domain.Comment
	if rf, ok := ret.Get(0).(func(context.Context, domain.Comment) domain.Comment); ok {
		r0 = rf(ctx, c)
	} else {
		r0 = ret.Get(0).(domain.Comment)
	}

	return r0, ret.Error(1)
}

// Status provides a mock function with no fields
func (_m *MockCommentQueue) Status() queue.Status {
	ret := _m.Called()
	return ret.Get(0).(queue.Status)
}

// NewMockCommentQueue creates a new instance of MockCommentQueue and
// registers a cleanup function to assert the mocks expectations.
func NewMockCommentQueue(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockCommentQueue {
	m := &MockCommentQueue{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}
