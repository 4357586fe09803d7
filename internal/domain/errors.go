package domain

import "errors"

// Error message string constants - single source of truth for error messages
// Use these in assert.Contains() checks when testing error messages
const (
	// Tree errors
	ErrMsgTreeNotFound        = "tree not found"
	ErrMsgTreeNotDead         = "tree is not dead"
	ErrMsgUnknownTreeType     = "unknown tree type"
	ErrMsgNoTreeSelected      = "no tree selected"
	ErrMsgInsufficientTickets = "insufficient tickets"

	// Queue errors
	ErrMsgEmptyComment = "comment text is empty"
	ErrMsgQueueFull    = "comment queue is full"

	// Model worker errors
	ErrMsgReceiverNotListening = "could not establish connection: receiving end does not exist"
	ErrMsgWorkerCallFailed     = "detector error"
	ErrMsgWorkerClosed         = "detector transport closed"

	// Classification errors
	ErrMsgMalformedResponse = "malformed classifier response"
	ErrMsgEndpointStatus    = "classifier endpoint returned non-success status"

	// Database/System errors
	ErrMsgDatabaseError = "database error"
	ErrMsgStateNotFound = "progression state not found"

	// Input errors
	ErrMsgInvalidInput = "invalid input"
)

// Common domain errors
// These errors should be used consistently across all layers of the application.
// Wrap these errors with fmt.Errorf("%w: %s", domain.ErrXxx, details) for additional context.
var (
	// Tree errors
	ErrTreeNotFound        = errors.New(ErrMsgTreeNotFound)
	ErrTreeNotDead         = errors.New(ErrMsgTreeNotDead)
	ErrUnknownTreeType     = errors.New(ErrMsgUnknownTreeType)
	ErrNoTreeSelected      = errors.New(ErrMsgNoTreeSelected)
	ErrInsufficientTickets = errors.New(ErrMsgInsufficientTickets)

	// Queue errors
	ErrEmptyComment = errors.New(ErrMsgEmptyComment)
	ErrQueueFull    = errors.New(ErrMsgQueueFull)

	// Model worker errors
	ErrReceiverNotListening = errors.New(ErrMsgReceiverNotListening)
	ErrWorkerCallFailed     = errors.New(ErrMsgWorkerCallFailed)
	ErrWorkerClosed         = errors.New(ErrMsgWorkerClosed)

	// Classification errors
	ErrMalformedResponse = errors.New(ErrMsgMalformedResponse)
	ErrEndpointStatus    = errors.New(ErrMsgEndpointStatus)

	// Database errors
	ErrDatabase      = errors.New(ErrMsgDatabaseError)
	ErrStateNotFound = errors.New(ErrMsgStateNotFound)

	// Validation errors
	ErrInvalidInput = errors.New(ErrMsgInvalidInput)
)
