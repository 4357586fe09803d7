// Package mocks holds testify mocks for the service interfaces consumed by
// internal/handler. They follow the layout mockery emits for .mockery.yaml.
package mocks
