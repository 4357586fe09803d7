package handler

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatValidationError(t *testing.T) {
	err := GetValidator().ValidateStruct(PlantTreeRequest{Type: "Willow"})
	require.Error(t, err)
	msg := FormatValidationError(err)
	require.Contains(t, msg, "type")
	assert.Contains(t, msg["type"], "Unknown tree type")
	assert.Contains(t, msg["type"], "Apple, Orange, Cherry, Lemon, Coconut, Peach")

	timeout := 500000
	err = GetValidator().ValidateStruct(DetectionConfigRequest{TimeoutMs: &timeout})
	require.Error(t, err)
	assert.Equal(t, "Must be at most 120000", FormatValidationError(err)["timeout_ms"])

	err = GetValidator().ValidateStruct(SubmitCommentRequest{Text: "   "})
	require.Error(t, err)
	assert.Equal(t, "This field is required", FormatValidationError(err)["text"])

	assert.Nil(t, FormatValidationError(nil))
	assert.Equal(t, map[string]string{"error": "Invalid request format"}, FormatValidationError(errors.New("x")))
}

func TestValidTreeTypeCaseInsensitive(t *testing.T) {
	assert.NoError(t, GetValidator().ValidateStruct(PlantTreeRequest{Type: "peach"}))
}
