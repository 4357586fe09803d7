package handler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/osse101/CommentGarden_Go/internal/domain"
	"github.com/osse101/CommentGarden_Go/internal/queue"
	"github.com/osse101/CommentGarden_Go/mocks"
)

func jsonBody(t *testing.T, v interface{}) *bytes.Reader {
	t.Helper()
	if s, ok := v.(string); ok {
		return bytes.NewReader([]byte(s))
	}
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewReader(b)
}

func TestHandleSubmit(t *testing.T) {
	tests := []struct {
		name           string
		reqBody        interface{}
		setupMocks     func(*mocks.MockCommentQueue)
		expectedStatus int
		expectedBody   string
	}{
		{
			name:    "Success defaults platform to api",
			reqBody: SubmitCommentRequest{Text: "you are great"},
			setupMocks: func(q *mocks.MockCommentQueue) {
				q.On("Enqueue", mock.Anything, mock.MatchedBy(func(c domain.Comment) bool {
					return c.Text == "you are great" && c.Platform == domain.PlatformAPI
				})).Return(domain.Comment{ID: "c1", Text: "you are great", Platform: domain.PlatformAPI}, nil)
			},
			expectedStatus: http.StatusAccepted,
			expectedBody:   `"id":"c1"`,
		},
		{
			name:           "Invalid JSON",
			reqBody:        "not json",
			setupMocks:     func(*mocks.MockCommentQueue) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   ErrMsgInvalidRequest,
		},
		{
			name:           "Blank text fails validation",
			reqBody:        SubmitCommentRequest{Text: "   "},
			setupMocks:     func(*mocks.MockCommentQueue) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `"text":"This field is required"`,
		},
		{
			name:    "Queue full",
			reqBody: SubmitCommentRequest{Text: "hello", Platform: "discord"},
			setupMocks: func(q *mocks.MockCommentQueue) {
				q.On("Enqueue", mock.Anything, mock.Anything).
					Return(domain.Comment{}, fmt.Errorf("%w: 1000 pending", domain.ErrQueueFull))
			},
			expectedStatus: http.StatusTooManyRequests,
			expectedBody:   ErrMsgQueueFullError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := mocks.NewMockCommentQueue(t)
			tt.setupMocks(q)
			h := NewCommentHandlers(q, mocks.NewMockDetectionService(t))

			req := httptest.NewRequest(http.MethodPost, "/api/v1/comments", jsonBody(t, tt.reqBody))
			w := httptest.NewRecorder()
			h.HandleSubmit().ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Contains(t, w.Body.String(), tt.expectedBody)
		})
	}
}

func TestHandleQueueStatus(t *testing.T) {
	q := mocks.NewMockCommentQueue(t)
	q.On("Status").Return(queue.Status{Pending: 2, Processed: 3, Total: 5})

	w := httptest.NewRecorder()
	NewCommentHandlers(q, nil).HandleQueueStatus().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/queue", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	var got queue.Status
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, 5, got.Total)
}

func TestHandleAnalyze(t *testing.T) {
	d := mocks.NewMockDetectionService(t)
	d.On("Analyze", mock.Anything, "you suck").Return(domain.ClassificationResult{
		Category:  domain.CategoryTrolling,
		Sentiment: domain.SentimentNegative,
		ModelUsed: domain.ModelFallback,
	})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/analyze", jsonBody(t, AnalyzeRequest{Text: "you suck"}))
	w := httptest.NewRecorder()
	NewCommentHandlers(mocks.NewMockCommentQueue(t), d).HandleAnalyze().ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var got domain.ClassificationResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, domain.CategoryTrolling, got.Category)
	assert.Equal(t, domain.ModelFallback, got.ModelUsed)
}
