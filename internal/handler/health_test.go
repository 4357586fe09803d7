package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/osse101/CommentGarden_Go/mocks"
)

func TestHandleHealthz(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	w := httptest.NewRecorder()

	HandleHealthz().ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, `{"status":"ok"}`+"\n", w.Body.String())
}

func TestHandleReadyz(t *testing.T) {
	tests := []struct {
		name       string
		storeErr   error
		modelErr   error
		wantStatus int
		wantBody   []string
	}{
		{"all reachable", nil, nil, http.StatusOK,
			[]string{`"status":"ok"`, `"snapshot_store":"ok"`, `"model_worker":"ok"`}},
		{"model cold", nil, assert.AnError, http.StatusOK,
			[]string{`"status":"degraded"`, `"model_worker":"unavailable"`}},
		{"store down", assert.AnError, nil, http.StatusServiceUnavailable,
			[]string{`"status":"unavailable"`, `"message":"a required dependency is unavailable"`}},
		{"store timeout and model cold", context.DeadlineExceeded, assert.AnError, http.StatusServiceUnavailable,
			[]string{`"status":"unavailable"`, `"snapshot_store":"unavailable"`}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := mocks.NewMockPinger(t)
			store.On("Ping", mock.Anything).Return(tt.storeErr)
			model := mocks.NewMockPinger(t)
			model.On("Ping", mock.Anything).Return(tt.modelErr)

			w := httptest.NewRecorder()
			HandleReadyz(
				ReadinessCheck{Name: CheckSnapshotStore, Pinger: store},
				ReadinessCheck{Name: CheckModelWorker, Pinger: model, Optional: true},
			).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/readyz", nil))

			assert.Equal(t, tt.wantStatus, w.Code)
			for _, want := range tt.wantBody {
				assert.Contains(t, w.Body.String(), want)
			}
		})
	}
}

func TestHandleVersion(t *testing.T) {
	w := httptest.NewRecorder()
	HandleVersion().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/version", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"go_version"`)
}
