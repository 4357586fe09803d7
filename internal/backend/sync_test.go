package backend

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/CommentGarden_Go/internal/domain"
	"github.com/osse101/CommentGarden_Go/internal/repository"
)

type fakeSource struct {
	mu      sync.Mutex
	records []domain.CommentRecord
	marked  map[string]string
	limit   int
}

func (f *fakeSource) UnsyncedRecords(_ context.Context, limit int) ([]domain.CommentRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.limit = limit
	if len(f.records) > limit {
		return f.records[:limit], nil
	}
	return f.records, nil
}

func (f *fakeSource) MarkSynced(_ context.Context, ids map[string]string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.marked = ids
	return nil
}

func TestSyncer_Run(t *testing.T) {
	var (
		mu       sync.Mutex
		received []CommentRequest
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req CommentRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		if strings.Contains(req.CommentText, "reject") {
			http.Error(w, "nope", http.StatusUnprocessableEntity)
			return
		}
		mu.Lock()
		received = append(received, req)
		n := len(received)
		mu.Unlock()
		_ = json.NewEncoder(w).Encode(CreatedComment{ID: "b-" + string(rune('0'+n))})
	}))
	defer srv.Close()

	src := &fakeSource{records: []domain.CommentRecord{
		{ID: "c1", Text: "lovely", Platform: "discord", Sentiment: domain.SentimentPositive, Category: domain.CategoryNormal, Confidence: 0.9},
		{ID: "c2", Text: "reject me", Platform: "discord", Sentiment: domain.SentimentNeutral},
		{ID: "c3", Text: "awful", Platform: "api", Sentiment: domain.SentimentNegative, Category: domain.CategoryTrolling, Confidence: 0.7},
	}}

	syncer := NewSyncer(newTestClient(srv.URL), src, "ext_1", WithBatch(DefaultSyncBatch, 0))
	n, err := syncer.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, n)
	assert.Equal(t, DefaultSyncBatch, src.limit)
	assert.Equal(t, map[string]string{"c1": "b-1", "c3": "b-2"}, src.marked)

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, received, 2)
	assert.Equal(t, "ext_1", received[0].ExtensionUserID)
	assert.Equal(t, []CategoryScore{{Name: "Normal", Score: 0.9}}, received[0].Categories)
	assert.Equal(t, "negative", received[1].Sentiment)
	assert.InDelta(t, 0.7, received[1].ToxicityScore, 1e-9)
}

func TestSyncer_RespectsBatchLimit(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"id":"x"}`))
	}))
	defer srv.Close()

	src := &fakeSource{}
	for i := 0; i < 5; i++ {
		src.records = append(src.records, domain.CommentRecord{ID: string(rune('a' + i)), Text: "hi"})
	}

	n, err := NewSyncer(newTestClient(srv.URL), src, "ext_1", WithBatch(2, 0)).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Len(t, src.marked, 2)
}

func TestSyncer_NothingPending(t *testing.T) {
	src := &fakeSource{}
	n, err := NewSyncer(New("http://127.0.0.1:1", ""), src, "ext_1").Run(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Nil(t, src.marked)
}

func TestEnsureExtensionUserID(t *testing.T) {
	ctx := context.Background()
	store := repository.NewMemoryProgression()

	id, err := EnsureExtensionUserID(ctx, store)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(id, ExtensionIDPrefix))

	again, err := EnsureExtensionUserID(ctx, store)
	require.NoError(t, err)
	assert.Equal(t, id, again)
}

func TestUsername(t *testing.T) {
	assert.Equal(t, "User_abc123", Username("ext_xyz_abc123"))
	assert.Equal(t, "User_ab", Username("ab"))
}

func TestRegister_OnlyOnce(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		assert.Equal(t, PathRegister, r.URL.Path)
		var req RegisterRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "User_123456", req.Username)
		_, _ = w.Write([]byte(`{"id":"u-9","extensionUserId":"ext_123456"}`))
	}))
	defer srv.Close()

	ctx := context.Background()
	store := repository.NewMemoryProgression()
	client := newTestClient(srv.URL)

	id, err := Register(ctx, client, store, "ext_123456")
	require.NoError(t, err)
	assert.Equal(t, "u-9", id)

	id, err = Register(ctx, client, store, "ext_123456")
	require.NoError(t, err)
	assert.Equal(t, "u-9", id)
	assert.Equal(t, int32(1), calls.Load())
}
