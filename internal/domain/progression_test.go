package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSentiment(t *testing.T) {
	tests := []struct {
		raw  string
		want Sentiment
	}{
		{"positive", SentimentPositive},
		{"  Positive ", SentimentPositive},
		{"NEGATIVE", SentimentNegative},
		{"neutral", SentimentNeutral},
		{"normal", SentimentNeutral},
		{"", SentimentNeutral},
		{"ecstatic", SentimentNeutral},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseSentiment(tt.raw))
		})
	}
}

func TestLookupTreeSpecies(t *testing.T) {
	s, ok := LookupTreeSpecies("cherry")
	require.True(t, ok)
	assert.Equal(t, TreeTypeCherry, s.Type)
	assert.Equal(t, DifficultyMedium, s.Difficulty)
	assert.Equal(t, 8, s.MinWeeks)
	assert.Equal(t, 10, s.MaxWeeks)

	_, ok = LookupTreeSpecies("Baobab")
	assert.False(t, ok)
}

func TestProgressionState_Clone(t *testing.T) {
	orig := NewProgressionState(202540)
	orig.Trees = append(orig.Trees, TreeState{ID: "t1", Health: 50})
	orig.CommentHistory = append(orig.CommentHistory, CommentRecord{ID: "c1"})

	cp := orig.Clone()
	cp.Trees[0].Health = 10
	cp.CommentHistory[0].ID = "changed"

	assert.Equal(t, 50, orig.Trees[0].Health, "clone must not share tree storage")
	assert.Equal(t, "c1", orig.CommentHistory[0].ID, "clone must not share history storage")
}

func TestProgressionState_Selected(t *testing.T) {
	s := NewProgressionState(1)
	_, ok := s.Selected()
	assert.False(t, ok)

	s.Trees = []TreeState{{ID: "a"}, {ID: "b", Health: 42}}
	s.SelectedTree = "b"

	tree, ok := s.Selected()
	require.True(t, ok)
	assert.Equal(t, 42, tree.Health)
	assert.Equal(t, 1, s.TreeIndex("b"))
	assert.Equal(t, -1, s.TreeIndex("missing"))
}
