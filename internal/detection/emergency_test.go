package detection

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/osse101/CommentGarden_Go/internal/domain"
)

func TestEmergency(t *testing.T) {
	tests := []struct {
		text       string
		category   domain.Category
		confidence float64
		impact     int
	}{
		{"you bitches", domain.CategoryProfanity, 0.7, 7},
		{"what a LOSER", domain.CategoryDerogatory, 0.6, 6},
		{"this sucks", domain.CategoryTrolling, 0.5, 5},
		{"thanks!", domain.CategoryNormal, 0.5, 1},
		{"hello there", domain.CategoryNormal, 0.3, 1},
		{"bitchy", domain.CategoryNormal, 0.3, 1},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			got := Emergency(tt.text)
			assert.Equal(t, tt.category, got.Category)
			assert.InDelta(t, tt.confidence, got.Confidence, 1e-9)
			assert.Equal(t, tt.impact, got.Impact)
			assert.Equal(t, domain.ModelEmergency, got.ModelUsed)
		})
	}
}
