package detection

import (
	"regexp"
	"strings"

	"github.com/osse101/CommentGarden_Go/internal/domain"
)

type emergencyRule struct {
	pattern  *regexp.Regexp
	category domain.Category
	score    float64
}

var emergencyRules = []emergencyRule{
	{regexp.MustCompile(`\bbitch(es)?\b`), domain.CategoryProfanity, 0.7},
	{regexp.MustCompile(`\b(idiot|moron|stupid|dumb|loser)\b`), domain.CategoryDerogatory, 0.6},
	{regexp.MustCompile(`\b(hate|awful|horrible|worst|sucks)\b`), domain.CategoryTrolling, 0.5},
	{regexp.MustCompile(`\b(great|awesome|love|amazing|wonderful|thanks?)\b`), domain.CategoryNormal, 0.5},
}

const emergencyDefaultScore = 0.3

// Emergency is the last-resort classifier. It performs no I/O and cannot fail.
func Emergency(text string) domain.ClassificationResult {
	lower := strings.ToLower(text)
	for _, rule := range emergencyRules {
		if rule.pattern.MatchString(lower) {
			return FromCategory(string(rule.category), rule.score, domain.ModelEmergency)
		}
	}
	return FromCategory(string(domain.CategoryNormal), emergencyDefaultScore, domain.ModelEmergency)
}
