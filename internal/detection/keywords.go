package detection

import "github.com/osse101/CommentGarden_Go/internal/domain"

// keywordRule weights one keyword table. Rules are evaluated in slice order
// and the first table with at least one match wins.
type keywordRule struct {
	category  domain.Category
	sentiment domain.Sentiment
	base      float64
	increment float64
	scale     float64
	minImpact int
	keywords  []string
}

var keywordRules = []keywordRule{
	{
		category:  domain.CategoryHateSpeech,
		sentiment: domain.SentimentNegative,
		base:      0.70,
		increment: 0.15,
		scale:     10,
		minImpact: 7,
		keywords: []string{
			"hate", "kill", "die", "death", "racist", "nazi", "kys", "hang", "lynch",
			"genocide", "terrorist",
		},
	},
	{
		category:  domain.CategoryDerogatory,
		sentiment: domain.SentimentNegative,
		base:      0.60,
		increment: 0.20,
		scale:     10,
		minImpact: 5,
		keywords: []string{
			"idiot", "moron", "stupid", "dumb", "loser", "pathetic", "worthless", "trash",
			"scum", "garbage", "waste",
		},
	},
	{
		category:  domain.CategoryMicroaggression,
		sentiment: domain.SentimentNegative,
		base:      0.50,
		increment: 0.15,
		scale:     8,
		minImpact: 3,
		keywords: []string{
			"actually", "mansplain", "you people", "one of the good ones", "not like other",
			"surprisingly articulate", "exotic", "where are you really from",
		},
	},
	{
		category:  domain.CategoryProfanity,
		sentiment: domain.SentimentNegative,
		base:      0.50,
		increment: 0.15,
		scale:     7,
		minImpact: 2,
		keywords: []string{
			"fuck", "shit", "damn", "bitch", "ass", "bastard", "crap", "piss", "cock", "hell",
			"goddamn",
		},
	},
	{
		category:  domain.CategoryTrolling,
		sentiment: domain.SentimentNegative,
		base:      0.40,
		increment: 0.10,
		scale:     6,
		minImpact: 2,
		keywords: []string{
			"lol", "lmao", "cry", "cope", "seethe", "mald", "ratio", "l+ratio", "bozo",
			"skill issue", "mad", "salty", "triggered",
		},
	},
	{
		category:  domain.CategoryNormal,
		sentiment: domain.SentimentPositive,
		base:      0.50,
		increment: 0.10,
		scale:     5,
		minImpact: 1,
		keywords: []string{
			"great", "awesome", "love", "amazing", "wonderful", "excellent", "fantastic", "good",
			"nice", "beautiful", "helpful", "thanks", "thank you", "appreciate", "well done",
			"brilliant", "perfect", "agree", "support", "insightful", "interesting", "cool",
			"respect",
		},
	},
}
