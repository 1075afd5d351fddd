// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package intent maps a free-text query to the specialized search endpoint
// most likely to answer it. Classification is deterministic and stateless.
package intent

import (
	"regexp"
	"sort"
	"strings"

	"github.com/pdiddy/websearch/pkg/types"
)

const (
	phraseWeight  = 2
	wordWeight    = 1
	patternWeight = 5

	// minScore is the weakest signal still trusted over the web default.
	minScore = 2

	// overrideScore is the runner-up score above which a specific intent
	// beats a leading web score.
	overrideScore = 3
)

type rule struct {
	keywords []string
	patterns []*regexp.Regexp
}

// Score is one intent's total for a query.
type Score struct {
	Intent types.Intent `json:"intent"`
	Score  int          `json:"score"`
}

// Classifier is the interface the orchestrator depends on.
type Classifier interface {
	Classify(query string) types.Intent
}

// Lexicon classifies with the built-in keyword and pattern tables.
type Lexicon struct{}

// Classify implements Classifier.
func (Lexicon) Classify(query string) types.Intent { return Classify(query) }

// Classify returns the intent for query.
func Classify(query string) types.Intent {
	ranked := Scores(query)
	top, second := ranked[0], ranked[1]

	if top.Intent == types.IntentWeb && second.Score > overrideScore {
		return second.Intent
	}
	if top.Score < minScore {
		return types.IntentWeb
	}
	return top.Intent
}

// Scores returns every intent's score for query, highest first. Equal
// scores keep the order of types.Intents.
func Scores(query string) []Score {
	lower := strings.ToLower(query)
	words := make(map[string]int)
	for _, w := range strings.Fields(lower) {
		words[w]++
	}

	ranked := make([]Score, 0, len(types.Intents))
	for _, in := range types.Intents {
		ranked = append(ranked, Score{Intent: in, Score: scoreRule(lexicon[in], query, lower, words)})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})
	return ranked
}

func scoreRule(r rule, query, lower string, words map[string]int) int {
	score := 0
	for _, kw := range r.keywords {
		kw = strings.ToLower(kw)
		if strings.Contains(lower, kw) {
			score += phraseWeight
		}
		for _, w := range strings.Fields(kw) {
			if words[w] > 0 {
				score += wordWeight
			}
		}
	}
	for _, p := range r.patterns {
		if p.MatchString(query) {
			score += patternWeight
		}
	}
	return score
}

// Explain returns a short human description of intent.
func Explain(in types.Intent) string {
	if s, ok := explanations[in]; ok {
		return s
	}
	return "Unknown intent"
}
