package domain

import "strings"

// MaxRecommendations caps how many listings the ranker may return.
const MaxRecommendations = 5

// RecommendationSet is the user-facing outcome of one query: either rendered
// recommendation text (Matched) or the distinguished no-match value. The text
// is ranker-formatted markdown and is passed through, not re-parsed.
type RecommendationSet struct {
	Matched bool
	Text    string
}

// NoMatch returns the distinguished empty result.
func NoMatch() RecommendationSet {
	return RecommendationSet{}
}

// Matches wraps ranker output as a matched result. Whitespace-only text
// degrades to no-match.
func Matches(text string) RecommendationSet {
	if strings.TrimSpace(text) == "" {
		return NoMatch()
	}
	return RecommendationSet{Matched: true, Text: text}
}
