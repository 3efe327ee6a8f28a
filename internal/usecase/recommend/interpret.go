package recommend

import (
	"strings"

	"github.com/kailas-cloud/cardex/internal/domain"
)

// Interpret classifies raw ranker output as matched or no-match. The text is
// not re-parsed: whatever the ranker formatted is rendered as-is downstream.
//
// The sentinel counts wherever it appears (exact, case-sensitive substring);
// once present, any surrounding content is ignored rather than half-trusted.
// Empty or whitespace-only output degrades to no-match instead of erroring.
func Interpret(raw string) domain.RecommendationSet {
	if strings.Contains(raw, Sentinel) {
		return domain.NoMatch()
	}
	return domain.Matches(raw)
}
