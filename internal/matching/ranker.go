package matching

import (
	"sort"

	"github.com/spigell/investor-matcher/internal/ai"
)

const DefaultTopN = 5

// Rank filters results down to successful ones and orders them by score,
// highest first. Equal scores keep their original investor order. A
// non-positive topN falls back to DefaultTopN.
func Rank(results []*ai.MatchResult, topN int) []*ai.MatchResult {
	if topN < 1 {
		topN = DefaultTopN
	}

	ranked := make([]*ai.MatchResult, 0, len(results))
	for _, result := range results {
		if result == nil || !result.OK() {
			continue
		}
		ranked = append(ranked, result)
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})

	if len(ranked) > topN {
		ranked = ranked[:topN]
	}

	return ranked
}
