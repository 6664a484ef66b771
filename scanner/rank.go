package scanner

import (
	"sort"

	"foodscanner/types"
)

// Protocol defaults for ranking. Both are tunable per deployment through
// the config file.
const (
	DefaultThreshold  = 0.8
	DefaultMaxResults = 3
)

// rankMatches orders scored entries by descending similarity, drops entries
// below the threshold and truncates to maxResults. Ties keep their
// aggregation order; no secondary ordering is guaranteed.
func rankMatches(scored []types.MatchResult, threshold float64, maxResults int) types.ScanOutcome {
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})

	var filtered []types.MatchResult
	for _, m := range scored {
		if m.Score >= threshold {
			filtered = append(filtered, m)
		}
	}

	if len(filtered) == 0 {
		return types.ScanOutcome{Kind: types.OutcomeNoneAboveThreshold}
	}
	if len(filtered) > maxResults {
		filtered = filtered[:maxResults]
	}

	return types.ScanOutcome{Kind: types.OutcomeMatches, Matches: filtered}
}
