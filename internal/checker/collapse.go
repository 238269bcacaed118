package checker

import (
	"math"

	"dot5/internal/model"
)

// Collapse reduces outcomes to one report per input, in order of first
// appearance. Outcomes are folded in the order given:
//   - real replaces fake
//   - of two reals, the lower elapsed_ms wins (0 counts as unknown/slowest)
//   - fake never replaces anything
func Collapse(outcomes []model.Report) []model.Report {
	index := make(map[string]int)
	winners := make([]model.Report, 0)

	for _, r := range outcomes {
		i, ok := index[r.Input]
		if !ok {
			index[r.Input] = len(winners)
			winners = append(winners, r)
			continue
		}
		if displaces(winners[i], r) {
			winners[i] = r
		}
	}
	return winners
}

func displaces(held, next model.Report) bool {
	if !next.Real() {
		return false
	}
	if !held.Real() {
		return true
	}
	return elapsedRank(next) < elapsedRank(held)
}

func elapsedRank(r model.Report) int64 {
	if r.ElapsedMs <= 0 {
		return math.MaxInt64
	}
	return r.ElapsedMs
}
