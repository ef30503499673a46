package ranking

import (
	"sort"
	"time"
)

// GameSide is one team's view of one windowed game.
type GameSide struct {
	GameID       string
	Date         time.Time
	GoalsFor     int
	GoalsAgainst int
	// OpponentID is the opponent's canonical id, empty while unresolved.
	OpponentID string
}

// PointValues configures the win/draw/loss point scheme.
type PointValues struct {
	Win  float64
	Draw float64
	Loss float64
}

// BandWeights are the recency-band totals. Within a band games weigh equally;
// the three totals sum to 1.
type BandWeights struct {
	Recent float64
	Middle float64
	Oldest float64
}

func (w BandWeights) Sum() float64 {
	return w.Recent + w.Middle + w.Oldest
}

// SortSidesMostRecentFirst orders a team's games newest first, with the game
// id as a deterministic tie-break for same-day games.
func SortSidesMostRecentFirst(sides []GameSide) {
	sort.Slice(sides, func(i, j int) bool {
		if !sides[i].Date.Equal(sides[j].Date) {
			return sides[i].Date.After(sides[j].Date)
		}
		return sides[i].GameID < sides[j].GameID
	})
}

// RecencyWeights spreads the band totals across n games sorted newest first.
// Bands are thirds by position; with fewer than three games the occupied
// bands are renormalized so the weights still sum to 1.
func RecencyWeights(n int, bands BandWeights) []float64 {
	if n <= 0 {
		return nil
	}

	bandTotal := [3]float64{bands.Recent, bands.Middle, bands.Oldest}
	counts := [3]int{}
	for i := 0; i < n; i++ {
		counts[bandOf(i, n)]++
	}

	occupied := 0.0
	for b := 0; b < 3; b++ {
		if counts[b] > 0 {
			occupied += bandTotal[b]
		}
	}

	weights := make([]float64, n)
	for i := 0; i < n; i++ {
		b := bandOf(i, n)
		weights[i] = bandTotal[b] / float64(counts[b]) / occupied
	}
	return weights
}

func bandOf(idx, n int) int {
	b := idx * 3 / n
	if b > 2 {
		b = 2
	}
	return b
}

// Points maps one result to the configured point scheme.
func Points(goalsFor, goalsAgainst int, values PointValues) float64 {
	switch {
	case goalsFor > goalsAgainst:
		return values.Win
	case goalsFor == goalsAgainst:
		return values.Draw
	default:
		return values.Loss
	}
}

// BaselineRate is the recency-weighted points average normalized to [0,1] by
// the win value. This is the pre-schedule-adjustment strength proxy.
func BaselineRate(sides []GameSide, weights []float64, values PointValues) float64 {
	if len(sides) == 0 || values.Win == 0 {
		return 0
	}
	total := 0.0
	for i, side := range sides {
		total += weights[i] * Points(side.GoalsFor, side.GoalsAgainst, values)
	}
	return total / values.Win
}

// WeightedGoals returns the recency-weighted goals-for and goals-against
// averages, the raw offense/defense components.
func WeightedGoals(sides []GameSide, weights []float64) (goalsFor, goalsAgainst float64) {
	for i, side := range sides {
		goalsFor += weights[i] * float64(side.GoalsFor)
		goalsAgainst += weights[i] * float64(side.GoalsAgainst)
	}
	return goalsFor, goalsAgainst
}

// SOS is the recency-weighted average opponent strength. Opponents absent
// from the strength snapshot are scored by the estimate callback so that
// unrelated missing opponents do not collapse onto one constant.
func SOS(sides []GameSide, weights []float64, strengths map[string]float64, estimate func(opponentID string) float64) float64 {
	if len(sides) == 0 {
		return 0
	}
	total := 0.0
	for i, side := range sides {
		strength, ok := strengths[side.OpponentID]
		if !ok {
			strength = estimate(side.OpponentID)
		}
		total += weights[i] * strength
	}
	return total
}

// PercentileRanks normalizes raw component values to [0,1] by percentile rank
// within the given set. Ties share an averaged rank; a single value maps to
// 0.5. When higherBetter is false the scale is inverted (used for defense,
// where fewer goals against is better).
func PercentileRanks(values map[string]float64, higherBetter bool) map[string]float64 {
	n := len(values)
	out := make(map[string]float64, n)
	if n == 0 {
		return out
	}
	if n == 1 {
		for key := range values {
			out[key] = 0.5
		}
		return out
	}

	type entry struct {
		key   string
		value float64
	}
	sorted := make([]entry, 0, n)
	for key, value := range values {
		sorted = append(sorted, entry{key: key, value: value})
	}
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].value != sorted[j].value {
			return sorted[i].value < sorted[j].value
		}
		return sorted[i].key < sorted[j].key
	})

	for lo := 0; lo < n; {
		hi := lo
		for hi+1 < n && sorted[hi+1].value == sorted[lo].value {
			hi++
		}
		// Averaged zero-based rank across the tie group.
		avgRank := float64(lo+hi) / 2
		pct := avgRank / float64(n-1)
		if !higherBetter {
			pct = 1 - pct
		}
		for i := lo; i <= hi; i++ {
			out[sorted[i].key] = pct
		}
		lo = hi + 1
	}
	return out
}
