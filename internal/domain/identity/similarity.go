package identity

import (
	"sort"
	"strings"
)

const clubMatchBonus = 0.10

// Similarity scores two team names in [0,1] using a token-set metric with an
// edit-distance fallback for single-token and misspelled names.
func Similarity(a, b string) float64 {
	tokensA := Tokens(a)
	tokensB := Tokens(b)

	if len(tokensA) == 0 || len(tokensB) == 0 {
		return levenshteinRatio(Normalize(a), Normalize(b))
	}

	jaccard := tokenOverlap(tokensA, tokensB)
	edit := levenshteinRatio(joinSorted(tokensA), joinSorted(tokensB))
	if edit > jaccard {
		return edit
	}
	return jaccard
}

// Score rates a provider team reference against a canonical candidate.
// Matching club names add a small bonus on top of the name similarity.
func Score(name, club, candidateName, candidateClub string) float64 {
	score := Similarity(name, candidateName)

	if strings.TrimSpace(club) != "" && strings.TrimSpace(candidateClub) != "" {
		if Similarity(club, candidateClub) >= 0.85 {
			score += clubMatchBonus
		}
	}

	if score > 1 {
		return 1
	}
	if score < 0 {
		return 0
	}
	return score
}

func tokenOverlap(a, b []string) float64 {
	setA := make(map[string]struct{}, len(a))
	for _, token := range a {
		setA[token] = struct{}{}
	}
	setB := make(map[string]struct{}, len(b))
	for _, token := range b {
		setB[token] = struct{}{}
	}

	shared := 0
	for token := range setA {
		if _, ok := setB[token]; ok {
			shared++
		}
	}

	union := len(setA) + len(setB) - shared
	if union == 0 {
		return 0
	}
	return float64(shared) / float64(union)
}

func joinSorted(tokens []string) string {
	sorted := append([]string(nil), tokens...)
	sort.Strings(sorted)
	return strings.Join(sorted, " ")
}

func levenshteinRatio(a, b string) float64 {
	if a == b {
		return 1
	}
	if a == "" || b == "" {
		return 0
	}

	longest := len(a)
	if len(b) > longest {
		longest = len(b)
	}
	return 1 - float64(levenshteinDistance(a, b))/float64(longest)
}

func levenshteinDistance(a, b string) int {
	ra := []rune(a)
	rb := []rune(b)

	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)
	for j := 0; j <= len(rb); j++ {
		prev[j] = j
	}

	for i := 1; i <= len(ra); i++ {
		curr[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			curr[j] = minInt(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}

	return prev[len(rb)]
}

func minInt(values ...int) int {
	out := values[0]
	for _, v := range values[1:] {
		if v < out {
			out = v
		}
	}
	return out
}
