package identity

import (
	"regexp"
	"strings"
)

// Tokens that carry no identity signal in youth team names. Age and birth
// year tokens are stripped separately because they encode the cohort, which
// candidate generation already fixes.
var noiseTokens = map[string]struct{}{
	"fc":       {},
	"sc":       {},
	"cf":       {},
	"afc":      {},
	"club":     {},
	"soccer":   {},
	"futbol":   {},
	"football": {},
	"academy":  {},
	"youth":    {},
	"juniors":  {},
	"boys":     {},
	"girls":    {},
	"team":     {},
	"the":      {},
}

var (
	nonAlnumRegex  = regexp.MustCompile(`[^a-z0-9]+`)
	ageTokenRegex  = regexp.MustCompile(`^(u-?\d{1,2}|\d{1,2}u)$`)
	yearTokenRegex = regexp.MustCompile(`^(19|20)\d{2}$`)
)

// Normalize lowercases a name and collapses everything that is not a letter
// or digit into single spaces.
func Normalize(name string) string {
	lowered := strings.ToLower(strings.TrimSpace(name))
	cleaned := nonAlnumRegex.ReplaceAllString(lowered, " ")
	return strings.TrimSpace(cleaned)
}

// Tokens returns the signal-bearing tokens of a team or club name.
func Tokens(name string) []string {
	fields := strings.Fields(Normalize(name))
	out := make([]string, 0, len(fields))
	for _, token := range fields {
		if _, noisy := noiseTokens[token]; noisy {
			continue
		}
		if ageTokenRegex.MatchString(token) || yearTokenRegex.MatchString(token) {
			continue
		}
		out = append(out, token)
	}
	return out
}
