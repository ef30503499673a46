package team

import (
	"strconv"
	"strings"
)

// AgeNumber extracts the numeric age from an age-group label such as "U12",
// "u-14" or "12U". Returns false when no age can be derived.
func AgeNumber(ageGroup string) (int, bool) {
	cleaned := strings.ToUpper(strings.TrimSpace(ageGroup))
	cleaned = strings.ReplaceAll(cleaned, "-", "")
	cleaned = strings.TrimPrefix(cleaned, "U")
	cleaned = strings.TrimSuffix(cleaned, "U")
	if cleaned == "" {
		return 0, false
	}

	age, err := strconv.Atoi(cleaned)
	if err != nil || age <= 0 {
		return 0, false
	}
	return age, true
}
