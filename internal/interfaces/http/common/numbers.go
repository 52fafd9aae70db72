package common

import (
	"strconv"
	"strings"
)

// ParseNonNegativeInt parses a query value, returning fallback when it is empty.
// ok is false when the value is present but not a non-negative integer.
func ParseNonNegativeInt(value string, fallback int) (int, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return fallback, true
	}
	parsed, err := strconv.Atoi(value)
	if err != nil || parsed < 0 {
		return fallback, false
	}
	return parsed, true
}
