package quiz

import (
	"strings"

	"golang.org/x/text/cases"
)

// NormalizeAnswer trims and case-folds a free-text answer for comparison.
func NormalizeAnswer(s string) string {
	// A Caser keeps state, so each call gets its own.
	return cases.Fold().String(strings.TrimSpace(s))
}

// MatchAnswer returns the index of the accepted answer equal to s, or -1.
func MatchAnswer(accepted []string, s string) int {
	want := NormalizeAnswer(s)
	if want == "" {
		return -1
	}
	for i, a := range accepted {
		if NormalizeAnswer(a) == want {
			return i
		}
	}
	return -1
}

// TimeLimitOrDefault returns the round's countdown budget with format defaults applied.
func (r Round) TimeLimitOrDefault() int {
	if r.TimeLimit > 0 {
		return r.TimeLimit
	}
	if r.Format == FormatConnections {
		return 60
	}
	return 30
}
