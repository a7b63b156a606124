package errors

import (
	"slices"
	"strings"
	"unicode/utf8"
)

// MaxSuggestions is the maximum number of names offered in one hint.
const MaxSuggestions = 3

// Suggestion is a declared name close to an undeclared one.
type Suggestion struct {
	Value    string
	Distance int

	// CaseOnly is set when Value differs from the misspelled name only in
	// letter case.
	CaseOnly bool
}

// maxDistance is the largest edit distance still worth suggesting for a
// name of n runes.
func maxDistance(n int) int {
	switch {
	case n <= 3:
		return 1
	case n <= 5:
		return 2
	default:
		return 3
	}
}

// SuggestSimilar returns the candidates closest to target, nearest first.
// Identifiers are case sensitive: only an exact match is skipped, and names
// that differ from target only in case are always offered, ahead of the
// rest.
func SuggestSimilar(target string, candidates []string) []Suggestion {
	if target == "" {
		return nil
	}
	limit := maxDistance(utf8.RuneCountInString(target))
	var suggestions []Suggestion
	for _, name := range candidates {
		if name == "" || name == target {
			continue
		}
		d := levenshteinDistance(target, name)
		caseOnly := strings.EqualFold(target, name)
		if d <= limit || caseOnly {
			suggestions = append(suggestions, Suggestion{Value: name, Distance: d, CaseOnly: caseOnly})
		}
	}
	slices.SortFunc(suggestions, func(a, b Suggestion) int {
		switch {
		case a.CaseOnly != b.CaseOnly:
			if a.CaseOnly {
				return -1
			}
			return 1
		case a.Distance != b.Distance:
			return a.Distance - b.Distance
		}
		return strings.Compare(a.Value, b.Value)
	})
	if len(suggestions) > MaxSuggestions {
		suggestions = suggestions[:MaxSuggestions]
	}
	return suggestions
}

// FormatSuggestions renders the hint attached to a TypeError, or "" when
// there is nothing to suggest.
func FormatSuggestions(suggestions []Suggestion) string {
	names := make([]string, len(suggestions))
	for i, s := range suggestions {
		names[i] = "'" + s.Value + "'"
	}
	switch len(names) {
	case 0:
		return ""
	case 1:
		return "Did you mean " + names[0] + "?"
	default:
		return "Did you mean one of: " + strings.Join(names, ", ") + "?"
	}
}

// levenshteinDistance counts the single rune insertions, deletions and
// substitutions that turn a into b.
func levenshteinDistance(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	if len(ra) > len(rb) {
		ra, rb = rb, ra
	}
	row := make([]int, len(ra)+1)
	for i := range row {
		row[i] = i
	}
	for j := 1; j <= len(rb); j++ {
		diag := row[0]
		row[0] = j
		for i := 1; i <= len(ra); i++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			next := min(row[i]+1, row[i-1]+1, diag+cost)
			diag, row[i] = row[i], next
		}
	}
	return row[len(ra)]
}
