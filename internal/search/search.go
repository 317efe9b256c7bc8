// Package search filters in-memory slices by case-insensitive substring.
package search

import (
	"strings"
)

// Match classes, strongest first
const (
	MatchNone = iota
	MatchContains
	MatchSuffix
	MatchPrefix
	MatchExact
)

// Filter keeps items where any field contains query, ignoring case. An
// empty query returns a copy of items. Order is preserved.
func Filter[T any](items []T, query string, fields func(T) []string) []T {
	q := strings.ToLower(strings.TrimSpace(query))
	out := make([]T, 0, len(items))
	for _, it := range items {
		if q == "" || bestMatch(fields(it), q) > MatchNone {
			out = append(out, it)
		}
	}
	return out
}

// Rank filters like Filter but orders results exact > prefix > suffix >
// contains, keeping input order within a class.
func Rank[T any](items []T, query string, fields func(T) []string) []T {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return Filter(items, query, fields)
	}

	var classes [MatchExact + 1][]T
	for _, it := range items {
		if m := bestMatch(fields(it), q); m > MatchNone {
			classes[m] = append(classes[m], it)
		}
	}

	out := make([]T, 0, len(items))
	for m := MatchExact; m > MatchNone; m-- {
		out = append(out, classes[m]...)
	}
	return out
}

// Classify returns how strongly value matches query
func Classify(value, query string) int {
	return bestMatch([]string{value}, strings.ToLower(strings.TrimSpace(query)))
}

func bestMatch(fields []string, q string) int {
	best := MatchNone
	for _, f := range fields {
		f = strings.ToLower(f)
		var m int
		switch {
		case f == q:
			m = MatchExact
		case strings.HasPrefix(f, q):
			m = MatchPrefix
		case strings.HasSuffix(f, q):
			m = MatchSuffix
		case strings.Contains(f, q):
			m = MatchContains
		}
		if m > best {
			best = m
		}
	}
	return best
}
