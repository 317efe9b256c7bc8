package priority

import (
	"slices"
	"time"
)

// Sort orders items by descending score. Equal scores keep their input
// order so repeated renders do not reshuffle the list.
func Sort[T any](items []T, score func(T) Score) {
	slices.SortStableFunc(items, func(a, b T) int {
		return score(b).Score - score(a).Score
	})
}

// Ranked pairs an item with its score
type Ranked[T any] struct {
	Item  T
	Score Score
}

// Rank scores every item once at now and returns them sorted
func Rank[T any](items []T, now time.Time, key func(T) (string, *time.Time)) []Ranked[T] {
	out := make([]Ranked[T], 0, len(items))
	for _, it := range items {
		tier, due := key(it)
		out = append(out, Ranked[T]{Item: it, Score: ComputeOptional(tier, due, now)})
	}
	Sort(out, func(r Ranked[T]) Score { return r.Score })
	return out
}
