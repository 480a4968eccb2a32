package repeatindex

import (
	"slices"

	"golang.org/x/exp/constraints"
)

// Symbol is the alphabet of an indexed text. Any integer type works: bytes for
// raw text, runes for decoded text, or integer-coded tokens for word-level
// analysis. Symbols are ordered by their numeric value.
type Symbol interface {
	constraints.Integer
}

// MaxTextLength is the longest text an Index accepts by default. Offsets must
// stay representable on 32-bit platforms.
const MaxTextLength = 1<<31 - 2

// symbolRanks maps each symbol of text to its dense rank in the sorted
// alphabet and returns the alphabet size.
func symbolRanks[S Symbol](text []S) ([]int, int) {
	alphabet := slices.Clone(text)
	slices.Sort(alphabet)
	alphabet = slices.Compact(alphabet)

	rank := make([]int, len(text))
	for i, c := range text {
		rank[i], _ = slices.BinarySearch(alphabet, c)
	}
	return rank, len(alphabet)
}
