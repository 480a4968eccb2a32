package repeatindex

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestVerifyDetectsCorruption(t *testing.T) {
	text := []byte("banana")
	sa := BuildSuffixArray(text)
	rank := BuildRankArray(sa)
	lcp := BuildLCPArray(text, sa, rank)
	require.Equal(t, []int{5, 3, 1, 0, 4, 2}, sa)
	require.Equal(t, []int{0, 1, 3, 0, 0, 2}, lcp)

	// edit returns a modified copy so every case starts from the valid arrays
	edit := func(a []int, f func([]int) []int) []int { return f(slices.Clone(a)) }

	tests := []struct {
		name  string
		check func() error
	}{
		{"swapped suffix array entries", func() error {
			return VerifySuffixArray(text, edit(sa, func(a []int) []int { a[1], a[2] = a[2], a[1]; return a }))
		}},
		{"suffix array repeats an offset", func() error {
			return VerifySuffixArray(text, edit(sa, func(a []int) []int { a[5] = a[4]; return a }))
		}},
		{"suffix array offset out of range", func() error {
			return VerifySuffixArray(text, edit(sa, func(a []int) []int { a[0] = len(text); return a }))
		}},
		{"suffix array too short", func() error {
			return VerifySuffixArray(text, sa[:len(sa)-1])
		}},
		{"rank entry off by one", func() error {
			return VerifyRankArray(sa, edit(rank, func(a []int) []int { a[0]++; return a }))
		}},
		{"rank array too long", func() error {
			return VerifyRankArray(sa, append(slices.Clone(rank), 0))
		}},
		{"wrong lcp entry", func() error {
			return VerifyLCPArray(text, sa, edit(lcp, func(a []int) []int { a[2] = 2; return a }))
		}},
		{"nonzero first lcp entry", func() error {
			return VerifyLCPArray(text, sa, edit(lcp, func(a []int) []int { a[0] = 1; return a }))
		}},
		{"lcp array too short", func() error {
			return VerifyLCPArray(text, sa, lcp[:3])
		}},
		{"occurrences spell different substrings", func() error {
			return VerifyReport(text, Report{{Length: 2, Count: 2, Offset: 0, occ: []int{0, 2}}})
		}},
		{"count disagrees with occurrences", func() error {
			return VerifyReport(text, Report{{Length: 3, Count: 3, Offset: 1, occ: []int{1, 3}}})
		}},
		{"duplicate occurrence", func() error {
			return VerifyReport(text, Report{{Length: 1, Count: 2, Offset: 1, occ: []int{1, 1}}})
		}},
		{"repeat overruns the text", func() error {
			return VerifyReport(text, Report{{Length: 3, Count: 2, Offset: 4, occ: []int{1, 4}}})
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.ErrorIs(t, tt.check(), ErrInvariantViolation)
		})
	}
}

func TestVerifyAcceptsBuiltStructures(t *testing.T) {
	for _, text := range []string{"a", "banana", "mississippi", "aaaaaaaa", "abcabcabcab"} {
		ix, report := mustQuery(t, text, 1, 2)
		require.NoError(t, ix.verify(), text)
		require.NoError(t, VerifyReport([]byte(text), report), text)
	}
}
