package repeatindex

import "slices"

// VerifySuffixArray checks that sa is a permutation of [0, len(text)) in
// non-decreasing suffix order.
func VerifySuffixArray[S Symbol](text []S, sa []int) error {
	if len(sa) != len(text) {
		return invariantf("suffix array has %d entries for a text of %d", len(sa), len(text))
	}
	seen := make([]bool, len(sa))
	for i, p := range sa {
		if p < 0 || p >= len(sa) || seen[p] {
			return invariantf("suffix array is not a permutation at %d (offset %d)", i, p)
		}
		seen[p] = true
		if i > 0 && compareSuffixes(text, sa[i-1], p) >= 0 {
			return invariantf("suffixes %d and %d out of order at %d", sa[i-1], p, i)
		}
	}
	return nil
}

// VerifyRankArray checks that rank inverts sa.
func VerifyRankArray(sa, rank []int) error {
	if len(sa) != len(rank) {
		return invariantf("rank array has %d entries for %d suffixes", len(rank), len(sa))
	}
	for i, p := range sa {
		if rank[p] != i {
			return invariantf("rank[%d] = %d, want %d", p, rank[p], i)
		}
	}
	return nil
}

// VerifyLCPArray recomputes every LCP entry by direct comparison.
func VerifyLCPArray[S Symbol](text []S, sa, lcp []int) error {
	if len(lcp) != len(sa) {
		return invariantf("lcp array has %d entries for %d suffixes", len(lcp), len(sa))
	}
	if len(lcp) > 0 && lcp[0] != 0 {
		return invariantf("lcp[0] = %d, want 0", lcp[0])
	}
	for i := 1; i < len(lcp); i++ {
		if want := commonPrefix(text[sa[i-1]:], text[sa[i]:]); lcp[i] != want {
			return invariantf("lcp[%d] = %d, want %d", i, lcp[i], want)
		}
	}
	return nil
}

// VerifyReport checks that each repeat's count matches its distinct
// occurrences and that every occurrence spells the same substring.
func VerifyReport[S Symbol](text []S, report Report) error {
	for _, r := range report {
		pos := r.Positions()
		if r.Count != len(pos) {
			return invariantf("repeat at %d has count %d but %d positions", r.Offset, r.Count, len(pos))
		}
		if len(slices.Compact(slices.Clone(pos))) != len(pos) {
			return invariantf("repeat at %d lists an offset twice", r.Offset)
		}
		if r.Offset+r.Length > len(text) {
			return invariantf("repeat at %d overruns the text", r.Offset)
		}
		want := text[r.Offset : r.Offset+r.Length]
		for _, p := range pos {
			if p+r.Length > len(text) || !slices.Equal(text[p:p+r.Length], want) {
				return invariantf("occurrence %d of repeat at %d does not match", p, r.Offset)
			}
		}
	}
	return nil
}

func (ix *Index[S]) verify() error {
	if err := VerifySuffixArray(ix.text, ix.suffixArray); err != nil {
		return err
	}
	if err := VerifyRankArray(ix.suffixArray, ix.rank); err != nil {
		return err
	}
	return VerifyLCPArray(ix.text, ix.suffixArray, ix.lcp)
}
