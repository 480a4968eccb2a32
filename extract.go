package repeatindex

import (
	"cmp"
	"slices"
)

// Repeat is one distinct substring occurring at least twice in the text.
// Occurrences may overlap.
type Repeat struct {
	Length int
	Count  int
	// Offset is the occurrence whose suffix sorts first.
	Offset int

	// occ views the suffix array block holding every occurrence.
	occ  []int
	rank int
}

// Positions returns the sorted start offsets of all occurrences.
func (r Repeat) Positions() []int {
	pos := slices.Clone(r.occ)
	slices.Sort(pos)
	return pos
}

// First returns the smallest occurrence offset.
func (r Repeat) First() int {
	if len(r.occ) == 0 {
		return r.Offset
	}
	return slices.Min(r.occ)
}

// Report lists repeats ordered by length, then lexicographically.
type Report []Repeat

// lcpInterval is an open block of the sorted suffixes whose adjacent LCPs are
// all >= lcp, starting at sorted position lo.
type lcpInterval struct {
	lcp int
	lo  int
}

// ExtractRepeats reports every distinct substring of length >= minLength that
// occurs at least minFrequency times, with its exact occurrence count.
func ExtractRepeats(sa, lcp []int, minLength, minFrequency int) (Report, error) {
	if err := CheckAtLeast("min_length", minLength, 1); err != nil {
		return nil, err
	}
	if err := CheckAtLeast("min_frequency", minFrequency, 2); err != nil {
		return nil, err
	}
	return extractRepeats(sa, lcp, minLength, len(sa), minFrequency), nil
}

// ExtractRepeatsUpTo is ExtractRepeats restricted to substrings of at most
// maxLength symbols.
func ExtractRepeatsUpTo(sa, lcp []int, minLength, maxLength, minFrequency int) (Report, error) {
	if err := CheckAtLeast("min_length", minLength, 1); err != nil {
		return nil, err
	}
	if err := CheckAtLeast("max_length", maxLength, minLength); err != nil {
		return nil, err
	}
	if err := CheckAtLeast("min_frequency", minFrequency, 2); err != nil {
		return nil, err
	}
	return extractRepeats(sa, lcp, minLength, maxLength, minFrequency), nil
}

// extractRepeats enumerates the LCP intervals bottom-up with an explicit
// stack. An interval [lo, hi] with value v whose enclosing interval has value
// p stands for the substrings of lengths p+1..v; each occurs exactly
// hi-lo+1 times, at sa[lo..hi]. Every distinct repeated substring belongs to
// exactly one interval, so nothing is counted twice.
func extractRepeats(sa, lcp []int, minLength, maxLength, minFrequency int) Report {
	n := len(sa)
	var report Report
	stack := []lcpInterval{{lcp: 0, lo: 0}}
	for i := 1; i <= n; i++ {
		cur := 0
		if i < n {
			cur = lcp[i]
		}
		lo := i - 1
		for cur < stack[len(stack)-1].lcp {
			top := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			lo = top.lo
			parent := max(cur, stack[len(stack)-1].lcp)
			report = appendInterval(report, sa, top, i-1, parent, minLength, maxLength, minFrequency)
		}
		if cur > stack[len(stack)-1].lcp {
			stack = append(stack, lcpInterval{lcp: cur, lo: lo})
		}
	}

	slices.SortFunc(report, func(a, b Repeat) int {
		return cmp.Or(cmp.Compare(a.Length, b.Length), cmp.Compare(a.rank, b.rank))
	})
	return report
}

func appendInterval(report Report, sa []int, iv lcpInterval, hi, parent, minLength, maxLength, minFrequency int) Report {
	count := hi - iv.lo + 1
	if count < minFrequency || iv.lcp < minLength {
		return report
	}
	occ := sa[iv.lo : hi+1 : hi+1]
	for length := max(parent+1, minLength); length <= min(iv.lcp, maxLength); length++ {
		report = append(report, Repeat{
			Length: length,
			Count:  count,
			Offset: occ[0],
			occ:    occ,
			rank:   iv.lo,
		})
	}
	return report
}

// longestRepeat finds the maximal LCP value and, among the blocks reaching
// it, the one whose earliest occurrence comes first in the text.
func longestRepeat(sa, lcp []int) (Repeat, bool) {
	best := 0
	for _, v := range lcp {
		best = max(best, v)
	}
	if best == 0 {
		return Repeat{}, false
	}

	var found Repeat
	first := -1
	for i := 1; i < len(lcp); {
		if lcp[i] != best {
			i++
			continue
		}
		lo := i - 1
		for i < len(lcp) && lcp[i] == best {
			i++
		}
		occ := sa[lo:i:i]
		if m := slices.Min(occ); first < 0 || m < first {
			first = m
			found = Repeat{Length: best, Count: len(occ), Offset: occ[0], occ: occ, rank: lo}
		}
	}
	return found, true
}
