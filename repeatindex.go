// Package repeatindex finds repeated substrings of a text and their exact
// occurrence counts using a suffix array and its LCP array.
//
// An Index is built once per text and answers any number of queries:
//
//	ix, err := repeatindex.New([]byte("banana"))
//	report, err := ix.Query(2, 2) // "an", "ana", "na", each twice
//
// The text is borrowed, not copied, and must not change while the Index is in
// use.
package repeatindex

import (
	"fmt"
	"slices"
	"sort"

	"github.com/viniciusth/rmq"
)

// SortStrategy selects the suffix sorting algorithm used by Build.
type SortStrategy int

const (
	// PrefixDoubling ranks suffixes by their first 2^k symbols per round.
	PrefixDoubling SortStrategy = iota
	// ComparisonSort compares whole suffixes. Quadratic on repetitive texts.
	ComparisonSort
)

func (s SortStrategy) String() string {
	switch s {
	case PrefixDoubling:
		return "prefix-doubling"
	case ComparisonSort:
		return "comparison-sort"
	default:
		return fmt.Sprintf("SortStrategy(%d)", int(s))
	}
}

type Builder[S Symbol] struct {
	text      []S
	sort      SortStrategy
	useRMQ    bool
	verify    bool
	maxLength int
}

func NewBuilder[S Symbol](text []S) *Builder[S] {
	return &Builder[S]{
		text:      text,
		sort:      PrefixDoubling,
		useRMQ:    true,
		maxLength: MaxTextLength,
	}
}

// Sorts suffixes by direct comparison instead of prefix doubling.
func (b *Builder[S]) UseComparisonSort() *Builder[S] {
	b.sort = ComparisonSort
	return b
}

// Skips the range-minimum structure over the LCP array.
// Saves O(|S|) memory; Find and LongestCommonExtension fall back to comparing
// symbols, O(|P| * log(|S|)) and O(|S|) respectively.
func (b *Builder[S]) SkipRMQ() *Builder[S] {
	b.useRMQ = false
	return b
}

// Checks every structural invariant after construction. Quadratic; meant for tests.
func (b *Builder[S]) Verify() *Builder[S] {
	b.verify = true
	return b
}

// Lowers the maximum accepted text length.
func (b *Builder[S]) WithMaxLength(n int) *Builder[S] {
	b.maxLength = min(n, MaxTextLength)
	return b
}

func (b *Builder[S]) Build() (*Index[S], error) {
	if len(b.text) > b.maxLength {
		return nil, fmt.Errorf("%w: length %d exceeds %d", ErrCapacityExceeded, len(b.text), b.maxLength)
	}

	var suffixArray []int
	switch b.sort {
	case ComparisonSort:
		suffixArray = SortSuffixes(b.text)
	default:
		suffixArray = BuildSuffixArray(b.text)
	}
	rank := BuildRankArray(suffixArray)
	lcp := BuildLCPArray(b.text, suffixArray, rank)

	var lcpRMQ *rmq.RMQHybridNaive[int]
	if b.useRMQ && len(lcp) > 1 {
		lcpRMQ = rmq.NewRMQHybridNaive(lcp)
	}

	ix := &Index[S]{
		text:        b.text,
		suffixArray: suffixArray,
		rank:        rank,
		lcp:         lcp,
		lcpRMQ:      lcpRMQ,
	}
	if b.verify {
		if err := ix.verify(); err != nil {
			return nil, err
		}
	}
	return ix, nil
}

// New builds an Index with the default options.
func New[S Symbol](text []S) (*Index[S], error) {
	return NewBuilder(text).Build()
}

// Index is an immutable repeat index over one text. It is safe for
// concurrent queries.
type Index[S Symbol] struct {
	text        []S
	suffixArray []int
	rank        []int
	lcp         []int
	lcpRMQ      *rmq.RMQHybridNaive[int]
}

func (ix *Index[S]) Len() int { return len(ix.text) }

func (ix *Index[S]) Text() []S { return ix.text }

// SuffixArray returns the sorted suffix offsets. The slice must not be modified.
func (ix *Index[S]) SuffixArray() []int { return ix.suffixArray }

// RankArray returns the inverse of SuffixArray. The slice must not be modified.
func (ix *Index[S]) RankArray() []int { return ix.rank }

// LCPArray returns the LCP of each suffix with its sorted predecessor. The
// slice must not be modified.
func (ix *Index[S]) LCPArray() []int { return ix.lcp }

// Query reports every distinct substring of at least minLength symbols that
// occurs at least minFrequency times. It runs in O(L) plus the report size
// and never rebuilds the index.
func (ix *Index[S]) Query(minLength, minFrequency int) (Report, error) {
	return ExtractRepeats(ix.suffixArray, ix.lcp, minLength, minFrequency)
}

// QueryLengths is Query limited to substrings of at most maxLength symbols;
// QueryLengths(n, n, f) lists the n-grams occurring at least f times.
func (ix *Index[S]) QueryLengths(minLength, maxLength, minFrequency int) (Report, error) {
	return ExtractRepeatsUpTo(ix.suffixArray, ix.lcp, minLength, maxLength, minFrequency)
}

// LongestRepeat returns the longest substring occurring at least twice. Ties
// go to the substring whose earliest occurrence comes first. ok is false when
// no symbol repeats.
func (ix *Index[S]) LongestRepeat() (r Repeat, ok bool) {
	return longestRepeat(ix.suffixArray, ix.lcp)
}

// Substring returns the symbols of r. The result aliases the indexed text.
func (ix *Index[S]) Substring(r Repeat) []S {
	return ix.text[r.Offset : r.Offset+r.Length]
}

// Find returns the sorted offsets of every occurrence of pattern.
func (ix *Index[S]) Find(pattern []S) []int {
	l, r := ix.findBoundaries(pattern)
	if l == -1 {
		return nil
	}
	matches := slices.Clone(ix.suffixArray[l : r+1])
	slices.Sort(matches)
	return matches
}

// Count returns the number of occurrences of pattern.
func (ix *Index[S]) Count(pattern []S) int {
	l, r := ix.findBoundaries(pattern)
	if l == -1 {
		return 0
	}
	return r - l + 1
}

// LongestCommonExtension returns the length of the longest common prefix of
// the suffixes starting at offsets p and q.
func (ix *Index[S]) LongestCommonExtension(p, q int) int {
	if p == q {
		return len(ix.text) - p
	}
	a, b := ix.rank[p], ix.rank[q]
	if a > b {
		a, b = b, a
	}
	return ix.sortedLCP(a, b)
}

// sortedLCP is the LCP of the suffixes at sorted positions a < b, the
// minimum of lcp[a+1..b].
func (ix *Index[S]) sortedLCP(a, b int) int {
	if ix.lcpRMQ != nil {
		return ix.lcp[ix.lcpRMQ.Query(a+1, b)]
	}
	return commonPrefix(ix.text[ix.suffixArray[a]:], ix.text[ix.suffixArray[b]:])
}

// DistinctSubstrings counts the distinct non-empty substrings of the text.
func (ix *Index[S]) DistinctSubstrings() int {
	total := 0
	for i, p := range ix.suffixArray {
		total += len(ix.text) - p - ix.lcp[i]
	}
	return total
}

// Repetitiveness is the share of substring positions that repeat an earlier
// substring: 0 when every substring is distinct, close to 1 for a run of one
// symbol.
func (ix *Index[S]) Repetitiveness() float64 {
	n := len(ix.text)
	if n == 0 {
		return 0
	}
	all := n * (n + 1) / 2
	return 1 - float64(ix.DistinctSubstrings())/float64(all)
}

// findBoundaries returns the block [l, r] of sorted positions whose suffixes
// start with pattern, or -1, -1.
func (ix *Index[S]) findBoundaries(pattern []S) (int, int) {
	n := len(ix.suffixArray)

	// ref is the last suffix compared symbol by symbol: it agrees with the
	// pattern on its first matched symbols, and geq records the outcome.
	ref, matched, geq := -1, 0, false
	compareAt := func(i, from int) bool {
		ref, matched = i, from
		suffix := ix.text[ix.suffixArray[i]:]
		for matched < len(pattern) && matched < len(suffix) && pattern[matched] == suffix[matched] {
			matched++
		}
		switch {
		case matched == len(pattern):
			geq = true
		case matched == len(suffix):
			geq = false
		default:
			geq = pattern[matched] < suffix[matched]
		}
		return geq
	}

	// first suffix >= pattern
	l := sort.Search(n, func(i int) bool {
		if ref == -1 || ix.lcpRMQ == nil {
			return compareAt(i, 0)
		}
		if i == ref {
			return geq
		}
		c := ix.sortedLCP(min(ref, i), max(ref, i))
		switch {
		case c < matched:
			// i leaves ref's prefix before ref leaves the pattern.
			return i > ref
		case c > matched:
			// i shares ref's first mismatch, so it compares the same way.
			return geq
		default:
			return compareAt(i, matched)
		}
	})

	if l == n || !ix.hasPrefix(l, pattern) {
		return -1, -1
	}

	// we have T T T F F F where pattern is a prefix; search for the first F.
	r := sort.Search(n-l, func(i int) bool {
		if i == 0 {
			return false
		}
		if ix.lcpRMQ != nil {
			return ix.sortedLCP(l, l+i) < len(pattern)
		}
		return !ix.hasPrefix(l+i, pattern)
	})
	return l, l + r - 1
}

func (ix *Index[S]) hasPrefix(i int, pattern []S) bool {
	suffix := ix.text[ix.suffixArray[i]:]
	return len(suffix) >= len(pattern) && slices.Equal(suffix[:len(pattern)], pattern)
}

func commonPrefix[S Symbol](a, b []S) int {
	n := min(len(a), len(b))
	for i := range n {
		if a[i] != b[i] {
			return i
		}
	}
	return n
}
