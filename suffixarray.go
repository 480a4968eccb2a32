package repeatindex

import "slices"

// BuildSuffixArray returns the start offsets of all suffixes of text in
// lexicographic order. A suffix that is a proper prefix of another sorts
// first; no sentinel symbol is appended to the text.
//
// Construction is prefix doubling: after the round for k, suffixes are ranked
// by their first 2k symbols, each round being two stable counting sorts.
// Total time is O(L log L) and extra memory is four length-L int slices.
func BuildSuffixArray[S Symbol](text []S) []int {
	n := len(text)
	sa := make([]int, n)
	if n <= 1 {
		return sa
	}

	rank, classes := symbolRanks(text)
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	cnt := make([]int, n)
	sortByRank(sa, order, rank, cnt, classes)

	next := make([]int, n)
	for k := 1; classes < n; k <<= 1 {
		// Order by the second half first. Suffixes without one (p+k >= n)
		// have the smallest possible key.
		j := 0
		for p := max(n-k, 0); p < n; p++ {
			order[j] = p
			j++
		}
		for _, p := range sa {
			if p >= k {
				order[j] = p - k
				j++
			}
		}
		sortByRank(sa, order, rank, cnt, classes)

		next[sa[0]] = 0
		classes = 1
		for i := 1; i < n; i++ {
			p, q := sa[i-1], sa[i]
			if rank[p] != rank[q] || secondRank(rank, p+k) != secondRank(rank, q+k) {
				classes++
			}
			next[q] = classes - 1
		}
		rank, next = next, rank
	}
	return sa
}

// sortByRank stably orders the offsets of src by rank into dst.
func sortByRank(dst, src, rank, cnt []int, classes int) {
	cnt = cnt[:classes]
	clear(cnt)
	for _, p := range src {
		cnt[rank[p]]++
	}
	sum := 0
	for c, k := range cnt {
		cnt[c] = sum
		sum += k
	}
	for _, p := range src {
		r := rank[p]
		dst[cnt[r]] = p
		cnt[r]++
	}
}

func secondRank(rank []int, p int) int {
	if p >= len(rank) {
		return -1
	}
	return rank[p]
}

// SortSuffixes builds the same suffix array as BuildSuffixArray by comparing
// suffixes directly. It costs O(L log L) comparisons of up to O(L) symbols
// each and serves as the reference ordering.
func SortSuffixes[S Symbol](text []S) []int {
	sa := make([]int, len(text))
	for i := range sa {
		sa[i] = i
	}
	slices.SortFunc(sa, func(p, q int) int {
		return compareSuffixes(text, p, q)
	})
	return sa
}

// compareSuffixes orders text[p:] and text[q:]; the shorter wins a tie.
func compareSuffixes[S Symbol](text []S, p, q int) int {
	return slices.Compare(text[p:], text[q:])
}
