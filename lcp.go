package repeatindex

// BuildRankArray inverts a suffix array: rank[sa[i]] == i.
func BuildRankArray(sa []int) []int {
	rank := make([]int, len(sa))
	for i, p := range sa {
		rank[p] = i
	}
	return rank
}

// BuildLCPArray computes, with Kasai's algorithm, lcp[i] as the length of the
// longest common prefix of the suffixes at sa[i-1] and sa[i]. lcp[0] is 0.
func BuildLCPArray[S Symbol](text []S, sa, rank []int) []int {
	lcp, _ := kasai(text, sa, rank)
	return lcp
}

// kasai walks suffixes in text order, carrying the matched length h from one
// offset to the next. Dropping the first symbol of a suffix lowers its LCP
// with its sorted predecessor by at most one, so h only decreases by one per
// step and the total number of symbol comparisons is linear in L.
func kasai[S Symbol](text []S, sa, rank []int) (lcp []int, comparisons int) {
	n := len(sa)
	lcp = make([]int, n)
	h := 0
	for i := range n {
		if rank[i] == 0 {
			h = 0
			continue
		}
		k := sa[rank[i]-1]
		for i+h < n && k+h < n {
			comparisons++
			if text[i+h] != text[k+h] {
				break
			}
			h++
		}
		lcp[rank[i]] = h
		if h > 0 {
			h--
		}
	}
	return lcp, comparisons
}
