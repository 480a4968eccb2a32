// Package count implements single-pass n-gram counters over byte texts: a
// brute-force fixed window, a verified rolling hash, and a bounded-memory
// streaming counter whose results are approximate.
package count

import (
	"maps"

	"github.com/viniciusth/repeatindex"
)

// Counter counts every n-gram of text.
type Counter func(text []byte, n int) (map[string]int, error)

func checkWindow(text []byte, n int) error {
	if n < 1 {
		return repeatindex.CheckAtLeast("n", n, 1)
	}
	return repeatindex.CheckRange("n", n, 1, len(text))
}

// FixedWindow counts every n-gram by materializing each window. O(L·n).
func FixedWindow(text []byte, n int) (map[string]int, error) {
	if err := checkWindow(text, n); err != nil {
		return nil, err
	}
	counts := make(map[string]int)
	for i := 0; i+n <= len(text); i++ {
		counts[string(text[i:i+n])]++
	}
	return counts, nil
}

// AtLeast returns the entries of counts reaching minFrequency.
func AtLeast(counts map[string]int, minFrequency int) map[string]int {
	out := maps.Clone(counts)
	maps.DeleteFunc(out, func(_ string, c int) bool { return c < minFrequency })
	return out
}
