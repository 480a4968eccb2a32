package count

import (
	"iter"

	"github.com/viniciusth/repeatindex"
)

// StreamStats describes one ApproxStreaming pass.
type StreamStats struct {
	Chunks    int
	Symbols   int
	Windows   int
	Evictions int
}

// ApproxStreaming counts the n-grams of a text delivered as chunks while
// tracking at most maxUnique distinct n-grams. The last n-1 symbols of each
// chunk are carried into the next, so n-grams spanning chunk boundaries are
// counted exactly once.
//
// The result is approximate whenever more than maxUnique distinct n-grams
// occur: see BoundedCounter for the eviction policy.
func ApproxStreaming(source iter.Seq[[]byte], n, maxUnique int) (map[string]int, error) {
	counts, _, err := ApproxStreamingStats(source, n, maxUnique)
	return counts, err
}

// ApproxStreamingStats is ApproxStreaming that also reports pass statistics.
func ApproxStreamingStats(source iter.Seq[[]byte], n, maxUnique int) (map[string]int, StreamStats, error) {
	if err := repeatindex.CheckAtLeast("n", n, 1); err != nil {
		return nil, StreamStats{}, err
	}
	counter, err := NewBoundedCounter(maxUnique)
	if err != nil {
		return nil, StreamStats{}, err
	}

	var stats StreamStats
	carry := make([]byte, 0, n-1)
	var buf []byte
	for chunk := range source {
		stats.Chunks++
		stats.Symbols += len(chunk)
		buf = append(append(buf[:0], carry...), chunk...)
		// carry holds fewer than n symbols, so every window here ends in chunk.
		for i := 0; i+n <= len(buf); i++ {
			counter.Add(buf[i : i+n])
			stats.Windows++
		}
		keep := min(n-1, len(buf))
		carry = append(carry[:0], buf[len(buf)-keep:]...)
	}
	stats.Evictions = counter.Evictions()
	return counter.Counts(), stats, nil
}

// Chunks splits text into consecutive chunks of at most size symbols.
func Chunks(text []byte, size int) iter.Seq[[]byte] {
	size = max(size, 1)
	return func(yield func([]byte) bool) {
		for len(text) > 0 {
			k := min(size, len(text))
			if !yield(text[:k]) {
				return
			}
			text = text[k:]
		}
	}
}
