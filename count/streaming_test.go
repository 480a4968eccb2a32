package count

import (
	"math/rand"
	"slices"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/viniciusth/repeatindex"
)

func TestApproxStreamingSpansChunkBoundary(t *testing.T) {
	// "cde" exists only across the boundary between "abcd" and "efg".
	source := slices.Values([][]byte{[]byte("abcd"), []byte("efg")})
	counts, stats, err := ApproxStreamingStats(source, 3, 100)
	require.NoError(t, err)
	require.Equal(t, 1, counts["cde"])
	require.Equal(t, 1, counts["bcd"])
	require.Equal(t, 1, counts["def"])
	require.Equal(t, 5, stats.Windows)
	require.Equal(t, 7, stats.Symbols)
	require.Equal(t, 2, stats.Chunks)
}

func TestApproxStreamingMatchesFixedWindow(t *testing.T) {
	r := rand.New(rand.NewSource(12))
	for range 100 {
		text := randomText(r, 1+r.Intn(300), 1+r.Intn(3))
		n := 1 + r.Intn(min(len(text), 8))
		want, err := FixedWindow(text, n)
		require.NoError(t, err)

		// With room for every n-gram nothing is evicted and counts are exact.
		for _, size := range []int{1, 2, n - 1, n, 7, len(text)} {
			got, stats, err := ApproxStreamingStats(Chunks(text, size), n, len(text))
			require.NoError(t, err)
			require.Equal(t, want, got, "text %q n=%d chunk=%d", text, n, size)
			require.Zero(t, stats.Evictions)
		}
	}
}

func TestApproxStreamingShortSource(t *testing.T) {
	counts, err := ApproxStreaming(Chunks([]byte("ab"), 1), 3, 10)
	require.NoError(t, err)
	require.Empty(t, counts)

	_, err = ApproxStreaming(Chunks([]byte("ab"), 1), 0, 10)
	require.ErrorIs(t, err, repeatindex.ErrInvalidParameter)
	_, err = ApproxStreaming(Chunks([]byte("ab"), 1), 1, 0)
	require.ErrorIs(t, err, repeatindex.ErrInvalidParameter)
}

func TestApproxStreamingKeepsHeavyHitters(t *testing.T) {
	r := rand.New(rand.NewSource(13))
	text := make([]byte, 0, 4000)
	for range 1000 {
		text = append(text, "zz"...)
		text = append(text, randomText(r, 2, 20)...)
	}
	counts, stats, err := ApproxStreamingStats(Chunks(text, 64), 2, 16)
	require.NoError(t, err)
	require.LessOrEqual(t, len(counts), 16)
	require.Positive(t, stats.Evictions)
	require.GreaterOrEqual(t, counts["zz"], 1000)
}

func TestBoundedCounterEviction(t *testing.T) {
	c, err := NewBoundedCounter(2)
	require.NoError(t, err)

	c.Add([]byte("a"))
	c.Add([]byte("a"))
	c.Add([]byte("b"))
	c.Add([]byte("c")) // evicts b, the least frequent
	require.Equal(t, map[string]int{"a": 2, "c": 1}, c.Counts())
	require.Equal(t, 1, c.Evictions())

	c.Add([]byte("d")) // evicts c
	require.Equal(t, map[string]int{"a": 2, "d": 1}, c.Counts())

	c.Add([]byte("d"))
	c.Add([]byte("d"))
	require.Equal(t, []string{"d", "a"}, c.Top(5))
	require.Equal(t, []string{"d"}, c.Top(1))
	require.Equal(t, 3, c.Get("d"))
	require.Zero(t, c.Get("b"))
	require.Equal(t, 2, c.Len())
}

func TestBoundedCounterEvictsOldestOnTie(t *testing.T) {
	c, err := NewBoundedCounter(2)
	require.NoError(t, err)
	c.Add([]byte("x"))
	c.Add([]byte("y"))
	c.Add([]byte("z"))
	require.Equal(t, map[string]int{"y": 1, "z": 1}, c.Counts())
}
