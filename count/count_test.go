package count

import (
	"context"
	"errors"
	"math"
	"math/rand"
	"slices"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
	"github.com/viniciusth/repeatindex"
)

func randomText(r *rand.Rand, n, alphabet int) []byte {
	text := make([]byte, n)
	for i := range text {
		text[i] = byte('a' + r.Intn(alphabet))
	}
	return text
}

func TestFixedWindow(t *testing.T) {
	got, err := FixedWindow([]byte("banana"), 2)
	require.NoError(t, err)
	require.Equal(t, map[string]int{"ba": 1, "an": 2, "na": 2}, got)

	got, err = FixedWindow([]byte("aaaa"), 4)
	require.NoError(t, err)
	require.Equal(t, map[string]int{"aaaa": 1}, got)
}

func TestWindowParameters(t *testing.T) {
	tests := []struct {
		name string
		text string
		n    int
	}{
		{"zero", "abc", 0},
		{"negative", "abc", -1},
		{"longer than text", "abc", 4},
		{"empty text", "", 1},
	}
	counters := map[string]Counter{
		"fixed":   FixedWindow,
		"rolling": WithHash(DefaultBase, DefaultModulus),
	}
	for cname, counter := range counters {
		for _, tc := range tests {
			t.Run(cname+"/"+tc.name, func(t *testing.T) {
				got, err := counter([]byte(tc.text), tc.n)
				require.Nil(t, got)
				require.ErrorIs(t, err, repeatindex.ErrInvalidParameter)
				var pe *repeatindex.ParamError
				require.True(t, errors.As(err, &pe))
				require.Equal(t, "n", pe.Param)
			})
		}
	}
}

func TestRollingHashMatchesFixedWindow(t *testing.T) {
	r := rand.New(rand.NewSource(11))
	for range 100 {
		text := randomText(r, 1+r.Intn(200), 1+r.Intn(4))
		n := 1 + r.Intn(len(text))
		want, err := FixedWindow(text, n)
		require.NoError(t, err)
		for _, modulus := range []uint64{1, 2, 97, DefaultModulus, MaxModulus} {
			got, err := RollingHash(text, n, DefaultBase, modulus)
			require.NoError(t, err)
			if diff := cmp.Diff(want, got); diff != "" {
				t.Fatalf("text %q n=%d modulus=%d (-want +got):\n%s", text, n, modulus, diff)
			}
		}
	}
}

func TestRollingHashCollisionsAreVerified(t *testing.T) {
	// With base 256 and modulus 255, a window hashes to its symbol sum mod 255:
	// "ad" and "bc" both hash to 197.
	const base, modulus = 256, 255
	h := func(s string) uint64 {
		var v uint64
		for i := range len(s) {
			v = (v*base + uint64(s[i])) % modulus
		}
		return v
	}
	require.Equal(t, h("ad"), h("bc"))

	counts, stats, err := RollingHashStats([]byte("ad-bc-ad"), 2, base, modulus)
	require.NoError(t, err)
	require.Equal(t, 2, counts["ad"])
	require.Equal(t, 1, counts["bc"])
	require.Positive(t, stats.Collisions)
	require.Equal(t, 7, stats.Windows)

	// Modulus 1 sends every window to the same bucket.
	counts, stats, err = RollingHashStats([]byte("abcabc"), 3, base, 1)
	require.NoError(t, err)
	require.Equal(t, map[string]int{"abc": 2, "bca": 1, "cab": 1}, counts)
	require.Positive(t, stats.Collisions)
}

func TestRollingHashParameters(t *testing.T) {
	_, err := RollingHash([]byte("abc"), 2, 1, DefaultModulus)
	require.ErrorIs(t, err, repeatindex.ErrInvalidParameter)
	_, err = RollingHash([]byte("abc"), 2, DefaultBase, 0)
	require.ErrorIs(t, err, repeatindex.ErrInvalidParameter)
	_, err = RollingHash([]byte("abc"), 2, DefaultBase, MaxModulus+1)
	require.ErrorIs(t, err, repeatindex.ErrInvalidParameter)
}

func TestRollingHashParameterMessages(t *testing.T) {
	tests := []struct {
		name          string
		base, modulus uint64
		want          string
	}{
		{"max modulus", DefaultBase, math.MaxUint64, "modulus=18446744073709551615"},
		{"modulus with top bit", DefaultBase, 1 << 63, "modulus=9223372036854775808"},
		{"base", 0, DefaultModulus, "base=0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := RollingHash([]byte("abc"), 2, tt.base, tt.modulus)
			require.ErrorIs(t, err, repeatindex.ErrInvalidParameter)
			require.ErrorContains(t, err, tt.want)
			require.NotContains(t, err.Error(), "=-")
		})
	}
}

func TestAtLeast(t *testing.T) {
	counts := map[string]int{"a": 3, "b": 1, "c": 2}
	require.Equal(t, map[string]int{"a": 3, "c": 2}, AtLeast(counts, 2))
	require.Len(t, counts, 3)
}

func TestParallel(t *testing.T) {
	text := []byte(strings.Repeat("abracadabra", 10))
	ns := []int{1, 2, 3, 5, 8}
	got, err := Parallel(context.Background(), text, ns, WithHash(DefaultBase, DefaultModulus))
	require.NoError(t, err)
	require.Len(t, got, len(ns))
	for _, n := range ns {
		want, err := FixedWindow(text, n)
		require.NoError(t, err)
		require.Equal(t, want, got[n])
	}

	_, err = Parallel(context.Background(), text, []int{2, 0}, FixedWindow)
	require.ErrorIs(t, err, repeatindex.ErrInvalidParameter)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = Parallel(ctx, text, ns, FixedWindow)
	require.ErrorIs(t, err, context.Canceled)
}

func TestChunks(t *testing.T) {
	got := slices.Collect(Chunks([]byte("abcdefg"), 3))
	require.Equal(t, [][]byte{[]byte("abc"), []byte("def"), []byte("g")}, got)
	require.Empty(t, slices.Collect(Chunks(nil, 3)))
}
