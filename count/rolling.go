package count

import (
	"bytes"
	"math/bits"

	"github.com/viniciusth/repeatindex"
)

const (
	DefaultBase    = 257
	DefaultModulus = 1<<61 - 1

	// MaxModulus keeps h + modulus from overflowing while sliding.
	MaxModulus = 1 << 62
)

// RollingStats describes one rolling hash pass.
type RollingStats struct {
	Windows int
	// Collisions counts hash matches whose windows differed.
	Collisions int
}

// RollingHash counts every n-gram with a polynomial rolling hash modulo
// modulus. Windows sharing a hash are compared symbol by symbol before being
// merged, so collisions never merge distinct n-grams.
func RollingHash(text []byte, n int, base, modulus uint64) (map[string]int, error) {
	counts, _, err := RollingHashStats(text, n, base, modulus)
	return counts, err
}

// RollingHashStats is RollingHash that also reports collision statistics.
func RollingHashStats(text []byte, n int, base, modulus uint64) (map[string]int, RollingStats, error) {
	if err := checkWindow(text, n); err != nil {
		return nil, RollingStats{}, err
	}
	if base < 2 {
		return nil, RollingStats{}, &repeatindex.ParamError{Param: "base", Constraint: ">= 2", Value: base}
	}
	if modulus < 1 || modulus > MaxModulus {
		return nil, RollingStats{}, &repeatindex.ParamError{Param: "modulus", Constraint: "in [1, 2^62]", Value: modulus}
	}
	counts, stats := rollingHash(text, n, base, modulus)
	return counts, stats, nil
}

// WithHash adapts RollingHash to a Counter.
func WithHash(base, modulus uint64) Counter {
	return func(text []byte, n int) (map[string]int, error) {
		return RollingHash(text, n, base, modulus)
	}
}

type hashSlot struct {
	pos   int
	count int
}

func rollingHash(text []byte, n int, base, m uint64) (map[string]int, RollingStats) {
	var stats RollingStats
	base %= m
	// weight of the symbol leaving the window: base^(n-1)
	top := uint64(1) % m
	for range n - 1 {
		top = mulmod(top, base, m)
	}

	var h uint64
	for _, c := range text[:n] {
		h = (mulmod(h, base, m) + uint64(c)%m) % m
	}

	buckets := make(map[uint64][]hashSlot)
	for i := 0; ; i++ {
		stats.Windows++
		window := text[i : i+n]
		slots := buckets[h]
		found := false
		for j := range slots {
			if bytes.Equal(text[slots[j].pos:slots[j].pos+n], window) {
				slots[j].count++
				found = true
				break
			}
			stats.Collisions++
		}
		if !found {
			buckets[h] = append(slots, hashSlot{pos: i, count: 1})
		}

		if i+n == len(text) {
			break
		}
		h = (h + m - mulmod(uint64(text[i])%m, top, m)) % m
		h = (mulmod(h, base, m) + uint64(text[i+n])%m) % m
	}

	counts := make(map[string]int)
	for _, slots := range buckets {
		for _, s := range slots {
			counts[string(text[s.pos:s.pos+n])] = s.count
		}
	}
	return counts, stats
}

func mulmod(a, b, m uint64) uint64 {
	hi, lo := bits.Mul64(a, b)
	return bits.Rem64(hi, lo, m)
}
