// Package strategy picks the repeat counting algorithm that fits a text's
// size and access pattern and runs it.
package strategy

import (
	"fmt"
	"strings"
)

type Strategy int

const (
	Auto Strategy = iota
	FixedWindow
	RollingHash
	SuffixIndex
	Streaming
)

var strategyNames = [...]string{
	Auto:        "auto",
	FixedWindow: "fixed-window",
	RollingHash: "rolling-hash",
	SuffixIndex: "suffix-index",
	Streaming:   "streaming",
}

func (s Strategy) String() string {
	if s >= 0 && int(s) < len(strategyNames) {
		return strategyNames[s]
	}
	return fmt.Sprintf("Strategy(%d)", int(s))
}

// Approximate reports whether results of s may undercount.
func (s Strategy) Approximate() bool { return s == Streaming }

func ParseStrategy(name string) (Strategy, error) {
	for s, n := range strategyNames {
		if strings.EqualFold(name, n) {
			return Strategy(s), nil
		}
	}
	return Auto, fmt.Errorf("strategy: unknown strategy %q", name)
}

func (s Strategy) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *Strategy) UnmarshalText(text []byte) error {
	parsed, err := ParseStrategy(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}
