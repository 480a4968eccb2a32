package strategy

import (
	"context"
	"iter"
	"time"

	"github.com/rs/zerolog"

	"github.com/viniciusth/repeatindex"
	"github.com/viniciusth/repeatindex/count"
)

type Selector struct {
	cfg Config
	log zerolog.Logger
}

type Option func(*Selector)

func WithLogger(log zerolog.Logger) Option {
	return func(s *Selector) {
		s.log = log
	}
}

func NewSelector(cfg Config, opts ...Option) (*Selector, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	s := &Selector{cfg: cfg, log: zerolog.Nop()}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Result holds the n-grams that reached the requested frequency.
type Result struct {
	Strategy Strategy
	N        int
	Counts   map[string]int
	Elapsed  time.Duration
}

// Approximate reports whether Counts may undercount.
func (r Result) Approximate() bool { return r.Strategy.Approximate() }

// Choose picks the strategy for an in-memory text of the given length.
func (s *Selector) Choose(length int) Strategy {
	if s.cfg.Force != Auto {
		return s.cfg.Force
	}
	switch {
	case length <= s.cfg.FixedWindowMaxLength:
		return FixedWindow
	case length >= s.cfg.SuffixIndexMinLength:
		return SuffixIndex
	default:
		return RollingHash
	}
}

// chooseRange picks the strategy for counting several window sizes at once.
// One suffix index answers every size, so it wins once brute force stops
// being cheap.
func (s *Selector) chooseRange(length int) Strategy {
	if s.cfg.Force != Auto {
		return s.cfg.Force
	}
	if length <= s.cfg.FixedWindowMaxLength {
		return FixedWindow
	}
	return SuffixIndex
}

// Repeats returns the n-grams of text occurring at least minFrequency times.
func (s *Selector) Repeats(ctx context.Context, text []byte, n, minFrequency int) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}
	if err := checkQuery(text, n, minFrequency); err != nil {
		return Result{}, err
	}

	strat := s.Choose(len(text))
	start := time.Now()
	counts, err := s.count(strat, text, n, minFrequency)
	if err != nil {
		s.log.Warn().Err(err).Stringer("strategy", strat).Int("n", n).Msg("counting failed")
		return Result{}, err
	}
	res := Result{Strategy: strat, N: n, Counts: counts, Elapsed: time.Since(start)}
	s.log.Debug().
		Stringer("strategy", strat).
		Int("length", len(text)).
		Int("n", n).
		Int("repeats", len(counts)).
		Dur("elapsed", res.Elapsed).
		Msg("counted repeats")
	return res, nil
}

// RepeatsStream counts the n-grams of a chunked source with bounded memory.
// The result is always approximate.
func (s *Selector) RepeatsStream(source iter.Seq[[]byte], n, minFrequency int) (Result, error) {
	if err := repeatindex.CheckAtLeast("min_frequency", minFrequency, 2); err != nil {
		return Result{}, err
	}
	start := time.Now()
	counts, stats, err := count.ApproxStreamingStats(source, n, s.cfg.StreamingMaxUnique)
	if err != nil {
		return Result{}, err
	}
	res := Result{Strategy: Streaming, N: n, Counts: count.AtLeast(counts, minFrequency), Elapsed: time.Since(start)}
	level := zerolog.DebugLevel
	if stats.Evictions > 0 {
		level = zerolog.InfoLevel
	}
	s.log.WithLevel(level).
		Stringer("strategy", Streaming).
		Int("chunks", stats.Chunks).
		Int("length", stats.Symbols).
		Int("n", n).
		Int("evictions", stats.Evictions).
		Dur("elapsed", res.Elapsed).
		Msg("counted repeats")
	return res, nil
}

// RepeatsRange returns, for every n in [minN, maxN], the n-grams occurring at
// least minFrequency times.
func (s *Selector) RepeatsRange(ctx context.Context, text []byte, minN, maxN, minFrequency int) (map[int]map[string]int, Strategy, error) {
	if err := checkQuery(text, minN, minFrequency); err != nil {
		return nil, Auto, err
	}
	if err := repeatindex.CheckRange("max_n", maxN, minN, len(text)); err != nil {
		return nil, Auto, err
	}

	strat := s.chooseRange(len(text))
	start := time.Now()
	defer func() {
		s.log.Debug().
			Stringer("strategy", strat).
			Int("length", len(text)).
			Int("min_n", minN).
			Int("max_n", maxN).
			Dur("elapsed", time.Since(start)).
			Msg("counted repeat range")
	}()

	if strat == SuffixIndex {
		ix, err := repeatindex.New(text)
		if err != nil {
			return nil, strat, err
		}
		report, err := ix.QueryLengths(minN, maxN, minFrequency)
		if err != nil {
			return nil, strat, err
		}
		byN := make(map[int]map[string]int, maxN-minN+1)
		for n := minN; n <= maxN; n++ {
			byN[n] = make(map[string]int)
		}
		for _, r := range report {
			byN[r.Length][string(ix.Substring(r))] = r.Count
		}
		return byN, strat, nil
	}

	ns := make([]int, 0, maxN-minN+1)
	for n := minN; n <= maxN; n++ {
		ns = append(ns, n)
	}
	byN, err := count.Parallel(ctx, text, ns, func(text []byte, n int) (map[string]int, error) {
		return s.count(strat, text, n, minFrequency)
	})
	return byN, strat, err
}

func (s *Selector) count(strat Strategy, text []byte, n, minFrequency int) (map[string]int, error) {
	switch strat {
	case RollingHash:
		counts, stats, err := count.RollingHashStats(text, n, s.cfg.RollingBase, s.cfg.RollingModulus)
		if err != nil {
			return nil, err
		}
		s.log.Trace().Int("windows", stats.Windows).Int("collisions", stats.Collisions).Msg("rolling hash")
		return count.AtLeast(counts, minFrequency), nil
	case SuffixIndex:
		ix, err := repeatindex.New(text)
		if err != nil {
			return nil, err
		}
		report, err := ix.QueryLengths(n, n, minFrequency)
		if err != nil {
			return nil, err
		}
		return repeatindex.Strings(ix, report), nil
	case Streaming:
		counts, err := count.ApproxStreaming(count.Chunks(text, s.cfg.StreamingChunkSize), n, s.cfg.StreamingMaxUnique)
		if err != nil {
			return nil, err
		}
		return count.AtLeast(counts, minFrequency), nil
	default:
		counts, err := count.FixedWindow(text, n)
		if err != nil {
			return nil, err
		}
		return count.AtLeast(counts, minFrequency), nil
	}
}

func checkQuery(text []byte, n, minFrequency int) error {
	if err := repeatindex.CheckRange("n", n, 1, len(text)); err != nil {
		return err
	}
	return repeatindex.CheckAtLeast("min_frequency", minFrequency, 2)
}
