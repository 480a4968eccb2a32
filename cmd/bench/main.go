package main

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"runtime"
	"runtime/pprof"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/viniciusth/repeatindex/count"
	"github.com/viniciusth/repeatindex/strategy"
)

type densityType string

const (
	densityLow  densityType = "low"
	densityHigh densityType = "high"
)

type options struct {
	strategy   string
	length     int
	n          int
	minFreq    int
	planted    int
	alphabet   int
	runs       int
	density    string
	config     string
	cpuprofile string
	verbose    bool
}

type memMonitor struct {
	maxAlloc uint64
	stop     chan struct{}
	done     chan struct{}
}

func newMemMonitor() *memMonitor {
	mm := &memMonitor{stop: make(chan struct{}), done: make(chan struct{})}
	go func() {
		defer close(mm.done)
		for {
			var m runtime.MemStats
			runtime.ReadMemStats(&m)
			if m.Alloc > mm.maxAlloc {
				mm.maxAlloc = m.Alloc
			}
			select {
			case <-mm.stop:
				return
			default:
				time.Sleep(10 * time.Millisecond)
			}
		}
	}()
	return mm
}

func (mm *memMonitor) Stop() uint64 {
	close(mm.stop)
	<-mm.done
	return mm.maxAlloc
}

func getCurrentAlloc() uint64 {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	return m.Alloc
}

// generateText returns random text over the first alphabet letters. For high
// density a common string of planted length is copied into every block of
// 4*planted symbols.
func generateText(r *rand.Rand, length, alphabet, planted int, density densityType) []byte {
	text := make([]byte, length)
	for i := range text {
		text[i] = byte('a' + r.Intn(alphabet))
	}
	if density != densityHigh || planted <= 0 || planted > length {
		return text
	}
	common := make([]byte, planted)
	for i := range common {
		common[i] = byte('a' + r.Intn(alphabet))
	}
	block := 4 * planted
	for start := 0; start+planted <= length; start += block {
		insertPos := start + r.Intn(min(block, length-start)-planted+1)
		copy(text[insertPos:], common)
	}
	return text
}

func measure(ctx context.Context, sel *strategy.Selector, s strategy.Strategy, text []byte, chunkSize int, o options) (strategy.Result, time.Duration, uint64, uint64, error) {
	runtime.GC()
	mm := newMemMonitor()
	start := time.Now()
	var res strategy.Result
	var err error
	if s == strategy.Streaming {
		res, err = sel.RepeatsStream(count.Chunks(text, chunkSize), o.n, o.minFreq)
	} else {
		res, err = sel.Repeats(ctx, text, o.n, o.minFreq)
	}
	dur := time.Since(start)
	peak := mm.Stop()
	runtime.GC()
	return res, dur, peak, getCurrentAlloc(), err
}

func runBenchmark(ctx context.Context, log zerolog.Logger, o options) error {
	cfg := strategy.DefaultConfig()
	if o.config != "" {
		var err error
		if cfg, err = strategy.LoadConfig(o.config); err != nil {
			return err
		}
	}

	var strategies []strategy.Strategy
	if o.strategy == "all" {
		strategies = []strategy.Strategy{strategy.FixedWindow, strategy.RollingHash, strategy.SuffixIndex, strategy.Streaming}
	} else {
		s, err := strategy.ParseStrategy(o.strategy)
		if err != nil {
			return err
		}
		strategies = []strategy.Strategy{s}
	}

	fmt.Println("strategy,length,n,min_freq,density,ns,peak_alloc,alloc,repeats")
	for _, s := range strategies {
		cfg.Force = s
		sel, err := strategy.NewSelector(cfg, strategy.WithLogger(log))
		if err != nil {
			return err
		}
		for run := 0; run < o.runs; run++ {
			r := rand.New(rand.NewSource(int64(run)))
			text := generateText(r, o.length, o.alphabet, o.planted, densityType(o.density))
			res, dur, peak, alloc, err := measure(ctx, sel, s, text, cfg.StreamingChunkSize, o)
			if err != nil {
				return err
			}
			fmt.Printf("%s,%d,%d,%d,%s,%d,%d,%d,%d\n",
				res.Strategy, o.length, o.n, o.minFreq, o.density,
				dur.Nanoseconds(), peak, alloc, len(res.Counts))
		}
	}
	return nil
}

func newRootCmd() *cobra.Command {
	var o options
	cmd := &cobra.Command{
		Use:           "bench",
		Short:         "Benchmark repeated substring counting strategies on generated text",
		SilenceUsage:  true,
		SilenceErrors: true,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			if o.length <= 0 || o.n <= 0 || o.n > o.length || o.minFreq < 2 || o.alphabet < 1 || o.alphabet > 26 || o.runs < 1 {
				return fmt.Errorf("need length >= n >= 1, min-freq >= 2, alphabet in [1, 26], runs >= 1")
			}
			if d := densityType(o.density); d != densityLow && d != densityHigh {
				return fmt.Errorf("density must be %q or %q", densityLow, densityHigh)
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			level := zerolog.InfoLevel
			if o.verbose {
				level = zerolog.DebugLevel
			}
			log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(level).With().Timestamp().Logger()

			if o.cpuprofile != "" {
				f, err := os.Create(o.cpuprofile)
				if err != nil {
					return fmt.Errorf("could not create CPU profile: %w", err)
				}
				defer f.Close()
				if err := pprof.StartCPUProfile(f); err != nil {
					return fmt.Errorf("could not start CPU profile: %w", err)
				}
				defer pprof.StopCPUProfile()
			}
			return runBenchmark(cmd.Context(), log, o)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&o.strategy, "strategy", "s", "all", "auto, fixed-window, rolling-hash, suffix-index, streaming or all")
	f.IntVarP(&o.length, "length", "l", 1<<16, "text length")
	f.IntVarP(&o.n, "n", "n", 8, "n-gram length")
	f.IntVar(&o.minFreq, "min-freq", 2, "minimum occurrences reported")
	f.IntVarP(&o.planted, "planted", "p", 32, "planted repeat length for high density")
	f.IntVarP(&o.alphabet, "alphabet", "a", 4, "alphabet size")
	f.IntVar(&o.runs, "runs", 3, "number of runs per strategy")
	f.StringVarP(&o.density, "density", "d", string(densityLow), "density: low or high")
	f.StringVar(&o.config, "config", "", "strategy config YAML file")
	f.StringVar(&o.cpuprofile, "cpuprofile", "", "write CPU profile to file")
	f.BoolVarP(&o.verbose, "verbose", "v", false, "log every counting pass")
	return cmd
}

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
