package strategy

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/viniciusth/repeatindex"
	"github.com/viniciusth/repeatindex/count"
)

// Config holds the thresholds a Selector uses to pick a counting strategy.
type Config struct {
	// Force bypasses selection when not Auto.
	Force Strategy `yaml:"force"`
	// Texts up to this length are counted by brute force.
	FixedWindowMaxLength int `yaml:"fixed_window_max_length"`
	// Texts at least this long, and every multi-length query, use the suffix index.
	SuffixIndexMinLength int `yaml:"suffix_index_min_length"`

	RollingBase    uint64 `yaml:"rolling_base"`
	RollingModulus uint64 `yaml:"rolling_modulus"`

	StreamingMaxUnique int `yaml:"streaming_max_unique"`
	StreamingChunkSize int `yaml:"streaming_chunk_size"`
}

func DefaultConfig() Config {
	return Config{
		Force:                Auto,
		FixedWindowMaxLength: 4 << 10,
		SuffixIndexMinLength: 1 << 20,
		RollingBase:          count.DefaultBase,
		RollingModulus:       count.DefaultModulus,
		StreamingMaxUnique:   1 << 20,
		StreamingChunkSize:   64 << 10,
	}
}

func (c Config) Validate() error {
	if err := repeatindex.CheckAtLeast("fixed_window_max_length", c.FixedWindowMaxLength, 0); err != nil {
		return err
	}
	if err := repeatindex.CheckAtLeast("suffix_index_min_length", c.SuffixIndexMinLength, c.FixedWindowMaxLength); err != nil {
		return err
	}
	if c.RollingBase < 2 {
		return &repeatindex.ParamError{Param: "rolling_base", Constraint: ">= 2", Value: c.RollingBase}
	}
	if c.RollingModulus < 1 || c.RollingModulus > count.MaxModulus {
		return &repeatindex.ParamError{Param: "rolling_modulus", Constraint: "in [1, 2^62]", Value: c.RollingModulus}
	}
	if err := repeatindex.CheckAtLeast("streaming_max_unique", c.StreamingMaxUnique, 1); err != nil {
		return err
	}
	return repeatindex.CheckAtLeast("streaming_chunk_size", c.StreamingChunkSize, 1)
}

// ParseConfig overlays YAML onto DefaultConfig. Unknown keys are rejected.
func ParseConfig(data []byte) (Config, error) {
	cfg := DefaultConfig()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("strategy: parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("strategy: read config: %w", err)
	}
	return ParseConfig(data)
}
