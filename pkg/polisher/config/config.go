package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/leandrojofre/prosepolisher/pkg/polisher/internalerr"
)

// Defaults used when a numeric setting is missing (zero) in the file.
const (
	DefaultNgramMax         = 10
	DefaultSlopThreshold    = 3.0
	DefaultDecayRate        = 10.0
	DefaultDecayInterval    = 10
	DefaultPatternMinCommon = 3
	DefaultMessageLimit     = -1
	DefaultAnalysisInterval = 50
	DefaultDecayEvery       = 30
	DefaultRefreshInterval  = 5 * time.Second

	// NgramMin is the smallest window the analyzer ever scores.
	NgramMin = 3
	// NgramCeiling bounds NgramMax.
	NgramCeiling = 15

	MinSlopThreshold    = 1.0
	MaxSlopThreshold    = 10.0
	MaxDecayRate        = 50.0
	MinPatternMinCommon = 2
	MaxPatternMinCommon = 5
	MinBlacklistWeight  = 1.0
	MaxBlacklistWeight  = 10.0
)

// Config mirrors the analyzer settings file. Zero values mean "use the default".
type Config struct {
	NgramMax         int                `yaml:"ngram_max"`
	SlopThreshold    float64            `yaml:"slop_threshold"`
	DecayRate        float64            `yaml:"decay_rate"`
	DecayInterval    int                `yaml:"decay_interval"`
	PatternMinCommon int                `yaml:"pattern_min_common"`
	Whitelist        []string           `yaml:"whitelist"`
	Blacklist        map[string]float64 `yaml:"blacklist"`

	// IncludeStandalonePhrases defaults to true when omitted.
	IncludeStandalonePhrases *bool `yaml:"include_standalone_phrases"`

	// MessageLimit keeps only the last N messages in bulk analysis; -1 or 0 means all.
	MessageLimit int `yaml:"message_limit"`

	AnalysisInterval int           `yaml:"analysis_interval"`
	DecayEvery       int           `yaml:"decay_every"`
	PruneDuringBulk  bool          `yaml:"prune_during_bulk"`
	RefreshInterval  time.Duration `yaml:"refresh_interval"`

	// LemmaPath optionally points at a YAML file extending the built-in lemma table.
	LemmaPath string `yaml:"lemma_path"`
}

// Resolved is the validated, defaulted form of Config handed to every engine
// operation. It is a value type; the engine never mutates it.
type Resolved struct {
	NgramMax          int
	SlopThreshold     float64
	DecayRate         float64
	DecayInterval     int
	PatternMinCommon  int
	Whitelist         []string
	Blacklist         map[string]float64
	IncludeStandalone bool
	MessageLimit      int
	AnalysisInterval  int
	DecayEvery        int
	PruneDuringBulk   bool
	RefreshInterval   time.Duration
}

// Default returns the settings the analyzer ships with.
func Default() Config {
	standalone := true
	return Config{
		NgramMax:                 DefaultNgramMax,
		SlopThreshold:            DefaultSlopThreshold,
		DecayRate:                DefaultDecayRate,
		DecayInterval:            DefaultDecayInterval,
		PatternMinCommon:         DefaultPatternMinCommon,
		Whitelist:                []string{},
		Blacklist:                map[string]float64{},
		IncludeStandalonePhrases: &standalone,
		MessageLimit:             DefaultMessageLimit,
		AnalysisInterval:         DefaultAnalysisInterval,
		DecayEvery:               DefaultDecayEvery,
		RefreshInterval:          DefaultRefreshInterval,
	}
}

// Resolve fills defaults for missing numeric settings and clamps out-of-range
// values. It never fails: configuration anomalies degrade to documented values.
func (c Config) Resolve() Resolved {
	r := Resolved{
		NgramMax:          c.NgramMax,
		SlopThreshold:     c.SlopThreshold,
		DecayRate:         c.DecayRate,
		DecayInterval:     c.DecayInterval,
		PatternMinCommon:  c.PatternMinCommon,
		IncludeStandalone: c.IncludeStandalonePhrases == nil || *c.IncludeStandalonePhrases,
		MessageLimit:      c.MessageLimit,
		AnalysisInterval:  c.AnalysisInterval,
		DecayEvery:        c.DecayEvery,
		PruneDuringBulk:   c.PruneDuringBulk,
		RefreshInterval:   c.RefreshInterval,
	}

	switch {
	case r.NgramMax == 0:
		r.NgramMax = DefaultNgramMax
	case r.NgramMax < NgramMin:
		r.NgramMax = NgramMin
	case r.NgramMax > NgramCeiling:
		r.NgramMax = NgramCeiling
	}

	if r.SlopThreshold <= 0 {
		r.SlopThreshold = DefaultSlopThreshold
	}
	r.SlopThreshold = clamp(r.SlopThreshold, MinSlopThreshold, MaxSlopThreshold)

	// A zero rate is indistinguishable from "unset" in the settings file.
	if r.DecayRate <= 0 {
		r.DecayRate = DefaultDecayRate
	}
	r.DecayRate = clamp(r.DecayRate, 0, MaxDecayRate)

	if r.DecayInterval <= 0 {
		r.DecayInterval = DefaultDecayInterval
	}

	if r.PatternMinCommon == 0 {
		r.PatternMinCommon = DefaultPatternMinCommon
	}
	if r.PatternMinCommon < MinPatternMinCommon {
		r.PatternMinCommon = MinPatternMinCommon
	}
	if r.PatternMinCommon > MaxPatternMinCommon {
		r.PatternMinCommon = MaxPatternMinCommon
	}

	if r.MessageLimit <= 0 {
		r.MessageLimit = DefaultMessageLimit
	}
	if r.AnalysisInterval <= 0 {
		r.AnalysisInterval = DefaultAnalysisInterval
	}
	if r.DecayEvery <= 0 {
		r.DecayEvery = DefaultDecayEvery
	}
	if r.RefreshInterval <= 0 {
		r.RefreshInterval = DefaultRefreshInterval
	}

	r.Whitelist = normalizeWords(c.Whitelist)

	r.Blacklist = make(map[string]float64, len(c.Blacklist))
	for term, weight := range c.Blacklist {
		term = strings.ToLower(strings.TrimSpace(term))
		if term == "" {
			continue
		}
		r.Blacklist[term] = clamp(weight, MinBlacklistWeight, MaxBlacklistWeight)
	}

	return r
}

// Load reads a YAML settings file. Keys absent from the file keep their
// defaults; unknown keys are rejected.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes YAML settings on top of Default().
func Parse(data []byte) (Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("%w: %v", internalerr.ErrInvalidConfig, err)
	}
	return cfg, nil
}

// Marshal renders the configuration back to YAML.
func (c Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}

func normalizeWords(words []string) []string {
	seen := make(map[string]struct{}, len(words))
	out := make([]string, 0, len(words))
	for _, w := range words {
		w = strings.ToLower(strings.TrimSpace(w))
		if w == "" {
			continue
		}
		if _, ok := seen[w]; ok {
			continue
		}
		seen[w] = struct{}{}
		out = append(out, w)
	}
	sort.Strings(out)
	return out
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
