package config

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/leandrojofre/prosepolisher/pkg/polisher/internalerr"
)

func TestDefaultResolve(t *testing.T) {
	r := Default().Resolve()

	if r.NgramMax != 10 || r.SlopThreshold != 3.0 || r.DecayRate != 10 || r.DecayInterval != 10 {
		t.Errorf("unexpected numeric defaults: %+v", r)
	}
	if r.PatternMinCommon != 3 || r.MessageLimit != -1 || r.AnalysisInterval != 50 || r.DecayEvery != 30 {
		t.Errorf("unexpected cadence defaults: %+v", r)
	}
	if !r.IncludeStandalone {
		t.Error("standalone phrases should be included by default")
	}
	if r.PruneDuringBulk {
		t.Error("pruning during bulk analysis should be off by default")
	}
	if r.RefreshInterval != 5*time.Second {
		t.Errorf("RefreshInterval = %v", r.RefreshInterval)
	}
}

func TestResolveZeroValueUsesDefaults(t *testing.T) {
	var cfg Config
	r := cfg.Resolve()
	if r.NgramMax != DefaultNgramMax || r.SlopThreshold != DefaultSlopThreshold {
		t.Errorf("zero Config should resolve to defaults, got %+v", r)
	}
	if !r.IncludeStandalone {
		t.Error("nil IncludeStandalonePhrases should mean true")
	}
}

func TestResolveClamps(t *testing.T) {
	off := false
	cfg := Config{
		NgramMax:                 2,
		SlopThreshold:            0.5,
		DecayRate:                80,
		DecayInterval:            -4,
		PatternMinCommon:         1,
		IncludeStandalonePhrases: &off,
		MessageLimit:             0,
		Whitelist:                []string{" Bob", "bob", "", "ALICE"},
		Blacklist: map[string]float64{
			"  Whispered ": 0,
			"smirk":        15,
			"":             4,
			"ozone":        4,
		},
	}
	r := cfg.Resolve()

	if r.NgramMax != NgramMin {
		t.Errorf("NgramMax = %d, want %d", r.NgramMax, NgramMin)
	}
	if r.SlopThreshold != MinSlopThreshold {
		t.Errorf("SlopThreshold = %v", r.SlopThreshold)
	}
	if r.DecayRate != MaxDecayRate {
		t.Errorf("DecayRate = %v", r.DecayRate)
	}
	if r.DecayInterval != DefaultDecayInterval {
		t.Errorf("DecayInterval = %d", r.DecayInterval)
	}
	if r.PatternMinCommon != MinPatternMinCommon {
		t.Errorf("PatternMinCommon = %d", r.PatternMinCommon)
	}
	if r.IncludeStandalone {
		t.Error("IncludeStandalone should follow the explicit false")
	}
	if r.MessageLimit != -1 {
		t.Errorf("MessageLimit = %d, want -1", r.MessageLimit)
	}
	if want := []string{"alice", "bob"}; !reflect.DeepEqual(r.Whitelist, want) {
		t.Errorf("Whitelist = %q, want %q", r.Whitelist, want)
	}
	wantBlacklist := map[string]float64{"whispered": 1, "smirk": 10, "ozone": 4}
	if !reflect.DeepEqual(r.Blacklist, wantBlacklist) {
		t.Errorf("Blacklist = %v, want %v", r.Blacklist, wantBlacklist)
	}

	high := Config{NgramMax: 40, SlopThreshold: 25, PatternMinCommon: 9}.Resolve()
	if high.NgramMax != NgramCeiling || high.SlopThreshold != MaxSlopThreshold || high.PatternMinCommon != MaxPatternMinCommon {
		t.Errorf("upper clamps not applied: %+v", high)
	}
}

func TestParse(t *testing.T) {
	data := []byte(`
ngram_max: 7
slop_threshold: 4.5
whitelist: [bob]
blacklist:
  ozone: 3
include_standalone_phrases: false
refresh_interval: 2s
`)
	cfg, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cfg.NgramMax != 7 || cfg.SlopThreshold != 4.5 {
		t.Errorf("numeric fields not parsed: %+v", cfg)
	}
	if cfg.DecayRate != DefaultDecayRate {
		t.Errorf("absent keys should keep defaults, DecayRate = %v", cfg.DecayRate)
	}
	if cfg.IncludeStandalonePhrases == nil || *cfg.IncludeStandalonePhrases {
		t.Error("include_standalone_phrases: false not honored")
	}
	if cfg.Blacklist["ozone"] != 3 {
		t.Errorf("Blacklist = %v", cfg.Blacklist)
	}
	if cfg.RefreshInterval != 2*time.Second {
		t.Errorf("RefreshInterval = %v", cfg.RefreshInterval)
	}
}

func TestParseEmpty(t *testing.T) {
	cfg, err := Parse(nil)
	if err != nil {
		t.Fatalf("empty document should parse: %v", err)
	}
	if cfg.NgramMax != DefaultNgramMax {
		t.Errorf("empty document should give defaults")
	}
}

func TestParseUnknownKey(t *testing.T) {
	_, err := Parse([]byte("ngram_maximum: 4\n"))
	if !errors.Is(err, internalerr.ErrInvalidConfig) {
		t.Errorf("unknown key should be ErrInvalidConfig, got %v", err)
	}
}

func TestLoadAndMarshal(t *testing.T) {
	path := filepath.Join(t.TempDir(), "polisher.yaml")

	cfg := Default()
	cfg.NgramMax = 6
	cfg.Whitelist = []string{"bob"}
	data, err := cfg.Marshal()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.NgramMax != 6 || len(loaded.Whitelist) != 1 {
		t.Errorf("round trip lost settings: %+v", loaded)
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("missing file should error")
	}
}
