package config

import (
	"fmt"

	"github.com/leandrojofre/prosepolisher/pkg/polisher/ingest"
	"github.com/leandrojofre/prosepolisher/pkg/polisher/lexicon"
	"github.com/leandrojofre/prosepolisher/pkg/polisher/stoplist"
)

// Loader loads the settings file and constructs components
type Loader struct {
	ConfigPath string

	// LemmaPath overrides the lemma_path setting when non-empty.
	LemmaPath string
}

// Components holds everything derived from one configuration.
type Components struct {
	Config    Config
	Resolved  Resolved
	Filter    *stoplist.Filter
	Lexicon   *lexicon.Lexicon
	Tokenizer *ingest.Tokenizer
}

// Load reads the configured files and returns initialized components. A
// missing ConfigPath means defaults.
func (l *Loader) Load() (*Components, error) {
	cfg := Default()
	if l.ConfigPath != "" {
		loaded, err := Load(l.ConfigPath)
		if err != nil {
			return nil, fmt.Errorf("load config: %w", err)
		}
		cfg = loaded
	}
	if l.LemmaPath != "" {
		cfg.LemmaPath = l.LemmaPath
	}
	return Build(cfg)
}

// Build derives components from an in-memory configuration.
func Build(cfg Config) (*Components, error) {
	comp := &Components{
		Config:   cfg,
		Resolved: cfg.Resolve(),
	}

	comp.Filter = stoplist.NewFilter(comp.Resolved.Whitelist)

	if cfg.LemmaPath != "" {
		lex, err := lexicon.LoadFromYAML(cfg.LemmaPath, lexicon.Default())
		if err != nil {
			return nil, fmt.Errorf("load lemmas: %w", err)
		}
		comp.Lexicon = lex
	} else {
		comp.Lexicon = lexicon.Default()
	}
	comp.Tokenizer = ingest.NewTokenizer(comp.Lexicon)

	return comp, nil
}
