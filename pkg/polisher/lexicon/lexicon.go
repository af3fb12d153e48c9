package lexicon

import (
	"bufio"
	_ "embed"
	"fmt"
	"os"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed data/lemmas.txt
var defaultLemmas string

// Lexicon is a fixed word -> lemma lookup table. It is not a morphological
// analyzer: a word that is not in the table is its own lemma.
//
// Two inflections that share a lemma ("turned", "turning" -> "turn") make the
// frequency store count them as the same n-gram while keeping the literal
// text for display.
type Lexicon struct {
	// lemma -> every known form, lemma first
	forms map[string][]string

	// form -> lemma
	reverseIndex map[string]string
}

// New creates an empty lexicon.
func New() *Lexicon {
	return &Lexicon{
		forms:        make(map[string][]string),
		reverseIndex: make(map[string]string),
	}
}

var (
	defaultOnce sync.Once
	defaultLex  *Lexicon
)

// Default returns the built-in English lemma table. The returned lexicon is
// shared; use Clone before extending it.
func Default() *Lexicon {
	defaultOnce.Do(func() {
		lex := New()
		if err := lex.readPairs(defaultLemmas); err != nil {
			panic(fmt.Sprintf("lexicon: embedded lemma table: %v", err))
		}
		defaultLex = lex
	})
	return defaultLex
}

// readPairs parses "form lemma" lines. Blank lines and # comments are skipped.
func (l *Lexicon) readPairs(data string) error {
	sc := bufio.NewScanner(strings.NewReader(data))
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		fields := strings.Fields(text)
		if len(fields) != 2 {
			return fmt.Errorf("line %d: want \"form lemma\", got %q", line, text)
		}
		l.Add(fields[0], fields[1])
	}
	return sc.Err()
}

// LoadFromYAML extends a copy of base with the mappings in path.
//
// Expected format:
//
//	lemmas:
//	  gazed: gaze
//	  gazing: gaze
//	groups:
//	  - lemma: smirk
//	    forms: [smirks, smirked, smirking]
//
// Both sections are optional and case-insensitive.
func LoadFromYAML(path string, base *Lexicon) (*Lexicon, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var file struct {
		Lemmas map[string]string `yaml:"lemmas"`
		Groups []struct {
			Lemma string   `yaml:"lemma"`
			Forms []string `yaml:"forms"`
		} `yaml:"groups"`
	}
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	lex := New()
	if base != nil {
		lex = base.Clone()
	}
	for form, lemma := range file.Lemmas {
		lex.Add(form, lemma)
	}
	for _, g := range file.Groups {
		lex.AddGroup(g.Lemma, g.Forms)
	}
	return lex, nil
}

// Add maps a single inflected form onto its lemma. A form that was already
// mapped is moved to the new lemma.
func (l *Lexicon) Add(form, lemma string) {
	form = strings.ToLower(strings.TrimSpace(form))
	lemma = strings.ToLower(strings.TrimSpace(lemma))
	if form == "" || lemma == "" {
		return
	}

	if old, ok := l.reverseIndex[form]; ok && old != lemma {
		l.forms[old] = removeString(l.forms[old], form)
	}

	if _, ok := l.forms[lemma]; !ok {
		l.forms[lemma] = []string{lemma}
	}
	if form != lemma && l.reverseIndex[form] != lemma {
		l.forms[lemma] = append(l.forms[lemma], form)
	}
	l.reverseIndex[form] = lemma
}

// AddGroup maps every form onto lemma.
func (l *Lexicon) AddGroup(lemma string, forms []string) {
	for _, f := range forms {
		l.Add(f, lemma)
	}
}

// Lemma returns the lemma of a token, or the lowercased token itself when the
// table has no entry.
//
// Examples:
//   - Lemma("turned") -> "turn"
//   - Lemma("velvet") -> "velvet"
func (l *Lexicon) Lemma(token string) string {
	token = strings.ToLower(token)
	if lemma, ok := l.reverseIndex[token]; ok {
		return lemma
	}
	return token
}

// Lemmatize maps every token through Lemma. The result has the same length
// and order as tokens.
func (l *Lexicon) Lemmatize(tokens []string) []string {
	out := make([]string, len(tokens))
	for i, tok := range tokens {
		out[i] = l.Lemma(tok)
	}
	return out
}

// Forms returns all known forms sharing the lemma of token, lemma first.
func (l *Lexicon) Forms(token string) []string {
	lemma := l.Lemma(token)
	if forms, ok := l.forms[lemma]; ok {
		return append([]string(nil), forms...)
	}
	return []string{lemma}
}

// Clone returns an independent copy.
func (l *Lexicon) Clone() *Lexicon {
	c := New()
	for lemma, forms := range l.forms {
		c.forms[lemma] = append([]string(nil), forms...)
	}
	for form, lemma := range l.reverseIndex {
		c.reverseIndex[form] = lemma
	}
	return c
}

// Stats returns statistics about the lexicon contents.
func (l *Lexicon) Stats() Stats {
	return Stats{
		Lemmas: len(l.forms),
		Forms:  len(l.reverseIndex),
	}
}

// Stats holds statistics about lexicon contents.
type Stats struct {
	Lemmas int // distinct lemmas
	Forms  int // forms with an explicit mapping
}

func removeString(list []string, s string) []string {
	out := list[:0]
	for _, v := range list {
		if v != s {
			out = append(out, v)
		}
	}
	return out
}
