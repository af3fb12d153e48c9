package ingest

import (
	"strings"

	"github.com/leandrojofre/prosepolisher/pkg/polisher/lexicon"
)

// punctuation left after StripMarkup is dropped; the pattern delimiters | and /
// split words so no token can corrupt an encoded pattern.
var tokenCleaner = strings.NewReplacer(
	",", "", ".", "", "!", "", "?", "",
	"|", " ", "/", " ",
)

// Tokenizer turns a sentence into lowercase word tokens and their lemmas.
type Tokenizer struct {
	lexicon *lexicon.Lexicon
}

// NewTokenizer creates a tokenizer. A nil lexicon uses the built-in table.
func NewTokenizer(lex *lexicon.Lexicon) *Tokenizer {
	if lex == nil {
		lex = lexicon.Default()
	}
	return &Tokenizer{lexicon: lex}
}

// Tokenize strips residual punctuation, lowercases and splits on whitespace.
// Empty tokens are discarded.
func (t *Tokenizer) Tokenize(sentence string) []string {
	return strings.Fields(strings.ToLower(tokenCleaner.Replace(sentence)))
}

// Lemmatize maps tokens onto their lemmas, one for one.
func (t *Tokenizer) Lemmatize(tokens []string) []string {
	return t.lexicon.Lemmatize(tokens)
}
