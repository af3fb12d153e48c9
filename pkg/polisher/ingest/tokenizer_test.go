package ingest

import (
	"reflect"
	"testing"

	"github.com/leandrojofre/prosepolisher/pkg/polisher/lexicon"
)

func TestTokenize(t *testing.T) {
	tok := NewTokenizer(nil)

	tests := []struct {
		in   string
		want []string
	}{
		{"He suddenly turned, and LEFT the room.", []string{"he", "suddenly", "turned", "and", "left", "the", "room"}},
		{"What?!", []string{"what"}},
		{"and/or either|neither", []string{"and", "or", "either", "neither"}},
		{"   ", nil},
		{"don't stop", []string{"don't", "stop"}},
	}

	for _, tt := range tests {
		got := tok.Tokenize(tt.in)
		if len(got) == 0 && len(tt.want) == 0 {
			continue
		}
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("Tokenize(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestTokenizerLemmatize(t *testing.T) {
	tok := NewTokenizer(nil)
	got := tok.Lemmatize([]string{"he", "turned", "and", "walked"})
	want := []string{"he", "turn", "and", "walk"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Lemmatize = %q, want %q", got, want)
	}
}

func TestTokenizerCustomLexicon(t *testing.T) {
	lex := lexicon.New()
	lex.Add("ran", "sprint")

	tok := NewTokenizer(lex)
	if got := tok.Lemmatize([]string{"ran", "turned"}); got[0] != "sprint" || got[1] != "turned" {
		t.Errorf("custom lexicon not applied: %q", got)
	}
}
