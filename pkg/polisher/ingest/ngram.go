package ingest

import "strings"

// Window is one n-gram drawn from a sentence. Literal and Lemma always have
// the same length and come from the same token positions.
type Window struct {
	N       int
	Literal []string
	Lemma   []string
}

// Text is the literal phrase.
func (w Window) Text() string { return strings.Join(w.Literal, " ") }

// Key identifies the frequency record the window feeds.
func (w Window) Key() string { return strings.Join(w.Lemma, " ") }

// Windows returns every contiguous window of every size in [minN, maxN].
// Sizes larger than the sentence produce nothing.
func Windows(literal, lemma []string, minN, maxN int) []Window {
	if len(literal) != len(lemma) {
		return nil
	}
	var out []Window
	for n := minN; n <= maxN; n++ {
		if len(literal) < n {
			break
		}
		for i := 0; i+n <= len(literal); i++ {
			out = append(out, Window{
				N:       n,
				Literal: literal[i : i+n],
				Lemma:   lemma[i : i+n],
			})
		}
	}
	return out
}
