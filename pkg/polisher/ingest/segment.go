package ingest

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// Kind separates quoted speech from narration. Narration is weighted higher
// when scoring because repetitive narration is the more visible tic.
type Kind int

const (
	Narration Kind = iota
	Dialogue
)

func (k Kind) String() string {
	if k == Dialogue {
		return "dialogue"
	}
	return "narration"
}

// dialogueWindow is how many leading characters are inspected for a quote.
const dialogueWindow = 10

var sentenceRE = regexp.MustCompile(`[^.!?]+[.!?]+"?`)

// SplitSentences splits cleaned text into sentences: a run of non-terminators
// followed by one or more of . ! ? and an optional closing quote. Text with no
// terminator at all is a single sentence. A trailing fragment after the last
// terminator is not a sentence.
func SplitSentences(clean string) []string {
	if strings.TrimSpace(clean) == "" {
		return nil
	}
	sentences := sentenceRE.FindAllString(clean, -1)
	if len(sentences) == 0 {
		return []string{clean}
	}
	return sentences
}

// Classify marks a sentence as dialogue when a quote character appears in its
// first few characters.
func Classify(sentence string) Kind {
	s := strings.TrimSpace(sentence)
	for i, n := 0, 0; i < len(s) && n < dialogueWindow; n++ {
		r, size := utf8.DecodeRuneInString(s[i:])
		if r == '"' || r == '\'' {
			return Dialogue
		}
		i += size
	}
	return Narration
}
