package frequency

import (
	"strings"

	"github.com/leandrojofre/prosepolisher/pkg/polisher/ingest"
	"github.com/leandrojofre/prosepolisher/pkg/polisher/stoplist"
)

// Scoring weights.
const (
	BaseIncrement    = 1.0
	LengthBonus      = 0.2 // per token beyond the minimum window
	UncommonBonus    = 0.5 // per token outside the common-word list
	NarrationBoost   = 1.25
	minWindowForBase = stoplist.MinTokens
)

// Increment is the score one accepted window adds to its record:
//
//	(1 + (n-3)*0.2 + uncommon*0.5 + blacklist) * 1.25 for narration
func Increment(w ingest.Window, kind ingest.Kind, filter *stoplist.Filter, blacklist map[string]float64) float64 {
	inc := BaseIncrement
	inc += float64(w.N-minWindowForBase) * LengthBonus
	inc += float64(filter.UncommonCount(w.Literal)) * UncommonBonus
	inc += BlacklistWeight(w.Text(), blacklist)
	if kind == ingest.Narration {
		inc *= NarrationBoost
	}
	return inc
}

// BlacklistWeight returns the largest weight among blacklist terms found
// anywhere in phrase, or 0. Terms match as substrings, so "whisper" also
// weights "whispered".
func BlacklistWeight(phrase string, blacklist map[string]float64) float64 {
	if len(blacklist) == 0 {
		return 0
	}
	phrase = strings.ToLower(phrase)
	best := 0.0
	for term, weight := range blacklist {
		if term != "" && weight > best && strings.Contains(phrase, term) {
			best = weight
		}
	}
	return best
}
