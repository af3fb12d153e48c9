package leaderboard

import (
	"sort"

	"github.com/leandrojofre/prosepolisher/pkg/polisher/frequency"
)

// Entry kinds in the external list.
const (
	TypePattern = "pattern"
	TypePhrase  = "phrase"
)

// SlopItem is one entry of the list handed to downstream consumers.
type SlopItem struct {
	Type            string   `json:"type"`
	PatternTemplate string   `json:"pattern_template,omitempty"`
	Template        string   `json:"template,omitempty"`
	Variants        []string `json:"variants,omitempty"`
	Phrase          string   `json:"phrase,omitempty"`
	Score           float64  `json:"score"`
}

// RawEntry is re-exported for consumers of the unprocessed leaderboard.
type RawEntry = frequency.RawEntry

// SlopList renders the snapshot entries scoring at least threshold, highest
// first. Patterns become "<prefix> {variant}" templates.
func SlopList(snap Snapshot, threshold float64) []SlopItem {
	items := make([]SlopItem, 0, len(snap.Merged)+len(snap.Remaining))

	for _, p := range snap.Merged {
		if p.Score < threshold {
			continue
		}
		items = append(items, SlopItem{
			Type:            TypePattern,
			PatternTemplate: p.Template() + " {variant}",
			Template:        p.Template(),
			Variants:        append([]string(nil), p.Variations...),
			Score:           p.Score,
		})
	}
	for _, r := range snap.Remaining {
		if r.Score < threshold {
			continue
		}
		items = append(items, SlopItem{
			Type:   TypePhrase,
			Phrase: r.Text,
			Score:  r.Score,
		})
	}

	sort.SliceStable(items, func(i, j int) bool { return items[i].Score > items[j].Score })
	return items
}
