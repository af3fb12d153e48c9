package mining

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMineGroupsSharedPrefix(t *testing.T) {
	scores := map[string]float64{
		"the air grew thick with tension": 5,
		"the air grew thick with smoke":   4,
		"a shiver ran down her spine":     9.5,
	}

	res := Mine(scores, Options{MinCommon: 3, IncludeStandalone: true, StandaloneMin: 9})

	want := []Pattern{{
		Prefix:     []string{"the", "air", "grew", "thick", "with"},
		Variations: []string{"smoke", "tension"},
		Score:      9,
	}}
	if diff := cmp.Diff(want, res.Patterns); diff != "" {
		t.Errorf("patterns mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, []Phrase{{Text: "a shiver ran down her spine", Score: 9.5}}, res.Remaining)
}

func TestMineMinCommon(t *testing.T) {
	scores := map[string]float64{
		"she let out a breath": 4,
		"she let slip a word":  4,
	}

	res := Mine(scores, Options{MinCommon: 3, IncludeStandalone: true, StandaloneMin: 9})
	assert.Empty(t, res.Patterns, "two shared tokens are below the minimum")
	assert.Empty(t, res.Remaining, "leftovers below the standalone score are dropped")

	res = Mine(scores, Options{MinCommon: 2})
	require.Len(t, res.Patterns, 1)
	assert.Equal(t, "she let|out a breath/slip a word", res.Patterns[0].String())
	assert.Equal(t, 8.0, res.Patterns[0].Score)
}

func TestMineGroupUsesShortestSharedPrefix(t *testing.T) {
	scores := map[string]float64{
		"her eyes sparkled with mischief":  3,
		"her eyes sparkled with amusement": 3,
		"her eyes narrowed with suspicion": 3,
	}

	res := Mine(scores, Options{MinCommon: 2})
	require.Len(t, res.Patterns, 1)
	p := res.Patterns[0]
	assert.Equal(t, []string{"her", "eyes"}, p.Prefix)
	assert.Equal(t, []string{"narrowed with suspicion", "sparkled with amusement", "sparkled with mischief"}, p.Variations)
	assert.Equal(t, 9.0, p.Score)
}

func TestMineSkipsLongGroups(t *testing.T) {
	scores := map[string]float64{
		"a b c d e f g h i j k": 5,
		"a b c d e f g h i j x": 5,
	}
	res := Mine(scores, Options{MinCommon: 3, IncludeStandalone: true, StandaloneMin: 1})
	assert.Empty(t, res.Patterns)
	assert.Len(t, res.Remaining, 2)
}

func TestMineStandaloneDisabled(t *testing.T) {
	res := Mine(map[string]float64{"a shiver ran down her spine": 50}, Options{MinCommon: 3})
	assert.Empty(t, res.Remaining)
}

func TestMineEmpty(t *testing.T) {
	res := Mine(nil, Options{MinCommon: 3, IncludeStandalone: true})
	assert.Empty(t, res.Patterns)
	assert.Empty(t, res.Remaining)
}

func TestMineDeterministic(t *testing.T) {
	scores := windowScores()
	opts := Options{MinCommon: 2, IncludeStandalone: true, StandaloneMin: 3}

	first := Mine(scores, opts)
	for i := 0; i < 20; i++ {
		if diff := cmp.Diff(first, Mine(scores, opts)); diff != "" {
			t.Fatalf("run %d differs (-first +got):\n%s", i, diff)
		}
	}
}

func TestMergeRelated(t *testing.T) {
	patterns := []Pattern{
		{Prefix: []string{"he", "suddenly", "turned", "and"}, Variations: []string{"stormed across", "wandered toward"}, Score: 7.75},
		{Prefix: []string{"she", "whispered"}, Variations: []string{"softly", "hoarsely"}, Score: 4},
		{Prefix: []string{"suddenly", "turned", "and"}, Variations: []string{"stormed across the", "wandered toward the"}, Score: 7.75},
		{Prefix: []string{"grabbed", "her", "hand"}, Variations: []string{"tightly", "gently"}, Score: 3},
		{Prefix: []string{"and"}, Variations: []string{"then", "so"}, Score: 1},
	}

	got := MergeRelated(patterns)

	want := []Pattern{
		{
			Prefix:     []string{"and"},
			Variations: []string{"then", "so", "stormed across the", "wandered toward the", "stormed across", "wandered toward"},
			Score:      16.5,
		},
		{Prefix: []string{"she", "whispered"}, Variations: []string{"softly", "hoarsely"}, Score: 4},
		{Prefix: []string{"grabbed", "her", "hand"}, Variations: []string{"tightly", "gently"}, Score: 3},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("MergeRelated mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, []string{"he", "suddenly", "turned", "and"}, patterns[0].Prefix, "input untouched")
}

func TestMergeRelatedKeepsShorterPrefix(t *testing.T) {
	patterns := []Pattern{
		{Prefix: []string{"he", "suddenly", "turned", "and"}, Variations: []string{"stormed across", "wandered toward"}, Score: 7.75},
		{Prefix: []string{"suddenly", "turned", "and"}, Variations: []string{"stormed across the", "wandered toward the"}, Score: 7.75},
	}

	got := MergeRelated(patterns)
	require.Len(t, got, 1)
	assert.Equal(t, "suddenly turned and|stormed across the/wandered toward the/stormed across/wandered toward", got[0].String())
	assert.Equal(t, 15.5, got[0].Score)
}
