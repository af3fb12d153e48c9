package mining

import (
	"sort"
	"strings"
)

// MaxGroupTokens is the longest phrase considered for prefix grouping.
const MaxGroupTokens = 10

// Options tunes one mining run.
type Options struct {
	// MinCommon is the shortest shared prefix, in tokens, that makes a pattern.
	MinCommon int

	// IncludeStandalone keeps strong phrases that joined no pattern.
	IncludeStandalone bool

	// StandaloneMin is the score a standalone phrase needs.
	StandaloneMin float64
}

// Phrase is a literal phrase with its aggregated score.
type Phrase struct {
	Text  string
	Score float64
}

// Result is the outcome of one mining run.
type Result struct {
	Patterns  []Pattern
	Remaining []Phrase
}

// Mine culls redundant substrings, groups same-length phrases sharing a
// prefix into patterns, merges patterns whose prefixes overlap and returns
// the strong leftovers as standalone phrases. Output is deterministic for a
// given input.
func Mine(scores map[string]float64, opts Options) Result {
	if len(scores) == 0 {
		return Result{}
	}

	culled := CullSubstrings(scores)
	candidates := make([]Phrase, 0, len(culled))
	for text, score := range culled {
		candidates = append(candidates, Phrase{Text: text, Score: score})
	}
	sort.Slice(candidates, func(i, j int) bool { return candidates[i].Text < candidates[j].Text })

	consumed := make([]bool, len(candidates))
	patterns := groupByPrefix(candidates, consumed, opts.MinCommon)

	res := Result{Patterns: MergeRelated(patterns)}
	if opts.IncludeStandalone {
		for i, c := range candidates {
			if !consumed[i] && c.Score >= opts.StandaloneMin {
				res.Remaining = append(res.Remaining, c)
			}
		}
	}
	return res
}

type member struct {
	index  int
	tokens []string
	score  float64
}

// groupByPrefix walks each token-length group in ascending order. The first
// unconsumed phrase collects every later phrase sharing at least minCommon
// leading tokens (and differing somewhere). The group's common prefix is the
// shortest one shared with that first phrase; when it is long enough every
// member is consumed and, given two or more distinct endings, a pattern is
// recorded. Patterns with the same prefix and endings add up.
func groupByPrefix(candidates []Phrase, consumed []bool, minCommon int) []Pattern {
	groups := make(map[int][]member)
	for i, c := range candidates {
		toks := strings.Split(c.Text, " ")
		groups[len(toks)] = append(groups[len(toks)], member{index: i, tokens: toks, score: c.Score})
	}
	lengths := make([]int, 0, len(groups))
	for n := range groups {
		lengths = append(lengths, n)
	}
	sort.Ints(lengths)

	var patterns []Pattern
	seen := make(map[string]int)

	for _, n := range lengths {
		group := groups[n]
		if len(group) < 2 || n > MaxGroupTokens {
			continue
		}

		for i := range group {
			head := group[i]
			if consumed[head.index] {
				continue
			}

			members := []member{head}
			for _, other := range group[i+1:] {
				if consumed[other.index] {
					continue
				}
				k := commonPrefix(head.tokens, other.tokens, len(head.tokens))
				if k >= minCommon && k < len(head.tokens) {
					members = append(members, other)
				}
			}
			if len(members) < 2 {
				continue
			}

			shared := len(head.tokens)
			for _, m := range members[1:] {
				if k := commonPrefix(head.tokens, m.tokens, shared); k < shared {
					shared = k
				}
			}
			if shared < minCommon {
				continue
			}

			p := Pattern{Prefix: append([]string(nil), head.tokens[:shared]...)}
			for _, m := range members {
				consumed[m.index] = true
				p.Score += m.score
				p.addVariation(strings.TrimSpace(strings.Join(m.tokens[shared:], " ")))
			}
			if len(p.Variations) < 2 {
				continue
			}

			key := p.String()
			if at, ok := seen[key]; ok {
				patterns[at].Score += p.Score
				continue
			}
			seen[key] = len(patterns)
			patterns = append(patterns, p)
		}
	}
	return patterns
}

// commonPrefix counts equal leading tokens, up to limit.
func commonPrefix(a, b []string, limit int) int {
	k := 0
	for k < limit && k < len(a) && k < len(b) && a[k] == b[k] {
		k++
	}
	return k
}

// MergeRelated folds together patterns where one prefix ends with the other
// (token-wise). The merged pattern keeps the shorter prefix, the union of the
// endings in first-seen order and the sum of the scores. Shorter prefixes are
// visited first; the input slice is not modified.
func MergeRelated(patterns []Pattern) []Pattern {
	ordered := make([]Pattern, len(patterns))
	copy(ordered, patterns)
	sort.SliceStable(ordered, func(i, j int) bool {
		return len(ordered[i].Prefix) < len(ordered[j].Prefix)
	})

	used := make([]bool, len(ordered))
	var out []Pattern
	seen := make(map[string]int)

	for i, base := range ordered {
		if used[i] {
			continue
		}
		used[i] = true

		merged := Pattern{Prefix: base.Prefix, Score: base.Score}
		for _, v := range base.Variations {
			merged.addVariation(v)
		}

		for j, other := range ordered {
			if used[j] {
				continue
			}
			if !hasTokenSuffix(other.Prefix, base.Prefix) && !hasTokenSuffix(base.Prefix, other.Prefix) {
				continue
			}
			if len(other.Prefix) < len(merged.Prefix) {
				merged.Prefix = other.Prefix
			}
			for _, v := range other.Variations {
				merged.addVariation(v)
			}
			merged.Score += other.Score
			used[j] = true
		}

		merged.Prefix = append([]string(nil), merged.Prefix...)
		key := merged.String()
		if at, ok := seen[key]; ok {
			out[at].Score += merged.Score
			continue
		}
		seen[key] = len(out)
		out = append(out, merged)
	}
	return out
}
