package mining

import (
	"sort"
	"strings"
	"unicode/utf8"
)

// CullLimit bounds the pairwise substring scan.
const CullLimit = 500

// Substring culling thresholds.
const (
	similarScore = 0.2 // relative score difference below which two phrases are redundant
	heavyOverlap = 0.7 // share of the longer phrase covered by the shorter one
)

// CullSubstrings removes phrases made redundant by another phrase they are
// contained in (or that they contain).
//
// Phrases equal after lowercasing and trimming collapse into the higher-scored
// one. Then, scanning the 500 longest phrases longest first, for each pair
// where the shorter is a substring of the longer, the lower-scored of the two
// is dropped when their scores are within 20% of each other or the shorter
// covers more than 70% of the longer. Ties keep the longer phrase.
//
// The input map is not modified.
func CullSubstrings(scores map[string]float64) map[string]float64 {
	keep := dedupe(scores)

	phrases := make([]string, 0, len(keep))
	for p := range keep {
		phrases = append(phrases, p)
	}
	sort.Slice(phrases, func(i, j int) bool {
		li, lj := utf8.RuneCountInString(phrases[i]), utf8.RuneCountInString(phrases[j])
		if li != lj {
			return li > lj
		}
		return phrases[i] < phrases[j]
	})
	if len(phrases) > CullLimit {
		phrases = phrases[:CullLimit]
	}

	removed := make(map[string]bool)
	for i, longer := range phrases {
		if removed[longer] {
			continue
		}
		longerLen := utf8.RuneCountInString(longer)
		longerScore := keep[longer]

		for _, shorter := range phrases[i+1:] {
			if removed[shorter] {
				continue
			}
			shorterLen := utf8.RuneCountInString(shorter)
			if shorterLen >= longerLen || !strings.Contains(longer, shorter) {
				continue
			}

			shorterScore := keep[shorter]
			diff := scoreDiff(longerScore, shorterScore)
			overlap := float64(shorterLen) / float64(longerLen)
			if diff >= similarScore && overlap <= heavyOverlap {
				continue
			}
			if longerScore >= shorterScore {
				removed[shorter] = true
			} else {
				removed[longer] = true
				break
			}
		}
	}

	for p := range removed {
		delete(keep, p)
	}
	return keep
}

// dedupe collapses phrases that only differ in case or surrounding space,
// visiting them in sorted order so ties resolve the same way every time.
func dedupe(scores map[string]float64) map[string]float64 {
	phrases := make([]string, 0, len(scores))
	for p := range scores {
		phrases = append(phrases, p)
	}
	sort.Strings(phrases)

	type entry struct {
		phrase string
		score  float64
	}
	byNorm := make(map[string]entry, len(phrases))
	for _, p := range phrases {
		norm := strings.ToLower(strings.TrimSpace(p))
		if cur, ok := byNorm[norm]; ok && scores[p] <= cur.score {
			continue
		}
		byNorm[norm] = entry{phrase: p, score: scores[p]}
	}

	out := make(map[string]float64, len(byNorm))
	for _, e := range byNorm {
		out[e.phrase] = e.score
	}
	return out
}

func scoreDiff(a, b float64) float64 {
	hi := a
	if b > hi {
		hi = b
	}
	if hi == 0 {
		return 0
	}
	d := a - b
	if d < 0 {
		d = -d
	}
	return d / hi
}
