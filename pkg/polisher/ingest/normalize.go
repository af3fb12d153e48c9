package ingest

import (
	"regexp"
	"strings"

	"golang.org/x/net/html"
)

var (
	codeFenceRE   = regexp.MustCompile("(?:```|~~~)\\w*\\s*[\\s\\S]*?(?:```|~~~)")
	openTagRE     = regexp.MustCompile(`<([A-Za-z][\w:-]*)(\s[^>]*)?>`)
	selfClosingRE = regexp.MustCompile(`<[^>]+/>`)
	anyTagRE      = regexp.MustCompile(`<[^>]*>`)
	emphasisRE    = regexp.MustCompile("[*_~`]+(.+?)[*_~`]+")
	quotedRE      = regexp.MustCompile(`"(.*?)"`)
	parenRE       = regexp.MustCompile(`\((.*?)\)`)
	whitespaceRE  = regexp.MustCompile(`\s+`)

	smartQuotes = strings.NewReplacer("“", `"`, "”", `"`, "‘", "'", "’", "'")
)

// StripMarkup reduces generated text to plain prose. Order matters:
//  1. fenced code blocks go first so their contents never reach the tag rules
//  2. paired tags are removed with their content, then self-closing tags, then
//     any tag left over; remaining character entities are decoded
//  3. markdown emphasis markers are dropped, keeping the inner text
//  4. quoted and parenthesized spans are unwrapped so their words still count
//  5. whitespace is collapsed
func StripMarkup(text string) string {
	if text == "" {
		return ""
	}

	clean := smartQuotes.Replace(text)
	clean = codeFenceRE.ReplaceAllString(clean, " ")

	clean = removePairedTags(clean)
	clean = selfClosingRE.ReplaceAllString(clean, " ")
	clean = anyTagRE.ReplaceAllString(clean, " ")
	clean = html.UnescapeString(clean)

	clean = emphasisRE.ReplaceAllString(clean, "$1")
	clean = quotedRE.ReplaceAllString(clean, " $1 ")
	clean = parenRE.ReplaceAllString(clean, " $1 ")

	clean = whitespaceRE.ReplaceAllString(clean, " ")
	return strings.TrimSpace(clean)
}

// removePairedTags drops <tag ...>content</tag> spans, matching the first
// closing tag with the same name. Opening tags without a partner are left for
// the straggler rule.
func removePairedTags(s string) string {
	var b strings.Builder
	b.Grow(len(s))

	for {
		loc := openTagRE.FindStringSubmatchIndex(s)
		if loc == nil {
			b.WriteString(s)
			break
		}
		if s[loc[1]-2] == '/' {
			// self-closing, not a pair
			b.WriteString(s[:loc[1]])
			s = s[loc[1]:]
			continue
		}

		closing := "</" + s[loc[2]:loc[3]] + ">"
		end := indexFold(s[loc[1]:], closing)
		if end < 0 {
			b.WriteString(s[:loc[1]])
			s = s[loc[1]:]
			continue
		}

		b.WriteString(s[:loc[0]])
		b.WriteByte(' ')
		s = s[loc[1]+end+len(closing):]
	}

	return b.String()
}

// indexFold is strings.Index with ASCII case folding.
func indexFold(s, substr string) int {
	n := len(substr)
	for i := 0; i+n <= len(s); i++ {
		if strings.EqualFold(s[i:i+n], substr) {
			return i
		}
	}
	return -1
}
