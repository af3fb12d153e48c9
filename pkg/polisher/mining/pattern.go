package mining

import (
	"fmt"
	"strings"

	"github.com/leandrojofre/prosepolisher/pkg/polisher/internalerr"
)

// Delimiters of the encoded pattern form "prefix|v1/v2".
const (
	prefixSep    = "|"
	variationSep = "/"
)

// Pattern is a shared token prefix with interchangeable endings.
type Pattern struct {
	Prefix     []string
	Variations []string // insertion order, no duplicates
	Score      float64
}

// Template is the prefix as text.
func (p Pattern) Template() string {
	return strings.Join(p.Prefix, " ")
}

// String renders the encoded form "prefix|v1/v2/...".
func (p Pattern) String() string {
	return p.Template() + prefixSep + strings.Join(p.Variations, variationSep)
}

// ParsePattern decodes the String form. The score is not part of the
// encoding and comes back zero.
func ParsePattern(s string) (Pattern, error) {
	prefix, rest, ok := strings.Cut(s, prefixSep)
	if !ok {
		return Pattern{}, fmt.Errorf("%w: pattern %q has no %q", internalerr.ErrInvalidInput, s, prefixSep)
	}

	p := Pattern{Prefix: strings.Fields(prefix)}
	if len(p.Prefix) == 0 {
		return Pattern{}, fmt.Errorf("%w: pattern %q has an empty prefix", internalerr.ErrInvalidInput, s)
	}
	for _, v := range strings.Split(rest, variationSep) {
		p.addVariation(strings.TrimSpace(v))
	}
	return p, nil
}

func (p *Pattern) addVariation(v string) {
	if v == "" {
		return
	}
	for _, existing := range p.Variations {
		if existing == v {
			return
		}
	}
	p.Variations = append(p.Variations, v)
}

// hasTokenSuffix reports whether suffix is a trailing token run of tokens.
func hasTokenSuffix(tokens, suffix []string) bool {
	if len(suffix) > len(tokens) {
		return false
	}
	off := len(tokens) - len(suffix)
	for i, tok := range suffix {
		if tokens[off+i] != tok {
			return false
		}
	}
	return true
}
