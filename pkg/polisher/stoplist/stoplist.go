package stoplist

import (
	"bufio"
	_ "embed"
	"sort"
	"strings"
	"sync"
)

// MinTokens is the shortest window the filter accepts.
const MinTokens = 3

//go:embed data/common_words.txt
var commonWordsData string

//go:embed data/names.txt
var namesData string

var (
	loadOnce    sync.Once
	commonWords map[string]struct{}
	nameWords   map[string]struct{}
)

func loadDefaults() {
	loadOnce.Do(func() {
		commonWords = parseWordList(commonWordsData)
		nameWords = parseWordList(namesData)
		// Names that double as function words ("he", "will", "can") would veto
		// nearly every English phrase.
		for w := range commonWords {
			delete(nameWords, w)
		}
	})
}

// Reason explains why a window was rejected.
type Reason int

const (
	Accepted Reason = iota
	TooShort
	Whitelisted // contains a user-whitelisted token or a known name
	AllCommon
)

func (r Reason) String() string {
	switch r {
	case Accepted:
		return "accepted"
	case TooShort:
		return "too_short"
	case Whitelisted:
		return "whitelisted"
	case AllCommon:
		return "all_common"
	default:
		return "unknown"
	}
}

// Filter decides which n-gram windows are worth scoring.
type Filter struct {
	common    map[string]struct{}
	names     map[string]struct{}
	whitelist map[string]struct{}
}

// NewFilter creates a filter over the built-in common-word and name lists plus
// the user whitelist.
func NewFilter(whitelist []string) *Filter {
	loadDefaults()
	f := &Filter{
		common:    commonWords,
		names:     nameWords,
		whitelist: make(map[string]struct{}, len(whitelist)),
	}
	for _, w := range whitelist {
		f.AddWhitelist(w)
	}
	return f
}

// Check classifies a literal window.
func (f *Filter) Check(tokens []string) Reason {
	if len(tokens) < MinTokens {
		return TooShort
	}

	allCommon := true
	for _, tok := range tokens {
		tok = strings.ToLower(tok)
		if f.IsExcluded(tok) {
			return Whitelisted
		}
		if !f.IsCommon(tok) {
			allCommon = false
		}
	}
	if allCommon {
		return AllCommon
	}
	return Accepted
}

// Reject reports whether the window must not be scored.
func (f *Filter) Reject(tokens []string) bool {
	return f.Check(tokens) != Accepted
}

// IsCommon checks the common-word list. Names and the whitelist are not
// consulted.
func (f *Filter) IsCommon(token string) bool {
	_, ok := f.common[strings.ToLower(token)]
	return ok
}

// IsExcluded reports whether token is whitelisted or a known name.
func (f *Filter) IsExcluded(token string) bool {
	token = strings.ToLower(token)
	if _, ok := f.whitelist[token]; ok {
		return true
	}
	_, ok := f.names[token]
	return ok
}

// UncommonCount counts tokens that are not in the common-word list.
func (f *Filter) UncommonCount(tokens []string) int {
	n := 0
	for _, tok := range tokens {
		if !f.IsCommon(tok) {
			n++
		}
	}
	return n
}

// AddWhitelist adds a word to the user whitelist.
func (f *Filter) AddWhitelist(word string) {
	word = strings.ToLower(strings.TrimSpace(word))
	if word == "" {
		return
	}
	f.whitelist[word] = struct{}{}
}

// Whitelist returns the user whitelist, sorted.
func (f *Filter) Whitelist() []string {
	return sortedKeys(f.whitelist)
}

// CommonWords returns the built-in common-word list, sorted.
func CommonWords() []string {
	loadDefaults()
	return sortedKeys(commonWords)
}

// Names returns the built-in name list, sorted.
func Names() []string {
	loadDefaults()
	return sortedKeys(nameWords)
}

func parseWordList(data string) map[string]struct{} {
	set := make(map[string]struct{})
	sc := bufio.NewScanner(strings.NewReader(data))
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		set[strings.ToLower(line)] = struct{}{}
	}
	return set
}

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
