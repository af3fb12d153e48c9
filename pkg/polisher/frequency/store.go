package frequency

import (
	"sort"

	"github.com/leandrojofre/prosepolisher/pkg/polisher/config"
	"github.com/leandrojofre/prosepolisher/pkg/polisher/decay"
	"github.com/leandrojofre/prosepolisher/pkg/polisher/ingest"
	"github.com/leandrojofre/prosepolisher/pkg/polisher/stoplist"
)

// Pruning floor for bulk re-analysis.
const (
	PruneMinScore = 2.0
	PruneMinCount = 2
)

// Store keeps exactly one Record per distinct lemmatized n-gram plus the set
// of keys that have ever crossed the promotion threshold. It is not safe for
// concurrent use.
type Store struct {
	records    map[string]*Record
	candidates map[string]struct{}
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		records:    make(map[string]*Record),
		candidates: make(map[string]struct{}),
	}
}

// SentenceStats summarizes one ObserveSentence call.
type SentenceStats struct {
	Windows  int
	Rejected int
	Promoted []string
}

// ObserveSentence scores every window of a sentence at message ordinal.
func (s *Store) ObserveSentence(sent ingest.Sentence, ordinal int, filter *stoplist.Filter, cfg config.Resolved) SentenceStats {
	var stats SentenceStats
	for _, w := range ingest.Windows(sent.Tokens, sent.Lemmas, config.NgramMin, cfg.NgramMax) {
		stats.Windows++
		if filter.Reject(w.Literal) {
			stats.Rejected++
			continue
		}
		inc := Increment(w, sent.Kind, filter, cfg.Blacklist)
		if s.Add(w.Key(), w.Text(), sent.Text, ordinal, inc, cfg.SlopThreshold) {
			stats.Promoted = append(stats.Promoted, w.Key())
		}
	}
	return stats
}

// Add applies one occurrence to the record for key and reports whether the
// record crossed threshold on this update.
func (s *Store) Add(key, original, context string, ordinal int, inc, threshold float64) bool {
	r, ok := s.records[key]
	if !ok {
		r = &Record{Key: key}
		s.records[key] = r
	}

	prev := r.Score
	r.Score += inc
	r.Count++
	r.LastSeen = ordinal
	r.DecayedCycles = 0
	r.Original = original
	r.Context = context

	if prev < threshold && r.Score >= threshold {
		s.candidates[key] = struct{}{}
		return true
	}
	return false
}

// Decay discounts every record by the cycles it owes at message counter
// current. It returns the number of records whose score changed.
func (s *Store) Decay(current int, cfg decay.Config) int {
	n := 0
	for _, r := range s.records {
		step := decay.Compute(current, r.LastSeen, r.DecayedCycles, cfg)
		if step.Pending == 0 {
			continue
		}
		r.Score = decay.Apply(r.Score, step)
		r.DecayedCycles = step.Cycles
		n++
	}
	return n
}

// Prune deletes records below the floor (score < 2 and count < 2) from the
// store and the candidate set. It returns how many were deleted.
func (s *Store) Prune() int {
	n := 0
	for key, r := range s.records {
		if r.Score < PruneMinScore && r.Count < PruneMinCount {
			delete(s.records, key)
			delete(s.candidates, key)
			n++
		}
	}
	return n
}

// Clear drops all records and candidates.
func (s *Store) Clear() {
	s.records = make(map[string]*Record)
	s.candidates = make(map[string]struct{})
}

// Len returns the number of records.
func (s *Store) Len() int { return len(s.records) }

// Get returns a copy of the record for key.
func (s *Store) Get(key string) (Record, bool) {
	r, ok := s.records[key]
	if !ok {
		return Record{}, false
	}
	return *r, true
}

// IsCandidate reports whether key has been promoted.
func (s *Store) IsCandidate(key string) bool {
	_, ok := s.candidates[key]
	return ok
}

// Candidates returns the promoted keys, sorted.
func (s *Store) Candidates() []string {
	out := make([]string, 0, len(s.candidates))
	for k := range s.candidates {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Records returns copies of all records sorted by key.
func (s *Store) Records() []Record {
	out := make([]Record, 0, len(s.records))
	for _, r := range s.records {
		out = append(out, *r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}

// Top returns records with score strictly above minScore, highest first
// (ties by key), at most limit of them. A non-positive limit means no cap.
func (s *Store) Top(minScore float64, limit int) []Record {
	var out []Record
	for _, r := range s.records {
		if r.Score > minScore {
			out = append(out, *r)
		}
	}
	sortByScore(out)
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// Raw returns {phrase, score} for every record with a positive score, highest
// first.
func (s *Store) Raw() []RawEntry {
	recs := s.Top(0, 0)
	out := make([]RawEntry, len(recs))
	for i, r := range recs {
		out[i] = RawEntry{Phrase: r.Original, Score: r.Score}
	}
	return out
}

// Load replaces the store contents, e.g. when restoring a checkpoint.
// Candidates without a record are kept.
func (s *Store) Load(records []Record, candidates []string) {
	s.Clear()
	for i := range records {
		r := records[i]
		s.records[r.Key] = &r
	}
	for _, k := range candidates {
		s.candidates[k] = struct{}{}
	}
}

func sortByScore(recs []Record) {
	sort.Slice(recs, func(i, j int) bool {
		if recs[i].Score != recs[j].Score {
			return recs[i].Score > recs[j].Score
		}
		return recs[i].Key < recs[j].Key
	})
}
