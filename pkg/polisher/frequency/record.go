package frequency

// Record is the running tally for one lemmatized n-gram.
type Record struct {
	Key      string  // space-joined lemmas
	Count    int     // occurrences
	Score    float64 // weighted, decayed score
	LastSeen int     // ordinal of the last message that touched the record

	// Original and Context hold the literal phrase and sentence of the most
	// recent occurrence, for display.
	Original string
	Context  string

	// DecayedCycles counts decay cycles already charged since LastSeen.
	DecayedCycles int
}

// RawEntry is the unprocessed leaderboard view of a record.
type RawEntry struct {
	Phrase string  `json:"phrase"`
	Score  float64 `json:"score"`
}
