package ingest

// Pipeline orchestrates the online path for one message:
// text → markup stripping → sentences → tokens + lemmas
type Pipeline struct {
	tokenizer *Tokenizer
}

// NewPipeline creates an ingestion pipeline with the given tokenizer.
func NewPipeline(tokenizer *Tokenizer) *Pipeline {
	if tokenizer == nil {
		tokenizer = NewTokenizer(nil)
	}
	return &Pipeline{tokenizer: tokenizer}
}

// Sentence is one scoreable unit of a message.
type Sentence struct {
	Text   string
	Kind   Kind
	Tokens []string
	Lemmas []string
}

// ProcessedMessage represents a message after ingestion processing
type ProcessedMessage struct {
	Clean     string
	Sentences []Sentence
}

// Process runs a message through the pipeline. Empty input, or input that
// cleans down to nothing, yields a message with no sentences.
func (p *Pipeline) Process(text string) ProcessedMessage {
	clean := StripMarkup(text)
	msg := ProcessedMessage{Clean: clean}
	if clean == "" {
		return msg
	}

	for _, raw := range SplitSentences(clean) {
		tokens := p.tokenizer.Tokenize(raw)
		if len(tokens) == 0 {
			continue
		}
		msg.Sentences = append(msg.Sentences, Sentence{
			Text:   raw,
			Kind:   Classify(raw),
			Tokens: tokens,
			Lemmas: p.tokenizer.Lemmatize(tokens),
		})
	}
	return msg
}
