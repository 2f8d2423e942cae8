package guidecrawl

import "strings"

// DefaultMinContentLength is the shortest text the relevance filter accepts.
const DefaultMinContentLength = 50

// DefaultInstructionalPhrases mark text as how-to content. The list was
// tuned against the built-in platforms and is not exhaustive.
var DefaultInstructionalPhrases = []string{
	"how to", "steps to", "set up", "setup", "configure", "tutorial",
	"walkthrough", "best practices", "implementation", "integrate",
	"integration", "guide", "instructions",
}

// Relevance decides whether extracted text is instructional content.
// The zero value uses the defaults.
type Relevance struct {
	MinLength int
	Phrases   []string
}

// DefaultRelevance returns the relevance filter used by the crawler.
func DefaultRelevance() Relevance {
	return Relevance{
		MinLength: DefaultMinContentLength,
		Phrases:   DefaultInstructionalPhrases,
	}
}

// Relevant reports whether text is long enough and contains at least one
// instructional phrase, case-insensitively. It is a pure function of text.
func (r Relevance) Relevant(text string) bool {
	minLength := r.MinLength
	if minLength <= 0 {
		minLength = DefaultMinContentLength
	}
	phrases := r.Phrases
	if len(phrases) == 0 {
		phrases = DefaultInstructionalPhrases
	}

	if len([]rune(text)) < minLength {
		return false
	}
	lower := strings.ToLower(text)
	for _, phrase := range phrases {
		if strings.Contains(lower, phrase) {
			return true
		}
	}
	return false
}
