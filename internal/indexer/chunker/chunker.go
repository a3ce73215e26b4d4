// Package chunker slices sanitized text into the bounded, ordered chunks a
// single phrase-extraction call accepts.
package chunker

import (
	"github.com/Adithya-Monish-Kumar-K/eddy/internal/indexer/sanitizer"
)

const (
	// DefaultMaxChars keeps each chunk well inside the service's 5k-byte
	// per-text limit.
	DefaultMaxChars = 2500
	// DefaultMaxChunks is the service's per-batch text count limit.
	DefaultMaxChunks = 25
)

// Chunker splits text on rune boundaries. The zero value is not usable; build
// one with New.
type Chunker struct {
	maxChars  int
	maxChunks int
}

// Result is the outcome of Chunks.
type Result struct {
	Chunks []string
	// Truncated is set when the text was longer than MaxChars*MaxChunks runes
	// and the tail was discarded.
	Truncated bool
}

// New returns a Chunker emitting at most maxChunks chunks of at most maxChars
// runes each. Non-positive limits fall back to the defaults.
func New(maxChars, maxChunks int) *Chunker {
	if maxChars <= 0 {
		maxChars = DefaultMaxChars
	}
	if maxChunks <= 0 {
		maxChunks = DefaultMaxChunks
	}
	return &Chunker{maxChars: maxChars, maxChunks: maxChunks}
}

// MaxChars is the per-chunk rune cap.
func (c *Chunker) MaxChars() int { return c.maxChars }

// MaxChunks is the cap on chunks per document.
func (c *Chunker) MaxChunks() int { return c.maxChunks }

// Split cuts text into consecutive slices of at most MaxChars runes, keeping
// at most MaxChunks of them. Joining the slices yields text truncated to
// MaxChars*MaxChunks runes.
func (c *Chunker) Split(text string) []string {
	chunks, _ := c.split(text)
	return chunks
}

func (c *Chunker) split(text string) ([]string, bool) {
	runes := []rune(text)
	n := (len(runes) + c.maxChars - 1) / c.maxChars
	truncated := n > c.maxChunks
	if truncated {
		n = c.maxChunks
	}
	chunks := make([]string, 0, n)
	for i := 0; i < n; i++ {
		start := i * c.maxChars
		end := min(start+c.maxChars, len(runes))
		chunks = append(chunks, string(runes[start:end]))
	}
	return chunks, truncated
}

// Chunks splits text and re-sanitizes every chunk so a cut in the middle of a
// line cannot leave stray whitespace at a chunk edge. Chunks that sanitize to
// nothing are dropped.
func (c *Chunker) Chunks(text string) Result {
	raw, truncated := c.split(text)
	res := Result{Chunks: make([]string, 0, len(raw)), Truncated: truncated}
	for _, chunk := range raw {
		if s := sanitizer.Sanitize(chunk); s != "" {
			res.Chunks = append(res.Chunks, s)
		}
	}
	return res
}
