// Package keymap holds the forward (document -> keywords) and reverse
// (keyword -> documents) maps of an index run.
package keymap

import (
	"fmt"
	"net/http"

	apperrors "github.com/Adithya-Monish-Kumar-K/eddy/pkg/errors"
)

type (
	Keyword  = string
	Keywords = []Keyword
	DocPath  = string
	DocPaths = []DocPath
)

// Entry is one document's extraction result.
type Entry struct {
	Path     DocPath
	Keywords Keywords
}

// ForwardMap lists documents in processing order. Paths are unique.
type ForwardMap []Entry

// ReverseMap maps each keyword to the documents it was extracted from. A
// document appears once per occurrence of the keyword in its list.
type ReverseMap map[Keyword]DocPaths

// Appends returns the total number of list appends the map represents.
func (r ReverseMap) Appends() int {
	n := 0
	for _, docs := range r {
		n += len(docs)
	}
	return n
}

// Invert derives the reverse map. Documents are visited in forward-map order,
// so each keyword's list follows processing order and keeps duplicates.
func Invert(forward ForwardMap) ReverseMap {
	reverse := make(ReverseMap)
	for _, entry := range forward {
		for _, kw := range entry.Keywords {
			reverse[kw] = append(reverse[kw], entry.Path)
		}
	}
	return reverse
}

type state int

const (
	stateOpen state = iota
	stateInverted
	stateDiscarded
)

// Builder accumulates one entry per document and inverts them exactly once.
// It is not safe for concurrent use; callers funnel results through a single
// writer.
type Builder struct {
	entries ForwardMap
	seen    map[DocPath]struct{}
	state   state
}

// NewBuilder returns an empty, open Builder.
func NewBuilder() *Builder {
	return &Builder{seen: make(map[DocPath]struct{})}
}

// Add records a document's keywords. Empty keyword lists are recorded too.
func (b *Builder) Add(path DocPath, keywords Keywords) error {
	if err := b.checkOpen(); err != nil {
		return err
	}
	if _, dup := b.seen[path]; dup {
		return apperrors.Newf(apperrors.ErrInvalidInput, http.StatusBadRequest, "document %q added twice", path)
	}
	if keywords == nil {
		keywords = Keywords{}
	}
	b.seen[path] = struct{}{}
	b.entries = append(b.entries, Entry{Path: path, Keywords: keywords})
	return nil
}

// Len returns the number of documents recorded so far.
func (b *Builder) Len() int {
	return len(b.entries)
}

// Forward returns the accumulated entries. The slice must not be modified.
func (b *Builder) Forward() ForwardMap {
	return b.entries
}

// Discard drops all entries and closes the builder.
func (b *Builder) Discard() {
	b.entries = nil
	b.seen = nil
	b.state = stateDiscarded
}

// Invert closes the builder and returns the reverse map of everything added.
func (b *Builder) Invert() (ReverseMap, error) {
	if err := b.checkOpen(); err != nil {
		return nil, err
	}
	b.state = stateInverted
	return Invert(b.entries), nil
}

func (b *Builder) checkOpen() error {
	switch b.state {
	case stateInverted:
		return fmt.Errorf("keyword map already inverted: %w", apperrors.ErrInternal)
	case stateDiscarded:
		return fmt.Errorf("keyword map discarded: %w", apperrors.ErrInternal)
	}
	return nil
}
