// Package source yields the (path, text) pairs an index run consumes.
package source

import (
	"fmt"
	"io/fs"
	"iter"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	apperrors "github.com/Adithya-Monish-Kumar-K/eddy/pkg/errors"
)

// Document is one unit of indexing input.
type Document struct {
	Path string
	Text string
}

// Slice yields docs in order.
func Slice(docs ...Document) iter.Seq2[Document, error] {
	return func(yield func(Document, error) bool) {
		for _, d := range docs {
			if !yield(d, nil) {
				return
			}
		}
	}
}

// Dir walks root in lexical order and yields every regular file whose
// extension is in exts (case-insensitive; empty exts means every file). Paths
// are slash-separated and relative to root. A walk or read failure is yielded
// as an error and ends the sequence.
func Dir(root string, exts []string) iter.Seq2[Document, error] {
	return func(yield func(Document, error) bool) {
		stopped := false
		err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() || !d.Type().IsRegular() || !matches(d.Name(), exts) {
				return nil
			}
			doc, err := readDocument(root, path)
			if err != nil {
				return err
			}
			if !yield(doc, nil) {
				stopped = true
				return filepath.SkipAll
			}
			return nil
		})
		if err != nil && !stopped {
			yield(Document{}, fmt.Errorf("walking %s: %w", root, err))
		}
	}
}

func readDocument(root, path string) (Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Document{}, fmt.Errorf("reading %s: %w", path, err)
	}
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return Document{}, fmt.Errorf("relativising %s: %w", path, err)
	}
	rel = filepath.ToSlash(rel)
	if !utf8.Valid(data) {
		return Document{}, apperrors.Newf(apperrors.ErrEncoding, http.StatusBadRequest, "%s is not valid UTF-8", rel)
	}
	return Document{Path: rel, Text: string(data)}, nil
}

func matches(name string, exts []string) bool {
	if len(exts) == 0 {
		return true
	}
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range exts {
		if strings.ToLower(e) == ext {
			return true
		}
	}
	return false
}
