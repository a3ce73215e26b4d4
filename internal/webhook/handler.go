package webhook

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/Adithya-Monish-Kumar-K/eddy/internal/indexer/sanitizer"
	apperrors "github.com/Adithya-Monish-Kumar-K/eddy/pkg/errors"
)

// Lookuper resolves a keyword to the documents indexed under it.
type Lookuper interface {
	Lookup(ctx context.Context, keyword string) ([]string, error)
}

type Handler struct {
	secret string
	lookup Lookuper
	logger *slog.Logger
}

func NewHandler(signingSecret string, lookup Lookuper) *Handler {
	return &Handler{
		secret: signingSecret,
		lookup: lookup,
		logger: slog.Default().With("component", "webhook"),
	}
}

type mentionResponse struct {
	Success   bool     `json:"success"`
	Documents []string `json:"documents"`
}

// ServeHTTP handles POST /slack/events.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	body, err := Authenticate(r, h.secret)
	if err != nil {
		h.logger.Warn("rejected webhook request", "error", err)
		writeError(w, apperrors.HTTPStatusCode(err), err.Error())
		return
	}

	var env Envelope
	if err := json.Unmarshal(body, &env); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	switch {
	case env.Type == WrapperURLVerification:
		writeJSON(w, http.StatusOK, map[string]string{"challenge": env.Challenge})
	case env.Event.Type == EventAppMention:
		docs, err := h.resolve(r.Context(), env.Event.Text)
		if err != nil {
			h.logger.Error("keyword lookup failed", "error", err)
			writeError(w, apperrors.HTTPStatusCode(err), "keyword lookup failed")
			return
		}
		h.logger.Info("app mention answered", "document_count", len(docs))
		writeJSON(w, http.StatusOK, mentionResponse{Success: true, Documents: docs})
	default:
		writeJSON(w, http.StatusOK, struct{}{})
	}
}

// resolve looks up the whole sanitized mention and then each of its words,
// returning distinct documents in first-seen order.
func (h *Handler) resolve(ctx context.Context, text string) ([]string, error) {
	clean := sanitizer.Sanitize(text)
	docs := make([]string, 0)
	if clean == "" {
		return docs, nil
	}

	terms := []string{clean}
	for _, word := range strings.Fields(clean) {
		word = strings.TrimRightFunc(word, sanitizer.IsSentenceMark)
		if word != "" && word != clean {
			terms = append(terms, word)
		}
	}

	seen := make(map[string]struct{})
	var errs []error
	for _, term := range terms {
		found, err := h.lookup.Lookup(ctx, term)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		for _, d := range found {
			if _, ok := seen[d]; ok {
				continue
			}
			seen[d] = struct{}{}
			docs = append(docs, d)
		}
	}
	if len(errs) == len(terms) {
		return nil, errors.Join(errs...)
	}
	return docs, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
