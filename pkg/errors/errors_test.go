package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindAndStatus(t *testing.T) {
	tests := []struct {
		err    error
		kind   string
		status int
	}{
		{fmt.Errorf("doc a.md: %w", ErrExtraction), "extraction", http.StatusBadGateway},
		{fmt.Errorf("persist: %w", ErrStore), "store", http.StatusBadGateway},
		{ErrEncoding, "encoding", http.StatusBadRequest},
		{New(ErrInvalidInput, http.StatusUnprocessableEntity, "duplicate path"), "invalid_input", http.StatusUnprocessableEntity},
		{ErrUnauthorized, "unauthorized", http.StatusUnauthorized},
		{errors.New("boom"), "internal", http.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.kind, Kind(tt.err), tt.err.Error())
		assert.Equal(t, tt.status, HTTPStatusCode(tt.err), tt.err.Error())
	}
	assert.Empty(t, Kind(nil))
}

func TestAppErrorMessage(t *testing.T) {
	err := Newf(ErrExtraction, http.StatusBadGateway, "%d chunks rejected", 2)
	assert.Equal(t, "keyword extraction failed: 2 chunks rejected", err.Error())
	assert.ErrorIs(t, err, ErrExtraction)
}
