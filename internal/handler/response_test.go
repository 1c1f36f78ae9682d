package handler

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"cloudriddle/internal/blob"
	"cloudriddle/internal/service"
	"cloudriddle/internal/service/session"
)

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err      error
		expected int
	}{
		{fmt.Errorf("fetch: %w", blob.ErrNotFound), http.StatusNotFound},
		{fmt.Errorf("decode: %w", blob.ErrDecode), http.StatusUnprocessableEntity},
		{blob.ErrStoreUnavailable, http.StatusBadGateway},
		{blob.ErrInference, http.StatusBadGateway},
		{blob.ErrUnknownPrefix, http.StatusBadRequest},
		{service.ErrInvalidIndex, http.StatusBadRequest},
		{session.ErrInvalidTransition, http.StatusConflict},
		{session.ErrAnalysisPending, http.StatusConflict},
		{service.ErrHistoryDisabled, http.StatusServiceUnavailable},
		{assert.AnError, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, statusFor(tt.err), tt.err.Error())
	}
}

func TestAtoiDefault(t *testing.T) {
	tests := []struct {
		input    string
		def      int
		expected int
	}{
		{"10", 5, 10},
		{"", 5, 5},
		{"abc", 10, 10},
		{"-1", 5, 5},
		{"0", 5, 5},
		{"12.5", 5, 5},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, atoiDefault(tt.input, tt.def), "atoiDefault(%q, %d)", tt.input, tt.def)
	}
}

func TestParseDate(t *testing.T) {
	assert.True(t, parseDate("").IsZero())
	assert.True(t, parseDate("15-01-2024").IsZero())
	assert.Equal(t, 2024, parseDate("2024-01-15").Year())
}
