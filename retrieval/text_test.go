package retrieval

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractKeywords(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  []string
	}{
		{"drops stop words", "what is the webhook for payments", []string{"webhook", "payments"}},
		{"drops short words", "go to an api", []string{"api"}},
		{"strips punctuation", "How do I charge a customer?", []string{"charge", "customer"}},
		{"deduplicates", "webhook webhook webhook", []string{"webhook"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, extractKeywords(tt.query))
		})
	}
}

func TestExtractKeywordsCap(t *testing.T) {
	query := "alpha bravo charlie delta echo foxtrot golf hotel india juliet kilo lima"
	assert.Len(t, extractKeywords(query), maxKeywords)
}

func TestSignificantTerms(t *testing.T) {
	// Only words longer than three characters count.
	assert.Equal(t, []string{"webhook", "signature"},
		significantTerms("how is the webhook signature set"))
}

func TestCountMatches(t *testing.T) {
	text := "the webhook fires and the webhook retries"
	assert.Equal(t, 3, countMatches(text, []string{"webhook", "retries"}))
	assert.Equal(t, 0, countMatches(text, []string{"payment"}))
	assert.Equal(t, 0, countMatches(text, nil))
}

func TestTruncateAtRune(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		limit int
		want  string
	}{
		{"shorter than limit", "abc", 10, "abc"},
		{"exact limit", "abcd", 4, "abcd"},
		{"ascii cut", "abcdef", 4, "abcd"},
		{"backs off mid-rune", "abécd", 3, "ab"},
		{"boundary after rune", "abécd", 4, "abé"},
		{"zero limit", "é", 0, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, truncateAtRune(tt.text, tt.limit))
		})
	}
}

func TestDedupTerms(t *testing.T) {
	got := dedupTerms([]string{"Webhook", "  signature "}, []string{"webhook", "retries"})
	assert.Equal(t, []string{"webhook", "signature", "retries"}, got)
}
