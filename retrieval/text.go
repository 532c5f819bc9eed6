package retrieval

import (
	"strings"
	"unicode/utf8"
)

// Stop words excluded from keyword extraction and term matching.
var stopWords = map[string]bool{
	"the": true, "a": true, "an": true, "is": true, "are": true, "was": true,
	"were": true, "be": true, "been": true, "being": true, "have": true,
	"has": true, "had": true, "do": true, "does": true, "did": true,
	"will": true, "would": true, "should": true, "could": true, "can": true,
	"may": true, "might": true, "must": true, "what": true, "when": true,
	"where": true, "why": true, "how": true, "who": true, "which": true,
	"this": true, "that": true, "these": true, "those": true, "to": true,
	"for": true, "of": true, "in": true, "on": true, "at": true, "by": true,
	"from": true, "as": true, "with": true, "about": true, "into": true,
	"through": true, "during": true, "including": true, "against": true,
	"among": true,
}

const maxKeywords = 10

// tokenize lowercases the text, splits it on whitespace, and strips
// surrounding punctuation from every word.
func tokenize(text string) []string {
	words := strings.Fields(strings.ToLower(text))
	tokens := make([]string, 0, len(words))
	for _, word := range words {
		cleaned := strings.Trim(word, ".,!?;:'\"-()[]{}`")
		if cleaned != "" {
			tokens = append(tokens, cleaned)
		}
	}
	return tokens
}

// extractKeywords returns the query's significant terms: lowercased words
// longer than two characters that are not stop words, deduplicated, capped
// at maxKeywords.
func extractKeywords(query string) []string {
	seen := make(map[string]bool)
	keywords := make([]string, 0, maxKeywords)
	for _, token := range tokenize(query) {
		if len(token) <= 2 || stopWords[token] || seen[token] {
			continue
		}
		seen[token] = true
		keywords = append(keywords, token)
		if len(keywords) == maxKeywords {
			break
		}
	}
	return keywords
}

// significantTerms returns the query words longer than three characters
// that are not stop words. These supplement the plan keywords during
// ranking so that terms the enhancer dropped still count.
func significantTerms(query string) []string {
	terms := make([]string, 0, 8)
	for _, token := range tokenize(query) {
		if len(token) > 3 && !stopWords[token] {
			terms = append(terms, token)
		}
	}
	return terms
}

// countMatches sums the occurrences of every term inside text.
// Both sides are expected to be lowercased already.
func countMatches(text string, terms []string) int {
	total := 0
	for _, term := range terms {
		total += strings.Count(text, term)
	}
	return total
}

// containsAny reports whether text contains at least one of the given
// substrings. Text is expected to be lowercased already.
func containsAny(text string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(text, sub) {
			return true
		}
	}
	return false
}

// truncateAtRune cuts text to at most limit bytes, backing up so a
// multibyte rune is never split mid-sequence.
func truncateAtRune(text string, limit int) string {
	if len(text) <= limit {
		return text
	}
	for limit > 0 && !utf8.RuneStart(text[limit]) {
		limit--
	}
	return text[:limit]
}

// dedupTerms lowercases and deduplicates terms preserving first-seen order.
func dedupTerms(lists ...[]string) []string {
	seen := make(map[string]bool)
	out := make([]string, 0, 8)
	for _, list := range lists {
		for _, term := range list {
			lower := strings.ToLower(strings.TrimSpace(term))
			if lower == "" || seen[lower] {
				continue
			}
			seen[lower] = true
			out = append(out, lower)
		}
	}
	return out
}
