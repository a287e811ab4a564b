// Package tokenize holds the word tokenizer shared by lexical retrieval, the
// summarizer, TF-IDF and the TUI highlighter.
package tokenize

import (
	"regexp"
	"strings"
)

var wordRe = regexp.MustCompile(`[\p{L}\p{N}]+`)

// Words returns the lowercase alphanumeric runs of s in order.
func Words(s string) []string {
	return wordRe.FindAllString(strings.ToLower(s), -1)
}

// Set returns the distinct lowercase words of s.
func Set(s string) map[string]struct{} {
	tokens := Words(s)
	m := make(map[string]struct{}, len(tokens))
	for _, t := range tokens {
		m[t] = struct{}{}
	}
	return m
}

// Fields splits s on whitespace runs.
func Fields(s string) []string {
	return strings.Fields(s)
}

// Normalize collapses whitespace runs to single spaces and trims.
func Normalize(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

var stopwords = func() map[string]struct{} {
	words := []string{
		"a", "an", "the", "and", "or", "but", "if", "then", "else", "for", "to", "of", "in", "on", "at", "by", "with", "as", "is", "are", "was", "were", "be", "been", "being", "it", "this", "that", "these", "those", "from", "so", "such", "into", "about", "than", "can", "will", "just", "should", "now",
		"el", "la", "los", "las", "un", "una", "unos", "unas", "y", "o", "de", "del", "en", "que", "por", "para", "con", "se", "su", "sus", "al", "es", "son", "lo", "como", "más", "pero",
	}
	m := make(map[string]struct{}, len(words))
	for _, w := range words {
		m[w] = struct{}{}
	}
	return m
}()

// IsStopword reports whether w is a common English or Spanish function word.
// w must already be lowercase.
func IsStopword(w string) bool {
	_, ok := stopwords[w]
	return ok
}
