package models

import "strings"

// keySeparator joins the normalized word and language in a cache key.
const keySeparator = "|"

// Query is a (word, language) lookup as submitted by the user.
type Query struct {
	Word     string `json:"word" validate:"required"`
	Language string `json:"language" validate:"required"`
}

// NewQuery builds a Query with surrounding whitespace removed.
// Case is preserved so the model sees what the user typed.
func NewQuery(word, language string) Query {
	return Query{
		Word:     strings.TrimSpace(word),
		Language: strings.TrimSpace(language),
	}
}

// Key returns the normalized cache key.
// Two queries are equal when their keys are equal.
func (q Query) Key() string {
	return CacheKey(q.Word, q.Language)
}

// Empty reports whether the word is blank.
func (q Query) Empty() bool {
	return strings.TrimSpace(q.Word) == ""
}

// CacheKey normalizes word and language: trimmed, lowercased, joined by "|".
func CacheKey(word, language string) string {
	return normalize(word) + keySeparator + normalize(language)
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
