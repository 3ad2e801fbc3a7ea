// Package security validates user-supplied search text before it reaches a LIKE clause.
package security

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	apperrors "desktop-core-service/pkg/errors"
)

// MaxSearchQueryLength is the maximum number of characters in a search query.
const MaxSearchQueryLength = 100

// LikeEscape is the escape character used by SanitizeSearchString.
const LikeEscape = `\`

// suspiciousKeywords rejects queries that read like SQL or markup even when
// every character is individually allowed.
var suspiciousKeywords = regexp.MustCompile(`(?i)\b(union|select|insert|update|delete|drop|alter|exec|sleep|script)\b`)

// ValidateSearchQuery trims and checks a search query. The returned error is a
// *errors.ValidationError on field "query".
func ValidateSearchQuery(query string) (string, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return "", nil
	}

	if utf8.RuneCountInString(query) > MaxSearchQueryLength {
		return "", apperrors.NewValidationError("query", "search query too long")
	}

	for _, char := range query {
		if !isValidSearchChar(char) {
			return "", apperrors.NewValidationError("query", "search query contains invalid characters")
		}
	}

	if suspiciousKeywords.MatchString(query) {
		return "", apperrors.NewValidationError("query", "search query contains invalid characters")
	}

	return query, nil
}

// isValidSearchChar allows letters, digits, spaces and the punctuation found in names and emails.
func isValidSearchChar(char rune) bool {
	if unicode.IsLetter(char) || unicode.IsDigit(char) {
		return true
	}
	switch char {
	case ' ', '-', '_', '.', '@', '+', '\'':
		return true
	}
	return false
}

// SanitizeSearchString escapes LIKE wildcards so the query matches literally.
// Use it with `LIKE ? ESCAPE '\'`.
func SanitizeSearchString(query string) string {
	if query == "" {
		return ""
	}
	query = strings.ReplaceAll(query, LikeEscape, LikeEscape+LikeEscape)
	query = strings.ReplaceAll(query, "%", LikeEscape+"%")
	query = strings.ReplaceAll(query, "_", LikeEscape+"_")
	return query
}
