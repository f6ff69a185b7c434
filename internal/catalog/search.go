package catalog

import (
	"errors"
	"regexp"
	"strings"
)

var ErrInvalidSearchTerm = errors.New("invalid search term")

// Apostrophes stay legal so names like O'Neal can be searched.
var suspiciousPattern = regexp.MustCompile(`(?i)[";]|--|/\*|\*/|\bUNION\b|\bSELECT\b|\bINSERT\b|\bUPDATE\b|\bDELETE\b|\bDROP\b|\bEXEC\b|\bOR\s+\d+=\d+|\bAND\s+\d+=\d+|'\s*OR\s|'\s*AND\s`)

var allowedPattern = regexp.MustCompile(`^[a-zA-Z0-9\s\-.']+$`)

const maxSearchTermLength = 100

// ValidateSearchTerm trims term and rejects anything that is not a plausible player name.
func ValidateSearchTerm(term string) (string, error) {
	if term == "" || len(term) > maxSearchTermLength {
		return "", ErrInvalidSearchTerm
	}
	if suspiciousPattern.MatchString(term) {
		return "", ErrInvalidSearchTerm
	}
	trimmed := strings.TrimSpace(term)
	if trimmed == "" || !allowedPattern.MatchString(trimmed) {
		return "", ErrInvalidSearchTerm
	}
	return trimmed, nil
}
