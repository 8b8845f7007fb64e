package utils

import (
	"regexp"
	"strings"

	"github.com/google/uuid"
)

var nonTokenChars = regexp.MustCompile(`[^A-Za-z0-9_-]`)

// NewUUID generates a new UUID
func NewUUID() uuid.UUID {
	return uuid.New()
}

// FileToken returns the first word of name reduced to characters that are
// safe in a file name, or fallback when nothing usable is left.
// "Jane Doe" -> "Jane", "../etc" -> "etc".
func FileToken(name, fallback string) string {
	fields := strings.Fields(name)
	if len(fields) == 0 {
		return fallback
	}
	token := nonTokenChars.ReplaceAllString(fields[0], "")
	if token == "" {
		return fallback
	}
	return token
}
