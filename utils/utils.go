package utils

import "strings"

// ToPtr returns a pointer to the given value
func ToPtr[T any](v T) *T {
	return &v
}

// IsTrue reports whether a nullable bool is set and true
func IsTrue(b *bool) bool {
	return b != nil && *b
}

// Truncate shortens s to max runes, appending an ellipsis when it cuts.
func Truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "..."
}

// NormalizeEmail lowercases and trims an email address for comparison
// against configured admin allowlists.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
