// Package sanitize cleans user-submitted text before persistence.
package sanitize

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// TextSanitizer strips dangerous markup from post and comment text while
// keeping basic user-generated formatting.
type TextSanitizer struct {
	policy *bluemonday.Policy
}

// NewTextSanitizer creates a sanitizer with the UGC policy.
func NewTextSanitizer() *TextSanitizer {
	return &TextSanitizer{policy: bluemonday.UGCPolicy()}
}

// Sanitize returns the cleaned text with surrounding whitespace trimmed.
func (s *TextSanitizer) Sanitize(text string) string {
	return strings.TrimSpace(s.policy.Sanitize(text))
}
