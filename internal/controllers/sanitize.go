package controllers

import (
	"html"
	"strings"
	"unicode/utf8"

	"github.com/microcosm-cc/bluemonday"

	"github.com/alexissactahay-commits/smart-collector-nahuala/internal/apperrors"
)

var strictPolicy = bluemonday.StrictPolicy()

// maxDecodePasses bounds how many layers of entity encoding are peeled off.
const maxDecodePasses = 4

// plainText strips all markup from user-supplied text. Entities are decoded
// before sanitising and the pair is repeated until the value is stable, so
// markup sent entity-encoded is stripped too. Input still changing after
// maxDecodePasses is discarded.
func plainText(s string) string {
	for i := 0; i < maxDecodePasses; i++ {
		next := html.UnescapeString(strictPolicy.Sanitize(html.UnescapeString(s)))
		if next == s {
			return strings.TrimSpace(s)
		}
		s = next
	}
	return ""
}

// cleanText sanitizes s and enforces a non-empty value of at most max runes.
func cleanText(field, s string, max int) (string, error) {
	out := plainText(s)
	if out == "" {
		return "", apperrors.Invalid(field, field+" is required")
	}
	if utf8.RuneCountInString(out) > max {
		return "", apperrors.Invalid(field, field+" is too long")
	}
	return out, nil
}
