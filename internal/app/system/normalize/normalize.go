// Package normalize canonicalizes user-supplied strings before they are
// stored or compared.
package normalize

import (
	"regexp"
	"strings"
)

var nonSlugRun = regexp.MustCompile(`[^a-z0-9]+`)

// Email trims and lowercases an address.
func Email(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Role trims and lowercases a token role for admin-role comparison.
func Role(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Slugify turns a title into a URL slug: lowercase, every run of characters
// outside [a-z0-9] collapsed to one dash, no leading or trailing dash.
func Slugify(s string) string {
	s = nonSlugRun.ReplaceAllString(strings.ToLower(strings.TrimSpace(s)), "-")
	return strings.Trim(s, "-")
}

// PageSlug normalizes an admin-supplied static page slug. Unlike Slugify it
// keeps the caller's characters and only lowercases and trims.
func PageSlug(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
