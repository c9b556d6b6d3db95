// Package htmlsanitize cleans the rich text stored for blogs and static pages
// and the plain text submitted in blog comments. It uses bluemonday.
package htmlsanitize

import (
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	richPolicy  *bluemonday.Policy
	plainPolicy *bluemonday.Policy
	policyOnce  sync.Once
)

func policies() (*bluemonday.Policy, *bluemonday.Policy) {
	policyOnce.Do(func() {
		// Admin editors produce headings, images, figures and tables.
		richPolicy = bluemonday.UGCPolicy()
		richPolicy.AllowElements("table", "thead", "tbody", "tfoot", "tr", "th", "td", "figure", "figcaption")
		richPolicy.AllowAttrs("colspan", "rowspan").OnElements("th", "td")
		richPolicy.AllowAttrs("class").OnElements("table", "th", "td", "tr", "p", "span", "div", "img", "figure")
		richPolicy.AllowElements("u", "s", "sub", "sup", "mark")
		richPolicy.AllowDataAttributes()
		richPolicy.AllowAttrs("style").OnElements("table", "th", "td", "p", "span")
		richPolicy.AllowAttrs("target").Matching(bluemonday.SpaceSeparatedTokens).OnElements("a")

		plainPolicy = bluemonday.StrictPolicy()
	})
	return richPolicy, plainPolicy
}

// Sanitize cleans admin-authored HTML, removing scripts, event handlers and
// unsafe URLs while keeping formatting, links, images and tables.
func Sanitize(html string) string {
	if html == "" {
		return ""
	}
	rich, _ := policies()
	return rich.Sanitize(html)
}

// PlainText strips every tag from visitor input and trims the result.
// Entities produced by the strict policy are left escaped.
func PlainText(s string) string {
	if s == "" {
		return ""
	}
	_, plain := policies()
	return strings.TrimSpace(plain.Sanitize(s))
}

// IsBlank reports whether sanitized HTML has no visible text or media.
// Content such as "<p><br></p>" from an empty editor counts as blank.
func IsBlank(html string) bool {
	if strings.Contains(html, "<img") {
		return false
	}
	return PlainText(html) == ""
}
