// Package sanitize strips markup from user supplied text before it is stored.
package sanitize

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// StrictPolicy removes all HTML tags and attributes.
var StrictPolicy = bluemonday.StrictPolicy()

// maxPasses bounds how many layers of entity encoding Text will peel off.
const maxPasses = 4

// Text strips all HTML and returns trimmed plain text. Entities produced by the policy are
// decoded again so ordinary characters such as "&" survive unchanged. Decoding can surface
// markup that was entity-encoded in the input, so the text is stripped again until decoding
// no longer changes it.
// Use for: user names, internship titles and descriptions, logbook content.
func Text(input string) string {
	if input == "" {
		return ""
	}

	text := input
	for range maxPasses {
		next := html.UnescapeString(StrictPolicy.Sanitize(text))
		if next == text {
			return strings.TrimSpace(text)
		}
		text = next
	}
	// Still changing: keep the policy's escaped output rather than decoded text.
	return strings.TrimSpace(StrictPolicy.Sanitize(text))
}
