// Package richtext guards the HTML produced by the admin panel's WYSIWYG
// editor. Everything that crosses a trust boundary goes through Sanitize.
package richtext

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// EmptyPlaceholder is the markup the editor emits for an untouched document.
const EmptyPlaceholder = "<p></p>"

var policy = bluemonday.UGCPolicy()

// Sanitize strips scripts and unexpected markup from editor HTML.
func Sanitize(html string) string {
	return policy.Sanitize(html)
}

// IsEmpty reports whether the editor content is blank: whitespace only, the
// empty-paragraph placeholder, or markup with no visible text.
func IsEmpty(html string) bool {
	trimmed := strings.TrimSpace(html)
	if trimmed == "" || trimmed == EmptyPlaceholder {
		return true
	}
	text := strings.TrimSpace(bluemonday.StrictPolicy().Sanitize(trimmed))
	return text == ""
}
