// Package htmlsanitize strips markup from user-supplied free text.
package htmlsanitize

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// strict removes every element; <script> and <style> lose their content too.
var strict = bluemonday.StrictPolicy()

// Text returns s with all HTML removed and entities decoded, trimmed.
// The result is plain text; renderers must still escape it.
func Text(s string) string {
	if s == "" {
		return ""
	}
	return strings.TrimSpace(html.UnescapeString(strict.Sanitize(s)))
}
