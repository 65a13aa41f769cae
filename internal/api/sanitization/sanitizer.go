package sanitization

import (
	"strings"
)

// htmlEscaper replaces the five HTML metacharacters in a single pass, so
// entities produced for one character are never escaped again.
var htmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#039;",
)

// EscapeHTML escapes user text for embedding in an HTML document.
// Applying it twice double-escapes: "&lt;" becomes "&amp;lt;".
func EscapeHTML(input string) string {
	return htmlEscaper.Replace(input)
}
