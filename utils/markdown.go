package utils

import (
	"bytes"

	"github.com/yuin/goldmark"
)

var md = goldmark.New()

// RenderMarkdown converts a Markdown post body to HTML and sanitizes the
// result. Sanitization runs after rendering so raw HTML embedded in the
// Markdown cannot smuggle script through.
func RenderMarkdown(source string) string {
	var buf bytes.Buffer
	if err := md.Convert([]byte(source), &buf); err != nil {
		// Fall back to the escaped plain text rather than failing the request.
		return StripTags(source)
	}
	return Sanitize(buf.String())
}
