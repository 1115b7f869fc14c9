package pdd

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// markupPolicy is the rich-text subset sections are allowed to carry.
// Model instruction-following is not 100% reliable, so every piece of
// generated content passes through this policy before leaving the core.
var markupPolicy = func() *bluemonday.Policy {
	p := bluemonday.NewPolicy()
	p.AllowElements("p", "ul", "ol", "li", "strong", "em", "br")
	return p
}()

var stripPolicy = bluemonday.StrictPolicy()

// SanitizeMarkup reduces generated content to the allowed tag subset.
func SanitizeMarkup(s string) string {
	return strings.TrimSpace(markupPolicy.Sanitize(s))
}

// StripMarkup removes all markup and returns plain text.
func StripMarkup(s string) string {
	return strings.TrimSpace(html.UnescapeString(stripPolicy.Sanitize(s)))
}

// DefaultProcessName is used when the first section yields no usable text.
const DefaultProcessName = "Process Design Document"

// ProcessName derives the document title from the first section's content
// with all markup stripped.
func ProcessName(sections []Section) string {
	if len(sections) == 0 {
		return DefaultProcessName
	}
	if name := StripMarkup(sections[0].Content); name != "" {
		return name
	}
	return DefaultProcessName
}
