package security

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// Sanitizer cleans HTML on both write paths: post content before it is
// stored, and plain-text extraction for the SEO scorer's word counting.
type Sanitizer interface {
	// SanitizeHTML returns safe HTML: allow-listed tags only, no script,
	// iframe, style or on* event attributes. Idempotent.
	SanitizeHTML(raw string) string

	// ExtractText strips all markup, returning the plain text used for
	// word counting and keyword checks
	ExtractText(raw string) string
}

// sanitizer is the concrete implementation of Sanitizer
type sanitizer struct {
	content *bluemonday.Policy
	strip   *bluemonday.Policy
}

// NewSanitizer creates a Sanitizer with the content allow-list:
// headings, paragraphs, lists, block quotes, code, emphasis, links,
// tables and https images. Links get rel="nofollow noopener" so stored
// competitor references never pass authority.
func NewSanitizer() Sanitizer {
	content := bluemonday.NewPolicy()
	content.AllowElements(
		"h1", "h2", "h3", "h4", "h5", "h6",
		"p", "br", "ul", "ol", "li",
		"blockquote", "pre", "code",
		"strong", "em", "b", "i",
		"table", "thead", "tbody", "tr", "th", "td",
	)
	content.AllowAttrs("href").OnElements("a")
	content.AllowStandardURLs()
	content.RequireNoFollowOnLinks(true)
	content.AllowAttrs("src", "alt").OnElements("img")
	content.AllowURLSchemes("https")
	content.AllowAttrs("id").OnElements("h2", "h3") // anchor ids from the outline

	return &sanitizer{
		content: content,
		strip:   bluemonday.StrictPolicy(),
	}
}

// SanitizeHTML applies the content policy
func (s *sanitizer) SanitizeHTML(raw string) string {
	return s.content.Sanitize(raw)
}

// tagBoundary forces a word break where a tag is removed, so adjacent
// block elements ("</h2><p>") do not fuse their words together.
var tagBoundary = strings.NewReplacer("<", " <")

// ExtractText strips all tags and collapses whitespace
func (s *sanitizer) ExtractText(raw string) string {
	return strings.Join(strings.Fields(s.strip.Sanitize(tagBoundary.Replace(raw))), " ")
}
