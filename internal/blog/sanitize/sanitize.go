// Package sanitize strips dangerous markup from post content before it is
// stored. Posts are authored as HTML and rendered verbatim by the frontend,
// so everything outside this allowlist has to go.
package sanitize

import "github.com/microcosm-cc/bluemonday"

// HTML is the sanitizer contract the post service depends on.
type HTML interface {
	Sanitize(html string) string
}

// NewPolicy builds the post-content policy: basic text formatting, headings,
// lists, code blocks, links, images, and inline style on any allowed element.
// Scripts, event handlers and iframes are dropped wholesale.
func NewPolicy() *bluemonday.Policy {
	p := bluemonday.NewPolicy()

	p.AllowStandardURLs()
	p.AllowElements(
		"a", "abbr", "acronym", "b", "blockquote", "br", "code", "div", "em",
		"h1", "h2", "h3", "h4", "h5", "h6",
		"i", "img", "li", "ol", "p", "pre", "span", "strong", "ul",
	)
	p.AllowAttrs("href", "title", "target", "rel").OnElements("a")
	p.AllowAttrs("src", "alt", "title", "width", "height").OnElements("img")
	p.AllowAttrs("style").Globally()

	return p
}
