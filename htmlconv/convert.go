package htmlconv

import (
	"html"
	"strings"

	"mvdan.cc/xurls/v2"
)

// Converter moves a body between plain text and HTML.
type Converter interface {
	// TextToHTML renders plain text as HTML.
	TextToHTML(text string) string

	// HTMLToText renders HTML as plain text.
	HTMLToText(html string) string
}

// DefaultConverter implements Converter with AutoLink and ToPlainText.
type DefaultConverter struct{}

// TextToHTML calls AutoLink.
func (DefaultConverter) TextToHTML(text string) string { return AutoLink(text) }

// HTMLToText calls ToPlainText.
func (DefaultConverter) HTMLToText(h string) string { return ToPlainText(h) }

var (
	urlPattern = xurls.Strict()
	breaks     = strings.NewReplacer("\r\n", "<br>", "\n", "<br>", "\r", "<br>")
)

// AutoLink escapes plain text for use as HTML, turns every URL with a scheme
// into a link that opens in a new window and turns line breaks into <br>.
func AutoLink(text string) string {
	var b strings.Builder
	b.Grow(len(text) + len(text)/4)

	last := 0
	for _, loc := range urlPattern.FindAllStringIndex(text, -1) {
		b.WriteString(breaks.Replace(html.EscapeString(text[last:loc[0]])))

		u := html.EscapeString(text[loc[0]:loc[1]])
		b.WriteString(`<a href="`)
		b.WriteString(u)
		b.WriteString(`" target="_blank" rel="noreferrer noopener">`)
		b.WriteString(u)
		b.WriteString(`</a>`)

		last = loc[1]
	}
	b.WriteString(breaks.Replace(html.EscapeString(text[last:])))

	return b.String()
}
