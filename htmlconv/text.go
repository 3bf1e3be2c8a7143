package htmlconv

import (
	"regexp"
	"strings"

	"golang.org/x/net/html"
)

// skipElements are elements whose text is dropped.
var skipElements = map[string]bool{
	"head":     true,
	"script":   true,
	"style":    true,
	"noscript": true,
	"title":    true,
}

// blockElements start and end on a line of their own.
var blockElements = map[string]bool{
	"p": true, "div": true, "h1": true, "h2": true, "h3": true,
	"h4": true, "h5": true, "h6": true, "blockquote": true,
	"pre": true, "table": true, "tr": true, "ul": true, "ol": true,
	"section": true, "article": true, "header": true, "footer": true,
	"hr": true, "dl": true, "dt": true, "dd": true, "address": true,
}

var manyBlankLines = regexp.MustCompile(`\n{3,}`)

// textWriter collects plain text, collapsing runs of whitespace.
type textWriter struct {
	b         strings.Builder
	lastSpace bool
	skipDepth int
	pre       int

	// href of the open link and the length of the text before it
	href  string
	start int
}

func (w *textWriter) space() {
	if w.b.Len() > 0 && !w.lastSpace {
		w.b.WriteByte(' ')
		w.lastSpace = true
	}
}

func (w *textWriter) newline() {
	s := w.b.String()
	if strings.HasSuffix(s, " ") {
		w.b.Reset()
		w.b.WriteString(strings.TrimRight(s, " "))
	}
	if w.b.Len() > 0 {
		w.b.WriteByte('\n')
	}
	w.lastSpace = true
}

func (w *textWriter) text(t string) {
	if w.skipDepth > 0 {
		return
	}

	if w.pre > 0 {
		w.b.WriteString(t)
		w.lastSpace = strings.HasSuffix(t, "\n")
		return
	}

	for _, r := range t {
		switch r {
		case ' ', '\t', '\n', '\r', '\f':
			w.space()
		default:
			w.b.WriteRune(r)
			w.lastSpace = false
		}
	}
}

func (w *textWriter) openLink(z *html.Tokenizer) {
	w.href = ""
	w.start = w.b.Len()
	for {
		key, val, more := z.TagAttr()
		if string(key) == "href" {
			w.href = string(val)
		}
		if !more {
			break
		}
	}
}

func (w *textWriter) closeLink() {
	href := w.href
	w.href = ""
	if href == "" || !strings.Contains(href, "://") {
		return
	}

	start := min(w.start, w.b.Len())
	label := strings.TrimSpace(w.b.String()[start:])
	if label == href || label == "" {
		if label == "" {
			w.text(href)
		}
		return
	}

	w.text(" (" + href + ")")
}

func (w *textWriter) alt(z *html.Tokenizer) {
	for {
		key, val, more := z.TagAttr()
		if string(key) == "alt" && len(val) > 0 {
			w.text(string(val))
		}
		if !more {
			break
		}
	}
}

// ToPlainText renders HTML as plain text. Block elements and <br> start new
// lines, list items are bulleted, the text of scripts and styles is dropped,
// images are replaced by their alt text and a link is followed by its target
// in parentheses when the two differ.
func ToPlainText(h string) string {
	z := html.NewTokenizer(strings.NewReader(h))
	w := &textWriter{}

	for {
		tt := z.Next()
		switch tt {
		case html.ErrorToken:
			return finish(w.b.String())

		case html.TextToken:
			w.text(string(z.Text()))

		case html.StartTagToken, html.SelfClosingTagToken:
			tn, hasAttr := z.TagName()
			name := string(tn)

			if skipElements[name] && tt == html.StartTagToken {
				w.skipDepth++
				continue
			}
			if w.skipDepth > 0 {
				continue
			}

			switch {
			case name == "br":
				w.newline()
			case name == "pre":
				w.newline()
				w.pre++
			case name == "li":
				w.newline()
				w.text("* ")
			case blockElements[name]:
				w.newline()
			case name == "td" || name == "th":
				w.space()
			case name == "a" && hasAttr && tt == html.StartTagToken:
				w.openLink(z)
			case name == "img" && hasAttr:
				w.alt(z)
			}

		case html.EndTagToken:
			tn, _ := z.TagName()
			name := string(tn)

			if skipElements[name] {
				if w.skipDepth > 0 {
					w.skipDepth--
				}
				continue
			}
			if w.skipDepth > 0 {
				continue
			}

			switch {
			case name == "a":
				w.closeLink()
			case name == "pre":
				if w.pre > 0 {
					w.pre--
				}
				w.newline()
			case blockElements[name]:
				w.newline()
			}
		}
	}
}

// finish trims each line and squeezes blank lines.
func finish(s string) string {
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimRight(l, " \t")
	}
	s = strings.Join(lines, "\n")
	s = manyBlankLines.ReplaceAllString(s, "\n\n")
	return strings.TrimSpace(s)
}
