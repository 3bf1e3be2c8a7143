package htmlconv_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"

	"github.com/zostay/go-mailcore/htmlconv"
)

func TestAutoLink(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		in     string
		expect string
	}{
		{"plain", "hello", "hello"},
		{"empty", "", ""},
		{"escaped", "a < b & c > \"d\"", "a &lt; b &amp; c &gt; &#34;d&#34;"},
		{"markup", "<script>alert(1)</script>", "&lt;script&gt;alert(1)&lt;/script&gt;"},
		{"breaks", "one\ntwo\r\nthree\rfour", "one<br>two<br>three<br>four"},
		{
			"link",
			"see https://example.com/x?a=1&b=2 now",
			`see <a href="https://example.com/x?a=1&amp;b=2" target="_blank" rel="noreferrer noopener">https://example.com/x?a=1&amp;b=2</a> now`,
		},
		{
			"link at end of line",
			"go to http://example.com\nthanks",
			`go to <a href="http://example.com" target="_blank" rel="noreferrer noopener">http://example.com</a><br>thanks`,
		},
		{"no scheme", "example.com", "example.com"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.expect, htmlconv.AutoLink(tt.in))
			assert.Equal(t, tt.expect, htmlconv.DefaultConverter{}.TextToHTML(tt.in))
		})
	}
}

func TestAutoLink_NeverLeaksMarkup(t *testing.T) {
	t.Parallel()

	rapid.Check(t, func(t *rapid.T) {
		in := rapid.String().Draw(t, "in")
		out := htmlconv.AutoLink(in)

		// the only tags in the output are the ones AutoLink writes itself
		stripped := strings.NewReplacer(
			"<br>", "",
			`" target="_blank" rel="noreferrer noopener">`, "",
			`<a href="`, "",
			"</a>", "",
		).Replace(out)
		if strings.ContainsAny(stripped, "<>") {
			t.Fatalf("markup leaked from %q: %q", in, out)
		}
	})
}

func TestToPlainText(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		in     string
		expect string
	}{
		{"paragraphs", "<p>Hello <b>World</b></p><p>Second</p>", "Hello World\n\nSecond"},
		{"breaks", "a<br>b<br/>c", "a\nb\nc"},
		{"whitespace", "  lots   of\n\n  space  ", "lots of space"},
		{"entities", "&amp; &lt;tag&gt; &quot;", "& <tag> \""},
		{"script", "<script>alert(1)</script>ok", "ok"},
		{"head", "<html><head><title>T</title><style>p{}</style></head><body>Hi</body></html>", "Hi"},
		{"link", `<a href="https://x.io">click</a>`, "click (https://x.io)"},
		{"link same as text", `<a href="https://x.io">https://x.io</a>`, "https://x.io"},
		{"link no label", `<a href="https://x.io"></a>`, "https://x.io"},
		{"relative link", `<a href="/x">here</a>`, "here"},
		{"list", "<ul><li>one</li><li>two</li></ul>", "* one\n* two"},
		{"image", `<img src="x.png" alt="logo">`, "logo"},
		{"table", "<table><tr><td>a</td><td>b</td></tr></table>", "a b"},
		{"pre", "<pre>a  b\n  c</pre>", "a  b\n  c"},
		{"plain", "just text", "just text"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.expect, htmlconv.ToPlainText(tt.in))
			assert.Equal(t, tt.expect, htmlconv.DefaultConverter{}.HTMLToText(tt.in))
		})
	}
}
