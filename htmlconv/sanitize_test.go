package htmlconv_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/zostay/go-mailcore/htmlconv"
)

func TestPolicySanitizer(t *testing.T) {
	t.Parallel()

	s := htmlconv.NewSanitizer()

	assert.Equal(t, "", s.Sanitize(""))
	assert.Equal(t, "<p>hi</p>", s.Sanitize(`<p onclick="steal()">hi<script>alert(1)</script></p>`))
	assert.Equal(t, "<b>bold</b>", s.Sanitize("<b>bold</b>"))

	link := s.Sanitize(`<a href="https://example.com" onmouseover="x()">x</a>`)
	assert.Contains(t, link, `href="https://example.com"`)
	assert.Contains(t, link, `target="_blank"`)
	assert.Contains(t, link, "noreferrer")
	assert.NotContains(t, link, "onmouseover")

	assert.NotContains(t, s.Sanitize(`<a href="javascript:alert(1)">x</a>`), "javascript")
	assert.Contains(t, s.Sanitize(`<font color="red">r</font>`), `color="red"`)
}
