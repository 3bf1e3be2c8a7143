package htmlconv

import (
	"github.com/microcosm-cc/bluemonday"
)

// Sanitizer cleans HTML of anything unsafe to show in a browser.
type Sanitizer interface {
	Sanitize(html string) string
}

// PolicySanitizer is the default Sanitizer. It is built on the bluemonday user
// generated content policy with the extra formatting elements that mail
// clients still produce.
type PolicySanitizer struct {
	policy *bluemonday.Policy
}

// NewSanitizer returns a PolicySanitizer. Scripts, event handlers and styles
// are removed. Links to other sites open in a new window without a referrer.
func NewSanitizer() *PolicySanitizer {
	policy := bluemonday.UGCPolicy()

	policy.AllowElements("font", "center", "span", "div", "hr", "br")
	policy.AllowAttrs("color", "face", "size").OnElements("font")
	policy.AllowAttrs("align", "valign", "bgcolor").OnElements("table", "tr", "td", "th", "div", "p")
	policy.AllowDataURIImages()
	policy.AddTargetBlankToFullyQualifiedLinks(true)
	policy.RequireNoReferrerOnLinks(true)

	return &PolicySanitizer{policy: policy}
}

// Sanitize implements Sanitizer.
func (s *PolicySanitizer) Sanitize(html string) string {
	if html == "" {
		return ""
	}
	return s.policy.Sanitize(html)
}
