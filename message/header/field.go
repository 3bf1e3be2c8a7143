package header

import "strings"

// Field is a single header field. A field read by Parse remembers its
// original bytes so that it can be written back out exactly as it arrived,
// folding and all. Once the field is changed, it is written from the name
// and body instead.
type Field struct {
	name string
	body string
	raw  []byte
}

// NewField returns a field with the given name and body.
func NewField(name, body string) *Field {
	return &Field{name: name, body: body}
}

// parseField splits an unterminated field line, which may include folded
// continuation lines, into its name and unfolded body.
func parseField(line []byte, lb Break) *Field {
	s := string(line)
	name, body, found := strings.Cut(s, ":")
	if !found {
		return &Field{name: strings.TrimSpace(unfold(s, lb)), raw: line}
	}

	return &Field{
		name: strings.TrimSpace(unfold(name, lb)),
		body: strings.TrimSpace(unfold(body, lb)),
		raw:  line,
	}
}

// unfold removes the line breaks of folded lines, leaving the whitespace that
// follows each one.
func unfold(s string, lb Break) string {
	if lb != Meh {
		s = strings.ReplaceAll(s, lb.String(), "")
	}
	return strings.NewReplacer("\r", "", "\n", "").Replace(s)
}

// Name returns the field name.
func (f *Field) Name() string {
	return f.name
}

// Body returns the unfolded field body.
func (f *Field) Body() string {
	return f.body
}

// Match returns the name in the form used for comparisons.
func (f *Field) Match() string {
	return strings.ToLower(f.name)
}

// SetName renames the field.
func (f *Field) SetName(n string) {
	f.name = n
	f.raw = nil
}

// SetBody replaces the field body.
func (f *Field) SetBody(b string) {
	f.body = b
	f.raw = nil
}

// String returns the field as it will be written, without a trailing line
// break.
func (f *Field) String() string {
	if f.raw != nil {
		return string(f.raw)
	}
	return f.name + ": " + f.body
}

// Bytes is the same as String, but returns a slice of bytes.
func (f *Field) Bytes() []byte {
	return []byte(f.String())
}

// Clone returns a copy of the field.
func (f *Field) Clone() *Field {
	c := *f
	if f.raw != nil {
		c.raw = append([]byte(nil), f.raw...)
	}
	return &c
}
