package header

import (
	"bytes"
)

// BadStartError is returned when the header begins with text that does not
// look like a header field. The skipped text is kept on the error. It is
// recoverable: Parse still returns the header that follows.
type BadStartError struct {
	BadStart []byte
}

// Error returns the error message.
func (err *BadStartError) Error() string {
	return "header starts with text that does not appear to be a header"
}

// Parse will parse the given slice of bytes into an email header using the
// given line break string. It will assume the entire string given represents
// the header to be parsed, including any blank line that ends it.
//
// A line is treated as the start of a new field when it does not begin with
// whitespace and contains a colon. Any other line is treated as a
// continuation of the field before it, which is more forgiving than RFC 5322
// but matches the folding that some mail tools get wrong.
//
// If the header starts with text that does not look like a field, that text
// is skipped and returned in a *BadStartError along with the parsed header.
func Parse(m []byte, lb Break) (*Header, error) {
	if lb == Meh {
		lb = Detect(m)
	}

	var (
		lines [][]byte
		bad   *BadStartError
	)
	for _, line := range bytes.Split(m, lb.Bytes()) {
		if len(line) == 0 {
			continue
		}

		if line[0] == ' ' || line[0] == '\t' || !bytes.Contains(line, []byte(":")) {
			if len(lines) == 0 {
				if bad == nil {
					bad = &BadStartError{}
				}
				bad.BadStart = append(bad.BadStart, line...)
				bad.BadStart = append(bad.BadStart, lb.Bytes()...)
				continue
			}

			last := lines[len(lines)-1]
			last = append(last, lb.Bytes()...)
			lines[len(lines)-1] = append(last, line...)
			continue
		}

		lines = append(lines, append([]byte(nil), line...))
	}

	h := &Header{
		lbr:    lb,
		fields: make([]*Field, len(lines)),
	}
	for i, line := range lines {
		h.fields[i] = parseField(line, lb)
	}

	if bad != nil {
		return h, bad
	}

	return h, nil
}
