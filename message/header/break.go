package header

import "bytes"

// Break represents the linebreak to use when working with an email.
type Break string

// Constants for use when selecting a line break to use with a new header. If
// you don't know what to pick, choose CRLF.
const (
	Meh  Break = ""         // Sometimes it doesn't matter
	CRLF Break = "\x0d\x0a" // \r\n - Network linebreak
	LF   Break = "\x0a"     // \n - Unix/Linux/BSD linebreak
	CR   Break = "\x0d"     // \r - Commodores/old Macs linebreak
	LFCR Break = "\x0a\x0d" // \n\r - for weirdos
)

// Breaks lists the line breaks in the order they should be tried when
// guessing what a message uses.
var Breaks = []Break{CRLF, LFCR, LF, CR}

// String returns the break as a string.
func (b Break) String() string {
	return string(b)
}

// Bytes returns the break as a slice of bytes.
func (b Break) Bytes() []byte {
	return []byte(b)
}

// Detect returns the first line break found in m. When m holds no line break
// at all, it returns LF.
func Detect(m []byte) Break {
	ix := bytes.IndexAny(m, "\r\n")
	if ix < 0 {
		return LF
	}

	for _, br := range Breaks {
		if bytes.HasPrefix(m[ix:], br.Bytes()) {
			return br
		}
	}

	return LF
}
