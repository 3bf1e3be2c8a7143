package decode

import (
	"regexp"
	"unicode/utf8"
)

// mimePattern matches the header fields that mark input as a MIME message.
// Field names are matched case-sensitively.
var mimePattern = regexp.MustCompile(`^\s*(?:MIME-Version|Content-Type|Content-Transfer-Encoding|From|Date|Content-Language):`)

// IsMIME reports whether raw looks like a MIME message rather than a legacy
// inline body. Leading whitespace is ignored.
func IsMIME(raw string) bool {
	return mimePattern.MatchString(raw)
}

// Narrow converts a string to bytes by keeping the low byte of each code
// point. This is the inverse of reading bytes as Latin-1, which is how binary
// message data is commonly carried in a string. Code points above U+00FF do
// not survive. Bytes that are not valid UTF-8 are kept as they are.
func Narrow(raw string) []byte {
	out := make([]byte, 0, len(raw))
	for i := 0; i < len(raw); {
		r, size := utf8.DecodeRuneInString(raw[i:])
		if r == utf8.RuneError && size == 1 {
			out = append(out, raw[i])
		} else {
			out = append(out, byte(r))
		}
		i += size
	}
	return out
}
