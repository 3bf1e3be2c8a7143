package message

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/zostay/go-mailcore/message/header"
	"github.com/zostay/go-mailcore/message/transfer"
)

// Constants related to Parse() options.
const (
	// DefaultMaxMultipartDepth is the default depth the parser will recurse
	// into a message.
	DefaultMaxMultipartDepth = 10

	// DefaultMaxHeaderLength is the default maximum byte length to scan before
	// giving up on finding the end of the header.
	DefaultMaxHeaderLength = 64 * 1024
)

// Errors that occur during parsing.
var (
	// ErrNoBoundary is returned by Parse when the boundary parameter is not set
	// on the Content-Type field of a multipart message header.
	ErrNoBoundary = errors.New("the boundary parameter is missing from Content-Type")

	// ErrLargeHeader is returned by Parse when the header is longer than the
	// configured WithMaxHeaderLength option (or the default,
	// DefaultMaxHeaderLength).
	ErrLargeHeader = errors.New("the header exceeds the maximum parse length")
)

var splits = [][]byte{
	[]byte("\x0d\x0a\x0d\x0a"), // \r\n\r\n
	[]byte("\x0a\x0d\x0a\x0d"), // \n\r\n\r, extremely unlikely, possibly never
	[]byte("\x0a\x0a"),         // \n\n
	[]byte("\x0d\x0d"),         // \r\r
}

type parser struct {
	maxHeaderLen int
	maxDepth     int
	decode       bool
}

func (pr *parser) clone() *parser {
	p := *pr
	return &p
}

var defaultParser = &parser{
	maxHeaderLen: DefaultMaxHeaderLength,
	maxDepth:     DefaultMaxMultipartDepth,
	decode:       false,
}

// ParseOption refers to options that may be passed to the Parse function to
// modify how the parser works.
type ParseOption func(pr *parser)

// WithMaxHeaderLength is a ParseOption that sets the maximum size a header may
// be before parsing exits with an ErrLargeHeader error. Setting this to a value
// less than or equal to 0 will result in there being no maximum length. The
// default value is DefaultMaxHeaderLength.
func WithMaxHeaderLength(n int) ParseOption {
	return func(pr *parser) { pr.maxHeaderLen = n }
}

// DecodeTransferEncoding is a ParseOption that enables the decoding of
// Content-Transfer-Encoding. By default, Content-Transfer-Encoding will not be
// decoded, which allows for safer round-tripping of messages. However, if you
// want to display or process the message body, you will want to enable this.
func DecodeTransferEncoding() ParseOption {
	return func(pr *parser) { pr.decode = true }
}

// WithMaxDepth is a ParseOption that controls how deep the parser will go in
// recursively parsing a multipart message. This is set to
// DefaultMaxMultipartDepth by default.
func WithMaxDepth(maxDepth int) ParseOption {
	return func(pr *parser) { pr.maxDepth = maxDepth }
}

// WithoutMultipart is a ParseOption that will not allow parsing of any
// multipart messages. The message returned from Parse() will always be *Opaque.
func WithoutMultipart() ParseOption {
	return func(pr *parser) { pr.maxDepth = 0 }
}

// WithoutRecursion is a ParseOption that will only allow a single level of
// multipart parsing.
func WithoutRecursion() ParseOption {
	return func(pr *parser) { pr.maxDepth = 1 }
}

// WithUnlimitedRecursion is a ParseOption that will allow the parser to parse
// sub-parts of any depth.
func WithUnlimitedRecursion() ParseOption {
	return func(pr *parser) { pr.maxDepth = -1 }
}

// searchForSplit looks for the header/body split. It returns -1 if none is
// found. Otherwise, it returns the location just past the split and the line
// break the header uses. The earliest split wins.
func searchForSplit(buf []byte, subpart bool) (pos int, crlf []byte) {
	if subpart {
		// a part with an empty header starts with a lone line break
		for _, s := range splits {
			if half := s[:len(s)/2]; bytes.HasPrefix(buf, half) {
				return len(half), half
			}
		}
	}

	pos = -1
	for _, s := range splits {
		testPos := bytes.Index(buf, s)
		if testPos < 0 {
			continue
		}

		if pos < 0 || testPos+len(s) < pos {
			pos = testPos + len(s)
			crlf = s[:len(s)/2]
		}
	}

	return pos, crlf
}

// splitHeadFromBody returns the header bytes, the line break they use and the
// body. When no split is found, the whole input is header.
func (pr *parser) splitHeadFromBody(raw []byte, subpart bool) ([]byte, header.Break, []byte, error) {
	pos, crlf := searchForSplit(raw, subpart)
	if pos < 0 {
		if pr.maxHeaderLen > 0 && len(raw) > pr.maxHeaderLen {
			return nil, header.Meh, nil, ErrLargeHeader
		}
		return raw, header.Detect(raw), nil, nil
	}

	if pr.maxHeaderLen > 0 && pos > pr.maxHeaderLen {
		return nil, header.Meh, nil, ErrLargeHeader
	}

	return raw[:pos], header.Break(crlf), raw[pos:], nil
}

// parseToOpaque turns raw bytes into an Opaque. A *header.BadStartError is
// returned with the message, since it is recoverable.
func (pr *parser) parseToOpaque(raw []byte, subpart bool) (*Opaque, error) {
	hdr, lbr, body, err := pr.splitHeadFromBody(raw, subpart)
	if err != nil {
		return nil, err
	}

	head, err := header.Parse(hdr, lbr)
	var badStart *header.BadStartError
	if err != nil && !errors.As(err, &badStart) {
		return nil, err
	}

	msg := &Opaque{Header: *head, Content: body, encoded: true}
	if pr.decode {
		dec, decErr := transfer.Decode(head, body)
		if decErr == nil {
			msg.Content = dec
			msg.encoded = false
		}
	}

	return msg, err
}

// Parse reads the given bytes and returns a Generic message containing the
// parsed content. Parse will proceed in two or three phases.
//
// During the first phase, the input is searched for a double line break of some
// kind (e.g., "\r\n\r\n" or "\n\n" are the most common). Once found, that line
// break is used to determine what line break the message will use for breaking
// up the header into fields. The remainder is the body content of an *Opaque
// message. If the header is larger than the WithMaxHeaderLength() option (or
// the default, DefaultMaxHeaderLength), Parse fails with ErrLargeHeader.
//
// During the second phase, the *Opaque message created during the first phase
// may be transformed into a *Multipart, if the message seems to be a multipart
// message and the WithMaxDepth() related options allow it. The body is split
// on the boundary and each part goes through the same process in turn.
//
// If the DecodeTransferEncoding() option is passed, a third phase of parsing
// will also be performed. The parts of the message that do not have sub-parts
// and have a Content-Transfer-Encoding header set, will be decoded. Content
// that fails to decode is left encoded.
//
// This third phase is not the default behavior because one of those goals of
// this library is to try and preserve the original bytes as is. Decoding
// the transfer encoding and then re-encoding it again is very likely to modify
// the original message.
//
// Whenever possible, the partially parsed message object is returned along
// with any error. A multipart part without a boundary results in
// ErrNoBoundary. A header that starts with junk results in a
// *header.BadStartError.
func Parse(raw []byte, opts ...ParseOption) (Generic, error) {
	pr := defaultParser.clone()
	for _, opt := range opts {
		opt(pr)
	}

	msg, err := pr.parseToOpaque(raw, false)
	if msg == nil {
		return nil, err
	}

	gmsg, perr := pr.parse(msg, 0)
	if perr != nil {
		return gmsg, perr
	}

	return gmsg, err
}

// parse implements the multipart phase of Parse.
func (pr *parser) parse(msg *Opaque, depth int) (Generic, error) {
	// we're too deep: stop here and just return the original
	if pr.maxDepth >= 0 && depth >= pr.maxDepth {
		return msg, nil
	}

	pv, err := msg.GetContentType()
	if err != nil || pv.Type() != "multipart" {
		return msg, nil
	}

	boundary := pv.Boundary()
	if boundary == "" {
		return msg, ErrNoBoundary
	}

	prefix, chunks, suffix := splitParts(msg.Content, boundary, msg.Break())

	mm := &Multipart{
		Header: msg.Header,
		prefix: prefix,
		suffix: suffix,
		parts:  make([]Part, 0, len(chunks)),
	}

	var firstErr error
	for _, chunk := range chunks {
		op, err := pr.parseToOpaque(chunk, true)
		if op == nil {
			return mm, err
		}
		if err != nil && firstErr == nil {
			firstErr = err
		}

		part, err := pr.parse(op, depth+1)
		if err != nil && firstErr == nil {
			firstErr = err
		}

		mm.parts = append(mm.parts, part)
	}

	return mm, firstErr
}

// splitParts breaks a multipart body into the bytes before the first
// boundary, the parts, and the bytes after the final boundary.
//
// Line breaks are handled to preserve the original message for round-tripping.
// The line break before the first boundary (if any) belongs to the prefix. The
// line break after the final boundary (if any) belongs to the suffix. The line
// breaks around the middle boundaries belong to the boundary and are not
// included with the part.
//
// A nil suffix means no final boundary was found.
func splitParts(body []byte, boundary string, br header.Break) (prefix []byte, parts [][]byte, suffix []byte) {
	sb := []byte(fmt.Sprintf("--%s%s", boundary, br))
	mb := []byte(fmt.Sprintf("%s--%s%s", br, boundary, br))
	fb := []byte(fmt.Sprintf("%s--%s--", br, boundary))

	rest := body
	switch {
	case bytes.HasPrefix(body, sb):
		prefix = []byte{}
		rest = body[len(sb):]
	default:
		ix := bytes.Index(body, mb)
		if ix < 0 {
			// no starting boundary at all; treat everything up to the final
			// boundary as the only part
			prefix = []byte{}
			break
		}
		prefix = body[:ix+len(br)]
		rest = body[ix+len(mb):]
	}

	for {
		mix := bytes.Index(rest, mb)
		fix := bytes.Index(rest, fb)

		switch {
		case mix >= 0 && (fix < 0 || mix < fix):
			parts = append(parts, rest[:mix])
			rest = rest[mix+len(mb):]
		case fix >= 0:
			parts = append(parts, rest[:fix])
			return prefix, parts, rest[fix+len(fb):]
		default:
			if len(rest) > 0 {
				parts = append(parts, rest)
			}
			return prefix, parts, nil
		}
	}
}
