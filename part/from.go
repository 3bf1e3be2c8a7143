package part

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"

	"github.com/zostay/go-mailcore/message"
	"github.com/zostay/go-mailcore/message/header"
)

// ErrNilMessage is returned by FromMessage when it is given no message.
var ErrNilMessage = errors.New("no message to convert")

// FromMessage builds a typed part tree from a parsed message. The message
// should have been parsed with message.DecodeTransferEncoding() so that the
// leaf content is already decoded.
//
// Each node is classified as follows:
//
//   - A multipart message becomes a container.
//   - A leaf with Content-Disposition "attachment", a filename, or a media
//     type other than text/plain and text/html becomes an attachment.
//   - A text/html leaf becomes html.
//   - Everything else, including a leaf with no Content-Type at all, becomes
//     text.
func FromMessage(msg message.Generic) (*Part, error) {
	if msg == nil {
		return nil, ErrNilMessage
	}

	h := msg.GetHeader().Clone()

	if msg.IsMultipart() {
		mparts := msg.GetParts()
		kids := make([]*Part, 0, len(mparts))
		for i, mp := range mparts {
			kid, err := FromMessage(mp)
			if err != nil {
				return nil, fmt.Errorf("part %d: %w", i, err)
			}
			kids = append(kids, kid)
		}

		var preamble string
		if mm, isMultipart := msg.(*message.Multipart); isMultipart {
			preamble = string(mm.Preamble())
		}

		return &Part{kind: KindContainer, hdr: h, children: kids, preamble: preamble}, nil
	}

	content := msg.GetContent()
	switch classify(h) {
	case KindAttachment:
		data := make([]byte, len(content))
		copy(data, content)
		return NewAttachment(h, data), nil
	case KindHTML:
		s, err := decodeText(h, content)
		if err != nil {
			return nil, err
		}
		return NewHTML(h, s), nil
	default:
		s, err := decodeText(h, content)
		if err != nil {
			return nil, err
		}
		return NewText(h, s), nil
	}
}

// classify decides the kind of a leaf from its header.
func classify(h *header.Header) Kind {
	if pres, err := h.GetPresentation(); err == nil && pres == "attachment" {
		return KindAttachment
	}

	if fn, err := h.GetFilename(); err == nil && fn != "" {
		return KindAttachment
	}

	mt, err := h.GetMediaType()
	if err != nil {
		return KindText
	}

	switch strings.ToLower(mt) {
	case "", DefaultTextType:
		return KindText
	case DefaultHTMLType:
		return KindHTML
	}

	return KindAttachment
}

// decodeText turns leaf content into a string. UTF-8 (and ASCII) content is
// used as is. Anything else is treated as a Latin-1 byte string.
func decodeText(h *header.Header, content []byte) (string, error) {
	cs, _ := h.GetCharset()
	switch strings.ToLower(strings.TrimSpace(cs)) {
	case "", "utf-8", "utf8", "us-ascii":
		if utf8.Valid(content) {
			return string(content), nil
		}
	}

	s, err := charmap.ISO8859_1.NewDecoder().Bytes(content)
	if err != nil {
		return "", fmt.Errorf("decode latin-1 text: %w", err)
	}
	return string(s), nil
}
