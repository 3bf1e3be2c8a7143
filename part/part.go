package part

import (
	"github.com/zostay/go-mailcore/message"
	"github.com/zostay/go-mailcore/message/header"
)

// Kind identifies what a Part holds.
type Kind int

const (
	KindText       Kind = iota // a text/plain body
	KindHTML                   // a text/html body
	KindAttachment             // binary content with an optional filename
	KindContainer              // an ordered list of child parts
)

// String returns the lower-case name of the kind.
func (k Kind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindHTML:
		return "html"
	case KindAttachment:
		return "attachment"
	case KindContainer:
		return "container"
	}
	return "unknown"
}

// Default media types used when the header does not name one.
const (
	DefaultTextType       = "text/plain"
	DefaultHTMLType       = "text/html"
	DefaultAttachmentType = "application/octet-stream"
	DefaultContainerType  = message.DefaultMultipartContentType
)

// Part is a node of a typed message tree. Exactly one of Text, Data or
// Children is meaningful, depending on the Kind.
//
// A Part is not modified after it is constructed, so a tree may be read from
// many goroutines at once.
type Part struct {
	kind     Kind
	hdr      *header.Header
	text     string
	data     []byte
	children []*Part
	preamble string
}

func ensureHeader(h *header.Header) *header.Header {
	if h == nil {
		return header.New(header.CRLF)
	}
	return h
}

// NewText returns a text part with the given header and body. A nil header is
// replaced with an empty one.
func NewText(h *header.Header, text string) *Part {
	return &Part{kind: KindText, hdr: ensureHeader(h), text: text}
}

// NewHTML returns an html part with the given header and body.
func NewHTML(h *header.Header, html string) *Part {
	return &Part{kind: KindHTML, hdr: ensureHeader(h), text: html}
}

// NewAttachment returns an attachment part. The filename and media type are
// read from the header.
func NewAttachment(h *header.Header, data []byte) *Part {
	return &Part{kind: KindAttachment, hdr: ensureHeader(h), data: data}
}

// NewContainer returns a container part holding the children in the order
// given. The preamble is the text placed before the first child for readers
// that do not understand MIME. It may be empty.
func NewContainer(h *header.Header, preamble string, children ...*Part) *Part {
	kids := make([]*Part, len(children))
	copy(kids, children)
	return &Part{kind: KindContainer, hdr: ensureHeader(h), children: kids, preamble: preamble}
}

// Kind returns the kind of the part.
func (p *Part) Kind() Kind { return p.kind }

// Header returns the header of the part.
func (p *Part) Header() *header.Header { return p.hdr }

// Text returns the decoded body of a text or html part. It is empty for the
// other kinds.
func (p *Part) Text() string { return p.text }

// Data returns the content of an attachment. It is nil for the other kinds.
func (p *Part) Data() []byte { return p.data }

// Children returns the child parts of a container. It is nil for the other
// kinds.
func (p *Part) Children() []*Part { return p.children }

// Preamble returns the preamble of a container.
func (p *Part) Preamble() string { return p.preamble }

// IsLeaf returns true for every kind but KindContainer.
func (p *Part) IsLeaf() bool { return p.kind != KindContainer }

// Filename returns the filename of an attachment exactly as it appears in the
// header, after decoding RFC 2047 words. It is empty for the other kinds or
// when no filename is set.
func (p *Part) Filename() string {
	if p.kind != KindAttachment {
		return ""
	}
	fn, _ := p.hdr.GetFilename()
	return fn
}

// MediaType returns the media type from the Content-Type header or the
// default for the kind of part.
func (p *Part) MediaType() string {
	if mt, err := p.hdr.GetMediaType(); err == nil && mt != "" {
		return mt
	}

	switch p.kind {
	case KindHTML:
		return DefaultHTMLType
	case KindAttachment:
		return DefaultAttachmentType
	case KindContainer:
		return DefaultContainerType
	}
	return DefaultTextType
}

// ContentID returns the Content-ID of the part without the angle brackets.
func (p *Part) ContentID() string {
	id, _ := p.hdr.GetContentID()
	return id
}

// Message converts the part tree into a message tree ready to be written.
// Leaf content is transfer-encoded as it is written, according to each
// part's Content-Transfer-Encoding header.
func (p *Part) Message() (message.Generic, error) {
	switch p.kind {
	case KindContainer:
		buf := message.NewBuffer(p.hdr.Break())
		buf.Header = *p.hdr.Clone()
		buf.SetPreamble(p.preamble)
		buf.SetMultipart(len(p.children))
		for _, c := range p.children {
			cm, err := c.Message()
			if err != nil {
				return nil, err
			}
			buf.Add(cm)
		}
		return buf.Multipart()
	case KindAttachment:
		return &message.Opaque{Header: *p.hdr.Clone(), Content: p.data}, nil
	default:
		return &message.Opaque{Header: *p.hdr.Clone(), Content: []byte(p.text)}, nil
	}
}
