package message

import (
	"fmt"
	"io"

	"github.com/zostay/go-mailcore/message/header"
)

// Part is an interface define the parts of a Multipart. Each Part is
// either a branch or a leaf.
//
// A branch Part is one that has sub-parts. In this case, the IsMultipart()
// method will return true and GetParts() returns them.
//
// A leaf Part is one that contains content. In this case, the IsMultipart()
// method will return false and GetContent() returns the content.
//
// It should be noted that it is possible for a Part to contain content that
// is a multipart MIME message when IsMultipart() returns false, for example
// when parsing stopped at the maximum depth. This is perfectly legal.
type Part interface {
	io.WriterTo

	// IsMultipart will return true if this Part is a branch with nested
	// parts.
	IsMultipart() bool

	// IsEncoded will return true if the content of this Part still has its
	// Content-Transfer-Encoding applied. It always returns false for a
	// branch.
	IsEncoded() bool

	// GetHeader is available on all Part objects.
	GetHeader() *header.Header

	// GetContent returns the content of a leaf. It returns nil for a branch.
	GetContent() []byte

	// GetParts returns the sub-parts of a branch. It returns nil for a leaf.
	GetParts() []Part
}

// Generic is just an alias for Part, which is intended to convey
// additional semantics:
//
// 1. The message returned is not necessarily a sub-part of a message.
//
// 2. The returned message is guaranteed to either be a *Opaque or a
// *Multipart. Therefore, it is safe to use this in a type-switch
// and only look for either of those two objects.
type Generic = Part

// Multipart is a multipart MIME message. When building these methods the MIME
// type set in the Content-Type header should always start with multipart/*.
type Multipart struct {
	// Header is the header for the message.
	header.Header

	// prefix and suffix are here so can do a byte-for-byte round trip in case
	// there are extra bytes before the first boundary that don't look like a
	// part or after the last boundary that don't look like a part (as in, just
	// whitespace). The prefix is also where a preamble lives.
	//
	// * The prefix MUST end in a line break if it is not empty or else the
	// message produced will not be correct.
	//
	// * If suffix is nil, then the message lacks a final boundary. When
	// round-tripping, no final boundary will be output.
	prefix, suffix []byte

	// parts holds this layer's parts
	parts []Part
}

// WriteTo writes the Multipart header and parts to the destination io.Writer.
// This method will fail with an error if the given message does not have a
// Content-Type boundary parameter set. May return an error on an IO error as
// well.
func (mm *Multipart) WriteTo(w io.Writer) (int64, error) {
	boundary, err := mm.GetBoundary()
	if err != nil {
		return 0, err
	}

	br := mm.Break()

	n, err := mm.Header.WriteTo(w)
	if err != nil {
		return n, err
	}

	pn, err := w.Write(mm.prefix)
	n += int64(pn)
	if err != nil {
		return n, err
	}

	for i, part := range mm.parts {
		if i > 0 {
			bn, err := fmt.Fprint(w, br)
			n += int64(bn)
			if err != nil {
				return n, err
			}
		}

		bn, err := fmt.Fprintf(w, "--%s%s", boundary, br)
		n += int64(bn)
		if err != nil {
			return n, err
		}

		pn, err := part.WriteTo(w)
		n += pn
		if err != nil {
			return n, err
		}
	}

	if mm.suffix != nil {
		bn, err := fmt.Fprintf(w, "%s--%s--", br, boundary)
		n += int64(bn)
		if err != nil {
			return n, err
		}
	}

	sn, err := w.Write(mm.suffix)
	n += int64(sn)
	return n, err
}

// IsMultipart always returns true.
func (mm *Multipart) IsMultipart() bool {
	return true
}

// IsEncoded always returns false.
func (mm *Multipart) IsEncoded() bool {
	return false
}

// GetHeader returns the header for the message.
func (mm *Multipart) GetHeader() *header.Header {
	return &mm.Header
}

// GetContent always returns nil.
func (mm *Multipart) GetContent() []byte {
	return nil
}

// GetParts returns the sub-parts of this message or nil if there aren't any.
func (mm *Multipart) GetParts() []Part {
	return mm.parts
}

// Preamble returns the bytes found before the first boundary.
func (mm *Multipart) Preamble() []byte {
	return mm.prefix
}

// Epilogue returns the bytes found after the final boundary.
func (mm *Multipart) Epilogue() []byte {
	return mm.suffix
}
