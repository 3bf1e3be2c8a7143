package message

import (
	"io"

	"github.com/zostay/go-mailcore/message/header"
	"github.com/zostay/go-mailcore/message/transfer"
)

// Opaque is the base-level email message. It is simply a header and a message
// body, very similar to the net/mail message implementation. The whole body is
// held in memory.
type Opaque struct {
	// Header will contain the header of the message. A top-level message must
	// have several headers to be correct. A message part should have one or
	// more headers as well.
	header.Header

	// Content holds the body of the message, or nil for an empty body.
	Content []byte

	// encoded tracks whether Content still has its transfer encoding applied.
	//
	// - parsing leaves encoding in place by default (unless
	// DecodeTransferEncoding() option is specified)
	//
	// - creating an opaque with a buffer will leave this false unless the
	// object is constructed using OpaqueAlreadyEncoded
	encoded bool
}

// WriteTo writes the Opaque header and body to the destination io.Writer.
//
// If the Content-Transfer-Encoding of the body has been decoded (e.g., the
// message was parsed with the DecodeTransferEncoding() option or was created
// via a Buffer), then the body is encoded as it is written.
func (m *Opaque) WriteTo(w io.Writer) (int64, error) {
	content := m.Content
	if !m.encoded && len(content) > 0 {
		var err error
		content, err = transfer.Encode(&m.Header, content)
		if err != nil {
			return 0, err
		}
	}

	total, err := m.Header.WriteTo(w)
	if err != nil {
		return total, err
	}

	n, err := w.Write(content)
	total += int64(n)
	return total, err
}

// IsMultipart always returns false.
func (m *Opaque) IsMultipart() bool {
	return false
}

// IsEncoded returns true if the Content-Transfer-Encoding has not been decoded
// for the bytes held in Content. It will return false if that decoding has been
// performed.
//
// Be aware that a false value here does not mean any actual changes to the
// bytes have been made. If the Content-Transfer-Encoding is set to something
// like "8bit", the bytes are the same either way.
func (m *Opaque) IsEncoded() bool {
	return m.encoded
}

// GetHeader returns the header for the message.
func (m *Opaque) GetHeader() *header.Header {
	return &m.Header
}

// GetContent returns the body of the message.
//
// If IsEncoded() returns false, these bytes may differ from the bytes that
// WriteTo() writes, because WriteTo() will encode them anew.
func (m *Opaque) GetContent() []byte {
	return m.Content
}

// GetParts always returns nil.
func (m *Opaque) GetParts() []Part {
	return nil
}
