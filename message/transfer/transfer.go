package transfer

import (
	"bytes"
	"io"
	"strings"

	"github.com/zostay/go-mailcore/message/header"
)

// Names of the Content-Transfer-Encoding values known to this package.
const (
	None            = ""                 // bytes will be left as-is
	Bit7            = "7bit"             // bytes will be left as-is
	Bit8            = "8bit"             // bytes will be left as-is
	Binary          = "binary"           // bytes will be left as-is
	QuotedPrintable = "quoted-printable" // bytes will be transformed between quoted-printable and binary data
	Base64          = "base64"           // bytes will be transformed between base64 and binary data
)

// writer is an internal type to make as-is writers work properly.
type writer struct {
	io.Writer
	io.Closer
}

// Close closes the nested closer, if there is one.
func (w *writer) Close() error {
	if w.Closer != nil {
		return w.Closer.Close()
	}
	return nil
}

// Transcoding is a pair of functions that can be used to transform to and from
// a transfer encoding.
type Transcoding struct {
	// Encoder returns an io.WriteCloser, which will encode binary data and
	// write the encoded form to the given io.Writer. Encodings that wrap lines
	// use the given line break. You must call Close() on the returned
	// io.WriteCloser when you are finished.
	Encoder func(io.Writer, header.Break) io.WriteCloser

	// Decoder returns an io.Reader, which will read from the given io.Reader
	// when read and decode the encoded data back into binary form.
	Decoder func(io.Reader) io.Reader
}

// AsIsTranscoder is just a shortcut to a no-op encoder/decoder.
var AsIsTranscoder = Transcoding{NewAsIsEncoder, NewAsIsDecoder}

// Transcodings defines the supported Content-Transfer-Encodings and how to
// handle them.
var Transcodings = map[string]Transcoding{
	None:            AsIsTranscoder,
	Bit7:            AsIsTranscoder,
	Bit8:            AsIsTranscoder,
	Binary:          AsIsTranscoder,
	QuotedPrintable: {NewQuotedPrintableEncoder, NewQuotedPrintableDecoder},
	Base64:          {NewBase64Encoder, NewBase64Decoder},
}

// lookup finds the transcoding for the named encoding. Unknown encodings are
// treated as-is.
func lookup(cte string) Transcoding {
	if tc, ok := Transcodings[strings.ToLower(strings.TrimSpace(cte))]; ok {
		return tc
	}
	return AsIsTranscoder
}

// ApplyTransferEncoding is a helper that will check the given header to see if
// transfer encoding ought to be performed. It will return an io.WriteCloser
// that will write the encoding (or just pass data through if no encoding is
// necessary).
//
// You must call Close() on the returned io.WriteCloser when you are finished
// writing.
func ApplyTransferEncoding(h *header.Header, w io.Writer) io.WriteCloser {
	cte, err := h.GetTransferEncoding()
	if err != nil {
		return &writer{w, nil}
	}

	return lookup(cte).Encoder(w, h.Break())
}

// ApplyTransferDecoding returns an io.Reader that will modify incoming bytes
// according to the transfer encoding detected from the given header. (Or the
// io.Reader will leave the bytes as is if there's no transfer encoding or the
// transfer encoding is one that is interpreted as-is).
func ApplyTransferDecoding(h *header.Header, r io.Reader) io.Reader {
	// multipart bodies never carry a transfer encoding of their own
	ct, err := h.GetContentType()
	if err == nil && ct.Type() == "multipart" {
		return r
	}

	cte, err := h.GetTransferEncoding()
	if err != nil {
		return r
	}

	return lookup(cte).Decoder(r)
}

// Encode transfer-encodes the whole content according to the header.
func Encode(h *header.Header, content []byte) ([]byte, error) {
	var buf bytes.Buffer
	buf.Grow(len(content) * 4 / 3)

	w := ApplyTransferEncoding(h, &buf)
	if _, err := w.Write(content); err != nil {
		return nil, err
	}

	if err := w.Close(); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// Decode transfer-decodes the whole content according to the header. On
// error, the bytes decoded so far are returned along with the error.
func Decode(h *header.Header, content []byte) ([]byte, error) {
	return io.ReadAll(ApplyTransferDecoding(h, bytes.NewReader(content)))
}
