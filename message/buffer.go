package message

import (
	"bytes"
	"errors"

	"github.com/zostay/go-mailcore/message/header"
)

const (
	// DefaultMultipartContentType is the Content-Type to use with a multipart
	// message when no explicit Content-Type header has been set.
	DefaultMultipartContentType = "multipart/mixed"
)

// BufferMode tells which way a Buffer has been used.
type BufferMode int

const (
	// ModeUnset indicates that the Buffer has not yet been modified.
	ModeUnset BufferMode = iota

	// ModeSingle indicates that the Buffer has been used as an io.Writer.
	ModeSingle

	// ModeMultipart indicates that the Buffer has had the parts manipulated.
	ModeMultipart
)

var (
	// ErrPartsBuffer is returned by Write() if that method is called after
	// calling the Add() method.
	ErrPartsBuffer = errors.New("message buffer is in parts mode")

	// ErrOpaqueBuffer is returned by Add() if that method is called after
	// calling the Write() method.
	ErrOpaqueBuffer = errors.New("message buffer is in opaque mode")

	// ErrModeUnset is returned by Multipart() when it is called before
	// anything has been written to the current buffer.
	ErrModeUnset = errors.New("no message has been built")

	// ErrParsesAsNotMultipart is returned by Multipart() when the Buffer is in
	// ModeSingle and the message is not at all a *Multipart message.
	ErrParsesAsNotMultipart = errors.New("cannot parse non-multipart message as multipart")
)

// Buffer provides tools for constructing email messages. It can operate in
// either of two modes, depending on how you want to construct your message.
//
// * Single mode. When you use the Buffer as an io.Writer by calling the Write()
// method, you have chosen to treat the email message as a collection of bytes.
//
// * Multipart mode. When you use the Buffer to manipulate the parts of the
// message, such as calling the Add() method, you have chosen to treat the email
// message as a collection of sub-parts.
//
// You may not use a Buffer in both modes. If you call the Write() method first,
// then any subsequent call to the Add() method will panic with
// ErrOpaqueBuffer. If you call the Add() method first, then any call to the
// Write() method will return ErrPartsBuffer.
//
// A Buffer is meant to be filled in and then turned into a message once. The
// message it returns shares the Buffer's parts and content, so the Buffer
// should be thrown away afterward.
type Buffer struct {
	header.Header
	parts    []Part
	buf      *bytes.Buffer
	preamble string
}

// NewBuffer returns a Buffer whose header uses the given line break.
func NewBuffer(lb header.Break) *Buffer {
	b := &Buffer{}
	b.SetBreak(lb)
	return b
}

// Mode returns a constant that indicates what mode the Buffer is in. Until a
// modification method is called, this will return ModeUnset. Once a
// modification method is called, it will return ModeSingle if the Buffer has
// been used as an io.Writer or ModeMultipart if parts have been added to the
// Buffer.
func (b *Buffer) Mode() BufferMode {
	if b.parts != nil {
		return ModeMultipart
	} else if b.buf != nil {
		return ModeSingle
	}
	return ModeUnset
}

// SetMultipart sets the Mode of the buffer to ModeMultipart and reserves room
// for the given number of parts. This will panic if the mode is already
// ModeSingle.
func (b *Buffer) SetMultipart(capacity int) {
	if err := b.initParts(capacity); err != nil {
		panic(err)
	}
}

// SetSingle sets the Mode of the buffer to ModeSingle. This is useful when the
// message content is to be empty. This will panic if the mode is already
// ModeMultipart.
func (b *Buffer) SetSingle() {
	if err := b.initBuffer(); err != nil {
		panic(err)
	}
}

// SetPreamble sets the text written before the first boundary of a multipart
// message, for readers that cannot make sense of MIME.
func (b *Buffer) SetPreamble(p string) {
	b.preamble = p
}

func (b *Buffer) initBuffer() error {
	if b.parts != nil {
		return ErrPartsBuffer
	}
	if b.buf == nil {
		b.buf = &bytes.Buffer{}
	}
	return nil
}

func (b *Buffer) initParts(capacity int) error {
	if capacity == 0 {
		capacity = 10
	}
	if b.buf != nil {
		return ErrOpaqueBuffer
	}
	if b.parts == nil {
		b.parts = make([]Part, 0, capacity)
	}
	return nil
}

// Add will add one or more parts to the message. It will panic if you attempt
// to call this function after already calling Write() or using this object as
// an io.Writer.
func (b *Buffer) Add(msgs ...Part) {
	if err := b.initParts(0); err != nil {
		panic(err)
	}
	b.parts = append(b.parts, msgs...)
}

// Write implements io.Writer so you can write the message to this buffer. It
// returns ErrPartsBuffer if Add() has already been called.
func (b *Buffer) Write(p []byte) (int, error) {
	if err := b.initBuffer(); err != nil {
		return 0, err
	}
	return b.buf.Write(p)
}

// WriteString is the same as Write, but takes a string.
func (b *Buffer) WriteString(s string) (int, error) {
	return b.Write([]byte(s))
}

func (b *Buffer) prepareForMultipartOutput() {
	if _, err := b.GetMediaType(); errors.Is(err, header.ErrNoSuchField) {
		b.SetMediaType(DefaultMultipartContentType)
	}

	if _, err := b.GetBoundary(); errors.Is(err, header.ErrNoSuchFieldParameter) {
		_ = b.SetBoundary(GenerateBoundary())
	}
}

// Opaque will return an Opaque message based upon the content written to the
// Buffer. The behavior of this method depends on which mode the Buffer is in.
//
// This method will panic if the BufferMode is ModeUnset.
//
// If the BufferMode is ModeSingle, the Header and the bytes written to the
// internal buffer will be returned in the *Opaque.
//
// If the BufferMode is ModeMultipart, the parts will be serialized into a byte
// buffer and that will be attached with the Header to the returned *Opaque
// object. If no multipart Content-Type has been set, DefaultMultipartContentType
// is used, and a boundary is generated when none is set.
func (b *Buffer) Opaque() *Opaque {
	switch b.Mode() {
	case ModeSingle:
		return &Opaque{
			Header:  b.Header,
			Content: b.buf.Bytes(),
		}
	case ModeMultipart:
		mm, _ := b.Multipart()

		var body bytes.Buffer
		hlen := int64(len(mm.Header.Bytes()))
		if _, err := mm.WriteTo(&body); err != nil {
			return &Opaque{Header: b.Header}
		}

		return &Opaque{
			Header:  b.Header,
			Content: body.Bytes()[hlen:],
			encoded: true,
		}
	case ModeUnset:
		panic(ErrModeUnset)
	}
	panic("unknown buffer mode")
}

// OpaqueAlreadyEncoded works just like Opaque(), but marks the object as
// already having the Content-Transfer-Encoding applied. Use this when you write
// a message in encoded form.
//
// NOTE: This does not perform any encoding! If you want the output to be
// automatically encoded, you actually want to call Opaque() and then WriteTo()
// on the returned object will perform encoding.
func (b *Buffer) OpaqueAlreadyEncoded() *Opaque {
	msg := b.Opaque()
	msg.encoded = true
	return msg
}

// Multipart will return a Multipart message based upon the content written to
// the Buffer.
//
// If no multipart Content-Type has been set, DefaultMultipartContentType is
// used. A boundary is generated when none is set.
//
// If the BufferMode is ModeUnset, this method returns ErrModeUnset.
//
// If the BufferMode is ModeSingle, the bytes that have been written to the
// buffer are parsed, one level deep, to generate the returned *Multipart.
// If they do not parse as multipart, ErrParsesAsNotMultipart is returned.
//
// If the BufferMode is ModeMultipart, the Header, preamble, and collected parts
// will be returned in the returned *Multipart.
func (b *Buffer) Multipart() (*Multipart, error) {
	switch b.Mode() {
	case ModeSingle:
		b.prepareForMultipartOutput()
		msg := &Opaque{Header: b.Header, Content: b.buf.Bytes(), encoded: true}
		pr := defaultParser.clone()
		WithoutRecursion()(pr)
		gmsg, err := pr.parse(msg, 0)
		if mm, isMultipart := gmsg.(*Multipart); isMultipart {
			return mm, err
		}
		if err != nil {
			return nil, err
		}
		return nil, ErrParsesAsNotMultipart
	case ModeMultipart:
		b.prepareForMultipartOutput()
		br := b.Break().String()

		prefix := []byte{}
		if b.preamble != "" {
			prefix = []byte(b.preamble + br)
		}

		return &Multipart{
			Header: b.Header,
			prefix: prefix,
			suffix: []byte(br),
			parts:  b.parts,
		}, nil
	}
	return nil, ErrModeUnset
}
