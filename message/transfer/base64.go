package transfer

import (
	"bytes"
	"encoding/base64"
	"io"

	"github.com/zostay/go-mailcore/message/header"
)

const defaultBase64LineLength = 76

// newlineWriter inserts a line break after every `every` bytes written.
type newlineWriter struct {
	every int
	acc   int
	lbr   []byte
	w     io.Writer
}

func (nw *newlineWriter) Write(b []byte) (int, error) {
	n := 0
	for len(b)+nw.acc > nw.every {
		chunk := nw.every - nw.acc
		ln, err := nw.w.Write(b[:chunk])
		n += ln
		if err != nil {
			return n, err
		}

		if _, err = nw.w.Write(nw.lbr); err != nil {
			return n, err
		}

		b = b[chunk:]
		nw.acc = 0
	}

	ln, err := nw.w.Write(b)
	n += ln
	nw.acc += ln

	return n, err
}

// Close ends the last line, if one was started.
func (nw *newlineWriter) Close() error {
	if nw.acc == 0 {
		return nil
	}

	nw.acc = 0
	_, err := nw.w.Write(nw.lbr)
	return err
}

// base64Writer flushes the encoder before it ends the last line.
type base64Writer struct {
	enc io.WriteCloser
	nw  *newlineWriter
}

func (bw *base64Writer) Write(b []byte) (int, error) {
	return bw.enc.Write(b)
}

func (bw *base64Writer) Close() error {
	if err := bw.enc.Close(); err != nil {
		return err
	}
	return bw.nw.Close()
}

// NewBase64Encoder will translate all bytes written to the returned
// io.WriteCloser into base64 encoding and write those to the given io.Writer.
// Output lines are wrapped at 76 characters with the given line break.
func NewBase64Encoder(w io.Writer, lbr header.Break) io.WriteCloser {
	if lbr == header.Meh {
		lbr = header.CRLF
	}

	nw := &newlineWriter{
		every: defaultBase64LineLength,
		lbr:   lbr.Bytes(),
		w:     w,
	}

	return &base64Writer{base64.NewEncoder(base64.StdEncoding, nw), nw}
}

// NewBase64Decoder will translate all bytes read from the given io.Reader as
// base64 and return the binary data to the returned io.Reader.
//
// Mail in the wild often has stray characters or missing padding in base64
// bodies, so anything outside the base64 alphabet is skipped and the padding
// is not required.
func NewBase64Decoder(r io.Reader) io.Reader {
	return &base64Reader{r: r}
}

// base64Reader reads the whole encoded body on first use.
type base64Reader struct {
	r   io.Reader
	out *bytes.Reader
	err error
}

func (br *base64Reader) Read(p []byte) (int, error) {
	if br.out == nil {
		br.fill()
	}

	n, err := br.out.Read(p)
	if err == io.EOF && br.err != nil {
		return n, br.err
	}
	return n, err
}

func (br *base64Reader) fill() {
	in, err := io.ReadAll(br.r)
	if err != nil {
		br.err = err
	}

	clean := make([]byte, 0, len(in))
	for _, c := range in {
		switch {
		case c >= 'A' && c <= 'Z', c >= 'a' && c <= 'z', c >= '0' && c <= '9', c == '+', c == '/':
			clean = append(clean, c)
		}
	}

	// a lone trailing character cannot encode anything
	if len(clean)%4 == 1 {
		clean = clean[:len(clean)-1]
	}

	out := make([]byte, base64.RawStdEncoding.DecodedLen(len(clean)))
	n, err := base64.RawStdEncoding.Decode(out, clean)
	if err != nil && br.err == nil {
		br.err = err
	}

	br.out = bytes.NewReader(out[:n])
}
