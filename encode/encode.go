package encode

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/zostay/go-mailcore/message"
	"github.com/zostay/go-mailcore/part"
)

// Mode selects how a Request is turned into a message.
type Mode string

const (
	ModePlain       Mode = "plain"
	ModePGPMIME     Mode = "pgpArmoredBody"
	ModeArmoredText Mode = "pgpArmoredWithHeaders"
	ModeAnnotated   Mode = "headerAnnotated"
)

// ErrUnknownMode is returned for a Mode not listed above.
var ErrUnknownMode = errors.New("unknown encode mode")

// ParseMode returns the Mode named by s. An empty string is ModePlain.
func ParseMode(s string) (Mode, error) {
	switch m := Mode(s); m {
	case "":
		return ModePlain, nil
	case ModePlain, ModePGPMIME, ModeArmoredText, ModeAnnotated:
		return m, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownMode, s)
}

// Attachment is a file to attach to the message.
type Attachment struct {
	Name    string
	Content []byte

	// Size is the size counted against the quota. When it is zero the length
	// of Content is used.
	Size int64

	// MediaType is the type of the content. When empty, it is guessed from
	// the extension of Name.
	MediaType string
}

func (a *Attachment) size() int64 {
	if a.Size > 0 {
		return a.Size
	}
	return int64(len(a.Content))
}

// Request describes the message to build.
type Request struct {
	Mode Mode

	// Message is the text body in ModePlain and ModeAnnotated and the
	// armored PGP message in the other modes.
	Message string

	Attachments []Attachment

	// Quota is the most bytes the message content may add up to. Nil means
	// there is no limit.
	Quota *int64

	From    string
	To      []string
	Cc      []string
	Subject string

	// ForceMultipart makes ModePlain build a multipart message even when
	// there are no attachments.
	ForceMultipart bool
}

// Encoder builds messages. It holds no state between calls and may be shared
// between goroutines.
type Encoder struct {
	logger      *slog.Logger
	boundary    func() string
	newID       func() string
	verifyArmor bool
}

// Option configures an Encoder.
type Option func(*Encoder)

// WithLogger sets the logger. The default is slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(e *Encoder) { e.logger = l }
}

// WithBoundary sets the function used to make multipart boundaries. The
// default is message.GenerateBoundary.
func WithBoundary(f func() string) Option {
	return func(e *Encoder) { e.boundary = f }
}

// WithIDGenerator sets the function used to make attachment ids in
// ModeAnnotated. The default makes random UUIDs.
func WithIDGenerator(f func() string) Option {
	return func(e *Encoder) { e.newID = f }
}

// WithArmorCheck turns on checking that the message of the PGP modes is an
// ASCII-armored PGP message.
func WithArmorCheck(verify bool) Option {
	return func(e *Encoder) { e.verifyArmor = verify }
}

// New returns an Encoder.
func New(opts ...Option) *Encoder {
	e := &Encoder{}
	for _, opt := range opts {
		opt(e)
	}

	if e.logger == nil {
		e.logger = slog.Default()
	}
	if e.boundary == nil {
		e.boundary = message.GenerateBoundary
	}
	if e.newID == nil {
		e.newID = uuid.NewString
	}

	return e
}

// Encode builds the message with an Encoder using the default options.
func Encode(req *Request) ([]byte, error) {
	return New().Encode(req)
}

// Encode builds the message described by req and returns its bytes. Lines end
// in CRLF.
//
// When the message goes out as a multipart text part, it is quoted-printable
// encoded in canonical form, so each "\n" in Message decodes back as "\r\n".
// A message sent bare, with no container, keeps its bytes as given.
//
// The part tree is built first, counting bytes against the quota as each
// piece is added. If the quota is exceeded the build stops and a *QuotaError
// is returned with no output.
func (e *Encoder) Encode(req *Request) ([]byte, error) {
	b := &builder{Encoder: e, req: req, quota: quota{limit: req.Quota}}

	var (
		root *part.Part
		err  error
	)

	switch req.Mode {
	case ModePlain, "":
		root, err = b.plain()
	case ModePGPMIME:
		root, err = b.pgpMIME()
	case ModeArmoredText:
		root, err = b.armoredText()
	case ModeAnnotated:
		root, err = b.annotated()
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownMode, req.Mode)
	}

	if err != nil {
		e.logger.Debug("message build failed",
			slog.String("mode", string(req.Mode)),
			slog.String("error", err.Error()))
		return nil, err
	}

	// plain mode with nothing to attach
	if root == nil {
		return []byte(req.Message), nil
	}

	msg, err := root.Message()
	if err != nil {
		return nil, fmt.Errorf("prepare message: %w", err)
	}

	var out bytes.Buffer
	if _, err := msg.WriteTo(&out); err != nil {
		return nil, fmt.Errorf("write message: %w", err)
	}

	e.logger.Debug("message built",
		slog.String("mode", string(req.Mode)),
		slog.Int64("content", b.quota.total),
		slog.Int("size", out.Len()))

	return out.Bytes(), nil
}
