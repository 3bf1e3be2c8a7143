package decode

import (
	"context"
	"errors"
	"fmt"
	"html"
	"log/slog"
	"strings"

	"github.com/zostay/go-mailcore/htmlconv"
	"github.com/zostay/go-mailcore/part"
)

// Encoding names the form the caller wants the body rendered in.
type Encoding string

const (
	HTML Encoding = "html" // sanitized HTML, the default
	Text Encoding = "text" // plain text
)

// ErrUnknownEncoding is returned for an Encoding other than HTML or Text.
var ErrUnknownEncoding = errors.New("unknown body encoding")

// ParseEncoding returns the Encoding named by s. An empty string is HTML.
func ParseEncoding(s string) (Encoding, error) {
	switch e := Encoding(strings.ToLower(strings.TrimSpace(s))); e {
	case "":
		return HTML, nil
	case HTML, Text:
		return e, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownEncoding, s)
}

// Options control a single decode.
type Options struct {
	// Encoding selects the rendering of the body. The zero value is HTML.
	Encoding Encoding

	// NoEvent asks for OnMessage to be called even when no body was found,
	// in which case it receives the empty string.
	NoEvent bool
}

// Attachment is an attachment found in a message.
type Attachment struct {
	// Filename is escaped for HTML so it can be shown as is.
	Filename  string
	Content   []byte
	Size      int
	MediaType string
	ContentID string
}

// Callbacks receive the results of a decode. Any of them may be nil.
//
// OnEnvelope is called first, then OnAttachment once per attachment in tree
// order, then OnMessage.
type Callbacks struct {
	OnMessage    func(body string)
	OnAttachment func(a *Attachment)
	OnEnvelope   func(e *Envelope)
}

// Decoder decodes messages. It holds no state between calls and may be shared
// between goroutines.
type Decoder struct {
	logger    *slog.Logger
	parser    part.Parser
	sanitizer htmlconv.Sanitizer
	converter htmlconv.Converter
}

// Option configures a Decoder.
type Option func(*Decoder)

// WithParser replaces the structural parser.
func WithParser(p part.Parser) Option {
	return func(d *Decoder) { d.parser = p }
}

// WithSanitizer replaces the sanitizer applied to HTML bodies.
func WithSanitizer(s htmlconv.Sanitizer) Option {
	return func(d *Decoder) { d.sanitizer = s }
}

// WithConverter replaces the text and HTML converter.
func WithConverter(c htmlconv.Converter) Option {
	return func(d *Decoder) { d.converter = c }
}

// WithLogger sets the logger. The default is slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(d *Decoder) { d.logger = l }
}

// New returns a Decoder. Collaborators not given as options are the defaults
// from the part and htmlconv packages.
func New(opts ...Option) *Decoder {
	d := &Decoder{}
	for _, opt := range opts {
		opt(d)
	}

	if d.logger == nil {
		d.logger = slog.Default()
	}
	if d.parser == nil {
		d.parser = part.NewParser(d.logger)
	}
	if d.sanitizer == nil {
		d.sanitizer = htmlconv.NewSanitizer()
	}
	if d.converter == nil {
		d.converter = htmlconv.DefaultConverter{}
	}

	return d
}

// Decode decodes a message held in a string. A MIME message is first narrowed
// to bytes with Narrow, so the string is expected to carry one byte per code
// point. Use DecodeBytes for raw bytes.
//
// The only error returned is one from the parser. A message whose structure
// cannot be made sense of is not an error: it simply has no body and no
// attachments.
func (d *Decoder) Decode(ctx context.Context, raw string, opts Options, cb Callbacks) error {
	if !IsMIME(raw) {
		return d.decodeInline(ctx, raw, opts, cb)
	}
	return d.decodeMIME(ctx, Narrow(raw), opts, cb)
}

// DecodeBytes works like Decode, but takes the message bytes as they are.
func (d *Decoder) DecodeBytes(ctx context.Context, raw []byte, opts Options, cb Callbacks) error {
	if !mimePattern.Match(raw) {
		return d.decodeInline(ctx, string(raw), opts, cb)
	}
	return d.decodeMIME(ctx, raw, opts, cb)
}

func encodingOf(opts Options) (Encoding, error) {
	return ParseEncoding(string(opts.Encoding))
}

func (d *Decoder) decodeMIME(ctx context.Context, raw []byte, opts Options, cb Callbacks) error {
	enc, err := encodingOf(opts)
	if err != nil {
		return err
	}

	d.logger.DebugContext(ctx, "decoding MIME message",
		slog.Int("size", len(raw)),
		slog.String("encoding", string(enc)))

	root, err := d.parser.Parse(ctx, raw)
	if err != nil {
		return fmt.Errorf("decode message: %w", err)
	}

	if root != nil && cb.OnEnvelope != nil {
		cb.OnEnvelope(envelopeOf(root.Header()))
	}

	body, hasBody := d.SelectBody(root, enc)

	atts := part.Collect(root, part.KindAttachment)
	d.logger.DebugContext(ctx, "decoded MIME message",
		slog.Bool("body", hasBody),
		slog.Int("attachments", len(atts)))

	if cb.OnAttachment != nil {
		for _, p := range atts {
			cb.OnAttachment(attachmentOf(p))
		}
	}

	if cb.OnMessage != nil && (hasBody || opts.NoEvent) {
		cb.OnMessage(body)
	}

	return nil
}

func attachmentOf(p *part.Part) *Attachment {
	data := make([]byte, len(p.Data()))
	copy(data, p.Data())

	return &Attachment{
		Filename:  html.EscapeString(p.Filename()),
		Content:   data,
		Size:      len(data),
		MediaType: p.MediaType(),
		ContentID: p.ContentID(),
	}
}

// legacyHTMLMarkers are the closing tags that give away HTML sent without a
// MIME header.
var legacyHTMLMarkers = []string{"</a>", "<br>", "</div>", "</p>", "</b>", "</u>", "</i>", "</ul>", "</li>"}

// LooksLikeHTML reports whether s contains any of the markup that legacy mail
// clients put in bodies sent without a Content-Type.
func LooksLikeHTML(s string) bool {
	for _, m := range legacyHTMLMarkers {
		if strings.Contains(s, m) {
			return true
		}
	}
	return false
}

func (d *Decoder) decodeInline(ctx context.Context, raw string, opts Options, cb Callbacks) error {
	enc, err := encodingOf(opts)
	if err != nil {
		return err
	}

	d.logger.DebugContext(ctx, "decoding inline message",
		slog.Int("size", len(raw)),
		slog.String("encoding", string(enc)))

	if cb.OnMessage != nil {
		cb.OnMessage(d.renderInline(raw, enc))
	}

	return nil
}

func (d *Decoder) renderInline(raw string, enc Encoding) string {
	if enc == Text {
		if LooksLikeHTML(raw) {
			return d.converter.HTMLToText(raw)
		}
		return raw
	}
	return d.converter.TextToHTML(raw)
}

// SelectBody chooses the body of a part tree for the given encoding.
//
// For HTML, every html part is sanitized and the results are joined with
// <hr>. When there are none, every text part is rendered as HTML and the
// results are joined together. For Text, every text part is joined with a
// blank line. When there are none, every html part is converted to plain
// text and joined with a blank line.
//
// It returns false when the tree has neither text nor html parts.
func (d *Decoder) SelectBody(root *part.Part, enc Encoding) (string, bool) {
	texts := part.Collect(root, part.KindText)
	htmls := part.Collect(root, part.KindHTML)

	render := func(ps []*part.Part, sep string, f func(string) string) string {
		out := make([]string, len(ps))
		for i, p := range ps {
			out[i] = f(p.Text())
		}
		return strings.Join(out, sep)
	}

	if enc == Text {
		switch {
		case len(texts) > 0:
			return render(texts, "\n\n", func(s string) string { return s }), true
		case len(htmls) > 0:
			return render(htmls, "\n\n", d.converter.HTMLToText), true
		}
		return "", false
	}

	switch {
	case len(htmls) > 0:
		return render(htmls, "<hr>", d.sanitizer.Sanitize), true
	case len(texts) > 0:
		return render(texts, "", d.converter.TextToHTML), true
	}
	return "", false
}

// Result gathers everything a decode delivers.
type Result struct {
	// Body is the rendered body. HasBody reports whether OnMessage was called
	// at all.
	Body    string
	HasBody bool

	Attachments []*Attachment

	// Envelope is nil for inline messages and for messages that did not
	// parse.
	Envelope *Envelope
}

// Collect runs Decode and gathers the callbacks into a Result.
func (d *Decoder) Collect(ctx context.Context, raw string, opts Options) (*Result, error) {
	res := &Result{}
	err := d.Decode(ctx, raw, opts, res.callbacks())
	if err != nil {
		return nil, err
	}
	return res, nil
}

// CollectBytes runs DecodeBytes and gathers the callbacks into a Result.
func (d *Decoder) CollectBytes(ctx context.Context, raw []byte, opts Options) (*Result, error) {
	res := &Result{}
	err := d.DecodeBytes(ctx, raw, opts, res.callbacks())
	if err != nil {
		return nil, err
	}
	return res, nil
}

func (r *Result) callbacks() Callbacks {
	return Callbacks{
		OnMessage: func(body string) {
			r.Body = body
			r.HasBody = true
		},
		OnAttachment: func(a *Attachment) {
			r.Attachments = append(r.Attachments, a)
		},
		OnEnvelope: func(e *Envelope) {
			r.Envelope = e
		},
	}
}
