package encode

import (
	"log/slog"
	"mime"
	"path/filepath"
	"github.com/zostay/go-addr/pkg/addr"

	"github.com/zostay/go-mailcore/message/header"
	"github.com/zostay/go-mailcore/message/header/param"
	"github.com/zostay/go-mailcore/message/transfer"
	"github.com/zostay/go-mailcore/part"
)

// Fixed text of the PGP/MIME structure.
const (
	PGPPreamble           = "This is an OpenPGP/MIME encrypted message (RFC 2440 and 3156)"
	PGPVersionDescription = "PGP/MIME version identification"
	PGPVersionBody        = "Version: 1"
	PGPMessageDescription = "OpenPGP encrypted message"
	PGPMessageFilename    = "encrypted.asc"
	PGPProtocol           = "application/pgp-encrypted"
)

// builder holds the state of a single Encode call.
type builder struct {
	*Encoder
	req   *Request
	quota quota
}

func (b *builder) count(what string, n int64) error {
	err := b.quota.add(n)
	b.logger.Debug("counted against quota",
		slog.String("what", what),
		slog.Int64("bytes", n),
		slog.Int64("total", b.quota.total))
	return err
}

func newHeader() *header.Header {
	return header.New(header.CRLF)
}

// addressList parses each entry, which may itself be a list, and joins the
// results in order.
func addressList(entries ...string) []addr.Address {
	var all []addr.Address
	for _, e := range entries {
		all = append(all, header.ParseAddressList(e)...)
	}
	return all
}

// addressed sets the addressing fields of the request on h. Cc is only set
// when given.
func (b *builder) addressed(h *header.Header, withCc bool) {
	h.SetAddressList(header.From, addressList(b.req.From)...)
	h.SetAddressList(header.To, addressList(b.req.To...)...)
	if withCc && len(b.req.Cc) > 0 {
		h.SetAddressList(header.Cc, addressList(b.req.Cc...)...)
	}
	h.SetSubject(b.req.Subject)
}

func (b *builder) container(h *header.Header, mt string, ps map[string]string) *header.Header {
	all := map[string]string{param.Boundary: b.boundary()}
	for k, v := range ps {
		all[k] = v
	}

	h.Set(header.MIMEVersion, "1.0")
	h.SetContentType(param.New(mt, all))
	return h
}

func (b *builder) textPart() *part.Part {
	h := newHeader()
	h.SetContentType(param.New(part.DefaultTextType, map[string]string{param.Charset: "utf-8"}))
	h.SetTransferEncoding(transfer.QuotedPrintable)
	return part.NewText(h, b.req.Message)
}

// mediaTypeOf picks the declared type, the type known for the extension of
// the name, or application/octet-stream, in that order.
func mediaTypeOf(a *Attachment) string {
	if a.MediaType != "" {
		if mt, _, err := mime.ParseMediaType(a.MediaType); err == nil {
			return mt
		}
	}

	if byExt := mime.TypeByExtension(filepath.Ext(a.Name)); byExt != "" {
		if mt, _, err := mime.ParseMediaType(byExt); err == nil {
			return mt
		}
	}

	return part.DefaultAttachmentType
}

func (b *builder) attachmentPart(a *Attachment, id string) *part.Part {
	h := newHeader()
	h.SetContentType(param.New(mediaTypeOf(a), map[string]string{param.Name: a.Name}))
	h.SetPresentation("attachment")
	_ = h.SetFilename(a.Name)
	h.SetTransferEncoding(transfer.Base64)
	if id != "" {
		h.Set(header.XAttachmentID, id)
		h.SetContentID(id)
	}
	return part.NewAttachment(h, a.Content)
}

// mixed builds the children shared by the plain and annotated modes.
func (b *builder) mixed(annotate bool) ([]*part.Part, error) {
	kids := make([]*part.Part, 0, len(b.req.Attachments)+1)

	if err := b.count("message", int64(len(b.req.Message))); err != nil {
		return nil, err
	}
	if b.req.Message != "" {
		kids = append(kids, b.textPart())
	}

	for i := range b.req.Attachments {
		a := &b.req.Attachments[i]
		if err := b.count("attachment", a.size()); err != nil {
			return nil, err
		}

		var id string
		if annotate {
			id = b.newID()
		}
		kids = append(kids, b.attachmentPart(a, id))
	}

	return kids, nil
}

// plain builds a multipart/mixed message. It returns a nil part when the
// message should be sent as the bare text.
func (b *builder) plain() (*part.Part, error) {
	kids, err := b.mixed(false)
	if err != nil {
		return nil, err
	}

	if len(b.req.Attachments) == 0 && !b.req.ForceMultipart {
		return nil, nil
	}

	h := b.container(newHeader(), part.DefaultContainerType, nil)
	return part.NewContainer(h, "", kids...), nil
}

// annotated builds a multipart/mixed message with addressing fields and
// attachment ids. It is always multipart.
func (b *builder) annotated() (*part.Part, error) {
	kids, err := b.mixed(true)
	if err != nil {
		return nil, err
	}

	h := newHeader()
	b.addressed(h, true)
	b.container(h, part.DefaultContainerType, nil)
	return part.NewContainer(h, "", kids...), nil
}

func (b *builder) armored() error {
	if b.verifyArmor {
		if err := checkArmor(b.req.Message); err != nil {
			return err
		}
	}
	return b.count("armor", int64(len(b.req.Message)))
}

// pgpMIME builds a multipart/encrypted message. The version part always comes
// before the encrypted part.
func (b *builder) pgpMIME() (*part.Part, error) {
	if err := b.armored(); err != nil {
		return nil, err
	}

	vh := newHeader()
	vh.SetContentType(param.New(PGPProtocol))
	vh.Set(header.ContentDescription, PGPVersionDescription)
	version := part.NewAttachment(vh, []byte(PGPVersionBody))

	eh := newHeader()
	eh.SetContentType(param.New(part.DefaultAttachmentType, map[string]string{param.Name: PGPMessageFilename}))
	eh.Set(header.ContentDescription, PGPMessageDescription)
	eh.SetPresentation("inline")
	_ = eh.SetFilename(PGPMessageFilename)
	encrypted := part.NewAttachment(eh, []byte(b.req.Message))

	h := newHeader()
	b.addressed(h, true)
	b.container(h, "multipart/encrypted", map[string]string{param.Protocol: PGPProtocol})

	return part.NewContainer(h, PGPPreamble, version, encrypted), nil
}

// armoredText builds a single text/plain message holding the armor.
func (b *builder) armoredText() (*part.Part, error) {
	if err := b.armored(); err != nil {
		return nil, err
	}

	h := newHeader()
	b.addressed(h, false)
	h.Set(header.MIMEVersion, "1.0")
	h.SetMediaType(part.DefaultTextType)

	return part.NewText(h, b.req.Message), nil
}
