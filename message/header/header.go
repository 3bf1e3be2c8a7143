package header

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/mail"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/zostay/go-addr/pkg/addr"

	"github.com/zostay/go-mailcore/message/header/param"
)

// Errors returned by various header methods and functions.
var (
	// ErrNoSuchField is returned by Header methods when the operation
	// being performed failed because the header named does not exist.
	ErrNoSuchField = errors.New("no such header field")

	// ErrNoSuchFieldParameter is returned by Header methods when the
	// operation being performed failed because the header exists, but a
	// sub-field of the header does not exist.
	ErrNoSuchFieldParameter = errors.New("no such header field parameter")

	// ErrManyFields is returned by Header methods when the operation
	// being performed failed because the there are multiple fields with the
	// given name.
	ErrManyFields = errors.New("many header fields found")
)

// These are the header fields this module reads or writes.
const (
	Bcc                     = "Bcc"
	Cc                      = "Cc"
	ContentDescription      = "Content-Description"
	ContentDisposition      = "Content-Disposition"
	ContentID               = "Content-ID"
	ContentTransferEncoding = "Content-Transfer-Encoding"
	ContentType             = "Content-Type"
	Date                    = "Date"
	From                    = "From"
	MIMEVersion             = "MIME-Version"
	MessageID               = "Message-ID"
	ReplyTo                 = "Reply-To"
	Subject                 = "Subject"
	To                      = "To"
	XAttachmentID           = "X-Attachment-Id"
)

// Even more custom date formats, built from those seen in the wild that the
// usual parsers have trouble with.
const (
	// UnixDateWithEarlyYear is a weird one, eh?
	UnixDateWithEarlyYear = "Mon Jan 02 15:04:05 2006 MST"
)

// Header is an ordered list of fields with the line break used to write them.
// Lookups by name are case-insensitive.
//
// The getter methods of this object will return an error if the field being
// fetched has not been set on the header. The error returned will be
// ErrNoSuchField.
//
// The zero value is an empty header that writes with CRLF line breaks.
type Header struct {
	lbr    Break
	fields []*Field
}

// New returns an empty header that will be written with the given line break.
func New(lb Break) *Header {
	return &Header{lbr: lb}
}

// Break returns the line break used by this header. A header without one
// uses CRLF.
func (h *Header) Break() Break {
	if h.lbr == Meh {
		return CRLF
	}
	return h.lbr
}

// SetBreak changes the line break the header will be written with.
func (h *Header) SetBreak(lb Break) {
	h.lbr = lb
}

// Len returns the number of fields in the header.
func (h *Header) Len() int {
	return len(h.fields)
}

// Fields returns the fields in order. The slice is a copy, but the fields are
// not.
func (h *Header) Fields() []*Field {
	return append([]*Field(nil), h.fields...)
}

// Clone returns a deep copy of the header object.
func (h *Header) Clone() *Header {
	c := &Header{lbr: h.lbr, fields: make([]*Field, len(h.fields))}
	for i, f := range h.fields {
		c.fields[i] = f.Clone()
	}
	return c
}

// GetIndexesNamed returns the positions of every field with the given name.
func (h *Header) GetIndexesNamed(name string) []int {
	m := strings.ToLower(name)
	var ixs []int
	for i, f := range h.fields {
		if f.Match() == m {
			ixs = append(ixs, i)
		}
	}
	return ixs
}

// Get retrieves the string value of the named field.
//
// If the named field is not set in the header, it will return an empty string
// with ErrNoSuchField. If there are multiple headers for the given named field,
// it will return the first value found and return ErrManyFields.
func (h *Header) Get(name string) (string, error) {
	ixs := h.GetIndexesNamed(name)
	if len(ixs) == 0 {
		return "", ErrNoSuchField
	}

	b := h.fields[ixs[0]].Body()
	if len(ixs) > 1 {
		return b, ErrManyFields
	}

	return b, nil
}

// GetAll fetches all the header field bodies for fields with the given
// name and returns them as a slice of strings.
//
// It returns nil with ErrNoSuchField if no field with the given name is set on
// the header.
func (h *Header) GetAll(name string) ([]string, error) {
	ixs := h.GetIndexesNamed(name)
	if len(ixs) == 0 {
		return nil, ErrNoSuchField
	}

	bs := make([]string, len(ixs))
	for i, ix := range ixs {
		bs[i] = h.fields[ix].Body()
	}

	return bs, nil
}

// Add appends a new field to the end of the header.
func (h *Header) Add(name, body string) {
	h.fields = append(h.fields, NewField(name, body))
}

// Set will replace all existing header fields with the given name with a single
// header field with the given name and body. If the field already exists on the
// header, then the first occurrence will be replaced with this value and any
// other values will be deleted. If the field does not exist, it will be
// appended to the end of the header.
func (h *Header) Set(name, body string) {
	ixs := h.GetIndexesNamed(name)
	if len(ixs) == 0 {
		h.Add(name, body)
		return
	}

	for i := len(ixs) - 1; i > 0; i-- {
		h.deleteField(ixs[i])
	}

	f := h.fields[ixs[0]]
	f.SetName(name)
	f.SetBody(body)
}

// SetAll replaces all the header fields with the given name with the
// bodies given. Existing fields keep their position. Extra bodies are
// appended to the end of the header and surplus fields are removed.
func (h *Header) SetAll(name string, bodies ...string) {
	ixs := h.GetIndexesNamed(name)

	for i, b := range bodies {
		if i < len(ixs) {
			h.fields[ixs[i]].SetBody(b)
			continue
		}
		h.Add(name, b)
	}

	for i := len(ixs) - 1; i >= len(bodies); i-- {
		h.deleteField(ixs[i])
	}
}

// Delete removes every field with the given name and reports how many were
// removed.
func (h *Header) Delete(name string) int {
	ixs := h.GetIndexesNamed(name)
	for i := len(ixs) - 1; i >= 0; i-- {
		h.deleteField(ixs[i])
	}
	return len(ixs)
}

func (h *Header) deleteField(ix int) {
	h.fields = append(h.fields[:ix], h.fields[ix+1:]...)
}

// WriteTo writes every field followed by the blank line that ends the header.
func (h *Header) WriteTo(w io.Writer) (int64, error) {
	lb := h.Break().Bytes()

	var total int64
	for _, f := range h.fields {
		n, err := w.Write(f.Bytes())
		total += int64(n)
		if err != nil {
			return total, err
		}

		n, err = w.Write(lb)
		total += int64(n)
		if err != nil {
			return total, err
		}
	}

	n, err := w.Write(lb)
	total += int64(n)
	return total, err
}

// Bytes returns the header as it will be written by WriteTo.
func (h *Header) Bytes() []byte {
	var buf bytes.Buffer
	_, _ = h.WriteTo(&buf)
	return buf.Bytes()
}

// String returns the header as it will be written by WriteTo.
func (h *Header) String() string {
	return string(h.Bytes())
}

// ParseTime is a function that provides the time parsing used by GetTime() and
// GetDate() to parse dates to be used on any field body. This will attempt to
// parse the date using the format specified by RFC 5322 first and fallback to
// parsing it in many other formats.
//
// It either returns a parsed time or the parse error.
func ParseTime(body string) (time.Time, error) {
	t, err := mail.ParseDate(body)
	if err == nil {
		return t, nil
	}

	t, err = dateparse.ParseAny(body)
	if err == nil {
		return t, nil
	}

	t, err = time.Parse(UnixDateWithEarlyYear, body)
	if err == nil {
		return t, nil
	}

	return t, fmt.Errorf("time string %q cannot be parsed", body)
}

// GetTime gets the given date header field as a time.Time. It will attempt to
// parse the date in many formats, not just the format specified by RFC 5322
// (though, it will try that first).
//
// It will return the zero value and ErrNoSuchField if the header does not
// exist.
func (h *Header) GetTime(name string) (time.Time, error) {
	body, err := h.Get(name)
	if err != nil && !errors.Is(err, ErrManyFields) {
		return time.Time{}, err
	}

	return ParseTime(body)
}

// GetDate retrieves the Date header as a time.Time value.
func (h *Header) GetDate() (time.Time, error) {
	return h.GetTime(Date)
}

// ParseAddressList provides the address parsing used by GetAddressList() and
// can be used to parse any field body. It will attempt a strict parse of the
// email address list. If that fails, an extremely lenient parsing is
// attempted instead. It will return some kind of value for any input.
func ParseAddressList(body string) addr.AddressList {
	al, err := addr.ParseEmailAddressList(body)
	if err != nil {
		al = parseEmailAddressList(body)
	}

	return al
}

// GetAddressList will return an addr.AddressList for the named field. This
// method works hard to avoid parse errors and tries to accept anything. As such
// a badly formatted address field might return a weird address value.
//
// It will return nil and ErrNoSuchField if the field is not set on the header.
func (h *Header) GetAddressList(name string) (addr.AddressList, error) {
	body, err := h.Get(name)
	if err != nil && !errors.Is(err, ErrManyFields) {
		return nil, err
	}

	return ParseAddressList(DecodeWords(body)), nil
}

// SetAddressList will replace all existing header fields with the given name
// with a single header containing the given addresses.
func (h *Header) SetAddressList(name string, body ...addr.Address) {
	h.Set(name, addr.AddressList(body).String())
}

// GetFrom returns the From address field as an addr.AddressList.
func (h *Header) GetFrom() (addr.AddressList, error) {
	return h.GetAddressList(From)
}

// GetTo returns the To address field as an addr.AddressList.
func (h *Header) GetTo() (addr.AddressList, error) {
	return h.GetAddressList(To)
}

// GetCc returns the Cc address field as an addr.AddressList.
func (h *Header) GetCc() (addr.AddressList, error) {
	return h.GetAddressList(Cc)
}

// GetParamValue will return a param.Value for the header field matching the
// given name.
//
// This will return an error if it is unable to parse a param.Value. This will
// ErrNoSuchField if no field with the given name is present. It will return
// ErrManyFields if more than one field with the given name is found.
func (h *Header) GetParamValue(name string) (*param.Value, error) {
	body, err := h.Get(name)
	if err != nil {
		return nil, err
	}

	return param.Parse(body)
}

// SetParamValue will replace all existing header fields with the given name
// with a single param.Value header containing the given param.Value.
func (h *Header) SetParamValue(name string, body *param.Value) {
	h.Set(name, body.String())
}

// getParamValueValue reads the primary value of the param.Value header or
// returns an error.
func (h *Header) getParamValueValue(name string) (string, error) {
	pv, err := h.GetParamValue(name)
	if err != nil {
		return "", err
	}

	return pv.Value(), nil
}

// setParamValueValue sets the primary value of the param.Value header,
// keeping any parameters already present.
func (h *Header) setParamValueValue(name, v string) {
	pv, err := h.GetParamValue(name)
	if err != nil {
		pv = param.New(v)
	} else {
		pv = param.Modify(pv, param.Change(v))
	}

	h.SetParamValue(name, pv)
}

// getParamValueParam gets a parameter value of the param.Value header or
// returns an error.
func (h *Header) getParamValueParam(name, p string) (string, error) {
	pv, err := h.GetParamValue(name)
	if err != nil {
		return "", err
	}

	if v := pv.Parameter(p); v != "" {
		return v, nil
	}

	return "", ErrNoSuchFieldParameter
}

// setParamValueParam sets a parameter value of the param.Value header or
// returns an error. The header must already exist before calling this
// method.
func (h *Header) setParamValueParam(name, p, v string) error {
	pv, err := h.GetParamValue(name)
	if err != nil {
		return err
	}

	h.SetParamValue(name, param.Modify(pv, param.Set(p, v)))

	return nil
}

// GetContentType returns the Content-Type header as a param.Value.
func (h *Header) GetContentType() (*param.Value, error) {
	return h.GetParamValue(ContentType)
}

// SetContentType replaces the Content-Type with the given param.Value.
func (h *Header) SetContentType(v *param.Value) {
	h.SetParamValue(ContentType, v)
}

// GetMediaType returns the MIME type set in the Content-Type header (other
// parameters will not be returned).
func (h *Header) GetMediaType() (string, error) {
	return h.getParamValueValue(ContentType)
}

// SetMediaType replaces the MIME type on the Content-Type header, creating it
// if it has not been set yet. If the Content-Type header already exists, any
// other parameters already set will be preserved.
func (h *Header) SetMediaType(mt string) {
	h.setParamValueValue(ContentType, mt)
}

// GetCharset gets the charset from the Content-Type header field.
//
// This method returns an empty string with ErrNoSuchField if no field is
// present in the header. This method returns an empty string with
// ErrNoSuchFieldParameter if the field is present, but the parameter is not set
// on the field.
func (h *Header) GetCharset() (string, error) {
	return h.getParamValueParam(ContentType, param.Charset)
}

// SetCharset sets the charset on the Content-Type header. The header must
// already exist.
func (h *Header) SetCharset(c string) error {
	return h.setParamValueParam(ContentType, param.Charset, c)
}

// GetBoundary gets the boundary from the Content-Type header field.
func (h *Header) GetBoundary() (string, error) {
	return h.getParamValueParam(ContentType, param.Boundary)
}

// SetBoundary sets the boundary on the Content-Type header. The header must
// already exist.
func (h *Header) SetBoundary(b string) error {
	return h.setParamValueParam(ContentType, param.Boundary, b)
}

// GetContentDisposition returns the Content-Disposition header as a
// param.Value.
func (h *Header) GetContentDisposition() (*param.Value, error) {
	return h.GetParamValue(ContentDisposition)
}

// GetPresentation returns the primary value of the Content-Disposition
// header, lower-cased, usually "inline" or "attachment".
func (h *Header) GetPresentation() (string, error) {
	pv, err := h.GetContentDisposition()
	if err != nil {
		return "", err
	}
	return pv.Presentation(), nil
}

// SetPresentation sets the disposition value of the Content-Disposition
// header field. Any parameters already set are preserved.
func (h *Header) SetPresentation(d string) {
	h.setParamValueValue(ContentDisposition, d)
}

// GetFilename returns the filename of the part. The filename parameter of the
// Content-Disposition header is preferred. The name parameter of the
// Content-Type header is used when there is none. Encoded words are decoded.
//
// It returns ErrNoSuchFieldParameter when neither is set.
func (h *Header) GetFilename() (string, error) {
	if fn, err := h.getParamValueParam(ContentDisposition, param.Filename); err == nil {
		return DecodeWords(fn), nil
	}

	if fn, err := h.getParamValueParam(ContentType, param.Name); err == nil {
		return DecodeWords(fn), nil
	}

	return "", ErrNoSuchFieldParameter
}

// SetFilename sets the filename parameter of the Content-Disposition header.
// The header must already exist.
func (h *Header) SetFilename(f string) error {
	return h.setParamValueParam(ContentDisposition, param.Filename, f)
}

// GetSubject returns the value of the Subject header field with any RFC 2047
// encoded words decoded.
func (h *Header) GetSubject() (string, error) {
	s, err := h.Get(Subject)
	return DecodeWords(s), err
}

// SetSubject replaces the Subject header field. A subject that is not plain
// ASCII is written as UTF-8 encoded words.
func (h *Header) SetSubject(s string) {
	h.Set(Subject, EncodeWords(s))
}

// GetTransferEncoding returns the content of the Content-Transfer-Encoding
// header, trimmed and lower-cased.
func (h *Header) GetTransferEncoding() (string, error) {
	te, err := h.Get(ContentTransferEncoding)
	return strings.ToLower(strings.TrimSpace(te)), err
}

// SetTransferEncoding replaces the Content-Transfer-Encoding with the given
// value.
func (h *Header) SetTransferEncoding(b string) {
	h.Set(ContentTransferEncoding, b)
}

// GetContentID returns the Content-ID without its angle brackets.
func (h *Header) GetContentID() (string, error) {
	id, err := h.Get(ContentID)
	return strings.Trim(strings.TrimSpace(id), "<>"), err
}

// SetContentID sets the Content-ID, adding the angle brackets.
func (h *Header) SetContentID(id string) {
	h.Set(ContentID, "<"+id+">")
}

var wordDecoder = &mime.WordDecoder{}

// DecodeWords decodes any RFC 2047 encoded words found in s. Text that
// cannot be decoded is returned as it was.
func DecodeWords(s string) string {
	d, err := wordDecoder.DecodeHeader(s)
	if err != nil {
		return s
	}
	return d
}

// EncodeWords returns s unchanged when it is printable ASCII and as UTF-8
// encoded words otherwise.
func EncodeWords(s string) string {
	for i := 0; i < len(s); i++ {
		if s[i] < 0x20 || s[i] > 0x7e {
			return mime.BEncoding.Encode("utf-8", s)
		}
	}
	return s
}

// parseEmailAddressList is a fallback method for email address parsing. The
// parser in github.com/zostay/go-addr is a strict parser, which is useful for
// getting good accurate parsing of email addresses, especially for validating
// data entry. However, when working with the mess that is the Internet, you
// want to get something useful (strict out/liberal in), even if its technically
// wrong, well, this method can be used to clean up the mess.
//
// It works as follows:
//
// 1. Split the string up by commas.
// 2. Each string resulting from the split is trimmed of whitespace.
// 3. The comments are stripped from each string and held.
// 4. All the words at the start are treated as the display name.
// 5. The last word at the end is treated as the email address.
//
// We stuff whatever we get into an addr.Mailbox and call it good. Groups are
// not recognized.
func parseEmailAddressList(v string) addr.AddressList {
	mbs := strings.Split(v, ",")
	as := make(addr.AddressList, 0, len(mbs))
	for _, orig := range mbs {
		mb, com := extractComments(orig)

		parts := strings.Fields(strings.TrimSpace(mb))
		com = strings.TrimSpace(com)

		var dn, email string
		switch {
		case len(parts) == 0:
			continue
		case len(parts) > 1:
			dn = strings.Join(parts[:len(parts)-1], " ")
			email = parts[len(parts)-1]
		default:
			email = parts[0]
		}

		email = strings.Trim(email, "<>")
		local, domain, _ := strings.Cut(email, "@")
		addrSpec := addr.NewAddrSpecParsed(local, domain, email)

		mailbox, err := addr.NewMailboxParsed(dn, addrSpec, com, orig)
		if err != nil {
			mailbox, _ = addr.NewMailboxParsed(dn, addrSpec, "", orig)
		}

		as = append(as, mailbox)
	}

	return as
}

// extractComments splits s into the text outside of parentheses and the
// text inside them.
func extractComments(s string) (string, string) {
	var clean, comment strings.Builder
	nestLevel := 0
	for _, c := range s {
		switch {
		case c == '(':
			nestLevel++
			if nestLevel > 1 {
				comment.WriteRune(c)
			}
		case c == ')':
			nestLevel--
			switch {
			case nestLevel == 0:
			case nestLevel < 0:
				nestLevel = 0
				clean.WriteRune(c)
			default:
				comment.WriteRune(c)
			}
		case nestLevel > 0:
			comment.WriteRune(c)
		default:
			clean.WriteRune(c)
		}
	}

	return clean.String(), comment.String()
}
