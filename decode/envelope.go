package decode

import (
	"time"
	"unicode/utf8"

	"github.com/zostay/go-addr/pkg/addr"
	"golang.org/x/text/encoding/charmap"

	"github.com/zostay/go-mailcore/message/header"
)

// Envelope summarizes the top-level header of a message.
type Envelope struct {
	Subject string
	From    addr.AddressList
	To      addr.AddressList
	Cc      addr.AddressList

	// Date is the zero time when the Date field is missing or unreadable.
	Date time.Time
}

func envelopeOf(h *header.Header) *Envelope {
	env := &Envelope{}

	if s, err := h.GetSubject(); err == nil {
		env.Subject = widen(s)
	}

	env.From, _ = h.GetFrom()
	env.To, _ = h.GetTo()
	env.Cc, _ = h.GetCc()

	if d, err := h.GetDate(); err == nil {
		env.Date = d
	}

	return env
}

// widen reads a header value that is not UTF-8 as Latin-1.
func widen(s string) string {
	if utf8.ValidString(s) {
		return s
	}
	w, err := charmap.ISO8859_1.NewDecoder().String(s)
	if err != nil {
		return s
	}
	return w
}
