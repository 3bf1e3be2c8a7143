package part_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zostay/go-mailcore/message"
	"github.com/zostay/go-mailcore/message/header"
	"github.com/zostay/go-mailcore/part"
)

func TestKind_String(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "text", part.KindText.String())
	assert.Equal(t, "html", part.KindHTML.String())
	assert.Equal(t, "attachment", part.KindAttachment.String())
	assert.Equal(t, "container", part.KindContainer.String())
	assert.Equal(t, "unknown", part.Kind(42).String())
}

func TestFromMessage_Classify(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		raw      string
		kind     part.Kind
		filename string
		media    string
	}{
		{
			name:  "no content type",
			raw:   "Subject: hi\n\nbody",
			kind:  part.KindText,
			media: "text/plain",
		},
		{
			name:  "text plain",
			raw:   "Content-Type: text/plain; charset=utf-8\n\nbody",
			kind:  part.KindText,
			media: "text/plain",
		},
		{
			name:  "text html upper case",
			raw:   "Content-Type: TEXT/HTML\n\n<p>body</p>",
			kind:  part.KindHTML,
			media: "text/html",
		},
		{
			name:     "disposition attachment",
			raw:      "Content-Type: text/plain\nContent-Disposition: attachment\n\nbody",
			kind:     part.KindAttachment,
			media:    "text/plain",
			filename: "",
		},
		{
			name:     "inline with filename",
			raw:      "Content-Type: text/plain\nContent-Disposition: inline; filename=notes.txt\n\nbody",
			kind:     part.KindAttachment,
			media:    "text/plain",
			filename: "notes.txt",
		},
		{
			name:     "type name only",
			raw:      "Content-Type: application/pdf; name=\"a b.pdf\"\n\nbody",
			kind:     part.KindAttachment,
			media:    "application/pdf",
			filename: "a b.pdf",
		},
		{
			name:  "other media type",
			raw:   "Content-Type: image/png\n\nbody",
			kind:  part.KindAttachment,
			media: "image/png",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			msg, err := message.Parse([]byte(tt.raw), message.DecodeTransferEncoding())
			require.NoError(t, err)

			p, err := part.FromMessage(msg)
			require.NoError(t, err)

			assert.Equal(t, tt.kind, p.Kind())
			assert.Equal(t, tt.media, p.MediaType())
			assert.Equal(t, tt.filename, p.Filename())
			assert.True(t, p.IsLeaf())
			assert.Nil(t, p.Children())
			if tt.kind == part.KindAttachment {
				assert.Equal(t, []byte("body"), p.Data())
				assert.Empty(t, p.Text())
			} else {
				assert.NotEmpty(t, p.Text())
				assert.Nil(t, p.Data())
			}
		})
	}
}

func TestFromMessage_Nil(t *testing.T) {
	t.Parallel()

	_, err := part.FromMessage(nil)
	assert.ErrorIs(t, err, part.ErrNilMessage)
}

func TestFromMessage_Charset(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		raw    string
		expect string
	}{
		{"utf-8", "Content-Type: text/plain; charset=utf-8\n\ncaf\xc3\xa9", "café"},
		{"no charset utf-8", "Content-Type: text/plain\n\ncaf\xc3\xa9", "café"},
		{"latin-1", "Content-Type: text/plain; charset=iso-8859-1\n\ncaf\xe9", "café"},
		{"invalid utf-8", "Content-Type: text/plain; charset=utf-8\n\ncaf\xe9", "café"},
		{"quoted-printable latin-1", "Content-Type: text/plain; charset=iso-8859-1\nContent-Transfer-Encoding: quoted-printable\n\ncaf=E9", "café"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			msg, err := message.Parse([]byte(tt.raw), message.DecodeTransferEncoding())
			require.NoError(t, err)

			p, err := part.FromMessage(msg)
			require.NoError(t, err)
			assert.Equal(t, tt.expect, p.Text())
		})
	}
}

func TestFromMessage_Container(t *testing.T) {
	t.Parallel()

	const raw = "Content-Type: multipart/alternative; boundary=x\n\nNot MIME.\n--x\nContent-Type: text/plain\n\nplain\n--x\nContent-Type: text/html\n\n<b>html</b>\n--x--\n"

	msg, err := message.Parse([]byte(raw), message.DecodeTransferEncoding())
	require.NoError(t, err)

	p, err := part.FromMessage(msg)
	require.NoError(t, err)

	assert.Equal(t, part.KindContainer, p.Kind())
	assert.False(t, p.IsLeaf())
	assert.Equal(t, "multipart/alternative", p.MediaType())
	assert.Equal(t, "Not MIME.\n", p.Preamble())
	require.Len(t, p.Children(), 2)
	assert.Equal(t, part.KindText, p.Children()[0].Kind())
	assert.Equal(t, "plain", p.Children()[0].Text())
	assert.Equal(t, part.KindHTML, p.Children()[1].Kind())
	assert.Equal(t, "<b>html</b>", p.Children()[1].Text())
}

func TestPart_Defaults(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "text/plain", part.NewText(nil, "").MediaType())
	assert.Equal(t, "text/html", part.NewHTML(nil, "").MediaType())
	assert.Equal(t, "application/octet-stream", part.NewAttachment(nil, nil).MediaType())
	assert.Equal(t, "multipart/mixed", part.NewContainer(nil, "").MediaType())
	assert.Empty(t, part.NewText(nil, "x").Filename())
	assert.Empty(t, part.NewText(nil, "x").ContentID())
}

func TestNewContainer_CopiesChildren(t *testing.T) {
	t.Parallel()

	kids := []*part.Part{part.NewText(nil, "a"), part.NewText(nil, "b")}
	c := part.NewContainer(nil, "", kids...)
	kids[0] = part.NewText(nil, "z")

	assert.Equal(t, "a", c.Children()[0].Text())
}

func TestPart_Message(t *testing.T) {
	t.Parallel()

	th := header.New(header.CRLF)
	th.SetMediaType("text/plain")
	require.NoError(t, th.SetCharset("utf-8"))
	th.SetTransferEncoding("quoted-printable")

	ah := header.New(header.CRLF)
	ah.SetMediaType("image/png")
	ah.SetPresentation("attachment")
	require.NoError(t, ah.SetFilename("dot.png"))
	ah.SetTransferEncoding("base64")
	ah.SetContentID("dot@example.com")

	ch := header.New(header.CRLF)
	ch.SetMediaType("multipart/mixed")
	require.NoError(t, ch.SetBoundary("zzz"))

	data := []byte{0x89, 'P', 'N', 'G', 0, 1, 2, 3}
	tree := part.NewContainer(ch, "preamble",
		part.NewText(th, "Héllo wörld"),
		part.NewAttachment(ah, data),
	)

	msg, err := tree.Message()
	require.NoError(t, err)

	out := &bytes.Buffer{}
	_, err = msg.WriteTo(out)
	require.NoError(t, err)
	assert.Contains(t, out.String(), "\r\n--zzz\r\n")
	assert.Contains(t, out.String(), "H=C3=A9llo w=C3=B6rld")

	back, err := part.NewParser(nil).Parse(context.Background(), out.Bytes())
	require.NoError(t, err)
	require.Equal(t, part.KindContainer, back.Kind())
	assert.Equal(t, "preamble\r\n", back.Preamble())
	require.Len(t, back.Children(), 2)
	assert.Equal(t, "Héllo wörld", back.Children()[0].Text())
	assert.Equal(t, data, back.Children()[1].Data())
	assert.Equal(t, "dot.png", back.Children()[1].Filename())
	assert.Equal(t, "dot@example.com", back.Children()[1].ContentID())
}

func TestPart_Message_EmptyContainer(t *testing.T) {
	t.Parallel()

	msg, err := part.NewContainer(nil, "").Message()
	require.NoError(t, err)
	assert.True(t, msg.IsMultipart())
	assert.Empty(t, msg.GetParts())
}
