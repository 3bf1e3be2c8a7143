package transfer_test

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zostay/go-mailcore/message/header"
	"github.com/zostay/go-mailcore/message/transfer"
)

const dec = `1 Timothy 6:10 - For the love of money is a root of all kinds of evils. It is through this craving that some have wandered away from the faith and pierced themselves with many pangs.`
const enc = `MSBUaW1vdGh5IDY6MTAgLSBGb3IgdGhlIGxvdmUgb2YgbW9uZXkgaXMgYSByb290IG9mIGFsbCBr
aW5kcyBvZiBldmlscy4gSXQgaXMgdGhyb3VnaCB0aGlzIGNyYXZpbmcgdGhhdCBzb21lIGhhdmUg
d2FuZGVyZWQgYXdheSBmcm9tIHRoZSBmYWl0aCBhbmQgcGllcmNlZCB0aGVtc2VsdmVzIHdpdGgg
bWFueSBwYW5ncy4=`

func TestApplyTransferDecoding(t *testing.T) {
	t.Parallel()

	h := &header.Header{}
	h.SetTransferEncoding(transfer.Base64)

	r := strings.NewReader(enc)
	tdr := transfer.ApplyTransferDecoding(h, r)
	tdb, err := io.ReadAll(tdr)
	assert.NoError(t, err)
	assert.Equal(t, []byte(dec), tdb)
}

func TestApplyTransferDecoding_Multipart(t *testing.T) {
	t.Parallel()

	h := &header.Header{}
	h.SetMediaType("multipart/mixed")
	h.SetTransferEncoding(transfer.Base64)

	out, err := transfer.Decode(h, []byte(enc))
	assert.NoError(t, err)
	assert.Equal(t, []byte(enc), out)
}

func TestApplyTransferEncoding(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		lbr  header.Break
	}{
		{"lf", header.LF},
		{"crlf", header.CRLF},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			h := header.New(tt.lbr)
			h.SetTransferEncoding(transfer.Base64)

			w := &bytes.Buffer{}
			tdwc := transfer.ApplyTransferEncoding(h, w)

			// several small writes must still wrap at 76 columns
			n := 0
			for _, chunk := range strings.SplitAfter(dec, " ") {
				ln, err := tdwc.Write([]byte(chunk))
				require.NoError(t, err)
				n += ln
			}
			assert.Equal(t, len(dec), n)
			assert.NoError(t, tdwc.Close())

			want := strings.ReplaceAll(enc, "\n", tt.lbr.String()) + tt.lbr.String()
			assert.Equal(t, want, w.String())
		})
	}
}

func TestDecode_Lenient(t *testing.T) {
	t.Parallel()

	h := &header.Header{}
	h.SetTransferEncoding("BASE64 ")

	out, err := transfer.Decode(h, []byte("aGVs\r\nbG8*\r\n"))
	assert.NoError(t, err)
	assert.Equal(t, "hello", string(out))
}

func TestEncode_RoundTrip(t *testing.T) {
	t.Parallel()

	for _, cte := range []string{transfer.Base64, transfer.QuotedPrintable, transfer.Bit7, "x-unknown"} {
		h := &header.Header{}
		h.SetTransferEncoding(cte)

		content := []byte("caf\xc3\xa9 = \x00\xff ok")
		encoded, err := transfer.Encode(h, content)
		require.NoError(t, err, cte)

		decoded, err := transfer.Decode(h, encoded)
		require.NoError(t, err, cte)
		assert.Equal(t, content, decoded, cte)
	}
}
