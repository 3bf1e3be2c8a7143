package part_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zostay/go-mailcore/message"
	"github.com/zostay/go-mailcore/part"
)

func TestMessageParser_Degrades(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		raw  string
		opts []message.ParseOption
	}{
		{name: "no boundary", raw: "Content-Type: multipart/mixed\n\n--x\n\nbody\n--x--\n"},
		{name: "bad start", raw: " folded junk\nContent-Type: text/plain\n\nbody"},
		{name: "endless header", raw: "Date: today\n" + strings.Repeat("x", 70000)},
		{
			name: "header over limit",
			raw:  "Subject: a rather long subject\n\nbody",
			opts: []message.ParseOption{message.WithMaxHeaderLength(10)},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			p, err := part.NewParser(nil, tt.opts...).Parse(context.Background(), []byte(tt.raw))
			assert.NoError(t, err)
			assert.Nil(t, p)
		})
	}
}

func TestMessageParser_Canceled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p, err := part.NewParser(nil).Parse(ctx, []byte("Subject: x\n\nbody"))
	assert.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, p)
}

func TestParserFunc(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	var pr part.Parser = part.ParserFunc(func(context.Context, []byte) (*part.Part, error) {
		return nil, boom
	})

	_, err := pr.Parse(context.Background(), nil)
	assert.ErrorIs(t, err, boom)

	pr = part.ParserFunc(func(_ context.Context, raw []byte) (*part.Part, error) {
		return part.NewText(nil, string(raw)), nil
	})
	p, err := pr.Parse(context.Background(), []byte("x"))
	require.NoError(t, err)
	assert.Equal(t, "x", p.Text())
}
