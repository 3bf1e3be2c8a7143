package part

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/zostay/go-mailcore/message"
	"github.com/zostay/go-mailcore/message/header"
)

// Parser turns raw message bytes into a part tree. A nil tree with a nil
// error means the input had no usable structure.
type Parser interface {
	Parse(ctx context.Context, raw []byte) (*Part, error)
}

// ParserFunc adapts a plain function to the Parser interface.
type ParserFunc func(ctx context.Context, raw []byte) (*Part, error)

// Parse calls f.
func (f ParserFunc) Parse(ctx context.Context, raw []byte) (*Part, error) {
	return f(ctx, raw)
}

// MessageParser is the default Parser. It uses message.Parse with transfer
// decoding and unlimited recursion and then FromMessage.
type MessageParser struct {
	logger *slog.Logger
	opts   []message.ParseOption
}

// NewParser returns a MessageParser. Any ParseOption given is applied after
// the defaults. A nil logger means slog.Default().
func NewParser(logger *slog.Logger, opts ...message.ParseOption) *MessageParser {
	if logger == nil {
		logger = slog.Default()
	}

	all := []message.ParseOption{
		message.DecodeTransferEncoding(),
		message.WithUnlimitedRecursion(),
	}

	return &MessageParser{
		logger: logger,
		opts:   append(all, opts...),
	}
}

// Parse implements Parser.
//
// A message whose structure is broken (a multipart without a boundary, a
// header that starts with a continuation line or a header that never ends
// within the parse limit) is not an error. It yields
// (nil, nil) and a warning is logged. Any other failure is returned.
func (p *MessageParser) Parse(ctx context.Context, raw []byte) (*Part, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	msg, err := message.Parse(raw, p.opts...)
	if err != nil {
		var badStart *header.BadStartError
		if errors.Is(err, message.ErrNoBoundary) ||
			errors.Is(err, message.ErrLargeHeader) ||
			errors.As(err, &badStart) {
			p.logger.WarnContext(ctx, "message structure is malformed, no parts decoded",
				slog.String("error", err.Error()),
				slog.Int("size", len(raw)))
			return nil, nil
		}
		return nil, fmt.Errorf("parse message: %w", err)
	}

	root, err := FromMessage(msg)
	if err != nil {
		return nil, fmt.Errorf("convert message: %w", err)
	}

	return root, nil
}
