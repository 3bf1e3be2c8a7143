package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/zostay/go-mailcore/decode"
)

type decodeFlags struct {
	encoding    string
	noEvent     bool
	parallel    int
	attachments string
}

func newDecodeCmd(a *app) *cobra.Command {
	var f decodeFlags

	decodeCmd := &cobra.Command{
		Use:   "decode [message ...]",
		Short: "Prints the body of each message and lists its attachments",
		Long: `Decodes each named message file, or standard input when no file is
named. The envelope and the selected body are printed, followed by one line
per attachment. With --attachments, attachment content is saved below that
directory.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDecode(cmd, a, &f, args)
		},
	}

	flags := decodeCmd.Flags()
	flags.StringVar(&f.encoding, "encoding", "html", "body encoding to select (html or text)")
	flags.BoolVar(&f.noEvent, "no-event", false, "always print a body, even an empty one")
	flags.IntVarP(&f.parallel, "parallel", "j", 0, "number of messages decoded at once")
	flags.StringVar(&f.attachments, "attachments", "", "directory to save attachments in")

	return decodeCmd
}

func runDecode(cmd *cobra.Command, a *app, f *decodeFlags, args []string) error {
	opts := a.cfg.DecodeOptions()
	if cmd.Flags().Changed("encoding") {
		enc, err := decode.ParseEncoding(f.encoding)
		if err != nil {
			return err
		}
		opts.Encoding = enc
	}
	if cmd.Flags().Changed("no-event") {
		opts.NoEvent = f.noEvent
	}

	parallel := a.cfg.Decode.Parallel
	if cmd.Flags().Changed("parallel") && f.parallel > 0 {
		parallel = f.parallel
	}

	d := decode.New(decode.WithLogger(a.logger))
	out := cmd.OutOrStdout()

	if len(args) == 0 {
		raw, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return err
		}

		res, err := decodeOne(cmd.Context(), d, "stdin", raw, opts, f.attachments)
		if err != nil {
			return err
		}

		_, err = io.WriteString(out, res)
		return err
	}

	results := make([]string, len(args))
	g, ctx := errgroup.WithContext(cmd.Context())
	g.SetLimit(parallel)
	for i, path := range args {
		i, path := i, path
		g.Go(func() error {
			raw, err := os.ReadFile(path)
			if err != nil {
				return err
			}

			res, err := decodeOne(ctx, d, path, raw, opts, f.attachments)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}

			results[i] = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}

	for i, res := range results {
		if len(args) > 1 {
			fmt.Fprintf(out, "==> %s <==\n", args[i])
		}
		if _, err := io.WriteString(out, res); err != nil {
			return err
		}
	}

	return nil
}

// decodeOne decodes a single message and renders what the callbacks report.
// The raw bytes go to the decoder as they are read.
func decodeOne(
	ctx context.Context,
	d *decode.Decoder,
	name string,
	raw []byte,
	opts decode.Options,
	dir string,
) (string, error) {
	var (
		b       strings.Builder
		saveErr error
		n       int
	)

	cb := decode.Callbacks{
		OnEnvelope: func(e *decode.Envelope) {
			if e.Subject != "" {
				fmt.Fprintf(&b, "Subject: %s\n", e.Subject)
			}
			if len(e.From) > 0 {
				fmt.Fprintf(&b, "From: %s\n", e.From.String())
			}
			if len(e.To) > 0 {
				fmt.Fprintf(&b, "To: %s\n", e.To.String())
			}
			if len(e.Cc) > 0 {
				fmt.Fprintf(&b, "Cc: %s\n", e.Cc.String())
			}
			if !e.Date.IsZero() {
				fmt.Fprintf(&b, "Date: %s\n", e.Date.Format("Mon, 02 Jan 2006 15:04:05 -0700"))
			}
		},
		OnAttachment: func(att *decode.Attachment) {
			n++
			fmt.Fprintf(&b, "Attachment: %s (%s, %d bytes)\n", att.Filename, att.MediaType, att.Size)
			if dir == "" || saveErr != nil {
				return
			}
			saveErr = saveAttachment(dir, name, n, att)
		},
		OnMessage: func(body string) {
			if b.Len() > 0 {
				b.WriteString("\n")
			}
			b.WriteString(body)
			if body != "" && !strings.HasSuffix(body, "\n") {
				b.WriteString("\n")
			}
		},
	}

	if err := d.DecodeBytes(ctx, raw, opts, cb); err != nil {
		return "", err
	}

	return b.String(), saveErr
}

// saveAttachment writes the attachment below dir, in a directory named for the
// message it came from. The n-th attachment without a usable name becomes
// attachment-n.
func saveAttachment(dir, msgName string, n int, att *decode.Attachment) error {
	target := filepath.Join(dir, filepath.Base(msgName))
	if err := os.MkdirAll(target, 0o755); err != nil {
		return err
	}

	name := filepath.Base(att.Filename)
	if name == "." || name == string(filepath.Separator) || att.Filename == "" {
		name = fmt.Sprintf("attachment-%d", n)
	}

	return os.WriteFile(filepath.Join(target, name), att.Content, 0o644)
}
