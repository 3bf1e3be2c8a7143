package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/zostay/go-mailcore/encode"
)

type encodeFlags struct {
	mode           string
	from           string
	to             []string
	cc             []string
	subject        string
	attach         []string
	quota          int64
	forceMultipart bool
	messageFile    string
	verifyArmor    bool
}

func newEncodeCmd(a *app) *cobra.Command {
	var f encodeFlags

	encodeCmd := &cobra.Command{
		Use:   "encode",
		Short: "Builds an outgoing MIME message",
		Long: `Builds a MIME message from a message body and zero or more attachment
files and writes it to standard output. The body is read from --message-file
or standard input. For the PGP modes the body must already be an armored
OpenPGP message.

Modes: plain, pgpArmoredBody, pgpArmoredWithHeaders, headerAnnotated.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runEncode(cmd, a, &f)
		},
	}

	flags := encodeCmd.Flags()
	flags.StringVar(&f.mode, "mode", "plain", "layout of the message")
	flags.StringVar(&f.from, "from", "", "From address")
	flags.StringSliceVar(&f.to, "to", nil, "To addresses")
	flags.StringSliceVar(&f.cc, "cc", nil, "Cc addresses")
	flags.StringVar(&f.subject, "subject", "", "subject of the message")
	flags.StringArrayVarP(&f.attach, "attach", "a", nil, "file to attach (may be repeated)")
	flags.Int64Var(&f.quota, "quota", 0, "maximum total size of message and attachments in bytes")
	flags.BoolVar(&f.forceMultipart, "force-multipart", false, "build a multipart message even without attachments")
	flags.StringVarP(&f.messageFile, "message-file", "m", "", "file holding the message body")
	flags.BoolVar(&f.verifyArmor, "verify-armor", false, "check that PGP bodies are armored messages")

	return encodeCmd
}

func runEncode(cmd *cobra.Command, a *app, f *encodeFlags) error {
	modeName := a.cfg.Encode.Mode
	if cmd.Flags().Changed("mode") {
		modeName = f.mode
	}
	mode, err := encode.ParseMode(modeName)
	if err != nil {
		return err
	}

	var body []byte
	if f.messageFile != "" {
		body, err = os.ReadFile(f.messageFile)
	} else {
		body, err = io.ReadAll(cmd.InOrStdin())
	}
	if err != nil {
		return err
	}

	req := &encode.Request{
		Mode:           mode,
		Message:        string(body),
		Quota:          a.cfg.QuotaLimit(),
		From:           a.cfg.Encode.From,
		To:             f.to,
		Cc:             f.cc,
		Subject:        f.subject,
		ForceMultipart: f.forceMultipart,
	}
	if cmd.Flags().Changed("from") {
		req.From = f.from
	}
	if cmd.Flags().Changed("quota") {
		req.Quota = encode.Quota(f.quota)
	}

	for _, path := range f.attach {
		content, err := os.ReadFile(path)
		if err != nil {
			return err
		}

		req.Attachments = append(req.Attachments, encode.Attachment{
			Name:    filepath.Base(path),
			Content: content,
		})
	}

	verify := a.cfg.Encode.VerifyArmor
	if cmd.Flags().Changed("verify-armor") {
		verify = f.verifyArmor
	}

	e := encode.New(
		encode.WithLogger(a.logger),
		encode.WithArmorCheck(verify),
	)

	out, err := e.Encode(req)
	if err != nil {
		var qerr *encode.QuotaError
		if errors.As(err, &qerr) {
			fmt.Fprintln(cmd.ErrOrStderr(), qerr.Code())
		}
		return err
	}

	_, err = cmd.OutOrStdout().Write(out)
	return err
}
