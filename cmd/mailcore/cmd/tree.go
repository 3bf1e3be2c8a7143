package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/zostay/go-mailcore/part"
)

func newTreeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "tree message",
		Short: "Shows the part tree of a message",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}

			root, err := part.NewParser(a.logger).Parse(cmd.Context(), raw)
			if err != nil {
				return err
			}
			if root == nil {
				return fmt.Errorf("%s: not a parseable MIME message", args[0])
			}

			out := cmd.OutOrStdout()
			return part.Walker(func(depth, _ int, p *part.Part) error {
				fmt.Fprintf(out, "%s%s %s", strings.Repeat("  ", depth), p.Kind(), p.MediaType())
				switch p.Kind() {
				case part.KindText, part.KindHTML:
					fmt.Fprintf(out, " (%d chars)", len([]rune(p.Text())))
				case part.KindAttachment:
					if name := p.Filename(); name != "" {
						fmt.Fprintf(out, " %q", name)
					}
					fmt.Fprintf(out, " (%d bytes)", len(p.Data()))
				case part.KindContainer:
					fmt.Fprintf(out, " (%d parts)", len(p.Children()))
				}
				fmt.Fprintln(out)
				return nil
			}).Walk(root)
		},
	}
}
