package cmd

import (
	"bytes"
	"fmt"
	"os"

	"github.com/sergi/go-diff/diffmatchpatch"
	"github.com/spf13/cobra"

	"github.com/zostay/go-mailcore/message"
)

func newRoundtripCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "roundtrip message ...",
		Short: "Shows the diff of each message after a parse and write",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			failed := 0
			for _, path := range args {
				diff, err := roundtrip(path)
				if err != nil {
					return err
				}

				if diff == "" {
					a.logger.Debug("round trip is exact", "path", path)
					fmt.Fprintf(out, "ok   %s\n", path)
					continue
				}

				failed++
				fmt.Fprintf(out, "FAIL %s\n%s", path, diff)
			}

			if failed > 0 {
				return fmt.Errorf("%d of %d messages changed on round trip", failed, len(args))
			}
			return nil
		},
	}
}

// roundtrip parses the message at path, writes it back out, and returns a
// patch from the original to the output. The patch is empty when they match.
func roundtrip(path string) (string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}

	m, err := message.Parse(raw, message.WithUnlimitedRecursion())
	if err != nil {
		return "", fmt.Errorf("%s: %w", path, err)
	}

	var buf bytes.Buffer
	if _, err := m.WriteTo(&buf); err != nil {
		return "", fmt.Errorf("%s: %w", path, err)
	}

	if bytes.Equal(raw, buf.Bytes()) {
		return "", nil
	}

	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMain(string(raw), buf.String(), false)
	return dmp.PatchToText(dmp.PatchMake(string(raw), diffs)), nil
}
