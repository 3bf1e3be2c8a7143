// Package cmd holds the commands of the mailcore tool.
package cmd

import (
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/zostay/go-mailcore/internal/config"
	"github.com/zostay/go-mailcore/internal/logger"
)

// app is the state shared by every command of a single run.
type app struct {
	configPath string
	cfg        *config.Config
	logger     *slog.Logger
	closer     io.Closer
}

func (a *app) setup(*cobra.Command, []string) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}

	a.cfg = cfg
	a.logger, a.closer = logger.New(logger.Config{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		Output:    cfg.Logging.Output,
		AddSource: cfg.Logging.AddSource,
	})

	return nil
}

func (a *app) teardown(*cobra.Command, []string) error {
	if a.closer == nil {
		return nil
	}
	return a.closer.Close()
}

// NewRootCmd builds the mailcore command tree.
func NewRootCmd() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:                "mailcore",
		Short:              "Decodes and encodes MIME messages",
		SilenceUsage:       true,
		PersistentPreRunE:  a.setup,
		PersistentPostRunE: a.teardown,
	}

	rootCmd.PersistentFlags().StringVar(&a.configPath, "config", "", "path to a YAML configuration file")

	rootCmd.AddCommand(
		newDecodeCmd(a),
		newEncodeCmd(a),
		newTreeCmd(a),
		newRoundtripCmd(a),
	)

	return rootCmd
}

func Execute() error {
	return NewRootCmd().Execute()
}
