// Package cli implements the ltfit command tree.
package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/cwbudde/algo-pals/internal/logger"
)

func Execute() {
	cmd := newRootCmd()
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		debug   bool
		jsonLog bool
		logFile string
		cleanup func() error
	)

	cmd := &cobra.Command{
		Use:          "ltfit",
		Short:        "ltfit, positron lifetime spectrum fitting",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			c, err := logger.Setup(logger.Config{
				File:   logFile,
				Writer: cmd.ErrOrStderr(),
				Debug:  debug,
				JSON:   jsonLog,
			})
			if err != nil {
				return err
			}
			cleanup = c
			return nil
		},
		PersistentPostRunE: func(_ *cobra.Command, _ []string) error {
			if cleanup == nil {
				return nil
			}
			return cleanup()
		},
	}

	cmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable verbose logging")
	cmd.PersistentFlags().BoolVar(&jsonLog, "log-json", false, "write logs as JSON")
	cmd.PersistentFlags().StringVar(&logFile, "log-file", "", "append logs to this file instead of stderr")

	cmd.AddCommand(fitCmd())
	cmd.AddCommand(previewCmd())
	cmd.AddCommand(simulateCmd())
	cmd.AddCommand(codesCmd())
	return cmd
}
