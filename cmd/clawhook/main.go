// Clawhook - plugin hook interception for agent tool calls
// License: MIT
//
// Copyright (c) 2026 Clawhook contributors

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/clawkit/clawhook/cmd/clawhook/internal"
	plugincmd "github.com/clawkit/clawhook/cmd/clawhook/internal/plugin"
	"github.com/clawkit/clawhook/pkg/logger"
)

func main() {
	root := &cobra.Command{
		Use:           "clawhook",
		Short:         "Plugin hook interception for agent tool calls",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			return configureLogging()
		},
	}

	root.AddCommand(newVersionCommand())
	root.AddCommand(plugincmd.NewPluginCommand())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func configureLogging() error {
	cfg, err := internal.LoadConfig()
	if err != nil {
		return fmt.Errorf("error loading config: %w", err)
	}

	logger.SetLevel(logger.ParseLevel(cfg.Logging.Level))

	if cfg.Logging.File != "" {
		if err := logger.EnableFileLogging(cfg.Logging.File); err != nil {
			return fmt.Errorf("error opening log file: %w", err)
		}
	}

	logger.ConfigureRedaction(cfg.Redaction)
	return nil
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "clawhook %s\n", internal.FormatVersion())
			build, goVer := internal.FormatBuildInfo()
			if build != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "  Build: %s\n", build)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "  Go: %s\n", goVer)
		},
	}
}
