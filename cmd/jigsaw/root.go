package main

import (
	"fmt"
	"log/slog"
	"os"

	charmlog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/gogpu/jigsaw"
	"github.com/gogpu/jigsaw/internal/config"
)

// app holds state shared by all commands once flags are parsed.
type app struct {
	configPath string
	verbose    bool
	logFile    string

	cfg    *config.Config
	logger *slog.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:          "jigsaw",
		Short:        "Cut images into interlocking jigsaw puzzle pieces",
		Version:      jigsaw.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup()
		},
	}

	root.PersistentFlags().StringVar(&a.configPath, "config", "", "config file (.yaml, .yml or .toml)")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().StringVar(&a.logFile, "log-file", "", "also write logs to this file, rotated")

	root.AddCommand(newCutCmd(a))
	root.AddCommand(newServeCmd(a))
	root.AddCommand(newVersionCmd())
	return root
}

// setup loads the configuration and installs the logger.
func (a *app) setup() error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if a.logFile != "" {
		cfg.Logging.LogFile = a.logFile
	}
	if a.verbose {
		cfg.Logging.Level = "debug"
	}
	a.cfg = cfg

	level := parseLevel(cfg.Logging.Level)
	a.logger = newLogger(os.Stderr, level, cfg.Logging.LogFile)
	if level <= charmlog.DebugLevel {
		jigsaw.SetLogger(a.logger)
	}
	return nil
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "jigsaw %s\n", jigsaw.Version)
			return err
		},
	}
}
