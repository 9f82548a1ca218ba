package main

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/tasklane/tasklane/internal/config"
)

var rootCmd = &cobra.Command{
	Use:           "tasklane",
	Short:         "tasklane task board server",
	Long:          `A task board server that tracks which tasks wait on which, and refuses dependency cycles.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Global flags
var (
	configPath string
	verbose    bool
	jsonOutput bool
)

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config file (default ~/.tasklane/config.toml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		handleError(err)
	}
}

// exitError carries a specific exit code out of a command.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string {
	return e.err.Error()
}

func (e *exitError) Unwrap() error {
	return e.err
}

// handleError prints err and exits with its code.
func handleError(err error) {
	code := ExitGeneralError
	if ee, ok := err.(*exitError); ok {
		code = ee.code
	}
	printError(os.Stderr, err, jsonOutput)
	os.Exit(code)
}

// newLogger builds the process logger. verbose wins over the configured level.
func newLogger(w io.Writer, level string, verbose bool) (*log.Logger, error) {
	logger := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Prefix:          "tasklane",
	})

	if verbose {
		logger.SetLevel(log.DebugLevel)
		return logger, nil
	}

	if level == "" {
		level = config.DefaultLogLevel
	}
	lvl, err := log.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	logger.SetLevel(lvl)
	return logger, nil
}
