package main

import (
	"errors"
	"fmt"
	"net/http"
	"os"

	"github.com/spf13/cobra"

	"github.com/tasklane/tasklane/internal/config"
	"github.com/tasklane/tasklane/internal/kv"
	"github.com/tasklane/tasklane/internal/server"
	"github.com/tasklane/tasklane/internal/store"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the tasklane server",
	Long:  `Run the HTTP server in the foreground until SIGINT or SIGTERM.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		bind, _ := cmd.Flags().GetString("bind")
		return runServe(bind)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().String("bind", "", "Address to bind the server to (overrides config)")
}

// loadConfig resolves configuration and applies a --bind override.
func loadConfig(bind string) (*config.Config, error) {
	cfg, err := config.Resolve(configPath)
	if err != nil {
		return nil, err
	}
	if bind != "" {
		if err := cfg.SetBind(bind); err != nil {
			return nil, fmt.Errorf("invalid --bind: %w", err)
		}
	}
	return cfg, nil
}

func runServe(bind string) error {
	cfg, err := loadConfig(bind)
	if err != nil {
		return err
	}

	logger, err := newLogger(os.Stderr, cfg.Log.Level, verbose)
	if err != nil {
		return err
	}

	kvStore, err := kv.Open(cfg.Storage)
	if err != nil {
		return err
	}
	logger.Info("storage opened", "backend", cfg.Storage.Backend)

	manager := store.NewManager(kvStore, logger)
	srv := server.New(cfg.Addr(), manager, logger)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		manager.Close()
		return err
	}
	return nil
}
