// Command storefront serves the inventory and cart API and offers one-shot
// export and stats commands against the same storage.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"up2you.app/storefront/pkg/global"
)

const appName = "storefront"

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// options are shared by every subcommand.
type options struct {
	envFile  string
	logLevel string

	cfg    global.Config
	logger *slog.Logger
}

func rootCmd() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   appName,
		Short: "Inventory and cart API for the Up2You shop",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.load()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), opts)
		},
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&opts.envFile, "env-file", ".env", "Environment file to load if present")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "info", "Log level (debug, info, warn, error)")

	cmd.AddCommand(serveCmd(opts), exportCmd(opts), statsCmd(opts))
	return cmd
}

func (o *options) load() error {
	if err := global.LoadEnvFile(o.envFile); err != nil {
		return fmt.Errorf("load %s: %w", o.envFile, err)
	}
	o.cfg = global.LoadConfig()
	o.logger = newLogger(o.logLevel, o.cfg.IsProduction())
	slog.SetDefault(o.logger)
	return nil
}

func newLogger(level string, production bool) *slog.Logger {
	lvl := slog.LevelInfo
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	}

	handlerOpts := &slog.HandlerOptions{Level: lvl}
	if production {
		return slog.New(slog.NewJSONHandler(os.Stderr, handlerOpts))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, handlerOpts))
}
