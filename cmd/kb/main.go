// Command kb queries and maintains the PLC book knowledge base from the terminal.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"plc-kb/internal/app"
	"plc-kb/internal/config"
)

var version = "dev"

var rootCmd = &cobra.Command{
	Use:           "kb",
	Short:         "PLC book knowledge base",
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// openApp loads configuration and wires the services. Logs go to stderr so
// stdout stays clean for answers and the MCP stdio transport.
func openApp(cmd *cobra.Command, validate bool) (*app.App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	slog.SetDefault(app.NewLogger(cfg, cmd.ErrOrStderr()))

	if validate {
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
	}
	return app.New(cmd.Context(), cfg)
}
