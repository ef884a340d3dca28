package main

import (
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/lumen-ui/lumen/internal/demo"
	"github.com/lumen-ui/lumen/pkg/devserver"
	"github.com/lumen-ui/lumen/pkg/metrics"
)

func serveCmd() *cobra.Command {
	var (
		addr    string
		verbose bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the dev preview server",
		Long: `Serve the demo components for live preview.

Each component runs against an in-memory host tree on the server;
browsers mirror its HTML over a WebSocket and post events back.
Prometheus metrics are exposed at /metrics.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			level := slog.LevelInfo
			if verbose {
				level = slog.LevelDebug
			}
			logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

			srv := devserver.New(demo.Registry(),
				devserver.WithAddr(addr),
				devserver.WithLogger(logger),
				devserver.WithMetrics(metrics.New()),
			)

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return srv.Run(ctx)
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "a", ":8080", "Listen address")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	return cmd
}
