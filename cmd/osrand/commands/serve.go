package commands

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/cometbft/osrand/crypto/osrand"
	"github.com/cometbft/osrand/rpc/server"
)

// ServeCmd serves random bytes and metrics over HTTP.
var ServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve random bytes, health and metrics over HTTP",
	Long: `Serve random bytes, health and metrics over HTTP.

Routes:
  /random?bytes=N   N random bytes, hex encoded (N defaults to 32)
  /health           getrandom(2) availability and entropy pool readiness
  /metrics          Prometheus metrics, when instrumentation.prometheus is true`,
	RunE: serve,
}

func init() {
	ServeCmd.Flags().String("instrumentation.prometheus_listen_addr", config.Instrumentation.PrometheusListenAddr,
		"address to listen on")
	ServeCmd.Flags().Bool("instrumentation.prometheus", config.Instrumentation.Prometheus,
		"serve Prometheus metrics under /metrics")
}

func serve(cmd *cobra.Command, args []string) error {
	var options []osrand.Option
	if config.Instrumentation.Prometheus {
		options = append(options, osrand.WithMetrics(osrand.PrometheusMetrics(config.Instrumentation.Namespace)))
	}
	sys := newSystem(options...)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	handler := server.NewHandler(sys, config.Instrumentation, logger.With("module", "rpc-server"))
	return server.Serve(ctx, config.Instrumentation.PrometheusListenAddr, handler, logger.With("module", "rpc-server"))
}
