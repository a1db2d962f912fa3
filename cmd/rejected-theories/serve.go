package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/pdiddy/rejected-theories/internal/metrics"
	"github.com/pdiddy/rejected-theories/internal/theories"
	"github.com/pdiddy/rejected-theories/internal/web"
	"github.com/pdiddy/rejected-theories/internal/wiki"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the web page",
	Long: `Serve starts the web page: a year form, a loading line, an error line, and a
grid of result cards. Each browser session keeps its own state in memory.
/api/theories, /api/state, /healthz and /metrics are served alongside.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := appConfig
		if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
			cfg.Server.Addr = addr
		}

		reg := prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		m := metrics.New(reg)

		srv, err := web.NewServer(web.Options{
			Config:   cfg,
			Fetcher:  theories.New(wiki.NewClient(cfg.Wikipedia), logger, m),
			Logger:   logger,
			Registry: reg,
			Metrics:  m,
		})
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return srv.Run(ctx)
	},
}

func init() {
	serveCmd.Flags().String("addr", "", "listen address (overrides server.addr)")

	rootCmd.AddCommand(serveCmd)
}
