package cli

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/matzehuels/inarow/internal/metrics"
	"github.com/matzehuels/inarow/internal/server"
)

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr      string
		noMetrics bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve stored positions over HTTP",
		Long: `Serve starts a read-only HTTP API over the configured store:

  GET /healthz
  GET /states/{digest}
  GET /states/{digest}/graph?depth=&nodes=&format=dot|svg
  GET /positions?rows=&cols=&run=&moves=&first=
  GET /metrics`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withBackend(cmd, func(ctx context.Context, b *backend) error {
				opts := server.Options{Logger: c.Logger}
				if !noMetrics {
					m := metrics.New(prometheus.NewRegistry(), true)
					m.Install()
					opts.Metrics = m.Handler()
				}
				printInfo(c.out, "Serving %s store on %s", b.cfg.Store.Backend, StyleValue.Render(addr))
				return server.New(b.vault, opts).ListenAndServe(ctx, addr)
			})
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	cmd.Flags().BoolVar(&noMetrics, "no-metrics", false, "disable the /metrics endpoint")

	return cmd
}
