package cli

import (
	"context"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/cropsy/pkg/api"
	"github.com/matzehuels/cropsy/pkg/buildinfo"
	"github.com/matzehuels/cropsy/pkg/relay"
	"github.com/matzehuels/cropsy/pkg/transport/osc"
)

// serveCommand creates the serve command which runs the OSC relay.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		httpAddr string
		noCache  bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the OSC relay between ZoomOSC and Isadora",
		Long: `Listen for gallery control messages and answer each one with a fan-out of
Panner values, one message per gallery size.

Endpoints come from the config file and the LISTEN_HOST, LISTEN_PORT,
IZZY_HOST and IZZY_PORT environment variables.`,
		Example: `  cropsy serve
  cropsy serve --http 127.0.0.1:8080
  LISTEN_PORT=9000 IZZY_HOST=10.0.0.5 cropsy serve`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("http") {
				c.config().HTTP.Enabled = true
				c.config().HTTP.Addr = httpAddr
			}
			return c.runServe(cmd.Context(), noCache)
		},
	}

	cmd.Flags().StringVar(&httpAddr, "http", api.DefaultAddr, "also serve the HTTP API on this address")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, noCache bool) error {
	cfg := c.config()

	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	transport := osc.New(cfg.OSCTransport(), c.Logger)
	rel := relay.New(transport, runner, c.Logger, cfg.RelayOptions())

	c.Logger.Info("relay starting",
		"listen", cfg.OSCTransport().ListenAddr(),
		"izzy", cfg.OSCTransport().SendAddr(),
		"version", buildinfo.Short(),
		"cache", cfg.Cache.Backend)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return rel.Run(ctx) })
	if cfg.HTTP.Enabled {
		srv := api.New(runner, rel, c.Logger)
		g.Go(func() error { return srv.ListenAndServe(ctx, cfg.HTTP.Addr) })
	}

	if err := g.Wait(); err != nil {
		return err
	}
	c.Logger.Info("relay stopped")
	return nil
}
