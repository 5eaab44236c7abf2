package cli

import (
	"github.com/spf13/cobra"

	"github.com/logsmart/designer/pkg/api"
)

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the designer HTTP API",
		Long: `Run the HTTP API used by the web designer.

The store backend, generator and canvas size come from the config file and
environment (DESIGNER_STORE, OLLAMA_URL, ...). The server stops gracefully on
interrupt.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)

			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Server.Addr = addr
			}

			st, err := openStore(ctx, cfg.Store)
			if err != nil {
				return err
			}
			defer st.Close()

			gen, gc, err := newGenerator(ctx, cfg, logger)
			if err != nil {
				return err
			}
			defer gc.Close()

			srv := api.NewServer(st,
				api.WithGenerator(gen),
				api.WithLogger(logger),
				api.WithCanvasSize(cfg.Canvas.Width, cfg.Canvas.Height),
				api.WithThreshold(cfg.Canvas.SnapThreshold),
				api.WithCORSOrigin(cfg.Server.CORSOrigin),
			)
			logger.Info("starting designer",
				"addr", cfg.Server.Addr,
				"store", cfg.Store.Backend,
				"model", cfg.Generator.Model,
				"cache", cfg.Generator.Cache)
			return srv.ListenAndServe(ctx, cfg.Server.Addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides config)")
	return cmd
}
