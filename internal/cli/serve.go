package cli

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/matzehuels/relline/internal/server"
	"github.com/matzehuels/relline/pkg/cache"
	"github.com/matzehuels/relline/pkg/pipeline"
)

// serveCacheEntries bounds the server's in-memory artifact cache.
const serveCacheEntries = 256

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Render posted scenes over HTTP",
		Long: `Serve starts an HTTP server with two routes:

  GET  /health   liveness and build information
  POST /render   render the posted scene (?format=svg|png|json|dot|nodelink)

Settings come from the config file, then RELLINE_ADDR (from the
environment or a .env file in the working directory), then --addr. Every
request renders one settled pass, so the settle delay does not apply.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			// A missing .env is fine; the environment may already be set.
			_ = godotenv.Load()

			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			if err := cfg.ApplyEnv(os.Getenv); err != nil {
				return err
			}
			if cmd.Flags().Changed("addr") {
				cfg.Serve.Addr = addr
			}

			ctx := cmd.Context()
			logger := loggerFromContext(ctx)
			runner := pipeline.NewRunner(cache.NewMemoryCache(serveCacheEntries), logger)
			srv := server.New(runner, logger,
				server.WithMaxBodyBytes(cfg.Serve.MaxBodyBytes),
				server.WithDefaults(pipeline.Options{
					Elements:     cfg.Render.Elements,
					Labels:       cfg.Render.Labels,
					Scale:        cfg.Render.Scale,
					StrokeColor:  cfg.StrokeColor,
					DefaultColor: cfg.DefaultColor,
				}),
			)
			return srv.Serve(ctx, cfg.Serve.Addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, :8080)")

	return cmd
}
