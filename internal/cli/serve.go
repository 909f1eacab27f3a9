package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/pinout/internal/server"
	"github.com/matzehuels/pinout/pkg/config"
	"github.com/matzehuels/pinout/pkg/observability"
	"github.com/matzehuels/pinout/pkg/store"
)

// serveCommand starts the HTTP render service.
func (c *CLI) serveCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP render service",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg := c.Config
			if !cmd.Flags().Changed("addr") {
				addr = cfg.Server.Addr
			}

			defer observability.Register(observability.NewLogSink(c.Logger))()

			runner, err := c.newRunner(ctx, false, "serve")
			if err != nil {
				return err
			}
			defer runner.Close()

			var st store.Store = store.NewMemoryStore()
			if cfg.Server.Store == config.StoreMongo {
				st, err = store.NewMongoStore(ctx, store.MongoOptions{
					URI:        cfg.Server.Mongo.URI,
					Database:   cfg.Server.Mongo.Database,
					Collection: cfg.Server.Mongo.Collection,
				})
				if err != nil {
					return err
				}
			}

			assets := cfg.Render.AssetDir
			if assets == "" {
				assets = "."
			}
			srv := server.New(server.Options{
				Runner:       runner,
				Store:        st,
				Assets:       os.DirFS(assets),
				Render:       cfg.Render,
				MaxBodyBytes: cfg.Server.MaxBodyBytes,
				Timeout:      cfg.Server.Timeout,
				Logger:       c.Logger,
			})
			printInfo("Serving on %s", addr)
			return srv.ListenAndServe(ctx, addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, :8080)")
	return cmd
}
