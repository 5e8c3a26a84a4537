package cli

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/resograph/resograph/internal/api"
	"github.com/resograph/resograph/pkg/archive"
	"github.com/resograph/resograph/pkg/cache"
	"github.com/resograph/resograph/pkg/store"
)

// serveOpts holds the command-line flags for the serve command.
type serveOpts struct {
	configPath string // TOML config file
	listen     string // overrides the config's listen address
}

// serveCommand creates the serve command. It starts an HTTP server exposing
// the store's sync, inspection, rendering, and snapshot operations.
func (c *CLI) serveCommand() *cobra.Command {
	var opts serveOpts

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the object graph over HTTP",
		Long: `Start an HTTP server around a shared store.

The server accepts payloads on POST /v1/sync, exposes records and graph
renderings, and manages snapshots through the configured archive backend.

Configuration is read from a TOML file:

  listen = ":8080"

  [cache]
  backend = "redis"        # file, redis, or none
  ttl = "24h"

  [cache.redis]
  addr = "localhost:6379"

  [archive]
  backend = "mongo"        # memory or mongo

  [archive.mongo]
  uri = "mongodb://localhost:27017"
  database = "resograph"`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVarP(&opts.configPath, "config", "c", "", "TOML config file")
	cmd.Flags().StringVarP(&opts.listen, "listen", "l", "", "listen address (overrides config)")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, opts serveOpts) error {
	cfg, err := loadServerConfig(opts.configPath)
	if err != nil {
		return err
	}
	if opts.listen != "" {
		cfg.Listen = opts.listen
	}

	payloadCache, err := newServerCache(ctx, cfg.Cache)
	if err != nil {
		return err
	}
	defer payloadCache.Close()

	arch, err := newServerArchive(ctx, cfg.Archive)
	if err != nil {
		return err
	}
	defer arch.Close(context.Background())

	s := store.New(store.WithLogger(c.Logger))
	server := api.New(s, arch, c.Logger)

	httpServer := &http.Server{
		Addr:              cfg.Listen,
		Handler:           server.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		c.Logger.Info("listening", "addr", cfg.Listen)
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		c.Logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	}
}

// newServerCache builds the payload cache selected by the config.
func newServerCache(ctx context.Context, cfg CacheConfig) (cache.Cache, error) {
	switch cfg.Backend {
	case "none":
		return cache.NewNullCache(), nil
	case "redis":
		return cache.NewRedisCache(ctx, cfg.Redis)
	default: // file
		dir := cfg.Dir
		if dir == "" {
			var err error
			if dir, err = cacheDir(); err != nil {
				return nil, err
			}
		}
		return cache.NewFileCache(dir)
	}
}

// newServerArchive builds the snapshot archive selected by the config.
func newServerArchive(ctx context.Context, cfg ArchiveConfig) (archive.Archive, error) {
	if cfg.Backend == "mongo" {
		return archive.NewMongoArchive(ctx, cfg.Mongo)
	}
	return archive.NewMemoryArchive(), nil
}
