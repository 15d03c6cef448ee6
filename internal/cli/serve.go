package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/roomforge/internal/api"
	"github.com/matzehuels/roomforge/pkg/cache"
	"github.com/matzehuels/roomforge/pkg/pipeline"
	"github.com/matzehuels/roomforge/pkg/store"
)

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr       string
		configFile string
		mongoURI   string
		redisAddr  string
		noCache    bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the layout generation HTTP API",
		Long: `Start the HTTP server exposing the layout pipeline.

Without flags the server keeps layouts in memory and caches pipeline
results on disk. Point --mongo-uri and --redis-addr at running instances
for persistent storage and a shared cache:

  roomforge serve --addr :8080 --mongo-uri mongodb://localhost:27017`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			cfg, err := pipeline.LoadConfig(configFile)
			if err != nil {
				return err
			}
			if addr == "" {
				addr = cfg.Server.Addr
			}
			if mongoURI == "" {
				mongoURI = cfg.Server.MongoURI
			}
			if redisAddr == "" {
				redisAddr = cfg.Cache.RedisAddr
			}

			pipelineCache, err := buildServerCache(cmd, noCache, redisAddr, cfg)
			if err != nil {
				return err
			}

			layoutStore, err := buildServerStore(cmd, mongoURI)
			if err != nil {
				return err
			}
			defer layoutStore.Close(ctx)

			server := api.NewServer(api.Config{
				Addr:   addr,
				Runner: pipeline.NewRunner(pipelineCache, nil, c.Logger),
				Store:  layoutStore,
				Logger: c.Logger,
			})
			return server.Run(ctx)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default :8080)")
	cmd.Flags().StringVar(&configFile, "config", configPath(), "engine config TOML file")
	cmd.Flags().StringVar(&mongoURI, "mongo-uri", "", "MongoDB connection URI for layout storage")
	cmd.Flags().StringVar(&redisAddr, "redis-addr", "", "Redis address for the pipeline cache")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the pipeline cache")

	return cmd
}

// buildServerCache picks Redis, the file cache, or no cache at all.
func buildServerCache(cmd *cobra.Command, noCache bool, redisAddr string, cfg *pipeline.Config) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	if redisAddr != "" {
		rc, err := cache.NewRedisCache(cmd.Context(), redisAddr, cfg.Cache.RedisPassword, cfg.Cache.RedisDB)
		if err != nil {
			return nil, err
		}
		printInfo("Using Redis cache at %s", redisAddr)
		return rc, nil
	}
	dir := cfg.Cache.Dir
	if dir == "" {
		var err error
		dir, err = cacheDir()
		if err != nil {
			return cache.NewNullCache(), nil
		}
	}
	return cache.NewFileCache(dir)
}

// buildServerStore picks MongoDB or the in-memory store.
func buildServerStore(cmd *cobra.Command, mongoURI string) (store.Store, error) {
	if mongoURI == "" {
		printInfo("Using in-memory layout store")
		return store.NewMemoryStore(), nil
	}
	ms, err := store.NewMongoStore(cmd.Context(), mongoURI, "")
	if err != nil {
		return nil, err
	}
	printInfo("Using MongoDB layout store")
	return ms, nil
}
