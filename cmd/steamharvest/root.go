package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/steamharvest/steamharvest/pkg/cache"
	"github.com/steamharvest/steamharvest/pkg/client"
	"github.com/steamharvest/steamharvest/pkg/config"
	"github.com/steamharvest/steamharvest/pkg/logging"
	"github.com/steamharvest/steamharvest/pkg/ratelimit"
	"github.com/steamharvest/steamharvest/pkg/steam"
)

// app carries the loaded configuration and the shared dependencies that
// commands hand to each other: the logger, the optional Redis client and
// the optional metrics listener.
type app struct {
	configPath  string
	dataDir     string
	logLevel    string
	logPretty   bool
	metricsAddr string
	redisAddr   string

	cfg    *config.Config
	logger zerolog.Logger

	redisClient *redis.Client
	stopMetrics func()
}

func newRootCommand() (*cobra.Command, *app) {
	a := &app{}

	cmd := &cobra.Command{
		Use:   "steamharvest",
		Short: "Collect Steam storefront and SteamSpy data into CSV files",
		Long: `steamharvest downloads app details from the Steam storefront API and
SteamSpy in fixed-size batches, appends them to CSV files and checkpoints
its position after every batch, so an interrupted run resumes where it
left off.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
	}

	cmd.PersistentFlags().StringVar(&a.configPath, "config", "", "config file (default searches .steamharvest.yaml in . and $HOME)")
	cmd.PersistentFlags().StringVar(&a.dataDir, "data-dir", "", "directory for data files and checkpoints")
	cmd.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "log level (debug, info, warn, error)")
	cmd.PersistentFlags().BoolVar(&a.logPretty, "log-pretty", true, "human-readable log output")
	cmd.PersistentFlags().StringVar(&a.metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address")
	cmd.PersistentFlags().StringVar(&a.redisAddr, "redis-addr", "", "cache responses in Redis at this address")

	cmd.AddCommand(
		newApplistCommand(a),
		newCollectCommand(a),
		newRunCommand(a),
		newResetCommand(a),
		newMergeCommand(a),
		newAnalyzeCommand(a),
		newVersionCommand(),
	)

	return cmd, a
}

// setup loads the configuration, applies flag overrides and initializes
// logging. It runs before every subcommand.
func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}

	// Flags override file and environment values.
	flags := cmd.Flags()
	if flags.Changed("data-dir") {
		cfg.DataDir = a.dataDir
	}
	if flags.Changed("log-level") {
		cfg.Logging.Level = a.logLevel
	}
	if flags.Changed("log-pretty") {
		cfg.Logging.Pretty = a.logPretty
	}
	if flags.Changed("metrics-addr") {
		cfg.Metrics.Enabled = true
		cfg.Metrics.Addr = a.metricsAddr
	}
	if flags.Changed("redis-addr") {
		cfg.Cache.Enabled = true
		cfg.Cache.Addr = a.redisAddr
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logging.Setup(logging.Config{
		Level:  logging.LogLevel(cfg.Logging.Level),
		Pretty: cfg.Logging.Pretty,
		Output: os.Stderr,
	})

	a.cfg = cfg
	a.logger = logging.NewLogger("cli")

	if cfg.Metrics.Enabled {
		a.stopMetrics = startMetricsServer(cfg.Metrics.Addr, a.logger)
	}
	return nil
}

// close releases shared resources after the command has finished.
func (a *app) close() {
	if a.stopMetrics != nil {
		a.stopMetrics()
	}
	if a.redisClient != nil {
		a.redisClient.Close()
	}
}

// dataPath resolves a file name inside the configured data directory.
func (a *app) dataPath(name string) string {
	return filepath.Join(a.cfg.DataDir, name)
}

// newFetcher builds a fetcher for the given source, wiring the response
// cache when one is configured.
func (a *app) newFetcher(ctx context.Context, source steam.Source) (*client.Fetcher, error) {
	cfg := client.DefaultConfig(source.Name)
	cfg.UserAgent = a.cfg.Client.UserAgent
	cfg.Timeout = a.cfg.Client.Timeout
	cfg.MaxAttempts = a.cfg.Client.MaxAttempts
	cfg.Pacer = ratelimit.NewPacer(source.Pause)

	if a.cfg.Cache.Enabled {
		if a.redisClient == nil {
			a.redisClient = redis.NewClient(&redis.Options{
				Addr: a.cfg.Cache.Addr,
				DB:   a.cfg.Cache.DB,
			})
			pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
			err := a.redisClient.Ping(pingCtx).Err()
			cancel()
			if err != nil {
				return nil, fmt.Errorf("redis at %s: %w", a.cfg.Cache.Addr, err)
			}
			a.logger.Info().Str("addr", a.cfg.Cache.Addr).Int("db", a.cfg.Cache.DB).Msg("Response cache enabled")
		}
		cfg.Cache = cache.NewManager(a.redisClient, a.cfg.Cache.TTL)
	}

	return client.New(cfg)
}
