package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/respkv-go/internal/infra/buildinfo"
	"github.com/yndnr/respkv-go/internal/infra/confloader"
	"github.com/yndnr/respkv-go/internal/infra/shutdown"
	"github.com/yndnr/respkv-go/internal/server/config"
	"github.com/yndnr/respkv-go/internal/server/httpserver"
	"github.com/yndnr/respkv-go/internal/server/respserver"
	"github.com/yndnr/respkv-go/internal/storage/memory"
	"github.com/yndnr/respkv-go/internal/telemetry/logger"
	"github.com/yndnr/respkv-go/internal/telemetry/metric"
)

const shutdownTimeout = 30 * time.Second

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:    "respkv-server",
		Usage:   "In-memory key-value server speaking RESP2",
		Version: buildinfo.String(),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to configuration file",
				EnvVars: []string{"RESPKV_CONFIG"},
			},
			&cli.StringFlag{
				Name:    "env-file",
				Usage:   "Load RESPKV_ variables from a dotenv file",
				EnvVars: []string{"RESPKV_ENV_FILE"},
			},
			&cli.StringFlag{
				Name:  "addr",
				Usage: "RESP listen address (overrides server.addr)",
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "Log level: debug, info, warn, error (overrides log.level)",
			},
			&cli.StringFlag{
				Name:  "metrics-addr",
				Usage: "Serve Prometheus metrics on this address (enables metrics)",
			},
		},
		Action: run,
	}
}

// flagOverrides maps explicitly set flags to configuration keys.
func flagOverrides(c *cli.Context) map[string]any {
	overrides := make(map[string]any)
	if c.IsSet("addr") {
		overrides["server.addr"] = c.String("addr")
	}
	if c.IsSet("log-level") {
		overrides["log.level"] = c.String("log-level")
	}
	if c.IsSet("metrics-addr") {
		overrides["metrics.addr"] = c.String("metrics-addr")
		overrides["metrics.enabled"] = true
	}
	return overrides
}

func run(c *cli.Context) error {
	loader := confloader.NewLoader(
		confloader.WithConfigFile(c.String("config")),
		confloader.WithDotEnvFile(c.String("env-file")),
		confloader.WithOverrides(flagOverrides(c)),
	)

	cfg, err := loadConfig(loader)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, logCloser, err := initLogger(cfg)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logCloser.Close()

	info := buildinfo.Get()
	log.Info("starting respkv-server",
		"version", info.Version,
		"commit", info.Commit,
		"config", loader.FilePath())

	store := memory.New(memory.WithShardCount(cfg.Store.Shards))

	shutdownHandler := shutdown.NewHandler(shutdownTimeout)

	// Registered first so it runs last, after every listener stopped.
	shutdownHandler.OnShutdown(func(ctx context.Context) error {
		log.Info("releasing store", "keys", store.Len())
		store.Reset()
		return nil
	})

	var metrics *metric.Registry
	if cfg.Metrics.Enabled {
		metrics = metric.NewRegistry()
		if err := metrics.Register(metric.NewStoreCollector(store)); err != nil {
			return fmt.Errorf("register store metrics: %w", err)
		}
		startMetricsServer(cfg.Metrics.Addr, metrics, store, log, shutdownHandler)
	}

	srv := respserver.New(serverConfig(cfg), store, log, metrics)
	if err := srv.Start(c.Context); err != nil {
		return fmt.Errorf("start resp server: %w", err)
	}
	shutdownHandler.OnShutdown(func(ctx context.Context) error {
		log.Info("shutting down resp server")
		return srv.Shutdown(ctx)
	})

	if path := loader.FilePath(); path != "" {
		watcher, err := confloader.NewWatcher(confloader.WithWatcherLogger(log))
		if err != nil {
			return fmt.Errorf("create config watcher: %w", err)
		}
		if err := watcher.Watch(path); err != nil {
			return fmt.Errorf("watch config: %w", err)
		}
		watcher.OnChange(func(string) {
			reloadLogLevel(loader, log)
		})
		watcher.StartAsync()
		shutdownHandler.OnShutdown(func(context.Context) error {
			return watcher.Stop()
		})
	}

	log.Info("server started, press Ctrl+C to stop")
	if err := shutdownHandler.Wait(c.Context); err != nil {
		log.Error("shutdown error", "error", err)
		return err
	}

	log.Info("server stopped gracefully")
	return nil
}

// loadConfig loads configuration over the defaults and validates it.
func loadConfig(loader *confloader.Loader) (*config.ServerConfig, error) {
	cfg := config.Default()

	if err := loader.Load(cfg); err != nil {
		return nil, err
	}

	if err := config.Verify(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// initLogger initializes the structured logger and makes it the default.
// The returned closer releases the log file, if one is configured.
func initLogger(cfg *config.ServerConfig) (logger.Logger, io.Closer, error) {
	var (
		out    io.Writer = os.Stdout
		closer io.Closer = nopCloser{}
	)
	if cfg.Log.File != "" {
		w := logger.NewFileWriter(logger.FileConfig{
			Path:       cfg.Log.File,
			MaxSizeMB:  cfg.Log.MaxSizeMB,
			MaxBackups: cfg.Log.MaxBackups,
			MaxAgeDays: cfg.Log.MaxAgeDays,
			Compress:   cfg.Log.Compress,
		})
		out, closer = w, w
	}

	log, err := logger.New(logger.Config{
		Level:   cfg.Log.Level,
		Format:  cfg.Log.Format,
		Output:  out,
		Service: "respkv-server",
	})
	if err != nil {
		_ = closer.Close()
		return nil, nil, err
	}

	logger.SetDefault(log)
	return log, closer, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// reloadLogLevel re-reads the configuration and applies a changed log
// level. Other settings need a restart; an invalid file is ignored.
func reloadLogLevel(loader *confloader.Loader, log logger.Logger) {
	cfg, err := loadConfig(loader)
	if err != nil {
		log.Warn("ignoring configuration change", "error", err)
		return
	}

	if old := logger.GetLevel(); cfg.Log.Level != old {
		logger.SetLevel(cfg.Log.Level)
		log.Info("log level changed", "from", old, "to", logger.GetLevel())
	}
}

func serverConfig(cfg *config.ServerConfig) *respserver.Config {
	return &respserver.Config{
		Addr:           cfg.Server.Addr,
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
		IdleTimeout:    cfg.Server.IdleTimeout,
		MaxBufferBytes: cfg.Server.MaxBufferBytes,
		RateLimit:      cfg.Server.RateLimit,
		RateBurst:      cfg.Server.RateBurst,
	}
}

// startMetricsServer serves /metrics and the health probes in the
// background. A failure to serve shuts the process down.
func startMetricsServer(addr string, metrics *metric.Registry, store *memory.Store, log logger.Logger, h *shutdown.Handler) {
	httpServer := httpserver.New(addr, httpserver.NewRouter(&httpserver.RouterConfig{
		Metrics: metrics,
		Store:   store,
		Logger:  log,
	}))

	go func() {
		log.Info("metrics server listening", "addr", addr)
		if err := httpServer.ListenAndServe(); err != nil {
			log.Error("metrics server error", "error", err)
			h.Trigger()
		}
	}()

	h.OnShutdown(func(ctx context.Context) error {
		log.Info("shutting down metrics server")
		return httpServer.Shutdown(ctx)
	})
}
