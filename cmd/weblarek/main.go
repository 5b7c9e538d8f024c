// Package main is the entry point for the weblarek storefront server.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/ivanmalyshevv/weblarek/internal/api"
	"github.com/ivanmalyshevv/weblarek/internal/app"
	"github.com/ivanmalyshevv/weblarek/internal/config"
	"github.com/ivanmalyshevv/weblarek/internal/web"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

type flags struct {
	configPath string
	envFile    string
	addr       string
	logLevel   string
}

func main() {
	os.Exit(run())
}

func run() int {
	f := parseFlags()

	cfg, err := config.Load(config.Options{
		Path:     f.configPath,
		EnvFiles: []string{f.envFile},
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: loading config: %v\n", err)
		return 1
	}
	if f.addr != "" {
		cfg.Server.Addr = f.addr
	}
	if f.logLevel != "" {
		cfg.Log.Level = f.logLevel
	}

	log := app.NewLogger(app.LoggerConfig{
		Level:  app.ParseLogLevel(cfg.Log.Level),
		Format: app.LogFormat(cfg.Log.Format),
		Prefix: "weblarek",
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := serve(ctx, cfg, log); err != nil {
		log.WithError(err).Error("exiting")
		return 1
	}
	return 0
}

// serve runs the session and the HTTP server until ctx is cancelled.
func serve(ctx context.Context, cfg *config.Config, log *app.Logger) error {
	metrics := app.NewMetrics(true)

	client, err := api.New(api.Config{
		BaseURL:   cfg.API.BaseURL,
		CDNURL:    cfg.API.CDNURL,
		Timeout:   cfg.API.Timeout,
		RateLimit: cfg.API.RateLimit,
		Burst:     cfg.API.Burst,
		Metrics:   api.NewMetrics(metrics.Registry()),
	})
	if err != nil {
		return &app.InitError{Component: "api", Err: err}
	}

	var markup []byte
	if cfg.UI.Templates != "" {
		if markup, err = os.ReadFile(cfg.UI.Templates); err != nil {
			return &app.InitError{Component: "templates", Err: err}
		}
	}

	session, err := app.New(app.Options{
		Backend: client,
		Logger:  log,
		Metrics: metrics,
		Locale:  cfg.UI.Locale,
		Markup:  markup,
	})
	if err != nil {
		return err
	}

	sessionDone := make(chan error, 1)
	go func() { sessionDone <- session.Run(ctx) }()

	if cfg.UI.Watch {
		if err := session.WatchTemplates(ctx, cfg.UI.Templates, 0); err != nil {
			log.WithError(err).Warn("template watching disabled")
		}
	}

	var metricsPath string
	if cfg.Metrics.Enabled {
		metricsPath = cfg.Metrics.Path
	}
	srv := &http.Server{
		Addr: cfg.Server.Addr,
		Handler: web.New(session, web.Options{
			Logger:         log,
			MetricsPath:    metricsPath,
			RequestTimeout: cfg.Server.WriteTimeout,
		}),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.WithFields(map[string]any{
			"addr":    cfg.Server.Addr,
			"version": version,
			"commit":  commit,
		}).Info("listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case <-ctx.Done():
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Warn("http shutdown")
	}
	return <-sessionDone
}

func parseFlags() flags {
	var f flags
	var showVersion bool

	flag.StringVar(&f.configPath, "config", os.Getenv("WEBLAREK_CONFIG"), "Path to configuration file (.toml, .yaml)")
	flag.StringVar(&f.configPath, "c", os.Getenv("WEBLAREK_CONFIG"), "Path to configuration file (shorthand)")
	flag.StringVar(&f.envFile, "env-file", envOr("WEBLAREK_ENV_FILE", ".env"), "Path to a .env file")
	flag.StringVar(&f.addr, "addr", "", "Listen address, overrides server.addr")
	flag.StringVar(&f.logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	flag.BoolVar(&showVersion, "version", false, "Show version information")
	flag.BoolVar(&showVersion, "v", false, "Show version information (shorthand)")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "weblarek - storefront server\n\n")
		fmt.Fprintf(os.Stderr, "Usage: weblarek [options]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  weblarek                          Serve with defaults on :8080\n")
		fmt.Fprintf(os.Stderr, "  weblarek -c weblarek.toml         Load a config file\n")
		fmt.Fprintf(os.Stderr, "  WEBLAREK_API_URL=... weblarek     Point at another API\n")
	}

	flag.Parse()

	if showVersion {
		fmt.Printf("weblarek %s\n", version)
		fmt.Printf("Commit: %s\n", commit)
		fmt.Printf("Built: %s\n", date)
		os.Exit(0)
	}

	switch f.logLevel {
	case "", "debug", "info", "warn", "error":
	default:
		fmt.Fprintf(os.Stderr, "Error: invalid log level %q (must be debug, info, warn, or error)\n", f.logLevel)
		os.Exit(1)
	}
	return f
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
