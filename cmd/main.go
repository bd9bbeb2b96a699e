package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/okian/picksheet/internal/adapters/breaker"
	"github.com/okian/picksheet/internal/adapters/http/api"
	"github.com/okian/picksheet/internal/adapters/http/site"
	"github.com/okian/picksheet/internal/adapters/http/swagger"
	"github.com/okian/picksheet/internal/adapters/notify"
	"github.com/okian/picksheet/internal/adapters/sheet"
	app "github.com/okian/picksheet/internal/app"
	"github.com/okian/picksheet/internal/config"
	"github.com/okian/picksheet/internal/domain/scoretable"
	"github.com/okian/picksheet/internal/testsheet"
	"github.com/okian/picksheet/pkg/logger"
	"github.com/okian/picksheet/pkg/metrics"
)

// HTTP server timeout constants.
const (
	readTimeout       = 10 * time.Second
	writeTimeout      = 30 * time.Second
	idleTimeout       = 60 * time.Second
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 30 * time.Second
	demoSeed          = 2024
)

func main() {
	// Initialize logging
	if err := logger.Init(); err != nil {
		// Use fmt for initialization errors since logger isn't available yet
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		return
	}
	defer func() {
		_ = logger.Sync()
	}()

	loggerInstance := logger.Get()

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration (defaults -> optional file -> env)
	cfg, err := config.Load(ctx)
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		return
	}

	// Apply configured log level (fallback to info on invalid input)
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		loggerInstance.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	metrics.Init(metricsOptions(cfg)...)

	svc, err := newService(cfg)
	if err != nil {
		loggerInstance.Error(ctx, "failed to build service", logger.Error(err))
		return
	}
	if err := svc.Start(ctx); err != nil {
		loggerInstance.Error(ctx, "failed to start service", logger.Error(err))
		return
	}
	defer svc.Stop()

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           newMux(ctx, cfg, svc),
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	// Start the HTTP server
	go func() {
		loggerInstance.Info(ctx, "starting HTTP server", logger.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			loggerInstance.Error(ctx, "HTTP server failed", logger.Error(err))
			stop()
		}
	}()

	// Wait for shutdown signal
	<-ctx.Done()
	loggerInstance.Info(ctx, "shutting down server...")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		loggerInstance.Error(ctx, "server shutdown failed", logger.Error(err))
	}

	loggerInstance.Info(ctx, "server stopped")
}

// metricsOptions maps the metrics settings of cfg onto manager options.
func metricsOptions(cfg *config.Config) []metrics.Option {
	return []metrics.Option{
		metrics.WithNamespace(cfg.MetricsNamespace),
		metrics.WithSubsystem(cfg.MetricsSubsystem),
		metrics.WithHistogramBuckets(cfg.MetricsBucketsMS),
		metrics.WithCustomLabels(cfg.MetricsLabels),
	}
}

// newService wires the sheet source, the builder options and the notifier
// described by cfg.
func newService(cfg *config.Config) (*app.Service, error) {
	start, err := cfg.SeasonStartTime()
	if err != nil {
		return nil, err
	}
	breakerOpts := []breaker.Option{
		breaker.WithFailureRatio(cfg.BreakerFailureRatio),
		breaker.WithTimeout(cfg.BreakerTimeout()),
	}

	builderOpts := []scoretable.Option{
		scoretable.WithSeasonStart(start),
		scoretable.WithMonthLocale(cfg.MonthLocale),
		scoretable.WithDefaultPickRow(cfg.DefaultPickRow),
		scoretable.WithRoster(cfg.Roster),
	}
	if len(cfg.FooterLabels) > 0 {
		builderOpts = append(builderOpts, scoretable.WithFooterLabels(cfg.FooterLabels))
	}
	if len(cfg.CellSentinels) > 0 {
		builderOpts = append(builderOpts, scoretable.WithCellSentinels(cfg.CellSentinels))
	}

	return app.New(
		app.WithLogger(logger.Named("service")),
		app.WithSource(newSource(cfg, breakerOpts)),
		app.WithBuilderOptions(builderOpts...),
		app.WithCacheTTL(cfg.CacheTTL()),
		app.WithRefreshCooldown(cfg.RefreshCooldown()),
		app.WithDedupeSize(cfg.DedupeSize),
		app.WithNotifier(notify.NewWebhook(cfg.WebhookURL,
			notify.WithUsername(cfg.WebhookUsername),
			notify.WithBreakerOptions(breakerOpts...),
			notify.WithLogger(logger.Named("notify")),
		)),
	), nil
}

// newSource picks the sheet URL, then the local file, then a generated
// demo season.
func newSource(cfg *config.Config, breakerOpts []breaker.Option) sheet.Source {
	switch {
	case strings.TrimSpace(cfg.SheetURL) != "":
		return sheet.NewHTTPSource(cfg.SheetURL,
			sheet.WithTimeout(cfg.FetchTimeout()),
			sheet.WithBreakerOptions(breakerOpts...),
			sheet.WithLogger(logger.Named("sheet")),
		)
	case strings.TrimSpace(cfg.SheetPath) != "":
		return sheet.NewFileSource(cfg.SheetPath)
	default:
		logger.Get().Warn(context.Background(), "no sheet_url or sheet_path configured; serving a generated demo season")
		grid := testsheet.Generate(testsheet.Config{Seed: demoSeed}.Defaults())
		return sheet.SourceFunc(func(context.Context) ([][]string, error) {
			return grid, nil
		})
	}
}

// newMux registers the docs, API and root routes.
func newMux(ctx context.Context, cfg *config.Config, svc *app.Service) *http.ServeMux {
	mux := http.NewServeMux()
	swagger.Register(ctx, mux)
	api.NewServer(svc, svc, cfg.MaxLeaderboardLimit).Register(ctx, mux)
	site.Register(ctx, mux)
	return mux
}
