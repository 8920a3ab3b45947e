// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jeranaias/groundchat/internal/cache"
	"github.com/jeranaias/groundchat/internal/claude"
	"github.com/jeranaias/groundchat/internal/cloud"
	"github.com/jeranaias/groundchat/internal/completion"
	"github.com/jeranaias/groundchat/internal/config"
	"github.com/jeranaias/groundchat/internal/dataset"
	"github.com/jeranaias/groundchat/internal/gemini"
	"github.com/jeranaias/groundchat/internal/logging"
	"github.com/jeranaias/groundchat/internal/model"
	"github.com/jeranaias/groundchat/internal/ollama"
	"github.com/jeranaias/groundchat/internal/router"
	"github.com/jeranaias/groundchat/internal/session"
	"github.com/jeranaias/groundchat/internal/telemetry"
	"github.com/jeranaias/groundchat/internal/warehouse"
)

// shutdownTimeout bounds the trace flush on exit.
const shutdownTimeout = 5 * time.Second

// =============================================================================
// CONFIG LOADING
// =============================================================================

// loadConfig reads the config file and applies the command-line overrides.
func loadConfig(args Args) (*config.Config, error) {
	cfg, err := config.Load(args.ConfigPath)
	if err != nil {
		var invalid config.ValidateErrors
		if errors.As(err, &invalid) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", errConfigLoad, err)
	}
	if err := applyFlags(cfg, args); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyFlags copies flag values over the loaded configuration.
func applyFlags(cfg *config.Config, args Args) error {
	if args.Model != "" {
		cfg.Chat.Model = args.Model
	}
	if args.Table != "" {
		cfg.Context.Table = args.Table
	}
	if args.Backend != "" {
		cfg.Backend.Mode = args.Backend
	}
	if args.Debug {
		cfg.Chat.Debug = true
	}
	if args.NoHistory {
		cfg.Chat.UseHistory = false
	}
	if args.Window > 0 {
		cfg.Chat.HistoryWindow = args.Window
	}
	if args.Limit > 0 {
		cfg.Search.Limit = args.Limit
	}
	return cfg.Validate()
}

// =============================================================================
// APP
// =============================================================================

// App holds the components shared by the chat, ask and data commands.
type App struct {
	Config    *config.Config
	Logger    *slog.Logger
	Warehouse *warehouse.Warehouse
	Cache     cache.Store
	Source    dataset.Source
	Router    *router.Router
	Invoker   *completion.Invoker
	Stats     *telemetry.Stats

	closers []func() error
}

// NewApp loads the configuration and opens the warehouse. An unreachable
// warehouse is fatal.
func NewApp(ctx context.Context, args Args) (*App, error) {
	cfg, err := loadConfig(args)
	if err != nil {
		return nil, err
	}

	app := &App{Config: cfg, Stats: telemetry.NewStats()}

	closeLog, err := logging.Setup(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errConfigLoad, err)
	}
	app.closers = append(app.closers, closeLog)
	app.Logger = slog.Default()
	for _, w := range cfg.Warnings() {
		app.Logger.Warn("configuration", "advice", w)
	}

	shutdown, err := telemetry.Setup(ctx, cfg.Telemetry, Version)
	if err != nil {
		app.Logger.Warn("tracing disabled", "error", err)
	} else {
		app.closers = append(app.closers, func() error {
			sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			return shutdown(sctx)
		})
	}

	wh, err := warehouse.Open(ctx, cfg.WarehouseConfig(), app.Logger)
	if err != nil {
		app.Close()
		return nil, err
	}
	app.Warehouse = wh
	app.closers = append(app.closers, wh.Close)

	app.Source = wh
	if ttl := cfg.CacheTTL(); ttl > 0 {
		store, err := cache.Open(ctx, cfg.Cache.RedisURL, cfg.Cache.Prefix)
		if err != nil {
			app.Logger.Warn("redis cache unavailable, using memory", "error", err)
			store = cache.NewMemoryStore()
		}
		app.Cache = store
		app.closers = append(app.closers, store.Close)
		app.Source = dataset.NewCachedSource(wh, store, ttl, app.Logger)
	}

	app.Router = newRouter(cfg, wh, app.Logger)
	app.Invoker = completion.NewInvoker(app.Router, app.Logger)
	return app, nil
}

// newRouter registers every backend and routes each allow-listed model.
// Remote backends are built on first use, so a missing key only affects
// the models routed to it.
func newRouter(cfg *config.Config, wh *warehouse.Warehouse, logger *slog.Logger) *router.Router {
	r := router.New(config.BackendWarehouse, logger)

	r.Register(config.BackendWarehouse, router.Static(wh.Completer()))

	r.Register(config.BackendOllama, func(context.Context) (completion.Backend, error) {
		client := ollama.NewClientWithConfig(&ollama.ClientConfig{
			BaseURL: cfg.Ollama.URL,
			Timeout: time.Duration(cfg.Ollama.TimeoutSecs) * time.Second,
		})
		return ollama.NewBackend(client, ollama.DefaultModelMap), nil
	})

	r.Register(config.BackendCloud, func(context.Context) (completion.Backend, error) {
		client := cloud.NewClient(cfg.Cloud.APIKey,
			cloud.WithBaseURL(cfg.Cloud.BaseURL),
			cloud.WithTemperature(cfg.Cloud.Temperature),
			cloud.WithMaxTokens(cfg.Cloud.MaxTokens),
			cloud.WithRateLimit(cfg.Cloud.RequestsPerMinute, 1),
			cloud.WithLogger(logger),
		)
		if !client.IsConfigured() {
			return nil, fmt.Errorf("cloud backend: API key not configured")
		}
		return cloud.NewBackend(client, cloud.OpenRouterModels), nil
	})

	r.Register(config.BackendAnthropic, func(context.Context) (completion.Backend, error) {
		b, err := claude.New(claude.Config{
			APIKey:    cfg.Anthropic.APIKey,
			BaseURL:   cfg.Anthropic.BaseURL,
			MaxTokens: int64(cfg.Anthropic.MaxTokens),
		})
		if err != nil {
			return nil, err
		}
		return b, nil
	})

	r.Register(config.BackendGemini, func(bctx context.Context) (completion.Backend, error) {
		b, err := gemini.New(bctx, gemini.Config{
			APIKey:  cfg.Gemini.APIKey,
			BaseURL: cfg.Gemini.BaseURL,
		})
		if err != nil {
			return nil, err
		}
		return b, nil
	})

	for _, id := range model.ModelIDs() {
		r.Route(id, cfg.RouteFor(id))
	}
	return r
}

// NewSession creates a session from the configured settings and loads the
// context table. A load failure is reported through warn and the session
// continues without context.
func (a *App) NewSession(ctx context.Context, warn func(error)) (*session.Session, error) {
	sess, err := session.New(a.Config.Settings())
	if err != nil {
		return nil, err
	}
	if a.Config.Context.Table == "" {
		return sess, nil
	}
	if err := sess.LoadContext(ctx, a.Source, a.Config.Context.Table, a.Logger); err != nil && warn != nil {
		warn(err)
	}
	return sess, nil
}

// NewRunner creates a turn runner that records statistics.
func (a *App) NewRunner() *session.Runner {
	return session.NewRunner(a.Invoker, a.Logger)
}

// Record adds a finished turn to the run statistics.
func (a *App) Record(turn session.Turn) {
	a.Stats.Record(turn.Model, turn.Outcome != completion.OutcomeOK, turn.Duration)
}

// Close releases resources in reverse order.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}
