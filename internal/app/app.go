package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/time/rate"

	"github.com/five82/commons/internal/config"
	"github.com/five82/commons/internal/discovery"
	"github.com/five82/commons/internal/forum"
	"github.com/five82/commons/internal/history"
	"github.com/five82/commons/internal/prefs"
	"github.com/five82/commons/internal/ui"
)

// Version is stamped at build time.
var Version = "dev"

// Options configure the commons TUI.
type Options struct {
	ConfigPath string
	PrefsPath  string // empty uses default ~/.config/commons/prefs.toml
	// Link is the deep link to open first.
	Link string
	// LogLevel overrides logging.level when set.
	LogLevel string
}

// Stack is the wired discovery pipeline shared by the TUI and the one-shot
// commands.
type Stack struct {
	Config     config.Config
	Client     *forum.Client
	Controller *discovery.Controller
	Registry   *prometheus.Registry
	Logger     *log.Logger
	// History is nil until OpenHistory succeeds.
	History *history.Store
}

// Build wires the forum client, metrics registry and controller from cfg.
func Build(cfg config.Config, logger *log.Logger) (*Stack, error) {
	if logger == nil {
		logger = log.New(io.Discard)
	}

	client, err := forum.NewClient(forum.Options{
		BaseURL:   cfg.API.BaseURL,
		Token:     cfg.API.Token,
		UserAgent: "commons/" + Version,
		Timeout:   cfg.Timeout(),
		Limiter:   newLimiter(cfg.API),
		Logger:    logger.WithPrefix("forum"),
	})
	if err != nil {
		return nil, fmt.Errorf("init forum client: %w", err)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	ctrl, err := discovery.NewController(discovery.Options{
		API: client,
		Viewer: discovery.Viewer{
			Username:       cfg.Viewer.Username,
			Admin:          cfg.Viewer.Admin,
			IncludeDeleted: cfg.Viewer.IncludeDeleted,
		},
		PageSize:   cfg.Discovery.PageSize,
		Logger:     logger.WithPrefix("discovery"),
		Registerer: reg,
	})
	if err != nil {
		return nil, fmt.Errorf("init discovery: %w", err)
	}

	return &Stack{
		Config:     cfg,
		Client:     client,
		Controller: ctrl,
		Registry:   reg,
		Logger:     logger,
	}, nil
}

// OpenHistory opens the recent-links database named in the config.
func (s *Stack) OpenHistory() error {
	store, err := history.Open(s.Config.History.Path, s.Config.History.Limit)
	if err != nil {
		return fmt.Errorf("open history %s: %w", s.Config.History.Path, err)
	}
	s.History = store
	return nil
}

// Close releases the history database.
func (s *Stack) Close() error {
	if s.History == nil {
		return nil
	}
	return s.History.Close()
}

// newLimiter returns nil, meaning unlimited, when requests_per_second is 0.
func newLimiter(cfg config.APIConfig) *rate.Limiter {
	if cfg.RequestsPerSecond <= 0 {
		return nil
	}
	return rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), max(cfg.Burst, 1))
}

// Run boots the commons TUI until the user quits or ctx is cancelled.
func Run(ctx context.Context, opts Options) error {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if opts.LogLevel != "" {
		cfg.Logging.Level = opts.LogLevel
	}

	logger, closeLog, err := OpenFileLogger(cfg.Logging.File, cfg.Logging.Level)
	if err != nil {
		return err
	}
	defer func() { _ = closeLog() }()

	stack, err := Build(cfg, logger)
	if err != nil {
		return err
	}
	defer func() { _ = stack.Close() }()

	// Recent links are a convenience; run without them rather than fail.
	if err := stack.OpenHistory(); err != nil {
		logger.Warn("recent links disabled", "err", err)
	}

	userPrefs, _ := prefs.Load(opts.PrefsPath)

	if cfg.Metrics.Listen != "" {
		ms, err := StartMetricsServer(cfg.Metrics.Listen, stack.Registry, logger)
		if err != nil {
			return err
		}
		defer func() {
			shutCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			_ = ms.Shutdown(shutCtx)
		}()
	}

	p := ui.NewProgram(ui.Options{
		Context:    ctx,
		Controller: stack.Controller,
		API:        stack.Client,
		History:    stack.History,
		Link:       opts.Link,
		Prefs:      userPrefs,
		PrefsPath:  opts.PrefsPath,
		Logger:     logger.WithPrefix("ui"),
	})
	StartRefresher(ctx, p, stack.Controller, cfg.RefreshInterval(), logger)

	logger.Info("commons started", "version", Version, "api", cfg.API.BaseURL)
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("run ui: %w", err)
	}
	return nil
}
