package app

import (
	"context"
	"errors"
	"fmt"
	"io"

	configapp "github.com/doeshing/retest-go/internal/application/config"
	"github.com/doeshing/retest-go/internal/application/doctor"
	"github.com/doeshing/retest-go/internal/application/evaluate"
	historyapp "github.com/doeshing/retest-go/internal/application/history"
	"github.com/doeshing/retest-go/internal/domain"
	"github.com/doeshing/retest-go/internal/infrastructure/cache"
	"github.com/doeshing/retest-go/internal/infrastructure/config"
	"github.com/doeshing/retest-go/internal/infrastructure/engine"
	"github.com/doeshing/retest-go/internal/infrastructure/history"
	"github.com/doeshing/retest-go/internal/pkg/logger"
	"github.com/doeshing/retest-go/internal/ports"
)

// Options tunes BuildContainer.
type Options struct {
	Verbose    bool
	ConfigPath string
	Notifier   ports.Notifier
	Stderr     io.Writer
}

// Container wires up application services with infrastructure adapters.
type Container struct {
	Config         domain.Config
	ConfigProvider ports.ConfigProvider
	ConfigLoader   *config.FileLoader
	Logger         ports.Logger
	Notifier       ports.Notifier
	Engine         ports.Engine
	Evaluator      *evaluate.Service
	HistoryStore   ports.HistoryRepository
	DoctorService  *doctor.Service

	history *historyapp.Service
}

// BuildContainer constructs the dependency graph.
// Options.Notifier is required; recoverable problems are reported through it.
func BuildContainer(ctx context.Context, opts Options) (*Container, error) {
	if opts.Notifier == nil {
		return nil, errors.New("notifier required")
	}
	notifier := opts.Notifier

	cfgLoader := config.NewFileLoader(opts.ConfigPath)
	cfgLoader.SetNotifier(notifier)
	cfg, err := cfgLoader.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load configuration: %w", err)
	}
	if err := configapp.Validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration %s: %w", cfgLoader.Path(), err)
	}

	log := logger.New(logger.Options{
		Verbose:    opts.Verbose,
		Level:      cfg.Logging.Level,
		File:       cfg.Logging.File,
		MaxSizeMB:  cfg.Logging.MaxSizeMB,
		MaxBackups: cfg.Logging.MaxBackups,
		Stderr:     opts.Stderr,
	})

	baseEngine, err := engine.New(cfg)
	if err != nil {
		return nil, err
	}
	cachedEngine := cache.NewPatternCache(baseEngine, cfg.Cache.MaxEntries)

	historyStore, err := history.NewStore(cfg)
	if err != nil {
		return nil, err
	}

	return &Container{
		Config:         cfg,
		ConfigProvider: cfgLoader,
		ConfigLoader:   cfgLoader,
		Logger:         log,
		Notifier:       notifier,
		Engine:         cachedEngine,
		Evaluator:      evaluate.NewService(cachedEngine, log),
		HistoryStore:   historyStore,
		DoctorService: &doctor.Service{
			ConfigProvider: cfgLoader,
			Engine:         cachedEngine,
			HistoryStore:   historyStore,
		},
	}, nil
}

// History returns the execution log, loading it on first use. A load
// failure is reported through the notifier and leaves an empty log.
func (c *Container) History() *historyapp.Service {
	if c.history != nil {
		return c.history
	}
	c.history = historyapp.NewService(c.HistoryStore, c.Notifier, c.Logger)
	if err := c.history.Load(); err != nil {
		c.Notifier.Alert("Warning", fmt.Sprintf("Could not load prior state/history: \n\t%v", err))
	}
	return c.history
}

// EvaluatorFor returns an evaluator bound to a specific engine, or the
// default evaluator when name is empty or matches the configured engine.
func (c *Container) EvaluatorFor(name string) (*evaluate.Service, error) {
	if name == "" || name == c.Engine.Name() {
		return c.Evaluator, nil
	}
	e, err := engine.ByName(name, c.Config)
	if err != nil {
		return nil, err
	}
	return evaluate.NewService(cache.NewPatternCache(e, c.Config.Cache.MaxEntries), c.Logger), nil
}

// Close releases resources held by adapters.
func (c *Container) Close() error {
	if closer, ok := c.HistoryStore.(io.Closer); ok {
		if err := closer.Close(); err != nil {
			return err
		}
	}
	if closer, ok := c.Logger.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}
