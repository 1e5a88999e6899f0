package localeops

import (
	"context"
	"errors"

	command "github.com/goliatone/go-command"

	"github.com/goliatone/go-localize/internal/commands"
	"github.com/goliatone/go-localize/pkg/interfaces"
)

// CommandRegistry is the minimal registration contract expected when wiring
// command handlers.
type CommandRegistry interface {
	RegisterCommand(handler any) error
}

// CronRegistrar matches the function signature used by go-command registries.
type CronRegistrar func(command.HandlerConfig, any) error

// HandlerSet groups the locale command handlers produced by
// RegisterLocaleCommands.
type HandlerSet struct {
	Reload  *ReloadLocalesHandler
	Rebuild *RebuildIndexHandler
	Clean   *CleanIndexHandler
}

// Option customises handler wiring during registration.
type Option func(*options)

type options struct {
	reloadHandlerOpts  []commands.HandlerOption[ReloadLocalesCommand]
	rebuildHandlerOpts []commands.HandlerOption[RebuildIndexCommand]
	cleanHandlerOpts   []commands.HandlerOption[CleanIndexCommand]
}

// WithReloadHandlerOptions forwards options to the ReloadLocalesHandler constructor.
func WithReloadHandlerOptions(opts ...commands.HandlerOption[ReloadLocalesCommand]) Option {
	return func(cfg *options) {
		cfg.reloadHandlerOpts = append(cfg.reloadHandlerOpts, opts...)
	}
}

// WithRebuildHandlerOptions forwards options to the RebuildIndexHandler constructor.
func WithRebuildHandlerOptions(opts ...commands.HandlerOption[RebuildIndexCommand]) Option {
	return func(cfg *options) {
		cfg.rebuildHandlerOpts = append(cfg.rebuildHandlerOpts, opts...)
	}
}

// WithCleanHandlerOptions forwards options to the CleanIndexHandler constructor.
func WithCleanHandlerOptions(opts ...commands.HandlerOption[CleanIndexCommand]) Option {
	return func(cfg *options) {
		cfg.cleanHandlerOpts = append(cfg.cleanHandlerOpts, opts...)
	}
}

// RegisterLocaleCommands builds the locale command handlers and registers
// them with the provided registry. The HandlerSet is returned so callers can
// wire additional integrations (dispatcher, cron) as needed.
func RegisterLocaleCommands(reg CommandRegistry, engine interfaces.LocalizationEngine, provider interfaces.LoggerProvider, gates FeatureGates, opts ...Option) (*HandlerSet, error) {
	if engine == nil {
		return nil, errors.New("locale command registration: engine is nil")
	}

	cfg := options{}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	logger := commands.CommandLogger(provider, "locales")

	reloadHandler := NewReloadLocalesHandler(engine, logger, gates, cfg.reloadHandlerOpts...)
	rebuildHandler := NewRebuildIndexHandler(engine, logger, gates, cfg.rebuildHandlerOpts...)
	cleanHandler := NewCleanIndexHandler(engine, logger, gates, cfg.cleanHandlerOpts...)

	if reg != nil {
		if err := reg.RegisterCommand(reloadHandler); err != nil {
			return nil, err
		}
		if err := reg.RegisterCommand(rebuildHandler); err != nil {
			return nil, err
		}
		if err := reg.RegisterCommand(cleanHandler); err != nil {
			return nil, err
		}
	}

	return &HandlerSet{
		Reload:  reloadHandler,
		Rebuild: rebuildHandler,
		Clean:   cleanHandler,
	}, nil
}

// RegisterReloadCron wires the reload handler into a cron registrar using the
// supplied command configuration and message payload. The handler executes
// with a background context.
func RegisterReloadCron(reg CronRegistrar, handler *ReloadLocalesHandler, cfg command.HandlerConfig, msg ReloadLocalesCommand) error {
	if reg == nil || handler == nil {
		return nil
	}
	return reg(cfg, func() error {
		return handler.Execute(context.Background(), msg)
	})
}
