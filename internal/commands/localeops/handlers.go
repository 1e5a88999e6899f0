package localeops

import (
	"context"
	"errors"

	command "github.com/goliatone/go-command"

	"github.com/goliatone/go-localize/internal/commands"
	"github.com/goliatone/go-localize/internal/logging"
	"github.com/goliatone/go-localize/pkg/interfaces"
)

const (
	reloadOperation  = "locales.reload"
	rebuildOperation = "index.rebuild"
	cleanOperation   = "index.clean"
)

// ErrLocalizationDisabled is returned when the localization feature flag is
// disabled at runtime.
var ErrLocalizationDisabled = errors.New("localize command: feature disabled")

var (
	_ command.Commander[ReloadLocalesCommand] = (*ReloadLocalesHandler)(nil)
	_ command.Commander[RebuildIndexCommand]  = (*RebuildIndexHandler)(nil)
	_ command.Commander[CleanIndexCommand]    = (*CleanIndexHandler)(nil)
)

// ReloadLocalesHandler drives locale-data reloads through the shared command
// handler foundation.
type ReloadLocalesHandler struct {
	inner *commands.Handler[ReloadLocalesCommand]
}

// NewReloadLocalesHandler creates a handler bound to the supplied engine.
func NewReloadLocalesHandler(engine interfaces.LocalizationEngine, logger interfaces.Logger, gates FeatureGates, opts ...commands.HandlerOption[ReloadLocalesCommand]) *ReloadLocalesHandler {
	baseLogger := commands.EnsureLogger(logger)

	exec := func(ctx context.Context, msg ReloadLocalesCommand) error {
		if !gates.localizationEnabled() {
			return ErrLocalizationDisabled
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if err := engine.Reload(ctx); err != nil {
			return err
		}
		logging.WithFields(baseLogger, map[string]any{
			"force": msg.Force,
		}).Info("locales.command.reload.completed")
		return nil
	}

	handlerOpts := []commands.HandlerOption[ReloadLocalesCommand]{
		commands.WithLogger[ReloadLocalesCommand](baseLogger),
		commands.WithOperation[ReloadLocalesCommand](reloadOperation),
		commands.WithMessageFields(func(msg ReloadLocalesCommand) map[string]any {
			fields := map[string]any{}
			if msg.Force {
				fields["force"] = true
			}
			return fields
		}),
		commands.WithTelemetry(commands.DefaultTelemetry[ReloadLocalesCommand](baseLogger)),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &ReloadLocalesHandler{
		inner: commands.NewHandler(exec, handlerOpts...),
	}
}

// Execute satisfies command.Commander[ReloadLocalesCommand].
func (h *ReloadLocalesHandler) Execute(ctx context.Context, msg ReloadLocalesCommand) error {
	return h.inner.Execute(ctx, msg)
}

// RebuildIndexHandler drives lookup-index rebuilds through the shared command
// handler foundation.
type RebuildIndexHandler struct {
	inner *commands.Handler[RebuildIndexCommand]
}

// NewRebuildIndexHandler creates a handler bound to the supplied engine.
func NewRebuildIndexHandler(engine interfaces.LocalizationEngine, logger interfaces.Logger, gates FeatureGates, opts ...commands.HandlerOption[RebuildIndexCommand]) *RebuildIndexHandler {
	baseLogger := commands.EnsureLogger(logger)

	exec := func(ctx context.Context, _ RebuildIndexCommand) error {
		if !gates.localizationEnabled() {
			return ErrLocalizationDisabled
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		entries, err := engine.RebuildIndex(ctx)
		if err != nil {
			return err
		}
		logging.WithFields(baseLogger, map[string]any{
			"entries": entries,
		}).Info("locales.command.index_rebuild.completed")
		return nil
	}

	handlerOpts := []commands.HandlerOption[RebuildIndexCommand]{
		commands.WithLogger[RebuildIndexCommand](baseLogger),
		commands.WithOperation[RebuildIndexCommand](rebuildOperation),
		commands.WithTelemetry(commands.DefaultTelemetry[RebuildIndexCommand](baseLogger)),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &RebuildIndexHandler{
		inner: commands.NewHandler(exec, handlerOpts...),
	}
}

// Execute satisfies command.Commander[RebuildIndexCommand].
func (h *RebuildIndexHandler) Execute(ctx context.Context, msg RebuildIndexCommand) error {
	return h.inner.Execute(ctx, msg)
}

// CleanIndexHandler removes generated localized state through the shared
// command handler foundation.
type CleanIndexHandler struct {
	inner *commands.Handler[CleanIndexCommand]
}

// NewCleanIndexHandler creates a handler bound to the supplied engine.
func NewCleanIndexHandler(engine interfaces.LocalizationEngine, logger interfaces.Logger, gates FeatureGates, opts ...commands.HandlerOption[CleanIndexCommand]) *CleanIndexHandler {
	baseLogger := commands.EnsureLogger(logger)

	exec := func(ctx context.Context, _ CleanIndexCommand) error {
		if !gates.localizationEnabled() {
			return ErrLocalizationDisabled
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		removed, err := engine.CleanIndex(ctx)
		if err != nil {
			return err
		}
		logging.WithFields(baseLogger, map[string]any{
			"removed": removed,
		}).Info("locales.command.index_clean.completed")
		return nil
	}

	handlerOpts := []commands.HandlerOption[CleanIndexCommand]{
		commands.WithLogger[CleanIndexCommand](baseLogger),
		commands.WithOperation[CleanIndexCommand](cleanOperation),
		commands.WithTelemetry(commands.DefaultTelemetry[CleanIndexCommand](baseLogger)),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &CleanIndexHandler{
		inner: commands.NewHandler(exec, handlerOpts...),
	}
}

// Execute satisfies command.Commander[CleanIndexCommand].
func (h *CleanIndexHandler) Execute(ctx context.Context, msg CleanIndexCommand) error {
	return h.inner.Execute(ctx, msg)
}
