package bootstrap

import (
	"fmt"
	"strings"

	localize "github.com/goliatone/go-localize"
	"github.com/goliatone/go-localize/internal/di"
	"github.com/goliatone/go-localize/internal/logging"
	"github.com/goliatone/go-localize/pkg/interfaces"
)

// Options captures configuration for preview CLI bootstraps.
type Options struct {
	DataDir        string
	TemplatesDir   string
	IndexFile      string
	URLPrefix      string
	MountLocale    string
	Locales        []string
	Aliases        map[string]string
	ValidateData   bool
	Watch          bool
	LoggerProvider interfaces.LoggerProvider
}

// Module wraps the localization engine and the logger scoped to the CLI.
type Module struct {
	Engine *localize.Module
	Logger interfaces.Logger
}

// BuildModule constructs a localization engine configured for preview runs.
func BuildModule(opts Options) (*Module, error) {
	cfg := localize.DefaultConfig()

	if trimmed := strings.TrimSpace(opts.DataDir); trimmed != "" {
		cfg.Locales.DataDir = trimmed
	}
	if trimmed := strings.TrimSpace(opts.TemplatesDir); trimmed != "" {
		cfg.Paths.TemplatesDir = trimmed
	}
	if trimmed := strings.TrimSpace(opts.IndexFile); trimmed != "" {
		cfg.Paths.IndexFile = trimmed
	}
	if trimmed := strings.TrimSpace(opts.URLPrefix); trimmed != "" {
		cfg.Paths.URLPrefixTemplate = trimmed
	}

	cfg.Locales.MountAtRoot = strings.TrimSpace(opts.MountLocale)
	if len(opts.Locales) > 0 {
		cfg.Locales.Explicit = cloneStrings(opts.Locales)
	}
	if len(opts.Aliases) > 0 {
		cfg.Locales.Aliases = opts.Aliases
	}

	cfg.Translations.ValidateData = opts.ValidateData

	if opts.Watch {
		cfg.Features.Watcher = true
		cfg.Watch.Enabled = true
	}

	diOpts := []di.Option{}
	if opts.LoggerProvider != nil {
		diOpts = append(diOpts, di.WithLoggerProvider(opts.LoggerProvider))
	}

	engine, err := localize.New(cfg, diOpts...)
	if err != nil {
		return nil, fmt.Errorf("initialise localization engine: %w", err)
	}

	logger := logging.ModuleLogger(engine.Container().LoggerProvider(), "localize.preview")

	return &Module{
		Engine: engine,
		Logger: logger,
	}, nil
}

// SplitLocales parses a comma separated locale list into a trimmed slice.
func SplitLocales(value string) []string {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	locales := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			locales = append(locales, trimmed)
		}
	}
	return locales
}

// ParseAliases parses comma separated locale=alias pairs.
func ParseAliases(value string) (map[string]string, error) {
	if strings.TrimSpace(value) == "" {
		return nil, nil
	}
	aliases := map[string]string{}
	for _, part := range strings.Split(value, ",") {
		trimmed := strings.TrimSpace(part)
		if trimmed == "" {
			continue
		}
		code, alias, found := strings.Cut(trimmed, "=")
		code = strings.TrimSpace(code)
		alias = strings.TrimSpace(alias)
		if !found || code == "" || alias == "" {
			return nil, fmt.Errorf("invalid alias pair %q (expected locale=alias)", trimmed)
		}
		aliases[code] = alias
	}
	if len(aliases) == 0 {
		return nil, nil
	}
	return aliases, nil
}

func cloneStrings(values []string) []string {
	if len(values) == 0 {
		return nil
	}
	out := make([]string, len(values))
	copy(out, values)
	return out
}
