package logging

import (
	"context"
	"strings"

	"github.com/goliatone/go-localize/pkg/interfaces"
)

const (
	rootModule    = "localize"
	localesModule = "localize.locales"
	i18nModule    = "localize.i18n"
	sitemapModule = "localize.sitemap"
	linksModule   = "localize.links"
	watchModule   = "localize.watch"
	sourceModule  = "localize.source"
)

const (
	fieldLocale   = "locale"
	fieldDataPath = "data_path"
	fieldPageID   = "page_id"
)

// ModuleLogger returns a module-scoped logger, defaulting to a no-op
// implementation when no provider is supplied. The returned logger attaches
// the module identifier as structured context so downstream entries can be
// filtered predictably.
func ModuleLogger(provider interfaces.LoggerProvider, module string) interfaces.Logger {
	if module == "" {
		module = rootModule
	}

	logger := NoOp()
	if provider != nil {
		if provided := provider.GetLogger(module); provided != nil {
			logger = provided
		}
	}

	if fieldsLogger, ok := logger.(interfaces.FieldsLogger); ok {
		return fieldsLogger.WithFields(map[string]any{
			"module": module,
		})
	}

	return WithFields(logger, map[string]any{
		"module": module,
	})
}

// LocalesLogger returns the logger namespace reserved for locale discovery.
func LocalesLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, localesModule)
}

// I18NLogger returns the logger namespace reserved for the translation store.
func I18NLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, i18nModule)
}

// SitemapLogger returns the logger namespace reserved for resource expansion.
func SitemapLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, sitemapModule)
}

// LinksLogger returns the logger namespace reserved for link resolution.
func LinksLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, linksModule)
}

// WatchLogger returns the logger namespace reserved for locale-data watching.
func WatchLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, watchModule)
}

// SourceLogger returns the logger namespace reserved for site scanning.
func SourceLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, sourceModule)
}

// WithLocaleContext enriches the provided logger with common localization
// fields such as the locale, the data file path, and the page identifier.
// Empty values are ignored.
func WithLocaleContext(logger interfaces.Logger, locale, dataPath, pageID string) interfaces.Logger {
	fields := map[string]any{}
	if trimmed := strings.TrimSpace(locale); trimmed != "" {
		fields[fieldLocale] = trimmed
	}
	if trimmed := strings.TrimSpace(dataPath); trimmed != "" {
		fields[fieldDataPath] = trimmed
	}
	if trimmed := strings.TrimSpace(pageID); trimmed != "" {
		fields[fieldPageID] = trimmed
	}
	return WithFields(logger, fields)
}

// NoOp returns a logger that drops every log entry. It satisfies the Logger
// contract so services can safely operate when logging is disabled.
func NoOp() interfaces.Logger {
	return noopLogger{}
}

type noopLogger struct{}

var _ interfaces.Logger = noopLogger{}

func (noopLogger) Trace(string, ...any) {}
func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}
func (noopLogger) Fatal(string, ...any) {}

func (n noopLogger) WithFields(map[string]any) interfaces.Logger {
	return n
}

func (n noopLogger) WithContext(context.Context) interfaces.Logger {
	return n
}
