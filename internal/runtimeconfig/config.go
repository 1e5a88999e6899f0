package runtimeconfig

import (
	"errors"
	"fmt"
	"strings"
	"time"

	urlkit "github.com/goliatone/go-urlkit"
)

// ErrURLPrefixPlaceholderMissing indicates a prefix template without a locale placeholder.
var ErrURLPrefixPlaceholderMissing = errors.New("localize config: url prefix template must contain a :locale or :lang placeholder")

// ErrMountLocaleNotExplicit ensures the root mount stays inside the explicit locale list.
var ErrMountLocaleNotExplicit = errors.New("localize config: mount-at-root locale must be part of the explicit locale list")

// ErrTemplatesDirRequired guards the folder localization strategy.
var ErrTemplatesDirRequired = errors.New("localize config: localizable templates directory is required")

// ErrIndexFileRequired guards directory-style lookup index queries.
var ErrIndexFileRequired = errors.New("localize config: index file name is required")

// ErrWatcherFeatureRequired keeps watch wiring behind the watcher feature flag.
var ErrWatcherFeatureRequired = errors.New("localize config: watcher feature must be enabled to configure watching")

var ErrWatchDebounceInvalid = errors.New("localize config: watch debounce must be zero or positive")
var ErrRegistryFeatureRequired = errors.New("localize config: registry feature must be enabled for bun storage")
var ErrStorageProviderUnknown = errors.New("localize config: storage provider is invalid")
var ErrAdvancedCacheRequiresEnabledCache = errors.New("localize config: advanced cache feature requires cache to be enabled")
var ErrLocaleExtensionInvalid = errors.New("localize config: locale data extensions must start with a dot")
var ErrLoggingProviderRequired = errors.New("localize config: logging provider is required when logging feature is enabled")
var ErrLoggingProviderUnknown = errors.New("localize config: logging provider is invalid")
var ErrLoggingLevelInvalid = errors.New("localize config: logging level is invalid")
var ErrLoggingFormatInvalid = errors.New("localize config: logging format is invalid")

// Config aggregates feature flags and adapter bindings for the localization
// engine. Fields intentionally use simple types so host applications can
// extend them later.
type Config struct {
	Enabled      bool
	Locales      LocalesConfig
	Paths        PathsConfig
	Translations TranslationsConfig
	Navigation   NavigationConfig
	Watch        WatchConfig
	Storage      StorageConfig
	Cache        CacheConfig
	Commands     CommandsConfig
	Features     Features
	Logging      LoggingConfig
}

// LocalesConfig controls locale discovery and display metadata.
type LocalesConfig struct {
	// Explicit pins the known locale set verbatim, bypassing data-dir scans.
	Explicit []string
	// DataDir is scanned (top level only) for locale data files when no
	// explicit list is configured.
	DataDir string
	// MountAtRoot selects the locale served without a URL prefix. Empty means
	// the first known locale.
	MountAtRoot string
	// Aliases maps locale codes to the display alias substituted into the
	// URL prefix template.
	Aliases map[string]string
	// Extensions lists the recognised locale data file extensions.
	Extensions []string
}

// PathsConfig controls localized path composition.
type PathsConfig struct {
	// URLPrefixTemplate shapes non-root locale prefixes; :locale is replaced
	// by the locale alias.
	URLPrefixTemplate string
	// TemplatesDir is the folder whose templates are localized for every
	// known locale.
	TemplatesDir string
	// IndexFile is appended to directory-style paths before index lookups.
	IndexFile string
	// SlugifyTranslations normalizes translated path segments into URL slugs.
	SlugifyTranslations bool
}

// TranslationsConfig controls translation store behaviour.
type TranslationsConfig struct {
	// DisableFallbacks restricts lookups to the requested locale only.
	DisableFallbacks bool
	// ValidateData enables structural schema validation of locale data files.
	ValidateData bool
	// KeyPrefix namespaces path translation keys (<prefix>.<segment>).
	KeyPrefix string
}

// NavigationConfig captures routing configuration for the urlkit-backed
// base resolver.
type NavigationConfig struct {
	RouteConfig *urlkit.Config
	URLKit      URLKitResolverConfig
}

// URLKitResolverConfig configures the go-urlkit based base resolver.
type URLKitResolverConfig struct {
	DefaultGroup string
	LocaleGroups map[string]string
	DefaultRoute string
	PathParam    string
	LocaleParam  string
}

// WatchConfig captures locale-data watching behaviour.
type WatchConfig struct {
	Enabled  bool
	Debounce time.Duration
}

// StorageConfig lists identifiers for storage-related dependencies.
type StorageConfig struct {
	Provider string
}

// CacheConfig captures cache behaviour toggles for the locale registry.
type CacheConfig struct {
	Enabled    bool
	DefaultTTL time.Duration
}

// CommandsConfig captures optional command-layer behaviour.
type CommandsConfig struct {
	Enabled                bool
	AutoRegisterDispatcher bool
}

// Features toggles module functionality.
type Features struct {
	Registry      bool
	Watcher       bool
	Commands      bool
	AdvancedCache bool
	Logger        bool
}

// LoggingConfig captures provider-specific options for runtime logging.
type LoggingConfig struct {
	Provider  string
	Level     string
	Format    string
	AddSource bool
	Focus     []string
}

// DefaultConfig returns opinionated defaults for a conventional static-site
// layout: locale data under locales/, localizable templates under
// localizable/, non-root locales prefixed /<locale>/.
func DefaultConfig() Config {
	return Config{
		Enabled: true,
		Locales: LocalesConfig{
			DataDir:    "locales",
			Aliases:    map[string]string{},
			Extensions: []string{".yml", ".yaml", ".toml"},
		},
		Paths: PathsConfig{
			URLPrefixTemplate: "/:locale/",
			TemplatesDir:      "localizable",
			IndexFile:         "index.html",
		},
		Translations: TranslationsConfig{
			KeyPrefix: "paths",
		},
		Navigation: NavigationConfig{},
		Watch: WatchConfig{
			Debounce: 200 * time.Millisecond,
		},
		Storage: StorageConfig{
			Provider: "memory",
		},
		Cache: CacheConfig{
			Enabled:    true,
			DefaultTTL: time.Minute,
		},
		Commands: CommandsConfig{},
		Features: Features{},
		Logging: LoggingConfig{
			Provider: "console",
			Level:    "info",
			Format:   "",
		},
	}
}

// Validate performs high-level consistency checks.
func (cfg Config) Validate() error {
	if tmpl := strings.TrimSpace(cfg.Paths.URLPrefixTemplate); tmpl != "" && !strings.Contains(tmpl, ":locale") && !strings.Contains(tmpl, ":lang") {
		return fmt.Errorf("%w: %s", ErrURLPrefixPlaceholderMissing, tmpl)
	}
	if strings.TrimSpace(cfg.Paths.TemplatesDir) == "" {
		return ErrTemplatesDirRequired
	}
	if strings.TrimSpace(cfg.Paths.IndexFile) == "" {
		return ErrIndexFileRequired
	}
	if mount := strings.TrimSpace(cfg.Locales.MountAtRoot); mount != "" && len(cfg.Locales.Explicit) > 0 {
		if !containsLocale(cfg.Locales.Explicit, mount) {
			return fmt.Errorf("%w: %s", ErrMountLocaleNotExplicit, mount)
		}
	}
	for _, ext := range cfg.Locales.Extensions {
		if trimmed := strings.TrimSpace(ext); trimmed != "" && !strings.HasPrefix(trimmed, ".") {
			return fmt.Errorf("%w: %s", ErrLocaleExtensionInvalid, trimmed)
		}
	}
	if cfg.Watch.Enabled && !cfg.Features.Watcher {
		return ErrWatcherFeatureRequired
	}
	if cfg.Watch.Debounce < 0 {
		return ErrWatchDebounceInvalid
	}
	switch provider := normalizeProvider(cfg.Storage.Provider); provider {
	case "", "memory":
	case "bun":
		if !cfg.Features.Registry {
			return ErrRegistryFeatureRequired
		}
	default:
		return fmt.Errorf("%w: %s", ErrStorageProviderUnknown, provider)
	}
	if cfg.Features.AdvancedCache && !cfg.Cache.Enabled {
		return ErrAdvancedCacheRequiresEnabledCache
	}
	if cfg.Features.Logger {
		provider := normalizeProvider(cfg.Logging.Provider)
		if provider == "" {
			return ErrLoggingProviderRequired
		}
		if !isSupportedProvider(provider) {
			return fmt.Errorf("%w: %s", ErrLoggingProviderUnknown, provider)
		}
		if level := strings.TrimSpace(cfg.Logging.Level); level != "" && !isSupportedLevel(level) {
			return fmt.Errorf("%w: %s", ErrLoggingLevelInvalid, level)
		}
		if provider == "gologger" {
			if format := strings.TrimSpace(cfg.Logging.Format); format != "" && !isSupportedFormat(format) {
				return fmt.Errorf("%w: %s", ErrLoggingFormatInvalid, format)
			}
		}
	}
	return nil
}

// RecognizedExtensions returns the normalized extension list, falling back to
// the defaults when the config omits them.
func (cfg LocalesConfig) RecognizedExtensions() []string {
	out := make([]string, 0, len(cfg.Extensions))
	for _, ext := range cfg.Extensions {
		trimmed := strings.ToLower(strings.TrimSpace(ext))
		if trimmed == "" {
			continue
		}
		out = append(out, trimmed)
	}
	if len(out) == 0 {
		return []string{".yml", ".yaml", ".toml"}
	}
	return out
}

// KeyFor composes a translation key under the configured prefix.
func (cfg TranslationsConfig) KeyFor(segment string) string {
	prefix := strings.TrimSpace(cfg.KeyPrefix)
	if prefix == "" {
		prefix = "paths"
	}
	return prefix + "." + segment
}

func containsLocale(list []string, locale string) bool {
	for _, candidate := range list {
		if strings.EqualFold(strings.TrimSpace(candidate), locale) {
			return true
		}
	}
	return false
}

func normalizeProvider(provider string) string {
	return strings.ToLower(strings.TrimSpace(provider))
}

func isSupportedProvider(provider string) bool {
	switch provider {
	case "console", "gologger":
		return true
	default:
		return false
	}
}

func isSupportedLevel(level string) bool {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "trace", "debug", "info", "warn", "warning", "error", "fatal":
		return true
	default:
		return false
	}
}

func isSupportedFormat(format string) bool {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "json", "console", "pretty":
		return true
	default:
		return false
	}
}
