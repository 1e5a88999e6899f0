package localize

import "github.com/goliatone/go-localize/internal/runtimeconfig"

var (
	ErrURLPrefixPlaceholderMissing       = runtimeconfig.ErrURLPrefixPlaceholderMissing
	ErrMountLocaleNotExplicit            = runtimeconfig.ErrMountLocaleNotExplicit
	ErrTemplatesDirRequired              = runtimeconfig.ErrTemplatesDirRequired
	ErrIndexFileRequired                 = runtimeconfig.ErrIndexFileRequired
	ErrWatcherFeatureRequired            = runtimeconfig.ErrWatcherFeatureRequired
	ErrWatchDebounceInvalid              = runtimeconfig.ErrWatchDebounceInvalid
	ErrRegistryFeatureRequired           = runtimeconfig.ErrRegistryFeatureRequired
	ErrStorageProviderUnknown            = runtimeconfig.ErrStorageProviderUnknown
	ErrAdvancedCacheRequiresEnabledCache = runtimeconfig.ErrAdvancedCacheRequiresEnabledCache
	ErrLocaleExtensionInvalid            = runtimeconfig.ErrLocaleExtensionInvalid
	ErrLoggingProviderRequired           = runtimeconfig.ErrLoggingProviderRequired
	ErrLoggingProviderUnknown            = runtimeconfig.ErrLoggingProviderUnknown
	ErrLoggingLevelInvalid               = runtimeconfig.ErrLoggingLevelInvalid
	ErrLoggingFormatInvalid              = runtimeconfig.ErrLoggingFormatInvalid
)

type (
	Config               = runtimeconfig.Config
	LocalesConfig        = runtimeconfig.LocalesConfig
	PathsConfig          = runtimeconfig.PathsConfig
	TranslationsConfig   = runtimeconfig.TranslationsConfig
	NavigationConfig     = runtimeconfig.NavigationConfig
	URLKitResolverConfig = runtimeconfig.URLKitResolverConfig
	WatchConfig          = runtimeconfig.WatchConfig
	StorageConfig        = runtimeconfig.StorageConfig
	CacheConfig          = runtimeconfig.CacheConfig
	CommandsConfig       = runtimeconfig.CommandsConfig
	Features             = runtimeconfig.Features
	LoggingConfig        = runtimeconfig.LoggingConfig
)

func DefaultConfig() Config {
	return runtimeconfig.DefaultConfig()
}
