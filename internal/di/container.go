package di

import (
	"context"
	"io/fs"
	"os"
	"strings"
	"sync"
	"time"

	repocache "github.com/goliatone/go-repository-cache/cache"
	urlkit "github.com/goliatone/go-urlkit"
	"github.com/uptrace/bun"

	"github.com/goliatone/go-localize/internal/expander"
	"github.com/goliatone/go-localize/internal/i18n"
	"github.com/goliatone/go-localize/internal/locales"
	"github.com/goliatone/go-localize/internal/localizer"
	"github.com/goliatone/go-localize/internal/logging"
	"github.com/goliatone/go-localize/internal/logging/console"
	"github.com/goliatone/go-localize/internal/logging/gologger"
	"github.com/goliatone/go-localize/internal/resolver"
	"github.com/goliatone/go-localize/internal/runtimeconfig"
	"github.com/goliatone/go-localize/internal/watch"
	"github.com/goliatone/go-localize/pkg/interfaces"
)

// Container wires the localization engine's dependencies: translation store,
// locale discovery, path localization, resource expansion, link resolution,
// and the optional data watcher. Construction is eager for the cheap pieces;
// the localizer and expander rebuild when the resolved mount locale changes.
type Container struct {
	Config runtimeconfig.Config

	loggerProvider interfaces.LoggerProvider
	logger         interfaces.Logger

	dataFS fs.FS
	clock  func() time.Time

	bunDB         *bun.DB
	cacheTTL      time.Duration
	cacheService  repocache.CacheService
	keySerializer repocache.KeySerializer

	localeRepo locales.Repository
	onMissing  interfaces.MissingTranslationHandler

	store      *i18n.Store
	discoverer *locales.Discoverer
	localeSvc  locales.Service

	mu            sync.RWMutex
	pathLocalizer *localizer.Localizer
	siteExpander  *expander.Expander
	localizedPath resolver.LocalizedPathFunc

	baseResolver interfaces.PathResolver
	routeManager *urlkit.RouteManager
	links        *resolver.Links

	watcher     interfaces.LocaleDataWatcher
	broadcaster *watch.Broadcaster
}

// Option mutates the container before wiring is finalised.
type Option func(*Container)

// WithLogger overrides the base logger used when no provider is configured.
func WithLogger(logger interfaces.Logger) Option {
	return func(c *Container) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithLoggerProvider supplies per-module named loggers.
func WithLoggerProvider(provider interfaces.LoggerProvider) Option {
	return func(c *Container) {
		if provider != nil {
			c.loggerProvider = provider
		}
	}
}

// WithBunDB attaches the database handle backing the locale registry.
func WithBunDB(db *bun.DB) Option {
	return func(c *Container) {
		c.bunDB = db
	}
}

// WithLocaleRepository overrides the locale registry repository.
func WithLocaleRepository(repo locales.Repository) Option {
	return func(c *Container) {
		c.localeRepo = repo
	}
}

// WithPathResolver overrides the base path resolver wrapped by the localized
// link resolver. Without one the container builds a urlkit resolver from the
// navigation config, or leaves links passing through untouched.
func WithPathResolver(base interfaces.PathResolver) Option {
	return func(c *Container) {
		c.baseResolver = base
	}
}

// WithClock overrides the time source (primarily for tests).
func WithClock(clock func() time.Time) Option {
	return func(c *Container) {
		if clock != nil {
			c.clock = clock
		}
	}
}

// WithCacheService overrides the repository cache backing.
func WithCacheService(service repocache.CacheService, serializer repocache.KeySerializer) Option {
	return func(c *Container) {
		c.cacheService = service
		c.keySerializer = serializer
	}
}

// WithDataFS overrides the locale-data filesystem. Discovery and reloads read
// from it instead of the configured data directory.
func WithDataFS(fsys fs.FS) Option {
	return func(c *Container) {
		c.dataFS = fsys
	}
}

// WithWatcher overrides the locale-data watcher.
func WithWatcher(watcher interfaces.LocaleDataWatcher) Option {
	return func(c *Container) {
		c.watcher = watcher
	}
}

// WithMissingTranslationHandler installs the hook invoked when a default-aware
// translation lookup misses.
func WithMissingTranslationHandler(handler interfaces.MissingTranslationHandler) Option {
	return func(c *Container) {
		c.onMissing = handler
	}
}

// NewContainer creates a container with the provided configuration.
func NewContainer(cfg runtimeconfig.Config, opts ...Option) (*Container, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	cacheTTL := cfg.Cache.DefaultTTL
	if cacheTTL <= 0 {
		cacheTTL = time.Minute
	}

	c := &Container{
		Config:   cfg,
		cacheTTL: cacheTTL,
		clock:    time.Now,
	}

	for _, opt := range opts {
		opt(c)
	}

	if err := c.configureLogging(); err != nil {
		return nil, err
	}
	c.configureCacheDefaults()
	c.configureDataFS()
	c.configureRegistry()
	c.configureDiscovery()
	c.configureTranslations()
	c.RebuildLocalization(c.Config.Locales.MountAtRoot)
	c.configureNavigation()
	c.configureWatch()

	return c, nil
}

func (c *Container) configureLogging() error {
	if c.loggerProvider == nil && c.Config.Features.Logger {
		provider, err := newLoggerProvider(c.Config.Logging)
		if err != nil {
			return err
		}
		c.loggerProvider = provider
	}

	if c.logger == nil {
		if c.loggerProvider != nil {
			c.logger = logging.ModuleLogger(c.loggerProvider, "")
		} else {
			c.logger = logging.NoOp()
		}
	}
	return nil
}

func newLoggerProvider(cfg runtimeconfig.LoggingConfig) (interfaces.LoggerProvider, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Provider)) {
	case "gologger":
		return gologger.NewProvider(gologger.Config{
			Level:     cfg.Level,
			Format:    cfg.Format,
			AddSource: cfg.AddSource,
			Focus:     cfg.Focus,
		})
	default:
		level := consoleLevel(cfg.Level)
		return console.NewProvider(console.Options{MinLevel: &level}), nil
	}
}

func consoleLevel(level string) console.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "trace":
		return console.LevelTrace
	case "debug":
		return console.LevelDebug
	case "warn", "warning":
		return console.LevelWarn
	case "error":
		return console.LevelError
	case "fatal":
		return console.LevelFatal
	default:
		return console.LevelInfo
	}
}

// scopedLogger returns a module-scoped logger when a provider is configured,
// otherwise the container's base logger.
func (c *Container) scopedLogger(build func(interfaces.LoggerProvider) interfaces.Logger) interfaces.Logger {
	if c.loggerProvider != nil {
		return build(c.loggerProvider)
	}
	return c.logger
}

func (c *Container) configureCacheDefaults() {
	if !c.Config.Cache.Enabled {
		return
	}

	if c.cacheService == nil && c.Config.Features.AdvancedCache {
		cfg := repocache.DefaultConfig()
		if c.cacheTTL > 0 {
			cfg.TTL = c.cacheTTL
		}
		service, err := repocache.NewCacheService(cfg)
		if err == nil {
			c.cacheService = service
		}
	}

	if c.cacheService != nil && c.keySerializer == nil {
		c.keySerializer = repocache.NewDefaultKeySerializer()
	}
}

func (c *Container) configureDataFS() {
	if c.dataFS != nil {
		return
	}
	dir := strings.TrimSpace(c.Config.Locales.DataDir)
	if dir == "" {
		return
	}
	c.dataFS = os.DirFS(dir)
}

func (c *Container) configureRegistry() {
	if c.localeRepo != nil || !c.Config.Features.Registry {
		return
	}

	provider := strings.ToLower(strings.TrimSpace(c.Config.Storage.Provider))
	if provider == "bun" {
		if c.bunDB != nil {
			c.localeRepo = locales.NewBunRepositoryWithCache(c.bunDB, c.cacheService, c.keySerializer)
			return
		}
		c.logger.Warn("locales.registry.fallback",
			"reason", "bun storage configured without a database handle",
		)
	}
	c.localeRepo = locales.NewMemoryRepository()
}

func (c *Container) configureDiscovery() {
	localesLogger := c.scopedLogger(logging.LocalesLogger)

	c.discoverer = locales.NewDiscoverer(locales.DiscoveryConfig{
		Explicit:    c.Config.Locales.Explicit,
		DataFS:      c.dataFS,
		Extensions:  c.Config.Locales.RecognizedExtensions(),
		MountAtRoot: c.Config.Locales.MountAtRoot,
	}, localesLogger)

	svcOpts := []locales.ServiceOption{
		locales.WithAliases(c.Config.Locales.Aliases),
		locales.WithLogger(localesLogger),
		locales.WithNow(c.clock),
	}
	if c.localeRepo != nil {
		svcOpts = append(svcOpts, locales.WithRepository(c.localeRepo))
	}
	c.localeSvc = locales.NewService(c.discoverer, svcOpts...)
}

func (c *Container) configureTranslations() {
	c.store = i18n.NewStore(i18n.Config{
		DefaultLocale:    c.Config.Locales.MountAtRoot,
		DisableFallbacks: c.Config.Translations.DisableFallbacks,
		OnMissing:        c.onMissing,
	}, c.scopedLogger(logging.I18NLogger))
}

// RebuildLocalization swaps in a path localizer and expander bound to the
// resolved mount locale. The engine invokes it during reload once discovery
// has produced the known-locale set; the initial build uses the configured
// mount-at-root locale, which is empty when the mount is scan-derived.
func (c *Container) RebuildLocalization(mountLocale string) {
	sitemapLogger := c.scopedLogger(logging.SitemapLogger)

	loc := localizer.New(localizer.Config{
		MountLocale:         mountLocale,
		URLPrefixTemplate:   c.Config.Paths.URLPrefixTemplate,
		TemplatesDir:        c.Config.Paths.TemplatesDir,
		KeyPrefix:           c.Config.Translations.KeyPrefix,
		SlugifyTranslations: c.Config.Paths.SlugifyTranslations,
	}, c.store,
		localizer.WithAliasFunc(c.aliasFunc()),
		localizer.WithLogger(sitemapLogger),
	)

	exp := expander.New(expander.Config{
		TemplatesDir: c.Config.Paths.TemplatesDir,
		IndexFile:    c.Config.Paths.IndexFile,
	}, loc, expander.WithLogger(sitemapLogger))

	c.mu.Lock()
	c.pathLocalizer = loc
	c.siteExpander = exp
	c.mu.Unlock()
}

func (c *Container) aliasFunc() localizer.AliasFunc {
	svc := c.localeSvc
	return func(locale string) string {
		if svc == nil {
			return locale
		}
		return svc.AliasFor(context.Background(), locale)
	}
}

func (c *Container) configureNavigation() {
	if c.baseResolver == nil {
		navCfg := c.Config.Navigation
		if navCfg.RouteConfig != nil {
			manager := urlkit.NewRouteManager(navCfg.RouteConfig)
			c.routeManager = manager
			c.baseResolver = resolver.NewURLKitResolver(resolver.URLKitResolverOptions{
				Manager:      manager,
				DefaultGroup: strings.TrimSpace(navCfg.URLKit.DefaultGroup),
				LocaleGroups: navCfg.URLKit.LocaleGroups,
				DefaultRoute: strings.TrimSpace(navCfg.URLKit.DefaultRoute),
				PathParam:    strings.TrimSpace(navCfg.URLKit.PathParam),
				LocaleParam:  strings.TrimSpace(navCfg.URLKit.LocaleParam),
			})
		}
	}

	c.links = resolver.NewLinks(c.baseResolver, c.lookupLocalizedPath,
		resolver.WithCurrentLocale(c.store.CurrentLocale),
		resolver.WithLogger(c.scopedLogger(logging.LinksLogger)),
	)
}

func (c *Container) configureWatch() {
	c.broadcaster = watch.NewBroadcaster()

	if c.watcher != nil {
		return
	}
	if !c.Config.Features.Watcher || !c.Config.Watch.Enabled {
		return
	}
	dir := strings.TrimSpace(c.Config.Locales.DataDir)
	if dir == "" {
		return
	}

	c.watcher = watch.New(watch.Config{
		Dir:        dir,
		Extensions: c.Config.Locales.RecognizedExtensions(),
		Debounce:   c.Config.Watch.Debounce,
	}, watch.WithLogger(c.scopedLogger(logging.WatchLogger)))
}

// SetLocalizedPathLookup binds the lookup consulted by the link resolver.
// The engine points it at the current index snapshot after every expansion.
func (c *Container) SetLocalizedPathLookup(fn resolver.LocalizedPathFunc) {
	c.mu.Lock()
	c.localizedPath = fn
	c.mu.Unlock()
}

func (c *Container) lookupLocalizedPath(path, locale string) (string, bool) {
	c.mu.RLock()
	fn := c.localizedPath
	c.mu.RUnlock()
	if fn == nil {
		return "", false
	}
	return fn(path, locale)
}

// Logger exposes the container's base logger.
func (c *Container) Logger() interfaces.Logger {
	return c.logger
}

// LoggerProvider exposes the configured logger provider, nil when logging is
// disabled and none was injected.
func (c *Container) LoggerProvider() interfaces.LoggerProvider {
	return c.loggerProvider
}

// TranslationStore exposes the translation store.
func (c *Container) TranslationStore() *i18n.Store {
	return c.store
}

// Discoverer exposes the known-locale discoverer.
func (c *Container) Discoverer() *locales.Discoverer {
	return c.discoverer
}

// LocaleService exposes the locale service.
func (c *Container) LocaleService() locales.Service {
	return c.localeSvc
}

// LocaleRepository exposes the locale registry repository, nil when the
// registry feature is disabled.
func (c *Container) LocaleRepository() locales.Repository {
	return c.localeRepo
}

// PathLocalizer exposes the current path localizer.
func (c *Container) PathLocalizer() *localizer.Localizer {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.pathLocalizer
}

// Expander exposes the current resource expander.
func (c *Container) Expander() *expander.Expander {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.siteExpander
}

// LinkResolver exposes the localization-aware link resolver.
func (c *Container) LinkResolver() *resolver.Links {
	return c.links
}

// BaseResolver exposes the base path resolver wrapped by the link resolver.
func (c *Container) BaseResolver() interfaces.PathResolver {
	return c.baseResolver
}

// RouteManager exposes the urlkit route manager built from the navigation
// config, nil when a host resolver was injected or navigation is unset.
func (c *Container) RouteManager() *urlkit.RouteManager {
	return c.routeManager
}

// Watcher exposes the locale-data watcher, nil when watching is disabled.
func (c *Container) Watcher() interfaces.LocaleDataWatcher {
	return c.watcher
}

// Broadcaster exposes the change-set broadcaster.
func (c *Container) Broadcaster() *watch.Broadcaster {
	return c.broadcaster
}

// DataFS exposes the locale-data filesystem, nil when no data directory is
// configured.
func (c *Container) DataFS() fs.FS {
	return c.dataFS
}

// Clock exposes the container time source.
func (c *Container) Clock() func() time.Time {
	return c.clock
}
