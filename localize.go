package localize

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"sync"

	goerrors "github.com/goliatone/go-errors"

	"github.com/goliatone/go-localize/internal/commands/localeops"
	"github.com/goliatone/go-localize/internal/di"
	"github.com/goliatone/go-localize/internal/expander"
	"github.com/goliatone/go-localize/internal/i18n"
	"github.com/goliatone/go-localize/internal/locales"
	"github.com/goliatone/go-localize/internal/resolver"
	"github.com/goliatone/go-localize/internal/watch"
	"github.com/goliatone/go-localize/pkg/interfaces"
	"github.com/goliatone/go-localize/sitemap"
)

// LocaleService exports the locale service contract for consumers of the
// localize package.
type LocaleService = locales.Service

// LocaleRepository exports the locale registry repository contract.
type LocaleRepository = locales.Repository

// TranslationStore exports the translation store used for key lookups and
// current-locale state.
type TranslationStore = i18n.Store

// Translator exports the translation lookup contract.
type Translator = interfaces.Translator

// LocaleSwitcher exports the mutable current-locale contract.
type LocaleSwitcher = interfaces.LocaleSwitcher

// MissingTranslationHandler exports the hook invoked on translation misses.
type MissingTranslationHandler = interfaces.MissingTranslationHandler

// ResolveOptions exports the link resolution options.
type ResolveOptions = interfaces.ResolveOptions

// PathResolver exports the host path resolver contract wrapped by the engine.
type PathResolver = interfaces.PathResolver

// PathResolverFunc exports the function adapter for PathResolver.
type PathResolverFunc = interfaces.PathResolverFunc

// PartialFinder exports the partial template lookup contract.
type PartialFinder = interfaces.PartialFinder

// PartialFinderFunc exports the function adapter for PartialFinder.
type PartialFinderFunc = interfaces.PartialFinderFunc

// ChangeSet exports the locale-data change notification payload.
type ChangeSet = interfaces.ChangeSet

// LocaleDataWatcher exports the locale-data watcher contract.
type LocaleDataWatcher = interfaces.LocaleDataWatcher

// LookupIndex exports the canonical-path lookup index built by expansion.
type LookupIndex = expander.Index

// ExpansionResult exports the outcome of one expansion pass.
type ExpansionResult = expander.Result

// LinkResolver exports the localization-aware link resolver.
type LinkResolver = resolver.Links

// CommandRegistry exports the registration contract for locale command handlers.
type CommandRegistry = localeops.CommandRegistry

// CommandHandlerSet exports the locale command handlers built during registration.
type CommandHandlerSet = localeops.HandlerSet

// CommandOption exports per-handler wiring options for command registration.
type CommandOption = localeops.Option

// ReloadLocalesCommand exports the reload command message.
type ReloadLocalesCommand = localeops.ReloadLocalesCommand

// RebuildIndexCommand exports the index rebuild command message.
type RebuildIndexCommand = localeops.RebuildIndexCommand

// CleanIndexCommand exports the index cleanup command message.
type CleanIndexCommand = localeops.CleanIndexCommand

// ErrPathNotLocalized indicates the lookup index has no entry for the
// requested path and locale.
var ErrPathNotLocalized = errors.New("localize: no localized path")

// ErrWatcherNotConfigured indicates watching was requested without a
// configured locale-data watcher.
var ErrWatcherNotConfigured = errors.New("localize: watcher is not configured")

// ErrCommandsDisabled indicates command registration was requested while the
// commands feature is off.
var ErrCommandsDisabled = errors.New("localize: commands feature is disabled")

// ErrLocalizationDisabled is returned by command handlers when localization
// is globally disabled.
var ErrLocalizationDisabled = localeops.ErrLocalizationDisabled

// ErrWatchActive indicates the reload loop is already running.
var ErrWatchActive = watch.ErrWatchActive

var errNilModule = errors.New("localize: module is not initialised")

const (
	localeNotFoundCode          = "LOCALE_NOT_FOUND"
	localizedPathNotFoundCode   = "LOCALIZED_PATH_NOT_FOUND"
	localeSwitchUnavailableCode = "LOCALE_SWITCH_UNAVAILABLE"
)

// Module is the top level localization engine facade. It owns the lookup
// index and the most recent resource list; everything else lives in the DI
// container.
type Module struct {
	container *di.Container

	// opMu serializes the operations that rebuild engine state (expansion,
	// reload, index rebuilds) so concurrent builds never interleave rebuilds.
	opMu sync.Mutex

	// mu guards the published state below. It is held only for snapshot and
	// swap, never across container calls.
	mu       sync.RWMutex
	sources  sitemap.List
	expanded sitemap.List
	index    *expander.Index

	watchCancel context.CancelFunc
	watchDone   chan struct{}
	closed      bool
}

var _ interfaces.LocalizationEngine = (*Module)(nil)

// New constructs a localization module using the provided configuration and
// optional DI overrides. When localization is enabled the module performs an
// initial reload so locale data is available before the first expansion.
func New(cfg Config, opts ...di.Option) (*Module, error) {
	container, err := di.NewContainer(cfg, opts...)
	if err != nil {
		return nil, err
	}

	m := &Module{
		container: container,
		index:     expander.NewIndex(cfg.Paths.IndexFile),
	}
	container.SetLocalizedPathLookup(m.localizedPathLookup)

	if cfg.Enabled {
		if err := m.Reload(context.Background()); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// Container exposes the underlying DI container for advanced integrations.
func (m *Module) Container() *di.Container {
	return m.container
}

// Enabled reports whether localization is globally enabled.
func (m *Module) Enabled() bool {
	if m == nil || m.container == nil {
		return false
	}
	return m.container.Config.Enabled
}

// Translator returns the translation store backing key lookups and the
// current-locale state.
func (m *Module) Translator() *TranslationStore {
	if m == nil || m.container == nil {
		return nil
	}
	return m.container.TranslationStore()
}

// Links returns the localization-aware link resolver.
func (m *Module) Links() *LinkResolver {
	if m == nil || m.container == nil {
		return nil
	}
	return m.container.LinkResolver()
}

// Watcher returns the configured locale-data watcher, nil when watching is
// disabled.
func (m *Module) Watcher() LocaleDataWatcher {
	if m == nil || m.container == nil {
		return nil
	}
	return m.container.Watcher()
}

// KnownLocales returns the ordered known-locale codes.
func (m *Module) KnownLocales(ctx context.Context) ([]string, error) {
	if m == nil || m.container == nil {
		return nil, errNilModule
	}
	return m.container.LocaleService().Known(ctx)
}

// MountLocale returns the locale mounted at the URL root, empty when no
// locales are known.
func (m *Module) MountLocale(ctx context.Context) (string, error) {
	if m == nil || m.container == nil {
		return "", errNilModule
	}
	return m.container.LocaleService().MountLocale(ctx)
}

// CurrentLocale returns the locale scoped rendering currently runs under.
func (m *Module) CurrentLocale() string {
	if m == nil || m.container == nil {
		return ""
	}
	return m.container.TranslationStore().CurrentLocale()
}

// SwitchLocale changes the current locale. Switching while no alternate
// locale exists fails with a validation-kind error; unknown locales fail with
// a not-found-kind error.
func (m *Module) SwitchLocale(locale string) error {
	if m == nil || m.container == nil {
		return errNilModule
	}
	err := m.container.TranslationStore().SetLocale(locale)
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, ErrNoAlternateLocales):
		return goerrors.Wrap(err, goerrors.CategoryValidation, "locale switch requires an alternate locale").
			WithTextCode(localeSwitchUnavailableCode)
	case errors.Is(err, ErrUnknownLocale):
		return goerrors.Wrap(err, goerrors.CategoryNotFound, "locale is not part of the known set").
			WithTextCode(localeNotFoundCode)
	}
	return err
}

// Expand runs one localization pass over the host resource list: claimed
// sources are marked ignored in place, localized proxies are appended, and
// the lookup index is rebuilt wholesale and swapped in. The pristine input is
// retained so later reloads and index rebuilds re-run against it.
func (m *Module) Expand(ctx context.Context, resources sitemap.List) (ExpansionResult, error) {
	if m == nil || m.container == nil {
		return ExpansionResult{}, errNilModule
	}
	if !m.container.Config.Enabled {
		return ExpansionResult{
			Resources: resources,
			Index:     expander.NewIndex(m.container.Config.Paths.IndexFile),
		}, nil
	}

	m.opMu.Lock()
	defer m.opMu.Unlock()

	known, err := m.container.LocaleService().Known(ctx)
	if err != nil {
		return ExpansionResult{}, err
	}

	sources := resources.Clone()
	result := m.container.Expander().Expand(resources, known)

	m.mu.Lock()
	m.sources = sources
	m.expanded = result.Resources
	m.index = result.Index
	m.mu.Unlock()

	m.container.Logger().Debug("localize.expanded",
		"resources", len(result.Resources),
		"descriptors", len(result.Descriptors),
		"index_keys", result.Index.Len(),
	)
	return result, nil
}

// Resources returns the most recent expansion output, nil before the first
// expansion. The list is shared with the host pipeline; treat it as read-only.
func (m *Module) Resources() sitemap.List {
	if m == nil {
		return nil
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.expanded
}

// Index returns the current lookup index. Indexes are immutable once built;
// reloads publish a replacement rather than mutating entries.
func (m *Module) Index() *LookupIndex {
	if m == nil {
		return nil
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.index
}

// LocalizedPath resolves the localized URL path recorded for a canonical path
// and locale. Unknown locales and missing entries fail with not-found-kind
// errors rather than silently falling back.
func (m *Module) LocalizedPath(ctx context.Context, path, locale string) (string, error) {
	if m == nil || m.container == nil {
		return "", errNilModule
	}
	trimmed := strings.TrimSpace(locale)
	if trimmed == "" {
		return "", ErrLocaleCodeRequired
	}
	known, err := m.container.LocaleService().IsKnown(ctx, trimmed)
	if err != nil {
		return "", err
	}
	if !known {
		return "", goerrors.Wrap(&LocaleNotFoundError{Code: trimmed}, goerrors.CategoryNotFound, "locale is not part of the known set").
			WithTextCode(localeNotFoundCode)
	}
	if value, ok := m.localizedPathLookup(path, trimmed); ok {
		return value, nil
	}
	return "", goerrors.Wrap(fmt.Errorf("%w: %s (%s)", ErrPathNotLocalized, path, trimmed), goerrors.CategoryNotFound, "no localized path recorded for the requested locale").
		WithTextCode(localizedPathNotFoundCode)
}

// ResolveLink rewrites an internal link to its localized variant, falling
// back to the unmodified link when the index has no entry.
func (m *Module) ResolveLink(link string, opts ResolveOptions) (string, error) {
	if m == nil || m.container == nil {
		return "", errNilModule
	}
	links := m.container.LinkResolver()
	if links == nil {
		return link, nil
	}
	return links.Resolve(link, opts)
}

// LocalizePartials wraps a host partial finder so lookups try locale-suffixed
// candidates under the current locale before the plain name.
func (m *Module) LocalizePartials(base PartialFinder) PartialFinder {
	if m == nil || m.container == nil {
		return base
	}
	return resolver.NewLocalePartials(base, m.container.TranslationStore().CurrentLocale,
		resolver.WithTemplatesDir(m.container.Config.Paths.TemplatesDir),
	)
}

// Reload re-reads locale data and rebuilds every derived piece of state: the
// known-locale set, the registry records, the translation bundles, the path
// localizer bound to the resolved mount locale, and the lookup index over the
// most recent resource list.
func (m *Module) Reload(ctx context.Context) error {
	if m == nil || m.container == nil {
		return errNilModule
	}
	if ctx == nil {
		ctx = context.Background()
	}

	m.opMu.Lock()
	defer m.opMu.Unlock()
	return m.reload(ctx)
}

func (m *Module) reload(ctx context.Context) error {
	svc := m.container.LocaleService()
	svc.Invalidate()

	known, err := svc.Known(ctx)
	if err != nil {
		return err
	}
	mount, err := svc.MountLocale(ctx)
	if err != nil {
		return err
	}

	if m.container.LocaleRepository() != nil {
		if err := svc.Sync(ctx); err != nil {
			return err
		}
	}

	bundles, err := m.loadBundles()
	if err != nil {
		return err
	}

	m.container.RebuildLocalization(mount)
	m.container.TranslationStore().Replace(known, mount, bundles)
	m.reexpand(known)

	m.container.Logger().Info("localize.reloaded",
		"locales", len(known),
		"mount", mount,
		"index_keys", m.Index().Len(),
	)
	return nil
}

// RebuildIndex re-runs localization over the most recent resource list and
// reports the number of canonical keys in the rebuilt index.
func (m *Module) RebuildIndex(ctx context.Context) (int, error) {
	if m == nil || m.container == nil {
		return 0, errNilModule
	}
	if ctx == nil {
		ctx = context.Background()
	}

	m.opMu.Lock()
	defer m.opMu.Unlock()

	known, err := m.container.LocaleService().Known(ctx)
	if err != nil {
		return 0, err
	}
	m.reexpand(known)
	return m.Index().Len(), nil
}

// CleanIndex drops the generated localized proxies from the resource list and
// clears the lookup index, reporting how many proxies were removed. The
// pristine source list survives so a later rebuild can regenerate them.
func (m *Module) CleanIndex(context.Context) (int, error) {
	if m == nil || m.container == nil {
		return 0, errNilModule
	}

	m.opMu.Lock()
	defer m.opMu.Unlock()

	m.mu.Lock()
	defer m.mu.Unlock()

	removed := 0
	if len(m.expanded) > 0 {
		kept := make(sitemap.List, 0, len(m.expanded))
		for _, res := range m.expanded {
			if res.IsProxy() {
				removed++
				continue
			}
			kept = append(kept, res)
		}
		m.expanded = kept
	}
	m.index = expander.NewIndex(m.container.Config.Paths.IndexFile)
	return removed, nil
}

// SubscribeChanges registers a channel receiving locale-data change sets
// after each successful watch-driven reload.
func (m *Module) SubscribeChanges(ctx context.Context) (<-chan ChangeSet, error) {
	if m == nil || m.container == nil {
		return nil, errNilModule
	}
	return m.container.Broadcaster().Subscribe(ctx)
}

// StartWatching launches the reload loop: locale-data change sets invalidate
// discovery, trigger a reload, and fan out to subscribers. Fails with
// ErrWatcherNotConfigured when no watcher is wired and ErrWatchActive when
// the loop is already running.
func (m *Module) StartWatching(ctx context.Context) error {
	if m == nil || m.container == nil {
		return errNilModule
	}
	watcher := m.container.Watcher()
	if watcher == nil {
		return ErrWatcherNotConfigured
	}
	if ctx == nil {
		ctx = context.Background()
	}

	m.opMu.Lock()
	if m.watchCancel != nil {
		m.opMu.Unlock()
		return ErrWatchActive
	}
	watchCtx, cancel := context.WithCancel(ctx)
	ch, err := watcher.Watch(watchCtx)
	if err != nil {
		cancel()
		m.opMu.Unlock()
		return err
	}
	done := make(chan struct{})
	m.watchCancel = cancel
	m.watchDone = done
	m.opMu.Unlock()

	go m.watchLoop(watchCtx, ch, done)
	return nil
}

func (m *Module) watchLoop(ctx context.Context, ch <-chan ChangeSet, done chan struct{}) {
	defer close(done)
	logger := m.container.Logger()

	for {
		select {
		case <-ctx.Done():
			return
		case changes, ok := <-ch:
			if !ok {
				return
			}
			if changes.Empty() {
				continue
			}
			if err := m.Reload(ctx); err != nil {
				// Keep watching; a later change set retries against the
				// repaired data files.
				logger.Error("localize.reload.failed",
					"error", err,
					"updated", len(changes.Updated),
					"removed", len(changes.Removed),
				)
				continue
			}
			m.container.Broadcaster().Broadcast(changes)
		}
	}
}

// Close stops the reload loop, the watcher, and the change broadcaster.
func (m *Module) Close() error {
	if m == nil || m.container == nil {
		return nil
	}

	m.opMu.Lock()
	if m.closed {
		m.opMu.Unlock()
		return nil
	}
	m.closed = true
	cancel, done := m.watchCancel, m.watchDone
	m.watchCancel, m.watchDone = nil, nil
	m.opMu.Unlock()

	if cancel != nil {
		cancel()
	}
	if done != nil {
		<-done
	}

	var err error
	if watcher := m.container.Watcher(); watcher != nil {
		err = watcher.Close()
	}
	m.container.Broadcaster().Close()
	return err
}

// RegisterCommands builds the locale command handlers around this module and
// registers them with the provided registry. The commands feature must be
// enabled.
func (m *Module) RegisterCommands(reg CommandRegistry, opts ...CommandOption) (*CommandHandlerSet, error) {
	if m == nil || m.container == nil {
		return nil, errNilModule
	}
	if !m.container.Config.Features.Commands {
		return nil, ErrCommandsDisabled
	}

	gates := localeops.FeatureGates{
		LocalizationEnabled: m.Enabled,
	}
	return localeops.RegisterLocaleCommands(reg, m, m.container.LoggerProvider(), gates, opts...)
}

// localizedPathLookup serves the link resolver from the current index
// snapshot.
func (m *Module) localizedPathLookup(path, locale string) (string, bool) {
	m.mu.RLock()
	ix := m.index
	m.mu.RUnlock()
	return ix.LocalizedPath(path, locale)
}

// reexpand re-runs expansion over a clone of the pristine source list and
// publishes the fresh output and index in one swap.
func (m *Module) reexpand(known []string) {
	m.mu.RLock()
	sources := m.sources.Clone()
	m.mu.RUnlock()

	if sources == nil {
		m.mu.Lock()
		m.index = expander.NewIndex(m.container.Config.Paths.IndexFile)
		m.mu.Unlock()
		return
	}

	result := m.container.Expander().Expand(sources, known)

	m.mu.Lock()
	m.expanded = result.Resources
	m.index = result.Index
	m.mu.Unlock()
}

// loadBundles parses every locale data file into flattened translation
// bundles. A missing data directory means zero bundles, not a failure.
func (m *Module) loadBundles() (map[string]map[string]string, error) {
	fsys := m.container.DataFS()
	if fsys == nil {
		return nil, nil
	}
	exts := m.container.Config.Locales.RecognizedExtensions()

	if m.container.Config.Translations.ValidateData {
		files, err := i18n.ListDataFiles(fsys, exts)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil, nil
			}
			return nil, err
		}
		for _, file := range files {
			if err := i18n.ValidateDataFile(fsys, file); err != nil {
				return nil, err
			}
		}
	}

	bundles, err := i18n.LoadDir(fsys, exts)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	return bundles, nil
}
