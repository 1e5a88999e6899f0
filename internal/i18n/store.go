package i18n

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/goliatone/go-localize/internal/logging"
	"github.com/goliatone/go-localize/pkg/interfaces"
)

// ErrLocaleRequired indicates an operation received an empty locale code.
var ErrLocaleRequired = errors.New("i18n: locale code is required")

// ErrUnknownLocale indicates the requested locale is not part of the known set.
var ErrUnknownLocale = errors.New("i18n: unknown locale")

// ErrNoAlternateLocales indicates a locale switch was requested while the
// store knows no other locale to switch to.
var ErrNoAlternateLocales = errors.New("i18n: no alternate locales available")

// ErrTranslationMissing indicates no value exists for a key in the consulted
// locales.
var ErrTranslationMissing = errors.New("i18n: translation missing")

// LocaleNotFoundError carries the locale code that failed a lookup.
type LocaleNotFoundError struct {
	Code string
}

func (e *LocaleNotFoundError) Error() string {
	return fmt.Sprintf("i18n: locale %q not found", e.Code)
}

// Unwrap allows errors.Is(err, ErrUnknownLocale) checks.
func (e *LocaleNotFoundError) Unwrap() error {
	return ErrUnknownLocale
}

// Config captures translation store behaviour.
type Config struct {
	// DefaultLocale is the fallback target for chained lookups, normally the
	// mount-at-root locale.
	DefaultLocale string
	// DisableFallbacks restricts lookups to the requested locale only.
	DisableFallbacks bool
	// OnMissing, when set, produces the value returned by default-aware
	// lookups that miss.
	OnMissing interfaces.MissingTranslationHandler
}

// Store holds flattened translation bundles for every known locale plus the
// mutable current-locale state used by scoped path composition.
//
// The engine rebuilds bundles wholesale on reload; lookups hold a read lock
// so a reload during a host-parallelized build never exposes partial state.
type Store struct {
	mu       sync.RWMutex
	cfg      Config
	bundles  map[string]map[string]string
	known    []string
	current  string
	fallback string
	logger   interfaces.Logger
}

var (
	_ interfaces.Translator     = (*Store)(nil)
	_ interfaces.LocaleSwitcher = (*Store)(nil)
)

// NewStore constructs an empty store; call Replace to install bundles.
func NewStore(cfg Config, logger interfaces.Logger) *Store {
	if logger == nil {
		logger = logging.NoOp()
	}
	fallback := strings.TrimSpace(cfg.DefaultLocale)
	return &Store{
		cfg:      cfg,
		bundles:  map[string]map[string]string{},
		current:  fallback,
		fallback: fallback,
		logger:   logger,
	}
}

// Replace installs a new known-locale set and bundle map in one step. The
// current locale survives when still known, otherwise it resets to the
// default. Bundles for locales outside known are kept reachable so explicit
// locale lists and data files can disagree without dropping data.
func (s *Store) Replace(known []string, defaultLocale string, bundles map[string]map[string]string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.known = append([]string(nil), known...)
	if trimmed := strings.TrimSpace(defaultLocale); trimmed != "" {
		s.fallback = trimmed
	}
	if bundles == nil {
		bundles = map[string]map[string]string{}
	}
	s.bundles = bundles

	if !containsFold(s.known, s.current) {
		s.current = s.fallback
	}

	s.logger.Debug("i18n.bundles.replaced", "locales", len(s.known), "bundles", len(bundles))
}

// Known returns the known locale codes in their canonical order.
func (s *Store) Known() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]string(nil), s.known...)
}

// HasLocale reports whether code belongs to the known locale set.
func (s *Store) HasLocale(code string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return containsFold(s.known, code)
}

// DefaultLocale returns the fallback locale for chained lookups.
func (s *Store) DefaultLocale() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.fallback
}

// CurrentLocale returns the locale scoped operations run under.
func (s *Store) CurrentLocale() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// SetLocale switches the current locale. Unknown locales fail with a
// LocaleNotFoundError; switching while no alternate locale exists fails with
// ErrNoAlternateLocales.
func (s *Store) SetLocale(locale string) error {
	trimmed := strings.TrimSpace(locale)
	if trimmed == "" {
		return ErrLocaleRequired
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if strings.EqualFold(trimmed, s.current) {
		s.current = trimmed
		return nil
	}
	if len(s.known) <= 1 {
		return fmt.Errorf("%w: cannot switch to %q", ErrNoAlternateLocales, trimmed)
	}
	if !containsFold(s.known, trimmed) {
		return &LocaleNotFoundError{Code: trimmed}
	}
	s.current = trimmed
	return nil
}

// Swap temporarily replaces the current locale and returns the restore
// function. Callers must defer the restore so the previous locale comes back
// on every exit path, panics included.
func (s *Store) Swap(locale string) func() {
	trimmed := strings.TrimSpace(locale)
	if trimmed == "" {
		return func() {}
	}

	s.mu.Lock()
	previous := s.current
	s.current = trimmed
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		s.current = previous
		s.mu.Unlock()
	}
}

// Translate resolves key for locale, applying the fallback chain unless the
// store was configured without fallbacks. Positional args are interpolated
// with fmt.Sprintf when present. A miss returns ErrTranslationMissing.
func (s *Store) Translate(locale, key string, args ...any) (string, error) {
	value, ok := s.lookup(locale, key, !s.cfg.DisableFallbacks)
	if !ok {
		return "", fmt.Errorf("%w: %s (%s)", ErrTranslationMissing, key, locale)
	}
	if len(args) > 0 {
		return fmt.Sprintf(value, args...), nil
	}
	return value, nil
}

// TranslateOrDefault resolves key for locale and silently returns def on a
// miss. useFallbacks selects per-call whether the fallback chain applies;
// store-level DisableFallbacks still wins.
func (s *Store) TranslateOrDefault(locale, key, def string, useFallbacks bool) string {
	chain := useFallbacks && !s.cfg.DisableFallbacks
	if value, ok := s.lookup(locale, key, chain); ok {
		return value
	}
	if s.cfg.OnMissing != nil {
		return s.cfg.OnMissing(locale, key, nil, ErrTranslationMissing)
	}
	return def
}

// TranslateCurrent resolves key under the current locale with fallbacks,
// defaulting to def on a miss.
func (s *Store) TranslateCurrent(key, def string) string {
	return s.TranslateOrDefault(s.CurrentLocale(), key, def, true)
}

// Lookup resolves key for locale without default handling or the OnMissing
// hook. Path composition uses this so a missing slug stays the untranslated
// token. useFallbacks gates the chain; DisableFallbacks still wins.
func (s *Store) Lookup(locale, key string, useFallbacks bool) (string, bool) {
	return s.lookup(locale, key, useFallbacks && !s.cfg.DisableFallbacks)
}

func (s *Store) lookup(locale, key string, useFallbacks bool) (string, bool) {
	trimmed := strings.TrimSpace(locale)
	if trimmed == "" || strings.TrimSpace(key) == "" {
		return "", false
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if value, ok := s.bundleValue(trimmed, key); ok {
		return value, true
	}
	if !useFallbacks {
		return "", false
	}
	if s.fallback != "" && !strings.EqualFold(s.fallback, trimmed) {
		if value, ok := s.bundleValue(s.fallback, key); ok {
			return value, true
		}
	}
	return "", false
}

func (s *Store) bundleValue(locale, key string) (string, bool) {
	bundle, ok := s.bundles[locale]
	if !ok {
		for code, candidate := range s.bundles {
			if strings.EqualFold(code, locale) {
				bundle = candidate
				ok = true
				break
			}
		}
	}
	if !ok {
		return "", false
	}
	value, ok := bundle[key]
	return value, ok
}

// SortedBundleKeys lists the keys loaded for a locale, mainly for
// diagnostics and preview tooling.
func (s *Store) SortedBundleKeys(locale string) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	bundle, ok := s.bundles[strings.TrimSpace(locale)]
	if !ok {
		return nil
	}
	keys := make([]string, 0, len(bundle))
	for key := range bundle {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

func containsFold(list []string, candidate string) bool {
	for _, entry := range list {
		if strings.EqualFold(entry, candidate) {
			return true
		}
	}
	return false
}
