package interfaces

// Translator resolves a translation key for a locale. Implementations return
// an error when the key has no value for the locale (after any fallback chain
// the implementation applies); callers that want silent defaults should use
// the engine's default-aware helpers instead.
type Translator interface {
	Translate(locale, key string, args ...any) (string, error)
}

// MissingTranslationHandler lets hosts observe or replace the value produced
// when a translation lookup misses. The returned string is used verbatim.
type MissingTranslationHandler func(locale, key string, args []any, err error) string

// LocaleSwitcher exposes the mutable current-locale state carried by the
// translation store. Swap changes the current locale and returns a restore
// function; callers must invoke the restore via defer so the previous locale
// survives panics and early returns.
type LocaleSwitcher interface {
	CurrentLocale() string
	SetLocale(locale string) error
	Swap(locale string) func()
}
