package localizer

import (
	"path"
	"strings"

	"github.com/goliatone/go-slug"

	"github.com/goliatone/go-localize/internal/i18n"
	"github.com/goliatone/go-localize/internal/logging"
	"github.com/goliatone/go-localize/pkg/interfaces"
	"github.com/goliatone/go-localize/sitemap"
)

// DefaultURLPrefixTemplate shapes non-root locale prefixes when the
// configuration leaves the template empty.
const DefaultURLPrefixTemplate = "/:locale/"

// DefaultKeyPrefix namespaces path translation lookups.
const DefaultKeyPrefix = "paths"

// AliasFunc resolves the display alias substituted into URL prefix templates.
type AliasFunc func(locale string) string

// Config controls localized path composition.
type Config struct {
	// MountLocale is the locale served from the URL root with no prefix.
	MountLocale string
	// URLPrefixTemplate shapes the prefix for every other locale; the
	// :locale (or legacy :lang) placeholder is replaced by the alias.
	URLPrefixTemplate string
	// TemplatesDir is the folder-localization directory; its path component
	// is stripped from composed paths.
	TemplatesDir string
	// KeyPrefix namespaces translation lookups, "paths" by default.
	KeyPrefix string
	// SlugifyTranslations normalizes translated segments with slug rules so
	// translations containing spaces or accents stay URL-safe.
	SlugifyTranslations bool
}

// Option configures a Localizer.
type Option func(*Localizer)

// WithAliasFunc installs the locale alias resolver.
func WithAliasFunc(fn AliasFunc) Option {
	return func(l *Localizer) {
		if fn != nil {
			l.alias = fn
		}
	}
}

// WithLogger overrides the localizer logger.
func WithLogger(logger interfaces.Logger) Option {
	return func(l *Localizer) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// Localizer composes locale-specific destination paths by translating page
// identifiers and directory segments through the translation store.
type Localizer struct {
	cfg        Config
	store      *i18n.Store
	alias      AliasFunc
	normalizer slug.Normalizer
	logger     interfaces.Logger
}

// New constructs a Localizer around a translation store.
func New(cfg Config, store *i18n.Store, opts ...Option) *Localizer {
	l := &Localizer{
		cfg:    cfg,
		store:  store,
		alias:  func(locale string) string { return locale },
		logger: logging.NoOp(),
	}
	if cfg.SlugifyTranslations {
		l.normalizer = slug.Default()
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Localize builds the localized descriptor for one (template, locale) pair.
//
// The page identifier translates without fallback chains so a missing
// translation never leaks another locale's slug; directory segments translate
// with fallbacks. The whole computation runs under a swapped current locale,
// restored on every exit path.
func (l *Localizer) Localize(destPath, sourcePath, pageID, locale string) sitemap.LocalizedPageDescriptor {
	defer l.store.Swap(locale)()

	normalized := sitemap.NormalizePath(destPath)
	localizedID := l.translate(pageID, locale, false)

	composed := l.composePath(normalized, locale)
	if pageID != "" && localizedID != pageID {
		composed = strings.Replace(composed, pageID, localizedID, 1)
	}

	final := sitemap.NormalizePath(path.Join(l.prefixFor(locale), composed))
	final = sitemap.StripDirComponent(final, l.cfg.TemplatesDir)

	l.logger.Debug("localizer.path.composed",
		"locale", locale,
		"page_id", pageID,
		"path", final,
	)

	return sitemap.LocalizedPageDescriptor{
		Path:       final,
		SourcePath: sourcePath,
		Locale:     locale,
		PageID:     localizedID,
	}
}

// composePath translates every directory segment of p and reattaches the
// untouched basename.
func (l *Localizer) composePath(p, locale string) string {
	dir := path.Dir(p)
	base := path.Base(p)
	if dir == "." || dir == "/" {
		return base
	}

	var out strings.Builder
	for _, segment := range strings.Split(dir, "/") {
		if segment == "" {
			continue
		}
		if out.Len() > 0 {
			out.WriteString("/")
		}
		out.WriteString(l.translate(segment, locale, true))
	}
	out.WriteString("/")
	out.WriteString(base)
	return out.String()
}

// prefixFor returns "/" for the mount locale and the substituted prefix
// template for every other locale.
func (l *Localizer) prefixFor(locale string) string {
	if strings.EqualFold(locale, l.cfg.MountLocale) {
		return "/"
	}

	template := strings.TrimSpace(l.cfg.URLPrefixTemplate)
	if template == "" {
		template = DefaultURLPrefixTemplate
	}

	alias := l.alias(locale)
	if alias == "" {
		alias = locale
	}
	prefix := strings.Replace(template, ":locale", alias, 1)
	prefix = strings.Replace(prefix, ":lang", alias, 1)
	return prefix
}

// translate resolves one path token, defaulting to the token itself on a
// miss. The useFallbacks switch distinguishes directory segments from page
// identifiers.
func (l *Localizer) translate(token, locale string, useFallbacks bool) string {
	if token == "" {
		return token
	}
	value, ok := l.store.Lookup(locale, l.keyFor(token), useFallbacks)
	if !ok || value == token {
		return token
	}
	if l.normalizer != nil {
		if normalized, err := l.normalizer.Normalize(value); err == nil && normalized != "" {
			return normalized
		}
	}
	return value
}

func (l *Localizer) keyFor(token string) string {
	prefix := strings.TrimSpace(l.cfg.KeyPrefix)
	if prefix == "" {
		prefix = DefaultKeyPrefix
	}
	return prefix + "." + token
}
