package resolver

import (
	"net/url"
	"strings"

	"github.com/goliatone/go-localize/internal/logging"
	"github.com/goliatone/go-localize/pkg/interfaces"
)

// LocalizedPathFunc looks up the localized URL path for a canonical path and
// locale. The engine binds this to the current lookup index snapshot.
type LocalizedPathFunc func(path, locale string) (string, bool)

// Option configures a Links resolver.
type Option func(*Links)

// WithCurrentLocale installs the fallback locale source used when resolve
// options carry no locale.
func WithCurrentLocale(fn func() string) Option {
	return func(l *Links) {
		if fn != nil {
			l.current = fn
		}
	}
}

// WithLogger overrides the resolver logger.
func WithLogger(logger interfaces.Logger) Option {
	return func(l *Links) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// Links rewrites internal links to their localized variants. It wraps the
// host's path resolver: canonicalize with relative rewriting off, consult the
// lookup index, then re-resolve with the caller's original settings. A
// resolution failure after localization falls back to the original link so
// localization never breaks a link that worked before.
type Links struct {
	base      interfaces.PathResolver
	localized LocalizedPathFunc
	current   func() string
	logger    interfaces.Logger
}

// NewLinks constructs the localized link resolver. A nil base resolver
// resolves links to themselves, so index lookups still apply when the host
// supplies no resolver of its own.
func NewLinks(base interfaces.PathResolver, localized LocalizedPathFunc, opts ...Option) *Links {
	if base == nil {
		base = identityResolver{}
	}
	l := &Links{
		base:      base,
		localized: localized,
		current:   func() string { return "" },
		logger:    logging.NoOp(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// identityResolver resolves every link to itself.
type identityResolver struct{}

func (identityResolver) Resolve(link string, _ interfaces.ResolveOptions) (string, error) {
	return link, nil
}

var _ interfaces.PathResolver = (*Links)(nil)

// Resolve implements the localization-aware resolution chain.
func (l *Links) Resolve(link string, opts interfaces.ResolveOptions) (string, error) {
	locale := strings.TrimSpace(opts.Locale)
	if locale == "" {
		locale = l.current()
	}

	canonical := opts.Clone()
	off := false
	canonical.Relative = &off

	href, err := l.base.Resolve(link, canonical)
	if err != nil {
		// The original reference is broken on its own; localization has
		// nothing to recover here.
		return "", err
	}

	final := href
	if l.localized != nil && locale != "" {
		if target, ok := l.localized(lookupKey(href), locale); ok {
			final = target
			l.logger.Debug("resolver.link.localized",
				"locale", locale,
				"href", href,
				"localized", target,
			)
		}
	}

	out, err := l.base.Resolve(final, opts.Clone())
	if err == nil {
		return out, nil
	}

	// Fall back to resolving the caller's original input with the original
	// options rather than surfacing a localization-era failure.
	l.logger.Debug("resolver.link.fallback", "link", link, "error", err)
	return l.base.Resolve(link, opts.Clone())
}

// lookupKey reduces a canonicalized href to the site-root path form stored in
// the lookup index. Base resolvers that emit full URLs still get index hits;
// anything without an http(s) host passes through and simply misses.
func lookupKey(href string) string {
	parsed, err := url.Parse(href)
	if err != nil {
		return href
	}
	if (parsed.Scheme == "http" || parsed.Scheme == "https") && parsed.Host != "" {
		if path := parsed.EscapedPath(); path != "" {
			return path
		}
		return "/"
	}
	return href
}
