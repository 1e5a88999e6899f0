package expander

import (
	"github.com/goliatone/go-localize/internal/identity"
	"github.com/goliatone/go-localize/internal/localizer"
	"github.com/goliatone/go-localize/internal/logging"
	"github.com/goliatone/go-localize/pkg/interfaces"
	"github.com/goliatone/go-localize/sitemap"
)

// Config controls resource expansion.
type Config struct {
	// TemplatesDir is the folder-localization directory.
	TemplatesDir string
	// IndexFile is appended to directory-style paths during index lookups.
	IndexFile string
}

// Option configures an Expander.
type Option func(*Expander)

// WithLogger overrides the expander logger.
func WithLogger(logger interfaces.Logger) Option {
	return func(e *Expander) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// Expander walks the resource list once, claims localizable resources by
// strategy, and produces localized proxy resources plus the lookup index.
type Expander struct {
	cfg       Config
	localizer *localizer.Localizer
	logger    interfaces.Logger
}

// New constructs an Expander around a path localizer.
func New(cfg Config, loc *localizer.Localizer, opts ...Option) *Expander {
	e := &Expander{
		cfg:       cfg,
		localizer: loc,
		logger:    logging.NoOp(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Result carries the outcome of one expansion pass.
type Result struct {
	// Resources is the input list with claimed sources marked ignored plus
	// the generated localized proxies appended.
	Resources sitemap.List
	// Index is the freshly built lookup index.
	Index *Index
	// Descriptors lists every generated (resource, locale) rendering.
	Descriptors []sitemap.LocalizedPageDescriptor
}

type extClaim struct {
	resource *sitemap.Resource
	match    *extensionMatch
}

// Expand classifies every resource and generates localized descriptors. The
// filename-extension strategy claims first; remaining resources under the
// templates directory expand once per known locale. Claimed sources are
// marked ignored in place.
//
// With no known locales the list passes through untouched: an empty locale
// set means no localization, not an error.
func (e *Expander) Expand(resources sitemap.List, locales []string) Result {
	index := NewIndex(e.cfg.IndexFile)
	if len(locales) == 0 {
		return Result{Resources: resources, Index: index}
	}

	seen := existingProxyKeys(resources)

	var extClaims []extClaim
	var folderClaims []*sitemap.Resource
	for _, res := range resources {
		if res == nil || res.IsProxy() {
			continue
		}
		if match := parseLocaleExtension(res.Path, locales); match != nil {
			extClaims = append(extClaims, extClaim{resource: res, match: match})
			continue
		}
		if sitemap.UnderDir(res.Path, e.cfg.TemplatesDir) {
			folderClaims = append(folderClaims, res)
		}
	}

	out := append(sitemap.List{}, resources...)
	var descriptors []sitemap.LocalizedPageDescriptor

	for _, res := range folderClaims {
		pageID := sitemap.PageID(res.Path)
		stripped := sitemap.StripPrefixDir(res.Path, e.cfg.TemplatesDir)
		key := e.canonicalKey(res.Path)
		for _, locale := range locales {
			desc := e.localizer.Localize(stripped, res.Path, pageID, locale)
			descriptors = append(descriptors, desc)
			index.add(key, locale, sitemap.URLPath(desc.Path))
			if proxy := e.proxyFor(desc, seen); proxy != nil {
				out = append(out, proxy)
			}
		}
		res.Ignore()
	}

	for _, claim := range extClaims {
		res, match := claim.resource, claim.match
		desc := e.localizer.Localize(match.Path, res.Path, match.PageID, match.Locale)
		descriptors = append(descriptors, desc)
		index.add(e.canonicalKey(res.Path), match.Locale, sitemap.URLPath(desc.Path))
		if proxy := e.proxyFor(desc, seen); proxy != nil {
			out = append(out, proxy)
		}
		res.Ignore()
	}

	e.logger.Debug("expander.pass.completed",
		"resources", len(resources),
		"folder", len(folderClaims),
		"extension", len(extClaims),
		"descriptors", len(descriptors),
		"index_keys", index.Len(),
	)

	return Result{Resources: out, Index: index, Descriptors: descriptors}
}

// canonicalKey derives the lookup key for a source resource path.
func (e *Expander) canonicalKey(sourcePath string) string {
	return sitemap.StripPrefixDir(sourcePath, e.cfg.TemplatesDir)
}

// proxyFor builds the proxy resource for a descriptor, or nil when an
// identical proxy already exists in the input list. Proxy IDs derive
// deterministically from (source, locale) so re-expansions stay stable.
func (e *Expander) proxyFor(desc sitemap.LocalizedPageDescriptor, seen map[string]bool) *sitemap.Resource {
	key := proxyKey(desc.Path, desc.SourcePath, desc.Locale)
	if seen[key] {
		return nil
	}
	seen[key] = true

	proxy := sitemap.NewProxy(
		identity.PageUUID(desc.SourcePath, desc.Locale),
		desc.Path,
		desc.SourcePath,
		desc.Locale,
	)
	proxy.Metadata = map[string]any{
		sitemap.MetadataLangKey:   desc.Locale,
		sitemap.MetadataPageIDKey: desc.PageID,
	}
	return proxy
}

func existingProxyKeys(resources sitemap.List) map[string]bool {
	seen := map[string]bool{}
	for _, res := range resources {
		if res == nil || !res.IsProxy() {
			continue
		}
		ref := res.Proxy()
		seen[proxyKey(res.Path, ref.Target, ref.Locale)] = true
	}
	return seen
}

func proxyKey(path, target, locale string) string {
	return path + "\x00" + target + "\x00" + locale
}
