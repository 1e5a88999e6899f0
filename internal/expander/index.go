package expander

import (
	"sort"
	"strings"

	"github.com/goliatone/go-localize/sitemap"
)

// Index maps canonical source keys to per-locale localized URL paths. An
// Index is built wholesale during expansion and immutable afterwards; the
// engine publishes replacements by swapping the whole value, never by
// editing entries in place.
type Index struct {
	indexFile string
	entries   map[string]map[string]string
}

// NewIndex constructs an empty index using indexFile for directory-index
// normalization.
func NewIndex(indexFile string) *Index {
	return &Index{
		indexFile: strings.TrimSpace(indexFile),
		entries:   map[string]map[string]string{},
	}
}

// add records one localized path. Collisions on (key, locale) are not
// deduplicated; the last write wins.
func (ix *Index) add(key, locale, urlPath string) {
	normalized := sitemap.NormalizePath(key)
	if normalized == "" || locale == "" {
		return
	}
	locales, ok := ix.entries[normalized]
	if !ok {
		locales = map[string]string{}
		ix.entries[normalized] = locales
	}
	locales[locale] = urlPath
}

// LocalizedPath resolves the localized URL path for a canonical path and
// locale. Paths ending in a separator get the index file appended first.
// The second return reports whether an entry exists.
func (ix *Index) LocalizedPath(p, locale string) (string, bool) {
	if ix == nil {
		return "", false
	}
	lookup := strings.TrimSpace(p)
	if lookup == "" {
		return "", false
	}
	if strings.HasSuffix(lookup, "/") && ix.indexFile != "" {
		lookup += ix.indexFile
	}

	locales, ok := ix.entries[sitemap.NormalizePath(lookup)]
	if !ok {
		return "", false
	}
	if value, ok := locales[locale]; ok {
		return value, true
	}
	for code, value := range locales {
		if strings.EqualFold(code, locale) {
			return value, true
		}
	}
	return "", false
}

// Locales returns the locale mapping for a canonical key, nil when absent.
// The returned map is a copy.
func (ix *Index) Locales(key string) map[string]string {
	if ix == nil {
		return nil
	}
	locales, ok := ix.entries[sitemap.NormalizePath(key)]
	if !ok {
		return nil
	}
	out := make(map[string]string, len(locales))
	for code, value := range locales {
		out[code] = value
	}
	return out
}

// Len returns the number of canonical keys in the index.
func (ix *Index) Len() int {
	if ix == nil {
		return 0
	}
	return len(ix.entries)
}

// Keys returns the canonical keys in sorted order.
func (ix *Index) Keys() []string {
	if ix == nil {
		return nil
	}
	keys := make([]string, 0, len(ix.entries))
	for key := range ix.entries {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// Snapshot deep-copies the index contents for read-only external callers.
func (ix *Index) Snapshot() map[string]map[string]string {
	if ix == nil {
		return nil
	}
	out := make(map[string]map[string]string, len(ix.entries))
	for key, locales := range ix.entries {
		copied := make(map[string]string, len(locales))
		for code, value := range locales {
			copied[code] = value
		}
		out[key] = copied
	}
	return out
}

// Equal reports whether two indexes hold identical content.
func (ix *Index) Equal(other *Index) bool {
	if ix == nil || other == nil {
		return ix == other
	}
	if len(ix.entries) != len(other.entries) {
		return false
	}
	for key, locales := range ix.entries {
		otherLocales, ok := other.entries[key]
		if !ok || len(locales) != len(otherLocales) {
			return false
		}
		for code, value := range locales {
			if otherLocales[code] != value {
				return false
			}
		}
	}
	return true
}
