package expander

import (
	"strings"

	"github.com/goliatone/go-localize/sitemap"
)

// extensionMatch captures the parse of a filename-extension localized path
// like about.fr.html: the claimed locale, the path with the locale token
// removed, and the derived page identifier.
type extensionMatch struct {
	Locale string
	Path   string
	PageID string
}

// parseLocaleExtension classifies <base>.<locale>.<ext> paths. The path needs
// at least three dot segments and the locale token must match a known locale;
// anything else is not extension-localized and falls through silently.
func parseLocaleExtension(p string, known []string) *extensionMatch {
	bits := strings.Split(p, ".")
	if len(bits) < 3 {
		return nil
	}

	token := bits[len(bits)-2]
	locale, ok := matchKnownLocale(known, token)
	if !ok {
		return nil
	}

	rest := make([]string, 0, len(bits)-1)
	rest = append(rest, bits[:len(bits)-2]...)
	rest = append(rest, bits[len(bits)-1])
	path := strings.Join(rest, ".")

	return &extensionMatch{
		Locale: locale,
		Path:   path,
		PageID: sitemap.PageID(path),
	}
}

// matchKnownLocale returns the canonical form of token from the known set.
func matchKnownLocale(known []string, token string) (string, bool) {
	if token == "" {
		return "", false
	}
	for _, candidate := range known {
		if strings.EqualFold(candidate, token) {
			return candidate, true
		}
	}
	return "", false
}
