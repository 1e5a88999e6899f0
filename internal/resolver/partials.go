package resolver

import (
	"path"
	"strings"

	"github.com/goliatone/go-localize/pkg/interfaces"
)

// PartialsOption configures a LocalePartials finder.
type PartialsOption func(*LocalePartials)

// WithTemplatesDir also probes candidates inside the localizable templates
// directory, where per-locale partials usually live.
func WithTemplatesDir(dir string) PartialsOption {
	return func(p *LocalePartials) {
		p.templatesDir = strings.Trim(strings.TrimSpace(dir), "/")
	}
}

// LocalePartials decorates a partial finder with locale-suffixed candidates:
// rendering "nav.html" under locale fr first tries "nav.fr.html" (inside the
// templates dir and beside the partial), then falls back to the plain name so
// sites can localize only the partials that need it.
type LocalePartials struct {
	base         interfaces.PartialFinder
	current      func() string
	templatesDir string
}

// NewLocalePartials wraps the host partial finder. The current func supplies
// the active locale at lookup time.
func NewLocalePartials(base interfaces.PartialFinder, current func() string, opts ...PartialsOption) *LocalePartials {
	if current == nil {
		current = func() string { return "" }
	}
	p := &LocalePartials{base: base, current: current}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

var _ interfaces.PartialFinder = (*LocalePartials)(nil)

// Find implements interfaces.PartialFinder.
func (p *LocalePartials) Find(name string) (string, bool) {
	if p.base == nil {
		return "", false
	}
	for _, candidate := range p.candidates(name) {
		if found, ok := p.base.Find(candidate); ok {
			return found, true
		}
	}
	return "", false
}

func (p *LocalePartials) candidates(name string) []string {
	out := make([]string, 0, 4)
	seen := make(map[string]struct{}, 4)
	add := func(candidate string) {
		if candidate == "" {
			return
		}
		if _, ok := seen[candidate]; ok {
			return
		}
		seen[candidate] = struct{}{}
		out = append(out, candidate)
	}

	outsideDir := p.templatesDir != "" && !strings.HasPrefix(name, p.templatesDir+"/")

	if locale := strings.TrimSpace(p.current()); locale != "" {
		suffixed := localeSuffix(name, locale)
		if outsideDir {
			add(path.Join(p.templatesDir, suffixed))
		}
		add(suffixed)
	}
	if outsideDir {
		add(path.Join(p.templatesDir, name))
	}
	add(name)
	return out
}

// localeSuffix inserts the locale before the final extension: "nav.html"
// becomes "nav.fr.html"; extension-less names get a plain suffix.
func localeSuffix(name, locale string) string {
	ext := path.Ext(name)
	if ext == "" {
		return name + "." + locale
	}
	return strings.TrimSuffix(name, ext) + "." + locale + ext
}
