package resolver

import (
	"fmt"
	"net/url"
	"strings"
	"sync"

	urlkit "github.com/goliatone/go-urlkit"

	"github.com/goliatone/go-localize/pkg/interfaces"
)

// URLKitResolverOptions configures the go-urlkit backed base resolver.
type URLKitResolverOptions struct {
	Manager      *urlkit.RouteManager
	DefaultGroup string
	LocaleGroups map[string]string
	DefaultRoute string
	PathParam    string
	LocaleParam  string
}

// URLKitResolver resolves site links through a go-urlkit RouteManager. Locale
// aware hosts can point each locale at its own route group; otherwise every
// link goes through the default group and route.
type URLKitResolver struct {
	manager *urlkit.RouteManager

	defaultGroup string
	localeGroups map[string]string

	defaultRoute string
	pathParam    string
	localeParam  string

	groupCache map[string]*urlkit.Group
	mu         sync.RWMutex
}

// NewURLKitResolver constructs a resolver backed by go-urlkit.
func NewURLKitResolver(opts URLKitResolverOptions) *URLKitResolver {
	if opts.PathParam == "" {
		opts.PathParam = "path"
	}

	return &URLKitResolver{
		manager: opts.Manager,

		defaultGroup: strings.TrimSpace(opts.DefaultGroup),
		localeGroups: opts.LocaleGroups,

		defaultRoute: strings.TrimSpace(opts.DefaultRoute),
		pathParam:    opts.PathParam,
		localeParam:  strings.TrimSpace(opts.LocaleParam),

		groupCache: make(map[string]*urlkit.Group),
	}
}

var _ interfaces.PathResolver = (*URLKitResolver)(nil)

// Resolve builds a URL for the link using the configured route manager.
// Links that already carry a scheme or host skip route building entirely;
// the localized link resolver re-resolves its own output, so an absolute URL
// arriving here must come back intact rather than routed a second time.
func (r *URLKitResolver) Resolve(link string, opts interfaces.ResolveOptions) (string, error) {
	if r == nil || r.manager == nil {
		return link, nil
	}

	if absoluteLink(link) {
		return r.finalize(link, opts)
	}

	groupPath := r.defaultGroup
	localeKey := strings.ToLower(strings.TrimSpace(opts.Locale))
	if r.localeGroups != nil {
		if path, ok := r.localeGroups[localeKey]; ok && strings.TrimSpace(path) != "" {
			groupPath = strings.TrimSpace(path)
		}
	}
	if groupPath == "" {
		return link, nil
	}

	group, err := r.groupForPath(groupPath)
	if err != nil || group == nil {
		return "", err
	}

	if r.defaultRoute == "" {
		return link, nil
	}

	builder, err := r.safeBuilder(group, r.defaultRoute)
	if err != nil {
		return "", err
	}

	builder.WithParam(r.pathParam, strings.TrimPrefix(link, "/"))
	if r.localeParam != "" && localeKey != "" {
		builder.WithParam(r.localeParam, localeKey)
	}
	for key, value := range opts.Query {
		builder.WithQuery(key, value)
	}

	built, err := builder.Build()
	if err != nil {
		return "", err
	}
	return r.finalize(built, opts)
}

// finalize applies the relative reduction and anchor to a built or
// passed-through URL.
func (r *URLKitResolver) finalize(built string, opts interfaces.ResolveOptions) (string, error) {
	if opts.Relative != nil && *opts.Relative && relativizable(built) {
		out, err := relativize(built)
		if err != nil {
			return "", err
		}
		built = out
	}
	if anchor := strings.TrimPrefix(strings.TrimSpace(opts.Anchor), "#"); anchor != "" {
		built += "#" + anchor
	}
	return built, nil
}

func (r *URLKitResolver) groupForPath(path string) (*urlkit.Group, error) {
	r.mu.RLock()
	group, ok := r.groupCache[path]
	r.mu.RUnlock()
	if ok {
		return group, nil
	}

	parts := strings.Split(path, ".")
	if len(parts) == 0 {
		return nil, fmt.Errorf("resolver: invalid route group path %q", path)
	}

	root, err := lookupGroup(r.manager, parts[0])
	if err != nil {
		return nil, err
	}
	current := root
	for _, part := range parts[1:] {
		current, err = lookupChildGroup(current, part)
		if err != nil {
			return nil, err
		}
	}

	r.mu.Lock()
	r.groupCache[path] = current
	r.mu.Unlock()
	return current, nil
}

// The urlkit manager panics on unknown groups and routes; the named returns
// let the deferred recover surface those panics as errors.
func (r *URLKitResolver) safeBuilder(group *urlkit.Group, route string) (builder *urlkit.Builder, err error) {
	if group == nil {
		return nil, fmt.Errorf("resolver: urlkit group is nil")
	}
	defer func() {
		if rec := recover(); rec != nil {
			builder = nil
			err = fmt.Errorf("resolver: urlkit builder panic: %v", rec)
		}
	}()
	builder = group.Builder(route)
	return builder, nil
}

func lookupGroup(manager *urlkit.RouteManager, name string) (group *urlkit.Group, err error) {
	if manager == nil {
		return nil, fmt.Errorf("resolver: route manager not configured")
	}
	defer func() {
		if rec := recover(); rec != nil {
			group = nil
			err = fmt.Errorf("resolver: route group %q not found", name)
		}
	}()
	group = manager.Group(name)
	return group, nil
}

func lookupChildGroup(parent *urlkit.Group, name string) (group *urlkit.Group, err error) {
	if parent == nil {
		return nil, fmt.Errorf("resolver: parent group is nil")
	}
	defer func() {
		if rec := recover(); rec != nil {
			group = nil
			err = fmt.Errorf("resolver: child group %q not found", name)
		}
	}()
	group = parent.Group(name)
	return group, nil
}

// absoluteLink reports whether the link already carries a scheme or host.
func absoluteLink(link string) bool {
	if strings.HasPrefix(link, "//") {
		return true
	}
	parsed, err := url.Parse(link)
	if err != nil {
		return false
	}
	return parsed.Scheme != ""
}

// relativizable limits the relative reduction to http(s) URLs and site paths;
// mailto and friends have no path form to reduce to.
func relativizable(raw string) bool {
	if strings.HasPrefix(raw, "/") && !strings.HasPrefix(raw, "//") {
		return true
	}
	parsed, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return (parsed.Scheme == "http" || parsed.Scheme == "https") && parsed.Host != ""
}

func relativize(raw string) (string, error) {
	parsed, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("resolver: relativize %q: %w", raw, err)
	}
	out := parsed.EscapedPath()
	if out == "" {
		out = "/"
	}
	if parsed.RawQuery != "" {
		out += "?" + parsed.RawQuery
	}
	return out, nil
}
