package interfaces

// ResolveOptions carries the host resolver settings threaded through link
// resolution. Relative is a tri-state: nil defers to the resolver's own
// default, otherwise the explicit value wins.
type ResolveOptions struct {
	Relative *bool
	Locale   string
	Anchor   string
	Query    map[string]string
}

// Clone returns a copy safe to mutate without touching the caller's options.
func (o ResolveOptions) Clone() ResolveOptions {
	out := o
	if o.Relative != nil {
		v := *o.Relative
		out.Relative = &v
	}
	if o.Query != nil {
		out.Query = make(map[string]string, len(o.Query))
		for k, v := range o.Query {
			out.Query[k] = v
		}
	}
	return out
}

// PathResolver turns a link or path reference into a final URL. Hosts supply
// their own implementation (sitemap-aware resolvers, urlkit route managers,
// template helpers); the engine wraps it with localization lookups.
type PathResolver interface {
	Resolve(link string, opts ResolveOptions) (string, error)
}

// PathResolverFunc adapts a function to the PathResolver contract.
type PathResolverFunc func(link string, opts ResolveOptions) (string, error)

// Resolve implements PathResolver.
func (f PathResolverFunc) Resolve(link string, opts ResolveOptions) (string, error) {
	return f(link, opts)
}

// PartialFinder locates a partial template by name, returning the resolved
// reference or false when the candidate does not exist.
type PartialFinder interface {
	Find(name string) (string, bool)
}

// PartialFinderFunc adapts a function to the PartialFinder contract.
type PartialFinderFunc func(name string) (string, bool)

// Find implements PartialFinder.
func (f PartialFinderFunc) Find(name string) (string, bool) {
	return f(name)
}
