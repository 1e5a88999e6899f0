package sitemap

import (
	"github.com/google/uuid"
)

// MetadataLangKey is the metadata option attached to generated proxy
// resources so downstream renderers know which locale the proxy serves.
const MetadataLangKey = "lang"

// MetadataPageIDKey carries the translated page identifier on generated
// proxy resources.
const MetadataPageIDKey = "page_id"

// Resource models one entry of the host build pipeline's resource list. Path
// is the destination path (relative, no leading slash) the resource renders
// to; SourcePath is the canonical source reference the host uses to locate
// the underlying template or file.
type Resource struct {
	ID         uuid.UUID
	Path       string
	SourcePath string
	Metadata   map[string]any
	Options    map[string]any
	Ignored    bool

	proxy *ProxyRef
}

// ProxyRef links a generated localized resource back to the source template
// it renders through.
type ProxyRef struct {
	Target string
	Locale string
}

// New constructs a plain resource for the given destination and source paths.
func New(path, sourcePath string) *Resource {
	return &Resource{
		Path:       NormalizePath(path),
		SourcePath: sourcePath,
	}
}

// NewProxy constructs a localized proxy resource pointing at target. The
// locale is recorded both in the proxy reference and in the lang metadata
// option consumed by renderers.
func NewProxy(id uuid.UUID, path, target, locale string) *Resource {
	return &Resource{
		ID:         id,
		Path:       NormalizePath(path),
		SourcePath: target,
		Options: map[string]any{
			MetadataLangKey: locale,
		},
		proxy: &ProxyRef{
			Target: target,
			Locale: locale,
		},
	}
}

// Ignore marks the resource as excluded from output while keeping it in the
// list for bookkeeping.
func (r *Resource) Ignore() {
	if r == nil {
		return
	}
	r.Ignored = true
}

// IsProxy reports whether the resource was generated as a localized proxy.
func (r *Resource) IsProxy() bool {
	return r != nil && r.proxy != nil
}

// Proxy returns the proxy reference for generated resources, or nil for
// plain resources.
func (r *Resource) Proxy() *ProxyRef {
	if r == nil || r.proxy == nil {
		return nil
	}
	ref := *r.proxy
	return &ref
}

// Locale returns the locale a proxy resource serves, empty for plain
// resources.
func (r *Resource) Locale() string {
	if r == nil || r.proxy == nil {
		return ""
	}
	return r.proxy.Locale
}

// Clone returns a deep copy of the resource. Metadata and option maps are
// copied so callers can mutate the clone freely.
func (r *Resource) Clone() *Resource {
	if r == nil {
		return nil
	}
	out := &Resource{
		ID:         r.ID,
		Path:       r.Path,
		SourcePath: r.SourcePath,
		Ignored:    r.Ignored,
	}
	if r.Metadata != nil {
		out.Metadata = make(map[string]any, len(r.Metadata))
		for k, v := range r.Metadata {
			out.Metadata[k] = v
		}
	}
	if r.Options != nil {
		out.Options = make(map[string]any, len(r.Options))
		for k, v := range r.Options {
			out.Options[k] = v
		}
	}
	if r.proxy != nil {
		ref := *r.proxy
		out.proxy = &ref
	}
	return out
}

// List is an ordered collection of resources as supplied by the host build.
type List []*Resource

// Clone deep-copies the list so expansions can run against a stable input.
func (l List) Clone() List {
	if l == nil {
		return nil
	}
	out := make(List, len(l))
	for i, res := range l {
		out[i] = res.Clone()
	}
	return out
}

// Active returns the resources that remain part of the output (not ignored).
func (l List) Active() List {
	out := make(List, 0, len(l))
	for _, res := range l {
		if res != nil && !res.Ignored {
			out = append(out, res)
		}
	}
	return out
}

// Proxies returns the generated localized proxy resources in list order.
func (l List) Proxies() List {
	out := make(List, 0, len(l))
	for _, res := range l {
		if res.IsProxy() {
			out = append(out, res)
		}
	}
	return out
}

// LocalizedPageDescriptor captures one localized rendering of a source
// template: the localized destination path, the source it proxies, the locale
// it serves, and the translated page identifier.
type LocalizedPageDescriptor struct {
	Path       string
	SourcePath string
	Locale     string
	PageID     string
}
