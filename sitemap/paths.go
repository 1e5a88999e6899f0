package sitemap

import (
	"path"
	"strings"
)

// NormalizePath cleans a destination path into the canonical list form:
// forward slashes, no leading slash, no dot segments. The empty string stays
// empty so callers can treat it as "no path".
func NormalizePath(p string) string {
	trimmed := strings.TrimSpace(p)
	if trimmed == "" {
		return ""
	}
	cleaned := path.Clean(strings.ReplaceAll(trimmed, "\\", "/"))
	cleaned = strings.TrimPrefix(cleaned, "/")
	if cleaned == "." {
		return ""
	}
	return cleaned
}

// URLPath prefixes a normalized destination path with a slash, the shape the
// lookup index stores and link resolution consumes.
func URLPath(p string) string {
	normalized := NormalizePath(p)
	return "/" + normalized
}

// StripPrefixDir removes a leading directory component (and its separator)
// from a normalized path. The path is returned untouched when it does not
// live under dir.
func StripPrefixDir(p, dir string) string {
	dir = strings.Trim(strings.TrimSpace(dir), "/")
	if dir == "" || p == "" {
		return p
	}
	if p == dir {
		return ""
	}
	if strings.HasPrefix(p, dir+"/") {
		return strings.TrimPrefix(p, dir+"/")
	}
	return p
}

// StripDirComponent removes the first path component equal to dir wherever
// it sits. Localized prefixes push the templates directory past the front of
// the path ("fr/localizable/about.html"), so a prefix-only strip is not
// enough.
func StripDirComponent(p, dir string) string {
	dir = strings.Trim(strings.TrimSpace(dir), "/")
	if dir == "" || p == "" {
		return p
	}
	if p == dir {
		return ""
	}
	if strings.HasPrefix(p, dir+"/") {
		return strings.TrimPrefix(p, dir+"/")
	}
	if idx := strings.Index(p, "/"+dir+"/"); idx >= 0 {
		return p[:idx] + p[idx+len(dir)+1:]
	}
	if strings.HasSuffix(p, "/"+dir) {
		return strings.TrimSuffix(p, "/"+dir)
	}
	return p
}

// UnderDir reports whether a normalized path lives inside dir.
func UnderDir(p, dir string) bool {
	dir = strings.Trim(strings.TrimSpace(dir), "/")
	if dir == "" || p == "" {
		return false
	}
	return strings.HasPrefix(p, dir+"/")
}

// PageID derives the page identifier for a destination path: the basename
// with its final extension stripped.
func PageID(p string) string {
	base := path.Base(p)
	if ext := path.Ext(base); ext != "" {
		return strings.TrimSuffix(base, ext)
	}
	return base
}
