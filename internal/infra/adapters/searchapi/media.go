package searchapi

import (
	"net/url"
	"strings"
)

// NormalizeStoragePath reduces a stored path or absolute URL to a
// storage-relative path. The backend sometimes embeds its media prefix in
// the stored value; stripping it here keeps later resolution from
// double-prefixing.
func NormalizeStoragePath(p string) string {
	if u, err := url.Parse(p); err == nil && u.IsAbs() {
		p = u.Path
	}
	p = strings.TrimPrefix(p, "/")
	p = strings.TrimPrefix(p, "media/")
	return p
}

// MediaResolver builds download URLs for stored files against the
// configured media base.
type MediaResolver struct {
	base string
}

func NewMediaResolver(baseURL string) *MediaResolver {
	return &MediaResolver{base: strings.TrimRight(baseURL, "/")}
}

// Resolve returns the absolute URL for a stored path. Empty input stays
// empty; already-normalized and raw stored values resolve identically.
func (m *MediaResolver) Resolve(p string) string {
	if p == "" {
		return ""
	}
	rel := NormalizeStoragePath(p)
	if m.base == "" {
		return "/" + rel
	}
	return m.base + "/" + rel
}
