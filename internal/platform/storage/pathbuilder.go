package storage

import "strings"

const (
	siteDocumentPrefix = "sites/"
	siteDocumentName   = "index.html"
)

// SiteDocumentPath builds the canonical object path for a published site
// document: sites/{slug}/index.html.
func SiteDocumentPath(slug string) string {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return ""
	}
	return siteDocumentPrefix + slug + "/" + siteDocumentName
}

// SlugFromDocumentPath recovers the site slug from an object path produced by
// SiteDocumentPath. Returns "" when the path does not match.
func SlugFromDocumentPath(path string) string {
	if !strings.HasPrefix(path, siteDocumentPrefix) {
		return ""
	}
	rest := strings.TrimPrefix(path, siteDocumentPrefix)
	slug, name, found := strings.Cut(rest, "/")
	if !found || name != siteDocumentName || slug == "" {
		return ""
	}
	return slug
}
