package render

import (
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/localed/api/internal/domain"
)

const maxMetaDescriptionLength = 160

// Result is the output of one render: the complete HTML document and the
// metadata record reused for DB storage and link previews.
type Result struct {
	HTML string
	Meta domain.PublishedMeta
}

// Assemble renders one locale's content record into a self-contained HTML
// document. Output is byte-for-byte reproducible for identical inputs and a
// fixed now; section order is hard-coded and never depends on map iteration.
func Assemble(content domain.ContentRecord, identity domain.SiteIdentity, baseURL string, now time.Time) Result {
	view := Normalize(content, identity, now)
	meta := buildMeta(view)

	base := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	page := &Page{
		View:          view,
		CanonicalURL:  base + "/" + view.Slug,
		ContactAction: base + "/api/sites/" + view.Slug + "/contact",
		Year:          now.Year(),
	}

	// Render every section once; the same pass decides nav membership.
	rendered := make([]string, len(sectionOrder))
	type navEntry struct{ id, label string }
	var nav []navEntry
	for i, spec := range sectionOrder {
		rendered[i] = spec.render(page)
		if spec.inNav && rendered[i] != "" {
			nav = append(nav, navEntry{id: spec.id, label: view.SectionTitle(spec.id)})
		}
	}

	var b strings.Builder
	b.WriteString("<!doctype html>\n")
	b.WriteString(`<html lang="en">`)

	// Head.
	b.WriteString(`<head>`)
	b.WriteString(`<meta charset="utf-8">`)
	b.WriteString(`<meta name="viewport" content="width=device-width, initial-scale=1">`)
	if view.NoIndex {
		b.WriteString(`<meta name="robots" content="noindex, nofollow">`)
	}
	b.WriteString(`<title>` + Text(meta.Title) + `</title>`)
	if meta.Description != "" {
		b.WriteString(`<meta name="description" content="` + Attr(meta.Description) + `">`)
	}
	if view.MetaKeywords != "" {
		b.WriteString(`<meta name="keywords" content="` + Attr(view.MetaKeywords) + `">`)
	}
	b.WriteString(`<link rel="canonical" href="` + Attr(page.CanonicalURL) + `">`)
	if view.CustomCSSURL != "" {
		b.WriteString(`<link rel="stylesheet" href="` + Attr(view.CustomCSSURL) + `">`)
	}
	b.WriteString(`<meta property="og:type" content="website">`)
	b.WriteString(`<meta property="og:title" content="` + Attr(meta.Title) + `">`)
	if meta.Description != "" {
		b.WriteString(`<meta property="og:description" content="` + Attr(meta.Description) + `">`)
	}
	b.WriteString(`<meta property="og:url" content="` + Attr(page.CanonicalURL) + `">`)
	if meta.OGImage != "" {
		b.WriteString(`<meta property="og:image" content="` + Attr(meta.OGImage) + `">`)
	}
	b.WriteString(`<meta name="twitter:card" content="summary">`)
	b.WriteString(`<meta name="twitter:title" content="` + Attr(meta.Title) + `">`)
	if meta.Description != "" {
		b.WriteString(`<meta name="twitter:description" content="` + Attr(meta.Description) + `">`)
	}
	if view.FaviconURL != "" {
		b.WriteString(`<link rel="icon" href="` + Attr(view.FaviconURL) + `">`)
	}
	b.WriteString(JSONLDScript(LocalBusinessSchema(view, page.CanonicalURL)))
	if view.ThemeColor != "" {
		b.WriteString(`<meta name="theme-color" content="` + Attr(view.ThemeColor) + `">`)
	}
	b.WriteString(`</head>`)

	// Body.
	b.WriteString(`<body>`)
	b.WriteString(`<a class="skip-link" href="#main">Skip to content</a>`)
	b.WriteString(renderAnnouncement(view))
	b.WriteString(`<header class="site-header">`)
	if view.LogoURL != "" {
		b.WriteString(img(RoleLogo, view.LogoURL, view.BusinessName))
	}
	b.WriteString(`<p class="site-name">` + Text(displayName(view)) + `</p>`)
	if view.Tagline != "" {
		b.WriteString(`<p class="site-tagline">` + Text(view.Tagline) + `</p>`)
	}
	if len(nav) > 0 {
		b.WriteString(`<nav><ul>`)
		for _, entry := range nav {
			b.WriteString(`<li><a href="#` + Attr(entry.id) + `">` + Text(entry.label) + `</a></li>`)
		}
		b.WriteString(`</ul></nav>`)
	}
	b.WriteString(`</header>`)

	if view.HeroImage != "" {
		b.WriteString(`<div class="hero">` + img(RoleHero, view.HeroImage, view.HeroCaption) + `</div>`)
	}

	b.WriteString(`<main id="main">`)
	for _, html := range rendered {
		b.WriteString(html)
	}
	b.WriteString(`</main>`)

	if view.ShowBackToTop {
		b.WriteString(`<a class="back-to-top" href="#main">Back to top</a>`)
	}

	b.WriteString(renderFooter(page))
	b.WriteString(`</body></html>`)

	return Result{HTML: b.String(), Meta: meta}
}

// buildMeta computes the published metadata once per render. The title chain
// is meta-title override, "{name} — {tagline}", bare name, then the slug.
func buildMeta(v *ParsedView) domain.PublishedMeta {
	title := v.MetaTitle
	if title == "" {
		switch {
		case v.BusinessName != "" && v.Tagline != "":
			title = v.BusinessName + " — " + v.Tagline
		case v.BusinessName != "":
			title = v.BusinessName
		default:
			title = v.Slug
		}
	}

	description := v.MetaDescription
	if description == "" {
		fallback := v.ShortDescription
		if fallback == "" {
			fallback = strings.TrimSpace(v.About)
		}
		description = truncate(fallback, maxMetaDescriptionLength)
	}

	ogImage := v.HeroImage
	if ogImage == placeholderHeroImage {
		ogImage = ""
	}
	if ogImage == "" && len(v.Gallery) > 0 {
		ogImage = v.Gallery[0].URL
	}

	return domain.PublishedMeta{Title: title, Description: description, OGImage: ogImage}
}

func renderAnnouncement(v *ParsedView) string {
	text := v.AnnouncementText
	if text == "" {
		name := displayName(v)
		text = "Welcome to " + name
	}
	return `<div class="announcement">` + Text(text) + `</div>`
}

func renderFooter(p *Page) string {
	v := p.View
	var b strings.Builder
	b.WriteString(`<footer class="site-footer">`)
	if v.HasSocial() {
		b.WriteString(socialLinkList(v.SocialLinks))
	}
	if v.FooterText != "" {
		b.WriteString(`<p class="footer-text">` + Text(v.FooterText) + `</p>`)
	}
	if v.CustomDomain != "" {
		b.WriteString(`<p class="footer-domain">` + Text(v.CustomDomain) + `</p>`)
	}
	if v.LegalName != "" {
		b.WriteString(`<p class="footer-legal">` + Text(v.LegalName) + `</p>`)
	}
	b.WriteString(`<p class="footer-copyright">© ` + strconv.Itoa(p.Year) + ` ` + Text(displayName(v)) + `</p>`)
	b.WriteString(`</footer>`)
	return b.String()
}

func displayName(v *ParsedView) string {
	if v.BusinessName != "" {
		return v.BusinessName
	}
	return v.Slug
}

func truncate(value string, limit int) string {
	if len(value) <= limit {
		return value
	}
	// Back off to a rune boundary so the cut never splits a multi-byte rune.
	for limit > 0 && !utf8.RuneStart(value[limit]) {
		limit--
	}
	return value[:limit]
}
