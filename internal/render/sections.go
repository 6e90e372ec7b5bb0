package render

import (
	"fmt"
	"strings"
)

// Page bundles the parsed view with the per-render context supplied by the
// caller: canonical URL, contact-form action and the year for the footer.
type Page struct {
	View          *ParsedView
	CanonicalURL  string
	ContactAction string
	Year          int
}

// sectionRenderer produces the markup for one page section. An empty return
// means the section is omitted entirely: no heading, no container.
type sectionRenderer func(*Page) string

// sectionSpec ties a section ID to its renderer and whether it earns a nav link.
type sectionSpec struct {
	id     string
	render sectionRenderer
	inNav  bool
}

// sectionOrder fixes the body order of all optional sections. Short
// description and CTAs precede the anchored sections; footer chrome follows.
var sectionOrder = []sectionSpec{
	{id: "short-description", render: renderShortDescription},
	{id: "cta", render: renderCTAButtons},
	{id: sectionAbout, render: renderAbout, inNav: true},
	{id: sectionServices, render: renderServices, inNav: true},
	{id: sectionContact, render: renderContact, inNav: true},
	{id: sectionSocial, render: renderSocial},
	{id: sectionHours, render: renderHours, inNav: true},
	{id: sectionGallery, render: renderGallery, inNav: true},
	{id: sectionVideos, render: renderVideos, inNav: true},
	{id: sectionOtherVideos, render: renderOtherVideos, inNav: true},
	{id: sectionBooking, render: renderBooking, inNav: true},
	{id: sectionFAQ, render: renderFAQ, inNav: true},
	{id: sectionTestimonials, render: renderTestimonials, inNav: true},
	{id: sectionTeam, render: renderTeam, inNav: true},
	{id: sectionCertifications, render: renderCertifications, inNav: true},
	{id: sectionShare, render: renderShare},
	{id: sectionContactForm, render: renderContactForm},
	{id: sectionNewsletter, render: renderNewsletter},
}

func sectionShell(id, heading string, body func(*strings.Builder)) string {
	var b strings.Builder
	b.WriteString(`<section id="` + Attr(id) + `" class="section section-` + Attr(id) + `">`)
	if heading != "" {
		b.WriteString(`<h2>` + Text(heading) + `</h2>`)
	}
	body(&b)
	b.WriteString(`</section>`)
	return b.String()
}

func img(role ImageRole, src, alt string) string {
	dims := DimensionsFor(role)
	return fmt.Sprintf(`<img src="%s" alt="%s" width="%d" height="%d" loading="lazy">`,
		Attr(src), Attr(alt), dims.Width, dims.Height)
}

func renderShortDescription(p *Page) string {
	if p.View.ShortDescription == "" {
		return ""
	}
	return `<p class="short-description">` + Text(p.View.ShortDescription) + `</p>`
}

func renderCTAButtons(p *Page) string {
	tiers := []string{"primary", "secondary", "tertiary"}
	var buttons []string
	for i, cta := range p.View.CTAs {
		// A button renders only when both its label and URL are present.
		if cta.Label == "" || cta.URL == "" {
			continue
		}
		buttons = append(buttons,
			`<a class="button button-`+tiers[i]+`" href="`+Attr(cta.URL)+`">`+Text(cta.Label)+`</a>`)
	}
	if len(buttons) == 0 {
		return ""
	}
	return `<div class="cta-buttons">` + strings.Join(buttons, "") + `</div>`
}

func renderAbout(p *Page) string {
	if !p.View.HasAbout() {
		return ""
	}
	return sectionShell(sectionAbout, p.View.SectionTitle(sectionAbout), func(b *strings.Builder) {
		b.WriteString(`<p>` + Text(p.View.About) + `</p>`)
	})
}

func renderServices(p *Page) string {
	if !p.View.HasServices() {
		return ""
	}
	return sectionShell(sectionServices, p.View.SectionTitle(sectionServices), func(b *strings.Builder) {
		b.WriteString(`<ul class="services">`)
		for _, svc := range p.View.Services {
			b.WriteString(`<li class="service">`)
			if svc.Image != "" {
				b.WriteString(img(RoleService, svc.Image, svc.Name))
			}
			b.WriteString(`<h3>` + Text(svc.Name) + `</h3>`)
			if svc.Category != "" {
				b.WriteString(`<span class="service-category">` + Text(svc.Category) + `</span>`)
			}
			if svc.Description != "" {
				b.WriteString(`<p>` + Text(svc.Description) + `</p>`)
			}
			var facts []string
			if svc.Duration != "" {
				facts = append(facts, Text(svc.Duration))
			}
			if svc.Price != "" {
				facts = append(facts, Text(svc.Price))
			}
			if len(facts) > 0 {
				b.WriteString(`<p class="service-meta">` + strings.Join(facts, " · ") + `</p>`)
			}
			b.WriteString(`</li>`)
		}
		b.WriteString(`</ul>`)
	})
}

// contactBullet emits one list item when value is non-empty.
func contactBullet(b *strings.Builder, class, label, value string) {
	if value == "" {
		return
	}
	b.WriteString(`<li class="contact-` + class + `">`)
	if label != "" {
		b.WriteString(`<strong>` + Text(label) + `:</strong> `)
	}
	b.WriteString(Text(value))
	b.WriteString(`</li>`)
}

func renderContact(p *Page) string {
	v := p.View
	if !v.HasContact() {
		return ""
	}
	return sectionShell(sectionContact, v.SectionTitle(sectionContact), func(b *strings.Builder) {
		b.WriteString(`<ul class="contact-details">`)
		contactBullet(b, "location-name", "", v.LocationName)
		if !v.ServiceAreaOnly {
			contactBullet(b, "street", "", v.Address)
		}
		locality := joinNonEmpty(", ", v.AddressLocality, v.AddressRegion, v.PostalCode)
		contactBullet(b, "locality", "", locality)
		contactBullet(b, "country", "", v.CountryLabel)
		contactBullet(b, "service-area", "Service area", v.ServiceArea)
		contactBullet(b, "area-served", "Area served", v.AreaServed)
		if v.ShowMapLink && v.MapQuery != "" {
			b.WriteString(`<li class="contact-map-link"><a href="https://www.google.com/maps/search/?api=1&amp;query=` +
				Attr(Query(v.MapQuery)) + `" rel="noopener">Get directions</a></li>`)
		}
		if v.MapEmbedURL != "" {
			b.WriteString(`<li class="contact-map"><iframe src="` + Attr(v.MapEmbedURL) +
				`" title="Map" loading="lazy"></iframe></li>`)
		}
		contactBullet(b, "preference", "Preferred contact", v.ContactPreference)
		if v.Phone != "" {
			b.WriteString(`<li class="contact-phone"><a href="tel:` + Attr(v.Phone) + `">` + Text(v.Phone) + `</a></li>`)
		}
		if v.Phone2 != "" {
			b.WriteString(`<li class="contact-phone"><a href="tel:` + Attr(v.Phone2) + `">` + Text(v.Phone2) + `</a></li>`)
		}
		if v.Email != "" {
			b.WriteString(`<li class="contact-email"><a href="mailto:` + Attr(v.Email) + `">` + Text(v.Email) + `</a></li>`)
		}
		if v.Email2 != "" {
			b.WriteString(`<li class="contact-email"><a href="mailto:` + Attr(v.Email2) + `">` + Text(v.Email2) + `</a></li>`)
		}
		if v.WhatsApp != "" {
			b.WriteString(`<li class="contact-whatsapp"><a href="` + Attr(WhatsAppHref(v.WhatsApp)) +
				`" rel="noopener">WhatsApp</a></li>`)
		}
		contactBullet(b, "payment", "Payment methods", v.PaymentMethods)
		contactBullet(b, "parking", "Parking", v.Parking)
		contactBullet(b, "accessibility", "Accessibility", v.Accessibility)
		contactBullet(b, "service-options", "Service options", v.ServiceOptions)
		contactBullet(b, "languages", "Languages spoken", v.LanguagesSpoken)
		contactBullet(b, "amenities", "Other amenities", v.OtherAmenities)
		b.WriteString(`</ul>`)
	})
}

// WhatsAppHref normalises a WhatsApp contact value to a link target. Values
// already carrying a scheme pass through; anything else becomes a wa.me link
// with every non-digit stripped.
func WhatsAppHref(value string) string {
	trimmed := strings.TrimSpace(value)
	if strings.HasPrefix(trimmed, "http") {
		return trimmed
	}
	var digits strings.Builder
	for _, r := range trimmed {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	return "https://wa.me/" + digits.String()
}

var socialGlyphs = map[string]string{
	"facebook":  "Facebook",
	"instagram": "Instagram",
	"youtube":   "YouTube",
	"twitter":   "X",
	"linkedin":  "LinkedIn",
	"tiktok":    "TikTok",
	"other":     "Website",
}

func renderSocial(p *Page) string {
	if !p.View.HasSocial() {
		return ""
	}
	return sectionShell(sectionSocial, p.View.SectionTitle(sectionSocial), func(b *strings.Builder) {
		b.WriteString(socialLinkList(p.View.SocialLinks))
	})
}

func socialLinkList(links []SocialLink) string {
	var b strings.Builder
	b.WriteString(`<ul class="social-links">`)
	for _, link := range links {
		glyph := socialGlyphs[link.Platform]
		if glyph == "" {
			glyph = link.Platform
		}
		b.WriteString(`<li class="social-` + Attr(link.Platform) + `"><a href="` + Attr(link.URL) +
			`" rel="noopener">` + Text(glyph) + `</a></li>`)
	}
	b.WriteString(`</ul>`)
	return b.String()
}

func renderHours(p *Page) string {
	v := p.View
	if !v.HasHours() {
		return ""
	}
	return sectionShell(sectionHours, v.SectionTitle(sectionHours), func(b *strings.Builder) {
		if v.Timezone != "" {
			b.WriteString(`<p class="hours-timezone">All times in ` +
				Text(strings.ReplaceAll(v.Timezone, "_", " ")) + `</p>`)
		}
		if v.OpenStatus != nil {
			if v.OpenStatus.Open {
				b.WriteString(`<p class="open-status open">Open now</p>`)
			} else {
				b.WriteString(`<p class="open-status closed">Closed now</p>`)
			}
		}
		if v.BusinessHours != "" {
			b.WriteString(`<p class="hours-regular">` + Text(v.BusinessHours) + `</p>`)
		}
		if v.SpecialHours != "" {
			b.WriteString(`<p class="hours-special">` + Text(v.SpecialHours) + `</p>`)
		}
	})
}

func renderGallery(p *Page) string {
	if !p.View.HasGallery() {
		return ""
	}
	return sectionShell(sectionGallery, p.View.SectionTitle(sectionGallery), func(b *strings.Builder) {
		b.WriteString(`<ul class="gallery">`)
		for _, image := range p.View.Gallery {
			// Alt text mirrors the caption; decorative images get empty alt.
			b.WriteString(`<li class="gallery-item">`)
			b.WriteString(img(RoleGallery, image.URL, image.Caption))
			if image.Caption != "" {
				b.WriteString(`<figcaption>` + Text(image.Caption) + `</figcaption>`)
			}
			b.WriteString(`</li>`)
		}
		b.WriteString(`</ul>`)
	})
}

func renderVideos(p *Page) string {
	if !p.View.HasVideos() {
		return ""
	}
	return sectionShell(sectionVideos, p.View.SectionTitle(sectionVideos), func(b *strings.Builder) {
		b.WriteString(`<ul class="videos">`)
		for _, video := range p.View.YouTubeVideos {
			b.WriteString(`<li class="video"><iframe src="https://www.youtube.com/embed/` + Attr(video.ID) +
				`" title="Video" loading="lazy" allowfullscreen></iframe></li>`)
		}
		b.WriteString(`</ul>`)
	})
}

func renderOtherVideos(p *Page) string {
	if !p.View.HasOtherVideos() {
		return ""
	}
	return sectionShell(sectionOtherVideos, p.View.SectionTitle(sectionOtherVideos), func(b *strings.Builder) {
		b.WriteString(`<ul class="videos">`)
		for _, video := range p.View.OtherVideos {
			if video.Embed {
				b.WriteString(`<li class="video"><iframe src="` + Attr(video.URL) +
					`" title="Video" loading="lazy" allowfullscreen></iframe></li>`)
				continue
			}
			b.WriteString(`<li class="video-link"><a href="` + Attr(video.URL) + `" rel="noopener">` +
				Text(video.URL) + `</a></li>`)
		}
		b.WriteString(`</ul>`)
	})
}

func renderBooking(p *Page) string {
	v := p.View
	if !v.HasBooking() {
		return ""
	}
	return sectionShell(sectionBooking, v.SectionTitle(sectionBooking), func(b *strings.Builder) {
		if v.BookingSlotDuration != "" {
			b.WriteString(`<p class="booking-duration">Appointments: ` + Text(v.BookingSlotDuration) + `</p>`)
		}
		if v.BookingLeadTime != "" {
			b.WriteString(`<p class="booking-lead-time">` + Text(v.BookingLeadTime) + `</p>`)
		}
		if v.BookingURL != "" {
			b.WriteString(`<a class="button button-primary" href="` + Attr(v.BookingURL) +
				`" rel="noopener">Book now</a>`)
		}
	})
}

func renderFAQ(p *Page) string {
	v := p.View
	if !v.HasFAQ() {
		return ""
	}
	return sectionShell(sectionFAQ, v.SectionTitle(sectionFAQ), func(b *strings.Builder) {
		if v.FAQAsAccordion {
			for _, item := range v.FAQ {
				b.WriteString(`<details class="faq-item"><summary>` + Text(item.Question) + `</summary>`)
				if item.Answer != "" {
					b.WriteString(`<p>` + Text(item.Answer) + `</p>`)
				}
				b.WriteString(`</details>`)
			}
			return
		}
		b.WriteString(`<dl class="faq-list">`)
		for _, item := range v.FAQ {
			b.WriteString(`<dt>` + Text(item.Question) + `</dt>`)
			if item.Answer != "" {
				b.WriteString(`<dd>` + Text(item.Answer) + `</dd>`)
			}
		}
		b.WriteString(`</dl>`)
	})
}

func renderTestimonials(p *Page) string {
	if !p.View.HasTestimonials() {
		return ""
	}
	return sectionShell(sectionTestimonials, p.View.SectionTitle(sectionTestimonials), func(b *strings.Builder) {
		b.WriteString(`<ul class="testimonials">`)
		for _, item := range p.View.Testimonials {
			b.WriteString(`<li class="testimonial">`)
			if item.Photo != "" {
				b.WriteString(img(RoleTestimonial, item.Photo, item.Author))
			}
			b.WriteString(`<blockquote>` + Text(item.Quote) + `</blockquote>`)
			if item.Author != "" {
				b.WriteString(`<cite>` + Text(item.Author) + `</cite>`)
			}
			if item.Rating != "" {
				b.WriteString(`<span class="rating">` + Text(item.Rating) + `</span>`)
			}
			b.WriteString(`</li>`)
		}
		b.WriteString(`</ul>`)
	})
}

func renderTeam(p *Page) string {
	if !p.View.HasTeam() {
		return ""
	}
	return sectionShell(sectionTeam, p.View.SectionTitle(sectionTeam), func(b *strings.Builder) {
		b.WriteString(`<ul class="team">`)
		for _, member := range p.View.Team {
			b.WriteString(`<li class="team-member">`)
			if member.Photo != "" {
				b.WriteString(img(RoleTeam, member.Photo, member.Name))
			}
			b.WriteString(`<h3>` + Text(member.Name) + `</h3>`)
			if member.Role != "" {
				b.WriteString(`<p class="team-role">` + Text(member.Role) + `</p>`)
			}
			if member.Bio != "" {
				b.WriteString(`<p class="team-bio">` + Text(member.Bio) + `</p>`)
			}
			b.WriteString(`</li>`)
		}
		b.WriteString(`</ul>`)
	})
}

func renderCertifications(p *Page) string {
	if !p.View.HasCertifications() {
		return ""
	}
	return sectionShell(sectionCertifications, p.View.SectionTitle(sectionCertifications), func(b *strings.Builder) {
		b.WriteString(`<ul class="certifications">`)
		for _, cert := range p.View.Certifications {
			b.WriteString(`<li class="certification">`)
			if cert.Image != "" {
				b.WriteString(img(RoleCertification, cert.Image, cert.Title))
			}
			b.WriteString(`<span>` + Text(cert.Title) + `</span>`)
			b.WriteString(`</li>`)
		}
		b.WriteString(`</ul>`)
	})
}

func renderShare(p *Page) string {
	v := p.View
	if !v.HasShare() {
		return ""
	}
	title := v.SectionTitle(sectionShare)
	encodedURL := Query(p.CanonicalURL)
	encodedTitle := Query(title)
	return sectionShell(sectionShare, title, func(b *strings.Builder) {
		b.WriteString(`<ul class="share-links">`)
		b.WriteString(`<li><a href="https://twitter.com/intent/tweet?text=` + Attr(encodedTitle) +
			`&amp;url=` + Attr(encodedURL) + `" rel="noopener">Share on X</a></li>`)
		b.WriteString(`<li><a href="https://www.facebook.com/sharer/sharer.php?u=` + Attr(encodedURL) +
			`" rel="noopener">Share on Facebook</a></li>`)
		b.WriteString(`<li><a href="https://www.linkedin.com/shareArticle?mini=true&amp;url=` + Attr(encodedURL) +
			`&amp;title=` + Attr(encodedTitle) + `" rel="noopener">Share on LinkedIn</a></li>`)
		b.WriteString(`</ul>`)
	})
}

func renderContactForm(p *Page) string {
	return sectionShell(sectionContactForm, p.View.SectionTitle(sectionContactForm), func(b *strings.Builder) {
		b.WriteString(`<form method="post" action="` + Attr(p.ContactAction) + `">`)
		b.WriteString(`<label>Name <input type="text" name="name" required></label>`)
		b.WriteString(`<label>Email <input type="email" name="email" required></label>`)
		b.WriteString(`<label>Phone <input type="tel" name="phone"></label>`)
		b.WriteString(`<label>Company <input type="text" name="company"></label>`)
		b.WriteString(`<label>Message <textarea name="message" required></textarea></label>`)
		// Honeypot: hidden from humans, left blank by browsers, filled by bots.
		b.WriteString(`<input type="text" name="website" value="" tabindex="-1" autocomplete="off" aria-hidden="true" style="position:absolute;left:-9999px">`)
		b.WriteString(`<button type="submit">Send</button>`)
		b.WriteString(`</form>`)
	})
}

func renderNewsletter(p *Page) string {
	v := p.View
	if !v.HasNewsletter() {
		return ""
	}
	return sectionShell(sectionNewsletter, v.SectionTitle(sectionNewsletter), func(b *strings.Builder) {
		if v.NewsletterText != "" {
			b.WriteString(`<p>` + Text(v.NewsletterText) + `</p>`)
		}
		if v.NewsletterURL != "" {
			b.WriteString(`<a class="button button-secondary" href="` + Attr(v.NewsletterURL) +
				`" rel="noopener">Subscribe</a>`)
		}
	})
}

func joinNonEmpty(sep string, parts ...string) string {
	filtered := make([]string, 0, len(parts))
	for _, part := range parts {
		if part != "" {
			filtered = append(filtered, part)
		}
	}
	return strings.Join(filtered, sep)
}
