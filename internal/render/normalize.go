package render

import (
	"regexp"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/localed/api/internal/domain"
)

// ParsedView is the fully-typed projection of one locale's content record.
// Every field is resolved to a concrete value (possibly empty); renderers never
// re-check types. Built fresh per render call, never persisted, immutable once
// returned.
type ParsedView struct {
	Slug              string
	BusinessName      string
	LegalName         string
	Tagline           string
	BusinessTypeLabel string
	CountryLabel      string

	LogoURL         string
	FaviconURL      string
	MetaTitle       string
	MetaDescription string
	MetaKeywords    string

	ShortDescription string
	About            string

	ThemeColor       string
	CustomCSSURL     string
	NoIndex          bool
	AnnouncementText string
	FooterText       string
	CustomDomain     string

	LocationName    string
	Address         string
	AddressLocality string
	AddressRegion   string
	PostalCode      string
	ServiceAreaOnly bool
	ServiceArea     string
	AreaServed      string
	MapQuery        string
	ShowMapLink     bool
	MapEmbedURL     string

	ContactPreference string
	Phone             string
	Phone2            string
	Email             string
	Email2            string
	WhatsApp          string
	PaymentMethods    string
	PriceRange        string
	Parking           string
	Accessibility     string
	ServiceOptions    string
	LanguagesSpoken   string
	OtherAmenities    string

	BusinessHours string
	SpecialHours  string
	Timezone      string
	OpenStatus    *OpenStatus

	HeroImage     string
	HeroCaption   string
	Gallery       []GalleryImage
	YouTubeVideos []YouTubeVideo
	OtherVideos   []VideoLink

	Services       []Service
	FAQ            []FAQItem
	FAQAsAccordion bool
	Testimonials   []Testimonial
	Team           []TeamMember
	Certifications []Certification

	CTAs [3]CTA

	BookingEnabled      bool
	BookingSlotDuration string
	BookingLeadTime     string
	BookingURL          string

	SocialLinks []SocialLink

	NewsletterText string
	NewsletterURL  string
	ShareTitle     string
	ShowBackToTop  bool

	sectionTitles map[string]string
}

// GalleryImage is one ordered gallery entry with an optional caption.
type GalleryImage struct {
	URL     string
	Caption string
}

// YouTubeVideo carries an extracted 11-character video ID.
type YouTubeVideo struct {
	ID string
}

// VideoLink is a non-YouTube video: either an embeddable player URL (Vimeo)
// or a plain external link.
type VideoLink struct {
	URL   string
	Embed bool
}

// Service is one offered service.
type Service struct {
	Name        string
	Description string
	Image       string
	Duration    string
	Price       string
	Category    string
}

// FAQItem is one question/answer pair.
type FAQItem struct {
	Question string
	Answer   string
}

// Testimonial is one customer quote. Rating stays a raw string; only the
// structured-data builder interprets it.
type Testimonial struct {
	Quote  string
	Author string
	Photo  string
	Rating string
}

// TeamMember is one staff entry.
type TeamMember struct {
	Name  string
	Role  string
	Photo string
	Bio   string
}

// Certification is one credential entry.
type Certification struct {
	Title string
	Image string
}

// CTA is one call-to-action button. Both label and URL must be non-empty for
// the button to render.
type CTA struct {
	Label string
	URL   string
}

// SocialLink is one populated social profile, tagged with its platform so the
// renderer can pick an icon glyph.
type SocialLink struct {
	Platform string
	URL      string
}

var (
	youtubeIDPattern = regexp.MustCompile(`(?:youtube\.com/watch\?v=|youtu\.be/)([A-Za-z0-9_-]{11})`)
	vimeoIDPattern   = regexp.MustCompile(`vimeo\.com/(\d+)`)
	titleCaser       = cases.Title(language.English)
)

// socialPlatforms fixes the ordering and source keys for social links.
var socialPlatforms = []struct {
	platform string
	key      string
}{
	{"facebook", "facebookUrl"},
	{"instagram", "instagramUrl"},
	{"youtube", "youtubeUrl"},
	{"twitter", "twitterUrl"},
	{"linkedin", "linkedinUrl"},
	{"tiktok", "tiktokUrl"},
	{"other", "otherSocialUrl"},
}

// Normalize projects a raw content record onto a ParsedView. It is a pure
// function of its inputs; now is consulted only for the open-now status.
// Missing or mistyped fields coerce to empty values and never fail.
func Normalize(content domain.ContentRecord, identity domain.SiteIdentity, now time.Time) *ParsedView {
	v := &ParsedView{
		Slug:              strings.TrimSpace(identity.Slug),
		BusinessTypeLabel: BusinessTypeLabel(identity.BusinessType),
		CountryLabel:      CountryLabel(identity.Country),

		BusinessName:    str(content, "businessName"),
		LegalName:       str(content, "legalName"),
		Tagline:         str(content, "tagline"),
		LogoURL:         str(content, "logoUrl"),
		FaviconURL:      str(content, "faviconUrl"),
		MetaTitle:       str(content, "metaTitle"),
		MetaDescription: str(content, "metaDescription"),
		MetaKeywords:    str(content, "metaKeywords"),

		ShortDescription: str(content, "shortDescription"),
		// Block fields keep leading whitespace so hand-formatted text survives.
		About: blockStr(content, "about"),

		ThemeColor:       str(content, "themeColor"),
		CustomCSSURL:     str(content, "customCssUrl"),
		NoIndex:          flag(content, "noindex"),
		AnnouncementText: str(content, "announcementText"),
		FooterText:       blockStr(content, "footerText"),
		CustomDomain:     str(content, "customDomain"),

		LocationName:    str(content, "locationName"),
		Address:         str(content, "address"),
		AddressLocality: str(content, "addressLocality"),
		AddressRegion:   str(content, "addressRegion"),
		PostalCode:      str(content, "postalCode"),
		ServiceAreaOnly: flag(content, "serviceAreaOnly"),
		ServiceArea:     str(content, "serviceArea"),
		AreaServed:      str(content, "areaServed"),
		ShowMapLink:     flag(content, "showMapLink"),
		MapEmbedURL:     str(content, "mapEmbedUrl"),

		ContactPreference: str(content, "contactPreference"),
		Phone:             str(content, "phone"),
		Phone2:            str(content, "phone2"),
		Email:             str(content, "email"),
		Email2:            str(content, "email2"),
		WhatsApp:          str(content, "whatsapp"),
		PaymentMethods:    str(content, "paymentMethods"),
		PriceRange:        str(content, "priceRange"),
		Parking:           str(content, "parking"),
		Accessibility:     str(content, "accessibility"),
		ServiceOptions:    str(content, "serviceOptions"),
		LanguagesSpoken:   str(content, "languagesSpoken"),
		OtherAmenities:    str(content, "otherAmenities"),

		BusinessHours: blockStr(content, "businessHours"),
		SpecialHours:  blockStr(content, "specialHours"),
		Timezone:      str(content, "timezone"),

		FAQAsAccordion: flag(content, "faqAsAccordion"),

		BookingEnabled:      flag(content, "bookingEnabled"),
		BookingSlotDuration: str(content, "bookingSlotDuration"),
		BookingLeadTime:     str(content, "bookingLeadTime"),
		BookingURL:          str(content, "bookingUrl"),

		NewsletterText: str(content, "newsletterText"),
		NewsletterURL:  str(content, "newsletterUrl"),
		ShareTitle:     str(content, "shareSectionTitle"),
		ShowBackToTop:  flag(content, "showBackToTop"),
	}

	v.MapQuery = buildMapQuery(v)
	v.OpenStatus = IsOpenNow(v.Timezone, v.BusinessHours, now)

	v.Gallery = normalizeGallery(content)
	v.HeroImage, v.HeroCaption = resolveHero(str(content, "heroImage"), str(content, "heroImageCaption"), v.Gallery)
	v.YouTubeVideos = normalizeYouTube(content)
	v.OtherVideos = normalizeOtherVideos(content)

	v.Services = normalizeServices(content)
	v.FAQ = normalizeFAQ(content)
	v.Testimonials = normalizeTestimonials(content)
	v.Team = normalizeTeam(content)
	v.Certifications = normalizeCertifications(content)

	for i, n := range []string{"1", "2", "3"} {
		v.CTAs[i] = CTA{
			Label: str(content, "cta"+n+"Label"),
			URL:   str(content, "cta"+n+"Url"),
		}
	}

	for _, p := range socialPlatforms {
		if link := str(content, p.key); link != "" {
			v.SocialLinks = append(v.SocialLinks, SocialLink{Platform: p.platform, URL: link})
		}
	}

	v.sectionTitles = map[string]string{
		sectionAbout:          str(content, "aboutTitle"),
		sectionServices:       str(content, "servicesTitle"),
		sectionContact:        str(content, "contactTitle"),
		sectionSocial:         str(content, "socialTitle"),
		sectionHours:          str(content, "hoursTitle"),
		sectionGallery:        str(content, "galleryTitle"),
		sectionVideos:         str(content, "videosTitle"),
		sectionOtherVideos:    str(content, "otherVideosTitle"),
		sectionBooking:        str(content, "bookingTitle"),
		sectionFAQ:            str(content, "faqTitle"),
		sectionTestimonials:   str(content, "testimonialsTitle"),
		sectionTeam:           str(content, "teamTitle"),
		sectionCertifications: str(content, "certificationsTitle"),
		sectionContactForm:    str(content, "contactFormTitle"),
		sectionNewsletter:     str(content, "newsletterTitle"),
		sectionShare:          v.ShareTitle,
	}

	return v
}

// SectionTitle resolves the heading for a section: per-site override when set,
// else the fixed English default.
func (v *ParsedView) SectionTitle(section string) string {
	if v != nil {
		if title := strings.TrimSpace(v.sectionTitles[section]); title != "" {
			return title
		}
	}
	return DefaultSectionTitle(section)
}

// Derived visibility flags. Each reports whether the corresponding section has
// qualifying data; renderers and the nav builder share these.

func (v *ParsedView) HasAbout() bool    { return strings.TrimSpace(v.About) != "" }
func (v *ParsedView) HasServices() bool { return len(v.Services) > 0 }
func (v *ParsedView) HasHours() bool {
	return strings.TrimSpace(v.BusinessHours) != "" || strings.TrimSpace(v.SpecialHours) != ""
}
func (v *ParsedView) HasGallery() bool        { return len(v.Gallery) > 0 }
func (v *ParsedView) HasVideos() bool         { return len(v.YouTubeVideos) > 0 }
func (v *ParsedView) HasOtherVideos() bool    { return len(v.OtherVideos) > 0 }
func (v *ParsedView) HasFAQ() bool            { return len(v.FAQ) > 0 }
func (v *ParsedView) HasTestimonials() bool   { return len(v.Testimonials) > 0 }
func (v *ParsedView) HasTeam() bool           { return len(v.Team) > 0 }
func (v *ParsedView) HasCertifications() bool { return len(v.Certifications) > 0 }
func (v *ParsedView) HasSocial() bool         { return len(v.SocialLinks) > 0 }
func (v *ParsedView) HasBooking() bool        { return v.BookingEnabled }
func (v *ParsedView) HasShare() bool          { return strings.TrimSpace(v.ShareTitle) != "" }
func (v *ParsedView) HasNewsletter() bool {
	return v.NewsletterText != "" || v.NewsletterURL != "" || strings.TrimSpace(v.sectionTitles[sectionNewsletter]) != ""
}

func (v *ParsedView) HasContact() bool {
	values := []string{
		v.LocationName, v.Address, v.AddressLocality, v.AddressRegion, v.PostalCode,
		v.CountryLabel, v.ServiceArea, v.AreaServed, v.ContactPreference,
		v.Phone, v.Phone2, v.Email, v.Email2, v.WhatsApp,
		v.PaymentMethods, v.Parking, v.Accessibility, v.ServiceOptions,
		v.LanguagesSpoken, v.OtherAmenities, v.MapEmbedURL,
	}
	for _, value := range values {
		if value != "" {
			return true
		}
	}
	return false
}

func buildMapQuery(v *ParsedView) string {
	parts := make([]string, 0, 5)
	for _, part := range []string{v.Address, v.AddressLocality, v.AddressRegion, v.PostalCode, v.CountryLabel} {
		if part != "" {
			parts = append(parts, part)
		}
	}
	return strings.Join(parts, ", ")
}

// resolveHero picks the hero image. An explicit hero wins; otherwise a
// non-empty gallery suppresses the placeholder entirely so the page does not
// lead with a meaningless stock image when real photos exist.
func resolveHero(explicit, caption string, gallery []GalleryImage) (string, string) {
	if explicit != "" {
		return explicit, caption
	}
	if len(gallery) > 0 {
		return "", ""
	}
	return placeholderHeroImage, "No image"
}

// BusinessTypeLabel turns a machine business-type key into a display label:
// underscores become spaces and each word is title-cased. The site API exposes
// it so the wizard can show "Hair Salon" for "hair_salon".
func BusinessTypeLabel(businessType string) string {
	trimmed := strings.TrimSpace(businessType)
	if trimmed == "" {
		return ""
	}
	return titleCaser.String(strings.ReplaceAll(trimmed, "_", " "))
}

func normalizeGallery(content domain.ContentRecord) []GalleryImage {
	urls := stringList(content, "galleryImages")
	captions := stringListRaw(content, "galleryCaptions")
	images := make([]GalleryImage, 0, len(urls))
	for i, raw := range urls {
		url := strings.TrimSpace(raw)
		if url == "" {
			continue
		}
		caption := ""
		if i < len(captions) {
			caption = strings.TrimSpace(captions[i])
		}
		images = append(images, GalleryImage{URL: url, Caption: caption})
	}
	return images
}

func normalizeYouTube(content domain.ContentRecord) []YouTubeVideo {
	var videos []YouTubeVideo
	for _, raw := range stringList(content, "youtubeVideos") {
		match := youtubeIDPattern.FindStringSubmatch(raw)
		if match == nil {
			continue
		}
		videos = append(videos, YouTubeVideo{ID: match[1]})
	}
	return videos
}

func normalizeOtherVideos(content domain.ContentRecord) []VideoLink {
	var videos []VideoLink
	for _, raw := range stringList(content, "otherVideos") {
		url := strings.TrimSpace(raw)
		if url == "" {
			continue
		}
		if match := vimeoIDPattern.FindStringSubmatch(url); match != nil {
			videos = append(videos, VideoLink{URL: "https://player.vimeo.com/video/" + match[1], Embed: true})
			continue
		}
		videos = append(videos, VideoLink{URL: url})
	}
	return videos
}

func normalizeServices(content domain.ContentRecord) []Service {
	var services []Service
	for _, item := range objectList(content, "services") {
		svc := Service{
			Name:        strAt(item, "name"),
			Description: strAt(item, "description"),
			Image:       strAt(item, "image"),
			Duration:    strAt(item, "duration"),
			Price:       strAt(item, "price"),
			Category:    strAt(item, "category"),
		}
		if svc.Name == "" {
			continue
		}
		services = append(services, svc)
	}
	return services
}

func normalizeFAQ(content domain.ContentRecord) []FAQItem {
	var items []FAQItem
	for _, item := range objectList(content, "faq") {
		entry := FAQItem{
			Question: strAt(item, "question"),
			Answer:   strAt(item, "answer"),
		}
		if entry.Question == "" {
			continue
		}
		items = append(items, entry)
	}
	return items
}

func normalizeTestimonials(content domain.ContentRecord) []Testimonial {
	var items []Testimonial
	for _, item := range objectList(content, "testimonials") {
		entry := Testimonial{
			Quote:  strAt(item, "quote"),
			Author: strAt(item, "author"),
			Photo:  strAt(item, "photo"),
			Rating: strAt(item, "rating"),
		}
		if entry.Quote == "" {
			continue
		}
		items = append(items, entry)
	}
	return items
}

func normalizeTeam(content domain.ContentRecord) []TeamMember {
	var members []TeamMember
	for _, item := range objectList(content, "team") {
		member := TeamMember{
			Name:  strAt(item, "name"),
			Role:  strAt(item, "role"),
			Photo: strAt(item, "photo"),
			Bio:   strAt(item, "bio"),
		}
		if member.Name == "" {
			continue
		}
		members = append(members, member)
	}
	return members
}

func normalizeCertifications(content domain.ContentRecord) []Certification {
	var certs []Certification
	for _, item := range objectList(content, "certifications") {
		cert := Certification{
			Title: strAt(item, "title"),
			Image: strAt(item, "image"),
		}
		if cert.Title == "" {
			continue
		}
		certs = append(certs, cert)
	}
	return certs
}

// Coercion helpers. Wrong types degrade to zero values, never errors.

func str(content domain.ContentRecord, key string) string {
	if value, ok := content[key].(string); ok {
		return strings.TrimSpace(value)
	}
	return ""
}

func blockStr(content domain.ContentRecord, key string) string {
	if value, ok := content[key].(string); ok {
		return strings.TrimRight(value, " \t\r\n")
	}
	return ""
}

func flag(content domain.ContentRecord, key string) bool {
	switch value := content[key].(type) {
	case bool:
		return value
	case string:
		normalized := strings.ToLower(strings.TrimSpace(value))
		return normalized == "true" || normalized == "1" || normalized == "yes"
	default:
		return false
	}
}

func stringList(content domain.ContentRecord, key string) []string {
	return coerceStringList(content[key], true)
}

// stringListRaw keeps positional alignment: mistyped entries become empty
// strings instead of being dropped, so caption indexes stay paired with images.
func stringListRaw(content domain.ContentRecord, key string) []string {
	return coerceStringList(content[key], false)
}

func coerceStringList(raw any, dropNonStrings bool) []string {
	items, ok := raw.([]any)
	if !ok {
		if typed, ok := raw.([]string); ok {
			return typed
		}
		return nil
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		value, ok := item.(string)
		if !ok {
			if dropNonStrings {
				continue
			}
			value = ""
		}
		out = append(out, value)
	}
	return out
}

func objectList(content domain.ContentRecord, key string) []map[string]any {
	items, ok := content[key].([]any)
	if !ok {
		return nil
	}
	out := make([]map[string]any, 0, len(items))
	for _, item := range items {
		if obj, ok := item.(map[string]any); ok {
			out = append(out, obj)
		}
	}
	return out
}

func strAt(obj map[string]any, key string) string {
	if value, ok := obj[key].(string); ok {
		return strings.TrimSpace(value)
	}
	return ""
}
