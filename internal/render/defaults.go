package render

// Section identifiers. The assembler renders sections in the order of
// sectionOrder below; the order is hard-coded and never derived from input.
const (
	sectionAbout          = "about"
	sectionServices       = "services"
	sectionContact        = "contact"
	sectionSocial         = "social"
	sectionHours          = "hours"
	sectionGallery        = "gallery"
	sectionVideos         = "videos"
	sectionOtherVideos    = "other-videos"
	sectionBooking        = "booking"
	sectionFAQ            = "faq"
	sectionTestimonials   = "testimonials"
	sectionTeam           = "team"
	sectionCertifications = "certifications"
	sectionShare          = "share"
	sectionContactForm    = "contact-form"
	sectionNewsletter     = "newsletter"
)

// defaultSectionTitles is the single source of truth for section headings.
// Both the normalizer (title overrides) and the assembler (nav labels) consume
// this table; the default is used whenever the per-site override is blank.
var defaultSectionTitles = map[string]string{
	sectionAbout:          "About Us",
	sectionServices:       "Services",
	sectionContact:        "Contact",
	sectionSocial:         "Follow Us",
	sectionHours:          "Business Hours",
	sectionGallery:        "Gallery",
	sectionVideos:         "Videos",
	sectionOtherVideos:    "More Videos",
	sectionBooking:        "Book an Appointment",
	sectionFAQ:            "Frequently Asked Questions",
	sectionTestimonials:   "Testimonials",
	sectionTeam:           "Our Team",
	sectionCertifications: "Certifications",
	sectionContactForm:    "Send Us a Message",
	sectionNewsletter:     "Newsletter",
	// sectionShare has no default: the share block renders only when a title
	// is configured.
}

// DefaultSectionTitle returns the fixed English heading for a section, or ""
// when the section has no default (share).
func DefaultSectionTitle(section string) string {
	return defaultSectionTitles[section]
}

// placeholderHeroImage is shown when a site has neither a hero image nor any
// gallery images. The caption is baked into the query string so the asset
// pipeline can label it.
const placeholderHeroImage = "https://assets.localed.app/placeholders/hero.jpg?caption=No+image"
