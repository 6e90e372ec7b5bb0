package render

// ImageRole identifies where on the page an image is placed. Each role carries
// fixed pixel hints so browsers can reserve layout space before the image loads.
type ImageRole string

const (
	RoleHero          ImageRole = "hero"
	RoleLogo          ImageRole = "logo"
	RoleFavicon       ImageRole = "favicon"
	RoleGallery       ImageRole = "gallery"
	RoleService       ImageRole = "service"
	RoleTeam          ImageRole = "team"
	RoleTestimonial   ImageRole = "testimonial"
	RoleCertification ImageRole = "certification"
)

// ImageDimensions carries the width/height hints and a human label for a role.
type ImageDimensions struct {
	Width  int
	Height int
	Label  string
}

var imageDimensions = map[ImageRole]ImageDimensions{
	RoleHero:          {Width: 1200, Height: 630, Label: "Hero image"},
	RoleLogo:          {Width: 96, Height: 96, Label: "Business logo"},
	RoleFavicon:       {Width: 32, Height: 32, Label: "Favicon"},
	RoleGallery:       {Width: 400, Height: 400, Label: "Gallery photo"},
	RoleService:       {Width: 320, Height: 240, Label: "Service photo"},
	RoleTeam:          {Width: 160, Height: 160, Label: "Team member photo"},
	RoleTestimonial:   {Width: 64, Height: 64, Label: "Reviewer photo"},
	RoleCertification: {Width: 240, Height: 180, Label: "Certification image"},
}

// ImageRoles lists every role with a dimension entry, in a fixed order.
func ImageRoles() []ImageRole {
	return []ImageRole{
		RoleHero, RoleLogo, RoleFavicon, RoleGallery,
		RoleService, RoleTeam, RoleTestimonial, RoleCertification,
	}
}

// DimensionsFor returns the pixel hints for a role. Unknown roles fall back to
// the gallery dimensions rather than emitting zero-sized images.
func DimensionsFor(role ImageRole) ImageDimensions {
	if dims, ok := imageDimensions[role]; ok {
		return dims
	}
	return imageDimensions[RoleGallery]
}
