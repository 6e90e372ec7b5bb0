package render

import (
	"encoding/json"
	"math"
	"regexp"
	"strconv"
	"strings"
)

const schemaBestRating = 5

var ratingSuffixPattern = regexp.MustCompile(`(?i)\s*stars?\s*$`)

// LocalBusinessSchema builds a schema.org LocalBusiness object from the parsed
// view. Keys with empty values are omitted, never set to null or "".
func LocalBusinessSchema(v *ParsedView, canonicalURL string) map[string]any {
	schema := map[string]any{
		"@context": "https://schema.org",
		"@type":    "LocalBusiness",
		"name":     schemaName(v),
		"url":      canonicalURL,
	}

	if v.ShortDescription != "" {
		schema["description"] = v.ShortDescription
	} else if about := strings.TrimSpace(v.About); about != "" {
		schema["description"] = about
	}

	if images := schemaImages(v); len(images) == 1 {
		schema["image"] = images[0]
	} else if len(images) > 1 {
		schema["image"] = images
	}

	if v.Phone != "" {
		schema["telephone"] = v.Phone
	}
	if v.Email != "" {
		schema["email"] = v.Email
	}
	if address := schemaAddress(v); address != nil {
		schema["address"] = address
	}
	if hours := strings.TrimSpace(v.BusinessHours); hours != "" {
		schema["openingHours"] = hours
	}
	if sameAs := schemaSameAs(v); len(sameAs) > 0 {
		schema["sameAs"] = sameAs
	}
	if v.PriceRange != "" {
		schema["priceRange"] = v.PriceRange
	}
	if rating := AggregateRating(v.Testimonials); rating != nil {
		schema["aggregateRating"] = rating
	}

	return schema
}

func schemaName(v *ParsedView) string {
	if v.BusinessName != "" {
		return v.BusinessName
	}
	return v.Slug
}

// schemaImages prefers the hero image, followed by gallery images, deduplicated
// in encounter order.
func schemaImages(v *ParsedView) []string {
	seen := make(map[string]struct{})
	var images []string
	appendImage := func(url string) {
		url = strings.TrimSpace(url)
		if url == "" {
			return
		}
		if _, ok := seen[url]; ok {
			return
		}
		seen[url] = struct{}{}
		images = append(images, url)
	}
	if v.HeroImage != placeholderHeroImage {
		appendImage(v.HeroImage)
	}
	for _, image := range v.Gallery {
		appendImage(image.URL)
	}
	return images
}

func schemaAddress(v *ParsedView) map[string]any {
	address := map[string]any{}
	if v.Address != "" {
		address["streetAddress"] = v.Address
	}
	if v.AddressLocality != "" {
		address["addressLocality"] = v.AddressLocality
	}
	if v.AddressRegion != "" {
		address["addressRegion"] = v.AddressRegion
	}
	if v.PostalCode != "" {
		address["postalCode"] = v.PostalCode
	}
	if v.CountryLabel != "" {
		address["addressCountry"] = v.CountryLabel
	}
	if len(address) == 0 {
		return nil
	}
	address["@type"] = "PostalAddress"
	return address
}

func schemaSameAs(v *ParsedView) []string {
	var links []string
	for _, link := range v.SocialLinks {
		if url := strings.TrimSpace(link.URL); url != "" {
			links = append(links, url)
		}
	}
	return links
}

// AggregateRating averages parseable testimonial ratings. A rating parses when
// it is a float in [0,5] after stripping a trailing "star"/"stars" suffix.
// Returns nil when no testimonial has a parseable rating.
func AggregateRating(testimonials []Testimonial) map[string]any {
	var sum float64
	var count int
	for _, item := range testimonials {
		value, ok := parseRating(item.Rating)
		if !ok {
			continue
		}
		sum += value
		count++
	}
	if count == 0 {
		return nil
	}
	average := math.Round(sum/float64(count)*10) / 10
	return map[string]any{
		"@type":       "AggregateRating",
		"ratingValue": average,
		"bestRating":  schemaBestRating,
		"reviewCount": count,
	}
}

func parseRating(raw string) (float64, bool) {
	cleaned := strings.TrimSpace(ratingSuffixPattern.ReplaceAllString(raw, ""))
	if cleaned == "" {
		return 0, false
	}
	value, err := strconv.ParseFloat(cleaned, 64)
	if err != nil || value < 0 || value > schemaBestRating {
		return 0, false
	}
	return value, true
}

// JSONLDScript serialises a schema object into a <script> block. The JSON
// encoder escapes angle brackets, so a literal </script> in user content can
// never close the tag early.
func JSONLDScript(schema map[string]any) string {
	payload, err := json.Marshal(schema)
	if err != nil {
		return ""
	}
	return `<script type="application/ld+json">` + string(payload) + `</script>`
}
