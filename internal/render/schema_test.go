package render

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAggregateRating(t *testing.T) {
	t.Parallel()

	rating := AggregateRating([]Testimonial{
		{Quote: "a", Rating: "5"},
		{Quote: "b", Rating: "4"},
		{Quote: "c", Rating: "5 stars"},
	})
	require.NotNil(t, rating)
	assert.Equal(t, 4.7, rating["ratingValue"])
	assert.Equal(t, 3, rating["reviewCount"])
	assert.Equal(t, 5, rating["bestRating"])
	assert.Equal(t, "AggregateRating", rating["@type"])
}

func TestAggregateRatingSkipsUnparseable(t *testing.T) {
	t.Parallel()

	rating := AggregateRating([]Testimonial{
		{Quote: "a", Rating: "great"},
		{Quote: "b", Rating: "6"},
		{Quote: "c", Rating: "-1"},
		{Quote: "d", Rating: "3.5"},
		{Quote: "e", Rating: "0"},
	})
	require.NotNil(t, rating)
	// Only 3.5 and 0 parse; zero is a legitimate rating.
	assert.Equal(t, 1.8, rating["ratingValue"])
	assert.Equal(t, 2, rating["reviewCount"])
}

func TestAggregateRatingNilWhenNoneParseable(t *testing.T) {
	t.Parallel()

	assert.Nil(t, AggregateRating(nil))
	assert.Nil(t, AggregateRating([]Testimonial{{Quote: "a", Rating: "superb"}}))
	assert.Nil(t, AggregateRating([]Testimonial{{Quote: "a"}}))
}

func TestLocalBusinessSchemaOmitsEmptyFields(t *testing.T) {
	t.Parallel()

	v := &ParsedView{Slug: "bobs-bakery"}
	schema := LocalBusinessSchema(v, "https://localed.app/bobs-bakery")

	assert.Equal(t, "https://schema.org", schema["@context"])
	assert.Equal(t, "LocalBusiness", schema["@type"])
	assert.Equal(t, "bobs-bakery", schema["name"], "name falls back to the slug")
	assert.Equal(t, "https://localed.app/bobs-bakery", schema["url"])

	for _, key := range []string{"description", "image", "telephone", "email", "address", "openingHours", "sameAs", "priceRange", "aggregateRating"} {
		_, present := schema[key]
		assert.False(t, present, "empty field %q must be omitted", key)
	}
}

func TestLocalBusinessSchemaPopulated(t *testing.T) {
	t.Parallel()

	v := &ParsedView{
		Slug:             "bobs-bakery",
		BusinessName:     "Bob's Bakery",
		ShortDescription: "Fresh bread daily",
		Phone:            "+44 113 245 0000",
		Email:            "hello@example.com",
		Address:          "1 High Street",
		AddressLocality:  "Leeds",
		CountryLabel:     "United Kingdom",
		BusinessHours:    "Mon-Fri 9-18",
		PriceRange:       "££",
		HeroImage:        "https://img/hero.jpg",
		Gallery: []GalleryImage{
			{URL: "https://img/hero.jpg"},
			{URL: "https://img/2.jpg"},
		},
		SocialLinks: []SocialLink{
			{Platform: "facebook", URL: "https://facebook.com/bob"},
		},
		Testimonials: []Testimonial{{Quote: "a", Rating: "4"}},
	}

	schema := LocalBusinessSchema(v, "https://localed.app/bobs-bakery")

	assert.Equal(t, "Bob's Bakery", schema["name"])
	assert.Equal(t, "Fresh bread daily", schema["description"])
	assert.Equal(t, "+44 113 245 0000", schema["telephone"])
	assert.Equal(t, "Mon-Fri 9-18", schema["openingHours"])
	assert.Equal(t, "££", schema["priceRange"])
	assert.Equal(t, []string{"https://facebook.com/bob"}, schema["sameAs"])

	// Hero first, gallery duplicate of the hero removed.
	assert.Equal(t, []string{"https://img/hero.jpg", "https://img/2.jpg"}, schema["image"])

	address, ok := schema["address"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "PostalAddress", address["@type"])
	assert.Equal(t, "1 High Street", address["streetAddress"])
	assert.Equal(t, "Leeds", address["addressLocality"])
	assert.Equal(t, "United Kingdom", address["addressCountry"])

	require.NotNil(t, schema["aggregateRating"])
}

func TestLocalBusinessSchemaSingleImageIsScalar(t *testing.T) {
	t.Parallel()

	v := &ParsedView{Slug: "x", HeroImage: "https://img/hero.jpg"}
	schema := LocalBusinessSchema(v, "https://localed.app/x")
	assert.Equal(t, "https://img/hero.jpg", schema["image"])
}

func TestLocalBusinessSchemaExcludesPlaceholderHero(t *testing.T) {
	t.Parallel()

	v := &ParsedView{Slug: "x", HeroImage: placeholderHeroImage}
	schema := LocalBusinessSchema(v, "https://localed.app/x")
	_, present := schema["image"]
	assert.False(t, present)
}

func TestLocalBusinessSchemaDescriptionFallsBackToAbout(t *testing.T) {
	t.Parallel()

	v := &ParsedView{Slug: "x", About: "  A family business since 1980.  "}
	schema := LocalBusinessSchema(v, "https://localed.app/x")
	assert.Equal(t, "A family business since 1980.", schema["description"])
}

func TestJSONLDScriptEscapesClosingTag(t *testing.T) {
	t.Parallel()

	script := JSONLDScript(map[string]any{"name": "</script><script>alert(1)</script>"})

	assert.True(t, strings.HasPrefix(script, `<script type="application/ld+json">`))
	assert.True(t, strings.HasSuffix(script, `</script>`))
	// The only literal </script> is the closer we emitted ourselves.
	assert.Equal(t, 1, strings.Count(script, "</script>"))
	assert.Contains(t, script, `</script>`)
}
