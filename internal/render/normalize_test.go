package render

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/localed/api/internal/domain"
)

var testNow = time.Date(2026, time.August, 24, 12, 0, 0, 0, time.UTC)

func testIdentity() domain.SiteIdentity {
	return domain.SiteIdentity{Slug: "bobs-bakery", BusinessType: "bakery", Country: "GB"}
}

func TestNormalizeTrimsAndCoerces(t *testing.T) {
	t.Parallel()

	content := domain.ContentRecord{
		"businessName": "  Bob's Bakery  ",
		"tagline":      "Fresh bread daily",
		"about":        "Line one\nLine two   \n",
		"phone":        42, // wrong type degrades to empty
		"noindex":      "yes",
		"showMapLink":  true,
	}

	v := Normalize(content, testIdentity(), testNow)

	assert.Equal(t, "bobs-bakery", v.Slug)
	assert.Equal(t, "Bob's Bakery", v.BusinessName)
	assert.Equal(t, "Fresh bread daily", v.Tagline)
	assert.Equal(t, "Line one\nLine two", v.About, "block fields keep internal newlines, trim trailing whitespace")
	assert.Empty(t, v.Phone)
	assert.True(t, v.NoIndex)
	assert.True(t, v.ShowMapLink)
	assert.Equal(t, "United Kingdom", v.CountryLabel)
	assert.Equal(t, "Bakery", v.BusinessTypeLabel)
}

func TestNormalizeBusinessTypeLabel(t *testing.T) {
	t.Parallel()

	v := Normalize(domain.ContentRecord{}, domain.SiteIdentity{Slug: "x", BusinessType: "hair_salon"}, testNow)
	assert.Equal(t, "Hair Salon", v.BusinessTypeLabel)

	v = Normalize(domain.ContentRecord{}, domain.SiteIdentity{Slug: "x"}, testNow)
	assert.Empty(t, v.BusinessTypeLabel)

	assert.Equal(t, "Local Service", BusinessTypeLabel("local_service"))
	assert.Equal(t, "Bakery", BusinessTypeLabel("  bakery  "))
	assert.Empty(t, BusinessTypeLabel("   "))
}

func TestNormalizeGalleryKeepsCaptionAlignment(t *testing.T) {
	t.Parallel()

	content := domain.ContentRecord{
		"galleryImages":   []any{"https://img/1.jpg", "  ", "https://img/3.jpg"},
		"galleryCaptions": []any{"First", 99, "Third"},
	}

	v := Normalize(content, testIdentity(), testNow)

	// Blank image URLs drop, but captions stay index-paired with their images.
	require.Len(t, v.Gallery, 2)
	assert.Equal(t, GalleryImage{URL: "https://img/1.jpg", Caption: "First"}, v.Gallery[0])
	assert.Equal(t, GalleryImage{URL: "https://img/3.jpg", Caption: "Third"}, v.Gallery[1])
}

func TestResolveHero(t *testing.T) {
	t.Parallel()

	v := Normalize(domain.ContentRecord{
		"heroImage":        "https://img/hero.jpg",
		"heroImageCaption": "Our shopfront",
		"galleryImages":    []any{"https://img/1.jpg"},
	}, testIdentity(), testNow)
	assert.Equal(t, "https://img/hero.jpg", v.HeroImage, "explicit hero wins")
	assert.Equal(t, "Our shopfront", v.HeroCaption)

	v = Normalize(domain.ContentRecord{
		"galleryImages": []any{"https://img/1.jpg"},
	}, testIdentity(), testNow)
	assert.Empty(t, v.HeroImage, "gallery suppresses the placeholder")
	assert.Empty(t, v.HeroCaption)

	v = Normalize(domain.ContentRecord{}, testIdentity(), testNow)
	assert.Equal(t, placeholderHeroImage, v.HeroImage)
	assert.Equal(t, "No image", v.HeroCaption)
}

func TestNormalizeYouTubeExtractsIDs(t *testing.T) {
	t.Parallel()

	content := domain.ContentRecord{
		"youtubeVideos": []any{
			"https://www.youtube.com/watch?v=dQw4w9WgXcQ",
			"https://youtu.be/abcdefghijk",
			"https://example.com/not-youtube",
		},
	}

	v := Normalize(content, testIdentity(), testNow)

	require.Len(t, v.YouTubeVideos, 2)
	assert.Equal(t, "dQw4w9WgXcQ", v.YouTubeVideos[0].ID)
	assert.Equal(t, "abcdefghijk", v.YouTubeVideos[1].ID)
}

func TestNormalizeOtherVideosEmbedsVimeo(t *testing.T) {
	t.Parallel()

	content := domain.ContentRecord{
		"otherVideos": []any{
			"https://vimeo.com/123456",
			"https://example.com/clip.mp4",
		},
	}

	v := Normalize(content, testIdentity(), testNow)

	require.Len(t, v.OtherVideos, 2)
	assert.Equal(t, VideoLink{URL: "https://player.vimeo.com/video/123456", Embed: true}, v.OtherVideos[0])
	assert.Equal(t, VideoLink{URL: "https://example.com/clip.mp4", Embed: false}, v.OtherVideos[1])
}

func TestNormalizeObjectListsDropUnnamedEntries(t *testing.T) {
	t.Parallel()

	content := domain.ContentRecord{
		"services": []any{
			map[string]any{"name": "Haircut", "price": "£20"},
			map[string]any{"description": "no name, dropped"},
			"not an object",
		},
		"faq": []any{
			map[string]any{"question": "Do you deliver?", "answer": "Yes"},
			map[string]any{"answer": "orphan answer"},
		},
		"testimonials": []any{
			map[string]any{"quote": "Great!", "rating": "5"},
			map[string]any{"author": "quoteless"},
		},
	}

	v := Normalize(content, testIdentity(), testNow)

	require.Len(t, v.Services, 1)
	assert.Equal(t, "Haircut", v.Services[0].Name)
	assert.Equal(t, "£20", v.Services[0].Price)

	require.Len(t, v.FAQ, 1)
	assert.Equal(t, "Do you deliver?", v.FAQ[0].Question)

	require.Len(t, v.Testimonials, 1)
	assert.Equal(t, "5", v.Testimonials[0].Rating)
}

func TestNormalizeSocialLinkOrdering(t *testing.T) {
	t.Parallel()

	content := domain.ContentRecord{
		"tiktokUrl":   "https://tiktok.com/@bob",
		"facebookUrl": "https://facebook.com/bob",
		"youtubeUrl":  "https://youtube.com/@bob",
	}

	v := Normalize(content, testIdentity(), testNow)

	// Platform order is fixed regardless of map iteration.
	require.Len(t, v.SocialLinks, 3)
	assert.Equal(t, "facebook", v.SocialLinks[0].Platform)
	assert.Equal(t, "youtube", v.SocialLinks[1].Platform)
	assert.Equal(t, "tiktok", v.SocialLinks[2].Platform)
}

func TestNormalizeMapQuery(t *testing.T) {
	t.Parallel()

	content := domain.ContentRecord{
		"address":         "1 High Street",
		"addressLocality": "Leeds",
		"postalCode":      "LS1 1AA",
	}

	v := Normalize(content, testIdentity(), testNow)

	assert.Equal(t, "1 High Street, Leeds, LS1 1AA, United Kingdom", v.MapQuery)
}

func TestSectionTitleOverrides(t *testing.T) {
	t.Parallel()

	content := domain.ContentRecord{
		"aboutTitle": "Our Story",
	}

	v := Normalize(content, testIdentity(), testNow)

	assert.Equal(t, "Our Story", v.SectionTitle(sectionAbout))
	assert.Equal(t, "Services", v.SectionTitle(sectionServices), "default when no override")
	assert.Empty(t, v.SectionTitle(sectionShare), "share has no default title")
}

func TestHasNewsletterAndShare(t *testing.T) {
	t.Parallel()

	v := Normalize(domain.ContentRecord{}, testIdentity(), testNow)
	assert.False(t, v.HasNewsletter())
	assert.False(t, v.HasShare())

	v = Normalize(domain.ContentRecord{"newsletterUrl": "https://list.example.com"}, testIdentity(), testNow)
	assert.True(t, v.HasNewsletter())

	v = Normalize(domain.ContentRecord{"newsletterTitle": "Stay in touch"}, testIdentity(), testNow)
	assert.True(t, v.HasNewsletter(), "a configured title alone shows the section")

	v = Normalize(domain.ContentRecord{"shareSectionTitle": "Spread the word"}, testIdentity(), testNow)
	assert.True(t, v.HasShare())
}

func TestNormalizeCTAs(t *testing.T) {
	t.Parallel()

	content := domain.ContentRecord{
		"cta1Label": "Call us",
		"cta1Url":   "tel:+441132450000",
		"cta3Label": "label without url",
	}

	v := Normalize(content, testIdentity(), testNow)

	assert.Equal(t, CTA{Label: "Call us", URL: "tel:+441132450000"}, v.CTAs[0])
	assert.Equal(t, CTA{}, v.CTAs[1])
	assert.Equal(t, CTA{Label: "label without url"}, v.CTAs[2])
}

func TestNormalizeOpenStatusWiredThrough(t *testing.T) {
	t.Parallel()

	content := domain.ContentRecord{
		"businessHours": "Mon-Fri 9-18",
		"timezone":      "UTC",
	}

	// testNow is Monday 12:00 UTC.
	v := Normalize(content, testIdentity(), testNow)
	require.NotNil(t, v.OpenStatus)
	assert.True(t, v.OpenStatus.Open)

	v = Normalize(domain.ContentRecord{"businessHours": "Mon-Fri 9-18"}, testIdentity(), testNow)
	assert.Nil(t, v.OpenStatus, "no timezone means no badge")
}

func TestCountryLabelPassthrough(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Japan", CountryLabel("jp"))
	assert.Equal(t, "zz", CountryLabel("zz"), "unknown codes pass through as given")
	assert.Empty(t, CountryLabel("  "))
}
