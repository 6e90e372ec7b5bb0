package render

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDimensionsForKnownRoles(t *testing.T) {
	t.Parallel()

	for _, role := range ImageRoles() {
		dims := DimensionsFor(role)
		assert.Positive(t, dims.Width, "role %s", role)
		assert.Positive(t, dims.Height, "role %s", role)
		assert.NotEmpty(t, dims.Label, "role %s", role)
	}

	hero := DimensionsFor(RoleHero)
	assert.Equal(t, 1200, hero.Width)
	assert.Equal(t, 630, hero.Height)
}

func TestDimensionsForUnknownRoleFallsBack(t *testing.T) {
	t.Parallel()

	assert.Equal(t, DimensionsFor(RoleGallery), DimensionsFor(ImageRole("banner")))
}
