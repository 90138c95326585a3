package theme

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/abrezinsky/plateplay/internal/models"
)

func TestNormalize(t *testing.T) {
	got := Normalize(models.Theme{Primary: "F00", Secondary: "not a color", FontPair: "comic-sans"})

	assert.Equal(t, "#ff0000", got.Primary)
	assert.Equal(t, DefaultSecondary, got.Secondary)
	assert.Equal(t, DefaultAccent, got.Accent)
	assert.Equal(t, DefaultFontPair, got.FontPair)
	assert.Equal(t, DefaultTemplate, got.Template)

	assert.Equal(t, got, Normalize(got), "normalize is idempotent")
}

func TestNormalize_KeepsValidTheme(t *testing.T) {
	in := models.Theme{Primary: "#10b981", Secondary: "#64748b", Accent: "#f97316", FontPair: "inter-merriweather", Template: "restaurant"}
	assert.Equal(t, in, Normalize(in))
}

func TestSuggestPalette(t *testing.T) {
	// #16a34a is hsl(142, 76, 36)
	secondary, accent := SuggestPalette("#16a34a")

	assert.Equal(t, "#da104d", secondary)
	assert.Equal(t, "#049095", accent)
}

func TestSuggestPalette_Invalid(t *testing.T) {
	secondary, accent := SuggestPalette("nope")
	assert.Equal(t, DefaultSecondary, secondary)
	assert.Equal(t, DefaultAccent, accent)
}

func TestTextOn(t *testing.T) {
	assert.Equal(t, LightText, TextOn("#000000"))
	assert.Equal(t, LightText, TextOn("#16a34a"))
	assert.Equal(t, DarkText, TextOn("#ffffff"))
	assert.Equal(t, DarkText, TextOn("#f59e0b"))
	assert.Equal(t, LightText, TextOn("garbage"))
}

func TestShade(t *testing.T) {
	assert.Equal(t, "#ffffff", Shade("#16a34a", 1))
	assert.Equal(t, "#000000", Shade("#16a34a", -1))
	assert.Equal(t, "#16a34a", Shade("#16a34a", 0))
	assert.Equal(t, "#000000", Shade("#16a34a", -5), "amount is clamped")
}

func TestLookupFontPair(t *testing.T) {
	fp, ok := LookupFontPair("inter-roboto-slab")
	assert.True(t, ok)
	assert.Equal(t, "Roboto Slab", fp.Heading)

	_, ok = LookupFontPair("")
	assert.False(t, ok)
}
