// Package theme holds board color and typography presets.
package theme

import (
	"math"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/abrezinsky/plateplay/internal/models"
	"github.com/abrezinsky/plateplay/pkg/colorconv"
)

// Default colors and typography
const (
	DefaultPrimary   = "#16a34a"
	DefaultSecondary = "#0ea5e9"
	DefaultAccent    = "#f59e0b"
	DefaultFontPair  = "inter-playfair"
	DefaultTemplate  = "blank"
)

// Foregrounds picked by TextOn
const (
	DarkText  = "#111827"
	LightText = "#ffffff"
)

// FontPair is a heading/body font combination
type FontPair struct {
	Key     string `json:"key"`
	Heading string `json:"heading"`
	Body    string `json:"body"`
}

// FontPairs lists the selectable font pairs in display order
var FontPairs = []FontPair{
	{Key: "inter-playfair", Heading: "Playfair Display", Body: "Inter"},
	{Key: "inter-merriweather", Heading: "Merriweather", Body: "Inter"},
	{Key: "inter-roboto-slab", Heading: "Roboto Slab", Body: "Inter"},
}

// LookupFontPair returns the pair with the given key
func LookupFontPair(key string) (FontPair, bool) {
	for _, fp := range FontPairs {
		if fp.Key == key {
			return fp, true
		}
	}
	return FontPair{}, false
}

// Default returns the theme new boards start with
func Default() models.Theme {
	return models.Theme{
		Primary:   DefaultPrimary,
		Secondary: DefaultSecondary,
		Accent:    DefaultAccent,
		FontPair:  DefaultFontPair,
		Template:  DefaultTemplate,
	}
}

// Normalize canonicalizes colors and fills anything missing from Default.
func Normalize(t models.Theme) models.Theme {
	d := Default()
	t.Primary = colorOr(t.Primary, d.Primary)
	t.Secondary = colorOr(t.Secondary, d.Secondary)
	t.Accent = colorOr(t.Accent, d.Accent)
	if _, ok := LookupFontPair(t.FontPair); !ok {
		t.FontPair = d.FontPair
	}
	if t.Template == "" {
		t.Template = d.Template
	}
	return t
}

func colorOr(c, fallback string) string {
	if !colorconv.IsValidHexLoose(c) {
		return fallback
	}
	return colorconv.NormalizeHex(c)
}

// SuggestPalette derives secondary and accent colors from a primary color.
func SuggestPalette(primary string) (secondary, accent string) {
	rgb, ok := colorconv.HexToRGB(primary)
	if !ok {
		return DefaultSecondary, DefaultAccent
	}
	hsl := colorconv.RGBToHSL(rgb.R, rgb.G, rgb.B)

	secondary = colorconv.HSLToRGB((hsl.H+200)%360, min(90, hsl.S+10), min(90, hsl.L+10)).Hex()
	accent = colorconv.HSLToRGB((hsl.H+40)%360, min(95, hsl.S+20), max(30, hsl.L-10)).Hex()
	return secondary, accent
}

// TextOn picks a readable foreground for the given background color using
// CIE L*. Invalid input is treated as black.
func TextOn(bg string) string {
	c, err := colorful.Hex(colorconv.NormalizeHex(bg))
	if err != nil {
		return LightText
	}
	l, _, _ := c.Lab()
	if l > 0.6 {
		return DarkText
	}
	return LightText
}

// Shade mixes hex toward black (negative amount) or white (positive amount)
// in Lab space. amount is clamped to [-1, 1].
func Shade(hex string, amount float64) string {
	c, err := colorful.Hex(colorconv.NormalizeHex(hex))
	if err != nil {
		return colorconv.Black
	}
	amount = math.Max(-1, math.Min(1, amount))
	target := colorful.Color{R: 1, G: 1, B: 1}
	if amount < 0 {
		target = colorful.Color{}
		amount = -amount
	}
	return c.BlendLab(target, amount).Clamped().Hex()
}
