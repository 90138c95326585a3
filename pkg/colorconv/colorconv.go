// Package colorconv converts between hex, RGB, HSV, HSL and CMYK color
// representations and parses loosely formatted hex text.
//
// Every function is total: unparseable hex is reported through a boolean
// result (or replaced by black in NormalizeHex) and out-of-range numeric
// input is clamped. Nothing in this package panics or returns an error.
package colorconv

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Black is the canonical fallback color.
const Black = "#000000"

// RGB holds 8-bit channels in [0,255].
type RGB struct {
	R int `json:"r"`
	G int `json:"g"`
	B int `json:"b"`
}

// HSV holds hue in degrees [0,360) and saturation/value in percent [0,100].
type HSV struct {
	H int `json:"h"`
	S int `json:"s"`
	V int `json:"v"`
}

// HSL holds hue in degrees [0,360) and saturation/lightness in percent [0,100].
type HSL struct {
	H int `json:"h"`
	S int `json:"s"`
	L int `json:"l"`
}

// CMYK holds subtractive channels in percent [0,100].
type CMYK struct {
	C int `json:"c"`
	M int `json:"m"`
	Y int `json:"y"`
	K int `json:"k"`
}

// Swatch is one color expressed in every supported model.
type Swatch struct {
	Hex  string `json:"hex"`
	RGB  RGB    `json:"rgb"`
	HSV  HSV    `json:"hsv"`
	HSL  HSL    `json:"hsl"`
	CMYK CMYK   `json:"cmyk"`
}

func clamp(n, lo, hi int) int {
	if n < lo {
		return lo
	}
	if n > hi {
		return hi
	}
	return n
}

func round(f float64) int {
	return int(math.Round(f))
}

// wrapHue maps any hue in degrees into [0,360).
func wrapHue(h int) int {
	return ((h % 360) + 360) % 360
}

func isHexDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		c := s[i]
		if !(c >= '0' && c <= '9' || c >= 'a' && c <= 'f' || c >= 'A' && c <= 'F') {
			return false
		}
	}
	return true
}

func expandShort(s string) string {
	return string([]byte{s[0], s[0], s[1], s[1], s[2], s[2]})
}

// HexToRGB parses 3 or 6 hex digits with an optional leading '#'.
// The 3-digit form is expanded by doubling each digit. ok is false for any
// other input.
func HexToRGB(hex string) (rgb RGB, ok bool) {
	s := strings.TrimPrefix(hex, "#")
	switch len(s) {
	case 3:
		s = expandShort(s)
	case 6:
	default:
		return RGB{}, false
	}
	if !isHexDigits(s) {
		return RGB{}, false
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return RGB{}, false
	}
	return RGB{R: int(v >> 16 & 0xff), G: int(v >> 8 & 0xff), B: int(v & 0xff)}, true
}

// RGBToHex formats channels as lowercase #rrggbb, clamping each to [0,255].
func RGBToHex(r, g, b int) string {
	return fmt.Sprintf("#%02x%02x%02x", clamp(r, 0, 255), clamp(g, 0, 255), clamp(b, 0, 255))
}

// Hex returns the canonical hex form of c.
func (c RGB) Hex() string {
	return RGBToHex(c.R, c.G, c.B)
}

// hueOf returns the hue in degrees for normalized channels with the given
// maximum and chroma. Chroma must be non-zero.
func hueOf(r, g, b, hi, d float64) float64 {
	var h float64
	switch hi {
	case r:
		h = (g - b) / d
		if g < b {
			h += 6
		}
	case g:
		h = (b-r)/d + 2
	default:
		h = (r-g)/d + 4
	}
	return h * 60
}

func normalized(r, g, b int) (float64, float64, float64) {
	return float64(clamp(r, 0, 255)) / 255, float64(clamp(g, 0, 255)) / 255, float64(clamp(b, 0, 255)) / 255
}

// RGBToHSV converts to HSV with rounded components.
func RGBToHSV(r, g, b int) HSV {
	rf, gf, bf := normalized(r, g, b)
	hi := math.Max(rf, math.Max(gf, bf))
	lo := math.Min(rf, math.Min(gf, bf))
	d := hi - lo

	var h, s float64
	if d != 0 {
		h = hueOf(rf, gf, bf, hi, d)
	}
	if hi != 0 {
		s = d / hi
	}
	return HSV{H: wrapHue(round(h)), S: round(s * 100), V: round(hi * 100)}
}

// sector maps hue and chroma to unshifted channel values.
func sector(hue, c float64) (float64, float64, float64) {
	x := c * (1 - math.Abs(math.Mod(hue/60, 2)-1))
	switch {
	case hue < 60:
		return c, x, 0
	case hue < 120:
		return x, c, 0
	case hue < 180:
		return 0, c, x
	case hue < 240:
		return 0, x, c
	case hue < 300:
		return x, 0, c
	default:
		return c, 0, x
	}
}

// HSVToRGB converts from HSV. Hue is taken modulo 360; s and v are clamped
// to [0,100].
func HSVToRGB(h, s, v int) RGB {
	hue := float64(wrapHue(h))
	sf := float64(clamp(s, 0, 100)) / 100
	vf := float64(clamp(v, 0, 100)) / 100

	c := vf * sf
	r1, g1, b1 := sector(hue, c)
	m := vf - c
	return RGB{R: round((r1 + m) * 255), G: round((g1 + m) * 255), B: round((b1 + m) * 255)}
}

// RGBToHSL converts to HSL with rounded components.
func RGBToHSL(r, g, b int) HSL {
	rf, gf, bf := normalized(r, g, b)
	hi := math.Max(rf, math.Max(gf, bf))
	lo := math.Min(rf, math.Min(gf, bf))
	l := (hi + lo) / 2
	d := hi - lo

	var h, s float64
	if d != 0 {
		s = d / (1 - math.Abs(2*l-1))
		h = hueOf(rf, gf, bf, hi, d)
	}
	return HSL{H: wrapHue(round(h)), S: round(s * 100), L: round(l * 100)}
}

// HSLToRGB converts from HSL. Hue is taken modulo 360; s and l are clamped
// to [0,100].
func HSLToRGB(h, s, l int) RGB {
	hue := float64(wrapHue(h))
	sf := float64(clamp(s, 0, 100)) / 100
	lf := float64(clamp(l, 0, 100)) / 100

	c := (1 - math.Abs(2*lf-1)) * sf
	r1, g1, b1 := sector(hue, c)
	m := lf - c/2
	return RGB{R: round((r1 + m) * 255), G: round((g1 + m) * 255), B: round((b1 + m) * 255)}
}

// RGBToCMYK converts to CMYK. Pure black yields {0,0,0,100}.
func RGBToCMYK(r, g, b int) CMYK {
	rf, gf, bf := normalized(r, g, b)
	hi := math.Max(rf, math.Max(gf, bf))
	if hi == 0 {
		return CMYK{K: 100}
	}
	k := 1 - hi
	return CMYK{
		C: round((1 - rf - k) / hi * 100),
		M: round((1 - gf - k) / hi * 100),
		Y: round((1 - bf - k) / hi * 100),
		K: round(k * 100),
	}
}

// CMYKToRGB converts from CMYK with every input clamped to [0,100].
func CMYKToRGB(c, m, y, k int) RGB {
	kf := 1 - float64(clamp(k, 0, 100))/100
	channel := func(v int) int {
		return round(255 * (1 - float64(clamp(v, 0, 100))/100) * kf)
	}
	return RGB{R: channel(c), G: channel(m), B: channel(y)}
}

// HexToHSV parses hex and converts it to HSV.
func HexToHSV(hex string) (HSV, bool) {
	rgb, ok := HexToRGB(hex)
	if !ok {
		return HSV{}, false
	}
	return RGBToHSV(rgb.R, rgb.G, rgb.B), true
}

// HSVToHex converts HSV straight to canonical hex.
func HSVToHex(h, s, v int) string {
	return HSVToRGB(h, s, v).Hex()
}

// prefixed trims, lowercases and ensures a leading '#'.
func prefixed(input string) string {
	v := strings.ToLower(strings.TrimSpace(input))
	if !strings.HasPrefix(v, "#") {
		v = "#" + v
	}
	return v
}

// NormalizeHex coerces user text into canonical #rrggbb form. Anything that
// is not 3 or 6 hex digits after trimming becomes Black.
func NormalizeHex(input string) string {
	v := prefixed(input)
	digits := v[1:]
	if !isHexDigits(digits) {
		return Black
	}
	switch len(digits) {
	case 3:
		return "#" + expandShort(digits)
	case 6:
		return v
	default:
		return Black
	}
}

// IsValidHexLoose reports whether input holds 3 or 6 hex digits once
// trimmed and prefixed. It does not expand or otherwise commit the value.
func IsValidHexLoose(input string) bool {
	digits := prefixed(input)[1:]
	return (len(digits) == 3 || len(digits) == 6) && isHexDigits(digits)
}

// SafeHexForColorInput returns hex only when it is already strict #rrggbb
// (either case), which is what an HTML color input accepts.
func SafeHexForColorInput(hex string) string {
	if len(hex) == 7 && hex[0] == '#' && isHexDigits(hex[1:]) {
		return hex
	}
	return Black
}

// Convert expresses hex in every color model.
func Convert(hex string) (Swatch, bool) {
	rgb, ok := HexToRGB(hex)
	if !ok {
		return Swatch{}, false
	}
	return Swatch{
		Hex:  rgb.Hex(),
		RGB:  rgb,
		HSV:  RGBToHSV(rgb.R, rgb.G, rgb.B),
		HSL:  RGBToHSL(rgb.R, rgb.G, rgb.B),
		CMYK: RGBToCMYK(rgb.R, rgb.G, rgb.B),
	}, true
}
