package pixel

import (
	"fmt"

	"github.com/lucasb-eyer/go-colorful"
)

// Color is a packed 0xAARRGGBB pixel value.
type Color uint32

const (
	Transparent Color = 0x00000000
	Black       Color = 0xff000000
	White       Color = 0xffffffff
)

// RGBA packs four 8-bit components into a Color.
func RGBA(r, g, b, a uint8) Color {
	return Color(a)<<24 | Color(r)<<16 | Color(g)<<8 | Color(b)
}

// RGB packs an opaque color.
func RGB(r, g, b uint8) Color {
	return RGBA(r, g, b, 0xff)
}

// HSB creates an opaque color from hue (degrees), saturation and brightness 0..1.
func HSB(h, s, b float64) Color {
	return FromColorful(colorful.Hsv(h, s, b))
}

// FromColorful converts a colorful.Color to an opaque packed pixel.
func FromColorful(c colorful.Color) Color {
	r, g, b := c.Clamped().RGB255()
	return RGB(r, g, b)
}

// Colorful converts the color channels to a colorful.Color, dropping alpha.
func (c Color) Colorful() colorful.Color {
	return colorful.Color{
		R: float64(c.R()) / 255,
		G: float64(c.G()) / 255,
		B: float64(c.B()) / 255,
	}
}

func (c Color) A() uint8 { return uint8(c >> 24) }
func (c Color) R() uint8 { return uint8(c >> 16) }
func (c Color) G() uint8 { return uint8(c >> 8) }
func (c Color) B() uint8 { return uint8(c) }

// RGBBytes returns the color channels as a [3]uint8, the form the TUI and
// control-surface LED feedback consume.
func (c Color) RGBBytes() [3]uint8 {
	return [3]uint8{c.R(), c.G(), c.B()}
}

func (c Color) String() string {
	return fmt.Sprintf("#%08x", uint32(c))
}

// Hex returns the CSS-style "#rrggbb" form, alpha dropped.
func (c Color) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R(), c.G(), c.B())
}

// LerpColor interpolates per channel, t clamped to 0..1.
func LerpColor(a, b Color, t float64) Color {
	t = clamp01(t)
	return RGBA(
		lerpByte(a.R(), b.R(), t),
		lerpByte(a.G(), b.G(), t),
		lerpByte(a.B(), b.B(), t),
		lerpByte(a.A(), b.A(), t),
	)
}

func lerpByte(a, b uint8, t float64) uint8 {
	return uint8(float64(a)*(1-t) + float64(b)*t + 0.5)
}

func clamp01(t float64) float64 {
	if t < 0 {
		return 0
	}
	if t > 1 {
		return 1
	}
	return t
}

func clampByte(v float64) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return uint8(v + 0.5)
}
