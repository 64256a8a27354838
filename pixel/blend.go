package pixel

// Blend is a pluggable compositing function between two buffers. Blend folds
// src into dst at the given alpha; Lerp crossfades between two buffers for
// transitions and the crossfader. All buffers must share a length, and out may
// alias either input: every pixel is read before it is written.
type Blend interface {
	Name() string
	Blend(dst, src *Buffer, alpha float64, out *Buffer)
	Lerp(from, to *Buffer, t float64, out *Buffer)
}

// pixelFn composites a single src pixel into dst at alpha 0..1.
type pixelFn func(dst, src Color, alpha float64) Color

// mode is a blend built from a per-pixel function. Lerp is a straight
// per-channel crossfade for every mode; only the hue-path blend overrides it.
type mode struct {
	name string
	fn   pixelFn
}

func (m *mode) Name() string { return m.name }

func (m *mode) Blend(dst, src *Buffer, alpha float64, out *Buffer) {
	alpha = clamp01(alpha)
	for i := range out.colors {
		out.colors[i] = m.fn(dst.colors[i], src.colors[i], alpha)
	}
}

func (m *mode) Lerp(from, to *Buffer, t float64, out *Buffer) {
	t = clamp01(t)
	for i := range out.colors {
		out.colors[i] = LerpColor(from.colors[i], to.colors[i], t)
	}
}

// effectiveAlpha scales the caller's alpha by the source pixel's own alpha.
func effectiveAlpha(src Color, alpha float64) float64 {
	return alpha * float64(src.A()) / 255
}

// overAlpha is the standard alpha-compositing coverage result.
func overAlpha(dst Color, ea float64) uint8 {
	return clampByte(255*ea + float64(dst.A())*(1-ea))
}

func blendNormal(dst, src Color, alpha float64) Color {
	ea := effectiveAlpha(src, alpha)
	return RGBA(
		clampByte(float64(src.R())*ea+float64(dst.R())*(1-ea)),
		clampByte(float64(src.G())*ea+float64(dst.G())*(1-ea)),
		clampByte(float64(src.B())*ea+float64(dst.B())*(1-ea)),
		overAlpha(dst, ea),
	)
}

func blendAdd(dst, src Color, alpha float64) Color {
	ea := effectiveAlpha(src, alpha)
	return RGBA(
		clampByte(float64(dst.R())+float64(src.R())*ea),
		clampByte(float64(dst.G())+float64(src.G())*ea),
		clampByte(float64(dst.B())+float64(src.B())*ea),
		overAlpha(dst, ea),
	)
}

func blendSubtract(dst, src Color, alpha float64) Color {
	ea := effectiveAlpha(src, alpha)
	return RGBA(
		clampByte(float64(dst.R())-float64(src.R())*ea),
		clampByte(float64(dst.G())-float64(src.G())*ea),
		clampByte(float64(dst.B())-float64(src.B())*ea),
		dst.A(),
	)
}

// channelOp builds a pixelFn that moves dst toward op(dst, src) by the
// effective alpha. Covers multiply, screen, lightest, darkest, difference.
func channelOp(op func(d, s uint8) uint8) pixelFn {
	return func(dst, src Color, alpha float64) Color {
		ea := effectiveAlpha(src, alpha)
		return RGBA(
			lerpByte(dst.R(), op(dst.R(), src.R()), ea),
			lerpByte(dst.G(), op(dst.G(), src.G()), ea),
			lerpByte(dst.B(), op(dst.B(), src.B()), ea),
			overAlpha(dst, ea),
		)
	}
}

func opMultiply(d, s uint8) uint8 {
	return uint8((uint16(d)*uint16(s) + 127) / 255)
}

func opScreen(d, s uint8) uint8 {
	return 255 - opMultiply(255-d, 255-s)
}

func opLightest(d, s uint8) uint8 {
	return max(d, s)
}

func opDarkest(d, s uint8) uint8 {
	return min(d, s)
}

func opDifference(d, s uint8) uint8 {
	if d > s {
		return d - s
	}
	return s - d
}

func blendDissolve(dst, src Color, alpha float64) Color {
	return LerpColor(dst, src, effectiveAlpha(src, alpha))
}

// hsvMode crossfades along the hue path in HSV space via go-colorful, which
// keeps saturated colors saturated mid-fade instead of passing through gray.
type hsvMode struct{}

func (hsvMode) Name() string { return "hsv" }

func (hsvMode) Blend(dst, src *Buffer, alpha float64, out *Buffer) {
	alpha = clamp01(alpha)
	for i := range out.colors {
		d, s := dst.colors[i], src.colors[i]
		ea := effectiveAlpha(s, alpha)
		c := FromColorful(d.Colorful().BlendHsv(s.Colorful(), ea))
		out.colors[i] = RGBA(c.R(), c.G(), c.B(), overAlpha(d, ea))
	}
}

func (hsvMode) Lerp(from, to *Buffer, t float64, out *Buffer) {
	t = clamp01(t)
	for i := range out.colors {
		f, tc := from.colors[i], to.colors[i]
		c := FromColorful(f.Colorful().BlendHsv(tc.Colorful(), t))
		out.colors[i] = RGBA(c.R(), c.G(), c.B(), lerpByte(f.A(), tc.A(), t))
	}
}

// Built-in blend constructors, registered by DefaultRegistry.

func NewNormalBlend() Blend     { return &mode{name: "normal", fn: blendNormal} }
func NewAddBlend() Blend        { return &mode{name: "add", fn: blendAdd} }
func NewSubtractBlend() Blend   { return &mode{name: "subtract", fn: blendSubtract} }
func NewMultiplyBlend() Blend   { return &mode{name: "multiply", fn: channelOp(opMultiply)} }
func NewScreenBlend() Blend     { return &mode{name: "screen", fn: channelOp(opScreen)} }
func NewLightestBlend() Blend   { return &mode{name: "lightest", fn: channelOp(opLightest)} }
func NewDarkestBlend() Blend    { return &mode{name: "darkest", fn: channelOp(opDarkest)} }
func NewDifferenceBlend() Blend { return &mode{name: "difference", fn: channelOp(opDifference)} }
func NewDissolveBlend() Blend   { return &mode{name: "dissolve", fn: blendDissolve} }
func NewHSVBlend() Blend        { return hsvMode{} }
