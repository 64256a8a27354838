package mixer

import "lightmix/pixel"

// Effect transforms a buffer in place. Effects run on a bus's own buffer
// after its content is composited, and on the final main buffer for the
// master chain.
type Effect interface {
	Name() string
	Apply(buf *pixel.Buffer, delta float64)
}

// Gain scales color channels toward black. Level 1 is a pass-through.
type Gain struct {
	Level float64
}

func (g *Gain) Name() string { return "gain" }

func (g *Gain) Apply(buf *pixel.Buffer, delta float64) {
	level := g.Level
	if level < 0 {
		level = 0
	}
	for i := 0; i < buf.Len(); i++ {
		c := buf.Get(i)
		buf.Set(i, pixel.RGBA(
			scaleByte(c.R(), level),
			scaleByte(c.G(), level),
			scaleByte(c.B(), level),
			c.A(),
		))
	}
}

// Desaturate moves colors toward their luma by Amount 0..1.
type Desaturate struct {
	Amount float64
}

func (d *Desaturate) Name() string { return "desaturate" }

func (d *Desaturate) Apply(buf *pixel.Buffer, delta float64) {
	amt := clamp01(d.Amount)
	for i := 0; i < buf.Len(); i++ {
		c := buf.Get(i)
		luma := 0.299*float64(c.R()) + 0.587*float64(c.G()) + 0.114*float64(c.B())
		gray := uint8(luma + 0.5)
		buf.Set(i, pixel.RGBA(
			lerpTo(c.R(), gray, amt),
			lerpTo(c.G(), gray, amt),
			lerpTo(c.B(), gray, amt),
			c.A(),
		))
	}
}

// Invert flips color channels by Amount 0..1.
type Invert struct {
	Amount float64
}

func (v *Invert) Name() string { return "invert" }

func (v *Invert) Apply(buf *pixel.Buffer, delta float64) {
	amt := clamp01(v.Amount)
	for i := 0; i < buf.Len(); i++ {
		c := buf.Get(i)
		buf.Set(i, pixel.RGBA(
			lerpTo(c.R(), 255-c.R(), amt),
			lerpTo(c.G(), 255-c.G(), amt),
			lerpTo(c.B(), 255-c.B(), amt),
			c.A(),
		))
	}
}

func scaleByte(v uint8, f float64) uint8 {
	s := float64(v) * f
	if s > 255 {
		return 255
	}
	return uint8(s + 0.5)
}

func lerpTo(a, b uint8, t float64) uint8 {
	return uint8(float64(a)*(1-t) + float64(b)*t + 0.5)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
