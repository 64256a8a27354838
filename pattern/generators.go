package pattern

import (
	"math"

	"github.com/lucasb-eyer/go-colorful"

	"lightmix/palette"
	"lightmix/pixel"
)

// Solid fills the whole view with one color.
type Solid struct {
	Color pixel.Color
}

func NewSolid(c pixel.Color) *Solid {
	return &Solid{Color: c}
}

func (p *Solid) Name() string { return "solid" }

func (p *Solid) Render(f Frame) {
	f.Buf.Fill(p.Color)
}

// Gradient sweeps a palette along the view, scrolling over time.
type Gradient struct {
	Palette *palette.Palette
	Speed   float64 // palette cycles per second

	phase float64
}

func NewGradient(pal *palette.Palette) *Gradient {
	return &Gradient{Palette: pal, Speed: 0.25}
}

func (p *Gradient) Name() string { return "gradient" }

func (p *Gradient) OnActive()   { p.phase = 0 }
func (p *Gradient) OnInactive() {}

func (p *Gradient) Render(f Frame) {
	p.phase += p.Speed * f.Delta / 1000
	p.phase = p.phase - math.Floor(p.phase)

	for i := 0; i < f.View.Size(); i++ {
		pos := f.View.Normal(i) + p.phase
		pos = pos - math.Floor(pos)
		f.Buf.Set(i, p.Palette.Lookup(pos))
	}
}

// HueCycle rotates a single hue across the whole view over time.
type HueCycle struct {
	Speed      float64 // degrees per second
	Saturation float64

	hue float64
}

func NewHueCycle() *HueCycle {
	return &HueCycle{Speed: 60, Saturation: 1}
}

func (p *HueCycle) Name() string { return "huecycle" }

func (p *HueCycle) Render(f Frame) {
	p.hue = math.Mod(p.hue+p.Speed*f.Delta/1000, 360)
	c := pixel.FromColorful(colorful.Hsv(p.hue, p.Saturation, 1))
	f.Buf.Fill(c)
}

// Chase runs a bright head with an exponential tail along the view.
type Chase struct {
	Color pixel.Color
	Speed float64 // view traversals per second
	Tail  float64 // tail length as a fraction of the view

	pos float64
}

func NewChase(c pixel.Color) *Chase {
	return &Chase{Color: c, Speed: 0.5, Tail: 0.25}
}

func (p *Chase) Name() string { return "chase" }

func (p *Chase) OnActive()   { p.pos = 0 }
func (p *Chase) OnInactive() {}

func (p *Chase) Render(f Frame) {
	p.pos += p.Speed * f.Delta / 1000
	p.pos = p.pos - math.Floor(p.pos)

	tail := p.Tail
	if tail <= 0 {
		tail = 0.01
	}

	for i := 0; i < f.View.Size(); i++ {
		// Wrapped distance behind the head
		d := p.pos - f.View.Normal(i)
		if d < 0 {
			d += 1
		}
		level := 1 - d/tail
		if level <= 0 {
			f.Buf.Set(i, pixel.Transparent)
			continue
		}
		f.Buf.Set(i, pixel.LerpColor(pixel.Transparent, p.Color, level))
	}
}

// Strobe flashes a color on and off at a fixed period.
type Strobe struct {
	Color    pixel.Color
	PeriodMs float64
	Duty     float64 // on fraction of the period, 0..1

	clock float64
}

func NewStrobe(c pixel.Color) *Strobe {
	return &Strobe{Color: c, PeriodMs: 200, Duty: 0.5}
}

func (p *Strobe) Name() string { return "strobe" }

func (p *Strobe) Render(f Frame) {
	p.clock = math.Mod(p.clock+f.Delta, p.PeriodMs)
	if p.clock < p.PeriodMs*p.Duty {
		f.Buf.Fill(p.Color)
	} else {
		f.Buf.Fill(pixel.Transparent)
	}
}
