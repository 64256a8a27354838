package pattern

import (
	"testing"

	"lightmix/model"
	"lightmix/palette"
	"lightmix/pixel"
)

func renderOnce(p Pattern, view *model.View, delta float64) *pixel.Buffer {
	buf := pixel.NewBuffer(view.Size())
	p.Render(Frame{Delta: delta, Buf: buf, View: view})
	return buf
}

func TestSolid(t *testing.T) {
	view := model.NewStrip(4).FullView()
	buf := renderOnce(NewSolid(pixel.RGB(10, 20, 30)), view, 16)
	for i := 0; i < 4; i++ {
		if buf.Get(i) != pixel.RGB(10, 20, 30) {
			t.Errorf("pixel %d = %v", i, buf.Get(i))
		}
	}
}

func TestGradientScrolls(t *testing.T) {
	view := model.NewStrip(8).FullView()
	g := NewGradient(palette.New("bw", pixel.Black, pixel.White))
	g.Speed = 1 // one full cycle per second

	first := pixel.NewBuffer(8)
	g.Render(Frame{Delta: 0, Buf: first, View: view})
	if first.Get(0) != pixel.Black {
		t.Errorf("start of ramp = %v, want black", first.Get(0))
	}

	second := pixel.NewBuffer(8)
	g.Render(Frame{Delta: 250, Buf: second, View: view})
	if second.Get(0) == first.Get(0) {
		t.Error("gradient should scroll over time")
	}
}

func TestChaseHeadMoves(t *testing.T) {
	view := model.NewStrip(16).FullView()
	c := NewChase(pixel.RGB(255, 255, 255))
	c.Speed = 1

	a := renderOnce(c, view, 0)
	b := renderOnce(c, view, 250)

	same := true
	for i := 0; i < 16; i++ {
		if a.Get(i) != b.Get(i) {
			same = false
			break
		}
	}
	if same {
		t.Error("chase head should move between ticks")
	}
}

func TestStrobeDutyCycle(t *testing.T) {
	view := model.NewStrip(1).FullView()
	s := NewStrobe(pixel.RGB(255, 255, 255))
	s.PeriodMs = 100
	s.Duty = 0.5

	on := renderOnce(s, view, 10) // clock=10, inside on window
	if on.Get(0) != pixel.RGB(255, 255, 255) {
		t.Errorf("on-phase pixel = %v", on.Get(0))
	}
	off := renderOnce(s, view, 60) // clock=70, off window
	if off.Get(0) != pixel.Transparent {
		t.Errorf("off-phase pixel = %v", off.Get(0))
	}
}

func TestSlotRenderBlanksViewHoles(t *testing.T) {
	m := model.NewStrip(4)
	view := model.NewView(m, []int{0, model.NoIndex, 2})
	e := NewEngine(view, pixel.DefaultRegistry())
	e.AddPattern(NewSolid(pixel.RGB(255, 0, 0)))
	e.Render(16)

	if e.Buffer().Get(0) != pixel.RGB(255, 0, 0) {
		t.Errorf("slot 0 = %v", e.Buffer().Get(0))
	}
	if e.Buffer().Get(1) != pixel.Transparent {
		t.Errorf("hole slot = %v, want transparent", e.Buffer().Get(1))
	}
	if e.Buffer().Get(2) != pixel.RGB(255, 0, 0) {
		t.Errorf("slot 2 = %v", e.Buffer().Get(2))
	}
}
