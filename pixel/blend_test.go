package pixel

import "testing"

func single(c Color) *Buffer {
	b := NewBuffer(1)
	b.Set(0, c)
	return b
}

func blendOne(b Blend, dst, src Color, alpha float64) Color {
	out := NewBuffer(1)
	b.Blend(single(dst), single(src), alpha, out)
	return out.Get(0)
}

func TestNormalBlend(t *testing.T) {
	n := NewNormalBlend()

	tests := []struct {
		name     string
		dst, src Color
		alpha    float64
		want     Color
	}{
		{"full alpha replaces", RGB(10, 20, 30), RGB(200, 100, 50), 1, RGB(200, 100, 50)},
		{"zero alpha keeps dst", RGB(10, 20, 30), RGB(200, 100, 50), 0, RGB(10, 20, 30)},
		{"half alpha mixes", RGB(0, 0, 0), RGB(200, 100, 50), 0.5, RGB(100, 50, 25)},
		{"transparent src is no-op", RGB(10, 20, 30), Transparent, 1, RGB(10, 20, 30)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := blendOne(n, tt.dst, tt.src, tt.alpha); got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNormalBlendHonorsSrcAlpha(t *testing.T) {
	n := NewNormalBlend()
	// Source at 50% alpha composited at full strength mixes halfway.
	got := blendOne(n, RGB(0, 0, 0), RGBA(200, 100, 50, 128), 1)
	if got.R() < 99 || got.R() > 102 {
		t.Errorf("R = %d, want ~100", got.R())
	}
}

func TestAddBlendSaturates(t *testing.T) {
	a := NewAddBlend()
	got := blendOne(a, RGB(200, 10, 0), RGB(100, 10, 0), 1)
	if got.R() != 255 {
		t.Errorf("R = %d, want saturated 255", got.R())
	}
	if got.G() != 20 {
		t.Errorf("G = %d, want 20", got.G())
	}
}

func TestSubtractBlendClamps(t *testing.T) {
	s := NewSubtractBlend()
	got := blendOne(s, RGB(50, 200, 0), RGB(100, 50, 0), 1)
	if got.R() != 0 {
		t.Errorf("R = %d, want clamped 0", got.R())
	}
	if got.G() != 150 {
		t.Errorf("G = %d, want 150", got.G())
	}
}

func TestChannelOps(t *testing.T) {
	tests := []struct {
		name     string
		blend    Blend
		dst, src Color
		want     Color
	}{
		{"multiply", NewMultiplyBlend(), White, RGB(100, 200, 0), RGB(100, 200, 0)},
		{"multiply black", NewMultiplyBlend(), RGB(100, 200, 50), Black, Black},
		{"screen white", NewScreenBlend(), RGB(100, 200, 50), White, White},
		{"lightest", NewLightestBlend(), RGB(100, 20, 50), RGB(50, 200, 50), RGB(100, 200, 50)},
		{"darkest", NewDarkestBlend(), RGB(100, 20, 50), RGB(50, 200, 50), RGB(50, 20, 50)},
		{"difference", NewDifferenceBlend(), RGB(100, 20, 50), RGB(50, 200, 50), RGB(50, 180, 0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := blendOne(tt.blend, tt.dst, tt.src, 1); got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestLerpEndpoints(t *testing.T) {
	from := single(RGB(255, 0, 0))
	to := single(RGB(0, 0, 255))
	out := NewBuffer(1)

	for _, b := range []Blend{NewNormalBlend(), NewAddBlend(), NewHSVBlend()} {
		b.Lerp(from, to, 0, out)
		if out.Get(0) != RGB(255, 0, 0) {
			t.Errorf("%s: t=0 got %v, want from", b.Name(), out.Get(0))
		}
		b.Lerp(from, to, 1, out)
		if out.Get(0) != RGB(0, 0, 255) {
			t.Errorf("%s: t=1 got %v, want to", b.Name(), out.Get(0))
		}
	}
}

func TestHSVLerpStaysSaturated(t *testing.T) {
	// Halfway between saturated red and saturated blue the hue-path lerp must
	// not pass through gray: at least one channel stays near full.
	from := single(RGB(255, 0, 0))
	to := single(RGB(0, 0, 255))
	out := NewBuffer(1)
	NewHSVBlend().Lerp(from, to, 0.5, out)

	c := out.Get(0)
	brightest := max(c.R(), max(c.G(), c.B()))
	if brightest < 200 {
		t.Errorf("mid-fade color %v desaturated, brightest channel %d", c, brightest)
	}
}

func TestRegistry(t *testing.T) {
	r := DefaultRegistry()

	b, err := r.Get("add")
	if err != nil {
		t.Fatalf("Get(add): %v", err)
	}
	if b.Name() != "add" {
		t.Errorf("Name = %q", b.Name())
	}

	if _, err := r.Get("nope"); err == nil {
		t.Error("unknown blend should error")
	}
	if err := r.Register(NewAddBlend()); err == nil {
		t.Error("duplicate registration should error")
	}

	names := r.Names()
	if len(names) != 10 {
		t.Errorf("Names() = %v, want 10 entries", names)
	}
	for i := 1; i < len(names); i++ {
		if names[i-1] >= names[i] {
			t.Errorf("Names() not sorted: %v", names)
			break
		}
	}
}
