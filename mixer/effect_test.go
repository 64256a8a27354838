package mixer

import (
	"testing"

	"lightmix/pixel"
)

func TestGain(t *testing.T) {
	buf := pixel.NewBuffer(2)
	buf.Fill(pixel.RGB(200, 100, 50))

	(&Gain{Level: 0.5}).Apply(buf, 16)

	got := buf.Get(0)
	if got.R() != 100 || got.G() != 50 || got.B() != 25 {
		t.Fatalf("half gain = %v, want (100,50,25)", got)
	}
	if got.A() != 255 {
		t.Fatalf("gain must not touch alpha, got %d", got.A())
	}
}

func TestDesaturateFull(t *testing.T) {
	buf := pixel.NewBuffer(1)
	buf.Fill(pixel.RGB(255, 0, 0))

	(&Desaturate{Amount: 1}).Apply(buf, 16)

	got := buf.Get(0)
	if got.R() != got.G() || got.G() != got.B() {
		t.Fatalf("fully desaturated pixel is not gray: %v", got)
	}
	// Red luma is 0.299 * 255
	if got.R() < 75 || got.R() > 78 {
		t.Fatalf("gray level = %d, want ~76", got.R())
	}
}

func TestInvertHalf(t *testing.T) {
	buf := pixel.NewBuffer(1)
	buf.Fill(pixel.RGB(0, 0, 0))

	(&Invert{Amount: 0.5}).Apply(buf, 16)

	got := buf.Get(0)
	if got.R() < 127 || got.R() > 128 {
		t.Fatalf("half invert of black = %v, want mid gray", got)
	}
}

func TestBusEffectChain(t *testing.T) {
	b := newBus("test")
	gain := &Gain{Level: 0.5}
	inv := &Invert{Amount: 1}
	b.AddEffect(gain)
	b.AddEffect(inv)

	if got := len(b.Effects()); got != 2 {
		t.Fatalf("effects = %d, want 2", got)
	}

	// Chain order: gain first, then invert
	buf := pixel.NewBuffer(1)
	buf.Fill(pixel.RGB(200, 0, 0))
	b.applyEffects(buf, 16)
	if got := buf.Get(0); got.R() != 155 || got.G() != 255 {
		t.Fatalf("chained result = %v, want (155,255,255)", got)
	}

	if err := b.RemoveEffect(gain); err != nil {
		t.Fatal(err)
	}
	if err := b.RemoveEffect(gain); err == nil {
		t.Fatal("expected error removing an effect twice")
	}
	if got := len(b.Effects()); got != 1 || b.Effects()[0] != Effect(inv) {
		t.Fatalf("chain after removal = %v", b.Effects())
	}
}
