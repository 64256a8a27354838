package mixer

import (
	"fmt"

	"lightmix/pixel"
)

// CrossfadeGroup routes a strip into one of the mixer's accumulation stacks.
type CrossfadeGroup int

const (
	CrossfadeBypass CrossfadeGroup = iota
	CrossfadeA
	CrossfadeB
)

func (g CrossfadeGroup) String() string {
	switch g {
	case CrossfadeA:
		return "A"
	case CrossfadeB:
		return "B"
	}
	return "bypass"
}

// Bus is the shared record behind every mixer strip: fader, blend selection,
// routing flags and an effect chain. Channels, groups and the master bus all
// carry one.
type Bus struct {
	Name      string
	Fader     float64 // 0..1, the strip's effective blend alpha
	Enabled   bool
	BlendName string

	Crossfade CrossfadeGroup
	Cue       bool
	Aux       bool

	effects []Effect
}

func newBus(name string) Bus {
	return Bus{
		Name:      name,
		Fader:     1,
		Enabled:   true,
		BlendName: "normal",
	}
}

// AddEffect appends fx to the chain.
func (b *Bus) AddEffect(fx Effect) {
	b.effects = append(b.effects, fx)
}

// RemoveEffect removes fx. Removing a non-member is a programming error.
func (b *Bus) RemoveEffect(fx Effect) error {
	for i, existing := range b.effects {
		if existing == fx {
			b.effects = append(b.effects[:i], b.effects[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("effect %q is not on bus %q", fx.Name(), b.Name)
}

// Effects returns the chain in order. Callers must not mutate it.
func (b *Bus) Effects() []Effect {
	return b.effects
}

func (b *Bus) applyEffects(buf *pixel.Buffer, delta float64) {
	for _, fx := range b.effects {
		fx.Apply(buf, delta)
	}
}
