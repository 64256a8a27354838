package pattern

import (
	"lightmix/model"
	"lightmix/pixel"
)

// Frame is the per-tick render context handed to a pattern.
type Frame struct {
	Delta float64 // elapsed milliseconds since the previous tick
	Buf   *pixel.Buffer
	View  *model.View
}

// Pattern is an animated generator producing one channel-sized buffer per tick.
type Pattern interface {
	Name() string
	Render(f Frame)
}

// Activator is implemented by patterns that need activation notice, e.g. to
// reset phase when they become the live pattern.
type Activator interface {
	OnActive()
	OnInactive()
}

// Slot binds a pattern into an engine's pattern list along with its per-slot
// playback state.
type Slot struct {
	Pattern Pattern

	Enabled           bool
	AutoCycleEligible bool

	// BLEND composite mode settings
	CompositeBlend string  // blend name; "" means normal
	CompositeLevel float64 // 0..1

	// Per-pattern cycle time override; 0 uses the engine default.
	CustomCycleMs float64

	// Monitor routing
	Cue bool
	Aux bool

	damping float64 // smoothed 0..1 ramp, engine-managed
	active  bool
	buf     *pixel.Buffer
}

// Damping returns the slot's current damping level.
func (s *Slot) Damping() float64 {
	return s.damping
}

// Active reports whether the slot's pattern is currently activated.
func (s *Slot) Active() bool {
	return s.active
}

// Buffer returns the slot's private render buffer.
func (s *Slot) Buffer() *pixel.Buffer {
	return s.buf
}

func (s *Slot) activate() {
	if s.active {
		return
	}
	s.active = true
	if a, ok := s.Pattern.(Activator); ok {
		a.OnActive()
	}
}

func (s *Slot) deactivate() {
	if !s.active {
		return
	}
	s.active = false
	if a, ok := s.Pattern.(Activator); ok {
		a.OnInactive()
	}
}

// render runs the pattern into the slot buffer, then blanks view holes so a
// -1 mapping renders as nothing rather than whatever the pattern wrote.
func (s *Slot) render(delta float64, view *model.View) {
	s.Pattern.Render(Frame{Delta: delta, Buf: s.buf, View: view})
	for i := 0; i < view.Size(); i++ {
		if view.ModelIndex(i) == model.NoIndex {
			s.buf.Set(i, pixel.Transparent)
		}
	}
}
