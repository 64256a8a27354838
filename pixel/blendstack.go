package pixel

// BlendStack is a mutable accumulator that ping-pongs between a destination
// and a scratch buffer as successive (buffer, blend, alpha) contributions are
// folded in. Flatten guarantees the destination holds valid current-frame data
// even when a tick contributed nothing, so stale pixels never leak downstream.
type BlendStack struct {
	dst     *Buffer
	scratch *Buffer
	base    Color
	active  bool // destination holds data from the current tick
}

// NewBlendStack allocates a stack for n-pixel buffers over a transparent base.
func NewBlendStack(n int) *BlendStack {
	return NewBlendStackBase(n, Transparent)
}

// NewBlendStackBase allocates a stack whose destination resets to base at the
// start of every tick. An opaque base keeps the accumulated alpha opaque, so
// a downstream composite does not re-apply contribution alphas.
func NewBlendStackBase(n int, base Color) *BlendStack {
	return &BlendStack{
		dst:     NewBuffer(n),
		scratch: NewBuffer(n),
		base:    base,
	}
}

// Begin marks the start of a tick. The first contribution afterwards resets
// the destination before folding in.
func (s *BlendStack) Begin() {
	s.active = false
}

// Active reports whether anything has been folded in since Begin.
func (s *BlendStack) Active() bool {
	return s.active
}

// Blend folds src into the accumulator via b at the given alpha.
func (s *BlendStack) Blend(b Blend, src *Buffer, alpha float64) {
	if !s.active {
		s.dst.Fill(s.base)
		s.active = true
	}
	b.Blend(s.dst, src, alpha, s.scratch)
	s.dst, s.scratch = s.scratch, s.dst
}

// Flatten ensures the destination holds fresh data for this tick, clearing it
// when nothing was contributed.
func (s *BlendStack) Flatten() {
	if !s.active {
		s.dst.Fill(s.base)
		s.active = true
	}
}

// Destination returns the current accumulation result. Only meaningful after
// at least one Blend or a Flatten in the current tick.
func (s *BlendStack) Destination() *Buffer {
	return s.dst
}
