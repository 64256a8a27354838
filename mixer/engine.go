package mixer

import (
	"context"
	"fmt"
	"sync"
	"time"

	"lightmix/debug"
	"lightmix/model"
	"lightmix/pixel"
)

// Strip is a top-level mixer entry: a single channel or a group.
type Strip interface {
	Buffer() *pixel.Buffer
	bus() *Bus
}

// Crossfader cross-blends the A and B accumulation stacks.
type Crossfader struct {
	Position  float64 // 0 = full A, 1 = full B
	BlendName string
}

// Engine drives every channel once per tick and composites their outputs into
// the final main buffer plus cue/aux monitor buffers.
//
// Concurrency: all engine state is guarded by mu, held for the whole of Tick
// and for every mutation helper. In threaded mode each channel owns a
// persistent worker goroutine; the orchestrator signals work, then blocks
// until every worker reports done, so channel buffers are fully computed
// before any compositing step reads them.
type Engine struct {
	mod  *model.Model
	view *model.View
	reg  *pixel.Registry

	mu     sync.Mutex
	strips []Strip

	// Threaded fans channel execution out across per-channel workers.
	// Output is bit-identical to sequential mode.
	Threaded bool

	Crossfader Crossfader
	master     Bus

	main  *pixel.BlendStack
	left  *pixel.BlendStack
	right *pixel.BlendStack
	cue   *pixel.BlendStack
	aux   *pixel.BlendStack

	crossBuf  *pixel.Buffer
	output    *pixel.Buffer
	cueActive bool

	addBlend    pixel.Blend
	normalBlend pixel.Blend

	errs chan error

	// UpdateChan receives a non-blocking signal after every tick of the Run
	// loop, for UI refresh.
	UpdateChan chan struct{}
}

// NewEngine creates a mixer over the given model.
func NewEngine(m *model.Model, reg *pixel.Registry) *Engine {
	n := m.PointCount()
	return &Engine{
		mod:  m,
		view: m.FullView(),
		reg:  reg,

		Crossfader: Crossfader{Position: 0.5, BlendName: "dissolve"},
		master:     newBus("master"),

		main:  pixel.NewBlendStackBase(n, pixel.Black),
		left:  pixel.NewBlendStackBase(n, pixel.Black),
		right: pixel.NewBlendStackBase(n, pixel.Black),
		cue:   pixel.NewBlendStackBase(n, pixel.Black),
		aux:   pixel.NewBlendStackBase(n, pixel.Black),

		crossBuf: pixel.NewBuffer(n),
		output:   pixel.NewBuffer(n),

		addBlend:    pixel.NewAddBlend(),
		normalBlend: pixel.NewNormalBlend(),

		errs:       make(chan error, 16),
		UpdateChan: make(chan struct{}, 1),
	}
}

// Model returns the bound model.
func (e *Engine) Model() *model.Model {
	return e.mod
}

// Errors surfaces recoverable errors. Buffered; never blocks the tick loop.
func (e *Engine) Errors() <-chan error {
	return e.errs
}

// Master returns the master bus carrying the master effect chain.
func (e *Engine) Master() *Bus {
	return &e.master
}

func (e *Engine) reportf(format string, args ...any) {
	err := fmt.Errorf(format, args...)
	debug.Log("mixer", "%v", err)
	select {
	case e.errs <- err:
	default:
	}
}

// resolveBlend looks up a blend by name, falling back to normal on an
// unknown name with a recoverable error.
func (e *Engine) resolveBlend(name string) pixel.Blend {
	if name == "" {
		return e.normalBlend
	}
	b, err := e.reg.Get(name)
	if err != nil {
		e.reportf("resolve blend: %v", err)
		return e.normalBlend
	}
	return b
}

// Strip management

// AddChannel appends a new channel strip.
func (e *Engine) AddChannel(name string) *Channel {
	e.mu.Lock()
	defer e.mu.Unlock()
	ch := newChannel(name, e.view, e.reg)
	e.strips = append(e.strips, ch)
	debug.Log("mixer", "added channel %s", name)
	return ch
}

// AddGroup appends a new, empty group strip.
func (e *Engine) AddGroup(name string) *Group {
	e.mu.Lock()
	defer e.mu.Unlock()
	g := newGroup(name, e.mod.PointCount())
	e.strips = append(e.strips, g)
	debug.Log("mixer", "added group %s", name)
	return g
}

// RemoveChannel removes a channel, stopping its worker and detaching any
// group membership first.
func (e *Engine) RemoveChannel(ch *Channel) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	ch.stopWorker()
	if ch.group != nil {
		return ch.group.removeChannel(ch)
	}
	for i, s := range e.strips {
		if s == Strip(ch) {
			e.strips = append(e.strips[:i], e.strips[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("channel %q is not in this mixer", ch.Name)
}

// RemoveGroup removes an empty group. Disposing a non-empty group is a
// programming error.
func (e *Engine) RemoveGroup(g *Group) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if len(g.members) > 0 {
		return fmt.Errorf("group %q is not empty", g.Name)
	}
	for i, s := range e.strips {
		if s == Strip(g) {
			e.strips = append(e.strips[:i], e.strips[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("group %q is not in this mixer", g.Name)
}

// GroupChannel moves a top-level channel into g.
func (e *Engine) GroupChannel(g *Group, ch *Channel) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if ch.group != nil {
		return fmt.Errorf("channel %q already belongs to group %q", ch.Name, ch.group.Name)
	}
	idx := -1
	for i, s := range e.strips {
		if s == Strip(ch) {
			idx = i
			break
		}
	}
	if idx < 0 {
		return fmt.Errorf("channel %q is not in this mixer", ch.Name)
	}
	e.strips = append(e.strips[:idx], e.strips[idx+1:]...)
	return g.addChannel(ch)
}

// UngroupChannel detaches ch from its group and returns it to the end of the
// top-level strip list.
func (e *Engine) UngroupChannel(ch *Channel) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if ch.group == nil {
		return fmt.Errorf("channel %q is not grouped", ch.Name)
	}
	if err := ch.group.removeChannel(ch); err != nil {
		return err
	}
	e.strips = append(e.strips, ch)
	return nil
}

// MoveStrip reorders s to index. Channel order is semantically a layer
// stack, so moves change the final composite. An invalid target is a
// recoverable error and a no-op.
func (e *Engine) MoveStrip(s Strip, index int) {
	e.mu.Lock()
	defer e.mu.Unlock()

	from := -1
	for i, existing := range e.strips {
		if existing == s {
			from = i
			break
		}
	}
	if from < 0 {
		e.reportf("moveStrip: strip %q is not top-level", s.bus().Name)
		return
	}
	if index < 0 || index >= len(e.strips) {
		e.reportf("moveStrip: index %d out of range [0,%d)", index, len(e.strips))
		return
	}
	e.strips = append(e.strips[:from], e.strips[from+1:]...)
	e.strips = append(e.strips[:index], append([]Strip{s}, e.strips[index:]...)...)
}

// Strips returns the top-level strip list in layer order.
func (e *Engine) Strips() []Strip {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]Strip, len(e.strips))
	copy(out, e.strips)
	return out
}

// Channels returns every single channel (grouped members included) in
// execution order.
func (e *Engine) Channels() []*Channel {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.renderChannels()
}

func (e *Engine) renderChannels() []*Channel {
	var chans []*Channel
	for _, s := range e.strips {
		switch v := s.(type) {
		case *Channel:
			chans = append(chans, v)
		case *Group:
			chans = append(chans, v.members...)
		}
	}
	return chans
}

// Outputs

// Output returns the final main buffer. Read-only for consumers; length
// always equals the model point count.
func (e *Engine) Output() *pixel.Buffer {
	return e.output
}

// CueOutput returns the cue monitor buffer.
func (e *Engine) CueOutput() *pixel.Buffer {
	return e.cue.Destination()
}

// AuxOutput returns the aux monitor buffer.
func (e *Engine) AuxOutput() *pixel.Buffer {
	return e.aux.Destination()
}

// CueActive reports whether the last tick carried any cue/aux content.
func (e *Engine) CueActive() bool {
	return e.cueActive
}

// Tick

// Tick advances the whole mixer by delta milliseconds.
func (e *Engine) Tick(delta float64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.tick(delta)
}

func (e *Engine) tick(delta float64) {
	chans := e.renderChannels()

	// 1. Channel execution. All channels complete before anything below
	// reads their buffers.
	if e.Threaded {
		for _, c := range chans {
			c.ensureWorker()
		}
		for _, c := range chans {
			c.work <- delta
		}
		for _, c := range chans {
			<-c.done
		}
	} else {
		for _, c := range chans {
			c.Render(delta)
		}
	}

	// 2. Group composite.
	for _, s := range e.strips {
		if g, ok := s.(*Group); ok && g.animating() {
			g.composite(delta, e.resolveBlend)
		}
	}

	// 3. Bus blend: route each top-level strip by crossfade tag; within a
	// stack later strips layer over earlier ones. Cued/auxed strips always
	// add into the monitor stacks regardless of routing.
	e.main.Begin()
	e.left.Begin()
	e.right.Begin()
	e.cue.Begin()
	e.aux.Begin()

	for _, s := range e.strips {
		b := s.bus()
		if b.Enabled && b.Fader > 0 {
			stack := e.main
			switch b.Crossfade {
			case CrossfadeA:
				stack = e.left
			case CrossfadeB:
				stack = e.right
			}
			stack.Blend(e.resolveBlend(b.BlendName), s.Buffer(), b.Fader)
		}
		if b.Cue {
			e.cue.Blend(e.addBlend, s.Buffer(), 1)
		}
		if b.Aux {
			e.aux.Blend(e.addBlend, s.Buffer(), 1)
		}
	}

	// Pattern-level cue/aux contributions, merged here on the orchestrator
	// so workers never write shared buffers.
	for _, c := range chans {
		if buf, active := c.engine.CueBuffer(); active {
			e.cue.Blend(e.addBlend, buf, 1)
		}
		if buf, active := c.engine.AuxBuffer(); active {
			e.aux.Blend(e.addBlend, buf, 1)
		}
	}

	// 4. Crossfade-group merge. With both sides live they cross-blend at
	// the crossfader position; a lone side is tapered so it fades out as
	// the crossfader moves away from it.
	x := clamp01(e.Crossfader.Position)
	aOn, bOn := e.left.Active(), e.right.Active()
	switch {
	case aOn && bOn:
		e.resolveBlend(e.Crossfader.BlendName).Lerp(e.left.Destination(), e.right.Destination(), x, e.crossBuf)
		e.main.Blend(e.addBlend, e.crossBuf, 1)
	case aOn:
		e.main.Blend(e.addBlend, e.left.Destination(), min(1, 2*(1-x)))
	case bOn:
		e.main.Blend(e.addBlend, e.right.Destination(), min(1, 2*x))
	}
	// An empty tick still produces fresh (blank) data
	e.main.Flatten()

	// 5. Final main buffer over black at the master fader, then master
	// effects in place.
	e.output.Fill(pixel.Black)
	e.normalBlend.Blend(e.output, e.main.Destination(), e.master.Fader, e.output)
	e.master.applyEffects(e.output, delta)

	// 6. Cue flag for this frame.
	e.cueActive = e.cue.Active() || e.aux.Active()
	e.cue.Flatten()
	e.aux.Flatten()
}

// Run drives the mixer at a fixed tick rate until ctx is cancelled, then
// stops every worker. Delta time is the configured frame interval, so output
// depends only on tick count.
func (e *Engine) Run(ctx context.Context, fps int) {
	if fps <= 0 {
		fps = 60
	}
	delta := 1000.0 / float64(fps)
	ticker := time.NewTicker(time.Second / time.Duration(fps))
	defer ticker.Stop()

	debug.Log("mixer", "run loop started at %d fps", fps)
	for {
		select {
		case <-ctx.Done():
			e.Dispose()
			return
		case <-ticker.C:
			e.Tick(delta)
			select {
			case e.UpdateChan <- struct{}{}:
			default:
			}
		}
	}
}

// Dispose interrupts every channel worker. Workers parked between ticks exit
// their wait instead of re-entering it.
func (e *Engine) Dispose() {
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, c := range e.renderChannels() {
		c.stopWorker()
	}
	debug.Log("mixer", "disposed")
}

// Mutation helpers for UI and control surfaces. All run under the engine
// lock so they never interleave with a tick.

// Do runs fn under the engine lock.
func (e *Engine) Do(fn func()) {
	e.mu.Lock()
	defer e.mu.Unlock()
	fn()
}

// SetCrossfader positions the crossfader, clamped to 0..1.
func (e *Engine) SetCrossfader(pos float64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.Crossfader.Position = clamp01(pos)
}

// SetFader sets a strip's fader, clamped to 0..1.
func (e *Engine) SetFader(s Strip, v float64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	s.bus().Fader = clamp01(v)
}

// ToggleEnabled flips a strip's enabled flag.
func (e *Engine) ToggleEnabled(s Strip) {
	e.mu.Lock()
	defer e.mu.Unlock()
	b := s.bus()
	b.Enabled = !b.Enabled
}
