package pattern

import (
	"fmt"
	"math/rand"

	"lightmix/debug"
	"lightmix/model"
	"lightmix/pixel"
)

// NoPattern marks an empty active or next slot.
const NoPattern = -1

// CompositeMode selects how the engine combines its pattern list.
type CompositeMode int

const (
	// Playlist plays one active pattern with discrete transitions.
	Playlist CompositeMode = iota
	// Blend layers every enabled pattern concurrently with damping ramps.
	Blend
)

func (m CompositeMode) String() string {
	if m == Blend {
		return "blend"
	}
	return "playlist"
}

// CycleMode selects the auto-cycle navigation behavior.
type CycleMode int

const (
	CycleNext CycleMode = iota
	CycleRandom
)

// Listener observes pattern list and activation changes. Notification uses a
// snapshot of the listener list, so listeners may add or remove listeners
// (or patterns) from inside a callback.
type Listener interface {
	PatternAdded(s *Slot)
	PatternRemoved(s *Slot)
	PatternDidChange(s *Slot)
}

// transition is the transient active→next crossfade. It exists only between a
// pattern-change request and its completion.
type transition struct {
	blend      pixel.Blend
	elapsed    float64
	durationMs float64
}

// Engine owns one channel's pattern list, the active/next transition state
// machine, auto-cycle, and the composite mode.
type Engine struct {
	view *model.View
	reg  *pixel.Registry

	slots       []*Slot
	activeIndex int
	nextIndex   int
	trans       *transition
	mode        CompositeMode

	// Transition settings
	TransitionsEnabled   bool
	TransitionDurationMs float64
	TransitionBlend      string

	// Auto-cycle settings
	AutoCycleEnabled bool
	AutoCycleMode    CycleMode
	AutoCycleMs      float64
	cycleClock       float64 // ms since the last transition completed

	// BLEND mode damping settings
	DampingEnabled bool
	DampingMs      float64

	buf       *pixel.Buffer
	listeners []Listener
	errs      chan error
	rng       *rand.Rand

	// Private cue/aux accumulation. Cued/auxed slots add into these during
	// Render regardless of composite mode; the mixer merges them after
	// fan-in, so channel workers never touch shared buffers.
	cueBuf    *pixel.Buffer
	auxBuf    *pixel.Buffer
	cueActive bool
	auxActive bool
	monBlend  pixel.Blend
}

// NewEngine creates a pattern engine rendering against the given view.
func NewEngine(view *model.View, reg *pixel.Registry) *Engine {
	return &Engine{
		view:        view,
		reg:         reg,
		activeIndex: NoPattern,
		nextIndex:   NoPattern,

		TransitionsEnabled:   true,
		TransitionDurationMs: 1000,
		TransitionBlend:      "dissolve",

		AutoCycleMode: CycleNext,
		AutoCycleMs:   60000,

		DampingEnabled: true,
		DampingMs:      1000,

		buf:      pixel.NewBuffer(view.Size()),
		cueBuf:   pixel.NewBuffer(view.Size()),
		auxBuf:   pixel.NewBuffer(view.Size()),
		monBlend: pixel.NewAddBlend(),
		errs:     make(chan error, 16),
		rng:      rand.New(rand.NewSource(1)),
	}
}

// Buffer returns the engine's output buffer for the current tick.
func (e *Engine) Buffer() *pixel.Buffer {
	return e.buf
}

// View returns the view the engine renders against.
func (e *Engine) View() *model.View {
	return e.view
}

// Errors surfaces recoverable errors (invalid navigation and the like). The
// channel is buffered and never blocks the engine; unread errors are dropped.
func (e *Engine) Errors() <-chan error {
	return e.errs
}

// Seed reseeds random navigation, for deterministic tests.
func (e *Engine) Seed(seed int64) {
	e.rng = rand.New(rand.NewSource(seed))
}

// CueBuffer returns this tick's cue monitor contribution; active is false
// when no cued slot rendered.
func (e *Engine) CueBuffer() (buf *pixel.Buffer, active bool) {
	return e.cueBuf, e.cueActive
}

// AuxBuffer returns this tick's aux monitor contribution.
func (e *Engine) AuxBuffer() (buf *pixel.Buffer, active bool) {
	return e.auxBuf, e.auxActive
}

func (e *Engine) reportf(format string, args ...any) {
	err := fmt.Errorf(format, args...)
	debug.Log("pattern", "%v", err)
	select {
	case e.errs <- err:
	default:
	}
}

// List and index accessors

// Patterns returns the slot list in order. Callers must not mutate it.
func (e *Engine) Patterns() []*Slot {
	return e.slots
}

// ActiveIndex returns the active slot index, or NoPattern.
func (e *Engine) ActiveIndex() int {
	return e.activeIndex
}

// NextIndex returns the pending transition target, or NoPattern.
func (e *Engine) NextIndex() int {
	return e.nextIndex
}

// ActiveSlot returns the active slot, or nil.
func (e *Engine) ActiveSlot() *Slot {
	if e.activeIndex == NoPattern {
		return nil
	}
	return e.slots[e.activeIndex]
}

// InTransition reports whether a transition is running.
func (e *Engine) InTransition() bool {
	return e.trans != nil
}

// TransitionProgress returns the running transition's progress 0..1.
func (e *Engine) TransitionProgress() float64 {
	if e.trans == nil {
		return 0
	}
	return pixelClamp01(e.trans.elapsed / e.trans.durationMs)
}

// CompositeMode returns the current composite mode.
func (e *Engine) CompositeMode() CompositeMode {
	return e.mode
}

func (e *Engine) indexOf(p Pattern) int {
	for i, s := range e.slots {
		if s.Pattern == p {
			return i
		}
	}
	return NoPattern
}

// Listeners

// AddListener registers l. Duplicate registration is a programming error.
func (e *Engine) AddListener(l Listener) error {
	for _, existing := range e.listeners {
		if existing == l {
			return fmt.Errorf("listener already registered")
		}
	}
	e.listeners = append(e.listeners, l)
	return nil
}

// RemoveListener unregisters l. Removing a non-member is a programming error.
func (e *Engine) RemoveListener(l Listener) error {
	for i, existing := range e.listeners {
		if existing == l {
			e.listeners = append(e.listeners[:i], e.listeners[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("listener not registered")
}

func (e *Engine) snapshotListeners() []Listener {
	out := make([]Listener, len(e.listeners))
	copy(out, e.listeners)
	return out
}

func (e *Engine) notifyAdded(s *Slot) {
	for _, l := range e.snapshotListeners() {
		l.PatternAdded(s)
	}
}

func (e *Engine) notifyRemoved(s *Slot) {
	for _, l := range e.snapshotListeners() {
		l.PatternRemoved(s)
	}
}

func (e *Engine) notifyDidChange(s *Slot) {
	for _, l := range e.snapshotListeners() {
		l.PatternDidChange(s)
	}
}

// Mutation

// AddPattern appends a pattern and returns its slot. The very first pattern
// added becomes active immediately, with no transition.
func (e *Engine) AddPattern(p Pattern) *Slot {
	return e.AddPatternAt(p, len(e.slots))
}

// AddPatternAt inserts a pattern at index, preserving active/next identity
// across the renumbering.
func (e *Engine) AddPatternAt(p Pattern, index int) *Slot {
	if index < 0 {
		index = 0
	}
	if index > len(e.slots) {
		index = len(e.slots)
	}

	s := &Slot{
		Pattern:           p,
		Enabled:           true,
		AutoCycleEligible: true,
		CompositeLevel:    1,
		buf:               pixel.NewBuffer(e.view.Size()),
	}

	e.slots = append(e.slots, nil)
	copy(e.slots[index+1:], e.slots[index:])
	e.slots[index] = s

	if index <= e.activeIndex {
		e.activeIndex++
	}
	if e.nextIndex != NoPattern && index <= e.nextIndex {
		e.nextIndex++
	}

	e.notifyAdded(s)

	if len(e.slots) == 1 {
		e.activeIndex = 0
		s.activate()
		e.notifyDidChange(s)
	}
	return s
}

// RemovePattern removes p from the list, resolving any running transition it
// participates in: a pending next target is cancelled, an outgoing active
// pattern is finished first. All indices are re-derived to stay valid.
func (e *Engine) RemovePattern(p Pattern) error {
	idx := e.indexOf(p)
	if idx == NoPattern {
		return fmt.Errorf("pattern %q is not in this engine", p.Name())
	}

	if e.trans != nil {
		switch idx {
		case e.nextIndex:
			e.cancelTransition()
		case e.activeIndex:
			e.finishTransition()
			idx = e.indexOf(p) // unchanged, but keep the derivation explicit
		}
	}

	s := e.slots[idx]
	wasActive := idx == e.activeIndex

	e.slots = append(e.slots[:idx], e.slots[idx+1:]...)

	if wasActive {
		s.deactivate()
		if len(e.slots) == 0 {
			e.activeIndex = NoPattern
		} else {
			if e.activeIndex >= len(e.slots) {
				e.activeIndex = len(e.slots) - 1
			}
			e.slots[e.activeIndex].activate()
			e.notifyDidChange(e.slots[e.activeIndex])
		}
	} else {
		s.deactivate()
		if idx < e.activeIndex {
			e.activeIndex--
		}
		if e.nextIndex != NoPattern && idx < e.nextIndex {
			e.nextIndex--
		}
	}

	e.notifyRemoved(s)
	return nil
}

// Navigation (PLAYLIST mode)

// GoPatternIndex jumps to the pattern at index i, force-finishing any running
// transition first. Transitions never queue.
func (e *Engine) GoPatternIndex(i int) {
	if e.mode != Playlist {
		e.reportf("goPatternIndex: not in playlist mode")
		return
	}
	if i < 0 || i >= len(e.slots) {
		e.reportf("goPatternIndex: index %d out of range [0,%d)", i, len(e.slots))
		return
	}
	if e.trans != nil {
		e.finishTransition()
	}
	e.startTransition(i)
}

// GoPattern jumps to the given pattern.
func (e *Engine) GoPattern(p Pattern) {
	idx := e.indexOf(p)
	if idx == NoPattern {
		e.reportf("goPattern: pattern %q is not in this engine", p.Name())
		return
	}
	e.GoPatternIndex(idx)
}

// GoNextPattern advances circularly, skipping auto-cycle-ineligible patterns.
// A no-op if a transition is running or no eligible alternative exists.
func (e *Engine) GoNextPattern() {
	e.goOffset(1)
}

// GoPreviousPattern steps backwards circularly.
func (e *Engine) GoPreviousPattern() {
	e.goOffset(-1)
}

func (e *Engine) goOffset(dir int) {
	if e.mode != Playlist {
		e.reportf("playlist navigation: not in playlist mode")
		return
	}
	if e.trans != nil || len(e.slots) == 0 || e.activeIndex == NoPattern {
		return
	}
	n := len(e.slots)
	for i := 1; i < n; i++ {
		idx := ((e.activeIndex+dir*i)%n + n) % n
		if e.slots[idx].AutoCycleEligible {
			e.startTransition(idx)
			return
		}
	}
	// Wrapped back without an alternative: no-op
}

// GoRandomPattern samples uniformly among eligible patterns excluding the
// active one. A no-op if a transition is running.
func (e *Engine) GoRandomPattern() {
	if e.mode != Playlist {
		e.reportf("goRandomPattern: not in playlist mode")
		return
	}
	if e.trans != nil {
		return
	}
	var eligible []int
	for i, s := range e.slots {
		if i != e.activeIndex && s.AutoCycleEligible {
			eligible = append(eligible, i)
		}
	}
	if len(eligible) == 0 {
		return
	}
	e.startTransition(eligible[e.rng.Intn(len(eligible))])
}

// SetActiveIndex is an instant cut to index i with no transition, used when
// reapplying a loaded project. Out of range is a recoverable error.
func (e *Engine) SetActiveIndex(i int) {
	if i < 0 || i >= len(e.slots) {
		e.reportf("setActiveIndex: index %d out of range [0,%d)", i, len(e.slots))
		return
	}
	if e.trans != nil {
		e.finishTransition()
	}
	if i == e.activeIndex {
		return
	}
	if e.activeIndex != NoPattern {
		e.slots[e.activeIndex].deactivate()
	}
	e.activeIndex = i
	e.slots[i].activate()
	e.cycleClock = 0
	e.notifyDidChange(e.slots[i])
}

// Transition state machine

// startTransition begins the active→next change. The next pattern is
// activated before any pixel is produced; with transitions disabled this is an
// immediate hard cut.
func (e *Engine) startTransition(next int) {
	if next == e.activeIndex {
		return
	}
	e.nextIndex = next
	e.slots[next].activate()

	if !e.TransitionsEnabled || e.TransitionDurationMs <= 0 {
		e.finishTransition()
		return
	}

	blend, err := e.reg.Get(e.TransitionBlend)
	if err != nil {
		e.reportf("transition blend: %v", err)
		e.finishTransition()
		return
	}
	e.trans = &transition{blend: blend, durationMs: e.TransitionDurationMs}
	debug.Log("pattern", "transition %d -> %d (%s, %.0fms)", e.activeIndex, next, blend.Name(), e.TransitionDurationMs)
}

// finishTransition completes the change: the previously-active pattern is
// deactivated, next becomes active, and the auto-cycle timer resets.
func (e *Engine) finishTransition() {
	if e.nextIndex == NoPattern {
		return
	}
	if e.activeIndex != NoPattern {
		e.slots[e.activeIndex].deactivate()
	}
	e.activeIndex = e.nextIndex
	e.nextIndex = NoPattern
	e.trans = nil
	e.cycleClock = 0
	e.notifyDidChange(e.slots[e.activeIndex])
}

// cancelTransition is the inverse of finish: next is deactivated and the
// active pattern is unchanged. patternDidChange still fires once so listeners
// tracking the pending change stay consistent.
func (e *Engine) cancelTransition() {
	if e.nextIndex == NoPattern {
		return
	}
	e.slots[e.nextIndex].deactivate()
	e.nextIndex = NoPattern
	e.trans = nil
	e.cycleClock = 0
	e.notifyDidChange(e.slots[e.activeIndex])
}

// Composite mode

// SetCompositeMode switches between PLAYLIST and BLEND, force-finishing any
// running transition. Entering BLEND seeds the active pattern's damping at 1
// and all others at 0; leaving BLEND deactivates every non-active pattern and
// clears cue/aux flags, leaving exactly one active pattern.
func (e *Engine) SetCompositeMode(m CompositeMode) {
	if m == e.mode {
		return
	}
	if e.trans != nil {
		e.finishTransition()
	}

	e.mode = m
	if m == Blend {
		for i, s := range e.slots {
			if i == e.activeIndex {
				s.damping = 1
			} else {
				s.damping = 0
			}
		}
	} else {
		for i, s := range e.slots {
			if i != e.activeIndex {
				s.deactivate()
				s.damping = 0
			}
			s.Cue = false
			s.Aux = false
		}
	}
	debug.Log("pattern", "composite mode -> %s", m)
}

// Rendering

// Render advances the engine by delta milliseconds and fills the output
// buffer. With zero patterns the output is transparent, so upstream layered
// accumulation is never corrupted by stale data.
func (e *Engine) Render(delta float64) {
	e.cueActive = false
	e.auxActive = false
	if e.mode == Blend {
		e.renderBlend(delta)
		return
	}
	e.renderPlaylist(delta)
}

func (e *Engine) renderPlaylist(delta float64) {
	if e.activeIndex == NoPattern {
		e.buf.Fill(pixel.Transparent)
		return
	}

	e.advanceAutoCycle(delta)

	active := e.slots[e.activeIndex]

	if e.trans != nil {
		next := e.slots[e.nextIndex]
		// Both stay live for the whole transition
		active.render(delta, e.view)
		next.render(delta, e.view)

		e.trans.elapsed += delta
		progress := e.trans.elapsed / e.trans.durationMs
		if progress >= 1 {
			e.finishTransition()
			e.buf.CopyFrom(next.buf)
		} else {
			e.trans.blend.Lerp(active.buf, next.buf, progress, e.buf)
		}
		e.renderMonitors(active, next)
		return
	}

	active.render(delta, e.view)
	e.buf.CopyFrom(active.buf)
	e.renderMonitors(active)
}

func (e *Engine) renderBlend(delta float64) {
	// Layers composite over opaque black so the finished buffer carries full
	// alpha and downstream faders scale it exactly once.
	e.buf.Fill(pixel.Black)

	var monitored []*Slot
	for _, s := range e.slots {
		e.advanceDamping(s, delta)

		// Fully faded-out layers are skipped entirely
		if !s.Enabled && s.damping <= 0 {
			s.deactivate()
			continue
		}

		s.activate()
		s.render(delta, e.view)

		alpha := s.damping * s.CompositeLevel
		if alpha > 0 {
			blend := e.compositeBlend(s)
			blend.Blend(e.buf, s.buf, alpha, e.buf)
		}
		monitored = append(monitored, s)
	}
	e.renderMonitors(monitored...)
}

func (e *Engine) compositeBlend(s *Slot) pixel.Blend {
	name := s.CompositeBlend
	if name == "" {
		name = "normal"
	}
	b, err := e.reg.Get(name)
	if err != nil {
		e.reportf("composite blend: %v", err)
		return pixel.NewNormalBlend()
	}
	return b
}

// advanceDamping ramps the slot's damping toward 1 when enabled and 0 when
// disabled over the configured duration, instantly when damping is off. The
// ramp clamps at the target and never overshoots.
func (e *Engine) advanceDamping(s *Slot, delta float64) {
	target := 0.0
	if s.Enabled {
		target = 1.0
	}
	if !e.DampingEnabled || e.DampingMs <= 0 {
		s.damping = target
		return
	}
	step := delta / e.DampingMs
	if s.damping < target {
		s.damping = min(s.damping+step, target)
	} else if s.damping > target {
		s.damping = max(s.damping-step, target)
	}
}

// advanceAutoCycle triggers next/random navigation once the cycle timer
// elapses. A pattern-local custom cycle time overrides the engine default.
func (e *Engine) advanceAutoCycle(delta float64) {
	if !e.AutoCycleEnabled || e.trans != nil {
		return
	}
	e.cycleClock += delta

	cycleMs := e.AutoCycleMs
	if s := e.ActiveSlot(); s != nil && s.CustomCycleMs > 0 {
		cycleMs = s.CustomCycleMs
	}
	if cycleMs <= 0 || e.cycleClock < cycleMs {
		return
	}
	e.cycleClock = 0
	switch e.AutoCycleMode {
	case CycleRandom:
		e.GoRandomPattern()
	default:
		e.GoNextPattern()
	}
}

// renderMonitors adds cued/auxed slots into the engine's private monitor
// buffers for this tick.
func (e *Engine) renderMonitors(slots ...*Slot) {
	for _, s := range slots {
		if s.Cue {
			if !e.cueActive {
				e.cueBuf.Fill(pixel.Transparent)
				e.cueActive = true
			}
			e.monBlend.Blend(e.cueBuf, s.buf, 1, e.cueBuf)
		}
		if s.Aux {
			if !e.auxActive {
				e.auxBuf.Fill(pixel.Transparent)
				e.auxActive = true
			}
			e.monBlend.Blend(e.auxBuf, s.buf, 1, e.auxBuf)
		}
	}
}

func pixelClamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
