package midictl

import (
	"testing"

	"lightmix/mixer"
	"lightmix/model"
	"lightmix/pattern"
	"lightmix/pixel"
)

// fakeController records LED traffic and feeds events synchronously.
type fakeController struct {
	pads    chan PadEvent
	ccs     chan CCEvent
	batches [][]LEDUpdate
}

func newFakeController() *fakeController {
	return &fakeController{
		pads: make(chan PadEvent, 8),
		ccs:  make(chan CCEvent, 8),
	}
}

func (f *fakeController) ID() string                 { return "fake" }
func (f *fakeController) Type() ControllerType       { return ControllerLaunchpad }
func (f *fakeController) PadEvents() <-chan PadEvent { return f.pads }
func (f *fakeController) CCEvents() <-chan CCEvent   { return f.ccs }
func (f *fakeController) Close() error               { return nil }

func (f *fakeController) SetLEDRGB(row, col int, rgb [3]uint8, channel uint8) error {
	return f.SetLEDBatch([]LEDUpdate{{Row: row, Col: col, Color: rgb, Channel: channel}})
}

func (f *fakeController) SetLEDBatch(updates []LEDUpdate) error {
	f.batches = append(f.batches, updates)
	return nil
}

func newTestSurface(t *testing.T) (*Surface, *fakeController, *mixer.Engine) {
	t.Helper()
	mix := mixer.NewEngine(model.NewStrip(8), pixel.DefaultRegistry())
	ch := mix.AddChannel("one")
	eng := ch.Patterns()
	eng.TransitionsEnabled = false
	eng.AddPattern(pattern.NewSolid(pixel.RGB(255, 0, 0)))
	eng.AddPattern(pattern.NewSolid(pixel.RGB(0, 255, 0)))
	eng.AddPattern(pattern.NewSolid(pixel.RGB(0, 0, 255)))

	ctrl := newFakeController()
	return NewSurface(ctrl, mix), ctrl, mix
}

func TestPadLaunchesPattern(t *testing.T) {
	s, _, mix := newTestSurface(t)

	// Channel 0 lives on the top grid row
	s.handlePad(PadEvent{Row: 7, Col: 2, Velocity: 127})

	if got := mix.Channels()[0].Patterns().ActiveIndex(); got != 2 {
		t.Fatalf("active index = %d, want 2", got)
	}
}

func TestSidePadTogglesChannel(t *testing.T) {
	s, _, mix := newTestSurface(t)

	s.handlePad(PadEvent{Row: 7, Col: 8, Velocity: 127})
	if mix.Channels()[0].Enabled {
		t.Fatal("channel still enabled after side pad toggle")
	}
}

func TestPadOnEmptyRowIsIgnored(t *testing.T) {
	s, _, _ := newTestSurface(t)
	s.handlePad(PadEvent{Row: 0, Col: 0, Velocity: 127}) // no channel 7
}

func TestCCMovesFader(t *testing.T) {
	s, _, mix := newTestSurface(t)

	s.handleCC(CCEvent{Controller: uint8(s.FaderCCBase), Value: 127})
	if got := mix.Channels()[0].Fader; got != 1 {
		t.Fatalf("fader = %v, want 1", got)
	}

	s.handleCC(CCEvent{Controller: uint8(s.FaderCCBase), Value: 0})
	if got := mix.Channels()[0].Fader; got != 0 {
		t.Fatalf("fader = %v, want 0", got)
	}
}

func TestCCMovesCrossfader(t *testing.T) {
	s, _, mix := newTestSurface(t)

	s.handleCC(CCEvent{Controller: uint8(s.CrossfaderCC), Value: 127})
	if got := mix.Crossfader.Position; got != 1 {
		t.Fatalf("crossfader = %v, want 1", got)
	}
}

func TestSyncOnlySendsChanges(t *testing.T) {
	s, ctrl, _ := newTestSurface(t)

	s.sync()
	if len(ctrl.batches) != 1 || len(ctrl.batches[0]) == 0 {
		t.Fatal("first sync must paint the grid")
	}

	s.sync()
	if len(ctrl.batches[1]) != 0 {
		t.Fatalf("second sync sent %d updates, want 0", len(ctrl.batches[1]))
	}

	// A pattern launch changes exactly the affected pads
	s.handlePad(PadEvent{Row: 7, Col: 1, Velocity: 127})
	s.sync()
	if len(ctrl.batches[2]) == 0 {
		t.Fatal("sync after a launch must repaint the changed pads")
	}
}
