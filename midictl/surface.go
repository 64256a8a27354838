package midictl

import (
	"context"

	"lightmix/debug"
	"lightmix/mixer"
)

// Surface binds a grid controller to a mixer: pads launch patterns, CCs move
// faders and the crossfader, and the grid LEDs mirror pattern state.
//
// Grid layout: the top grid row is channel 0, one channel per row, one pattern
// slot per column. The right side column toggles the row's channel on/off.
type Surface struct {
	ctrl Controller
	mix  *mixer.Engine

	// FaderCCBase+i maps to channel i's fader; CrossfaderCC to the crossfader.
	FaderCCBase  int
	CrossfaderCC int

	// last holds the most recent LED state sent per pad, so a sync only
	// transmits changed pads.
	last     [9][9][3]uint8
	lastMode [9][9]uint8
}

// NewSurface binds ctrl to mix.
func NewSurface(ctrl Controller, mix *mixer.Engine) *Surface {
	return &Surface{
		ctrl:         ctrl,
		mix:          mix,
		FaderCCBase:  21,
		CrossfaderCC: 14,
	}
}

// Run consumes controller events and refreshes LED feedback after every mixer
// tick. Blocking - run in a goroutine.
func (s *Surface) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-s.ctrl.PadEvents():
			if !ok {
				return
			}
			s.handlePad(ev)
		case ev, ok := <-s.ctrl.CCEvents():
			if !ok {
				return
			}
			s.handleCC(ev)
		case <-s.mix.UpdateChan:
			s.sync()
		}
	}
}

func (s *Surface) handlePad(ev PadEvent) {
	if ev.Row > 7 {
		return
	}
	ch := s.channelAt(7 - ev.Row)
	if ch == nil {
		return
	}

	// Side column toggles the channel, grid columns launch patterns
	if ev.Col == 8 {
		s.mix.ToggleEnabled(ch)
		debug.Log("surface", "pad toggled channel %s", ch.Name)
		return
	}
	s.mix.Do(func() {
		ch.Patterns().GoPatternIndex(ev.Col)
	})
}

func (s *Surface) handleCC(ev CCEvent) {
	v := float64(ev.Value) / 127

	if int(ev.Controller) == s.CrossfaderCC {
		s.mix.SetCrossfader(v)
		return
	}
	idx := int(ev.Controller) - s.FaderCCBase
	switch {
	case idx >= 0 && idx < 8:
		if ch := s.channelAt(idx); ch != nil {
			s.mix.SetFader(ch, v)
		}
	case idx == 8:
		// The fader after the channel bank is the master
		s.mix.Do(func() { s.mix.Master().Fader = v })
	}
}

// channelAt returns the i-th channel in execution order, or nil.
func (s *Surface) channelAt(i int) *mixer.Channel {
	chans := s.mix.Channels()
	if i < 0 || i >= len(chans) {
		return nil
	}
	return chans[i]
}

// sync diffs the wanted grid state against what was last sent and flushes
// only the changed pads.
func (s *Surface) sync() {
	var want [9][9][3]uint8
	var mode [9][9]uint8

	chans := s.mix.Channels()
	for i, ch := range chans {
		if i >= 8 {
			break
		}
		row := 7 - i
		eng := ch.Patterns()
		slots := eng.Patterns()
		active := eng.ActiveIndex()
		next := eng.NextIndex()

		for col := 0; col < 8 && col < len(slots); col++ {
			switch {
			case col == active:
				want[row][col] = [3]uint8{255, 255, 255}
			case col == next && eng.InTransition():
				want[row][col] = [3]uint8{255, 200, 0}
				mode[row][col] = ChannelPulse
			case slots[col].Enabled:
				want[row][col] = [3]uint8{0, 100, 255}
			default:
				want[row][col] = [3]uint8{30, 30, 30}
			}
		}

		// Side column mirrors the channel enable state
		if ch.Enabled {
			want[row][8] = [3]uint8{0, 255, 0}
		} else {
			want[row][8] = [3]uint8{100, 0, 0}
		}
	}

	var updates []LEDUpdate
	for row := 0; row < 9; row++ {
		for col := 0; col < 9; col++ {
			if want[row][col] != s.last[row][col] || mode[row][col] != s.lastMode[row][col] {
				updates = append(updates, LEDUpdate{
					Row:     row,
					Col:     col,
					Color:   want[row][col],
					Channel: mode[row][col],
				})
				s.last[row][col] = want[row][col]
				s.lastMode[row][col] = mode[row][col]
			}
		}
	}
	s.ctrl.SetLEDBatch(updates)
}
