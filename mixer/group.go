package mixer

import (
	"fmt"

	"lightmix/pixel"
)

// Group is a mixer strip that composites member channels. Members render like
// any channel; the group folds their finished buffers together (member order,
// later over earlier, each via its own blend and fader) and then runs its own
// effect chain.
type Group struct {
	Bus
	members []*Channel
	stack   *pixel.BlendStack
}

func newGroup(name string, size int) *Group {
	return &Group{
		Bus:   newBus(name),
		stack: pixel.NewBlendStackBase(size, pixel.Black),
	}
}

// Members returns the member channels in composite order.
func (g *Group) Members() []*Channel {
	return g.members
}

// Buffer returns the group's composited output for the current tick.
func (g *Group) Buffer() *pixel.Buffer {
	return g.stack.Destination()
}

func (g *Group) bus() *Bus { return &g.Bus }

func (g *Group) animating() bool { return len(g.members) > 0 }

func (g *Group) addChannel(ch *Channel) error {
	if ch.group != nil {
		return fmt.Errorf("channel %q already belongs to group %q", ch.Name, ch.group.Name)
	}
	ch.group = g
	g.members = append(g.members, ch)
	return nil
}

func (g *Group) removeChannel(ch *Channel) error {
	for i, m := range g.members {
		if m == ch {
			g.members = append(g.members[:i], g.members[i+1:]...)
			ch.group = nil
			return nil
		}
	}
	return fmt.Errorf("channel %q is not a member of group %q", ch.Name, g.Name)
}

// composite folds the members' already-computed buffers into the group
// buffer, then applies the group's effect chain. Runs on the orchestrator
// after all channels completed.
func (g *Group) composite(delta float64, resolve func(string) pixel.Blend) {
	g.stack.Begin()
	for _, m := range g.members {
		if !m.Enabled || m.Fader <= 0 {
			continue
		}
		g.stack.Blend(resolve(m.BlendName), m.Buffer(), m.Fader)
	}
	g.stack.Flatten()
	g.applyEffects(g.stack.Destination(), delta)
}
