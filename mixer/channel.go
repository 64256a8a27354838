package mixer

import (
	"time"

	"lightmix/debug"
	"lightmix/model"
	"lightmix/pattern"
	"lightmix/pixel"
)

// Channel is a mixer strip that plays patterns. Its buffer is private scratch
// during channel execution: written only by its own render path, read-only by
// the compositing steps after fan-in.
type Channel struct {
	Bus
	engine *pattern.Engine
	group  *Group

	// BudgetMs flags renders exceeding the budget in the debug log.
	// Observability only; compositing always proceeds. 0 disables.
	BudgetMs float64

	// Worker state for threaded execution. The worker is created lazily on
	// the first threaded tick and parks on the work channel between ticks.
	work    chan float64
	done    chan struct{}
	stop    chan struct{}
	started bool
}

func newChannel(name string, view *model.View, reg *pixel.Registry) *Channel {
	return &Channel{
		Bus:    newBus(name),
		engine: pattern.NewEngine(view, reg),
	}
}

// Patterns returns the channel's pattern engine.
func (c *Channel) Patterns() *pattern.Engine {
	return c.engine
}

// Buffer returns the channel's output buffer for the current tick.
func (c *Channel) Buffer() *pixel.Buffer {
	return c.engine.Buffer()
}

// Group returns the group this channel belongs to, or nil.
func (c *Channel) Group() *Group {
	return c.group
}

func (c *Channel) bus() *Bus { return &c.Bus }

// Render advances the channel by delta milliseconds: pattern engine first,
// then the channel's own effect chain over its buffer.
func (c *Channel) Render(delta float64) {
	start := time.Now()

	c.engine.Render(delta)
	c.applyEffects(c.engine.Buffer(), delta)

	if c.BudgetMs > 0 {
		elapsed := float64(time.Since(start).Microseconds()) / 1000
		if elapsed > c.BudgetMs {
			debug.Log("mixer", "channel %s over budget: %.2fms > %.2fms", c.Name, elapsed, c.BudgetMs)
		}
	}
}

// ensureWorker lazily starts the channel's worker goroutine.
func (c *Channel) ensureWorker() {
	if c.started {
		return
	}
	c.work = make(chan float64)
	c.done = make(chan struct{}, 1)
	c.stop = make(chan struct{})
	c.started = true
	go c.workerLoop()
}

// workerLoop parks on the work channel between ticks. A closed stop channel
// wins over pending work, so disposal interrupts the parked wait and the
// worker exits instead of re-entering it.
func (c *Channel) workerLoop() {
	for {
		select {
		case <-c.stop:
			debug.Log("mixer", "channel %s worker stopped", c.Name)
			return
		case delta := <-c.work:
			c.Render(delta)
			c.done <- struct{}{}
		}
	}
}

// stopWorker interrupts a parked worker. Safe to call when none was started.
func (c *Channel) stopWorker() {
	if !c.started {
		return
	}
	close(c.stop)
	c.started = false
}
