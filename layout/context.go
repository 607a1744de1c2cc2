// SPDX-License-Identifier: Unlicense OR MIT

package layout

import (
	"fmt"
	"sync/atomic"

	"go.uber.org/zap"

	"clayui.org/f32"
	"clayui.org/internal/arena"
	"clayui.org/internal/engine"
)

// Context owns the memory and engine state of one layout universe.
// Contexts are independent of each other; a Context must be driven
// from one goroutine, except for Stats.
type Context struct {
	eng *engine.Engine
	drv driver
	// pass is the pass in progress, if any.
	pass *Pass
	// version is incremented at each Begin and at Close. Command
	// views are stamped with it.
	version uint32
	closed  bool

	stats stats
}

// driver is the protocol through which a pass declares elements.
type driver interface {
	BeginLayout()
	OpenElement()
	AttachID(id ElementID)
	AttachLayout(l Layout)
	AttachConfig(c Config)
	PostConfiguration()
	CloseElement()
	EndLayout() ([]engine.Command, error)
}

// Stats is a snapshot of a Context's activity.
type Stats struct {
	// Passes is the number of completed passes.
	Passes uint64
	// Commands is the number of commands of the last pass.
	Commands int
	// Errors is the number of passes that reported an error.
	Errors uint64
	// Arena is the memory usage after the last pass.
	Arena arena.Metrics
}

type stats struct {
	passes    atomic.Uint64
	commands  atomic.Int64
	errors    atomic.Uint64
	inUse     atomic.Int64
	capacity  atomic.Int64
	peak      atomic.Int64
	overflows atomic.Int64
}

// New creates a Context for a layout of the given size. It reserves
// all the memory a pass within the configured limits needs.
func New(width, height float32, opts ...Option) (*Context, error) {
	o := newOptions(opts)
	a, err := arena.New(engine.MinMemorySize(o.limits))
	if err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}
	eng, err := engine.New(a, f32.Pt(width, height), o.limits, o.engine)
	if err != nil {
		a.Release()
		return nil, fmt.Errorf("layout: %w", err)
	}
	c := &Context{eng: eng, drv: eng}
	c.stats.capacity.Store(int64(eng.ArenaMetrics().Capacity))
	Logger().Debug("context created",
		zap.Float32("width", width),
		zap.Float32("height", height),
		zap.Int("max_elements", eng.Limits().MaxElements),
		zap.Int("arena_bytes", eng.ArenaMetrics().Capacity),
	)
	return c, nil
}

// Begin starts a pass. Only one pass may be in progress; commands of
// the previous pass become invalid.
func (c *Context) Begin() *Pass {
	c.checkOpen()
	if c.pass != nil {
		panic("layout: pass already in progress")
	}
	c.version++
	c.drv.BeginLayout()
	c.pass = &Pass{ctx: c}
	return c.pass
}

// Close releases the Context's memory. Closing twice is a no-op;
// any other use after Close panics, as does Close while a pass is in
// progress.
func (c *Context) Close() {
	if c.closed {
		return
	}
	if c.pass != nil {
		panic("layout: Close during pass")
	}
	c.closed = true
	c.version++
	c.pass = nil
	if c.eng != nil {
		c.eng.Release()
	}
	c.stats.inUse.Store(0)
	c.stats.capacity.Store(0)
	Logger().Debug("context closed")
}

// MaxElements returns the number of elements a pass can declare
// before elements are dropped.
func (c *Context) MaxElements() int {
	return c.eng.Limits().MaxElements
}

// Closed reports whether Close has been called.
func (c *Context) Closed() bool {
	return c.closed
}

// SetDimensions resizes the layout. It takes effect at the end of the
// current or next pass.
func (c *Context) SetDimensions(width, height float32) {
	c.checkOpen()
	c.eng.SetDimensions(f32.Pt(width, height))
}

func (c *Context) Dimensions() f32.Point {
	c.checkOpen()
	return c.eng.Dimensions()
}

// Bounds returns the bounds of the element with the given ID in the
// last completed pass.
func (c *Context) Bounds(id ElementID) (f32.Rectangle, bool) {
	c.checkOpen()
	return c.eng.Bounds(id.ID)
}

// ScrollData returns the dimensions of the scroll container with the
// given ID in the last completed pass.
func (c *Context) ScrollData(id ElementID) (ScrollData, bool) {
	c.checkOpen()
	return c.eng.ScrollData(id.ID)
}

// SetScrollOffset offsets the children of the scroll container with the
// given ID from the next pass on.
func (c *Context) SetScrollOffset(id ElementID, off f32.Point) {
	c.checkOpen()
	c.eng.SetScrollOffset(id.ID, off)
}

// Stats returns a snapshot of the Context's activity. It is safe to
// call concurrently with passes.
func (c *Context) Stats() Stats {
	return Stats{
		Passes:   c.stats.passes.Load(),
		Commands: int(c.stats.commands.Load()),
		Errors:   c.stats.errors.Load(),
		Arena: arena.Metrics{
			InUse:     int(c.stats.inUse.Load()),
			Capacity:  int(c.stats.capacity.Load()),
			Peak:      int(c.stats.peak.Load()),
			Overflows: int(c.stats.overflows.Load()),
		},
	}
}

func (c *Context) record(commands int, err error) {
	c.stats.passes.Add(1)
	c.stats.commands.Store(int64(commands))
	if err != nil {
		c.stats.errors.Add(1)
	}
	if c.eng != nil {
		m := c.eng.ArenaMetrics()
		c.stats.inUse.Store(int64(m.InUse))
		c.stats.peak.Store(int64(m.Peak))
		c.stats.overflows.Store(int64(m.Overflows))
	}
}

func (c *Context) checkOpen() {
	if c.closed {
		panic("layout: use after Close")
	}
}
