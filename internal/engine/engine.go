// SPDX-License-Identifier: Unlicense OR MIT

// Package engine resolves declared element trees into positioned
// render commands.
//
// An Engine lives inside one arena. A pass starts with BeginLayout,
// serializes every element and configuration as ops while the caller
// declares, and ends with EndLayout, which decodes the ops into element
// records, sizes and positions them and emits the render commands.
package engine

import (
	"errors"
	"fmt"

	"go.uber.org/multierr"

	"clayui.org/f32"
	"clayui.org/internal/arena"
	"clayui.org/internal/ops"
	"clayui.org/text"
)

// DefaultMaxElements is the element bound used when Limits leaves it
// zero.
const DefaultMaxElements = 8192

// configsPerElement is the number of configurations reserved for each
// element when Limits leaves MaxConfigs zero.
const configsPerElement = 4

// Limits bounds the size of one pass. Memory for everything within the
// bounds is reserved up front.
type Limits struct {
	MaxElements int
	MaxConfigs  int
}

type Options struct {
	// Measurer measures text. The Go Regular face is used when nil.
	Measurer text.Measurer
	// Culling drops the commands of elements outside the layout
	// dimensions.
	Culling bool
	// ErrorHandler, if set, is called once per error reported by
	// EndLayout.
	ErrorHandler func(error)
}

var (
	// ErrCapacity matches every *CapacityError.
	ErrCapacity = errors.New("capacity exceeded")
	// ErrDuplicateID is reported when two elements declare the same ID
	// in one pass.
	ErrDuplicateID = errors.New("duplicate element id")
)

// CapacityError reports declarations dropped because a limit was
// reached.
type CapacityError struct {
	Resource string
	Limit    int
	Dropped  int
}

type Engine struct {
	arena  *arena.Arena
	limits Limits
	opts   Options
	dims   f32.Point

	// gen is incremented at each BeginLayout and at Release. Commands
	// are stamped with it.
	gen      uint32
	active   bool
	released bool

	ops    ops.Ops
	frames []frame
	// skip is the depth of the dropped subtree being declared.
	skip            int
	elements        int
	configs         int
	droppedElements int
	droppedConfigs  int
	duplicates      int

	// Resolved state of the last pass. els and cfgs live in the arena.
	els     []element
	cfgs    []configRecord
	lines   []text.Line
	floats  []int32
	scratch []int32
	cmds    []Command
	ids     map[uint32]int32
	scrolls map[uint32]f32.Point
}

// frame is an open element during declaration.
type frame struct {
	sid     ops.StackID
	posted  bool
	hasText bool
	text    Text
}

// ScrollData describes a scroll container resolved by the last pass.
type ScrollData struct {
	// Container is the size of the scroll container.
	Container f32.Point
	// Content is the size of its children, including padding.
	Content f32.Point
	// Offset is the scroll offset set by SetScrollOffset.
	Offset f32.Point
}

func (l Limits) normalize() Limits {
	if l.MaxElements <= 0 {
		l.MaxElements = DefaultMaxElements
	}
	if l.MaxConfigs <= 0 {
		l.MaxConfigs = l.MaxElements * configsPerElement
	}
	return l
}

// MinMemorySize returns the arena size an Engine with the given limits
// needs. Zero limits select the defaults.
func MinMemorySize(l Limits) int {
	l = l.normalize()
	return opsSize(l) +
		arena.SizeOf[element](l.MaxElements+1) +
		arena.SizeOf[configRecord](l.MaxConfigs) +
		arena.SizeOf[int32](l.MaxElements+1)
}

func opsSize(l Limits) int {
	return l.MaxElements*ops.ElementLen + l.MaxConfigs*ops.MaxConfigLen
}

// New returns an engine for a layout of the given dimensions, keeping
// all its per-pass state in a. The engine owns a from now on.
func New(a *arena.Arena, dims f32.Point, l Limits, opts Options) (*Engine, error) {
	l = l.normalize()
	if need, have := MinMemorySize(l), a.Metrics().Capacity; have < need {
		return nil, fmt.Errorf("engine: arena holds %d bytes, need %d", have, need)
	}
	if opts.Measurer == nil {
		opts.Measurer = text.NewCache(text.GoFace())
	}
	return &Engine{
		arena:   a,
		limits:  l,
		opts:    opts,
		dims:    dims,
		ids:     make(map[uint32]int32),
		scrolls: make(map[uint32]f32.Point),
	}, nil
}

// SetDimensions changes the size of the layout. It takes effect when
// the current or next pass ends.
func (e *Engine) SetDimensions(dims f32.Point) {
	e.dims = dims
}

func (e *Engine) Dimensions() f32.Point {
	return e.dims
}

func (e *Engine) Limits() Limits {
	return e.limits
}

// Generation identifies the current pass. It changes at every
// BeginLayout and at Release.
func (e *Engine) Generation() uint32 {
	return e.gen
}

// Active reports whether a pass is being declared.
func (e *Engine) Active() bool {
	return e.active
}

func (e *Engine) ArenaMetrics() arena.Metrics {
	return e.arena.Metrics()
}

// BeginLayout starts a pass. The results of the previous pass become
// invalid.
func (e *Engine) BeginLayout() {
	e.checkReleased()
	if e.active {
		panic("layout already in progress")
	}
	e.active = true
	e.gen++
	e.arena.Reset()
	region, ok := e.arena.Alloc(opsSize(e.limits), 1)
	if !ok {
		panic("engine: arena exhausted")
	}
	e.ops.Reset(region)
	clear(e.frames)
	e.frames = e.frames[:0]
	e.skip = 0
	e.elements, e.configs = 0, 0
	e.droppedElements, e.droppedConfigs, e.duplicates = 0, 0, 0
	e.els, e.cfgs = nil, nil
	clear(e.lines)
	e.lines = e.lines[:0]
	clear(e.cmds)
	e.cmds = e.cmds[:0]
	clear(e.ids)
}

// OpenElement opens a child of the innermost open element, or of the
// root when none is open.
func (e *Engine) OpenElement() {
	e.checkActive()
	if e.skip > 0 || e.elements >= e.limits.MaxElements {
		e.skip++
		e.droppedElements++
		return
	}
	e.elements++
	e.frames = append(e.frames, frame{sid: e.ops.PushElement()})
}

// AttachID names the open element.
func (e *Engine) AttachID(id ElementID) {
	if e.reserve() {
		id.add(&e.ops)
	}
}

// AttachLayout sets the layout of the open element.
func (e *Engine) AttachLayout(l Layout) {
	if e.reserve() {
		l.add(&e.ops)
	}
}

// AttachConfig attaches a configuration other than an ID or a Layout
// to the open element.
func (e *Engine) AttachConfig(c Config) {
	switch k := c.Kind(); k {
	case KindID, KindLayout:
		panic(fmt.Sprintf("engine: %v attached as a generic configuration", k))
	}
	if !e.reserve() {
		return
	}
	if t, ok := c.(Text); ok {
		f := e.top()
		f.text, f.hasText = t, true
	}
	c.add(&e.ops)
}

// reserve reports whether a configuration may be attached to the open
// element, counting the ones dropped.
func (e *Engine) reserve() bool {
	e.checkActive()
	if e.skip > 0 {
		return false
	}
	if e.top().posted {
		panic("configuration attached after post-configuration")
	}
	if e.configs >= e.limits.MaxConfigs {
		e.droppedConfigs++
		return false
	}
	e.configs++
	return true
}

// PostConfiguration finalizes the configuration of the open element
// and measures its text.
func (e *Engine) PostConfiguration() {
	e.checkActive()
	if e.skip > 0 {
		return
	}
	f := e.top()
	if f.posted {
		panic("element already configured")
	}
	f.posted = true
	var pc postConfig
	if f.hasText {
		ext := e.opts.Measurer.Measure(f.text.Content, f.text.Style())
		pc = postConfig{
			minWidth:   ext.MinWidth,
			width:      ext.Width,
			height:     ext.Height,
			lineHeight: ext.LineHeight,
		}
	}
	pc.add(&e.ops)
}

// CloseElement closes the innermost open element.
func (e *Engine) CloseElement() {
	e.checkActive()
	if e.skip > 0 {
		e.skip--
		return
	}
	if len(e.frames) == 0 {
		panic("unbalanced element")
	}
	f := e.frames[len(e.frames)-1]
	if !f.posted {
		panic("element closed before post-configuration")
	}
	e.frames[len(e.frames)-1] = frame{}
	e.frames = e.frames[:len(e.frames)-1]
	e.ops.PopElement(f.sid)
}

// EndLayout ends the pass and returns its render commands. The
// commands are valid until the next BeginLayout. The error reports
// dropped declarations and duplicate IDs; the commands are usable
// regardless.
func (e *Engine) EndLayout() ([]Command, error) {
	e.checkActive()
	if len(e.frames) > 0 || e.skip > 0 {
		panic("unbalanced element")
	}
	e.active = false
	e.build()
	e.solve()
	e.emit()
	return e.cmds, e.err()
}

// Release drops the arena. Every later use of the engine, and of
// commands it returned, panics. Releasing twice is a no-op.
func (e *Engine) Release() {
	if e.released {
		return
	}
	e.released = true
	e.active = false
	e.gen++
	e.arena.Release()
	e.ops.Reset(nil)
	e.els, e.cfgs = nil, nil
	e.lines, e.cmds = nil, nil
	e.frames = nil
}

func (e *Engine) Released() bool {
	return e.released
}

// Bounds returns the bounds of the element with the given ID in the
// last pass.
func (e *Engine) Bounds(id uint32) (f32.Rectangle, bool) {
	i, ok := e.lookup(id)
	if !ok {
		return f32.Rectangle{}, false
	}
	return e.els[i].bounds(), true
}

// ScrollData returns the dimensions of the scroll container with the
// given ID in the last pass.
func (e *Engine) ScrollData(id uint32) (ScrollData, bool) {
	i, ok := e.lookup(id)
	if !ok || e.els[i].scroll < 0 {
		return ScrollData{}, false
	}
	el := &e.els[i]
	return ScrollData{
		Container: f32.Pt(el.size[0], el.size[1]),
		Content:   f32.Pt(el.content[0], el.content[1]),
		Offset:    e.scrolls[id],
	}, true
}

// SetScrollOffset sets the offset applied to the children of the
// scroll container with the given ID from the next pass on.
func (e *Engine) SetScrollOffset(id uint32, off f32.Point) {
	if off == (f32.Point{}) {
		delete(e.scrolls, id)
		return
	}
	e.scrolls[id] = off
}

func (e *Engine) lookup(id uint32) (int32, bool) {
	if e.released || e.active || e.els == nil {
		return 0, false
	}
	i, ok := e.ids[id]
	return i, ok
}

func (e *Engine) top() *frame {
	if len(e.frames) == 0 {
		panic("no open element")
	}
	return &e.frames[len(e.frames)-1]
}

func (e *Engine) checkActive() {
	e.checkReleased()
	if !e.active {
		panic("no layout in progress")
	}
}

func (e *Engine) checkReleased() {
	if e.released {
		panic("engine: use after Release")
	}
}

func (e *Engine) err() error {
	var err error
	if e.droppedElements > 0 {
		err = multierr.Append(err, &CapacityError{Resource: "elements", Limit: e.limits.MaxElements, Dropped: e.droppedElements})
	}
	if e.droppedConfigs > 0 {
		err = multierr.Append(err, &CapacityError{Resource: "configs", Limit: e.limits.MaxConfigs, Dropped: e.droppedConfigs})
	}
	if e.duplicates > 0 {
		err = multierr.Append(err, fmt.Errorf("engine: %d elements: %w", e.duplicates, ErrDuplicateID))
	}
	if h := e.opts.ErrorHandler; h != nil {
		for _, err := range multierr.Errors(err) {
			h(err)
		}
	}
	return err
}

func (e *CapacityError) Error() string {
	return fmt.Sprintf("engine: %s limit %d exceeded, %d dropped", e.Resource, e.Limit, e.Dropped)
}

func (e *CapacityError) Is(target error) bool {
	return target == ErrCapacity
}
