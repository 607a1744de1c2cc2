// SPDX-License-Identifier: Unlicense OR MIT

package engine

import (
	"errors"
	"testing"

	"clayui.org/f32"
	"clayui.org/internal/arena"
	"clayui.org/text"
)

func newTestEngine(t *testing.T, w, h float32, l Limits) *Engine {
	t.Helper()
	a, err := arena.New(MinMemorySize(l))
	if err != nil {
		t.Fatal(err)
	}
	e, err := New(a, f32.Pt(w, h), l, Options{
		Measurer: text.Monospace{Advance: 10, LineHeight: 20},
		Culling:  true,
	})
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(e.Release)
	return e
}

func declare(e *Engine, children func(), cfgs ...Config) {
	e.OpenElement()
	for _, c := range cfgs {
		switch c := c.(type) {
		case ElementID:
			e.AttachID(c)
		case Layout:
			e.AttachLayout(c)
		default:
			e.AttachConfig(c)
		}
	}
	e.PostConfiguration()
	if children != nil {
		children()
	}
	e.CloseElement()
}

func fixed(w, h float32) Sizing {
	return Sizing{
		Width:  SizingAxis{Type: SizingFixed, Min: w},
		Height: SizingAxis{Type: SizingFixed, Min: h},
	}
}

func run(t *testing.T, e *Engine, decl func()) []Command {
	t.Helper()
	e.BeginLayout()
	decl()
	cmds, err := e.EndLayout()
	if err != nil {
		t.Fatalf("EndLayout: %v", err)
	}
	return cmds
}

func mustPanic(t *testing.T, msg string, f func()) {
	t.Helper()
	defer func() {
		if recover() == nil {
			t.Errorf("%s: did not panic", msg)
		}
	}()
	f()
}

var white = Rectangle{Color: Color{R: 255, G: 255, B: 255}}

func TestSingleRectangle(t *testing.T) {
	e := newTestEngine(t, 800, 600, Limits{})
	cmds := run(t, e, func() {
		declare(e, nil,
			Layout{Sizing: fixed(100, 100), Padding: Padding{X: 10, Y: 10}},
			white,
		)
	})
	if len(cmds) != 1 {
		t.Fatalf("got %d commands, want 1", len(cmds))
	}
	c := cmds[0]
	if c.Type != CommandRectangle {
		t.Errorf("got type %v, want Rectangle", c.Type)
	}
	if want := f32.Rect(0, 0, 100, 100); c.Bounds != want {
		t.Errorf("got bounds %v, want %v", c.Bounds, want)
	}
	if got := c.Rectangle(); got != white {
		t.Errorf("got payload %+v, want %+v", got, white)
	}
}

func TestChildPadding(t *testing.T) {
	e := newTestEngine(t, 800, 600, Limits{})
	cmds := run(t, e, func() {
		declare(e, func() {
			declare(e, nil, white)
		}, Layout{Padding: Padding{X: 16, Y: 8}})
	})
	if len(cmds) != 1 {
		t.Fatalf("got %d commands, want 1", len(cmds))
	}
	if got, want := cmds[0].Bounds.Min, f32.Pt(16, 8); got != want {
		t.Errorf("child at %v, want %v", got, want)
	}
}

func TestEmptyPass(t *testing.T) {
	e := newTestEngine(t, 800, 600, Limits{})
	e.BeginLayout()
	cmds, err := e.EndLayout()
	if err != nil {
		t.Fatal(err)
	}
	if len(cmds) != 0 {
		t.Errorf("got %d commands, want 0", len(cmds))
	}
}

func TestGrow(t *testing.T) {
	e := newTestEngine(t, 800, 600, Limits{})
	grow := func(max float32) Layout {
		return Layout{Sizing: Sizing{
			Width:  SizingAxis{Type: SizingGrow, Max: max},
			Height: SizingAxis{Type: SizingFixed, Min: 10},
		}}
	}
	cmds := run(t, e, func() {
		declare(e, nil, grow(0), white)
		declare(e, nil, grow(0), white)
	})
	if got, want := cmds[1].Bounds, f32.Rect(400, 0, 400, 10); got != want {
		t.Errorf("equal grow: got %v, want %v", got, want)
	}
	cmds = run(t, e, func() {
		declare(e, nil, grow(100), white)
		declare(e, nil, grow(0), white)
	})
	if got := cmds[0].Bounds.Dx(); got != 100 {
		t.Errorf("bounded grow: got width %v, want 100", got)
	}
	if got := cmds[1].Bounds.Dx(); got != 700 {
		t.Errorf("unbounded grow: got width %v, want 700", got)
	}
}

func TestPercent(t *testing.T) {
	e := newTestEngine(t, 800, 600, Limits{})
	cmds := run(t, e, func() {
		declare(e, nil, Layout{Sizing: Sizing{
			Width:  SizingAxis{Type: SizingPercent, Percent: .25},
			Height: SizingAxis{Type: SizingPercent, Percent: .5},
		}}, white)
	})
	if got, want := cmds[0].Bounds, f32.Rect(0, 0, 200, 300); got != want {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestCompressAndWrap(t *testing.T) {
	e := newTestEngine(t, 800, 600, Limits{})
	cmds := run(t, e, func() {
		declare(e, func() {
			declare(e, nil, Text{Content: "aa bb cc"})
			declare(e, nil, Layout{Sizing: fixed(50, 10)}, white)
		}, Layout{Sizing: Sizing{Width: SizingAxis{Type: SizingFixed, Min: 100}}})
	})
	want := []struct {
		typ    CommandType
		bounds f32.Rectangle
		line   string
	}{
		{CommandText, f32.Rect(0, 0, 50, 20), "aa bb"},
		{CommandText, f32.Rect(0, 20, 20, 20), "cc"},
		{CommandRectangle, f32.Rect(50, 0, 50, 10), ""},
	}
	if len(cmds) != len(want) {
		t.Fatalf("got %d commands, want %d", len(cmds), len(want))
	}
	for i, w := range want {
		c := cmds[i]
		if c.Type != w.typ || c.Bounds != w.bounds {
			t.Errorf("command %d: got %v %v, want %v %v", i, c.Type, c.Bounds, w.typ, w.bounds)
		}
		if c.Type == CommandText && c.Text().Content != w.line {
			t.Errorf("command %d: got line %q, want %q", i, c.Text().Content, w.line)
		}
	}
}

func TestMinimumSize(t *testing.T) {
	e := newTestEngine(t, 800, 600, Limits{})
	cmds := run(t, e, func() {
		declare(e, func() {
			declare(e, nil, Text{Content: "abcdef"})
		}, Layout{Sizing: Sizing{Width: SizingAxis{Type: SizingFixed, Min: 30}}})
	})
	// A single word cannot be compressed below its width.
	if got := cmds[0].Bounds.Dx(); got != 60 {
		t.Errorf("got width %v, want 60", got)
	}
}

func TestAlignment(t *testing.T) {
	e := newTestEngine(t, 800, 600, Limits{})
	cmds := run(t, e, func() {
		declare(e, func() {
			declare(e, nil, Layout{Sizing: fixed(50, 20)}, white)
		}, Layout{
			Sizing:         fixed(200, 100),
			ChildAlignment: ChildAlignment{X: AlignCenterX, Y: AlignCenterY},
		})
	})
	if got, want := cmds[0].Bounds.Min, f32.Pt(75, 40); got != want {
		t.Errorf("centered child at %v, want %v", got, want)
	}
	cmds = run(t, e, func() {
		declare(e, func() {
			declare(e, nil, Layout{Sizing: fixed(50, 20)}, white)
		}, Layout{
			Sizing:         fixed(200, 100),
			ChildAlignment: ChildAlignment{X: AlignRight, Y: AlignBottom},
		})
	})
	if got, want := cmds[0].Bounds.Min, f32.Pt(150, 80); got != want {
		t.Errorf("bottom right child at %v, want %v", got, want)
	}
}

func TestTopToBottom(t *testing.T) {
	e := newTestEngine(t, 800, 600, Limits{})
	cmds := run(t, e, func() {
		declare(e, func() {
			declare(e, nil, Layout{Sizing: fixed(10, 10)}, white)
			declare(e, nil, Layout{Sizing: fixed(10, 10)}, white)
		}, Layout{
			Direction: TopToBottom,
			ChildGap:  5,
			Padding:   Padding{X: 2, Y: 3},
		}, white)
	})
	want := []f32.Rectangle{
		f32.Rect(0, 0, 14, 31),
		f32.Rect(2, 3, 10, 10),
		f32.Rect(2, 18, 10, 10),
	}
	if len(cmds) != len(want) {
		t.Fatalf("got %d commands, want %d", len(cmds), len(want))
	}
	for i, w := range want {
		if cmds[i].Bounds != w {
			t.Errorf("command %d: got %v, want %v", i, cmds[i].Bounds, w)
		}
	}
}

func TestFloating(t *testing.T) {
	e := newTestEngine(t, 800, 600, Limits{})
	center := FloatingAttachment{Element: AttachCenterCenter, Parent: AttachCenterCenter}
	cmds := run(t, e, func() {
		declare(e, func() {
			declare(e, nil, Layout{Sizing: fixed(10, 10)}, Floating{Attachment: center, ZIndex: 5}, white)
			declare(e, nil, Layout{Sizing: fixed(4, 4)}, Floating{ZIndex: 1, Offset: f32.Pt(1, 2)}, white)
			declare(e, nil, Layout{Sizing: fixed(20, 20)}, white)
		}, Layout{Sizing: fixed(100, 100)}, white)
	})
	want := []struct {
		bounds f32.Rectangle
		z      int16
	}{
		{f32.Rect(0, 0, 100, 100), 0},
		{f32.Rect(0, 0, 20, 20), 0},
		{f32.Rect(1, 2, 4, 4), 1},
		{f32.Rect(45, 45, 10, 10), 5},
	}
	if len(cmds) != len(want) {
		t.Fatalf("got %d commands, want %d", len(cmds), len(want))
	}
	for i, w := range want {
		if cmds[i].Bounds != w.bounds || cmds[i].ZIndex != w.z {
			t.Errorf("command %d: got %v z=%d, want %v z=%d", i, cmds[i].Bounds, cmds[i].ZIndex, w.bounds, w.z)
		}
	}
}

func TestFloatingParentID(t *testing.T) {
	e := newTestEngine(t, 800, 600, Limits{})
	anchor := HashID("anchor", 0)
	cmds := run(t, e, func() {
		declare(e, nil, Layout{Sizing: fixed(100, 10)})
		declare(e, nil, anchor, Layout{Sizing: fixed(50, 10)})
		declare(e, nil, Layout{Sizing: fixed(5, 5)}, Floating{
			ParentID:   anchor.ID,
			Attachment: FloatingAttachment{Element: AttachLeftTop, Parent: AttachLeftBottom},
		}, white)
	})
	if len(cmds) != 1 {
		t.Fatalf("got %d commands, want 1", len(cmds))
	}
	if got, want := cmds[0].Bounds.Min, f32.Pt(100, 10); got != want {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestScroll(t *testing.T) {
	e := newTestEngine(t, 800, 600, Limits{})
	list := HashID("list", 0)
	decl := func() {
		declare(e, func() {
			for i := 0; i < 3; i++ {
				declare(e, nil, Layout{Sizing: fixed(100, 40)}, white)
			}
		}, list, Layout{Sizing: fixed(100, 50), Direction: TopToBottom}, Scroll{Vertical: true})
	}
	cmds := run(t, e, decl)
	types := []CommandType{CommandScissorStart, CommandRectangle, CommandRectangle, CommandRectangle, CommandScissorEnd}
	if len(cmds) != len(types) {
		t.Fatalf("got %d commands, want %d", len(cmds), len(types))
	}
	for i, typ := range types {
		if cmds[i].Type != typ {
			t.Errorf("command %d: got %v, want %v", i, cmds[i].Type, typ)
		}
	}
	if !cmds[0].Scroll().Vertical {
		t.Error("scissor lost its scroll configuration")
	}
	sd, ok := e.ScrollData(list.ID)
	if !ok {
		t.Fatal("no scroll data")
	}
	if want := f32.Pt(100, 120); sd.Content != want {
		t.Errorf("got content %v, want %v", sd.Content, want)
	}
	e.SetScrollOffset(list.ID, f32.Pt(0, -30))
	cmds = run(t, e, decl)
	if got := cmds[1].Bounds.Min.Y; got != -30 {
		t.Errorf("scrolled child at y=%v, want -30", got)
	}
}

func TestBorderAfterChildren(t *testing.T) {
	e := newTestEngine(t, 800, 600, Limits{})
	border := Border{Left: BorderSide{Width: 1}}
	cmds := run(t, e, func() {
		declare(e, func() {
			declare(e, nil, Layout{Sizing: fixed(10, 10)}, white)
		}, border, white)
	})
	types := []CommandType{CommandRectangle, CommandRectangle, CommandBorder}
	for i, typ := range types {
		if cmds[i].Type != typ {
			t.Errorf("command %d: got %v, want %v", i, cmds[i].Type, typ)
		}
	}
	if got := cmds[2].Border(); got != border {
		t.Errorf("got border %+v, want %+v", got, border)
	}
}

func TestBorderBetweenChildren(t *testing.T) {
	e := newTestEngine(t, 800, 600, Limits{})
	red := Color{R: 255, A: 255}
	border := Border{BetweenChildren: BorderSide{Width: 2, Color: red}}
	cmds := run(t, e, func() {
		declare(e, func() {
			for i := 0; i < 3; i++ {
				declare(e, nil, Layout{Sizing: fixed(20, 20)}, white)
			}
		}, Layout{ChildGap: 4}, border)
	})
	types := []CommandType{
		CommandRectangle, CommandRectangle, CommandRectangle,
		CommandRectangle, CommandRectangle,
		CommandBorder,
	}
	if len(cmds) != len(types) {
		t.Fatalf("got %d commands, want %d", len(cmds), len(types))
	}
	for i, typ := range types {
		if cmds[i].Type != typ {
			t.Errorf("command %d: got %v, want %v", i, cmds[i].Type, typ)
		}
	}
	seps := []f32.Rectangle{f32.Rect(21, 0, 2, 20), f32.Rect(45, 0, 2, 20)}
	for i, want := range seps {
		c := cmds[3+i]
		if c.Bounds != want {
			t.Errorf("separator %d: got %v, want %v", i, c.Bounds, want)
		}
		if got := c.Rectangle().Color; got != red {
			t.Errorf("separator %d: got color %v, want %v", i, got, red)
		}
	}
	if got := cmds[5].Bounds; got != f32.Rect(0, 0, 68, 20) {
		t.Errorf("got border bounds %v", got)
	}
}

func TestBorderBetweenChildrenVertical(t *testing.T) {
	e := newTestEngine(t, 800, 600, Limits{})
	border := Border{BetweenChildren: BorderSide{Width: 1}}
	cmds := run(t, e, func() {
		declare(e, func() {
			declare(e, nil, Layout{Sizing: fixed(20, 10)})
			declare(e, nil, Layout{Sizing: fixed(20, 10)})
		}, Layout{Direction: TopToBottom, Padding: Padding{X: 2, Y: 2}, ChildGap: 5}, border)
	})
	if len(cmds) != 2 {
		t.Fatalf("got %d commands, want 2", len(cmds))
	}
	if want := f32.Rect(2, 14, 20, 1); cmds[0].Bounds != want {
		t.Errorf("got separator %v, want %v", cmds[0].Bounds, want)
	}
}

func TestCulling(t *testing.T) {
	e := newTestEngine(t, 800, 600, Limits{})
	cmds := run(t, e, func() {
		declare(e, nil, Layout{Sizing: fixed(900, 10)})
		declare(e, nil, Layout{Sizing: fixed(10, 10)}, white)
	})
	if len(cmds) != 0 {
		t.Errorf("got %d commands for an off-screen element, want 0", len(cmds))
	}
}

func TestCullingEdge(t *testing.T) {
	e := newTestEngine(t, 800, 600, Limits{})
	cmds := run(t, e, func() {
		declare(e, nil, Layout{Sizing: fixed(800, 10)})
		declare(e, nil, Layout{Sizing: fixed(10, 10)}, white)
		declare(e, nil, Layout{Sizing: fixed(10, 10)}, white)
	})
	// The element starting at x=800 touches the layout edge and is kept.
	if len(cmds) != 1 {
		t.Fatalf("got %d commands, want 1", len(cmds))
	}
	if got := cmds[0].Bounds.Min.X; got != 800 {
		t.Errorf("got x=%v, want 800", got)
	}
}

func TestCullingDisabled(t *testing.T) {
	a, err := arena.New(MinMemorySize(Limits{}))
	if err != nil {
		t.Fatal(err)
	}
	e, err := New(a, f32.Pt(800, 600), Limits{}, Options{
		Measurer: text.Monospace{Advance: 10, LineHeight: 20},
	})
	if err != nil {
		t.Fatal(err)
	}
	defer e.Release()
	cmds := run(t, e, func() {
		declare(e, nil, Layout{Sizing: fixed(900, 10)})
		declare(e, nil, Layout{Sizing: fixed(10, 10)}, white)
	})
	if len(cmds) != 1 {
		t.Fatalf("got %d commands, want 1", len(cmds))
	}
	if got := cmds[0].Bounds.Min.X; got != 900 {
		t.Errorf("got x=%v, want 900", got)
	}
}

func TestBounds(t *testing.T) {
	e := newTestEngine(t, 800, 600, Limits{})
	id := HashID("box", 0)
	run(t, e, func() {
		declare(e, nil, Layout{Sizing: fixed(30, 30)})
		declare(e, nil, id, Layout{Sizing: fixed(10, 20)})
	})
	b, ok := e.Bounds(id.ID)
	if !ok {
		t.Fatal("element not found")
	}
	if want := f32.Rect(30, 0, 10, 20); b != want {
		t.Errorf("got %v, want %v", b, want)
	}
	if _, ok := e.Bounds(HashID("missing", 0).ID); ok {
		t.Error("found an undeclared element")
	}
}

func TestElementCapacity(t *testing.T) {
	e := newTestEngine(t, 800, 600, Limits{MaxElements: 2})
	e.BeginLayout()
	declare(e, func() {
		declare(e, nil, Layout{Sizing: fixed(5, 5)}, white)
		declare(e, func() {
			declare(e, nil, white)
		}, white)
	}, white)
	cmds, err := e.EndLayout()
	if !errors.Is(err, ErrCapacity) {
		t.Fatalf("got error %v, want capacity error", err)
	}
	var cerr *CapacityError
	if !errors.As(err, &cerr) {
		t.Fatalf("%v is not a *CapacityError", err)
	}
	if cerr.Resource != "elements" || cerr.Limit != 2 || cerr.Dropped != 2 {
		t.Errorf("got %+v", cerr)
	}
	if len(cmds) != 2 {
		t.Errorf("got %d commands, want 2", len(cmds))
	}
}

func TestConfigCapacity(t *testing.T) {
	var reported []error
	a, err := arena.New(MinMemorySize(Limits{MaxElements: 4, MaxConfigs: 1}))
	if err != nil {
		t.Fatal(err)
	}
	e, err := New(a, f32.Pt(100, 100), Limits{MaxElements: 4, MaxConfigs: 1}, Options{
		Measurer:     text.Monospace{},
		ErrorHandler: func(err error) { reported = append(reported, err) },
	})
	if err != nil {
		t.Fatal(err)
	}
	defer e.Release()
	e.BeginLayout()
	declare(e, nil, white, white)
	if _, err := e.EndLayout(); !errors.Is(err, ErrCapacity) {
		t.Errorf("got error %v, want capacity error", err)
	}
	if len(reported) != 1 {
		t.Errorf("error handler called %d times, want 1", len(reported))
	}
}

func TestDuplicateID(t *testing.T) {
	e := newTestEngine(t, 800, 600, Limits{})
	e.BeginLayout()
	declare(e, nil, HashID("a", 0))
	declare(e, nil, HashID("a", 0))
	declare(e, nil, HashID("a", 1))
	_, err := e.EndLayout()
	if !errors.Is(err, ErrDuplicateID) {
		t.Errorf("got error %v, want duplicate id", err)
	}
}

func TestRoundTrip(t *testing.T) {
	const n = 64
	e := newTestEngine(t, 800, 600, Limits{MaxElements: n})
	cmds := run(t, e, func() {
		for i := 0; i < n; i++ {
			declare(e, nil, Layout{Sizing: fixed(10, 10)}, white)
		}
	})
	if len(cmds) != n {
		t.Errorf("got %d commands, want %d", len(cmds), n)
	}
	var nest func(depth int)
	nest = func(depth int) {
		if depth == n {
			return
		}
		declare(e, func() { nest(depth + 1) }, white)
	}
	cmds = run(t, e, func() { nest(0) })
	if len(cmds) != n {
		t.Errorf("nested: got %d commands, want %d", len(cmds), n)
	}
	if m := e.ArenaMetrics(); m.InUse > m.Capacity || m.Overflows != 0 {
		t.Errorf("arena overflowed: %+v", m)
	}
}

func TestRepeatedPass(t *testing.T) {
	e := newTestEngine(t, 800, 600, Limits{})
	decl := func() {
		declare(e, func() {
			declare(e, nil, Text{Content: "hello world"})
			declare(e, nil, Layout{Sizing: Sizing{Width: SizingAxis{Type: SizingGrow}}}, white)
		}, Layout{Padding: Padding{X: 4, Y: 4}, ChildGap: 2}, white, Border{Top: BorderSide{Width: 1}})
	}
	type result struct {
		typ    CommandType
		bounds f32.Rectangle
		id     uint32
	}
	collect := func(cmds []Command) []result {
		var res []result
		for _, c := range cmds {
			res = append(res, result{c.Type, c.Bounds, c.ID})
		}
		return res
	}
	first := collect(run(t, e, decl))
	second := collect(run(t, e, decl))
	if len(first) != len(second) {
		t.Fatalf("pass lengths differ: %d != %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("command %d: %+v != %+v", i, first[i], second[i])
		}
	}
}

func TestStaleCommand(t *testing.T) {
	e := newTestEngine(t, 800, 600, Limits{})
	cmds := run(t, e, func() {
		declare(e, nil, white)
	})
	mustPanic(t, "type mismatch", func() { cmds[0].Text() })
	e.BeginLayout()
	mustPanic(t, "stale view", func() { cmds[0].Rectangle() })
	if _, err := e.EndLayout(); err != nil {
		t.Fatal(err)
	}
	mustPanic(t, "stale view after end", func() { cmds[0].Rectangle() })
}

func TestProtocolViolations(t *testing.T) {
	e := newTestEngine(t, 800, 600, Limits{})
	mustPanic(t, "open outside pass", e.OpenElement)
	e.BeginLayout()
	mustPanic(t, "nested BeginLayout", e.BeginLayout)
	mustPanic(t, "attach without element", func() { e.AttachConfig(white) })
	e.OpenElement()
	mustPanic(t, "id as generic config", func() { e.AttachConfig(HashID("x", 0)) })
	mustPanic(t, "close before post-configuration", e.CloseElement)
	e.PostConfiguration()
	mustPanic(t, "attach after post-configuration", func() { e.AttachConfig(white) })
	mustPanic(t, "end with open element", func() { e.EndLayout() })
}

func TestRelease(t *testing.T) {
	e := newTestEngine(t, 800, 600, Limits{})
	cmds := run(t, e, func() {
		declare(e, nil, white)
	})
	e.Release()
	e.Release()
	if !e.Released() {
		t.Error("engine not released")
	}
	mustPanic(t, "command after release", func() { cmds[0].Rectangle() })
	mustPanic(t, "pass after release", e.BeginLayout)
}

func TestNewRejectsSmallArena(t *testing.T) {
	a, err := arena.New(16)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := New(a, f32.Pt(1, 1), Limits{}, Options{}); err == nil {
		t.Error("New accepted an arena below MinMemorySize")
	}
}
