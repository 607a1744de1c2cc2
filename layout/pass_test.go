// SPDX-License-Identifier: Unlicense OR MIT

package layout

import (
	"fmt"
	"reflect"
	"testing"

	"clayui.org/internal/engine"
)

// recorder is a driver that records the calls of a pass.
type recorder struct {
	calls []string
	depth int
}

func (r *recorder) log(format string, args ...interface{}) {
	r.calls = append(r.calls, fmt.Sprintf(format, args...))
}

func (r *recorder) BeginLayout() { r.log("begin") }
func (r *recorder) AttachID(id ElementID) { r.log("id %s", id.Label) }
func (r *recorder) AttachLayout(l Layout) { r.log("layout %d", l.ChildGap) }
func (r *recorder) AttachConfig(c Config) { r.log("config %v", c.Kind()) }
func (r *recorder) PostConfiguration() { r.log("post") }

func (r *recorder) OpenElement() {
	r.depth++
	r.log("open %d", r.depth)
}

func (r *recorder) CloseElement() {
	r.log("close %d", r.depth)
	r.depth--
}

func (r *recorder) EndLayout() ([]engine.Command, error) {
	r.log("end")
	return nil, nil
}

func newRecordingContext() (*Context, *recorder) {
	r := new(recorder)
	return &Context{drv: r}, r
}

func TestElementProtocol(t *testing.T) {
	ctx, r := newRecordingContext()
	p := ctx.Begin()
	p.Element([]Config{ID("a"), Layout{ChildGap: 1}, Rectangle{}, Layout{ChildGap: 2}}, func(p *Pass) {
		p.With(nil)
		p.With(func(p *Pass) {
			p.With(nil, Text{})
		}, Border{})
	})
	if _, err := p.End(); err != nil {
		t.Fatal(err)
	}
	want := []string{
		"begin",
		"open 1",
		"id a",
		"layout 1",
		"config Rectangle",
		"layout 2",
		"post",
		"open 2",
		"post",
		"close 2",
		"open 2",
		"config Border",
		"post",
		"open 3",
		"config Text",
		"post",
		"close 3",
		"close 2",
		"close 1",
		"end",
	}
	if !reflect.DeepEqual(r.calls, want) {
		t.Errorf("got calls\n%q\nwant\n%q", r.calls, want)
	}
}

func TestChildrenSeeConfiguredParent(t *testing.T) {
	ctx, r := newRecordingContext()
	p := ctx.Begin()
	p.With(func(p *Pass) {
		// Everything the parent attached is recorded before the first
		// child opens.
		last := r.calls[len(r.calls)-1]
		if last != "post" {
			t.Errorf("children ran after %q, want post", last)
		}
	}, Rectangle{}, Scroll{})
	p.End()
}

func TestStackDiscipline(t *testing.T) {
	ctx, r := newRecordingContext()
	p := ctx.Begin()
	var nest func(p *Pass, depth int)
	nest = func(p *Pass, depth int) {
		if depth == 0 {
			return
		}
		p.With(func(p *Pass) {
			nest(p, depth-1)
			nest(p, depth-1)
		})
	}
	nest(p, 4)
	p.End()
	var stack []string
	for _, c := range r.calls {
		var d int
		switch {
		case sscan(c, "open %d", &d):
			stack = append(stack, c[len("open "):])
		case sscan(c, "close %d", &d):
			if len(stack) == 0 {
				t.Fatalf("close without open: %q", c)
			}
			if top := stack[len(stack)-1]; top != c[len("close "):] {
				t.Fatalf("close %s does not match open %s", c[len("close "):], top)
			}
			stack = stack[:len(stack)-1]
		}
	}
	if len(stack) != 0 {
		t.Errorf("%d elements left open", len(stack))
	}
}

func sscan(s, format string, v *int) bool {
	n, err := fmt.Sscanf(s, format, v)
	return err == nil && n == 1
}
