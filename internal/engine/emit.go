// SPDX-License-Identifier: Unlicense OR MIT

package engine

import (
	"clayui.org/f32"
)

// emit appends the commands of the main tree followed by the floating
// elements in z-index order.
func (e *Engine) emit() {
	screen := f32.Rectangle{Max: e.dims}
	e.emitElement(0, 0, screen)
	for _, f := range e.floats {
		z := e.floatingConfig(e.els[f].floating).ZIndex
		e.emitElement(f, z, screen)
	}
}

func (e *Engine) emitElement(i int32, z int16, screen f32.Rectangle) {
	el := &e.els[i]
	bounds := el.bounds()
	visible := i != 0 && (!e.opts.Culling || bounds.Overlaps(screen))
	if visible && el.scroll >= 0 {
		e.push(CommandScissorStart, bounds, el, z, el.scroll, "")
	}
	if visible {
		for c := el.firstConfig; c >= 0; c = e.cfgs[c].next {
			switch e.cfgs[c].kind {
			case KindRectangle:
				e.push(CommandRectangle, bounds, el, z, c, "")
			case KindImage:
				e.push(CommandImage, bounds, el, z, c, "")
			case KindCustom:
				e.push(CommandCustom, bounds, el, z, c, "")
			case KindText:
				if c == el.text {
					e.emitText(el, z, screen)
				}
			}
		}
	}
	for ch := el.firstChild; ch >= 0; ch = e.els[ch].next {
		if e.els[ch].floating < 0 {
			e.emitElement(ch, z, screen)
		}
	}
	if !visible {
		return
	}
	for c := el.firstConfig; c >= 0; c = e.cfgs[c].next {
		if e.cfgs[c].kind == KindBorder {
			e.emitSeparators(el, z, c, screen)
			e.push(CommandBorder, bounds, el, z, c, "")
		}
	}
	if el.scroll >= 0 {
		e.push(CommandScissorEnd, bounds, el, z, el.scroll, "")
	}
}

// emitSeparators appends a rectangle centered in each gap between
// consecutive non-floating children of el, as wide as the
// BetweenChildren side of the border configuration c.
func (e *Engine) emitSeparators(el *element, z int16, c int32, screen f32.Rectangle) {
	data, _ := e.config(c)
	w := decodeBorder(data).BetweenChildren.Width
	if w <= 0 {
		return
	}
	main := el.mainAxis()
	cross := 1 - main
	prev := int32(-1)
	for ch := el.firstChild; ch >= 0; ch = e.els[ch].next {
		if e.els[ch].floating >= 0 {
			continue
		}
		if prev >= 0 {
			a, b := &e.els[prev], &e.els[ch]
			mid := (a.pos[main] + a.size[main] + b.pos[main]) / 2
			var pos, size [2]float32
			pos[main] = mid - w/2
			size[main] = w
			pos[cross] = el.pos[cross] + el.padding(cross)
			size[cross] = max(el.size[cross]-2*el.padding(cross), 0)
			r := f32.Rect(pos[axisX], pos[axisY], size[axisX], size[axisY])
			if !e.opts.Culling || r.Overlaps(screen) {
				e.push(CommandRectangle, r, el, z, c, "")
				e.cmds[len(e.cmds)-1].separator = true
			}
		}
		prev = ch
	}
}

// emitText appends one command per wrapped line of el's text.
func (e *Engine) emitText(el *element, z int16, screen f32.Rectangle) {
	x := el.pos[axisX] + el.padding(axisX)
	y := el.pos[axisY] + el.padding(axisY)
	lh := el.post.lineHeight
	lines := e.lines[el.lineStart : el.lineStart+el.lineCount]
	for k, l := range lines {
		if l.Text == "" {
			continue
		}
		r := f32.Rect(x, y+float32(k)*lh, l.Width, lh)
		if e.opts.Culling && !r.Overlaps(screen) {
			continue
		}
		e.push(CommandText, r, el, z, el.text, l.Text)
	}
}

func (e *Engine) push(t CommandType, bounds f32.Rectangle, el *element, z int16, cfg int32, line string) {
	e.cmds = append(e.cmds, Command{
		Type:   t,
		Bounds: bounds,
		ID:     el.id,
		ZIndex: z,
		eng:    e,
		gen:    e.gen,
		cfg:    cfg,
		line:   line,
	})
}

func (el *element) bounds() f32.Rectangle {
	return f32.Rect(el.pos[axisX], el.pos[axisY], el.size[axisX], el.size[axisY])
}
