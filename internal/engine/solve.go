// SPDX-License-Identifier: Unlicense OR MIT

package engine

import (
	"cmp"
	"math"

	"golang.org/x/exp/slices"
)

// epsilon is the tolerance below which free space is ignored.
const epsilon = 0.01

const (
	axisX = 0
	axisY = 1
)

func (e *Engine) solve() {
	e.fit(axisX)
	e.distribute(axisX)
	e.wrapText()
	e.fit(axisY)
	e.distribute(axisY)
	e.position()
}

// fit sizes every element to its content along axis a. Children follow
// their parent in the records, so walking backwards visits them first.
func (e *Engine) fit(a int) {
	for i := len(e.els) - 1; i >= 0; i-- {
		e.fitElement(&e.els[i], a)
	}
}

func (e *Engine) fitElement(el *element, a int) {
	s := el.axis(a)
	if s.Type == SizingFixed {
		el.size[a], el.min[a] = s.Min, s.Min
		return
	}
	main := a == el.mainAxis()
	var content, minContent float32
	n := 0
	for c := el.firstChild; c >= 0; c = e.els[c].next {
		ch := &e.els[c]
		if ch.floating >= 0 {
			continue
		}
		n++
		if main {
			content += ch.size[a]
			minContent += ch.min[a]
		} else {
			content = max(content, ch.size[a])
			minContent = max(minContent, ch.min[a])
		}
	}
	if main && n > 1 {
		gaps := float32(el.layout.ChildGap) * float32(n-1)
		content += gaps
		minContent += gaps
	}
	if el.text >= 0 {
		if a == axisX {
			content = max(content, el.post.width)
			minContent = max(minContent, el.post.minWidth)
		} else {
			content = max(content, el.textHeight)
			minContent = max(minContent, el.textHeight)
		}
	}
	pad := 2 * el.padding(a)
	if s.Type == SizingPercent {
		// Resolved against the parent by distribute.
		el.size[a], el.min[a] = 0, 0
		return
	}
	el.size[a] = clampAxis(content+pad, s)
	if el.scrolls(a) {
		el.min[a] = s.Min
	} else {
		el.min[a] = clampAxis(minContent+pad, s)
	}
}

// distribute resolves percent and grow sizes and compresses
// overflowing children, parents before children.
func (e *Engine) distribute(a int) {
	for i := range e.els {
		e.distributeChildren(&e.els[i], a)
	}
}

func (e *Engine) distributeChildren(el *element, a int) {
	if el.firstChild < 0 {
		return
	}
	inner := el.size[a] - 2*el.padding(a)
	if a != el.mainAxis() {
		for c := el.firstChild; c >= 0; c = e.els[c].next {
			ch := &e.els[c]
			if ch.floating >= 0 {
				e.sizeFloating(ch, el, a)
				continue
			}
			switch s := ch.axis(a); s.Type {
			case SizingGrow:
				ch.size[a] = max(clampAxis(inner, s), ch.min[a])
			case SizingPercent:
				ch.size[a] = max(inner, 0) * s.Percent
			case SizingFit:
				if !el.scrolls(a) {
					ch.size[a] = max(ch.min[a], min(ch.size[a], inner))
				}
			}
		}
		return
	}
	n := 0
	for c := el.firstChild; c >= 0; c = e.els[c].next {
		if e.els[c].floating < 0 {
			n++
		}
	}
	var gaps float32
	if n > 1 {
		gaps = float32(el.layout.ChildGap) * float32(n-1)
	}
	var used float32
	e.scratch = e.scratch[:0]
	for c := el.firstChild; c >= 0; c = e.els[c].next {
		ch := &e.els[c]
		if ch.floating >= 0 {
			e.sizeFloating(ch, el, a)
			continue
		}
		switch s := ch.axis(a); s.Type {
		case SizingPercent:
			ch.size[a] = max(inner-gaps, 0) * s.Percent
		case SizingFit, SizingGrow:
			e.scratch = append(e.scratch, c)
		}
		used += ch.size[a]
	}
	remaining := inner - gaps - used
	switch {
	case remaining < -epsilon && !el.scrolls(a):
		e.compress(e.scratch, a, remaining)
	case remaining > epsilon:
		e.grow(e.scratch, a, remaining)
	}
}

// compress shrinks the largest children first until the overflow is
// gone or every child is at its minimum size.
func (e *Engine) compress(list []int32, a int, remaining float32) {
	atMin := func(c int32) bool {
		ch := &e.els[c]
		return ch.size[a] <= ch.min[a]
	}
	list = slices.DeleteFunc(list, atMin)
	for remaining < -epsilon && len(list) > 0 {
		var largest, second float32
		for _, c := range list {
			switch s := e.els[c].size[a]; {
			case s > largest:
				second, largest = largest, s
			case s < largest && s > second:
				second = s
			}
		}
		count := 0
		for _, c := range list {
			if e.els[c].size[a] == largest {
				count++
			}
		}
		target := max(second, largest+remaining/float32(count))
		if target >= largest {
			break
		}
		for _, c := range list {
			ch := &e.els[c]
			if ch.size[a] != largest {
				continue
			}
			size := max(target, ch.min[a])
			remaining += ch.size[a] - size
			ch.size[a] = size
		}
		list = slices.DeleteFunc(list, atMin)
	}
}

// grow expands the smallest growing children first until the free
// space is used or every child is at its maximum size.
func (e *Engine) grow(list []int32, a int, remaining float32) {
	atMax := func(c int32) bool {
		ch := &e.els[c]
		s := ch.axis(a)
		return s.Type != SizingGrow || (s.Max > 0 && ch.size[a] >= s.Max)
	}
	list = slices.DeleteFunc(list, atMax)
	inf := float32(math.Inf(1))
	for remaining > epsilon && len(list) > 0 {
		smallest, second := inf, inf
		for _, c := range list {
			switch s := e.els[c].size[a]; {
			case s < smallest:
				second, smallest = smallest, s
			case s > smallest && s < second:
				second = s
			}
		}
		count := 0
		for _, c := range list {
			if e.els[c].size[a] == smallest {
				count++
			}
		}
		target := min(second, smallest+remaining/float32(count))
		if target <= smallest {
			break
		}
		for _, c := range list {
			ch := &e.els[c]
			if ch.size[a] != smallest {
				continue
			}
			size := target
			if s := ch.axis(a); s.Max > 0 {
				size = min(size, s.Max)
			}
			remaining -= size - ch.size[a]
			ch.size[a] = size
		}
		list = slices.DeleteFunc(list, atMax)
	}
}

// sizeFloating resolves the percent and grow sizes of a floating
// element against its parent's outer size and applies its expansion.
func (e *Engine) sizeFloating(el, parent *element, a int) {
	switch s := el.axis(a); s.Type {
	case SizingGrow:
		el.size[a] = max(clampAxis(parent.size[a], s), el.min[a])
	case SizingPercent:
		el.size[a] = parent.size[a] * s.Percent
	}
	f := e.floatingConfig(el.floating)
	exp := f.Expand.X
	if a == axisY {
		exp = f.Expand.Y
	}
	el.size[a] += 2 * exp
}

// wrapText breaks the text of every element at its resolved width.
func (e *Engine) wrapText() {
	for i := range e.els {
		el := &e.els[i]
		if el.text < 0 {
			continue
		}
		t := e.textConfig(el.text)
		width := el.size[axisX] - 2*el.padding(axisX)
		lines := e.opts.Measurer.Wrap(t.Content, t.Style(), width)
		el.lineStart = int32(len(e.lines))
		el.lineCount = int32(len(lines))
		e.lines = append(e.lines, lines...)
		el.textHeight = float32(len(lines)) * el.post.lineHeight
	}
}

// position places every element. Floating elements are placed after
// the main tree, in declaration order, and sorted by z-index for
// emission.
func (e *Engine) position() {
	e.els[0].pos = [2]float32{}
	e.place(0)
	e.floats = e.floats[:0]
	for i := range e.els {
		if e.els[i].floating >= 0 {
			e.floats = append(e.floats, int32(i))
		}
	}
	for _, f := range e.floats {
		e.placeFloating(f)
		e.place(f)
	}
	slices.SortStableFunc(e.floats, func(i, j int32) int {
		return cmp.Compare(e.floatingConfig(e.els[i].floating).ZIndex, e.floatingConfig(e.els[j].floating).ZIndex)
	})
}

// place positions the children of element i and, recursively, their
// descendants.
func (e *Engine) place(i int32) {
	el := &e.els[i]
	m := el.mainAxis()
	c := 1 - m
	origin := [2]float32{
		el.pos[axisX] + el.padding(axisX),
		el.pos[axisY] + el.padding(axisY),
	}
	if off, ok := e.scrolls[el.id]; ok && el.scroll >= 0 {
		if el.scrollAxes[axisX] {
			origin[axisX] += off.X
		}
		if el.scrollAxes[axisY] {
			origin[axisY] += off.Y
		}
	}
	inner := [2]float32{
		el.size[axisX] - 2*el.padding(axisX),
		el.size[axisY] - 2*el.padding(axisY),
	}
	var used, cross float32
	n := 0
	for ch := el.firstChild; ch >= 0; ch = e.els[ch].next {
		if e.els[ch].floating >= 0 {
			continue
		}
		n++
		used += e.els[ch].size[m]
		cross = max(cross, e.els[ch].size[c])
	}
	gap := float32(el.layout.ChildGap)
	if n > 1 {
		used += gap * float32(n-1)
	}
	el.content[m] = used + 2*el.padding(m)
	el.content[c] = cross + 2*el.padding(c)
	if n == 0 {
		return
	}
	align := el.alignment()
	cursor := origin[m] + max(inner[m]-used, 0)*align[m]
	for ch := el.firstChild; ch >= 0; ch = e.els[ch].next {
		child := &e.els[ch]
		if child.floating >= 0 {
			continue
		}
		child.pos[m] = cursor
		child.pos[c] = origin[c] + max(inner[c]-child.size[c], 0)*align[c]
		cursor += child.size[m] + gap
		e.place(ch)
	}
}

// placeFloating positions floating element f relative to its attach
// target.
func (e *Engine) placeFloating(f int32) {
	el := &e.els[f]
	cfg := e.floatingConfig(el.floating)
	target := el.parent
	if cfg.ParentID != 0 {
		if t, ok := e.ids[cfg.ParentID]; ok {
			target = t
		}
	}
	t := &e.els[target]
	tp := attachOffset(cfg.Attachment.Parent, t.size)
	ep := attachOffset(cfg.Attachment.Element, el.size)
	el.pos[axisX] = t.pos[axisX] + tp[axisX] - ep[axisX] + cfg.Offset.X - cfg.Expand.X
	el.pos[axisY] = t.pos[axisY] + tp[axisY] - ep[axisY] + cfg.Offset.Y - cfg.Expand.Y
}

// attachOffset returns the position of p relative to the top left
// corner of a box of the given size.
func attachOffset(p AttachPoint, size [2]float32) [2]float32 {
	h := float32(p / 3)
	v := float32(p % 3)
	return [2]float32{size[axisX] * h / 2, size[axisY] * v / 2}
}

func clampAxis(v float32, s SizingAxis) float32 {
	if s.Max > 0 {
		v = min(v, s.Max)
	}
	return max(v, s.Min)
}

func (el *element) axis(a int) SizingAxis {
	if a == axisX {
		return el.layout.Sizing.Width
	}
	return el.layout.Sizing.Height
}

func (el *element) mainAxis() int {
	if el.layout.Direction == TopToBottom {
		return axisY
	}
	return axisX
}

func (el *element) padding(a int) float32 {
	if a == axisX {
		return float32(el.layout.Padding.X)
	}
	return float32(el.layout.Padding.Y)
}

func (el *element) scrolls(a int) bool {
	return el.scroll >= 0 && el.scrollAxes[a]
}

// alignment returns the fraction of the free space placed before the
// children along each axis.
func (el *element) alignment() [2]float32 {
	var f [2]float32
	switch el.layout.ChildAlignment.X {
	case AlignCenterX:
		f[axisX] = .5
	case AlignRight:
		f[axisX] = 1
	}
	switch el.layout.ChildAlignment.Y {
	case AlignCenterY:
		f[axisY] = .5
	case AlignBottom:
		f[axisY] = 1
	}
	return f
}
