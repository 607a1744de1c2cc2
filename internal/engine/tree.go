// SPDX-License-Identifier: Unlicense OR MIT

package engine

import (
	"encoding/binary"

	"github.com/cespare/xxhash/v2"

	"clayui.org/internal/arena"
	"clayui.org/internal/ops"
)

// rootLabel names the implicit element that contains every declared
// element.
const rootLabel = "layout.root"

// element is the resolved record of one element. Records are stored in
// the arena in declaration order, so a parent always precedes its
// descendants.
type element struct {
	parent      int32
	firstChild  int32
	lastChild   int32
	next        int32
	children    int32
	firstConfig int32
	lastConfig  int32
	// Indices of the single-slot configurations, or -1.
	text     int32
	floating int32
	scroll   int32
	// scrollAxes reports the axes along which children may overflow.
	scrollAxes [2]bool

	id         uint32
	explicitID bool

	layout Layout
	post   postConfig

	// Per axis sizes; index 0 is X.
	size    [2]float32
	min     [2]float32
	content [2]float32
	pos     [2]float32

	lineStart  int32
	lineCount  int32
	textHeight float32
}

// configRecord locates an attached configuration in the ops stream.
type configRecord struct {
	kind Kind
	pc   int32
	ref  int32
	next int32
}

// HashID returns the ID of the element named label. The offset
// distinguishes elements sharing a label, such as list items.
func HashID(label string, offset uint32) ElementID {
	base := nonZero(uint32(xxhash.Sum64String(label)))
	id := base
	if offset != 0 {
		id = mix(base, offset)
	}
	return ElementID{ID: id, Offset: offset, BaseID: base, Label: label}
}

// childID is the ID of an element declared without one.
func childID(parent uint32, index int32) uint32 {
	return mix(parent, uint32(index)+1)
}

func mix(a, b uint32) uint32 {
	var buf [8]byte
	binary.LittleEndian.PutUint32(buf[:], a)
	binary.LittleEndian.PutUint32(buf[4:], b)
	return nonZero(uint32(xxhash.Sum64(buf[:])))
}

func nonZero(id uint32) uint32 {
	if id == 0 {
		return 1
	}
	return id
}

// build decodes the ops of the pass into element records.
func (e *Engine) build() {
	n := e.elements + 1
	els, ok1 := arena.Slice[element](e.arena, n)
	cfgs, ok2 := arena.Slice[configRecord](e.arena, e.configs)
	stack, ok3 := arena.Slice[int32](e.arena, n)
	if !ok1 || !ok2 || !ok3 {
		panic("engine: arena exhausted")
	}
	els[0] = newElement(-1)
	els[0].id = HashID(rootLabel, 0).ID
	els[0].explicitID = true
	els[0].layout.Sizing = Sizing{
		Width:  SizingAxis{Type: SizingFixed, Min: e.dims.X},
		Height: SizingAxis{Type: SizingFixed, Min: e.dims.Y},
	}
	e.ids[els[0].id] = 0

	depth := 0
	next := int32(1)
	ncfg := int32(0)
	var r ops.Reader
	r.Reset(&e.ops)
	for {
		op, ok := r.Decode()
		if !ok {
			break
		}
		cur := stack[depth]
		el := &els[cur]
		switch op.Type {
		case ops.TypeOpen:
			i := next
			next++
			els[i] = newElement(cur)
			if el.lastChild < 0 {
				el.firstChild = i
			} else {
				els[el.lastChild].next = i
			}
			el.lastChild = i
			els[i].id = childID(el.id, el.children)
			el.children++
			depth++
			stack[depth] = i
		case ops.TypeClose:
			e.register(cur, el)
			depth--
		case ops.TypePostConfig:
			el.post = decodePostConfig(op.Data)
		case ops.TypeID:
			el.id = decodeID(op.Data, op.Refs).ID
			el.explicitID = true
		case ops.TypeLayout:
			el.layout = decodeLayout(op.Data)
		default:
			c := ncfg
			ncfg++
			rec := configRecord{
				kind: Kind(op.Type - ops.TypeID),
				pc:   int32(op.PC),
				ref:  -1,
				next: -1,
			}
			if len(op.Refs) > 0 {
				rec.ref = int32(op.Ref)
			}
			cfgs[c] = rec
			if el.lastConfig < 0 {
				el.firstConfig = c
			} else {
				cfgs[el.lastConfig].next = c
			}
			el.lastConfig = c
			switch rec.kind {
			case KindText:
				el.text = c
			case KindFloating:
				el.floating = c
			case KindScroll:
				el.scroll = c
				sc := decodeScroll(op.Data)
				el.scrollAxes = [2]bool{sc.Horizontal, sc.Vertical}
			}
		}
	}
	e.els, e.cfgs = els, cfgs
}

// register records the ID of element i for lookups. The first element
// declared with an ID keeps it.
func (e *Engine) register(i int32, el *element) {
	if _, dup := e.ids[el.id]; dup {
		if el.explicitID {
			e.duplicates++
		}
		return
	}
	e.ids[el.id] = i
}

func newElement(parent int32) element {
	return element{
		parent:      parent,
		firstChild:  -1,
		lastChild:   -1,
		next:        -1,
		firstConfig: -1,
		lastConfig:  -1,
		text:        -1,
		floating:    -1,
		scroll:      -1,
	}
}

// config returns the encoded configuration of record c.
func (e *Engine) config(c int32) ([]byte, []interface{}) {
	rec := e.cfgs[c]
	data := e.ops.Data()[rec.pc:]
	data = data[:rec.kind.opType().Size()]
	if rec.ref < 0 {
		return data, nil
	}
	return data, e.ops.Refs()[rec.ref : rec.ref+1]
}

func (e *Engine) textConfig(c int32) Text {
	return decodeText(e.config(c))
}

func (e *Engine) floatingConfig(c int32) Floating {
	data, _ := e.config(c)
	return decodeFloating(data)
}

func (e *Engine) scrollConfig(c int32) Scroll {
	data, _ := e.config(c)
	return decodeScroll(data)
}
