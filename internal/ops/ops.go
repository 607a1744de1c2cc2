// SPDX-License-Identifier: Unlicense OR MIT

// Package ops implements the serialized declaration stream written
// during a layout pass.
//
// Every declaration is an op: a type byte followed by a fixed size,
// little endian payload. Values the garbage collector must see, such
// as strings and caller supplied image data, are kept in a parallel
// list of references.
package ops

import "errors"

// ErrFull is the panic value when a write exceeds the stream's region.
// Callers size the region so that it cannot happen for in-bound input.
var ErrFull = errors.New("ops: region exhausted")

type Ops struct {
	// version is incremented at each Reset.
	version int
	// data contains the serialized ops. Its capacity is the
	// region handed to Reset and never grows.
	data []byte
	// refs hold external references for ops.
	refs []interface{}

	elems stack
}

type OpType byte

// Start at a high number for easier debugging.
const firstOpIndex = 200

const (
	TypeOpen OpType = iota + firstOpIndex
	TypeClose
	TypeID
	TypeLayout
	TypeRectangle
	TypeBorder
	TypeImage
	TypeText
	TypeFloating
	TypeScroll
	TypeCustom
	TypePostConfig
)

const (
	TypeOpenLen       = 1
	TypeCloseLen      = 1
	TypeIDLen         = 1 + 4 + 4 + 4
	TypeLayoutLen     = 1 + 2*(1+4*3) + 2*2 + 2 + 2 + 1
	TypeRectangleLen  = 1 + 4*4 + 4*4
	TypeBorderLen     = 1 + 5*(4+4*4) + 4*4
	TypeImageLen      = 1 + 4*2
	TypeTextLen       = 1 + 4*4 + 2 + 4 + 4 + 4 + 1
	TypeFloatingLen   = 1 + 4*2 + 4*2 + 2 + 4 + 1 + 1
	TypeScrollLen     = 1 + 1 + 1
	TypeCustomLen     = 1
	TypePostConfigLen = 1 + 4*4
)

// MaxConfigLen is the largest encoded size of an attached configuration.
const MaxConfigLen = TypeBorderLen

// ElementLen is the encoded size of the ops every element carries
// regardless of its configuration.
const ElementLen = TypeOpenLen + TypePostConfigLen + TypeCloseLen

// StackID identifies an open element.
type StackID struct {
	id   int
	prev int
}

// stack tracks the integer identities of open elements to ensure
// correct pairing of opens and closes.
type stack struct {
	currentID int
	nextID    int
	depth     int
}

// Reset the Ops for a new pass, using region as its backing store.
func (o *Ops) Reset(region []byte) {
	o.elems = stack{}
	// Leave references to the GC.
	for i := range o.refs {
		o.refs[i] = nil
	}
	o.data = region[:0]
	o.refs = o.refs[:0]
	o.version++
}

func (o *Ops) Data() []byte {
	return o.data
}

func (o *Ops) Refs() []interface{} {
	return o.refs
}

func (o *Ops) Version() int {
	return o.version
}

// Depth returns the number of open elements.
func (o *Ops) Depth() int {
	return o.elems.depth
}

// Write reserves n bytes at the end of the stream and returns them.
func (o *Ops) Write(n int) []byte {
	if len(o.data)+n > cap(o.data) {
		panic(ErrFull)
	}
	o.data = o.data[:len(o.data)+n]
	return o.data[len(o.data)-n:]
}

// Write1 is like Write and records one reference for the op.
func (o *Ops) Write1(n int, ref1 interface{}) []byte {
	data := o.Write(n)
	o.refs = append(o.refs, ref1)
	return data
}

// PushElement opens an element and writes its open op.
func (o *Ops) PushElement() StackID {
	data := o.Write(TypeOpenLen)
	data[0] = byte(TypeOpen)
	return o.elems.push()
}

// PopElement closes the element opened by the matching PushElement.
func (o *Ops) PopElement(id StackID) {
	o.elems.pop(id)
	data := o.Write(TypeCloseLen)
	data[0] = byte(TypeClose)
}

func (s *stack) push() StackID {
	s.nextID++
	s.depth++
	sid := StackID{
		id:   s.nextID,
		prev: s.currentID,
	}
	s.currentID = s.nextID
	return sid
}

func (s *stack) check(sid StackID) {
	if s.currentID != sid.id {
		panic("unbalanced element")
	}
}

func (s *stack) pop(sid StackID) {
	s.check(sid)
	s.depth--
	s.currentID = sid.prev
}

func (t OpType) Size() int {
	return [...]int{
		TypeOpenLen,
		TypeCloseLen,
		TypeIDLen,
		TypeLayoutLen,
		TypeRectangleLen,
		TypeBorderLen,
		TypeImageLen,
		TypeTextLen,
		TypeFloatingLen,
		TypeScrollLen,
		TypeCustomLen,
		TypePostConfigLen,
	}[t-firstOpIndex]
}

func (t OpType) NumRefs() int {
	switch t {
	case TypeID, TypeImage, TypeText, TypeCustom:
		return 1
	default:
		return 0
	}
}

func (t OpType) String() string {
	switch t {
	case TypeOpen:
		return "Open"
	case TypeClose:
		return "Close"
	case TypeID:
		return "ID"
	case TypeLayout:
		return "Layout"
	case TypeRectangle:
		return "Rectangle"
	case TypeBorder:
		return "Border"
	case TypeImage:
		return "Image"
	case TypeText:
		return "Text"
	case TypeFloating:
		return "Floating"
	case TypeScroll:
		return "Scroll"
	case TypeCustom:
		return "Custom"
	case TypePostConfig:
		return "PostConfig"
	default:
		panic("unknown OpType")
	}
}
