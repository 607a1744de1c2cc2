// SPDX-License-Identifier: Unlicense OR MIT

package engine

import (
	"encoding/binary"
	"math"

	"clayui.org/f32"
	"clayui.org/internal/ops"
	"clayui.org/text"
)

// Kind is the discriminant of a configuration.
type Kind uint8

const (
	KindID Kind = iota
	KindLayout
	KindRectangle
	KindBorder
	KindImage
	KindText
	KindFloating
	KindScroll
	KindCustom
)

// Config is a configuration attached to an element. The set of
// implementations is closed: only the kinds of this package satisfy it.
type Config interface {
	Kind() Kind
	// add serializes the configuration into o.
	add(o *ops.Ops)
}

// Color is a non-premultiplied color with components in [0, 255].
type Color struct {
	R, G, B, A float32
}

type CornerRadius struct {
	TopLeft, TopRight, BottomLeft, BottomRight float32
}

// SizingType selects how an element is sized along one axis.
type SizingType uint8

const (
	// SizingFit wraps the element's content, within Min and Max.
	SizingFit SizingType = iota
	// SizingGrow expands into the free space of the parent, within Min
	// and Max.
	SizingGrow
	// SizingPercent takes Percent of the parent's content size.
	SizingPercent
	// SizingFixed sizes the element to exactly Min.
	SizingFixed
)

// SizingAxis is the sizing of one axis. A zero Max means unbounded.
type SizingAxis struct {
	Type     SizingType
	Min, Max float32
	// Percent is a fraction in [0, 1] for SizingPercent.
	Percent float32
}

type Sizing struct {
	Width, Height SizingAxis
}

// Padding is the space between an element's edges and its children,
// applied on both sides of each axis.
type Padding struct {
	X, Y uint16
}

type AlignX uint8

const (
	AlignLeft AlignX = iota
	AlignRight
	AlignCenterX
)

type AlignY uint8

const (
	AlignTop AlignY = iota
	AlignBottom
	AlignCenterY
)

type ChildAlignment struct {
	X AlignX
	Y AlignY
}

// Direction is the main axis along which children are placed.
type Direction uint8

const (
	LeftToRight Direction = iota
	TopToBottom
)

// Layout controls how an element is sized and how it arranges its
// children.
type Layout struct {
	Sizing         Sizing
	Padding        Padding
	ChildGap       uint16
	ChildAlignment ChildAlignment
	Direction      Direction
}

// ElementID names an element. The zero value is not a valid ID.
type ElementID struct {
	ID     uint32
	Offset uint32
	BaseID uint32
	Label  string
}

type Rectangle struct {
	Color        Color
	CornerRadius CornerRadius
}

type BorderSide struct {
	Width float32
	Color Color
}

// Border is drawn after the element's children. BetweenChildren draws
// a Rectangle command centered in each gap between children, spanning
// the content box across the main axis.
type Border struct {
	Left, Right, Top, Bottom BorderSide
	BetweenChildren          BorderSide
	CornerRadius             CornerRadius
}

// Image references caller owned image data.
type Image struct {
	Data             any
	SourceDimensions f32.Point
}

// Text is the text content of an element. The element must not
// outlive Content's backing memory.
type Text struct {
	Content       string
	Color         Color
	FontID        uint16
	FontSize      float32
	LetterSpacing float32
	// LineHeight overrides the font's line height when positive.
	LineHeight float32
	Wrap       text.WrapMode
}

// AttachPoint is one of nine anchor points on an element's bounds.
type AttachPoint uint8

const (
	AttachLeftTop AttachPoint = iota
	AttachLeftCenter
	AttachLeftBottom
	AttachCenterTop
	AttachCenterCenter
	AttachCenterBottom
	AttachRightTop
	AttachRightCenter
	AttachRightBottom
)

// FloatingAttachment pairs the point of the floating element with the
// point of its parent it attaches to.
type FloatingAttachment struct {
	Element AttachPoint
	Parent  AttachPoint
}

// Floating takes an element out of its parent's flow. It is positioned
// relative to its parent, or to the element with ID ParentID when
// non-zero, and drawn above the main tree ordered by ZIndex.
type Floating struct {
	Offset     f32.Point
	Expand     f32.Point
	ZIndex     int16
	ParentID   uint32
	Attachment FloatingAttachment
}

// Scroll clips an element's children and lets them overflow along the
// enabled axes.
type Scroll struct {
	Horizontal, Vertical bool
}

// Custom carries caller data through to a custom render command.
type Custom struct {
	Data any
}

func (ElementID) Kind() Kind { return KindID }
func (Layout) Kind() Kind { return KindLayout }
func (Rectangle) Kind() Kind { return KindRectangle }
func (Border) Kind() Kind { return KindBorder }
func (Image) Kind() Kind { return KindImage }
func (Text) Kind() Kind { return KindText }
func (Floating) Kind() Kind { return KindFloating }
func (Scroll) Kind() Kind { return KindScroll }
func (Custom) Kind() Kind { return KindCustom }

func (k Kind) String() string {
	switch k {
	case KindID:
		return "ID"
	case KindLayout:
		return "Layout"
	case KindRectangle:
		return "Rectangle"
	case KindBorder:
		return "Border"
	case KindImage:
		return "Image"
	case KindText:
		return "Text"
	case KindFloating:
		return "Floating"
	case KindScroll:
		return "Scroll"
	case KindCustom:
		return "Custom"
	default:
		panic("unknown Kind")
	}
}

func (k Kind) opType() ops.OpType {
	return ops.TypeID + ops.OpType(k)
}

func (id ElementID) add(o *ops.Ops) {
	data := o.Write1(ops.TypeIDLen, id.Label)
	data[0] = byte(ops.TypeID)
	bo := binary.LittleEndian
	bo.PutUint32(data[1:], id.ID)
	bo.PutUint32(data[5:], id.Offset)
	bo.PutUint32(data[9:], id.BaseID)
}

func decodeID(data []byte, refs []interface{}) ElementID {
	if ops.OpType(data[0]) != ops.TypeID {
		panic("invalid op")
	}
	bo := binary.LittleEndian
	return ElementID{
		ID:     bo.Uint32(data[1:]),
		Offset: bo.Uint32(data[5:]),
		BaseID: bo.Uint32(data[9:]),
		Label:  refs[0].(string),
	}
}

func (l Layout) add(o *ops.Ops) {
	data := o.Write(ops.TypeLayoutLen)
	data[0] = byte(ops.TypeLayout)
	putAxis(data[1:], l.Sizing.Width)
	putAxis(data[14:], l.Sizing.Height)
	bo := binary.LittleEndian
	bo.PutUint16(data[27:], l.Padding.X)
	bo.PutUint16(data[29:], l.Padding.Y)
	bo.PutUint16(data[31:], l.ChildGap)
	data[33] = byte(l.ChildAlignment.X)
	data[34] = byte(l.ChildAlignment.Y)
	data[35] = byte(l.Direction)
}

func decodeLayout(data []byte) Layout {
	if ops.OpType(data[0]) != ops.TypeLayout {
		panic("invalid op")
	}
	bo := binary.LittleEndian
	return Layout{
		Sizing: Sizing{
			Width:  axisAt(data[1:]),
			Height: axisAt(data[14:]),
		},
		Padding: Padding{
			X: bo.Uint16(data[27:]),
			Y: bo.Uint16(data[29:]),
		},
		ChildGap: bo.Uint16(data[31:]),
		ChildAlignment: ChildAlignment{
			X: AlignX(data[33]),
			Y: AlignY(data[34]),
		},
		Direction: Direction(data[35]),
	}
}

func (r Rectangle) add(o *ops.Ops) {
	data := o.Write(ops.TypeRectangleLen)
	data[0] = byte(ops.TypeRectangle)
	putColor(data[1:], r.Color)
	putRadius(data[17:], r.CornerRadius)
}

func decodeRectangle(data []byte) Rectangle {
	if ops.OpType(data[0]) != ops.TypeRectangle {
		panic("invalid op")
	}
	return Rectangle{
		Color:        colorAt(data[1:]),
		CornerRadius: radiusAt(data[17:]),
	}
}

func (b Border) add(o *ops.Ops) {
	data := o.Write(ops.TypeBorderLen)
	data[0] = byte(ops.TypeBorder)
	sides := [...]BorderSide{b.Left, b.Right, b.Top, b.Bottom, b.BetweenChildren}
	for i, s := range sides {
		off := 1 + i*20
		putFloat(data[off:], s.Width)
		putColor(data[off+4:], s.Color)
	}
	putRadius(data[101:], b.CornerRadius)
}

func decodeBorder(data []byte) Border {
	if ops.OpType(data[0]) != ops.TypeBorder {
		panic("invalid op")
	}
	var sides [5]BorderSide
	for i := range sides {
		off := 1 + i*20
		sides[i] = BorderSide{Width: floatAt(data[off:]), Color: colorAt(data[off+4:])}
	}
	return Border{
		Left:            sides[0],
		Right:           sides[1],
		Top:             sides[2],
		Bottom:          sides[3],
		BetweenChildren: sides[4],
		CornerRadius:    radiusAt(data[101:]),
	}
}

func (img Image) add(o *ops.Ops) {
	data := o.Write1(ops.TypeImageLen, img.Data)
	data[0] = byte(ops.TypeImage)
	putFloat(data[1:], img.SourceDimensions.X)
	putFloat(data[5:], img.SourceDimensions.Y)
}

func decodeImage(data []byte, refs []interface{}) Image {
	if ops.OpType(data[0]) != ops.TypeImage {
		panic("invalid op")
	}
	return Image{
		Data:             refs[0],
		SourceDimensions: f32.Pt(floatAt(data[1:]), floatAt(data[5:])),
	}
}

func (t Text) add(o *ops.Ops) {
	data := o.Write1(ops.TypeTextLen, t.Content)
	data[0] = byte(ops.TypeText)
	putColor(data[1:], t.Color)
	binary.LittleEndian.PutUint16(data[17:], t.FontID)
	putFloat(data[19:], t.FontSize)
	putFloat(data[23:], t.LetterSpacing)
	putFloat(data[27:], t.LineHeight)
	data[31] = byte(t.Wrap)
}

func decodeText(data []byte, refs []interface{}) Text {
	if ops.OpType(data[0]) != ops.TypeText {
		panic("invalid op")
	}
	return Text{
		Content:       refs[0].(string),
		Color:         colorAt(data[1:]),
		FontID:        binary.LittleEndian.Uint16(data[17:]),
		FontSize:      floatAt(data[19:]),
		LetterSpacing: floatAt(data[23:]),
		LineHeight:    floatAt(data[27:]),
		Wrap:          text.WrapMode(data[31]),
	}
}

// Style returns the measurement properties of t.
func (t Text) Style() text.Style {
	return text.Style{
		Font:          t.FontID,
		Size:          t.FontSize,
		LetterSpacing: t.LetterSpacing,
		LineHeight:    t.LineHeight,
		Wrap:          t.Wrap,
	}
}

func (f Floating) add(o *ops.Ops) {
	data := o.Write(ops.TypeFloatingLen)
	data[0] = byte(ops.TypeFloating)
	bo := binary.LittleEndian
	putFloat(data[1:], f.Offset.X)
	putFloat(data[5:], f.Offset.Y)
	putFloat(data[9:], f.Expand.X)
	putFloat(data[13:], f.Expand.Y)
	bo.PutUint16(data[17:], uint16(f.ZIndex))
	bo.PutUint32(data[19:], f.ParentID)
	data[23] = byte(f.Attachment.Element)
	data[24] = byte(f.Attachment.Parent)
}

func decodeFloating(data []byte) Floating {
	if ops.OpType(data[0]) != ops.TypeFloating {
		panic("invalid op")
	}
	bo := binary.LittleEndian
	return Floating{
		Offset:   f32.Pt(floatAt(data[1:]), floatAt(data[5:])),
		Expand:   f32.Pt(floatAt(data[9:]), floatAt(data[13:])),
		ZIndex:   int16(bo.Uint16(data[17:])),
		ParentID: bo.Uint32(data[19:]),
		Attachment: FloatingAttachment{
			Element: AttachPoint(data[23]),
			Parent:  AttachPoint(data[24]),
		},
	}
}

func (s Scroll) add(o *ops.Ops) {
	data := o.Write(ops.TypeScrollLen)
	data[0] = byte(ops.TypeScroll)
	data[1] = boolByte(s.Horizontal)
	data[2] = boolByte(s.Vertical)
}

func decodeScroll(data []byte) Scroll {
	if ops.OpType(data[0]) != ops.TypeScroll {
		panic("invalid op")
	}
	return Scroll{Horizontal: data[1] != 0, Vertical: data[2] != 0}
}

func (c Custom) add(o *ops.Ops) {
	data := o.Write1(ops.TypeCustomLen, c.Data)
	data[0] = byte(ops.TypeCustom)
}

func decodeCustom(data []byte, refs []interface{}) Custom {
	if ops.OpType(data[0]) != ops.TypeCustom {
		panic("invalid op")
	}
	return Custom{Data: refs[0]}
}

// postConfig holds the measurements taken when an element's
// configuration is finalized.
type postConfig struct {
	minWidth, width, height, lineHeight float32
}

func (p postConfig) add(o *ops.Ops) {
	data := o.Write(ops.TypePostConfigLen)
	data[0] = byte(ops.TypePostConfig)
	putFloat(data[1:], p.minWidth)
	putFloat(data[5:], p.width)
	putFloat(data[9:], p.height)
	putFloat(data[13:], p.lineHeight)
}

func decodePostConfig(data []byte) postConfig {
	if ops.OpType(data[0]) != ops.TypePostConfig {
		panic("invalid op")
	}
	return postConfig{
		minWidth:   floatAt(data[1:]),
		width:      floatAt(data[5:]),
		height:     floatAt(data[9:]),
		lineHeight: floatAt(data[13:]),
	}
}

func putAxis(data []byte, a SizingAxis) {
	data[0] = byte(a.Type)
	putFloat(data[1:], a.Min)
	putFloat(data[5:], a.Max)
	putFloat(data[9:], a.Percent)
}

func axisAt(data []byte) SizingAxis {
	return SizingAxis{
		Type:    SizingType(data[0]),
		Min:     floatAt(data[1:]),
		Max:     floatAt(data[5:]),
		Percent: floatAt(data[9:]),
	}
}

func putColor(data []byte, c Color) {
	putFloat(data[0:], c.R)
	putFloat(data[4:], c.G)
	putFloat(data[8:], c.B)
	putFloat(data[12:], c.A)
}

func colorAt(data []byte) Color {
	return Color{
		R: floatAt(data[0:]),
		G: floatAt(data[4:]),
		B: floatAt(data[8:]),
		A: floatAt(data[12:]),
	}
}

func putRadius(data []byte, r CornerRadius) {
	putFloat(data[0:], r.TopLeft)
	putFloat(data[4:], r.TopRight)
	putFloat(data[8:], r.BottomLeft)
	putFloat(data[12:], r.BottomRight)
}

func radiusAt(data []byte) CornerRadius {
	return CornerRadius{
		TopLeft:     floatAt(data[0:]),
		TopRight:    floatAt(data[4:]),
		BottomLeft:  floatAt(data[8:]),
		BottomRight: floatAt(data[12:]),
	}
}

func putFloat(data []byte, v float32) {
	binary.LittleEndian.PutUint32(data, math.Float32bits(v))
}

func floatAt(data []byte) float32 {
	return math.Float32frombits(binary.LittleEndian.Uint32(data))
}

func boolByte(b bool) byte {
	if b {
		return 1
	}
	return 0
}
