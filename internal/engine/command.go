// SPDX-License-Identifier: Unlicense OR MIT

package engine

import (
	"fmt"

	"clayui.org/f32"
)

type CommandType uint8

const (
	CommandNone CommandType = iota
	CommandRectangle
	CommandBorder
	CommandText
	CommandImage
	CommandScissorStart
	CommandScissorEnd
	CommandCustom
)

// Command is a positioned drawing instruction. Its payload is read
// from the pass that produced it; accessing the payload after the next
// BeginLayout or after Release panics.
type Command struct {
	Type   CommandType
	Bounds f32.Rectangle
	// ID of the element that produced the command.
	ID     uint32
	ZIndex int16

	eng *Engine
	gen uint32
	// cfg is the configuration record, or -1.
	cfg  int32
	line string
	// separator marks a rectangle drawn between children by a border.
	separator bool
}

func (t CommandType) String() string {
	switch t {
	case CommandNone:
		return "None"
	case CommandRectangle:
		return "Rectangle"
	case CommandBorder:
		return "Border"
	case CommandText:
		return "Text"
	case CommandImage:
		return "Image"
	case CommandScissorStart:
		return "ScissorStart"
	case CommandScissorEnd:
		return "ScissorEnd"
	case CommandCustom:
		return "Custom"
	default:
		panic("unknown CommandType")
	}
}

// Valid reports whether the command's pass is still current.
func (c Command) Valid() bool {
	return c.eng != nil && !c.eng.released && c.eng.gen == c.gen
}

// Rectangle returns the rectangle configuration. For a separator
// between children it is the color of the border's BetweenChildren
// side.
func (c Command) Rectangle() Rectangle {
	data, _ := c.payload(CommandRectangle)
	if c.separator {
		return Rectangle{Color: decodeBorder(data).BetweenChildren.Color}
	}
	return decodeRectangle(data)
}

func (c Command) Border() Border {
	data, _ := c.payload(CommandBorder)
	return decodeBorder(data)
}

// Text returns the text configuration of the element with Content set
// to the line the command draws.
func (c Command) Text() Text {
	t := decodeText(c.payload(CommandText))
	t.Content = c.line
	return t
}

func (c Command) Image() Image {
	return decodeImage(c.payload(CommandImage))
}

func (c Command) Custom() Custom {
	return decodeCustom(c.payload(CommandCustom))
}

// Scroll returns the configuration of the scroll container that
// produced a scissor command.
func (c Command) Scroll() Scroll {
	t := CommandScissorStart
	if c.Type == CommandScissorEnd {
		t = CommandScissorEnd
	}
	data, _ := c.payload(t)
	return decodeScroll(data)
}

func (c Command) payload(t CommandType) ([]byte, []interface{}) {
	if c.Type != t {
		panic(fmt.Sprintf("%v payload of a %v command", t, c.Type))
	}
	if !c.Valid() {
		panic("stale command view")
	}
	return c.eng.config(c.cfg)
}

func (c Command) String() string {
	return fmt.Sprintf("%v %v", c.Type, c.Bounds)
}
