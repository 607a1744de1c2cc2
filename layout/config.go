// SPDX-License-Identifier: Unlicense OR MIT

package layout

import (
	"clayui.org/internal/engine"
)

// Config is a configuration attached to an element: one of ElementID,
// Layout, Rectangle, Border, Image, Text, Floating, Scroll and Custom.
// No other type implements it.
type Config = engine.Config

// Kind is the discriminant of a Config.
type Kind = engine.Kind

const (
	KindID        = engine.KindID
	KindLayout    = engine.KindLayout
	KindRectangle = engine.KindRectangle
	KindBorder    = engine.KindBorder
	KindImage     = engine.KindImage
	KindText      = engine.KindText
	KindFloating  = engine.KindFloating
	KindScroll    = engine.KindScroll
	KindCustom    = engine.KindCustom
)

type (
	ElementID          = engine.ElementID
	Layout             = engine.Layout
	Sizing             = engine.Sizing
	SizingAxis         = engine.SizingAxis
	SizingType         = engine.SizingType
	Padding            = engine.Padding
	ChildAlignment     = engine.ChildAlignment
	AlignX             = engine.AlignX
	AlignY             = engine.AlignY
	Direction          = engine.Direction
	Rectangle          = engine.Rectangle
	Color              = engine.Color
	CornerRadius       = engine.CornerRadius
	Border             = engine.Border
	BorderSide         = engine.BorderSide
	Image              = engine.Image
	Text               = engine.Text
	Floating           = engine.Floating
	FloatingAttachment = engine.FloatingAttachment
	AttachPoint        = engine.AttachPoint
	Scroll             = engine.Scroll
	Custom             = engine.Custom
	ScrollData         = engine.ScrollData
)

const (
	SizingFit     = engine.SizingFit
	SizingGrow    = engine.SizingGrow
	SizingPercent = engine.SizingPercent
	SizingFixed   = engine.SizingFixed
)

const (
	AlignLeft    = engine.AlignLeft
	AlignRight   = engine.AlignRight
	AlignCenterX = engine.AlignCenterX
	AlignTop     = engine.AlignTop
	AlignBottom  = engine.AlignBottom
	AlignCenterY = engine.AlignCenterY
)

const (
	LeftToRight = engine.LeftToRight
	TopToBottom = engine.TopToBottom
)

const (
	AttachLeftTop      = engine.AttachLeftTop
	AttachLeftCenter   = engine.AttachLeftCenter
	AttachLeftBottom   = engine.AttachLeftBottom
	AttachCenterTop    = engine.AttachCenterTop
	AttachCenterCenter = engine.AttachCenterCenter
	AttachCenterBottom = engine.AttachCenterBottom
	AttachRightTop     = engine.AttachRightTop
	AttachRightCenter  = engine.AttachRightCenter
	AttachRightBottom  = engine.AttachRightBottom
)

// ID returns the ID of the element named label.
func ID(label string) ElementID {
	return engine.HashID(label, 0)
}

// IDI returns the ID of the index'th element named label, for elements
// declared in a loop.
func IDI(label string, index uint32) ElementID {
	return engine.HashID(label, index)
}

// Fit sizes an axis to its content.
func Fit() SizingAxis {
	return SizingAxis{Type: SizingFit}
}

// FitRange sizes an axis to its content within [min, max]. A zero max
// is unbounded.
func FitRange(min, max float32) SizingAxis {
	return SizingAxis{Type: SizingFit, Min: min, Max: max}
}

// Grow expands an axis into the free space of the parent.
func Grow() SizingAxis {
	return SizingAxis{Type: SizingGrow}
}

// GrowRange is like Grow within [min, max]. A zero max is unbounded.
func GrowRange(min, max float32) SizingAxis {
	return SizingAxis{Type: SizingGrow, Min: min, Max: max}
}

func Fixed(v float32) SizingAxis {
	return SizingAxis{Type: SizingFixed, Min: v, Max: v}
}

// Percent sizes an axis to the fraction p, in [0, 1], of the parent's
// content size.
func Percent(p float32) SizingAxis {
	return SizingAxis{Type: SizingPercent, Percent: p}
}

// UniformPadding pads both axes by v.
func UniformPadding(v uint16) Padding {
	return Padding{X: v, Y: v}
}

// RGBA returns the color with the given components in [0, 255].
func RGBA(r, g, b, a float32) Color {
	return Color{R: r, G: g, B: b, A: a}
}
