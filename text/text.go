// SPDX-License-Identifier: Unlicense OR MIT

// Package text measures and wraps the text content of layout elements.
package text

// DefaultSize is the font size used when a Style leaves Size zero.
const DefaultSize = 16

// WrapMode selects where a text may be broken into lines.
type WrapMode uint8

const (
	// WrapWords breaks at spaces and newlines.
	WrapWords WrapMode = iota
	// WrapNewlines breaks at newlines only.
	WrapNewlines
	// WrapNone never breaks; newlines render as spaces.
	WrapNone
)

// Style holds the properties of a text that affect its measurements.
type Style struct {
	Font          uint16
	Size          float32
	LetterSpacing float32
	// LineHeight overrides the font's line height when positive.
	LineHeight float32
	Wrap       WrapMode
}

// Extent contains the measurements of an unwrapped text.
type Extent struct {
	// Width and Height of the text laid out without wrapping.
	Width, Height float32
	// MinWidth is the width the text cannot shrink below: its widest
	// word for WrapWords, its full width otherwise.
	MinWidth float32
	// LineHeight is the height of one line.
	LineHeight float32
}

// A Line is one line of a wrapped text.
type Line struct {
	// Text is a substring of the wrapped text.
	Text  string
	Width float32
}

// Measurer measures text for the layout engine.
type Measurer interface {
	// Measure returns the extent of str laid out without a width limit.
	Measure(str string, style Style) Extent
	// Wrap breaks str into lines no wider than maxWidth. A word wider
	// than maxWidth is placed alone on its line.
	Wrap(str string, style Style, maxWidth float32) []Line
}

func (m WrapMode) String() string {
	switch m {
	case WrapWords:
		return "Words"
	case WrapNewlines:
		return "Newlines"
	case WrapNone:
		return "None"
	default:
		panic("unreachable")
	}
}

func (s Style) size() float32 {
	if s.Size <= 0 {
		return DefaultSize
	}
	return s.Size
}
