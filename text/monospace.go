// SPDX-License-Identifier: Unlicense OR MIT

package text

// Monospace measures every rune with the same advance, as a terminal
// grid does. The zero value measures one unit per rune and line.
type Monospace struct {
	Advance    float32
	LineHeight float32
}

func (m Monospace) Measure(str string, style Style) Extent {
	return measure(m, str, style)
}

func (m Monospace) Wrap(str string, style Style, maxWidth float32) []Line {
	return wrap(m, str, style, maxWidth)
}

func (m Monospace) advance(r rune, style Style) float32 {
	if m.Advance <= 0 {
		return 1 + style.LetterSpacing
	}
	return m.Advance + style.LetterSpacing
}

func (m Monospace) kern(r0, r1 rune, style Style) float32 {
	return 0
}

func (m Monospace) lineHeight(style Style) float32 {
	switch {
	case style.LineHeight > 0:
		return style.LineHeight
	case m.LineHeight > 0:
		return m.LineHeight
	default:
		return 1
	}
}
