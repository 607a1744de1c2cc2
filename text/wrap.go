// SPDX-License-Identifier: Unlicense OR MIT

package text

import (
	"strings"
	"unicode/utf8"
)

// advancer is the per glyph metrics source shared by the measurers.
type advancer interface {
	advance(r rune, style Style) float32
	kern(r0, r1 rune, style Style) float32
	lineHeight(style Style) float32
}

func measure(a advancer, str string, style Style) Extent {
	lh := a.lineHeight(style)
	if style.Wrap == WrapNone {
		w := width(a, flatten(str), style)
		return Extent{Width: w, Height: lh, MinWidth: w, LineHeight: lh}
	}
	var e Extent
	e.LineHeight = lh
	for _, line := range strings.Split(str, "\n") {
		w := width(a, line, style)
		e.Width = max(e.Width, w)
		e.Height += lh
		if style.Wrap == WrapWords {
			for _, word := range strings.FieldsFunc(line, isBreak) {
				e.MinWidth = max(e.MinWidth, width(a, word, style))
			}
		}
	}
	if style.Wrap != WrapWords {
		e.MinWidth = e.Width
	}
	return e
}

func wrap(a advancer, str string, style Style, maxWidth float32) []Line {
	if style.Wrap == WrapNone {
		s := flatten(str)
		return []Line{{Text: s, Width: width(a, s, style)}}
	}
	var lines []Line
	for _, para := range strings.Split(str, "\n") {
		if style.Wrap == WrapNewlines {
			lines = append(lines, Line{Text: para, Width: width(a, para, style)})
			continue
		}
		lines = wrapWords(a, lines, para, style, maxWidth)
	}
	return lines
}

// wrapWords appends the lines of para broken greedily at spaces.
func wrapWords(a advancer, lines []Line, para string, style Style, maxWidth float32) []Line {
	start, end := -1, -1
	var w float32
	for i := 0; i < len(para); {
		// Find the next word.
		for i < len(para) && isBreak(rune(para[i])) {
			i++
		}
		if i == len(para) {
			break
		}
		j := strings.IndexFunc(para[i:], isBreak)
		if j < 0 {
			j = len(para)
		} else {
			j += i
		}
		if start < 0 {
			start, end = i, j
			w = width(a, para[start:end], style)
		} else if cw := width(a, para[start:j], style); cw <= maxWidth {
			end, w = j, cw
		} else {
			lines = append(lines, Line{Text: para[start:end], Width: w})
			start, end = i, j
			w = width(a, para[start:end], style)
		}
		i = j
	}
	if start < 0 {
		return append(lines, Line{})
	}
	return append(lines, Line{Text: para[start:end], Width: w})
}

// isBreak reports whether lines may break at r. Other white space,
// such as tabs, is part of the surrounding word.
func isBreak(r rune) bool {
	return r == ' '
}

func width(a advancer, s string, style Style) float32 {
	var w float32
	prev := rune(-1)
	for len(s) > 0 {
		r, n := utf8.DecodeRuneInString(s)
		s = s[n:]
		w += a.advance(r, style)
		if prev >= 0 {
			w += a.kern(prev, r, style)
		}
		prev = r
	}
	return w
}

func flatten(s string) string {
	return strings.ReplaceAll(s, "\n", " ")
}
