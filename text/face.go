// SPDX-License-Identifier: Unlicense OR MIT

package text

import (
	"fmt"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
)

// Face measures text with an OpenType font. A Face is not safe for
// concurrent use.
type Face struct {
	Font    *sfnt.Font
	Hinting font.Hinting

	buf sfnt.Buffer
}

var (
	goOnce sync.Once
	goFont *sfnt.Font
)

// NewFace parses an OpenType or TrueType font.
func NewFace(src []byte) (*Face, error) {
	f, err := sfnt.Parse(src)
	if err != nil {
		return nil, fmt.Errorf("text: failed to parse font: %w", err)
	}
	return &Face{Font: f, Hinting: font.HintingNone}, nil
}

// GoFace returns a Face for the Go Regular font.
func GoFace() *Face {
	goOnce.Do(func() {
		f, err := sfnt.Parse(goregular.TTF)
		if err != nil {
			panic(fmt.Errorf("failed to parse font: %v", err))
		}
		goFont = f
	})
	return &Face{Font: goFont, Hinting: font.HintingNone}
}

func (f *Face) Measure(str string, style Style) Extent {
	return measure(f, str, style)
}

func (f *Face) Wrap(str string, style Style, maxWidth float32) []Line {
	return wrap(f, str, style, maxWidth)
}

func (f *Face) advance(r rune, style Style) float32 {
	g, err := f.Font.GlyphIndex(&f.buf, r)
	if err != nil {
		return 0
	}
	adv, err := f.Font.GlyphAdvance(&f.buf, g, ppem(style), f.Hinting)
	if err != nil {
		return 0
	}
	return fromFixed(adv) + style.LetterSpacing
}

func (f *Face) kern(r0, r1 rune, style Style) float32 {
	g0, err := f.Font.GlyphIndex(&f.buf, r0)
	if err != nil {
		return 0
	}
	g1, err := f.Font.GlyphIndex(&f.buf, r1)
	if err != nil {
		return 0
	}
	k, err := f.Font.Kern(&f.buf, g0, g1, ppem(style), f.Hinting)
	if err != nil {
		return 0
	}
	return fromFixed(k)
}

func (f *Face) lineHeight(style Style) float32 {
	if style.LineHeight > 0 {
		return style.LineHeight
	}
	m, err := f.Font.Metrics(&f.buf, ppem(style), f.Hinting)
	if err != nil {
		return style.size()
	}
	// m.Height is equal to m.Ascent + m.Descent + linegap.
	return fromFixed(m.Height)
}

func ppem(style Style) fixed.Int26_6 {
	return fixed.Int26_6(style.size()*64 + .5)
}

func fromFixed(v fixed.Int26_6) float32 {
	return float32(v) / 64
}
