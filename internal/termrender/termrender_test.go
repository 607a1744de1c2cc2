// SPDX-License-Identifier: Unlicense OR MIT

package termrender

import (
	"image"
	"io"
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clayui.org/f32"
	"clayui.org/layout"
	"clayui.org/text"
)

func draw(t *testing.T, w, h int, declare layout.Widget) *Grid {
	t.Helper()
	ctx, err := layout.New(float32(w), float32(h), layout.WithMeasurer(text.Monospace{Advance: 1, LineHeight: 1}))
	require.NoError(t, err)
	t.Cleanup(ctx.Close)
	p := ctx.Begin()
	declare(p)
	cmds, err := p.End()
	require.NoError(t, err)
	g := NewGrid(w, h, f32.Point{})
	g.Draw(cmds)
	return g
}

func box(w, h float32) layout.Sizing {
	return layout.Sizing{Width: layout.Fixed(w), Height: layout.Fixed(h)}
}

func TestBorderAndText(t *testing.T) {
	side := layout.BorderSide{Width: 1, Color: layout.RGBA(255, 255, 255, 255)}
	g := draw(t, 10, 4, func(p *layout.Pass) {
		p.With(func(p *layout.Pass) {
			p.With(nil, layout.Text{Content: "hi", Color: layout.RGBA(255, 0, 0, 255)})
		},
			layout.Layout{Sizing: box(8, 3), Padding: layout.UniformPadding(1)},
			layout.Border{Left: side, Right: side, Top: side, Bottom: side},
		)
	})
	want := strings.Join([]string{
		"┌──────┐",
		"│hi    │",
		"└──────┘",
		"",
	}, "\n")
	assert.Equal(t, want, g.String())
	assert.Equal(t, lipgloss.Color("#ff0000"), g.Cell(1, 1).Foreground)
	assert.Equal(t, lipgloss.Color("#ffffff"), g.Cell(0, 0).Foreground)
}

func TestRectangleFill(t *testing.T) {
	g := draw(t, 6, 2, func(p *layout.Pass) {
		p.With(nil, layout.Layout{Sizing: box(3, 2)}, layout.Rectangle{Color: layout.RGBA(0, 0, 255, 255)})
		p.With(nil, layout.Layout{Sizing: box(2, 1)}, layout.Rectangle{})
	})
	assert.Equal(t, lipgloss.Color("#0000ff"), g.Cell(2, 1).Background)
	assert.Equal(t, lipgloss.Color(""), g.Cell(3, 0).Background)
	assert.Equal(t, lipgloss.Color(""), g.Cell(4, 0).Background)
}

func TestScissorClipsChildren(t *testing.T) {
	g := draw(t, 10, 2, func(p *layout.Pass) {
		p.With(func(p *layout.Pass) {
			p.With(nil, layout.Text{Content: "abcdefgh"})
		}, layout.Layout{Sizing: box(4, 1)}, layout.Scroll{Horizontal: true})
		p.With(nil, layout.Image{Data: "icon"}, layout.Layout{Sizing: box(2, 1)})
	})
	assert.Equal(t, "abcd▒▒\n", g.String())
}

func TestCellSize(t *testing.T) {
	g := NewGrid(4, 2, f32.Pt(10, 20))
	assert.Equal(t, image.Rect(1, 1, 3, 2), g.cellRect(f32.Rect(10, 20, 20, 20)))
	w, h := g.Size()
	assert.Equal(t, 4, w)
	assert.Equal(t, 2, h)
	assert.Equal(t, ' ', g.Cell(-1, 9).Rune)
}

func TestRenderPlain(t *testing.T) {
	g := draw(t, 4, 1, func(p *layout.Pass) {
		p.With(nil, layout.Text{Content: "ok", Color: layout.RGBA(0, 255, 0, 255)})
	})
	r := lipgloss.NewRenderer(io.Discard)
	out := g.Render(r)
	assert.NotContains(t, out, "\x1b")
	assert.Equal(t, "ok", strings.TrimRight(out, " "))
}
