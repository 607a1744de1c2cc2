// SPDX-License-Identifier: Unlicense OR MIT

// Package termrender draws layout commands into a grid of terminal
// cells.
package termrender

import (
	"fmt"
	"image"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"clayui.org/f32"
	"clayui.org/layout"
)

// Cell is one character cell of a Grid.
type Cell struct {
	Rune rune
	// Foreground and Background are empty for the terminal default.
	Foreground lipgloss.Color
	Background lipgloss.Color
}

// Grid is a rectangle of cells. Layout units map to cells through the
// cell size: a command at x covers column x/CellSize.X.
type Grid struct {
	width, height int
	cellSize      f32.Point
	cells         []Cell
	clips         []image.Rectangle
}

// Box drawing characters of a border.
const (
	topLeft     = '┌'
	topRight    = '┐'
	bottomLeft  = '└'
	bottomRight = '┘'
	horizontal  = '─'
	vertical    = '│'
	imageFill   = '▒'
	customFill  = '?'
)

// NewGrid returns a blank grid of width by height cells, each cell
// covering cellSize layout units. A zero cellSize is one unit per cell.
func NewGrid(width, height int, cellSize f32.Point) *Grid {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	if cellSize.X <= 0 {
		cellSize.X = 1
	}
	if cellSize.Y <= 0 {
		cellSize.Y = 1
	}
	g := &Grid{
		width:    width,
		height:   height,
		cellSize: cellSize,
		cells:    make([]Cell, width*height),
	}
	g.Clear()
	return g
}

func (g *Grid) Size() (width, height int) {
	return g.width, g.height
}

// Cell returns the cell at column x and row y.
func (g *Grid) Cell(x, y int) Cell {
	if x < 0 || y < 0 || x >= g.width || y >= g.height {
		return Cell{Rune: ' '}
	}
	return g.cells[y*g.width+x]
}

// Clear blanks every cell.
func (g *Grid) Clear() {
	for i := range g.cells {
		g.cells[i] = Cell{Rune: ' '}
	}
	g.clips = g.clips[:0]
}

// Draw draws the commands in order. Scissor commands clip the commands
// between them.
func (g *Grid) Draw(cmds layout.Commands) {
	for _, c := range cmds.All() {
		g.draw(c)
	}
}

func (g *Grid) draw(c layout.Command) {
	r := g.cellRect(c.Bounds)
	switch c.Type {
	case layout.CommandScissorStart:
		g.clips = append(g.clips, r.Intersect(g.clip()))
	case layout.CommandScissorEnd:
		if n := len(g.clips); n > 0 {
			g.clips = g.clips[:n-1]
		}
	case layout.CommandRectangle:
		rect := c.Rectangle()
		if rect.Color.A == 0 {
			return
		}
		g.fill(r, 0, "", color(rect.Color))
	case layout.CommandImage:
		g.fill(r, imageFill, "", "")
	case layout.CommandCustom:
		g.fill(r, customFill, "", "")
	case layout.CommandText:
		t := c.Text()
		g.text(r.Min, t.Content, color(t.Color))
	case layout.CommandBorder:
		g.border(r, c.Border())
	}
}

// cellRect converts layout bounds to the cells they cover.
func (g *Grid) cellRect(b f32.Rectangle) image.Rectangle {
	return image.Rect(
		round(b.Min.X/g.cellSize.X),
		round(b.Min.Y/g.cellSize.Y),
		round(b.Max.X/g.cellSize.X),
		round(b.Max.Y/g.cellSize.Y),
	)
}

func (g *Grid) clip() image.Rectangle {
	if n := len(g.clips); n > 0 {
		return g.clips[n-1]
	}
	return image.Rect(0, 0, g.width, g.height)
}

// set writes one cell. A zero rune keeps the cell's rune, an empty
// color keeps the cell's color.
func (g *Grid) set(x, y int, r rune, fg, bg lipgloss.Color) {
	if !image.Pt(x, y).In(g.clip()) {
		return
	}
	c := &g.cells[y*g.width+x]
	if r != 0 {
		c.Rune = r
	}
	if fg != "" {
		c.Foreground = fg
	}
	if bg != "" {
		c.Background = bg
	}
}

func (g *Grid) fill(r image.Rectangle, ch rune, fg, bg lipgloss.Color) {
	r = r.Intersect(g.clip())
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			g.set(x, y, ch, fg, bg)
		}
	}
}

func (g *Grid) text(at image.Point, s string, fg lipgloss.Color) {
	x := at.X
	for _, r := range s {
		g.set(x, at.Y, r, fg, "")
		x++
	}
}

func (g *Grid) border(r image.Rectangle, b layout.Border) {
	if r.Dx() < 2 || r.Dy() < 2 {
		return
	}
	x0, y0, x1, y1 := r.Min.X, r.Min.Y, r.Max.X-1, r.Max.Y-1
	if b.Top.Width > 0 {
		fg := color(b.Top.Color)
		for x := x0; x <= x1; x++ {
			g.set(x, y0, horizontal, fg, "")
		}
	}
	if b.Bottom.Width > 0 {
		fg := color(b.Bottom.Color)
		for x := x0; x <= x1; x++ {
			g.set(x, y1, horizontal, fg, "")
		}
	}
	if b.Left.Width > 0 {
		fg := color(b.Left.Color)
		for y := y0; y <= y1; y++ {
			g.set(x0, y, vertical, fg, "")
		}
	}
	if b.Right.Width > 0 {
		fg := color(b.Right.Color)
		for y := y0; y <= y1; y++ {
			g.set(x1, y, vertical, fg, "")
		}
	}
	corner := func(x, y int, ch rune, h, v layout.BorderSide) {
		if h.Width > 0 && v.Width > 0 {
			g.set(x, y, ch, color(h.Color), "")
		}
	}
	corner(x0, y0, topLeft, b.Top, b.Left)
	corner(x1, y0, topRight, b.Top, b.Right)
	corner(x0, y1, bottomLeft, b.Bottom, b.Left)
	corner(x1, y1, bottomRight, b.Bottom, b.Right)
}

// String returns the characters of the grid, one line per row with
// trailing spaces removed.
func (g *Grid) String() string {
	var sb strings.Builder
	for y := 0; y < g.height; y++ {
		var line strings.Builder
		for _, c := range g.row(y) {
			line.WriteRune(c.Rune)
		}
		sb.WriteString(strings.TrimRight(line.String(), " "))
		if y < g.height-1 {
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}

// Render returns the grid styled for r. Runs of cells with the same
// colors are rendered as one string.
func (g *Grid) Render(r *lipgloss.Renderer) string {
	var sb strings.Builder
	for y := 0; y < g.height; y++ {
		row := g.row(y)
		for len(row) > 0 {
			n := 1
			for n < len(row) && row[n].Foreground == row[0].Foreground && row[n].Background == row[0].Background {
				n++
			}
			var run strings.Builder
			for _, c := range row[:n] {
				run.WriteRune(c.Rune)
			}
			style := r.NewStyle()
			if fg := row[0].Foreground; fg != "" {
				style = style.Foreground(fg)
			}
			if bg := row[0].Background; bg != "" {
				style = style.Background(bg)
			}
			sb.WriteString(style.Render(run.String()))
			row = row[n:]
		}
		if y < g.height-1 {
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}

func (g *Grid) row(y int) []Cell {
	return g.cells[y*g.width : (y+1)*g.width]
}

// color converts a layout color to a terminal color. Fully transparent
// colors map to the terminal default.
func color(c layout.Color) lipgloss.Color {
	if c.A == 0 {
		return ""
	}
	return lipgloss.Color(fmt.Sprintf("#%02x%02x%02x", clamp(c.R), clamp(c.G), clamp(c.B)))
}

func clamp(v float32) uint8 {
	switch {
	case v <= 0:
		return 0
	case v >= 255:
		return 255
	default:
		return uint8(v + .5)
	}
}

func round(v float32) int {
	if v < 0 {
		return -int(-v + .5)
	}
	return int(v + .5)
}
