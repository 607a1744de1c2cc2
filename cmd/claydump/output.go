// SPDX-License-Identifier: Unlicense OR MIT

package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"go.uber.org/multierr"

	"clayui.org/internal/document"
	"clayui.org/layout"
)

// jsonCommand is the wire form of a render command.
type jsonCommand struct {
	Type   string  `json:"type"`
	X      float32 `json:"x"`
	Y      float32 `json:"y"`
	Width  float32 `json:"width"`
	Height float32 `json:"height"`
	ID     uint32  `json:"id,omitempty"`
	Z      int16   `json:"z,omitempty"`

	Color       *jsonColor `json:"color,omitempty"`
	BorderWidth float32    `json:"borderWidth,omitempty"`
	Text        string     `json:"text,omitempty"`
	FontSize    float32    `json:"fontSize,omitempty"`
	Data        any        `json:"data,omitempty"`
	Horizontal  bool       `json:"horizontal,omitempty"`
	Vertical    bool       `json:"vertical,omitempty"`
}

type jsonColor struct {
	R float32 `json:"r"`
	G float32 `json:"g"`
	B float32 `json:"b"`
	A float32 `json:"a"`
}

type jsonResult struct {
	Width    float32       `json:"width"`
	Height   float32       `json:"height"`
	Commands []jsonCommand `json:"commands"`
	Errors   []string      `json:"errors,omitempty"`
}

func toJSON(c layout.Command) jsonCommand {
	jc := jsonCommand{
		Type:   c.Type.String(),
		X:      c.Bounds.Min.X,
		Y:      c.Bounds.Min.Y,
		Width:  c.Bounds.Dx(),
		Height: c.Bounds.Dy(),
		ID:     c.ID,
		Z:      c.ZIndex,
	}
	switch c.Type {
	case layout.CommandRectangle:
		jc.Color = colorJSON(c.Rectangle().Color)
	case layout.CommandBorder:
		b := c.Border()
		jc.Color = colorJSON(b.Top.Color)
		jc.BorderWidth = b.Top.Width
	case layout.CommandText:
		t := c.Text()
		jc.Color = colorJSON(t.Color)
		jc.Text = t.Content
		jc.FontSize = t.FontSize
	case layout.CommandImage:
		jc.Data = c.Image().Data
	case layout.CommandCustom:
		jc.Data = c.Custom().Data
	case layout.CommandScissorStart, layout.CommandScissorEnd:
		s := c.Scroll()
		jc.Horizontal, jc.Vertical = s.Horizontal, s.Vertical
	}
	return jc
}

func colorJSON(c layout.Color) *jsonColor {
	return &jsonColor{R: c.R, G: c.G, B: c.B, A: c.A}
}

// run declares doc in a pass of ctx and converts the commands before
// the view goes stale.
func run(ctx *layout.Context, doc *document.Document) jsonResult {
	p := ctx.Begin()
	doc.Declare(p)
	cmds, err := p.End()
	dims := ctx.Dimensions()
	res := jsonResult{
		Width:    dims.X,
		Height:   dims.Y,
		Commands: make([]jsonCommand, 0, cmds.Len()),
	}
	for _, c := range cmds.All() {
		res.Commands = append(res.Commands, toJSON(c))
	}
	for _, e := range multierr.Errors(err) {
		res.Errors = append(res.Errors, e.Error())
	}
	return res
}

// writeTable prints the commands as aligned columns.
func writeTable(w io.Writer, res jsonResult) error {
	tw := tabwriter.NewWriter(w, 0, 8, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tTYPE\tX\tY\tW\tH\tZ\tDETAIL")
	for i, c := range res.Commands {
		fmt.Fprintf(tw, "%d\t%s\t%g\t%g\t%g\t%g\t%d\t%s\n", i, c.Type, c.X, c.Y, c.Width, c.Height, c.Z, detail(c))
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	for _, e := range res.Errors {
		fmt.Fprintf(w, "warning: %s\n", e)
	}
	return nil
}

func detail(c jsonCommand) string {
	switch {
	case c.Text != "":
		return fmt.Sprintf("%q", c.Text)
	case c.BorderWidth != 0:
		return fmt.Sprintf("width %g %s", c.BorderWidth, c.Color)
	case c.Color != nil:
		return c.Color.String()
	case c.Data != nil:
		return fmt.Sprintf("%v", c.Data)
	case c.Horizontal || c.Vertical:
		return fmt.Sprintf("scroll h=%t v=%t", c.Horizontal, c.Vertical)
	}
	return ""
}

func (c *jsonColor) String() string {
	return fmt.Sprintf("rgba(%g, %g, %g, %g)", c.R, c.G, c.B, c.A)
}
