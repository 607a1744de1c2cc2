// SPDX-License-Identifier: Unlicense OR MIT

// Package document reads element trees from YAML and declares them
// through a layout pass.
//
// A document looks like
//
//	width: 800
//	height: 600
//	elements:
//	  - id: sidebar
//	    layout:
//	      width: fixed(200)
//	      height: grow
//	      padding: 8
//	      gap: 4
//	      direction: top-to-bottom
//	    rectangle: {color: "#282828"}
//	    children:
//	      - text: {content: Files, size: 16}
//
// Sizing axes use the expressions of layout.ParseSizing and attach
// points the names of layout.ParseAttachPoint.
package document

import (
	"fmt"
	"os"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"

	"clayui.org/f32"
	"clayui.org/layout"
	"clayui.org/text"
)

const (
	// MaxRepeat bounds the repeat count of a single element.
	MaxRepeat = 10000
	// MaxElements bounds the number of elements a document declares,
	// counting repetitions.
	MaxElements = 1 << 20
)

// Document is a declared element tree.
type Document struct {
	// Width and Height are the layout dimensions, or zero to let the
	// caller decide.
	Width    float32   `mapstructure:"width"`
	Height   float32   `mapstructure:"height"`
	Elements []Element `mapstructure:"elements"`
}

// Element is one element of a document and its children.
type Element struct {
	ID string `mapstructure:"id"`
	// Repeat declares the element Repeat times, the i'th one with ID
	// layout.IDI(ID, i).
	Repeat    int           `mapstructure:"repeat"`
	Layout    *LayoutDoc    `mapstructure:"layout"`
	Rectangle *RectangleDoc `mapstructure:"rectangle"`
	Border    *BorderDoc    `mapstructure:"border"`
	Image     *ImageDoc     `mapstructure:"image"`
	Text      *TextDoc      `mapstructure:"text"`
	Floating  *FloatingDoc  `mapstructure:"floating"`
	Scroll    *ScrollDoc    `mapstructure:"scroll"`
	Custom    any           `mapstructure:"custom"`
	Children  []Element     `mapstructure:"children"`
}

type LayoutDoc struct {
	Width     layout.SizingAxis `mapstructure:"width"`
	Height    layout.SizingAxis `mapstructure:"height"`
	Padding   layout.Padding    `mapstructure:"padding"`
	Gap       uint16            `mapstructure:"gap"`
	Direction layout.Direction  `mapstructure:"direction"`
	AlignX    layout.AlignX     `mapstructure:"align-x"`
	AlignY    layout.AlignY     `mapstructure:"align-y"`
}

type RectangleDoc struct {
	Color  layout.Color `mapstructure:"color"`
	Radius float32      `mapstructure:"radius"`
}

// BorderDoc draws every side with Width. Between is the width of the
// separators between children.
type BorderDoc struct {
	Width   float32      `mapstructure:"width"`
	Between float32      `mapstructure:"between"`
	Color   layout.Color `mapstructure:"color"`
	Radius  float32      `mapstructure:"radius"`
}

// ImageDoc names an image by Source; the name becomes the image data.
type ImageDoc struct {
	Source string  `mapstructure:"source"`
	Width  float32 `mapstructure:"width"`
	Height float32 `mapstructure:"height"`
}

type TextDoc struct {
	Content       string        `mapstructure:"content"`
	Color         layout.Color  `mapstructure:"color"`
	Font          uint16        `mapstructure:"font"`
	Size          float32       `mapstructure:"size"`
	LetterSpacing float32       `mapstructure:"letter-spacing"`
	LineHeight    float32       `mapstructure:"line-height"`
	Wrap          text.WrapMode `mapstructure:"wrap"`
}

type FloatingDoc struct {
	Offset f32.Point `mapstructure:"offset"`
	Expand f32.Point `mapstructure:"expand"`
	Z      int16     `mapstructure:"z"`
	// Parent is the ID of the element to attach to instead of the
	// declaring parent.
	Parent  string             `mapstructure:"parent"`
	Element layout.AttachPoint `mapstructure:"element"`
	To      layout.AttachPoint `mapstructure:"to"`
}

type ScrollDoc struct {
	Horizontal bool `mapstructure:"horizontal"`
	Vertical   bool `mapstructure:"vertical"`
}

// Parse decodes a YAML document.
func Parse(data []byte) (*Document, error) {
	var raw map[string]interface{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("document: %w", err)
	}
	doc := new(Document)
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:  decodeHook,
		ErrorUnused: true,
		Result:      doc,
	})
	if err != nil {
		return nil, fmt.Errorf("document: %w", err)
	}
	if err := dec.Decode(raw); err != nil {
		return nil, fmt.Errorf("document: %w", err)
	}
	if err := doc.validate(); err != nil {
		return nil, fmt.Errorf("document: %w", err)
	}
	return doc, nil
}

// ReadFile parses the document in the named file.
func ReadFile(name string) (*Document, error) {
	data, err := os.ReadFile(name)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Declare declares the document's elements in p.
func (d *Document) Declare(p *layout.Pass) {
	for i := range d.Elements {
		d.Elements[i].declare(p)
	}
}

// Count returns the number of elements Declare declares. For a parsed
// document it is at most MaxElements.
func (d *Document) Count() int {
	return count(d.Elements)
}

func count(els []Element) int {
	n := 0
	for _, el := range els {
		n += el.repeat() * (1 + count(el.Children))
	}
	return n
}

func (e *Element) repeat() int {
	if e.Repeat <= 0 {
		return 1
	}
	return e.Repeat
}

func (e *Element) declare(p *layout.Pass) {
	var children layout.Widget
	if len(e.Children) > 0 {
		children = func(p *layout.Pass) {
			for i := range e.Children {
				e.Children[i].declare(p)
			}
		}
	}
	for i := 0; i < e.repeat(); i++ {
		p.Element(e.configs(uint32(i)), children)
	}
}

// configs returns the configurations of the index'th repetition of
// the element.
func (e *Element) configs(index uint32) []layout.Config {
	var cfgs []layout.Config
	if e.ID != "" {
		cfgs = append(cfgs, layout.IDI(e.ID, index))
	}
	if l := e.Layout; l != nil {
		cfgs = append(cfgs, layout.Layout{
			Sizing:         layout.Sizing{Width: l.Width, Height: l.Height},
			Padding:        l.Padding,
			ChildGap:       l.Gap,
			ChildAlignment: layout.ChildAlignment{X: l.AlignX, Y: l.AlignY},
			Direction:      l.Direction,
		})
	}
	if r := e.Rectangle; r != nil {
		cfgs = append(cfgs, layout.Rectangle{Color: r.Color, CornerRadius: radius(r.Radius)})
	}
	if img := e.Image; img != nil {
		cfgs = append(cfgs, layout.Image{Data: img.Source, SourceDimensions: f32.Pt(img.Width, img.Height)})
	}
	if t := e.Text; t != nil {
		cfgs = append(cfgs, layout.Text{
			Content:       t.Content,
			Color:         t.Color,
			FontID:        t.Font,
			FontSize:      t.Size,
			LetterSpacing: t.LetterSpacing,
			LineHeight:    t.LineHeight,
			Wrap:          t.Wrap,
		})
	}
	if f := e.Floating; f != nil {
		fl := layout.Floating{
			Offset:     f.Offset,
			Expand:     f.Expand,
			ZIndex:     f.Z,
			Attachment: layout.FloatingAttachment{Element: f.Element, Parent: f.To},
		}
		if f.Parent != "" {
			fl.ParentID = layout.ID(f.Parent).ID
		}
		cfgs = append(cfgs, fl)
	}
	if s := e.Scroll; s != nil {
		cfgs = append(cfgs, layout.Scroll{Horizontal: s.Horizontal, Vertical: s.Vertical})
	}
	if e.Custom != nil {
		cfgs = append(cfgs, layout.Custom{Data: e.Custom})
	}
	if b := e.Border; b != nil {
		side := layout.BorderSide{Width: b.Width, Color: b.Color}
		cfgs = append(cfgs, layout.Border{
			Left:            side,
			Right:           side,
			Top:             side,
			Bottom:          side,
			BetweenChildren: layout.BorderSide{Width: b.Between, Color: b.Color},
			CornerRadius:    radius(b.Radius),
		})
	}
	return cfgs
}

func radius(r float32) layout.CornerRadius {
	return layout.CornerRadius{TopLeft: r, TopRight: r, BottomLeft: r, BottomRight: r}
}

func (d *Document) validate() error {
	if d.Width < 0 || d.Height < 0 {
		return fmt.Errorf("negative dimensions %vx%v", d.Width, d.Height)
	}
	_, err := validate(d.Elements, "elements")
	return err
}

// validate checks els and returns the number of elements they declare,
// which is at most MaxElements.
func validate(els []Element, path string) (int, error) {
	var total int64
	for i, el := range els {
		p := fmt.Sprintf("%s[%d]", path, i)
		if el.Repeat < 0 {
			return 0, fmt.Errorf("%s: negative repeat %d", p, el.Repeat)
		}
		if el.Repeat > MaxRepeat {
			return 0, fmt.Errorf("%s: repeat %d exceeds %d", p, el.Repeat, MaxRepeat)
		}
		if el.Repeat > 1 && el.ID == "" {
			return 0, fmt.Errorf("%s: repeated element without id", p)
		}
		n, err := validate(el.Children, p+".children")
		if err != nil {
			return 0, err
		}
		// Both factors are bounded, so the product fits in 64 bits.
		total += int64(el.repeat()) * int64(1+n)
		if total > MaxElements {
			return 0, fmt.Errorf("%s: more than %d elements", p, MaxElements)
		}
	}
	return int(total), nil
}
