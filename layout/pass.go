// SPDX-License-Identifier: Unlicense OR MIT

package layout

import (
	"go.uber.org/zap"
)

// Widget declares the children of an element.
type Widget func(p *Pass)

// Pass is a layout pass in progress, returned by Context.Begin. It is
// the only way to declare elements, and it is dead after End.
type Pass struct {
	ctx   *Context
	depth int
	ended bool
}

// Element declares an element: it opens the element, attaches configs
// in order, finalizes the configuration, declares the children and
// closes the element. Children always observe a fully configured
// parent.
//
// For the configurations that an element holds once, ElementID, Layout,
// Scroll and Floating, the last one wins.
func (p *Pass) Element(configs []Config, children Widget) {
	p.check()
	d := p.ctx.drv
	d.OpenElement()
	p.depth++
	for _, c := range configs {
		switch c := c.(type) {
		case nil:
			panic("layout: nil Config")
		case ElementID:
			d.AttachID(c)
		case Layout:
			d.AttachLayout(c)
		default:
			d.AttachConfig(c)
		}
	}
	d.PostConfiguration()
	if children != nil {
		children(p)
	}
	d.CloseElement()
	p.depth--
}

// With is Element with the configurations as trailing arguments.
func (p *Pass) With(children Widget, configs ...Config) {
	p.Element(configs, children)
}

// End resolves the layout and returns its render commands. The error,
// if any, reports declarations dropped because a limit was reached or
// duplicate element IDs; the commands are usable regardless.
func (p *Pass) End() (Commands, error) {
	p.check()
	if p.depth != 0 {
		panic("layout: End called inside an element")
	}
	p.ended = true
	c := p.ctx
	c.pass = nil
	cmds, err := c.drv.EndLayout()
	c.record(len(cmds), err)
	if err != nil {
		Logger().Warn("layout pass reported errors", zap.Error(err))
	}
	Logger().Debug("layout pass ended",
		zap.Uint32("version", c.version),
		zap.Int("commands", len(cmds)),
	)
	return Commands{cmds: cmds, ctx: c, version: c.version}, err
}

func (p *Pass) check() {
	if p.ended {
		panic("layout: pass already ended")
	}
	p.ctx.checkOpen()
}
