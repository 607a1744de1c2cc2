// SPDX-License-Identifier: Unlicense OR MIT

/*
Package layout declares element trees and resolves them into render
commands.

A Context owns all the memory of one layout. Each frame, Begin starts a
pass, the program declares its elements through the returned Pass, and
End resolves the layout:

	p := ctx.Begin()
	p.With(func(p *layout.Pass) {
		p.With(nil, layout.Text{Content: "Hello"})
	},
		layout.Layout{Sizing: layout.Sizing{Width: layout.Grow()}},
		layout.Rectangle{Color: layout.RGBA(40, 40, 40, 255)},
	)
	cmds, err := p.End()

An element's configurations are attached before its children are
declared, so children always see a fully configured parent. The
returned Commands are valid until the next Begin or Close.
*/
package layout
