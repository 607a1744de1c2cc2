// SPDX-License-Identifier: Unlicense OR MIT

package layout

import (
	"iter"

	"clayui.org/internal/engine"
)

// Command is a positioned drawing instruction. Its payload accessors
// panic when called for another command type.
type Command = engine.Command

type CommandType = engine.CommandType

const (
	CommandRectangle    = engine.CommandRectangle
	CommandBorder       = engine.CommandBorder
	CommandText         = engine.CommandText
	CommandImage        = engine.CommandImage
	CommandScissorStart = engine.CommandScissorStart
	CommandScissorEnd   = engine.CommandScissorEnd
	CommandCustom       = engine.CommandCustom
)

// Commands is the read-only result of a pass, in drawing order. It is
// valid until the next Begin or Close of its Context; using it
// afterwards panics.
type Commands struct {
	cmds    []engine.Command
	ctx     *Context
	version uint32
}

func (c Commands) Len() int {
	c.check()
	return len(c.cmds)
}

func (c Commands) At(i int) Command {
	c.check()
	return c.cmds[i]
}

// All iterates over the commands in order.
func (c Commands) All() iter.Seq2[int, Command] {
	c.check()
	return func(yield func(int, Command) bool) {
		for i := range c.cmds {
			c.check()
			if !yield(i, c.cmds[i]) {
				return
			}
		}
	}
}

func (c Commands) check() {
	if c.ctx == nil {
		return
	}
	if c.ctx.closed || c.ctx.version != c.version {
		panic("stale command view")
	}
}
