// SPDX-License-Identifier: Unlicense OR MIT

package layout

import (
	"clayui.org/internal/engine"
	"clayui.org/text"
)

// DefaultMaxElements is the number of elements a pass can declare
// unless WithMaxElements says otherwise.
const DefaultMaxElements = engine.DefaultMaxElements

// An Option configures a Context.
type Option func(*options)

type options struct {
	limits engine.Limits
	engine engine.Options
}

// WithMaxElements bounds the number of elements per pass. Elements
// declared beyond the bound are dropped and reported by Pass.End.
func WithMaxElements(n int) Option {
	return func(o *options) {
		o.limits.MaxElements = n
	}
}

// WithMaxConfigs bounds the number of configurations per pass. The
// default is four per element.
func WithMaxConfigs(n int) Option {
	return func(o *options) {
		o.limits.MaxConfigs = n
	}
}

// WithMeasurer sets the text measurer. The default measures with the
// Go Regular font.
func WithMeasurer(m text.Measurer) Option {
	return func(o *options) {
		o.engine.Measurer = m
	}
}

// WithCulling controls whether elements outside the layout dimensions
// produce commands. Culling is on by default.
func WithCulling(enable bool) Option {
	return func(o *options) {
		o.engine.Culling = enable
	}
}

// WithErrorHandler sets a function called for every error a pass
// reports, in addition to the error returned by Pass.End.
func WithErrorHandler(h func(error)) Option {
	return func(o *options) {
		o.engine.ErrorHandler = h
	}
}

func newOptions(opts []Option) options {
	o := options{
		engine: engine.Options{Culling: true},
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// MinMemorySize returns the number of bytes a Context created with
// opts reserves.
func MinMemorySize(opts ...Option) int {
	o := newOptions(opts)
	return engine.MinMemorySize(o.limits)
}
