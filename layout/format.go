// SPDX-License-Identifier: Unlicense OR MIT

package layout

import (
	"fmt"
	"strconv"
)

type formatState struct {
	orig string
	expr string
}

type formatError string

// ParseSizing parses the sizing of one axis from an expression in the
// style of a function call.
//
// If the expression is invalid, ParseSizing returns an error where a
// cross, ✗, marks the error position.
//
// For example,
//
//	layout.ParseSizing("grow(0, 300)")
//
// is equivalent to
//
//	layout.GrowRange(0, 300)
//
// Available expressions:
//
//	fit, fit(min), fit(min, max) fits the content within the optional
//	bounds.
//
//	grow, grow(min), grow(min, max) grows into the free space of the
//	parent within the optional bounds.
//
//	fixed(v), or a bare number v, sizes the axis to exactly v.
//
//	percent(p), or p%, takes p percent of the parent's content size.
func ParseSizing(expr string) (s SizingAxis, err error) {
	state := formatState{
		orig: expr,
		expr: expr,
	}
	defer func() {
		if e := recover(); e != nil {
			ferr, ok := e.(formatError)
			if !ok {
				panic(e)
			}
			pos := len(state.orig) - len(state.expr)
			msg := state.orig[:pos] + "✗" + state.orig[pos:]
			err = fmt.Errorf("ParseSizing: %s:%d: %w", msg, pos, ferr)
		}
	}()
	s = parseSizing(&state)
	skipWhitespace(&state)
	if len(state.expr) > 0 {
		errorf("unexpected %q", state.expr)
	}
	return s, nil
}

// ParseAttachPoint parses the name of a floating attach point: center
// or one of the compass directions north, northeast, east, southeast,
// south, southwest, west and northwest.
func ParseAttachPoint(name string) (AttachPoint, error) {
	p, ok := attachFor(name)
	if !ok {
		return 0, fmt.Errorf("ParseAttachPoint: invalid attach point %q", name)
	}
	return p, nil
}

func parseSizing(state *formatState) SizingAxis {
	if c := peek(state); c == '.' || ('0' <= c && c <= '9') {
		v := parseFloat(state)
		if more(state, '%') {
			expect(state, "%")
			return Percent(percent(v))
		}
		return Fixed(v)
	}
	name := parseName(state)
	switch name {
	case "fit", "grow":
		var min, max float32
		if more(state, '(') {
			expect(state, "(")
			min = parseFloat(state)
			if more(state, ',') {
				expect(state, ",")
				max = parseFloat(state)
			}
			expect(state, ")")
		}
		if max != 0 && max < min {
			errorf("max %v below min %v", max, min)
		}
		if name == "fit" {
			return FitRange(min, max)
		}
		return GrowRange(min, max)
	case "fixed":
		expect(state, "(")
		v := parseFloat(state)
		expect(state, ")")
		return Fixed(v)
	case "percent":
		expect(state, "(")
		v := parseFloat(state)
		expect(state, ")")
		return Percent(percent(v))
	default:
		errorf("invalid sizing %q", name)
	}
	return SizingAxis{}
}

func percent(v float32) float32 {
	if v > 100 {
		errorf("percentage %v above 100", v)
	}
	return v / 100
}

func parseName(state *formatState) string {
	skipWhitespace(state)
	i := 0
	for ; i < len(state.expr); i++ {
		c := state.expr[i]
		switch {
		case c == '(' || c == ',' || c == ')' || isSpace(c):
			name := state.expr[:i]
			state.expr = state.expr[i:]
			return name
		case c < 'a' || 'z' < c:
			errorf("invalid character '%c' in name", c)
		}
	}
	name := state.expr
	state.expr = ""
	return name
}

func parseFloat(state *formatState) float32 {
	skipWhitespace(state)
	i := 0
	for ; i < len(state.expr); i++ {
		c := state.expr[i]
		if (c < '0' || c > '9') && c != '.' {
			break
		}
	}
	expr := state.expr[:i]
	v, err := strconv.ParseFloat(expr, 32)
	if err != nil {
		errorf("invalid number %q", expr)
	}
	state.expr = state.expr[i:]
	return float32(v)
}

func peek(state *formatState) rune {
	skipWhitespace(state)
	if len(state.expr) == 0 {
		errorf("unexpected end")
	}
	return rune(state.expr[0])
}

// more reports whether the next character is c.
func more(state *formatState, c byte) bool {
	skipWhitespace(state)
	return len(state.expr) > 0 && state.expr[0] == c
}

func expect(state *formatState, str string) {
	skipWhitespace(state)
	n := len(str)
	if len(state.expr) < n || state.expr[:n] != str {
		errorf("expected %q", str)
	}
	state.expr = state.expr[n:]
}

func skipWhitespace(state *formatState) {
	for len(state.expr) > 0 && isSpace(state.expr[0]) {
		state.expr = state.expr[1:]
	}
}

func isSpace(c byte) bool {
	switch c {
	case '\t', '\n', '\v', '\f', '\r', ' ':
		return true
	}
	return false
}

func attachFor(name string) (AttachPoint, bool) {
	var p AttachPoint
	switch name {
	case "center":
		p = AttachCenterCenter
	case "northwest":
		p = AttachLeftTop
	case "north":
		p = AttachCenterTop
	case "northeast":
		p = AttachRightTop
	case "east":
		p = AttachRightCenter
	case "southeast":
		p = AttachRightBottom
	case "south":
		p = AttachCenterBottom
	case "southwest":
		p = AttachLeftBottom
	case "west":
		p = AttachLeftCenter
	default:
		return 0, false
	}
	return p, true
}

func errorf(f string, args ...interface{}) {
	panic(formatError(fmt.Sprintf(f, args...)))
}

func (e formatError) Error() string {
	return string(e)
}
