// SPDX-License-Identifier: Unlicense OR MIT

package document

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/mitchellh/mapstructure"

	"clayui.org/layout"
	"clayui.org/text"
)

var (
	sizingType    = reflect.TypeOf(layout.SizingAxis{})
	paddingType   = reflect.TypeOf(layout.Padding{})
	colorType     = reflect.TypeOf(layout.Color{})
	attachType    = reflect.TypeOf(layout.AttachPoint(0))
	directionType = reflect.TypeOf(layout.Direction(0))
	alignXType    = reflect.TypeOf(layout.AlignX(0))
	alignYType    = reflect.TypeOf(layout.AlignY(0))
	wrapType      = reflect.TypeOf(text.WrapMode(0))
)

var decodeHook = mapstructure.ComposeDecodeHookFunc(
	numberHook,
	stringHook,
)

// numberHook decodes a bare number as a fixed sizing axis or as
// uniform padding.
func numberHook(from, to reflect.Type, data interface{}) (interface{}, error) {
	v, ok := toFloat(data)
	if !ok {
		return data, nil
	}
	switch to {
	case sizingType:
		if v < 0 {
			return nil, fmt.Errorf("negative size %v", v)
		}
		return layout.Fixed(v), nil
	case paddingType:
		if v < 0 || v > 0xffff {
			return nil, fmt.Errorf("padding %v out of range", v)
		}
		return layout.UniformPadding(uint16(v)), nil
	}
	return data, nil
}

// stringHook decodes the named values of the layout enumerations,
// sizing expressions and hex colors.
func stringHook(from, to reflect.Type, data interface{}) (interface{}, error) {
	s, ok := data.(string)
	if !ok {
		return data, nil
	}
	switch to {
	case sizingType:
		return layout.ParseSizing(s)
	case attachType:
		return layout.ParseAttachPoint(s)
	case colorType:
		return parseColor(s)
	case directionType:
		switch s {
		case "left-to-right", "row":
			return layout.LeftToRight, nil
		case "top-to-bottom", "column":
			return layout.TopToBottom, nil
		}
	case alignXType:
		switch s {
		case "left":
			return layout.AlignLeft, nil
		case "right":
			return layout.AlignRight, nil
		case "center":
			return layout.AlignCenterX, nil
		}
	case alignYType:
		switch s {
		case "top":
			return layout.AlignTop, nil
		case "bottom":
			return layout.AlignBottom, nil
		case "center":
			return layout.AlignCenterY, nil
		}
	case wrapType:
		switch s {
		case "words":
			return text.WrapWords, nil
		case "newlines":
			return text.WrapNewlines, nil
		case "none":
			return text.WrapNone, nil
		}
	default:
		return data, nil
	}
	return nil, fmt.Errorf("invalid %s %q", to.Name(), s)
}

// parseColor parses #rrggbb or #rrggbbaa.
func parseColor(s string) (layout.Color, error) {
	hex, ok := strings.CutPrefix(s, "#")
	if !ok || (len(hex) != 6 && len(hex) != 8) {
		return layout.Color{}, fmt.Errorf("invalid color %q", s)
	}
	if len(hex) == 6 {
		hex += "ff"
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return layout.Color{}, fmt.Errorf("invalid color %q", s)
	}
	return layout.RGBA(
		float32(v>>24),
		float32(v>>16&0xff),
		float32(v>>8&0xff),
		float32(v&0xff),
	), nil
}

func toFloat(data interface{}) (float32, bool) {
	switch v := data.(type) {
	case int:
		return float32(v), true
	case int64:
		return float32(v), true
	case uint64:
		return float32(v), true
	case float64:
		return float32(v), true
	default:
		return 0, false
	}
}
