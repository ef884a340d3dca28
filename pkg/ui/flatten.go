package ui

import (
	"fmt"

	"github.com/lumen-ui/lumen/pkg/reactive"
)

// Flatten normalizes a raw child list into diffable elements. Nested
// sequences are spliced inline, fragments are replaced by their own
// flattened children, nil and booleans vanish, text scalars become text
// leaves, and reactive cells become live leaves.
//
// Flattening runs at every patch step, not only at construction: children
// produced dynamically may introduce fresh fragments or slices on each
// render.
func Flatten(children []any) []*Element {
	out := make([]*Element, 0, len(children))
	for _, c := range children {
		out = appendFlattened(out, c)
	}
	return out
}

func appendFlattened(dst []*Element, child any) []*Element {
	switch v := child.(type) {
	case nil:
		return dst
	case bool:
		return dst
	case *Element:
		if v == nil {
			return dst
		}
		if v.Kind == KindFragment {
			for _, c := range v.Children {
				dst = appendFlattened(dst, c)
			}
			return dst
		}
		return append(dst, v)
	case []*Element:
		for _, c := range v {
			dst = appendFlattened(dst, c)
		}
		return dst
	case []any:
		for _, c := range v {
			dst = appendFlattened(dst, c)
		}
		return dst
	case string:
		return append(dst, Text(v))
	case reactive.TextCell:
		return append(dst, Live(v))
	case Component:
		return append(dst, Comp(v))
	case func(Props) any:
		return append(dst, Comp(v))
	case int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		float32, float64:
		return append(dst, Text(fmt.Sprint(v)))
	default:
		return append(dst, Text(fmt.Sprint(v)))
	}
}
