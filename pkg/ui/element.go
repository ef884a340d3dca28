package ui

import (
	"fmt"
	"reflect"

	"github.com/lumen-ui/lumen/pkg/reactive"
)

// Kind is the element type discriminator.
type Kind uint8

const (
	KindElement   Kind = iota // host element, e.g. <div>
	KindText                  // plain text leaf
	KindFragment              // grouping without a wrapper; flattened away
	KindComponent             // function component
	KindLive                  // reactive cell bound directly as a text leaf
)

// String returns the string representation of the Kind.
func (k Kind) String() string {
	switch k {
	case KindElement:
		return "Element"
	case KindText:
		return "Text"
	case KindFragment:
		return "Fragment"
	case KindComponent:
		return "Component"
	case KindLive:
		return "Live"
	default:
		return "Unknown"
	}
}

// Props holds element properties and event handlers. Handler props use the
// "on" prefix ("onclick", "oninput", ...).
type Props map[string]any

// PropChildren is the reserved props key under which a component function
// receives its element's flattened children.
const PropChildren = "children"

// PropKey is the props key carrying the reconciliation identity key.
const PropKey = "key"

// Component is a function component. It receives the element's props
// (never nil; children under PropChildren) and returns the subtree to
// render: an *Element, a text scalar, a []any fragment, nil, or a
// *Deferred for asynchronous rendering.
type Component func(props Props) any

// Element is the immutable description of desired structure.
type Element struct {
	Kind     Kind
	Tag      string            // host tag for KindElement
	Fn       Component         // for KindComponent
	Props    Props             // nil means no props
	Children []any             // raw child list; flattened at patch time
	Key      string            // reconciliation key
	Text     string            // for KindText
	Cell     reactive.TextCell // for KindLive

	fnID uintptr
}

// Attr is a single property, usable inline in constructor argument lists.
type Attr struct {
	Key   string
	Value any
}

// El constructs a host element. Args may be Props maps and Attr values
// (merged into the element's props) or children of any supported child
// form; everything else is recorded as a child.
func El(tag string, args ...any) *Element {
	e := &Element{Kind: KindElement, Tag: tag}
	collectArgs(e, args)
	return e
}

// Comp constructs a component element. Construction only records intent;
// fn runs when the element is mounted or patched.
func Comp(fn Component, args ...any) *Element {
	e := &Element{
		Kind: KindComponent,
		Fn:   fn,
		fnID: reflect.ValueOf(fn).Pointer(),
	}
	collectArgs(e, args)
	return e
}

// Text creates a text leaf.
func Text(content string) *Element {
	return &Element{Kind: KindText, Text: content}
}

// Textf creates a formatted text leaf.
func Textf(format string, args ...any) *Element {
	return Text(fmt.Sprintf(format, args...))
}

// Fragment groups children without a wrapper element. Fragments never
// survive to diffing; flattening splices their children inline.
func Fragment(children ...any) *Element {
	return &Element{Kind: KindFragment, Children: children}
}

// Live binds a reactive cell directly as a text leaf. Writes to the cell
// update the host node in place without tree diffing.
func Live(cell reactive.TextCell) *Element {
	return &Element{Kind: KindLive, Cell: cell}
}

func collectArgs(e *Element, args []any) {
	for _, arg := range args {
		switch v := arg.(type) {
		case Props:
			for k, val := range v {
				e.setProp(k, val)
			}
		case Attr:
			if v.Key != "" {
				e.setProp(v.Key, v.Value)
			}
		default:
			e.Children = append(e.Children, arg)
		}
	}
}

func (e *Element) setProp(key string, value any) {
	if key == PropKey {
		e.Key = fmt.Sprintf("%v", value)
		return
	}
	if e.Props == nil {
		e.Props = make(Props)
	}
	e.Props[key] = value
}

// FnID returns the component function identity used for patch-time
// equality. Zero for non-component elements.
func (e *Element) FnID() uintptr { return e.fnID }

// SameTag reports whether two elements match as a diffable type: string
// identity for host tags, function identity for components.
func SameTag(a, b *Element) bool {
	if a.Kind != b.Kind {
		return false
	}
	switch a.Kind {
	case KindElement:
		return a.Tag == b.Tag
	case KindComponent:
		return a.fnID == b.fnID
	default:
		return true
	}
}

// IsTextLike reports whether the element renders as a host text leaf.
func (e *Element) IsTextLike() bool {
	return e.Kind == KindText || e.Kind == KindLive
}

// TextPayload returns the current text for text-like elements.
func (e *Element) TextPayload() string {
	if e.Kind == KindLive {
		return e.Cell.String()
	}
	return e.Text
}
