package dom

// Node is an opaque handle to a host tree node. Implementations must use
// comparable values (typically pointers) so nodes can key side tables.
type Node interface {
	// IsText reports whether this node is a text node.
	IsText() bool
}

// Event is delivered to handlers registered via Adapter.AddEventListener.
type Event struct {
	Type   string
	Target Node
	Data   map[string]any
}

// EventHandler handles a host event.
type EventHandler func(Event)

// Adapter is the mutation surface of a host tree.
//
// The operation set mirrors what the reconciler needs and nothing more:
// create, set text, set/remove attribute, register events, and move nodes
// between parents. Adapters carry no tree-diffing logic of their own.
type Adapter interface {
	// CreateElement creates a detached element node with the given tag.
	CreateElement(tag string) Node

	// CreateText creates a detached text node with the given payload.
	CreateText(text string) Node

	// TagName returns the element tag, or "" for text nodes.
	TagName(n Node) string

	// Text returns the text payload of a text node.
	Text(n Node) string

	// SetText updates the payload of a text node in place.
	SetText(n Node, text string)

	// SetAttribute sets or overwrites an attribute.
	SetAttribute(n Node, key, value string)

	// RemoveAttribute removes an attribute if present.
	RemoveAttribute(n Node, key string)

	// Attribute returns the attribute value and whether it is set.
	Attribute(n Node, key string) (string, bool)

	// AddEventListener registers a handler for the given event type and
	// returns a function that removes exactly that registration.
	AddEventListener(n Node, event string, h EventHandler) (remove func())

	// AppendChild appends child as the last child of parent.
	AppendChild(parent, child Node)

	// InsertBefore inserts child before ref. A nil ref appends.
	InsertBefore(parent, child, ref Node)

	// RemoveChild detaches child from parent.
	RemoveChild(parent, child Node)

	// ReplaceChild swaps oldChild for newChild under parent.
	ReplaceChild(parent, newChild, oldChild Node)

	// Parent returns the parent node, or nil for detached/root nodes.
	Parent(n Node) Node

	// ChildCount returns the number of children of n.
	ChildCount(n Node) int

	// ChildAt returns the i-th child of n, or nil if out of range.
	ChildAt(n Node, i int) Node
}
