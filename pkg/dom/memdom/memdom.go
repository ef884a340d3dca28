// Package memdom is an in-memory implementation of the dom.Adapter host
// tree. It backs tests, the dev preview server, and the CLI render command.
//
// Every node gets a sequential ID ("n1", "n2", ...) so external callers —
// the dev server's event round-trip in particular — can address nodes
// without holding Go references to them. The document also counts tree
// mutations, which the reconciler's idempotence tests rely on.
package memdom

import (
	"fmt"
	"sync/atomic"

	"github.com/lumen-ui/lumen/pkg/dom"
)

// Document owns a tree of in-memory nodes and implements dom.Adapter.
type Document struct {
	// Root is the mount target, a detached "body" element.
	Root *Node

	counter   atomic.Uint32
	mutations atomic.Uint64
	byID      map[string]*Node
}

// NewDocument creates an empty document with a fresh root element.
func NewDocument() *Document {
	d := &Document{byID: make(map[string]*Node)}
	d.Root = d.newNode(false, "body", "")
	return d
}

// Node is a single in-memory host node.
type Node struct {
	doc  *Document
	id   string
	text bool

	tag      string
	textData string
	attrs    map[string]string
	parent   *Node
	children []*Node

	handlers map[string][]*handlerEntry
}

type handlerEntry struct {
	seq uint32
	fn  dom.EventHandler
}

// IsText implements dom.Node.
func (n *Node) IsText() bool { return n.text }

// ID returns the node's document-unique identifier.
func (n *Node) ID() string { return n.id }

func (d *Document) newNode(text bool, tag, payload string) *Node {
	n := &Node{
		doc:      d,
		id:       fmt.Sprintf("n%d", d.counter.Add(1)),
		text:     text,
		tag:      tag,
		textData: payload,
	}
	d.byID[n.id] = n
	return n
}

// NodeByID resolves a node by its identifier, or nil if unknown.
func (d *Document) NodeByID(id string) *Node {
	return d.byID[id]
}

// Mutations returns the number of tree mutations performed so far.
// Node creation does not count; only changes to attached state do.
func (d *Document) Mutations() uint64 { return d.mutations.Load() }

// ResetMutations zeroes the mutation counter.
func (d *Document) ResetMutations() { d.mutations.Store(0) }

func (d *Document) mutate() { d.mutations.Add(1) }

func asNode(n dom.Node) *Node {
	if n == nil {
		return nil
	}
	return n.(*Node)
}

// CreateElement implements dom.Adapter.
func (d *Document) CreateElement(tag string) dom.Node {
	return d.newNode(false, tag, "")
}

// CreateText implements dom.Adapter.
func (d *Document) CreateText(text string) dom.Node {
	return d.newNode(true, "", text)
}

// TagName implements dom.Adapter.
func (d *Document) TagName(n dom.Node) string { return asNode(n).tag }

// Text implements dom.Adapter.
func (d *Document) Text(n dom.Node) string { return asNode(n).textData }

// SetText implements dom.Adapter.
func (d *Document) SetText(n dom.Node, text string) {
	node := asNode(n)
	if node.textData == text {
		return
	}
	node.textData = text
	d.mutate()
}

// SetAttribute implements dom.Adapter.
func (d *Document) SetAttribute(n dom.Node, key, value string) {
	node := asNode(n)
	if node.attrs == nil {
		node.attrs = make(map[string]string)
	}
	if old, ok := node.attrs[key]; ok && old == value {
		return
	}
	node.attrs[key] = value
	d.mutate()
}

// RemoveAttribute implements dom.Adapter.
func (d *Document) RemoveAttribute(n dom.Node, key string) {
	node := asNode(n)
	if _, ok := node.attrs[key]; !ok {
		return
	}
	delete(node.attrs, key)
	d.mutate()
}

// Attribute implements dom.Adapter.
func (d *Document) Attribute(n dom.Node, key string) (string, bool) {
	v, ok := asNode(n).attrs[key]
	return v, ok
}

// AddEventListener implements dom.Adapter.
func (d *Document) AddEventListener(n dom.Node, event string, h dom.EventHandler) func() {
	node := asNode(n)
	if node.handlers == nil {
		node.handlers = make(map[string][]*handlerEntry)
	}
	entry := &handlerEntry{seq: d.counter.Add(1), fn: h}
	node.handlers[event] = append(node.handlers[event], entry)

	return func() {
		list := node.handlers[event]
		for i, e := range list {
			if e == entry {
				node.handlers[event] = append(list[:i], list[i+1:]...)
				return
			}
		}
	}
}

// HandlerCount returns the number of handlers registered for an event type.
func (n *Node) HandlerCount(event string) int {
	return len(n.handlers[event])
}

// Fire synchronously delivers an event to every handler registered on the
// node for the given type. Handlers are invoked against a snapshot so a
// handler that unregisters itself cannot disturb the iteration.
func (n *Node) Fire(event string, data map[string]any) {
	list := n.handlers[event]
	snapshot := make([]*handlerEntry, len(list))
	copy(snapshot, list)

	evt := dom.Event{Type: event, Target: n, Data: data}
	for _, e := range snapshot {
		e.fn(evt)
	}
}

// AppendChild implements dom.Adapter.
func (d *Document) AppendChild(parent, child dom.Node) {
	d.InsertBefore(parent, child, nil)
}

// InsertBefore implements dom.Adapter.
func (d *Document) InsertBefore(parent, child, ref dom.Node) {
	p, c, r := asNode(parent), asNode(child), asNode(ref)
	if c.parent != nil {
		c.parent.detach(c)
	}
	if r == nil {
		p.children = append(p.children, c)
	} else {
		idx := p.indexOf(r)
		if idx < 0 {
			p.children = append(p.children, c)
		} else {
			p.children = append(p.children, nil)
			copy(p.children[idx+1:], p.children[idx:])
			p.children[idx] = c
		}
	}
	c.parent = p
	d.mutate()
}

// RemoveChild implements dom.Adapter.
func (d *Document) RemoveChild(parent, child dom.Node) {
	p, c := asNode(parent), asNode(child)
	if p.detach(c) {
		d.mutate()
	}
}

// ReplaceChild implements dom.Adapter.
func (d *Document) ReplaceChild(parent, newChild, oldChild dom.Node) {
	p, nw, old := asNode(parent), asNode(newChild), asNode(oldChild)
	idx := p.indexOf(old)
	if idx < 0 {
		return
	}
	if nw.parent != nil {
		nw.parent.detach(nw)
	}
	p.children[idx] = nw
	nw.parent = p
	old.parent = nil
	d.mutate()
}

// Parent implements dom.Adapter.
func (d *Document) Parent(n dom.Node) dom.Node {
	p := asNode(n).parent
	if p == nil {
		return nil
	}
	return p
}

// ChildCount implements dom.Adapter.
func (d *Document) ChildCount(n dom.Node) int { return len(asNode(n).children) }

// ChildAt implements dom.Adapter.
func (d *Document) ChildAt(n dom.Node, i int) dom.Node {
	node := asNode(n)
	if i < 0 || i >= len(node.children) {
		return nil
	}
	return node.children[i]
}

func (n *Node) indexOf(child *Node) int {
	for i, c := range n.children {
		if c == child {
			return i
		}
	}
	return -1
}

func (n *Node) detach(child *Node) bool {
	idx := n.indexOf(child)
	if idx < 0 {
		return false
	}
	n.children = append(n.children[:idx], n.children[idx+1:]...)
	child.parent = nil
	return true
}

var _ dom.Adapter = (*Document)(nil)
